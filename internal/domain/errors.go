package domain

import "errors"

// Domain errors returned by stores and the ledger service. The API layer
// maps them to HTTP statuses; none are fatal.
var (
	// ErrUserNotFound indicates that no user exists for the given id.
	ErrUserNotFound = errors.New("user not found")
	// ErrStatementNotFound indicates that no ledger entry exists for the given id.
	ErrStatementNotFound = errors.New("statement not found")
	// ErrInsufficientFunds indicates a withdraw or transfer exceeding the payer's balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrDuplicateEmail indicates a signup with an already registered email.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidCredentials indicates a failed email/password check.
	ErrInvalidCredentials = errors.New("incorrect email or password")
	// ErrInvalidAmount indicates a non-positive operation amount.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrSameUser indicates a transfer whose sender and recipient are the same user.
	ErrSameUser = errors.New("cannot transfer to yourself")
)
