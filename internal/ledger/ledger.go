// Package ledger implements the bookkeeping use cases: recording deposits,
// withdrawals and transfers as immutable ledger entries, deriving balances
// by folding those entries, and fetching single entries for display.
package ledger

import (
	"context"
	"sync"
	"time"

	"finapi/internal/domain"
	"finapi/internal/events"
	"finapi/internal/storage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Ledger wires the user and statement stores together with the event
// publisher. A per-user mutex map serializes the balance-check-then-insert
// sequence so two concurrent withdrawals cannot both pass the funds check.
type Ledger struct {
	users      storage.UserStore
	statements storage.StatementStore
	publisher  events.Publisher

	muMap map[string]*sync.Mutex // one lock per user id
	mapMu sync.Mutex             // protects muMap itself
}

// NewLedger creates a Ledger on top of the given stores and publisher.
func NewLedger(users storage.UserStore, statements storage.StatementStore, publisher events.Publisher) *Ledger {
	return &Ledger{
		users:      users,
		statements: statements,
		publisher:  publisher,
		muMap:      make(map[string]*sync.Mutex),
	}
}

// Balance holds a user's derived balance together with the entries it was
// folded from, in insertion order.
type Balance struct {
	Balance   decimal.Decimal    `json:"balance"`
	Statement []domain.Statement `json:"statement"`
}

func (l *Ledger) userLock(userID string) *sync.Mutex {
	l.mapMu.Lock()
	defer l.mapMu.Unlock()
	if _, ok := l.muMap[userID]; !ok {
		l.muMap[userID] = &sync.Mutex{}
	}
	return l.muMap[userID]
}

// Deposit appends a credit entry for the user. Deposits need no funds check.
func (l *Ledger) Deposit(ctx context.Context, userID string, amount decimal.Decimal, description string) (*domain.Statement, error) {
	if err := l.validAmount(amount); err != nil {
		return nil, err
	}
	if _, err := l.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	mu := l.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	return l.append(ctx, domain.Statement{
		UserID:      userID,
		Description: description,
		Amount:      amount,
		Type:        domain.Deposit,
	})
}

// Withdraw appends a debit entry for the user after checking that the
// current balance covers the amount. The lock is held across the check and
// the insert.
func (l *Ledger) Withdraw(ctx context.Context, userID string, amount decimal.Decimal, description string) (*domain.Statement, error) {
	if err := l.validAmount(amount); err != nil {
		return nil, err
	}
	if _, err := l.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	mu := l.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	balance, err := l.fold(ctx, userID)
	if err != nil {
		return nil, err
	}
	if amount.GreaterThan(balance) {
		return nil, domain.ErrInsufficientFunds
	}

	return l.append(ctx, domain.Statement{
		UserID:      userID,
		Description: description,
		Amount:      amount,
		Type:        domain.Withdraw,
	})
}

// Transfer moves amount from the sender to the recipient as a single ledger
// row recorded from the recipient's perspective (UserID=recipient,
// SenderID=sender). Both user locks are taken in id order to avoid
// deadlocks, then the sender's balance is checked before the insert.
func (l *Ledger) Transfer(ctx context.Context, senderID, recipientID string, amount decimal.Decimal, description string) (*domain.Statement, error) {
	if err := l.validAmount(amount); err != nil {
		return nil, err
	}
	if senderID == recipientID {
		return nil, domain.ErrSameUser
	}
	if _, err := l.users.FindByID(ctx, senderID); err != nil {
		return nil, err
	}
	if _, err := l.users.FindByID(ctx, recipientID); err != nil {
		return nil, err
	}

	senderMu := l.userLock(senderID)
	recipientMu := l.userLock(recipientID)
	if senderID < recipientID {
		senderMu.Lock()
		recipientMu.Lock()
	} else {
		recipientMu.Lock()
		senderMu.Lock()
	}
	defer senderMu.Unlock()
	defer recipientMu.Unlock()

	balance, err := l.fold(ctx, senderID)
	if err != nil {
		return nil, err
	}
	if amount.GreaterThan(balance) {
		return nil, domain.ErrInsufficientFunds
	}

	return l.append(ctx, domain.Statement{
		UserID:      recipientID,
		SenderID:    &senderID,
		Description: description,
		Amount:      amount,
		Type:        domain.Transfer,
	})
}

// GetBalance derives the user's balance and returns it with the entries it
// was computed from. Read-only.
func (l *Ledger) GetBalance(ctx context.Context, userID string) (*Balance, error) {
	if _, err := l.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	entries, err := l.statements.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	balance := decimal.Zero
	for _, e := range entries {
		if e.Credits(userID) {
			balance = balance.Add(e.Amount)
		} else {
			balance = balance.Sub(e.Amount)
		}
	}
	if entries == nil {
		entries = []domain.Statement{}
	}
	return &Balance{Balance: balance, Statement: entries}, nil
}

// GetStatementOperation fetches a single ledger entry by id. The lookup is
// by id alone; the user id is only checked for existence.
func (l *Ledger) GetStatementOperation(ctx context.Context, userID, statementID string) (*domain.Statement, error) {
	if _, err := l.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	return l.statements.FindByID(ctx, statementID)
}

// fold recomputes the balance without re-checking user existence; callers
// hold the relevant user lock.
func (l *Ledger) fold(ctx context.Context, userID string) (decimal.Decimal, error) {
	entries, err := l.statements.ListByUser(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	balance := decimal.Zero
	for _, e := range entries {
		if e.Credits(userID) {
			balance = balance.Add(e.Amount)
		} else {
			balance = balance.Sub(e.Amount)
		}
	}
	return balance, nil
}

func (l *Ledger) validAmount(amount decimal.Decimal) error {
	if amount.Cmp(decimal.Zero) <= 0 {
		return domain.ErrInvalidAmount
	}
	return nil
}

// append stamps id and timestamp, persists the entry, logs the movement and
// publishes a StatementCreated event. Publish failures are logged, not
// propagated — the entry is already durable.
func (l *Ledger) append(ctx context.Context, stmt domain.Statement) (*domain.Statement, error) {
	stmt.ID = uuid.NewString()
	stmt.CreatedAt = time.Now()
	if err := l.statements.Insert(ctx, &stmt); err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": stmt.UserID,
			"type":    stmt.Type,
			"amount":  stmt.Amount,
			"error":   err.Error(),
		}).Error("Failed to record statement")
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"statement_id": stmt.ID,
		"user_id":      stmt.UserID,
		"type":         stmt.Type,
		"amount":       stmt.Amount,
	}).Info("Statement recorded")

	if err := l.publisher.Publish(events.TopicStatementCreated, events.StatementCreated{
		StatementID: stmt.ID,
		UserID:      stmt.UserID,
		SenderID:    stmt.SenderID,
		Type:        string(stmt.Type),
		Amount:      stmt.Amount,
		OccurredAt:  stmt.CreatedAt,
	}); err != nil {
		logrus.WithFields(logrus.Fields{
			"statement_id": stmt.ID,
			"error":        err.Error(),
		}).Warn("Failed to publish statement event")
	}

	return &stmt, nil
}
