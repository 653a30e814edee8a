package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OperationType classifies a ledger entry.
type OperationType string

const (
	Deposit  OperationType = "deposit"
	Withdraw OperationType = "withdraw"
	Transfer OperationType = "transfer"
)

// Statement Model — one immutable ledger entry. The ledger is append-only:
// rows are never updated or deleted, and balance is derived by folding them.
//
// Amounts are always stored positive; Type decides whether a row credits or
// debits a given user. A transfer is a single row written from the
// recipient's perspective (UserID = recipient, SenderID = payer), read from
// both sides.
type Statement struct {
	ID          string          `gorm:"type:char(36);primaryKey" json:"id"`         // UUID primary key
	UserID      string          `gorm:"type:char(36);index;not null" json:"user_id"` // Owner of the entry (recipient for transfers)
	SenderID    *string         `gorm:"type:char(36);index" json:"sender_id"`        // Paying user, set only for transfers
	Description string          `gorm:"not null" json:"description"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"` // Always positive
	Type        OperationType   `gorm:"type:varchar(10);not null" json:"type"`     // deposit, withdraw or transfer
	CreatedAt   time.Time       `json:"created_at"`
}

// Credits reports whether this entry increases userID's balance; a transfer
// row credits its recipient and debits its sender.
func (s Statement) Credits(userID string) bool {
	switch s.Type {
	case Deposit:
		return true
	case Transfer:
		return s.UserID == userID
	default:
		return false
	}
}
