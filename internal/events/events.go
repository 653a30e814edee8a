// Package events defines the outbound event contract for ledger activity.
package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Publisher delivers domain events to an external broker.
type Publisher interface {
	Publish(topic string, event any) error
}

// StatementCreated is emitted after every successful ledger append.
type StatementCreated struct {
	StatementID string          `json:"statement_id"`
	UserID      string          `json:"user_id"`
	SenderID    *string         `json:"sender_id,omitempty"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

// TopicStatementCreated is the topic StatementCreated events are published to.
const TopicStatementCreated = "statement_created"

// NoopPublisher discards events; used when no broker is configured and in tests.
type NoopPublisher struct{}

func (NoopPublisher) Publish(topic string, event any) error { return nil }

var _ Publisher = NoopPublisher{}
