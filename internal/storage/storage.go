// Package storage defines the persistence contracts consumed by the ledger
// service and the API layer. Implementations live in the gormstore (MySQL)
// and memory subpackages.
package storage

import (
	"context"

	"finapi/internal/domain"
)

// UserStore holds user identity records.
type UserStore interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, offset, limit int) ([]domain.User, int64, error)
}

// StatementStore holds the append-only ledger. Insert is the only write;
// entries are never updated or deleted.
type StatementStore interface {
	Insert(ctx context.Context, stmt *domain.Statement) error
	FindByID(ctx context.Context, id string) (*domain.Statement, error)
	// ListByUser returns every entry visible to the user — rows it owns plus
	// transfer rows it paid for — in insertion order.
	ListByUser(ctx context.Context, userID string) ([]domain.Statement, error)
	List(ctx context.Context, offset, limit int) ([]domain.Statement, int64, error)
}
