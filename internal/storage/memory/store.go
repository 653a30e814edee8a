// Package memory provides in-memory implementations of the storage
// interfaces. Each store is an explicit object owning its own state — no
// package-level collections — and is safe for concurrent use.
package memory

import (
	"context"
	"strings"
	"sync"

	"finapi/internal/domain"
	"finapi/internal/storage"
)

// UserStore keeps user records in a map keyed by id.
type UserStore struct {
	mu    sync.Mutex
	users map[string]domain.User
	order []string // insertion order of ids
}

// NewUserStore creates an empty in-memory user store.
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]domain.User)}
}

func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return domain.ErrDuplicateEmail
		}
	}
	s.users[user.ID] = *user
	s.order = append(s.order, user.ID)
	return nil
}

func (s *UserStore) FindByID(ctx context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := u
	return &cp, nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			cp := u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *UserStore) List(ctx context.Context, offset, limit int) ([]domain.User, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := int64(len(s.order))
	var out []domain.User
	for i := offset; i < len(s.order) && len(out) < limit; i++ {
		out = append(out, s.users[s.order[i]])
	}
	return out, total, nil
}

// StatementStore keeps ledger entries in an append-only slice.
type StatementStore struct {
	mu      sync.Mutex
	entries []domain.Statement
}

// NewStatementStore creates an empty in-memory ledger.
func NewStatementStore() *StatementStore {
	return &StatementStore{entries: make([]domain.Statement, 0)}
}

func (s *StatementStore) Insert(ctx context.Context, stmt *domain.Statement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, *stmt)
	return nil
}

func (s *StatementStore) FindByID(ctx context.Context, id string) (*domain.Statement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.ID == id {
			cp := e
			return &cp, nil
		}
	}
	return nil, domain.ErrStatementNotFound
}

func (s *StatementStore) ListByUser(ctx context.Context, userID string) ([]domain.Statement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Statement
	for _, e := range s.entries {
		if e.UserID == userID || (e.SenderID != nil && *e.SenderID == userID) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *StatementStore) List(ctx context.Context, offset, limit int) ([]domain.Statement, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := int64(len(s.entries))
	var out []domain.Statement
	// Newest first, matching the SQL store.
	for i := len(s.entries) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.entries[i])
	}
	return out, total, nil
}

// Len reports the number of stored entries; used by tests to assert that
// failed operations leave the ledger untouched.
func (s *StatementStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Compile-time checks: both stores satisfy the storage interfaces.
var (
	_ storage.UserStore      = (*UserStore)(nil)
	_ storage.StatementStore = (*StatementStore)(nil)
)
