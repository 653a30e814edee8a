// Package gormstore implements the storage interfaces on top of GORM/MySQL.
package gormstore

import (
	"context"
	"errors"
	"fmt"

	"finapi/internal/domain"
	"finapi/internal/storage"

	"gorm.io/gorm"
)

// UserStore is the MySQL-backed user repository.
type UserStore struct {
	db *gorm.DB
}

// NewUserStore returns a UserStore using the given GORM handle.
func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *UserStore) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

func (s *UserStore) List(ctx context.Context, offset, limit int) ([]domain.User, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&domain.User{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	var users []domain.User
	if err := s.db.WithContext(ctx).Order("created_at asc").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

// StatementStore is the MySQL-backed ledger repository.
type StatementStore struct {
	db *gorm.DB
}

// NewStatementStore returns a StatementStore using the given GORM handle.
func NewStatementStore(db *gorm.DB) *StatementStore {
	return &StatementStore{db: db}
}

func (s *StatementStore) Insert(ctx context.Context, stmt *domain.Statement) error {
	if err := s.db.WithContext(ctx).Create(stmt).Error; err != nil {
		return fmt.Errorf("insert statement: %w", err)
	}
	return nil
}

// FindByID looks the entry up by id alone; ownership is not filtered here.
func (s *StatementStore) FindByID(ctx context.Context, id string) (*domain.Statement, error) {
	var stmt domain.Statement
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&stmt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrStatementNotFound
		}
		return nil, fmt.Errorf("find statement by id: %w", err)
	}
	return &stmt, nil
}

func (s *StatementStore) ListByUser(ctx context.Context, userID string) ([]domain.Statement, error) {
	var stmts []domain.Statement
	if err := s.db.WithContext(ctx).
		Where("user_id = ? OR sender_id = ?", userID, userID).
		Order("created_at asc").
		Find(&stmts).Error; err != nil {
		return nil, fmt.Errorf("list statements for user: %w", err)
	}
	return stmts, nil
}

func (s *StatementStore) List(ctx context.Context, offset, limit int) ([]domain.Statement, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&domain.Statement{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count statements: %w", err)
	}
	var stmts []domain.Statement
	if err := s.db.WithContext(ctx).Order("created_at desc").Offset(offset).Limit(limit).Find(&stmts).Error; err != nil {
		return nil, 0, fmt.Errorf("list statements: %w", err)
	}
	return stmts, total, nil
}

// Compile-time checks: both stores satisfy the storage interfaces.
var (
	_ storage.UserStore      = (*UserStore)(nil)
	_ storage.StatementStore = (*StatementStore)(nil)
)
