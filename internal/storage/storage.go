// internal/storage/storage.go
package storage

import (
	"context"
	"time"

	"finance-tracker/internal/domain"
)

// Implementations return errors wrapping domain.ErrNotFound for missing or
// foreign records and domain.ErrConflict for unique key violations.

type UserStorage interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	// DeleteUser removes the user and everything the user owns.
	DeleteUser(ctx context.Context, id string) error
}

type CategoryFilter struct {
	UserID string
	Type   domain.TransactionType
}

type CategoryStorage interface {
	CreateCategories(ctx context.Context, categories []*domain.Category) error
	GetCategory(ctx context.Context, userID, id string) (*domain.Category, error)
	ListCategories(ctx context.Context, filter CategoryFilter) ([]domain.Category, error)
	UpdateCategory(ctx context.Context, category *domain.Category) error
	DeleteCategory(ctx context.Context, userID, id string) error
}

type SortField string

const (
	SortDateDesc   SortField = "-date"
	SortDateAsc    SortField = "date"
	SortAmountDesc SortField = "-amount"
	SortAmountAsc  SortField = "amount"
)

// TransactionFilter selects ledger entries of one user. Zero values mean
// "no constraint"; Limit 0 returns every match.
type TransactionFilter struct {
	UserID     string
	Type       domain.TransactionType
	CategoryID string
	Range      domain.DateRange
	Search     string
	Sort       SortField
	Offset     int
	Limit      int
}

type TransactionStorage interface {
	CreateTransaction(ctx context.Context, tx *domain.Transaction) error
	GetTransaction(ctx context.Context, userID, id string) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, tx *domain.Transaction) error
	DeleteTransaction(ctx context.Context, userID, id string) error
	// ListTransactions returns one page of matches and the total match count.
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]domain.Transaction, int, error)
	// SumTransactions adds up the amounts of every match, ignoring paging.
	SumTransactions(ctx context.Context, filter TransactionFilter) (float64, error)
	CountByCategory(ctx context.Context, userID, categoryID string) (int, error)
}

type BudgetFilter struct {
	UserID     string
	CategoryID string
	Period     domain.BudgetPeriod
	Month      int
	Year       int
}

type BudgetStorage interface {
	CreateBudget(ctx context.Context, budget *domain.Budget) error
	GetBudget(ctx context.Context, userID, id string) (*domain.Budget, error)
	FindBudget(ctx context.Context, key domain.BudgetKey) (*domain.Budget, error)
	ListBudgets(ctx context.Context, filter BudgetFilter) ([]domain.Budget, error)
	UpdateBudget(ctx context.Context, budget *domain.Budget) error
	SetBudgetSpent(ctx context.Context, id string, spent float64, at time.Time) error
	DeleteBudget(ctx context.Context, userID, id string) error
}

// Store is everything the services need from persistence.
type Store interface {
	UserStorage
	CategoryStorage
	TransactionStorage
	BudgetStorage
	Ping(ctx context.Context) error
	Close()
}
