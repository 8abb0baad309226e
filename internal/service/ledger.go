// internal/service/ledger.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/storage"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Recomputer keeps budget spend in line with the ledger.
type Recomputer interface {
	Recompute(ctx context.Context, userID, categoryID string, ref time.Time) error
}

type LedgerService struct {
	store   storage.Store
	budgets Recomputer
	now     func() time.Time
}

func NewLedgerService(store storage.Store, budgets Recomputer) *LedgerService {
	return &LedgerService{store: store, budgets: budgets, now: utcNow}
}

type TransactionInput struct {
	Type          domain.TransactionType
	Amount        float64
	CategoryID    string
	Description   string
	Date          time.Time
	PaymentMethod domain.PaymentMethod
	Tags          []string
}

// TransactionPatch holds the fields to change; nil leaves a field as is.
type TransactionPatch struct {
	Type          *domain.TransactionType
	Amount        *float64
	CategoryID    *string
	Description   *string
	Date          *time.Time
	PaymentMethod *domain.PaymentMethod
	Tags          []string
}

type TransactionQuery struct {
	Type       domain.TransactionType
	CategoryID string
	Range      domain.DateRange
	Search     string
	Sort       storage.SortField
	Page       int
	Limit      int
}

type TransactionPage struct {
	Items []domain.Transaction
	Total int
	Page  int
	Pages int
}

func (s *LedgerService) List(ctx context.Context, userID string, q TransactionQuery) (*TransactionPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageSize
	}
	q.Limit = min(q.Limit, MaxPageSize)
	if q.Sort == "" {
		q.Sort = storage.SortDateDesc
	}

	items, total, err := s.store.ListTransactions(ctx, storage.TransactionFilter{
		UserID:     userID,
		Type:       q.Type,
		CategoryID: q.CategoryID,
		Range:      q.Range,
		Search:     q.Search,
		Sort:       q.Sort,
		Offset:     (q.Page - 1) * q.Limit,
		Limit:      q.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	if err := s.attachCategories(ctx, userID, items); err != nil {
		return nil, err
	}

	return &TransactionPage{
		Items: items,
		Total: total,
		Page:  q.Page,
		Pages: (total + q.Limit - 1) / q.Limit,
	}, nil
}

// All returns every matching transaction, newest first. Used by exports.
func (s *LedgerService) All(ctx context.Context, userID string, q TransactionQuery) ([]domain.Transaction, error) {
	items, _, err := s.store.ListTransactions(ctx, storage.TransactionFilter{
		UserID:     userID,
		Type:       q.Type,
		CategoryID: q.CategoryID,
		Range:      q.Range,
		Search:     q.Search,
		Sort:       storage.SortDateDesc,
	})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	if err := s.attachCategories(ctx, userID, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *LedgerService) Get(ctx context.Context, userID, id string) (*domain.Transaction, error) {
	tx, err := s.store.GetTransaction(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	category, err := s.store.GetCategory(ctx, userID, tx.CategoryID)
	if err == nil {
		tx.Category = category.Ref()
	}
	return tx, nil
}

func (s *LedgerService) Create(ctx context.Context, userID string, in TransactionInput) (*domain.Transaction, error) {
	tx := &domain.Transaction{
		UserID:        userID,
		Type:          in.Type,
		Amount:        cents(in.Amount),
		CategoryID:    in.CategoryID,
		Description:   in.Description,
		Date:          in.Date.UTC(),
		PaymentMethod: in.PaymentMethod,
		Tags:          in.Tags,
	}
	if in.Date.IsZero() {
		tx.Date = s.now()
	}
	if tx.PaymentMethod == "" {
		tx.PaymentMethod = domain.PaymentCash
	}
	if tx.Tags == nil {
		tx.Tags = []string{}
	}

	category, err := s.checkCategory(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	s.recompute(ctx, tx)

	slog.Info("transaction created", "user_id", userID, "transaction_id", tx.ID, "type", tx.Type)
	tx.Category = category.Ref()
	return tx, nil
}

func (s *LedgerService) Update(ctx context.Context, userID, id string, p TransactionPatch) (*domain.Transaction, error) {
	old, err := s.store.GetTransaction(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	tx := *old
	if p.Type != nil {
		tx.Type = *p.Type
	}
	if p.Amount != nil {
		tx.Amount = cents(*p.Amount)
	}
	if p.CategoryID != nil {
		tx.CategoryID = *p.CategoryID
	}
	if p.Description != nil {
		tx.Description = *p.Description
	}
	if p.Date != nil {
		tx.Date = p.Date.UTC()
	}
	if p.PaymentMethod != nil {
		tx.PaymentMethod = *p.PaymentMethod
	}
	if p.Tags != nil {
		tx.Tags = p.Tags
	}

	category, err := s.checkCategory(ctx, &tx)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateTransaction(ctx, &tx); err != nil {
		return nil, err
	}
	s.recompute(ctx, old, &tx)

	tx.Category = category.Ref()
	return &tx, nil
}

func (s *LedgerService) Delete(ctx context.Context, userID, id string) error {
	old, err := s.store.GetTransaction(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteTransaction(ctx, userID, id); err != nil {
		return err
	}
	s.recompute(ctx, old)

	slog.Info("transaction deleted", "user_id", userID, "transaction_id", id)
	return nil
}

// checkCategory makes sure the category belongs to the user and matches the
// transaction type.
func (s *LedgerService) checkCategory(ctx context.Context, tx *domain.Transaction) (*domain.Category, error) {
	if tx.Amount <= 0 {
		return nil, domain.Invalid("amount", "amount must be greater than 0")
	}
	category, err := s.store.GetCategory(ctx, tx.UserID, tx.CategoryID)
	if err != nil {
		return nil, err
	}
	if category.Type != tx.Type {
		return nil, domain.Invalid("categoryId", fmt.Sprintf("Category must be an %s category", tx.Type))
	}
	return category, nil
}

// budgetScope is the (category, month) a transaction contributes spend to.
type budgetScope struct {
	categoryID string
	year       int
	month      time.Month
}

// recompute refreshes the budgets touched by the given versions of a
// transaction. Income versions touch nothing; equal scopes run once.
// The ledger write already succeeded, so failures are only logged.
func (s *LedgerService) recompute(ctx context.Context, versions ...*domain.Transaction) {
	seen := make(map[budgetScope]bool, len(versions))
	for _, tx := range versions {
		if tx.Type != domain.TypeExpense {
			continue
		}
		d := tx.Date.UTC()
		scope := budgetScope{categoryID: tx.CategoryID, year: d.Year(), month: d.Month()}
		if seen[scope] {
			continue
		}
		seen[scope] = true

		ref := time.Date(scope.year, scope.month, 1, 0, 0, 0, 0, time.UTC)
		if err := s.budgets.Recompute(ctx, tx.UserID, scope.categoryID, ref); err != nil {
			slog.Error("budget recompute failed",
				"user_id", tx.UserID, "category_id", scope.categoryID, "month", ref.Format("2006-01"), "error", err)
		}
	}
}

func (s *LedgerService) attachCategories(ctx context.Context, userID string, txs []domain.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	index, err := categoryIndex(ctx, s.store, userID)
	if err != nil {
		return err
	}
	for i := range txs {
		txs[i].Category = refFor(index, txs[i].CategoryID)
	}
	return nil
}
