// internal/service/budget.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/storage"
)

type BudgetService struct {
	store storage.Store
	now   func() time.Time
}

func NewBudgetService(store storage.Store) *BudgetService {
	return &BudgetService{store: store, now: utcNow}
}

type BudgetInput struct {
	CategoryID     string
	Amount         float64
	Period         domain.BudgetPeriod
	Month          *int
	Year           int
	AlertThreshold *int
}

// BudgetPatch holds the fields to change; nil leaves a field as is.
type BudgetPatch struct {
	CategoryID     *string
	Amount         *float64
	Period         *domain.BudgetPeriod
	Month          *int
	Year           *int
	AlertThreshold *int
}

type BudgetQuery struct {
	Period domain.BudgetPeriod
	Month  int
	Year   int
}

// Recompute refreshes the spent value of the monthly budget covering ref
// and of the yearly budget for ref's year. Missing budgets are skipped.
func (s *BudgetService) Recompute(ctx context.Context, userID, categoryID string, ref time.Time) error {
	ref = ref.UTC()
	keys := []domain.BudgetKey{
		{UserID: userID, CategoryID: categoryID, Period: domain.PeriodMonthly, Month: int(ref.Month()), Year: ref.Year()},
		{UserID: userID, CategoryID: categoryID, Period: domain.PeriodYearly, Year: ref.Year()},
	}

	var errs []error
	for _, key := range keys {
		b, err := s.store.FindBudget(ctx, key)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("find %s budget: %w", key.Period, err))
			continue
		}
		if err := s.refresh(ctx, b); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// refresh derives spent from the ledger and persists it when it moved.
func (s *BudgetService) refresh(ctx context.Context, b *domain.Budget) error {
	spent, err := s.store.SumTransactions(ctx, storage.TransactionFilter{
		UserID:     b.UserID,
		Type:       domain.TypeExpense,
		CategoryID: b.CategoryID,
		Range:      b.Range(),
	})
	if err != nil {
		return fmt.Errorf("sum budget spending: %w", err)
	}
	if spent == b.Spent {
		return nil
	}

	if err := s.store.SetBudgetSpent(ctx, b.ID, spent, s.now()); err != nil {
		return fmt.Errorf("save budget spent: %w", err)
	}
	slog.Debug("budget spent recomputed", "budget_id", b.ID, "category_id", b.CategoryID, "spent", spent)
	b.Spent = spent
	return nil
}

// repair is the read-side counterpart of Recompute. Failures are logged and
// the stored value is served.
func (s *BudgetService) repair(ctx context.Context, b *domain.Budget) {
	if err := s.refresh(ctx, b); err != nil {
		slog.Warn("budget read repair failed", "budget_id", b.ID, "error", err)
	}
}

func (s *BudgetService) List(ctx context.Context, userID string, q BudgetQuery) ([]domain.Budget, error) {
	budgets, err := s.store.ListBudgets(ctx, storage.BudgetFilter{
		UserID: userID,
		Period: q.Period,
		Month:  q.Month,
		Year:   q.Year,
	})
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return s.decorate(ctx, userID, budgets)
}

func (s *BudgetService) Get(ctx context.Context, userID, id string) (*domain.Budget, error) {
	b, err := s.store.GetBudget(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	out, err := s.decorate(ctx, userID, []domain.Budget{*b})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// Alerts returns current-period budgets that are near their limit or over it.
func (s *BudgetService) Alerts(ctx context.Context, userID string) ([]domain.Budget, error) {
	now := s.now()
	all, err := s.store.ListBudgets(ctx, storage.BudgetFilter{UserID: userID, Year: now.Year()})
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}

	current := make([]domain.Budget, 0, len(all))
	for _, b := range all {
		if b.Period == domain.PeriodYearly || b.MonthValue() == int(now.Month()) {
			current = append(current, b)
		}
	}

	current, err = s.decorate(ctx, userID, current)
	if err != nil {
		return nil, err
	}

	alerts := make([]domain.Budget, 0)
	for _, b := range current {
		if b.IsOverBudget() || b.IsNearLimit() {
			alerts = append(alerts, b)
		}
	}
	return alerts, nil
}

func (s *BudgetService) Create(ctx context.Context, userID string, in BudgetInput) (*domain.Budget, error) {
	b := &domain.Budget{
		UserID:         userID,
		CategoryID:     in.CategoryID,
		Amount:         cents(in.Amount),
		Period:         in.Period,
		Month:          in.Month,
		Year:           in.Year,
		AlertThreshold: domain.DefaultAlertThreshold,
	}
	if in.AlertThreshold != nil {
		b.AlertThreshold = *in.AlertThreshold
	}
	if b.Period == domain.PeriodYearly {
		b.Month = nil
	}

	category, err := s.checkBudget(ctx, b)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateBudget(ctx, b); err != nil {
		return nil, err
	}
	if err := s.refresh(ctx, b); err != nil {
		slog.Error("initial budget recompute failed", "budget_id", b.ID, "error", err)
	}

	slog.Info("budget created", "user_id", userID, "budget_id", b.ID, "category_id", b.CategoryID)
	b.Category = category.Ref()
	return b, nil
}

func (s *BudgetService) Update(ctx context.Context, userID, id string, p BudgetPatch) (*domain.Budget, error) {
	b, err := s.store.GetBudget(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	oldKey := b.Key()

	if p.CategoryID != nil {
		b.CategoryID = *p.CategoryID
	}
	if p.Amount != nil {
		b.Amount = cents(*p.Amount)
	}
	if p.Period != nil {
		b.Period = *p.Period
	}
	if p.Month != nil {
		b.Month = p.Month
	}
	if p.Year != nil {
		b.Year = *p.Year
	}
	if p.AlertThreshold != nil {
		b.AlertThreshold = *p.AlertThreshold
	}
	if b.Period == domain.PeriodYearly {
		b.Month = nil
	}

	category, err := s.checkBudget(ctx, b)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateBudget(ctx, b); err != nil {
		return nil, err
	}
	if b.Key() != oldKey {
		if err := s.refresh(ctx, b); err != nil {
			slog.Error("budget recompute after scope change failed", "budget_id", b.ID, "error", err)
		}
	}

	b.Category = category.Ref()
	return b, nil
}

func (s *BudgetService) Delete(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteBudget(ctx, userID, id); err != nil {
		return err
	}
	slog.Info("budget deleted", "user_id", userID, "budget_id", id)
	return nil
}

// checkBudget enforces the rules the request schema cannot express and
// returns the referenced category.
func (s *BudgetService) checkBudget(ctx context.Context, b *domain.Budget) (*domain.Category, error) {
	if b.Period == domain.PeriodMonthly && b.Month == nil {
		return nil, domain.Invalid("month", "month is required for monthly budgets")
	}
	category, err := s.store.GetCategory(ctx, b.UserID, b.CategoryID)
	if err != nil {
		return nil, err
	}
	if category.Type != domain.TypeExpense {
		return nil, domain.Invalid("categoryId", "Budgets can only be set on expense categories")
	}
	return category, nil
}

// decorate read-repairs spent and attaches category summaries.
func (s *BudgetService) decorate(ctx context.Context, userID string, budgets []domain.Budget) ([]domain.Budget, error) {
	index, err := categoryIndex(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	for i := range budgets {
		s.repair(ctx, &budgets[i])
		budgets[i].Category = refFor(index, budgets[i].CategoryID)
	}
	return budgets, nil
}
