// internal/service/service.go
package service

import (
	"context"
	"fmt"
	"time"

	"finance-tracker/internal/auth"
	"finance-tracker/internal/domain"
	"finance-tracker/internal/storage"

	"github.com/shopspring/decimal"
)

// Services bundles the domain services the API layer talks to.
type Services struct {
	Auth       *AuthService
	Categories *CategoryService
	Ledger     *LedgerService
	Budgets    *BudgetService
	Dashboard  *DashboardService
	Settings   *SettingsService
}

func New(store storage.Store, tokens *auth.TokenService) *Services {
	budgets := NewBudgetService(store)
	return &Services{
		Auth:       NewAuthService(store, tokens),
		Categories: NewCategoryService(store),
		Ledger:     NewLedgerService(store, budgets),
		Budgets:    budgets,
		Dashboard:  NewDashboardService(store),
		Settings:   NewSettingsService(store),
	}
}

func utcNow() time.Time { return time.Now().UTC() }

// cents rounds an amount to whole cents, half away from zero.
func cents(amount float64) float64 {
	return decimal.NewFromFloat(amount).Round(2).InexactFloat64()
}

// categoryIndex loads every category of the user keyed by id.
func categoryIndex(ctx context.Context, store storage.CategoryStorage, userID string) (map[string]domain.Category, error) {
	list, err := store.ListCategories(ctx, storage.CategoryFilter{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	index := make(map[string]domain.Category, len(list))
	for _, c := range list {
		index[c.ID] = c
	}
	return index, nil
}

func refFor(index map[string]domain.Category, id string) *domain.CategoryRef {
	if c, ok := index[id]; ok {
		return c.Ref()
	}
	return nil
}
