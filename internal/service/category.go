// internal/service/category.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/storage"
)

const (
	defaultCategoryIcon  = "📁"
	defaultCategoryColor = "#6B7280"
)

type CategoryService struct {
	store storage.Store
}

func NewCategoryService(store storage.Store) *CategoryService {
	return &CategoryService{store: store}
}

type CategoryInput struct {
	Name  string
	Type  domain.TransactionType
	Icon  string
	Color string
}

type CategoryPatch struct {
	Name  *string
	Type  *domain.TransactionType
	Icon  *string
	Color *string
}

func (s *CategoryService) List(ctx context.Context, userID string, typ domain.TransactionType) ([]domain.Category, error) {
	list, err := s.store.ListCategories(ctx, storage.CategoryFilter{UserID: userID, Type: typ})
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return list, nil
}

func (s *CategoryService) Get(ctx context.Context, userID, id string) (*domain.Category, error) {
	return s.store.GetCategory(ctx, userID, id)
}

func (s *CategoryService) Create(ctx context.Context, userID string, in CategoryInput) (*domain.Category, error) {
	c := &domain.Category{
		UserID: userID,
		Name:   strings.TrimSpace(in.Name),
		Type:   in.Type,
		Icon:   in.Icon,
		Color:  in.Color,
	}
	if c.Icon == "" {
		c.Icon = defaultCategoryIcon
	}
	if c.Color == "" {
		c.Color = defaultCategoryColor
	}

	if err := s.store.CreateCategories(ctx, []*domain.Category{c}); err != nil {
		return nil, err
	}
	slog.Info("category created", "user_id", userID, "category_id", c.ID)
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, userID, id string, p CategoryPatch) (*domain.Category, error) {
	c, err := s.store.GetCategory(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if p.Type != nil && *p.Type != c.Type {
		inUse, err := s.store.CountByCategory(ctx, userID, id)
		if err != nil {
			return nil, fmt.Errorf("check category usage: %w", err)
		}
		if inUse > 0 {
			return nil, domain.Conflict("type", "Cannot change the type of a category that is in use")
		}
		c.Type = *p.Type
	}
	if p.Name != nil {
		c.Name = strings.TrimSpace(*p.Name)
	}
	if p.Icon != nil {
		c.Icon = *p.Icon
	}
	if p.Color != nil {
		c.Color = *p.Color
	}

	if err := s.store.UpdateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) Delete(ctx context.Context, userID, id string) error {
	c, err := s.store.GetCategory(ctx, userID, id)
	if err != nil {
		return err
	}
	if c.IsDefault {
		return domain.Invalid("id", "Default categories cannot be deleted")
	}

	inUse, err := s.store.CountByCategory(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("check category usage: %w", err)
	}
	if inUse > 0 {
		return domain.Conflict("", "Category is used by transactions or budgets")
	}

	if err := s.store.DeleteCategory(ctx, userID, id); err != nil {
		return err
	}
	slog.Info("category deleted", "user_id", userID, "category_id", id)
	return nil
}

// seedDefaults gives a new account its own copy of the default categories.
func seedDefaults(ctx context.Context, store storage.CategoryStorage, userID string) error {
	categories := make([]*domain.Category, 0, len(domain.DefaultCategories))
	for _, d := range domain.DefaultCategories {
		c := d
		c.UserID = userID
		c.IsDefault = true
		categories = append(categories, &c)
	}
	if err := store.CreateCategories(ctx, categories); err != nil {
		return fmt.Errorf("seed default categories: %w", err)
	}
	return nil
}
