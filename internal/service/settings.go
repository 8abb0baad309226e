// internal/service/settings.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"finance-tracker/internal/auth"
	"finance-tracker/internal/domain"
	"finance-tracker/internal/storage"
)

type SettingsService struct {
	store storage.Store
}

func NewSettingsService(store storage.Store) *SettingsService {
	return &SettingsService{store: store}
}

type ProfilePatch struct {
	Name     *string
	Email    *string
	Currency *domain.Currency
}

func (s *SettingsService) UpdateProfile(ctx context.Context, userID string, p ProfilePatch) (*domain.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		user.Name = strings.TrimSpace(*p.Name)
	}
	if p.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*p.Email))
	}
	if p.Currency != nil {
		user.Currency = *p.Currency
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *SettingsService) ChangePassword(ctx context.Context, userID, current, next string) error {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(current, user.PasswordHash) {
		return domain.Unauthorized("Current password is incorrect")
	}

	hash, err := auth.HashPassword(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = hash
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return err
	}
	slog.Info("password changed", "user_id", userID)
	return nil
}

// UpdatePreferences merges the given keys into the preference bag.
// A null value removes the key.
func (s *SettingsService) UpdatePreferences(ctx context.Context, userID string, prefs map[string]any) (*domain.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Preferences == nil {
		user.Preferences = make(map[string]any, len(prefs))
	}
	for k, v := range prefs {
		if v == nil {
			delete(user.Preferences, k)
			continue
		}
		user.Preferences[k] = v
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *SettingsService) DeleteAccount(ctx context.Context, userID, password string) error {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return domain.Unauthorized("Password is incorrect")
	}
	if err := s.store.DeleteUser(ctx, userID); err != nil {
		return err
	}
	slog.Info("account deleted", "user_id", userID)
	return nil
}
