// internal/service/auth.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"finance-tracker/internal/auth"
	"finance-tracker/internal/domain"
	"finance-tracker/internal/storage"
)

// Both lookup and password failures report the same message.
const invalidCredentials = "Invalid credentials"

type AuthService struct {
	store  storage.Store
	tokens *auth.TokenService
}

func NewAuthService(store storage.Store, tokens *auth.TokenService) *AuthService {
	return &AuthService{store: store, tokens: tokens}
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
	Currency domain.Currency
}

// Session is a signed-in user together with its token.
type Session struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*Session, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	_, err := s.store.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, domain.Conflict("email", "Email already registered")
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		Currency:     in.Currency,
		Preferences:  map[string]any{},
	}
	if user.Currency == "" {
		user.Currency = domain.DefaultCurrency
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	if err := seedDefaults(ctx, s.store, user.ID); err != nil {
		// Не оставляем аккаунт без категорий
		if delErr := s.store.DeleteUser(ctx, user.ID); delErr != nil {
			slog.Error("rollback signup failed", "user_id", user.ID, "error", delErr)
		}
		return nil, err
	}

	slog.Info("user signed up", "user_id", user.ID)
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.store.GetUserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.Unauthorized(invalidCredentials)
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, domain.Unauthorized(invalidCredentials)
	}
	return s.issue(user)
}

// Authenticate resolves a token to its user. Any failure is unauthorized.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	userID, err := s.tokens.ParseToken(token)
	if err != nil {
		return nil, domain.Unauthorized("Not authorized, token failed")
	}
	user, err := s.store.GetUserByID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.Unauthorized("Not authorized, user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

func (s *AuthService) issue(user *domain.User) (*Session, error) {
	token, expiresAt, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &Session{User: user, Token: token, ExpiresAt: expiresAt}, nil
}
