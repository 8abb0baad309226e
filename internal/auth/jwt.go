// internal/auth/jwt.go
package auth

import (
	"errors"
	"log/slog"
	"time"

	"finance-tracker/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type TokenService struct {
	secretKey []byte
	expiresIn time.Duration
	now       func() time.Time
}

func NewTokenService(cfg config.Config) *TokenService {
	return &TokenService{
		secretKey: []byte(cfg.JWTSecret),
		expiresIn: cfg.JWTExpiresIn,
		now:       time.Now,
	}
}

// Генерация токена
func (s *TokenService) GenerateToken(userID string) (string, time.Time, error) {
	issuedAt := s.now()
	expTime := issuedAt.Add(s.expiresIn)
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expTime),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", time.Time{}, err
	}
	slog.Debug("JWT generated", "user_id", userID, "expires_at", expTime.Format(time.RFC3339))
	return tokenStr, expTime, nil
}

// Парсинг токена
func (s *TokenService) ParseToken(tokenStr string) (string, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secretKey, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return "", errors.Join(ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// ExpiresIn is the lifetime of newly issued tokens.
func (s *TokenService) ExpiresIn() time.Duration {
	return s.expiresIn
}
