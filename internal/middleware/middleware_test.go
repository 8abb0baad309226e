package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"finance-tracker/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAuth map[string]*domain.User

func (s stubAuth) Authenticate(_ context.Context, token string) (*domain.User, error) {
	if u, ok := s[token]; ok {
		return u, nil
	}
	return nil, domain.Unauthorized("Not authorized, token failed")
}

func newEngine(exposeInternal bool, handler gin.HandlerFunc, mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(), ErrorHandler(exposeInternal))
	r.GET("/x", append(mw, handler)...)
	return r
}

func decode(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestErrorHandlerStatuses(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", domain.Invalid("amount", "amount must be greater than 0"), http.StatusBadRequest, "Validation failed"},
		{"unauthorized", domain.Unauthorized("Invalid credentials"), http.StatusUnauthorized, "Invalid credentials"},
		{"not found", domain.NotFound("budget"), http.StatusNotFound, "budget not found"},
		{"wrapped not found", fmt.Errorf("load: %w", domain.NotFound("category")), http.StatusNotFound, "category not found"},
		{"conflict", domain.Conflict("email", "Email already registered"), http.StatusConflict, "Email already registered"},
		{"internal", errors.New("pool exhausted"), http.StatusInternalServerError, serverErrorMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newEngine(false, func(c *gin.Context) { _ = c.Error(tt.err) })
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

			assert.Equal(t, tt.status, w.Code)
			body := decode(t, w)
			assert.False(t, body.Success)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}

func TestErrorHandlerFieldErrors(t *testing.T) {
	r := newEngine(false, func(c *gin.Context) { _ = c.Error(domain.Conflict("email", "Email already registered")) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	body := decode(t, w)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, domain.FieldError{Field: "email", Message: "Email already registered"}, body.Errors[0])
}

func TestErrorHandlerExposesInternalsInDevelopment(t *testing.T) {
	r := newEngine(true, func(c *gin.Context) { _ = c.Error(errors.New("pool exhausted")) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "pool exhausted", decode(t, w).Message)
}

func TestRequireAuth(t *testing.T) {
	user := &domain.User{ID: "u1"}
	mw := NewAuthMiddleware(stubAuth{"good": user}).RequireAuth()
	r := newEngine(false, func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c)+"|"+CurrentUser(c).ID)
	}, mw)

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Authorization", "Bearer good")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "u1|u1", w.Body.String())
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: "good"})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("header wins over cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Authorization", "Bearer bad")
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: "good"})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Not authorized, no token", decode(t, w).Message)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Authorization", "Token good")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	r := newEngine(false, func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get(RequestIDHeader))
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS("http://localhost:5173"))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/x", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}
