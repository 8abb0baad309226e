// internal/middleware/errors.go
package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"finance-tracker/internal/domain"

	"github.com/gin-gonic/gin"
)

const serverErrorMessage = "Server Error"

type errorBody struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Errors  []domain.FieldError `json:"errors,omitempty"`
}

// ErrorHandler turns errors pushed with c.Error into the JSON envelope.
// Internal error text is only shown when exposeInternal is set.
func ErrorHandler(exposeInternal bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status, body := translate(err, exposeInternal)

		if status >= http.StatusInternalServerError {
			slog.Error("request failed", "method", c.Request.Method, "path", c.Request.URL.Path,
				"request_id", c.GetString(RequestIDKey), "error", err)
		}
		c.AbortWithStatusJSON(status, body)
	}
}

func translate(err error, exposeInternal bool) (int, errorBody) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, errorBody{Message: "Validation failed", Errors: verr.Fields}
	}

	var derr *domain.Error
	if errors.As(err, &derr) {
		body := errorBody{Message: derr.Message}
		if derr.Field != "" {
			body.Errors = []domain.FieldError{{Field: derr.Field, Message: derr.Message}}
		}
		return statusFor(derr.Kind), body
	}

	for _, kind := range []error{domain.ErrInvalidInput, domain.ErrUnauthorized, domain.ErrNotFound, domain.ErrConflict} {
		if errors.Is(err, kind) {
			return statusFor(kind), errorBody{Message: err.Error()}
		}
	}

	msg := serverErrorMessage
	if exposeInternal {
		msg = err.Error()
	}
	return http.StatusInternalServerError, errorBody{Message: msg}
}

func statusFor(kind error) int {
	switch kind {
	case domain.ErrInvalidInput:
		return http.StatusBadRequest
	case domain.ErrUnauthorized:
		return http.StatusUnauthorized
	case domain.ErrNotFound:
		return http.StatusNotFound
	case domain.ErrConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
