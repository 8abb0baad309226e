// internal/handler/response.go
package handler

import (
	"net/http"

	"finance-tracker/internal/domain"
	val "finance-tracker/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool                `json:"success"`
	Data    any                 `json:"data,omitempty"`
	Message string              `json:"message,omitempty"`
	Errors  []domain.FieldError `json:"errors,omitempty"`
}

// ListResponse adds paging information to the envelope.
type ListResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
	Total   int  `json:"total"`
	Page    int  `json:"page"`
	Pages   int  `json:"pages"`
	Data    any  `json:"data"`
}

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, Response{Success: true, Data: data})
}

func respondMessage(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Response{Success: true, Message: message, Data: data})
}

// bindJSON decodes the body into dst and validates it. On failure the error
// is queued for the error middleware and false is returned.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		_ = c.Error(domain.Invalid("body", "Invalid request body"))
		return false
	}
	if err := val.Struct(dst); err != nil {
		_ = c.Error(err)
		return false
	}
	return true
}

func bindQuery(c *gin.Context, dst any) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		_ = c.Error(domain.Invalid("query", "Invalid query parameters"))
		return false
	}
	if err := val.Struct(dst); err != nil {
		_ = c.Error(err)
		return false
	}
	return true
}

// pathID returns the :id parameter. Malformed ids cannot exist, so they are
// reported as missing records.
func pathID(c *gin.Context, what string) (string, bool) {
	id := c.Param("id")
	if err := uuid.Validate(id); err != nil {
		_ = c.Error(domain.NotFound(what))
		return "", false
	}
	return id, true
}

func noContent(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message})
}
