// internal/handler/transactions.go
package handler

import (
	"net/http"

	"finance-tracker/internal/middleware"

	"github.com/gin-gonic/gin"
)

// ListTransactions godoc
// @Summary List transactions
// @Tags transactions
// @Security BearerAuth
// @Param type query string false "income or expense"
// @Param category query string false "Category id"
// @Param startDate query string false "YYYY-MM-DD"
// @Param endDate query string false "YYYY-MM-DD, inclusive"
// @Param search query string false "Description substring"
// @Param sort query string false "date, -date, amount or -amount"
// @Param page query int false "Page, from 1"
// @Param limit query int false "Page size, up to 100"
// @Success 200 {object} ListResponse
// @Router /api/transactions [get]
func (h *Handler) ListTransactions(c *gin.Context) {
	var q TransactionQuery
	if !bindQuery(c, &q) {
		return
	}

	page, err := h.svc.Ledger.List(c.Request.Context(), middleware.UserID(c), q.toQuery())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{
		Success: true,
		Count:   len(page.Items),
		Total:   page.Total,
		Page:    page.Page,
		Pages:   page.Pages,
		Data:    page.Items,
	})
}

// GetTransaction godoc
// @Summary Get one transaction
// @Tags transactions
// @Security BearerAuth
// @Param id path string true "Transaction id"
// @Success 200 {object} Response{data=domain.Transaction}
// @Failure 404 {object} Response
// @Router /api/transactions/{id} [get]
func (h *Handler) GetTransaction(c *gin.Context) {
	id, ok := pathID(c, "transaction")
	if !ok {
		return
	}
	tx, err := h.svc.Ledger.Get(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, tx)
}

// CreateTransaction godoc
// @Summary Record a transaction
// @Description Expense writes refresh the matching budgets
// @Tags transactions
// @Security BearerAuth
// @Accept json
// @Param request body CreateTransactionRequest true "Transaction"
// @Success 201 {object} Response{data=domain.Transaction}
// @Failure 400 {object} Response
// @Router /api/transactions [post]
func (h *Handler) CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if !bindJSON(c, &req) {
		return
	}

	tx, err := h.svc.Ledger.Create(c.Request.Context(), middleware.UserID(c), req.toInput())
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondMessage(c, http.StatusCreated, "Transaction created successfully", tx)
}

// UpdateTransaction godoc
// @Summary Update a transaction
// @Tags transactions
// @Security BearerAuth
// @Accept json
// @Param id path string true "Transaction id"
// @Param request body UpdateTransactionRequest true "Fields to change"
// @Success 200 {object} Response{data=domain.Transaction}
// @Failure 404 {object} Response
// @Router /api/transactions/{id} [put]
func (h *Handler) UpdateTransaction(c *gin.Context) {
	id, ok := pathID(c, "transaction")
	if !ok {
		return
	}
	var req UpdateTransactionRequest
	if !bindJSON(c, &req) {
		return
	}

	tx, err := h.svc.Ledger.Update(c.Request.Context(), middleware.UserID(c), id, req.toPatch())
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondMessage(c, http.StatusOK, "Transaction updated successfully", tx)
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Tags transactions
// @Security BearerAuth
// @Param id path string true "Transaction id"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Router /api/transactions/{id} [delete]
func (h *Handler) DeleteTransaction(c *gin.Context) {
	id, ok := pathID(c, "transaction")
	if !ok {
		return
	}
	if err := h.svc.Ledger.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		_ = c.Error(err)
		return
	}
	noContent(c, "Transaction deleted successfully")
}
