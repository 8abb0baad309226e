// internal/handler/budgets.go
package handler

import (
	"net/http"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/middleware"
	"finance-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// ListBudgets godoc
// @Summary List budgets with their spending
// @Tags budgets
// @Security BearerAuth
// @Param period query string false "monthly or yearly"
// @Param month query int false "1-12"
// @Param year query int false "2000-2100"
// @Success 200 {object} Response{data=[]domain.Budget}
// @Router /api/budgets [get]
func (h *Handler) ListBudgets(c *gin.Context) {
	var q BudgetQuery
	if !bindQuery(c, &q) {
		return
	}
	budgets, err := h.svc.Budgets.List(c.Request.Context(), middleware.UserID(c), service.BudgetQuery{
		Period: domain.BudgetPeriod(q.Period),
		Month:  q.Month,
		Year:   q.Year,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ListResponse{Success: true, Count: len(budgets), Total: len(budgets), Page: 1, Pages: 1, Data: budgets})
}

// BudgetAlerts godoc
// @Summary Current budgets near or over their limit
// @Tags budgets
// @Security BearerAuth
// @Success 200 {object} Response{data=[]domain.Budget}
// @Router /api/budgets/alerts [get]
func (h *Handler) BudgetAlerts(c *gin.Context) {
	alerts, err := h.svc.Budgets.Alerts(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ListResponse{Success: true, Count: len(alerts), Total: len(alerts), Page: 1, Pages: 1, Data: alerts})
}

func (h *Handler) GetBudget(c *gin.Context) {
	id, ok := pathID(c, "budget")
	if !ok {
		return
	}
	budget, err := h.svc.Budgets.Get(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, budget)
}

// CreateBudget godoc
// @Summary Create a budget
// @Tags budgets
// @Security BearerAuth
// @Param request body CreateBudgetRequest true "Budget"
// @Success 201 {object} Response{data=domain.Budget}
// @Failure 400 {object} Response
// @Failure 409 {object} Response
// @Router /api/budgets [post]
func (h *Handler) CreateBudget(c *gin.Context) {
	var req CreateBudgetRequest
	if !bindJSON(c, &req) {
		return
	}
	budget, err := h.svc.Budgets.Create(c.Request.Context(), middleware.UserID(c), req.toInput())
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondMessage(c, http.StatusCreated, "Budget created successfully", budget)
}

func (h *Handler) UpdateBudget(c *gin.Context) {
	id, ok := pathID(c, "budget")
	if !ok {
		return
	}
	var req UpdateBudgetRequest
	if !bindJSON(c, &req) {
		return
	}
	budget, err := h.svc.Budgets.Update(c.Request.Context(), middleware.UserID(c), id, req.toPatch())
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondMessage(c, http.StatusOK, "Budget updated successfully", budget)
}

func (h *Handler) DeleteBudget(c *gin.Context) {
	id, ok := pathID(c, "budget")
	if !ok {
		return
	}
	if err := h.svc.Budgets.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		_ = c.Error(err)
		return
	}
	noContent(c, "Budget deleted successfully")
}
