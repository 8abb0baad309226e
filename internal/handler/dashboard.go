// internal/handler/dashboard.go
package handler

import (
	"net/http"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/middleware"

	"github.com/gin-gonic/gin"
)

// DashboardSummary godoc
// @Summary Income, expense and category breakdown for a period
// @Tags dashboard
// @Security BearerAuth
// @Param period query string false "thisMonth, lastMonth, last3Months, thisYear or allTime"
// @Success 200 {object} Response{data=service.Summary}
// @Failure 400 {object} Response
// @Router /api/dashboard/summary [get]
func (h *Handler) DashboardSummary(c *gin.Context) {
	var q SummaryQuery
	if !bindQuery(c, &q) {
		return
	}
	summary, err := h.svc.Dashboard.Summary(c.Request.Context(), middleware.UserID(c), domain.SummaryPeriod(q.Period))
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, summary)
}

// DashboardTrends godoc
// @Summary Monthly income and expense
// @Tags dashboard
// @Security BearerAuth
// @Param months query int false "1-24, default 6"
// @Success 200 {object} Response{data=[]service.TrendPoint}
// @Router /api/dashboard/trends [get]
func (h *Handler) DashboardTrends(c *gin.Context) {
	var q TrendsQuery
	if !bindQuery(c, &q) {
		return
	}
	points, err := h.svc.Dashboard.Trends(c.Request.Context(), middleware.UserID(c), q.Months)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, points)
}

// DashboardInsights godoc
// @Summary Month over month spending insights
// @Tags dashboard
// @Security BearerAuth
// @Success 200 {object} Response{data=service.InsightReport}
// @Router /api/dashboard/insights [get]
func (h *Handler) DashboardInsights(c *gin.Context) {
	report, err := h.svc.Dashboard.Insights(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, report)
}
