// internal/handler/export.go
package handler

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/export"
	"finance-tracker/internal/middleware"
	"finance-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

var periodLabels = map[domain.SummaryPeriod]string{
	domain.PeriodThisMonth:   "This Month",
	domain.PeriodLastMonth:   "Last Month",
	domain.PeriodLast3Months: "Last 3 Months",
	domain.PeriodThisYear:    "This Year",
	domain.PeriodAllTime:     "All Time",
}

// ExportCSV godoc
// @Summary Download transactions as CSV
// @Tags export
// @Security BearerAuth
// @Param startDate query string false "YYYY-MM-DD"
// @Param endDate query string false "YYYY-MM-DD, inclusive"
// @Param type query string false "income or expense"
// @Param category query string false "Category id"
// @Produce text/csv
// @Success 200 {file} file
// @Router /api/export/transactions/csv [get]
func (h *Handler) ExportCSV(c *gin.Context) {
	var q TransactionQuery
	if !bindQuery(c, &q) {
		return
	}
	query := q.toQuery()
	query.Search, query.Sort = "", ""

	txs, err := h.svc.Ledger.All(c.Request.Context(), middleware.UserID(c), query)
	if err != nil {
		_ = c.Error(err)
		return
	}

	// буферизуем, чтобы ошибка не оборвала уже отправленный ответ
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, txs); err != nil {
		_ = c.Error(fmt.Errorf("write csv: %w", err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.CSVFilename(h.svc.Dashboard.Now())))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportReport godoc
// @Summary Printable HTML report for a period
// @Tags export
// @Security BearerAuth
// @Param period query string false "thisMonth, lastMonth, last3Months, thisYear or allTime"
// @Produce text/html
// @Success 200 {string} string
// @Router /api/export/report/pdf [get]
func (h *Handler) ExportReport(c *gin.Context) {
	var q SummaryQuery
	if !bindQuery(c, &q) {
		return
	}
	period := domain.SummaryPeriod(q.Period)
	if period == "" {
		period = domain.PeriodThisMonth
	}

	ctx := c.Request.Context()
	userID := middleware.UserID(c)

	rng, err := h.svc.Dashboard.Window(period)
	if err != nil {
		_ = c.Error(err)
		return
	}
	summary, err := h.svc.Dashboard.Summary(ctx, userID, period)
	if err != nil {
		_ = c.Error(err)
		return
	}
	txs, err := h.svc.Ledger.All(ctx, userID, service.TransactionQuery{Range: rng})
	if err != nil {
		_ = c.Error(err)
		return
	}

	var buf bytes.Buffer
	err = export.RenderReport(&buf, export.Report{
		User:         middleware.CurrentUser(c),
		PeriodLabel:  periodLabels[period],
		GeneratedAt:  h.svc.Dashboard.Now(),
		Summary:      summary,
		Transactions: txs,
	})
	if err != nil {
		_ = c.Error(fmt.Errorf("render report: %w", err))
		return
	}

	slog.Debug("report rendered", "user_id", userID, "period", period, "transactions", len(txs))
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
