// internal/export/report.go
package export

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/service"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

//go:embed templates/*.html
var templatesFS embed.FS

var reportTmpl = template.Must(
	template.New("report.html").
		Funcs(template.FuncMap{"date": func(t time.Time) string { return t.UTC().Format("Jan 2, 2006") }}).
		ParseFS(templatesFS, "templates/report.html"),
)

// Report is everything the printable report shows.
type Report struct {
	User         *domain.User
	PeriodLabel  string
	GeneratedAt  time.Time
	Summary      *service.Summary
	Transactions []domain.Transaction
}

type reportView struct {
	Report
	Income    string
	Expense   string
	Balance   string
	Breakdown []breakdownRow
	Rows      []transactionRow
}

type breakdownRow struct {
	Name       string
	Total      string
	Count      int
	Percentage string
}

type transactionRow struct {
	Date        time.Time
	Type        string
	Category    string
	Description string
	Amount      string
}

// RenderReport writes a self-contained HTML page meant to be printed to PDF
// by the browser.
func RenderReport(w io.Writer, r Report) error {
	m := NewMoneyFormatter(r.User.Currency)

	view := reportView{
		Report:  r,
		Income:  m.Format(r.Summary.TotalIncome),
		Expense: m.Format(r.Summary.TotalExpense),
		Balance: m.Format(r.Summary.Balance),
	}
	for _, c := range r.Summary.CategoryBreakdown {
		name := ""
		if c.Category != nil {
			name = c.Category.Name
		}
		view.Breakdown = append(view.Breakdown, breakdownRow{
			Name:       name,
			Total:      m.Format(c.Total),
			Count:      c.Count,
			Percentage: fmt.Sprintf("%.1f%%", c.Percentage),
		})
	}
	for _, tx := range r.Transactions {
		row := transactionRow{
			Date:        tx.Date,
			Type:        string(tx.Type),
			Description: tx.Description,
			Amount:      m.Format(tx.Amount),
		}
		if tx.Category != nil {
			row.Category = tx.Category.Name
		}
		view.Rows = append(view.Rows, row)
	}

	if err := reportTmpl.Execute(w, view); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

// MoneyFormatter prints amounts with the currency code, grouping and the
// number of decimals the currency uses.
type MoneyFormatter struct {
	code    string
	scale   int
	printer *message.Printer
}

func NewMoneyFormatter(code domain.Currency) MoneyFormatter {
	unit, err := currency.ParseISO(string(code))
	if err != nil {
		unit = currency.USD
	}
	scale, _ := currency.Standard.Rounding(unit)
	return MoneyFormatter{
		code:    unit.String(),
		scale:   scale,
		printer: message.NewPrinter(language.English),
	}
}

func (m MoneyFormatter) Format(amount float64) string {
	return m.code + " " + m.printer.Sprint(number.Decimal(amount, number.Scale(m.scale)))
}
