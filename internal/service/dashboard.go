// internal/service/dashboard.go
package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/storage"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	recentTransactions = 5
	DefaultTrendMonths = 6
	MaxTrendMonths     = 24

	insightThreshold = 10.0
)

type DashboardService struct {
	store storage.Store
	now   func() time.Time
}

func NewDashboardService(store storage.Store) *DashboardService {
	return &DashboardService{store: store, now: utcNow}
}

type CategoryTotal struct {
	Category   *domain.CategoryRef `json:"category"`
	Total      float64             `json:"total"`
	Count      int                 `json:"count"`
	Percentage float64             `json:"percentage"`
}

type Summary struct {
	Period             domain.SummaryPeriod `json:"period"`
	TotalIncome        float64              `json:"totalIncome"`
	TotalExpense       float64              `json:"totalExpense"`
	Balance            float64              `json:"balance"`
	TransactionCount   int                  `json:"transactionCount"`
	CategoryBreakdown  []CategoryTotal      `json:"categoryBreakdown"`
	RecentTransactions []domain.Transaction `json:"recentTransactions"`
}

type TrendPoint struct {
	Month   string  `json:"month"`
	Year    int     `json:"year"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

type Insight struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

type InsightReport struct {
	Insights         []Insight      `json:"insights"`
	ThisMonthExpense float64        `json:"thisMonthExpense"`
	LastMonthExpense float64        `json:"lastMonthExpense"`
	ChangePercentage float64        `json:"changePercentage"`
	TopCategory      *CategoryTotal `json:"topCategory,omitempty"`
}

// Summary aggregates one period. Totals and the category breakdown come
// from the same scan so they always agree.
func (s *DashboardService) Summary(ctx context.Context, userID string, period domain.SummaryPeriod) (*Summary, error) {
	if period == "" {
		period = domain.PeriodThisMonth
	}
	rng, err := s.Window(period)
	if err != nil {
		return nil, err
	}

	var (
		scanned []domain.Transaction
		recent  []domain.Transaction
		index   map[string]domain.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		scanned, _, err = s.store.ListTransactions(gctx, storage.TransactionFilter{UserID: userID, Range: rng})
		if err != nil {
			return fmt.Errorf("scan period: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		recent, _, err = s.store.ListTransactions(gctx, storage.TransactionFilter{
			UserID: userID,
			Sort:   storage.SortDateDesc,
			Limit:  recentTransactions,
		})
		if err != nil {
			return fmt.Errorf("recent transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		index, err = categoryIndex(gctx, s.store, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	income, expense, breakdown := aggregate(scanned, index)
	for i := range recent {
		recent[i].Category = refFor(index, recent[i].CategoryID)
	}

	return &Summary{
		Period:             period,
		TotalIncome:        money(income),
		TotalExpense:       money(expense),
		Balance:            money(income.Sub(expense)),
		TransactionCount:   len(scanned),
		CategoryBreakdown:  breakdown,
		RecentTransactions: recent,
	}, nil
}

// Window resolves a summary period against the service clock.
func (s *DashboardService) Window(period domain.SummaryPeriod) (domain.DateRange, error) {
	rng, ok := period.Resolve(s.now())
	if !ok {
		return domain.DateRange{}, domain.Invalid("period", "period must be one of [thisMonth lastMonth last3Months thisYear allTime]")
	}
	return rng, nil
}

// Now reports the service clock.
func (s *DashboardService) Now() time.Time { return s.now() }

// Trends returns income and expense for each of the last months calendar
// months, oldest first, ending with the current month.
func (s *DashboardService) Trends(ctx context.Context, userID string, months int) ([]TrendPoint, error) {
	if months == 0 {
		months = DefaultTrendMonths
	}
	if months < 1 || months > MaxTrendMonths {
		return nil, domain.Invalid("months", fmt.Sprintf("months must be between 1 and %d", MaxTrendMonths))
	}

	current := domain.MonthStart(s.now())
	first := current.AddDate(0, -(months - 1), 0)

	txs, _, err := s.store.ListTransactions(ctx, storage.TransactionFilter{
		UserID: userID,
		Range:  domain.DateRange{From: first, To: current.AddDate(0, 1, 0)},
	})
	if err != nil {
		return nil, fmt.Errorf("scan trend window: %w", err)
	}

	type bucket struct{ income, expense decimal.Decimal }
	buckets := make([]bucket, months)
	for _, tx := range txs {
		d := tx.Date.UTC()
		i := (d.Year()-first.Year())*12 + int(d.Month()-first.Month())
		if i < 0 || i >= months {
			continue
		}
		amount := decimal.NewFromFloat(tx.Amount)
		if tx.Type == domain.TypeIncome {
			buckets[i].income = buckets[i].income.Add(amount)
		} else {
			buckets[i].expense = buckets[i].expense.Add(amount)
		}
	}

	points := make([]TrendPoint, 0, months)
	for i, b := range buckets {
		start := first.AddDate(0, i, 0)
		points = append(points, TrendPoint{
			Month:   start.Format("Jan"),
			Year:    start.Year(),
			Income:  money(b.income),
			Expense: money(b.expense),
			Balance: money(b.income.Sub(b.expense)),
		})
	}
	return points, nil
}

// Insights compares this month's spending with last month's.
func (s *DashboardService) Insights(ctx context.Context, userID string) (*InsightReport, error) {
	now := s.now()
	thisRange, _ := domain.PeriodThisMonth.Resolve(now)
	lastRange, _ := domain.PeriodLastMonth.Resolve(now)

	var (
		thisMonth []domain.Transaction
		lastMonth decimal.Decimal
		index     map[string]domain.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		thisMonth, _, err = s.store.ListTransactions(gctx, storage.TransactionFilter{
			UserID: userID,
			Type:   domain.TypeExpense,
			Range:  thisRange,
		})
		return err
	})
	g.Go(func() error {
		sum, err := s.store.SumTransactions(gctx, storage.TransactionFilter{
			UserID: userID,
			Type:   domain.TypeExpense,
			Range:  lastRange,
		})
		lastMonth = decimal.NewFromFloat(sum)
		return err
	})
	g.Go(func() error {
		var err error
		index, err = categoryIndex(gctx, s.store, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load insight data: %w", err)
	}

	_, thisExpense, breakdown := aggregate(thisMonth, index)

	change := decimal.Zero
	if lastMonth.IsPositive() {
		change = thisExpense.Sub(lastMonth).Div(lastMonth).Mul(decimal.NewFromInt(100)).Round(2)
	}
	changePct := change.InexactFloat64()

	report := &InsightReport{
		Insights:         make([]Insight, 0, 2),
		ThisMonthExpense: money(thisExpense),
		LastMonthExpense: money(lastMonth),
		ChangePercentage: changePct,
	}

	switch {
	case changePct > insightThreshold:
		report.Insights = append(report.Insights, Insight{
			Type:    "warning",
			Title:   "Spending Increased",
			Message: fmt.Sprintf("Your spending is up %.2f%% compared to last month.", changePct),
		})
	case changePct < -insightThreshold:
		report.Insights = append(report.Insights, Insight{
			Type:    "success",
			Title:   "Spending Decreased",
			Message: fmt.Sprintf("Great job! Your spending is down %.2f%% compared to last month.", -changePct),
		})
	}

	if len(breakdown) > 0 {
		top := breakdown[0]
		report.TopCategory = &top
		name := "Uncategorized"
		if top.Category != nil {
			name = top.Category.Name
		}
		report.Insights = append(report.Insights, Insight{
			Type:    "info",
			Title:   "Top Spending Category",
			Message: fmt.Sprintf("You spent the most on %s this month (%.2f).", name, top.Total),
		})
	}
	return report, nil
}

// aggregate sums income and expense and rolls expenses up by category,
// largest total first.
func aggregate(txs []domain.Transaction, index map[string]domain.Category) (income, expense decimal.Decimal, breakdown []CategoryTotal) {
	type acc struct {
		total decimal.Decimal
		count int
	}
	byCategory := make(map[string]*acc)

	for _, tx := range txs {
		amount := decimal.NewFromFloat(tx.Amount)
		if tx.Type == domain.TypeIncome {
			income = income.Add(amount)
			continue
		}
		expense = expense.Add(amount)
		a, ok := byCategory[tx.CategoryID]
		if !ok {
			a = &acc{}
			byCategory[tx.CategoryID] = a
		}
		a.total = a.total.Add(amount)
		a.count++
	}

	hundred := decimal.NewFromInt(100)
	breakdown = make([]CategoryTotal, 0, len(byCategory))
	for id, a := range byCategory {
		pct := decimal.Zero
		if expense.IsPositive() {
			pct = a.total.Div(expense).Mul(hundred)
		}
		ref := refFor(index, id)
		if ref == nil {
			ref = &domain.CategoryRef{ID: id}
		}
		breakdown = append(breakdown, CategoryTotal{
			Category:   ref,
			Total:      money(a.total),
			Count:      a.count,
			Percentage: pct.Round(2).InexactFloat64(),
		})
	}
	sort.SliceStable(breakdown, func(i, j int) bool {
		if breakdown[i].Total != breakdown[j].Total {
			return breakdown[i].Total > breakdown[j].Total
		}
		return breakdown[i].Category.Name < breakdown[j].Category.Name
	})
	return income, expense, breakdown
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
