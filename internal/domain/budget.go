// internal/domain/budget.go
package domain

import (
	"encoding/json"
	"math"
	"time"
)

type BudgetPeriod string

const (
	PeriodMonthly BudgetPeriod = "monthly"
	PeriodYearly  BudgetPeriod = "yearly"
)

func (p BudgetPeriod) Valid() bool {
	return p == PeriodMonthly || p == PeriodYearly
}

const DefaultAlertThreshold = 80

// Budget stores only base fields. Remaining, PercentageUsed, IsOverBudget
// and IsNearLimit are computed from them when the budget is serialized.
type Budget struct {
	ID             string       `json:"id"`
	UserID         string       `json:"-"`
	CategoryID     string       `json:"categoryId"`
	Category       *CategoryRef `json:"category,omitempty"`
	Amount         float64      `json:"amount"`
	Period         BudgetPeriod `json:"period"`
	Month          *int         `json:"month,omitempty"`
	Year           int          `json:"year"`
	Spent          float64      `json:"spent"`
	AlertThreshold int          `json:"alertThreshold"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// Remaining is max(0, amount - spent).
func (b Budget) Remaining() float64 {
	return math.Max(0, b.Amount-b.Spent)
}

// PercentageUsed is round(spent/amount*100), or 0 for a zero amount.
func (b Budget) PercentageUsed() int {
	if b.Amount <= 0 {
		return 0
	}
	return int(math.Round(b.Spent / b.Amount * 100))
}

func (b Budget) IsOverBudget() bool {
	return b.Spent > b.Amount
}

func (b Budget) IsNearLimit() bool {
	return b.PercentageUsed() >= b.AlertThreshold && !b.IsOverBudget()
}

// Key returns the uniqueness tuple of the budget.
func (b Budget) Key() BudgetKey {
	return BudgetKey{
		UserID:     b.UserID,
		CategoryID: b.CategoryID,
		Period:     b.Period,
		Month:      b.MonthValue(),
		Year:       b.Year,
	}
}

// MonthValue returns the month of a monthly budget and 0 for yearly ones.
func (b Budget) MonthValue() int {
	if b.Month == nil {
		return 0
	}
	return *b.Month
}

// Range returns the half-open interval the budget covers.
func (b Budget) Range() DateRange {
	if b.Period == PeriodYearly {
		return YearRange(b.Year)
	}
	return MonthRange(b.Year, time.Month(b.MonthValue()))
}

func (b Budget) MarshalJSON() ([]byte, error) {
	type base Budget
	return json.Marshal(struct {
		base
		Remaining      float64 `json:"remaining"`
		PercentageUsed int     `json:"percentageUsed"`
		IsOverBudget   bool    `json:"isOverBudget"`
		IsNearLimit    bool    `json:"isNearLimit"`
	}{
		base:           base(b),
		Remaining:      b.Remaining(),
		PercentageUsed: b.PercentageUsed(),
		IsOverBudget:   b.IsOverBudget(),
		IsNearLimit:    b.IsNearLimit(),
	})
}

// BudgetKey identifies at most one budget. Month is 0 for yearly budgets.
type BudgetKey struct {
	UserID     string
	CategoryID string
	Period     BudgetPeriod
	Month      int
	Year       int
}
