package service

import (
	"context"
	"testing"
	"time"

	"finance-tracker/internal/auth"
	"finance-tracker/internal/config"
	"finance-tracker/internal/domain"
	"finance-tracker/internal/storage"
	"finance-tracker/internal/storage/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// June 15th 2024 is "now" for every test in this file.
var fixedNow = time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)

type ServiceSuite struct {
	suite.Suite

	ctx   context.Context
	store *memory.Storage
	svc   *Services

	user *domain.User
	food *domain.Category
	fun  *domain.Category
	pay  *domain.Category
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.New()

	cfg := config.Default()
	cfg.JWTSecret = "test-secret-test-secret-test-secret"
	s.svc = New(s.store, auth.NewTokenService(cfg))

	clock := func() time.Time { return fixedNow }
	s.svc.Budgets.now = clock
	s.svc.Ledger.now = clock
	s.svc.Dashboard.now = clock

	session, err := s.svc.Auth.Signup(s.ctx, SignupInput{Name: "Ann", Email: "Ann@Example.com", Password: "secret1"})
	s.Require().NoError(err)
	s.user = session.User

	s.food = s.category("Food & Dining")
	s.fun = s.category("Entertainment")
	s.pay = s.category("Salary")
}

func (s *ServiceSuite) category(name string) *domain.Category {
	list, err := s.svc.Categories.List(s.ctx, s.user.ID, "")
	s.Require().NoError(err)
	for _, c := range list {
		if c.Name == name {
			return &c
		}
	}
	s.FailNow("category not seeded", name)
	return nil
}

func (s *ServiceSuite) expense(cat *domain.Category, amount float64, date time.Time) *domain.Transaction {
	tx, err := s.svc.Ledger.Create(s.ctx, s.user.ID, TransactionInput{
		Type: domain.TypeExpense, Amount: amount, CategoryID: cat.ID, Date: date,
	})
	s.Require().NoError(err)
	return tx
}

func (s *ServiceSuite) income(amount float64, date time.Time) *domain.Transaction {
	tx, err := s.svc.Ledger.Create(s.ctx, s.user.ID, TransactionInput{
		Type: domain.TypeIncome, Amount: amount, CategoryID: s.pay.ID, Date: date,
	})
	s.Require().NoError(err)
	return tx
}

func (s *ServiceSuite) monthlyBudget(cat *domain.Category, amount float64, month time.Month) *domain.Budget {
	m := int(month)
	b, err := s.svc.Budgets.Create(s.ctx, s.user.ID, BudgetInput{
		CategoryID: cat.ID, Amount: amount, Period: domain.PeriodMonthly, Month: &m, Year: 2024,
	})
	s.Require().NoError(err)
	return b
}

func (s *ServiceSuite) storedSpent(id string) float64 {
	b, err := s.store.GetBudget(s.ctx, s.user.ID, id)
	s.Require().NoError(err)
	return b.Spent
}

func june(d int) time.Time { return time.Date(2024, time.June, d, 12, 0, 0, 0, time.UTC) }

// === auth ===

func (s *ServiceSuite) TestSignupSeedsDefaultCategories() {
	list, err := s.svc.Categories.List(s.ctx, s.user.ID, "")
	s.Require().NoError(err)
	s.Len(list, 12)

	expense, _ := s.svc.Categories.List(s.ctx, s.user.ID, domain.TypeExpense)
	income, _ := s.svc.Categories.List(s.ctx, s.user.ID, domain.TypeIncome)
	s.Len(expense, 8)
	s.Len(income, 4)
	for _, c := range list {
		s.True(c.IsDefault)
	}
	s.Equal("ann@example.com", s.user.Email)
	s.Equal(domain.DefaultCurrency, s.user.Currency)
}

func (s *ServiceSuite) TestSignupRejectsDuplicateEmail() {
	_, err := s.svc.Auth.Signup(s.ctx, SignupInput{Name: "Ann", Email: "ann@example.com", Password: "secret1"})
	s.ErrorIs(err, domain.ErrConflict)
	s.EqualError(err, "Email already registered")
}

func (s *ServiceSuite) TestLoginFailuresLookTheSame() {
	_, errUnknown := s.svc.Auth.Login(s.ctx, "nobody@example.com", "secret1")
	_, errWrong := s.svc.Auth.Login(s.ctx, "ann@example.com", "wrong-password")

	s.ErrorIs(errUnknown, domain.ErrUnauthorized)
	s.ErrorIs(errWrong, domain.ErrUnauthorized)
	s.Equal(errUnknown.Error(), errWrong.Error())

	session, err := s.svc.Auth.Login(s.ctx, "ANN@example.com", "secret1")
	s.Require().NoError(err)
	s.NotEmpty(session.Token)

	user, err := s.svc.Auth.Authenticate(s.ctx, session.Token)
	s.Require().NoError(err)
	s.Equal(s.user.ID, user.ID)
}

func (s *ServiceSuite) TestAuthenticateRejectsDeletedUser() {
	session, err := s.svc.Auth.Login(s.ctx, "ann@example.com", "secret1")
	s.Require().NoError(err)
	s.Require().NoError(s.svc.Settings.DeleteAccount(s.ctx, s.user.ID, "secret1"))

	_, err = s.svc.Auth.Authenticate(s.ctx, session.Token)
	s.ErrorIs(err, domain.ErrUnauthorized)
}

// === budget recompute ===

func (s *ServiceSuite) TestBudgetFollowsLedger() {
	b := s.monthlyBudget(s.food, 500, time.June)
	s.Equal(0.0, b.Spent)

	s.expense(s.food, 120, june(3))
	s.expense(s.food, 80, june(10))

	got, err := s.svc.Budgets.Get(s.ctx, s.user.ID, b.ID)
	s.Require().NoError(err)
	s.Equal(200.0, got.Spent)
	s.Equal(300.0, got.Remaining())
	s.Equal(40, got.PercentageUsed())
	s.False(got.IsOverBudget())
	s.False(got.IsNearLimit())

	s.expense(s.food, 350, june(20))
	got, err = s.svc.Budgets.Get(s.ctx, s.user.ID, b.ID)
	s.Require().NoError(err)
	s.Equal(550.0, got.Spent)
	s.Equal(0.0, got.Remaining())
	s.True(got.IsOverBudget())
	s.False(got.IsNearLimit())
}

func (s *ServiceSuite) TestRecomputeIgnoresOtherScopes() {
	b := s.monthlyBudget(s.food, 500, time.June)

	// другая категория, другой месяц, доход
	s.expense(s.fun, 40, june(3))
	s.expense(s.food, 60, time.Date(2024, time.May, 31, 23, 0, 0, 0, time.UTC))
	s.income(1000, june(1))

	s.Equal(0.0, s.storedSpent(b.ID))
}

func (s *ServiceSuite) TestBudgetCreatedMidMonthStartsWithLedgerSum() {
	s.expense(s.food, 75, june(2))
	b := s.monthlyBudget(s.food, 500, time.June)
	s.Equal(75.0, b.Spent)
	s.Equal(75.0, s.storedSpent(b.ID))
}

func (s *ServiceSuite) TestYearlyBudgetTracksWholeYear() {
	yearly, err := s.svc.Budgets.Create(s.ctx, s.user.ID, BudgetInput{
		CategoryID: s.food.ID, Amount: 5000, Period: domain.PeriodYearly, Year: 2024,
	})
	s.Require().NoError(err)
	s.Nil(yearly.Month)

	s.expense(s.food, 100, time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC))
	s.expense(s.food, 50, june(5))
	s.expense(s.food, 999, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))

	s.Equal(150.0, s.storedSpent(yearly.ID))
}

func (s *ServiceSuite) TestUpdateRecomputesOldAndNewScope() {
	foodJune := s.monthlyBudget(s.food, 500, time.June)
	foodJuly := s.monthlyBudget(s.food, 500, time.July)
	funJune := s.monthlyBudget(s.fun, 100, time.June)

	tx := s.expense(s.food, 200, june(10))
	s.Equal(200.0, s.storedSpent(foodJune.ID))

	// move to July
	newDate := time.Date(2024, time.July, 2, 0, 0, 0, 0, time.UTC)
	_, err := s.svc.Ledger.Update(s.ctx, s.user.ID, tx.ID, TransactionPatch{Date: &newDate})
	s.Require().NoError(err)
	s.Equal(0.0, s.storedSpent(foodJune.ID))
	s.Equal(200.0, s.storedSpent(foodJuly.ID))

	// move back to June and to another category at once
	oldDate := june(10)
	_, err = s.svc.Ledger.Update(s.ctx, s.user.ID, tx.ID, TransactionPatch{Date: &oldDate, CategoryID: &s.fun.ID})
	s.Require().NoError(err)
	s.Equal(0.0, s.storedSpent(foodJuly.ID))
	s.Equal(0.0, s.storedSpent(foodJune.ID))
	s.Equal(200.0, s.storedSpent(funJune.ID))
}

func (s *ServiceSuite) TestTypeChangeRecomputesExpenseSide() {
	b := s.monthlyBudget(s.food, 500, time.June)
	tx := s.expense(s.food, 90, june(4))
	s.Equal(90.0, s.storedSpent(b.ID))

	income := domain.TypeIncome
	_, err := s.svc.Ledger.Update(s.ctx, s.user.ID, tx.ID, TransactionPatch{Type: &income, CategoryID: &s.pay.ID})
	s.Require().NoError(err)
	s.Equal(0.0, s.storedSpent(b.ID))
}

func (s *ServiceSuite) TestDeleteRecomputes() {
	b := s.monthlyBudget(s.food, 500, time.June)
	keep := s.expense(s.food, 30, june(1))
	drop := s.expense(s.food, 70, june(2))
	s.Equal(100.0, s.storedSpent(b.ID))

	s.Require().NoError(s.svc.Ledger.Delete(s.ctx, s.user.ID, drop.ID))
	s.Equal(30.0, s.storedSpent(b.ID))
	s.NotEmpty(keep.ID)
}

func (s *ServiceSuite) TestRecomputeConvergesRegardlessOfOrder() {
	b := s.monthlyBudget(s.food, 500, time.June)
	for _, amount := range []float64{10.1, 20.2, 30.3} {
		_ = s.store.CreateTransaction(s.ctx, &domain.Transaction{
			UserID: s.user.ID, Type: domain.TypeExpense, Amount: amount, CategoryID: s.food.ID, Date: june(1),
		})
	}

	// replay recomputes any number of times, in any order
	for range 3 {
		s.Require().NoError(s.svc.Budgets.Recompute(s.ctx, s.user.ID, s.food.ID, june(28)))
	}
	s.InDelta(60.6, s.storedSpent(b.ID), 1e-9)
}

func (s *ServiceSuite) TestReadRepairsStaleSpent() {
	b := s.monthlyBudget(s.food, 500, time.June)
	_ = s.store.CreateTransaction(s.ctx, &domain.Transaction{
		UserID: s.user.ID, Type: domain.TypeExpense, Amount: 420, CategoryID: s.food.ID, Date: june(1),
	})
	s.Equal(0.0, s.storedSpent(b.ID))

	list, err := s.svc.Budgets.List(s.ctx, s.user.ID, BudgetQuery{})
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(420.0, list[0].Spent)
	s.Equal("Food & Dining", list[0].Category.Name)
	s.Equal(420.0, s.storedSpent(b.ID))
}

// === budgets ===

func (s *ServiceSuite) TestDuplicateBudgetConflicts() {
	s.monthlyBudget(s.food, 500, time.June)
	m := 6
	_, err := s.svc.Budgets.Create(s.ctx, s.user.ID, BudgetInput{
		CategoryID: s.food.ID, Amount: 100, Period: domain.PeriodMonthly, Month: &m, Year: 2024,
	})
	s.ErrorIs(err, domain.ErrConflict)
}

func (s *ServiceSuite) TestBudgetRules() {
	_, err := s.svc.Budgets.Create(s.ctx, s.user.ID, BudgetInput{
		CategoryID: s.food.ID, Amount: 100, Period: domain.PeriodMonthly, Year: 2024,
	})
	s.ErrorIs(err, domain.ErrInvalidInput)

	m := 6
	_, err = s.svc.Budgets.Create(s.ctx, s.user.ID, BudgetInput{
		CategoryID: s.pay.ID, Amount: 100, Period: domain.PeriodMonthly, Month: &m, Year: 2024,
	})
	s.ErrorIs(err, domain.ErrInvalidInput)

	_, err = s.svc.Budgets.Create(s.ctx, s.user.ID, BudgetInput{
		CategoryID: "missing", Amount: 100, Period: domain.PeriodMonthly, Month: &m, Year: 2024,
	})
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *ServiceSuite) TestBudgetUpdateMovingScopeRecomputes() {
	s.expense(s.food, 40, time.Date(2024, time.July, 3, 0, 0, 0, 0, time.UTC))
	b := s.monthlyBudget(s.food, 500, time.June)
	s.Equal(0.0, b.Spent)

	july := 7
	updated, err := s.svc.Budgets.Update(s.ctx, s.user.ID, b.ID, BudgetPatch{Month: &july})
	s.Require().NoError(err)
	s.Equal(40.0, updated.Spent)
}

func (s *ServiceSuite) TestAlertsListNearAndOverBudgets() {
	near := s.monthlyBudget(s.food, 100, time.June)
	over := s.monthlyBudget(s.fun, 50, time.June)
	s.monthlyBudget(s.category("Shopping"), 100, time.June) // untouched
	past := s.monthlyBudget(s.category("Healthcare"), 10, time.May)

	s.expense(s.food, 85, june(2))
	s.expense(s.fun, 60, june(2))
	s.expense(s.category("Healthcare"), 100, time.Date(2024, time.May, 3, 0, 0, 0, 0, time.UTC))

	alerts, err := s.svc.Budgets.Alerts(s.ctx, s.user.ID)
	s.Require().NoError(err)

	ids := make([]string, 0, len(alerts))
	for _, a := range alerts {
		ids = append(ids, a.ID)
	}
	s.ElementsMatch([]string{near.ID, over.ID}, ids)
	s.NotContains(ids, past.ID)
}

// === ledger ===

func (s *ServiceSuite) TestTransactionCategoryMustMatchTypeAndOwner() {
	_, err := s.svc.Ledger.Create(s.ctx, s.user.ID, TransactionInput{
		Type: domain.TypeExpense, Amount: 10, CategoryID: s.pay.ID,
	})
	s.ErrorIs(err, domain.ErrInvalidInput)

	other, err := s.svc.Auth.Signup(s.ctx, SignupInput{Name: "Bob", Email: "bob@example.com", Password: "secret1"})
	s.Require().NoError(err)
	_, err = s.svc.Ledger.Create(s.ctx, other.User.ID, TransactionInput{
		Type: domain.TypeExpense, Amount: 10, CategoryID: s.food.ID,
	})
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *ServiceSuite) TestTransactionDefaults() {
	tx, err := s.svc.Ledger.Create(s.ctx, s.user.ID, TransactionInput{
		Type: domain.TypeExpense, Amount: 10, CategoryID: s.food.ID,
	})
	s.Require().NoError(err)
	s.Equal(fixedNow, tx.Date)
	s.Equal(domain.PaymentCash, tx.PaymentMethod)
	s.NotNil(tx.Tags)
	s.Equal("Food & Dining", tx.Category.Name)
}

func (s *ServiceSuite) TestCrossUserAccessIsNotFound() {
	tx := s.expense(s.food, 10, june(1))
	other, err := s.svc.Auth.Signup(s.ctx, SignupInput{Name: "Bob", Email: "bob@example.com", Password: "secret1"})
	s.Require().NoError(err)

	_, err = s.svc.Ledger.Get(s.ctx, other.User.ID, tx.ID)
	s.ErrorIs(err, domain.ErrNotFound)
	s.ErrorIs(s.svc.Ledger.Delete(s.ctx, other.User.ID, tx.ID), domain.ErrNotFound)

	amount := 1.0
	_, err = s.svc.Ledger.Update(s.ctx, other.User.ID, tx.ID, TransactionPatch{Amount: &amount})
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *ServiceSuite) TestListPaging() {
	for d := 1; d <= 25; d++ {
		s.expense(s.food, float64(d), june(d))
	}

	page, err := s.svc.Ledger.List(s.ctx, s.user.ID, TransactionQuery{Page: 2})
	s.Require().NoError(err)
	s.Equal(25, page.Total)
	s.Equal(2, page.Pages)
	s.Len(page.Items, 5)
	s.Equal(5.0, page.Items[0].Amount)

	page, err = s.svc.Ledger.List(s.ctx, s.user.ID, TransactionQuery{Limit: 500})
	s.Require().NoError(err)
	s.Len(page.Items, 25)
	s.Equal(1, page.Pages)
}

// === categories ===

func (s *ServiceSuite) TestCategoryDeletionRules() {
	err := s.svc.Categories.Delete(s.ctx, s.user.ID, s.food.ID)
	s.ErrorIs(err, domain.ErrInvalidInput)

	custom, err := s.svc.Categories.Create(s.ctx, s.user.ID, CategoryInput{Name: "Pets", Type: domain.TypeExpense})
	s.Require().NoError(err)
	s.Equal(defaultCategoryIcon, custom.Icon)

	s.expense(custom, 5, june(1))
	err = s.svc.Categories.Delete(s.ctx, s.user.ID, custom.ID)
	s.ErrorIs(err, domain.ErrConflict)

	spare, err := s.svc.Categories.Create(s.ctx, s.user.ID, CategoryInput{Name: "Spare", Type: domain.TypeExpense})
	s.Require().NoError(err)
	s.NoError(s.svc.Categories.Delete(s.ctx, s.user.ID, spare.ID))
}

func (s *ServiceSuite) TestCategoryNameConflict() {
	_, err := s.svc.Categories.Create(s.ctx, s.user.ID, CategoryInput{Name: "salary", Type: domain.TypeIncome})
	s.ErrorIs(err, domain.ErrConflict)

	_, err = s.svc.Categories.Create(s.ctx, s.user.ID, CategoryInput{Name: "Salary", Type: domain.TypeExpense})
	s.NoError(err)
}

// === dashboard ===

func (s *ServiceSuite) TestSummaryBreakdownMatchesTotals() {
	s.expense(s.food, 120.10, june(1))
	s.expense(s.food, 79.90, june(2))
	s.expense(s.fun, 50, june(3))
	s.income(1000, june(1))
	s.expense(s.fun, 999, time.Date(2024, time.May, 31, 0, 0, 0, 0, time.UTC))

	sum, err := s.svc.Dashboard.Summary(s.ctx, s.user.ID, "")
	s.Require().NoError(err)
	s.Equal(domain.PeriodThisMonth, sum.Period)
	s.Equal(1000.0, sum.TotalIncome)
	s.Equal(250.0, sum.TotalExpense)
	s.Equal(750.0, sum.Balance)
	s.Equal(4, sum.TransactionCount)

	s.Require().Len(sum.CategoryBreakdown, 2)
	s.Equal("Food & Dining", sum.CategoryBreakdown[0].Category.Name)
	s.Equal(200.0, sum.CategoryBreakdown[0].Total)
	s.Equal(2, sum.CategoryBreakdown[0].Count)
	s.Equal(80.0, sum.CategoryBreakdown[0].Percentage)

	total := 0.0
	for _, c := range sum.CategoryBreakdown {
		total += c.Total
	}
	s.InDelta(sum.TotalExpense, total, 1e-9)

	s.Len(sum.RecentTransactions, 5)
	s.Equal(june(3), sum.RecentTransactions[0].Date)
}

func (s *ServiceSuite) TestSubCentAmountsAreRoundedToCents() {
	s.expense(s.food, 0.005, june(1))
	s.expense(s.fun, 0.005, june(2))
	s.expense(s.category("Shopping"), 0.005, june(3))

	sum, err := s.svc.Dashboard.Summary(s.ctx, s.user.ID, domain.PeriodThisMonth)
	s.Require().NoError(err)
	s.Equal(0.03, sum.TotalExpense)

	total := 0.0
	for _, c := range sum.CategoryBreakdown {
		s.Equal(0.01, c.Total)
		total += c.Total
	}
	s.InDelta(sum.TotalExpense, total, 1e-9)

	_, err = s.svc.Ledger.Create(s.ctx, s.user.ID, TransactionInput{
		Type: domain.TypeExpense, Amount: 0.004, CategoryID: s.food.ID, Date: june(4),
	})
	s.ErrorIs(err, domain.ErrInvalidInput)

	b := s.monthlyBudget(s.food, 99.999, time.June)
	s.Equal(100.0, b.Amount)
}

func (s *ServiceSuite) TestSummaryPeriods() {
	s.expense(s.food, 10, time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC))
	s.expense(s.food, 20, time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC))
	s.expense(s.food, 40, time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC))

	last3, err := s.svc.Dashboard.Summary(s.ctx, s.user.ID, domain.PeriodLast3Months)
	s.Require().NoError(err)
	s.Equal(10.0, last3.TotalExpense)

	year, err := s.svc.Dashboard.Summary(s.ctx, s.user.ID, domain.PeriodThisYear)
	s.Require().NoError(err)
	s.Equal(30.0, year.TotalExpense)

	all, err := s.svc.Dashboard.Summary(s.ctx, s.user.ID, domain.PeriodAllTime)
	s.Require().NoError(err)
	s.Equal(70.0, all.TotalExpense)

	_, err = s.svc.Dashboard.Summary(s.ctx, s.user.ID, "fortnight")
	s.ErrorIs(err, domain.ErrInvalidInput)
}

func (s *ServiceSuite) TestEmptySummaryHasZeroPercentages() {
	sum, err := s.svc.Dashboard.Summary(s.ctx, s.user.ID, domain.PeriodThisMonth)
	s.Require().NoError(err)
	s.Zero(sum.TotalExpense)
	s.Empty(sum.CategoryBreakdown)
	s.NotNil(sum.CategoryBreakdown)
}

func (s *ServiceSuite) TestTrends() {
	s.income(500, june(1))
	s.expense(s.food, 200, june(2))
	s.expense(s.food, 100, time.Date(2024, time.April, 10, 0, 0, 0, 0, time.UTC))
	s.expense(s.food, 999, time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC))

	points, err := s.svc.Dashboard.Trends(s.ctx, s.user.ID, 3)
	s.Require().NoError(err)
	s.Require().Len(points, 3)

	s.Equal(TrendPoint{Month: "Apr", Year: 2024, Expense: 100, Balance: -100}, points[0])
	s.Equal(TrendPoint{Month: "May", Year: 2024}, points[1])
	s.Equal(TrendPoint{Month: "Jun", Year: 2024, Income: 500, Expense: 200, Balance: 300}, points[2])

	points, err = s.svc.Dashboard.Trends(s.ctx, s.user.ID, 0)
	s.Require().NoError(err)
	s.Len(points, DefaultTrendMonths)
	s.Equal("Jan", points[0].Month)

	_, err = s.svc.Dashboard.Trends(s.ctx, s.user.ID, 25)
	s.ErrorIs(err, domain.ErrInvalidInput)
}

func (s *ServiceSuite) TestInsights() {
	s.expense(s.food, 100, time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC))
	s.expense(s.food, 90, june(1))
	s.expense(s.fun, 60, june(2))

	report, err := s.svc.Dashboard.Insights(s.ctx, s.user.ID)
	s.Require().NoError(err)
	s.Equal(150.0, report.ThisMonthExpense)
	s.Equal(100.0, report.LastMonthExpense)
	s.Equal(50.0, report.ChangePercentage)

	s.Require().Len(report.Insights, 2)
	s.Equal("warning", report.Insights[0].Type)
	s.Equal("info", report.Insights[1].Type)
	s.Contains(report.Insights[1].Message, "Food & Dining")
}

func (s *ServiceSuite) TestInsightsWithoutHistory() {
	s.expense(s.food, 90, june(1))

	report, err := s.svc.Dashboard.Insights(s.ctx, s.user.ID)
	s.Require().NoError(err)
	s.Zero(report.ChangePercentage)
	s.Require().Len(report.Insights, 1)
	s.Equal("info", report.Insights[0].Type)
}

// === settings ===

func (s *ServiceSuite) TestSettings() {
	name := "Annie"
	eur := domain.Currency("EUR")
	user, err := s.svc.Settings.UpdateProfile(s.ctx, s.user.ID, ProfilePatch{Name: &name, Currency: &eur})
	s.Require().NoError(err)
	s.Equal("Annie", user.Name)
	s.Equal(eur, user.Currency)

	err = s.svc.Settings.ChangePassword(s.ctx, s.user.ID, "nope", "another1")
	s.ErrorIs(err, domain.ErrUnauthorized)
	s.EqualError(err, "Current password is incorrect")

	s.Require().NoError(s.svc.Settings.ChangePassword(s.ctx, s.user.ID, "secret1", "another1"))
	_, err = s.svc.Auth.Login(s.ctx, "ann@example.com", "another1")
	s.NoError(err)

	user, err = s.svc.Settings.UpdatePreferences(s.ctx, s.user.ID, map[string]any{"theme": "dark", "weekStart": 1.0})
	s.Require().NoError(err)
	user, err = s.svc.Settings.UpdatePreferences(s.ctx, s.user.ID, map[string]any{"weekStart": nil, "lang": "en"})
	s.Require().NoError(err)
	s.Equal(map[string]any{"theme": "dark", "lang": "en"}, user.Preferences)
}

func (s *ServiceSuite) TestDeleteAccountCascades() {
	s.monthlyBudget(s.food, 100, time.June)
	s.expense(s.food, 10, june(1))

	err := s.svc.Settings.DeleteAccount(s.ctx, s.user.ID, "wrong")
	s.ErrorIs(err, domain.ErrUnauthorized)

	s.Require().NoError(s.svc.Settings.DeleteAccount(s.ctx, s.user.ID, "secret1"))

	cats, _ := s.store.ListCategories(s.ctx, storage.CategoryFilter{UserID: s.user.ID})
	s.Empty(cats)
	_, total, _ := s.store.ListTransactions(s.ctx, storage.TransactionFilter{UserID: s.user.ID})
	s.Zero(total)
}

func TestMoneyRounding(t *testing.T) {
	txs := []domain.Transaction{
		{Type: domain.TypeExpense, Amount: 0.1, CategoryID: "a"},
		{Type: domain.TypeExpense, Amount: 0.2, CategoryID: "a"},
	}
	_, expense, breakdown := aggregate(txs, nil)
	assert.Equal(t, "0.3", expense.String())
	require.Len(t, breakdown, 1)
	assert.Equal(t, 0.3, breakdown[0].Total)
	assert.Equal(t, 100.0, breakdown[0].Percentage)
}
