// Package memory is a map-backed Store used for local development and tests.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/storage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Storage struct {
	mu sync.RWMutex

	users        map[string]*domain.User
	categories   map[string]*domain.Category
	transactions map[string]*domain.Transaction
	budgets      map[string]*domain.Budget

	now func() time.Time
}

var _ storage.Store = (*Storage)(nil)

func New() *Storage {
	return &Storage{
		users:        make(map[string]*domain.User),
		categories:   make(map[string]*domain.Category),
		transactions: make(map[string]*domain.Transaction),
		budgets:      make(map[string]*domain.Budget),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *Storage) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Storage) Close() {}

// === UserStorage ===

func (s *Storage) CreateUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(user.Email)
	for _, u := range s.users {
		if u.Email == email {
			return domain.Conflict("email", "Email already registered")
		}
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.Email = email
	user.CreatedAt = s.now()
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = cloneUser(user)
	return nil
}

func (s *Storage) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, domain.NotFound("user")
	}
	return cloneUser(u), nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email = strings.ToLower(email)
	for _, u := range s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.NotFound("user")
}

func (s *Storage) UpdateUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return domain.NotFound("user")
	}
	email := strings.ToLower(user.Email)
	for id, u := range s.users {
		if id != user.ID && u.Email == email {
			return domain.Conflict("email", "Email already registered")
		}
	}
	user.Email = email
	user.UpdatedAt = s.now()
	s.users[user.ID] = cloneUser(user)
	return nil
}

func (s *Storage) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return domain.NotFound("user")
	}
	for txID, tx := range s.transactions {
		if tx.UserID == id {
			delete(s.transactions, txID)
		}
	}
	for bID, b := range s.budgets {
		if b.UserID == id {
			delete(s.budgets, bID)
		}
	}
	for cID, c := range s.categories {
		if c.UserID == id {
			delete(s.categories, cID)
		}
	}
	delete(s.users, id)
	return nil
}

// === CategoryStorage ===

func (s *Storage) CreateCategories(ctx context.Context, categories []*domain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool)
	for _, c := range categories {
		key := categoryKey(c)
		if seen[key] || s.categoryExists(c, "") {
			return domain.Conflict("name", fmt.Sprintf("Category %q already exists", c.Name))
		}
		seen[key] = true
	}

	now := s.now()
	for _, c := range categories {
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		c.CreatedAt = now
		c.UpdatedAt = now
		cp := *c
		s.categories[c.ID] = &cp
	}
	return nil
}

func (s *Storage) GetCategory(ctx context.Context, userID, id string) (*domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories[id]
	if !ok || c.UserID != userID {
		return nil, domain.NotFound("category")
	}
	cp := *c
	return &cp, nil
}

func (s *Storage) ListCategories(ctx context.Context, filter storage.CategoryFilter) ([]domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Category, 0)
	for _, c := range s.categories {
		if c.UserID != filter.UserID {
			continue
		}
		if filter.Type != "" && c.Type != filter.Type {
			continue
		}
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Type != result[j].Type {
			return result[i].Type < result[j].Type
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (s *Storage) UpdateCategory(ctx context.Context, category *domain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.categories[category.ID]
	if !ok || existing.UserID != category.UserID {
		return domain.NotFound("category")
	}
	if s.categoryExists(category, category.ID) {
		return domain.Conflict("name", fmt.Sprintf("Category %q already exists", category.Name))
	}
	category.CreatedAt = existing.CreatedAt
	category.UpdatedAt = s.now()
	cp := *category
	s.categories[category.ID] = &cp
	return nil
}

func (s *Storage) DeleteCategory(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[id]
	if !ok || c.UserID != userID {
		return domain.NotFound("category")
	}
	delete(s.categories, id)
	return nil
}

func (s *Storage) categoryExists(c *domain.Category, exceptID string) bool {
	key := categoryKey(c)
	for id, other := range s.categories {
		if id != exceptID && categoryKey(other) == key {
			return true
		}
	}
	return false
}

func categoryKey(c *domain.Category) string {
	return c.UserID + "|" + string(c.Type) + "|" + strings.ToLower(c.Name)
}

// === TransactionStorage ===

func (s *Storage) CreateTransaction(ctx context.Context, tx *domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	tx.CreatedAt = s.now()
	tx.UpdatedAt = tx.CreatedAt
	s.transactions[tx.ID] = cloneTransaction(tx)
	return nil
}

func (s *Storage) GetTransaction(ctx context.Context, userID, id string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, ok := s.transactions[id]
	if !ok || tx.UserID != userID {
		return nil, domain.NotFound("transaction")
	}
	return cloneTransaction(tx), nil
}

func (s *Storage) UpdateTransaction(ctx context.Context, tx *domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.transactions[tx.ID]
	if !ok || existing.UserID != tx.UserID {
		return domain.NotFound("transaction")
	}
	tx.CreatedAt = existing.CreatedAt
	tx.UpdatedAt = s.now()
	s.transactions[tx.ID] = cloneTransaction(tx)
	return nil
}

func (s *Storage) DeleteTransaction(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.transactions[id]
	if !ok || tx.UserID != userID {
		return domain.NotFound("transaction")
	}
	delete(s.transactions, id)
	return nil
}

func (s *Storage) ListTransactions(ctx context.Context, filter storage.TransactionFilter) ([]domain.Transaction, int, error) {
	s.mu.RLock()
	matches := s.filterTransactions(filter)
	s.mu.RUnlock()

	sortTransactions(matches, filter.Sort)

	total := len(matches)
	start := min(filter.Offset, total)
	end := total
	if filter.Limit > 0 {
		end = min(start+filter.Limit, total)
	}

	page := make([]domain.Transaction, 0, end-start)
	for _, tx := range matches[start:end] {
		page = append(page, *cloneTransaction(&tx))
	}
	return page, total, nil
}

func (s *Storage) SumTransactions(ctx context.Context, filter storage.TransactionFilter) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := decimal.Zero
	for _, tx := range s.filterTransactions(filter) {
		sum = sum.Add(decimal.NewFromFloat(tx.Amount))
	}
	return sum.InexactFloat64(), nil
}

func (s *Storage) CountByCategory(ctx context.Context, userID, categoryID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, tx := range s.transactions {
		if tx.UserID == userID && tx.CategoryID == categoryID {
			n++
		}
	}
	for _, b := range s.budgets {
		if b.UserID == userID && b.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

// filterTransactions must be called with s.mu held.
func (s *Storage) filterTransactions(f storage.TransactionFilter) []domain.Transaction {
	search := strings.ToLower(f.Search)
	result := make([]domain.Transaction, 0)
	for _, tx := range s.transactions {
		if tx.UserID != f.UserID {
			continue
		}
		if f.Type != "" && tx.Type != f.Type {
			continue
		}
		if f.CategoryID != "" && tx.CategoryID != f.CategoryID {
			continue
		}
		if !f.Range.Contains(tx.Date) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(tx.Description), search) {
			continue
		}
		result = append(result, *tx)
	}
	return result
}

func sortTransactions(txs []domain.Transaction, field storage.SortField) {
	less := func(a, b domain.Transaction) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	}
	switch field {
	case storage.SortDateAsc:
		less = func(a, b domain.Transaction) int {
			if c := a.Date.Compare(b.Date); c != 0 {
				return c
			}
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	case storage.SortAmountDesc:
		less = func(a, b domain.Transaction) int { return compareFloat(b.Amount, a.Amount) }
	case storage.SortAmountAsc:
		less = func(a, b domain.Transaction) int { return compareFloat(a.Amount, b.Amount) }
	}
	slices.SortStableFunc(txs, less)
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// === BudgetStorage ===

func (s *Storage) CreateBudget(ctx context.Context, budget *domain.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.budgetExists(budget.Key(), "") {
		return domain.Conflict("period", "Budget already exists for this category and period")
	}
	if budget.ID == "" {
		budget.ID = uuid.NewString()
	}
	budget.CreatedAt = s.now()
	budget.UpdatedAt = budget.CreatedAt
	s.budgets[budget.ID] = cloneBudget(budget)
	return nil
}

func (s *Storage) GetBudget(ctx context.Context, userID, id string) (*domain.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.budgets[id]
	if !ok || b.UserID != userID {
		return nil, domain.NotFound("budget")
	}
	return cloneBudget(b), nil
}

func (s *Storage) FindBudget(ctx context.Context, key domain.BudgetKey) (*domain.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.budgets {
		if b.Key() == key {
			return cloneBudget(b), nil
		}
	}
	return nil, domain.NotFound("budget")
}

func (s *Storage) ListBudgets(ctx context.Context, filter storage.BudgetFilter) ([]domain.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Budget, 0)
	for _, b := range s.budgets {
		if b.UserID != filter.UserID {
			continue
		}
		if filter.CategoryID != "" && b.CategoryID != filter.CategoryID {
			continue
		}
		if filter.Period != "" && b.Period != filter.Period {
			continue
		}
		if filter.Month != 0 && b.MonthValue() != filter.Month {
			continue
		}
		if filter.Year != 0 && b.Year != filter.Year {
			continue
		}
		result = append(result, *cloneBudget(b))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Year != result[j].Year {
			return result[i].Year > result[j].Year
		}
		if result[i].MonthValue() != result[j].MonthValue() {
			return result[i].MonthValue() > result[j].MonthValue()
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *Storage) UpdateBudget(ctx context.Context, budget *domain.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.budgets[budget.ID]
	if !ok || existing.UserID != budget.UserID {
		return domain.NotFound("budget")
	}
	if s.budgetExists(budget.Key(), budget.ID) {
		return domain.Conflict("period", "Budget already exists for this category and period")
	}
	budget.CreatedAt = existing.CreatedAt
	budget.UpdatedAt = s.now()
	s.budgets[budget.ID] = cloneBudget(budget)
	return nil
}

func (s *Storage) SetBudgetSpent(ctx context.Context, id string, spent float64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.budgets[id]
	if !ok {
		return domain.NotFound("budget")
	}
	b.Spent = spent
	b.UpdatedAt = at
	return nil
}

func (s *Storage) DeleteBudget(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.budgets[id]
	if !ok || b.UserID != userID {
		return domain.NotFound("budget")
	}
	delete(s.budgets, id)
	return nil
}

func (s *Storage) budgetExists(key domain.BudgetKey, exceptID string) bool {
	for id, b := range s.budgets {
		if id != exceptID && b.Key() == key {
			return true
		}
	}
	return false
}

// === copies ===

func cloneUser(u *domain.User) *domain.User {
	cp := *u
	if u.Preferences != nil {
		cp.Preferences = make(map[string]any, len(u.Preferences))
		for k, v := range u.Preferences {
			cp.Preferences[k] = v
		}
	}
	return &cp
}

func cloneTransaction(tx *domain.Transaction) *domain.Transaction {
	cp := *tx
	cp.Tags = slices.Clone(tx.Tags)
	cp.Category = nil
	return &cp
}

func cloneBudget(b *domain.Budget) *domain.Budget {
	cp := *b
	if b.Month != nil {
		m := *b.Month
		cp.Month = &m
	}
	cp.Category = nil
	return &cp
}
