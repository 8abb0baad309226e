// internal/storage/postgres/postgres.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"finance-tracker/internal/config"
	"finance-tracker/internal/domain"
	"finance-tracker/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeInvalidText         = "22P02"
)

type Storage struct {
	db *pgxpool.Pool
}

var _ storage.Store = (*Storage)(nil)

func NewStorage(db *pgxpool.Pool) *Storage {
	return &Storage{db: db}
}

// Connect opens a pool sized and timed from config and checks it answers.
func Connect(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DBConn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	poolCfg.MaxConns = cfg.DBMaxConns
	poolCfg.ConnConfig.ConnectTimeout = cfg.DBConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DBConnectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *Storage) Close() {
	s.db.Close()
}

// translate maps driver errors onto the domain error kinds.
func translate(op, what string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NotFound(what)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return uniqueConflict(pgErr.ConstraintName)
		case codeForeignKeyViolation:
			return domain.Conflict("", what+" is referenced by other records")
		case codeCheckViolation:
			return domain.Invalid(what, "Invalid "+what)
		case codeInvalidText:
			return domain.NotFound(what)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func uniqueConflict(constraint string) error {
	switch constraint {
	case "users_email_key":
		return domain.Conflict("email", "Email already registered")
	case "categories_user_name_type_idx":
		return domain.Conflict("name", "Category already exists")
	case "budgets_scope_idx":
		return domain.Conflict("period", "Budget already exists for this category and period")
	}
	return domain.Conflict("", "Duplicate record")
}

// === UserStorage ===

const userColumns = `id, name, email, password_hash, currency, preferences, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Currency, &u.Preferences, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Storage) CreateUser(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.Email = strings.ToLower(user.Email)
	if user.Preferences == nil {
		user.Preferences = map[string]any{}
	}

	err := s.db.QueryRow(ctx, `
		INSERT INTO users (id, name, email, password_hash, currency, preferences)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`, user.ID, user.Name, user.Email, user.PasswordHash, user.Currency, user.Preferences).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return translate("create user", "user", err)
	}
	return nil
}

func (s *Storage) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, translate("get user", "user", err)
	}
	return u, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, strings.ToLower(email)))
	if err != nil {
		return nil, translate("get user by email", "user", err)
	}
	return u, nil
}

func (s *Storage) UpdateUser(ctx context.Context, user *domain.User) error {
	user.Email = strings.ToLower(user.Email)
	if user.Preferences == nil {
		user.Preferences = map[string]any{}
	}

	err := s.db.QueryRow(ctx, `
		UPDATE users
		SET name = $2, email = $3, password_hash = $4, currency = $5, preferences = $6, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`, user.ID, user.Name, user.Email, user.PasswordHash, user.Currency, user.Preferences).Scan(&user.UpdatedAt)
	if err != nil {
		return translate("update user", "user", err)
	}
	return nil
}

// DeleteUser relies on ON DELETE CASCADE for owned rows.
func (s *Storage) DeleteUser(ctx context.Context, id string) error {
	result, err := s.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return translate("delete user", "user", err)
	}
	if result.RowsAffected() == 0 {
		return domain.NotFound("user")
	}
	return nil
}

// === CategoryStorage ===

const categoryColumns = `id, user_id, name, type, icon, color, is_default, created_at, updated_at`

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Type, &c.Icon, &c.Color, &c.IsDefault, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Storage) CreateCategories(ctx context.Context, categories []*domain.Category) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, c := range categories {
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		err := tx.QueryRow(ctx, `
			INSERT INTO categories (id, user_id, name, type, icon, color, is_default)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING created_at, updated_at
		`, c.ID, c.UserID, c.Name, c.Type, c.Icon, c.Color, c.IsDefault).Scan(&c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return translate(fmt.Sprintf("create category %q", c.Name), "category", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	slog.Debug("categories created", "count", len(categories))
	return nil
}

func (s *Storage) GetCategory(ctx context.Context, userID, id string) (*domain.Category, error) {
	c, err := scanCategory(s.db.QueryRow(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		return nil, translate("get category", "category", err)
	}
	return c, nil
}

func (s *Storage) ListCategories(ctx context.Context, filter storage.CategoryFilter) ([]domain.Category, error) {
	q := newQuery(`SELECT ` + categoryColumns + ` FROM categories`)
	q.where("user_id = ?", filter.UserID)
	if filter.Type != "" {
		q.where("type = ?", filter.Type)
	}

	rows, err := s.db.Query(ctx, q.sql()+` ORDER BY type, name`, q.args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]domain.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

func (s *Storage) UpdateCategory(ctx context.Context, c *domain.Category) error {
	err := s.db.QueryRow(ctx, `
		UPDATE categories
		SET name = $3, type = $4, icon = $5, color = $6, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING created_at, updated_at
	`, c.ID, c.UserID, c.Name, c.Type, c.Icon, c.Color).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return translate("update category", "category", err)
	}
	return nil
}

func (s *Storage) DeleteCategory(ctx context.Context, userID, id string) error {
	result, err := s.db.Exec(ctx, `DELETE FROM categories WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return translate("delete category", "category", err)
	}
	if result.RowsAffected() == 0 {
		return domain.NotFound("category")
	}
	return nil
}

// === TransactionStorage ===

const transactionColumns = `id, user_id, type, amount, category_id, description, date, payment_method, tags, created_at, updated_at`

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.CategoryID, &t.Description, &t.Date,
		&t.PaymentMethod, &t.Tags, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.Date = t.Date.UTC()
	return &t, nil
}

func (s *Storage) CreateTransaction(ctx context.Context, t *domain.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	err := s.db.QueryRow(ctx, `
		INSERT INTO transactions (id, user_id, type, amount, category_id, description, date, payment_method, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`, t.ID, t.UserID, t.Type, t.Amount, t.CategoryID, t.Description, t.Date, t.PaymentMethod, t.Tags).
		Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return translate("create transaction", "transaction", err)
	}
	return nil
}

func (s *Storage) GetTransaction(ctx context.Context, userID, id string) (*domain.Transaction, error) {
	t, err := scanTransaction(s.db.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		return nil, translate("get transaction", "transaction", err)
	}
	return t, nil
}

func (s *Storage) UpdateTransaction(ctx context.Context, t *domain.Transaction) error {
	if t.Tags == nil {
		t.Tags = []string{}
	}
	err := s.db.QueryRow(ctx, `
		UPDATE transactions
		SET type = $3, amount = $4, category_id = $5, description = $6, date = $7,
		    payment_method = $8, tags = $9, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING created_at, updated_at
	`, t.ID, t.UserID, t.Type, t.Amount, t.CategoryID, t.Description, t.Date, t.PaymentMethod, t.Tags).
		Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return translate("update transaction", "transaction", err)
	}
	return nil
}

func (s *Storage) DeleteTransaction(ctx context.Context, userID, id string) error {
	result, err := s.db.Exec(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.NotFound("transaction")
	}
	return nil
}

func transactionWhere(base string, f storage.TransactionFilter) *query {
	q := newQuery(base)
	q.where("user_id = ?", f.UserID)
	if f.Type != "" {
		q.where("type = ?", f.Type)
	}
	if f.CategoryID != "" {
		q.where("category_id = ?", f.CategoryID)
	}
	if !f.Range.From.IsZero() {
		q.where("date >= ?", f.Range.From)
	}
	if !f.Range.To.IsZero() {
		q.where("date < ?", f.Range.To)
	}
	if f.Search != "" {
		q.where("description ILIKE ?", "%"+escapeLike(f.Search)+"%")
	}
	return q
}

func orderBy(field storage.SortField) string {
	switch field {
	case storage.SortDateAsc:
		return ` ORDER BY date ASC, created_at ASC`
	case storage.SortAmountDesc:
		return ` ORDER BY amount DESC, date DESC`
	case storage.SortAmountAsc:
		return ` ORDER BY amount ASC, date DESC`
	default:
		return ` ORDER BY date DESC, created_at DESC`
	}
}

func (s *Storage) ListTransactions(ctx context.Context, f storage.TransactionFilter) ([]domain.Transaction, int, error) {
	countQ := transactionWhere(`SELECT count(*) FROM transactions`, f)
	var total int
	if err := s.db.QueryRow(ctx, countQ.sql(), countQ.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	q := transactionWhere(`SELECT `+transactionColumns+` FROM transactions`, f)
	sql := q.sql() + orderBy(f.Sort)
	if f.Limit > 0 {
		sql += q.placeholder(" LIMIT ?", f.Limit)
	}
	if f.Offset > 0 {
		sql += q.placeholder(" OFFSET ?", f.Offset)
	}

	rows, err := s.db.Query(ctx, sql, q.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]domain.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}
	return txs, total, nil
}

func (s *Storage) SumTransactions(ctx context.Context, f storage.TransactionFilter) (float64, error) {
	q := transactionWhere(`SELECT COALESCE(SUM(amount), 0)::float8 FROM transactions`, f)
	var sum float64
	if err := s.db.QueryRow(ctx, q.sql(), q.args...).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum transactions: %w", err)
	}
	return sum, nil
}

func (s *Storage) CountByCategory(ctx context.Context, userID, categoryID string) (int, error) {
	var n int
	err := s.db.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM transactions WHERE user_id = $1 AND category_id = $2) +
			(SELECT count(*) FROM budgets WHERE user_id = $1 AND category_id = $2)
	`, userID, categoryID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count category usage: %w", err)
	}
	return n, nil
}

// === BudgetStorage ===

const budgetColumns = `id, user_id, category_id, amount, period, month, year, spent, alert_threshold, created_at, updated_at`

func scanBudget(row pgx.Row) (*domain.Budget, error) {
	var b domain.Budget
	err := row.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Amount, &b.Period, &b.Month, &b.Year,
		&b.Spent, &b.AlertThreshold, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Storage) CreateBudget(ctx context.Context, b *domain.Budget) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	err := s.db.QueryRow(ctx, `
		INSERT INTO budgets (id, user_id, category_id, amount, period, month, year, spent, alert_threshold)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`, b.ID, b.UserID, b.CategoryID, b.Amount, b.Period, b.Month, b.Year, b.Spent, b.AlertThreshold).
		Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return translate("create budget", "budget", err)
	}
	return nil
}

func (s *Storage) GetBudget(ctx context.Context, userID, id string) (*domain.Budget, error) {
	b, err := scanBudget(s.db.QueryRow(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		return nil, translate("get budget", "budget", err)
	}
	return b, nil
}

func (s *Storage) FindBudget(ctx context.Context, key domain.BudgetKey) (*domain.Budget, error) {
	b, err := scanBudget(s.db.QueryRow(ctx, `
		SELECT `+budgetColumns+` FROM budgets
		WHERE user_id = $1 AND category_id = $2 AND period = $3 AND COALESCE(month, 0) = $4 AND year = $5
	`, key.UserID, key.CategoryID, key.Period, key.Month, key.Year))
	if err != nil {
		return nil, translate("find budget", "budget", err)
	}
	return b, nil
}

func (s *Storage) ListBudgets(ctx context.Context, f storage.BudgetFilter) ([]domain.Budget, error) {
	q := newQuery(`SELECT ` + budgetColumns + ` FROM budgets`)
	q.where("user_id = ?", f.UserID)
	if f.CategoryID != "" {
		q.where("category_id = ?", f.CategoryID)
	}
	if f.Period != "" {
		q.where("period = ?", f.Period)
	}
	if f.Month != 0 {
		q.where("month = ?", f.Month)
	}
	if f.Year != 0 {
		q.where("year = ?", f.Year)
	}

	rows, err := s.db.Query(ctx, q.sql()+` ORDER BY year DESC, COALESCE(month, 0) DESC, created_at DESC`, q.args...)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	budgets := make([]domain.Budget, 0)
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, *b)
	}
	return budgets, rows.Err()
}

func (s *Storage) UpdateBudget(ctx context.Context, b *domain.Budget) error {
	err := s.db.QueryRow(ctx, `
		UPDATE budgets
		SET category_id = $3, amount = $4, period = $5, month = $6, year = $7,
		    spent = $8, alert_threshold = $9, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING created_at, updated_at
	`, b.ID, b.UserID, b.CategoryID, b.Amount, b.Period, b.Month, b.Year, b.Spent, b.AlertThreshold).
		Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return translate("update budget", "budget", err)
	}
	return nil
}

func (s *Storage) SetBudgetSpent(ctx context.Context, id string, spent float64, at time.Time) error {
	result, err := s.db.Exec(ctx, `UPDATE budgets SET spent = $2, updated_at = $3 WHERE id = $1`, id, spent, at)
	if err != nil {
		return fmt.Errorf("set budget spent: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.NotFound("budget")
	}
	return nil
}

func (s *Storage) DeleteBudget(ctx context.Context, userID, id string) error {
	result, err := s.db.Exec(ctx, `DELETE FROM budgets WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.NotFound("budget")
	}
	return nil
}
