// internal/domain/models.go
package domain

import "time"

type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentCard         PaymentMethod = "card"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentOther        PaymentMethod = "other"
)

type Currency string

// Currencies lists the currencies a user may pick for display.
var Currencies = []Currency{"USD", "EUR", "GBP", "INR", "JPY", "CAD", "AUD"}

const DefaultCurrency Currency = "USD"

func (c Currency) Valid() bool {
	for _, cur := range Currencies {
		if c == cur {
			return true
		}
	}
	return false
}

// User владеет всеми остальными записями
type User struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	PasswordHash string         `json:"-"`
	Currency     Currency       `json:"currency"`
	Preferences  map[string]any `json:"preferences"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

type Category struct {
	ID        string          `json:"id"`
	UserID    string          `json:"-"`
	Name      string          `json:"name"`
	Type      TransactionType `json:"type"`
	Icon      string          `json:"icon"`
	Color     string          `json:"color"`
	IsDefault bool            `json:"isDefault"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// CategoryRef is the trimmed category attached to transactions and budgets in responses.
type CategoryRef struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Type  TransactionType `json:"type"`
	Icon  string          `json:"icon"`
	Color string          `json:"color"`
}

func (c Category) Ref() *CategoryRef {
	return &CategoryRef{ID: c.ID, Name: c.Name, Type: c.Type, Icon: c.Icon, Color: c.Color}
}

type Transaction struct {
	ID            string          `json:"id"`
	UserID        string          `json:"-"`
	Type          TransactionType `json:"type"`
	Amount        float64         `json:"amount"`
	CategoryID    string          `json:"categoryId"`
	Category      *CategoryRef    `json:"category,omitempty"`
	Description   string          `json:"description"`
	Date          time.Time       `json:"date"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Tags          []string        `json:"tags"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}
