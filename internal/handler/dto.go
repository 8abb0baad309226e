// internal/handler/dto.go
package handler

import (
	"time"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/service"
	"finance-tracker/internal/storage"
	val "finance-tracker/internal/validator"
)

// === auth ===

type SignupRequest struct {
	Name     string `json:"name" validate:"required,notblank,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Currency string `json:"currency" validate:"omitempty,currency"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// === transactions ===

type CreateTransactionRequest struct {
	Type          string   `json:"type" validate:"required,oneof=income expense"`
	Amount        float64  `json:"amount" validate:"required,gt=0,money"`
	CategoryID    string   `json:"categoryId" validate:"required,uuid"`
	Description   string   `json:"description" validate:"max=200"`
	Date          string   `json:"date" validate:"omitempty,isodate"`
	PaymentMethod string   `json:"paymentMethod" validate:"omitempty,oneof=cash card bank_transfer other"`
	Tags          []string `json:"tags" validate:"omitempty,max=20,dive,notblank,max=30"`
}

func (r CreateTransactionRequest) toInput() service.TransactionInput {
	in := service.TransactionInput{
		Type:          domain.TransactionType(r.Type),
		Amount:        r.Amount,
		CategoryID:    r.CategoryID,
		Description:   r.Description,
		PaymentMethod: domain.PaymentMethod(r.PaymentMethod),
		Tags:          r.Tags,
	}
	if r.Date != "" {
		in.Date, _ = val.ParseDate(r.Date)
	}
	return in
}

type UpdateTransactionRequest struct {
	Type          *string  `json:"type" validate:"omitnil,oneof=income expense"`
	Amount        *float64 `json:"amount" validate:"omitnil,gt=0,money"`
	CategoryID    *string  `json:"categoryId" validate:"omitnil,uuid"`
	Description   *string  `json:"description" validate:"omitnil,max=200"`
	Date          *string  `json:"date" validate:"omitnil,isodate"`
	PaymentMethod *string  `json:"paymentMethod" validate:"omitnil,oneof=cash card bank_transfer other"`
	Tags          []string `json:"tags" validate:"omitempty,max=20,dive,notblank,max=30"`
}

func (r UpdateTransactionRequest) toPatch() service.TransactionPatch {
	p := service.TransactionPatch{
		Amount:      r.Amount,
		CategoryID:  r.CategoryID,
		Description: r.Description,
		Tags:        r.Tags,
	}
	if r.Type != nil {
		t := domain.TransactionType(*r.Type)
		p.Type = &t
	}
	if r.PaymentMethod != nil {
		m := domain.PaymentMethod(*r.PaymentMethod)
		p.PaymentMethod = &m
	}
	if r.Date != nil {
		d, _ := val.ParseDate(*r.Date)
		p.Date = &d
	}
	return p
}

// TransactionQuery is shared by the list and CSV export endpoints.
type TransactionQuery struct {
	Type      string `form:"type" json:"type" validate:"omitempty,oneof=income expense"`
	Category  string `form:"category" json:"category" validate:"omitempty,uuid"`
	StartDate string `form:"startDate" json:"startDate" validate:"omitempty,isodate"`
	EndDate   string `form:"endDate" json:"endDate" validate:"omitempty,isodate"`
	Search    string `form:"search" json:"search" validate:"max=100"`
	Sort      string `form:"sort" json:"sort" validate:"omitempty,oneof=date -date amount -amount"`
	Page      int    `form:"page" json:"page" validate:"omitempty,min=1"`
	Limit     int    `form:"limit" json:"limit" validate:"omitempty,min=1"`
}

// toQuery converts the request. endDate covers its whole day.
func (q TransactionQuery) toQuery() service.TransactionQuery {
	out := service.TransactionQuery{
		Type:       domain.TransactionType(q.Type),
		CategoryID: q.Category,
		Search:     q.Search,
		Sort:       storage.SortField(q.Sort),
		Page:       q.Page,
		Limit:      q.Limit,
	}
	if q.StartDate != "" {
		out.Range.From, _ = val.ParseDate(q.StartDate)
	}
	if q.EndDate != "" {
		end, _ := val.ParseDate(q.EndDate)
		out.Range.To = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	}
	return out
}

// === categories ===

type CreateCategoryRequest struct {
	Name  string `json:"name" validate:"required,notblank,max=50"`
	Type  string `json:"type" validate:"required,oneof=income expense"`
	Icon  string `json:"icon" validate:"max=16"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

type UpdateCategoryRequest struct {
	Name  *string `json:"name" validate:"omitnil,notblank,max=50"`
	Type  *string `json:"type" validate:"omitnil,oneof=income expense"`
	Icon  *string `json:"icon" validate:"omitnil,max=16"`
	Color *string `json:"color" validate:"omitnil,hexcolor"`
}

func (r UpdateCategoryRequest) toPatch() service.CategoryPatch {
	p := service.CategoryPatch{Name: r.Name, Icon: r.Icon, Color: r.Color}
	if r.Type != nil {
		t := domain.TransactionType(*r.Type)
		p.Type = &t
	}
	return p
}

type CategoryQuery struct {
	Type string `form:"type" json:"type" validate:"omitempty,oneof=income expense"`
}

// === budgets ===

type CreateBudgetRequest struct {
	CategoryID     string   `json:"categoryId" validate:"required,uuid"`
	Amount         *float64 `json:"amount" validate:"required,gte=0,money"`
	Period         string   `json:"period" validate:"required,oneof=monthly yearly"`
	Month          *int     `json:"month" validate:"omitnil,min=1,max=12"`
	Year           int      `json:"year" validate:"required,gte=2000,lte=2100"`
	AlertThreshold *int     `json:"alertThreshold" validate:"omitnil,gte=0,lte=100"`
}

func (r CreateBudgetRequest) toInput() service.BudgetInput {
	return service.BudgetInput{
		CategoryID:     r.CategoryID,
		Amount:         *r.Amount,
		Period:         domain.BudgetPeriod(r.Period),
		Month:          r.Month,
		Year:           r.Year,
		AlertThreshold: r.AlertThreshold,
	}
}

type UpdateBudgetRequest struct {
	CategoryID     *string  `json:"categoryId" validate:"omitnil,uuid"`
	Amount         *float64 `json:"amount" validate:"omitnil,gte=0,money"`
	Period         *string  `json:"period" validate:"omitnil,oneof=monthly yearly"`
	Month          *int     `json:"month" validate:"omitnil,min=1,max=12"`
	Year           *int     `json:"year" validate:"omitnil,gte=2000,lte=2100"`
	AlertThreshold *int     `json:"alertThreshold" validate:"omitnil,gte=0,lte=100"`
}

func (r UpdateBudgetRequest) toPatch() service.BudgetPatch {
	p := service.BudgetPatch{
		CategoryID:     r.CategoryID,
		Amount:         r.Amount,
		Month:          r.Month,
		Year:           r.Year,
		AlertThreshold: r.AlertThreshold,
	}
	if r.Period != nil {
		period := domain.BudgetPeriod(*r.Period)
		p.Period = &period
	}
	return p
}

type BudgetQuery struct {
	Period string `form:"period" json:"period" validate:"omitempty,oneof=monthly yearly"`
	Month  int    `form:"month" json:"month" validate:"omitempty,min=1,max=12"`
	Year   int    `form:"year" json:"year" validate:"omitempty,gte=2000,lte=2100"`
}

// === dashboard & export ===

type SummaryQuery struct {
	Period string `form:"period" json:"period" validate:"omitempty,oneof=thisMonth lastMonth last3Months thisYear allTime"`
}

type TrendsQuery struct {
	Months int `form:"months" json:"months" validate:"omitempty,min=1,max=24"`
}

// === settings ===

type ProfileRequest struct {
	Name     *string `json:"name" validate:"omitnil,notblank,min=2,max=50"`
	Email    *string `json:"email" validate:"omitnil,email"`
	Currency *string `json:"currency" validate:"omitnil,currency"`
}

func (r ProfileRequest) toPatch() service.ProfilePatch {
	p := service.ProfilePatch{Name: r.Name, Email: r.Email}
	if r.Currency != nil {
		cur := domain.Currency(*r.Currency)
		p.Currency = &cur
	}
	return p
}

type PasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

type PreferencesRequest struct {
	Preferences map[string]any `json:"preferences" validate:"required"`
}

type DeleteAccountRequest struct {
	Password string `json:"password" validate:"required"`
}
