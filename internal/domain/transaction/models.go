package transaction

import (
	"errors"
	"strings"
	"time"

	"finclusion/internal/domain/category"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidCategory     = errors.New("invalid category")
	ErrInvalidPeriod       = errors.New("invalid period")
)

// Type reuses the category direction: a transaction is income or expense.
type Type = category.Type

const (
	TypeIncome  = category.TypeIncome
	TypeExpense = category.TypeExpense
)

type Transaction struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	CategoryID  string       `json:"category_id"`
	Type        Type         `json:"type"`
	Amount      float64      `json:"amount"`
	Description string       `json:"description"`
	Date        time.Time    `json:"date"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Category    *CategoryRef `json:"category,omitempty"`
}

// CategoryRef is the joined category shown alongside a transaction.
type CategoryRef struct {
	Name  string `json:"name"`
	Type  Type   `json:"type"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

type CreateParams struct {
	Type        Type
	Amount      float64
	CategoryID  string
	Description string
	Date        time.Time
}

func (p *CreateParams) Validate() error {
	if !p.Type.Valid() {
		return errors.New("type must be income or expense")
	}
	if p.Amount <= 0 {
		return errors.New("amount must be greater than zero")
	}
	if strings.TrimSpace(p.CategoryID) == "" {
		return errors.New("category_id is required")
	}
	if len(p.Description) > 255 {
		return errors.New("description must be 255 characters or less")
	}
	return nil
}

type UpdateParams struct {
	Type        *Type
	Amount      *float64
	CategoryID  *string
	Description *string
	Date        *time.Time
}

func (p *UpdateParams) Validate() error {
	if p.Type != nil && !p.Type.Valid() {
		return errors.New("type must be income or expense")
	}
	if p.Amount != nil && *p.Amount <= 0 {
		return errors.New("amount must be greater than zero")
	}
	if p.CategoryID != nil && strings.TrimSpace(*p.CategoryID) == "" {
		return errors.New("category_id must not be empty")
	}
	if p.Description != nil && len(*p.Description) > 255 {
		return errors.New("description must be 255 characters or less")
	}
	return nil
}
