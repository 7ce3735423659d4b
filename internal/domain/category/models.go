package category

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrCategoryNotFound  = errors.New("category not found")
	ErrDuplicateCategory = errors.New("category already exists")
)

// Type is the direction of money a category (and its transactions) records.
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

const (
	DefaultColor = "#6B7280"
	DefaultIcon  = "default"
)

type Category struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Type      Type      `json:"type"`
	Color     string    `json:"color"`
	Icon      string    `json:"icon"`
	Budget    *float64  `json:"budget"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateParams struct {
	Name   string
	Type   Type
	Color  string
	Icon   string
	Budget *float64
}

func (p *CreateParams) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("name is required")
	}
	if len(p.Name) > 64 {
		return errors.New("name must be 64 characters or less")
	}
	if !p.Type.Valid() {
		return errors.New("type must be income or expense")
	}
	if len(p.Color) > 32 {
		return errors.New("color must be 32 characters or less")
	}
	if len(p.Icon) > 32 {
		return errors.New("icon must be 32 characters or less")
	}
	if p.Budget != nil && *p.Budget < 0 {
		return errors.New("budget must not be negative")
	}
	return nil
}

type UpdateParams struct {
	Name   *string
	Type   *Type
	Color  *string
	Icon   *string
	Budget *float64
}

func (p *UpdateParams) Validate() error {
	if p.Name != nil {
		if strings.TrimSpace(*p.Name) == "" {
			return errors.New("name must not be empty")
		}
		if len(*p.Name) > 64 {
			return errors.New("name must be 64 characters or less")
		}
	}
	if p.Type != nil && !p.Type.Valid() {
		return errors.New("type must be income or expense")
	}
	if p.Color != nil && len(*p.Color) > 32 {
		return errors.New("color must be 32 characters or less")
	}
	if p.Icon != nil && len(*p.Icon) > 32 {
		return errors.New("icon must be 32 characters or less")
	}
	if p.Budget != nil && *p.Budget < 0 {
		return errors.New("budget must not be negative")
	}
	return nil
}

// DefaultCategories is the set every new principal starts with.
func DefaultCategories() []CreateParams {
	return []CreateParams{
		{Name: "Food", Type: TypeExpense, Color: "#FF7D7D", Icon: "food"},
		{Name: "Shopping", Type: TypeExpense, Color: "#8B5CF6", Icon: "shopping"},
		{Name: "Fun", Type: TypeExpense, Color: "#F59E0B", Icon: "movie"},
		{Name: "Transport", Type: TypeExpense, Color: "#10B981", Icon: "car"},
		{Name: "Utilities", Type: TypeExpense, Color: "#3B82F6", Icon: "bolt"},
		{Name: "Medical", Type: TypeExpense, Color: "#EC4899", Icon: "hospital"},
		{Name: "Education", Type: TypeExpense, Color: "#06B6D4", Icon: "book"},
		{Name: "Income", Type: TypeIncome, Color: "#00BF63", Icon: "cash"},
	}
}

// Stat is one category's spend over a period.
type Stat struct {
	Category           string   `json:"category"`
	Type               Type     `json:"type"`
	Color              string   `json:"color"`
	Icon               string   `json:"icon"`
	Budget             *float64 `json:"budget"`
	Spent              float64  `json:"spent"`
	PercentageOfBudget *float64 `json:"percentageOfBudget"`
	TransactionCount   int      `json:"transactionCount"`
}

// Entry is the slice of a transaction the stats computation needs.
type Entry struct {
	CategoryID string
	Amount     float64
}
