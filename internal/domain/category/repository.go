package category

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, userID string, params CreateParams) (*Category, error)
	CreateBatch(ctx context.Context, userID string, params []CreateParams) error
	GetByID(ctx context.Context, id string) (*Category, error)
	FindByNameAndType(ctx context.Context, userID, name string, t Type) (*Category, error)
	ListByUserID(ctx context.Context, userID string) ([]*Category, error)
	CountByUserID(ctx context.Context, userID string) (int, error)
	Update(ctx context.Context, id string, params UpdateParams) (*Category, error)
	Delete(ctx context.Context, id string) error
}

// Ledger is the view of a principal's transactions that category
// operations depend on.
type Ledger interface {
	DeleteByCategoryID(ctx context.Context, userID, categoryID string) (int64, error)
	ListEntries(ctx context.Context, userID string, from, to time.Time) ([]Entry, error)
}
