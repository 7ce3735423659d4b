package transaction

import (
	"context"
	"time"

	"finclusion/internal/domain/category"
)

type Repository interface {
	Create(ctx context.Context, userID string, params CreateParams) (*Transaction, error)
	GetByID(ctx context.Context, id string) (*Transaction, error)
	// ListByUserID returns newest first with the category joined.
	ListByUserID(ctx context.Context, userID string) ([]*Transaction, error)
	// ListByDateRange returns transactions dated in [from, to), newest first.
	ListByDateRange(ctx context.Context, userID string, from, to time.Time) ([]*Transaction, error)
	Update(ctx context.Context, id string, params UpdateParams) (*Transaction, error)
	Delete(ctx context.Context, id string) error
}

// CategoryLookup resolves category IDs for the ownership check.
type CategoryLookup interface {
	GetByID(ctx context.Context, id string) (*category.Category, error)
}
