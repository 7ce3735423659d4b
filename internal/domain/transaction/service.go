package transaction

import (
	"context"
	"time"
)

// Service contains the business logic for transactions. A transaction may
// only reference a category owned by the same principal.
type Service struct {
	repo       Repository
	categories CategoryLookup
	now        func() time.Time
}

func NewService(repo Repository, categories CategoryLookup) *Service {
	return &Service{repo: repo, categories: categories, now: time.Now}
}

func (s *Service) List(ctx context.Context, userID string) ([]*Transaction, error) {
	return s.repo.ListByUserID(ctx, userID)
}

// Get returns a transaction owned by userID.
func (s *Service) Get(ctx context.Context, userID, id string) (*Transaction, error) {
	tx, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx == nil || tx.UserID != userID {
		return nil, ErrTransactionNotFound
	}
	return tx, nil
}

func (s *Service) Create(ctx context.Context, userID string, params CreateParams) (*Transaction, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, userID, params.CategoryID); err != nil {
		return nil, err
	}
	if params.Date.IsZero() {
		params.Date = s.now().UTC()
	}

	return s.repo.Create(ctx, userID, params)
}

// Update re-validates the category only when the update moves the
// transaction to a different one.
func (s *Service) Update(ctx context.Context, userID, id string, params UpdateParams) (*Transaction, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, userID, id); err != nil {
		return nil, err
	}
	if params.CategoryID != nil {
		if err := s.checkCategory(ctx, userID, *params.CategoryID); err != nil {
			return nil, err
		}
	}

	return s.repo.Update(ctx, id, params)
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Monthly returns the transactions of one calendar month (UTC) with totals.
func (s *Service) Monthly(ctx context.Context, userID string, year, month int) (*MonthlyReport, error) {
	from, to, err := MonthRange(year, month)
	if err != nil {
		return nil, err
	}

	txs, err := s.repo.ListByDateRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	if txs == nil {
		txs = []*Transaction{}
	}

	return &MonthlyReport{Transactions: txs, Summary: Summarize(txs)}, nil
}

// ByCategory groups the transactions in [from, to) by category, largest total first.
func (s *Service) ByCategory(ctx context.Context, userID string, from, to time.Time) ([]CategoryGroup, error) {
	if !to.After(from) {
		return nil, ErrInvalidPeriod
	}

	txs, err := s.repo.ListByDateRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	return GroupByCategory(txs), nil
}

func (s *Service) checkCategory(ctx context.Context, userID, categoryID string) error {
	c, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if c == nil || c.UserID != userID {
		return ErrInvalidCategory
	}
	return nil
}
