package category

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Service contains the business logic for category operations. Every
// operation is scoped to the calling principal; categories owned by someone
// else are reported as not found.
type Service struct {
	repo   Repository
	ledger Ledger
}

func NewService(repo Repository, ledger Ledger) *Service {
	return &Service{repo: repo, ledger: ledger}
}

// List returns the principal's categories ordered by name.
func (s *Service) List(ctx context.Context, userID string) ([]*Category, error) {
	return s.repo.ListByUserID(ctx, userID)
}

// Get returns a category owned by userID.
func (s *Service) Get(ctx context.Context, userID, id string) (*Category, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil || c.UserID != userID {
		return nil, ErrCategoryNotFound
	}
	return c, nil
}

// Create rejects a second category with the same (name, type).
func (s *Service) Create(ctx context.Context, userID string, params CreateParams) (*Category, error) {
	params.Name = strings.TrimSpace(params.Name)
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if params.Color == "" {
		params.Color = DefaultColor
	}
	if params.Icon == "" {
		params.Icon = DefaultIcon
	}

	existing, err := s.repo.FindByNameAndType(ctx, userID, params.Name, params.Type)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateCategory
	}

	return s.repo.Create(ctx, userID, params)
}

func (s *Service) Update(ctx context.Context, userID, id string, params UpdateParams) (*Category, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	current, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		trimmed := strings.TrimSpace(*params.Name)
		params.Name = &trimmed
	}

	// Renaming or retyping must not collide with another category
	if params.Name != nil || params.Type != nil {
		name, typ := current.Name, current.Type
		if params.Name != nil {
			name = *params.Name
		}
		if params.Type != nil {
			typ = *params.Type
		}
		other, err := s.repo.FindByNameAndType(ctx, userID, name, typ)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != current.ID {
			return nil, ErrDuplicateCategory
		}
	}

	return s.repo.Update(ctx, id, params)
}

// Delete removes the category's transactions first, then the category.
// If the transactions cannot be removed the category is kept.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}

	if _, err := s.ledger.DeleteByCategoryID(ctx, userID, id); err != nil {
		return fmt.Errorf("failed to delete category transactions: %w", err)
	}

	return s.repo.Delete(ctx, id)
}

// Stats reports spend per category in [from, to). Only categories with at
// least one transaction in the range are listed. Categories without a
// budget (or with a zero budget) have no percentage.
func (s *Service) Stats(ctx context.Context, userID string, from, to time.Time) ([]Stat, error) {
	if !to.After(from) {
		return nil, errors.New("endDate must be after startDate")
	}

	categories, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries, err := s.ledger.ListEntries(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	spent := make(map[string]decimal.Decimal, len(categories))
	counts := make(map[string]int, len(categories))
	for _, e := range entries {
		spent[e.CategoryID] = spent[e.CategoryID].Add(decimal.NewFromFloat(e.Amount))
		counts[e.CategoryID]++
	}

	hundred := decimal.NewFromInt(100)
	stats := make([]Stat, 0, len(counts))
	for _, c := range categories {
		if counts[c.ID] == 0 {
			continue
		}
		total := spent[c.ID]
		stat := Stat{
			Category:         c.Name,
			Type:             c.Type,
			Color:            c.Color,
			Icon:             c.Icon,
			Budget:           c.Budget,
			Spent:            total.InexactFloat64(),
			TransactionCount: counts[c.ID],
		}
		if c.Budget != nil && *c.Budget > 0 {
			pct := total.Div(decimal.NewFromFloat(*c.Budget)).Mul(hundred).InexactFloat64()
			stat.PercentageOfBudget = &pct
		}
		stats = append(stats, stat)
	}

	return stats, nil
}

// SeedDefaults creates the default category set for a new principal.
func (s *Service) SeedDefaults(ctx context.Context, userID string) error {
	if err := s.repo.CreateBatch(ctx, userID, DefaultCategories()); err != nil {
		return fmt.Errorf("failed to seed default categories: %w", err)
	}
	return nil
}

// SeedDefaultsIfEmpty seeds only principals that have no categories yet.
// Reports whether anything was created.
func (s *Service) SeedDefaultsIfEmpty(ctx context.Context, userID string) (bool, error) {
	n, err := s.repo.CountByUserID(ctx, userID)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	return true, s.SeedDefaults(ctx, userID)
}
