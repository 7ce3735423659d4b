package state

import (
	"errors"
	"strconv"
	"strings"
)

var ErrInvalidBudget = errors.New("budget must be a non-negative number")

func (s *Store) MonthlyBudget() float64 {
	return s.budget.Get()
}

// BudgetInput is the budget as shown in the edit field.
func (s *Store) BudgetInput() string {
	return s.budgetInput
}

// SetBudgetInput edits the display text only; nothing is stored until the
// input is confirmed.
func (s *Store) SetBudgetInput(text string) {
	s.budgetInput = text
}

func (s *Store) SetBudget(v float64) error {
	if v < 0 {
		return ErrInvalidBudget
	}
	if err := s.budget.Set(v); err != nil {
		return err
	}
	s.budgetInput = strconv.FormatFloat(v, 'f', -1, 64)
	return nil
}

// ConfirmBudgetInput parses the edited text and stores it as the budget.
func (s *Store) ConfirmBudgetInput() error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s.budgetInput), 64)
	if err != nil {
		return ErrInvalidBudget
	}
	return s.SetBudget(v)
}
