package state

import (
	"errors"
	"slices"
	"strings"
)

const DefaultCategoryColor = "rgba(107, 114, 128, 0.8)"

var (
	ErrEmptyCategoryName  = errors.New("Category name cannot be empty")
	ErrPredefinedCategory = errors.New("category already exists as a predefined category")
	ErrDuplicateCategory  = errors.New("category already exists as a custom category")
)

// predefinedColors are the built-in categories and their chart colors.
var predefinedColors = map[string]string{
	"online":     "rgba(59, 130, 246, 0.8)",
	"food":       "rgba(217, 119, 6, 0.8)",
	"shopping":   "rgba(139, 92, 246, 0.8)",
	"medical":    "rgba(236, 72, 153, 0.8)",
	"emi":        "rgba(124, 58, 237, 0.8)",
	"expense":    "rgba(239, 68, 68, 0.8)",
	"income":     "rgba(16, 185, 129, 0.8)",
	"investment": "rgba(245, 158, 11, 0.8)",
	"fun":        "rgba(245, 158, 11, 0.8)",
	"savings":    "rgba(14, 165, 233, 0.8)",
	"default":    DefaultCategoryColor,
}

// PredefinedCategories lists the built-in category keys, without "default".
func PredefinedCategories() []string {
	return []string{"online", "food", "shopping", "medical", "emi", "expense", "income", "investment", "fun", "savings"}
}

type CustomCategory struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (s *Store) CustomCategories() []CustomCategory {
	return s.customCategories.Get()
}

func (s *Store) AddCustomCategory(name, color string) (CustomCategory, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return CustomCategory{}, ErrEmptyCategoryName
	}
	if _, ok := predefinedColors[name]; ok {
		return CustomCategory{}, ErrPredefinedCategory
	}
	current := s.customCategories.Get()
	if slices.ContainsFunc(current, func(c CustomCategory) bool { return c.Name == name }) {
		return CustomCategory{}, ErrDuplicateCategory
	}

	if color == "" {
		color = DefaultCategoryColor
	}
	c := CustomCategory{Name: name, Color: color}
	if err := s.customCategories.Set(append(slices.Clone(current), c)); err != nil {
		return CustomCategory{}, err
	}
	return c, nil
}

// RemoveCustomCategory reports whether a category with that name existed.
func (s *Store) RemoveCustomCategory(name string) (bool, error) {
	name = strings.ToLower(name)
	match := func(c CustomCategory) bool { return strings.ToLower(c.Name) == name }

	current := s.customCategories.Get()
	if !slices.ContainsFunc(current, match) {
		return false, nil
	}
	if err := s.customCategories.Set(slices.DeleteFunc(slices.Clone(current), match)); err != nil {
		return false, err
	}
	return true, nil
}

// CategoryColor resolves custom categories first, then the built-in ones.
func (s *Store) CategoryColor(category string) string {
	category = strings.ToLower(category)
	for _, c := range s.customCategories.Get() {
		if strings.ToLower(c.Name) == category {
			return c.Color
		}
	}
	if color, ok := predefinedColors[category]; ok {
		return color
	}
	return DefaultCategoryColor
}
