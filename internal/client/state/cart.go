package state

import (
	"slices"

	"github.com/shopspring/decimal"
)

type CartItem struct {
	ID    int64   `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
}

// Courses is the catalog offered in the learning section.
var Courses = []CartItem{
	{ID: 1, Title: "Introduction to Personal Finance", Price: 599},
	{ID: 2, Title: "Investment Strategies for Beginners", Price: 799},
	{ID: 3, Title: "Retirement Planning Essentials", Price: 899},
	{ID: 4, Title: "Debt Management & Credit Building", Price: 699},
	{ID: 5, Title: "Tax Optimization Strategies", Price: 999},
}

func CourseByID(id int64) (CartItem, bool) {
	i := slices.IndexFunc(Courses, func(c CartItem) bool { return c.ID == id })
	if i < 0 {
		return CartItem{}, false
	}
	return Courses[i], true
}

func (s *Store) Cart() []CartItem {
	return s.cart.Get()
}

// AddToCart appends item unless one with the same id is already there.
func (s *Store) AddToCart(item CartItem) (bool, error) {
	current := s.cart.Get()
	if slices.ContainsFunc(current, func(c CartItem) bool { return c.ID == item.ID }) {
		return false, nil
	}
	if err := s.cart.Set(append(slices.Clone(current), item)); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) RemoveFromCart(id int64) error {
	return s.cart.Set(slices.DeleteFunc(slices.Clone(s.cart.Get()), func(c CartItem) bool { return c.ID == id }))
}

func (s *Store) CartTotal() float64 {
	total := decimal.Zero
	for _, item := range s.cart.Get() {
		total = total.Add(decimal.NewFromFloat(item.Price))
	}
	return total.InexactFloat64()
}
