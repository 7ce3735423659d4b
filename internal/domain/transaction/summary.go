package transaction

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type Summary struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

type MonthlyReport struct {
	Transactions []*Transaction `json:"transactions"`
	Summary      Summary        `json:"summary"`
}

// CategoryGroup is the by-category read model. The grouping key is
// serialized as _id for compatibility with the existing web client.
type CategoryGroup struct {
	ID           string         `json:"_id"`
	Name         string         `json:"name"`
	Type         Type           `json:"type"`
	Color        string         `json:"color"`
	Icon         string         `json:"icon"`
	Total        float64        `json:"total"`
	Count        int            `json:"count"`
	Transactions []*Transaction `json:"transactions"`
}

// MonthRange returns [first day of month, first day of next month) in UTC.
func MonthRange(year, month int) (time.Time, time.Time, error) {
	if month < 1 || month > 12 || year < 1 || year > 9999 {
		return time.Time{}, time.Time{}, ErrInvalidPeriod
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0), nil
}

// Summarize totals income and expense exactly and derives the balance.
func Summarize(txs []*Transaction) Summary {
	income, expense := decimal.Zero, decimal.Zero
	for _, tx := range txs {
		amount := decimal.NewFromFloat(tx.Amount)
		switch tx.Type {
		case TypeIncome:
			income = income.Add(amount)
		case TypeExpense:
			expense = expense.Add(amount)
		}
	}
	return Summary{
		Income:  income.InexactFloat64(),
		Expense: expense.InexactFloat64(),
		Balance: income.Sub(expense).InexactFloat64(),
	}
}

// GroupByCategory buckets transactions by category ID and sorts the buckets
// by total, largest first. Ties keep first-seen order.
func GroupByCategory(txs []*Transaction) []CategoryGroup {
	index := make(map[string]int)
	groups := make([]CategoryGroup, 0)
	totals := make([]decimal.Decimal, 0)

	for _, tx := range txs {
		i, ok := index[tx.CategoryID]
		if !ok {
			g := CategoryGroup{ID: tx.CategoryID, Transactions: []*Transaction{}}
			if tx.Category != nil {
				g.Name = tx.Category.Name
				g.Type = tx.Category.Type
				g.Color = tx.Category.Color
				g.Icon = tx.Category.Icon
			}
			i = len(groups)
			index[tx.CategoryID] = i
			groups = append(groups, g)
			totals = append(totals, decimal.Zero)
		}
		totals[i] = totals[i].Add(decimal.NewFromFloat(tx.Amount))
		groups[i].Count++
		groups[i].Transactions = append(groups[i].Transactions, tx)
	}

	for i := range groups {
		groups[i].Total = totals[i].InexactFloat64()
	}

	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].Total > groups[b].Total
	})

	return groups
}
