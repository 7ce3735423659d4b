package state

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// historicSpending are the fixed totals shown for the six months before
// the current one, oldest first.
var historicSpending = [6]float64{720, 850, 930, 800, 950, 1100}

type CategoryTotal struct {
	Category string
	Total    float64
}

type MonthPoint struct {
	Month string
	Total float64
}

// CategoryTotals sums amounts per lower-cased category, in the order the
// categories first appear. Incoming amounts are included.
func CategoryTotals(txs []Transaction) []CategoryTotal {
	var order []string
	sums := make(map[string]decimal.Decimal)
	for _, t := range txs {
		c := strings.ToLower(t.Category)
		if _, ok := sums[c]; !ok {
			order = append(order, c)
		}
		sums[c] = sums[c].Add(decimal.NewFromFloat(t.Amount))
	}

	totals := make([]CategoryTotal, 0, len(order))
	for _, c := range order {
		totals = append(totals, CategoryTotal{Category: c, Total: sums[c].InexactFloat64()})
	}
	return totals
}

func TotalSpent(txs []Transaction) float64 {
	total := decimal.Zero
	for _, ct := range CategoryTotals(txs) {
		total = total.Add(decimal.NewFromFloat(ct.Total))
	}
	return total.InexactFloat64()
}

// MonthlySpending returns the last three months (all seven when all is set)
// ending with the current month, whose total is live.
func MonthlySpending(txs []Transaction, now time.Time, all bool) []MonthPoint {
	points := make([]MonthPoint, 0, 7)
	for i, total := range historicSpending {
		monthsAgo := len(historicSpending) - i
		m := time.Date(now.Year(), now.Month()-time.Month(monthsAgo), 1, 0, 0, 0, 0, now.Location())
		points = append(points, MonthPoint{Month: m.Format("Jan"), Total: total})
	}

	current := decimal.Zero
	for _, t := range txs {
		if t.IsIncoming {
			continue
		}
		at, err := time.Parse(time.RFC3339, t.Date)
		if err != nil {
			continue
		}
		at = at.In(now.Location())
		if at.Year() == now.Year() && at.Month() == now.Month() {
			current = current.Add(decimal.NewFromFloat(t.Amount))
		}
	}
	points = append(points, MonthPoint{Month: now.Format("Jan"), Total: current.InexactFloat64()})

	if all {
		return points
	}
	return points[len(points)-3:]
}

func HasExceededBudget(amount, budget float64) bool {
	return amount > budget
}

// ExceededPercentage is how far totalSpent is over budget, rounded to a
// whole percent. ok is false when no budget is set.
func ExceededPercentage(totalSpent, budget float64) (pct int, ok bool) {
	if budget <= 0 {
		return 0, false
	}
	if totalSpent <= budget {
		return 0, true
	}
	spent := decimal.NewFromFloat(totalSpent)
	limit := decimal.NewFromFloat(budget)
	over := spent.Sub(limit).Div(limit).Mul(decimal.NewFromInt(100)).Round(0)
	return int(over.IntPart()), true
}

// FormatAmount abbreviates lakhs as "L" and thousands as "k".
func FormatAmount(v float64) string {
	switch {
	case v >= 100000:
		return fmt.Sprintf("%.1fL", v/100000)
	case v >= 1000:
		return fmt.Sprintf("%.1fk", v/1000)
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}
