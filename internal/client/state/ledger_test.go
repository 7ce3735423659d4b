package state

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionForm_Create(t *testing.T) {
	f := newFixture(t)
	f.mount(t)

	f.store.OpenCreate()
	require.NoError(t, f.store.UpdateForm(TransactionFields{
		Name:     "  Groceries ",
		Amount:   "250.5",
		Category: "Food",
		Type:     "expense",
	}))

	tx, err := f.store.SubmitForm()
	require.NoError(t, err)

	assert.Equal(t, fixedNow.UnixMilli(), tx.ID)
	assert.Equal(t, "Groceries", tx.Name)
	assert.Equal(t, 250.5, tx.Amount)
	assert.Equal(t, "food", tx.Category)
	assert.Equal(t, "2024-03-21T09:30:00.000Z", tx.Date)
	assert.Equal(t, "21 Mar", tx.DisplayDate)
	assert.False(t, tx.IsIncoming)

	txs := f.store.Transactions()
	require.Len(t, txs, 7)
	assert.Equal(t, tx, txs[0], "new entries are prepended")
	assert.Equal(t, FormClosed, f.store.Form().Mode)
	assert.Equal(t, []string{KeyTransactions}, f.local.writes)
}

func TestTransactionForm_Validation(t *testing.T) {
	tests := []struct {
		name    string
		fields  TransactionFields
		wantErr error
	}{
		{"blank name", TransactionFields{Name: "  ", Amount: "10", Category: "food"}, ErrRequiredFields},
		{"missing amount", TransactionFields{Name: "Tea", Category: "food"}, ErrRequiredFields},
		{"missing category", TransactionFields{Name: "Tea", Amount: "10"}, ErrRequiredFields},
		{"amount not a number", TransactionFields{Name: "Tea", Amount: "ten", Category: "food"}, ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.mount(t)
			f.store.OpenCreate()
			require.NoError(t, f.store.UpdateForm(tt.fields))

			_, err := f.store.SubmitForm()

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, FormCreate, f.store.Form().Mode, "form stays open")
			assert.Equal(t, tt.fields, f.store.Form().Fields)
			assert.Empty(t, f.local.writes)
		})
	}
}

func TestTransactionForm_Edit(t *testing.T) {
	f := newFixture(t)
	f.mount(t)

	require.NoError(t, f.store.OpenEdit(5))
	form := f.store.Form()
	assert.Equal(t, FormEdit, form.Mode)
	assert.Equal(t, TransactionFields{Name: "Khushveer Singh", Amount: "48", Category: "income", Description: "Repayment", Type: "income"}, form.Fields)

	form.Fields.Amount = "60"
	require.NoError(t, f.store.UpdateForm(form.Fields))
	tx, err := f.store.SubmitForm()
	require.NoError(t, err)

	assert.Equal(t, int64(5), tx.ID)
	txs := f.store.Transactions()
	require.Len(t, txs, 6)
	assert.Equal(t, tx, txs[4], "edits replace in place")
	assert.Equal(t, 60.0, txs[4].Amount)
	assert.True(t, txs[4].IsIncoming)
}

func TestTransactionForm_ClosedAndCancel(t *testing.T) {
	f := newFixture(t)
	f.mount(t)

	_, err := f.store.SubmitForm()
	assert.ErrorIs(t, err, ErrFormClosed)
	assert.ErrorIs(t, f.store.UpdateForm(TransactionFields{}), ErrFormClosed)
	assert.ErrorIs(t, f.store.OpenEdit(404), ErrTransactionNotFound)

	f.store.OpenCreate()
	f.store.CancelForm()
	assert.Equal(t, FormClosed, f.store.Form().Mode)
}

func TestTransactionForm_IDCollision(t *testing.T) {
	f := newFixture(t)
	f.local.values[KeyTransactions] = fmt.Sprintf(`[{"id":%d,"name":"Same millisecond"}]`, fixedNow.UnixMilli())
	f.mount(t)

	f.store.OpenCreate()
	require.NoError(t, f.store.UpdateForm(TransactionFields{Name: "Tea", Amount: "10", Category: "food"}))
	tx, err := f.store.SubmitForm()
	require.NoError(t, err)

	assert.Equal(t, fixedNow.UnixMilli()+1, tx.ID)
}

func TestDeleteTransaction(t *testing.T) {
	f := newFixture(t)
	f.mount(t)

	require.NoError(t, f.store.DeleteTransaction(3))

	assert.Len(t, f.store.Transactions(), 5)
	assert.Equal(t, -1, f.store.transactionIndex(3))
	assert.ErrorIs(t, f.store.DeleteTransaction(3), ErrTransactionNotFound)
	assert.Len(t, DefaultTransactions(), 6, "defaults are not shared")
}

func TestAddReminder(t *testing.T) {
	f := newFixture(t)
	f.mount(t)

	r, err := f.store.AddReminder(ReminderInput{Title: "Rent", Day: "5", Month: "Apr", Amount: "12000"})
	require.NoError(t, err)

	assert.Equal(t, "5 Apr", r.Date)
	assert.Equal(t, DefaultReminderColor, r.Color)
	assert.Equal(t, 12000.0, r.Amount)

	r2, err := f.store.AddReminder(ReminderInput{Title: "Insurance", Day: "1", Month: "Jan", Year: "2025", Color: "#FF0000"})
	require.NoError(t, err)
	assert.Equal(t, "1 Jan 2025", r2.Date)
	assert.Zero(t, r2.Amount)
	assert.NotEqual(t, r.ID, r2.ID)
	assert.Equal(t, []Reminder{r2, r}, f.store.Reminders())

	_, err = f.store.AddReminder(ReminderInput{Title: "Bad", Day: "1", Month: "Jan", Amount: "lots"})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestAddReminder_Limit(t *testing.T) {
	f := newFixture(t)
	f.mount(t)
	for i := 0; i < MaxReminders; i++ {
		_, err := f.store.AddReminder(ReminderInput{Title: fmt.Sprintf("r%d", i), Day: "1", Month: "May"})
		require.NoError(t, err)
	}
	before := f.store.Reminders()
	f.local.resetWrites()

	_, err := f.store.AddReminder(ReminderInput{Title: "one too many", Day: "2", Month: "May"})

	assert.ErrorIs(t, err, ErrReminderLimit)
	assert.Equal(t, before, f.store.Reminders())
	assert.Empty(t, f.local.writes)

	// Editing is still allowed at the limit.
	_, err = f.store.UpdateReminder(before[0].ID, ReminderInput{Title: "edited", Day: "3", Month: "May"})
	assert.NoError(t, err)
}

func TestUpdateAndDeleteReminder(t *testing.T) {
	f := newFixture(t)
	f.mount(t)
	r, err := f.store.AddReminder(ReminderInput{Title: "Rent", Day: "5", Month: "Apr"})
	require.NoError(t, err)

	updated, err := f.store.UpdateReminder(r.ID, ReminderInput{Title: "Rent", Day: "6", Month: "Apr", Year: "2024", Amount: "9000"})
	require.NoError(t, err)
	assert.Equal(t, r.ID, updated.ID)
	assert.Equal(t, "6 Apr 2024", f.store.Reminders()[0].Date)

	require.NoError(t, f.store.DeleteReminder(r.ID))
	assert.Empty(t, f.store.Reminders())
	assert.ErrorIs(t, f.store.DeleteReminder(r.ID), ErrReminderNotFound)
	_, err = f.store.UpdateReminder(r.ID, ReminderInput{})
	assert.ErrorIs(t, err, ErrReminderNotFound)
}

func TestMarkPaid(t *testing.T) {
	f := newFixture(t)
	f.mount(t)
	r, err := f.store.AddReminder(ReminderInput{Title: "Electricity", Day: "25", Month: "Mar", Amount: "1800"})
	require.NoError(t, err)
	f.local.resetWrites()

	paid, err := f.store.MarkPaid(r.ID)
	require.NoError(t, err)

	assert.Equal(t, r, paid.Reminder)
	assert.Equal(t, "Electricity", paid.Name)
	assert.Equal(t, "reminder", paid.Category)
	assert.False(t, paid.IsIncoming)
	assert.Equal(t, "21 Mar 2024", paid.PaidOn)

	assert.Empty(t, f.store.Reminders())
	assert.Equal(t, []PaidReminder{paid}, f.store.PaidHistory())
	assert.ElementsMatch(t, []string{KeyPaidHistory, KeyReminders}, f.local.writes)
	assert.Contains(t, f.local.values[KeyPaidHistory], `"paidOn":"21 Mar 2024"`)
	assert.Contains(t, f.local.values[KeyPaidHistory], `"title":"Electricity"`)

	_, err = f.store.MarkPaid(r.ID)
	assert.ErrorIs(t, err, ErrReminderNotFound)
}

func TestMarkPaid_RestoresHistoryOnFailure(t *testing.T) {
	f := newFixture(t)
	f.mount(t)
	r, err := f.store.AddReminder(ReminderInput{Title: "Water", Day: "1", Month: "Apr"})
	require.NoError(t, err)
	f.local.failSet[KeyReminders] = assert.AnError

	_, err = f.store.MarkPaid(r.ID)

	require.Error(t, err)
	assert.Len(t, f.store.Reminders(), 1)
	assert.Empty(t, f.store.PaidHistory())
	assert.Equal(t, "[]", f.local.values[KeyPaidHistory])
}

func TestIsDateApproaching(t *testing.T) {
	now := time.Date(2024, time.March, 28, 18, 0, 0, 0, time.UTC)
	tests := []struct {
		date string
		want bool
	}{
		{"28 Mar", true},
		{"2 Apr", true},
		{"3 Apr", false},
		{"1 Apr", true},
		{"27 Mar", false},
		{"2 Apr 2025", false},
		{"30 Mar 2024", true},
		{"Mar", false},
		{"x Mar", false},
		{"5 Foo", false},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDateApproaching(tt.date, now))
		})
	}
}

func TestCustomCategories(t *testing.T) {
	f := newFixture(t)
	f.mount(t)

	c, err := f.store.AddCustomCategory("  Travel ", "")
	require.NoError(t, err)
	assert.Equal(t, CustomCategory{Name: "travel", Color: DefaultCategoryColor}, c)

	_, err = f.store.AddCustomCategory("TRAVEL", "red")
	assert.ErrorIs(t, err, ErrDuplicateCategory)
	_, err = f.store.AddCustomCategory("Food", "red")
	assert.ErrorIs(t, err, ErrPredefinedCategory)
	_, err = f.store.AddCustomCategory("   ", "red")
	assert.ErrorIs(t, err, ErrEmptyCategoryName)

	_, err = f.store.AddCustomCategory("pets", "rgba(1, 2, 3, 0.8)")
	require.NoError(t, err)
	assert.Equal(t, "rgba(1, 2, 3, 0.8)", f.store.CategoryColor("Pets"))
	assert.Equal(t, "rgba(236, 72, 153, 0.8)", f.store.CategoryColor("medical"))
	assert.Equal(t, DefaultCategoryColor, f.store.CategoryColor("unknown"))

	removed, err := f.store.RemoveCustomCategory("Travel")
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = f.store.RemoveCustomCategory("travel")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, []CustomCategory{{Name: "pets", Color: "rgba(1, 2, 3, 0.8)"}}, f.store.CustomCategories())
}

func TestCart(t *testing.T) {
	f := newFixture(t)
	f.mount(t)

	added, err := f.store.AddToCart(Courses[0])
	require.NoError(t, err)
	assert.True(t, added)
	added, err = f.store.AddToCart(Courses[0])
	require.NoError(t, err)
	assert.False(t, added, "duplicates are ignored")

	course, ok := CourseByID(5)
	require.True(t, ok)
	_, err = f.store.AddToCart(course)
	require.NoError(t, err)
	assert.Equal(t, 1598.0, f.store.CartTotal())

	require.NoError(t, f.store.RemoveFromCart(1))
	assert.Equal(t, []CartItem{course}, f.store.Cart())
	assert.Equal(t, 999.0, f.store.CartTotal())

	_, ok = CourseByID(42)
	assert.False(t, ok)
}

func TestBudget(t *testing.T) {
	f := newFixture(t)
	f.mount(t)

	f.store.SetBudgetInput("750")
	assert.Empty(t, f.local.writes, "editing the input writes nothing")
	assert.Equal(t, DefaultBudget, f.store.MonthlyBudget())

	require.NoError(t, f.store.ConfirmBudgetInput())
	assert.Equal(t, 750.0, f.store.MonthlyBudget())
	assert.Equal(t, "750", f.local.values[KeyMonthlyBudget])
	assert.Equal(t, []string{KeyMonthlyBudget}, f.local.writes)

	require.NoError(t, f.store.SetBudget(1200.5))
	assert.Equal(t, "1200.5", f.store.BudgetInput())

	assert.ErrorIs(t, f.store.SetBudget(-1), ErrInvalidBudget)
	f.store.SetBudgetInput("abc")
	assert.ErrorIs(t, f.store.ConfirmBudgetInput(), ErrInvalidBudget)
	assert.Equal(t, 1200.5, f.store.MonthlyBudget())
}

func TestHasExceededBudget(t *testing.T) {
	assert.False(t, HasExceededBudget(200, 200))
	assert.True(t, HasExceededBudget(201, 200))
	assert.False(t, HasExceededBudget(0, 200))
}

func TestExceededPercentage(t *testing.T) {
	tests := []struct {
		name    string
		spent   float64
		budget  float64
		wantPct int
		wantOK  bool
	}{
		{"under budget", 150, 200, 0, true},
		{"at budget", 200, 200, 0, true},
		{"over budget", 1212, 200, 506, true},
		{"rounds half up", 201, 200, 1, true},
		{"no budget", 500, 0, 0, false},
		{"negative budget", 500, -10, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pct, ok := ExceededPercentage(tt.spent, tt.budget)
			assert.Equal(t, tt.wantPct, pct)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestCategoryTotals(t *testing.T) {
	totals := CategoryTotals(DefaultTransactions())

	assert.Equal(t, []CategoryTotal{
		{Category: "expense", Total: 329},
		{Category: "online", Total: 637},
		{Category: "food", Total: 48},
		{Category: "income", Total: 48},
		{Category: "medical", Total: 150},
	}, totals)
	assert.Equal(t, 1212.0, TotalSpent(DefaultTransactions()))
}

func TestMonthlySpending(t *testing.T) {
	now := time.Date(2024, time.March, 21, 12, 0, 0, 0, time.UTC)
	txs := []Transaction{
		{Amount: 100, Date: "2024-03-02T10:00:00.000Z"},
		{Amount: 40.5, Date: "2024-03-20T10:00:00Z"},
		{Amount: 999, Date: "2024-03-05T10:00:00Z", IsIncoming: true},
		{Amount: 77, Date: "2024-02-28T10:00:00Z"},
		{Amount: 55, Date: "2023-03-10T10:00:00Z"},
		{Amount: 1, Date: "not a date"},
	}

	all := MonthlySpending(txs, now, true)
	assert.Equal(t, []MonthPoint{
		{Month: "Sep", Total: 720},
		{Month: "Oct", Total: 850},
		{Month: "Nov", Total: 930},
		{Month: "Dec", Total: 800},
		{Month: "Jan", Total: 950},
		{Month: "Feb", Total: 1100},
		{Month: "Mar", Total: 140.5},
	}, all)

	recent := MonthlySpending(txs, now, false)
	assert.Equal(t, all[4:], recent)
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{999, "999"},
		{48.5, "48.5"},
		{1000, "1.0k"},
		{12500, "12.5k"},
		{100000, "1.0L"},
		{2550000, "25.5L"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(tt.in))
		})
	}
}
