package state

const (
	DefaultBudget      = 200.0
	defaultBudgetInput = "200"
)

// DefaultTransactions is the sample ledger a new account starts with.
func DefaultTransactions() []Transaction {
	return []Transaction{
		{ID: 1, Name: "Manju Bharati Ma", Amount: 329, Date: "2024-03-20T10:30:00Z", DisplayDate: "20 Feb", Category: "expense", Description: "Payment"},
		{ID: 2, Name: "Mpokket", Amount: 441, Date: "2024-03-19T14:20:00Z", DisplayDate: "19 Feb", Category: "online", Description: "App purchase"},
		{ID: 3, Name: "Simpl", Amount: 196, Date: "2024-03-18T09:15:00Z", DisplayDate: "18 Feb", Category: "online", Description: "Subscription"},
		{ID: 4, Name: "Lal Singh", Amount: 48, Date: "2024-03-15T12:45:00Z", DisplayDate: "15 Feb", Category: "food", Description: "Food"},
		{ID: 5, Name: "Khushveer Singh", Amount: 48, Date: "2024-03-10T16:30:00Z", DisplayDate: "10 Feb", Category: "income", IsIncoming: true, Description: "Repayment"},
		{ID: 6, Name: "Care Pharmacy", Amount: 150, Date: "2024-03-08T11:20:00Z", DisplayDate: "08 Feb", Category: "medical", Description: "Medicines"},
	}
}
