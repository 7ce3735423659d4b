package state

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

var (
	ErrRequiredFields      = errors.New("Please fill in all required fields")
	ErrInvalidAmount       = errors.New("amount must be a number")
	ErrFormClosed          = errors.New("transaction form is not open")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// isoMillis matches the instant format the web client stores.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

type Transaction struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	DisplayDate string  `json:"displayDate"`
	Category    string  `json:"category"`
	IsIncoming  bool    `json:"isIncoming"`
	Description string  `json:"description"`
}

type FormMode int

const (
	FormClosed FormMode = iota
	FormCreate
	FormEdit
)

func (m FormMode) String() string {
	switch m {
	case FormCreate:
		return "create"
	case FormEdit:
		return "edit"
	default:
		return "closed"
	}
}

// TransactionFields holds the form inputs as typed.
type TransactionFields struct {
	Name        string
	Amount      string
	Category    string
	Description string
	Type        string // "income" or "expense"
}

type TransactionForm struct {
	Mode      FormMode
	EditingID int64
	Fields    TransactionFields
}

func emptyFields() TransactionFields {
	return TransactionFields{Type: "expense"}
}

func (s *Store) Transactions() []Transaction {
	return s.transactions.Get()
}

func (s *Store) Form() TransactionForm {
	return s.form
}

func (s *Store) OpenCreate() {
	s.form = TransactionForm{Mode: FormCreate, Fields: emptyFields()}
}

// OpenEdit pre-fills the form with an existing transaction.
func (s *Store) OpenEdit(id int64) error {
	i := s.transactionIndex(id)
	if i < 0 {
		return ErrTransactionNotFound
	}
	t := s.transactions.Get()[i]

	category := t.Category
	if category == "" {
		category = "expense"
	}
	typ := "expense"
	if t.IsIncoming {
		typ = "income"
	}

	s.form = TransactionForm{
		Mode:      FormEdit,
		EditingID: id,
		Fields: TransactionFields{
			Name:        t.Name,
			Amount:      strconv.FormatFloat(t.Amount, 'f', -1, 64),
			Category:    category,
			Description: t.Description,
			Type:        typ,
		},
	}
	return nil
}

func (s *Store) UpdateForm(fields TransactionFields) error {
	if s.form.Mode == FormClosed {
		return ErrFormClosed
	}
	s.form.Fields = fields
	return nil
}

func (s *Store) CancelForm() {
	s.form = TransactionForm{}
}

// SubmitForm validates the form and writes the transaction. A rejected
// submission leaves the form open with its fields intact.
func (s *Store) SubmitForm() (Transaction, error) {
	if s.form.Mode == FormClosed {
		return Transaction{}, ErrFormClosed
	}
	f := s.form.Fields

	name := strings.TrimSpace(f.Name)
	amountText := strings.TrimSpace(f.Amount)
	if name == "" || amountText == "" || f.Category == "" {
		return Transaction{}, ErrRequiredFields
	}
	amount, err := strconv.ParseFloat(amountText, 64)
	if err != nil {
		return Transaction{}, ErrInvalidAmount
	}

	now := s.now()
	current := s.transactions.Get()

	id := s.form.EditingID
	if s.form.Mode == FormCreate {
		id = nextLocalID(now, func(id int64) bool { return s.transactionIndex(id) >= 0 })
	}

	t := Transaction{
		ID:          id,
		Name:        name,
		Amount:      amount,
		Category:    strings.ToLower(f.Category),
		Description: strings.TrimSpace(f.Description),
		IsIncoming:  f.Type == "income",
		Date:        now.UTC().Format(isoMillis),
		DisplayDate: displayDate(now),
	}

	var next []Transaction
	if s.form.Mode == FormEdit {
		i := s.transactionIndex(id)
		if i < 0 {
			return Transaction{}, ErrTransactionNotFound
		}
		next = slices.Clone(current)
		next[i] = t
	} else {
		next = append([]Transaction{t}, current...)
	}

	if err := s.transactions.Set(next); err != nil {
		return Transaction{}, err
	}
	s.form = TransactionForm{}
	s.logger.Debug("transaction saved", "id", t.ID, "category", t.Category)
	return t, nil
}

func (s *Store) DeleteTransaction(id int64) error {
	i := s.transactionIndex(id)
	if i < 0 {
		return ErrTransactionNotFound
	}
	return s.transactions.Set(slices.Delete(slices.Clone(s.transactions.Get()), i, i+1))
}

func (s *Store) transactionIndex(id int64) int {
	return slices.IndexFunc(s.transactions.Get(), func(t Transaction) bool { return t.ID == id })
}

// nextLocalID is the current millisecond timestamp, bumped past any id
// already taken.
func nextLocalID(now time.Time, taken func(int64) bool) int64 {
	id := now.UnixMilli()
	for taken(id) {
		id++
	}
	return id
}

func displayDate(t time.Time) string {
	return fmt.Sprintf("%d %s", t.Day(), t.Format("Jan"))
}
