package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"finclusion/internal/domain/category"
	"finclusion/internal/domain/transaction"
)

// transactionSelect joins each transaction with its category. Queries append
// their own WHERE and ORDER BY.
const transactionSelect = `
	SELECT t.id, t.user_id, t.category_id, t.type, t.amount, t.description, t.date,
	       t.created_at, t.updated_at, c.name, c.type, c.color, c.icon
	FROM transactions t
	JOIN categories c ON c.id = t.category_id
`

// TransactionRepository also serves as the category package's Ledger.
type TransactionRepository struct {
	db *DB
}

func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func scanTransaction(row rowScanner) (*transaction.Transaction, error) {
	var t transaction.Transaction
	var ref transaction.CategoryRef
	err := row.Scan(
		&t.ID, &t.UserID, &t.CategoryID, &t.Type, &t.Amount, &t.Description, &t.Date,
		&t.CreatedAt, &t.UpdatedAt, &ref.Name, &ref.Type, &ref.Color, &ref.Icon,
	)
	if err != nil {
		return nil, err
	}
	t.Category = &ref
	return &t, nil
}

func (r *TransactionRepository) Create(ctx context.Context, userID string, params transaction.CreateParams) (*transaction.Transaction, error) {
	query := `
		WITH t AS (
			INSERT INTO transactions (id, user_id, category_id, type, amount, description, date)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING *
		)
		SELECT t.id, t.user_id, t.category_id, t.type, t.amount, t.description, t.date,
		       t.created_at, t.updated_at, c.name, c.type, c.color, c.icon
		FROM t
		JOIN categories c ON c.id = t.category_id
	`

	tx, err := scanTransaction(r.db.QueryRowContext(
		ctx, query,
		uuid.NewString(), userID, params.CategoryID, params.Type, params.Amount, params.Description, params.Date,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	return tx, nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*transaction.Transaction, error) {
	if !validID(id) {
		return nil, nil
	}

	tx, err := scanTransaction(r.db.QueryRowContext(ctx, transactionSelect+` WHERE t.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return tx, nil
}

func (r *TransactionRepository) ListByUserID(ctx context.Context, userID string) ([]*transaction.Transaction, error) {
	return r.list(ctx, transactionSelect+`
		WHERE t.user_id = $1
		ORDER BY t.date DESC, t.created_at DESC
	`, userID)
}

func (r *TransactionRepository) ListByDateRange(ctx context.Context, userID string, from, to time.Time) ([]*transaction.Transaction, error) {
	return r.list(ctx, transactionSelect+`
		WHERE t.user_id = $1 AND t.date >= $2 AND t.date < $3
		ORDER BY t.date DESC, t.created_at DESC
	`, userID, from, to)
}

func (r *TransactionRepository) list(ctx context.Context, query string, args ...any) ([]*transaction.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	txs := []*transaction.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return txs, nil
}

func (r *TransactionRepository) Update(ctx context.Context, id string, params transaction.UpdateParams) (*transaction.Transaction, error) {
	if !validID(id) {
		return nil, transaction.ErrTransactionNotFound
	}

	query := `
		WITH t AS (
			UPDATE transactions
			SET type = COALESCE($1, type),
			    amount = COALESCE($2, amount),
			    category_id = COALESCE($3, category_id),
			    description = COALESCE($4, description),
			    date = COALESCE($5, date),
			    updated_at = CURRENT_TIMESTAMP
			WHERE id = $6
			RETURNING *
		)
		SELECT t.id, t.user_id, t.category_id, t.type, t.amount, t.description, t.date,
		       t.created_at, t.updated_at, c.name, c.type, c.color, c.icon
		FROM t
		JOIN categories c ON c.id = t.category_id
	`

	tx, err := scanTransaction(r.db.QueryRowContext(
		ctx, query,
		params.Type, params.Amount, params.CategoryID, params.Description, params.Date, id,
	))
	if err == sql.ErrNoRows {
		return nil, transaction.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	return tx, nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return transaction.ErrTransactionNotFound
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		return transaction.ErrTransactionNotFound
	}

	return nil
}

// DeleteByCategoryID removes every transaction of one user in a category.
func (r *TransactionRepository) DeleteByCategoryID(ctx context.Context, userID, categoryID string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE user_id = $1 AND category_id = $2`,
		userID, categoryID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete category transactions: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows, nil
}

// ListEntries returns the category and amount of each transaction dated in
// [from, to).
func (r *TransactionRepository) ListEntries(ctx context.Context, userID string, from, to time.Time) ([]category.Entry, error) {
	query := `
		SELECT category_id, amount
		FROM transactions
		WHERE user_id = $1 AND date >= $2 AND date < $3
	`

	rows, err := r.db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list category entries: %w", err)
	}
	defer rows.Close()

	var entries []category.Entry
	for rows.Next() {
		var e category.Entry
		if err := rows.Scan(&e.CategoryID, &e.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan category entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category entries: %w", err)
	}

	return entries, nil
}
