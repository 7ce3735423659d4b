package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"finclusion/internal/domain/category"
)

const categoryColumns = `id, user_id, name, type, color, icon, budget, created_at, updated_at`

type CategoryRepository struct {
	db *DB
}

func NewCategoryRepository(db *DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (*category.Category, error) {
	var c category.Category
	err := row.Scan(
		&c.ID, &c.UserID, &c.Name, &c.Type, &c.Color, &c.Icon, &c.Budget,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepository) Create(ctx context.Context, userID string, params category.CreateParams) (*category.Category, error) {
	query := `
		INSERT INTO categories (id, user_id, name, type, color, icon, budget)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + categoryColumns

	c, err := scanCategory(r.db.QueryRowContext(
		ctx, query,
		uuid.NewString(), userID, params.Name, params.Type, params.Color, params.Icon, params.Budget,
	))
	if isUniqueViolation(err, "categories_user_name_type_key") {
		return nil, category.ErrDuplicateCategory
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return c, nil
}

// CreateBatch inserts all categories in one statement. Names that already
// exist for the user are skipped.
func (r *CategoryRepository) CreateBatch(ctx context.Context, userID string, params []category.CreateParams) error {
	if len(params) == 0 {
		return nil
	}

	const cols = 7
	args := make([]any, 0, len(params)*cols)
	for _, p := range params {
		args = append(args, uuid.NewString(), userID, p.Name, p.Type, p.Color, p.Icon, p.Budget)
	}

	query := fmt.Sprintf(`
		INSERT INTO categories (id, user_id, name, type, color, icon, budget)
		VALUES %s
		ON CONFLICT (user_id, name, type) DO NOTHING
	`, placeholders(len(params), cols))

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create categories: %w", err)
	}

	return nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*category.Category, error) {
	if !validID(id) {
		return nil, nil
	}

	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`

	c, err := scanCategory(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return c, nil
}

func (r *CategoryRepository) FindByNameAndType(ctx context.Context, userID, name string, t category.Type) (*category.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE user_id = $1 AND name = $2 AND type = $3
	`

	c, err := scanCategory(r.db.QueryRowContext(ctx, query, userID, name, t))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find category: %w", err)
	}

	return c, nil
}

func (r *CategoryRepository) ListByUserID(ctx context.Context, userID string) ([]*category.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE user_id = $1
		ORDER BY name ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []*category.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

func (r *CategoryRepository) CountByUserID(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories WHERE user_id = $1`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return n, nil
}

func (r *CategoryRepository) Update(ctx context.Context, id string, params category.UpdateParams) (*category.Category, error) {
	if !validID(id) {
		return nil, category.ErrCategoryNotFound
	}

	query := `
		UPDATE categories
		SET name = COALESCE($1, name),
		    type = COALESCE($2, type),
		    color = COALESCE($3, color),
		    icon = COALESCE($4, icon),
		    budget = COALESCE($5, budget),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $6
		RETURNING ` + categoryColumns

	c, err := scanCategory(r.db.QueryRowContext(
		ctx, query,
		params.Name, params.Type, params.Color, params.Icon, params.Budget, id,
	))
	if err == sql.ErrNoRows {
		return nil, category.ErrCategoryNotFound
	}
	if isUniqueViolation(err, "categories_user_name_type_key") {
		return nil, category.ErrDuplicateCategory
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return c, nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return category.ErrCategoryNotFound
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		return category.ErrCategoryNotFound
	}

	return nil
}
