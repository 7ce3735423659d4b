package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"finclusion/internal/domain/identity"
)

type IdentityRepository struct {
	db *DB
}

func NewIdentityRepository(db *DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

func (r *IdentityRepository) CreatePrincipal(ctx context.Context, params identity.CreatePrincipalParams) (*identity.Principal, error) {
	query := `
		INSERT INTO principals (id, email, password_hash, name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, password_hash, name, created_at
	`

	var p identity.Principal
	err := r.db.QueryRowContext(
		ctx, query,
		params.ID, params.Email, params.PasswordHash, params.Name,
	).Scan(&p.ID, &p.Email, &p.PasswordHash, &p.Name, &p.CreatedAt)

	if isUniqueViolation(err, "principals_email_key") {
		return nil, identity.ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create principal: %w", err)
	}

	return &p, nil
}

func (r *IdentityRepository) GetPrincipalByEmail(ctx context.Context, email string) (*identity.Principal, error) {
	return r.getPrincipal(ctx, `email = $1`, email)
}

func (r *IdentityRepository) GetPrincipalByID(ctx context.Context, id string) (*identity.Principal, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getPrincipal(ctx, `id = $1`, id)
}

func (r *IdentityRepository) getPrincipal(ctx context.Context, where string, arg any) (*identity.Principal, error) {
	query := `SELECT id, email, password_hash, name, created_at FROM principals WHERE ` + where

	var p identity.Principal
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&p.ID, &p.Email, &p.PasswordHash, &p.Name, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get principal: %w", err)
	}

	return &p, nil
}

// DeletePrincipal cascades to the principal's sessions, profile and data.
func (r *IdentityRepository) DeletePrincipal(ctx context.Context, id string) error {
	if !validID(id) {
		return identity.ErrPrincipalNotFound
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM principals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete principal: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		return identity.ErrPrincipalNotFound
	}

	return nil
}

func (r *IdentityRepository) ListPrincipalIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM principals ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list principals: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan principal id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating principals: %w", err)
	}

	return ids, nil
}

func (r *IdentityRepository) CreateSession(ctx context.Context, params identity.CreateSessionParams) (*identity.Session, error) {
	query := `
		INSERT INTO sessions (id, user_id, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, expires_at, revoked_at, created_at
	`

	var s identity.Session
	err := r.db.QueryRowContext(ctx, query, params.ID, params.UserID, params.ExpiresAt).Scan(
		&s.ID, &s.UserID, &s.ExpiresAt, &s.RevokedAt, &s.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &s, nil
}

func (r *IdentityRepository) GetSession(ctx context.Context, id string) (*identity.Session, error) {
	if !validID(id) {
		return nil, nil
	}

	query := `SELECT id, user_id, expires_at, revoked_at, created_at FROM sessions WHERE id = $1`

	var s identity.Session
	err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.UserID, &s.ExpiresAt, &s.RevokedAt, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return &s, nil
}

// RevokeSession is idempotent for sessions that are already revoked.
func (r *IdentityRepository) RevokeSession(ctx context.Context, id string) error {
	if !validID(id) {
		return identity.ErrSessionNotFound
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET revoked_at = COALESCE(revoked_at, CURRENT_TIMESTAMP) WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		return identity.ErrSessionNotFound
	}

	return nil
}
