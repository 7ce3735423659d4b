package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"finclusion/internal/domain/profile"
)

const profileColumns = `id, name, email, date_of_birth, pan_id, profile_image, profile_completed, created_at, updated_at`

type ProfileRepository struct {
	db *DB
}

func NewProfileRepository(db *DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func scanProfile(row rowScanner) (*profile.Profile, error) {
	var p profile.Profile
	err := row.Scan(
		&p.ID, &p.Name, &p.Email, &p.DateOfBirth, &p.PanID, &p.ProfileImage, &p.ProfileCompleted,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) Create(ctx context.Context, params profile.CreateParams) (*profile.Profile, error) {
	query := `
		INSERT INTO profiles (id, name, email, profile_completed)
		VALUES ($1, $2, $3, FALSE)
		RETURNING ` + profileColumns

	p, err := scanProfile(r.db.QueryRowContext(ctx, query, params.ID, params.Name, params.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	return p, nil
}

func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*profile.Profile, error) {
	if !validID(id) {
		return nil, nil
	}

	p, err := scanProfile(r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return p, nil
}

func (r *ProfileRepository) Update(ctx context.Context, id string, params profile.UpdateParams) (*profile.Profile, error) {
	if !validID(id) {
		return nil, profile.ErrProfileNotFound
	}

	query := `
		UPDATE profiles
		SET name = COALESCE($1, name),
		    email = COALESCE($2, email),
		    date_of_birth = COALESCE($3, date_of_birth),
		    pan_id = COALESCE($4, pan_id),
		    profile_image = COALESCE($5, profile_image),
		    profile_completed = COALESCE($6, profile_completed),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $7
		RETURNING ` + profileColumns

	p, err := scanProfile(r.db.QueryRowContext(
		ctx, query,
		params.Name, params.Email, params.DateOfBirth, params.PanID, params.ProfileImage, params.ProfileCompleted, id,
	))
	if err == sql.ErrNoRows {
		return nil, profile.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return p, nil
}
