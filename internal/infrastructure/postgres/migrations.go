package postgres

import (
	"context"
	"fmt"
	"log"
)

type migration struct {
	Version     int
	Description string
	Statements  []string
}

// Transactions reference categories without ON DELETE CASCADE: deleting a
// category removes its transactions explicitly first.
var migrations = []migration{
	{
		Version:     1,
		Description: "Initial schema",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS principals (
				id UUID PRIMARY KEY,
				email TEXT NOT NULL,
				password_hash TEXT NOT NULL,
				name TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				CONSTRAINT principals_email_key UNIQUE (email)
			)`,
			`CREATE TABLE IF NOT EXISTS sessions (
				id UUID PRIMARY KEY,
				user_id UUID NOT NULL REFERENCES principals(id) ON DELETE CASCADE,
				expires_at TIMESTAMPTZ NOT NULL,
				revoked_at TIMESTAMPTZ,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id)`,
			`CREATE TABLE IF NOT EXISTS profiles (
				id UUID PRIMARY KEY REFERENCES principals(id) ON DELETE CASCADE,
				name TEXT NOT NULL DEFAULT '',
				email TEXT NOT NULL,
				date_of_birth TEXT NOT NULL DEFAULT '',
				pan_id TEXT NOT NULL DEFAULT '',
				profile_image TEXT,
				profile_completed BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE TABLE IF NOT EXISTS categories (
				id UUID PRIMARY KEY,
				user_id UUID NOT NULL REFERENCES principals(id) ON DELETE CASCADE,
				name TEXT NOT NULL,
				type TEXT NOT NULL CHECK (type IN ('income', 'expense')),
				color TEXT NOT NULL DEFAULT '#6B7280',
				icon TEXT NOT NULL DEFAULT 'default',
				budget NUMERIC CHECK (budget >= 0),
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				CONSTRAINT categories_user_name_type_key UNIQUE (user_id, name, type)
			)`,
			`CREATE TABLE IF NOT EXISTS transactions (
				id UUID PRIMARY KEY,
				user_id UUID NOT NULL REFERENCES principals(id) ON DELETE CASCADE,
				category_id UUID NOT NULL REFERENCES categories(id),
				type TEXT NOT NULL CHECK (type IN ('income', 'expense')),
				amount NUMERIC NOT NULL CHECK (amount > 0),
				description TEXT NOT NULL DEFAULT '',
				date TIMESTAMPTZ NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE INDEX IF NOT EXISTS idx_transactions_user_date ON transactions(user_id, date DESC)`,
			`CREATE INDEX IF NOT EXISTS idx_transactions_category_id ON transactions(category_id)`,
		},
	},
}

// LatestSchemaVersion is the version Migrate brings the database to.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].Version
}

// Migrate applies pending migrations, each in its own transaction.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	var current int
	if err := db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		if err := db.apply(ctx, m); err != nil {
			return err
		}
		log.Printf("Applied migration %d: %s", m.Version, m.Description)
	}

	return nil
}

func (db *DB) apply(ctx context.Context, m migration) error {
	tx, end, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer end()
	defer tx.Rollback()

	for _, stmt := range m.Statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", m.Version, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, description) VALUES ($1, $2)`,
		m.Version, m.Description,
	); err != nil {
		return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
	}
	return nil
}
