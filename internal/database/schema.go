package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/database/migrations"
)

// SchemaApplied reports whether migrations.SchemaVersion is recorded in
// schema_migrations. Only PostgreSQL is supported.
func SchemaApplied(ctx context.Context, db *sql.DB) (bool, error) {
	var exists bool
	if err := db.QueryRowContext(ctx,
		`SELECT to_regclass('public.schema_migrations') IS NOT NULL`,
	).Scan(&exists); err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}
	if err := db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`,
		migrations.SchemaVersion,
	).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// ApplySchema runs the embedded schema in one transaction unless its
// version is already recorded. It returns true when the script ran.
func ApplySchema(ctx context.Context, db *sql.DB) (bool, error) {
	applied, err := SchemaApplied(ctx, db)
	if err != nil {
		return false, fmt.Errorf("check schema version: %w", err)
	}
	if applied {
		return false, nil
	}

	script, err := migrations.Files.ReadFile(migrations.SchemaFile)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", migrations.SchemaFile, err)
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	if _, err := tx.ExecContext(ctx, string(script)); err != nil {
		_ = tx.Rollback()
		return false, fmt.Errorf("apply %s: %w", migrations.SchemaFile, err)
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// ListTables returns the tables of the public schema.
func ListTables(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public'
		ORDER BY table_name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}
