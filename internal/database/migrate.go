package database

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Migrate applies every .sql file under migrations/ in the given filesystem
// that has not been applied yet, in lexical order. Applied file names are
// tracked in the schema_migrations table.
func Migrate(ctx context.Context, db *sqlx.DB, migrations fs.FS) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name VARCHAR(255) NOT NULL,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (name)
		)`); err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	var applied []string
	if err := db.SelectContext(ctx, &applied, "SELECT name FROM schema_migrations"); err != nil {
		return fmt.Errorf("load applied migrations: %w", err)
	}
	appliedSet := make(map[string]bool, len(applied))
	for _, name := range applied {
		appliedSet[name] = true
	}

	entries, err := fs.ReadDir(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("read migrations directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		if appliedSet[name] {
			continue
		}
		content, err := fs.ReadFile(migrations, "migrations/"+name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if err := applyMigration(ctx, db, name, string(content)); err != nil {
			return err
		}
		slog.Info("applied migration", "name", name)
	}
	return nil
}

// applyMigration runs each statement of the file, then records it. MySQL
// DDL commits implicitly, so statements are executed outside a transaction.
func applyMigration(ctx context.Context, db *sqlx.DB, name, content string) error {
	for _, statement := range strings.Split(content, ";") {
		statement = strings.TrimSpace(statement)
		if statement == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}
	if _, err := db.ExecContext(ctx, "INSERT INTO schema_migrations (name) VALUES (?)", name); err != nil {
		return fmt.Errorf("record migration %s: %w", name, err)
	}
	return nil
}
