package store

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Migration is one schema change, applied in a transaction.
type Migration struct {
	Version    int
	Name       string
	Statements []string
}

var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_contents_table",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS contents (
				id INTEGER PRIMARY KEY,
				type TEXT NOT NULL,
				title TEXT NOT NULL DEFAULT '',
				body TEXT NOT NULL DEFAULT '',
				format TEXT NOT NULL DEFAULT '',
				excerpt TEXT NOT NULL DEFAULT '',
				permalink TEXT NOT NULL DEFAULT '',
				edit_url TEXT NOT NULL DEFAULT '',
				status TEXT NOT NULL DEFAULT 'publish',
				meta TEXT NOT NULL DEFAULT '{}',
				published_at INTEGER NOT NULL DEFAULT 0,
				modified_at INTEGER NOT NULL DEFAULT 0,
				seo_score INTEGER,
				seo_updated_at INTEGER
			)`,
			`CREATE INDEX IF NOT EXISTS idx_contents_type ON contents(type)`,
		},
	},
	{
		Version: 2,
		Name:    "create_products_table",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS products (
				content_id INTEGER PRIMARY KEY,
				data TEXT NOT NULL,
				updated_at INTEGER NOT NULL
			)`,
		},
	},
	{
		Version: 3,
		Name:    "create_analyses_table",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS analyses (
				analysis_id INTEGER PRIMARY KEY AUTOINCREMENT,
				content_id INTEGER NOT NULL UNIQUE,
				content_type TEXT NOT NULL,
				title TEXT NOT NULL DEFAULT '',
				status TEXT NOT NULL DEFAULT '',
				seo_score INTEGER NOT NULL,
				analysis_data TEXT NOT NULL,
				created_at INTEGER NOT NULL,
				updated_at INTEGER NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_analyses_updated_at ON analyses(updated_at)`,
			`CREATE INDEX IF NOT EXISTS idx_analyses_type_score ON analyses(content_type, seo_score)`,
		},
	},
}

// Migrate applies every migration newer than the recorded schema version.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at INTEGER NOT NULL
		)`); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	var current int
	if err := s.conn.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&current); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		if err := s.apply(ctx, m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
		}
		s.logger.Info("applied migration", zap.Int("version", m.Version), zap.String("name", m.Name))
	}
	return nil
}

func (s *Store) apply(ctx context.Context, m Migration) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range m.Statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_version (version, name, applied_at) VALUES (?, ?, ?)`,
		m.Version, m.Name, time.Now().UnixNano(),
	); err != nil {
		return err
	}
	return tx.Commit()
}
