package migration

import (
	"context"
	"fmt"

	"gocpd/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createDetectionRunsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create detection_runs table")
	}

	if err := r.addDetectionRunsColumns(ctx, db); err != nil {
		return errors.Wrap(err, "failed to add detection_runs columns")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	return nil
}

func (r *MigrationRunner) createDetectionRunsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS detection_runs (
			run_id TEXT PRIMARY KEY,
			model_expr TEXT NOT NULL,
			cost_kind TEXT NOT NULL,
			fixed_params JSONB NOT NULL DEFAULT '{}'::jsonb,
			algorithm TEXT NOT NULL,
			penalty JSONB NOT NULL,
			series_length INTEGER NOT NULL,
			series_hash TEXT NOT NULL,
			fingerprint TEXT NOT NULL,
			outcome JSONB,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) addDetectionRunsColumns(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		DO $$
		BEGIN
			-- Add code_version column if it doesn't exist
			IF NOT EXISTS (
				SELECT 1 FROM information_schema.columns
				WHERE table_name = 'detection_runs' AND column_name = 'code_version'
			) THEN
				ALTER TABLE detection_runs ADD COLUMN code_version TEXT NOT NULL DEFAULT 'dev';
			END IF;

			-- Add outcome column if it doesn't exist
			IF NOT EXISTS (
				SELECT 1 FROM information_schema.columns
				WHERE table_name = 'detection_runs' AND column_name = 'outcome'
			) THEN
				ALTER TABLE detection_runs ADD COLUMN outcome JSONB;
			END IF;
		END $$;
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_runs_fingerprint ON detection_runs(fingerprint)",
		"CREATE INDEX IF NOT EXISTS idx_runs_algorithm ON detection_runs(algorithm)",
		"CREATE INDEX IF NOT EXISTS idx_runs_cost_kind ON detection_runs(cost_kind)",
		"CREATE INDEX IF NOT EXISTS idx_runs_series_hash ON detection_runs(series_hash)",
		"CREATE INDEX IF NOT EXISTS idx_runs_created_at ON detection_runs(created_at DESC)",
	}

	for _, idxSQL := range indexes {
		if _, err := db.ExecContext(ctx, idxSQL); err != nil {
			// Log but don't fail on index creation errors
			fmt.Printf("Warning: failed to create index: %v\n", err)
		}
	}

	return nil
}
