package migration

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v4/pgxpool"
)

// RunMigrations executes all necessary database migrations on startup
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("Starting database migrations")

	for _, m := range migrations() {
		if err := m.Up(ctx, pool); err != nil {
			slog.Error("Migration failed", "name", m.Name, "error", err)
			return err
		}
		slog.Info("Migration completed", "name", m.Name)
	}

	slog.Info("All migrations completed successfully")
	return nil
}

// Migration represents a database migration
type Migration struct {
	Name string
	Up   func(ctx context.Context, pool *pgxpool.Pool) error
}

func migrations() []Migration {
	return []Migration{
		{Name: "create_report_links", Up: createReportLinks},
		{Name: "index_report_links_student", Up: indexReportLinksStudent},
	}
}

// createReportLinks creates the report ledger table
func createReportLinks(ctx context.Context, pool *pgxpool.Pool) error {
	query := `
		CREATE TABLE IF NOT EXISTS report_links (
			id UUID PRIMARY KEY,
			student_id TEXT NOT NULL,
			file_name TEXT NOT NULL,
			report_link TEXT NOT NULL,
			page_count INTEGER NOT NULL DEFAULT 0,
			size_bytes INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`
	_, err := pool.Exec(ctx, query)
	return err
}

// indexReportLinksStudent adds the lookup index used for latest-report queries
func indexReportLinksStudent(ctx context.Context, pool *pgxpool.Pool) error {
	query := `
		CREATE INDEX IF NOT EXISTS report_links_student_created_idx
		ON report_links (student_id, created_at DESC);
	`

	if _, err := pool.Exec(ctx, query); err != nil {
		// Log the error but don't fail - the ledger works without the index
		slog.Warn("Error creating report_links index (may already exist)", "error", err)
		return nil
	}
	return nil
}
