package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the tables for the current environment prefix if
// they do not exist. Called at server boot and by the seed command; proper
// migrations are out of scope.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	stmts := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY,
				title TEXT NOT NULL,
				status TEXT NOT NULL DEFAULT 'Planning',
				start_date DATE,
				print_deadline DATE,
				launch_date DATE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)
		`, tables.Projects),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY,
				project_id UUID NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				title TEXT NOT NULL,
				version INTEGER NOT NULL DEFAULT 1,
				status TEXT NOT NULL DEFAULT 'Draft',
				content_text TEXT NOT NULL DEFAULT '',
				order_index INTEGER NOT NULL DEFAULT 0
			)
		`, tables.Sections, tables.Projects),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY,
				project_id UUID NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				type TEXT NOT NULL,
				file_path TEXT NOT NULL,
				rights_status TEXT NOT NULL DEFAULT 'Unknown',
				credit_line TEXT,
				usage_scope TEXT NOT NULL DEFAULT 'Print',
				is_selected_for_book BOOLEAN NOT NULL DEFAULT false,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
				UNIQUE (project_id, file_path)
			)
		`, tables.Assets, tables.Projects),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY,
				funder_name VARCHAR(100) NOT NULL,
				programme_name VARCHAR(200) NOT NULL,
				deadline DATE,
				status TEXT NOT NULL DEFAULT 'To Review',
				eligibility_criteria JSONB,
				budget_rules JSONB,
				UNIQUE (funder_name, programme_name)
			)
		`, tables.Opportunities),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY,
				opportunity_id UUID NOT NULL UNIQUE REFERENCES %s(id) ON DELETE CASCADE,
				narrative_draft TEXT NOT NULL DEFAULT '',
				budget_json JSONB,
				submission_status TEXT NOT NULL DEFAULT 'Draft',
				final_approval BOOLEAN NOT NULL DEFAULT false
			)
		`, tables.Applications, tables.Opportunities),
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	return nil
}
