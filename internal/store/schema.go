package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

const (
	tableSubmissions = "submissions"
	tableContests    = "contests"
	tableSequence    = "global_sequence"
)

// schema lists the DDL the repositories need. Every statement is
// idempotent so migrate can run on each Open.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS contests (
		id TEXT NOT NULL PRIMARY KEY,
		problem_set TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		ends_at INTEGER NOT NULL,
		finished_at INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS submissions (
		id TEXT NOT NULL PRIMARY KEY,
		sequence INTEGER NOT NULL UNIQUE,
		timestamp INTEGER NOT NULL,
		problem_set TEXT NOT NULL,
		problem_id TEXT NOT NULL,
		mode TEXT NOT NULL,
		contest_id TEXT NOT NULL DEFAULT '',
		raw_answer TEXT NOT NULL,
		answers TEXT NOT NULL DEFAULT '[]',
		correct INTEGER NOT NULL,
		reason TEXT NOT NULL,
		time_ms INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS submissions_problem_id ON submissions (problem_id)`,
	`CREATE INDEX IF NOT EXISTS submissions_contest_id ON submissions (contest_id)`,
	`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`,
}

// migrate creates missing tables and indexes.
func migrate(ctx context.Context, drv *entsql.Driver) error {
	for _, stmt := range schema {
		if err := drv.Exec(ctx, stmt, []any{}, nil); err != nil {
			return fmt.Errorf("exec schema: %w", err)
		}
	}
	return nil
}
