package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

var contestColumns = []string{"id", "problem_set", "started_at", "ends_at", "finished_at"}

// contestRepo implements ContestRepo with ent SQL builders.
type contestRepo struct {
	drv *entsql.Driver
}

func (r *contestRepo) Create(ctx context.Context, c *Contest) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	var finished any
	if c.FinishedAt != nil {
		finished = c.FinishedAt.UnixMilli()
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(tableContests).
		Columns(contestColumns...).
		Values(c.ID, c.ProblemSet, c.StartedAt.UnixMilli(), c.EndsAt.UnixMilli(), finished).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save contest: %w", err)
	}
	return nil
}

func (r *contestRepo) Get(ctx context.Context, id string) (*Contest, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(contestColumns...).
		From(entsql.Table(tableContests)).
		Where(entsql.EQ("id", id)).
		Query()

	cs, err := r.query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	if len(cs) == 0 {
		return nil, nil
	}
	return &cs[0], nil
}

func (r *contestRepo) Finish(ctx context.Context, id string, at time.Time) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Update(tableContests).
		Set("finished_at", at.UnixMilli()).
		Where(entsql.And(entsql.EQ("id", id), entsql.IsNull("finished_at"))).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("finish contest: %w", err)
	}
	return nil
}

func (r *contestRepo) List(ctx context.Context, limit int) ([]Contest, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(contestColumns...).
		From(entsql.Table(tableContests)).
		OrderBy(entsql.Desc("started_at"))
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()
	return r.query(ctx, query, args)
}

func (r *contestRepo) query(ctx context.Context, query string, args []any) ([]Contest, error) {
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query contests: %w", err)
	}
	defer rows.Close()

	var out []Contest
	for rows.Next() {
		var (
			c             Contest
			started, ends int64
			finished      sql.NullInt64
		)
		if err := rows.Scan(&c.ID, &c.ProblemSet, &started, &ends, &finished); err != nil {
			return nil, fmt.Errorf("scan contest: %w", err)
		}
		c.StartedAt = time.UnixMilli(started)
		c.EndsAt = time.UnixMilli(ends)
		if finished.Valid {
			t := time.UnixMilli(finished.Int64)
			c.FinishedAt = &t
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query contests: %w", err)
	}
	return out, nil
}
