package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

var submissionColumns = []string{
	"id", "sequence", "timestamp", "problem_set", "problem_id", "mode",
	"contest_id", "raw_answer", "answers", "correct", "reason", "time_ms",
}

// submissionRepo implements SubmissionRepo with ent SQL builders.
type submissionRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

func (r *submissionRepo) Append(ctx context.Context, s *Submission) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	s.Sequence = seqNum
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Timestamp.IsZero() {
		s.Timestamp = time.Now()
	}
	if s.Mode == "" {
		s.Mode = ModePractice
	}
	slots, err := json.Marshal(s.Answers())
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(tableSubmissions).
		Columns(submissionColumns...).
		Values(s.ID, s.Sequence, s.Timestamp.UnixMilli(), s.ProblemSet, s.ProblemID,
			string(s.Mode), s.ContestID, s.RawAnswer, string(slots), s.Correct, s.Reason, s.TimeMs).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save submission: %w", err)
	}
	return nil
}

func (r *submissionRepo) Query(ctx context.Context, opts QueryOpts) ([]Submission, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(submissionColumns...).
		From(entsql.Table(tableSubmissions))
	if opts.ProblemID != "" {
		sel.Where(entsql.EQ("problem_id", opts.ProblemID))
	}
	if opts.ContestID != "" {
		sel.Where(entsql.EQ("contest_id", opts.ContestID))
	}
	if opts.Mode != "" {
		sel.Where(entsql.EQ("mode", string(opts.Mode)))
	}
	sel.OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	var out []Submission
	for rows.Next() {
		var (
			s    Submission
			ts    int64
			mode  string
			slots string
		)
		if err := rows.Scan(&s.ID, &s.Sequence, &ts, &s.ProblemSet, &s.ProblemID, &mode,
			&s.ContestID, &s.RawAnswer, &slots, &s.Correct, &s.Reason, &s.TimeMs); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		s.Timestamp = time.UnixMilli(ts)
		s.Mode = Mode(mode)
		if err := json.Unmarshal([]byte(slots), &s.Slots); err != nil {
			return nil, fmt.Errorf("decode answers of %s: %w", s.ID, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	return out, nil
}
