package store

import (
	"context"
	"strings"
	"time"
)

// AnswerDelimiter joins the answer slots of one submission for display.
// The slots themselves are stored separately so a slot may contain it.
const AnswerDelimiter = " ; "

// Mode says where a submission came from.
type Mode string

const (
	ModePractice Mode = "practice"
	ModeContest  Mode = "contest"
)

// Submission is one graded attempt at a problem. Both correct and
// incorrect attempts are stored.
type Submission struct {
	ID         string
	Sequence   int64
	Timestamp  time.Time
	ProblemSet string
	ProblemID  string
	Mode       Mode
	ContestID  string // empty outside contests
	RawAnswer  string   // slots joined by AnswerDelimiter
	Slots      []string // answer slots as typed
	Correct    bool
	Reason     string
	TimeMs     int64
}

// Answers returns the answer slots. Submissions built without Slots fall
// back to splitting RawAnswer.
func (s *Submission) Answers() []string {
	if s.Slots != nil {
		return s.Slots
	}
	return SplitAnswers(s.RawAnswer)
}

// JoinAnswers renders answer slots for display.
func JoinAnswers(answers []string) string {
	return strings.Join(answers, AnswerDelimiter)
}

// SplitAnswers reverses JoinAnswers when no slot contains AnswerDelimiter.
func SplitAnswers(raw string) []string {
	return strings.Split(raw, AnswerDelimiter)
}

// QueryOpts filters submission queries. Zero values mean no filter.
type QueryOpts struct {
	Limit     int // max results (0 = unlimited)
	ProblemID string
	ContestID string
	Mode      Mode
}

// SubmissionRepo provides append and query access to submissions.
type SubmissionRepo interface {
	// Append stores s, filling in ID, Sequence and Timestamp when unset.
	Append(ctx context.Context, s *Submission) error

	// Query returns matching submissions, newest first.
	Query(ctx context.Context, opts QueryOpts) ([]Submission, error)
}

// Contest is a timed run through a problem set.
type Contest struct {
	ID         string
	ProblemSet string
	StartedAt  time.Time
	EndsAt     time.Time
	FinishedAt *time.Time
}

// Over reports whether the contest no longer accepts submissions at now.
func (c *Contest) Over(now time.Time) bool {
	return c.FinishedAt != nil || !now.Before(c.EndsAt)
}

// ContestRepo manages contest records.
type ContestRepo interface {
	Create(ctx context.Context, c *Contest) error

	// Get returns the contest with id, or nil if none exists.
	Get(ctx context.Context, id string) (*Contest, error)

	// Finish marks the contest finished at the given time.
	Finish(ctx context.Context, id string, at time.Time) error

	// List returns the most recent contests, newest first.
	List(ctx context.Context, limit int) ([]Contest, error)
}
