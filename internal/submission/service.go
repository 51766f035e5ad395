package submission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhisek/mathgrade/internal/grading"
	"github.com/abhisek/mathgrade/internal/problemset"
	"github.com/abhisek/mathgrade/internal/store"
)

// ErrNoProblem is returned when a Request has no problem attached.
var ErrNoProblem = errors.New("submission has no problem")

// Request is one attempt to answer a problem. Answers holds the raw text
// of each answer slot in the order the contestant entered them.
type Request struct {
	ProblemSet string
	Problem    *problemset.Problem
	Answers    []string
	Mode       store.Mode
	ContestID  string
	Elapsed    time.Duration
}

// Result is what the caller shows back. Verdict carries operator
// diagnostics; contestants only see Correct.
type Result struct {
	ID      string
	Correct bool
	Verdict grading.Verdict
}

// Service grades submissions and records every attempt. Practice and
// contest mode both submit through it.
type Service struct {
	repo   store.SubmissionRepo
	logger zerolog.Logger
}

// NewService creates a Service persisting to repo.
func NewService(repo store.SubmissionRepo, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("component", "submission").Logger(),
	}
}

// Submit grades req and persists it whatever the verdict. If persisting
// fails the verdict is still returned alongside the error.
func (s *Service) Submit(ctx context.Context, req Request) (Result, error) {
	if req.Problem == nil {
		return Result{}, ErrNoProblem
	}
	mode := req.Mode
	if mode == "" {
		mode = store.ModePractice
	}

	verdict := grading.Grade(req.Answers, req.Problem.Answers, req.Problem.Policy())
	res := Result{Correct: verdict.Correct, Verdict: verdict}

	sub := &store.Submission{
		ProblemSet: req.ProblemSet,
		ProblemID:  req.Problem.ID,
		Mode:       mode,
		ContestID:  req.ContestID,
		RawAnswer:  store.JoinAnswers(req.Answers),
		Slots:      req.Answers,
		Correct:    verdict.Correct,
		Reason:     string(verdict.Reason),
		TimeMs:     req.Elapsed.Milliseconds(),
	}
	if err := s.repo.Append(ctx, sub); err != nil {
		s.logger.Error().Err(err).
			Str("problem", req.Problem.ID).
			Msg("failed to persist submission")
		return res, fmt.Errorf("record submission: %w", err)
	}
	res.ID = sub.ID

	s.logger.Info().
		Str("id", sub.ID).
		Str("problem", req.Problem.ID).
		Str("mode", string(mode)).
		Str("contest", req.ContestID).
		Int("slots", len(req.Answers)).
		Bool("correct", verdict.Correct).
		Str("reason", string(verdict.Reason)).
		Msg("graded submission")
	return res, nil
}

// History returns recorded submissions matching opts, newest first.
func (s *Service) History(ctx context.Context, opts store.QueryOpts) ([]store.Submission, error) {
	subs, err := s.repo.Query(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	return subs, nil
}
