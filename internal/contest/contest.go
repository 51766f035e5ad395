package contest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhisek/mathgrade/internal/problemset"
	"github.com/abhisek/mathgrade/internal/store"
	"github.com/abhisek/mathgrade/internal/submission"
)

var (
	ErrNotFound       = errors.New("contest not found")
	ErrContestOver    = errors.New("contest is over")
	ErrUnknownProblem = errors.New("problem is not part of this contest")
	ErrWrongSet       = errors.New("contest was started on a different problem set")
)

// Service runs virtual contests over one problem set.
type Service struct {
	set      *problemset.Set
	contests store.ContestRepo
	subs     *submission.Service
	history  store.SubmissionRepo
	logger   zerolog.Logger

	// Now returns the current time. Tests replace it.
	Now func() time.Time
}

// NewService creates a contest Service for set.
func NewService(set *problemset.Set, st *store.Store, subs *submission.Service, logger zerolog.Logger) *Service {
	return &Service{
		set:      set,
		contests: st.Contests(),
		subs:     subs,
		history:  st.Submissions(),
		logger:   logger.With().Str("component", "contest").Logger(),
		Now:      time.Now,
	}
}

// Start opens a new contest lasting d.
func (s *Service) Start(ctx context.Context, d time.Duration) (*store.Contest, error) {
	if d <= 0 {
		return nil, fmt.Errorf("contest duration must be positive, got %s", d)
	}
	now := s.Now()
	c := &store.Contest{
		ProblemSet: s.set.Name,
		StartedAt:  now,
		EndsAt:     now.Add(d),
	}
	if err := s.contests.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("start contest: %w", err)
	}
	s.logger.Info().Str("contest", c.ID).Str("set", s.set.Name).Dur("duration", d).Msg("contest started")
	return c, nil
}

// Get loads a contest belonging to this service's problem set.
func (s *Service) Get(ctx context.Context, id string) (*store.Contest, error) {
	c, err := s.contests.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if c.ProblemSet != s.set.Name {
		return nil, fmt.Errorf("%w: %s", ErrWrongSet, c.ProblemSet)
	}
	return c, nil
}

// Submit grades answers for problemID inside the contest. Submissions
// after the deadline or after Finish are rejected without being recorded.
func (s *Service) Submit(ctx context.Context, contestID, problemID string, answers []string) (submission.Result, error) {
	c, err := s.Get(ctx, contestID)
	if err != nil {
		return submission.Result{}, err
	}
	now := s.Now()
	if c.Over(now) {
		return submission.Result{}, ErrContestOver
	}
	p := s.set.Problem(problemID)
	if p == nil {
		return submission.Result{}, fmt.Errorf("%w: %s", ErrUnknownProblem, problemID)
	}

	return s.subs.Submit(ctx, submission.Request{
		ProblemSet: s.set.Name,
		Problem:    p,
		Answers:    answers,
		Mode:       store.ModeContest,
		ContestID:  c.ID,
		Elapsed:    now.Sub(c.StartedAt),
	})
}

// Finish closes the contest early. Finishing twice is a no-op.
func (s *Service) Finish(ctx context.Context, contestID string) error {
	if _, err := s.Get(ctx, contestID); err != nil {
		return err
	}
	if err := s.contests.Finish(ctx, contestID, s.Now()); err != nil {
		return err
	}
	s.logger.Info().Str("contest", contestID).Msg("contest finished")
	return nil
}

// ProblemStanding summarizes one problem's attempts in a contest.
type ProblemStanding struct {
	ProblemID string
	Points    int
	Attempts  int
	Solved    bool

	// SolvedAfter is the time from contest start to the first correct
	// submission.
	SolvedAfter time.Duration
}

// Standings is the scoreboard of a contest.
type Standings struct {
	Contest  store.Contest
	Problems []ProblemStanding
	Solved   int
	Points   int
	Over     bool
}

// Standings computes the scoreboard from recorded submissions. Attempts
// after a problem is solved are not counted.
func (s *Service) Standings(ctx context.Context, contestID string) (*Standings, error) {
	c, err := s.Get(ctx, contestID)
	if err != nil {
		return nil, err
	}
	subs, err := s.history.Query(ctx, store.QueryOpts{ContestID: c.ID})
	if err != nil {
		return nil, fmt.Errorf("load contest submissions: %w", err)
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].Sequence < subs[j].Sequence })

	byID := make(map[string]*ProblemStanding, len(s.set.Problems))
	st := &Standings{Contest: *c, Over: c.Over(s.Now())}
	st.Problems = make([]ProblemStanding, len(s.set.Problems))
	for i, p := range s.set.Problems {
		st.Problems[i] = ProblemStanding{ProblemID: p.ID}
		byID[p.ID] = &st.Problems[i]
	}

	for _, sub := range subs {
		ps, ok := byID[sub.ProblemID]
		if !ok || ps.Solved {
			continue
		}
		ps.Attempts++
		if sub.Correct {
			ps.Solved = true
			ps.SolvedAfter = time.Duration(sub.TimeMs) * time.Millisecond
		}
	}

	for i := range st.Problems {
		ps := &st.Problems[i]
		if ps.Solved {
			ps.Points = s.set.Problems[i].Points
			st.Solved++
			st.Points += ps.Points
		}
	}
	return st, nil
}
