package submission

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathgrade/internal/problemset"
	"github.com/abhisek/mathgrade/internal/store"
)

// mockRepo implements store.SubmissionRepo for service tests.
type mockRepo struct {
	subs []store.Submission
	err  error
}

func (m *mockRepo) Append(_ context.Context, s *store.Submission) error {
	if m.err != nil {
		return m.err
	}
	s.ID = "sub-1"
	s.Sequence = int64(len(m.subs) + 1)
	m.subs = append(m.subs, *s)
	return nil
}

func (m *mockRepo) Query(_ context.Context, _ store.QueryOpts) ([]store.Submission, error) {
	return m.subs, m.err
}

func roots() *problemset.Problem {
	return &problemset.Problem{ID: "roots", Answers: []string{"1", "-1"}, RequiresMultipleAnswers: true, Points: 2}
}

func TestSubmit_PersistsCorrect(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, zerolog.Nop())

	res, err := svc.Submit(context.Background(), Request{
		ProblemSet: "warmup",
		Problem:    roots(),
		Answers:    []string{"-1", "1"},
		Elapsed:    2 * time.Second,
	})
	require.NoError(t, err)
	assert.True(t, res.Correct)
	assert.Equal(t, "sub-1", res.ID)

	require.Len(t, repo.subs, 1)
	sub := repo.subs[0]
	assert.Equal(t, "warmup", sub.ProblemSet)
	assert.Equal(t, "roots", sub.ProblemID)
	assert.Equal(t, store.ModePractice, sub.Mode)
	assert.Equal(t, "-1 ; 1", sub.RawAnswer)
	assert.Equal(t, []string{"-1", "1"}, sub.Slots)
	assert.True(t, sub.Correct)
	assert.Equal(t, "matched", sub.Reason)
	assert.Equal(t, int64(2000), sub.TimeMs)
}

func TestSubmit_PersistsIncorrect(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, zerolog.Nop())

	res, err := svc.Submit(context.Background(), Request{
		Problem:   roots(),
		Answers:   []string{"1", "1"},
		Mode:      store.ModeContest,
		ContestID: "c1",
	})
	require.NoError(t, err)
	assert.False(t, res.Correct)

	require.Len(t, repo.subs, 1)
	assert.False(t, repo.subs[0].Correct)
	assert.Equal(t, "mismatch", repo.subs[0].Reason)
	assert.Equal(t, store.ModeContest, repo.subs[0].Mode)
	assert.Equal(t, "c1", repo.subs[0].ContestID)
}

func TestSubmit_BlankIsRecorded(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, zerolog.Nop())

	res, err := svc.Submit(context.Background(), Request{Problem: roots(), Answers: []string{"", "1"}})
	require.NoError(t, err)
	assert.False(t, res.Correct)
	require.Len(t, repo.subs, 1)
	assert.Equal(t, "blank", repo.subs[0].Reason)
}

func TestSubmit_StoreErrorKeepsVerdict(t *testing.T) {
	repo := &mockRepo{err: errors.New("disk full")}
	svc := NewService(repo, zerolog.Nop())

	res, err := svc.Submit(context.Background(), Request{Problem: roots(), Answers: []string{"1", "-1"}})
	require.Error(t, err)
	assert.True(t, res.Correct)
	assert.Empty(t, res.ID)
}

func TestSubmit_NoProblem(t *testing.T) {
	svc := NewService(&mockRepo{}, zerolog.Nop())
	_, err := svc.Submit(context.Background(), Request{Answers: []string{"1"}})
	assert.ErrorIs(t, err, ErrNoProblem)
}

func TestSubmit_WithStore(t *testing.T) {
	s, err := store.Open("file:submission_service?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	svc := NewService(s.Submissions(), zerolog.Nop())
	ctx := context.Background()
	p := &problemset.Problem{ID: "half", Answers: []string{`\frac{1}{2}`}}

	for _, ans := range []string{"0.4", "0.5"} {
		_, err := svc.Submit(ctx, Request{ProblemSet: "set", Problem: p, Answers: []string{ans}})
		require.NoError(t, err)
	}

	hist, err := svc.History(ctx, store.QueryOpts{ProblemID: "half"})
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.True(t, hist[0].Correct)
	assert.False(t, hist[1].Correct)
}
