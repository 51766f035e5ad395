package contest

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathgrade/internal/problemset"
	"github.com/abhisek/mathgrade/internal/store"
	"github.com/abhisek/mathgrade/internal/submission"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func testSet() *problemset.Set {
	return &problemset.Set{
		Version: "v1.0.0",
		Name:    "warmup",
		Problems: []problemset.Problem{
			{ID: "half", Answers: []string{`\frac{1}{2}`}, Points: 1},
			{ID: "roots", Answers: []string{"1", "-1"}, RequiresMultipleAnswers: true, Points: 3},
			{ID: "binom", Answers: []string{`\binom{5}{2}`}, Points: 2},
		},
	}
}

func newTestService(t *testing.T) (*Service, *fakeClock) {
	t.Helper()
	st, err := store.Open("file:" + t.Name() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	subs := submission.NewService(st.Submissions(), zerolog.Nop())
	svc := NewService(testSet(), st, subs, zerolog.Nop())
	clock := &fakeClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	svc.Now = clock.Now
	return svc, clock
}

func TestStart(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	c, err := svc.Start(ctx, time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "warmup", c.ProblemSet)
	assert.True(t, c.EndsAt.Equal(clock.t.Add(time.Hour)))

	_, err = svc.Start(ctx, 0)
	assert.Error(t, err)
}

func TestSubmit(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	c, err := svc.Start(ctx, time.Hour)
	require.NoError(t, err)

	clock.Advance(5 * time.Minute)
	res, err := svc.Submit(ctx, c.ID, "half", []string{"0.5"})
	require.NoError(t, err)
	assert.True(t, res.Correct)

	res, err = svc.Submit(ctx, c.ID, "roots", []string{"1", "1"})
	require.NoError(t, err)
	assert.False(t, res.Correct)
}

func TestSubmit_Errors(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	_, err := svc.Submit(ctx, "missing", "half", []string{"1"})
	assert.ErrorIs(t, err, ErrNotFound)

	c, err := svc.Start(ctx, time.Hour)
	require.NoError(t, err)

	_, err = svc.Submit(ctx, c.ID, "nope", []string{"1"})
	assert.ErrorIs(t, err, ErrUnknownProblem)

	clock.Advance(time.Hour)
	_, err = svc.Submit(ctx, c.ID, "half", []string{"0.5"})
	assert.ErrorIs(t, err, ErrContestOver)
}

func TestFinish(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	c, err := svc.Start(ctx, time.Hour)
	require.NoError(t, err)

	clock.Advance(time.Minute)
	require.NoError(t, svc.Finish(ctx, c.ID))
	require.NoError(t, svc.Finish(ctx, c.ID))

	_, err = svc.Submit(ctx, c.ID, "half", []string{"0.5"})
	assert.ErrorIs(t, err, ErrContestOver)

	assert.ErrorIs(t, svc.Finish(ctx, "missing"), ErrNotFound)
}

func TestStandings(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	c, err := svc.Start(ctx, time.Hour)
	require.NoError(t, err)

	steps := []struct {
		after   time.Duration
		problem string
		answers []string
	}{
		{time.Minute, "half", []string{"0.4"}},
		{time.Minute, "half", []string{`\frac{2}{4}`}},
		{time.Minute, "half", []string{"7"}},
		{time.Minute, "roots", []string{"1"}},
		{time.Minute, "roots", []string{"-1", "1"}},
		{time.Minute, "binom", []string{"11"}},
	}
	for _, s := range steps {
		clock.Advance(s.after)
		_, err := svc.Submit(ctx, c.ID, s.problem, s.answers)
		require.NoError(t, err)
	}

	st, err := svc.Standings(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, st.Over)
	assert.Equal(t, 2, st.Solved)
	assert.Equal(t, 4, st.Points)
	require.Len(t, st.Problems, 3)

	half := st.Problems[0]
	assert.True(t, half.Solved)
	assert.Equal(t, 2, half.Attempts)
	assert.Equal(t, 2*time.Minute, half.SolvedAfter)
	assert.Equal(t, 1, half.Points)

	roots := st.Problems[1]
	assert.True(t, roots.Solved)
	assert.Equal(t, 2, roots.Attempts)
	assert.Equal(t, 3, roots.Points)

	binom := st.Problems[2]
	assert.False(t, binom.Solved)
	assert.Equal(t, 1, binom.Attempts)
	assert.Zero(t, binom.Points)

	clock.Advance(time.Hour)
	st, err = svc.Standings(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, st.Over)
}
