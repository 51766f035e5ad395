package practice

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathgrade/internal/problemset"
	"github.com/abhisek/mathgrade/internal/router"
	"github.com/abhisek/mathgrade/internal/store"
	"github.com/abhisek/mathgrade/internal/submission"
)

// memRepo implements store.SubmissionRepo in memory.
type memRepo struct {
	subs []store.Submission
	err  error
}

func (m *memRepo) Append(_ context.Context, s *store.Submission) error {
	if m.err != nil {
		return m.err
	}
	s.Sequence = int64(len(m.subs) + 1)
	m.subs = append(m.subs, *s)
	return nil
}

func (m *memRepo) Query(_ context.Context, _ store.QueryOpts) ([]store.Submission, error) {
	return m.subs, nil
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func typeText(s *PracticeScreen, text string) {
	for _, r := range text {
		s.Update(keyPress(r))
	}
}

func testSet() *problemset.Set {
	return &problemset.Set{
		Version: "v1.0.0",
		Name:    "Warmup",
		Problems: []problemset.Problem{
			{ID: "half", Title: "Half", Statement: `Compute $\frac{2}{4}$.`, Answers: []string{`\frac{1}{2}`}, Points: 1},
			{ID: "roots", Title: "Roots", Statement: `Solve $x^2 = 1$.`, Answers: []string{"1", "-1"}, RequiresMultipleAnswers: true, Points: 3},
		},
	}
}

func testScreen(index int) (*PracticeScreen, *memRepo) {
	repo := &memRepo{}
	svc := submission.NewService(repo, zerolog.Nop())
	s := New(testSet(), index, svc)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	calls := 0
	s.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * 30 * time.Second)
	}
	s.Init()
	return s, repo
}

func TestPracticeScreen_Title(t *testing.T) {
	s, _ := testScreen(0)
	assert.Equal(t, "Half", s.Title())
}

func TestPracticeScreen_CorrectAnswer(t *testing.T) {
	s, repo := testScreen(0)
	typeText(s, "0.5")
	s.Update(specialKey(tea.KeyEnter))

	require.Equal(t, phaseFeedback, s.phase)
	assert.True(t, s.correct)
	require.Len(t, repo.subs, 1)

	sub := repo.subs[0]
	assert.Equal(t, "half", sub.ProblemID)
	assert.Equal(t, "Warmup", sub.ProblemSet)
	assert.Equal(t, store.ModePractice, sub.Mode)
	assert.Equal(t, "0.5", sub.RawAnswer)
	assert.True(t, sub.Correct)
	assert.Equal(t, int64(30000), sub.TimeMs)

	assert.Contains(t, s.View(80, 24), "Correct")
}

func TestPracticeScreen_IncorrectAnswerIsRecorded(t *testing.T) {
	s, repo := testScreen(0)
	typeText(s, "2")
	s.Update(specialKey(tea.KeyEnter))

	assert.False(t, s.correct)
	require.Len(t, repo.subs, 1)
	assert.False(t, repo.subs[0].Correct)

	view := s.View(80, 24)
	assert.Contains(t, view, "Incorrect")
	assert.NotContains(t, view, "mismatch")
}

func TestPracticeScreen_BlankSubmissionIsRecorded(t *testing.T) {
	s, repo := testScreen(0)
	s.Update(specialKey(tea.KeyEnter))

	assert.False(t, s.correct)
	require.Len(t, repo.subs, 1)
	assert.Equal(t, "", repo.subs[0].RawAnswer)
}

func TestPracticeScreen_Retry(t *testing.T) {
	s, repo := testScreen(0)
	typeText(s, "2")
	s.Update(specialKey(tea.KeyEnter))
	s.Update(keyPress('r'))

	require.Equal(t, phaseAnswering, s.phase)
	assert.Equal(t, []string{""}, s.slots.Values())

	typeText(s, `\frac{1}{2}`)
	s.Update(specialKey(tea.KeyEnter))
	assert.True(t, s.correct)
	assert.Equal(t, 2, s.attempts)
	assert.Len(t, repo.subs, 2)
}

func TestPracticeScreen_MultipleAnswers(t *testing.T) {
	s, repo := testScreen(1)
	typeText(s, "-1")
	s.Update(tea.KeyPressMsg{Code: 'n', Mod: tea.ModCtrl})
	typeText(s, "1")
	s.Update(specialKey(tea.KeyEnter))

	assert.True(t, s.correct)
	require.Len(t, repo.subs, 1)
	assert.Equal(t, []string{"-1", "1"}, repo.subs[0].Answers())
}

func TestPracticeScreen_MultipleAnswersWrongCount(t *testing.T) {
	s, _ := testScreen(1)
	typeText(s, "1")
	s.Update(specialKey(tea.KeyEnter))

	assert.False(t, s.correct)
}

func TestPracticeScreen_PersistErrorStillShowsVerdict(t *testing.T) {
	s, repo := testScreen(0)
	repo.err = errors.New("disk full")
	typeText(s, "0.5")
	s.Update(specialKey(tea.KeyEnter))

	assert.True(t, s.correct)
	assert.Contains(t, s.errMsg, "disk full")
	assert.Contains(t, s.View(80, 24), "Could not save")
}

func TestPracticeScreen_NextReplacesScreen(t *testing.T) {
	s, _ := testScreen(0)
	typeText(s, "0.5")
	s.Update(specialKey(tea.KeyEnter))

	_, cmd := s.Update(keyPress('n'))
	require.NotNil(t, cmd)
	msg, ok := cmd().(router.ReplaceScreenMsg)
	require.True(t, ok)
	next, ok := msg.Screen.(*PracticeScreen)
	require.True(t, ok)
	assert.Equal(t, "roots", next.problem.ID)
}

func TestPracticeScreen_NextOnLastProblem(t *testing.T) {
	s, _ := testScreen(1)
	s.Update(specialKey(tea.KeyEnter))
	_, cmd := s.Update(keyPress('n'))
	assert.Nil(t, cmd)
}

func TestPracticeScreen_EscPops(t *testing.T) {
	s, _ := testScreen(0)
	_, cmd := s.Update(specialKey(tea.KeyEscape))
	require.NotNil(t, cmd)
	_, ok := cmd().(router.PopScreenMsg)
	assert.True(t, ok)
}

func TestPracticeScreen_KeyHints(t *testing.T) {
	s, _ := testScreen(1)
	var keys []string
	for _, h := range s.KeyHints() {
		keys = append(keys, h.Key)
	}
	assert.Contains(t, keys, "Ctrl+N")

	s.Update(specialKey(tea.KeyEnter))
	keys = keys[:0]
	for _, h := range s.KeyHints() {
		keys = append(keys, h.Key)
	}
	assert.Equal(t, "R Esc", strings.Join(keys, " "))
}

func TestPracticeScreen_ViewShowsStatement(t *testing.T) {
	s, _ := testScreen(0)
	view := s.View(80, 24)
	assert.Contains(t, view, "Problem 1 of 2")
	assert.Contains(t, view, `\frac{2}{4}`)
	assert.Contains(t, view, "1 point")
}
