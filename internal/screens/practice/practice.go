package practice

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathgrade/internal/problemset"
	"github.com/abhisek/mathgrade/internal/router"
	"github.com/abhisek/mathgrade/internal/screen"
	"github.com/abhisek/mathgrade/internal/store"
	"github.com/abhisek/mathgrade/internal/submission"
	"github.com/abhisek/mathgrade/internal/ui/components"
	"github.com/abhisek/mathgrade/internal/ui/layout"
)

// Submitter records a graded attempt. *submission.Service implements it.
type Submitter interface {
	Submit(ctx context.Context, req submission.Request) (submission.Result, error)
}

type phase int

const (
	phaseAnswering phase = iota
	phaseFeedback
)

// PracticeScreen shows one problem and grades the contestant's answers.
type PracticeScreen struct {
	set       *problemset.Set
	index     int
	problem   *problemset.Problem
	submitter Submitter
	slots     components.AnswerSlots
	phase     phase
	correct   bool
	attempts  int
	started   time.Time
	errMsg    string

	// now returns the current time. Tests replace it.
	now func() time.Time
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)

// New creates a PracticeScreen for the problem at index in set.
func New(set *problemset.Set, index int, submitter Submitter) *PracticeScreen {
	p := &set.Problems[index]
	return &PracticeScreen{
		set:       set,
		index:     index,
		problem:   p,
		submitter: submitter,
		slots:     components.NewAnswerSlots(p.RequiresMultipleAnswers, 50),
		now:       time.Now,
	}
}

func (s *PracticeScreen) Init() tea.Cmd {
	s.started = s.now()
	return s.slots.Init()
}

func (s *PracticeScreen) Title() string {
	if s.problem.Title != "" {
		return s.problem.Title
	}
	return s.problem.ID
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	if s.phase == phaseFeedback {
		hints := []layout.KeyHint{{Key: "R", Description: "Try again"}}
		if s.index+1 < len(s.set.Problems) {
			hints = append(hints, layout.KeyHint{Key: "N", Description: "Next problem"})
		}
		return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	}
	hints := []layout.KeyHint{{Key: "Enter", Description: "Submit"}}
	if s.problem.RequiresMultipleAnswers {
		hints = append(hints,
			layout.KeyHint{Key: "Tab", Description: "Next slot"},
			layout.KeyHint{Key: "Ctrl+N", Description: "Add"},
			layout.KeyHint{Key: "Ctrl+D", Description: "Remove"},
		)
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		s.slots, cmd = s.slots.Update(msg)
		return s, cmd
	}

	if s.phase == phaseFeedback {
		return s.handleFeedbackKey(kmsg)
	}

	switch kmsg.String() {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "enter":
		return s.submit()
	}

	var cmd tea.Cmd
	s.slots, cmd = s.slots.Update(msg)
	return s, cmd
}

func (s *PracticeScreen) handleFeedbackKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "r":
		s.phase = phaseAnswering
		s.errMsg = ""
		s.slots = components.NewAnswerSlots(s.problem.RequiresMultipleAnswers, 50)
		return s, s.Init()
	case "n":
		if s.index+1 >= len(s.set.Problems) {
			return s, nil
		}
		next := New(s.set, s.index+1, s.submitter)
		next.now = s.now
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
	}
	return s, nil
}

// submit grades the current slots. Every attempt is recorded, including
// blank and malformed ones.
func (s *PracticeScreen) submit() (screen.Screen, tea.Cmd) {
	res, err := s.submitter.Submit(context.Background(), submission.Request{
		ProblemSet: s.set.Name,
		Problem:    s.problem,
		Answers:    s.slots.Values(),
		Mode:       store.ModePractice,
		Elapsed:    s.now().Sub(s.started),
	})
	if err != nil {
		// The verdict is still valid when only persisting failed.
		s.errMsg = err.Error()
	}

	s.attempts++
	s.correct = res.Correct
	s.phase = phaseFeedback

	matched := make([]bool, len(res.Verdict.Slots))
	for i, slot := range res.Verdict.Slots {
		matched[i] = slot.Matched
	}
	if res.Correct || !s.problem.RequiresMultipleAnswers {
		// Per-slot marks would leak which multi-answer entries are right.
		s.slots.Mark(matched)
	}
	for i := range s.slots.Inputs {
		s.slots.Inputs[i].Model.Blur()
	}
	return s, nil
}
