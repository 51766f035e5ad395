package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathgrade/internal/router"
	"github.com/abhisek/mathgrade/internal/screen"
	"github.com/abhisek/mathgrade/internal/store"
	"github.com/abhisek/mathgrade/internal/ui/layout"
	"github.com/abhisek/mathgrade/internal/ui/theme"
)

// Lister loads past submissions. *submission.Service implements it.
type Lister interface {
	History(ctx context.Context, opts store.QueryOpts) ([]store.Submission, error)
}

type historyLoadedMsg struct {
	Submissions []store.Submission
	Err         error
}

// filter narrows the list by verdict.
type filter int

const (
	filterAll filter = iota
	filterCorrect
	filterIncorrect
)

func (f filter) String() string {
	switch f {
	case filterCorrect:
		return "correct"
	case filterIncorrect:
		return "incorrect"
	}
	return "all"
}

func (f filter) keep(s store.Submission) bool {
	switch f {
	case filterCorrect:
		return s.Correct
	case filterIncorrect:
		return !s.Correct
	}
	return true
}

// HistoryScreen lists past practice attempts, newest first.
type HistoryScreen struct {
	lister   Lister
	all      []store.Submission
	visible  []store.Submission
	filter   filter
	selected int
	expanded map[string]bool // by submission id
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)
var _ screen.StatusProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(lister Lister) *HistoryScreen {
	return &HistoryScreen{
		lister:   lister,
		expanded: make(map[string]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		subs, err := s.lister.History(context.Background(), store.QueryOpts{
			Limit: 200,
			Mode:  store.ModePractice,
		})
		return historyLoadedMsg{Submissions: subs, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Answers"},
		{Key: "F", Description: "Filter: " + s.filter.String()},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

// Status reports how many of the loaded attempts were correct.
func (s *HistoryScreen) Status() string {
	correct := 0
	for _, sub := range s.all {
		if sub.Correct {
			correct++
		}
	}
	return fmt.Sprintf("%d/%d correct", correct, len(s.all))
}

func (s *HistoryScreen) applyFilter() {
	s.visible = s.visible[:0]
	for _, sub := range s.all {
		if s.filter.keep(sub) {
			s.visible = append(s.visible, sub)
		}
	}
	s.selected = min(s.selected, max(len(s.visible)-1, 0))
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.all = msg.Submissions
			s.applyFilter()
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			s.selected = max(s.selected-1, 0)
		case "down", "j":
			s.selected = min(s.selected+1, max(len(s.visible)-1, 0))
		case "f":
			s.filter = (s.filter + 1) % 3
			s.applyFilter()
		case "enter":
			if s.selected < len(s.visible) {
				id := s.visible[s.selected].ID
				s.expanded[id] = !s.expanded[id]
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	message := func(style lipgloss.Style, text string) string {
		return style.Width(width).Align(lipgloss.Center).Render("\n\n" + text)
	}
	switch {
	case s.errMsg != "":
		return message(lipgloss.NewStyle().Foreground(theme.Error), "Error: "+s.errMsg)
	case !s.loaded:
		return message(theme.Subtitle, "Loading history...")
	case len(s.all) == 0:
		return message(theme.Hint, "No submissions yet. Pick a problem to start!")
	case len(s.visible) == 0:
		return message(theme.Hint, fmt.Sprintf("No %s submissions.", s.filter))
	}

	var lines []string
	for i, sub := range s.visible {
		mark := theme.Incorrect.Render("✗")
		if sub.Correct {
			mark = theme.Correct.Render("✓")
		}
		row := fmt.Sprintf("%s  %-16s  %5s",
			sub.Timestamp.Local().Format("Jan 02 15:04"), sub.ProblemID, formatDuration(sub.TimeMs))

		cursor, style := "  ", theme.Unselected
		if i == s.selected {
			cursor, style = "▸ ", theme.Selected
		}
		lines = append(lines, style.Render(cursor+row)+"  "+mark)

		if s.expanded[sub.ID] {
			for n, a := range sub.Answers() {
				if strings.TrimSpace(a) == "" {
					a = "(blank)"
				}
				lines = append(lines, theme.Hint.Render(fmt.Sprintf("      %d. %s", n+1, a)))
			}
		}
	}

	// Keep the selection on screen.
	if room := height - 2; room > 0 && len(lines) > room {
		first := min(max(s.selectedLine()-room/2, 0), len(lines)-room)
		lines = lines[first : first+room]
	}

	return lipgloss.NewStyle().
		Width(width).
		PaddingLeft(4).
		Render("\n" + strings.Join(lines, "\n"))
}

// selectedLine is the index of the selected row among rendered lines.
func (s *HistoryScreen) selectedLine() int {
	line := 0
	for i := 0; i < s.selected && i < len(s.visible); i++ {
		line++
		if s.expanded[s.visible[i].ID] {
			line += len(s.visible[i].Answers())
		}
	}
	return line
}

func formatDuration(ms int64) string {
	secs := ms / 1000
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
