package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathgrade/internal/problemset"
	"github.com/abhisek/mathgrade/internal/router"
	"github.com/abhisek/mathgrade/internal/screen"
	"github.com/abhisek/mathgrade/internal/screens/history"
	"github.com/abhisek/mathgrade/internal/screens/practice"
	"github.com/abhisek/mathgrade/internal/store"
	"github.com/abhisek/mathgrade/internal/ui/components"
	"github.com/abhisek/mathgrade/internal/ui/layout"
	"github.com/abhisek/mathgrade/internal/ui/theme"
)

// Service grades attempts and lists past ones.
// *submission.Service implements it.
type Service interface {
	practice.Submitter
	history.Lister
}

type solvedLoadedMsg struct {
	solved map[string]bool
	err    error
}

// HomeScreen lists the problems of the loaded set.
type HomeScreen struct {
	set     *problemset.Set
	service Service
	menu    components.Menu
	solved  map[string]bool
	errMsg  string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Refresher = (*HomeScreen)(nil)
var _ screen.StatusProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(set *problemset.Set, service Service) *HomeScreen {
	h := &HomeScreen{
		set:     set,
		service: service,
		solved:  make(map[string]bool),
	}
	h.menu = components.NewMenu(h.menuItems())
	return h
}

func (h *HomeScreen) menuItems() []components.MenuItem {
	items := make([]components.MenuItem, 0, len(h.set.Problems)+2)
	for i := range h.set.Problems {
		p := &h.set.Problems[i]
		label := p.ID
		if p.Title != "" {
			label = fmt.Sprintf("%s  %s", p.ID, p.Title)
		}
		detail := ""
		if h.solved[p.ID] {
			detail = "✓ solved"
		}
		idx := i
		items = append(items, components.MenuItem{
			Label:  label,
			Detail: detail,
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: practice.New(h.set, idx, h.service)}
				}
			},
		})
	}
	items = append(items,
		components.MenuItem{Label: "History", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(h.service)}
			}
		}},
		components.MenuItem{Label: "Quit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	)
	return items
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.Refresh()
}

// Refresh reloads which problems have a correct practice attempt.
func (h *HomeScreen) Refresh() tea.Cmd {
	return func() tea.Msg {
		subs, err := h.service.History(context.Background(), store.QueryOpts{Mode: store.ModePractice})
		if err != nil {
			return solvedLoadedMsg{err: err}
		}
		solved := make(map[string]bool)
		for _, s := range subs {
			if s.Correct && s.ProblemSet == h.set.Name {
				solved[s.ProblemID] = true
			}
		}
		return solvedLoadedMsg{solved: solved}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(solvedLoadedMsg); ok {
		if msg.err != nil {
			h.errMsg = msg.err.Error()
			return h, nil
		}
		h.errMsg = ""
		h.solved = msg.solved
		selected := h.menu.Selected
		h.menu = components.NewMenu(h.menuItems())
		h.menu.Selected = selected
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Title.Render(h.set.Name))
	b.WriteString("\n")

	bar := components.NewProgressBar("Solved", h.solvedCount(), len(h.set.Problems), 30)
	b.WriteString(bar.View())
	b.WriteString("\n\n")

	if h.errMsg != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render("Error: " + h.errMsg))
		b.WriteString("\n\n")
	}

	menuHeight := height - 6
	if menuHeight < 3 {
		menuHeight = 3
	}
	b.WriteString(h.menu.View(menuHeight))

	return lipgloss.NewStyle().
		Width(width).
		PaddingLeft(4).
		Render(b.String())
}

func (h *HomeScreen) Title() string {
	return "Problems"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Open"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Status reports how many problems are solved.
func (h *HomeScreen) Status() string {
	return fmt.Sprintf("%d/%d solved", h.solvedCount(), len(h.set.Problems))
}

func (h *HomeScreen) solvedCount() int {
	n := 0
	for _, p := range h.set.Problems {
		if h.solved[p.ID] {
			n++
		}
	}
	return n
}
