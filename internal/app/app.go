package app

import (
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/mathgrade/internal/problemset"
	"github.com/abhisek/mathgrade/internal/router"
	"github.com/abhisek/mathgrade/internal/screen"
	"github.com/abhisek/mathgrade/internal/screens/home"
	"github.com/abhisek/mathgrade/internal/ui/layout"
)

// Options configures the TUI.
type Options struct {
	Set     *problemset.Set
	Service home.Service
	Logger  zerolog.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	setName string
	logger  zerolog.Logger
	width   int
	height  int
}

// newAppModel creates a new AppModel with the problem list as home.
func newAppModel(opts Options) AppModel {
	return AppModel{
		router:  router.New(home.New(opts.Set, opts.Service)),
		setName: opts.Set.Name,
		logger:  opts.Logger.With().Str("component", "app").Logger(),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}

	case router.PushScreenMsg:
		m.logger.Debug().Str("screen", msg.Screen.Title()).Msg("push screen")
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if content := m.render(); content != "" {
		v.SetContent(content)
	}
	return v
}

// render draws the full frame, or nothing before the first resize.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	frame := layout.Frame{Status: m.setName}
	active := m.router.Active()
	if active != nil {
		frame.Title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			frame.Status = sp.Status()
		}
	}

	if kp, ok := active.(screen.KeyHintProvider); ok {
		frame.Hints = kp.KeyHints()
	} else if m.router.Depth() > 1 {
		frame.Hints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		frame.Hints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	return frame.Render(m.width, m.height, m.router.View)
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	if opts.Set == nil || opts.Service == nil {
		return errors.New("app: problem set and service are required")
	}
	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}
