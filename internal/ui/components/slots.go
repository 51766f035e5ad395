package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathgrade/internal/ui/theme"
)

// MaxSlots bounds how many answers one submission may carry.
const MaxSlots = 20

// AnswerSlots is an ordered list of answer inputs. Multi-answer problems
// let the contestant add and remove slots; single-answer problems keep
// exactly one. Values are submitted in slot order.
type AnswerSlots struct {
	Inputs   []TextInput
	Focused  int
	Multiple bool
	width    int
}

// NewAnswerSlots creates one empty slot.
func NewAnswerSlots(multiple bool, width int) AnswerSlots {
	s := AnswerSlots{Multiple: multiple, width: width}
	s.Inputs = []TextInput{s.newInput()}
	return s
}

func (s AnswerSlots) newInput() TextInput {
	placeholder := "Answer (LaTeX allowed)"
	if s.Multiple {
		placeholder = fmt.Sprintf("Answer %d", len(s.Inputs)+1)
	}
	return NewTextInput(placeholder, s.width)
}

// Init focuses the first slot.
func (s AnswerSlots) Init() tea.Cmd {
	return s.Inputs[s.Focused].Model.Focus()
}

// Values returns the raw text of every slot in order.
func (s AnswerSlots) Values() []string {
	vals := make([]string, len(s.Inputs))
	for i, in := range s.Inputs {
		vals[i] = in.Value()
	}
	return vals
}

// Add appends an empty slot and focuses it.
func (s *AnswerSlots) Add() tea.Cmd {
	if !s.Multiple || len(s.Inputs) >= MaxSlots {
		return nil
	}
	s.Inputs = append(s.Inputs, s.newInput())
	return s.focus(len(s.Inputs) - 1)
}

// Remove deletes the focused slot. The last slot is never removed.
func (s *AnswerSlots) Remove() tea.Cmd {
	if len(s.Inputs) <= 1 {
		return nil
	}
	s.Inputs = append(s.Inputs[:s.Focused], s.Inputs[s.Focused+1:]...)
	next := s.Focused
	if next >= len(s.Inputs) {
		next = len(s.Inputs) - 1
	}
	s.Focused = -1
	return s.focus(next)
}

// Next moves focus to the following slot, wrapping around.
func (s *AnswerSlots) Next() tea.Cmd {
	return s.focus((s.Focused + 1) % len(s.Inputs))
}

// Prev moves focus to the preceding slot, wrapping around.
func (s *AnswerSlots) Prev() tea.Cmd {
	return s.focus((s.Focused - 1 + len(s.Inputs)) % len(s.Inputs))
}

func (s *AnswerSlots) focus(i int) tea.Cmd {
	for j := range s.Inputs {
		if j != i {
			s.Inputs[j].Model.Blur()
		}
	}
	s.Focused = i
	return s.Inputs[i].Model.Focus()
}

// Mark shows a ✓ or ✗ next to each slot.
func (s *AnswerSlots) Mark(matched []bool) {
	for i := range s.Inputs {
		s.Inputs[i].Mark(i < len(matched) && matched[i])
	}
}

// Update handles slot navigation and forwards the rest to the focused
// input. Ctrl+N adds a slot and Ctrl+D removes the focused one.
func (s AnswerSlots) Update(msg tea.Msg) (AnswerSlots, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "tab", "down":
			return s, s.Next()
		case "shift+tab", "up":
			return s, s.Prev()
		case "ctrl+n":
			return s, s.Add()
		case "ctrl+d":
			return s, s.Remove()
		}
	}

	var cmd tea.Cmd
	s.Inputs[s.Focused], cmd = s.Inputs[s.Focused].Update(msg)
	return s, cmd
}

// View renders the slots one per line.
func (s AnswerSlots) View() string {
	var b strings.Builder
	for i, in := range s.Inputs {
		label := "  "
		if s.Multiple {
			label = fmt.Sprintf("%2d.", i+1)
		}
		style := theme.Unselected
		if i == s.Focused {
			style = theme.Selected
		}
		b.WriteString(style.Render(label) + " " + in.View())
		b.WriteString("\n")
	}
	if s.Multiple {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).
			Render(fmt.Sprintf("  %d answer(s). Order does not matter.", len(s.Inputs))))
		b.WriteString("\n")
	}
	return b.String()
}
