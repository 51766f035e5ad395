package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathgrade/internal/grading"
	"github.com/abhisek/mathgrade/internal/ui/theme"
)

// TextInput is one answer slot: a bubbles text input plus an optional
// ✓/✗ mark from the last grading.
type TextInput struct {
	Model   textinput.Model
	marked  bool
	matched bool
}

// NewTextInput creates an empty slot. Input is capped at the longest
// answer the grader accepts.
func NewTextInput(placeholder string, width int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = grading.MaxInputLength
	if width > 0 {
		ti.SetWidth(width)
	}
	return TextInput{Model: ti}
}

func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update forwards msg to the text input. Editing the value clears the
// mark, since it no longer describes what is typed.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	before := t.Model.Value()
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	if t.Model.Value() != before {
		t.marked = false
	}
	return t, cmd
}

func (t TextInput) View() string {
	view := t.Model.View()
	if !t.marked {
		return view
	}
	if t.matched {
		return view + " " + theme.Correct.Render("✓")
	}
	return view + " " + theme.Incorrect.Render("✗")
}

func (t TextInput) Value() string {
	return t.Model.Value()
}

// Mark records whether the slot's answer matched.
func (t *TextInput) Mark(matched bool) {
	t.marked = true
	t.matched = matched
}

// Marked reports whether the slot carries a mark.
func (t TextInput) Marked() bool {
	return t.marked
}
