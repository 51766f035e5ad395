package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathgrade/internal/ui/theme"
)

// MenuItem represents a single item in a navigation menu.
type MenuItem struct {
	Label    string
	Detail   string // dimmed text after the label
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical navigation menu.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a new menu with the given items.
func NewMenu(items []MenuItem) Menu {
	selected := 0
	for i, item := range items {
		if !item.Disabled {
			selected = i
			break
		}
	}
	return Menu{
		Items:    items,
		Selected: selected,
	}
}

// Init returns nil (no initial command).
func (m Menu) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		for i := m.Selected - 1; i >= 0; i-- {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case "down", "j":
		for i := m.Selected + 1; i < len(m.Items); i++ {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case "enter":
		if m.Selected >= 0 && m.Selected < len(m.Items) {
			item := m.Items[m.Selected]
			if item.Action != nil && !item.Disabled {
				return m, item.Action()
			}
		}
	}

	return m, nil
}

// View renders the menu, scrolled so the selected item stays within
// height lines. A height of zero shows every item.
func (m Menu) View(height int) string {
	first, last := 0, len(m.Items)
	if height > 0 && len(m.Items) > height {
		first = m.Selected - height/2
		if first < 0 {
			first = 0
		}
		if first > len(m.Items)-height {
			first = len(m.Items) - height
		}
		last = first + height
	}

	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	var b strings.Builder
	for i := first; i < last; i++ {
		item := m.Items[i]
		detail := ""
		if item.Detail != "" {
			detail = "  " + dim.Render(item.Detail)
		}
		switch {
		case i == m.Selected:
			b.WriteString(theme.Selected.Render("  ▸ "+item.Label) + detail)
		case item.Disabled:
			b.WriteString(dim.Render("    "+item.Label) + detail)
		default:
			b.WriteString(theme.Unselected.Render("    "+item.Label) + detail)
		}
		b.WriteString("\n")
	}
	return b.String()
}
