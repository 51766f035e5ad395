package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathgrade/internal/ui/theme"
)

// ProgressBar shows how many of a set of items are done, e.g. solved
// problems out of the whole set.
type ProgressBar struct {
	Label string
	Done  int
	Total int
	Width int
}

// NewProgressBar creates a bar for done out of total.
func NewProgressBar(label string, done, total int, width int) ProgressBar {
	return ProgressBar{Label: label, Done: done, Total: total, Width: width}
}

// Fraction is Done/Total clamped to [0, 1]. An empty total is zero.
func (p ProgressBar) Fraction() float64 {
	if p.Total <= 0 || p.Done <= 0 {
		return 0
	}
	if p.Done >= p.Total {
		return 1
	}
	return float64(p.Done) / float64(p.Total)
}

// View renders the label, the bar and a done/total count.
func (p ProgressBar) View() string {
	label := ""
	if p.Label != "" {
		label = theme.Body.Render(p.Label) + "  "
	}
	count := lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("  %d/%d", p.Done, p.Total))

	cells := max(p.Width-lipgloss.Width(label)-lipgloss.Width(count), 4)
	filled := int(float64(cells) * p.Fraction())

	return label +
		theme.ProgressFilled.Render(strings.Repeat("█", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat("░", cells-filled)) +
		count
}
