package practice

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathgrade/internal/ui/theme"
)

func (s *PracticeScreen) View(width, height int) string {
	cw := width - 8
	if cw > 90 {
		cw = 90
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Title.Render(fmt.Sprintf("Problem %d of %d", s.index+1, len(s.set.Problems))))
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("   %s", pointsLabel(s.problem.Points))))
	b.WriteString("\n\n")

	statement := s.problem.Statement
	if statement == "" {
		statement = s.problem.Title
	}
	b.WriteString(theme.Statement.Width(cw).Render(statement))
	b.WriteString("\n\n")

	if s.problem.RequiresMultipleAnswers {
		b.WriteString(theme.Hint.Render("Enter every answer, one per slot."))
		b.WriteString("\n")
	}
	b.WriteString(s.slots.View())

	if s.phase == phaseFeedback {
		b.WriteString("\n")
		b.WriteString(s.renderFeedback())
	}

	return lipgloss.NewStyle().
		Width(width).
		PaddingLeft(4).
		Render(b.String())
}

func (s *PracticeScreen) renderFeedback() string {
	var verdict string
	if s.correct {
		verdict = theme.Correct.Render("✓ Correct")
	} else {
		verdict = theme.Incorrect.Render("✗ Incorrect")
	}
	line := verdict + theme.Subtitle.Render(fmt.Sprintf("   attempt %d", s.attempts))
	if s.errMsg != "" {
		line += "\n" + lipgloss.NewStyle().Foreground(theme.Error).
			Render("Could not save this attempt: "+s.errMsg)
	}
	return line
}

func pointsLabel(points int) string {
	if points == 1 {
		return "1 point"
	}
	return fmt.Sprintf("%d points", points)
}
