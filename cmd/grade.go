package cmd

import (
	"errors"
	"fmt"
	"io"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/abhisek/mathgrade/internal/grading"
	"github.com/abhisek/mathgrade/internal/ui/theme"
)

// ErrIncorrect is returned by `grade` for a wrong answer so the process
// exits non-zero. The verdict has already been printed.
var ErrIncorrect = errors.New("incorrect")

func newGradeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grade [flags] answer...",
		Short: "Grade answers against canonical solutions",
		Long: `Grade one submission. Each positional argument is one answer slot.

Without --multi the single answer must equal any of the --canonical
alternatives. With --multi the answers must equal the canonical answers as a
multiset, in any order.`,
		Example: `  mathgrade grade --canonical '\frac{1}{2}' 0.5
  mathgrade grade --multi --canonical 1 --canonical -1 -- -1 1`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			canonical, _ := cmd.Flags().GetStringArray("canonical")
			multi, _ := cmd.Flags().GetBool("multi")
			explain, _ := cmd.Flags().GetBool("explain")
			if len(canonical) == 0 {
				return errors.New("at least one --canonical answer is required")
			}

			v := grading.Grade(args, canonical, grading.Policy{RequiresMultipleAnswers: multi})
			printVerdict(cmd.OutOrStdout(), v, explain)
			if !v.Correct {
				return ErrIncorrect
			}
			return nil
		},
	}
	cmd.Flags().StringArrayP("canonical", "c", nil, "Accepted answer (repeatable)")
	cmd.Flags().BoolP("multi", "m", false, "Require all canonical answers, in any order")
	cmd.Flags().BoolP("explain", "e", false, "Show how each answer was read")
	return cmd
}

func printVerdict(w io.Writer, v grading.Verdict, explain bool) {
	if v.Correct {
		lipgloss.Fprintln(w, theme.Correct.Render("correct"))
	} else {
		lipgloss.Fprintln(w, theme.Incorrect.Render("incorrect"))
	}
	if !explain {
		return
	}

	fmt.Fprintf(w, "reason: %s\n", v.Reason)
	if len(v.Slots) == 0 {
		return
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "ANSWER", "NORMALIZED", "VALUE", "MATCH")
	for i, s := range v.Slots {
		match := ""
		if s.Matched {
			match = "✓"
		}
		t.Row(fmt.Sprint(i+1), s.Raw, s.Normalized, s.Value.String(), match)
	}
	lipgloss.Fprintln(w, t.String())
}
