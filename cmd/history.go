package cmd

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/abhisek/mathgrade/internal/store"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded submissions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			problemID, _ := cmd.Flags().GetString("problem")
			contestID, _ := cmd.Flags().GetString("contest")
			mode, _ := cmd.Flags().GetString("mode")

			switch store.Mode(mode) {
			case "", store.ModePractice, store.ModeContest:
			default:
				return fmt.Errorf("invalid mode %q: must be practice or contest", mode)
			}

			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			subs, err := e.submissions.History(cmd.Context(), store.QueryOpts{
				Limit:     limit,
				ProblemID: problemID,
				ContestID: contestID,
				Mode:      store.Mode(mode),
			})
			if err != nil {
				return err
			}
			if len(subs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No submissions.")
				return nil
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("SEQ", "WHEN", "SET", "PROBLEM", "MODE", "ANSWER", "RESULT", "REASON", "TIME")
			for _, s := range subs {
				result := "✗"
				if s.Correct {
					result = "✓"
				}
				t.Row(
					fmt.Sprint(s.Sequence),
					s.Timestamp.Local().Format("2006-01-02 15:04:05"),
					s.ProblemSet,
					s.ProblemID,
					string(s.Mode),
					s.RawAnswer,
					result,
					s.Reason,
					formatMs(s.TimeMs),
				)
			}
			lipgloss.Fprintln(cmd.OutOrStdout(), t.String())
			return nil
		},
	}
	cmd.Flags().IntP("limit", "n", 20, "Maximum submissions to show (0 = all)")
	cmd.Flags().String("problem", "", "Only show this problem id")
	cmd.Flags().String("contest", "", "Only show this contest id")
	cmd.Flags().String("mode", "", "Only show practice or contest submissions")
	return cmd
}

func formatMs(ms int64) string {
	secs := ms / 1000
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
