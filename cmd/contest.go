package cmd

import (
	"fmt"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/abhisek/mathgrade/internal/contest"
	"github.com/abhisek/mathgrade/internal/problemset"
	"github.com/abhisek/mathgrade/internal/ui/theme"
)

func newContestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contest",
		Short: "Run a timed virtual contest over a problem set",
	}
	cmd.AddCommand(newContestStartCmd())
	cmd.AddCommand(newContestSubmitCmd())
	cmd.AddCommand(newContestStatusCmd())
	cmd.AddCommand(newContestFinishCmd())
	cmd.AddCommand(newContestListCmd())
	return cmd
}

// withContest runs fn with a contest service over the --problems set.
func withContest(cmd *cobra.Command, fn func(*env, *contest.Service, *problemset.Set) error) error {
	set, err := loadProblemSet(cmd)
	if err != nil {
		return err
	}
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()
	return fn(e, contest.NewService(set, e.store, e.submissions, e.logger), set)
}

func newContestStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a contest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContest(cmd, func(e *env, svc *contest.Service, set *problemset.Set) error {
				d := e.cfg.ContestDuration
				if cmd.Flags().Changed("duration") {
					d, _ = cmd.Flags().GetDuration("duration")
				}
				c, err := svc.Start(cmd.Context(), d)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "contest %s started on %q (%d problems)\n", c.ID, set.Name, len(set.Problems))
				fmt.Fprintf(out, "ends at %s\n", c.EndsAt.Local().Format(time.Kitchen))
				return nil
			})
		},
	}
	cmd.Flags().DurationP("duration", "d", 0, "Contest length (overrides MATHGRADE_CONTEST_DURATION)")
	return cmd
}

func newContestSubmitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "submit <contest-id> <problem-id> answer...",
		Short: "Submit answers to a contest problem",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContest(cmd, func(e *env, svc *contest.Service, _ *problemset.Set) error {
				res, err := svc.Submit(cmd.Context(), args[0], args[1], args[2:])
				if res.Verdict.Reason == "" {
					// Rejected before grading.
					return err
				}
				if res.Correct {
					lipgloss.Fprintln(cmd.OutOrStdout(), theme.Correct.Render("correct"))
				} else {
					lipgloss.Fprintln(cmd.OutOrStdout(), theme.Incorrect.Render("incorrect"))
				}
				return err
			})
		},
	}
}

func newContestStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <contest-id>",
		Short: "Show contest standings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContest(cmd, func(e *env, svc *contest.Service, _ *problemset.Set) error {
				st, err := svc.Standings(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()

				state := fmt.Sprintf("%s left", time.Until(st.Contest.EndsAt).Truncate(time.Second))
				if st.Over {
					state = "over"
				}
				fmt.Fprintf(out, "contest %s: %s, %d solved, %d points\n", st.Contest.ID, state, st.Solved, st.Points)

				t := table.New().
					Border(lipgloss.NormalBorder()).
					Headers("PROBLEM", "ATTEMPTS", "SOLVED", "AFTER", "POINTS")
				for _, p := range st.Problems {
					solved, after := "", ""
					if p.Solved {
						solved = "✓"
						after = p.SolvedAfter.Truncate(time.Second).String()
					}
					t.Row(p.ProblemID, fmt.Sprint(p.Attempts), solved, after, fmt.Sprint(p.Points))
				}
				lipgloss.Fprintln(out, t.String())
				return nil
			})
		},
	}
}

func newContestFinishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "finish <contest-id>",
		Short: "End a contest early",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContest(cmd, func(e *env, svc *contest.Service, _ *problemset.Set) error {
				if err := svc.Finish(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "contest %s finished\n", args[0])
				return nil
			})
		},
	}
}

func newContestListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent contests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			limit, _ := cmd.Flags().GetInt("limit")
			contests, err := e.store.Contests().List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(contests) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No contests.")
				return nil
			}

			now := time.Now()
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("ID", "SET", "STARTED", "ENDS", "STATE")
			for _, c := range contests {
				state := "running"
				if c.Over(now) {
					state = "over"
				}
				t.Row(c.ID, c.ProblemSet,
					c.StartedAt.Local().Format("2006-01-02 15:04"),
					c.EndsAt.Local().Format("2006-01-02 15:04"),
					state)
			}
			lipgloss.Fprintln(cmd.OutOrStdout(), t.String())
			return nil
		},
	}
	cmd.Flags().IntP("limit", "n", 20, "Maximum contests to show")
	return cmd
}
