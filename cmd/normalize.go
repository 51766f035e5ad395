package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathgrade/internal/grading"
)

func newNormalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <expr>",
		Short: "Show how an answer is read and what it evaluates to",
		Example: `  mathgrade normalize '\binom{5}{2}'
  mathgrade normalize '\frac{\sqrt{2}}{2}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			norm := grading.Normalize(args[0])
			v := grading.Evaluate(norm)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "normalized: %s\n", norm)
			fmt.Fprintf(out, "kind:       %s\n", v.Kind)
			fmt.Fprintf(out, "value:      %s\n", v)
			return nil
		},
	}
}
