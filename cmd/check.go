package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathgrade/internal/problemset"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a problem set file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := problemset.Load(args[0])
			if err != nil {
				return err
			}
			multi := 0
			for _, p := range set.Problems {
				if p.RequiresMultipleAnswers {
					multi++
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%q, format %s, %d problems, %d multi-answer)\n",
				args[0], set.Name, set.Version, len(set.Problems), multi)
			return nil
		},
	}
}
