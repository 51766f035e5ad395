package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathgrade/internal/problemset"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "mathgrade %s (problem set format %s)\n", version, problemset.FormatMajor)
	},
}
