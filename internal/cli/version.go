package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lyoubo/reextractor/internal/refactoring"
)

var (
	// Version information - typically set via ldflags at build time
	Version   = "dev"
	GitCommit = "none"
	BuildDate = "unknown"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of Reextractor",
	Long: `Version prints the build of reextractor together with the size of the
refactoring taxonomy it reports, so results from different builds can be told apart.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Reextractor %s\n", Version)
		fmt.Fprintf(out, "Git commit: %s\n", GitCommit)
		fmt.Fprintf(out, "Build date: %s\n", BuildDate)
		fmt.Fprintf(out, "Refactoring kinds: %d\n", len(refactoring.Kinds()))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
