package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lyoubo/reextractor/internal/refactoring"
)

// kindsCmd lists the refactoring taxonomy.
var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List every refactoring kind that can be reported",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeKinds(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(kindsCmd)
}

func writeKinds(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tNAME")
	for _, k := range refactoring.Kinds() {
		fmt.Fprintf(tw, "%s\t%s\n", k, k.DisplayName())
	}
	return tw.Flush()
}
