package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/lyoubo/reextractor/internal/detector"
	"github.com/lyoubo/reextractor/internal/matchdoc"
	"github.com/lyoubo/reextractor/internal/refactoring"
	"github.com/lyoubo/reextractor/internal/runner"
)

const (
	formatText = "text"
	formatJSON = "json"
)

var (
	detectFormat  string
	detectTimeout int
)

// detectCmd classifies a single match document.
var detectCmd = &cobra.Command{
	Use:   "detect <match-document>",
	Short: "Detect the refactorings of one commit",
	Long: `Detect reads one match document (YAML or JSON) and prints the refactorings
it contains, one description per line or as a JSON report.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		timeout := cfg.Detection.Timeout()
		if cmd.Flags().Changed("timeout") {
			timeout = time.Duration(detectTimeout) * time.Second
		}
		logger := newLogger(cmd.ErrOrStderr(), cfg.Log.Level, verbose)

		mp, err := matchdoc.Load(args[0])
		if err != nil {
			return err
		}
		d := detector.New(detector.WithLogger(logger))
		refs, err := runner.DetectWithTimeout(cmd.Context(), d, mp, timeout)
		if err != nil {
			return fmt.Errorf("commit %s: %w", mp.CommitID, err)
		}
		return writeRefactorings(cmd.OutOrStdout(), detectFormat, mp.CommitID, refs)
	},
}

func init() {
	detectCmd.Flags().StringVarP(&detectFormat, "format", "f", formatText, "output format: text or json")
	detectCmd.Flags().IntVar(&detectTimeout, "timeout", 0, "per-commit timeout in seconds (0 disables, default from config)")
	rootCmd.AddCommand(detectCmd)
}

// report mirrors the JSON layout consumed by refactoring benchmarks.
type report struct {
	Commits []commitReport `json:"commits"`
}

type commitReport struct {
	SHA1         string                    `json:"sha1"`
	Refactorings []refactoring.Refactoring `json:"refactorings"`
}

// writeRefactorings renders one commit's facts in the requested format.
func writeRefactorings(w io.Writer, format, commitID string, refs []refactoring.Refactoring) error {
	switch format {
	case formatText:
		for _, r := range refs {
			if _, err := fmt.Fprintln(w, r.Description); err != nil {
				return err
			}
		}
		return nil
	case formatJSON:
		if refs == nil {
			refs = []refactoring.Refactoring{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report{Commits: []commitReport{{SHA1: commitID, Refactorings: refs}}})
	default:
		return fmt.Errorf("unknown output format %q (valid: text, json)", format)
	}
}
