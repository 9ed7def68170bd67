package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/lyoubo/reextractor/internal/refactoring"
	"github.com/lyoubo/reextractor/internal/storage"
)

var (
	showDatabase string
	showFormat   string
)

// showCmd prints a stored run.
var showCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Print the refactorings stored for a batch run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path := cfg.Storage.Database
		if cmd.Flags().Changed("db") {
			path = showDatabase
		}
		if path == "" {
			return fmt.Errorf("no results database configured")
		}

		store, err := storage.Open(path)
		if err != nil {
			return err
		}
		defer store.Close()
		return showRun(cmd.OutOrStdout(), store, args[0], showFormat)
	},
}

func init() {
	showCmd.Flags().StringVar(&showDatabase, "db", "", "results database (default from config)")
	showCmd.Flags().StringVarP(&showFormat, "format", "f", formatText, "output format: text or json")
	rootCmd.AddCommand(showCmd)
}

// runReport is the JSON form of a stored run.
type runReport struct {
	Run      string            `json:"run"`
	Source   string            `json:"source"`
	Commits  []commitReport    `json:"commits"`
	Failures []storage.Failure `json:"failures,omitempty"`
	Timeouts []string          `json:"timeouts,omitempty"`
}

func showRun(w io.Writer, store *storage.Store, runID, format string) error {
	if format != formatText && format != formatJSON {
		return fmt.Errorf("unknown output format %q (valid: text, json)", format)
	}

	run, err := store.GetRun(runID)
	if err != nil {
		return err
	}
	commits, err := store.Commits(runID)
	if err != nil {
		return err
	}
	rep := runReport{Run: run.ID, Source: run.Source, Commits: make([]commitReport, 0, len(commits))}
	for _, c := range commits {
		refs, err := store.Refactorings(runID, c)
		if err != nil {
			return err
		}
		if refs == nil {
			refs = []refactoring.Refactoring{}
		}
		rep.Commits = append(rep.Commits, commitReport{SHA1: c, Refactorings: refs})
	}
	if rep.Failures, err = store.Failures(runID); err != nil {
		return err
	}
	if rep.Timeouts, err = store.Timeouts(runID); err != nil {
		return err
	}

	if format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}

	fmt.Fprintf(w, "Run %s (%s)\n", rep.Run, rep.Source)
	for _, c := range rep.Commits {
		fmt.Fprintf(w, "%s\n", c.SHA1)
		for _, r := range c.Refactorings {
			fmt.Fprintf(w, "  %s\n", r.Description)
		}
	}
	for _, f := range rep.Failures {
		fmt.Fprintf(w, "failed: %s: %s\n", f.CommitID, f.Message)
	}
	for _, c := range rep.Timeouts {
		fmt.Fprintf(w, "timed out: %s\n", c)
	}
	return nil
}
