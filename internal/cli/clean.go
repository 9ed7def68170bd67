package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var cleanQuietFlag bool

// cleanCmd removes the results database.
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the stored detection results",
	Long: `Clean removes the SQLite results database named by storage.database,
together with its journal files. The configuration file is preserved.

Examples:
  # Remove the configured database
  reextractor clean

  # Remove with minimal output
  reextractor clean --quiet
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return cleanDatabase(cmd.OutOrStdout(), cfg.Storage.Database, cleanQuietFlag)
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().BoolVarP(&cleanQuietFlag, "quiet", "q", false, "Suppress output messages")
}

// cleanDatabase deletes path and its SQLite sidecar files.
func cleanDatabase(w io.Writer, path string, quiet bool) error {
	if path == "" || path == ":memory:" {
		if !quiet {
			fmt.Fprintln(w, "No results database configured")
		}
		return nil
	}

	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		if !quiet {
			fmt.Fprintf(w, "No results database at %s\n", path)
		}
		return nil
	}
	var sizeMB float64
	if err == nil {
		sizeMB = float64(fileInfo.Size()) / (1024 * 1024)
	}

	for _, p := range []string{path, path + "-wal", path + "-shm", path + "-journal"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", p, err)
		}
	}

	if !quiet {
		fmt.Fprintf(w, "✓ Removed %s (~%.1f MB)\n", path, sizeMB)
	}
	return nil
}
