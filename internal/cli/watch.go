package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lyoubo/reextractor/internal/watcher"
)

var watchDebounce time.Duration

// watchCmd classifies match documents as they are written.
var watchCmd = &cobra.Command{
	Use:   "watch <directory>",
	Short: "Classify match documents as they appear in a directory",
	Long: `Watch runs a batch over every match document under a directory, then keeps
watching it. Documents that are created or rewritten are classified again after a
short quiet period, each burst of changes becoming a new stored run.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		opts := batchOptions{
			dir:    args[0],
			cfg:    cfg,
			logger: newLogger(cmd.ErrOrStderr(), cfg.Log.Level, verbose),
			out:    cmd.OutOrStdout(),
			quiet:  true,
		}
		return runWatch(ctx, opts, watchDebounce)
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce, "quiet period before changed documents are classified")
	rootCmd.AddCommand(watchCmd)
}

// runWatch classifies the directory once, then reclassifies changed
// documents until ctx is cancelled.
func runWatch(ctx context.Context, opts batchOptions, debounce time.Duration) error {
	if ctx == nil {
		ctx = context.Background()
	}
	root, err := filepath.Abs(opts.dir)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", opts.dir, err)
	}
	opts.dir = root

	discovery, err := newDocumentDiscovery(root, opts.cfg.Paths.Include, opts.cfg.Paths.Ignore)
	if err != nil {
		return err
	}

	if _, err := runBatch(ctx, opts); err != nil {
		return err
	}

	w, err := watcher.New(root, discovery.Accepts,
		watcher.WithDebounce(debounce),
		watcher.WithLogger(opts.logger),
	)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", root, err)
	}
	defer w.Stop()

	err = w.Start(ctx, func(files []string) {
		// Changes arriving mid-run are held until the run finishes
		w.Pause()
		defer w.Resume()

		opts.logger.Info().Int("documents", len(files)).Msg("Match documents changed")
		result, err := classifyDocuments(ctx, opts, files)
		if err != nil {
			opts.logger.Error().Err(err).Msg("Failed to classify changed documents")
			return
		}
		fmt.Fprintf(opts.out, "Classified %s commits: %s refactorings (run %s)\n",
			formatNumber(result.Summary.Commits), formatNumber(result.Summary.Refactorings), result.RunID)
	})
	if err != nil {
		return err
	}
	opts.logger.Info().Str("dir", root).Msg("Watching for match documents")

	<-ctx.Done()
	opts.logger.Info().Msg("Watch stopped")
	return nil
}
