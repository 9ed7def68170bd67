package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lyoubo/reextractor/internal/config"
	"github.com/lyoubo/reextractor/internal/detector"
	"github.com/lyoubo/reextractor/internal/matchdoc"
	"github.com/lyoubo/reextractor/internal/model"
	"github.com/lyoubo/reextractor/internal/refactoring"
	"github.com/lyoubo/reextractor/internal/runner"
	"github.com/lyoubo/reextractor/internal/storage"
)

var (
	batchDatabase string
	batchWorkers  int
	batchQuiet    bool
)

// batchCmd classifies every match document under a directory.
var batchCmd = &cobra.Command{
	Use:   "batch <directory>",
	Short: "Detect refactorings for every match document in a directory",
	Long: `Batch discovers match documents under a directory using the configured include
and ignore globs, classifies them concurrently with a per-commit timeout and stores
the results in a SQLite database.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("db") {
			cfg.Storage.Database = batchDatabase
		}
		if cmd.Flags().Changed("workers") {
			cfg.Detection.Workers = batchWorkers
			if err := config.Validate(cfg); err != nil {
				return err
			}
		}

		opts := batchOptions{
			dir:    args[0],
			cfg:    cfg,
			logger: newLogger(cmd.ErrOrStderr(), cfg.Log.Level, verbose),
			out:    cmd.OutOrStdout(),
			quiet:  batchQuiet,
		}
		_, err = runBatch(cmd.Context(), opts)
		return err
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchDatabase, "db", "", "results database (default from config, empty disables)")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "commits classified concurrently (default from config)")
	batchCmd.Flags().BoolVarP(&batchQuiet, "quiet", "q", false, "suppress progress output")
	rootCmd.AddCommand(batchCmd)
}

type batchOptions struct {
	dir    string
	cfg    *config.Config
	logger zerolog.Logger
	out    io.Writer
	quiet  bool
}

// batchResult reports what a batch did.
type batchResult struct {
	RunID   string
	Summary runner.Summary
	Counts  map[refactoring.Kind]int
}

func runBatch(ctx context.Context, opts batchOptions) (*batchResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := opts.cfg

	discovery, err := newDocumentDiscovery(opts.dir, cfg.Paths.Include, cfg.Paths.Ignore)
	if err != nil {
		return nil, err
	}
	docs, err := discovery.Discover()
	if err != nil {
		return nil, fmt.Errorf("failed to discover match documents: %w", err)
	}
	opts.logger.Info().Int("documents", len(docs)).Str("dir", opts.dir).Msg("Discovered match documents")

	return classifyDocuments(ctx, opts, docs)
}

// classifyDocuments runs one stored run over the given documents.
func classifyDocuments(ctx context.Context, opts batchOptions, docs []string) (*batchResult, error) {
	cfg := opts.cfg
	h := &batchHandler{
		logger:   opts.logger,
		progress: newBatchProgress(opts.out, opts.quiet),
		counts:   make(map[refactoring.Kind]int),
	}
	result := &batchResult{}
	if cfg.Storage.Database != "" {
		store, runID, err := openRun(cfg.Storage.Database, opts.dir)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		h.store, h.runID = store, runID
		result.RunID = runID
	}

	r, err := runner.New(
		detector.New(detector.WithLogger(opts.logger)),
		runner.WithWorkers(cfg.Detection.Workers),
		runner.WithTimeout(cfg.Detection.Timeout()),
		runner.WithCacheCapacity(cfg.Detection.CacheCapacity),
		runner.WithLogger(opts.logger),
	)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	jobs := make([]runner.Job, 0, len(docs))
	for _, path := range docs {
		path := path
		jobs = append(jobs, runner.Job{
			Name: relativeName(opts.dir, path),
			Load: func(context.Context) (*model.MatchPair, error) {
				return matchdoc.Load(path)
			},
		})
	}

	h.progress.OnStart(len(jobs))
	summary, runErr := r.Run(ctx, jobs, h)
	h.progress.OnComplete(summary)
	result.Summary = summary
	result.Counts = h.counts

	if h.store != nil {
		if err := h.store.FinishRun(h.runID); err != nil {
			return result, err
		}
		counts, err := h.store.KindCounts(h.runID)
		if err != nil {
			return result, err
		}
		result.Counts = counts
		opts.logger.Info().Str("run", h.runID).Str("database", cfg.Storage.Database).Msg("Results stored")
	}
	if runErr != nil {
		return result, runErr
	}
	if !opts.quiet {
		writeCounts(opts.out, result.Counts)
	}
	return result, nil
}

func openRun(path, source string) (*storage.Store, string, error) {
	if dir := filepath.Dir(path); dir != "." && path != ":memory:" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, "", fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	store, err := storage.Open(path)
	if err != nil {
		return nil, "", err
	}
	runID, err := store.BeginRun(source)
	if err != nil {
		store.Close()
		return nil, "", err
	}
	return store, runID, nil
}

func relativeName(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

// batchHandler persists outcomes and advances the progress bar. The runner
// serializes calls, so no locking is needed here.
type batchHandler struct {
	store    *storage.Store
	runID    string
	logger   zerolog.Logger
	progress *batchProgress
	counts   map[refactoring.Kind]int
}

func (h *batchHandler) HandleCommit(commitID string, refs []refactoring.Refactoring) {
	defer h.progress.OnCommit()
	for _, r := range refs {
		h.counts[r.Kind]++
	}
	if h.store == nil {
		return
	}
	if err := h.store.SaveRefactorings(h.runID, commitID, refs); err != nil {
		h.logger.Error().Err(err).Str("commit", commitID).Msg("Failed to store refactorings")
	}
}

func (h *batchHandler) HandleFailure(commitID string, cause error) {
	defer h.progress.OnCommit()
	if h.store == nil {
		return
	}
	if err := h.store.SaveFailure(h.runID, commitID, cause); err != nil {
		h.logger.Error().Err(err).Str("commit", commitID).Msg("Failed to store failure")
	}
}

func (h *batchHandler) HandleTimeout(commitID string) {
	defer h.progress.OnCommit()
	if h.store == nil {
		return
	}
	if err := h.store.SaveTimeout(h.runID, commitID); err != nil {
		h.logger.Error().Err(err).Str("commit", commitID).Msg("Failed to store timeout")
	}
}

// writeCounts prints the per-kind totals, most frequent first.
func writeCounts(w io.Writer, counts map[refactoring.Kind]int) {
	kinds := make([]refactoring.Kind, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool {
		if counts[kinds[i]] != counts[kinds[j]] {
			return counts[kinds[i]] > counts[kinds[j]]
		}
		return kinds[i] < kinds[j]
	})
	for _, k := range kinds {
		fmt.Fprintf(w, "  %-40s %s\n", k.DisplayName(), formatNumber(counts[k]))
	}
}
