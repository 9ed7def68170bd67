// Package runner drives detection over many commits: a bounded worker pool,
// a per-commit time budget, panic isolation and a result cache keyed by
// commit ID.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/maypok86/otter"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/lyoubo/reextractor/internal/detector"
	"github.com/lyoubo/reextractor/internal/model"
	"github.com/lyoubo/reextractor/internal/refactoring"
)

const (
	DefaultWorkers       = 4
	DefaultTimeout       = time.Minute
	DefaultCacheCapacity = 4096
)

// Job is one commit to classify. Load produces its match pair; Name
// identifies the job when loading fails before a commit ID is known.
type Job struct {
	Name string
	Load func(ctx context.Context) (*model.MatchPair, error)
}

// Handler receives per-commit outcomes. Calls are serialized by the Runner.
type Handler interface {
	HandleCommit(commitID string, refs []refactoring.Refactoring)
	HandleFailure(commitID string, err error)
	HandleTimeout(commitID string)
}

// Summary counts the outcomes of one Run.
type Summary struct {
	Commits      int
	Refactorings int
	Failures     int
	Timeouts     int
	Cached       int
}

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers sets the number of commits classified concurrently.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithTimeout sets the per-commit time budget. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.timeout = d
	}
}

// WithLogger sets the logger for per-commit outcomes.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// WithCacheCapacity bounds the number of memoised commits.
func WithCacheCapacity(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.capacity = n
		}
	}
}

// Runner classifies commits concurrently and memoises results per commit.
type Runner struct {
	classify func(ctx context.Context, mp *model.MatchPair) ([]refactoring.Refactoring, error)
	workers  int
	timeout  time.Duration
	capacity int
	logger   zerolog.Logger

	cache  otter.Cache[string, []refactoring.Refactoring]
	flight singleflight.Group
}

// New creates a Runner around d.
func New(d *detector.Detector, opts ...Option) (*Runner, error) {
	r := &Runner{
		classify: d.DetectContext,
		workers:  DefaultWorkers,
		timeout:  DefaultTimeout,
		capacity: DefaultCacheCapacity,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	cache, err := otter.MustBuilder[string, []refactoring.Refactoring](r.capacity).
		Cost(func(_ string, refs []refactoring.Refactoring) uint32 {
			return uint32(len(refs)) + 1
		}).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build result cache: %w", err)
	}
	r.cache = cache
	return r, nil
}

// Close releases the result cache.
func (r *Runner) Close() {
	r.cache.Close()
}

// Detect classifies one commit within the time budget. Results of earlier
// successful classifications of the same commit ID are returned from the
// cache; concurrent requests for one commit share a single classification.
func (r *Runner) Detect(ctx context.Context, mp *model.MatchPair) ([]refactoring.Refactoring, error) {
	refs, _, err := r.detect(ctx, mp)
	return refs, err
}

func (r *Runner) detect(ctx context.Context, mp *model.MatchPair) ([]refactoring.Refactoring, bool, error) {
	if mp == nil {
		return nil, false, nil
	}
	key := mp.CommitID
	if key == "" {
		refs, err := r.bounded(ctx, mp)
		return refs, false, err
	}
	if refs, ok := r.cache.Get(key); ok {
		return refs, true, nil
	}

	// Only a cache lookup counts as a hit; callers that joined an in-flight
	// classification share its result without one.
	hit := false
	v, err, _ := r.flight.Do(key, func() (any, error) {
		if refs, ok := r.cache.Get(key); ok {
			hit = true
			return refs, nil
		}
		refs, err := r.bounded(ctx, mp)
		if err != nil {
			return nil, err
		}
		r.cache.Set(key, refs)
		return refs, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.([]refactoring.Refactoring), hit, nil
}

func (r *Runner) bounded(ctx context.Context, mp *model.MatchPair) ([]refactoring.Refactoring, error) {
	return withTimeout(ctx, r.timeout, func(ctx context.Context) ([]refactoring.Refactoring, error) {
		return r.classify(ctx, mp)
	})
}

// Run classifies every job on the worker pool and reports each outcome to
// h. A failing or timed-out commit never aborts the batch; Run only returns
// an error when ctx is cancelled.
func (r *Runner) Run(ctx context.Context, jobs []Job, h Handler) (Summary, error) {
	var (
		summary Summary
		mu      sync.Mutex
	)
	record := func(fn func()) {
		mu.Lock()
		defer mu.Unlock()
		fn()
	}

	g := new(errgroup.Group)
	g.SetLimit(r.workers)
	for _, job := range jobs {
		job := job
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			r.runJob(ctx, job, h, record, &summary)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

func (r *Runner) runJob(ctx context.Context, job Job, h Handler, record func(func()), summary *Summary) {
	start := time.Now()
	mp, err := r.load(ctx, job)
	if err != nil {
		r.logger.Warn().Err(err).Str("job", job.Name).Msg("Failed to load commit")
		record(func() {
			summary.Failures++
			h.HandleFailure(job.Name, err)
		})
		return
	}

	commitID := mp.CommitID
	if commitID == "" {
		commitID = job.Name
	}
	log := r.logger.With().Str("commit", commitID).Logger()

	refs, cached, err := r.detect(ctx, mp)
	switch {
	case errors.Is(err, ErrTimeout):
		log.Warn().Dur("timeout", r.timeout).Msg("Commit classification timed out")
		record(func() {
			summary.Timeouts++
			h.HandleTimeout(commitID)
		})
	case err != nil:
		log.Error().Err(err).Msg("Commit classification failed")
		record(func() {
			summary.Failures++
			h.HandleFailure(commitID, err)
		})
	default:
		log.Info().
			Int("refactorings", len(refs)).
			Bool("cached", cached).
			Dur("elapsed", time.Since(start)).
			Msg("Commit classified")
		record(func() {
			summary.Commits++
			summary.Refactorings += len(refs)
			if cached {
				summary.Cached++
			}
			h.HandleCommit(commitID, refs)
		})
	}
}

// load runs job.Load, turning a panic into an error.
func (r *Runner) load(ctx context.Context, job Job) (mp *model.MatchPair, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, p)
		}
	}()
	if job.Load == nil {
		return nil, fmt.Errorf("job %q has no loader", job.Name)
	}
	mp, err = job.Load(ctx)
	if err != nil {
		return nil, err
	}
	if mp == nil {
		return &model.MatchPair{CommitID: job.Name}, nil
	}
	return mp, nil
}
