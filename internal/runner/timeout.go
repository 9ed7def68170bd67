package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lyoubo/reextractor/internal/detector"
	"github.com/lyoubo/reextractor/internal/model"
	"github.com/lyoubo/reextractor/internal/refactoring"
)

var (
	// ErrTimeout is returned when classification of one commit exceeds its
	// time budget.
	ErrTimeout = errors.New("detection timed out")

	// ErrPanic wraps a panic raised while classifying one commit.
	ErrPanic = errors.New("detection panicked")
)

type outcome struct {
	refs []refactoring.Refactoring
	err  error
}

// DetectWithTimeout runs d on its own goroutine and waits at most timeout
// for it. On expiry the detection context is cancelled and ErrTimeout is
// returned with no refactorings. A non-positive timeout waits indefinitely.
// Panics inside the detector are returned as errors wrapping ErrPanic.
func DetectWithTimeout(ctx context.Context, d *detector.Detector, mp *model.MatchPair, timeout time.Duration) ([]refactoring.Refactoring, error) {
	return withTimeout(ctx, timeout, func(ctx context.Context) ([]refactoring.Refactoring, error) {
		return d.DetectContext(ctx, mp)
	})
}

type detectFunc func(ctx context.Context) ([]refactoring.Refactoring, error)

func withTimeout(ctx context.Context, timeout time.Duration, detect detectFunc) ([]refactoring.Refactoring, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- outcome{err: fmt.Errorf("%w: %v", ErrPanic, p)}
			}
		}()
		refs, err := detect(ctx)
		done <- outcome{refs: refs, err: err}
	}()

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case out := <-done:
		if out.err != nil {
			return nil, out.err
		}
		return out.refs, nil
	case <-expired:
		return nil, fmt.Errorf("after %s: %w", timeout, ErrTimeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
