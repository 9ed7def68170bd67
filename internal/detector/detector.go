// Package detector classifies the structural differences of one commit into
// refactoring facts.
//
// A Detector is stateless between calls and safe for concurrent use. Each
// call builds its own lookup index and type hierarchy over the input, runs a
// fixed sequence of read-only passes and returns the accumulated facts.
package detector

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/lyoubo/reextractor/internal/model"
	"github.com/lyoubo/reextractor/internal/refactoring"
)

// Option configures a Detector.
type Option func(*Detector)

// WithLogger sets the logger used for debug traces. The default discards
// everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(d *Detector) {
		d.logger = logger
	}
}

// Detector runs the classification passes over a MatchPair.
type Detector struct {
	logger zerolog.Logger
}

// New creates a Detector.
func New(opts ...Option) *Detector {
	d := &Detector{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// pass is one step of the fixed detection sequence.
type pass struct {
	name string
	fn   func(r *run, ctx context.Context) error
}

// passes lists the detection steps in the order they run.
var passes = []pass{
	{"entities", (*run).entityPass},
	{"extractions", (*run).extractionPass},
	{"inlinings", (*run).inliningPass},
	{"matched statements", (*run).matchedStatementPass},
	{"added statements", (*run).addedStatementPass},
	{"deleted statements", (*run).deletedStatementPass},
	{"added against deleted statements", (*run).unmatchedStatementPass},
}

// Detect returns the refactorings found in mp. Calling it twice on the same
// input yields the same ordered list.
func (d *Detector) Detect(mp *model.MatchPair) []refactoring.Refactoring {
	refs, _ := d.DetectContext(context.Background(), mp)
	return refs
}

// DetectContext is Detect with cancellation. Cancellation is checked between
// passes and between items; a cancelled call returns the context error and
// no facts.
func (d *Detector) DetectContext(ctx context.Context, mp *model.MatchPair) ([]refactoring.Refactoring, error) {
	if mp == nil {
		return nil, nil
	}

	r := newRun(mp, d.logger.With().Str("commit", mp.CommitID).Logger())
	for _, p := range passes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		before := len(r.out)
		if err := p.fn(r, ctx); err != nil {
			return nil, err
		}
		r.log.Debug().
			Str("pass", p.name).
			Int("facts", len(r.out)-before).
			Msg("Detection pass complete")
	}
	return r.out, nil
}
