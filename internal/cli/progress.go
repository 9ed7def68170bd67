package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/lyoubo/reextractor/internal/runner"
)

// batchProgress renders a progress bar over classified commits.
type batchProgress struct {
	quiet bool
	out   io.Writer
	bar   *progressbar.ProgressBar
	start time.Time
}

func newBatchProgress(out io.Writer, quiet bool) *batchProgress {
	return &batchProgress{quiet: quiet, out: out, start: time.Now()}
}

func (p *batchProgress) OnStart(totalCommits int) {
	if p.quiet {
		return
	}
	p.bar = progressbar.NewOptions(totalCommits,
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionSetDescription("Classifying commits"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("commits/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(p.out)
		}),
	)
}

func (p *batchProgress) OnCommit() {
	if p.quiet || p.bar == nil {
		return
	}
	p.bar.Add(1)
}

func (p *batchProgress) OnComplete(summary runner.Summary) {
	if p.quiet {
		return
	}
	if p.bar != nil {
		p.bar.Finish()
		p.bar = nil
	}
	fmt.Fprintf(p.out, "✓ Classified %s commits in %.1fs: %s refactorings\n",
		formatNumber(summary.Commits), time.Since(p.start).Seconds(), formatNumber(summary.Refactorings))
	if summary.Failures > 0 || summary.Timeouts > 0 {
		fmt.Fprintf(p.out, "  Failures: %s\n", formatNumber(summary.Failures))
		fmt.Fprintf(p.out, "  Timeouts: %s\n", formatNumber(summary.Timeouts))
	}
}

func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	str := fmt.Sprintf("%d", n)
	var result string
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result += ","
		}
		result += string(c)
	}
	return result
}
