// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package verify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/refcheck/internal/history"
	"github.com/pdiddy/refcheck/internal/parse"
	"github.com/pdiddy/refcheck/pkg/types"
)

// Sink receives run progress. Result is called once per reference, in
// input order, as soon as its verdict is ready.
type Sink interface {
	RunStarted(runID string, total int)
	Result(index int, r types.Result)
	RunFinished(summary types.RunSummary)
}

// Runner resolves a batch of references one at a time, pausing between
// consecutive references to stay within the lookup services' rate limits.
type Runner struct {
	orch    *Orchestrator
	sink    Sink
	history history.Repository
	delay   time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithSink sets the progress sink.
func WithSink(s Sink) RunnerOption {
	return func(r *Runner) { r.sink = s }
}

// WithHistory records the cleaned references of every completed run.
func WithHistory(h history.Repository) RunnerOption {
	return func(r *Runner) { r.history = h }
}

// WithDelay sets the pause between consecutive references.
func WithDelay(d time.Duration) RunnerOption {
	return func(r *Runner) { r.delay = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRunner creates a batch runner over orch. The default delay is
// types.DefaultDelay.
func NewRunner(orch *Orchestrator, opts ...RunnerOption) *Runner {
	r := &Runner{
		orch:   orch,
		delay:  types.DefaultDelay,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run resolves each reference line in order and returns one result per
// non-blank, non-comment line. A failure on one reference never stops the
// run. If ctx is cancelled, the remaining lines receive an error verdict
// without any lookup and Run returns ctx.Err() alongside the summary;
// cancelled runs are not added to history.
func (r *Runner) Run(ctx context.Context, lines []string) (types.RunSummary, error) {
	refs := make([]string, 0, len(lines))
	for _, line := range lines {
		if !parse.Skip(line) {
			refs = append(refs, line)
		}
	}

	summary := types.RunSummary{
		RunID:     uuid.NewString(),
		StartedAt: r.now(),
		Results:   make([]types.Result, 0, len(refs)),
	}
	logger := r.logger.With("run_id", summary.RunID)
	logger.Info("check started", "references", len(refs))
	if r.sink != nil {
		r.sink.RunStarted(summary.RunID, len(refs))
	}

	for i, raw := range refs {
		if i > 0 && ctx.Err() == nil {
			r.pause(ctx)
		}

		res := types.Result{Reference: raw, Cleaned: parse.Clean(raw)}
		res.Parsed = parse.Parse(res.Cleaned)
		if err := ctx.Err(); err != nil {
			res.Verdict = types.Verdict{
				Status:  types.StatusError,
				Message: fmt.Sprintf("check cancelled: %v", err),
			}
		} else {
			res.Verdict = r.orch.Resolve(ctx, res.Parsed)
		}

		logger.Debug("reference resolved", "index", i, "status", res.Verdict.Status)
		summary.Add(res)
		if r.sink != nil {
			r.sink.Result(i, res)
		}
	}

	summary.FinishedAt = r.now()
	logger.Info("check finished",
		"verified", summary.Verified, "potential", summary.Potential,
		"errors", summary.Errors, "unverified", summary.Unverified,
		"elapsed", summary.FinishedAt.Sub(summary.StartedAt))
	if r.sink != nil {
		r.sink.RunFinished(summary)
	}

	if err := ctx.Err(); err != nil {
		return summary, err
	}

	if r.history != nil && len(refs) > 0 {
		entry := types.HistoryEntry{
			RunID:      summary.RunID,
			References: summary.Cleaned(),
			CreatedAt:  summary.FinishedAt,
		}
		if err := r.history.Append(ctx, entry); err != nil {
			logger.Warn("recording history failed", "error", err)
			return summary, fmt.Errorf("recording history: %w", err)
		}
	}
	return summary, nil
}

// pause waits for the configured delay or until ctx is done.
func (r *Runner) pause(ctx context.Context) {
	if r.delay <= 0 {
		return
	}
	t := time.NewTimer(r.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
