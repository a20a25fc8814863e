// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"io"

	"github.com/pdiddy/refcheck/pkg/types"
)

// LineSink streams one line per result as soon as it is ready, plus a
// start line, so long runs show progress.
type LineSink struct {
	w     io.Writer
	color bool
	total int
}

// NewLineSink creates a LineSink writing to w.
func NewLineSink(w io.Writer, color bool) *LineSink {
	return &LineSink{w: w, color: color}
}

// RunStarted announces the run.
func (s *LineSink) RunStarted(_ string, total int) {
	s.total = total
	fmt.Fprintf(s.w, "checking %d reference(s)...\n", total)
}

// Result writes the status and message of one reference.
func (s *LineSink) Result(index int, r types.Result) {
	fmt.Fprintf(s.w, "[%d/%d] %-10s %s\n", index+1, s.total, colorize(r.Verdict.Status, s.color), r.Reference)
	fmt.Fprintf(s.w, "       %s\n", r.Verdict.Message)
}

// RunFinished is a no-op; the summary is written by Write.
func (s *LineSink) RunFinished(types.RunSummary) {}

// ProgressSink writes a compact counter while the run is busy, for table
// and document formats whose output appears only at the end.
type ProgressSink struct {
	w     io.Writer
	total int
}

// NewProgressSink creates a ProgressSink writing to w (usually stderr).
func NewProgressSink(w io.Writer) *ProgressSink {
	return &ProgressSink{w: w}
}

// RunStarted records the total.
func (s *ProgressSink) RunStarted(_ string, total int) {
	s.total = total
}

// Result writes "checked i/n".
func (s *ProgressSink) Result(index int, _ types.Result) {
	fmt.Fprintf(s.w, "\rchecked %d/%d", index+1, s.total)
}

// RunFinished ends the progress line.
func (s *ProgressSink) RunFinished(types.RunSummary) {
	if s.total > 0 {
		fmt.Fprintln(s.w)
	}
}
