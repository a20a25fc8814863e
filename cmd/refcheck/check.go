// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/refcheck/internal/history"
	"github.com/pdiddy/refcheck/internal/lookup"
	"github.com/pdiddy/refcheck/internal/parse"
	"github.com/pdiddy/refcheck/internal/report"
	"github.com/pdiddy/refcheck/internal/verify"
	"github.com/pdiddy/refcheck/pkg/types"
)

// lockFile guards the data directory against overlapping runs.
const lockFile = "refcheck.lock"

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Verify a list of references",
	Long: `Check reads one reference per line from a file, or from stdin when no
file (or "-") is given. Blank lines and lines starting with # are skipped.

Each reference has the form "Author, Title[, Identifier]" where the
identifier is a DOI (10.xxxx/...) or an ISBN-10/13. References are checked
one at a time with a short pause between them. Press Ctrl-C to stop; the
unchecked references are reported as errors.

The exit status is non-zero only for setup failures, or when --fail-on
names a status that some reference received.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringP("format", "f", string(report.FormatTable), "output format: table, lines, json, or yaml")
	checkCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 30s)")
	checkCmd.Flags().Duration("delay", 0, "pause between consecutive references (default 500ms)")
	checkCmd.Flags().Int("retries", 0, "retries on HTTP 429 responses")
	checkCmd.Flags().String("mailto", "", "contact address sent to CrossRef")
	checkCmd.Flags().String("data-dir", types.DefaultDataDir, "directory holding history and the run lock")
	checkCmd.Flags().Bool("no-history", false, "do not record this run in history")
	checkCmd.Flags().StringSlice("fail-on", nil, "exit non-zero if any reference has one of these statuses")
	checkCmd.Flags().Int("from-history", 0, "check the references of history entry N (1 is the most recent)")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	formatFlag, _ := cmd.Flags().GetString("format")
	format, err := report.ParseFormat(formatFlag)
	if err != nil {
		return err
	}
	failOnFlag, _ := cmd.Flags().GetStringSlice("fail-on")
	failOn, err := parseFailOn(failOnFlag)
	if err != nil {
		return err
	}

	cfg, err := loadCheckConfig(viper.GetViper(), cmd.Flags())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	unlock, err := lockDataDir(cfg.DataDir)
	if err != nil {
		return err
	}
	defer unlock()

	var store *history.SQLiteStore
	if cfg.History.Enabled {
		store, err = history.OpenSQLite(cfg.DataDir, cfg.History.Limit)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	lines, err := checkInput(ctx, cmd, args, store)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	color := report.IsTerminal(out)
	logger := slog.Default()

	crossref := lookup.NewCrossRef(cfg.Lookup)
	books := lookup.NewGoogleBooks(cfg.Lookup)
	orch := verify.NewOrchestrator(verify.Resolvers{
		DOI:       crossref,
		ISBN:      books,
		Scholarly: crossref,
		Catalog:   books,
	}, logger)

	opts := []verify.RunnerOption{
		verify.WithDelay(cfg.Batch.Delay),
		verify.WithLogger(logger),
	}
	switch {
	case format == report.FormatLines:
		opts = append(opts, verify.WithSink(report.NewLineSink(out, color)))
	case report.IsTerminal(cmd.ErrOrStderr()):
		opts = append(opts, verify.WithSink(report.NewProgressSink(cmd.ErrOrStderr())))
	}
	if store != nil {
		opts = append(opts, verify.WithHistory(store))
	}

	summary, runErr := verify.NewRunner(orch, opts...).Run(ctx, lines)
	if err := report.Write(out, format, summary, color); err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}
	return failOnHits(summary, failOn)
}

// checkInput returns the reference lines to check: a history entry, a
// file, or stdin.
func checkInput(ctx context.Context, cmd *cobra.Command, args []string, store *history.SQLiteStore) ([]string, error) {
	n, _ := cmd.Flags().GetInt("from-history")
	if n > 0 {
		if len(args) > 0 {
			return nil, fmt.Errorf("--from-history cannot be combined with an input file")
		}
		if store == nil {
			return nil, fmt.Errorf("--from-history requires history to be enabled")
		}
		entries, err := store.Load(ctx)
		if err != nil {
			return nil, err
		}
		return historyEntry(entries, n)
	}
	return readLines(cmd.InOrStdin(), args)
}

// readLines reads the file named in args, or r when args is empty or "-".
func readLines(r io.Reader, args []string) ([]string, error) {
	if len(args) > 0 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return nil, fmt.Errorf("reading references: %w", err)
		}
		return parse.Lines(string(data)), nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading references from stdin: %w", err)
	}
	return parse.Lines(string(data)), nil
}

// historyEntry returns the references of the n-th entry, counting from 1.
func historyEntry(entries []types.HistoryEntry, n int) ([]string, error) {
	if n < 1 || n > len(entries) {
		return nil, fmt.Errorf("history entry %d does not exist (%d stored)", n, len(entries))
	}
	return entries[n-1].References, nil
}

// lockDataDir takes the run lock in dir and returns its release function.
func lockDataDir(dir string) (func(), error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	lock := flock.New(filepath.Join(dir, lockFile))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("locking %s: %w", dir, err)
	}
	if !locked {
		return nil, fmt.Errorf("another refcheck run is using %s", dir)
	}
	return func() { _ = lock.Unlock() }, nil
}

// parseFailOn validates --fail-on statuses.
func parseFailOn(values []string) ([]types.Status, error) {
	var out []types.Status
	for _, v := range values {
		s := types.Status(strings.ToLower(strings.TrimSpace(v)))
		if s == "" {
			continue
		}
		if !s.Valid() {
			return nil, fmt.Errorf("unknown status %q for --fail-on", v)
		}
		out = append(out, s)
	}
	return out, nil
}

// failOnHits returns an error when any reference received a status in failOn.
func failOnHits(summary types.RunSummary, failOn []types.Status) error {
	var hits []string
	for _, s := range failOn {
		if n := summary.Count(s); n > 0 {
			hits = append(hits, fmt.Sprintf("%d %s", n, s))
		}
	}
	if len(hits) > 0 {
		return fmt.Errorf("references failed check: %s", strings.Join(hits, ", "))
	}
	return nil
}
