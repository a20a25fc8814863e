// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders verification runs for people and for tools:
// streaming progress lines, a summary table, and JSON or YAML documents.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/refcheck/pkg/types"
)

// Format selects how a finished run is written.
type Format string

const (
	FormatTable Format = "table"
	FormatLines Format = "lines"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatLines, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatTable, nil
	}
	return "", fmt.Errorf("unknown format %q: use table, lines, json, or yaml", s)
}

// IsTerminal reports whether w is a terminal, enabling colour output.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// statusColors maps each status to its terminal style.
var statusColors = map[types.Status]text.Colors{
	types.StatusVerified:   {text.FgGreen},
	types.StatusPotential:  {text.FgYellow},
	types.StatusError:      {text.FgRed},
	types.StatusUnverified: {text.FgRed, text.Bold},
}

func colorize(s types.Status, color bool) string {
	label := string(s)
	if !color {
		return label
	}
	if c, ok := statusColors[s]; ok {
		return c.Sprint(label)
	}
	return label
}

// WriteSummaryLine writes the per-status counts of a run.
func WriteSummaryLine(w io.Writer, s types.RunSummary) {
	fmt.Fprintf(w, "\nChecked %d reference(s): %d verified, %d potential, %d error, %d unverified\n",
		s.Total(), s.Verified, s.Potential, s.Errors, s.Unverified)
}

// RenderTable returns the results of a run as a table.
func RenderTable(s types.RunSummary, color bool) string {
	if len(s.Results) == 0 {
		return "No references to check."
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Reference", "Status", "Details"})
	for i, r := range s.Results {
		tw.AppendRow(table.Row{i + 1, r.Reference, colorize(r.Verdict.Status, color), r.Verdict.Message})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, WidthMax: 50},
		{Number: 4, WidthMax: 70},
	})
	return tw.Render()
}

// WriteJSON writes the run summary as indented JSON.
func WriteJSON(w io.Writer, s types.RunSummary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteYAML writes the run summary as YAML.
func WriteYAML(w io.Writer, s types.RunSummary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encoding YAML report: %w", err)
	}
	return enc.Close()
}

// Write renders a finished run in the given format. FormatLines writes
// only the summary line because results were streamed already.
func Write(w io.Writer, f Format, s types.RunSummary, color bool) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, s)
	case FormatYAML:
		return WriteYAML(w, s)
	case FormatTable:
		fmt.Fprintln(w, RenderTable(s, color))
		WriteSummaryLine(w, s)
	default:
		WriteSummaryLine(w, s)
	}
	return nil
}

// RenderHistory returns stored history entries as a table, newest first.
func RenderHistory(entries []types.HistoryEntry) string {
	if len(entries) == 0 {
		return "History is empty."
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "When", "Refs", "First reference"})
	for i, e := range entries {
		first := ""
		if len(e.References) > 0 {
			first = e.References[0]
		}
		when := ""
		if !e.CreatedAt.IsZero() {
			when = e.CreatedAt.Local().Format("2006-01-02 15:04")
		}
		tw.AppendRow(table.Row{i + 1, when, len(e.References), first})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, WidthMax: 60},
	})
	return tw.Render()
}
