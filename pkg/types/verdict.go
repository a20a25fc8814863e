// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Status is the classification of a single reference.
type Status string

const (
	StatusVerified   Status = "verified"
	StatusPotential  Status = "potential"
	StatusError      Status = "error"
	StatusUnverified Status = "unverified"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusVerified, StatusPotential, StatusError, StatusUnverified}

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusVerified, StatusPotential, StatusError, StatusUnverified:
		return true
	}
	return false
}

// Attempt records one lookup performed while resolving a reference.
type Attempt struct {
	// Service is the lookup that ran, e.g. "crossref-doi" or "googlebooks-title".
	Service string `json:"service" yaml:"service"`

	// Outcome is one of "found", "potential", "not_found", or "error".
	Outcome string `json:"outcome" yaml:"outcome"`

	// Error holds the failure reason when Outcome is "error".
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Verdict is the final classification and message for one reference.
type Verdict struct {
	Status  Status `json:"status" yaml:"status"`
	Message string `json:"message" yaml:"message"`

	// Source names the service that produced a match, if any.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// MatchedTitle, Authors and Identifier describe the matched record.
	MatchedTitle string   `json:"matched_title,omitempty" yaml:"matched_title,omitempty"`
	Authors      []string `json:"authors,omitempty" yaml:"authors,omitempty"`
	Identifier   string   `json:"identifier,omitempty" yaml:"identifier,omitempty"`

	Attempts []Attempt `json:"attempts,omitempty" yaml:"attempts,omitempty"`
}

// Result pairs one input line with its verdict.
type Result struct {
	// Reference is the original input line.
	Reference string `json:"reference" yaml:"reference"`

	// Cleaned is the line with surrounding quotes and whitespace removed.
	Cleaned string `json:"cleaned" yaml:"cleaned"`

	Parsed  ParsedReference `json:"parsed" yaml:"parsed"`
	Verdict Verdict         `json:"verdict" yaml:"verdict"`
}

// RunSummary holds the outcome of a batch run.
type RunSummary struct {
	RunID      string    `json:"run_id" yaml:"run_id"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`

	Verified   int `json:"verified" yaml:"verified"`
	Potential  int `json:"potential" yaml:"potential"`
	Errors     int `json:"errors" yaml:"errors"`
	Unverified int `json:"unverified" yaml:"unverified"`

	Results []Result `json:"results" yaml:"results"`
}

// Total returns the number of references processed.
func (s RunSummary) Total() int {
	return s.Verified + s.Potential + s.Errors + s.Unverified
}

// Count returns the number of results with the given status.
func (s RunSummary) Count(status Status) int {
	switch status {
	case StatusVerified:
		return s.Verified
	case StatusPotential:
		return s.Potential
	case StatusError:
		return s.Errors
	case StatusUnverified:
		return s.Unverified
	}
	return 0
}

// Add records a result and bumps the matching status counter.
func (s *RunSummary) Add(r Result) {
	s.Results = append(s.Results, r)
	switch r.Verdict.Status {
	case StatusVerified:
		s.Verified++
	case StatusPotential:
		s.Potential++
	case StatusError:
		s.Errors++
	case StatusUnverified:
		s.Unverified++
	}
}

// Cleaned returns the cleaned reference strings of the run in order.
func (s RunSummary) Cleaned() []string {
	out := make([]string, len(s.Results))
	for i, r := range s.Results {
		out[i] = r.Cleaned
	}
	return out
}

// HistoryEntry is one stored batch of cleaned references.
type HistoryEntry struct {
	ID         int64     `json:"id" yaml:"id"`
	RunID      string    `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	References []string  `json:"references" yaml:"references"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}
