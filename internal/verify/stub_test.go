// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package verify

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/pdiddy/refcheck/internal/lookup"
	"github.com/pdiddy/refcheck/pkg/types"
)

var errTransport = errors.New("connection reset by peer")

// discard is a logger that drops everything.
var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// stubDOI answers DOI lookups from a map; unknown DOIs are not found.
type stubDOI struct {
	records map[string]types.Record
	err     error
	calls   []string
}

func (s *stubDOI) LookupDOI(_ context.Context, doi string) (types.Record, error) {
	s.calls = append(s.calls, doi)
	if s.err != nil {
		return types.Record{}, s.err
	}
	rec, ok := s.records[doi]
	if !ok {
		return types.Record{}, lookup.ErrNotFound
	}
	return rec, nil
}

type stubISBN struct {
	records map[string]types.Record
	err     error
	calls   []string
}

func (s *stubISBN) LookupISBN(_ context.Context, isbn string) (types.Record, error) {
	s.calls = append(s.calls, isbn)
	if s.err != nil {
		return types.Record{}, s.err
	}
	rec, ok := s.records[isbn]
	if !ok {
		return types.Record{}, lookup.ErrNotFound
	}
	return rec, nil
}

// stubSearch returns the same candidates for every title.
type stubSearch struct {
	name       string
	candidates []types.Record
	err        error
	calls      []string
}

func (s *stubSearch) Name() string { return s.name }

func (s *stubSearch) SearchTitle(_ context.Context, title string) ([]types.Record, error) {
	s.calls = append(s.calls, title)
	if s.err != nil {
		return nil, s.err
	}
	return s.candidates, nil
}

func scholarly(cands ...types.Record) *stubSearch {
	return &stubSearch{name: lookup.SourceCrossRef, candidates: cands}
}

func catalog(cands ...types.Record) *stubSearch {
	return &stubSearch{name: lookup.SourceGoogleBooks, candidates: cands}
}

func crRecord(title, doi string, authors ...string) types.Record {
	return types.Record{Source: lookup.SourceCrossRef, Title: title, DOI: doi, Authors: authors}
}

func gbRecord(title, isbn string, authors ...string) types.Record {
	return types.Record{Source: lookup.SourceGoogleBooks, Title: title, ISBN: isbn, Authors: authors}
}

// recordingSink captures sink callbacks in order.
type recordingSink struct {
	events  []string
	results []types.Result
	total   int
	summary types.RunSummary
}

func (s *recordingSink) RunStarted(_ string, total int) {
	s.events = append(s.events, "start")
	s.total = total
}

func (s *recordingSink) Result(_ int, r types.Result) {
	s.events = append(s.events, "result")
	s.results = append(s.results, r)
}

func (s *recordingSink) RunFinished(summary types.RunSummary) {
	s.events = append(s.events, "finish")
	s.summary = summary
}
