// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package verify resolves parsed references against lookup services and
// classifies each one as verified, potential, error, or unverified.
//
// Resolution is identifier-first: a DOI or ISBN lookup that produces a
// verdict is final, including a transport error. Only a not-found answer
// falls through to the title chain (CrossRef, then Google Books).
package verify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pdiddy/refcheck/internal/httputil"
	"github.com/pdiddy/refcheck/internal/lookup"
	"github.com/pdiddy/refcheck/internal/parse"
	"github.com/pdiddy/refcheck/pkg/types"
)

// DOILookup fetches the record registered under a DOI.
// Implementations return an error satisfying httputil.IsNotFound when the
// DOI does not exist.
type DOILookup interface {
	LookupDOI(ctx context.Context, doi string) (types.Record, error)
}

// ISBNLookup fetches a book record by hyphen-free ISBN.
type ISBNLookup interface {
	LookupISBN(ctx context.Context, isbn string) (types.Record, error)
}

// TitleSearcher returns ranked candidate records for a free-text title.
type TitleSearcher interface {
	Name() string
	SearchTitle(ctx context.Context, title string) ([]types.Record, error)
}

// Attempt outcomes.
const (
	outcomeFound     = "found"
	outcomePotential = "potential"
	outcomeNotFound  = "not_found"
	outcomeError     = "error"
)

// Messages shared by several verdicts.
const (
	msgInvalidFormat = "Invalid Format: requires at least 'Author, Title'"
	msgUnverified    = "Unverified / Potentially Fake"
)

// Resolvers bundles the lookups the orchestrator consults.
// Any field may be nil, in which case that step is skipped.
type Resolvers struct {
	DOI  DOILookup
	ISBN ISBNLookup

	// Scholarly is searched first, Catalog second.
	Scholarly TitleSearcher
	Catalog   TitleSearcher
}

// ResolveIdentifier runs the identifier lookup selected by the kind of
// identifier. The verdict is nil when the identifier is absent,
// unclassified, or not found, meaning the caller should fall back to a
// title search. The attempts record every lookup performed.
func ResolveIdentifier(ctx context.Context, r Resolvers, identifier string, logger *slog.Logger) (*types.Verdict, []types.Attempt) {
	if logger == nil {
		logger = slog.Default()
	}

	kind, norm := parse.ClassifyIdentifier(identifier)
	switch kind {
	case types.IdentifierDOI:
		if r.DOI == nil {
			return nil, nil
		}
		rec, err := r.DOI.LookupDOI(ctx, norm)
		return identifierVerdict("crossref-doi", "DOI", rec, err, logger)
	case types.IdentifierISBN:
		if r.ISBN == nil {
			return nil, nil
		}
		rec, err := r.ISBN.LookupISBN(ctx, norm)
		return identifierVerdict("googlebooks-isbn", "ISBN", rec, err, logger)
	}
	return nil, nil
}

func identifierVerdict(service, label string, rec types.Record, err error, logger *slog.Logger) (*types.Verdict, []types.Attempt) {
	if err != nil {
		if httputil.IsNotFound(err) {
			logger.Debug("identifier not found", "service", service)
			return nil, []types.Attempt{{Service: service, Outcome: outcomeNotFound}}
		}
		logger.Warn("identifier lookup failed", "service", service, "error", err)
		attempts := []types.Attempt{{Service: service, Outcome: outcomeError, Error: err.Error()}}
		return &types.Verdict{
			Status:   types.StatusError,
			Message:  fmt.Sprintf("Error checking %s: %v", label, err),
			Attempts: attempts,
		}, attempts
	}

	msg := fmt.Sprintf("Verified by %s on %s: '%s'", label, displayName(rec.Source), rec.Title)
	if label == "ISBN" && len(rec.Authors) > 0 {
		msg += " by " + strings.Join(rec.Authors, ", ")
	}
	attempts := []types.Attempt{{Service: service, Outcome: outcomeFound}}
	return &types.Verdict{
		Status:       types.StatusVerified,
		Message:      msg,
		Source:       rec.Source,
		MatchedTitle: rec.Title,
		Authors:      rec.Authors,
		Identifier:   recordIdentifier(rec),
		Attempts:     attempts,
	}, attempts
}

// ResolveByTitle runs the title chain: the scholarly index first, the
// book catalog second. A verified match from either wins; otherwise the
// scholarly potential match, then the catalog potential match, is
// returned. The verdict is nil when no candidate matched the title. When
// every searcher failed, an error verdict is returned instead of nil.
func ResolveByTitle(ctx context.Context, r Resolvers, author, title string, logger *slog.Logger) (*types.Verdict, []types.Attempt) {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		attempts  []types.Attempt
		potential *types.Verdict
		failures  []string
		searched  int
	)

	for _, s := range []TitleSearcher{r.Scholarly, r.Catalog} {
		if s == nil {
			continue
		}
		searched++
		service := s.Name() + "-title"

		candidates, err := s.SearchTitle(ctx, title)
		if err != nil {
			logger.Warn("title search failed", "service", service, "error", err)
			attempts = append(attempts, types.Attempt{Service: service, Outcome: outcomeError, Error: err.Error()})
			failures = append(failures, fmt.Sprintf("%s: %v", displayName(s.Name()), err))
			continue
		}

		verified, maybe := Match(candidates, title, author)
		switch {
		case verified != nil:
			attempts = append(attempts, types.Attempt{Service: service, Outcome: outcomeFound})
			v := verifiedByTitle(*verified)
			v.Attempts = attempts
			return &v, attempts
		case maybe != nil:
			attempts = append(attempts, types.Attempt{Service: service, Outcome: outcomePotential})
			if potential == nil {
				v := potentialByTitle(*maybe, author)
				potential = &v
			}
		default:
			attempts = append(attempts, types.Attempt{Service: service, Outcome: outcomeNotFound})
		}
	}

	switch {
	case potential != nil:
		potential.Attempts = attempts
		return potential, attempts
	case searched > 0 && len(failures) == searched:
		return &types.Verdict{
			Status:   types.StatusError,
			Message:  "Error searching by title: " + strings.Join(failures, "; "),
			Attempts: attempts,
		}, attempts
	}
	return nil, attempts
}

func verifiedByTitle(rec types.Record) types.Verdict {
	v := types.Verdict{
		Status:       types.StatusVerified,
		Source:       rec.Source,
		MatchedTitle: rec.Title,
		Authors:      rec.Authors,
		Identifier:   recordIdentifier(rec),
	}
	if rec.Source == lookup.SourceCrossRef {
		doi := rec.DOI
		if doi == "" {
			doi = "N/A"
		}
		v.Message = fmt.Sprintf("Verified on CrossRef: '%s' | DOI: %s", rec.Title, doi)
		return v
	}
	v.Message = fmt.Sprintf("Verified on %s: '%s' by %s", displayName(rec.Source), rec.Title, strings.Join(rec.Authors, ", "))
	if rec.ISBN != "" {
		v.Message += " | ISBN: " + rec.ISBN
	}
	return v
}

func potentialByTitle(rec types.Record, author string) types.Verdict {
	return types.Verdict{
		Status: types.StatusPotential,
		Message: fmt.Sprintf("Potential Match on %s: Title found, but author '%s' did not match the result's authors: '%s'",
			displayName(rec.Source), author, strings.Join(rec.Authors, ", ")),
		Source:       rec.Source,
		MatchedTitle: rec.Title,
		Authors:      rec.Authors,
		Identifier:   recordIdentifier(rec),
	}
}

func recordIdentifier(rec types.Record) string {
	if rec.DOI != "" {
		return rec.DOI
	}
	return rec.ISBN
}

func displayName(source string) string {
	switch source {
	case lookup.SourceCrossRef:
		return "CrossRef"
	case lookup.SourceGoogleBooks:
		return "Google Books"
	}
	return source
}
