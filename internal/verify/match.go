// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package verify

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/pdiddy/refcheck/internal/parse"
	"github.com/pdiddy/refcheck/pkg/types"
)

// containsFold reports whether s contains substr, ignoring case.
// An empty substr never matches. A Caser must not be shared between
// goroutines, so each call builds its own.
func containsFold(s, substr string) bool {
	if substr == "" {
		return false
	}
	fold := cases.Fold()
	return strings.Contains(fold.String(s), fold.String(substr))
}

// authorMatches reports whether any candidate author name contains the
// surname of the user-supplied author.
func authorMatches(candidates []string, author string) bool {
	surname := parse.Surname(author)
	for _, name := range candidates {
		if containsFold(name, surname) {
			return true
		}
	}
	return false
}

// Match scans ranked candidates for the given title and author. A
// candidate whose title contains the query title and whose authors
// include the surname is returned as verified, ending the scan. The first
// candidate that matches on title alone is returned as potential; the
// scan continues past it looking for a verified match.
func Match(candidates []types.Record, title, author string) (verified, potential *types.Record) {
	for i := range candidates {
		c := &candidates[i]
		if !containsFold(c.Title, title) {
			continue
		}
		if authorMatches(c.Authors, author) {
			return c, potential
		}
		if potential == nil {
			potential = c
		}
	}
	return nil, potential
}
