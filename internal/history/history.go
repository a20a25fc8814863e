// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps the most recent distinct batches of cleaned
// references. Entries are deduplicated by exact sequence equality: adding
// a sequence that is already stored moves it to the front instead of
// creating a second copy. Once the limit is reached the oldest entries
// are evicted.
package history

import (
	"context"
	"slices"

	"github.com/pdiddy/refcheck/pkg/types"
)

// Repository stores history entries, newest first.
type Repository interface {
	// Load returns the stored entries, newest first.
	Load(ctx context.Context) ([]types.HistoryEntry, error)

	// Append adds entry as the newest, dropping any identical sequence and
	// evicting entries beyond the limit.
	Append(ctx context.Context, entry types.HistoryEntry) error

	// Clear removes every entry.
	Clear(ctx context.Context) error
}

// Push returns entries with entry prepended, any earlier entry holding the
// same reference sequence removed, and the result truncated to limit.
// The input slice is not modified.
func Push(entries []types.HistoryEntry, entry types.HistoryEntry, limit int) []types.HistoryEntry {
	if limit <= 0 {
		limit = types.DefaultHistoryLimit
	}
	out := make([]types.HistoryEntry, 0, min(len(entries)+1, limit))
	out = append(out, entry)
	for _, e := range entries {
		if len(out) == limit {
			break
		}
		if slices.Equal(e.References, entry.References) {
			continue
		}
		out = append(out, e)
	}
	return out
}
