// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"slices"
	"sync"

	"github.com/pdiddy/refcheck/pkg/types"
)

// MemoryStore is an in-process Repository, used when history persistence
// is disabled and in tests.
type MemoryStore struct {
	mu      sync.Mutex
	entries []types.HistoryEntry
	limit   int
	nextID  int64
}

// NewMemoryStore creates an empty store keeping at most limit entries.
func NewMemoryStore(limit int) *MemoryStore {
	if limit <= 0 {
		limit = types.DefaultHistoryLimit
	}
	return &MemoryStore{limit: limit}
}

// Load returns a copy of the stored entries, newest first.
func (m *MemoryStore) Load(_ context.Context) ([]types.HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.entries), nil
}

// Append adds entry as the newest.
func (m *MemoryStore) Append(_ context.Context, entry types.HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	entry.ID = m.nextID
	entry.References = slices.Clone(entry.References)
	m.entries = Push(m.entries, entry, m.limit)
	return nil
}

// Clear removes every entry.
func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	return nil
}
