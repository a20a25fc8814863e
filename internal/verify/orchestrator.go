// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package verify

import (
	"context"
	"log/slog"

	"github.com/pdiddy/refcheck/pkg/types"
)

// Orchestrator turns one parsed reference into exactly one verdict.
type Orchestrator struct {
	resolvers Resolvers
	logger    *slog.Logger
}

// NewOrchestrator creates an orchestrator over the given lookups. A nil
// logger falls back to slog.Default().
func NewOrchestrator(r Resolvers, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{resolvers: r, logger: logger}
}

// Resolve classifies ref. The identifier path runs first; its verdict is
// final unless the identifier was not found. Without both author and
// title the reference is an Invalid Format error and no title search is
// made. A title chain with no match yields an unverified verdict.
func (o *Orchestrator) Resolve(ctx context.Context, ref types.ParsedReference) types.Verdict {
	logger := o.logger.With("author", ref.Author, "title", ref.Title)

	var trail []types.Attempt
	if ref.Identifier != "" {
		v, attempts := ResolveIdentifier(ctx, o.resolvers, ref.Identifier, logger)
		if v != nil {
			return *v
		}
		trail = append(trail, attempts...)
	}

	if !ref.HasAuthorAndTitle() {
		return types.Verdict{
			Status:   types.StatusError,
			Message:  msgInvalidFormat,
			Attempts: trail,
		}
	}

	v, attempts := ResolveByTitle(ctx, o.resolvers, ref.Author, ref.Title, logger)
	trail = append(trail, attempts...)
	if v != nil {
		v.Attempts = trail
		return *v
	}
	return types.Verdict{
		Status:   types.StatusUnverified,
		Message:  msgUnverified,
		Attempts: trail,
	}
}
