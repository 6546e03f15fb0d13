package memory

import (
	"context"
	"sync"

	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/domain/playermatch"
)

type PlayerMatchRepository struct {
	mu    sync.RWMutex
	items []playermatch.Stat
}

func NewPlayerMatchRepository() *PlayerMatchRepository {
	return &PlayerMatchRepository{}
}

// InsertMany appends appearance rows, skipping identifiers already present
// so re-ingesting a match stays idempotent.
func (r *PlayerMatchRepository) InsertMany(_ context.Context, items []playermatch.Stat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]struct{}, len(r.items))
	for _, existing := range r.items {
		seen[existing.ID] = struct{}{}
	}
	for _, p := range items {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		r.items = append(r.items, p)
	}
	return nil
}

func (r *PlayerMatchRepository) ListByMatch(_ context.Context, matchID int64) ([]playermatch.Stat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []playermatch.Stat
	for _, p := range r.items {
		if p.MatchID == matchID {
			out = append(out, p)
		}
	}
	return out, nil
}
