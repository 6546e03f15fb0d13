package memory

import (
	"context"
	"sync"

	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/domain/matchevent"
)

type MatchEventRepository struct {
	mu    sync.RWMutex
	items map[int64][]matchevent.Event
}

func NewMatchEventRepository() *MatchEventRepository {
	return &MatchEventRepository{items: make(map[int64][]matchevent.Event)}
}

func (r *MatchEventRepository) ReplaceByMatch(_ context.Context, matchID int64, items []matchevent.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := make([]matchevent.Event, len(items))
	copy(rows, items)
	r.items[matchID] = rows
	return nil
}

func (r *MatchEventRepository) ListByMatch(_ context.Context, matchID int64) ([]matchevent.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.items[matchID]
	out := make([]matchevent.Event, len(rows))
	copy(out, rows)
	return out, nil
}
