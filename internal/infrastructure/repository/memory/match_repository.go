package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/domain/match"
)

type MatchRepository struct {
	mu    sync.RWMutex
	items map[int64]match.Match
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{items: make(map[int64]match.Match)}
}

func (r *MatchRepository) UpsertMany(_ context.Context, items []match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range items {
		r.items[m.ID] = m
	}
	return nil
}

func (r *MatchRepository) GetByID(_ context.Context, id int64) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[id]
	return m, ok, nil
}

func (r *MatchRepository) List(_ context.Context) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(r.items))
	for _, m := range r.items {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MatchRepository) ListIDs(_ context.Context) ([]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int64, 0, len(r.items))
	for id := range r.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
