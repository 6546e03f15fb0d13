package playermatch

import "context"

// Repository describes player-appearance persistence needs from use cases.
// Rows are created once per appearance and never updated.
type Repository interface {
	InsertMany(ctx context.Context, items []Stat) error
	ListByMatch(ctx context.Context, matchID int64) ([]Stat, error)
}
