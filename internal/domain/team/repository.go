package team

import "context"

// Repository describes team persistence needs from use cases.
// UpsertMany applies latest-write-wins per identifier and is idempotent.
type Repository interface {
	UpsertMany(ctx context.Context, items []Team) error
	GetByID(ctx context.Context, id int64) (Team, bool, error)
	List(ctx context.Context) ([]Team, error)
}
