package match

import "context"

// Repository describes match persistence needs from use cases.
// UpsertMany must be safe to repeat for the same identifiers.
type Repository interface {
	UpsertMany(ctx context.Context, items []Match) error
	GetByID(ctx context.Context, id int64) (Match, bool, error)
	List(ctx context.Context) ([]Match, error)
	ListIDs(ctx context.Context) ([]int64, error)
}
