package matchevent

import "context"

// Repository describes event persistence needs from use cases. Events are
// produced fresh per ingestion run; re-ingesting a match replaces its rows.
type Repository interface {
	ReplaceByMatch(ctx context.Context, matchID int64, items []Event) error
	ListByMatch(ctx context.Context, matchID int64) ([]Event, error)
}
