package rawdata

import "time"

// Payload is one raw provider payload archived alongside the normalized
// tables. Hash-keyed upserts keep re-ingestion idempotent.
type Payload struct {
	Source      string
	EntityType  string
	EntityKey   string
	MatchID     int64
	PayloadJSON string
	PayloadHash string
	FetchedAt   time.Time
}
