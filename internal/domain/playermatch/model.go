package playermatch

import (
	"fmt"
	"strconv"
	"strings"
)

// Stat is one player appearance in one match. The composite identifier is
// "<playerID>_<matchID>"; the raw per-player statistics blob is carried
// through uninterpreted for downstream consumers.
type Stat struct {
	ID          string
	PlayerID    int64
	MatchID     int64
	Name        string
	ShirtNo     int
	Position    string
	Age         int
	TeamID      int64
	Competition string
	Stats       map[string]any
}

func (s Stat) Validate() error {
	if s.PlayerID <= 0 {
		return fmt.Errorf("player id is required")
	}
	if s.MatchID <= 0 {
		return fmt.Errorf("match id is required")
	}
	if s.ID == "" {
		return fmt.Errorf("player-match id is required")
	}
	return nil
}

// ComposeID builds the composite player-match identifier.
func ComposeID(playerID, matchID int64) string {
	return fmt.Sprintf("%d_%d", playerID, matchID)
}

// SplitPlayerID extracts the player-identifier portion of a composite
// player-match identifier.
func SplitPlayerID(id string) (int64, error) {
	head, _, found := strings.Cut(id, "_")
	if !found {
		return 0, fmt.Errorf("malformed player-match id %q", id)
	}
	playerID, err := strconv.ParseInt(head, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed player id in %q: %w", id, err)
	}
	return playerID, nil
}
