package matchevent

import "fmt"

// Event types as labelled by the provider.
const (
	TypePass           = "Pass"
	TypeGoal           = "Goal"
	TypeSavedShot      = "SavedShot"
	TypeMissedShots    = "MissedShots"
	TypeShotOnPost     = "ShotOnPost"
	TypeSubstitutionOn = "SubstitutionOn"
)

// Outcome labels.
const (
	OutcomeSuccessful   = "Successful"
	OutcomeUnsuccessful = "Unsuccessful"
)

// Period labels.
const (
	PeriodFirstHalf  = "FirstHalf"
	PeriodSecondHalf = "SecondHalf"
)

// HalfTimeSeconds is the elapsed-time key marking the end of the first half.
const HalfTimeSeconds = 45 * 60

// Event is one normalized match event. The fourteen provider columns are
// always populated (default-filled during normalization), so consumers never
// branch on field existence. TotalSeconds, Passer and Recipient are derived
// by the linker; Recipient is a heuristic adjacency inference, not provider
// ground truth.
type Event struct {
	ID          string
	MatchID     int64
	TeamID      int64
	PlayerID    int64
	Competition string

	Minute  int
	Second  int
	Period  string
	Type    string
	Outcome string

	X          float64
	Y          float64
	EndX       float64
	EndY       float64
	GoalMouthY float64
	GoalMouthZ float64

	IsTouch   bool
	IsShot    bool
	IsGoal    bool
	IsOwnGoal bool

	CardType *string

	TotalSeconds int
	Passer       *int64
	Recipient    *int64
}

func (e Event) Validate() error {
	if e.MatchID <= 0 {
		return fmt.Errorf("event match id is required")
	}
	if e.PlayerID <= 0 {
		return fmt.Errorf("event player id is required")
	}
	if e.Type == "" {
		return fmt.Errorf("event type is required")
	}
	return nil
}

// ComposeID builds the composite event identifier guaranteeing uniqueness
// within a match: match id, type label, elapsed-time key, player id.
func ComposeID(matchID int64, eventType string, totalSeconds int, playerID int64) string {
	return fmt.Sprintf("%d_%s_%d_%d", matchID, eventType, totalSeconds, playerID)
}

// IsShotType reports whether the event type belongs on a shot map.
func IsShotType(eventType string) bool {
	switch eventType {
	case TypeGoal, TypeSavedShot, TypeMissedShots, TypeShotOnPost:
		return true
	default:
		return false
	}
}

// IsSuccessfulPass reports whether the event is a completed pass, the only
// kind that participates in pass-network aggregation.
func (e Event) IsSuccessfulPass() bool {
	return e.Type == TypePass && e.Outcome == OutcomeSuccessful
}
