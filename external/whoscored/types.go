package whoscored

import (
	"bytes"

	sonic "github.com/bytedance/sonic"
)

// RawMatch is one fetched fixture: the decoded matchCentreData blob plus the
// verbatim payload for archiving.
type RawMatch struct {
	MatchID     int64
	Competition string
	URL         string
	Data        MatchCentreData
	Payload     string
}

// FixtureRef points at one match page discovered on the team fixtures page.
type FixtureRef struct {
	MatchID     int64
	Competition string
	URL         string
}

// MatchCentreData mirrors the matchCentreData blob embedded in a match page.
// Field typing is deliberately loose where the provider is inconsistent; all
// coercion happens in the normalizer.
type MatchCentreData struct {
	StartTime string     `json:"startTime"`
	Home      RawTeam    `json:"home"`
	Away      RawTeam    `json:"away"`
	Events    []RawEvent `json:"events"`
}

type RawTeam struct {
	TeamID      int64          `json:"teamId"`
	Name        string         `json:"name"`
	CountryName string         `json:"countryName"`
	ManagerName string         `json:"managerName"`
	Scores      map[string]any `json:"scores"`
	Stats       map[string]any `json:"stats"`
	Players     []RawPlayer    `json:"players"`
}

type RawPlayer struct {
	PlayerID int64          `json:"playerId"`
	Name     string         `json:"name"`
	ShirtNo  any            `json:"shirtNo"`
	Position string         `json:"position"`
	Age      any            `json:"age"`
	Stats    map[string]any `json:"stats"`
}

type RawEvent struct {
	EventID  int64  `json:"eventId"`
	Minute   *int   `json:"minute"`
	Second   *int   `json:"second"`
	TeamID   int64  `json:"teamId"`
	PlayerID *int64 `json:"playerId"`

	X          *float64 `json:"x"`
	Y          *float64 `json:"y"`
	EndX       *float64 `json:"endX"`
	EndY       *float64 `json:"endY"`
	GoalMouthY *float64 `json:"goalMouthY"`
	GoalMouthZ *float64 `json:"goalMouthZ"`

	Period      Display  `json:"period"`
	Type        Display  `json:"type"`
	OutcomeType Display  `json:"outcomeType"`
	CardType    *Display `json:"cardType"`

	IsTouch   *bool `json:"isTouch"`
	IsShot    *bool `json:"isShot"`
	IsGoal    *bool `json:"isGoal"`
	IsOwnGoal *bool `json:"isOwnGoal"`
}

// Display is a provider label that arrives either as a nested
// {"value": n, "displayName": "..."} object or, when re-processing already
// flattened data, as a bare string. Decoding is idempotent across both.
type Display struct {
	Value       int64
	DisplayName string
	Set         bool
}

func (d *Display) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		d.Set = false
		return nil
	}

	if trimmed[0] == '"' {
		var flat string
		if err := sonic.Unmarshal(trimmed, &flat); err != nil {
			return err
		}
		d.DisplayName = flat
		d.Set = flat != ""
		return nil
	}

	var nested struct {
		Value       int64  `json:"value"`
		DisplayName string `json:"displayName"`
	}
	if err := sonic.Unmarshal(trimmed, &nested); err != nil {
		return err
	}
	d.Value = nested.Value
	d.DisplayName = nested.DisplayName
	d.Set = nested.DisplayName != "" || nested.Value != 0
	return nil
}

func (d Display) MarshalJSON() ([]byte, error) {
	return sonic.Marshal(d.DisplayName)
}

// Label returns the flattened scalar label.
func (d Display) Label() string {
	return d.DisplayName
}
