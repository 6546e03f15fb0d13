package match

import (
	"fmt"
	"time"
)

const (
	CompetitionLaLiga          = "La Liga"
	CompetitionChampionsLeague = "Champions League"
)

// Match is one scraped fixture with its full-time score and the raw
// aggregate counters both comparative stats and momentum are derived from.
// Counters are never null: absent provider values normalize to zero.
type Match struct {
	ID           int64
	Competition  string
	Date         time.Time
	HomeTeamID   int64
	AwayTeamID   int64
	HomeTeamName string
	AwayTeamName string

	HomeScoreFulltime int
	AwayScoreFulltime int

	HomeShotsTotal     int
	HomeShotsOnTarget  int
	HomePossession     float64
	HomePassesTotal    int
	HomePassesAccurate int
	HomeFoulsCommitted int
	HomeCorners        int
	HomeOffsidesCaught int

	AwayShotsTotal     int
	AwayShotsOnTarget  int
	AwayPossession     float64
	AwayPassesTotal    int
	AwayPassesAccurate int
	AwayFoulsCommitted int
	AwayCorners        int
	AwayOffsidesCaught int
}

func (m Match) Validate() error {
	if m.ID <= 0 {
		return fmt.Errorf("match id is required")
	}
	if m.HomeTeamID <= 0 || m.AwayTeamID <= 0 {
		return fmt.Errorf("match team ids are required")
	}
	if m.HomeScoreFulltime < 0 || m.AwayScoreFulltime < 0 {
		return fmt.Errorf("match score cannot be negative")
	}
	if m.Date.IsZero() {
		return fmt.Errorf("match date is required")
	}
	return nil
}

// Opponent returns the name of the side facing clubName, or the home team
// name when clubName is on neither side.
func (m Match) Opponent(clubName string) string {
	if m.HomeTeamName == clubName {
		return m.AwayTeamName
	}
	return m.HomeTeamName
}
