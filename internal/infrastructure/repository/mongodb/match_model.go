package mongodb

import (
	"time"

	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/domain/match"
)

type matchDocument struct {
	ID           int64     `bson:"_id"`
	Competition  string    `bson:"competition"`
	Date         time.Time `bson:"date"`
	HomeTeamID   int64     `bson:"home_team_id"`
	AwayTeamID   int64     `bson:"away_team_id"`
	HomeTeamName string    `bson:"home_team_name"`
	AwayTeamName string    `bson:"away_team_name"`

	HomeScoreFulltime int `bson:"home_score_fulltime"`
	AwayScoreFulltime int `bson:"away_score_fulltime"`

	HomeShotsTotal     int     `bson:"home_shots_total"`
	HomeShotsOnTarget  int     `bson:"home_shots_on_target"`
	HomePossession     float64 `bson:"home_possession"`
	HomePassesTotal    int     `bson:"home_passes_total"`
	HomePassesAccurate int     `bson:"home_passes_accurate"`
	HomeFoulsCommitted int     `bson:"home_fouls_committed"`
	HomeCorners        int     `bson:"home_corners"`
	HomeOffsidesCaught int     `bson:"home_offsides_caught"`

	AwayShotsTotal     int     `bson:"away_shots_total"`
	AwayShotsOnTarget  int     `bson:"away_shots_on_target"`
	AwayPossession     float64 `bson:"away_possession"`
	AwayPassesTotal    int     `bson:"away_passes_total"`
	AwayPassesAccurate int     `bson:"away_passes_accurate"`
	AwayFoulsCommitted int     `bson:"away_fouls_committed"`
	AwayCorners        int     `bson:"away_corners"`
	AwayOffsidesCaught int     `bson:"away_offsides_caught"`
}

func toMatchDocument(m match.Match) matchDocument {
	return matchDocument{
		ID:           m.ID,
		Competition:  m.Competition,
		Date:         m.Date,
		HomeTeamID:   m.HomeTeamID,
		AwayTeamID:   m.AwayTeamID,
		HomeTeamName: m.HomeTeamName,
		AwayTeamName: m.AwayTeamName,

		HomeScoreFulltime: m.HomeScoreFulltime,
		AwayScoreFulltime: m.AwayScoreFulltime,

		HomeShotsTotal:     m.HomeShotsTotal,
		HomeShotsOnTarget:  m.HomeShotsOnTarget,
		HomePossession:     m.HomePossession,
		HomePassesTotal:    m.HomePassesTotal,
		HomePassesAccurate: m.HomePassesAccurate,
		HomeFoulsCommitted: m.HomeFoulsCommitted,
		HomeCorners:        m.HomeCorners,
		HomeOffsidesCaught: m.HomeOffsidesCaught,

		AwayShotsTotal:     m.AwayShotsTotal,
		AwayShotsOnTarget:  m.AwayShotsOnTarget,
		AwayPossession:     m.AwayPossession,
		AwayPassesTotal:    m.AwayPassesTotal,
		AwayPassesAccurate: m.AwayPassesAccurate,
		AwayFoulsCommitted: m.AwayFoulsCommitted,
		AwayCorners:        m.AwayCorners,
		AwayOffsidesCaught: m.AwayOffsidesCaught,
	}
}

func (d matchDocument) toDomain() match.Match {
	return match.Match{
		ID:           d.ID,
		Competition:  d.Competition,
		Date:         d.Date,
		HomeTeamID:   d.HomeTeamID,
		AwayTeamID:   d.AwayTeamID,
		HomeTeamName: d.HomeTeamName,
		AwayTeamName: d.AwayTeamName,

		HomeScoreFulltime: d.HomeScoreFulltime,
		AwayScoreFulltime: d.AwayScoreFulltime,

		HomeShotsTotal:     d.HomeShotsTotal,
		HomeShotsOnTarget:  d.HomeShotsOnTarget,
		HomePossession:     d.HomePossession,
		HomePassesTotal:    d.HomePassesTotal,
		HomePassesAccurate: d.HomePassesAccurate,
		HomeFoulsCommitted: d.HomeFoulsCommitted,
		HomeCorners:        d.HomeCorners,
		HomeOffsidesCaught: d.HomeOffsidesCaught,

		AwayShotsTotal:     d.AwayShotsTotal,
		AwayShotsOnTarget:  d.AwayShotsOnTarget,
		AwayPossession:     d.AwayPossession,
		AwayPassesTotal:    d.AwayPassesTotal,
		AwayPassesAccurate: d.AwayPassesAccurate,
		AwayFoulsCommitted: d.AwayFoulsCommitted,
		AwayCorners:        d.AwayCorners,
		AwayOffsidesCaught: d.AwayOffsidesCaught,
	}
}
