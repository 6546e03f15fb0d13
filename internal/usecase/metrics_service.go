package usecase

import (
	"context"
	"math"
	"sort"

	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/domain/match"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/domain/matchevent"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/platform/logging"
)

// Final-third end-coordinate thresholds in pitch-relative units. The home
// side attacks toward increasing x, the away side toward decreasing x.
const (
	finalThirdHomeX = 66.7
	finalThirdAwayX = 33.3
)

const defaultMomentumIntervalMinutes = 3

type MetricsConfig struct {
	MomentumIntervalMinutes int
}

// MetricsService derives the comparative-stats panel and momentum series
// from raw aggregate counters and the enriched event table.
type MetricsService struct {
	cfg    MetricsConfig
	logger *logging.Logger
}

func NewMetricsService(cfg MetricsConfig, logger *logging.Logger) *MetricsService {
	if cfg.MomentumIntervalMinutes < 1 {
		cfg.MomentumIntervalMinutes = defaultMomentumIntervalMinutes
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &MetricsService{cfg: cfg, logger: logger}
}

// PossessionShare is each side's rounded share of the combined possession
// counters. Away is derived as the complement of home so the two always sum
// to exactly 100.
type PossessionShare struct {
	Home int
	Away int
}

// DerivePossession normalizes the two raw possession counters. Both shares
// are zero when the counters are empty.
func DerivePossession(home, away float64) PossessionShare {
	total := home + away
	if total <= 0 {
		return PossessionShare{}
	}
	homeShare := int(math.Round(home / total * 100))
	return PossessionShare{Home: homeShare, Away: 100 - homeShare}
}

// PassCompletion is a rounded completion percentage. Defined is false when
// the team attempted no passes; the zero value is a sentinel, not an error.
type PassCompletion struct {
	Percent int
	Defined bool
}

// DerivePassCompletion computes accurate/total as a whole percentage.
func DerivePassCompletion(accurate, total int) PassCompletion {
	if total == 0 {
		return PassCompletion{}
	}
	return PassCompletion{
		Percent: int(math.Round(float64(accurate) / float64(total) * 100)),
		Defined: true,
	}
}

// TeamStatLine is one side of the comparative-stats panel.
type TeamStatLine struct {
	TeamID         int64
	TeamName       string
	Possession     int
	ShotsTotal     int
	ShotsOnTarget  int
	PassesTotal    int
	PassCompletion PassCompletion
	FoulsCommitted int
	Corners        int
	Offsides       int
}

type ComparativeStats struct {
	MatchID int64
	Home    TeamStatLine
	Away    TeamStatLine
}

// Comparative derives the full panel for one match from its raw counters.
func (s *MetricsService) Comparative(ctx context.Context, m match.Match) ComparativeStats {
	_, span := startUsecaseSpan(ctx, "MetricsService.Comparative")
	defer span.End()

	possession := DerivePossession(m.HomePossession, m.AwayPossession)
	return ComparativeStats{
		MatchID: m.ID,
		Home: TeamStatLine{
			TeamID:         m.HomeTeamID,
			TeamName:       m.HomeTeamName,
			Possession:     possession.Home,
			ShotsTotal:     m.HomeShotsTotal,
			ShotsOnTarget:  m.HomeShotsOnTarget,
			PassesTotal:    m.HomePassesTotal,
			PassCompletion: DerivePassCompletion(m.HomePassesAccurate, m.HomePassesTotal),
			FoulsCommitted: m.HomeFoulsCommitted,
			Corners:        m.HomeCorners,
			Offsides:       m.HomeOffsidesCaught,
		},
		Away: TeamStatLine{
			TeamID:         m.AwayTeamID,
			TeamName:       m.AwayTeamName,
			Possession:     possession.Away,
			ShotsTotal:     m.AwayShotsTotal,
			ShotsOnTarget:  m.AwayShotsOnTarget,
			PassesTotal:    m.AwayPassesTotal,
			PassCompletion: DerivePassCompletion(m.AwayPassesAccurate, m.AwayPassesTotal),
			FoulsCommitted: m.AwayFoulsCommitted,
			Corners:        m.AwayCorners,
			Offsides:       m.AwayOffsidesCaught,
		},
	}
}

// MomentumBucket is one fixed-width interval of the momentum series. The
// renderer plots HomeCount above the baseline and AwayCount below it.
type MomentumBucket struct {
	StartMinute int
	HomeCount   int
	AwayCount   int
}

// GoalMarker annotates the series with a goal at its interval peak.
type GoalMarker struct {
	Minute   int
	TeamID   int64
	PlayerID int64
}

type MomentumSeries struct {
	MatchID         int64
	HomeTeamID      int64
	AwayTeamID      int64
	IntervalMinutes int
	Buckets         []MomentumBucket
	Goals           []GoalMarker
}

// Momentum buckets each side's passes reaching the attacking third into
// fixed-width intervals and collects goal markers.
func (s *MetricsService) Momentum(ctx context.Context, events []matchevent.Event, m match.Match) MomentumSeries {
	_, span := startUsecaseSpan(ctx, "MetricsService.Momentum")
	defer span.End()

	interval := s.cfg.MomentumIntervalMinutes
	series := MomentumSeries{
		MatchID:         m.ID,
		HomeTeamID:      m.HomeTeamID,
		AwayTeamID:      m.AwayTeamID,
		IntervalMinutes: interval,
	}

	type counts struct{ home, away int }
	buckets := make(map[int]*counts)

	for _, e := range events {
		if e.MatchID != m.ID {
			continue
		}
		switch e.Type {
		case matchevent.TypeGoal:
			series.Goals = append(series.Goals, GoalMarker{Minute: e.Minute, TeamID: e.TeamID, PlayerID: e.PlayerID})
		case matchevent.TypePass:
			start := (e.Minute / interval) * interval
			var inFinalThird bool
			var home bool
			switch e.TeamID {
			case m.HomeTeamID:
				inFinalThird = e.EndX >= finalThirdHomeX
				home = true
			case m.AwayTeamID:
				inFinalThird = e.EndX <= finalThirdAwayX
			default:
				continue
			}
			if !inFinalThird {
				continue
			}
			b := buckets[start]
			if b == nil {
				b = &counts{}
				buckets[start] = b
			}
			if home {
				b.home++
			} else {
				b.away++
			}
		}
	}

	series.Buckets = make([]MomentumBucket, 0, len(buckets))
	for start, c := range buckets {
		series.Buckets = append(series.Buckets, MomentumBucket{StartMinute: start, HomeCount: c.home, AwayCount: c.away})
	}
	sort.Slice(series.Buckets, func(i, j int) bool { return series.Buckets[i].StartMinute < series.Buckets[j].StartMinute })
	sort.Slice(series.Goals, func(i, j int) bool { return series.Goals[i].Minute < series.Goals[j].Minute })
	return series
}
