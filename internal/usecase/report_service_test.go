package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/domain/match"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/domain/matchevent"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/infrastructure/repository/memory"
)

func newReportFixture(t *testing.T) (*ReportService, *memory.MatchRepository, *memory.MatchEventRepository) {
	t.Helper()

	matchRepo := memory.NewMatchRepository()
	eventRepo := memory.NewMatchEventRepository()
	playerRepo := memory.NewPlayerMatchRepository()

	svc := NewReportService(
		ReportConfig{CacheTTL: time.Minute},
		matchRepo,
		eventRepo,
		playerRepo,
		NewAggregationService(AggregationConfig{PairMinCount: 1}, nil),
		NewMetricsService(MetricsConfig{}, nil),
		nil,
		nil,
	)
	return svc, matchRepo, eventRepo
}

func seedReportMatch(t *testing.T, matchRepo *memory.MatchRepository, eventRepo *memory.MatchEventRepository) match.Match {
	t.Helper()

	m := match.Match{
		ID:           1821372,
		Competition:  match.CompetitionLaLiga,
		Date:         mustParseDate(t, "2024-04-21T21:00:00"),
		HomeTeamID:   52,
		AwayTeamID:   65,
		HomeTeamName: "Real Madrid",
		AwayTeamName: "Barcelona",

		HomeScoreFulltime:  3,
		AwayScoreFulltime:  2,
		HomePossession:     48,
		AwayPossession:     52,
		HomePassesTotal:    400,
		HomePassesAccurate: 320,
		AwayPassesTotal:    600,
		AwayPassesAccurate: 540,
	}
	if err := matchRepo.UpsertMany(t.Context(), []match.Match{m}); err != nil {
		t.Fatalf("seed match: %v", err)
	}

	events := []matchevent.Event{
		successfulPass(m.ID, 65, 100, 200, 60, 40, 40),
		successfulPass(m.ID, 65, 200, 100, 120, 60, 60),
		{MatchID: m.ID, TeamID: 52, PlayerID: 300, Type: matchevent.TypeGoal, Minute: 10, IsShot: true, IsGoal: true},
	}
	if err := eventRepo.ReplaceByMatch(t.Context(), m.ID, events); err != nil {
		t.Fatalf("seed events: %v", err)
	}
	return m
}

func TestReportService_GetMatchReport(t *testing.T) {
	svc, matchRepo, eventRepo := newReportFixture(t)
	m := seedReportMatch(t, matchRepo, eventRepo)

	report, err := svc.GetMatchReport(t.Context(), m.ID)
	if err != nil {
		t.Fatalf("get match report failed: %v", err)
	}

	if report.Match.Opponent != "Real Madrid" {
		t.Fatalf("opponent = %q, want the non-club side", report.Match.Opponent)
	}
	if report.Stats.Home.Possession+report.Stats.Away.Possession != 100 {
		t.Fatalf("possession shares must sum to 100: %+v", report.Stats)
	}
	if len(report.AwayNetwork.Averages) != 2 {
		t.Fatalf("away network should have both passers: %+v", report.AwayNetwork)
	}
	if len(report.HomeShots) != 1 || report.HomeShots[0].Type != matchevent.TypeGoal {
		t.Fatalf("home shots = %+v", report.HomeShots)
	}
	if len(report.Momentum.Goals) != 1 {
		t.Fatalf("momentum goals = %+v", report.Momentum.Goals)
	}
}

func TestReportService_GetMatchReport_NotFound(t *testing.T) {
	svc, _, _ := newReportFixture(t)

	if _, err := svc.GetMatchReport(t.Context(), 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReportService_GetMatchReport_ServesFromCache(t *testing.T) {
	svc, matchRepo, eventRepo := newReportFixture(t)
	m := seedReportMatch(t, matchRepo, eventRepo)

	first, err := svc.GetMatchReport(t.Context(), m.ID)
	if err != nil {
		t.Fatalf("first fetch failed: %v", err)
	}

	// Mutate the store; the cached report must not see it until invalidated.
	if err := eventRepo.ReplaceByMatch(t.Context(), m.ID, nil); err != nil {
		t.Fatalf("clear events: %v", err)
	}

	cached, err := svc.GetMatchReport(t.Context(), m.ID)
	if err != nil {
		t.Fatalf("cached fetch failed: %v", err)
	}
	if len(cached.AwayNetwork.Averages) != len(first.AwayNetwork.Averages) {
		t.Fatalf("cached report should match first build")
	}

	svc.InvalidateMatch(t.Context(), m.ID)
	rebuilt, err := svc.GetMatchReport(t.Context(), m.ID)
	if err != nil {
		t.Fatalf("rebuild failed: %v", err)
	}
	if len(rebuilt.AwayNetwork.Averages) != 0 {
		t.Fatalf("invalidate should force a rebuild: %+v", rebuilt.AwayNetwork)
	}
}

func TestReportService_ListMatches(t *testing.T) {
	svc, matchRepo, eventRepo := newReportFixture(t)
	seedReportMatch(t, matchRepo, eventRepo)

	later := match.Match{
		ID: 1821400, Competition: match.CompetitionChampionsLeague,
		Date:       mustParseDate(t, "2024-05-01T21:00:00"),
		HomeTeamID: 65, AwayTeamID: 90,
		HomeTeamName: "Barcelona", AwayTeamName: "PSG",
	}
	if err := matchRepo.UpsertMany(t.Context(), []match.Match{later}); err != nil {
		t.Fatalf("seed match: %v", err)
	}

	summaries, err := svc.ListMatches(t.Context())
	if err != nil {
		t.Fatalf("list matches failed: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(summaries))
	}
	if summaries[0].MatchID != later.ID {
		t.Fatalf("newest match must come first: %+v", summaries)
	}
	if summaries[0].Opponent != "PSG" {
		t.Fatalf("opponent = %q, want PSG", summaries[0].Opponent)
	}
}
