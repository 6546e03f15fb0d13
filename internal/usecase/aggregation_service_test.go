package usecase

import (
	"testing"

	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/domain/matchevent"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/domain/playermatch"
)

func successfulPass(matchID, teamID, passer, recipient int64, totalSeconds int, x, y float64) matchevent.Event {
	e := matchevent.Event{
		MatchID:      matchID,
		TeamID:       teamID,
		PlayerID:     passer,
		Type:         matchevent.TypePass,
		Outcome:      matchevent.OutcomeSuccessful,
		X:            x,
		Y:            y,
		TotalSeconds: totalSeconds,
	}
	e.Passer = &passer
	if recipient > 0 {
		e.Recipient = &recipient
	}
	return e
}

func repeatPasses(matchID, teamID, passer, recipient int64, n, startSeconds int) []matchevent.Event {
	var out []matchevent.Event
	for i := 0; i < n; i++ {
		out = append(out, successfulPass(matchID, teamID, passer, recipient, startSeconds+i*10, 50, 50))
	}
	return out
}

func rosterFor(matchID int64, shirts map[int64]int) []playermatch.Stat {
	var out []playermatch.Stat
	for playerID, shirt := range shirts {
		out = append(out, playermatch.Stat{
			ID:       playermatch.ComposeID(playerID, matchID),
			PlayerID: playerID,
			MatchID:  matchID,
			ShirtNo:  shirt,
			TeamID:   65,
		})
	}
	return out
}

func TestAggregationService_BuildPassNetwork_Averages(t *testing.T) {
	svc := NewAggregationService(AggregationConfig{PairMinCount: 1}, nil)

	events := []matchevent.Event{
		successfulPass(1, 65, 100, 200, 10, 20, 30),
		successfulPass(1, 65, 100, 200, 20, 40, 50),
		successfulPass(1, 65, 200, 100, 30, 60, 60),
	}
	players := rosterFor(1, map[int64]int{100: 8, 200: 9})

	network, err := svc.BuildPassNetwork(t.Context(), events, players, 1, 65)
	if err != nil {
		t.Fatalf("build pass network failed: %v", err)
	}

	if len(network.Averages) != 2 {
		t.Fatalf("got %d averages, want 2", len(network.Averages))
	}
	avg := network.Averages[0]
	if avg.PlayerID != 100 || avg.X != 30 || avg.Y != 40 || avg.Count != 2 {
		t.Fatalf("player 100 average = %+v, want x=30 y=40 count=2", avg)
	}
	if avg.ShirtNo != 8 {
		t.Fatalf("shirt join failed: %+v", avg)
	}
}

func TestAggregationService_BuildPassNetwork_PairThreshold(t *testing.T) {
	svc := NewAggregationService(AggregationConfig{}, nil)

	// 100->200 three times (below threshold), 200->100 four times (kept).
	events := append(
		repeatPasses(1, 65, 100, 200, 3, 0),
		repeatPasses(1, 65, 200, 100, 4, 100)...,
	)
	players := rosterFor(1, map[int64]int{100: 8, 200: 9})

	network, err := svc.BuildPassNetwork(t.Context(), events, players, 1, 65)
	if err != nil {
		t.Fatalf("build pass network failed: %v", err)
	}

	if len(network.Pairs) != 1 {
		t.Fatalf("got %d pairs, want only the >=4 pair: %+v", len(network.Pairs), network.Pairs)
	}
	pair := network.Pairs[0]
	if pair.Passer != 200 || pair.Recipient != 100 || pair.Count != 4 {
		t.Fatalf("unexpected pair %+v", pair)
	}
	if pair.PasserShirtNo != 9 || pair.RecipientShirtNo != 8 {
		t.Fatalf("pair shirt join failed: %+v", pair)
	}
}

func TestAggregationService_BuildPassNetwork_FirstPhaseCutoff(t *testing.T) {
	t.Run("first-half substitution extends through half-time", func(t *testing.T) {
		svc := NewAggregationService(AggregationConfig{PairMinCount: 1}, nil)

		sub := matchevent.Event{
			MatchID: 1, TeamID: 65, PlayerID: 900,
			Type: matchevent.TypeSubstitutionOn, TotalSeconds: 600,
		}
		events := []matchevent.Event{
			sub,
			successfulPass(1, 65, 100, 200, 1200, 50, 50),  // before half-time, kept
			successfulPass(1, 65, 100, 200, 2699, 50, 50),  // just inside half-time, kept
			successfulPass(1, 65, 100, 200, 3000, 50, 50),  // second half, cut
		}
		players := rosterFor(1, map[int64]int{100: 8, 200: 9})

		network, err := svc.BuildPassNetwork(t.Context(), events, players, 1, 65)
		if err != nil {
			t.Fatalf("build pass network failed: %v", err)
		}
		if len(network.Averages) != 1 || network.Averages[0].Count != 2 {
			t.Fatalf("expected 2 first-phase passes, got %+v", network.Averages)
		}
	})

	t.Run("second-half substitution cuts at the substitution", func(t *testing.T) {
		svc := NewAggregationService(AggregationConfig{PairMinCount: 1}, nil)

		sub := matchevent.Event{
			MatchID: 1, TeamID: 65, PlayerID: 900,
			Type: matchevent.TypeSubstitutionOn, TotalSeconds: 3600,
		}
		events := []matchevent.Event{
			sub,
			successfulPass(1, 65, 100, 200, 3000, 50, 50), // before the sub, kept
			successfulPass(1, 65, 100, 200, 3700, 50, 50), // after the sub, cut
		}
		players := rosterFor(1, map[int64]int{100: 8, 200: 9})

		network, err := svc.BuildPassNetwork(t.Context(), events, players, 1, 65)
		if err != nil {
			t.Fatalf("build pass network failed: %v", err)
		}
		if len(network.Averages) != 1 || network.Averages[0].Count != 1 {
			t.Fatalf("expected 1 first-phase pass, got %+v", network.Averages)
		}
	})

	t.Run("no substitution keeps the full match", func(t *testing.T) {
		svc := NewAggregationService(AggregationConfig{PairMinCount: 1}, nil)

		events := []matchevent.Event{
			successfulPass(1, 65, 100, 200, 100, 50, 50),
			successfulPass(1, 65, 100, 200, 5000, 50, 50),
		}
		players := rosterFor(1, map[int64]int{100: 8, 200: 9})

		network, err := svc.BuildPassNetwork(t.Context(), events, players, 1, 65)
		if err != nil {
			t.Fatalf("build pass network failed: %v", err)
		}
		if len(network.Averages) != 1 || network.Averages[0].Count != 2 {
			t.Fatalf("expected both passes kept, got %+v", network.Averages)
		}
	})
}

func TestAggregationService_BuildPassNetwork_IgnoresOtherTeams(t *testing.T) {
	svc := NewAggregationService(AggregationConfig{PairMinCount: 1}, nil)

	events := []matchevent.Event{
		successfulPass(1, 65, 100, 200, 10, 50, 50),
		successfulPass(1, 52, 300, 400, 20, 50, 50),
		successfulPass(2, 65, 500, 600, 30, 50, 50),
	}
	players := rosterFor(1, map[int64]int{100: 8, 200: 9})

	network, err := svc.BuildPassNetwork(t.Context(), events, players, 1, 65)
	if err != nil {
		t.Fatalf("build pass network failed: %v", err)
	}
	if len(network.Averages) != 1 || network.Averages[0].PlayerID != 100 {
		t.Fatalf("cross-team or cross-match rows leaked: %+v", network.Averages)
	}
}

func TestAggregationService_ShotEvents(t *testing.T) {
	svc := NewAggregationService(AggregationConfig{}, nil)

	shot := matchevent.Event{MatchID: 1, TeamID: 65, PlayerID: 100, Type: matchevent.TypeSavedShot, IsShot: true}
	goal := matchevent.Event{MatchID: 1, TeamID: 65, PlayerID: 200, Type: matchevent.TypeGoal, IsShot: true, IsGoal: true}
	pass := successfulPass(1, 65, 100, 200, 10, 50, 50)
	awayShot := matchevent.Event{MatchID: 1, TeamID: 52, PlayerID: 300, Type: matchevent.TypeMissedShots, IsShot: true}

	shots := svc.ShotEvents([]matchevent.Event{shot, goal, pass, awayShot}, 1, 65)
	if len(shots) != 2 {
		t.Fatalf("got %d shots, want 2", len(shots))
	}
	if shots[0].Type != matchevent.TypeSavedShot || shots[1].Type != matchevent.TypeGoal {
		t.Fatalf("unexpected shot subset: %+v", shots)
	}
}
