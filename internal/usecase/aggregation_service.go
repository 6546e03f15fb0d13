package usecase

import (
	"context"
	"math"
	"sort"

	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/domain/matchevent"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/domain/playermatch"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/platform/logging"
)

// defaultPairMinCount hides low-frequency pass pairs from the network. It is
// a display-density control, not a correctness constraint.
const defaultPairMinCount = 4

type AggregationConfig struct {
	PairMinCount int
}

// AggregationService turns one team's enriched events into the tables the
// pass-network and shot-map views are drawn from.
type AggregationService struct {
	cfg    AggregationConfig
	logger *logging.Logger
}

func NewAggregationService(cfg AggregationConfig, logger *logging.Logger) *AggregationService {
	if cfg.PairMinCount < 1 {
		cfg.PairMinCount = defaultPairMinCount
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &AggregationService{cfg: cfg, logger: logger}
}

// PlayerAverage is one node of the pass network: a player's mean touch
// location over their first-phase successful passes.
type PlayerAverage struct {
	PlayerID int64
	ShirtNo  int
	X        float64
	Y        float64
	Count    int
}

// PassPair is one edge of the pass network with plotting coordinates taken
// from both endpoints' averages.
type PassPair struct {
	Passer           int64
	Recipient        int64
	Count            int
	PasserShirtNo    int
	RecipientShirtNo int
	StartX           float64
	StartY           float64
	EndX             float64
	EndY             float64
}

// PassNetwork is the full derived table set for one team in one match.
type PassNetwork struct {
	MatchID  int64
	TeamID   int64
	Averages []PlayerAverage
	Pairs    []PassPair
}

// BuildPassNetwork aggregates one team's first-phase successful passes into
// per-player averages and a pairwise pass-count table.
//
// The first-phase cutoff is the team's first substitution, extended through
// half-time when that substitution lands in the first half. Pass networks
// are conventionally drawn from the most stable XI, and truncating before
// half-time would throw away a full half of data for an early change. A
// match with no substitution keeps every event.
func (s *AggregationService) BuildPassNetwork(ctx context.Context, events []matchevent.Event, players []playermatch.Stat, matchID, teamID int64) (PassNetwork, error) {
	_, span := startUsecaseSpan(ctx, "AggregationService.BuildPassNetwork")
	defer span.End()

	cutoff := firstPhaseCutoff(events, matchID, teamID)

	type position struct {
		sumX, sumY float64
		count      int
	}
	positions := make(map[int64]*position)
	pairCounts := make(map[[2]int64]int)

	for _, e := range events {
		if e.MatchID != matchID || e.TeamID != teamID {
			continue
		}
		if e.TotalSeconds >= cutoff {
			continue
		}
		if !e.IsSuccessfulPass() {
			continue
		}

		pos := positions[e.PlayerID]
		if pos == nil {
			pos = &position{}
			positions[e.PlayerID] = pos
		}
		pos.sumX += e.X
		pos.sumY += e.Y
		pos.count++

		if e.Recipient != nil {
			pairCounts[[2]int64{e.PlayerID, *e.Recipient}]++
		}
	}

	shirts := shirtNumbers(players, matchID)

	averages := make([]PlayerAverage, 0, len(positions))
	averageByPlayer := make(map[int64]PlayerAverage, len(positions))
	for playerID, pos := range positions {
		avg := PlayerAverage{
			PlayerID: playerID,
			ShirtNo:  shirts[playerID],
			X:        pos.sumX / float64(pos.count),
			Y:        pos.sumY / float64(pos.count),
			Count:    pos.count,
		}
		averages = append(averages, avg)
		averageByPlayer[playerID] = avg
	}
	sort.Slice(averages, func(i, j int) bool { return averages[i].PlayerID < averages[j].PlayerID })

	pairs := make([]PassPair, 0, len(pairCounts))
	for key, count := range pairCounts {
		if count < s.cfg.PairMinCount {
			continue
		}
		passerAvg, ok := averageByPlayer[key[0]]
		if !ok {
			continue
		}
		recipientAvg, ok := averageByPlayer[key[1]]
		if !ok {
			// The recipient made no first-phase pass of their own, so
			// there is no node to anchor the edge to.
			continue
		}
		pairs = append(pairs, PassPair{
			Passer:           key[0],
			Recipient:        key[1],
			Count:            count,
			PasserShirtNo:    passerAvg.ShirtNo,
			RecipientShirtNo: recipientAvg.ShirtNo,
			StartX:           passerAvg.X,
			StartY:           passerAvg.Y,
			EndX:             recipientAvg.X,
			EndY:             recipientAvg.Y,
		})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Passer != pairs[j].Passer {
			return pairs[i].Passer < pairs[j].Passer
		}
		return pairs[i].Recipient < pairs[j].Recipient
	})

	return PassNetwork{MatchID: matchID, TeamID: teamID, Averages: averages, Pairs: pairs}, nil
}

// ShotEvents returns one team's shot events for the shot map, in linker
// order.
func (s *AggregationService) ShotEvents(events []matchevent.Event, matchID, teamID int64) []matchevent.Event {
	var shots []matchevent.Event
	for _, e := range events {
		if e.MatchID != matchID || e.TeamID != teamID {
			continue
		}
		if e.IsShot || matchevent.IsShotType(e.Type) {
			shots = append(shots, e)
		}
	}
	return shots
}

// firstPhaseCutoff finds the elapsed-time key of the team's first
// substitution, extended through half-time for first-half changes.
func firstPhaseCutoff(events []matchevent.Event, matchID, teamID int64) int {
	firstSub := math.MaxInt
	for _, e := range events {
		if e.MatchID != matchID || e.TeamID != teamID {
			continue
		}
		if e.Type == matchevent.TypeSubstitutionOn && e.TotalSeconds < firstSub {
			firstSub = e.TotalSeconds
		}
	}
	if firstSub == math.MaxInt {
		return math.MaxInt
	}
	if firstSub < matchevent.HalfTimeSeconds {
		return matchevent.HalfTimeSeconds
	}
	return firstSub
}

func shirtNumbers(players []playermatch.Stat, matchID int64) map[int64]int {
	shirts := make(map[int64]int, len(players))
	for _, p := range players {
		if p.MatchID != matchID {
			continue
		}
		playerID, err := playermatch.SplitPlayerID(p.ID)
		if err != nil {
			continue
		}
		shirts[playerID] = p.ShirtNo
	}
	return shirts
}
