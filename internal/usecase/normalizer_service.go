package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/external/whoscored"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/domain/match"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/domain/matchevent"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/domain/playermatch"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/domain/rawdata"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/domain/team"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/platform/logging"
)

// providerTimeLayout is the start-time format used inside matchCentreData.
const providerTimeLayout = "2006-01-02T15:04:05"

const rawSourceWhoscored = "whoscored"

// NormalizerConfig tunes how noisy provider data is handled. Strict fails a
// whole batch on the first uncoercible player field; lenient drops the row
// and logs a warning.
type NormalizerConfig struct {
	Strict bool
}

// NormalizerService converts decoded provider payloads into typed rows for
// the four tables. All defaulting and coercion lives here so downstream
// stages never branch on field existence.
type NormalizerService struct {
	cfg    NormalizerConfig
	logger *logging.Logger
	now    func() time.Time
}

func NewNormalizerService(cfg NormalizerConfig, logger *logging.Logger) *NormalizerService {
	if logger == nil {
		logger = logging.Default()
	}
	return &NormalizerService{cfg: cfg, logger: logger, now: time.Now}
}

// NormalizedBatch holds everything one ingestion run writes. Teams are
// deduplicated across the batch by identifier, first seen wins.
type NormalizedBatch struct {
	Matches  []match.Match
	Teams    []team.Team
	Players  []playermatch.Stat
	Events   []matchevent.Event
	Raw      []rawdata.Payload
	Failures []MatchFailure
}

// MatchFailure records one match dropped from a batch with the structural
// defect that disqualified it. The rest of the batch is unaffected.
type MatchFailure struct {
	MatchID int64
	Err     error
}

// NormalizeBatch normalizes every fetched match. Structural defects fail
// only their own match; uncoercible player fields fail the batch when the
// service is strict.
func (s *NormalizerService) NormalizeBatch(ctx context.Context, raws []whoscored.RawMatch) (NormalizedBatch, error) {
	ctx, span := startUsecaseSpan(ctx, "NormalizerService.NormalizeBatch")
	defer span.End()

	var batch NormalizedBatch
	seenTeams := make(map[int64]struct{})

	for _, raw := range raws {
		one, err := s.NormalizeMatch(ctx, raw)
		if err != nil {
			if s.cfg.Strict && isCoercionFailure(err) {
				return NormalizedBatch{}, fmt.Errorf("match_id=%d: %w", raw.MatchID, err)
			}
			s.logger.WarnContext(ctx, "match dropped from batch", "match_id", raw.MatchID, "error", err)
			batch.Failures = append(batch.Failures, MatchFailure{MatchID: raw.MatchID, Err: err})
			continue
		}

		batch.Matches = append(batch.Matches, one.Match)
		for _, t := range one.Teams {
			if _, ok := seenTeams[t.ID]; ok {
				continue
			}
			seenTeams[t.ID] = struct{}{}
			batch.Teams = append(batch.Teams, t)
		}
		batch.Players = append(batch.Players, one.Players...)
		batch.Events = append(batch.Events, one.Events...)
		batch.Raw = append(batch.Raw, one.Raw)
	}

	return batch, nil
}

// NormalizedMatch is the typed output for a single fixture.
type NormalizedMatch struct {
	Match   match.Match
	Teams   []team.Team
	Players []playermatch.Stat
	Events  []matchevent.Event
	Raw     rawdata.Payload
}

// NormalizeMatch normalizes one fixture. Missing rosters or top-level
// sections return ErrMissingKey; a bad start time returns ErrParse. Both are
// fatal for this match only.
func (s *NormalizerService) NormalizeMatch(ctx context.Context, raw whoscored.RawMatch) (NormalizedMatch, error) {
	if raw.MatchID <= 0 {
		return NormalizedMatch{}, fmt.Errorf("%w: match id", ErrInvalidInput)
	}
	data := raw.Data
	if data.Home.TeamID == 0 || data.Away.TeamID == 0 {
		return NormalizedMatch{}, fmt.Errorf("%w: home/away team section", ErrMissingKey)
	}
	if len(data.Home.Players) == 0 || len(data.Away.Players) == 0 {
		return NormalizedMatch{}, fmt.Errorf("%w: team roster", ErrMissingKey)
	}

	date, err := time.Parse(providerTimeLayout, data.StartTime)
	if err != nil {
		return NormalizedMatch{}, fmt.Errorf("%w: start time %q", ErrParse, data.StartTime)
	}

	m := match.Match{
		ID:           raw.MatchID,
		Competition:  raw.Competition,
		Date:         date,
		HomeTeamID:   data.Home.TeamID,
		AwayTeamID:   data.Away.TeamID,
		HomeTeamName: data.Home.Name,
		AwayTeamName: data.Away.Name,

		HomeScoreFulltime: scoreFulltime(data.Home.Scores),
		AwayScoreFulltime: scoreFulltime(data.Away.Scores),

		HomeShotsTotal:     int(math.Round(sumStats(data.Home.Stats, "shotsTotal"))),
		HomeShotsOnTarget:  int(math.Round(sumStats(data.Home.Stats, "shotsOnTarget"))),
		HomePossession:     sumStats(data.Home.Stats, "possession"),
		HomePassesTotal:    int(math.Round(sumStats(data.Home.Stats, "passesTotal"))),
		HomePassesAccurate: int(math.Round(sumStats(data.Home.Stats, "passesAccurate"))),
		HomeFoulsCommitted: int(math.Round(sumStats(data.Home.Stats, "foulsCommited"))),
		HomeCorners:        int(math.Round(sumStats(data.Home.Stats, "cornersTotal"))),
		HomeOffsidesCaught: int(math.Round(sumStats(data.Home.Stats, "offsidesCaught"))),

		AwayShotsTotal:     int(math.Round(sumStats(data.Away.Stats, "shotsTotal"))),
		AwayShotsOnTarget:  int(math.Round(sumStats(data.Away.Stats, "shotsOnTarget"))),
		AwayPossession:     sumStats(data.Away.Stats, "possession"),
		AwayPassesTotal:    int(math.Round(sumStats(data.Away.Stats, "passesTotal"))),
		AwayPassesAccurate: int(math.Round(sumStats(data.Away.Stats, "passesAccurate"))),
		AwayFoulsCommitted: int(math.Round(sumStats(data.Away.Stats, "foulsCommited"))),
		AwayCorners:        int(math.Round(sumStats(data.Away.Stats, "cornersTotal"))),
		AwayOffsidesCaught: int(math.Round(sumStats(data.Away.Stats, "offsidesCaught"))),
	}
	if err := m.Validate(); err != nil {
		return NormalizedMatch{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	teams := []team.Team{
		normalizeTeam(data.Home, raw.Competition),
		normalizeTeam(data.Away, raw.Competition),
	}

	players, err := s.normalizePlayers(ctx, raw, data)
	if err != nil {
		return NormalizedMatch{}, err
	}

	events := s.normalizeEvents(ctx, raw)

	return NormalizedMatch{
		Match:   m,
		Teams:   teams,
		Players: players,
		Events:  events,
		Raw:     s.archivePayload(raw),
	}, nil
}

func normalizeTeam(rt whoscored.RawTeam, competition string) team.Team {
	manager := strings.TrimSpace(rt.ManagerName)
	if manager == "" {
		manager = team.UnknownManager
	}
	return team.Team{
		ID:          rt.TeamID,
		Name:        rt.Name,
		CountryName: rt.CountryName,
		ManagerName: manager,
		Competition: competition,
	}
}

func (s *NormalizerService) normalizePlayers(ctx context.Context, raw whoscored.RawMatch, data whoscored.MatchCentreData) ([]playermatch.Stat, error) {
	sides := []whoscored.RawTeam{data.Home, data.Away}
	players := make([]playermatch.Stat, 0, len(data.Home.Players)+len(data.Away.Players))
	for _, side := range sides {
		for _, rp := range side.Players {
			shirtNo, err := coerceInt(rp.ShirtNo, 0)
			if err != nil {
				if s.cfg.Strict {
					return nil, fmt.Errorf("player_id=%d shirt_no: %w", rp.PlayerID, err)
				}
				s.logger.WarnContext(ctx, "player row dropped", "match_id", raw.MatchID, "player_id", rp.PlayerID, "field", "shirt_no", "error", err)
				continue
			}
			age, err := coerceInt(rp.Age, 0)
			if err != nil {
				if s.cfg.Strict {
					return nil, fmt.Errorf("player_id=%d age: %w", rp.PlayerID, err)
				}
				s.logger.WarnContext(ctx, "player row dropped", "match_id", raw.MatchID, "player_id", rp.PlayerID, "field", "age", "error", err)
				continue
			}

			players = append(players, playermatch.Stat{
				ID:          playermatch.ComposeID(rp.PlayerID, raw.MatchID),
				PlayerID:    rp.PlayerID,
				MatchID:     raw.MatchID,
				Name:        rp.Name,
				ShirtNo:     shirtNo,
				Position:    rp.Position,
				Age:         age,
				TeamID:      side.TeamID,
				Competition: raw.Competition,
				Stats:       rp.Stats,
			})
		}
	}
	return players, nil
}

// normalizeEvents default-fills all fourteen provider columns before any
// filtering, then drops rows with no attributable player. The drop is lossy:
// stoppage markers and the like carry no analytical value here.
func (s *NormalizerService) normalizeEvents(ctx context.Context, raw whoscored.RawMatch) []matchevent.Event {
	events := make([]matchevent.Event, 0, len(raw.Data.Events))
	dropped := 0
	for _, re := range raw.Data.Events {
		if re.PlayerID == nil || *re.PlayerID <= 0 {
			dropped++
			continue
		}

		var cardType *string
		if re.CardType != nil && re.CardType.Set {
			label := re.CardType.Label()
			cardType = &label
		}

		events = append(events, matchevent.Event{
			MatchID:     raw.MatchID,
			TeamID:      re.TeamID,
			PlayerID:    *re.PlayerID,
			Competition: raw.Competition,

			Minute:  intOrZero(re.Minute),
			Second:  intOrZero(re.Second),
			Period:  re.Period.Label(),
			Type:    re.Type.Label(),
			Outcome: re.OutcomeType.Label(),

			X:          floatOrZero(re.X),
			Y:          floatOrZero(re.Y),
			EndX:       floatOrZero(re.EndX),
			EndY:       floatOrZero(re.EndY),
			GoalMouthY: floatOrZero(re.GoalMouthY),
			GoalMouthZ: floatOrZero(re.GoalMouthZ),

			IsTouch:   boolOrFalse(re.IsTouch),
			IsShot:    boolOrFalse(re.IsShot),
			IsGoal:    boolOrFalse(re.IsGoal),
			IsOwnGoal: boolOrFalse(re.IsOwnGoal),

			CardType: cardType,
		})
	}
	if dropped > 0 {
		s.logger.DebugContext(ctx, "events without player dropped", "match_id", raw.MatchID, "count", dropped)
	}
	return events
}

func (s *NormalizerService) archivePayload(raw whoscored.RawMatch) rawdata.Payload {
	sum := sha256.Sum256([]byte(raw.Payload))
	return rawdata.Payload{
		Source:      rawSourceWhoscored,
		EntityType:  "match_centre",
		EntityKey:   strconv.FormatInt(raw.MatchID, 10),
		MatchID:     raw.MatchID,
		PayloadJSON: raw.Payload,
		PayloadHash: hex.EncodeToString(sum[:]),
		FetchedAt:   s.now().UTC(),
	}
}

// sumStats totals one minute-keyed counter map from the provider stats
// section. Absent counters sum to zero.
func sumStats(stats map[string]any, key string) float64 {
	if stats == nil {
		return 0
	}
	perMinute, ok := stats[key].(map[string]any)
	if !ok {
		return 0
	}
	var total float64
	for _, v := range perMinute {
		if n, ok := asFloat(v); ok {
			total += n
		}
	}
	return total
}

func scoreFulltime(scores map[string]any) int {
	if scores == nil {
		return 0
	}
	if n, ok := asFloat(scores["fulltime"]); ok {
		return int(math.Round(n))
	}
	return 0
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// coerceInt turns a loosely typed provider value into an int. nil uses the
// default; anything non-numeric and non-parseable wraps ErrCoercion.
func coerceInt(v any, def int) (int, error) {
	switch n := v.(type) {
	case nil:
		return def, nil
	case float64:
		return int(n), nil
	case float32:
		return int(n), nil
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case string:
		trimmed := strings.TrimSpace(n)
		if trimmed == "" {
			return def, nil
		}
		parsed, err := strconv.Atoi(trimmed)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrCoercion, n)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("%w: %T", ErrCoercion, v)
	}
}

func isCoercionFailure(err error) bool {
	return errors.Is(err, ErrCoercion)
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func boolOrFalse(v *bool) bool {
	if v == nil {
		return false
	}
	return *v
}
