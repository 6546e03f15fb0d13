package usecase

import (
	"context"
	"fmt"

	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/domain/match"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/domain/matchevent"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/domain/playermatch"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/domain/rawdata"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/domain/team"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/platform/logging"
)

// IngestionService writes one fully normalized batch to the store. The whole
// batch is validated in memory first so a validation failure leaves no
// partial writes.
type IngestionService struct {
	matchRepo  match.Repository
	teamRepo   team.Repository
	playerRepo playermatch.Repository
	eventRepo  matchevent.Repository
	rawRepo    rawdata.Repository
	logger     *logging.Logger
}

func NewIngestionService(
	matchRepo match.Repository,
	teamRepo team.Repository,
	playerRepo playermatch.Repository,
	eventRepo matchevent.Repository,
	rawRepo rawdata.Repository,
	logger *logging.Logger,
) *IngestionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &IngestionService{
		matchRepo:  matchRepo,
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		eventRepo:  eventRepo,
		rawRepo:    rawRepo,
		logger:     logger,
	}
}

// IngestBatch validates then persists a batch. Matches and teams use
// idempotent upserts, events replace any previous rows for their match, so
// re-ingesting the same fixture is safe.
func (s *IngestionService) IngestBatch(ctx context.Context, batch NormalizedBatch) error {
	ctx, span := startUsecaseSpan(ctx, "IngestionService.IngestBatch")
	defer span.End()

	if err := validateBatch(batch); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(batch.Matches) == 0 {
		s.logger.DebugContext(ctx, "ingest skipped, empty batch")
		return nil
	}

	if err := s.matchRepo.UpsertMany(ctx, batch.Matches); err != nil {
		return fmt.Errorf("upsert matches: %w", err)
	}
	if err := s.teamRepo.UpsertMany(ctx, batch.Teams); err != nil {
		return fmt.Errorf("upsert teams: %w", err)
	}
	if len(batch.Players) > 0 {
		if err := s.playerRepo.InsertMany(ctx, batch.Players); err != nil {
			return fmt.Errorf("insert players: %w", err)
		}
	}

	for matchID, events := range eventsByMatch(batch.Events) {
		if err := s.eventRepo.ReplaceByMatch(ctx, matchID, events); err != nil {
			return fmt.Errorf("replace events match_id=%d: %w", matchID, err)
		}
	}

	if len(batch.Raw) > 0 {
		if err := s.rawRepo.UpsertMany(ctx, batch.Raw); err != nil {
			return fmt.Errorf("upsert raw payloads: %w", err)
		}
	}

	s.logger.InfoContext(ctx, "batch ingested",
		"matches", len(batch.Matches),
		"teams", len(batch.Teams),
		"players", len(batch.Players),
		"events", len(batch.Events),
	)
	return nil
}

func validateBatch(batch NormalizedBatch) error {
	for _, m := range batch.Matches {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("match %d: %w", m.ID, err)
		}
	}
	for _, t := range batch.Teams {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("team %d: %w", t.ID, err)
		}
	}
	for _, p := range batch.Players {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("player %s: %w", p.ID, err)
		}
	}
	for _, e := range batch.Events {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("event %s: %w", e.ID, err)
		}
	}
	return nil
}

func eventsByMatch(events []matchevent.Event) map[int64][]matchevent.Event {
	grouped := make(map[int64][]matchevent.Event)
	for _, e := range events {
		grouped[e.MatchID] = append(grouped[e.MatchID], e)
	}
	return grouped
}
