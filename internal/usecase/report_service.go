package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/sourcegraph/conc/pool"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/domain/match"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/domain/matchevent"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/domain/playermatch"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/platform/cache"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/platform/logging"
)

// DefaultClubName anchors the opponent column of the match list.
const DefaultClubName = "Barcelona"

type ReportConfig struct {
	ClubName string
	CacheTTL time.Duration
}

// ReportService assembles everything one rendered match report consumes:
// the match row, comparative stats, both pass networks, the shot events and
// the momentum series. Reports are immutable once a match is ingested, so
// they are served from a TTL cache.
type ReportService struct {
	cfg         ReportConfig
	matchRepo   match.Repository
	eventRepo   matchevent.Repository
	playerRepo  playermatch.Repository
	aggregation *AggregationService
	metrics     *MetricsService
	cache       *cache.Store
	logger      *logging.Logger
}

func NewReportService(
	cfg ReportConfig,
	matchRepo match.Repository,
	eventRepo matchevent.Repository,
	playerRepo playermatch.Repository,
	aggregation *AggregationService,
	metrics *MetricsService,
	reportCache *cache.Store,
	logger *logging.Logger,
) *ReportService {
	if cfg.ClubName == "" {
		cfg.ClubName = DefaultClubName
	}
	if reportCache == nil {
		reportCache = cache.NewStore(cfg.CacheTTL)
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ReportService{
		cfg:         cfg,
		matchRepo:   matchRepo,
		eventRepo:   eventRepo,
		playerRepo:  playerRepo,
		aggregation: aggregation,
		metrics:     metrics,
		cache:       reportCache,
		logger:      logger,
	}
}

// MatchSummary is one row of the match list.
type MatchSummary struct {
	MatchID     int64     `json:"match_id"`
	Competition string    `json:"competition"`
	Date        time.Time `json:"date"`
	HomeTeam    string    `json:"home_team"`
	AwayTeam    string    `json:"away_team"`
	HomeScore   int       `json:"home_score"`
	AwayScore   int       `json:"away_score"`
	Opponent    string    `json:"opponent"`
}

// MatchReport is the full derived table set for one match.
type MatchReport struct {
	Match       MatchSummary       `json:"match"`
	Stats       ComparativeStats   `json:"stats"`
	HomeNetwork PassNetwork        `json:"home_network"`
	AwayNetwork PassNetwork        `json:"away_network"`
	HomeShots   []matchevent.Event `json:"home_shots"`
	AwayShots   []matchevent.Event `json:"away_shots"`
	Momentum    MomentumSeries     `json:"momentum"`
}

// ListMatches returns every stored match, newest first.
func (s *ReportService) ListMatches(ctx context.Context) ([]MatchSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "ReportService.ListMatches")
	defer span.End()

	cached, err := s.cache.GetOrCompute(ctx, "reports:list", func() (any, error) {
		matches, err := s.matchRepo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list matches: %w", err)
		}
		summaries := make([]MatchSummary, 0, len(matches))
		for _, m := range matches {
			summaries = append(summaries, s.summarize(m))
		}
		sort.Slice(summaries, func(i, j int) bool { return summaries[i].Date.After(summaries[j].Date) })
		return summaries, nil
	})
	if err != nil {
		return nil, err
	}
	summaries, ok := cached.([]MatchSummary)
	if !ok {
		return nil, fmt.Errorf("unexpected cache payload type %T", cached)
	}
	return summaries, nil
}

// GetMatchReport assembles one match report, fanning the two sides out in
// parallel.
func (s *ReportService) GetMatchReport(ctx context.Context, matchID int64) (MatchReport, error) {
	ctx, span := startUsecaseSpan(ctx, "ReportService.GetMatchReport")
	defer span.End()

	if matchID <= 0 {
		return MatchReport{}, fmt.Errorf("%w: match id", ErrInvalidInput)
	}

	cached, err := s.cache.GetOrCompute(ctx, "reports:match:"+strconv.FormatInt(matchID, 10), func() (any, error) {
		return s.buildReport(ctx, matchID)
	})
	if err != nil {
		return MatchReport{}, err
	}
	report, ok := cached.(MatchReport)
	if !ok {
		return MatchReport{}, fmt.Errorf("unexpected cache payload type %T", cached)
	}
	return report, nil
}

func (s *ReportService) buildReport(ctx context.Context, matchID int64) (MatchReport, error) {
	m, found, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return MatchReport{}, fmt.Errorf("get match: %w", err)
	}
	if !found {
		return MatchReport{}, fmt.Errorf("%w: match %d", ErrNotFound, matchID)
	}

	events, err := s.eventRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return MatchReport{}, fmt.Errorf("list events: %w", err)
	}
	players, err := s.playerRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return MatchReport{}, fmt.Errorf("list players: %w", err)
	}

	report := MatchReport{
		Match: s.summarize(m),
		Stats: s.metrics.Comparative(ctx, m),
	}

	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		network, err := s.aggregation.BuildPassNetwork(ctx, events, players, matchID, m.HomeTeamID)
		if err != nil {
			return fmt.Errorf("home pass network: %w", err)
		}
		report.HomeNetwork = network
		return nil
	})
	p.Go(func(ctx context.Context) error {
		network, err := s.aggregation.BuildPassNetwork(ctx, events, players, matchID, m.AwayTeamID)
		if err != nil {
			return fmt.Errorf("away pass network: %w", err)
		}
		report.AwayNetwork = network
		return nil
	})
	p.Go(func(ctx context.Context) error {
		report.Momentum = s.metrics.Momentum(ctx, events, m)
		return nil
	})
	if err := p.Wait(); err != nil {
		return MatchReport{}, err
	}

	report.HomeShots = s.aggregation.ShotEvents(events, matchID, m.HomeTeamID)
	report.AwayShots = s.aggregation.ShotEvents(events, matchID, m.AwayTeamID)
	return report, nil
}

func (s *ReportService) summarize(m match.Match) MatchSummary {
	return MatchSummary{
		MatchID:     m.ID,
		Competition: m.Competition,
		Date:        m.Date,
		HomeTeam:    m.HomeTeamName,
		AwayTeam:    m.AwayTeamName,
		HomeScore:   m.HomeScoreFulltime,
		AwayScore:   m.AwayScoreFulltime,
		Opponent:    m.Opponent(s.cfg.ClubName),
	}
}

// InvalidateMatch clears cached reports after a re-ingest.
func (s *ReportService) InvalidateMatch(ctx context.Context, matchID int64) {
	s.cache.Delete(ctx, "reports:match:"+strconv.FormatInt(matchID, 10))
	s.cache.Delete(ctx, "reports:list")
}

// InvalidateAll clears every cached report, used after a batch sync.
func (s *ReportService) InvalidateAll(ctx context.Context) {
	s.cache.DeletePrefix(ctx, "reports:")
}
