package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/external/whoscored"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/config"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/domain/match"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/domain/matchevent"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/domain/playermatch"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/domain/rawdata"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/domain/team"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/infrastructure/repository/memory"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/infrastructure/repository/mongodb"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/interfaces/httpapi"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/platform/cache"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/platform/logging"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/platform/resilience"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/usecase"
)

type repositories struct {
	matches match.Repository
	teams   team.Repository
	players playermatch.Repository
	events  matchevent.Repository
	raw     rawdata.Repository
}

// NewHTTPServer wires the whole service and returns the server together with
// a cleanup func that releases the backing store.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos, closeStore, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("build repositories: %w", err)
	}

	provider := whoscored.NewClient(whoscored.ClientConfig{
		BaseURL:      cfg.WhoscoredBaseURL,
		FixturesPath: cfg.WhoscoredFixturesPath,
		Timeout:      cfg.WhoscoredTimeout,
		MaxRetries:   cfg.WhoscoredMaxRetries,
		MaxInFlight:  cfg.WhoscoredMaxInFlight,
		Logger:       logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.WhoscoredCircuitEnabled,
			FailureThreshold: cfg.WhoscoredCircuitFailureCount,
			OpenTimeout:      cfg.WhoscoredCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.WhoscoredCircuitHalfOpenMaxReq,
		},
	})

	normalizer := usecase.NewNormalizerService(usecase.NormalizerConfig{Strict: cfg.NormalizerStrict}, logger)
	linker := usecase.NewLinkerService(logger)
	ingestion := usecase.NewIngestionService(repos.matches, repos.teams, repos.players, repos.events, repos.raw, logger)
	syncSvc := usecase.NewSyncService(provider, repos.matches, normalizer, linker, ingestion, cfg.SyncMaxWorkers, logger)

	cacheTTL := cfg.CacheTTL
	if !cfg.CacheEnabled {
		// A nanosecond TTL makes every entry expire on the next read.
		cacheTTL = time.Nanosecond
	}
	reportSvc := usecase.NewReportService(
		usecase.ReportConfig{ClubName: cfg.ClubName, CacheTTL: cacheTTL},
		repos.matches,
		repos.events,
		repos.players,
		usecase.NewAggregationService(usecase.AggregationConfig{PairMinCount: cfg.PairMinCount}, logger),
		usecase.NewMetricsService(usecase.MetricsConfig{MomentumIntervalMinutes: cfg.MomentumInterval}, logger),
		cache.NewStore(cacheTTL),
		logger,
	)

	handler := httpapi.NewHandler(reportSvc, syncSvc, logger)
	router := httpapi.NewRouter(handler, httpapi.RouterConfig{
		Logger:              logger,
		SwaggerEnabled:      cfg.SwaggerEnabled,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		InternalJobToken:    cfg.InternalJobToken,
		CaptureRequestBody:  cfg.UptraceEnabled && cfg.UptraceCaptureRequestBody,
		RequestBodyMaxBytes: cfg.UptraceRequestBodyMaxBytes,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, closeStore, nil
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, func(context.Context) error, error) {
	if cfg.MemoryStore {
		logger.Info("using in-memory store")
		return repositories{
			matches: memory.NewMatchRepository(),
			teams:   memory.NewTeamRepository(),
			players: memory.NewPlayerMatchRepository(),
			events:  memory.NewMatchEventRepository(),
			raw:     memory.NewRawDataRepository(),
		}, func(context.Context) error { return nil }, nil
	}

	db, disconnect, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return repositories{}, nil, err
	}
	logger.Info("connected to mongodb", "database", cfg.MongoDatabase)

	return repositories{
		matches: mongodb.NewMatchRepository(db),
		teams:   mongodb.NewTeamRepository(db),
		players: mongodb.NewPlayerMatchRepository(db),
		events:  mongodb.NewMatchEventRepository(db),
		raw:     mongodb.NewRawDataRepository(db),
	}, disconnect, nil
}
