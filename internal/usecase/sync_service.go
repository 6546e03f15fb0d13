package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/external/whoscored"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/domain/match"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/domain/rawdata"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/platform/logging"
)

const (
	syncStatusSuccess = "success"
	syncStatusFailed  = "failed"
	syncStatusSkipped = "skipped"

	defaultSyncWorkers = 4
	maxSyncWorkers     = 16
)

// MatchProvider abstracts the scraping collaborator.
type MatchProvider interface {
	ListFixtures(ctx context.Context) ([]whoscored.FixtureRef, error)
	FetchMatch(ctx context.Context, ref whoscored.FixtureRef) (whoscored.RawMatch, error)
}

type SyncInput struct {
	MaxWorkers int
	// Force re-fetches fixtures already present in the store.
	Force bool
	// DryRun fetches and normalizes but skips all writes.
	DryRun bool
}

type SyncResult struct {
	FixtureCount int              `json:"fixture_count"`
	TaskCount    int              `json:"task_count"`
	SuccessCount int              `json:"success_count"`
	FailedCount  int              `json:"failed_count"`
	SkippedCount int              `json:"skipped_count"`
	WorkerCount  int              `json:"worker_count"`
	Tasks        []SyncTaskResult `json:"tasks"`
}

type SyncTaskResult struct {
	MatchID     int64  `json:"match_id"`
	Competition string `json:"competition"`
	Status      string `json:"status"`
	Events      int    `json:"events"`
	DurationMs  int64  `json:"duration_ms"`
	Message     string `json:"message,omitempty"`
}

// SyncService discovers fixtures, fetches the ones the store is missing and
// runs each through normalize, link and ingest. Per-match failures are
// contained; the batch continues for other matches.
type SyncService struct {
	provider       MatchProvider
	matchRepo      match.Repository
	normalizer     *NormalizerService
	linker         *LinkerService
	ingestion      *IngestionService
	defaultWorkers int
	logger         *logging.Logger
}

// NewSyncService builds the orchestrator. defaultWorkers is the pool size
// used when a sync request does not ask for one; values below 1 fall back
// to the package default.
func NewSyncService(
	provider MatchProvider,
	matchRepo match.Repository,
	normalizer *NormalizerService,
	linker *LinkerService,
	ingestion *IngestionService,
	defaultWorkers int,
	logger *logging.Logger,
) *SyncService {
	if logger == nil {
		logger = logging.Default()
	}
	if defaultWorkers < 1 {
		defaultWorkers = defaultSyncWorkers
	}
	return &SyncService{
		provider:       provider,
		matchRepo:      matchRepo,
		normalizer:     normalizer,
		linker:         linker,
		ingestion:      ingestion,
		defaultWorkers: defaultWorkers,
		logger:         logger,
	}
}

// Sync runs one orchestration pass on a worker pool and reports per-task
// status rows.
func (s *SyncService) Sync(ctx context.Context, input SyncInput) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "SyncService.Sync")
	defer span.End()

	refs, err := s.provider.ListFixtures(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("%w: list fixtures: %v", ErrDependencyUnavailable, err)
	}

	existing, err := s.existingMatchIDs(ctx)
	if err != nil {
		return SyncResult{}, err
	}

	tasks := make([]whoscored.FixtureRef, 0, len(refs))
	skippedExisting := 0
	for _, ref := range refs {
		if _, ok := existing[ref.MatchID]; ok && !input.Force {
			skippedExisting++
			continue
		}
		tasks = append(tasks, ref)
	}

	workerCount := normalizeSyncWorkerCount(input.MaxWorkers, s.defaultWorkers, len(tasks))
	result := SyncResult{
		FixtureCount: len(refs),
		TaskCount:    len(tasks),
		SkippedCount: skippedExisting,
		WorkerCount:  workerCount,
		Tasks:        make([]SyncTaskResult, 0, len(tasks)),
	}
	if len(tasks) == 0 {
		s.logger.InfoContext(ctx, "sync found nothing to fetch", "fixtures", len(refs), "already_stored", skippedExisting)
		return result, nil
	}

	rows := make(chan SyncTaskResult, len(tasks))

	var successCount atomic.Int32
	var failedCount atomic.Int32

	workerPool, err := ants.NewPool(workerCount)
	if err != nil {
		return SyncResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	var workers sync.WaitGroup
	for _, ref := range tasks {
		ref := ref
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := SyncTaskResult{MatchID: ref.MatchID, Competition: ref.Competition}

			events, taskErr := s.runSyncTask(ctx, ref, input.DryRun)
			row.Events = events
			row.DurationMs = time.Since(start).Milliseconds()
			if taskErr != nil {
				row.Status = syncStatusFailed
				row.Message = taskErr.Error()
				failedCount.Add(1)
				s.logger.WarnContext(ctx, "sync task failed", "match_id", ref.MatchID, "error", taskErr)
			} else {
				row.Status = syncStatusSuccess
				successCount.Add(1)
			}

			rows <- row
		}); err != nil {
			workers.Done()
			return SyncResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(rows)

	for row := range rows {
		result.Tasks = append(result.Tasks, row)
	}
	sort.SliceStable(result.Tasks, func(i, j int) bool {
		return result.Tasks[i].MatchID < result.Tasks[j].MatchID
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())

	s.logger.InfoContext(ctx, "sync finished",
		"fixtures", result.FixtureCount,
		"tasks", result.TaskCount,
		"success", result.SuccessCount,
		"failed", result.FailedCount,
		"skipped", result.SkippedCount,
	)
	return result, nil
}

func (s *SyncService) runSyncTask(ctx context.Context, ref whoscored.FixtureRef, dryRun bool) (int, error) {
	raw, err := s.provider.FetchMatch(ctx, ref)
	if err != nil {
		return 0, fmt.Errorf("fetch: %w", err)
	}

	one, err := s.normalizer.NormalizeMatch(ctx, raw)
	if err != nil {
		return 0, fmt.Errorf("normalize: %w", err)
	}

	linked, err := s.linker.Link(ctx, one.Events)
	if err != nil {
		return 0, fmt.Errorf("link: %w", err)
	}

	if dryRun {
		return len(linked), nil
	}

	batch := NormalizedBatch{
		Matches: []match.Match{one.Match},
		Teams:   one.Teams,
		Players: one.Players,
		Events:  linked,
		Raw:     []rawdata.Payload{one.Raw},
	}
	if err := s.ingestion.IngestBatch(ctx, batch); err != nil {
		return 0, fmt.Errorf("ingest: %w", err)
	}
	return len(linked), nil
}

func (s *SyncService) existingMatchIDs(ctx context.Context) (map[int64]struct{}, error) {
	ids, err := s.matchRepo.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stored match ids: %w", err)
	}
	existing := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		existing[id] = struct{}{}
	}
	return existing, nil
}

func normalizeSyncWorkerCount(requested, fallback, taskCount int) int {
	count := requested
	if count < 1 {
		count = fallback
	}
	if count < 1 {
		count = defaultSyncWorkers
	}
	if count > maxSyncWorkers {
		count = maxSyncWorkers
	}
	if taskCount > 0 && count > taskCount {
		count = taskCount
	}
	if count < 1 {
		count = 1
	}
	return count
}
