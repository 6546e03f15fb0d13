package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/external/whoscored"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/domain/match"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/infrastructure/repository/memory"
)

type fakeProvider struct {
	fixtures []whoscored.FixtureRef
	matches  map[int64]whoscored.RawMatch
	fetched  []int64
}

func (p *fakeProvider) ListFixtures(_ context.Context) ([]whoscored.FixtureRef, error) {
	return p.fixtures, nil
}

func (p *fakeProvider) FetchMatch(_ context.Context, ref whoscored.FixtureRef) (whoscored.RawMatch, error) {
	p.fetched = append(p.fetched, ref.MatchID)
	raw, ok := p.matches[ref.MatchID]
	if !ok {
		return whoscored.RawMatch{}, fmt.Errorf("no payload for match %d", ref.MatchID)
	}
	return raw, nil
}

func mustParseDate(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(providerTimeLayout, value)
	if err != nil {
		t.Fatalf("parse date %q: %v", value, err)
	}
	return parsed
}

type syncFixture struct {
	provider  *fakeProvider
	matchRepo *memory.MatchRepository
	eventRepo *memory.MatchEventRepository
	svc       *SyncService
}

func newSyncFixture(raws ...whoscored.RawMatch) *syncFixture {
	return newSyncFixtureWorkers(0, raws...)
}

func newSyncFixtureWorkers(defaultWorkers int, raws ...whoscored.RawMatch) *syncFixture {
	provider := &fakeProvider{matches: make(map[int64]whoscored.RawMatch)}
	for _, raw := range raws {
		provider.fixtures = append(provider.fixtures, whoscored.FixtureRef{
			MatchID:     raw.MatchID,
			Competition: raw.Competition,
		})
		provider.matches[raw.MatchID] = raw
	}

	matchRepo := memory.NewMatchRepository()
	eventRepo := memory.NewMatchEventRepository()
	ingestion := NewIngestionService(
		matchRepo,
		memory.NewTeamRepository(),
		memory.NewPlayerMatchRepository(),
		eventRepo,
		memory.NewRawDataRepository(),
		nil,
	)
	svc := NewSyncService(
		provider,
		matchRepo,
		NewNormalizerService(NormalizerConfig{}, nil),
		NewLinkerService(nil),
		ingestion,
		defaultWorkers,
		nil,
	)
	return &syncFixture{provider: provider, matchRepo: matchRepo, eventRepo: eventRepo, svc: svc}
}

func TestSyncService_Sync_IngestsMissingMatches(t *testing.T) {
	f := newSyncFixture(sampleRawMatch())

	result, err := f.svc.Sync(t.Context(), SyncInput{})
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}

	if result.TaskCount != 1 || result.SuccessCount != 1 || result.FailedCount != 0 {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.Tasks[0].Status != syncStatusSuccess || result.Tasks[0].Events != 1 {
		t.Fatalf("unexpected task row %+v", result.Tasks[0])
	}

	stored, found, err := f.matchRepo.GetByID(t.Context(), 1821372)
	if err != nil || !found {
		t.Fatalf("match not stored: found=%v err=%v", found, err)
	}
	if stored.HomeTeamName != "Barcelona" {
		t.Fatalf("unexpected stored match %+v", stored)
	}

	events, err := f.eventRepo.ListByMatch(t.Context(), 1821372)
	if err != nil || len(events) != 1 {
		t.Fatalf("events not stored: %v %d", err, len(events))
	}
	if events[0].TotalSeconds != 4 || events[0].ID == "" {
		t.Fatalf("events should be linked before ingest: %+v", events[0])
	}
}

func TestSyncService_Sync_SkipsStoredMatches(t *testing.T) {
	raw := sampleRawMatch()
	f := newSyncFixture(raw)

	if err := f.matchRepo.UpsertMany(t.Context(), []match.Match{{
		ID: raw.MatchID, HomeTeamID: 65, AwayTeamID: 52,
		Date: mustParseDate(t, "2024-04-21T21:00:00"),
	}}); err != nil {
		t.Fatalf("seed match: %v", err)
	}

	result, err := f.svc.Sync(t.Context(), SyncInput{})
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}

	if result.TaskCount != 0 || result.SkippedCount != 1 {
		t.Fatalf("stored match should be skipped: %+v", result)
	}
	if len(f.provider.fetched) != 0 {
		t.Fatalf("provider should not be hit for stored matches: %v", f.provider.fetched)
	}

	forced, err := f.svc.Sync(t.Context(), SyncInput{Force: true})
	if err != nil {
		t.Fatalf("forced sync failed: %v", err)
	}
	if forced.TaskCount != 1 || forced.SuccessCount != 1 {
		t.Fatalf("force should re-fetch: %+v", forced)
	}
}

func TestSyncService_Sync_ContainsPerMatchFailures(t *testing.T) {
	good := sampleRawMatch()
	bad := sampleRawMatch()
	bad.MatchID = 1821373
	bad.Data.Home.Players = nil

	f := newSyncFixture(good, bad)

	result, err := f.svc.Sync(t.Context(), SyncInput{})
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}

	if result.SuccessCount != 1 || result.FailedCount != 1 {
		t.Fatalf("unexpected counts %+v", result)
	}
	if result.Tasks[0].MatchID != good.MatchID || result.Tasks[0].Status != syncStatusSuccess {
		t.Fatalf("good match should succeed: %+v", result.Tasks[0])
	}
	if result.Tasks[1].MatchID != bad.MatchID || result.Tasks[1].Status != syncStatusFailed {
		t.Fatalf("bad match should fail in place: %+v", result.Tasks[1])
	}

	if _, found, _ := f.matchRepo.GetByID(t.Context(), bad.MatchID); found {
		t.Fatalf("failed match must leave no writes")
	}
}

func TestSyncService_Sync_UsesConfiguredDefaultWorkers(t *testing.T) {
	good := sampleRawMatch()
	other := sampleRawMatch()
	other.MatchID = 1821373

	f := newSyncFixtureWorkers(1, good, other)

	result, err := f.svc.Sync(t.Context(), SyncInput{})
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if result.WorkerCount != 1 {
		t.Fatalf("worker count = %d, want configured default 1", result.WorkerCount)
	}

	requested, err := f.svc.Sync(t.Context(), SyncInput{MaxWorkers: 2, Force: true})
	if err != nil {
		t.Fatalf("forced sync failed: %v", err)
	}
	if requested.WorkerCount != 2 {
		t.Fatalf("worker count = %d, requested value must win over the default", requested.WorkerCount)
	}
}

func TestSyncService_Sync_DryRunWritesNothing(t *testing.T) {
	f := newSyncFixture(sampleRawMatch())

	result, err := f.svc.Sync(t.Context(), SyncInput{DryRun: true})
	if err != nil {
		t.Fatalf("dry-run sync failed: %v", err)
	}
	if result.SuccessCount != 1 || result.Tasks[0].Events != 1 {
		t.Fatalf("dry run should still normalize: %+v", result)
	}

	ids, err := f.matchRepo.ListIDs(t.Context())
	if err != nil || len(ids) != 0 {
		t.Fatalf("dry run must not write: ids=%v err=%v", ids, err)
	}
}
