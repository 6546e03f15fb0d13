package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/platform/logging"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/usecase"
)

type Handler struct {
	reportService *usecase.ReportService
	syncService   *usecase.SyncService
	logger        *logging.Logger
	validator     *validator.Validate
}

func NewHandler(
	reportService *usecase.ReportService,
	syncService *usecase.SyncService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		reportService: reportService,
		syncService:   syncService,
		logger:        logger,
		validator:     validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	matches, err := h.reportService.ListMatches(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matches)
}

func (h *Handler) GetMatchReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchReport")
	defer span.End()

	matchID, err := strconv.ParseInt(strings.TrimSpace(r.PathValue("matchID")), 10, 64)
	if err != nil || matchID <= 0 {
		writeError(ctx, w, fmt.Errorf("%w: match id must be a positive integer", usecase.ErrInvalidInput))
		return
	}

	report, err := h.reportService.GetMatchReport(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match report failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}

type syncJobRequest struct {
	MaxWorkers int  `json:"max_workers" validate:"omitempty,min=1,max=16"`
	Force      bool `json:"force"`
	DryRun     bool `json:"dry_run"`
}

func (h *Handler) RunSyncJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncJob")
	defer span.End()

	req, err := decodeSyncJobRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.syncService.Sync(ctx, usecase.SyncInput{
		MaxWorkers: req.MaxWorkers,
		Force:      req.Force,
		DryRun:     req.DryRun,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "run sync job failed", "force", req.Force, "dry_run", req.DryRun, "error", err)
		writeError(ctx, w, err)
		return
	}

	if !req.DryRun && result.SuccessCount > 0 {
		h.reportService.InvalidateAll(ctx)
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func decodeSyncJobRequest(r *http.Request) (syncJobRequest, error) {
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req syncJobRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return syncJobRequest{}, nil
		}
		return syncJobRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
