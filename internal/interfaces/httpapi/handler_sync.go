package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/fpl-data-service/internal/usecase"
)

type syncRequest struct {
	Force bool `json:"force"`
}

// RunSync refreshes the stored collections synchronously. The body is
// optional; force may also arrive as a query parameter.
func (h *Handler) RunSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSync")
	defer span.End()

	force, err := h.parseSyncRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	report, err := h.syncService.Sync(ctx, force)
	if err != nil {
		h.logger.WarnContext(ctx, "sync failed", "force", force, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}

// RunSyncJob is the scheduler-facing twin of RunSync, guarded by the
// internal job token instead of the api key.
func (h *Handler) RunSyncJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncJob")
	defer span.End()

	force, err := h.parseSyncRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	report, err := h.syncService.Sync(ctx, force)
	if err != nil {
		if errors.Is(err, usecase.ErrSyncInProgress) {
			h.logger.InfoContext(ctx, "scheduled sync skipped, another run is active")
		} else {
			h.logger.WarnContext(ctx, "scheduled sync failed", "force", force, "error", err)
		}
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}

func (h *Handler) parseSyncRequest(r *http.Request) (bool, error) {
	if raw := strings.TrimSpace(r.URL.Query().Get("force")); raw != "" {
		force, err := strconv.ParseBool(raw)
		if err != nil {
			return false, fmt.Errorf("%w: force must be a boolean, got %q", usecase.ErrInvalidInput, raw)
		}
		return force, nil
	}

	var req syncRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return req.Force, nil
}
