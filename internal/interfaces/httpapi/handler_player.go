package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/fpl-data-service/internal/usecase"
)

const defaultSearchLimit = 10

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	query := r.URL.Query()

	var maxCost *float64
	if raw := strings.TrimSpace(query.Get("max_cost")); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: max_cost must be a number", usecase.ErrInvalidInput))
			return
		}
		maxCost = &parsed
	}

	players, err := h.queryService.ListPlayers(ctx, maxCost, query.Get("position"))
	if err != nil {
		h.logger.WarnContext(ctx, "list players failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, players)
}

func (h *Handler) SearchPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SearchPlayers")
	defer span.End()

	query := r.URL.Query()
	limit, err := parseLimitParam(query.Get("limit"), defaultSearchLimit)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	players, err := h.queryService.SearchPlayers(ctx, usecase.PlayerSearchInput{
		Name:     query.Get("name"),
		Team:     query.Get("team"),
		Position: query.Get("position"),
		Filters:  query["filter"],
		SortBy:   query.Get("sort_by"),
		Limit:    limit,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "search players failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, players)
}

func (h *Handler) ListTopPerformers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTopPerformers")
	defer span.End()

	query := r.URL.Query()
	limit, err := parseLimitParam(query.Get("limit"), defaultSearchLimit)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	players, err := h.queryService.TopPerformers(ctx, query.Get("metric"), limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list top performers failed", "metric", query.Get("metric"), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, players)
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayer")
	defer span.End()

	playerID, err := parseIntPathValue(r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.queryService.GetPlayer(ctx, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "get player failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, item)
}

func (h *Handler) GetPlayerContext(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerContext")
	defer span.End()

	playerID, err := parseIntPathValue(r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	detail, err := h.queryService.GetPlayerDetail(ctx, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "get player context failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, detail)
}

// parseLimitParam treats an absent parameter as the route default and an
// explicit zero as "no limit".
func parseLimitParam(raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, fmt.Errorf("%w: limit must be a non-negative integer", usecase.ErrInvalidInput)
	}
	return limit, nil
}

func parseIntPathValue(r *http.Request, key string) (int, error) {
	raw := strings.TrimSpace(r.PathValue(key))
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", usecase.ErrInvalidInput, key, raw)
	}
	return value, nil
}
