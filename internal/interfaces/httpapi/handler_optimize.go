package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/fpl-data-service/internal/usecase"
)

type optimizeTeamRequest struct {
	Formation string `json:"formation" validate:"required"`
	Budget    int    `json:"budget" validate:"required,gt=0"`
}

func (h *Handler) OptimizeTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.OptimizeTeam")
	defer span.End()

	var req optimizeTeamRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.optimizeService.OptimizeTeam(ctx, usecase.OptimizeInput{
		Formation: req.Formation,
		Budget:    req.Budget,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "optimize team failed", "formation", req.Formation, "budget", req.Budget, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
