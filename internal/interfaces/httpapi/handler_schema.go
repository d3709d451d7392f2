package httpapi

import (
	"net/http"

	"github.com/riskibarqy/fpl-data-service/internal/usecase"
)

func (h *Handler) GetEntitySchema(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetEntitySchema")
	defer span.End()

	entity := r.PathValue("entity")
	schema, err := usecase.EntitySchema(entity)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, entitySchemaDTO{
		Entity: entity,
		Fields: schema,
	})
}

type entitySchemaDTO struct {
	Entity string            `json:"entity"`
	Fields map[string]string `json:"fields"`
}
