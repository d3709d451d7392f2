package httpapi

import (
	"net/http"

	"github.com/riskibarqy/fpl-data-service/internal/usecase"
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

// registerReadRoutes wires every read surface behind the stale-data refresh:
// each hit may trigger a background sync, but is always served from the store.
func registerReadRoutes(mux *http.ServeMux, handler *Handler, syncService *usecase.SyncService) {
	refresh := func(h http.HandlerFunc) http.Handler {
		return RefreshStaleData(syncService, h)
	}

	mux.Handle("GET /v1/players", refresh(handler.ListPlayers))
	mux.Handle("GET /v1/players/search", refresh(handler.SearchPlayers))
	mux.Handle("GET /v1/players/top", refresh(handler.ListTopPerformers))
	mux.Handle("GET /v1/players/{playerID}", refresh(handler.GetPlayer))
	mux.Handle("GET /v1/players/{playerID}/context", refresh(handler.GetPlayerContext))
	mux.Handle("GET /v1/teams", refresh(handler.ListTeams))
	mux.Handle("GET /v1/teams/search", refresh(handler.SearchTeams))
	mux.Handle("GET /v1/teams/{teamID}", refresh(handler.GetTeam))
	mux.Handle("GET /v1/fixtures", refresh(handler.ListFixtures))
	mux.Handle("GET /v1/gameweeks", refresh(handler.ListGameweeks))
	mux.Handle("GET /v1/gameweeks/current", refresh(handler.GetCurrentGameweek))
	mux.Handle("GET /v1/standings", refresh(handler.ListStandings))
	mux.Handle("GET /v1/schemas/{entity}", http.HandlerFunc(handler.GetEntitySchema))
	mux.Handle("POST /v1/optimize-team", refresh(handler.OptimizeTeam))
}

func registerSyncRoutes(mux *http.ServeMux, handler *Handler, syncAPIKey, internalJobToken string) {
	mux.Handle("POST /v1/sync", RequireAPIKey(syncAPIKey, http.HandlerFunc(handler.RunSync)))
	mux.Handle("POST /v1/internal/jobs/sync", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncJob)))
}
