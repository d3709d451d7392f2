package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/fpl-data-service/internal/domain/document"
	"github.com/riskibarqy/fpl-data-service/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fpl-data-service/internal/usecase"
)

const (
	testAPIKey   = "test-api-key"
	testJobToken = "test-job-token"
)

type stubProvider struct {
	bootstrap usecase.BootstrapData
	fixtures  []document.Document
}

func (p *stubProvider) FetchBootstrap(context.Context) (usecase.BootstrapData, error) {
	return p.bootstrap, nil
}

func (p *stubProvider) FetchFixtures(context.Context) ([]document.Document, error) {
	return p.fixtures, nil
}

func newTestRouter(t *testing.T) (http.Handler, document.Repository) {
	t.Helper()

	store := memory.NewDocumentRepository()
	queryService := usecase.NewQueryService(store, nil, nil)
	optimizeService := usecase.NewOptimizeService(store, nil)
	syncService := usecase.NewSyncService(store, &stubProvider{}, nil, usecase.SyncConfig{}, nil, nil)
	handler := NewHandler(queryService, optimizeService, syncService, nil)

	return NewRouter(handler, syncService, nil, nil, testAPIKey, testJobToken), store
}

func seedTestPlayers(t *testing.T, store document.Repository) {
	t.Helper()

	players := []document.Document{
		{"id": float64(1), "web_name": "Salah", "first_name": "Mohamed", "second_name": "Salah", "team": float64(1), "element_type": float64(3), "now_cost": float64(130), "form": "8.5", "status": "a", "total_points": float64(210)},
		{"id": float64(2), "web_name": "Haaland", "first_name": "Erling", "second_name": "Haaland", "team": float64(2), "element_type": float64(4), "now_cost": float64(150), "form": "9.1", "status": "a", "total_points": float64(240)},
	}
	teams := []document.Document{
		{"id": float64(1), "name": "Liverpool", "short_name": "LIV"},
		{"id": float64(2), "name": "Man City", "short_name": "MCI"},
	}
	if err := store.BatchUpsert(t.Context(), document.CollectionPlayers, players, "id"); err != nil {
		t.Fatalf("seed players: %v", err)
	}
	if err := store.BatchUpsert(t.Context(), document.CollectionTeams, teams, "id"); err != nil {
		t.Fatalf("seed teams: %v", err)
	}

	// Fresh metadata keeps the read-path refresh from racing the assertions.
	now := time.Now().UTC().Format(time.RFC3339)
	meta := []document.Document{
		{"id": "players", "last_synced_at": now},
		{"id": "teams", "last_synced_at": now},
		{"id": "fixtures", "last_synced_at": now},
		{"id": "gameweeks", "last_synced_at": now},
	}
	if err := store.BatchUpsert(t.Context(), document.CollectionSyncMetadata, meta, "id"); err != nil {
		t.Fatalf("seed sync metadata: %v", err)
	}
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	return body
}

func TestSearchPlayersRoute(t *testing.T) {
	router, store := newTestRouter(t)
	seedTestPlayers(t, store)

	req := httptest.NewRequest(http.MethodGet, "/v1/players/search?name=salah", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	data, ok := body["data"].([]any)
	if !ok || len(data) != 1 {
		t.Fatalf("expected one player in data, got %v", body["data"])
	}
}

func TestListPlayersRouteMaxCost(t *testing.T) {
	router, store := newTestRouter(t)
	seedTestPlayers(t, store)

	req := httptest.NewRequest(http.MethodGet, "/v1/players?max_cost=13.0", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	data, ok := body["data"].([]any)
	if !ok || len(data) != 1 {
		t.Fatalf("expected one player under the 13.0m ceiling, got %v", body["data"])
	}
}

func TestListPlayersRouteRejectsBadMaxCost(t *testing.T) {
	router, store := newTestRouter(t)
	seedTestPlayers(t, store)

	req := httptest.NewRequest(http.MethodGet, "/v1/players?max_cost=cheap", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestSearchPlayersRouteRejectsBadLimit(t *testing.T) {
	router, store := newTestRouter(t)
	seedTestPlayers(t, store)

	req := httptest.NewRequest(http.MethodGet, "/v1/players/search?limit=abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestGetPlayerRouteNotFound(t *testing.T) {
	router, store := newTestRouter(t)
	seedTestPlayers(t, store)

	req := httptest.NewRequest(http.MethodGet, "/v1/players/999", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	errorObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object, got %v", body)
	}
	if got, _ := errorObj["status"].(string); got != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND, got %v", errorObj["status"])
	}
}

func TestGetEntitySchemaRoute(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/schemas/player", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %v", body["data"])
	}
	fields, ok := data["fields"].(map[string]any)
	if !ok {
		t.Fatalf("expected fields mapping, got %v", data)
	}
	if got, _ := fields["now_cost"].(string); got != "int" {
		t.Fatalf("expected now_cost=int, got %v", fields["now_cost"])
	}
}

func TestGetEntitySchemaRouteUnknownEntity(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/schemas/standings", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestOptimizeTeamRouteInfeasible(t *testing.T) {
	router, store := newTestRouter(t)
	seedTestPlayers(t, store)

	req := httptest.NewRequest(http.MethodPost, "/v1/optimize-team", strings.NewReader(`{"formation":"4-4-2","budget":100}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// Two seeded players can never fill an eleven.
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	errorObj, _ := body["error"].(map[string]any)
	if got, _ := errorObj["status"].(string); got != "FAILED_PRECONDITION" {
		t.Fatalf("expected FAILED_PRECONDITION, got %v", errorObj["status"])
	}
}

func TestOptimizeTeamRouteRejectsBadPayload(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/optimize-team", strings.NewReader(`{"formation":"4-4-2"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestSyncRouteRequiresAPIKey(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/sync", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestSyncRouteRunsWithAPIKey(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/sync", strings.NewReader(`{"force":true}`))
	req.Header.Set("X-API-Key", testAPIKey)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected sync report in data, got %v", body["data"])
	}
	if triggered, _ := data["triggered"].(bool); !triggered {
		t.Fatalf("expected triggered=true, got %v", data["triggered"])
	}
}

func TestInternalSyncJobRouteRequiresToken(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/sync", nil)
	req.Header.Set("X-Internal-Job-Token", "wrong")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestHealthzRoute(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}
