package fplapi

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/riskibarqy/fpl-data-service/internal/platform/resilience"
	"github.com/riskibarqy/fpl-data-service/internal/usecase"
)

func newTestClient(t *testing.T, handler http.Handler, retries int) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		MaxRetries: retries,
	})
	return client, server
}

func TestFetchBootstrapDecodesSections(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bootstrap-static/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"elements": [{"id": 1, "web_name": "Salah"}],
			"teams": [{"id": 1, "name": "Liverpool"}, {"id": 2, "name": "Everton"}],
			"events": [{"id": 1, "name": "Gameweek 1"}]
		}`))
	}), 0)

	got, err := client.FetchBootstrap(t.Context())
	if err != nil {
		t.Fatalf("FetchBootstrap: %v", err)
	}
	if len(got.Players) != 1 || len(got.Teams) != 2 || len(got.Gameweeks) != 1 {
		t.Fatalf("decoded %d/%d/%d docs, want 1/2/1", len(got.Players), len(got.Teams), len(got.Gameweeks))
	}
	if name, _ := got.Players[0].String("web_name"); name != "Salah" {
		t.Fatalf("web_name = %q, want Salah", name)
	}
}

func TestFetchFixturesDecodesList(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fixtures/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[{"id": 100, "team_h": 1, "team_a": 2, "finished": false}]`))
	}), 0)

	got, err := client.FetchFixtures(t.Context())
	if err != nil {
		t.Fatalf("FetchFixtures: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("decoded %d fixtures, want 1", len(got))
	}
}

func TestClientRetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}), 2)

	if _, err := client.FetchFixtures(t.Context()); err != nil {
		t.Fatalf("FetchFixtures: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("made %d calls, want 2", calls.Load())
	}
}

func TestClientDoesNotRetryClientError(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}), 3)

	if _, err := client.FetchFixtures(t.Context()); err == nil {
		t.Fatal("expected error for 404 response")
	}
	if calls.Load() != 1 {
		t.Fatalf("made %d calls, want 1 (4xx is not retryable)", calls.Load())
	}
}

func TestClientCircuitOpensAfterFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		MaxRetries: 0,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      resilience.DefaultCircuitBreakerConfig().OpenTimeout,
			HalfOpenMaxReq:   1,
		},
	})

	for i := 0; i < 2; i++ {
		if _, err := client.FetchFixtures(t.Context()); err == nil {
			t.Fatal("expected upstream failure")
		}
	}

	_, err := client.FetchFixtures(t.Context())
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("err = %v, want ErrDependencyUnavailable once the circuit opens", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("upstream saw %d calls, want 2 (third rejected by breaker)", calls.Load())
	}
}
