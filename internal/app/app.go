package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"

	"github.com/riskibarqy/fpl-data-service/external/fplapi"
	"github.com/riskibarqy/fpl-data-service/internal/config"
	"github.com/riskibarqy/fpl-data-service/internal/domain/document"
	"github.com/riskibarqy/fpl-data-service/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fpl-data-service/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/fpl-data-service/internal/interfaces/httpapi"
	"github.com/riskibarqy/fpl-data-service/internal/platform/cache"
	"github.com/riskibarqy/fpl-data-service/internal/platform/logging"
	"github.com/riskibarqy/fpl-data-service/internal/platform/resilience"
	"github.com/riskibarqy/fpl-data-service/internal/usecase"
)

// NewHTTPServer wires the document store, upstream client, services and
// router into a ready-to-run server. The returned cleanup closes the
// database connection when one was opened.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	store, cleanup, err := newDocumentStore(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	var cacheStore *cache.Store
	if cfg.CacheEnabled {
		cacheStore = cache.NewStore(cfg.CacheTTL)
	}

	fplClient := fplapi.NewClient(fplapi.ClientConfig{
		BaseURL:    cfg.FPLBaseURL,
		Timeout:    cfg.FPLTimeout,
		MaxRetries: cfg.FPLMaxRetries,
		UserAgent:  cfg.FPLUserAgent,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FPLCircuitEnabled,
			FailureThreshold: cfg.FPLCircuitFailureCount,
			OpenTimeout:      cfg.FPLCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FPLCircuitHalfOpenMaxReq,
		},
	})

	queryService := usecase.NewQueryService(store, cacheStore, logger)
	optimizeService := usecase.NewOptimizeService(store, logger)
	syncService := usecase.NewSyncService(store, fplClient, cacheStore, usecase.SyncConfig{
		Interval: cfg.SyncInterval,
		Workers:  cfg.SyncWorkers,
	}, nil, logger)

	handler := httpapi.NewHandler(queryService, optimizeService, syncService, logger)
	router := httpapi.NewRouter(
		handler,
		syncService,
		logger,
		cfg.CORSAllowedOrigins,
		cfg.SyncAPIKey,
		cfg.InternalJobToken,
	)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, cleanup, nil
}

func newDocumentStore(cfg config.Config, logger *logging.Logger) (document.Repository, func() error, error) {
	if cfg.UseMemoryStore() {
		logger.Info("document store selected", "backend", "memory")
		return memory.NewDocumentRepository(), func() error { return nil }, nil
	}

	db, err := openPostgres(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres: %w", err)
	}

	logger.Info("document store selected", "backend", "postgres", "db_name", dbNameFromURL(cfg.DBURL))

	return postgres.NewDocumentRepository(db), db.Close, nil
}

func openPostgres(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Connect("postgres", dsn,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return db, nil
}
