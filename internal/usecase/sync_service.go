package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc"

	"github.com/riskibarqy/fpl-data-service/internal/domain/document"
	"github.com/riskibarqy/fpl-data-service/internal/domain/fixture"
	"github.com/riskibarqy/fpl-data-service/internal/domain/syncmeta"
	"github.com/riskibarqy/fpl-data-service/internal/domain/team"
	"github.com/riskibarqy/fpl-data-service/internal/platform/cache"
	"github.com/riskibarqy/fpl-data-service/internal/platform/logging"
)

// BootstrapData is the decoded payload of the upstream bootstrap endpoint.
type BootstrapData struct {
	Players   []document.Document
	Teams     []document.Document
	Gameweeks []document.Document
}

// UpstreamProvider fetches raw documents from the upstream fantasy API.
type UpstreamProvider interface {
	FetchBootstrap(ctx context.Context) (BootstrapData, error)
	FetchFixtures(ctx context.Context) ([]document.Document, error)
}

type SyncConfig struct {
	// Interval is the staleness window. Data older than this is refreshed.
	Interval time.Duration
	// Workers sizes the replace pool. Defaults to one worker per collection.
	Workers int
}

const defaultSyncInterval = 8 * time.Hour

type SyncTaskResult struct {
	DataType   string `json:"data_type"`
	Records    int    `json:"records"`
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

type SyncReport struct {
	Triggered      bool             `json:"triggered"`
	SuccessCount   int              `json:"success_count"`
	FailedCount    int              `json:"failed_count"`
	SkippedCount   int              `json:"skipped_count"`
	StandingsRows  int              `json:"standings_rows"`
	Tasks          []SyncTaskResult `json:"tasks"`
	CompletedAtUTC string           `json:"completed_at_utc"`
}

const (
	syncStatusSuccess = "success"
	syncStatusFailed  = "failed"
	syncStatusSkipped = "skipped"
)

// SyncService refreshes local collections from the upstream API. A single
// refresh runs at a time; overlapping triggers are skipped, not queued.
type SyncService struct {
	store    document.Repository
	provider UpstreamProvider
	cache    *cache.Store
	cfg      SyncConfig
	now      func() time.Time
	logger   *logging.Logger

	running atomic.Bool
}

func NewSyncService(
	store document.Repository,
	provider UpstreamProvider,
	cacheStore *cache.Store,
	cfg SyncConfig,
	now func() time.Time,
	logger *logging.Logger,
) *SyncService {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultSyncInterval
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &SyncService{
		store:    store,
		provider: provider,
		cache:    cacheStore,
		cfg:      cfg,
		now:      now,
		logger:   logger,
	}
}

// IsStale reports whether one data type is due for a refresh. Missing or
// unreadable sync metadata counts as stale, and timestamps stored without an
// offset are read as UTC.
func (s *SyncService) IsStale(ctx context.Context, dataType string) bool {
	doc, exists, err := s.store.Get(ctx, document.CollectionSyncMetadata, dataType)
	if err != nil {
		s.logger.WarnContext(ctx, "read sync metadata failed, treating as stale", "data_type", dataType, "error", err)
		return true
	}
	if !exists {
		return true
	}
	raw, ok := doc.String("last_synced_at")
	if !ok {
		return true
	}
	syncedAt, parsed := syncmeta.ParseTimestamp(raw)
	if !parsed {
		s.logger.WarnContext(ctx, "unparseable sync timestamp, treating as stale", "data_type", dataType, "value", raw)
		return true
	}

	return s.now().UTC().Sub(syncedAt) > s.cfg.Interval
}

// AnyStale reports whether at least one tracked data type is due.
func (s *SyncService) AnyStale(ctx context.Context) bool {
	for _, dataType := range syncmeta.TrackedDataTypes() {
		if s.IsStale(ctx, dataType) {
			return true
		}
	}
	return false
}

// SyncInBackground kicks off a staleness-gated refresh without blocking the
// caller. The refresh keeps the request's trace values but outlives its
// deadline. Overlap and upstream errors are logged, never surfaced. Unlike an
// explicit Sync, nothing runs at all while every data type is fresh.
func (s *SyncService) SyncInBackground(ctx context.Context) {
	bg := context.WithoutCancel(ctx)
	go func() {
		if !s.AnyStale(bg) {
			return
		}
		report, err := s.Sync(bg, false)
		if err != nil {
			s.logger.WarnContext(bg, "background sync skipped", "error", err)
			return
		}
		if report.Triggered {
			s.logger.InfoContext(bg, "background sync completed",
				"success_count", report.SuccessCount,
				"failed_count", report.FailedCount,
				"standings_rows", report.StandingsRows,
			)
		}
	}()
}

// Sync refreshes every data type whose staleness gate passes, or all of them
// when force is set. Each collection is fully replaced, and its sync metadata
// advances only when the replacement succeeded. Upstream fetch failures and
// empty upstream payloads are fail-open: the affected types are skipped and
// existing data is kept. Standings are recomputed from the stored fixtures on
// every invocation, even when all data types are fresh.
func (s *SyncService) Sync(ctx context.Context, force bool) (SyncReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.Sync")
	defer span.End()

	if !s.running.CompareAndSwap(false, true) {
		return SyncReport{}, ErrSyncInProgress
	}
	defer s.running.Store(false)

	stale := make(map[string]bool, 4)
	for _, dataType := range syncmeta.TrackedDataTypes() {
		stale[dataType] = force || s.IsStale(ctx, dataType)
	}
	needBootstrap := stale[syncmeta.DataTypePlayers] || stale[syncmeta.DataTypeTeams] || stale[syncmeta.DataTypeGameweeks]
	needFixtures := stale[syncmeta.DataTypeFixtures]

	var report SyncReport
	if needBootstrap || needFixtures {
		var (
			bootstrap    BootstrapData
			fixtures     []document.Document
			bootstrapErr error
			fixturesErr  error
		)

		var fetches conc.WaitGroup
		if needBootstrap {
			fetches.Go(func() {
				bootstrap, bootstrapErr = s.provider.FetchBootstrap(ctx)
			})
		}
		if needFixtures {
			fetches.Go(func() {
				fixtures, fixturesErr = s.provider.FetchFixtures(ctx)
			})
		}
		fetches.Wait()

		if bootstrapErr != nil {
			s.logger.WarnContext(ctx, "bootstrap fetch failed, keeping existing data", "error", bootstrapErr)
		}
		if fixturesErr != nil {
			s.logger.WarnContext(ctx, "fixtures fetch failed, keeping existing data", "error", fixturesErr)
		}

		tasks := []syncTask{
			{syncmeta.DataTypePlayers, document.CollectionPlayers, bootstrap.Players, stale[syncmeta.DataTypePlayers], bootstrapErr},
			{syncmeta.DataTypeTeams, document.CollectionTeams, bootstrap.Teams, stale[syncmeta.DataTypeTeams], bootstrapErr},
			{syncmeta.DataTypeGameweeks, document.CollectionGameweeks, bootstrap.Gameweeks, stale[syncmeta.DataTypeGameweeks], bootstrapErr},
			{syncmeta.DataTypeFixtures, document.CollectionFixtures, fixtures, stale[syncmeta.DataTypeFixtures], fixturesErr},
		}

		var err error
		report, err = s.runTasks(ctx, tasks)
		if err != nil {
			return SyncReport{}, err
		}
	}

	standingsRows, standingsErr := s.recomputeStandings(ctx)
	if standingsErr != nil {
		s.logger.WarnContext(ctx, "standings recompute failed", "error", standingsErr)
	}
	report.StandingsRows = standingsRows

	if s.cache != nil {
		s.cache.DeletePrefix(ctx, "query:")
	}

	report.CompletedAtUTC = syncmeta.FormatTimestamp(s.now())
	s.logger.InfoContext(ctx, "sync completed",
		"success_count", report.SuccessCount,
		"failed_count", report.FailedCount,
		"skipped_count", report.SkippedCount,
		"standings_rows", report.StandingsRows,
	)

	return report, nil
}

type syncTask struct {
	dataType   string
	collection string
	docs       []document.Document
	stale      bool
	fetchErr   error
}

func (s *SyncService) runTasks(ctx context.Context, tasks []syncTask) (SyncReport, error) {
	pool, err := ants.NewPool(s.cfg.Workers)
	if err != nil {
		return SyncReport{}, fmt.Errorf("create sync worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan SyncTaskResult, len(tasks))
	var workers sync.WaitGroup
	for _, task := range tasks {
		task := task
		if !task.stale {
			results <- SyncTaskResult{DataType: task.dataType, Status: syncStatusSkipped, Message: "data still fresh"}
			continue
		}
		if task.fetchErr != nil {
			results <- SyncTaskResult{
				DataType: task.dataType,
				Status:   syncStatusSkipped,
				Message:  fmt.Sprintf("upstream fetch failed: %v", task.fetchErr),
			}
			continue
		}
		// An empty payload never replaces a populated collection.
		if len(task.docs) == 0 {
			results <- SyncTaskResult{
				DataType: task.dataType,
				Status:   syncStatusSkipped,
				Message:  "upstream returned no records, keeping existing data",
			}
			continue
		}

		workers.Add(1)
		submitErr := pool.Submit(func() {
			defer workers.Done()
			results <- s.replaceCollection(ctx, task.dataType, task.collection, task.docs)
		})
		if submitErr != nil {
			workers.Done()
			results <- SyncTaskResult{
				DataType: task.dataType,
				Status:   syncStatusFailed,
				Message:  fmt.Sprintf("submit task: %v", submitErr),
			}
		}
	}
	workers.Wait()
	close(results)

	report := SyncReport{Triggered: true, Tasks: make([]SyncTaskResult, 0, len(tasks))}
	for row := range results {
		switch row.Status {
		case syncStatusSuccess:
			report.SuccessCount++
		case syncStatusSkipped:
			report.SkippedCount++
		default:
			report.FailedCount++
		}
		report.Tasks = append(report.Tasks, row)
	}
	sort.SliceStable(report.Tasks, func(i, j int) bool {
		return report.Tasks[i].DataType < report.Tasks[j].DataType
	})

	return report, nil
}

func (s *SyncService) replaceCollection(ctx context.Context, dataType, collection string, docs []document.Document) SyncTaskResult {
	start := time.Now()
	row := SyncTaskResult{DataType: dataType, Records: len(docs)}

	if err := s.store.DeleteAll(ctx, collection); err != nil {
		row.Status = syncStatusFailed
		row.Message = fmt.Sprintf("clear collection: %v", err)
		row.DurationMs = time.Since(start).Milliseconds()
		return row
	}
	if err := s.store.BatchUpsert(ctx, collection, docs, "id"); err != nil {
		row.Status = syncStatusFailed
		row.Message = fmt.Sprintf("store documents: %v", err)
		row.DurationMs = time.Since(start).Milliseconds()
		return row
	}
	if err := s.writeMetadata(ctx, dataType); err != nil {
		row.Status = syncStatusFailed
		row.Message = fmt.Sprintf("write sync metadata: %v", err)
		row.DurationMs = time.Since(start).Milliseconds()
		return row
	}

	row.Status = syncStatusSuccess
	row.DurationMs = time.Since(start).Milliseconds()
	return row
}

func (s *SyncService) writeMetadata(ctx context.Context, dataType string) error {
	record := document.Document{
		"id":             dataType,
		"last_synced_at": syncmeta.FormatTimestamp(s.now()),
	}
	return s.store.BatchUpsert(ctx, document.CollectionSyncMetadata, []document.Document{record}, "id")
}

func (s *SyncService) recomputeStandings(ctx context.Context) (int, error) {
	fixtureDocs, err := s.store.ListAll(ctx, document.CollectionFixtures)
	if err != nil {
		return 0, fmt.Errorf("list fixtures: %w", err)
	}
	teamDocs, err := s.store.ListAll(ctx, document.CollectionTeams)
	if err != nil {
		return 0, fmt.Errorf("list teams: %w", err)
	}

	fixtures := make([]fixture.Fixture, 0, len(fixtureDocs))
	for _, doc := range fixtureDocs {
		var f fixture.Fixture
		if decodeErr := document.Decode(doc, &f); decodeErr != nil {
			continue
		}
		fixtures = append(fixtures, f)
	}
	teams := make([]team.Team, 0, len(teamDocs))
	for _, doc := range teamDocs {
		var t team.Team
		if decodeErr := document.Decode(doc, &t); decodeErr != nil {
			continue
		}
		teams = append(teams, t)
	}

	standings := ComputeStandings(fixtures, teams)
	docs := make([]document.Document, 0, len(standings))
	for _, row := range standings {
		doc, convErr := document.FromValue(row)
		if convErr != nil {
			return 0, fmt.Errorf("encode standing row: %w", convErr)
		}
		doc["id"] = row.TeamID
		docs = append(docs, doc)
	}

	if err := s.store.DeleteAll(ctx, document.CollectionStandings); err != nil {
		return 0, fmt.Errorf("clear standings: %w", err)
	}
	if err := s.store.BatchUpsert(ctx, document.CollectionStandings, docs, "id"); err != nil {
		return 0, fmt.Errorf("store standings: %w", err)
	}

	return len(docs), nil
}
