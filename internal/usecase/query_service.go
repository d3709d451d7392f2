package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/riskibarqy/fpl-data-service/internal/domain/document"
	"github.com/riskibarqy/fpl-data-service/internal/domain/fixture"
	"github.com/riskibarqy/fpl-data-service/internal/domain/gameweek"
	"github.com/riskibarqy/fpl-data-service/internal/domain/player"
	"github.com/riskibarqy/fpl-data-service/internal/domain/standing"
	"github.com/riskibarqy/fpl-data-service/internal/domain/team"
	"github.com/riskibarqy/fpl-data-service/internal/platform/cache"
	"github.com/riskibarqy/fpl-data-service/internal/platform/logging"
)

// PlayerSearchInput carries the optional knobs of a player search. Filters
// use the literal "field:operator:value" form.
type PlayerSearchInput struct {
	Name     string
	Team     string
	Position string
	Filters  []string
	SortBy   string
	Limit    int
}

// QueryService serves every read surface: player search with the dynamic
// filter language, typed entity reads, and derived standings.
type QueryService struct {
	store  document.Repository
	cache  *cache.Store
	logger *logging.Logger
}

func NewQueryService(store document.Repository, cacheStore *cache.Store, logger *logging.Logger) *QueryService {
	if logger == nil {
		logger = logging.Default()
	}
	return &QueryService{store: store, cache: cacheStore, logger: logger}
}

// SearchPlayers narrows the player collection by name, team, position and
// the dynamic filter list, then sorts and truncates. An unresolvable team or
// position name yields an empty result, never an error. Malformed filters
// are ignored; a filter whose field is absent or whose value cannot be
// coerced drops the candidate.
func (s *QueryService) SearchPlayers(ctx context.Context, input PlayerSearchInput) ([]document.Document, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.SearchPlayers")
	defer span.End()

	docs, err := s.loadCollection(ctx, document.CollectionPlayers)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		docs = filterDocs(docs, func(doc document.Document) bool {
			return playerNameMatches(doc, name)
		})
	}

	if teamName := strings.TrimSpace(input.Team); teamName != "" {
		teamID, ok, err := s.resolveTeamID(ctx, teamName)
		if err != nil {
			return nil, err
		}
		if !ok {
			return []document.Document{}, nil
		}
		docs = filterDocs(docs, func(doc document.Document) bool {
			id, ok := doc.Int("team")
			return ok && id == teamID
		})
	}

	if label := strings.TrimSpace(input.Position); label != "" {
		code, ok := player.ElementTypeFromLabel(label)
		if !ok {
			return []document.Document{}, nil
		}
		docs = filterDocs(docs, func(doc document.Document) bool {
			elementType, ok := doc.Int("element_type")
			return ok && elementType == code
		})
	}

	dropped := 0
	for _, raw := range input.Filters {
		field, op, value, ok := parseFilter(raw)
		if !ok {
			s.logger.DebugContext(ctx, "ignoring malformed filter", "filter", raw)
			continue
		}
		before := len(docs)
		docs = filterDocs(docs, func(doc document.Document) bool {
			return evalFilter(doc, field, op, value)
		})
		dropped += before - len(docs)
	}
	if dropped > 0 {
		s.logger.DebugContext(ctx, "filters narrowed candidate set", "dropped", dropped, "remaining", len(docs))
	}

	if sortBy := strings.TrimSpace(input.SortBy); sortBy != "" {
		sortDocsDescending(docs, sortBy)
	}

	if input.Limit > 0 && len(docs) > input.Limit {
		docs = docs[:input.Limit]
	}

	return docs, nil
}

// ListPlayers returns player documents, optionally narrowed to a position
// label and an inclusive price ceiling in millions. An unresolvable position
// yields an empty result, never an error.
func (s *QueryService) ListPlayers(ctx context.Context, maxCost *float64, position string) ([]document.Document, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.ListPlayers")
	defer span.End()

	docs, err := s.loadCollection(ctx, document.CollectionPlayers)
	if err != nil {
		return nil, err
	}

	if label := strings.TrimSpace(position); label != "" {
		code, ok := player.ElementTypeFromLabel(label)
		if !ok {
			return []document.Document{}, nil
		}
		docs = filterDocs(docs, func(doc document.Document) bool {
			elementType, ok := doc.Int("element_type")
			return ok && elementType == code
		})
	}

	if maxCost != nil {
		docs = filterDocs(docs, func(doc document.Document) bool {
			cost, ok := doc.Float("now_cost")
			return ok && cost/10 <= *maxCost
		})
	}

	return docs, nil
}

// GetPlayer returns one typed player by id.
func (s *QueryService) GetPlayer(ctx context.Context, id int) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.GetPlayer")
	defer span.End()

	doc, exists, err := s.store.Get(ctx, document.CollectionPlayers, strconv.Itoa(id))
	if err != nil {
		return player.Player{}, fmt.Errorf("get player %d: %w", id, err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player %d", ErrNotFound, id)
	}

	var p player.Player
	if err := document.Decode(doc, &p); err != nil {
		return player.Player{}, fmt.Errorf("decode player %d: %w", id, err)
	}
	return p, nil
}

// PlayerDetail bundles a player with its resolved team and the team's next
// scheduled fixtures.
type PlayerDetail struct {
	Player   player.Player     `json:"player"`
	Team     *team.Team        `json:"team,omitempty"`
	Upcoming []fixture.Fixture `json:"upcoming_fixtures"`
}

// GetPlayerDetail resolves a player's surrounding context in one read.
func (s *QueryService) GetPlayerDetail(ctx context.Context, id int) (PlayerDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.GetPlayerDetail")
	defer span.End()

	p, err := s.GetPlayer(ctx, id)
	if err != nil {
		return PlayerDetail{}, err
	}

	detail := PlayerDetail{Player: p, Upcoming: []fixture.Fixture{}}

	teams, err := s.ListTeams(ctx)
	if err != nil {
		return PlayerDetail{}, err
	}
	for i := range teams {
		if teams[i].ID == p.Team {
			detail.Team = &teams[i]
			break
		}
	}

	fixtures, err := s.ListFixtures(ctx, nil)
	if err != nil {
		return PlayerDetail{}, err
	}
	for _, f := range fixtures {
		if f.Finished || (f.TeamH != p.Team && f.TeamA != p.Team) {
			continue
		}
		detail.Upcoming = append(detail.Upcoming, f)
		if len(detail.Upcoming) == 5 {
			break
		}
	}

	return detail, nil
}

// SearchTeams matches teams by case-insensitive substring on name or short name.
func (s *QueryService) SearchTeams(ctx context.Context, name string) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.SearchTeams")
	defer span.End()

	teams, err := s.ListTeams(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return teams, nil
	}

	out := make([]team.Team, 0, len(teams))
	for _, t := range teams {
		if strings.Contains(strings.ToLower(t.Name), needle) || strings.Contains(strings.ToLower(t.ShortName), needle) {
			out = append(out, t)
		}
	}
	return out, nil
}

// GetTeam returns one typed team by id.
func (s *QueryService) GetTeam(ctx context.Context, id int) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.GetTeam")
	defer span.End()

	doc, exists, err := s.store.Get(ctx, document.CollectionTeams, strconv.Itoa(id))
	if err != nil {
		return team.Team{}, fmt.Errorf("get team %d: %w", id, err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: team %d", ErrNotFound, id)
	}

	var t team.Team
	if err := document.Decode(doc, &t); err != nil {
		return team.Team{}, fmt.Errorf("decode team %d: %w", id, err)
	}
	return t, nil
}

// ListTeams returns every team sorted by id.
func (s *QueryService) ListTeams(ctx context.Context) ([]team.Team, error) {
	docs, err := s.loadCollection(ctx, document.CollectionTeams)
	if err != nil {
		return nil, err
	}

	out := make([]team.Team, 0, len(docs))
	for _, doc := range docs {
		var t team.Team
		if err := document.Decode(doc, &t); err != nil {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ListFixtures returns fixtures sorted by kickoff, optionally narrowed to
// one gameweek.
func (s *QueryService) ListFixtures(ctx context.Context, gameweekID *int) ([]fixture.Fixture, error) {
	docs, err := s.loadCollection(ctx, document.CollectionFixtures)
	if err != nil {
		return nil, err
	}

	out := make([]fixture.Fixture, 0, len(docs))
	for _, doc := range docs {
		var f fixture.Fixture
		if err := document.Decode(doc, &f); err != nil {
			continue
		}
		if gameweekID != nil && (f.Event == nil || *f.Event != *gameweekID) {
			continue
		}
		out = append(out, f)
	}
	sort.SliceStable(out, func(i, j int) bool {
		left, right := "", ""
		if out[i].KickoffTime != nil {
			left = *out[i].KickoffTime
		}
		if out[j].KickoffTime != nil {
			right = *out[j].KickoffTime
		}
		if left != right {
			return left < right
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// ListGameweeks returns every gameweek sorted by id.
func (s *QueryService) ListGameweeks(ctx context.Context) ([]gameweek.Gameweek, error) {
	docs, err := s.loadCollection(ctx, document.CollectionGameweeks)
	if err != nil {
		return nil, err
	}

	out := make([]gameweek.Gameweek, 0, len(docs))
	for _, doc := range docs {
		var gw gameweek.Gameweek
		if err := document.Decode(doc, &gw); err != nil {
			continue
		}
		out = append(out, gw)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// CurrentGameweek prefers the upstream is_current marker, then the earliest
// unfinished gameweek by deadline.
func (s *QueryService) CurrentGameweek(ctx context.Context) (gameweek.Gameweek, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.CurrentGameweek")
	defer span.End()

	gameweeks, err := s.ListGameweeks(ctx)
	if err != nil {
		return gameweek.Gameweek{}, err
	}

	for _, gw := range gameweeks {
		if gw.IsCurrent {
			return gw, nil
		}
	}

	var candidate *gameweek.Gameweek
	for i := range gameweeks {
		gw := gameweeks[i]
		if gw.Finished {
			continue
		}
		if candidate == nil || gw.DeadlineTime < candidate.DeadlineTime {
			candidate = &gameweeks[i]
		}
	}
	if candidate != nil {
		return *candidate, nil
	}

	return gameweek.Gameweek{}, fmt.Errorf("%w: no current gameweek", ErrNotFound)
}

// ListStandings returns the derived table sorted by position.
func (s *QueryService) ListStandings(ctx context.Context) ([]standing.Standing, error) {
	docs, err := s.loadCollection(ctx, document.CollectionStandings)
	if err != nil {
		return nil, err
	}

	out := make([]standing.Standing, 0, len(docs))
	for _, doc := range docs {
		var row standing.Standing
		if err := document.Decode(doc, &row); err != nil {
			continue
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

// TopPerformers is a convenience wrapper over SearchPlayers sorting one
// numeric metric descending.
func (s *QueryService) TopPerformers(ctx context.Context, metric string, limit int) ([]document.Document, error) {
	if strings.TrimSpace(metric) == "" {
		metric = "total_points"
	}
	return s.SearchPlayers(ctx, PlayerSearchInput{SortBy: metric, Limit: limit})
}

func (s *QueryService) loadCollection(ctx context.Context, collection string) ([]document.Document, error) {
	load := func(ctx context.Context) (any, error) {
		docs, err := s.store.ListAll(ctx, collection)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", collection, err)
		}
		return docs, nil
	}

	if s.cache == nil {
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return value.([]document.Document), nil
	}

	value, err := s.cache.GetOrLoad(ctx, "query:collection:"+collection, load)
	if err != nil {
		return nil, err
	}
	docs, ok := value.([]document.Document)
	if !ok {
		return nil, fmt.Errorf("unexpected cached type for collection %s", collection)
	}

	// Callers mutate the slice while filtering and sorting.
	out := make([]document.Document, len(docs))
	copy(out, docs)
	return out, nil
}

func (s *QueryService) resolveTeamID(ctx context.Context, name string) (int, bool, error) {
	teams, err := s.ListTeams(ctx)
	if err != nil {
		return 0, false, err
	}

	// Only the full team name resolves; "LIV" does not stand in for
	// "Liverpool" here.
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, t := range teams {
		if strings.ToLower(t.Name) == needle {
			return t.ID, true, nil
		}
	}
	return 0, false, nil
}

func filterDocs(docs []document.Document, keep func(document.Document) bool) []document.Document {
	out := docs[:0]
	for _, doc := range docs {
		if keep(doc) {
			out = append(out, doc)
		}
	}
	return out
}

func playerNameMatches(doc document.Document, query string) bool {
	needle := strings.ToLower(query)
	for _, field := range []string{"web_name", "first_name", "second_name"} {
		if value, ok := doc.String(field); ok && strings.Contains(strings.ToLower(value), needle) {
			return true
		}
	}
	return false
}

var filterOperators = map[string]func(sign int) bool{
	"eq":  func(sign int) bool { return sign == 0 },
	"ne":  func(sign int) bool { return sign != 0 },
	"gt":  func(sign int) bool { return sign > 0 },
	"gte": func(sign int) bool { return sign >= 0 },
	"lt":  func(sign int) bool { return sign < 0 },
	"lte": func(sign int) bool { return sign <= 0 },
}

// parseFilter splits "field:operator:value". Anything malformed, including
// an unknown operator, reads as a no-op filter.
func parseFilter(raw string) (field, op, value string, ok bool) {
	parts := strings.SplitN(raw, ":", 3)
	if len(parts) != 3 {
		return "", "", "", false
	}
	field = strings.TrimSpace(parts[0])
	op = strings.ToLower(strings.TrimSpace(parts[1]))
	value = strings.TrimSpace(parts[2])
	if field == "" || value == "" {
		return "", "", "", false
	}
	if _, known := filterOperators[op]; !known {
		return "", "", "", false
	}
	return field, op, value, true
}

// playerFieldTypes drives filter coercion: the expected type comes from the
// declared schema, not from whatever the stored value happens to be.
var playerFieldTypes = player.Schema()

// evalFilter compares a document field against the filter literal. A missing
// field or a literal that cannot be coerced to the field's declared type
// drops the candidate. Fields outside the schema fall back to the stored
// value's runtime type.
func evalFilter(doc document.Document, field, op, literal string) bool {
	raw, present := doc[field]
	if !present || raw == nil {
		return false
	}

	var sign int
	var comparable bool
	switch playerFieldTypes[field] {
	case "int", "float":
		sign, comparable = compareNumericField(doc, field, literal)
	case "bool":
		sign, comparable = compareBoolField(doc, field, literal)
	case "string":
		value, ok := doc.String(field)
		if !ok {
			return false
		}
		sign, comparable = strings.Compare(value, literal), true
	default:
		sign, comparable = compareValue(raw, literal)
	}
	if !comparable {
		return false
	}
	return filterOperators[op](sign)
}

func compareNumericField(doc document.Document, field, literal string) (int, bool) {
	value, ok := doc.Float(field)
	if !ok {
		return 0, false
	}
	parsed, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return 0, false
	}
	return compareFloats(value, parsed), true
}

func compareBoolField(doc document.Document, field, literal string) (int, bool) {
	value, ok := doc.Bool(field)
	if !ok {
		return 0, false
	}
	parsed, err := strconv.ParseBool(literal)
	if err != nil {
		return 0, false
	}
	if value == parsed {
		return 0, true
	}
	return 1, true
}

func compareValue(raw any, literal string) (int, bool) {
	switch v := raw.(type) {
	case float64:
		parsed, err := strconv.ParseFloat(literal, 64)
		if err != nil {
			return 0, false
		}
		return compareFloats(v, parsed), true
	case int:
		parsed, err := strconv.ParseFloat(literal, 64)
		if err != nil {
			return 0, false
		}
		return compareFloats(float64(v), parsed), true
	case int64:
		parsed, err := strconv.ParseFloat(literal, 64)
		if err != nil {
			return 0, false
		}
		return compareFloats(float64(v), parsed), true
	case bool:
		parsed, err := strconv.ParseBool(literal)
		if err != nil {
			return 0, false
		}
		if v == parsed {
			return 0, true
		}
		return 1, true
	case string:
		return strings.Compare(v, literal), true
	default:
		return 0, false
	}
}

func compareFloats(left, right float64) int {
	switch {
	case left < right:
		return -1
	case left > right:
		return 1
	default:
		return 0
	}
}

// sortDocsDescending sorts numerically when every present value parses as a
// number, reading absent values as zero. Only a present non-numeric value
// forces the lexicographic fallback. There is no ascending mode.
func sortDocsDescending(docs []document.Document, field string) {
	numeric := true
	for _, doc := range docs {
		if raw, present := doc[field]; !present || raw == nil {
			continue
		}
		if _, ok := doc.Float(field); !ok {
			numeric = false
			break
		}
	}

	if numeric {
		sort.SliceStable(docs, func(i, j int) bool {
			left, _ := docs[i].Float(field)
			right, _ := docs[j].Float(field)
			return left > right
		})
		return
	}

	sort.SliceStable(docs, func(i, j int) bool {
		return stringForm(docs[i][field]) > stringForm(docs[j][field])
	})
}

func stringForm(raw any) string {
	if raw == nil {
		return ""
	}
	if s, ok := raw.(string); ok {
		return s
	}
	return fmt.Sprint(raw)
}
