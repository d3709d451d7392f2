package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/riskibarqy/fpl-data-service/internal/domain/document"
	"github.com/riskibarqy/fpl-data-service/internal/domain/player"
	"github.com/riskibarqy/fpl-data-service/internal/platform/logging"
	"github.com/riskibarqy/fpl-data-service/internal/platform/selection"
)

// formationCounts maps a formation string to required goalkeeper, defender,
// midfielder and forward counts. Every entry sums to eleven.
var formationCounts = map[string][4]int{
	"4-4-2": {1, 4, 4, 2},
	"4-5-1": {1, 4, 5, 1},
	"3-5-2": {1, 3, 5, 2},
	"3-4-3": {1, 3, 4, 3},
	"4-3-3": {1, 4, 3, 3},
}

const maxPlayersPerTeam = 3

type OptimizeInput struct {
	Formation string
	// Budget is in whole millions; the cost ceiling is Budget x 10 in the
	// upstream tenths-of-a-million unit.
	Budget int
}

type SquadResult struct {
	Formation string              `json:"formation"`
	Squad     map[string][]string `json:"squad"`
	TotalCost float64             `json:"total_cost"`
	TotalForm float64             `json:"total_form"`
	Players   int                 `json:"players"`
}

// OptimizeService picks the highest-form eleven satisfying formation,
// budget and per-team constraints.
type OptimizeService struct {
	store  document.Repository
	logger *logging.Logger
}

func NewOptimizeService(store document.Repository, logger *logging.Logger) *OptimizeService {
	if logger == nil {
		logger = logging.Default()
	}
	return &OptimizeService{store: store, logger: logger}
}

// OptimizeTeam solves the squad selection exactly. Infeasibility under the
// given formation and budget is a structured ErrInfeasibleSquad, never a
// partial squad.
func (s *OptimizeService) OptimizeTeam(ctx context.Context, input OptimizeInput) (SquadResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OptimizeService.OptimizeTeam")
	defer span.End()

	formation := strings.TrimSpace(input.Formation)
	counts, ok := formationCounts[formation]
	if !ok {
		return SquadResult{}, fmt.Errorf("%w: unsupported formation %q", ErrInvalidInput, formation)
	}
	if input.Budget <= 0 {
		return SquadResult{}, fmt.Errorf("%w: budget must be positive", ErrInvalidInput)
	}

	candidates, byID, err := s.loadCandidates(ctx)
	if err != nil {
		return SquadResult{}, err
	}

	reqs := []selection.Requirement{
		{Group: string(player.PositionGoalkeeper), Count: counts[0]},
		{Group: string(player.PositionDefender), Count: counts[1]},
		{Group: string(player.PositionMidfielder), Count: counts[2]},
		{Group: string(player.PositionForward), Count: counts[3]},
	}

	picked, feasible := selection.Solve(candidates, reqs, selection.Config{
		Budget:    input.Budget * 10,
		TeamLimit: maxPlayersPerTeam,
	})
	if !feasible {
		return SquadResult{}, fmt.Errorf(
			"%w: formation %s with budget %dm over %d candidates",
			ErrInfeasibleSquad, formation, input.Budget, len(candidates),
		)
	}

	result := SquadResult{
		Formation: formation,
		Squad:     make(map[string][]string, len(reqs)),
		Players:   len(picked),
	}
	for _, req := range reqs {
		result.Squad[req.Group] = []string{}
	}
	totalCost := 0
	for _, c := range picked {
		p := byID[c.ID]
		result.Squad[c.Group] = append(result.Squad[c.Group], p.PriceLabel())
		result.TotalForm += c.Score
		totalCost += c.Cost
	}
	result.TotalCost = float64(totalCost) / 10.0

	s.logger.InfoContext(ctx, "squad optimized",
		"formation", formation,
		"budget", input.Budget,
		"total_cost", result.TotalCost,
		"total_form", result.TotalForm,
	)

	return result, nil
}

// loadCandidates builds the selectable pool: available status, a parseable
// form value and a positive cost.
func (s *OptimizeService) loadCandidates(ctx context.Context) ([]selection.Candidate, map[int]player.Player, error) {
	docs, err := s.store.ListAll(ctx, document.CollectionPlayers)
	if err != nil {
		return nil, nil, fmt.Errorf("list players: %w", err)
	}

	candidates := make([]selection.Candidate, 0, len(docs))
	byID := make(map[int]player.Player, len(docs))
	for _, doc := range docs {
		var p player.Player
		if decodeErr := document.Decode(doc, &p); decodeErr != nil {
			continue
		}
		if p.Status != player.StatusAvailable || p.NowCost <= 0 {
			continue
		}
		form, parseErr := strconv.ParseFloat(strings.TrimSpace(p.Form), 64)
		if parseErr != nil {
			continue
		}
		position := p.Position()
		if position == player.PositionUnknown {
			continue
		}

		candidates = append(candidates, selection.Candidate{
			ID:    p.ID,
			Group: string(position),
			Team:  p.Team,
			Cost:  p.NowCost,
			Score: form,
		})
		byID[p.ID] = p
	}

	return candidates, byID, nil
}
