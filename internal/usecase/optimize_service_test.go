package usecase

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/riskibarqy/fpl-data-service/internal/domain/document"
	"github.com/riskibarqy/fpl-data-service/internal/domain/player"
	"github.com/riskibarqy/fpl-data-service/internal/infrastructure/repository/memory"
)

// seedSquadPool stores enough available players for any supported formation:
// 3 goalkeepers, 6 defenders, 6 midfielders and 4 forwards spread over
// enough teams to stay under the per-team cap.
func seedSquadPool(t *testing.T, store document.Repository) {
	t.Helper()

	var docs []document.Document
	id := 0
	add := func(elementType, count, cost int, form string) {
		for i := 0; i < count; i++ {
			id++
			docs = append(docs, document.Document{
				"id":           float64(id),
				"web_name":     fmt.Sprintf("Player%d", id),
				"team":         float64(id%8 + 1),
				"element_type": float64(elementType),
				"now_cost":     float64(cost),
				"form":         form,
				"status":       "a",
			})
		}
	}
	add(1, 3, 45, "3.0")
	add(2, 6, 50, "4.0")
	add(3, 6, 70, "5.5")
	add(4, 4, 80, "6.0")

	if err := store.BatchUpsert(t.Context(), document.CollectionPlayers, docs, "id"); err != nil {
		t.Fatalf("seed players: %v", err)
	}
}

func TestOptimizeTeamFourFourTwo(t *testing.T) {
	store := memory.NewDocumentRepository()
	seedSquadPool(t, store)
	svc := NewOptimizeService(store, nil)

	got, err := svc.OptimizeTeam(t.Context(), OptimizeInput{Formation: "4-4-2", Budget: 100})
	if err != nil {
		t.Fatalf("OptimizeTeam: %v", err)
	}

	if got.Players != 11 {
		t.Fatalf("selected %d players, want 11", got.Players)
	}
	wantCounts := map[string]int{
		string(player.PositionGoalkeeper): 1,
		string(player.PositionDefender):   4,
		string(player.PositionMidfielder): 4,
		string(player.PositionForward):    2,
	}
	for group, want := range wantCounts {
		if len(got.Squad[group]) != want {
			t.Fatalf("%s count = %d, want %d", group, len(got.Squad[group]), want)
		}
	}
	if got.TotalCost > 100.0 {
		t.Fatalf("total cost %.1f exceeds budget", got.TotalCost)
	}
	for _, entries := range got.Squad {
		for _, entry := range entries {
			if !strings.Contains(entry, "m)") {
				t.Fatalf("entry %q not in name (X.Xm) form", entry)
			}
		}
	}
}

func TestOptimizeTeamRespectsTeamCap(t *testing.T) {
	store := memory.NewDocumentRepository()

	// Cheap high-form players all on team 1; the solver must not take more
	// than three of them.
	var docs []document.Document
	id := 0
	add := func(elementType, count, teamID, cost int, form string) {
		for i := 0; i < count; i++ {
			id++
			docs = append(docs, document.Document{
				"id":           float64(id),
				"web_name":     fmt.Sprintf("Player%d", id),
				"team":         float64(teamID),
				"element_type": float64(elementType),
				"now_cost":     float64(cost),
				"form":         form,
				"status":       "a",
			})
		}
	}
	add(1, 1, 1, 45, "9.0")
	add(2, 4, 1, 40, "9.0")
	add(2, 4, 2, 40, "2.0")
	add(3, 2, 3, 50, "3.0")
	add(3, 2, 5, 50, "3.0")
	add(4, 2, 4, 60, "4.0")

	if err := store.BatchUpsert(t.Context(), document.CollectionPlayers, docs, "id"); err != nil {
		t.Fatalf("seed players: %v", err)
	}
	svc := NewOptimizeService(store, nil)

	got, err := svc.OptimizeTeam(t.Context(), OptimizeInput{Formation: "4-4-2", Budget: 100})
	if err != nil {
		t.Fatalf("OptimizeTeam: %v", err)
	}

	// Team 1 holds the goalkeeper plus four defenders, so a legal squad
	// takes at most three of those five.
	fromTeamOne := 0
	for _, doc := range docs[:5] {
		name, _ := doc.String("web_name")
		for _, entries := range got.Squad {
			for _, entry := range entries {
				if strings.HasPrefix(entry, name+" ") {
					fromTeamOne++
				}
			}
		}
	}
	if fromTeamOne > 3 {
		t.Fatalf("squad takes %d players from one team, cap is 3", fromTeamOne)
	}
}

func TestOptimizeTeamUnsupportedFormation(t *testing.T) {
	store := memory.NewDocumentRepository()
	seedSquadPool(t, store)
	svc := NewOptimizeService(store, nil)

	_, err := svc.OptimizeTeam(t.Context(), OptimizeInput{Formation: "5-5-0", Budget: 100})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestOptimizeTeamImpossibleBudget(t *testing.T) {
	store := memory.NewDocumentRepository()
	seedSquadPool(t, store)
	svc := NewOptimizeService(store, nil)

	_, err := svc.OptimizeTeam(t.Context(), OptimizeInput{Formation: "4-4-2", Budget: 1})
	if !errors.Is(err, ErrInfeasibleSquad) {
		t.Fatalf("err = %v, want ErrInfeasibleSquad", err)
	}
}

func TestOptimizeTeamExcludesUnavailableAndFormlessPlayers(t *testing.T) {
	store := memory.NewDocumentRepository()
	docs := []document.Document{
		{"id": float64(1), "web_name": "Injured", "team": float64(1), "element_type": float64(1), "now_cost": float64(45), "form": "9.9", "status": "i"},
		{"id": float64(2), "web_name": "NoForm", "team": float64(2), "element_type": float64(1), "now_cost": float64(45), "form": "", "status": "a"},
	}
	if err := store.BatchUpsert(t.Context(), document.CollectionPlayers, docs, "id"); err != nil {
		t.Fatalf("seed players: %v", err)
	}
	svc := NewOptimizeService(store, nil)

	_, err := svc.OptimizeTeam(t.Context(), OptimizeInput{Formation: "4-4-2", Budget: 100})
	if !errors.Is(err, ErrInfeasibleSquad) {
		t.Fatalf("err = %v, want ErrInfeasibleSquad with an empty candidate pool", err)
	}
}
