package selection

import "testing"

func TestSolvePicksHighestScoreWithinBudget(t *testing.T) {
	candidates := []Candidate{
		{ID: 1, Group: "GKP", Team: 1, Cost: 50, Score: 4.0},
		{ID: 2, Group: "GKP", Team: 2, Cost: 45, Score: 3.0},
		{ID: 3, Group: "DEF", Team: 1, Cost: 60, Score: 5.5},
		{ID: 4, Group: "DEF", Team: 3, Cost: 40, Score: 2.0},
		{ID: 5, Group: "DEF", Team: 4, Cost: 42, Score: 1.5},
	}
	reqs := []Requirement{{Group: "GKP", Count: 1}, {Group: "DEF", Count: 2}}

	picked, ok := Solve(candidates, reqs, Config{Budget: 1000, TeamLimit: 3})
	if !ok {
		t.Fatal("expected a feasible selection")
	}
	if len(picked) != 3 {
		t.Fatalf("picked %d candidates, want 3", len(picked))
	}
	wantIDs := map[int]bool{1: true, 3: true, 4: true}
	for _, c := range picked {
		if !wantIDs[c.ID] {
			t.Fatalf("unexpected candidate %d in selection", c.ID)
		}
	}
}

func TestSolveBudgetForcesCheaperPick(t *testing.T) {
	candidates := []Candidate{
		{ID: 1, Group: "FWD", Team: 1, Cost: 120, Score: 9.0},
		{ID: 2, Group: "FWD", Team: 2, Cost: 60, Score: 5.0},
		{ID: 3, Group: "FWD", Team: 3, Cost: 55, Score: 4.5},
	}
	reqs := []Requirement{{Group: "FWD", Count: 1}}

	picked, ok := Solve(candidates, reqs, Config{Budget: 70})
	if !ok {
		t.Fatal("expected a feasible selection")
	}
	if picked[0].ID != 2 {
		t.Fatalf("picked candidate %d, want 2", picked[0].ID)
	}
}

func TestSolveRespectsTeamLimit(t *testing.T) {
	candidates := []Candidate{
		{ID: 1, Group: "MID", Team: 1, Cost: 50, Score: 9.0},
		{ID: 2, Group: "MID", Team: 1, Cost: 50, Score: 8.0},
		{ID: 3, Group: "MID", Team: 1, Cost: 50, Score: 7.0},
		{ID: 4, Group: "MID", Team: 1, Cost: 50, Score: 6.0},
		{ID: 5, Group: "MID", Team: 2, Cost: 50, Score: 1.0},
	}
	reqs := []Requirement{{Group: "MID", Count: 4}}

	picked, ok := Solve(candidates, reqs, Config{Budget: 1000, TeamLimit: 3})
	if !ok {
		t.Fatal("expected a feasible selection")
	}
	fromTeamOne := 0
	for _, c := range picked {
		if c.Team == 1 {
			fromTeamOne++
		}
	}
	if fromTeamOne != 3 {
		t.Fatalf("selected %d from team 1, want 3", fromTeamOne)
	}
}

func TestSolveInfeasibleWhenGroupTooSmall(t *testing.T) {
	candidates := []Candidate{{ID: 1, Group: "DEF", Team: 1, Cost: 40, Score: 2.0}}
	reqs := []Requirement{{Group: "DEF", Count: 4}}

	if _, ok := Solve(candidates, reqs, Config{Budget: 1000}); ok {
		t.Fatal("expected infeasible selection")
	}
}

func TestSolveInfeasibleWhenBudgetTooLow(t *testing.T) {
	candidates := []Candidate{
		{ID: 1, Group: "GKP", Team: 1, Cost: 45, Score: 3.0},
		{ID: 2, Group: "GKP", Team: 2, Cost: 40, Score: 2.0},
	}
	reqs := []Requirement{{Group: "GKP", Count: 1}}

	if _, ok := Solve(candidates, reqs, Config{Budget: 30}); ok {
		t.Fatal("expected infeasible selection")
	}
}

func TestSolveInfeasibleWhenTeamLimitBlocksCount(t *testing.T) {
	candidates := []Candidate{
		{ID: 1, Group: "DEF", Team: 1, Cost: 40, Score: 4.0},
		{ID: 2, Group: "DEF", Team: 1, Cost: 40, Score: 3.0},
		{ID: 3, Group: "DEF", Team: 1, Cost: 40, Score: 2.0},
		{ID: 4, Group: "DEF", Team: 1, Cost: 40, Score: 1.0},
	}
	reqs := []Requirement{{Group: "DEF", Count: 4}}

	if _, ok := Solve(candidates, reqs, Config{Budget: 1000, TeamLimit: 3}); ok {
		t.Fatal("expected infeasible selection under team cap")
	}
}

func TestSolveMultiGroupSharesBudget(t *testing.T) {
	// The greedy per-group optimum busts the budget; the exact search must
	// trade the expensive defender for a cheaper one to afford the forward.
	candidates := []Candidate{
		{ID: 1, Group: "DEF", Team: 1, Cost: 70, Score: 6.0},
		{ID: 2, Group: "DEF", Team: 2, Cost: 40, Score: 5.0},
		{ID: 3, Group: "FWD", Team: 3, Cost: 60, Score: 8.0},
		{ID: 4, Group: "FWD", Team: 4, Cost: 30, Score: 2.0},
	}
	reqs := []Requirement{{Group: "DEF", Count: 1}, {Group: "FWD", Count: 1}}

	picked, ok := Solve(candidates, reqs, Config{Budget: 100})
	if !ok {
		t.Fatal("expected a feasible selection")
	}
	total := 0.0
	for _, c := range picked {
		total += c.Score
	}
	if total != 13.0 {
		t.Fatalf("total score = %.1f, want 13.0", total)
	}
}
