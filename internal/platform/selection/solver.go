// Package selection solves small exact-cardinality knapsack selections with
// a branch and bound search. It is sized for squad picking, where each group
// needs a handful of slots out of a few hundred candidates.
package selection

import "sort"

// Candidate is one selectable item.
type Candidate struct {
	ID    int
	Group string
	Team  int
	Cost  int
	Score float64
}

// Requirement fixes how many candidates must be taken from one group.
type Requirement struct {
	Group string
	Count int
}

// Config bounds the search. TeamLimit of zero means no per-team cap.
type Config struct {
	Budget    int
	TeamLimit int
}

type group struct {
	need        int
	cands       []Candidate
	scorePrefix []float64
	// minCost[j][k] is the cheapest way to take k candidates from cands[j:].
	minCost [][]int
}

func (g *group) topScores(from, take int) float64 {
	return g.scorePrefix[from+take] - g.scorePrefix[from]
}

type solver struct {
	groups  []*group
	budget  int
	teamCap int

	// admissible cross-group bounds indexed by group position
	bestAfter    []float64
	minCostAfter []int

	spent     int
	score     float64
	picked    []Candidate
	teamCount map[int]int

	found     bool
	bestScore float64
	bestSet   []Candidate
}

// Solve picks the requirement counts from each group maximizing total score
// under the budget and per-team cap. The second return is false when no
// selection satisfies every constraint.
func Solve(candidates []Candidate, reqs []Requirement, cfg Config) ([]Candidate, bool) {
	byGroup := make(map[string][]Candidate, len(reqs))
	for _, c := range candidates {
		byGroup[c.Group] = append(byGroup[c.Group], c)
	}

	groups := make([]*group, 0, len(reqs))
	for _, req := range reqs {
		cands := byGroup[req.Group]
		if len(cands) < req.Count {
			return nil, false
		}
		sort.SliceStable(cands, func(i, j int) bool { return cands[i].Score > cands[j].Score })
		groups = append(groups, newGroup(req.Count, cands))
	}

	s := &solver{
		groups:    groups,
		budget:    cfg.Budget,
		teamCap:   cfg.TeamLimit,
		teamCount: make(map[int]int),
	}
	s.computeCrossBounds()
	s.dfs(0, 0, 0)

	if !s.found {
		return nil, false
	}
	return s.bestSet, true
}

func newGroup(need int, cands []Candidate) *group {
	g := &group{need: need, cands: cands}

	g.scorePrefix = make([]float64, len(cands)+1)
	for i, c := range cands {
		g.scorePrefix[i+1] = g.scorePrefix[i] + c.Score
	}

	const unreachable = int(^uint(0) >> 1)
	g.minCost = make([][]int, len(cands)+1)
	for j := range g.minCost {
		g.minCost[j] = make([]int, need+1)
	}
	for k := 1; k <= need; k++ {
		g.minCost[len(cands)][k] = unreachable
	}
	for j := len(cands) - 1; j >= 0; j-- {
		for k := 1; k <= need; k++ {
			best := g.minCost[j+1][k]
			if g.minCost[j+1][k-1] != unreachable {
				if taken := g.cands[j].Cost + g.minCost[j+1][k-1]; taken < best {
					best = taken
				}
			}
			g.minCost[j][k] = best
		}
	}

	return g
}

func (s *solver) computeCrossBounds() {
	n := len(s.groups)
	s.bestAfter = make([]float64, n+1)
	s.minCostAfter = make([]int, n+1)
	for i := n - 1; i >= 0; i-- {
		g := s.groups[i]
		s.bestAfter[i] = s.bestAfter[i+1] + g.topScores(0, g.need)
		s.minCostAfter[i] = s.minCostAfter[i+1] + g.minCost[0][g.need]
	}
}

func (s *solver) dfs(gi, ci, taken int) {
	if gi == len(s.groups) {
		if !s.found || s.score > s.bestScore {
			s.found = true
			s.bestScore = s.score
			s.bestSet = append(s.bestSet[:0], s.picked...)
		}
		return
	}

	g := s.groups[gi]
	remaining := g.need - taken
	if remaining == 0 {
		s.dfs(gi+1, 0, 0)
		return
	}
	if len(g.cands)-ci < remaining {
		return
	}

	if s.found && s.score+g.topScores(ci, remaining)+s.bestAfter[gi+1] <= s.bestScore {
		return
	}
	minCost := g.minCost[ci][remaining]
	if minCost == int(^uint(0)>>1) || s.spent+minCost+s.minCostAfter[gi+1] > s.budget {
		return
	}

	c := g.cands[ci]
	if s.spent+c.Cost <= s.budget && (s.teamCap == 0 || s.teamCount[c.Team] < s.teamCap) {
		s.spent += c.Cost
		s.score += c.Score
		s.teamCount[c.Team]++
		s.picked = append(s.picked, c)

		s.dfs(gi, ci+1, taken+1)

		s.picked = s.picked[:len(s.picked)-1]
		s.teamCount[c.Team]--
		s.score -= c.Score
		s.spent -= c.Cost
	}

	s.dfs(gi, ci+1, taken)
}
