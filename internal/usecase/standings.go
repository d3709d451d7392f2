package usecase

import (
	"sort"

	"github.com/riskibarqy/fpl-data-service/internal/domain/fixture"
	"github.com/riskibarqy/fpl-data-service/internal/domain/standing"
	"github.com/riskibarqy/fpl-data-service/internal/domain/team"
)

// ComputeStandings derives a league table from finished fixtures. Fixtures
// referencing a team id outside the given team list are ignored, as are
// fixtures without a final score.
func ComputeStandings(fixtures []fixture.Fixture, teams []team.Team) []standing.Standing {
	rows := make(map[int]*standing.Standing, len(teams))
	for _, t := range teams {
		rows[t.ID] = &standing.Standing{TeamID: t.ID, TeamName: t.Name}
	}

	for _, f := range fixtures {
		if !f.HasResult() {
			continue
		}
		home, okHome := rows[f.TeamH]
		away, okAway := rows[f.TeamA]
		if !okHome || !okAway {
			continue
		}

		homeGoals := *f.TeamHScore
		awayGoals := *f.TeamAScore

		home.Played++
		away.Played++
		home.GoalsFor += homeGoals
		home.GoalsAgainst += awayGoals
		away.GoalsFor += awayGoals
		away.GoalsAgainst += homeGoals

		switch {
		case homeGoals > awayGoals:
			home.Wins++
			home.Points += 3
			away.Losses++
		case homeGoals < awayGoals:
			away.Wins++
			away.Points += 3
			home.Losses++
		default:
			home.Draws++
			away.Draws++
			home.Points++
			away.Points++
		}
	}

	out := make([]standing.Standing, 0, len(rows))
	for _, row := range rows {
		row.GoalDifference = row.GoalsFor - row.GoalsAgainst
		out = append(out, *row)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		if out[i].GoalDifference != out[j].GoalDifference {
			return out[i].GoalDifference > out[j].GoalDifference
		}
		if out[i].GoalsFor != out[j].GoalsFor {
			return out[i].GoalsFor > out[j].GoalsFor
		}
		return out[i].TeamID < out[j].TeamID
	})

	for i := range out {
		out[i].Position = i + 1
	}

	return out
}
