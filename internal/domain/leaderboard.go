package domain

import "sort"

// Standing is one ranked leaderboard row.
type Standing struct {
	TeamID      string
	Name        string
	TotalPoints int
	Rank        int
}

// RecomputeStandings ranks teams by aggregate points descending and assigns
// 1-based ranks. The sort is stable, so teams with equal totals keep their
// input order; the store feeds teams ordered by ID, which pins the tie-break.
func RecomputeStandings(teams []Team) []Standing {
	ordered := make([]Team, len(teams))
	copy(ordered, teams)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].TotalPoints > ordered[j].TotalPoints
	})

	standings := make([]Standing, len(ordered))
	for i, team := range ordered {
		standings[i] = Standing{
			TeamID:      team.ID,
			Name:        team.Name,
			TotalPoints: team.TotalPoints,
			Rank:        i + 1,
		}
	}
	return standings
}
