package brackets

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/Dosada05/football-cup/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStandings_DrawAwardsOnePointEach(t *testing.T) {
	teams := []*models.Team{team(1, "Alpha", models.GroupA), team(2, "Bravo", models.GroupA)}
	matches := []*models.Match{result(1, models.PhaseGroups, 1, 2, 2, 2)}

	rows := ComputeStandings(teams, matches)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, 1, row.Points)
		assert.Equal(t, 1, row.Draws)
		assert.Equal(t, 0, row.Wins)
		assert.Equal(t, 0, row.Losses)
		assert.Equal(t, 1, row.Played)
		assert.Equal(t, 2, row.GoalsFor)
		assert.Equal(t, 2, row.GoalsAgainst)
	}
}

func TestComputeStandings_Aggregation(t *testing.T) {
	teams := []*models.Team{
		team(1, "Alpha", models.GroupA),
		team(2, "Bravo", models.GroupA),
		team(3, "Charlie", models.GroupA),
	}
	m1 := result(1, models.PhaseGroups, 1, 2, 3, 1)
	m1.YellowA, m1.RedB = intPtr(2), intPtr(1)
	m2 := result(2, models.PhaseGroups, 2, 3, 0, 0)
	unfinished := &models.Match{ID: 3, TeamAID: 1, TeamBID: 3, Phase: models.PhaseGroups, GoalsA: intPtr(9), GoalsB: intPtr(0)}
	noScore := &models.Match{ID: 4, TeamAID: 1, TeamBID: 3, Phase: models.PhaseGroups, Finalized: true}
	unknownTeam := result(5, models.PhaseGroups, 1, 99, 5, 0)

	rows := ComputeStandings(teams, []*models.Match{m1, m2, unfinished, noScore, unknownTeam})

	want := []models.StandingsRow{
		{TeamID: 1, TeamName: "Alpha", Group: groupPtr(models.GroupA), Points: 3, Played: 1, Wins: 1, GoalsFor: 3, GoalsAgainst: 1, GoalDifference: 2, YellowCards: 2},
		{TeamID: 3, TeamName: "Charlie", Group: groupPtr(models.GroupA), Points: 1, Played: 1, Draws: 1},
		{TeamID: 2, TeamName: "Bravo", Group: groupPtr(models.GroupA), Points: 1, Played: 2, Draws: 1, Losses: 1, GoalsFor: 1, GoalsAgainst: 3, GoalDifference: -2, RedCards: 1},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("ComputeStandings() mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeStandings_KnockoutMatchesCountWhenIncluded(t *testing.T) {
	teams := []*models.Team{team(1, "Alpha", models.GroupA), team(2, "Bravo", models.GroupB)}
	matches := []*models.Match{
		result(1, models.PhaseGroups, 1, 2, 1, 0),
		withPenalties(result(2, models.PhaseQuarterfinal, 1, 2, 1, 1), 3, 4),
	}

	all := ComputeStandings(teams, matches)
	groupOnly := ComputeStandings(teams, GroupPhaseMatches(matches))

	assert.Equal(t, 2, all[0].Played)
	assert.Equal(t, 4, all[0].Points, "the knockout draw counts as a draw in lifetime stats")
	assert.Equal(t, 1, groupOnly[0].Played)
	assert.Equal(t, 3, groupOnly[0].Points)
}

func TestComputeStandings_NoMatchesSortsByName(t *testing.T) {
	teams := []*models.Team{
		team(3, "Zulu", models.GroupA),
		team(1, "Mike", models.GroupA),
		team(2, "Alpha", models.GroupA),
	}
	rows := ComputeStandings(teams, nil)
	got := make([]string, 0, len(rows))
	for _, r := range rows {
		got = append(got, r.TeamName)
		assert.Zero(t, r.Points)
	}
	assert.Equal(t, []string{"Alpha", "Mike", "Zulu"}, got)
}

func TestComputeStandings_GoalDifferenceBreaksPointsTie(t *testing.T) {
	// T1 and T2 both win their three group games; T1 by +5, T2 by +3.
	teams := []*models.Team{
		team(1, "T1", models.GroupA), team(2, "A2", models.GroupA), team(3, "A3", models.GroupA), team(4, "A4", models.GroupA),
		team(5, "T2", models.GroupB), team(6, "B2", models.GroupB), team(7, "B3", models.GroupB), team(8, "B4", models.GroupB),
	}
	matches := []*models.Match{
		result(1, models.PhaseGroups, 1, 2, 2, 0),
		result(2, models.PhaseGroups, 1, 3, 2, 1),
		result(3, models.PhaseGroups, 1, 4, 2, 0),
		result(4, models.PhaseGroups, 5, 6, 1, 0),
		result(5, models.PhaseGroups, 5, 7, 1, 0),
		result(6, models.PhaseGroups, 5, 8, 1, 0),
	}

	rows := ComputeStandings(teams, matches)
	require.GreaterOrEqual(t, len(rows), 2)
	assert.Equal(t, 1, rows[0].TeamID)
	assert.Equal(t, 9, rows[0].Points)
	assert.Equal(t, 5, rows[0].GoalDifference)
	assert.Equal(t, 5, rows[1].TeamID)
	assert.Equal(t, 9, rows[1].Points)
	assert.Equal(t, 3, rows[1].GoalDifference)
}

func TestCompareRows_Cascade(t *testing.T) {
	base := models.StandingsRow{TeamID: 1, TeamName: "M", Points: 4, Wins: 1, GoalDifference: 1, GoalsFor: 3, GoalsAgainst: 2, Losses: 1, RedCards: 1, YellowCards: 3}

	tests := []struct {
		name   string
		better func(r *models.StandingsRow)
	}{
		{"more points", func(r *models.StandingsRow) { r.Points++ }},
		{"more wins", func(r *models.StandingsRow) { r.Wins++ }},
		{"better goal difference", func(r *models.StandingsRow) { r.GoalDifference++ }},
		{"more goals for", func(r *models.StandingsRow) { r.GoalsFor++ }},
		{"fewer goals against", func(r *models.StandingsRow) { r.GoalsAgainst-- }},
		{"fewer losses", func(r *models.StandingsRow) { r.Losses-- }},
		{"fewer red cards", func(r *models.StandingsRow) { r.RedCards-- }},
		{"fewer yellow cards", func(r *models.StandingsRow) { r.YellowCards-- }},
		{"earlier name", func(r *models.StandingsRow) { r.TeamName = "A" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			better := base
			better.TeamID = 2
			tt.better(&better)
			assert.Negative(t, CompareRows(better, base))
			assert.Positive(t, CompareRows(base, better))
		})
	}

	t.Run("earlier criterion dominates later ones", func(t *testing.T) {
		a := base
		a.Points++
		a.Wins, a.GoalDifference, a.GoalsFor = 0, -10, 0
		a.RedCards, a.YellowCards, a.TeamName = 9, 9, "Z"
		assert.Negative(t, CompareRows(a, base))
	})

	t.Run("identical rows fall back to id", func(t *testing.T) {
		twin := base
		twin.TeamID = 7
		assert.Negative(t, CompareRows(base, twin))
		assert.Zero(t, CompareRows(base, base))
	})
}

func TestComputeStandings_OrderIndependentOfInput(t *testing.T) {
	teams := drawnTeams(t)
	matches := groupResults(teams)
	matches[0].YellowA = intPtr(2)
	matches[3].GoalsA = intPtr(2)
	matches[3].GoalsB = intPtr(2)

	want := ComputeStandings(teams, matches)

	rng := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 20; i++ {
		shuffledTeams := slices.Clone(teams)
		shuffledMatches := slices.Clone(matches)
		rng.Shuffle(len(shuffledTeams), func(a, b int) { shuffledTeams[a], shuffledTeams[b] = shuffledTeams[b], shuffledTeams[a] })
		rng.Shuffle(len(shuffledMatches), func(a, b int) { shuffledMatches[a], shuffledMatches[b] = shuffledMatches[b], shuffledMatches[a] })

		got := ComputeStandings(shuffledTeams, shuffledMatches)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("standings depend on input order (-want +got):\n%s", diff)
		}
	}

	for i := 1; i < len(want); i++ {
		assert.Negative(t, CompareRows(want[i-1], want[i]), "rows %d and %d out of order", i-1, i)
	}
}

func TestGroupStandings(t *testing.T) {
	teams := []*models.Team{
		team(1, "Alpha", models.GroupA),
		team(2, "Bravo", models.GroupB),
		team(3, "Charlie", models.GroupA),
		team(4, "Delta", models.GroupUnassigned),
	}
	matches := []*models.Match{result(1, models.PhaseGroups, 3, 1, 1, 0)}

	grouped := GroupStandings(ComputeStandings(teams, matches))

	require.Len(t, grouped[models.GroupA], 2)
	assert.Equal(t, 3, grouped[models.GroupA][0].TeamID)
	assert.Equal(t, 1, grouped[models.GroupA][1].TeamID)
	require.Len(t, grouped[models.GroupB], 1)
	require.Len(t, grouped[models.GroupUnassigned], 1, "ungrouped teams are kept out of group A")
	assert.Equal(t, 4, grouped[models.GroupUnassigned][0].TeamID)
}

func TestQualifiers(t *testing.T) {
	teams := drawnTeams(t)
	set := GroupQualifiers(teams, groupResults(teams))

	firsts := make([]int, 0, 4)
	seconds := make([]int, 0, 4)
	for i := range set.Firsts {
		firsts = append(firsts, set.Firsts[i].TeamID)
		seconds = append(seconds, set.Seconds[i].TeamID)
	}
	assert.Equal(t, []int{1, 5, 9, 13}, firsts)
	assert.Equal(t, []int{2, 6, 10, 14}, seconds)
	assert.Empty(t, set.Incomplete)
}

func TestQualifiers_SkipsShortGroups(t *testing.T) {
	teams := drawnTeams(t)
	// Group C keeps a single team.
	teams = slices.DeleteFunc(teams, func(tm *models.Team) bool { return tm.ID == 10 || tm.ID == 11 || tm.ID == 12 })

	set := GroupQualifiers(teams, nil)
	assert.Len(t, set.Firsts, 3)
	assert.Len(t, set.Seconds, 3)
	assert.Equal(t, []models.GroupLabel{models.GroupC}, set.Incomplete)
}
