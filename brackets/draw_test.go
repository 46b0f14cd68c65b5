package brackets

import (
	"slices"
	"testing"

	"github.com/Dosada05/football-cup/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ungroupedTeams(n int) []*models.Team {
	teams := make([]*models.Team, 0, n)
	for i := 1; i <= n; i++ {
		teams = append(teams, &models.Team{ID: i})
	}
	return teams
}

func TestAssignGroups_Validation(t *testing.T) {
	_, err := AssignGroups(NewSeededDraw(1), ungroupedTeams(15))
	assert.ErrorIs(t, err, ErrInvalidTeamCount)

	_, err = AssignGroups(NewSeededDraw(1), ungroupedTeams(17))
	assert.ErrorIs(t, err, ErrInvalidTeamCount)

	teams := ungroupedTeams(16)
	teams[7].Group = groupPtr(models.GroupC)
	_, err = AssignGroups(NewSeededDraw(1), teams)
	assert.ErrorIs(t, err, ErrTeamAlreadyGrouped)

	dup := ungroupedTeams(16)
	dup[15].ID = 1
	_, err = AssignGroups(NewSeededDraw(1), dup)
	assert.ErrorIs(t, err, ErrInvalidTeamCount)
}

func TestAssignGroups_Deterministic(t *testing.T) {
	first, err := AssignGroups(NewSeededDraw(99), ungroupedTeams(16))
	require.NoError(t, err)
	second, err := AssignGroups(NewSeededDraw(99), ungroupedTeams(16))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAssignGroups_DoesNotMutateTeams(t *testing.T) {
	teams := ungroupedTeams(16)
	_, err := AssignGroups(NewDraw(), teams)
	require.NoError(t, err)
	for _, tm := range teams {
		assert.Nil(t, tm.Group)
	}
}

func TestAssignGroups_Distribution(t *testing.T) {
	const trials = 4000
	d := NewSeededDraw(2026)
	teams := ungroupedTeams(16)
	counts := make(map[int]map[models.GroupLabel]int, 16)
	for _, tm := range teams {
		counts[tm.ID] = make(map[models.GroupLabel]int, 4)
	}

	for i := 0; i < trials; i++ {
		assignments, err := AssignGroups(d, teams)
		require.NoError(t, err)
		require.Len(t, assignments, 16)

		perGroup := make(map[models.GroupLabel]int, 4)
		ids := make([]int, 0, 16)
		for _, a := range assignments {
			perGroup[a.Group]++
			counts[a.TeamID][a.Group]++
			ids = append(ids, a.TeamID)
		}
		for _, g := range models.AllGroups {
			require.Equal(t, 4, perGroup[g], "group %s size", g)
		}
		slices.Sort(ids)
		require.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}, ids)
	}

	expected := trials / 4
	tolerance := expected * 15 / 100
	for id, perGroup := range counts {
		for _, g := range models.AllGroups {
			assert.InDelta(t, expected, perGroup[g], float64(tolerance), "team %d in group %s", id, g)
		}
	}
}

func TestShuffle_IsPermutation(t *testing.T) {
	s := []string{"a", "b", "c", "d", "e"}
	Shuffle(NewSeededDraw(5), s)
	sorted := slices.Clone(s)
	slices.Sort(sorted)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, sorted)

	var empty []int
	Shuffle(nil, empty)
	assert.Empty(t, empty)
}

func TestShuffle_AllOrdersReachable(t *testing.T) {
	d := NewSeededDraw(8)
	seen := make(map[[3]int]int)
	for i := 0; i < 6000; i++ {
		s := []int{1, 2, 3}
		Shuffle(d, s)
		seen[[3]int{s[0], s[1], s[2]}]++
	}
	require.Len(t, seen, 6)
	for perm, n := range seen {
		assert.InDelta(t, 1000, n, 150, "permutation %v", perm)
	}
}
