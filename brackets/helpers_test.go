package brackets

import (
	"fmt"
	"testing"

	"github.com/Dosada05/football-cup/models"
	"github.com/brianvoe/gofakeit/v7"
)

func intPtr(v int) *int { return &v }

func groupPtr(g models.GroupLabel) *models.GroupLabel { return &g }

func team(id int, name string, g models.GroupLabel) *models.Team {
	t := &models.Team{ID: id, Name: name}
	if g != models.GroupUnassigned {
		t.Group = groupPtr(g)
	}
	return t
}

// result builds a finalized match with a regular-time score.
func result(id int, phase models.Phase, a, b, goalsA, goalsB int) *models.Match {
	return &models.Match{
		ID:        id,
		TeamAID:   a,
		TeamBID:   b,
		Phase:     phase,
		Finalized: true,
		GoalsA:    intPtr(goalsA),
		GoalsB:    intPtr(goalsB),
	}
}

func withPenalties(m *models.Match, a, b int) *models.Match {
	m.PenaltiesA = intPtr(a)
	m.PenaltiesB = intPtr(b)
	return m
}

func withSlot(m *models.Match, slot string) *models.Match {
	m.Slot = slot
	return m
}

// drawnTeams returns 16 teams with fake names, ids 1..16; ids 1-4 in A, 5-8 in B, 9-12 in C, 13-16 in D.
func drawnTeams(t *testing.T) []*models.Team {
	t.Helper()
	faker := gofakeit.New(42)
	teams := make([]*models.Team, 0, 16)
	for i := 0; i < 16; i++ {
		name := fmt.Sprintf("%02d %s FC", i+1, faker.City())
		teams = append(teams, team(i+1, name, models.AllGroups[i/4]))
	}
	return teams
}

// groupResults finalizes every group match so that within each group the team
// with the lowest id wins everything and the second lowest is runner-up.
func groupResults(teams []*models.Team) []*models.Match {
	var matches []*models.Match
	id := 100
	for g := 0; g < 4; g++ {
		ids := []int{teams[g*4].ID, teams[g*4+1].ID, teams[g*4+2].ID, teams[g*4+3].ID}
		for i := 0; i < 4; i++ {
			for j := i + 1; j < 4; j++ {
				id++
				m := result(id, models.PhaseGroups, ids[i], ids[j], 2, 0)
				m.Group = teams[g*4].Group
				matches = append(matches, m)
			}
		}
	}
	return matches
}
