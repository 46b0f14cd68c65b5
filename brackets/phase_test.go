package brackets

import (
	"testing"

	"github.com/Dosada05/football-cup/models"
	"github.com/stretchr/testify/assert"
)

func TestPhaseComplete(t *testing.T) {
	pending := &models.Match{ID: 3, Phase: models.PhaseQuarterfinal}
	tests := []struct {
		name    string
		matches []*models.Match
		phase   models.Phase
		want    bool
	}{
		{"no matches is not complete", nil, models.PhaseGroups, false},
		{"other phases only", []*models.Match{result(1, models.PhaseGroups, 1, 2, 0, 0)}, models.PhaseQuarterfinal, false},
		{"all finalized", []*models.Match{result(1, models.PhaseGroups, 1, 2, 0, 0), result(2, models.PhaseGroups, 3, 4, 1, 0)}, models.PhaseGroups, true},
		{"one pending", []*models.Match{result(1, models.PhaseQuarterfinal, 1, 2, 1, 0), pending}, models.PhaseQuarterfinal, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PhaseComplete(tt.matches, tt.phase))
		})
	}
}

func TestPhaseExists(t *testing.T) {
	matches := []*models.Match{{ID: 1, Phase: models.PhaseSemifinal}}
	assert.True(t, PhaseExists(matches, models.PhaseSemifinal), "unfinished matches still count")
	assert.False(t, PhaseExists(matches, models.PhaseFinal))
	assert.False(t, PhaseExists(nil, models.PhaseGroups))
}

func TestEnoughQualifiers(t *testing.T) {
	teams := drawnTeams(t)
	assert.True(t, EnoughQualifiers(teams, groupResults(teams)))

	assert.True(t, EnoughQualifiers(teams[:15], nil), "three teams in group D still give two qualifiers")
	assert.False(t, EnoughQualifiers(teams[:13], nil), "group D with one team")

	ungrouped := []*models.Team{team(1, "Alpha", models.GroupUnassigned), team(2, "Bravo", models.GroupUnassigned)}
	assert.False(t, EnoughQualifiers(ungrouped, nil))
}

func TestProgress(t *testing.T) {
	teams := drawnTeams(t)
	groups := groupResults(teams)

	ungrouped := []*models.Team{team(1, "Alpha", models.GroupUnassigned)}
	assert.Equal(t, models.StageDraw, Progress(ungrouped, nil).Stage)
	assert.Equal(t, models.StageGroups, Progress(teams, groups).Stage)

	qf := []*models.Match{
		result(201, models.PhaseQuarterfinal, 1, 6, 1, 0),
		{ID: 202, TeamAID: 5, TeamBID: 2, Phase: models.PhaseQuarterfinal},
	}
	progress := Progress(teams, append(groups, qf...))
	assert.Equal(t, models.StageQuarterfinal, progress.Stage)
	assert.Equal(t, models.PhaseStatus{Phase: models.PhaseQuarterfinal, Exists: true, Matches: 2, Played: 1}, progress.Phases[1])
	assert.Equal(t, models.PhaseStatus{Phase: models.PhaseGroups, Exists: true, Complete: true, Matches: 24, Played: 24}, progress.Phases[0])

	final := result(401, models.PhaseFinal, 1, 9, 1, 0)
	all := append(append(groups, qf...), result(301, models.PhaseSemifinal, 1, 5, 1, 0), final)
	assert.Equal(t, models.StageChampion, Progress(teams, all).Stage)
}
