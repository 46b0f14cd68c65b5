package snapshot

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Dosada05/football-cup/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
teams:
  - id: 1
    name: Harbour FC
    city: Porto
    group: A
  - id: 2
    name: Valley United
    group: A
  - id: 3
    name: Late Entry
matches:
  - id: 10
    phase: groups
    group: A
    team_a: 1
    team_b: 2
    scheduled_at: 2026-06-01T18:00:00Z
    finalized: true
    goals: [2, 1]
    yellow: [1, 3]
`

func TestLoad(t *testing.T) {
	snap, err := Load(strings.NewReader(sample))
	require.NoError(t, err)

	require.Len(t, snap.Teams, 3)
	assert.Equal(t, models.GroupA, snap.Teams[0].GroupOrUnassigned())
	assert.Equal(t, models.GroupUnassigned, snap.Teams[2].GroupOrUnassigned())

	require.Len(t, snap.Matches, 1)
	m := snap.Matches[0]
	assert.Equal(t, models.PhaseGroups, m.Phase)
	assert.True(t, m.Finalized)
	require.True(t, m.HasScore())
	assert.Equal(t, 2, *m.GoalsA)
	assert.Equal(t, 1, *m.GoalsB)
	assert.False(t, m.HasPenalties())
	assert.Equal(t, 3, *m.YellowB)
	assert.Nil(t, m.RedA)
	assert.Equal(t, time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC), m.ScheduledAt.UTC())
	assert.Equal(t, 11, snap.NextMatchID())
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown key", "teams:\n  - id: 1\n    name: X\n    colour: red\n"},
		{"unknown group", "teams:\n  - id: 1\n    name: X\n    group: E\n"},
		{"duplicate team", "teams:\n  - {id: 1, name: X}\n  - {id: 1, name: Y}\n"},
		{"unknown phase", "teams:\n  - {id: 1, name: X}\n  - {id: 2, name: Y}\nmatches:\n  - {id: 1, phase: playoff, team_a: 1, team_b: 2}\n"},
		{"unknown team", "teams:\n  - {id: 1, name: X}\nmatches:\n  - {id: 1, phase: groups, team_a: 1, team_b: 9}\n"},
		{"self match", "teams:\n  - {id: 1, name: X}\nmatches:\n  - {id: 1, phase: groups, team_a: 1, team_b: 1}\n"},
		{"short goals", "teams:\n  - {id: 1, name: X}\n  - {id: 2, name: Y}\nmatches:\n  - {id: 1, phase: groups, team_a: 1, team_b: 2, goals: [1]}\n"},
		{"negative goals", "teams:\n  - {id: 1, name: X}\n  - {id: 2, name: Y}\nmatches:\n  - {id: 1, phase: groups, team_a: 1, team_b: 2, goals: [1, -1]}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadEmpty(t *testing.T) {
	snap, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, snap.Teams)
	assert.Equal(t, 1, snap.NextMatchID())
}

func TestWriteFileRoundTrip(t *testing.T) {
	snap, err := Load(strings.NewReader(sample))
	require.NoError(t, err)

	three, one := 3, 1
	snap.Matches = append(snap.Matches, &models.Match{
		ID: 11, Phase: models.PhaseQuarterfinal, Slot: "QF1",
		TeamAID: 2, TeamBID: 3, Finalized: true,
		GoalsA: &one, GoalsB: &one, PenaltiesA: &three, PenaltiesB: &one,
	})

	path := filepath.Join(t.TempDir(), "cup.yaml")
	require.NoError(t, snap.WriteFile(path))

	again, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, again.Matches, 2)
	qf := again.Matches[1]
	assert.Equal(t, "QF1", qf.Slot)
	assert.True(t, qf.Decided())
	assert.Equal(t, 3, *qf.PenaltiesA)

	var buf bytes.Buffer
	require.NoError(t, again.Write(&buf))
	assert.Contains(t, buf.String(), "penalties: [3, 1]")
}
