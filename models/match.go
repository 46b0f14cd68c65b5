package models

import "time"

// Phase is one stage of the cup.
type Phase string

const (
	PhaseGroups       Phase = "groups"
	PhaseQuarterfinal Phase = "quarterfinal"
	PhaseSemifinal    Phase = "semifinal"
	PhaseFinal        Phase = "final"
)

// AllPhases lists the phases in progression order.
var AllPhases = []Phase{PhaseGroups, PhaseQuarterfinal, PhaseSemifinal, PhaseFinal}

func (p Phase) Valid() bool {
	switch p {
	case PhaseGroups, PhaseQuarterfinal, PhaseSemifinal, PhaseFinal:
		return true
	}
	return false
}

// IsElimination reports whether a level score must be settled by penalties.
func (p Phase) IsElimination() bool {
	return p == PhaseQuarterfinal || p == PhaseSemifinal || p == PhaseFinal
}

// Next returns the phase generated after p, or "" for the final.
func (p Phase) Next() Phase {
	switch p {
	case PhaseGroups:
		return PhaseQuarterfinal
	case PhaseQuarterfinal:
		return PhaseSemifinal
	case PhaseSemifinal:
		return PhaseFinal
	}
	return ""
}

type Match struct {
	ID          int         `json:"id" db:"id"`
	TeamAID     int         `json:"team_a_id" db:"team_a_id"`
	TeamBID     int         `json:"team_b_id" db:"team_b_id"`
	Phase       Phase       `json:"phase" db:"phase"`
	Group       *GroupLabel `json:"group,omitempty" db:"group_label"`
	Slot        string      `json:"slot,omitempty" db:"slot"` // QF1..QF4, SF1, SF2, F
	ScheduledAt time.Time   `json:"scheduled_at" db:"scheduled_at"`
	Finalized   bool        `json:"finalized" db:"finalized"`

	GoalsA     *int `json:"goals_a,omitempty" db:"goals_a"`
	GoalsB     *int `json:"goals_b,omitempty" db:"goals_b"`
	PenaltiesA *int `json:"penalties_a,omitempty" db:"penalties_a"`
	PenaltiesB *int `json:"penalties_b,omitempty" db:"penalties_b"`
	YellowA    *int `json:"yellow_a,omitempty" db:"yellow_a"`
	YellowB    *int `json:"yellow_b,omitempty" db:"yellow_b"`
	RedA       *int `json:"red_a,omitempty" db:"red_a"`
	RedB       *int `json:"red_b,omitempty" db:"red_b"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// HasScore reports whether both regular-time goal counts are recorded.
func (m *Match) HasScore() bool {
	return m.GoalsA != nil && m.GoalsB != nil
}

// HasPenalties reports whether both shoot-out counts are recorded.
func (m *Match) HasPenalties() bool {
	return m.PenaltiesA != nil && m.PenaltiesB != nil
}

// Decided reports whether the match has a usable final result.
func (m *Match) Decided() bool {
	if !m.Finalized || !m.HasScore() {
		return false
	}
	if m.Phase.IsElimination() && *m.GoalsA == *m.GoalsB {
		return m.HasPenalties() && *m.PenaltiesA != *m.PenaltiesB
	}
	return true
}

// Involves reports whether teamID plays in the match.
func (m *Match) Involves(teamID int) bool {
	return m.TeamAID == teamID || m.TeamBID == teamID
}
