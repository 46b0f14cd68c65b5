package models

import (
	"time"

	"github.com/google/uuid"
)

// DrawKind names what a draw record captured.
type DrawKind string

const (
	DrawKindGroups       DrawKind = "groups"
	DrawKindQuarterfinal DrawKind = "quarterfinal"
	DrawKindSemifinal    DrawKind = "semifinal"
	DrawKindFinal        DrawKind = "final"
)

// DrawKindForPhase maps an elimination phase to the record kind that logs its pairings.
func DrawKindForPhase(p Phase) DrawKind {
	switch p {
	case PhaseQuarterfinal:
		return DrawKindQuarterfinal
	case PhaseSemifinal:
		return DrawKindSemifinal
	case PhaseFinal:
		return DrawKindFinal
	}
	return DrawKindGroups
}

type GroupAssignment struct {
	TeamID int        `json:"team_id"`
	Group  GroupLabel `json:"group"`
}

// Pairing is one bracket slot produced by the generator.
type Pairing struct {
	Slot        string     `json:"slot"`
	TeamAID     int        `json:"team_a_id"`
	TeamBID     int        `json:"team_b_id"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
}

// DrawRecord is an append-only log entry of a draw or a generated round.
type DrawRecord struct {
	ID        uuid.UUID         `json:"id" db:"id"`
	Kind      DrawKind          `json:"kind" db:"kind"`
	Manual    bool              `json:"manual" db:"manual"`
	Groups    []GroupAssignment `json:"groups,omitempty" db:"-"`
	Pairings  []Pairing         `json:"pairings,omitempty" db:"-"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
}
