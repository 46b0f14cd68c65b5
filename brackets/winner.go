package brackets

import (
	"fmt"

	"github.com/Dosada05/football-cup/models"
)

// Outcome is the result of a decided match. WinnerID is 0 when Draw is true.
type Outcome struct {
	WinnerID int
	Draw     bool
}

// ResolveOutcome determines who won a finalized match.
//
// A level group-phase score is a legitimate draw. A level elimination score is
// settled by penalties; if they are missing or level the tie is unresolved and
// an error is returned instead of guessing.
func ResolveOutcome(m *models.Match) (Outcome, error) {
	if !m.Finalized {
		return Outcome{}, fmt.Errorf("%w: match %d", ErrMatchNotFinalized, m.ID)
	}
	if !m.HasScore() {
		return Outcome{}, fmt.Errorf("%w: match %d", ErrResultNotSet, m.ID)
	}

	a, b := *m.GoalsA, *m.GoalsB
	switch {
	case a > b:
		return Outcome{WinnerID: m.TeamAID}, nil
	case b > a:
		return Outcome{WinnerID: m.TeamBID}, nil
	}

	if !m.Phase.IsElimination() {
		return Outcome{Draw: true}, nil
	}
	if !m.HasPenalties() {
		return Outcome{}, fmt.Errorf("%w: match %d ended %d-%d with no shoot-out recorded", ErrTieUnresolved, m.ID, a, b)
	}

	pa, pb := *m.PenaltiesA, *m.PenaltiesB
	switch {
	case pa > pb:
		return Outcome{WinnerID: m.TeamAID}, nil
	case pb > pa:
		return Outcome{WinnerID: m.TeamBID}, nil
	}
	return Outcome{}, fmt.Errorf("%w: match %d shoot-out level at %d-%d", ErrTieUnresolved, m.ID, pa, pb)
}

// MatchWinner returns the id of the team that went through. Only meaningful for
// elimination matches; a drawn group match yields ErrNoWinner.
func MatchWinner(m *models.Match) (int, error) {
	out, err := ResolveOutcome(m)
	if err != nil {
		return 0, err
	}
	if out.Draw {
		return 0, fmt.Errorf("%w: match %d", ErrNoWinner, m.ID)
	}
	return out.WinnerID, nil
}

// Leader reports which side is ahead on the recorded score, penalties included.
// It never fails; false means level or no score yet.
func Leader(m *models.Match) (int, bool) {
	if !m.HasScore() {
		return 0, false
	}
	a, b := *m.GoalsA, *m.GoalsB
	if a == b && m.HasPenalties() {
		a, b = *m.PenaltiesA, *m.PenaltiesB
	}
	switch {
	case a > b:
		return m.TeamAID, true
	case b > a:
		return m.TeamBID, true
	}
	return 0, false
}
