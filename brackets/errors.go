package brackets

import "errors"

// Data-integrity violations: the caller handed the engine an inconsistent record.
var (
	ErrMatchNotFinalized = errors.New("match is not finalized")
	ErrResultNotSet      = errors.New("match result not set")
	ErrTieUnresolved     = errors.New("tie unresolved: penalties required")
	ErrNoWinner          = errors.New("match ended in a draw")
	ErrFinalMatchCount   = errors.New("final phase must hold exactly one match")
)

// Invalid operation input.
var (
	ErrInvalidTeamCount     = errors.New("group draw requires exactly 16 teams")
	ErrTeamAlreadyGrouped   = errors.New("team is already assigned to a group")
	ErrInvalidManualPairing = errors.New("manual pairing must use each quarterfinal winner exactly once")
	ErrOddTeamCount         = errors.New("random pairing requires an even number of teams")
)
