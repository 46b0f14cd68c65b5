package services

import "errors"

// Errors shared by the services and mapped to HTTP statuses by the handlers.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrValidationFailed    = errors.New("validation failed")
	ErrTeamNameRequired    = errors.New("team name is required")
	ErrCupFull             = errors.New("the cup already has 16 teams")
	ErrSameTeam            = errors.New("a team cannot play itself")
	ErrTeamNotInGroup      = errors.New("team is not drawn into the match group")
	ErrNegativeCount       = errors.New("goal, penalty and card counts must not be negative")
	ErrPenaltiesNotAllowed = errors.New("penalties are only recorded for a level elimination match")
	ErrPenaltiesRequired   = errors.New("a level elimination match needs a decisive penalty shoot-out")
	ErrResultAlreadySet    = errors.New("match result already recorded")
	ErrInvalidFileType     = errors.New("unsupported logo file type")
	ErrStorageDisabled     = errors.New("logo storage is not configured")

	// Progression gate
	ErrPhaseNotReady      = errors.New("phase preconditions are not met")
	ErrPhaseAlreadyExists = errors.New("phase has already been generated")
	ErrChampionNotDecided = errors.New("the final has not been decided")
	ErrDataIntegrity      = errors.New("stored results are inconsistent")

	// Conflicts
	ErrTeamNameConflict  = errors.New("team name is already in use")
	ErrUserEmailConflict = errors.New("email address is already in use")

	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrTeamNotFound  = errors.New("team not found")
	ErrMatchNotFound = errors.New("match not found")
)
