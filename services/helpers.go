package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/football-cup/brackets"
	"github.com/Dosada05/football-cup/models"
	"github.com/Dosada05/football-cup/repositories"
	"golang.org/x/sync/errgroup"
)

// snapshot is the consistent view of the cup the engine works on.
type snapshot struct {
	teams   []*models.Team
	matches []*models.Match
}

// loadSnapshot reads every team and match. Outside a transaction both lists are
// fetched in parallel; inside one they share the connection and run in turn.
func loadSnapshot(ctx context.Context, exec repositories.SQLExecutor, teamRepo repositories.TeamRepository, matchRepo repositories.MatchRepository) (*snapshot, error) {
	snap := &snapshot{}
	if exec != nil {
		var err error
		if snap.teams, err = teamRepo.List(ctx, exec); err != nil {
			return nil, fmt.Errorf("failed to list teams: %w", err)
		}
		if snap.matches, err = matchRepo.List(ctx, exec, repositories.MatchFilter{}); err != nil {
			return nil, fmt.Errorf("failed to list matches: %w", err)
		}
		return snap, nil
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		teams, err := teamRepo.List(gCtx, nil)
		if err != nil {
			return fmt.Errorf("failed to list teams: %w", err)
		}
		snap.teams = teams
		return nil
	})
	g.Go(func() error {
		matches, err := matchRepo.List(gCtx, nil, repositories.MatchFilter{})
		if err != nil {
			return fmt.Errorf("failed to list matches: %w", err)
		}
		snap.matches = matches
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *snapshot) team(id int) *models.Team {
	for _, t := range s.teams {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// isIntegrityError reports whether err comes from an inconsistent stored result.
func isIntegrityError(err error) bool {
	return errors.Is(err, brackets.ErrMatchNotFinalized) ||
		errors.Is(err, brackets.ErrResultNotSet) ||
		errors.Is(err, brackets.ErrTieUnresolved) ||
		errors.Is(err, brackets.ErrNoWinner) ||
		errors.Is(err, brackets.ErrFinalMatchCount)
}

// handleRepositoryError translates repository sentinels into service errors.
func handleRepositoryError(err error, entityName string, entityID int) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrTeamNotFound):
		return fmt.Errorf("%w: %s %d", ErrTeamNotFound, entityName, entityID)
	case errors.Is(err, repositories.ErrMatchNotFound):
		return fmt.Errorf("%w: %s %d", ErrMatchNotFound, entityName, entityID)
	case errors.Is(err, repositories.ErrMatchTeamNotFound):
		return fmt.Errorf("%w: %w", ErrTeamNotFound, err)
	case errors.Is(err, repositories.ErrTeamNameConflict):
		return ErrTeamNameConflict
	case errors.Is(err, repositories.ErrUserNotFound):
		return fmt.Errorf("%w: %s %d", ErrNotFound, entityName, entityID)
	case errors.Is(err, repositories.ErrUserEmailConflict):
		return ErrUserEmailConflict
	case errors.Is(err, repositories.ErrDrawAlreadyRecorded),
		errors.Is(err, repositories.ErrMatchSlotConflict),
		errors.Is(err, repositories.ErrTeamAlreadyGrouped):
		return fmt.Errorf("%w: %w", ErrPhaseAlreadyExists, err)
	case errors.Is(err, repositories.ErrMatchInvalid):
		return fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}
	return fmt.Errorf("failed to process %s %d: %w", entityName, entityID, err)
}

// Schedule places the matches of a generated round. Pairings that carry
// their own date keep it; the rest start at Start and are spaced by Interval.
type Schedule struct {
	Start    time.Time
	Interval time.Duration
}

func (sc Schedule) at(i int) time.Time {
	return sc.Start.Add(time.Duration(i) * sc.Interval)
}

func (sc Schedule) validate() error {
	if sc.Start.IsZero() {
		return fmt.Errorf("%w: start time is required", ErrValidationFailed)
	}
	if sc.Interval < 0 {
		return fmt.Errorf("%w: interval must not be negative", ErrValidationFailed)
	}
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
