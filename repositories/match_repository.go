package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/football-cup/models"
)

var (
	ErrMatchNotFound     = errors.New("match not found")
	ErrMatchSlotConflict = errors.New("match slot already taken in this phase")
	ErrMatchTeamNotFound = errors.New("match references unknown team")
	ErrMatchInvalid      = errors.New("match violates a table constraint")
)

// MatchFilter narrows List. Zero values match everything.
type MatchFilter struct {
	Phase models.Phase
	Group models.GroupLabel
}

// MatchResult is the payload written when a result is recorded.
type MatchResult struct {
	GoalsA, GoalsB         int
	PenaltiesA, PenaltiesB *int
	YellowA, YellowB       *int
	RedA, RedB             *int
	Finalized              bool
}

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	List(ctx context.Context, exec SQLExecutor, filter MatchFilter) ([]*models.Match, error)
	UpdateResult(ctx context.Context, exec SQLExecutor, id int, result MatchResult) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `id, team_a_id, team_b_id, phase, group_label, slot, scheduled_at, finalized,
	goals_a, goals_b, penalties_a, penalties_b, yellow_a, yellow_b, red_a, red_b, created_at`

func mapMatchWriteError(err error) error {
	code, constraint := pqErrorCode(err)
	switch code {
	case pqUniqueViolation:
		if constraint == "matches_phase_slot_key" {
			return ErrMatchSlotConflict
		}
	case pqForeignKeyViolation:
		return ErrMatchTeamNotFound
	case pqCheckViolation:
		return fmt.Errorf("%w: %s", ErrMatchInvalid, constraint)
	}
	return err
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		INSERT INTO matches (team_a_id, team_b_id, phase, group_label, slot, scheduled_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, finalized, created_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		match.TeamAID, match.TeamBID, match.Phase, match.Group, match.Slot, match.ScheduledAt,
	).Scan(&match.ID, &match.Finalized, &match.CreatedAt)
	if err != nil {
		return mapMatchWriteError(err)
	}
	return nil
}

func scanMatch(row rowScanner) (*models.Match, error) {
	var m models.Match
	err := row.Scan(
		&m.ID, &m.TeamAID, &m.TeamBID, &m.Phase, &m.Group, &m.Slot, &m.ScheduledAt, &m.Finalized,
		&m.GoalsA, &m.GoalsB, &m.PenaltiesA, &m.PenaltiesB, &m.YellowA, &m.YellowB, &m.RedA, &m.RedB,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	return scanMatch(r.getExecutor(exec).QueryRowContext(ctx, query, id))
}

func (r *postgresMatchRepository) List(ctx context.Context, exec SQLExecutor, filter MatchFilter) ([]*models.Match, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.Phase != "" {
		args = append(args, filter.Phase)
		conditions = append(conditions, fmt.Sprintf("phase = $%d", len(args)))
	}
	if filter.Group != models.GroupUnassigned {
		args = append(args, filter.Group)
		conditions = append(conditions, fmt.Sprintf("group_label = $%d", len(args)))
	}

	query := `SELECT ` + matchColumns + ` FROM matches`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY scheduled_at ASC, id ASC"

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *postgresMatchRepository) UpdateResult(ctx context.Context, exec SQLExecutor, id int, res MatchResult) error {
	query := `
		UPDATE matches
		SET goals_a = $1, goals_b = $2, penalties_a = $3, penalties_b = $4,
		    yellow_a = $5, yellow_b = $6, red_a = $7, red_b = $8, finalized = $9
		WHERE id = $10`

	result, err := r.getExecutor(exec).ExecContext(ctx, query,
		res.GoalsA, res.GoalsB, res.PenaltiesA, res.PenaltiesB,
		res.YellowA, res.YellowB, res.RedA, res.RedB, res.Finalized, id,
	)
	if err != nil {
		return mapMatchWriteError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}
