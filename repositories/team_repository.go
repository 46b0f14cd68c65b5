package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/football-cup/models"
)

var (
	ErrTeamNotFound       = errors.New("team not found")
	ErrTeamNameConflict   = errors.New("team name conflict")
	ErrTeamAlreadyGrouped = errors.New("team already assigned to a group")
)

type TeamRepository interface {
	Create(ctx context.Context, exec SQLExecutor, team *models.Team) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Team, error)
	List(ctx context.Context, exec SQLExecutor) ([]*models.Team, error)
	AssignGroups(ctx context.Context, exec SQLExecutor, assignments []models.GroupAssignment) error
	UpdateLogoKey(ctx context.Context, exec SQLExecutor, id int, logoKey *string) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const teamColumns = `id, name, city, group_label, logo_key, created_at`

func (r *postgresTeamRepository) Create(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	query := `
		INSERT INTO teams (name, city, group_label, logo_key)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		team.Name, team.City, team.Group, team.LogoKey,
	).Scan(&team.ID, &team.CreatedAt)
	if err != nil {
		if code, constraint := pqErrorCode(err); code == pqUniqueViolation && constraint == "teams_name_key" {
			return ErrTeamNameConflict
		}
		return err
	}
	return nil
}

func (r *postgresTeamRepository) scanTeam(row rowScanner) (*models.Team, error) {
	var t models.Team
	if err := row.Scan(&t.ID, &t.Name, &t.City, &t.Group, &t.LogoKey, &t.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`
	return r.scanTeam(r.getExecutor(exec).QueryRowContext(ctx, query, id))
}

func (r *postgresTeamRepository) List(ctx context.Context, exec SQLExecutor) ([]*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams ORDER BY id ASC`
	rows, err := r.getExecutor(exec).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		t, scanErr := r.scanTeam(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		teams = append(teams, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

// AssignGroups sets the group of every listed team. A team that already has a
// group is left untouched and fails the whole call.
func (r *postgresTeamRepository) AssignGroups(ctx context.Context, exec SQLExecutor, assignments []models.GroupAssignment) error {
	executor := r.getExecutor(exec)
	query := `UPDATE teams SET group_label = $1 WHERE id = $2 AND group_label IS NULL`
	for _, a := range assignments {
		result, err := executor.ExecContext(ctx, query, a.Group, a.TeamID)
		if err != nil {
			return fmt.Errorf("assign team %d to group %s: %w", a.TeamID, a.Group, err)
		}
		if err := checkAffectedRows(result, fmt.Errorf("%w: team %d", ErrTeamAlreadyGrouped, a.TeamID)); err != nil {
			return err
		}
	}
	return nil
}

func (r *postgresTeamRepository) UpdateLogoKey(ctx context.Context, exec SQLExecutor, id int, logoKey *string) error {
	result, err := r.getExecutor(exec).ExecContext(ctx, `UPDATE teams SET logo_key = $1 WHERE id = $2`, logoKey, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}
