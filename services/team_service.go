package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/football-cup/models"
	"github.com/Dosada05/football-cup/repositories"
	"github.com/Dosada05/football-cup/storage"
)

const maxTeams = 16

type CreateTeamInput struct {
	Name string `json:"name"`
	City string `json:"city"`
}

type TeamService interface {
	CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error)
	GetTeam(ctx context.Context, id int) (*models.Team, error)
	ListTeams(ctx context.Context) ([]*models.Team, error)
	UploadLogo(ctx context.Context, teamID int, contentType string, file io.Reader) (*models.Team, error)
}

type teamService struct {
	tx       repositories.Transactor
	teamRepo repositories.TeamRepository
	uploader storage.FileUploader
	logger   *slog.Logger
	now      func() time.Time
}

// NewTeamService builds the team service. A nil uploader disables logo upload.
func NewTeamService(
	tx repositories.Transactor,
	teamRepo repositories.TeamRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TeamService {
	if logger == nil {
		logger = discardLogger()
	}
	return &teamService{
		tx:       tx,
		teamRepo: teamRepo,
		uploader: uploader,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *teamService) CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}

	team := &models.Team{Name: name, City: strings.TrimSpace(input.City)}
	err := s.tx.WithinProgressionTx(ctx, func(exec repositories.SQLExecutor) error {
		teams, err := s.teamRepo.List(ctx, exec)
		if err != nil {
			return fmt.Errorf("failed to list teams: %w", err)
		}
		if len(teams) >= maxTeams {
			return ErrCupFull
		}
		for _, t := range teams {
			if t.Group != nil {
				return fmt.Errorf("%w: groups are already drawn", ErrPhaseAlreadyExists)
			}
		}
		if err := s.teamRepo.Create(ctx, exec, team); err != nil {
			return handleRepositoryError(err, "team", 0)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "team created", slog.Int("team_id", team.ID), slog.String("name", team.Name))
	return team, nil
}

func (s *teamService) GetTeam(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, handleRepositoryError(err, "team", id)
	}
	s.populateLogoURL(team)
	return team, nil
}

func (s *teamService) ListTeams(ctx context.Context) ([]*models.Team, error) {
	teams, err := s.teamRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	for _, t := range teams {
		s.populateLogoURL(t)
	}
	return teams, nil
}

func (s *teamService) UploadLogo(ctx context.Context, teamID int, contentType string, file io.Reader) (*models.Team, error) {
	if s.uploader == nil {
		return nil, ErrStorageDisabled
	}
	ext, ok := storage.LogoExtension(contentType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFileType, contentType)
	}

	team, err := s.teamRepo.GetByID(ctx, nil, teamID)
	if err != nil {
		return nil, handleRepositoryError(err, "team", teamID)
	}
	oldKey := team.LogoKey

	key := storage.TeamLogoKey(teamID, ext, s.now())
	if _, err := s.uploader.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload logo for team %d: %w", teamID, err)
	}

	if err := s.teamRepo.UpdateLogoKey(ctx, nil, teamID, &key); err != nil {
		if delErr := s.uploader.Delete(ctx, key); delErr != nil {
			s.logger.WarnContext(ctx, "failed to remove orphaned logo",
				slog.String("key", key), slog.Any("error", delErr))
		}
		return nil, handleRepositoryError(err, "team", teamID)
	}

	if oldKey != nil && *oldKey != "" && *oldKey != key {
		if err := s.uploader.Delete(ctx, *oldKey); err != nil {
			s.logger.WarnContext(ctx, "failed to delete previous logo",
				slog.Int("team_id", teamID), slog.String("key", *oldKey), slog.Any("error", err))
		}
	}

	team.LogoKey = &key
	s.populateLogoURL(team)
	s.logger.InfoContext(ctx, "team logo updated", slog.Int("team_id", teamID), slog.String("key", key))
	return team, nil
}

func (s *teamService) populateLogoURL(team *models.Team) {
	if team == nil || s.uploader == nil || team.LogoKey == nil || *team.LogoKey == "" {
		return
	}
	url := s.uploader.GetPublicURL(*team.LogoKey)
	if url != "" {
		team.LogoURL = &url
	}
}
