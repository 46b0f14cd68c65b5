package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/football-cup/metrics"
	"github.com/Dosada05/football-cup/models"
	"github.com/Dosada05/football-cup/repositories"
)

var ErrMatchesListFailed = errors.New("failed to list matches")

// CreateFixtureInput describes a single group-stage match.
type CreateFixtureInput struct {
	TeamAID     int               `json:"team_a_id"`
	TeamBID     int               `json:"team_b_id"`
	Group       models.GroupLabel `json:"group"`
	ScheduledAt time.Time         `json:"scheduled_at"`
}

// ResultInput is the final score of a match. Penalties are only accepted
// for a level elimination match.
type ResultInput struct {
	GoalsA     int  `json:"goals_a"`
	GoalsB     int  `json:"goals_b"`
	PenaltiesA *int `json:"penalties_a,omitempty"`
	PenaltiesB *int `json:"penalties_b,omitempty"`
	YellowA    *int `json:"yellow_a,omitempty"`
	YellowB    *int `json:"yellow_b,omitempty"`
	RedA       *int `json:"red_a,omitempty"`
	RedB       *int `json:"red_b,omitempty"`
}

type MatchService interface {
	ListMatches(ctx context.Context, filter repositories.MatchFilter) ([]*models.Match, error)
	GetMatch(ctx context.Context, id int) (*models.Match, error)
	CreateFixture(ctx context.Context, input CreateFixtureInput) (*models.Match, error)
	RecordResult(ctx context.Context, matchID int, input ResultInput) (*models.Match, error)
}

type matchService struct {
	tx        repositories.Transactor
	teamRepo  repositories.TeamRepository
	matchRepo repositories.MatchRepository
	metrics   *metrics.Cup
	logger    *slog.Logger
}

func NewMatchService(
	tx repositories.Transactor,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	cupMetrics *metrics.Cup,
	logger *slog.Logger,
) MatchService {
	if logger == nil {
		logger = discardLogger()
	}
	return &matchService{
		tx:        tx,
		teamRepo:  teamRepo,
		matchRepo: matchRepo,
		metrics:   cupMetrics,
		logger:    logger,
	}
}

func (s *matchService) ListMatches(ctx context.Context, filter repositories.MatchFilter) ([]*models.Match, error) {
	if filter.Phase != "" && !filter.Phase.Valid() {
		return nil, fmt.Errorf("%w: unknown phase %q", ErrValidationFailed, filter.Phase)
	}
	if filter.Group != models.GroupUnassigned && !filter.Group.Valid() {
		return nil, fmt.Errorf("%w: unknown group %q", ErrValidationFailed, filter.Group)
	}
	matches, err := s.matchRepo.List(ctx, nil, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMatchesListFailed, err)
	}
	if matches == nil {
		return []*models.Match{}, nil
	}
	return matches, nil
}

func (s *matchService) GetMatch(ctx context.Context, id int) (*models.Match, error) {
	m, err := s.matchRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, handleRepositoryError(err, "match", id)
	}
	return m, nil
}

func (s *matchService) CreateFixture(ctx context.Context, input CreateFixtureInput) (*models.Match, error) {
	if !input.Group.Valid() {
		return nil, fmt.Errorf("%w: unknown group %q", ErrValidationFailed, input.Group)
	}
	if input.TeamAID == input.TeamBID {
		return nil, ErrSameTeam
	}
	if input.ScheduledAt.IsZero() {
		return nil, fmt.Errorf("%w: scheduled_at is required", ErrValidationFailed)
	}

	var created *models.Match
	err := s.tx.WithinProgressionTx(ctx, func(exec repositories.SQLExecutor) error {
		for _, id := range []int{input.TeamAID, input.TeamBID} {
			team, err := s.teamRepo.GetByID(ctx, exec, id)
			if err != nil {
				return handleRepositoryError(err, "team", id)
			}
			if team.GroupOrUnassigned() != input.Group {
				return fmt.Errorf("%w: team %d, group %s", ErrTeamNotInGroup, id, input.Group)
			}
		}

		existing, err := s.matchRepo.List(ctx, exec, repositories.MatchFilter{Phase: models.PhaseQuarterfinal})
		if err != nil {
			return fmt.Errorf("%w: %w", ErrMatchesListFailed, err)
		}
		if len(existing) > 0 {
			return fmt.Errorf("%w: group stage is closed once quarterfinals exist", ErrPhaseAlreadyExists)
		}

		group := input.Group
		created = &models.Match{
			TeamAID:     input.TeamAID,
			TeamBID:     input.TeamBID,
			Phase:       models.PhaseGroups,
			Group:       &group,
			ScheduledAt: input.ScheduledAt,
		}
		if err := s.matchRepo.Create(ctx, exec, created); err != nil {
			return handleRepositoryError(err, "match", 0)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "group fixture created",
		slog.Int("match_id", created.ID), slog.String("group", string(input.Group)))
	return created, nil
}

func (s *matchService) RecordResult(ctx context.Context, matchID int, input ResultInput) (*models.Match, error) {
	var updated *models.Match
	err := s.tx.WithinProgressionTx(ctx, func(exec repositories.SQLExecutor) error {
		m, err := s.matchRepo.GetByID(ctx, exec, matchID)
		if err != nil {
			return handleRepositoryError(err, "match", matchID)
		}
		if m.Finalized {
			return fmt.Errorf("%w: match %d", ErrResultAlreadySet, matchID)
		}
		if err := validateResult(m.Phase, input); err != nil {
			return err
		}

		result := repositories.MatchResult{
			GoalsA:     input.GoalsA,
			GoalsB:     input.GoalsB,
			PenaltiesA: input.PenaltiesA,
			PenaltiesB: input.PenaltiesB,
			YellowA:    input.YellowA,
			YellowB:    input.YellowB,
			RedA:       input.RedA,
			RedB:       input.RedB,
			Finalized:  true,
		}
		if err := s.matchRepo.UpdateResult(ctx, exec, matchID, result); err != nil {
			return handleRepositoryError(err, "match", matchID)
		}

		m.GoalsA, m.GoalsB = &result.GoalsA, &result.GoalsB
		m.PenaltiesA, m.PenaltiesB = input.PenaltiesA, input.PenaltiesB
		m.YellowA, m.YellowB = input.YellowA, input.YellowB
		m.RedA, m.RedB = input.RedA, input.RedB
		m.Finalized = true
		updated = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ResultRecorded(string(updated.Phase))
	s.logger.InfoContext(ctx, "result recorded",
		slog.Int("match_id", matchID),
		slog.String("phase", string(updated.Phase)),
		slog.Int("goals_a", input.GoalsA),
		slog.Int("goals_b", input.GoalsB),
	)
	return updated, nil
}

func validateResult(phase models.Phase, in ResultInput) error {
	counts := []*int{&in.GoalsA, &in.GoalsB, in.PenaltiesA, in.PenaltiesB, in.YellowA, in.YellowB, in.RedA, in.RedB}
	for _, c := range counts {
		if c != nil && *c < 0 {
			return ErrNegativeCount
		}
	}

	hasPenalties := in.PenaltiesA != nil || in.PenaltiesB != nil
	level := in.GoalsA == in.GoalsB
	if !phase.IsElimination() || !level {
		if hasPenalties {
			return ErrPenaltiesNotAllowed
		}
		return nil
	}
	if in.PenaltiesA == nil || in.PenaltiesB == nil || *in.PenaltiesA == *in.PenaltiesB {
		return ErrPenaltiesRequired
	}
	return nil
}
