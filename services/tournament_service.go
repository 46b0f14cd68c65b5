package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Dosada05/football-cup/brackets"
	"github.com/Dosada05/football-cup/metrics"
	"github.com/Dosada05/football-cup/models"
	"github.com/Dosada05/football-cup/repositories"
)

// QuarterfinalInput selects the quarterfinal pairing mode.
type QuarterfinalInput struct {
	Random   bool
	Schedule Schedule
}

// SemifinalInput carries the optional operator pairing. An empty Manual
// derives the semifinals from the quarterfinal tree.
type SemifinalInput struct {
	Manual   []models.Pairing
	Schedule Schedule
}

// Round is a freshly generated set of matches and the draw record logging it.
type Round struct {
	Matches []*models.Match    `json:"matches"`
	Record  *models.DrawRecord `json:"record"`
}

// TournamentService drives the cup through its phases.
type TournamentService interface {
	DrawGroups(ctx context.Context) (*models.DrawRecord, error)
	GenerateGroupFixtures(ctx context.Context, schedule Schedule) ([]*models.Match, error)
	GenerateQuarterfinals(ctx context.Context, input QuarterfinalInput) (*Round, error)
	GenerateSemifinals(ctx context.Context, input SemifinalInput) (*Round, error)
	GenerateFinal(ctx context.Context, schedule Schedule) (*Round, error)

	Champion(ctx context.Context) (*models.Team, error)
	Standings(ctx context.Context) ([]models.StandingsRow, error)
	GroupedStandings(ctx context.Context) (map[models.GroupLabel][]models.StandingsRow, error)
	Qualifiers(ctx context.Context) (brackets.QualifierSet, error)
	Progress(ctx context.Context) (models.Progress, error)
	DrawHistory(ctx context.Context) ([]*models.DrawRecord, error)
}

type tournamentService struct {
	tx        repositories.Transactor
	teamRepo  repositories.TeamRepository
	matchRepo repositories.MatchRepository
	drawRepo  repositories.DrawRepository
	metrics   *metrics.Cup
	logger    *slog.Logger

	drawMu sync.Mutex
	draw   *brackets.Draw
}

func NewTournamentService(
	tx repositories.Transactor,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	drawRepo repositories.DrawRepository,
	draw *brackets.Draw,
	cupMetrics *metrics.Cup,
	logger *slog.Logger,
) TournamentService {
	if draw == nil {
		draw = brackets.NewDraw()
	}
	if logger == nil {
		logger = discardLogger()
	}
	return &tournamentService{
		tx:        tx,
		teamRepo:  teamRepo,
		matchRepo: matchRepo,
		drawRepo:  drawRepo,
		metrics:   cupMetrics,
		logger:    logger,
		draw:      draw,
	}
}

func (s *tournamentService) DrawGroups(ctx context.Context) (*models.DrawRecord, error) {
	var record *models.DrawRecord
	err := s.tx.WithinProgressionTx(ctx, func(exec repositories.SQLExecutor) error {
		snap, err := loadSnapshot(ctx, exec, s.teamRepo, s.matchRepo)
		if err != nil {
			return err
		}
		if brackets.PhaseExists(snap.matches, models.PhaseGroups) {
			return fmt.Errorf("%w: group matches already exist", ErrPhaseAlreadyExists)
		}

		s.drawMu.Lock()
		assignments, err := brackets.AssignGroups(s.draw, snap.teams)
		s.drawMu.Unlock()
		switch {
		case errors.Is(err, brackets.ErrTeamAlreadyGrouped):
			return fmt.Errorf("%w: %w", ErrPhaseAlreadyExists, err)
		case errors.Is(err, brackets.ErrInvalidTeamCount):
			return fmt.Errorf("%w: %w", ErrPhaseNotReady, err)
		case err != nil:
			return fmt.Errorf("%w: %w", ErrValidationFailed, err)
		}

		if err := s.teamRepo.AssignGroups(ctx, exec, assignments); err != nil {
			return handleRepositoryError(err, "group draw", 0)
		}
		record = &models.DrawRecord{Kind: models.DrawKindGroups, Groups: assignments}
		if err := s.drawRepo.Append(ctx, exec, record); err != nil {
			return handleRepositoryError(err, "draw record", 0)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.GroupsDrawn()
	s.logger.InfoContext(ctx, "groups drawn", slog.String("draw_id", record.ID.String()), slog.Int("teams", len(record.Groups)))
	return record, nil
}

func (s *tournamentService) GenerateGroupFixtures(ctx context.Context, schedule Schedule) ([]*models.Match, error) {
	if err := schedule.validate(); err != nil {
		return nil, err
	}

	var created []*models.Match
	err := s.tx.WithinProgressionTx(ctx, func(exec repositories.SQLExecutor) error {
		snap, err := loadSnapshot(ctx, exec, s.teamRepo, s.matchRepo)
		if err != nil {
			return err
		}
		fixtures, err := brackets.GroupFixtures(snap.teams, snap.matches, schedule.Start, schedule.Interval)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrPhaseNotReady, err)
		}
		if fixtures == nil {
			if brackets.PhaseExists(snap.matches, models.PhaseGroups) {
				return fmt.Errorf("%w: group fixtures already exist", ErrPhaseAlreadyExists)
			}
			return fmt.Errorf("%w: groups have not been drawn", ErrPhaseNotReady)
		}

		created = make([]*models.Match, 0, len(fixtures))
		for _, f := range fixtures {
			group := f.Group
			m := &models.Match{
				TeamAID:     f.TeamAID,
				TeamBID:     f.TeamBID,
				Phase:       models.PhaseGroups,
				Group:       &group,
				ScheduledAt: f.ScheduledAt,
			}
			if err := s.matchRepo.Create(ctx, exec, m); err != nil {
				return handleRepositoryError(err, "group fixture", 0)
			}
			created = append(created, m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "group fixtures generated", slog.Int("matches", len(created)))
	return created, nil
}

func (s *tournamentService) GenerateQuarterfinals(ctx context.Context, input QuarterfinalInput) (*Round, error) {
	if err := input.Schedule.validate(); err != nil {
		return nil, err
	}
	return s.generateRound(ctx, models.PhaseQuarterfinal, input.Schedule, func(snap *snapshot) (*brackets.Bracket, error) {
		if set := brackets.GroupQualifiers(snap.teams, snap.matches); len(set.Incomplete) > 0 {
			s.logger.WarnContext(ctx, "groups without two qualifiers",
				slog.Any("groups", set.Incomplete))
		}
		if !input.Random {
			return brackets.QuarterfinalPairings(snap.teams, snap.matches), nil
		}
		s.drawMu.Lock()
		defer s.drawMu.Unlock()
		return brackets.RandomQuarterfinalPairings(s.draw, snap.teams, snap.matches)
	})
}

func (s *tournamentService) GenerateSemifinals(ctx context.Context, input SemifinalInput) (*Round, error) {
	if err := input.Schedule.validate(); err != nil {
		return nil, err
	}
	var source brackets.SemifinalSource = brackets.DerivedPairing{}
	if len(input.Manual) > 0 {
		if len(input.Manual) != 2 {
			return nil, fmt.Errorf("%w: manual semifinal pairing needs exactly 2 matches, got %d",
				ErrValidationFailed, len(input.Manual))
		}
		source = brackets.ManualPairing{Pairings: [2]models.Pairing{input.Manual[0], input.Manual[1]}}
	}
	return s.generateRound(ctx, models.PhaseSemifinal, input.Schedule, func(snap *snapshot) (*brackets.Bracket, error) {
		return brackets.SemifinalPairings(snap.matches, source)
	})
}

func (s *tournamentService) GenerateFinal(ctx context.Context, schedule Schedule) (*Round, error) {
	if err := schedule.validate(); err != nil {
		return nil, err
	}
	return s.generateRound(ctx, models.PhaseFinal, schedule, func(snap *snapshot) (*brackets.Bracket, error) {
		return brackets.FinalPairing(snap.matches)
	})
}

// generateRound runs gate, generation and persistence of one elimination
// round under the progression lock.
func (s *tournamentService) generateRound(
	ctx context.Context,
	phase models.Phase,
	schedule Schedule,
	generate func(snap *snapshot) (*brackets.Bracket, error),
) (*Round, error) {
	round := &Round{}
	err := s.tx.WithinProgressionTx(ctx, func(exec repositories.SQLExecutor) error {
		snap, err := loadSnapshot(ctx, exec, s.teamRepo, s.matchRepo)
		if err != nil {
			return err
		}
		if err := checkRoundGate(snap.matches, phase); err != nil {
			return err
		}

		bracket, err := generate(snap)
		if err != nil {
			return s.generationError(ctx, phase, err)
		}
		if bracket == nil {
			return fmt.Errorf("%w: %s pairings cannot be built from the current results", ErrPhaseNotReady, phase)
		}

		pairings := make([]models.Pairing, 0, len(bracket.Pairings))
		for i, p := range bracket.Pairings {
			scheduledAt := schedule.at(i)
			if p.ScheduledAt != nil && !p.ScheduledAt.IsZero() {
				scheduledAt = *p.ScheduledAt
			}
			m := &models.Match{
				TeamAID:     p.TeamAID,
				TeamBID:     p.TeamBID,
				Phase:       phase,
				Slot:        p.Slot,
				ScheduledAt: scheduledAt,
			}
			if err := s.matchRepo.Create(ctx, exec, m); err != nil {
				return handleRepositoryError(err, string(phase)+" match", 0)
			}
			round.Matches = append(round.Matches, m)

			p.ScheduledAt = &scheduledAt
			pairings = append(pairings, p)
		}

		round.Record = &models.DrawRecord{
			Kind:     models.DrawKindForPhase(phase),
			Manual:   bracket.Manual,
			Pairings: pairings,
		}
		if err := s.drawRepo.Append(ctx, exec, round.Record); err != nil {
			return handleRepositoryError(err, "draw record", 0)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.PhaseGenerated(string(phase), round.Record.Manual)
	s.logger.InfoContext(ctx, "round generated",
		slog.String("phase", string(phase)),
		slog.Bool("manual", round.Record.Manual),
		slog.Int("matches", len(round.Matches)),
	)
	return round, nil
}

// checkRoundGate enforces the one-way state machine: the previous phase must
// be complete and the requested one must not exist yet.
func checkRoundGate(matches []*models.Match, phase models.Phase) error {
	if brackets.PhaseExists(matches, phase) {
		return fmt.Errorf("%w: %s", ErrPhaseAlreadyExists, phase)
	}
	var previous models.Phase
	for _, p := range models.AllPhases {
		if p.Next() == phase {
			previous = p
		}
	}
	if previous != "" && !brackets.PhaseComplete(matches, previous) {
		return fmt.Errorf("%w: %s phase is not complete", ErrPhaseNotReady, previous)
	}
	return nil
}

func (s *tournamentService) generationError(ctx context.Context, phase models.Phase, err error) error {
	if errors.Is(err, brackets.ErrInvalidManualPairing) || errors.Is(err, brackets.ErrOddTeamCount) {
		return fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}
	if isIntegrityError(err) {
		s.metrics.IntegrityError(string(phase))
		s.logger.ErrorContext(ctx, "inconsistent results block round generation",
			slog.String("phase", string(phase)), slog.Any("error", err))
		return fmt.Errorf("%w: %w", ErrDataIntegrity, err)
	}
	return fmt.Errorf("failed to generate %s: %w", phase, err)
}

func (s *tournamentService) Champion(ctx context.Context) (*models.Team, error) {
	snap, err := loadSnapshot(ctx, nil, s.teamRepo, s.matchRepo)
	if err != nil {
		return nil, err
	}
	teamID, ok, err := brackets.Champion(snap.matches)
	if err != nil {
		s.metrics.IntegrityError("champion")
		s.logger.ErrorContext(ctx, "champion cannot be resolved", slog.Any("error", err))
		return nil, fmt.Errorf("%w: %w", ErrDataIntegrity, err)
	}
	if !ok {
		return nil, ErrChampionNotDecided
	}
	team := snap.team(teamID)
	if team == nil {
		return nil, fmt.Errorf("%w: champion %d", ErrTeamNotFound, teamID)
	}
	return team, nil
}

// Standings ranks every team on the group-phase results.
func (s *tournamentService) Standings(ctx context.Context) ([]models.StandingsRow, error) {
	snap, err := loadSnapshot(ctx, nil, s.teamRepo, s.matchRepo)
	if err != nil {
		return nil, err
	}
	return brackets.ComputeStandings(snap.teams, brackets.GroupPhaseMatches(snap.matches)), nil
}

func (s *tournamentService) GroupedStandings(ctx context.Context) (map[models.GroupLabel][]models.StandingsRow, error) {
	rows, err := s.Standings(ctx)
	if err != nil {
		return nil, err
	}
	return brackets.GroupStandings(rows), nil
}

func (s *tournamentService) Qualifiers(ctx context.Context) (brackets.QualifierSet, error) {
	grouped, err := s.GroupedStandings(ctx)
	if err != nil {
		return brackets.QualifierSet{}, err
	}
	set := brackets.Qualifiers(grouped)
	if len(set.Incomplete) > 0 {
		s.logger.WarnContext(ctx, "groups without two qualifiers", slog.Any("groups", set.Incomplete))
	}
	return set, nil
}

func (s *tournamentService) Progress(ctx context.Context) (models.Progress, error) {
	snap, err := loadSnapshot(ctx, nil, s.teamRepo, s.matchRepo)
	if err != nil {
		return models.Progress{}, err
	}
	return brackets.Progress(snap.teams, snap.matches), nil
}

func (s *tournamentService) DrawHistory(ctx context.Context) ([]*models.DrawRecord, error) {
	records, err := s.drawRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list draw records: %w", err)
	}
	return records, nil
}
