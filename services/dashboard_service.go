package services

import (
	"context"
	"math"

	"github.com/Dosada05/football-cup/brackets"
	"github.com/Dosada05/football-cup/models"
	"github.com/Dosada05/football-cup/repositories"
)

type DashboardService interface {
	GetStats(ctx context.Context) (models.CupStats, error)
}

type dashboardService struct {
	teamRepo  repositories.TeamRepository
	matchRepo repositories.MatchRepository
}

func NewDashboardService(teamRepo repositories.TeamRepository, matchRepo repositories.MatchRepository) DashboardService {
	return &dashboardService{
		teamRepo:  teamRepo,
		matchRepo: matchRepo,
	}
}

func (s *dashboardService) GetStats(ctx context.Context) (models.CupStats, error) {
	snap, err := loadSnapshot(ctx, nil, s.teamRepo, s.matchRepo)
	if err != nil {
		return models.CupStats{}, err
	}

	stats := models.CupStats{
		Stage:        brackets.Progress(snap.teams, snap.matches).Stage,
		TeamsTotal:   len(snap.teams),
		MatchesTotal: len(snap.matches),
	}
	for _, m := range snap.matches {
		if !m.Finalized || !m.HasScore() {
			continue
		}
		stats.MatchesPlayed++
		stats.GoalsTotal += *m.GoalsA + *m.GoalsB
		stats.YellowCardsTotal += valueOrZero(m.YellowA) + valueOrZero(m.YellowB)
		stats.RedCardsTotal += valueOrZero(m.RedA) + valueOrZero(m.RedB)
		if m.HasPenalties() {
			stats.Shootouts++
		}
	}
	if stats.MatchesPlayed > 0 {
		avg := float64(stats.GoalsTotal) / float64(stats.MatchesPlayed)
		stats.GoalsPerMatch = math.Round(avg*100) / 100
	}
	return stats, nil
}

func valueOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
