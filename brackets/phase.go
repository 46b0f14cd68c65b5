package brackets

import "github.com/Dosada05/football-cup/models"

const (
	groupCount          = 4
	qualifiersPerGroup  = 2
	teamsPerGroup       = 4
	tournamentTeamCount = groupCount * teamsPerGroup
)

// PhaseComplete reports whether the phase has started and every one of its
// matches is finalized. A phase without matches is not complete.
func PhaseComplete(matches []*models.Match, phase models.Phase) bool {
	found := false
	for _, m := range matches {
		if m == nil || m.Phase != phase {
			continue
		}
		if !m.Finalized {
			return false
		}
		found = true
	}
	return found
}

// PhaseExists reports whether any match carries the phase tag.
func PhaseExists(matches []*models.Match, phase models.Phase) bool {
	for _, m := range matches {
		if m != nil && m.Phase == phase {
			return true
		}
	}
	return false
}

// EnoughQualifiers reports whether the group-phase table yields two qualifiers
// in each of the four groups.
func EnoughQualifiers(teams []*models.Team, matches []*models.Match) bool {
	set := GroupQualifiers(teams, matches)
	return len(set.Incomplete) == 0 &&
		len(set.Firsts) == groupCount &&
		len(set.Firsts)+len(set.Seconds) == groupCount*qualifiersPerGroup
}

// Progress summarises every phase and the current stage of the cup.
func Progress(teams []*models.Team, matches []*models.Match) models.Progress {
	progress := models.Progress{Phases: make([]models.PhaseStatus, 0, len(models.AllPhases))}
	for _, p := range models.AllPhases {
		status := models.PhaseStatus{
			Phase:    p,
			Exists:   PhaseExists(matches, p),
			Complete: PhaseComplete(matches, p),
		}
		for _, m := range matches {
			if m == nil || m.Phase != p {
				continue
			}
			status.Matches++
			if m.Finalized {
				status.Played++
			}
		}
		progress.Phases = append(progress.Phases, status)
	}
	progress.Stage = currentStage(teams, matches)
	return progress
}

func currentStage(teams []*models.Team, matches []*models.Match) models.Stage {
	switch {
	case !groupsDrawn(teams):
		return models.StageDraw
	case !PhaseExists(matches, models.PhaseQuarterfinal):
		return models.StageGroups
	case !PhaseExists(matches, models.PhaseSemifinal):
		return models.StageQuarterfinal
	case !PhaseExists(matches, models.PhaseFinal):
		return models.StageSemifinal
	case !PhaseComplete(matches, models.PhaseFinal):
		return models.StageFinal
	}
	return models.StageChampion
}

func groupsDrawn(teams []*models.Team) bool {
	if len(teams) == 0 {
		return false
	}
	for _, t := range teams {
		if t == nil || t.Group == nil {
			return false
		}
	}
	return true
}
