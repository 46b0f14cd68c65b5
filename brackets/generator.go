package brackets

import (
	"fmt"
	"slices"

	"github.com/Dosada05/football-cup/models"
)

// Bracket is the set of pairings for one elimination round. The persistence
// layer turns every pairing into a new match.
type Bracket struct {
	Phase    models.Phase     `json:"phase"`
	Manual   bool             `json:"manual"`
	Random   bool             `json:"random"`
	Pairings []models.Pairing `json:"pairings"`
}

// Fixed slot labels of the knockout tree.
const (
	SlotQF1   = "QF1"
	SlotQF2   = "QF2"
	SlotQF3   = "QF3"
	SlotQF4   = "QF4"
	SlotSF1   = "SF1"
	SlotSF2   = "SF2"
	SlotFinal = "F"
)

// SemifinalSource selects how the semifinal pairings are produced.
// It is implemented by DerivedPairing and ManualPairing only.
type SemifinalSource interface {
	semifinalSource()
}

// DerivedPairing pairs W(QF1)×W(QF2) and W(QF3)×W(QF4).
type DerivedPairing struct{}

// ManualPairing carries the two semifinals chosen by an operator.
type ManualPairing struct {
	Pairings [2]models.Pairing
}

func (DerivedPairing) semifinalSource() {}
func (ManualPairing) semifinalSource()  {}

// QuarterfinalPairings builds the fixed cross pattern A1×B2, B1×A2, C1×D2, D1×C2.
//
// It returns nil when the group table does not yield two qualifiers per group
// or when quarterfinals already exist.
func QuarterfinalPairings(teams []*models.Team, matches []*models.Match) *Bracket {
	if PhaseExists(matches, models.PhaseQuarterfinal) {
		return nil
	}
	if !EnoughQualifiers(teams, matches) {
		return nil
	}
	set := GroupQualifiers(teams, matches)

	// Firsts and Seconds are indexed A, B, C, D.
	const a, b, c, d = 0, 1, 2, 3
	return &Bracket{
		Phase: models.PhaseQuarterfinal,
		Pairings: []models.Pairing{
			{Slot: SlotQF1, TeamAID: set.Firsts[a].TeamID, TeamBID: set.Seconds[b].TeamID},
			{Slot: SlotQF2, TeamAID: set.Firsts[b].TeamID, TeamBID: set.Seconds[a].TeamID},
			{Slot: SlotQF3, TeamAID: set.Firsts[c].TeamID, TeamBID: set.Seconds[d].TeamID},
			{Slot: SlotQF4, TeamAID: set.Firsts[d].TeamID, TeamBID: set.Seconds[c].TeamID},
		},
	}
}

// RandomQuarterfinalPairings draws the eight qualifiers into four random ties
// instead of the fixed cross pattern. Preconditions match QuarterfinalPairings.
func RandomQuarterfinalPairings(d *Draw, teams []*models.Team, matches []*models.Match) (*Bracket, error) {
	if PhaseExists(matches, models.PhaseQuarterfinal) || !EnoughQualifiers(teams, matches) {
		return nil, nil
	}
	set := GroupQualifiers(teams, matches)
	ids := make([]int, 0, len(set.Firsts)+len(set.Seconds))
	for _, row := range slices.Concat(set.Firsts, set.Seconds) {
		ids = append(ids, row.TeamID)
	}
	return RandomPairings(d, models.PhaseQuarterfinal, ids)
}

// SemifinalPairings resolves the quarterfinal winners and pairs them, either
// by the fixed tree or by an operator's choice.
//
// It returns nil when quarterfinals are not complete, semifinals already
// exist, or there are not exactly four quarterfinals. A quarterfinal whose
// winner cannot be resolved is a data-integrity error.
func SemifinalPairings(matches []*models.Match, source SemifinalSource) (*Bracket, error) {
	if !PhaseComplete(matches, models.PhaseQuarterfinal) || PhaseExists(matches, models.PhaseSemifinal) {
		return nil, nil
	}
	winners, err := roundWinners(matches, models.PhaseQuarterfinal, 4)
	if err != nil || winners == nil {
		return nil, err
	}

	switch src := source.(type) {
	case DerivedPairing:
		return &Bracket{
			Phase: models.PhaseSemifinal,
			Pairings: []models.Pairing{
				{Slot: SlotSF1, TeamAID: winners[0], TeamBID: winners[1]},
				{Slot: SlotSF2, TeamAID: winners[2], TeamBID: winners[3]},
			},
		}, nil
	case ManualPairing:
		if err := validateManualPairing(src, winners); err != nil {
			return nil, err
		}
		pairings := make([]models.Pairing, 0, len(src.Pairings))
		for i, p := range src.Pairings {
			if p.Slot == "" {
				p.Slot = []string{SlotSF1, SlotSF2}[i]
			}
			pairings = append(pairings, p)
		}
		return &Bracket{Phase: models.PhaseSemifinal, Manual: true, Pairings: pairings}, nil
	default:
		return nil, fmt.Errorf("unsupported semifinal source %T", source)
	}
}

// FinalPairing pairs W(SF1)×W(SF2) once both semifinals are finalized and no
// final exists yet.
func FinalPairing(matches []*models.Match) (*Bracket, error) {
	if !PhaseComplete(matches, models.PhaseSemifinal) || PhaseExists(matches, models.PhaseFinal) {
		return nil, nil
	}
	winners, err := roundWinners(matches, models.PhaseSemifinal, 2)
	if err != nil || winners == nil {
		return nil, err
	}
	return &Bracket{
		Phase: models.PhaseFinal,
		Pairings: []models.Pairing{
			{Slot: SlotFinal, TeamAID: winners[0], TeamBID: winners[1]},
		},
	}, nil
}

// Champion returns the winner of the finalized final. ok is false while the
// final has not been played. A level final without a shoot-out is an error.
func Champion(matches []*models.Match) (teamID int, ok bool, err error) {
	if !PhaseComplete(matches, models.PhaseFinal) {
		return 0, false, nil
	}
	finals := MatchesInPhase(matches, models.PhaseFinal)
	if len(finals) != 1 {
		return 0, false, fmt.Errorf("%w: found %d", ErrFinalMatchCount, len(finals))
	}
	winner, err := MatchWinner(finals[0])
	if err != nil {
		return 0, false, fmt.Errorf("resolve champion: %w", err)
	}
	return winner, true, nil
}

// RandomPairings shuffles teamIDs and pairs them in order. Slots are labelled
// after the phase (QF1.., SF1.., F).
func RandomPairings(d *Draw, phase models.Phase, teamIDs []int) (*Bracket, error) {
	if len(teamIDs) == 0 || len(teamIDs)%2 != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrOddTeamCount, len(teamIDs))
	}
	shuffled := slices.Clone(teamIDs)
	Shuffle(d, shuffled)

	pairings := make([]models.Pairing, 0, len(shuffled)/2)
	for i := 0; i < len(shuffled); i += 2 {
		pairings = append(pairings, models.Pairing{
			Slot:    slotLabel(phase, i/2+1),
			TeamAID: shuffled[i],
			TeamBID: shuffled[i+1],
		})
	}
	return &Bracket{Phase: phase, Random: true, Pairings: pairings}, nil
}

// roundWinners resolves the winners of a finished round in slot order, falling
// back to stored order when slots are missing. It returns nil when the round
// does not hold exactly want matches.
func roundWinners(matches []*models.Match, phase models.Phase, want int) ([]int, error) {
	round := MatchesInPhase(matches, phase)
	if len(round) != want {
		return nil, nil
	}
	if allSlotted(round) {
		slices.SortStableFunc(round, func(a, b *models.Match) int {
			return compareSlots(a.Slot, b.Slot)
		})
	}

	winners := make([]int, 0, want)
	for _, m := range round {
		w, err := MatchWinner(m)
		if err != nil {
			return nil, fmt.Errorf("%s winner: %w", phase, err)
		}
		winners = append(winners, w)
	}
	return winners, nil
}

func validateManualPairing(src ManualPairing, winners []int) error {
	remaining := make(map[int]bool, len(winners))
	for _, w := range winners {
		remaining[w] = true
	}
	for _, p := range src.Pairings {
		for _, id := range []int{p.TeamAID, p.TeamBID} {
			if !remaining[id] {
				return fmt.Errorf("%w: team %d", ErrInvalidManualPairing, id)
			}
			delete(remaining, id)
		}
	}
	if len(remaining) != 0 {
		return ErrInvalidManualPairing
	}
	return nil
}

func allSlotted(round []*models.Match) bool {
	for _, m := range round {
		if m.Slot == "" {
			return false
		}
	}
	return true
}

// compareSlots orders labels like QF2 < QF10 by length first.
func compareSlots(a, b string) int {
	if len(a) != len(b) {
		return len(a) - len(b)
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func slotLabel(phase models.Phase, n int) string {
	switch phase {
	case models.PhaseQuarterfinal:
		return fmt.Sprintf("QF%d", n)
	case models.PhaseSemifinal:
		return fmt.Sprintf("SF%d", n)
	case models.PhaseFinal:
		return SlotFinal
	}
	return fmt.Sprintf("%s-%d", phase, n)
}
