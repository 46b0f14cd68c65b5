package brackets

import (
	"cmp"
	"slices"
	"strings"

	"github.com/Dosada05/football-cup/models"
)

const (
	pointsWin  = 3
	pointsDraw = 1
)

// ComputeStandings builds one row per team from the finalized matches and
// returns them in rank order.
//
// Every finalized match with both goal counts is counted regardless of its
// phase; callers wanting a group table pass GroupPhaseMatches(matches).
// Teams without a group keep a nil Group and end up in the unassigned bucket
// of GroupStandings.
func ComputeStandings(teams []*models.Team, matches []*models.Match) []models.StandingsRow {
	index := make(map[int]*models.StandingsRow, len(teams))
	order := make([]int, 0, len(teams))
	for _, t := range teams {
		if t == nil {
			continue
		}
		if _, dup := index[t.ID]; dup {
			continue
		}
		index[t.ID] = &models.StandingsRow{
			TeamID:   t.ID,
			TeamName: t.Name,
			Group:    t.Group,
		}
		order = append(order, t.ID)
	}

	for _, m := range matches {
		if m == nil || !m.Finalized || !m.HasScore() {
			continue
		}
		rowA, okA := index[m.TeamAID]
		rowB, okB := index[m.TeamBID]
		if !okA || !okB {
			continue
		}
		goalsA, goalsB := *m.GoalsA, *m.GoalsB

		rowA.Played++
		rowB.Played++
		rowA.GoalsFor += goalsA
		rowA.GoalsAgainst += goalsB
		rowB.GoalsFor += goalsB
		rowB.GoalsAgainst += goalsA

		rowA.YellowCards += valueOrZero(m.YellowA)
		rowB.YellowCards += valueOrZero(m.YellowB)
		rowA.RedCards += valueOrZero(m.RedA)
		rowB.RedCards += valueOrZero(m.RedB)

		switch {
		case goalsA > goalsB:
			rowA.Points += pointsWin
			rowA.Wins++
			rowB.Losses++
		case goalsB > goalsA:
			rowB.Points += pointsWin
			rowB.Wins++
			rowA.Losses++
		default:
			rowA.Points += pointsDraw
			rowB.Points += pointsDraw
			rowA.Draws++
			rowB.Draws++
		}
	}

	rows := make([]models.StandingsRow, 0, len(order))
	for _, id := range order {
		row := index[id]
		row.GoalDifference = row.GoalsFor - row.GoalsAgainst
		rows = append(rows, *row)
	}

	slices.SortStableFunc(rows, CompareRows)
	return rows
}

// CompareRows orders two rows by the regulation cascade. A negative result
// means a ranks above b.
//
// The name comparison stands in for the drawing of lots, which is never
// re-run at query time. Team id settles identical names so the order is total.
func CompareRows(a, b models.StandingsRow) int {
	return cmp.Or(
		cmp.Compare(b.Points, a.Points),
		cmp.Compare(b.Wins, a.Wins),
		cmp.Compare(b.GoalDifference, a.GoalDifference),
		cmp.Compare(b.GoalsFor, a.GoalsFor),
		cmp.Compare(a.GoalsAgainst, b.GoalsAgainst),
		cmp.Compare(a.Losses, b.Losses),
		cmp.Compare(a.RedCards, b.RedCards),
		cmp.Compare(a.YellowCards, b.YellowCards),
		strings.Compare(a.TeamName, b.TeamName),
		cmp.Compare(a.TeamID, b.TeamID),
	)
}

// GroupPhaseMatches keeps only group-stage matches.
func GroupPhaseMatches(matches []*models.Match) []*models.Match {
	return MatchesInPhase(matches, models.PhaseGroups)
}

// MatchesInPhase keeps the matches of one phase in their stored order.
func MatchesInPhase(matches []*models.Match, phase models.Phase) []*models.Match {
	out := make([]*models.Match, 0, len(matches))
	for _, m := range matches {
		if m != nil && m.Phase == phase {
			out = append(out, m)
		}
	}
	return out
}

// GroupStandings partitions already sorted rows by group, keeping their order.
// Rows without a group are collected under models.GroupUnassigned.
func GroupStandings(rows []models.StandingsRow) map[models.GroupLabel][]models.StandingsRow {
	grouped := make(map[models.GroupLabel][]models.StandingsRow)
	for _, row := range rows {
		g := row.GroupOrUnassigned()
		grouped[g] = append(grouped[g], row)
	}
	return grouped
}

// QualifierSet holds the group winners and runners-up in group order A..D.
// Incomplete lists groups that had fewer than two ranked teams and were skipped.
type QualifierSet struct {
	Firsts     []models.StandingsRow `json:"firsts"`
	Seconds    []models.StandingsRow `json:"seconds"`
	Incomplete []models.GroupLabel   `json:"incomplete,omitempty"`
}

// Qualifiers extracts rank 0 and rank 1 of every group.
func Qualifiers(grouped map[models.GroupLabel][]models.StandingsRow) QualifierSet {
	var set QualifierSet
	for _, g := range models.AllGroups {
		rows := grouped[g]
		if len(rows) < 2 {
			set.Incomplete = append(set.Incomplete, g)
			continue
		}
		set.Firsts = append(set.Firsts, rows[0])
		set.Seconds = append(set.Seconds, rows[1])
	}
	return set
}

// GroupQualifiers is the group-phase table reduced to its qualifiers.
func GroupQualifiers(teams []*models.Team, matches []*models.Match) QualifierSet {
	rows := ComputeStandings(teams, GroupPhaseMatches(matches))
	return Qualifiers(GroupStandings(rows))
}

func valueOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
