package brackets

import (
	"fmt"
	"slices"
	"time"

	"github.com/Dosada05/football-cup/models"
)

// Fixture is one group-stage match to be created.
type Fixture struct {
	Group       models.GroupLabel `json:"group"`
	Matchday    int               `json:"matchday"`
	TeamAID     int               `json:"team_a_id"`
	TeamBID     int               `json:"team_b_id"`
	ScheduledAt time.Time         `json:"scheduled_at"`
}

// GroupFixtures schedules a single round robin inside every group using the
// circle method, so each team plays once per matchday. Matches are spaced by
// interval starting at start, matchday by matchday across groups A..D.
//
// It returns nil when the groups are not fully drawn or group matches exist.
func GroupFixtures(teams []*models.Team, matches []*models.Match, start time.Time, interval time.Duration) ([]Fixture, error) {
	if !groupsDrawn(teams) || PhaseExists(matches, models.PhaseGroups) {
		return nil, nil
	}
	members := make(map[models.GroupLabel][]int, groupCount)
	for _, t := range teams {
		members[*t.Group] = append(members[*t.Group], t.ID)
	}
	for _, g := range models.AllGroups {
		if len(members[g]) != teamsPerGroup {
			return nil, fmt.Errorf("%w: group %s has %d teams", ErrInvalidTeamCount, g, len(members[g]))
		}
		slices.Sort(members[g])
	}

	rounds := make(map[models.GroupLabel][][2]int, groupCount)
	for _, g := range models.AllGroups {
		rounds[g] = circleRounds(members[g])
	}

	fixtures := make([]Fixture, 0, groupCount*teamsPerGroup*(teamsPerGroup-1)/2)
	kickoff := start
	for day := 0; day < teamsPerGroup-1; day++ {
		for _, g := range models.AllGroups {
			perDay := teamsPerGroup / 2
			for _, pair := range rounds[g][day*perDay : (day+1)*perDay] {
				fixtures = append(fixtures, Fixture{
					Group:       g,
					Matchday:    day + 1,
					TeamAID:     pair[0],
					TeamBID:     pair[1],
					ScheduledAt: kickoff,
				})
				kickoff = kickoff.Add(interval)
			}
		}
	}
	return fixtures, nil
}

// circleRounds returns the pairs of an even-sized round robin, matchday by
// matchday. The first entry stays fixed while the rest rotate.
func circleRounds(ids []int) [][2]int {
	n := len(ids)
	ring := slices.Clone(ids)
	pairs := make([][2]int, 0, n*(n-1)/2)
	for day := 0; day < n-1; day++ {
		for i := 0; i < n/2; i++ {
			a, b := ring[i], ring[n-1-i]
			if day%2 == 1 && i == 0 {
				a, b = b, a
			}
			pairs = append(pairs, [2]int{a, b})
		}
		last := ring[n-1]
		copy(ring[2:], ring[1:n-1])
		ring[1] = last
	}
	return pairs
}
