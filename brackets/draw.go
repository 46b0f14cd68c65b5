package brackets

import (
	"fmt"
	"math/rand/v2"

	"github.com/Dosada05/football-cup/models"
)

// Draw is the random source for group and pairing draws.
type Draw struct {
	rng *rand.Rand
}

// NewDraw returns a Draw seeded from the runtime's nondeterministic source.
func NewDraw() *Draw {
	return &Draw{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeededDraw returns a reproducible Draw for tests and replays.
func NewSeededDraw(seed uint64) *Draw {
	return &Draw{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Shuffle permutes s in place with Fisher–Yates. A nil Draw uses a fresh
// nondeterministic source.
func Shuffle[T any](d *Draw, s []T) {
	if d == nil {
		d = NewDraw()
	}
	for i := len(s) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

// AssignGroups shuffles the 16 teams and deals them into A, B, C and D in
// contiguous blocks of four. The teams themselves are not modified.
func AssignGroups(d *Draw, teams []*models.Team) ([]models.GroupAssignment, error) {
	if len(teams) != tournamentTeamCount {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTeamCount, len(teams))
	}
	ids := make([]int, 0, len(teams))
	seen := make(map[int]bool, len(teams))
	for _, t := range teams {
		if t == nil {
			return nil, fmt.Errorf("%w: nil team", ErrInvalidTeamCount)
		}
		if t.Group != nil {
			return nil, fmt.Errorf("%w: team %d is in group %s", ErrTeamAlreadyGrouped, t.ID, *t.Group)
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("%w: team %d listed twice", ErrInvalidTeamCount, t.ID)
		}
		seen[t.ID] = true
		ids = append(ids, t.ID)
	}

	Shuffle(d, ids)

	assignments := make([]models.GroupAssignment, 0, len(ids))
	for i, id := range ids {
		assignments = append(assignments, models.GroupAssignment{
			TeamID: id,
			Group:  models.AllGroups[i/teamsPerGroup],
		})
	}
	return assignments, nil
}
