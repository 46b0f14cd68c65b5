// Package snapshot reads and writes the cup state as a YAML document so the
// engine can be driven offline, without a database.
package snapshot

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/Dosada05/football-cup/models"
	"gopkg.in/yaml.v3"
)

var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Snapshot is the full set of teams and matches the engine works on.
type Snapshot struct {
	Teams   []*models.Team
	Matches []*models.Match
}

type document struct {
	Teams   []teamDoc  `yaml:"teams"`
	Matches []matchDoc `yaml:"matches,omitempty"`
}

type teamDoc struct {
	ID    int    `yaml:"id"`
	Name  string `yaml:"name"`
	City  string `yaml:"city,omitempty"`
	Group string `yaml:"group,omitempty"`
}

type matchDoc struct {
	ID          int       `yaml:"id"`
	Phase       string    `yaml:"phase"`
	Group       string    `yaml:"group,omitempty"`
	Slot        string    `yaml:"slot,omitempty"`
	TeamA       int       `yaml:"team_a"`
	TeamB       int       `yaml:"team_b"`
	ScheduledAt time.Time `yaml:"scheduled_at"`
	Finalized   bool      `yaml:"finalized,omitempty"`
	Goals       []int     `yaml:"goals,flow,omitempty"`
	Penalties   []int     `yaml:"penalties,flow,omitempty"`
	Yellow      []int     `yaml:"yellow,flow,omitempty"`
	Red         []int     `yaml:"red,flow,omitempty"`
}

// Load decodes a snapshot and checks its references. Unknown keys are rejected.
func Load(r io.Reader) (*Snapshot, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &Snapshot{}, nil
		}
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	snap := &Snapshot{
		Teams:   make([]*models.Team, 0, len(doc.Teams)),
		Matches: make([]*models.Match, 0, len(doc.Matches)),
	}
	for _, td := range doc.Teams {
		team, err := td.model()
		if err != nil {
			return nil, err
		}
		snap.Teams = append(snap.Teams, team)
	}
	for _, md := range doc.Matches {
		match, err := md.model()
		if err != nil {
			return nil, err
		}
		snap.Matches = append(snap.Matches, match)
	}

	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return snap, nil
}

// LoadFile reads the snapshot stored at path.
func LoadFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Write encodes the snapshot, teams and matches ordered by id.
func (s *Snapshot) Write(w io.Writer) error {
	doc := document{
		Teams:   make([]teamDoc, 0, len(s.Teams)),
		Matches: make([]matchDoc, 0, len(s.Matches)),
	}
	for _, t := range s.Teams {
		td := teamDoc{ID: t.ID, Name: t.Name, City: t.City}
		if t.Group != nil {
			td.Group = string(*t.Group)
		}
		doc.Teams = append(doc.Teams, td)
	}
	for _, m := range s.Matches {
		doc.Matches = append(doc.Matches, newMatchDoc(m))
	}
	slices.SortFunc(doc.Teams, func(a, b teamDoc) int { return a.ID - b.ID })
	slices.SortFunc(doc.Matches, func(a, b matchDoc) int { return a.ID - b.ID })

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return enc.Close()
}

// WriteFile replaces the file at path with the encoded snapshot.
func (s *Snapshot) WriteFile(path string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	if err := s.Write(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close snapshot: %w", err)
	}
	return os.Rename(tmp, path)
}

// Validate checks id uniqueness and that every match references known,
// distinct teams.
func (s *Snapshot) Validate() error {
	teams := make(map[int]bool, len(s.Teams))
	for _, t := range s.Teams {
		if t.ID <= 0 {
			return fmt.Errorf("%w: team id %d must be positive", ErrInvalidSnapshot, t.ID)
		}
		if teams[t.ID] {
			return fmt.Errorf("%w: duplicate team id %d", ErrInvalidSnapshot, t.ID)
		}
		teams[t.ID] = true
	}

	matches := make(map[int]bool, len(s.Matches))
	for _, m := range s.Matches {
		if matches[m.ID] {
			return fmt.Errorf("%w: duplicate match id %d", ErrInvalidSnapshot, m.ID)
		}
		matches[m.ID] = true
		if !teams[m.TeamAID] || !teams[m.TeamBID] {
			return fmt.Errorf("%w: match %d references an unknown team", ErrInvalidSnapshot, m.ID)
		}
		if m.TeamAID == m.TeamBID {
			return fmt.Errorf("%w: match %d pairs team %d with itself", ErrInvalidSnapshot, m.ID, m.TeamAID)
		}
	}
	return nil
}

// NextMatchID returns one past the highest match id.
func (s *Snapshot) NextMatchID() int {
	next := 1
	for _, m := range s.Matches {
		if m.ID >= next {
			next = m.ID + 1
		}
	}
	return next
}

func (td teamDoc) model() (*models.Team, error) {
	team := &models.Team{ID: td.ID, Name: td.Name, City: td.City}
	if td.Group != "" {
		g := models.GroupLabel(td.Group)
		if !g.Valid() {
			return nil, fmt.Errorf("%w: team %d has unknown group %q", ErrInvalidSnapshot, td.ID, td.Group)
		}
		team.Group = &g
	}
	return team, nil
}

func (md matchDoc) model() (*models.Match, error) {
	phase := models.Phase(md.Phase)
	if !phase.Valid() {
		return nil, fmt.Errorf("%w: match %d has unknown phase %q", ErrInvalidSnapshot, md.ID, md.Phase)
	}
	match := &models.Match{
		ID:          md.ID,
		TeamAID:     md.TeamA,
		TeamBID:     md.TeamB,
		Phase:       phase,
		Slot:        md.Slot,
		ScheduledAt: md.ScheduledAt,
		Finalized:   md.Finalized,
	}
	if md.Group != "" {
		g := models.GroupLabel(md.Group)
		if !g.Valid() {
			return nil, fmt.Errorf("%w: match %d has unknown group %q", ErrInvalidSnapshot, md.ID, md.Group)
		}
		match.Group = &g
	}

	var err error
	if match.GoalsA, match.GoalsB, err = pair(md.ID, "goals", md.Goals); err != nil {
		return nil, err
	}
	if match.PenaltiesA, match.PenaltiesB, err = pair(md.ID, "penalties", md.Penalties); err != nil {
		return nil, err
	}
	if match.YellowA, match.YellowB, err = pair(md.ID, "yellow", md.Yellow); err != nil {
		return nil, err
	}
	if match.RedA, match.RedB, err = pair(md.ID, "red", md.Red); err != nil {
		return nil, err
	}
	return match, nil
}

func newMatchDoc(m *models.Match) matchDoc {
	md := matchDoc{
		ID:          m.ID,
		Phase:       string(m.Phase),
		Slot:        m.Slot,
		TeamA:       m.TeamAID,
		TeamB:       m.TeamBID,
		ScheduledAt: m.ScheduledAt,
		Finalized:   m.Finalized,
		Goals:       unpair(m.GoalsA, m.GoalsB),
		Penalties:   unpair(m.PenaltiesA, m.PenaltiesB),
		Yellow:      unpair(m.YellowA, m.YellowB),
		Red:         unpair(m.RedA, m.RedB),
	}
	if m.Group != nil {
		md.Group = string(*m.Group)
	}
	return md
}

// pair turns a two-element list into the side A and side B counters.
func pair(matchID int, field string, v []int) (*int, *int, error) {
	switch len(v) {
	case 0:
		return nil, nil, nil
	case 2:
		if v[0] < 0 || v[1] < 0 {
			return nil, nil, fmt.Errorf("%w: match %d has negative %s", ErrInvalidSnapshot, matchID, field)
		}
		a, b := v[0], v[1]
		return &a, &b, nil
	}
	return nil, nil, fmt.Errorf("%w: match %d %s needs two values, got %d", ErrInvalidSnapshot, matchID, field, len(v))
}

func unpair(a, b *int) []int {
	if a == nil || b == nil {
		return nil
	}
	return []int{*a, *b}
}
