package services

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/Dosada05/football-cup/models"
	"github.com/Dosada05/football-cup/repositories"
	"github.com/Dosada05/football-cup/storage"
	"github.com/google/uuid"
)

// fakeExec stands in for a transaction handle. The in-memory repositories
// never call it.
type fakeExec struct {
	repositories.SQLExecutor
}

type fakeTransactor struct {
	mu    sync.Mutex
	calls int
	locks int
}

func (f *fakeTransactor) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return fn(fakeExec{})
}

func (f *fakeTransactor) WithinProgressionTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	f.mu.Lock()
	f.locks++
	f.mu.Unlock()
	return f.WithinTx(ctx, fn)
}

type memTeamRepo struct {
	mu     sync.Mutex
	nextID int
	teams  map[int]*models.Team

	ListFunc func() ([]*models.Team, error)
}

func newMemTeamRepo() *memTeamRepo {
	return &memTeamRepo{teams: map[int]*models.Team{}}
}

func (r *memTeamRepo) Create(_ context.Context, _ repositories.SQLExecutor, team *models.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.teams {
		if t.Name == team.Name {
			return repositories.ErrTeamNameConflict
		}
	}
	r.nextID++
	team.ID = r.nextID
	team.CreatedAt = time.Now()
	cp := *team
	r.teams[team.ID] = &cp
	return nil
}

func (r *memTeamRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *memTeamRepo) List(_ context.Context, _ repositories.SQLExecutor) ([]*models.Team, error) {
	if r.ListFunc != nil {
		return r.ListFunc()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Team, 0, len(r.teams))
	for _, t := range r.teams {
		cp := *t
		out = append(out, &cp)
	}
	slices.SortFunc(out, func(a, b *models.Team) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (r *memTeamRepo) AssignGroups(_ context.Context, _ repositories.SQLExecutor, assignments []models.GroupAssignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range assignments {
		t, ok := r.teams[a.TeamID]
		if !ok || t.Group != nil {
			return fmt.Errorf("%w: team %d", repositories.ErrTeamAlreadyGrouped, a.TeamID)
		}
		g := a.Group
		t.Group = &g
	}
	return nil
}

func (r *memTeamRepo) UpdateLogoKey(_ context.Context, _ repositories.SQLExecutor, id int, logoKey *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	t.LogoKey = logoKey
	return nil
}

type memMatchRepo struct {
	mu      sync.Mutex
	nextID  int
	matches map[int]*models.Match
}

func newMemMatchRepo() *memMatchRepo {
	return &memMatchRepo{matches: map[int]*models.Match{}}
}

func (r *memMatchRepo) Create(_ context.Context, _ repositories.SQLExecutor, match *models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if match.Slot != "" {
		for _, m := range r.matches {
			if m.Phase == match.Phase && m.Slot == match.Slot {
				return repositories.ErrMatchSlotConflict
			}
		}
	}
	r.nextID++
	match.ID = r.nextID
	match.CreatedAt = time.Now()
	cp := *match
	r.matches[match.ID] = &cp
	return nil
}

func (r *memMatchRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *memMatchRepo) List(_ context.Context, _ repositories.SQLExecutor, filter repositories.MatchFilter) ([]*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Match, 0, len(r.matches))
	for _, m := range r.matches {
		if filter.Phase != "" && m.Phase != filter.Phase {
			continue
		}
		if filter.Group != models.GroupUnassigned && (m.Group == nil || *m.Group != filter.Group) {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	slices.SortFunc(out, func(a, b *models.Match) int {
		return cmp.Or(a.ScheduledAt.Compare(b.ScheduledAt), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

func (r *memMatchRepo) UpdateResult(_ context.Context, _ repositories.SQLExecutor, id int, res repositories.MatchResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	ga, gb := res.GoalsA, res.GoalsB
	m.GoalsA, m.GoalsB = &ga, &gb
	m.PenaltiesA, m.PenaltiesB = res.PenaltiesA, res.PenaltiesB
	m.YellowA, m.YellowB = res.YellowA, res.YellowB
	m.RedA, m.RedB = res.RedA, res.RedB
	m.Finalized = res.Finalized
	return nil
}

// put stores a match verbatim, bypassing validation.
func (r *memMatchRepo) put(m *models.Match) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	m.ID = r.nextID
	cp := *m
	r.matches[m.ID] = &cp
}

type memDrawRepo struct {
	mu      sync.Mutex
	records []*models.DrawRecord
}

func (r *memDrawRepo) Append(_ context.Context, _ repositories.SQLExecutor, record *models.DrawRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.Kind == record.Kind {
			return fmt.Errorf("%w: %s", repositories.ErrDrawAlreadyRecorded, record.Kind)
		}
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	record.CreatedAt = time.Now()
	r.records = append(r.records, record)
	return nil
}

func (r *memDrawRepo) List(_ context.Context, _ repositories.SQLExecutor) ([]*models.DrawRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.records), nil
}

type fakeUploader struct {
	UploadFunc func(key, contentType string, body []byte) error
	uploaded   map[string][]byte
	deleted    []string
}

func (f *fakeUploader) Upload(_ context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	if f.UploadFunc != nil {
		if err := f.UploadFunc(key, contentType, body); err != nil {
			return nil, err
		}
	}
	if f.uploaded == nil {
		f.uploaded = map[string][]byte{}
	}
	f.uploaded[key] = body
	return &storage.UploadResult{Key: key, Location: f.GetPublicURL(key)}, nil
}

func (f *fakeUploader) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.test/" + key
}

type memUserRepo struct {
	users map[string]*models.User
}

func (r *memUserRepo) Create(_ context.Context, user *models.User) error {
	if r.users == nil {
		r.users = map[string]*models.User{}
	}
	if _, ok := r.users[user.Email]; ok {
		return repositories.ErrUserEmailConflict
	}
	user.ID = len(r.users) + 1
	cp := *user
	r.users[user.Email] = &cp
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}
