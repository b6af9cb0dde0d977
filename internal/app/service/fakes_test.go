package service

import (
	"context"
	"sort"
	"time"

	"algorace/internal/common"
	"algorace/internal/domain/model"
	"algorace/internal/domain/repository"
)

// In-memory fakes for the repository interfaces. They emulate the constraints
// the real tables enforce: unique slugs, one marker per (user, problem), and
// the end-day commit clearing markers together with the stats upsert.

type fakeUserRepo struct {
	users []model.UserProfile
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.UserProfile) error {
	for _, u := range f.users {
		if u.ID == user.ID || u.Email == user.Email {
			return common.ErrConflict
		}
	}
	user.JoinedAt = time.Now()
	user.UpdatedAt = user.JoinedAt
	f.users = append(f.users, *user)
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*model.UserProfile, error) {
	for i := range f.users {
		if f.users[i].ID == id {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.UserProfile, error) {
	for i := range f.users {
		if f.users[i].Email == email {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUserRepo) ListAll(ctx context.Context) ([]model.UserProfile, error) {
	return append([]model.UserProfile(nil), f.users...), nil
}

func (f *fakeUserRepo) UpdateSettings(ctx context.Context, id, theme string, notifications bool) error {
	for i := range f.users {
		if f.users[i].ID == id {
			f.users[i].Theme = theme
			f.users[i].Notifications = notifications
			return nil
		}
	}
	return common.ErrNotFound
}

func (f *fakeUserRepo) UpdateRole(ctx context.Context, id, role string) error {
	for i := range f.users {
		if f.users[i].ID == id {
			f.users[i].Role = role
			return nil
		}
	}
	return common.ErrNotFound
}

type fakeProblemRepo struct {
	problems []model.Problem
}

func (f *fakeProblemRepo) Create(ctx context.Context, p *model.Problem) error {
	for _, existing := range f.problems {
		if existing.Slug == p.Slug {
			return common.ErrConflict
		}
	}
	p.CreatedAt = time.Now()
	f.problems = append(f.problems, *p)
	return nil
}

func (f *fakeProblemRepo) Seed(ctx context.Context, p *model.Problem) (bool, error) {
	if err := f.Create(ctx, p); err != nil {
		return false, nil
	}
	return true, nil
}

func (f *fakeProblemRepo) FindByID(ctx context.Context, id string) (*model.Problem, error) {
	for i := range f.problems {
		if f.problems[i].ID == id {
			p := f.problems[i]
			return &p, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeProblemRepo) FindBySlug(ctx context.Context, slug string) (*model.Problem, error) {
	for i := range f.problems {
		if f.problems[i].Slug == slug {
			p := f.problems[i]
			return &p, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeProblemRepo) List(ctx context.Context) ([]model.Problem, error) {
	result := append([]model.Problem(nil), f.problems...)
	sort.Slice(result, func(i, j int) bool { return result[i].DatePosted > result[j].DatePosted })
	return result, nil
}

func (f *fakeProblemRepo) Count(ctx context.Context) (int, error) {
	return len(f.problems), nil
}

func (f *fakeProblemRepo) dateOf(problemID string) (string, bool) {
	for _, p := range f.problems {
		if p.ID == problemID {
			return p.DatePosted, true
		}
	}
	return "", false
}

type markerKey struct {
	userID    string
	problemID string
}

type fakeSolvedRepo struct {
	markers  map[markerKey]model.SolvedMarker
	problems *fakeProblemRepo
}

func newFakeSolvedRepo(problems *fakeProblemRepo) *fakeSolvedRepo {
	return &fakeSolvedRepo{markers: map[markerKey]model.SolvedMarker{}, problems: problems}
}

func (f *fakeSolvedRepo) Toggle(ctx context.Context, marker *model.SolvedMarker) (bool, error) {
	key := markerKey{marker.UserID, marker.ProblemID}
	if _, ok := f.markers[key]; ok {
		delete(f.markers, key)
		return false, nil
	}
	m := *marker
	m.SolvedAt = time.Now()
	f.markers[key] = m
	return true, nil
}

func (f *fakeSolvedRepo) ListByUser(ctx context.Context, userID string) ([]model.SolvedMarker, error) {
	result := []model.SolvedMarker{}
	for _, m := range f.markers {
		if m.UserID == userID {
			result = append(result, m)
		}
	}
	return result, nil
}

func (f *fakeSolvedRepo) ListAll(ctx context.Context) ([]model.SolvedMarker, error) {
	result := []model.SolvedMarker{}
	for _, m := range f.markers {
		result = append(result, m)
	}
	return result, nil
}

func (f *fakeSolvedRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	count := 0
	for _, m := range f.markers {
		if m.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeSolvedRepo) CountAll(ctx context.Context) (map[string]int, error) {
	counts := map[string]int{}
	for _, m := range f.markers {
		counts[m.UserID]++
	}
	return counts, nil
}

func (f *fakeSolvedRepo) SolvedDates(ctx context.Context, userID string) ([]string, error) {
	seen := map[string]bool{}
	for key, m := range f.markers {
		if m.UserID != userID {
			continue
		}
		if date, ok := f.problems.dateOf(key.problemID); ok {
			seen[date] = true
		}
	}
	dates := make([]string, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates, nil
}

func (f *fakeSolvedRepo) ListAllWithDates(ctx context.Context) ([]repository.SolvedOnDate, error) {
	result := []repository.SolvedOnDate{}
	for key, m := range f.markers {
		if date, ok := f.problems.dateOf(key.problemID); ok {
			result = append(result, repository.SolvedOnDate{UserID: m.UserID, DatePosted: date})
		}
	}
	return result, nil
}

// solve places a marker directly, bypassing the toggle.
func (f *fakeSolvedRepo) solve(userID, problemID string, solvedAt time.Time) {
	f.markers[markerKey{userID, problemID}] = model.SolvedMarker{
		UserID:    userID,
		ProblemID: problemID,
		SolvedAt:  solvedAt,
	}
}

type fakeStatsRepo struct {
	stats  *model.CumulativeStats
	solved *fakeSolvedRepo
}

func (f *fakeStatsRepo) GetCumulative(ctx context.Context) (*model.CumulativeStats, error) {
	if f.stats == nil {
		return nil, common.ErrNotFound
	}
	copied := *f.stats
	copied.UserStats = map[string]int{}
	for k, v := range f.stats.UserStats {
		copied.UserStats[k] = v
	}
	return &copied, nil
}

// CommitEndDay folds the markers present at commit time into the rollup and
// clears them, the way the real transaction counts and deletes against one
// snapshot.
func (f *fakeStatsRepo) CommitEndDay(ctx context.Context, stats *model.CumulativeStats) (*model.CumulativeStats, error) {
	copied := *stats
	copied.UserStats = map[string]int{}
	for k, v := range stats.UserStats {
		copied.UserStats[k] = v
	}
	if f.solved != nil {
		for _, m := range f.solved.markers {
			copied.UserStats[m.UserID]++
		}
		f.solved.markers = map[markerKey]model.SolvedMarker{}
	}
	copied.LastUpdated = time.Now()
	f.stats = &copied
	return &copied, nil
}

func (f *fakeStatsRepo) Reset(ctx context.Context, stats *model.CumulativeStats) error {
	copied := *stats
	copied.LastUpdated = time.Now()
	f.stats = &copied
	if f.solved != nil {
		f.solved.markers = map[markerKey]model.SolvedMarker{}
	}
	return nil
}

type fakeLock struct {
	held     bool
	acquires int
}

func (f *fakeLock) Acquire(ctx context.Context) (bool, error) {
	if f.held {
		return false, nil
	}
	f.held = true
	f.acquires++
	return true, nil
}

func (f *fakeLock) Release(ctx context.Context) error {
	f.held = false
	return nil
}
