package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"algorace/internal/common"
	"algorace/internal/domain/model"
	"algorace/internal/domain/repository"
)

// EndDayLocker serializes the aggregation across processes. queue.Lock is the
// production implementation.
type EndDayLocker interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

type StatsService struct {
	statsRepo   repository.StatsRepository
	solvedRepo  repository.SolvedRepository
	problemRepo repository.ProblemRepository
	userRepo    repository.UserRepository
	lock        EndDayLocker
}

func NewStatsService(
	statsRepo repository.StatsRepository,
	solvedRepo repository.SolvedRepository,
	problemRepo repository.ProblemRepository,
	userRepo repository.UserRepository,
	lock EndDayLocker,
) *StatsService {
	return &StatsService{
		statsRepo:   statsRepo,
		solvedRepo:  solvedRepo,
		problemRepo: problemRepo,
		userRepo:    userRepo,
		lock:        lock,
	}
}

// EndDay rolls every user's outstanding solved count into the cumulative stats
// row and clears the markers. Counts merge additively across runs. The marker
// count, the persist, and the delete are one repository transaction, so a
// toggle racing the aggregation is rolled up rather than wiped uncounted; the
// Redis lock rejects a concurrent run.
func (s *StatsService) EndDay(ctx context.Context) (*model.CumulativeStats, error) {
	acquired, err := s.lock.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire end-day lock: %w", err)
	}
	if !acquired {
		return nil, common.ErrLockHeld
	}
	defer func() {
		if err := s.lock.Release(ctx); err != nil {
			log.Printf("WARN: failed to release end-day lock: %v", err)
		}
	}()

	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	previous := map[string]int{}
	prevStats, err := s.statsRepo.GetCumulative(ctx)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to read cumulative stats: %w", err)
	}
	if prevStats != nil {
		previous = prevStats.UserStats
	}

	problemsPosted, err := s.problemRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count problems: %w", err)
	}

	stats := model.NewCumulativeStats(time.Now().Format(model.DateOnly))
	stats.ProblemsPosted = problemsPosted
	stats.UserStats = carryCounts(previous, users)

	result, err := s.statsRepo.CommitEndDay(ctx, stats)
	if err != nil {
		return nil, fmt.Errorf("failed to commit end-day aggregation: %w", err)
	}

	log.Printf("End day committed: %d users, %d problems posted", len(result.UserStats), problemsPosted)
	return result, nil
}

// Reset clears all markers and reinitializes the cumulative row to zeroes.
func (s *StatsService) Reset(ctx context.Context) (*model.CumulativeStats, error) {
	acquired, err := s.lock.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire end-day lock: %w", err)
	}
	if !acquired {
		return nil, common.ErrLockHeld
	}
	defer func() {
		if err := s.lock.Release(ctx); err != nil {
			log.Printf("WARN: failed to release end-day lock: %v", err)
		}
	}()

	stats := model.NewCumulativeStats(time.Now().Format(model.DateOnly))
	if err := s.statsRepo.Reset(ctx, stats); err != nil {
		return nil, fmt.Errorf("failed to reset stats: %w", err)
	}
	return stats, nil
}

// Cumulative returns the latest rollup, or an empty one if no aggregation has
// ever run.
func (s *StatsService) Cumulative(ctx context.Context) (*model.CumulativeStats, error) {
	stats, err := s.statsRepo.GetCumulative(ctx)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return model.NewCumulativeStats(time.Now().Format(model.DateOnly)), nil
		}
		return nil, err
	}
	return stats, nil
}

// Calendar returns the distinct post dates of problems the user has solved.
func (s *StatsService) Calendar(ctx context.Context, userID string) ([]string, error) {
	return s.solvedRepo.SolvedDates(ctx, userID)
}

// Progress builds the cumulative line-chart series: one point per catalog post
// date, counting each participant's solved problems posted on or before it.
func (s *StatsService) Progress(ctx context.Context) ([]model.ProgressPoint, error) {
	problems, err := s.problemRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list problems: %w", err)
	}
	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	marks, err := s.solvedRepo.ListAllWithDates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list solved markers: %w", err)
	}

	dates := make([]string, 0, len(problems))
	seen := map[string]bool{}
	for _, p := range problems {
		if !seen[p.DatePosted] {
			seen[p.DatePosted] = true
			dates = append(dates, p.DatePosted)
		}
	}
	sort.Strings(dates)

	userIDs := make([]string, 0, len(users))
	for _, u := range users {
		userIDs = append(userIDs, u.ID)
	}

	return buildProgressSeries(dates, userIDs, marks), nil
}

// Overview is the admin dashboard feed: per-user solved count, latest solve
// date, and best streak of consecutive active days, sorted by solved count.
func (s *StatsService) Overview(ctx context.Context) ([]model.UserOverview, error) {
	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	markers, err := s.solvedRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list solved markers: %w", err)
	}

	datesByUser := map[string][]string{}
	countByUser := map[string]int{}
	for _, m := range markers {
		countByUser[m.UserID]++
		datesByUser[m.UserID] = append(datesByUser[m.UserID], m.SolvedAt.Format(model.DateOnly))
	}

	overview := make([]model.UserOverview, 0, len(users))
	for _, u := range users {
		row := model.UserOverview{
			UserID:      u.ID,
			DisplayName: u.DisplayName,
			SolvedCount: countByUser[u.ID],
			Streak:      longestStreak(datesByUser[u.ID]),
		}
		if dates := datesByUser[u.ID]; len(dates) > 0 {
			sorted := append([]string(nil), dates...)
			sort.Strings(sorted)
			last := sorted[len(sorted)-1]
			row.LastSolved = &last
		}
		overview = append(overview, row)
	}

	sort.SliceStable(overview, func(i, j int) bool {
		return overview[i].SolvedCount > overview[j].SolvedCount
	})
	return overview, nil
}

// carryCounts seeds the rollup the commit will fold fresh marker counts into:
// previous totals carried over, plus a zero entry for every known user, so a
// user who solved nothing still shows up.
func carryCounts(previous map[string]int, users []model.UserProfile) map[string]int {
	carried := map[string]int{}
	for uid, count := range previous {
		carried[uid] = count
	}
	for _, u := range users {
		if _, ok := carried[u.ID]; !ok {
			carried[u.ID] = 0
		}
	}
	return carried
}

func buildProgressSeries(dates, userIDs []string, marks []repository.SolvedOnDate) []model.ProgressPoint {
	series := make([]model.ProgressPoint, 0, len(dates))
	for _, date := range dates {
		point := model.ProgressPoint{Date: date, Counts: map[string]int{}}
		for _, uid := range userIDs {
			point.Counts[uid] = 0
		}
		for _, m := range marks {
			if m.DatePosted <= date {
				point.Counts[m.UserID]++
			}
		}
		series = append(series, point)
	}
	return series
}

// longestStreak returns the longest run of consecutive calendar days among the
// given YYYY-MM-DD dates. Duplicates are collapsed.
func longestStreak(dates []string) int {
	if len(dates) == 0 {
		return 0
	}

	unique := map[string]bool{}
	for _, d := range dates {
		unique[d] = true
	}
	sorted := make([]string, 0, len(unique))
	for d := range unique {
		sorted = append(sorted, d)
	}
	sort.Strings(sorted)

	best, current := 1, 1
	for i := 1; i < len(sorted); i++ {
		prev, err1 := time.Parse(model.DateOnly, sorted[i-1])
		curr, err2 := time.Parse(model.DateOnly, sorted[i])
		if err1 != nil || err2 != nil {
			continue
		}
		if curr.Sub(prev) == 24*time.Hour {
			current++
		} else {
			current = 1
		}
		if current > best {
			best = current
		}
	}
	return best
}
