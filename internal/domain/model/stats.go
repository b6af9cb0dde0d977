package model

import "time"

// StatsKeyCumulative addresses the single cumulative stats row.
const StatsKeyCumulative = "cumulative"

// CumulativeStats is the persisted rollup of problems posted and per-user solved
// totals. It is overwritten in place on every end-day run; counts accumulate
// across resets.
type CumulativeStats struct {
	Key            string         `json:"-"`
	Date           string         `json:"date"` // YYYY-MM-DD of the latest aggregation
	ProblemsPosted int            `json:"problems_posted"`
	UserStats      map[string]int `json:"user_stats"`
	LastUpdated    time.Time      `json:"last_updated"`
}

// NewCumulativeStats returns an empty rollup for the given reporting date.
func NewCumulativeStats(date string) *CumulativeStats {
	return &CumulativeStats{
		Key:       StatsKeyCumulative,
		Date:      date,
		UserStats: map[string]int{},
	}
}

// UserOverview is one row of the admin dashboard: solved count, most recent
// solve date, and the longest run of consecutive active days.
type UserOverview struct {
	UserID      string  `json:"uid"`
	DisplayName string  `json:"display_name"`
	SolvedCount int     `json:"solved_count"`
	LastSolved  *string `json:"last_solved,omitempty"` // YYYY-MM-DD
	Streak      int     `json:"streak"`
}

// ProgressPoint is one step of the cumulative progress series: for each catalog
// post date, every participant's count of solved problems posted on or before it.
type ProgressPoint struct {
	Date   string         `json:"date"` // YYYY-MM-DD
	Counts map[string]int `json:"counts"`
}
