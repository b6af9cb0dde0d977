package model

import "time"

// SolvedMarker asserts "user U has solved problem P". Presence is the boolean
// signal; at most one marker exists per (user, problem) pair.
type SolvedMarker struct {
	UserID      string    `json:"user_id"`
	ProblemID   string    `json:"problem_id"`
	ProblemName string    `json:"problem_name"`
	SolvedAt    time.Time `json:"solved_at"`
}
