package model

import (
	"time"
)

type ProblemDifficulty string

const (
	DifficultyEasy   ProblemDifficulty = "Easy"
	DifficultyMedium ProblemDifficulty = "Medium"
	DifficultyHard   ProblemDifficulty = "Hard"
)

// Problem is a catalog entry. Entries are created by the YAML seed sync or by an
// admin posting at runtime; they are never mutated afterwards.
type Problem struct {
	ID         string            `json:"id"`
	Slug       string            `json:"slug"`
	Name       string            `json:"problem_name"`
	URL        string            `json:"url"`
	DatePosted string            `json:"date_posted"` // YYYY-MM-DD, no time component
	PostedBy   string            `json:"posted_by"`
	Difficulty ProblemDifficulty `json:"difficulty,omitempty"`
	Tags       []string          `json:"tags,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// DateOnly is the wire format for DatePosted.
const DateOnly = "2006-01-02"
