package repository

import (
	"context"
	"database/sql"
	"fmt"

	"algorace/internal/domain/model"
)

// SolvedOnDate pairs a marker's owner with the post date of the solved problem.
// It feeds the calendar and progress-chart reads.
type SolvedOnDate struct {
	UserID     string
	DatePosted string
}

type SolvedRepository interface {
	// Toggle flips marker presence for (marker.UserID, marker.ProblemID) and
	// returns the resulting solved state. The primary key settles concurrent
	// toggles; the call never creates a second marker for the same pair.
	Toggle(ctx context.Context, marker *model.SolvedMarker) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]model.SolvedMarker, error)
	ListAll(ctx context.Context) ([]model.SolvedMarker, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	// SolvedDates returns the distinct post dates of problems the user solved.
	SolvedDates(ctx context.Context, userID string) ([]string, error)
	// ListAllWithDates joins every marker to its problem's post date.
	ListAllWithDates(ctx context.Context) ([]SolvedOnDate, error)
}

type pgSolvedRepository struct {
	db *sql.DB
}

func NewPgSolvedRepository(db *sql.DB) SolvedRepository {
	return &pgSolvedRepository{db: db}
}

func (r *pgSolvedRepository) Toggle(ctx context.Context, marker *model.SolvedMarker) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM solved_markers WHERE user_id = $1 AND problem_id = $2`,
		marker.UserID, marker.ProblemID)
	if err != nil {
		return false, fmt.Errorf("pgSolvedRepository.Toggle delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return false, nil
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO solved_markers (user_id, problem_id, problem_name)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, problem_id) DO NOTHING`,
		marker.UserID, marker.ProblemID, marker.ProblemName)
	if err != nil {
		return false, fmt.Errorf("pgSolvedRepository.Toggle insert: %w", err)
	}
	return true, nil
}

func (r *pgSolvedRepository) ListByUser(ctx context.Context, userID string) ([]model.SolvedMarker, error) {
	query := `SELECT user_id, problem_id, problem_name, solved_at
	          FROM solved_markers WHERE user_id = $1 ORDER BY solved_at ASC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgSolvedRepository.ListByUser query: %w", err)
	}
	defer rows.Close()
	return scanMarkers(rows, "ListByUser")
}

func (r *pgSolvedRepository) ListAll(ctx context.Context) ([]model.SolvedMarker, error) {
	query := `SELECT user_id, problem_id, problem_name, solved_at
	          FROM solved_markers ORDER BY solved_at ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgSolvedRepository.ListAll query: %w", err)
	}
	defer rows.Close()
	return scanMarkers(rows, "ListAll")
}

func scanMarkers(rows *sql.Rows, op string) ([]model.SolvedMarker, error) {
	markers := []model.SolvedMarker{}
	for rows.Next() {
		var m model.SolvedMarker
		if err := rows.Scan(&m.UserID, &m.ProblemID, &m.ProblemName, &m.SolvedAt); err != nil {
			return nil, fmt.Errorf("pgSolvedRepository.%s scan: %w", op, err)
		}
		markers = append(markers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgSolvedRepository.%s rows.Err: %w", op, err)
	}
	return markers, nil
}

func (r *pgSolvedRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM solved_markers WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("pgSolvedRepository.CountByUser: %w", err)
	}
	return count, nil
}

func (r *pgSolvedRepository) SolvedDates(ctx context.Context, userID string) ([]string, error) {
	// Markers may reference problems no longer in the catalog; the join drops those.
	query := `SELECT DISTINCT to_char(p.date_posted, 'YYYY-MM-DD')
	          FROM solved_markers m
	          JOIN problems p ON p.id = m.problem_id
	          WHERE m.user_id = $1
	          ORDER BY 1 ASC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgSolvedRepository.SolvedDates query: %w", err)
	}
	defer rows.Close()

	dates := []string{}
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("pgSolvedRepository.SolvedDates scan: %w", err)
		}
		dates = append(dates, d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgSolvedRepository.SolvedDates rows.Err: %w", err)
	}
	return dates, nil
}

func (r *pgSolvedRepository) ListAllWithDates(ctx context.Context) ([]SolvedOnDate, error) {
	query := `SELECT m.user_id, to_char(p.date_posted, 'YYYY-MM-DD')
	          FROM solved_markers m
	          JOIN problems p ON p.id = m.problem_id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgSolvedRepository.ListAllWithDates query: %w", err)
	}
	defer rows.Close()

	result := []SolvedOnDate{}
	for rows.Next() {
		var s SolvedOnDate
		if err := rows.Scan(&s.UserID, &s.DatePosted); err != nil {
			return nil, fmt.Errorf("pgSolvedRepository.ListAllWithDates scan: %w", err)
		}
		result = append(result, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgSolvedRepository.ListAllWithDates rows.Err: %w", err)
	}
	return result, nil
}
