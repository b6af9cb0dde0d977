package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"algorace/internal/common"
	"algorace/internal/domain/model"
)

type ProblemRepository interface {
	Create(ctx context.Context, problem *model.Problem) error
	// Seed inserts a catalog entry only if no problem with the same slug exists.
	Seed(ctx context.Context, problem *model.Problem) (bool, error)
	FindByID(ctx context.Context, id string) (*model.Problem, error)
	FindBySlug(ctx context.Context, slug string) (*model.Problem, error)
	List(ctx context.Context) ([]model.Problem, error)
	Count(ctx context.Context) (int, error)
}

type pgProblemRepository struct {
	db *sql.DB
}

func NewPgProblemRepository(db *sql.DB) ProblemRepository {
	return &pgProblemRepository{db: db}
}

func (r *pgProblemRepository) Create(ctx context.Context, p *model.Problem) error {
	tagsJSON, err := json.Marshal(p.Tags)
	if err != nil {
		return fmt.Errorf("pgProblemRepository.Create marshal tags: %w", err)
	}

	query := `INSERT INTO problems (id, slug, name, url, date_posted, posted_by, difficulty, tags)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = r.db.ExecContext(ctx, query, p.ID, p.Slug, p.Name, p.URL, p.DatePosted, p.PostedBy, p.Difficulty, tagsJSON)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint for slug
			return fmt.Errorf("problem with this slug already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgProblemRepository.Create: %w", err)
	}
	return nil
}

func (r *pgProblemRepository) Seed(ctx context.Context, p *model.Problem) (bool, error) {
	tagsJSON, err := json.Marshal(p.Tags)
	if err != nil {
		return false, fmt.Errorf("pgProblemRepository.Seed marshal tags: %w", err)
	}

	query := `INSERT INTO problems (id, slug, name, url, date_posted, posted_by, difficulty, tags)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          ON CONFLICT (slug) DO NOTHING`
	res, err := r.db.ExecContext(ctx, query, p.ID, p.Slug, p.Name, p.URL, p.DatePosted, p.PostedBy, p.Difficulty, tagsJSON)
	if err != nil {
		return false, fmt.Errorf("pgProblemRepository.Seed: %w", err)
	}
	n, _ := res.RowsAffected()
	return n == 1, nil
}

const problemColumns = `id, slug, name, url, to_char(date_posted, 'YYYY-MM-DD'), posted_by, difficulty, tags, created_at`

func (r *pgProblemRepository) FindByID(ctx context.Context, id string) (*model.Problem, error) {
	query := `SELECT ` + problemColumns + ` FROM problems WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id), "FindByID")
}

func (r *pgProblemRepository) FindBySlug(ctx context.Context, slug string) (*model.Problem, error) {
	query := `SELECT ` + problemColumns + ` FROM problems WHERE slug = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, slug), "FindBySlug")
}

func (r *pgProblemRepository) scanOne(row *sql.Row, op string) (*model.Problem, error) {
	p := &model.Problem{}
	var tagsJSON []byte
	err := row.Scan(&p.ID, &p.Slug, &p.Name, &p.URL, &p.DatePosted, &p.PostedBy, &p.Difficulty, &tagsJSON, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgProblemRepository.%s: %w", op, err)
	}
	if err := json.Unmarshal(tagsJSON, &p.Tags); err != nil {
		return nil, fmt.Errorf("pgProblemRepository.%s unmarshal tags: %w", op, err)
	}
	return p, nil
}

// List returns the whole catalog, newest post date first.
func (r *pgProblemRepository) List(ctx context.Context) ([]model.Problem, error) {
	query := `SELECT ` + problemColumns + ` FROM problems ORDER BY date_posted DESC, slug ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgProblemRepository.List query: %w", err)
	}
	defer rows.Close()

	problems := []model.Problem{}
	for rows.Next() {
		var p model.Problem
		var tagsJSON []byte
		if err := rows.Scan(&p.ID, &p.Slug, &p.Name, &p.URL, &p.DatePosted, &p.PostedBy, &p.Difficulty, &tagsJSON, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgProblemRepository.List scan: %w", err)
		}
		if err := json.Unmarshal(tagsJSON, &p.Tags); err != nil {
			return nil, fmt.Errorf("pgProblemRepository.List unmarshal tags: %w", err)
		}
		problems = append(problems, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgProblemRepository.List rows.Err: %w", err)
	}
	return problems, nil
}

func (r *pgProblemRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM problems`).Scan(&count); err != nil {
		return 0, fmt.Errorf("pgProblemRepository.Count: %w", err)
	}
	return count, nil
}
