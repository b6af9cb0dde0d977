package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"algorace/internal/common"
	"algorace/internal/domain/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.UserProfile) error
	FindByID(ctx context.Context, id string) (*model.UserProfile, error)
	FindByEmail(ctx context.Context, email string) (*model.UserProfile, error)
	ListAll(ctx context.Context) ([]model.UserProfile, error)
	UpdateSettings(ctx context.Context, id, theme string, notifications bool) error
	UpdateRole(ctx context.Context, id, role string) error
}

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

const userColumns = `id, email, display_name, role, theme, notifications, joined_at, updated_at`

func (r *pgUserRepository) Create(ctx context.Context, user *model.UserProfile) error {
	query := `INSERT INTO users (id, email, display_name, role, theme, notifications)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, user.ID, user.Email, user.DisplayName, user.Role, user.Theme, user.Notifications)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint violation
			return fmt.Errorf("user with given id or email already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgUserRepository.Create: %w", err)
	}
	return nil
}

func (r *pgUserRepository) FindByID(ctx context.Context, id string) (*model.UserProfile, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id), "FindByID")
}

func (r *pgUserRepository) FindByEmail(ctx context.Context, email string) (*model.UserProfile, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email), "FindByEmail")
}

func (r *pgUserRepository) scanOne(row *sql.Row, op string) (*model.UserProfile, error) {
	user := &model.UserProfile{}
	err := row.Scan(
		&user.ID, &user.Email, &user.DisplayName, &user.Role,
		&user.Theme, &user.Notifications, &user.JoinedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.%s: %w", op, err)
	}
	return user, nil
}

func (r *pgUserRepository) ListAll(ctx context.Context) ([]model.UserProfile, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY joined_at ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgUserRepository.ListAll query: %w", err)
	}
	defer rows.Close()

	users := []model.UserProfile{}
	for rows.Next() {
		var u model.UserProfile
		if err := rows.Scan(&u.ID, &u.Email, &u.DisplayName, &u.Role,
			&u.Theme, &u.Notifications, &u.JoinedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("pgUserRepository.ListAll scan: %w", err)
		}
		users = append(users, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgUserRepository.ListAll rows.Err: %w", err)
	}
	return users, nil
}

func (r *pgUserRepository) UpdateSettings(ctx context.Context, id, theme string, notifications bool) error {
	query := `UPDATE users SET theme = $1, notifications = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, theme, notifications, id)
	if err != nil {
		return fmt.Errorf("pgUserRepository.UpdateSettings: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgUserRepository) UpdateRole(ctx context.Context, id, role string) error {
	query := `UPDATE users SET role = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, role, id)
	if err != nil {
		return fmt.Errorf("pgUserRepository.UpdateRole: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}
