package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"algorace/internal/common"
	"algorace/internal/domain/model"
)

type StatsRepository interface {
	GetCumulative(ctx context.Context) (*model.CumulativeStats, error)
	// CommitEndDay folds every outstanding solved marker into the given rollup,
	// persists it, and deletes the markers inside a single transaction. Counting
	// and deleting see the same snapshot, so a toggle landing mid-aggregation is
	// either rolled up or left for the next run, never wiped uncounted.
	CommitEndDay(ctx context.Context, stats *model.CumulativeStats) (*model.CumulativeStats, error)
	// Reset persists the rollup verbatim and deletes every marker in one
	// transaction.
	Reset(ctx context.Context, stats *model.CumulativeStats) error
}

type pgStatsRepository struct {
	db *sql.DB
}

func NewPgStatsRepository(db *sql.DB) StatsRepository {
	return &pgStatsRepository{db: db}
}

func (r *pgStatsRepository) GetCumulative(ctx context.Context) (*model.CumulativeStats, error) {
	query := `SELECT key, to_char(date, 'YYYY-MM-DD'), problems_posted, user_stats, last_updated
	          FROM daily_stats WHERE key = $1`
	stats := &model.CumulativeStats{}
	var userStatsJSON []byte
	err := r.db.QueryRowContext(ctx, query, model.StatsKeyCumulative).Scan(
		&stats.Key, &stats.Date, &stats.ProblemsPosted, &userStatsJSON, &stats.LastUpdated,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgStatsRepository.GetCumulative: %w", err)
	}
	if err := json.Unmarshal(userStatsJSON, &stats.UserStats); err != nil {
		return nil, fmt.Errorf("pgStatsRepository.GetCumulative unmarshal user_stats: %w", err)
	}
	return stats, nil
}

func (r *pgStatsRepository) CommitEndDay(ctx context.Context, stats *model.CumulativeStats) (*model.CumulativeStats, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("pgStatsRepository.CommitEndDay begin: %w", err)
	}
	defer tx.Rollback()

	// Count against the snapshot the DELETE below will act on.
	rows, err := tx.QueryContext(ctx, `SELECT user_id, COUNT(*) FROM solved_markers GROUP BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("pgStatsRepository.CommitEndDay count: %w", err)
	}
	for rows.Next() {
		var userID string
		var count int
		if err := rows.Scan(&userID, &count); err != nil {
			rows.Close()
			return nil, fmt.Errorf("pgStatsRepository.CommitEndDay scan: %w", err)
		}
		stats.UserStats[userID] += count
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("pgStatsRepository.CommitEndDay rows.Err: %w", err)
	}
	rows.Close()

	if err := persistStats(ctx, tx, stats, "CommitEndDay"); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM solved_markers`); err != nil {
		return nil, fmt.Errorf("pgStatsRepository.CommitEndDay delete markers: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("pgStatsRepository.CommitEndDay commit: %w", err)
	}
	return stats, nil
}

func (r *pgStatsRepository) Reset(ctx context.Context, stats *model.CumulativeStats) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pgStatsRepository.Reset begin: %w", err)
	}
	defer tx.Rollback()

	if err := persistStats(ctx, tx, stats, "Reset"); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM solved_markers`); err != nil {
		return fmt.Errorf("pgStatsRepository.Reset delete markers: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("pgStatsRepository.Reset commit: %w", err)
	}
	return nil
}

func persistStats(ctx context.Context, tx *sql.Tx, stats *model.CumulativeStats, op string) error {
	userStatsJSON, err := json.Marshal(stats.UserStats)
	if err != nil {
		return fmt.Errorf("pgStatsRepository.%s marshal user_stats: %w", op, err)
	}

	upsert := `INSERT INTO daily_stats (key, date, problems_posted, user_stats, last_updated)
	           VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP)
	           ON CONFLICT (key) DO UPDATE SET
	               date = EXCLUDED.date,
	               problems_posted = EXCLUDED.problems_posted,
	               user_stats = EXCLUDED.user_stats,
	               last_updated = EXCLUDED.last_updated`
	if _, err := tx.ExecContext(ctx, upsert, stats.Key, stats.Date, stats.ProblemsPosted, userStatsJSON); err != nil {
		return fmt.Errorf("pgStatsRepository.%s upsert: %w", op, err)
	}
	return nil
}
