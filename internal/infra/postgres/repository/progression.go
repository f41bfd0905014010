package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/uniportal/internal/domain/entities"
	"github.com/aliskhannn/uniportal/internal/infra/postgres"
)

var ErrNegativeXP = errors.New("xp delta must not be negative")

// ProgressionRepository stores the per-user XP rollup.
type ProgressionRepository struct {
	db postgres.DBTX
}

func NewProgressionRepository(db postgres.DBTX) *ProgressionRepository {
	return &ProgressionRepository{db: db}
}

// GetTotalXP returns the user's XP, 0 if nothing was ever awarded.
func (r *ProgressionRepository) GetTotalXP(ctx context.Context, userID int64) (int, error) {
	query := `
		SELECT total_xp
		FROM user_progression
		WHERE user_id = $1
	`

	var total int
	err := r.db.QueryRow(ctx, query, userID).Scan(&total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get total xp: %w", err)
	}

	return total, nil
}

// IncrementXP atomically adds delta to the user's XP and returns the new
// total. The update happens in the database, never read-modify-write.
func (r *ProgressionRepository) IncrementXP(ctx context.Context, userID int64, delta int) (int, error) {
	if delta < 0 {
		return 0, ErrNegativeXP
	}

	query := `
		INSERT INTO user_progression (user_id, total_xp, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			total_xp = user_progression.total_xp + EXCLUDED.total_xp,
			updated_at = NOW()
		RETURNING total_xp
	`

	var total int
	if err := r.db.QueryRow(ctx, query, userID, delta).Scan(&total); err != nil {
		return 0, fmt.Errorf("increment xp: %w", err)
	}

	return total, nil
}

// Top returns the users with the most XP. Tier is left empty for the
// caller to resolve.
func (r *ProgressionRepository) Top(ctx context.Context, limit int) ([]entities.LeaderboardEntry, error) {
	query := `
		SELECT p.user_id, u.username, u.first_name, p.total_xp
		FROM user_progression p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.total_xp DESC, p.updated_at ASC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("top progression: %w", err)
	}
	defer rows.Close()

	entries := make([]entities.LeaderboardEntry, 0, limit)
	for rows.Next() {
		var (
			e    entities.LeaderboardEntry
			user entities.User
		)
		if err := rows.Scan(&e.UserID, &user.Username, &user.FirstName, &e.TotalXP); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		e.DisplayName = user.DisplayName()
		e.Position = len(entries) + 1
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
