package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LeaderboardRow is one user's aggregated standing. The ledger facts
// (votes and daily point records) are the only inputs; nothing here is
// cached or separately persisted.
type LeaderboardRow struct {
	UserID          uuid.UUID `json:"user_id"`
	Username        string    `json:"username"`
	TrustLevel      float64   `json:"trust_level"`
	WalletAddress   *string   `json:"wallet_address"`
	TotalVotes      int64     `json:"total_votes"`
	TotalPoints     int64     `json:"total_points"`
	PointsThisWeek  int64     `json:"points_this_week"`
	PointsThisMonth int64     `json:"points_this_month"`
}

// LeaderboardQuery carries validated, SQL-safe parameters. OrderColumn
// must come from the service's whitelist, never from user input.
type LeaderboardQuery struct {
	OrderColumn string
	Search      string
	Usernames   []string
	WeekStart   string
	MonthStart  string
	Offset      int
	Limit       int
}

type LeaderboardRepository interface {
	TopUsers(ctx context.Context, q LeaderboardQuery) ([]LeaderboardRow, int64, error)
	UserRow(ctx context.Context, userID uuid.UUID, weekStart, monthStart string) (*LeaderboardRow, error)
}

type leaderboardRepository struct {
	db *gorm.DB
}

func NewLeaderboardRepository(db *gorm.DB) LeaderboardRepository {
	return &leaderboardRepository{db: db}
}

const leaderboardBase = `
SELECT u.id AS user_id,
       u.username,
       u.trust_level,
       u.wallet_address,
       COALESCE(v.total_votes, 0) AS total_votes,
       COALESCE(p.total_points, 0) AS total_points,
       COALESCE(p.points_this_week, 0) AS points_this_week,
       COALESCE(p.points_this_month, 0) AS points_this_month
FROM users u
LEFT JOIN (
    SELECT user_id, COUNT(*) AS total_votes
    FROM votes
    GROUP BY user_id
) v ON v.user_id = u.id
LEFT JOIN (
    SELECT user_id,
           SUM(points_earned) AS total_points,
           SUM(points_earned) FILTER (WHERE date >= ?) AS points_this_week,
           SUM(points_earned) FILTER (WHERE date >= ?) AS points_this_month
    FROM daily_points
    GROUP BY user_id
) p ON p.user_id = u.id
`

func (r *leaderboardRepository) TopUsers(ctx context.Context, q LeaderboardQuery) ([]LeaderboardRow, int64, error) {
	args := []interface{}{q.WeekStart, q.MonthStart}

	where := ""
	if len(q.Usernames) > 0 {
		where = " WHERE u.username IN ?"
		args = append(args, q.Usernames)
	} else if q.Search != "" {
		where = " WHERE u.username ILIKE ?"
		args = append(args, "%"+q.Search+"%")
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM (" + leaderboardBase + where + ") ranked"
	if err := r.db.WithContext(ctx).Raw(countQuery, args...).Scan(&total).Error; err != nil {
		return nil, 0, err
	}

	// Ties broken by user id ascending so pagination is stable.
	query := leaderboardBase + where +
		" ORDER BY " + q.OrderColumn + " DESC, u.id ASC LIMIT ? OFFSET ?"
	args = append(args, q.Limit, q.Offset)

	var rows []LeaderboardRow
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

func (r *leaderboardRepository) UserRow(ctx context.Context, userID uuid.UUID, weekStart, monthStart string) (*LeaderboardRow, error) {
	var rows []LeaderboardRow
	query := leaderboardBase + " WHERE u.id = ?"
	err := r.db.WithContext(ctx).
		Raw(query, weekStart, monthStart, userID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}
