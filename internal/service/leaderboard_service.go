package service

import (
	"context"
	"log"
	"time"

	"github.com/densitymap/densitymap/internal/repository"
	"github.com/densitymap/densitymap/pkg/period"
	"github.com/google/uuid"
)

const (
	TimeframeWeek  = "week"
	TimeframeMonth = "month"
	TimeframeAll   = "all"

	defaultPageSize = 10
	maxPageSize     = 50
)

type LeaderboardEntry struct {
	Position int `json:"position"`
	repository.LeaderboardRow
}

type LeaderboardPage struct {
	Entries    []LeaderboardEntry `json:"entries"`
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	PerPage    int                `json:"per_page"`
	TotalPages int64              `json:"total_pages"`
}

type LeaderboardService interface {
	GetLeaderboard(ctx context.Context, timeframe, search string, page, limit int) (*LeaderboardPage, error)
	GetUserStanding(ctx context.Context, userID uuid.UUID) (*repository.LeaderboardRow, error)
}

type leaderboardService struct {
	repo   repository.LeaderboardRepository
	search SearchService
	now    func() time.Time
}

func NewLeaderboardService(repo repository.LeaderboardRepository, search SearchService) LeaderboardService {
	return &leaderboardService{
		repo:   repo,
		search: search,
		now:    time.Now,
	}
}

// orderColumn maps a timeframe to the ranking column. The result feeds
// a SQL ORDER BY, so only these three values ever come out.
func orderColumn(timeframe string) string {
	switch timeframe {
	case TimeframeWeek:
		return "points_this_week"
	case TimeframeMonth:
		return "points_this_month"
	default:
		return "total_points"
	}
}

func (s *leaderboardService) windows() (weekStart, monthStart string) {
	now := s.now()
	return period.DateKey(now.AddDate(0, 0, -7)), period.DateKey(now.AddDate(0, 0, -30))
}

func (s *leaderboardService) GetLeaderboard(ctx context.Context, timeframe, search string, page, limit int) (*LeaderboardPage, error) {
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if page < 0 {
		page = 0
	}

	weekStart, monthStart := s.windows()
	q := repository.LeaderboardQuery{
		OrderColumn: orderColumn(timeframe),
		WeekStart:   weekStart,
		MonthStart:  monthStart,
		Offset:      page * limit,
		Limit:       limit,
	}

	if search != "" {
		// Search goes through the username index when available; on
		// any index failure the SQL ILIKE filter still answers.
		if s.search != nil {
			usernames, err := s.search.SearchUsernames(ctx, search)
			if err != nil {
				log.Printf("leaderboard search fell back to SQL: %v", err)
				q.Search = search
			} else {
				q.Usernames = usernames
			}
		} else {
			q.Search = search
		}
	}

	// An empty index result means no matches at all; skip the query.
	if search != "" && q.Search == "" && len(q.Usernames) == 0 {
		return &LeaderboardPage{
			Entries: []LeaderboardEntry{},
			Page:    page,
			PerPage: limit,
		}, nil
	}

	rows, total, err := s.repo.TopUsers(ctx, q)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, LeaderboardEntry{
			Position:       q.Offset + i + 1,
			LeaderboardRow: row,
		})
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)

	return &LeaderboardPage{
		Entries:    entries,
		TotalCount: total,
		Page:       page,
		PerPage:    limit,
		TotalPages: totalPages,
	}, nil
}

func (s *leaderboardService) GetUserStanding(ctx context.Context, userID uuid.UUID) (*repository.LeaderboardRow, error) {
	weekStart, monthStart := s.windows()
	return s.repo.UserRow(ctx, userID, weekStart, monthStart)
}
