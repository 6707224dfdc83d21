package repository

import (
	"context"
	"errors"

	"github.com/densitymap/densitymap/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrDuplicateVote signals the (user, cell, mode, period) unique
	// constraint fired: the user already voted this period.
	ErrDuplicateVote = errors.New("duplicate vote in period")

	// ErrDailyCapReached signals the user's daily point total was
	// already at or over the cap before this submission.
	ErrDailyCapReached = errors.New("daily point cap reached")
)

// SubmitResult reports the outcome of a committed vote submission.
type SubmitResult struct {
	PointsEarned int
	DailyTotal   int
	FirstVote    bool
}

type VoteRepository interface {
	// Submit writes the vote, updates the cell tally, and bumps the
	// daily point record in a single transaction. Either all three
	// commit or none do.
	Submit(ctx context.Context, vote *model.Vote, dateKey string, dailyCap int) (*SubmitResult, error)
	FindForPeriod(ctx context.Context, userID uuid.UUID, hexID, mode, periodID string) (*model.Vote, error)
	DailyPoints(ctx context.Context, userID uuid.UUID, dateKey string) (int, error)
	ValueCounts(ctx context.Context, hexID, mode string) (map[int]int64, error)
	Count(ctx context.Context) (int64, error)
}

type voteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

func (r *voteRepository) Submit(ctx context.Context, vote *model.Vote, dateKey string, dailyCap int) (*SubmitResult, error) {
	var result SubmitResult

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Pre-submission daily total. The cap check uses this value,
		// so the submission that crosses the cap is still allowed.
		var dailies []model.DailyPoint
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND date = ?", vote.UserID, dateKey).
			Limit(1).
			Find(&dailies).Error; err != nil {
			return err
		}

		currentDaily := 0
		if len(dailies) > 0 {
			currentDaily = dailies[0].PointsEarned
		}
		if currentDaily >= dailyCap {
			return ErrDailyCapReached
		}

		// The unique index on (user_id, hex_id, mode, period_id) is the
		// canonical duplicate detection, not a prior read.
		if err := tx.Create(vote).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateVote
			}
			return err
		}

		// Atomic counter upsert. RETURNING total_votes == 1 means this
		// is the first vote ever on (cell, mode); concurrent first
		// submissions serialize on the counter row.
		tally := model.CellTally{HexID: vote.HexID, Mode: vote.Mode, TotalVotes: 1}
		if err := tx.
			Clauses(
				clause.OnConflict{
					Columns: []clause.Column{{Name: "hex_id"}, {Name: "mode"}},
					DoUpdates: clause.Assignments(map[string]interface{}{
						"total_votes": gorm.Expr("cell_tallies.total_votes + 1"),
					}),
				},
				clause.Returning{Columns: []clause.Column{{Name: "total_votes"}}},
			).
			Create(&tally).Error; err != nil {
			return err
		}

		result.FirstVote = tally.TotalVotes == 1
		result.PointsEarned = 1
		if result.FirstVote {
			result.PointsEarned = 2
		}

		daily := model.DailyPoint{
			UserID:       vote.UserID,
			Date:         dateKey,
			PointsEarned: result.PointsEarned,
		}
		if err := tx.
			Clauses(
				clause.OnConflict{
					Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
					DoUpdates: clause.Assignments(map[string]interface{}{
						"points_earned": gorm.Expr("daily_points.points_earned + ?", result.PointsEarned),
						"updated_at":    gorm.Expr("CURRENT_TIMESTAMP"),
					}),
				},
				clause.Returning{Columns: []clause.Column{{Name: "points_earned"}}},
			).
			Create(&daily).Error; err != nil {
			return err
		}

		result.DailyTotal = daily.PointsEarned
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *voteRepository) FindForPeriod(ctx context.Context, userID uuid.UUID, hexID, mode, periodID string) (*model.Vote, error) {
	// Find with a slice avoids "record not found" log noise for the
	// common no-vote case.
	var votes []model.Vote
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND hex_id = ? AND mode = ? AND period_id = ?",
			userID, hexID, mode, periodID).
		Limit(1).
		Find(&votes).Error
	if err != nil {
		return nil, err
	}
	if len(votes) == 0 {
		return nil, nil
	}
	return &votes[0], nil
}

func (r *voteRepository) DailyPoints(ctx context.Context, userID uuid.UUID, dateKey string) (int, error) {
	var dailies []model.DailyPoint
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, dateKey).
		Limit(1).
		Find(&dailies).Error
	if err != nil {
		return 0, err
	}
	if len(dailies) == 0 {
		return 0, nil
	}
	return dailies[0].PointsEarned, nil
}

func (r *voteRepository) ValueCounts(ctx context.Context, hexID, mode string) (map[int]int64, error) {
	type row struct {
		VoteValue int
		Count     int64
	}
	var rows []row

	err := r.db.WithContext(ctx).
		Model(&model.Vote{}).
		Select("vote_value, count(*) as count").
		Where("hex_id = ? AND mode = ?", hexID, mode).
		Group("vote_value").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[int]int64)
	for _, r := range rows {
		counts[r.VoteValue] = r.Count
	}
	return counts, nil
}

func (r *voteRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Vote{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
