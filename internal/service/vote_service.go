package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/densitymap/densitymap/internal/model"
	"github.com/densitymap/densitymap/internal/repository"
	"github.com/densitymap/densitymap/pkg/apperror"
	"github.com/densitymap/densitymap/pkg/period"
	"github.com/google/uuid"
)

// VoteInput uses pointers so absent JSON fields are distinguishable
// from zero values when deciding the "Missing fields" error.
type VoteInput struct {
	HexID     *string `json:"hex_id"`
	Mode      *string `json:"mode"`
	VoteValue *int    `json:"vote_value"`
}

type VoteResult struct {
	Success      bool `json:"success"`
	PointsEarned int  `json:"points_earned"`
	DailyTotal   int  `json:"daily_total"`
}

type VoteService interface {
	Submit(ctx context.Context, userID uuid.UUID, input VoteInput) (*VoteResult, error)
	// CurrentVote returns the user's vote value on a cell for the
	// running period, or nil when no vote exists in it. Votes from
	// earlier periods are invisible here by design: the caller is
	// asking "may I vote now".
	CurrentVote(ctx context.Context, userID uuid.UUID, hexID, mode string) (*int, error)
}

type voteService struct {
	repo     repository.VoteRepository
	tallies  *TallyCache
	dailyCap int
	now      func() time.Time
}

func NewVoteService(repo repository.VoteRepository, tallies *TallyCache, dailyCap int) VoteService {
	return &voteService{
		repo:     repo,
		tallies:  tallies,
		dailyCap: dailyCap,
		now:      time.Now,
	}
}

func (s *voteService) Submit(ctx context.Context, userID uuid.UUID, input VoteInput) (*VoteResult, error) {
	// Validation order is part of the contract: missing fields, then
	// mode, then value range. Storage-level checks come after.
	if input.HexID == nil || *input.HexID == "" ||
		input.Mode == nil || *input.Mode == "" ||
		input.VoteValue == nil {
		return nil, apperror.Wrap(apperror.ErrInvalidInput, "Missing fields")
	}

	if !model.ValidModes[*input.Mode] {
		return nil, apperror.Wrap(apperror.ErrInvalidInput, "Invalid mode")
	}

	if *input.VoteValue < -2 || *input.VoteValue > 2 {
		return nil, apperror.Wrap(apperror.ErrInvalidInput, "Vote value must be between -2 and 2")
	}

	now := s.now()
	vote := &model.Vote{
		UserID:    userID,
		HexID:     *input.HexID,
		Mode:      *input.Mode,
		VoteValue: *input.VoteValue,
		PeriodID:  period.ID(now),
	}

	result, err := s.repo.Submit(ctx, vote, period.DateKey(now), s.dailyCap)
	if err != nil {
		switch err {
		case repository.ErrDailyCapReached:
			return nil, apperror.Wrap(apperror.ErrRateLimitExceeded,
				fmt.Sprintf("Daily points cap reached (%d)", s.dailyCap))
		case repository.ErrDuplicateVote:
			return nil, apperror.Wrap(apperror.ErrConflict, "Already voted on this cell this period")
		}
		return nil, err
	}

	// Cache bump is best effort; the ledger already committed.
	if s.tallies != nil {
		if err := s.tallies.Increment(ctx, vote.HexID, vote.Mode, vote.VoteValue); err != nil {
			log.Printf("tally cache update failed for %s/%s: %v", vote.Mode, vote.HexID, err)
		}
	}

	return &VoteResult{
		Success:      true,
		PointsEarned: result.PointsEarned,
		DailyTotal:   result.DailyTotal,
	}, nil
}

func (s *voteService) CurrentVote(ctx context.Context, userID uuid.UUID, hexID, mode string) (*int, error) {
	if hexID == "" || mode == "" {
		return nil, apperror.Wrap(apperror.ErrInvalidInput, "Missing fields")
	}
	if !model.ValidModes[mode] {
		return nil, apperror.Wrap(apperror.ErrInvalidInput, "Invalid mode")
	}

	vote, err := s.repo.FindForPeriod(ctx, userID, hexID, mode, period.ID(s.now()))
	if err != nil {
		return nil, err
	}
	if vote == nil {
		return nil, nil
	}

	value := vote.VoteValue
	return &value, nil
}
