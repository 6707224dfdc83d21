package service

import (
	"context"
	"strings"
	"time"

	"github.com/densitymap/densitymap/internal/model"
	"github.com/densitymap/densitymap/internal/repository"
	"github.com/densitymap/densitymap/pkg/apperror"
	"github.com/densitymap/densitymap/pkg/period"
	"github.com/google/uuid"
)

type Profile struct {
	User        *model.User                `json:"user"`
	DailyPoints int                        `json:"daily_points"`
	Standing    *repository.LeaderboardRow `json:"standing"`
}

type ProfileService interface {
	Me(ctx context.Context, userID uuid.UUID) (*Profile, error)
	UpdateWallet(ctx context.Context, userID uuid.UUID, walletAddress *string) (*model.User, error)
}

type profileService struct {
	userRepo    repository.UserRepository
	voteRepo    repository.VoteRepository
	leaderboard LeaderboardService
	now         func() time.Time
}

func NewProfileService(userRepo repository.UserRepository, voteRepo repository.VoteRepository, leaderboard LeaderboardService) ProfileService {
	return &profileService{
		userRepo:    userRepo,
		voteRepo:    voteRepo,
		leaderboard: leaderboard,
		now:         time.Now,
	}
}

func (s *profileService) Me(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	user, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		return nil, err
	}

	daily, err := s.voteRepo.DailyPoints(ctx, userID, period.DateKey(s.now()))
	if err != nil {
		return nil, err
	}

	standing, err := s.leaderboard.GetUserStanding(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Profile{
		User:        user,
		DailyPoints: daily,
		Standing:    standing,
	}, nil
}

func (s *profileService) UpdateWallet(ctx context.Context, userID uuid.UUID, walletAddress *string) (*model.User, error) {
	// Empty strings clear the wallet, matching a "disconnect" action.
	if walletAddress != nil {
		trimmed := strings.TrimSpace(*walletAddress)
		if trimmed == "" {
			walletAddress = nil
		} else {
			if len(trimmed) > 255 {
				return nil, apperror.Wrap(apperror.ErrInvalidInput, "Wallet address too long")
			}
			walletAddress = &trimmed
		}
	}

	if err := s.userRepo.UpdateWallet(ctx, userID, walletAddress); err != nil {
		return nil, err
	}

	return s.userRepo.FindByID(ctx, userID.String())
}
