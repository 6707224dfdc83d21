package service

import (
	"context"

	"github.com/densitymap/densitymap/internal/hexgrid"
	"github.com/densitymap/densitymap/internal/repository"
)

type Stats struct {
	TotalUsers int64          `json:"total_users"`
	TotalVotes int64          `json:"total_votes"`
	CellCounts map[string]int `json:"cell_counts"`
}

type StatService interface {
	GetStats(ctx context.Context) (*Stats, error)
}

type statService struct {
	userRepo repository.UserRepository
	voteRepo repository.VoteRepository
	grid     *hexgrid.Store
}

func NewStatService(userRepo repository.UserRepository, voteRepo repository.VoteRepository, grid *hexgrid.Store) StatService {
	return &statService{
		userRepo: userRepo,
		voteRepo: voteRepo,
		grid:     grid,
	}
}

func (s *statService) GetStats(ctx context.Context) (*Stats, error) {
	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	votes, err := s.voteRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	cellCounts := make(map[string]int, len(hexgrid.Modes))
	for mode := range hexgrid.Modes {
		cellCounts[mode] = s.grid.CellCount(mode)
	}

	return &Stats{
		TotalUsers: users,
		TotalVotes: votes,
		CellCounts: cellCounts,
	}, nil
}
