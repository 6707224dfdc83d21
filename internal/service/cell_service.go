package service

import (
	"context"
	"strconv"

	"github.com/densitymap/densitymap/internal/hexgrid"
	"github.com/densitymap/densitymap/internal/model"
	"github.com/densitymap/densitymap/pkg/apperror"
)

// CellDetail is a grid cell joined with its live vote distribution,
// keyed by vote value ("-2".."2").
type CellDetail struct {
	*hexgrid.Cell
	VoteCounts map[string]int64 `json:"vote_counts"`
}

type CellService interface {
	Collection(mode string, resolution int) ([]byte, error)
	Detail(ctx context.Context, mode string, resolution int, hexID string) (*CellDetail, error)
}

type cellService struct {
	grid    *hexgrid.Store
	tallies *TallyCache
}

func NewCellService(grid *hexgrid.Store, tallies *TallyCache) CellService {
	return &cellService{grid: grid, tallies: tallies}
}

func validateGridParams(mode string, resolution int) error {
	if !model.ValidModes[mode] {
		return apperror.Wrap(apperror.ErrInvalidInput, "Invalid mode")
	}
	if resolution != 7 && resolution != 8 {
		return apperror.Wrap(apperror.ErrInvalidInput, "Invalid resolution")
	}
	return nil
}

func (s *cellService) Collection(mode string, resolution int) ([]byte, error) {
	if err := validateGridParams(mode, resolution); err != nil {
		return nil, err
	}

	data, ok := s.grid.Collection(mode, resolution)
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return data, nil
}

func (s *cellService) Detail(ctx context.Context, mode string, resolution int, hexID string) (*CellDetail, error) {
	if err := validateGridParams(mode, resolution); err != nil {
		return nil, err
	}
	if hexID == "" {
		return nil, apperror.Wrap(apperror.ErrInvalidInput, "Missing fields")
	}

	cell, ok := s.grid.Cell(mode, resolution, hexID)
	if !ok {
		return nil, apperror.ErrNotFound
	}

	counts, err := s.tallies.Counts(ctx, hexID, mode)
	if err != nil {
		return nil, err
	}

	voteCounts := make(map[string]int64, len(counts))
	for value, count := range counts {
		voteCounts[strconv.Itoa(value)] = count
	}

	return &CellDetail{
		Cell:       cell,
		VoteCounts: voteCounts,
	}, nil
}
