package service

import (
	"context"
	"strings"
	"time"

	"github.com/densitymap/densitymap/internal/model"
	"github.com/densitymap/densitymap/internal/repository"
	"github.com/densitymap/densitymap/pkg/apperror"
	"github.com/densitymap/densitymap/pkg/dto"
	"github.com/microcosm-cc/bluemonday"
)

type RequestInput struct {
	Type    string `json:"type" binding:"omitempty,oneof=city name idea"`
	Message string `json:"message" binding:"omitempty,max=500"`
}

var validRequestTypes = map[string]bool{
	"city": true,
	"name": true,
	"idea": true,
}

type RequestService interface {
	Submit(ctx context.Context, input RequestInput) error
	List(ctx context.Context, filter dto.RequestFilter) (*dto.PaginatedRequestResponse, error)
}

type requestService struct {
	repo      repository.RequestRepository
	sanitizer *bluemonday.Policy
}

func NewRequestService(repo repository.RequestRepository) RequestService {
	return &requestService{
		repo:      repo,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (s *requestService) Submit(ctx context.Context, input RequestInput) error {
	if !validRequestTypes[input.Type] {
		return apperror.Wrap(apperror.ErrInvalidInput, "Invalid request type")
	}

	message := strings.TrimSpace(input.Message)
	if len(message) < 2 {
		return apperror.Wrap(apperror.ErrInvalidInput, "Message must be at least 2 characters")
	}
	if len(message) > 500 {
		return apperror.Wrap(apperror.ErrInvalidInput, "Message too long (max 500 characters)")
	}

	// Free text goes straight to storage; strip any markup first.
	message = s.sanitizer.Sanitize(message)

	return s.repo.Create(ctx, &model.Request{
		Type:    input.Type,
		Message: message,
	})
}

func (s *requestService) List(ctx context.Context, filter dto.RequestFilter) (*dto.PaginatedRequestResponse, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}

	requests, total, err := s.repo.FindAll(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	data := make([]dto.RequestResponse, 0, len(requests))
	for _, request := range requests {
		data = append(data, dto.RequestResponse{
			ID:        request.ID,
			Type:      request.Type,
			Message:   request.Message,
			CreatedAt: request.CreatedAt.Format(time.RFC3339),
		})
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &dto.PaginatedRequestResponse{
		Data: data,
		Meta: dto.PaginationMeta{
			CurrentPage: page,
			TotalPages:  totalPages,
			TotalItems:  total,
			Limit:       limit,
		},
	}, nil
}
