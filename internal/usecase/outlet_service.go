package usecase

import (
	"context"
	"fmt"

	"github.com/mcdlocator/backend/internal/domain"
)

// MaxPageSize is the largest page a single List call may request
const MaxPageSize = 1000

// OutletService serves read access to stored outlets
type OutletService struct {
	outlets domain.OutletRepository
}

// NewOutletService creates a new outlet service
func NewOutletService(outlets domain.OutletRepository) *OutletService {
	return &OutletService{outlets: outlets}
}

// List returns a page of outlets. A limit of 0 returns all outlets past offset.
func (s *OutletService) List(ctx context.Context, limit, offset int) ([]domain.Outlet, error) {
	if limit < 0 || limit > MaxPageSize {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", domain.ErrInvalidRequest, MaxPageSize)
	}
	if offset < 0 {
		return nil, fmt.Errorf("%w: offset must not be negative", domain.ErrInvalidRequest)
	}

	outlets, err := s.outlets.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing outlets: %w", err)
	}
	return outlets, nil
}

// Get returns one outlet by id
func (s *OutletService) Get(ctx context.Context, id int64) (*domain.Outlet, error) {
	if id <= 0 {
		return nil, domain.ErrOutletNotFound
	}
	return s.outlets.GetByID(ctx, id)
}
