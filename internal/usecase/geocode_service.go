package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/mcdlocator/backend/internal/domain"
	"github.com/rs/zerolog"
)

// GeocodeStats summarizes a backfill run
type GeocodeStats struct {
	Total    int           `json:"total"`
	Geocoded int           `json:"geocoded"`
	Failed   int           `json:"failed"`
	Elapsed  time.Duration `json:"elapsed"`
}

// GeocodeProgressFunc is called once per outlet processed; err is nil on success
type GeocodeProgressFunc func(outlet domain.Outlet, err error)

// GeocodeService backfills missing outlet coordinates
type GeocodeService struct {
	outlets  domain.OutletRepository
	geocoder domain.Geocoder
	logger   zerolog.Logger
}

// NewGeocodeService creates a new geocode service
func NewGeocodeService(outlets domain.OutletRepository, geocoder domain.Geocoder, logger zerolog.Logger) *GeocodeService {
	return &GeocodeService{
		outlets:  outlets,
		geocoder: geocoder,
		logger:   logger.With().Str("component", "geocode").Logger(),
	}
}

// Pending returns the outlets still missing coordinates
func (s *GeocodeService) Pending(ctx context.Context) ([]domain.Outlet, error) {
	outlets, err := s.outlets.ListMissingCoordinates(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing outlets without coordinates: %w", err)
	}
	return outlets, nil
}

// Backfill geocodes every outlet missing a latitude or longitude.
// Per-outlet failures are counted and do not stop the run.
func (s *GeocodeService) Backfill(ctx context.Context, progress GeocodeProgressFunc) (GeocodeStats, error) {
	start := time.Now()

	pending, err := s.Pending(ctx)
	if err != nil {
		return GeocodeStats{}, err
	}

	stats := GeocodeStats{Total: len(pending)}
	for _, outlet := range pending {
		if err := ctx.Err(); err != nil {
			stats.Elapsed = time.Since(start)
			return stats, err
		}

		err := s.geocodeOne(ctx, &outlet)
		if err != nil {
			stats.Failed++
			s.logger.Warn().Err(err).Str("name", outlet.Name).Msg("failed to geocode")
		} else {
			stats.Geocoded++
			s.logger.Info().
				Str("name", outlet.Name).
				Float64("lat", *outlet.Latitude).
				Float64("lon", *outlet.Longitude).
				Msg("geocoded")
		}

		if progress != nil {
			progress(outlet, err)
		}
	}

	stats.Elapsed = time.Since(start)
	return stats, nil
}

func (s *GeocodeService) geocodeOne(ctx context.Context, outlet *domain.Outlet) error {
	if outlet.Address == "" {
		return fmt.Errorf("%w: outlet has no address", domain.ErrAddressNotFound)
	}

	lat, lon, err := s.geocoder.Geocode(ctx, outlet.Address)
	if err != nil {
		return err
	}

	outlet.Latitude = &lat
	outlet.Longitude = &lon
	outlet.WazeLink = domain.WazeLink(lat, lon)

	if err := s.outlets.Update(ctx, outlet); err != nil {
		return fmt.Errorf("saving coordinates: %w", err)
	}
	return nil
}
