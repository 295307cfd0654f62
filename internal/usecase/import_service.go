package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mcdlocator/backend/internal/domain"
	"github.com/rs/zerolog"
)

// ImportStats counts what an import did
type ImportStats struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// ImportService saves scraped outlets, keyed on name and address
type ImportService struct {
	outlets domain.OutletRepository
	logger  zerolog.Logger
}

// NewImportService creates a new import service
func NewImportService(outlets domain.OutletRepository, logger zerolog.Logger) *ImportService {
	return &ImportService{
		outlets: outlets,
		logger:  logger.With().Str("component", "import").Logger(),
	}
}

// Import inserts new outlets and refreshes existing ones with any new data
func (s *ImportService) Import(ctx context.Context, scraped []domain.Outlet) (ImportStats, error) {
	var stats ImportStats

	for i := range scraped {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		incoming := scraped[i]
		incoming.Name = strings.TrimSpace(incoming.Name)
		incoming.Address = strings.TrimSpace(incoming.Address)
		if !isUsableName(incoming.Name) {
			s.logger.Debug().Str("name", incoming.Name).Msg("skipped outlet with insufficient data")
			stats.Skipped++
			continue
		}

		existing, err := s.outlets.FindByNameAddress(ctx, incoming.Name, incoming.Address)
		if err != nil && !errors.Is(err, domain.ErrOutletNotFound) {
			return stats, fmt.Errorf("looking up %q: %w", incoming.Name, err)
		}

		if existing == nil {
			incoming.ID = 0
			if err := s.outlets.Create(ctx, &incoming); err != nil {
				return stats, fmt.Errorf("creating %q: %w", incoming.Name, err)
			}
			s.logger.Info().Str("name", incoming.Name).Int64("id", incoming.ID).Msg("added outlet")
			stats.Added++
			continue
		}

		if !mergeOutlet(existing, &incoming) {
			stats.Skipped++
			continue
		}
		if err := s.outlets.Update(ctx, existing); err != nil {
			return stats, fmt.Errorf("updating %q: %w", incoming.Name, err)
		}
		s.logger.Info().Str("name", existing.Name).Int64("id", existing.ID).Msg("updated outlet")
		stats.Updated++
	}

	return stats, nil
}

func isUsableName(name string) bool {
	return name != "" && name != "Unknown" && len(name) > 3
}

// mergeOutlet copies the non-empty fields of incoming onto existing and
// reports whether anything changed.
func mergeOutlet(existing, incoming *domain.Outlet) bool {
	changed := false

	if incoming.HasCoordinates() && !sameCoordinates(existing, incoming) {
		lat, lon := *incoming.Latitude, *incoming.Longitude
		existing.Latitude, existing.Longitude = &lat, &lon
		changed = true
	}
	if incoming.OperatingHours != "" && incoming.OperatingHours != existing.OperatingHours {
		existing.OperatingHours = incoming.OperatingHours
		changed = true
	}
	if incoming.WazeLink != "" && incoming.WazeLink != existing.WazeLink {
		existing.WazeLink = incoming.WazeLink
		changed = true
	}
	if incoming.Features != nil && domain.EncodeFeatures(incoming.Features) != domain.EncodeFeatures(existing.Features) {
		existing.Features = append([]domain.FeatureLabel{}, incoming.Features...)
		changed = true
	}

	return changed
}

func sameCoordinates(a, b *domain.Outlet) bool {
	return a.HasCoordinates() && b.HasCoordinates() &&
		*a.Latitude == *b.Latitude && *a.Longitude == *b.Longitude
}
