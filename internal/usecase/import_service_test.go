package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/mcdlocator/backend/internal/domain"
	"github.com/mcdlocator/backend/internal/infrastructure/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestImportService_Import(t *testing.T) {
	ctx := context.Background()

	existing := domain.Outlet{
		ID:             1,
		Name:           "McDonald's Bukit Bintang",
		Address:        "Jalan Bukit Bintang, KL",
		OperatingHours: "6am - 2am",
		Features:       []domain.FeatureLabel{domain.FeatureWiFi},
	}
	repo := NewMockOutletRepository(existing)
	svc := NewImportService(repo, logging.Nop())

	scraped := []domain.Outlet{
		{
			Name:           "McDonald's Bukit Bintang",
			Address:        "Jalan Bukit Bintang, KL",
			OperatingHours: "24 Hours",
			Latitude:       floatPtr(3.147),
			Longitude:      floatPtr(101.711),
			Features:       []domain.FeatureLabel{domain.FeatureWiFi, domain.Feature24Hours},
		},
		{
			Name:     "McDonald's Mid Valley",
			Address:  "Mid Valley City, KL",
			Features: []domain.FeatureLabel{domain.FeatureMcCafe},
		},
		{Name: "Unknown", Address: "somewhere"},
		{Name: "McD", Address: "too short"},
		{Name: "McDonald's Bukit Bintang", Address: "Jalan Bukit Bintang, KL"},
	}

	stats, err := svc.Import(ctx, scraped)
	require.NoError(t, err)

	assert.Equal(t, ImportStats{Added: 1, Updated: 1, Skipped: 3}, stats)
	require.Len(t, repo.outlets, 2)

	updated := repo.outlets[0]
	assert.Equal(t, "24 Hours", updated.OperatingHours)
	require.True(t, updated.HasCoordinates())
	assert.Equal(t, 3.147, *updated.Latitude)
	assert.Equal(t, []domain.FeatureLabel{domain.FeatureWiFi, domain.Feature24Hours}, updated.Features)

	added := repo.outlets[1]
	assert.Equal(t, int64(2), added.ID)
	assert.Equal(t, "McDonald's Mid Valley", added.Name)
}

func TestImportService_StopsOnStoreError(t *testing.T) {
	repo := NewMockOutletRepository()
	repo.saveError = errors.New("disk full")
	svc := NewImportService(repo, logging.Nop())

	_, err := svc.Import(context.Background(), []domain.Outlet{{Name: "McDonald's Cheras", Address: "Cheras"}})
	assert.ErrorContains(t, err, "disk full")
}

func TestImportService_HonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := NewImportService(NewMockOutletRepository(), logging.Nop())

	_, err := svc.Import(ctx, []domain.Outlet{{Name: "McDonald's Cheras", Address: "Cheras"}})
	assert.ErrorIs(t, err, context.Canceled)
}
