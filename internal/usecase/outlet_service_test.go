package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/mcdlocator/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutletService_List(t *testing.T) {
	ctx := context.Background()
	repo := NewMockOutletRepository(testOutlet(1), testOutlet(2), testOutlet(3))
	svc := NewOutletService(repo)

	tests := []struct {
		name    string
		limit   int
		offset  int
		wantIDs []int64
		wantErr error
	}{
		{name: "all outlets", limit: 0, offset: 0, wantIDs: []int64{1, 2, 3}},
		{name: "first page", limit: 2, offset: 0, wantIDs: []int64{1, 2}},
		{name: "second page", limit: 2, offset: 2, wantIDs: []int64{3}},
		{name: "offset past end", limit: 2, offset: 10, wantIDs: []int64{}},
		{name: "negative limit", limit: -1, wantErr: domain.ErrInvalidRequest},
		{name: "limit too large", limit: MaxPageSize + 1, wantErr: domain.ErrInvalidRequest},
		{name: "negative offset", limit: 1, offset: -5, wantErr: domain.ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.List(ctx, tt.limit, tt.offset)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			ids := make([]int64, 0, len(got))
			for _, o := range got {
				ids = append(ids, o.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestOutletService_ListPropagatesStoreErrors(t *testing.T) {
	repo := NewMockOutletRepository()
	repo.listError = errors.New("connection refused")
	svc := NewOutletService(repo)

	_, err := svc.List(context.Background(), 10, 0)
	assert.ErrorContains(t, err, "connection refused")
}

func TestOutletService_Get(t *testing.T) {
	ctx := context.Background()
	svc := NewOutletService(NewMockOutletRepository(testOutlet(7, domain.FeatureWiFi)))

	outlet, err := svc.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), outlet.ID)

	_, err = svc.Get(ctx, 8)
	assert.ErrorIs(t, err, domain.ErrOutletNotFound)

	_, err = svc.Get(ctx, 0)
	assert.ErrorIs(t, err, domain.ErrOutletNotFound)
}
