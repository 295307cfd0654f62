package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// OutletRepository defines the interface for outlet persistence
type OutletRepository interface {
	// List returns outlets ordered by id. A limit of 0 returns every outlet past offset.
	List(ctx context.Context, limit, offset int) ([]Outlet, error)
	ListAll(ctx context.Context) ([]Outlet, error)
	GetByID(ctx context.Context, id int64) (*Outlet, error)
	FindByNameAddress(ctx context.Context, name, address string) (*Outlet, error)
	ListMissingCoordinates(ctx context.Context) ([]Outlet, error)
	Create(ctx context.Context, outlet *Outlet) error
	Update(ctx context.Context, outlet *Outlet) error
}

// TextGenerator produces free text for a prompt (an LLM endpoint)
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Geocoder resolves a postal address to coordinates
type Geocoder interface {
	Geocode(ctx context.Context, address string) (lat, lon float64, err error)
}
