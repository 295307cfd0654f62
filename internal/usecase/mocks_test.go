package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/mcdlocator/backend/internal/domain"
)

// MockTextGenerator is a mock implementation of domain.TextGenerator
type MockTextGenerator struct {
	response string
	err      error
	delay    time.Duration
	panicMsg string
	calls    int
	prompts  []string
	mu       sync.Mutex
}

func (m *MockTextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.calls++
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.panicMsg != "" {
		panic(m.panicMsg)
	}
	if m.delay > 0 {
		// Deliberately ignores ctx to simulate a misbehaving client
		time.Sleep(m.delay)
	}
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *MockTextGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	data      map[string][]byte
	getError  error
	setError  error
	setCalled bool
	deleted   []string
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		data: make(map[string][]byte),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.setCalled = true
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	m.deleted = append(m.deleted, key)
	delete(m.data, key)
	return nil
}

// MockOutletRepository is a mock implementation of domain.OutletRepository
type MockOutletRepository struct {
	outlets   []domain.Outlet
	nextID    int64
	listError error
	listPanic string
	getError  error
	saveError error
	updates   []domain.Outlet
}

func NewMockOutletRepository(outlets ...domain.Outlet) *MockOutletRepository {
	repo := &MockOutletRepository{nextID: 1}
	for _, o := range outlets {
		if o.ID >= repo.nextID {
			repo.nextID = o.ID + 1
		}
		repo.outlets = append(repo.outlets, o)
	}
	return repo
}

func (m *MockOutletRepository) List(ctx context.Context, limit, offset int) ([]domain.Outlet, error) {
	if m.listPanic != "" {
		panic(m.listPanic)
	}
	if m.listError != nil {
		return nil, m.listError
	}
	if offset >= len(m.outlets) {
		return []domain.Outlet{}, nil
	}
	end := len(m.outlets)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return append([]domain.Outlet{}, m.outlets[offset:end]...), nil
}

func (m *MockOutletRepository) ListAll(ctx context.Context) ([]domain.Outlet, error) {
	return m.List(ctx, 0, 0)
}

func (m *MockOutletRepository) GetByID(ctx context.Context, id int64) (*domain.Outlet, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	for i := range m.outlets {
		if m.outlets[i].ID == id {
			o := m.outlets[i]
			return &o, nil
		}
	}
	return nil, domain.ErrOutletNotFound
}

func (m *MockOutletRepository) FindByNameAddress(ctx context.Context, name, address string) (*domain.Outlet, error) {
	for i := range m.outlets {
		if m.outlets[i].Name == name && m.outlets[i].Address == address {
			o := m.outlets[i]
			return &o, nil
		}
	}
	return nil, domain.ErrOutletNotFound
}

func (m *MockOutletRepository) ListMissingCoordinates(ctx context.Context) ([]domain.Outlet, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	var missing []domain.Outlet
	for _, o := range m.outlets {
		if !o.HasCoordinates() {
			missing = append(missing, o)
		}
	}
	return missing, nil
}

func (m *MockOutletRepository) Create(ctx context.Context, outlet *domain.Outlet) error {
	if m.saveError != nil {
		return m.saveError
	}
	outlet.ID = m.nextID
	m.nextID++
	m.outlets = append(m.outlets, *outlet)
	return nil
}

func (m *MockOutletRepository) Update(ctx context.Context, outlet *domain.Outlet) error {
	if m.saveError != nil {
		return m.saveError
	}
	for i := range m.outlets {
		if m.outlets[i].ID == outlet.ID {
			m.outlets[i] = *outlet
			m.updates = append(m.updates, *outlet)
			return nil
		}
	}
	return domain.ErrOutletNotFound
}

// MockGeocoder is a mock implementation of domain.Geocoder
type MockGeocoder struct {
	results map[string][2]float64
	err     error
	calls   []string
}

func (m *MockGeocoder) Geocode(ctx context.Context, address string) (float64, float64, error) {
	m.calls = append(m.calls, address)
	if m.err != nil {
		return 0, 0, m.err
	}
	if r, ok := m.results[address]; ok {
		return r[0], r[1], nil
	}
	return 0, 0, domain.ErrAddressNotFound
}
