package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mcdlocator/backend/internal/domain"
)

// OutletStore implements domain.OutletRepository
type OutletStore struct {
	store *Store
}

var _ domain.OutletRepository = (*OutletStore)(nil)

// Outlets returns the outlet repository backed by this store.
func (s *Store) Outlets() *OutletStore {
	return &OutletStore{store: s}
}

const outletColumns = `id, name, address, operating_hours, waze_link, latitude, longitude, features`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOutlet(row rowScanner) (domain.Outlet, error) {
	var (
		o        domain.Outlet
		lat, lon sql.NullFloat64
		features sql.NullString
	)
	if err := row.Scan(&o.ID, &o.Name, &o.Address, &o.OperatingHours, &o.WazeLink, &lat, &lon, &features); err != nil {
		return domain.Outlet{}, err
	}
	if lat.Valid {
		o.Latitude = &lat.Float64
	}
	if lon.Valid {
		o.Longitude = &lon.Float64
	}
	o.Features = domain.DecodeFeatures(features.String)
	return o, nil
}

func (r *OutletStore) query(ctx context.Context, query string, args ...any) ([]domain.Outlet, error) {
	rows, err := r.store.db.QueryContext(ctx, r.store.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("querying outlets: %w", err)
	}
	defer rows.Close()

	outlets := []domain.Outlet{}
	for rows.Next() {
		o, err := scanOutlet(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning outlet: %w", err)
		}
		outlets = append(outlets, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating outlets: %w", err)
	}
	return outlets, nil
}

func (r *OutletStore) queryOne(ctx context.Context, query string, args ...any) (*domain.Outlet, error) {
	row := r.store.db.QueryRowContext(ctx, r.store.rebind(query), args...)
	o, err := scanOutlet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOutletNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying outlet: %w", err)
	}
	return &o, nil
}

// List returns outlets ordered by id. A limit of 0 returns every outlet past offset.
func (r *OutletStore) List(ctx context.Context, limit, offset int) ([]domain.Outlet, error) {
	if limit <= 0 {
		// -1 means "no limit" in sqlite; postgres accepts LIMIT ALL
		if r.store.dialect == DriverPostgres {
			return r.query(ctx, `SELECT `+outletColumns+` FROM outlets ORDER BY id LIMIT ALL OFFSET ?`, offset)
		}
		return r.query(ctx, `SELECT `+outletColumns+` FROM outlets ORDER BY id LIMIT -1 OFFSET ?`, offset)
	}
	return r.query(ctx, `SELECT `+outletColumns+` FROM outlets ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
}

func (r *OutletStore) ListAll(ctx context.Context) ([]domain.Outlet, error) {
	return r.query(ctx, `SELECT `+outletColumns+` FROM outlets ORDER BY id`)
}

func (r *OutletStore) GetByID(ctx context.Context, id int64) (*domain.Outlet, error) {
	return r.queryOne(ctx, `SELECT `+outletColumns+` FROM outlets WHERE id = ?`, id)
}

func (r *OutletStore) FindByNameAddress(ctx context.Context, name, address string) (*domain.Outlet, error) {
	return r.queryOne(ctx, `SELECT `+outletColumns+` FROM outlets WHERE name = ? AND address = ?`, name, address)
}

// ListMissingCoordinates returns outlets lacking a latitude or longitude.
func (r *OutletStore) ListMissingCoordinates(ctx context.Context) ([]domain.Outlet, error) {
	return r.query(ctx, `SELECT `+outletColumns+` FROM outlets WHERE latitude IS NULL OR longitude IS NULL ORDER BY id`)
}

// Create inserts outlet and sets its ID.
func (r *OutletStore) Create(ctx context.Context, outlet *domain.Outlet) error {
	query := r.store.rebind(`
		INSERT INTO outlets (name, address, operating_hours, waze_link, latitude, longitude, features)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)

	var id int64
	err := r.store.db.QueryRowContext(ctx, query,
		outlet.Name, outlet.Address, outlet.OperatingHours, outlet.WazeLink,
		nullFloat(outlet.Latitude), nullFloat(outlet.Longitude), domain.EncodeFeatures(outlet.Features),
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("inserting outlet: %w", err)
	}

	outlet.ID = id
	return nil
}

// Update overwrites every column of an existing outlet.
func (r *OutletStore) Update(ctx context.Context, outlet *domain.Outlet) error {
	query := r.store.rebind(`
		UPDATE outlets
		SET name = ?, address = ?, operating_hours = ?, waze_link = ?,
		    latitude = ?, longitude = ?, features = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`)

	result, err := r.store.db.ExecContext(ctx, query,
		outlet.Name, outlet.Address, outlet.OperatingHours, outlet.WazeLink,
		nullFloat(outlet.Latitude), nullFloat(outlet.Longitude), domain.EncodeFeatures(outlet.Features),
		outlet.ID,
	)
	if err != nil {
		return fmt.Errorf("updating outlet: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating outlet: %w", err)
	}
	if n == 0 {
		return domain.ErrOutletNotFound
	}
	return nil
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
