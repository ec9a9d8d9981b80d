package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/richxcame/limo-booking/pkg/tracing"
)

const tracerName = "catalog"

// Repository handles database operations for packages and vehicles
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new catalog repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// GetPackage retrieves an active package by ID
func (r *Repository) GetPackage(ctx context.Context, id uuid.UUID) (*Package, error) {
	query := `
		SELECT id, name, description, base_price::float8, is_hourly, minimum_hours::float8
		FROM service_packages
		WHERE id = $1 AND is_active = true
	`

	p := &Package{}
	err := tracing.TraceDBQuery(ctx, tracerName, "select_package", query, func(ctx context.Context) error {
		return r.db.QueryRow(ctx, query, id).Scan(
			&p.ID, &p.Name, &p.Description, &p.BasePrice, &p.IsHourly, &p.MinimumHours,
		)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get package: %w", err)
	}
	return p, nil
}

// GetVehicle retrieves an active vehicle by ID
func (r *Repository) GetVehicle(ctx context.Context, id uuid.UUID) (*Vehicle, error) {
	query := `
		SELECT id, name, category, capacity, fixed_price::float8, price_per_hour::float8
		FROM vehicles
		WHERE id = $1 AND is_active = true
	`

	v := &Vehicle{}
	err := tracing.TraceDBQuery(ctx, tracerName, "select_vehicle", query, func(ctx context.Context) error {
		return r.db.QueryRow(ctx, query, id).Scan(
			&v.ID, &v.Name, &v.Category, &v.Capacity, &v.FixedPrice, &v.PricePerHour,
		)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}
	return v, nil
}

// ListPackages lists active packages by name
func (r *Repository) ListPackages(ctx context.Context) ([]Package, error) {
	query := `
		SELECT id, name, description, base_price::float8, is_hourly, minimum_hours::float8
		FROM service_packages
		WHERE is_active = true
		ORDER BY name
	`

	packages := make([]Package, 0)
	err := tracing.TraceDBQuery(ctx, tracerName, "list_packages", query, func(ctx context.Context) error {
		rows, err := r.db.Query(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var p Package
			if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.BasePrice, &p.IsHourly, &p.MinimumHours); err != nil {
				return err
			}
			packages = append(packages, p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	return packages, nil
}

// ListVehicles lists active vehicles by name
func (r *Repository) ListVehicles(ctx context.Context) ([]Vehicle, error) {
	query := `
		SELECT id, name, category, capacity, fixed_price::float8, price_per_hour::float8
		FROM vehicles
		WHERE is_active = true
		ORDER BY name
	`

	vehicles := make([]Vehicle, 0)
	err := tracing.TraceDBQuery(ctx, tracerName, "list_vehicles", query, func(ctx context.Context) error {
		rows, err := r.db.Query(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var v Vehicle
			if err := rows.Scan(&v.ID, &v.Name, &v.Category, &v.Capacity, &v.FixedPrice, &v.PricePerHour); err != nil {
				return err
			}
			vehicles = append(vehicles, v)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	return vehicles, nil
}
