package catalog

import (
	"context"

	"github.com/google/uuid"
)

// RepositoryInterface defines the read-only catalog lookups used for pricing
type RepositoryInterface interface {
	GetPackage(ctx context.Context, id uuid.UUID) (*Package, error)
	GetVehicle(ctx context.Context, id uuid.UUID) (*Vehicle, error)
	ListPackages(ctx context.Context) ([]Package, error)
	ListVehicles(ctx context.Context) ([]Vehicle, error)
}
