package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/richxcame/limo-booking/pkg/cache"
	"github.com/richxcame/limo-booking/pkg/common"
)

// Service resolves packages and vehicles, caching single lookups in Redis
type Service struct {
	repo     RepositoryInterface
	cache    *cache.Manager
	cacheTTL time.Duration
}

// NewService creates a new catalog service
func NewService(repo RepositoryInterface, cacheManager *cache.Manager, cacheTTL time.Duration) *Service {
	return &Service{repo: repo, cache: cacheManager, cacheTTL: cacheTTL}
}

// GetPackage returns an active package
func (s *Service) GetPackage(ctx context.Context, id uuid.UUID) (*Package, error) {
	var p Package
	err := s.cached(ctx, cache.Keys.Package(id.String()), &p, func() (interface{}, error) {
		return s.repo.GetPackage(ctx, id)
	})
	if errors.Is(err, ErrNotFound) {
		return nil, common.NewNotFoundError("package not found", err)
	}
	if err != nil {
		return nil, common.NewInternalError("failed to get package", err)
	}
	return &p, nil
}

// GetVehicle returns an active vehicle
func (s *Service) GetVehicle(ctx context.Context, id uuid.UUID) (*Vehicle, error) {
	var v Vehicle
	err := s.cached(ctx, cache.Keys.Vehicle(id.String()), &v, func() (interface{}, error) {
		return s.repo.GetVehicle(ctx, id)
	})
	if errors.Is(err, ErrNotFound) {
		return nil, common.NewNotFoundError("vehicle not found", err)
	}
	if err != nil {
		return nil, common.NewInternalError("failed to get vehicle", err)
	}
	return &v, nil
}

// ListPackages returns every active package
func (s *Service) ListPackages(ctx context.Context) ([]Package, error) {
	packages, err := s.repo.ListPackages(ctx)
	if err != nil {
		return nil, common.NewInternalError("failed to list packages", err)
	}
	return packages, nil
}

// ListVehicles returns every active vehicle
func (s *Service) ListVehicles(ctx context.Context) ([]Vehicle, error) {
	vehicles, err := s.repo.ListVehicles(ctx)
	if err != nil {
		return nil, common.NewInternalError("failed to list vehicles", err)
	}
	return vehicles, nil
}

func (s *Service) cached(ctx context.Context, key string, result interface{}, load func() (interface{}, error)) error {
	return s.cache.GetOrSet(ctx, key, s.cacheTTL, result, load)
}
