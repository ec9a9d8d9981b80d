package settings

import (
	"context"
	"errors"
	"time"

	"github.com/richxcame/limo-booking/internal/fare"
	"github.com/richxcame/limo-booking/pkg/cache"
	"github.com/richxcame/limo-booking/pkg/common"
	"github.com/richxcame/limo-booking/pkg/logger"
	"github.com/richxcame/limo-booking/pkg/pagination"
	"github.com/richxcame/limo-booking/pkg/tracing"
	"go.uber.org/zap"
)

// Service reads and saves pricing settings. Reads go through the Redis
// cache to Postgres and fall back to the built-in defaults on any failure.
type Service struct {
	repo     RepositoryInterface
	cache    *cache.Manager
	cacheTTL time.Duration
}

// NewService creates a new settings service. A nil cache manager disables caching.
func NewService(repo RepositoryInterface, cacheManager *cache.Manager, cacheTTL time.Duration) *Service {
	return &Service{
		repo:     repo,
		cache:    cacheManager,
		cacheTTL: cacheTTL,
	}
}

// Current returns the settings to price with. It never fails.
func (s *Service) Current(ctx context.Context) fare.PricingSettings {
	settings, _ := s.resolve(ctx)
	return settings
}

// Public returns the current settings together with where they came from
func (s *Service) Public(ctx context.Context) *SettingsResponse {
	settings, source := s.resolve(ctx)
	return &SettingsResponse{Settings: settings, Source: source}
}

func (s *Service) resolve(ctx context.Context) (fare.PricingSettings, string) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "ResolveSettings")
	defer span.End()

	if s.cache != nil {
		var cached fare.PricingSettings
		err := s.cache.Get(ctx, cache.Keys.PricingSettings(), &cached)
		if err == nil {
			span.SetAttributes(tracing.SettingsSourceKey.String(SourceCache))
			return cached, SourceCache
		}
		if !errors.Is(err, cache.ErrMiss) {
			logger.WarnContext(ctx, "pricing settings cache read failed", zap.Error(err))
		}
	}

	stored, err := s.repo.GetSettings(ctx)
	var (
		settings fare.PricingSettings
		source   string
	)
	switch {
	case errors.Is(err, ErrNotFound):
		settings, source = fare.DefaultSettings(), SourceDefaults
	case err != nil:
		logger.WarnContext(ctx, "failed to load pricing settings, using defaults", zap.Error(err))
		span.SetAttributes(tracing.SettingsSourceKey.String(SourceDefaults))
		return fare.DefaultSettings(), SourceDefaults
	default:
		settings, source = stored.Document.Resolve(), SourceDatabase
	}

	span.SetAttributes(tracing.SettingsSourceKey.String(source))
	if s.cache != nil && s.cacheTTL > 0 {
		if err := s.cache.Set(ctx, cache.Keys.PricingSettings(), settings, s.cacheTTL); err != nil {
			logger.WarnContext(ctx, "pricing settings cache write failed", zap.Error(err))
		}
	}

	return settings, source
}

// Get returns the stored settings for the admin editor. Unlike Current, a
// database failure is reported instead of masked.
func (s *Service) Get(ctx context.Context) (*SettingsResponse, error) {
	stored, err := s.repo.GetSettings(ctx)
	if errors.Is(err, ErrNotFound) {
		return &SettingsResponse{Settings: fare.DefaultSettings(), Source: SourceDefaults}, nil
	}
	if err != nil {
		return nil, common.NewInternalError("failed to load pricing settings", err)
	}

	return storedResponse(stored), nil
}

// Update validates and saves a settings document. Fields absent from doc
// keep falling back to the defaults.
func (s *Service) Update(ctx context.Context, doc fare.SettingsDocument, updatedBy string) (*SettingsResponse, error) {
	if problems := Validate(doc.Resolve()); problems != nil {
		return nil, common.NewValidationErrorWithDetails("invalid pricing settings", problems)
	}

	stored, err := s.repo.SaveSettings(ctx, doc, updatedBy)
	if err != nil {
		return nil, common.NewInternalError("failed to save pricing settings", err)
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, cache.Keys.PricingSettings()); err != nil {
			logger.WarnContext(ctx, "failed to invalidate pricing settings cache", zap.Error(err))
		}
	}

	logger.InfoContext(ctx, "pricing settings updated",
		zap.Int("version", stored.Version),
		zap.String("updated_by", updatedBy),
	)

	return storedResponse(stored), nil
}

// History returns one page of revisions, newest first, with paging metadata
func (s *Service) History(ctx context.Context, params pagination.Params) ([]HistoryEntry, *common.Meta, error) {
	params = params.Normalize()

	entries, total, err := s.repo.ListHistory(ctx, params.Limit, params.Offset)
	if err != nil {
		return nil, nil, common.NewInternalError("failed to load settings history", err)
	}
	return entries, pagination.BuildMeta(params, total), nil
}

func storedResponse(stored *StoredSettings) *SettingsResponse {
	updatedAt := stored.UpdatedAt
	return &SettingsResponse{
		Settings:  stored.Document.Resolve(),
		Version:   stored.Version,
		Source:    SourceDatabase,
		UpdatedBy: stored.UpdatedBy,
		UpdatedAt: &updatedAt,
	}
}
