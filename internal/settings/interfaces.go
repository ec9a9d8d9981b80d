package settings

import (
	"context"

	"github.com/richxcame/limo-booking/internal/fare"
)

// RepositoryInterface defines the contract for settings persistence
type RepositoryInterface interface {
	GetSettings(ctx context.Context) (*StoredSettings, error)
	SaveSettings(ctx context.Context, doc fare.SettingsDocument, updatedBy string) (*StoredSettings, error)
	ListHistory(ctx context.Context, limit, offset int) ([]HistoryEntry, int64, error)
}

// Provider supplies the settings used to price a booking. Implementations
// never fail: on any error they return the built-in defaults.
type Provider interface {
	Current(ctx context.Context) fare.PricingSettings
}
