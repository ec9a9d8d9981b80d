package settings

import (
	"time"

	"github.com/richxcame/limo-booking/internal/fare"
)

// Sources reported alongside resolved settings
const (
	SourceCache    = "cache"
	SourceDatabase = "database"
	SourceRemote   = "remote"
	SourceDefaults = "defaults"
)

// StoredSettings is the persisted admin document with its version metadata
type StoredSettings struct {
	Version   int                   `json:"version"`
	Document  fare.SettingsDocument `json:"document"`
	UpdatedBy string                `json:"updatedBy,omitempty"`
	UpdatedAt time.Time             `json:"updatedAt"`
}

// SettingsResponse is what the HTTP surface returns for reads and saves
type SettingsResponse struct {
	Settings  fare.PricingSettings `json:"settings"`
	Version   int                  `json:"version"`
	Source    string               `json:"source"`
	UpdatedBy string               `json:"updatedBy,omitempty"`
	UpdatedAt *time.Time           `json:"updatedAt,omitempty"`
}

// HistoryEntry is one saved revision of the settings document
type HistoryEntry struct {
	Version   int                   `json:"version"`
	Document  fare.SettingsDocument `json:"document"`
	UpdatedBy string                `json:"updatedBy,omitempty"`
	CreatedAt time.Time             `json:"createdAt"`
}
