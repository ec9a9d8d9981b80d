package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/richxcame/limo-booking/internal/fare"
	"github.com/richxcame/limo-booking/pkg/tracing"
)

const tracerName = "settings"

// ErrNotFound is returned when no settings document has been saved yet
var ErrNotFound = errors.New("pricing settings not found")

// Repository handles database operations for pricing settings
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new settings repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// GetSettings loads the single settings row
func (r *Repository) GetSettings(ctx context.Context) (*StoredSettings, error) {
	query := `
		SELECT document, version, COALESCE(updated_by, ''), updated_at
		FROM pricing_settings
		WHERE id = 1
	`

	var (
		raw    []byte
		stored StoredSettings
	)
	err := tracing.TraceDBQuery(ctx, tracerName, "select_settings", query, func(ctx context.Context) error {
		return r.db.QueryRow(ctx, query).Scan(&raw, &stored.Version, &stored.UpdatedBy, &stored.UpdatedAt)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pricing settings: %w", err)
	}

	if err := json.Unmarshal(raw, &stored.Document); err != nil {
		return nil, fmt.Errorf("failed to decode pricing settings: %w", err)
	}

	return &stored, nil
}

// SaveSettings upserts the document, bumps its version and appends a history row
func (r *Repository) SaveSettings(ctx context.Context, doc fare.SettingsDocument, updatedBy string) (*StoredSettings, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode pricing settings: %w", err)
	}

	upsert := `
		INSERT INTO pricing_settings (id, document, version, updated_by, updated_at)
		VALUES (1, $1, 1, NULLIF($2, ''), NOW())
		ON CONFLICT (id) DO UPDATE
		SET document = EXCLUDED.document,
		    version = pricing_settings.version + 1,
		    updated_by = EXCLUDED.updated_by,
		    updated_at = NOW()
		RETURNING version, updated_at
	`
	history := `
		INSERT INTO pricing_settings_history (version, document, updated_by)
		VALUES ($1, $2, NULLIF($3, ''))
	`

	stored := &StoredSettings{Document: doc, UpdatedBy: updatedBy}
	err = tracing.TraceDBQuery(ctx, tracerName, "save_settings", upsert, func(ctx context.Context) error {
		tx, err := r.db.Begin(ctx)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer tx.Rollback(ctx)

		if err := tx.QueryRow(ctx, upsert, raw, updatedBy).Scan(&stored.Version, &stored.UpdatedAt); err != nil {
			return fmt.Errorf("failed to save pricing settings: %w", err)
		}
		if _, err := tx.Exec(ctx, history, stored.Version, raw, updatedBy); err != nil {
			return fmt.Errorf("failed to record settings history: %w", err)
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return stored, nil
}

// ListHistory returns one page of saved revisions, newest first, and the
// total number of revisions
func (r *Repository) ListHistory(ctx context.Context, limit, offset int) ([]HistoryEntry, int64, error) {
	query := `
		SELECT version, document, COALESCE(updated_by, ''), created_at, COUNT(*) OVER()
		FROM pricing_settings_history
		ORDER BY version DESC
		LIMIT $1 OFFSET $2
	`

	var total int64
	entries := make([]HistoryEntry, 0)
	err := tracing.TraceDBQuery(ctx, tracerName, "list_settings_history", query, func(ctx context.Context) error {
		rows, err := r.db.Query(ctx, query, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var (
				entry HistoryEntry
				raw   []byte
			)
			if err := rows.Scan(&entry.Version, &raw, &entry.UpdatedBy, &entry.CreatedAt, &total); err != nil {
				return err
			}
			if err := json.Unmarshal(raw, &entry.Document); err != nil {
				return fmt.Errorf("version %d: %w", entry.Version, err)
			}
			entries = append(entries, entry)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list settings history: %w", err)
	}

	return entries, total, nil
}
