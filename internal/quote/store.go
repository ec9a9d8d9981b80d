package quote

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/richxcame/limo-booking/pkg/cache"
)

// ErrNotFound is returned for unknown or expired quotes
var ErrNotFound = errors.New("quote not found")

// StoreInterface persists issued quotes
type StoreInterface interface {
	Save(ctx context.Context, q *Quote, ttl time.Duration) error
	Get(ctx context.Context, id uuid.UUID) (*Quote, error)
	// MarkConfirmed atomically claims the quote for confirmation. Only the
	// first call for an id returns true.
	MarkConfirmed(ctx context.Context, id uuid.UUID, ttl time.Duration) (bool, error)
}

// Store keeps quotes in Redis under quote:<id>
type Store struct {
	cache *cache.Manager
}

// NewStore creates a new quote store
func NewStore(cacheManager *cache.Manager) *Store {
	return &Store{cache: cacheManager}
}

// Save writes the quote with the given time to live
func (s *Store) Save(ctx context.Context, q *Quote, ttl time.Duration) error {
	if ttl <= 0 {
		return errors.New("quote ttl must be positive")
	}
	return s.cache.Set(ctx, cache.Keys.Quote(q.ID.String()), q, ttl)
}

// Get loads a quote
func (s *Store) Get(ctx context.Context, id uuid.UUID) (*Quote, error) {
	var q Quote
	err := s.cache.Get(ctx, cache.Keys.Quote(id.String()), &q)
	if errors.Is(err, cache.ErrMiss) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// MarkConfirmed claims quote:<id>:confirmed with SET NX
func (s *Store) MarkConfirmed(ctx context.Context, id uuid.UUID, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		return false, errors.New("confirmation ttl must be positive")
	}
	return s.cache.Claim(ctx, cache.Keys.QuoteConfirmation(id.String()), ttl)
}
