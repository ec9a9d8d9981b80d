package quote

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/richxcame/limo-booking/internal/fare"
	"github.com/richxcame/limo-booking/pkg/cache"
	redisclient "github.com/richxcame/limo-booking/pkg/redis"
	"github.com/richxcame/limo-booking/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStore_SaveAndGet(t *testing.T) {
	redisMock := new(mocks.MockRedisClient)
	store := NewStore(cache.NewManager(redisMock))

	q := &Quote{
		ID:        uuid.New(),
		Inputs:    fare.BookingInputs{DistanceMeters: 1000, PickupTime: time.Date(2026, 1, 2, 22, 15, 0, 0, time.FixedZone("EST", -5*3600))},
		Breakdown: fare.PriceBreakdown{BasePrice: 250, Subtotal: 299, Total: 299},
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		ExpiresAt: time.Date(2026, 1, 1, 0, 30, 0, 0, time.UTC),
	}
	payload, err := json.Marshal(q)
	require.NoError(t, err)

	key := cache.Keys.Quote(q.ID.String())
	redisMock.On("SetWithExpiration", mock.Anything, key, string(payload), 30*time.Minute).Return(nil)
	redisMock.On("GetString", mock.Anything, key).Return(string(payload), nil)

	require.NoError(t, store.Save(context.Background(), q, 30*time.Minute))

	got, err := store.Get(context.Background(), q.ID)
	require.NoError(t, err)
	assert.Equal(t, q.ID, got.ID)
	assert.Equal(t, 299.0, got.Breakdown.Total)
	assert.Equal(t, 22, got.Inputs.PickupTime.Hour(), "pickup keeps its wall clock")
	redisMock.AssertExpectations(t)
}

func TestStore_GetMissing(t *testing.T) {
	redisMock := new(mocks.MockRedisClient)
	store := NewStore(cache.NewManager(redisMock))

	id := uuid.New()
	redisMock.On("GetString", mock.Anything, cache.Keys.Quote(id.String())).Return("", redisclient.Nil)

	_, err := store.Get(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_GetRedisError(t *testing.T) {
	redisMock := new(mocks.MockRedisClient)
	store := NewStore(cache.NewManager(redisMock))

	id := uuid.New()
	redisMock.On("GetString", mock.Anything, cache.Keys.Quote(id.String())).Return("", errors.New("i/o timeout"))

	_, err := store.Get(context.Background(), id)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestStore_SaveRejectsNonPositiveTTL(t *testing.T) {
	store := NewStore(cache.NewManager(new(mocks.MockRedisClient)))
	assert.Error(t, store.Save(context.Background(), &Quote{ID: uuid.New()}, 0))
}

func TestStore_MarkConfirmed(t *testing.T) {
	id := uuid.New()
	key := cache.Keys.QuoteConfirmation(id.String())

	tests := []struct {
		name    string
		claimed bool
		err     error
	}{
		{name: "first confirmation claims the quote", claimed: true},
		{name: "already claimed", claimed: false},
		{name: "redis failure", err: errors.New("connection refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			redisMock := new(mocks.MockRedisClient)
			store := NewStore(cache.NewManager(redisMock))
			redisMock.On("SetIfAbsent", mock.Anything, key, "1", 20*time.Minute).Return(tt.claimed, tt.err)

			claimed, err := store.MarkConfirmed(context.Background(), id, 20*time.Minute)
			if tt.err != nil {
				require.Error(t, err)
				assert.False(t, claimed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.claimed, claimed)
			redisMock.AssertExpectations(t)
		})
	}

	t.Run("non-positive ttl", func(t *testing.T) {
		store := NewStore(cache.NewManager(new(mocks.MockRedisClient)))
		_, err := store.MarkConfirmed(context.Background(), id, 0)
		assert.Error(t, err)
	})
}
