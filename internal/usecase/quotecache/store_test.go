package quotecache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	marketdatav1 "github.com/yunhanbi/finm250-quant-2025/internal/domain/marketdata/v1"
	"github.com/yunhanbi/finm250-quant-2025/pkg/logger"
	redis_mock "github.com/yunhanbi/finm250-quant-2025/pkg/redis/mock"
)

func newTestStore(t *testing.T) (*Store, *redis_mock.MockClient) {
	t.Helper()

	ctrl := gomock.NewController(t)
	redisClient := redis_mock.NewMockClient(ctrl)

	log, err := logger.NewLogger()
	require.NoError(t, err)

	return NewStore(redisClient, "AAPL", log), redisClient
}

func testQuote() *marketdatav1.Quote {
	return &marketdatav1.Quote{
		Symbol:    "AAPL",
		BidPrice:  99.5,
		BidQty:    200,
		AskPrice:  100.5,
		AskQty:    150,
		Timestamp: time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC),
	}
}

func TestStore_Store(t *testing.T) {
	t.Run("stores marshaled quote under symbol key", func(t *testing.T) {
		store, redisClient := newTestStore(t)
		quote := testQuote()

		redisClient.EXPECT().
			Set(gomock.Any(), "quote:AAPL", gomock.Any(), time.Duration(0)).
			DoAndReturn(func(_ context.Context, _ string, value any, _ time.Duration) error {
				var got marketdatav1.Quote
				require.NoError(t, json.Unmarshal(value.([]byte), &got))
				assert.Equal(t, *quote, got)
				return nil
			}).
			Times(1)

		err := store.Store(context.Background(), quote)
		assert.NoError(t, err)
	})

	t.Run("propagates redis errors", func(t *testing.T) {
		store, redisClient := newTestStore(t)

		redisClient.EXPECT().
			Set(gomock.Any(), "quote:AAPL", gomock.Any(), time.Duration(0)).
			Return(assert.AnError).
			Times(1)

		err := store.Store(context.Background(), testQuote())
		assert.Error(t, err)
	})
}

func TestStore_Load(t *testing.T) {
	t.Run("round trips a stored quote", func(t *testing.T) {
		store, redisClient := newTestStore(t)
		quote := testQuote()

		buf, err := json.Marshal(quote)
		require.NoError(t, err)

		redisClient.EXPECT().
			Get(gomock.Any(), "quote:AAPL").
			Return(string(buf), nil).
			Times(1)

		got, err := store.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, quote, got)
	})

	t.Run("returns nil when nothing cached", func(t *testing.T) {
		store, redisClient := newTestStore(t)

		redisClient.EXPECT().
			Get(gomock.Any(), "quote:AAPL").
			Return("", nil).
			Times(1)

		got, err := store.Load(context.Background())
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("treats a missing key as no quote", func(t *testing.T) {
		store, redisClient := newTestStore(t)

		redisClient.EXPECT().
			Get(gomock.Any(), "quote:AAPL").
			Return("", goredis.Nil).
			Times(1)

		got, err := store.Load(context.Background())
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("propagates redis errors", func(t *testing.T) {
		store, redisClient := newTestStore(t)

		redisClient.EXPECT().
			Get(gomock.Any(), "quote:AAPL").
			Return("", assert.AnError).
			Times(1)

		got, err := store.Load(context.Background())
		assert.Error(t, err)
		assert.Nil(t, got)
	})

	t.Run("rejects corrupt payloads", func(t *testing.T) {
		store, redisClient := newTestStore(t)

		redisClient.EXPECT().
			Get(gomock.Any(), "quote:AAPL").
			Return("{not json", nil).
			Times(1)

		got, err := store.Load(context.Background())
		assert.Error(t, err)
		assert.Nil(t, got)
	})
}
