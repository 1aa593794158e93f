package engine

import (
	"context"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	marketdatav1 "github.com/yunhanbi/finm250-quant-2025/internal/domain/marketdata/v1"
	orderreaderv1 "github.com/yunhanbi/finm250-quant-2025/internal/domain/orderreader/v1"
	orderreadermock "github.com/yunhanbi/finm250-quant-2025/internal/domain/orderreader/v1/mock"
	quotecachemock "github.com/yunhanbi/finm250-quant-2025/internal/domain/quotecache/v1/mock"
	reportpublisherv1 "github.com/yunhanbi/finm250-quant-2025/internal/domain/reportpublisher/v1"
	reportpublishermock "github.com/yunhanbi/finm250-quant-2025/internal/domain/reportpublisher/v1/mock"
	"github.com/yunhanbi/finm250-quant-2025/internal/infrastructure/questdb/fill"
	fillmock "github.com/yunhanbi/finm250-quant-2025/internal/infrastructure/questdb/fill/mock"
	"github.com/yunhanbi/finm250-quant-2025/internal/usecase/oms"
	"github.com/yunhanbi/finm250-quant-2025/internal/usecase/orderbook"
	"github.com/yunhanbi/finm250-quant-2025/pkg/logger"
)

// Test fixtures and helpers
type testFixture struct {
	ctrl            *gomock.Controller
	mockOrderReader *orderreadermock.MockOrderReader
	mockPublisher   *reportpublishermock.MockReportPublisher
	mockQuotes      *quotecachemock.MockCache
	mockFills       *fillmock.MockFillRepository
	book            *orderbook.Book
	manager         *oms.Usecase
	logger          *logger.Logger
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	log, err := logger.NewLogger()
	require.NoError(t, err)

	book := orderbook.NewBook("AAPL", nil)

	return &testFixture{
		ctrl:            ctrl,
		mockOrderReader: orderreadermock.NewMockOrderReader(ctrl),
		mockPublisher:   reportpublishermock.NewMockReportPublisher(ctrl),
		mockQuotes:      quotecachemock.NewMockCache(ctrl),
		mockFills:       fillmock.NewMockFillRepository(ctrl),
		book:            book,
		manager:         oms.NewUsecase(book, nil, nil, log),
		logger:          log,
	}
}

// createTestEngine builds an engine with an initialized context so
// processOrder can run outside Start.
func createTestEngine(f *testFixture) *Engine {
	engine := NewEngine(
		f.book,
		f.manager,
		f.mockOrderReader,
		f.mockPublisher,
		f.mockQuotes,
		f.mockFills,
		nil,
		f.logger,
	)
	engine.ctx = context.Background()
	return engine
}

func placePayload(id string, side string, orderType string, quantity int64, price float64) *orderreaderv1.OrderPayload {
	return &orderreaderv1.OrderPayload{
		ID:       id,
		Symbol:   "AAPL",
		Side:     side,
		Type:     orderType,
		Quantity: quantity,
		Price:    price,
	}
}

func TestNewEngine(t *testing.T) {
	fixture := setupTestFixture(t)
	defer fixture.ctrl.Finish()

	engine := createTestEngine(fixture)

	assert.NotNil(t, engine)
	assert.Equal(t, "AAPL", engine.symbol)
	assert.Equal(t, int64(-1), engine.GetOrderOffset())
	assert.Equal(t, DefaultEngineOptions().QuoteInterval, engine.quoteInterval)
	assert.Equal(t, int64(0), engine.GetTotalFills())
}

func TestNewEngineWithOptions(t *testing.T) {
	fixture := setupTestFixture(t)
	defer fixture.ctrl.Finish()

	engine := NewEngineWithOptions(
		fixture.book,
		fixture.manager,
		fixture.mockOrderReader,
		fixture.mockPublisher,
		fixture.mockQuotes,
		fixture.mockFills,
		nil,
		fixture.logger,
		&Options{QuoteInterval: time.Second},
	)

	assert.Equal(t, time.Second, engine.quoteInterval)
}

func TestEngine_ProcessOrder(t *testing.T) {
	t.Run("resting limit order refreshes the quote", func(t *testing.T) {
		fixture := setupTestFixture(t)
		defer fixture.ctrl.Finish()
		engine := createTestEngine(fixture)

		fixture.mockQuotes.EXPECT().
			Store(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, quote *marketdatav1.Quote) error {
				assert.Equal(t, "AAPL", quote.Symbol)
				assert.Equal(t, 100.0, quote.BidPrice)
				assert.Equal(t, int64(50), quote.BidQty)
				assert.Zero(t, quote.AskQty)
				return nil
			}).
			Times(1)

		err := engine.processOrder(placePayload("B1", "buy", "limit", 50, 100))
		require.NoError(t, err)
		assert.Equal(t, int64(0), engine.GetTotalFills())
	})

	t.Run("crossing order publishes reports and stores fills", func(t *testing.T) {
		fixture := setupTestFixture(t)
		defer fixture.ctrl.Finish()
		engine := createTestEngine(fixture)

		// First submit rests, second crosses it.
		fixture.mockQuotes.EXPECT().
			Store(gomock.Any(), gomock.Any()).
			Return(nil).
			Times(2)

		fixture.mockPublisher.EXPECT().
			PublishReports(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, batch *reportpublisherv1.ReportBatch) error {
				assert.Equal(t, "AAPL", batch.Symbol)
				require.Len(t, batch.Reports, 2)
				assert.Equal(t, "S1", batch.Reports[0].OrderID)
				assert.Equal(t, "B1", batch.Reports[1].OrderID)
				return nil
			}).
			Times(1)

		fixture.mockFills.EXPECT().
			StoreBatch(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, rows []*fill.Fill) error {
				require.Len(t, rows, 2)
				assert.Equal(t, "S1", rows[0].OrderID)
				assert.Equal(t, 100.0, rows[0].Price)
				return nil
			}).
			Times(1)

		require.NoError(t, engine.processOrder(placePayload("B1", "buy", "limit", 50, 100)))
		require.NoError(t, engine.processOrder(placePayload("S1", "sell", "limit", 50, 100)))

		assert.Equal(t, int64(2), engine.GetTotalFills())
	})

	t.Run("cancel action pulls the resting order", func(t *testing.T) {
		fixture := setupTestFixture(t)
		defer fixture.ctrl.Finish()
		engine := createTestEngine(fixture)

		fixture.mockQuotes.EXPECT().
			Store(gomock.Any(), gomock.Any()).
			Return(nil).
			Times(2)

		require.NoError(t, engine.processOrder(placePayload("B1", "buy", "limit", 50, 100)))

		err := engine.processOrder(&orderreaderv1.OrderPayload{
			Action: orderreaderv1.ActionCancel,
			ID:     "B1",
		})
		require.NoError(t, err)

		_, ok := fixture.book.BestBid()
		assert.False(t, ok)
	})

	t.Run("amend action updates quantity", func(t *testing.T) {
		fixture := setupTestFixture(t)
		defer fixture.ctrl.Finish()
		engine := createTestEngine(fixture)

		fixture.mockQuotes.EXPECT().
			Store(gomock.Any(), gomock.Any()).
			Return(nil).
			Times(2)

		require.NoError(t, engine.processOrder(placePayload("B1", "buy", "limit", 50, 100)))

		err := engine.processOrder(&orderreaderv1.OrderPayload{
			Action:   orderreaderv1.ActionAmend,
			ID:       "B1",
			Quantity: 30,
		})
		require.NoError(t, err)

		best, ok := fixture.book.BestBid()
		require.True(t, ok)
		assert.Equal(t, int64(30), best.Quantity)
	})

	t.Run("rejects payloads for another instrument", func(t *testing.T) {
		fixture := setupTestFixture(t)
		defer fixture.ctrl.Finish()
		engine := createTestEngine(fixture)

		payload := placePayload("B1", "buy", "limit", 50, 100)
		payload.Symbol = "MSFT"

		err := engine.processOrder(payload)
		assert.Error(t, err)
	})

	t.Run("invalid order surfaces the validation error", func(t *testing.T) {
		fixture := setupTestFixture(t)
		defer fixture.ctrl.Finish()
		engine := createTestEngine(fixture)

		err := engine.processOrder(placePayload("B1", "hold", "limit", 50, 100))
		assert.Error(t, err)
	})
}

func TestEngine_StartStop(t *testing.T) {
	fixture := setupTestFixture(t)
	defer fixture.ctrl.Finish()

	engine := NewEngineWithOptions(
		fixture.book,
		fixture.manager,
		fixture.mockOrderReader,
		fixture.mockPublisher,
		fixture.mockQuotes,
		fixture.mockFills,
		nil,
		fixture.logger,
		&Options{QuoteInterval: 10 * time.Millisecond},
	)

	fixture.mockOrderReader.EXPECT().
		SetOffset(int64(-1)).
		Return(nil).
		Times(1)

	fixture.mockOrderReader.EXPECT().
		ReadMessage(gomock.Any()).
		DoAndReturn(func(ctx context.Context) (kafka.Message, *orderreaderv1.OrderPayload, error) {
			<-ctx.Done()
			return kafka.Message{}, nil, ctx.Err()
		}).
		AnyTimes()

	fixture.mockOrderReader.EXPECT().
		Close().
		Return(nil).
		Times(1)

	fixture.mockQuotes.EXPECT().
		Store(gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	require.NoError(t, engine.Start(context.Background()))

	// Let the quote refresher tick at least once.
	time.Sleep(50 * time.Millisecond)

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	assert.NoError(t, engine.Stop(stopCtx))
}

func TestEngine_StartStop_ReadBackoff(t *testing.T) {
	fixture := setupTestFixture(t)
	defer fixture.ctrl.Finish()

	engine := NewEngineWithOptions(
		fixture.book,
		fixture.manager,
		fixture.mockOrderReader,
		fixture.mockPublisher,
		fixture.mockQuotes,
		fixture.mockFills,
		nil,
		fixture.logger,
		&Options{QuoteInterval: time.Minute},
	)

	fixture.mockOrderReader.EXPECT().
		SetOffset(int64(-1)).
		Return(nil).
		Times(1)

	// A reader that keeps failing must not wedge shutdown.
	fixture.mockOrderReader.EXPECT().
		ReadMessage(gomock.Any()).
		Return(kafka.Message{}, nil, assert.AnError).
		AnyTimes()

	fixture.mockOrderReader.EXPECT().
		Close().
		Return(nil).
		Times(1)

	require.NoError(t, engine.Start(context.Background()))

	time.Sleep(250 * time.Millisecond)

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	assert.NoError(t, engine.Stop(stopCtx))
}
