package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	marketdatav1 "github.com/yunhanbi/finm250-quant-2025/internal/domain/marketdata/v1"
	omsv1 "github.com/yunhanbi/finm250-quant-2025/internal/domain/oms/v1"
	orderbookv1 "github.com/yunhanbi/finm250-quant-2025/internal/domain/orderbook/v1"
	orderreaderv1 "github.com/yunhanbi/finm250-quant-2025/internal/domain/orderreader/v1"
	quotecachev1 "github.com/yunhanbi/finm250-quant-2025/internal/domain/quotecache/v1"
	reportpublisherv1 "github.com/yunhanbi/finm250-quant-2025/internal/domain/reportpublisher/v1"
	"github.com/yunhanbi/finm250-quant-2025/internal/infrastructure/questdb/fill"
	"github.com/yunhanbi/finm250-quant-2025/pkg/errors"
	"github.com/yunhanbi/finm250-quant-2025/pkg/logger"
)

// Engine is the main engine for one instrument. It drains the order intake
// topic, routes each instruction through the order manager into the book,
// publishes the resulting execution reports, persists fills and keeps the
// derived top-of-book quote cached.
//
// The book and order manager stay synchronous and transport-free; the engine
// is the only place where kafka, redis and questdb meet the core.
type Engine struct {
	// Core components
	book        orderbookv1.Book
	manager     omsv1.OrderManager
	orderReader orderreaderv1.OrderReader
	publisher   reportpublisherv1.ReportPublisher
	quotes      quotecachev1.Cache
	fills       fill.FillRepository
	clock       orderbookv1.Clock
	logger      logger.Interface
	symbol      string

	// Simple state management with mutex instead of atomics
	mu          sync.RWMutex
	orderOffset int64

	// Fill statistics
	totalFills int64
	fillsMutex sync.RWMutex

	// Shutdown coordination
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Configuration
	quoteInterval time.Duration
}

// NewEngine creates a new instance of Engine with the provided dependencies.
// The fill repository may be nil; fills are then not persisted.
func NewEngine(
	book orderbookv1.Book,
	manager omsv1.OrderManager,
	orderReader orderreaderv1.OrderReader,
	publisher reportpublisherv1.ReportPublisher,
	quotes quotecachev1.Cache,
	fills fill.FillRepository,
	clock orderbookv1.Clock,
	logger logger.Interface,
) *Engine {
	return NewEngineWithOptions(book, manager, orderReader, publisher, quotes, fills, clock, logger, DefaultEngineOptions())
}

// NewEngineWithOptions creates a new engine with custom options.
func NewEngineWithOptions(
	book orderbookv1.Book,
	manager omsv1.OrderManager,
	orderReader orderreaderv1.OrderReader,
	publisher reportpublisherv1.ReportPublisher,
	quotes quotecachev1.Cache,
	fills fill.FillRepository,
	clock orderbookv1.Clock,
	logger logger.Interface,
	options *Options,
) *Engine {
	if clock == nil {
		clock = orderbookv1.NewRealClock()
	}

	return &Engine{
		book:        book,
		manager:     manager,
		orderReader: orderReader,
		publisher:   publisher,
		quotes:      quotes,
		fills:       fills,
		clock:       clock,
		logger:      logger,
		symbol:      book.Symbol(),

		quoteInterval: options.QuoteInterval,
		orderOffset:   -1,
	}
}

// Start initializes the engine and starts processing routines.
func (e *Engine) Start(ctx context.Context) error {
	e.ctx, e.cancel = context.WithCancel(ctx)

	e.wg.Add(2)
	go e.runOrderProcessor()
	go e.runQuoteRefresher()

	e.logger.Info("Engine started", logger.Field{
		Key:   "symbol",
		Value: e.symbol,
	})

	return nil
}

// Stop gracefully shuts down the engine.
func (e *Engine) Stop(ctx context.Context) error {
	if e.cancel != nil {
		e.cancel()
	}

	// Wait for goroutines to finish with timeout
	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.logger.Info("Engine stopped gracefully")
		return nil
	case <-ctx.Done():
		e.logger.Warn("Engine stop timeout exceeded")
		return ctx.Err()
	}
}

// runOrderProcessor combines order reading and processing in a single goroutine.
func (e *Engine) runOrderProcessor() {
	defer e.wg.Done()

	e.logger.Info("Starting order processor", logger.Field{
		Key:   "symbol",
		Value: e.symbol,
	})

	currentOffset := e.getOrderOffset()
	if currentOffset > 0 {
		currentOffset++
	}

	if err := e.orderReader.SetOffset(currentOffset); err != nil {
		e.logger.Error(err, logger.Field{
			Key:   "action",
			Value: "set_reader_offset",
		})
		return
	}

	for {
		select {
		case <-e.ctx.Done():
			e.logger.Info("Order processor shutting down")
			e.orderReader.Close()
			return
		default:
			msg, payload, err := e.orderReader.ReadMessage(e.ctx)
			if err != nil {
				e.logger.ErrorContext(e.ctx, err, logger.Field{
					Key:   "action",
					Value: "read_order_message",
				})
				// Simple backoff
				time.Sleep(100 * time.Millisecond)
				continue
			}

			if err := e.orderReader.CommitMessages(e.ctx, msg); err != nil {
				e.logger.ErrorContext(e.ctx, err, logger.Field{
					Key:   "action",
					Value: "commit_order_message",
				})
			}

			if err := e.processOrder(payload); err != nil {
				e.logger.ErrorContext(e.ctx, err, logger.Field{
					Key:   "action",
					Value: "process_order",
				})
				continue
			}

			e.setOrderOffset(msg.Offset)
		}
	}
}

// runQuoteRefresher re-derives the top-of-book quote on a fixed interval so
// the cache recovers even when order flow pauses.
func (e *Engine) runQuoteRefresher() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.quoteInterval)
	defer ticker.Stop()

	e.logger.Info("Starting quote refresher")

	for {
		select {
		case <-e.ctx.Done():
			e.logger.Info("Quote refresher shutting down")
			return
		case <-ticker.C:
			e.publishQuote()
		}
	}
}

// processOrder routes a single payload through the order manager.
func (e *Engine) processOrder(payload *orderreaderv1.OrderPayload) error {
	e.logger.Debug("Processing order",
		logger.Field{Key: "orderOffset", Value: payload.Offset},
		logger.Field{Key: "id", Value: payload.ID},
		logger.Field{Key: "action", Value: payload.Action},
	)

	if payload.Symbol != "" && payload.Symbol != e.symbol {
		return errors.NewErrorDetails(
			fmt.Sprintf("payload symbol %s does not match engine symbol %s", payload.Symbol, e.symbol),
			string(errors.GeneralBadRequestError),
			"symbol",
		)
	}

	switch payload.Action {
	case orderreaderv1.ActionCancel:
		if _, err := e.manager.CancelOrder(e.ctx, payload.ID); err != nil {
			return err
		}
	case orderreaderv1.ActionAmend:
		if _, err := e.manager.AmendOrder(e.ctx, payload.ID, payload.Quantity, payload.Price); err != nil {
			return err
		}
	default:
		managed, reports, err := e.manager.NewOrder(e.ctx, omsv1.NewOrderRequest{
			ID:       payload.ID,
			Symbol:   e.symbol,
			Side:     orderbookv1.Side(payload.Side),
			Type:     orderbookv1.OrderType(payload.Type),
			Quantity: payload.Quantity,
			Price:    payload.Price,
		})
		if err != nil {
			return err
		}

		if len(reports) > 0 {
			e.handleReports(managed.ID, reports)
		}
	}

	e.publishQuote()
	return nil
}

// handleReports publishes the reports of one submit and persists them as fills.
func (e *Engine) handleReports(aggressorID string, reports []orderbookv1.ExecutionReport) {
	e.fillsMutex.Lock()
	e.totalFills += int64(len(reports))
	currentTotal := e.totalFills
	e.fillsMutex.Unlock()

	e.logger.Info("Fills executed",
		logger.Field{Key: "aggressorID", Value: aggressorID},
		logger.Field{Key: "reportCount", Value: len(reports)},
		logger.Field{Key: "totalFills", Value: currentTotal},
	)

	if err := e.publisher.PublishReports(e.ctx, &reportpublisherv1.ReportBatch{
		Symbol:  e.symbol,
		Reports: reports,
	}); err != nil {
		e.logger.ErrorContext(e.ctx, err, logger.Field{
			Key:   "action",
			Value: "publish_reports",
		})
	}

	if e.fills == nil {
		return
	}

	rows := make([]*fill.Fill, 0, len(reports))
	for _, report := range reports {
		var row fill.Fill
		row.FromReport(report)
		rows = append(rows, &row)
	}

	if err := e.fills.StoreBatch(e.ctx, rows); err != nil {
		e.logger.ErrorContext(e.ctx, err, logger.Field{
			Key:   "action",
			Value: "store_fills",
		})
	}
}

// publishQuote derives the top-of-book quote from the book and stores it.
func (e *Engine) publishQuote() {
	quote := &marketdatav1.Quote{
		Symbol:    e.symbol,
		Timestamp: e.clock.Now(),
	}

	if best, ok := e.book.BestBid(); ok {
		quote.BidPrice = best.Price
		quote.BidQty = best.Quantity
	}
	if best, ok := e.book.BestAsk(); ok {
		quote.AskPrice = best.Price
		quote.AskQty = best.Quantity
	}

	if err := e.quotes.Store(e.ctx, quote); err != nil {
		e.logger.ErrorContext(e.ctx, err, logger.Field{
			Key:   "action",
			Value: "store_quote",
		})
	}
}

// Thread-safe getters and setters
func (e *Engine) getOrderOffset() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.orderOffset
}

func (e *Engine) setOrderOffset(offset int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.orderOffset = offset
}

// GetOrderOffset returns the offset of the last processed order message.
func (e *Engine) GetOrderOffset() int64 {
	return e.getOrderOffset()
}

// GetTotalFills returns the total number of execution reports handled.
func (e *Engine) GetTotalFills() int64 {
	e.fillsMutex.RLock()
	defer e.fillsMutex.RUnlock()
	return e.totalFills
}
