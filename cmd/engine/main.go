package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	app "github.com/yunhanbi/finm250-quant-2025/internal/app/engine"
	orderrepo "github.com/yunhanbi/finm250-quant-2025/internal/infrastructure/postgresql/order"
	fillrepo "github.com/yunhanbi/finm250-quant-2025/internal/infrastructure/questdb/fill"
	"github.com/yunhanbi/finm250-quant-2025/internal/usecase/oms"
	"github.com/yunhanbi/finm250-quant-2025/internal/usecase/orderbook"
	"github.com/yunhanbi/finm250-quant-2025/internal/usecase/orderreader"
	"github.com/yunhanbi/finm250-quant-2025/internal/usecase/quotecache"
	"github.com/yunhanbi/finm250-quant-2025/internal/usecase/reportpublisher"
	"github.com/yunhanbi/finm250-quant-2025/pkg/config"
	"github.com/yunhanbi/finm250-quant-2025/pkg/logger"
	"github.com/yunhanbi/finm250-quant-2025/pkg/postgresql"
	"github.com/yunhanbi/finm250-quant-2025/pkg/questdb"
	"github.com/yunhanbi/finm250-quant-2025/pkg/redis"
)

var cfg *config.EngineConfig
var log *logger.Logger

func init() {
	cfg = &config.EngineConfig{}
	config.MustLoad(cfg)

	l, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}

	log = l
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	rclient := redis.NewClient(log, &cfg.Redis)
	if err := rclient.Connect(ctx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "connect_redis",
		})
		return
	}

	questdbClient, err := questdb.NewClient(ctx, cfg.QuestDB)
	if err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "connect_questdb",
		})
		return
	}
	defer questdbClient.Close()

	pgClient, err := postgresql.NewClient(ctx, cfg.PostgreSQL)
	if err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "connect_postgresql",
		})
		return
	}
	defer pgClient.Close()

	// Initialize components
	book := orderbook.NewBook(cfg.Symbol, nil)
	manager := oms.NewUsecase(book, nil, orderrepo.NewRepository(pgClient, log), log)
	oReader := orderreader.NewReader(cfg.OrderReader, log)
	publisher := reportpublisher.NewPublisher(cfg.ReportPublisher, log)
	quotes := quotecache.NewStore(rclient, cfg.Symbol, log)
	fills := fillrepo.NewRepository(questdbClient)

	engine := app.NewEngine(
		book,
		manager,
		oReader,
		publisher,
		quotes,
		fills,
		nil,
		log,
	)

	if err := engine.Start(ctx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "start_engine",
		})
		return
	}

	log.Info("Matching engine started successfully", logger.Field{
		Key:   "symbol",
		Value: cfg.Symbol,
	})

	sig := <-sigChan
	log.Info("Received shutdown signal", logger.Field{
		Key:   "signal",
		Value: sig.String(),
	})

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := engine.Stop(shutdownCtx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "stop_engine",
		})
	}

	if err := publisher.Close(); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "close_publisher",
		})
	}

	if err := rclient.Disconnect(shutdownCtx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "disconnect_redis",
		})
	}

	log.Info("Matching engine shutdown complete")
}
