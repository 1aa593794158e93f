package main

import (
	"context"
	"fmt"
	"time"

	marketdatav1 "github.com/yunhanbi/finm250-quant-2025/internal/domain/marketdata/v1"
	barrepo "github.com/yunhanbi/finm250-quant-2025/internal/infrastructure/questdb/bar"
	"github.com/yunhanbi/finm250-quant-2025/internal/usecase/backtest"
	"github.com/yunhanbi/finm250-quant-2025/internal/usecase/marketdata"
	"github.com/yunhanbi/finm250-quant-2025/internal/usecase/strategy"
	"github.com/yunhanbi/finm250-quant-2025/pkg/config"
	"github.com/yunhanbi/finm250-quant-2025/pkg/logger"
	"github.com/yunhanbi/finm250-quant-2025/pkg/questdb"
)

var cfg *config.BacktestConfig
var log *logger.Logger

func init() {
	cfg = &config.BacktestConfig{}
	config.MustLoad(cfg)

	l, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}

	log = l
}

func main() {
	ctx := context.Background()

	questdbClient, err := questdb.NewClient(ctx, cfg.QuestDB)
	if err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "connect_questdb",
		})
		return
	}
	defer questdbClient.Close()

	history, err := marketdata.NewUsecase(barrepo.NewRepository(questdbClient), cfg.Interval, log)
	if err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "init_market_data",
		})
		return
	}

	bars, err := history.GetHistory(ctx, cfg.Symbol, time.Time{}, time.Time{})
	if err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "load_history",
		}, logger.Field{
			Key:   "symbol",
			Value: cfg.Symbol,
		})
		return
	}

	signals, name, prices, err := generateSignals(ctx, history, bars)
	if err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "generate_signals",
		})
		return
	}

	runner := backtest.NewRunner(cfg.StartingCash, nil, log)

	result, err := runner.Run(ctx, name, signals, prices)
	if err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "run_backtest",
		})
		return
	}

	log.Info("Backtest complete",
		logger.Field{Key: "strategy", Value: result.Strategy},
		logger.Field{Key: "symbol", Value: cfg.Symbol},
		logger.Field{Key: "bars", Value: len(bars)},
		logger.Field{Key: "trades", Value: result.Trades},
		logger.Field{Key: "totalReturn", Value: result.TotalReturn},
		logger.Field{Key: "maxDrawdown", Value: result.MaxDrawdown},
		logger.Field{Key: "finalCash", Value: result.FinalCash},
		logger.Field{Key: "realizedPnL", Value: result.Summary.RealizedPnL},
		logger.Field{Key: "unrealizedPnL", Value: result.Summary.UnrealizedPnL},
	)
}

// generateSignals runs the configured strategy over the loaded history and
// returns the signals plus the closing prices used to mark open positions.
func generateSignals(ctx context.Context, history *marketdata.Usecase, bars []marketdatav1.Bar) ([]strategy.Signal, string, map[string]float64, error) {
	prices := map[string]float64{}
	if len(bars) > 0 {
		prices[cfg.Symbol] = bars[len(bars)-1].Close
	}

	switch cfg.Strategy {
	case "trend_following":
		s := strategy.NewTrendFollowing()
		return s.Signals(bars), s.Name(), prices, nil
	case "mean_reversion":
		s := strategy.NewMeanReversion()
		return s.Signals(bars), s.Name(), prices, nil
	case "pairs":
		if cfg.PairSymbol == "" {
			return nil, "", nil, fmt.Errorf("pairs strategy requires PAIR_SYMBOL")
		}

		hedgeBars, err := history.GetHistory(ctx, cfg.PairSymbol, time.Time{}, time.Time{})
		if err != nil {
			return nil, "", nil, err
		}
		if len(hedgeBars) > 0 {
			prices[cfg.PairSymbol] = hedgeBars[len(hedgeBars)-1].Close
		}

		s := strategy.NewPairs()
		return s.Signals(bars, hedgeBars), s.Name(), prices, nil
	default:
		return nil, "", nil, fmt.Errorf("unknown strategy %q", cfg.Strategy)
	}
}
