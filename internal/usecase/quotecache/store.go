package quotecache

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	marketdatav1 "github.com/yunhanbi/finm250-quant-2025/internal/domain/marketdata/v1"
	quotecachev1 "github.com/yunhanbi/finm250-quant-2025/internal/domain/quotecache/v1"
	"github.com/yunhanbi/finm250-quant-2025/pkg/errors"
	"github.com/yunhanbi/finm250-quant-2025/pkg/logger"
	"github.com/yunhanbi/finm250-quant-2025/pkg/redis"
)

// Store keeps the latest top-of-book quote for one instrument in Redis. It
// is derived data; losing it costs nothing, the next submit rewrites it.
type Store struct {
	symbol      string
	logger      logger.Interface
	redisclient redis.Client
}

var _ quotecachev1.Cache = (*Store)(nil)

// NewStore creates a new quote cache for the given instrument backed by the
// given Redis client.
func NewStore(redisclient redis.Client, symbol string, logger logger.Interface) *Store {
	return &Store{
		symbol:      symbol,
		redisclient: redisclient,
		logger:      logger,
	}
}

func (s *Store) key() string {
	return "quote:" + s.symbol
}

// Store stores the quote in Redis.
func (s *Store) Store(ctx context.Context, quote *marketdatav1.Quote) error {
	buf, err := json.Marshal(quote)
	if err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "symbol",
			Value: s.symbol,
		}, logger.Field{
			Key:   "quote",
			Value: quote,
		})
		return errors.NewTracer("quote_marshal_error").Wrap(err)
	}

	if err := s.redisclient.Set(ctx, s.key(), buf, 0); err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "symbol",
			Value: s.symbol,
		}, logger.Field{
			Key:   "action",
			Value: "store quote",
		})
		return errors.NewTracer("quote_store_error").Wrap(err)
	}

	return nil
}

// Load loads the last stored quote from Redis.
func (s *Store) Load(ctx context.Context) (*marketdatav1.Quote, error) {
	data, err := s.redisclient.Get(ctx, s.key())
	if err != nil {
		if stderrors.Is(err, goredis.Nil) {
			s.logger.WarnContext(ctx, fmt.Sprintf("no quote cached for %s", s.symbol), logger.Field{
				Key:   "symbol",
				Value: s.symbol,
			})
			return nil, nil
		}
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "symbol",
			Value: s.symbol,
		}, logger.Field{
			Key:   "action",
			Value: "load quote",
		})
		return nil, errors.NewTracer("quote_load_error").Wrap(err)
	}

	if data == "" {
		s.logger.WarnContext(ctx, fmt.Sprintf("no quote cached for %s", s.symbol), logger.Field{
			Key:   "symbol",
			Value: s.symbol,
		})
		return nil, nil
	}

	var quote marketdatav1.Quote
	if err := json.Unmarshal([]byte(data), &quote); err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "symbol",
			Value: s.symbol,
		}, logger.Field{
			Key:   "action",
			Value: "unmarshal quote",
		})
		return nil, errors.NewTracer("quote_unmarshal_error").Wrap(err)
	}

	return &quote, nil
}
