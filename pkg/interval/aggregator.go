package interval

import (
	"time"
)

// TickData represents basic tick information for aggregation
type TickData struct {
	Timestamp time.Time
	Price     float64
	Volume    int64
}

// OHLCData represents aggregated OHLC data
type OHLCData struct {
	Timestamp  time.Time
	Open       float64
	High       float64
	Low        float64
	Close      float64
	Volume     int64
	TradeCount int64
}

// AggregateOHLC aggregates tick data into OHLC for a specific interval.
// Ticks are expected to be sorted by timestamp so open/close land correctly.
func (i Interval) AggregateOHLC(ticks []TickData, bucketTime time.Time) OHLCData {
	if len(ticks) == 0 {
		return OHLCData{Timestamp: bucketTime}
	}

	ohlc := OHLCData{
		Timestamp:  bucketTime,
		Open:       ticks[0].Price,
		High:       ticks[0].Price,
		Low:        ticks[0].Price,
		Close:      ticks[len(ticks)-1].Price,
		Volume:     0,
		TradeCount: int64(len(ticks)),
	}

	for _, tick := range ticks {
		if tick.Price > ohlc.High {
			ohlc.High = tick.Price
		}
		if tick.Price < ohlc.Low {
			ohlc.Low = tick.Price
		}
		ohlc.Volume += tick.Volume
	}

	return ohlc
}

// ShouldAggregate reports whether the clock has moved into a new bucket
// since the last aggregation.
func (i Interval) ShouldAggregate(lastAggregation, currentTime time.Time) bool {
	lastBucket := i.CalculateBucketTime(lastAggregation)
	currentBucket := i.CalculateBucketTime(currentTime)

	return !lastBucket.Equal(currentBucket)
}
