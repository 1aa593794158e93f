package orderbookv1

import "time"

// Clock supplies the timestamps the book stamps onto orders and execution
// reports. Injecting it keeps report timestamps deterministic in tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// NewRealClock returns a Clock backed by the wall clock, in UTC.
func NewRealClock() Clock {
	return realClock{}
}
