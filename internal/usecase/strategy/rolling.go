package strategy

import "math"

// rollingMean returns the trailing mean over window values ending at each
// index. Indices with fewer than minPeriods values carry NaN.
func rollingMean(values []float64, window, minPeriods int) []float64 {
	out := make([]float64, len(values))
	var sum float64
	for i := range values {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}

		n := min(i+1, window)
		if n < minPeriods {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(n)
	}
	return out
}

// rollingStd returns the trailing sample standard deviation over window
// values ending at each index. Indices with fewer than minPeriods values
// carry NaN; a single value has no sample deviation and carries NaN too.
func rollingStd(values []float64, window, minPeriods int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		start := i - window + 1
		if start < 0 {
			start = 0
		}

		n := i - start + 1
		if n < minPeriods || n < 2 {
			out[i] = math.NaN()
			continue
		}

		var sum float64
		for j := start; j <= i; j++ {
			sum += values[j]
		}
		mean := sum / float64(n)

		var sq float64
		for j := start; j <= i; j++ {
			d := values[j] - mean
			sq += d * d
		}
		out[i] = math.Sqrt(sq / float64(n-1))
	}
	return out
}

// leastSquaresSlope fits y = slope*x + intercept and returns the slope.
// Falls back to 1 when x carries no variance.
func leastSquaresSlope(x, y []float64) float64 {
	n := float64(len(x))
	if n == 0 {
		return 1
	}

	var sumX, sumY float64
	for i := range x {
		sumX += x[i]
		sumY += y[i]
	}
	meanX := sumX / n
	meanY := sumY / n

	var cov, varX float64
	for i := range x {
		cov += (x[i] - meanX) * (y[i] - meanY)
		varX += (x[i] - meanX) * (x[i] - meanX)
	}

	if varX == 0 {
		return 1
	}
	return cov / varX
}
