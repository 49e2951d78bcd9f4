package indicator

import "math"

// ATR calculates the Average True Range: the center-of-mass exponential
// smoothing (com = period-1) of the per-bar true range
// max(high-low, |high-prevClose|, |low-prevClose|). The first bar's true
// range falls back to high-low since no previous close exists.
func ATR(highs, lows, closes []float64, period int) Series {
	n := len(closes)
	tr := Missing(n)

	for i := 0; i < n; i++ {
		if math.IsNaN(highs[i]) || math.IsNaN(lows[i]) {
			continue
		}

		rangeHL := highs[i] - lows[i]
		if i == 0 || math.IsNaN(closes[i-1]) {
			tr[i] = rangeHL
			continue
		}

		prevClose := closes[i-1]
		tr[i] = math.Max(rangeHL, math.Max(math.Abs(highs[i]-prevClose), math.Abs(lows[i]-prevClose)))
	}

	return EMACom(tr, float64(period-1))
}
