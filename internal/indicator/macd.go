package indicator

// MACDResult holds the three MACD component series, all aligned with the
// input. Histogram equals Line minus Signal at every non-missing index.
type MACDResult struct {
	Line      Series
	Signal    Series
	Histogram Series
}

// MACD calculates Moving Average Convergence Divergence: the difference of
// a fast and a slow EMA, a signal EMA of that difference, and the
// histogram between the two.
func MACD(data []float64, fastPeriod, slowPeriod, signalPeriod int) MACDResult {
	fast := EMA(data, fastPeriod)
	slow := EMA(data, slowPeriod)

	line := Missing(len(data))
	for i := range data {
		if fast.IsMissing(i) || slow.IsMissing(i) {
			continue
		}

		line[i] = fast[i] - slow[i]
	}

	signal := EMA(line, signalPeriod)

	histogram := Missing(len(data))
	for i := range data {
		if line.IsMissing(i) || signal.IsMissing(i) {
			continue
		}

		histogram[i] = line[i] - signal[i]
	}

	return MACDResult{
		Line:      line,
		Signal:    signal,
		Histogram: histogram,
	}
}
