package indicator

// BollingerResult holds the three band series.
type BollingerResult struct {
	Upper  Series
	Middle Series
	Lower  Series
}

// BollingerBands calculates volatility bands: middle = SMA(period),
// half-width = stdDev multiples of the rolling population standard
// deviation over the same window.
func BollingerBands(data []float64, period int, stdDev float64) BollingerResult {
	middle := SMA(data, period)
	rollingStd := RollingStd(data, period)

	upper := Missing(len(data))
	lower := Missing(len(data))

	for i := range data {
		if middle.IsMissing(i) || rollingStd.IsMissing(i) {
			continue
		}

		upper[i] = middle[i] + rollingStd[i]*stdDev
		lower[i] = middle[i] - rollingStd[i]*stdDev
	}

	return BollingerResult{
		Upper:  upper,
		Middle: middle,
		Lower:  lower,
	}
}
