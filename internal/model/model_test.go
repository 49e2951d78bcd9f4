package model

import (
	"time"

	"github.com/marketlens/marketlens/internal/indicator"
	"github.com/marketlens/marketlens/internal/types"
)

// dailySeries builds a daily series from explicit closes, with highs and
// lows bracketing each close and constant volume.
func dailySeries(closes ...float64) *types.PriceSeries {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]types.Bar, len(closes))

	for i, c := range closes {
		bars[i] = types.Bar{
			Time:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}

	return &types.PriceSeries{Symbol: "TEST", Granularity: types.GranularityDaily, Bars: bars}
}

// trendingSeries builds n monotonically rising closes starting at base.
func trendingSeries(n int, base, step float64) *types.PriceSeries {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = base + float64(i)*step
	}

	return dailySeries(closes...)
}

// padded front-fills a series with missing values so its tail holds the
// given values and its total length is n.
func padded(n int, tail ...float64) indicator.Series {
	out := indicator.Missing(n)
	copy(out[n-len(tail):], tail)

	return out
}

// computedSet runs the default indicator battery over a series.
func computedSet(series *types.PriceSeries) *indicator.Set {
	engine := indicator.NewEngine(indicator.Config{}, nil)
	set, err := engine.Compute(series, indicator.DefaultRequests())
	if err != nil {
		panic(err)
	}

	return set
}
