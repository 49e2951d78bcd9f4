package types

import (
	"math"
	"time"

	"github.com/marketlens/marketlens/pkg/errors"
)

// Granularity is the calendar spacing of the bars in a price series.
type Granularity string

const (
	GranularityDaily  Granularity = "daily"
	GranularityWeekly Granularity = "weekly"
)

// Bar represents a single OHLCV bar. Missing price fields are NaN;
// a missing volume is stored as 0.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries is an ordered, read-only sequence of bars for one symbol.
// Timestamps are strictly increasing; callers own the slice and must not
// mutate it after handing it to the analysis pipeline.
type PriceSeries struct {
	Symbol      string
	Granularity Granularity
	Bars        []Bar
	// Note carries provenance annotations, e.g. a weekly-fallback notice
	// from the data source.
	Note string
}

// Len returns the number of bars in the series.
func (s *PriceSeries) Len() int {
	return len(s.Bars)
}

// Validate checks the series invariants: non-empty bars with strictly
// increasing timestamps and no duplicates.
func (s *PriceSeries) Validate() error {
	if len(s.Bars) == 0 {
		return errors.Newf(errors.ErrCodeEmptySeries, "price series for %s is empty", s.Symbol)
	}

	for i := 1; i < len(s.Bars); i++ {
		if !s.Bars[i].Time.After(s.Bars[i-1].Time) {
			return errors.Newf(errors.ErrCodeSeriesOrdering,
				"price series for %s is not strictly increasing at index %d (%s then %s)",
				s.Symbol, i, s.Bars[i-1].Time.Format(time.RFC3339), s.Bars[i].Time.Format(time.RFC3339))
		}
	}

	return nil
}

// Closes returns the close column as a new slice aligned with the bars.
func (s *PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}

	return out
}

// Highs returns the high column as a new slice aligned with the bars.
func (s *PriceSeries) Highs() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.High
	}

	return out
}

// Lows returns the low column as a new slice aligned with the bars.
func (s *PriceSeries) Lows() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Low
	}

	return out
}

// Volumes returns the volume column as a new slice aligned with the bars.
func (s *PriceSeries) Volumes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		if math.IsNaN(b.Volume) {
			out[i] = 0
			continue
		}

		out[i] = b.Volume
	}

	return out
}

// LatestClose returns the close of the last bar, or NaN for an empty series.
func (s *PriceSeries) LatestClose() float64 {
	if len(s.Bars) == 0 {
		return math.NaN()
	}

	return s.Bars[len(s.Bars)-1].Close
}

// Timestamps returns the bar timestamps as a new slice.
func (s *PriceSeries) Timestamps() []time.Time {
	out := make([]time.Time, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Time
	}

	return out
}

// DetectGranularity infers the bar spacing from average timestamp gaps.
// Gaps above one day are treated as weekly.
func (s *PriceSeries) DetectGranularity() Granularity {
	if len(s.Bars) < 2 {
		return GranularityDaily
	}

	var total time.Duration
	for i := 1; i < len(s.Bars); i++ {
		total += s.Bars[i].Time.Sub(s.Bars[i-1].Time)
	}

	avg := total / time.Duration(len(s.Bars)-1)
	if avg > 24*time.Hour {
		return GranularityWeekly
	}

	return GranularityDaily
}
