package indicator

import (
	"math"

	"github.com/marketlens/marketlens/internal/types"
)

// LookupState tags the outcome of fetching a series from a Set, so callers
// branch on an explicit state instead of catching a generic missing-key
// error.
type LookupState int

const (
	// LookupFound means the series exists and has at least one valid value.
	LookupFound LookupState = iota
	// LookupNotComputed means the indicator was never computed for this set.
	LookupNotComputed
	// LookupEmpty means the indicator was computed but every value is missing.
	LookupEmpty
)

// LookupResult is the tagged result of Set.Lookup.
type LookupResult struct {
	State  LookupState
	Series Series
}

// Found reports whether a usable series was returned.
func (r LookupResult) Found() bool {
	return r.State == LookupFound
}

// Set holds the indicator series computed for one analysis run, keyed by
// indicator name. It is built once by the engine and read-only afterwards.
type Set struct {
	series map[types.IndicatorKey]Series
	order  []types.IndicatorKey
}

// NewSet creates an empty indicator set.
func NewSet() *Set {
	return &Set{series: make(map[types.IndicatorKey]Series)}
}

// Add stores a series under the given key, preserving insertion order.
// Adding an existing key replaces its series.
func (s *Set) Add(key types.IndicatorKey, values Series) {
	if _, exists := s.series[key]; !exists {
		s.order = append(s.order, key)
	}

	s.series[key] = values
}

// Lookup fetches a series by name.
func (s *Set) Lookup(key types.IndicatorKey) LookupResult {
	values, exists := s.series[key]
	if !exists {
		return LookupResult{State: LookupNotComputed}
	}

	if values.ValidCount() == 0 {
		return LookupResult{State: LookupEmpty, Series: values}
	}

	return LookupResult{State: LookupFound, Series: values}
}

// Keys returns the indicator names in insertion order.
func (s *Set) Keys() []types.IndicatorKey {
	out := make([]types.IndicatorKey, len(s.order))
	copy(out, s.order)

	return out
}

// Snapshot returns the latest non-missing value of every computed series.
// Series whose tail is entirely missing are omitted.
func (s *Set) Snapshot() map[types.IndicatorKey]float64 {
	out := make(map[types.IndicatorKey]float64, len(s.series))

	for key, values := range s.series {
		for i := len(values) - 1; i >= 0; i-- {
			if !math.IsNaN(values[i]) {
				out[key] = values[i]
				break
			}
		}
	}

	return out
}
