package indicator

import (
	"math"

	"github.com/moznion/go-optional"
)

// Series is a numeric series aligned index-for-index with a price series.
// Missing values (warm-up entries, skipped calculations) are NaN.
type Series []float64

// Missing returns a series of the given length with every entry missing.
func Missing(n int) Series {
	s := make(Series, n)
	for i := range s {
		s[i] = math.NaN()
	}

	return s
}

// IsMissing reports whether the value at index i is missing or out of range.
func (s Series) IsMissing(i int) bool {
	return i < 0 || i >= len(s) || math.IsNaN(s[i])
}

// ValidCount returns the number of non-missing entries.
func (s Series) ValidCount() int {
	count := 0

	for _, v := range s {
		if !math.IsNaN(v) {
			count++
		}
	}

	return count
}

// At returns the value at index i, or None when the index is out of range
// or the value is missing.
func (s Series) At(i int) optional.Option[float64] {
	if s.IsMissing(i) {
		return optional.None[float64]()
	}

	return optional.Some(s[i])
}

// Latest returns the last value of the series, or None when it is missing.
func (s Series) Latest() optional.Option[float64] {
	return s.At(len(s) - 1)
}

// Previous returns the second-to-last value, or None when it is missing.
func (s Series) Previous() optional.Option[float64] {
	return s.At(len(s) - 2)
}

// Tail returns the last n entries (or the whole series when shorter).
func (s Series) Tail(n int) Series {
	if len(s) <= n {
		return s
	}

	return s[len(s)-n:]
}

// Mean returns the arithmetic mean of the non-missing entries, or None
// when every entry is missing.
func (s Series) Mean() optional.Option[float64] {
	sum := 0.0
	count := 0

	for _, v := range s {
		if math.IsNaN(v) {
			continue
		}

		sum += v
		count++
	}

	if count == 0 {
		return optional.None[float64]()
	}

	return optional.Some(sum / float64(count))
}
