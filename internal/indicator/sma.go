package indicator

import "math"

// SMA calculates a simple moving average over a trailing window.
// The first period-1 outputs are missing; a window containing a missing
// input produces a missing output. Windows never look ahead.
func SMA(data []float64, period int) Series {
	out := Missing(len(data))
	if period < 1 || len(data) < period {
		return out
	}

	for i := period - 1; i < len(data); i++ {
		sum := 0.0
		valid := true

		for j := i - period + 1; j <= i; j++ {
			if math.IsNaN(data[j]) {
				valid = false
				break
			}

			sum += data[j]
		}

		if valid {
			out[i] = sum / float64(period)
		}
	}

	return out
}

// RollingStd calculates the rolling population standard deviation
// (divide-by-N) over the same trailing window shape as SMA.
func RollingStd(data []float64, period int) Series {
	out := Missing(len(data))
	if period < 1 || len(data) < period {
		return out
	}

	for i := period - 1; i < len(data); i++ {
		sum := 0.0
		valid := true

		for j := i - period + 1; j <= i; j++ {
			if math.IsNaN(data[j]) {
				valid = false
				break
			}

			sum += data[j]
		}

		if !valid {
			continue
		}

		mean := sum / float64(period)
		variance := 0.0

		for j := i - period + 1; j <= i; j++ {
			d := data[j] - mean
			variance += d * d
		}

		out[i] = math.Sqrt(variance / float64(period))
	}

	return out
}
