package indicator

import "math"

// EMA calculates an exponential moving average using the recursive
// adjust=false form with alpha = 2/(period+1). The first value seeds from
// the first observed input, so an EMA over a constant series equals that
// constant from the very first output.
func EMA(data []float64, period int) Series {
	alpha := 2.0 / float64(period+1)

	return ewm(data, alpha)
}

// EMACom calculates an exponential moving average parameterized by
// center-of-mass: alpha = 1/(1+com). RSI and ATR smoothing use
// com = period-1.
func EMACom(data []float64, com float64) Series {
	alpha := 1.0 / (1.0 + com)

	return ewm(data, alpha)
}

// ewm is the shared recursive smoother. Output is missing until the first
// valid input; a missing input afterwards carries the previous smoothed
// value forward.
func ewm(data []float64, alpha float64) Series {
	out := Missing(len(data))
	seeded := false
	ema := 0.0

	for i, v := range data {
		if math.IsNaN(v) {
			if seeded {
				out[i] = ema
			}

			continue
		}

		if !seeded {
			ema = v
			seeded = true
		} else {
			ema = v*alpha + ema*(1-alpha)
		}

		out[i] = ema
	}

	return out
}
