package indicator

import "math"

// RSI calculates the Relative Strength Index over bar-to-bar closes.
// Deltas are split into gain and loss magnitudes, each smoothed with the
// center-of-mass exponential form (com = period-1), and combined as
// 100 - 100/(1+RS). Outputs are bounded in [0,100].
//
// When the smoothed loss is exactly zero with positive gain the output is
// pinned to 100; the symmetric case is pinned to 0. Both averages zero
// (a flat series) yields a missing value.
func RSI(data []float64, period int) Series {
	out := Missing(len(data))
	if len(data) < 2 || period < 1 {
		return out
	}

	gains := Missing(len(data))
	losses := Missing(len(data))

	for i := 1; i < len(data); i++ {
		if math.IsNaN(data[i]) || math.IsNaN(data[i-1]) {
			continue
		}

		delta := data[i] - data[i-1]
		if delta > 0 {
			gains[i] = delta
			losses[i] = 0
		} else {
			gains[i] = 0
			losses[i] = -delta
		}
	}

	avgGain := EMACom(gains, float64(period-1))
	avgLoss := EMACom(losses, float64(period-1))

	for i := 1; i < len(data); i++ {
		if avgGain.IsMissing(i) || avgLoss.IsMissing(i) {
			continue
		}

		gain, loss := avgGain[i], avgLoss[i]

		switch {
		case loss == 0 && gain > 0:
			out[i] = 100
		case gain == 0 && loss > 0:
			out[i] = 0
		case gain == 0 && loss == 0:
			// flat series, relative strength is undefined
		default:
			rs := gain / loss
			out[i] = 100 - (100 / (1 + rs))
		}
	}

	return out
}
