package model

import (
	"fmt"
	"math"

	"github.com/marketlens/marketlens/internal/indicator"
	"github.com/marketlens/marketlens/internal/types"
)

// RSIMeanReversion trades oversold and overbought readings of the relative
// strength index, confirmed by RSI momentum, the short trend, and
// price/RSI divergence.
type RSIMeanReversion struct {
	period     int
	oversold   float64
	overbought float64
}

func NewRSIMeanReversion(period int, oversold, overbought float64) *RSIMeanReversion {
	return &RSIMeanReversion{period: period, oversold: oversold, overbought: overbought}
}

func (m *RSIMeanReversion) Name() string {
	return fmt.Sprintf("RSI Mean Reversion (%d)", m.period)
}

func (m *RSIMeanReversion) Timeframe() string {
	return "Short to Medium-term (2-8 weeks)"
}

func (m *RSIMeanReversion) MinBars() int {
	return m.period + 1
}

func (m *RSIMeanReversion) Analyze(series *types.PriceSeries, set *indicator.Set) types.Recommendation {
	if series.Len() < m.MinBars() {
		return degraded(m.Name(), m.Timeframe(), fmt.Sprintf(
			"insufficient data points (%d available), need at least %d periods", series.Len(), m.MinBars()))
	}

	rsiLookup := set.Lookup(types.RSIKey(m.period))
	if rsiLookup.State == indicator.LookupNotComputed {
		return degraded(m.Name(), m.Timeframe(), fmt.Sprintf("required indicator missing: RSI_%d was not computed", m.period))
	}

	rsi := rsiLookup.Series
	if rsi.ValidCount() < 2 {
		return degraded(m.Name(), m.Timeframe(), fmt.Sprintf(
			"insufficient calculated RSI values (%d valid points), need at least 2", rsi.ValidCount()))
	}

	smaLookup := set.Lookup(types.SMAKey(20))
	if smaLookup.State == indicator.LookupNotComputed || smaLookup.Series.ValidCount() < 1 {
		return degraded(m.Name(), m.Timeframe(), "required indicator missing: SMA_20 has no calculated values")
	}

	currentRSI, haveRSI := value(rsi.Latest())
	prevRSI, havePrevRSI := value(rsi.Previous())
	if !haveRSI {
		return degraded(m.Name(), m.Timeframe(), "latest RSI value is not available")
	}

	currentPrice := series.LatestClose()
	sma20, haveSMA := value(smaLookup.Series.Latest())

	signal := types.SignalHold
	confidence := 0
	var reasoning []string

	switch {
	case currentRSI < m.oversold:
		signal = types.SignalBuy
		confidence += 40
		reasoning = append(reasoning, fmt.Sprintf("RSI Oversold (%.1f < %.0f)", currentRSI, m.oversold))
		if havePrevRSI && currentRSI > prevRSI {
			confidence += 20
			reasoning = append(reasoning, "RSI showing upward momentum")
		} else {
			reasoning = append(reasoning, "RSI still falling (caution)")
		}
	case currentRSI > m.overbought:
		signal = types.SignalSell
		confidence += 40
		reasoning = append(reasoning, fmt.Sprintf("RSI Overbought (%.1f > %.0f)", currentRSI, m.overbought))
		if havePrevRSI && currentRSI < prevRSI {
			confidence += 20
			reasoning = append(reasoning, "RSI showing downward momentum")
		} else {
			reasoning = append(reasoning, "RSI still rising (caution)")
		}
	case currentRSI >= 40 && currentRSI <= 60:
		confidence += 10
		reasoning = append(reasoning, fmt.Sprintf("RSI Neutral Zone (%.1f)", currentRSI))
	case currentRSI > 60:
		reasoning = append(reasoning, fmt.Sprintf("RSI in bullish territory (%.1f)", currentRSI))
	default:
		reasoning = append(reasoning, fmt.Sprintf("RSI in bearish territory (%.1f)", currentRSI))
	}

	if haveSMA && !math.IsNaN(currentPrice) {
		if currentPrice > sma20 {
			reasoning = append(reasoning, "Price above 20-day SMA (short-term uptrend)")
			if signal == types.SignalBuy {
				confidence += 15
			}
		} else {
			reasoning = append(reasoning, "Price below 20-day SMA (short-term downtrend)")
			if signal == types.SignalSell {
				confidence += 15
			}
		}
	}

	divergence := detectDivergence(series.Closes(), rsi, m.period)
	if divergence.Type != types.DivergenceNone {
		confidence += divergence.Strength
		reasoning = append(reasoning, fmt.Sprintf("%s Divergence detected", divergence.Type))
		// only a strong divergence may flip the signal, and never against
		// an opposite threshold signal
		if divergence.Strength > 15 {
			switch divergence.Type {
			case types.DivergenceBullish:
				if signal != types.SignalSell {
					signal = types.SignalBuy
				}
			case types.DivergenceBearish:
				if signal != types.SignalBuy {
					signal = types.SignalSell
				}
			}
		}
	}

	momentum := "Stable"
	if havePrevRSI {
		switch {
		case currentRSI > prevRSI:
			momentum = "Rising"
		case currentRSI < prevRSI:
			momentum = "Falling"
		}
	}

	payload := types.RSIPayload{
		Current:    currentRSI,
		Level:      rsiLevel(currentRSI),
		Momentum:   momentum,
		Divergence: divergence,
		Oversold:   m.oversold,
		Overbought: m.overbought,
	}

	return types.Recommendation{
		Model:      m.Name(),
		Signal:     signal,
		Confidence: clampConfidence(confidence),
		Reasoning:  reasoning,
		Timeframe:  m.Timeframe(),
		Detail:     payload,
	}
}

func rsiLevel(rsi float64) string {
	switch {
	case rsi < 20:
		return "Extremely Oversold"
	case rsi < 30:
		return "Oversold"
	case rsi < 40:
		return "Weak"
	case rsi < 60:
		return "Neutral"
	case rsi < 70:
		return "Strong"
	case rsi < 80:
		return "Overbought"
	default:
		return "Extremely Overbought"
	}
}

// detectDivergence compares the two most recent swing lows (and highs) of
// price against the RSI readings at the same bars. A lower price low paired
// with a higher RSI low reads as potential bullish divergence; the mirror
// case as potential bearish.
func detectDivergence(closes []float64, rsi indicator.Series, period int) types.Divergence {
	lookback := period
	if lookback < 20 {
		lookback = 20
	}
	if lookback > len(closes) {
		lookback = len(closes)
	}
	if lookback > len(rsi) {
		lookback = len(rsi)
	}

	prices := closes[len(closes)-lookback:]
	values := rsi[len(rsi)-lookback:]

	var idx []int
	for i := range prices {
		if !math.IsNaN(prices[i]) && !values.IsMissing(i) {
			idx = append(idx, i)
		}
	}
	if len(idx) < 5 {
		return types.Divergence{Type: types.DivergenceNone}
	}

	lows := localExtrema(prices, idx, true)
	if len(lows) >= 2 {
		a, b := lows[len(lows)-2], lows[len(lows)-1]
		if prices[b] < prices[a] && values[b] > values[a] {
			return types.Divergence{Type: types.DivergenceBullish, Strength: 15}
		}
	}

	highs := localExtrema(prices, idx, false)
	if len(highs) >= 2 {
		a, b := highs[len(highs)-2], highs[len(highs)-1]
		if prices[b] > prices[a] && values[b] < values[a] {
			return types.Divergence{Type: types.DivergenceBearish, Strength: 15}
		}
	}

	return types.Divergence{Type: types.DivergenceNone}
}

// localExtrema returns the indices among idx whose price is the minimum
// (or maximum) of a centered three-point window over the valid bars.
func localExtrema(prices []float64, idx []int, minima bool) []int {
	var out []int

	for k := 1; k < len(idx)-1; k++ {
		prev, cur, next := prices[idx[k-1]], prices[idx[k]], prices[idx[k+1]]
		if minima {
			if cur <= prev && cur <= next {
				out = append(out, idx[k])
			}
		} else {
			if cur >= prev && cur >= next {
				out = append(out, idx[k])
			}
		}
	}

	return out
}
