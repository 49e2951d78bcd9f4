package model

import (
	"fmt"
	"sort"
	"time"

	"github.com/marketlens/marketlens/internal/indicator"
	"github.com/marketlens/marketlens/internal/types"
)

// MACDMomentum trades the MACD line against its signal line and the zero
// axis, weighting histogram expansion and contraction as momentum
// confirmation.
type MACDMomentum struct {
	fastPeriod   int
	slowPeriod   int
	signalPeriod int
}

func NewMACDMomentum(fastPeriod, slowPeriod, signalPeriod int) *MACDMomentum {
	return &MACDMomentum{fastPeriod: fastPeriod, slowPeriod: slowPeriod, signalPeriod: signalPeriod}
}

func (m *MACDMomentum) Name() string {
	return fmt.Sprintf("MACD Momentum (%d/%d/%d)", m.fastPeriod, m.slowPeriod, m.signalPeriod)
}

func (m *MACDMomentum) Timeframe() string {
	return "Medium-term (1-3 months)"
}

func (m *MACDMomentum) MinBars() int {
	return m.slowPeriod + m.signalPeriod - 1
}

func (m *MACDMomentum) Analyze(series *types.PriceSeries, set *indicator.Set) types.Recommendation {
	if series.Len() < m.MinBars() {
		return degraded(m.Name(), m.Timeframe(), fmt.Sprintf(
			"insufficient data points (%d available), need at least %d periods", series.Len(), m.MinBars()))
	}

	lineLookup := set.Lookup(types.KeyMACDLine)
	signalLookup := set.Lookup(types.KeyMACDSignal)
	histLookup := set.Lookup(types.KeyMACDHistogram)

	if lineLookup.State == indicator.LookupNotComputed ||
		signalLookup.State == indicator.LookupNotComputed ||
		histLookup.State == indicator.LookupNotComputed {
		return degraded(m.Name(), m.Timeframe(), "required indicator missing: MACD components were not computed")
	}

	line, signalLine, hist := lineLookup.Series, signalLookup.Series, histLookup.Series
	if line.ValidCount() < 2 || signalLine.ValidCount() < 2 || hist.ValidCount() < 2 {
		return degraded(m.Name(), m.Timeframe(), fmt.Sprintf(
			"insufficient calculated MACD values (line=%d signal=%d hist=%d valid points), need at least 2 each",
			line.ValidCount(), signalLine.ValidCount(), hist.ValidCount()))
	}

	currentLine, haveLine := value(line.Latest())
	currentSignal, haveSignal := value(signalLine.Latest())
	currentHist, haveHist := value(hist.Latest())
	prevLine, havePrevLine := value(line.Previous())
	prevSignal, havePrevSignal := value(signalLine.Previous())
	prevHist, havePrevHist := value(hist.Previous())

	if !haveLine || !haveSignal {
		return degraded(m.Name(), m.Timeframe(), "latest MACD values are not available")
	}

	signal := types.SignalHold
	confidence := 0
	var reasoning []string

	trend := "Bearish"
	if currentLine > currentSignal {
		trend = "Bullish"
		if signal != types.SignalSell {
			signal = types.SignalBuy
		}
		confidence += 25
		reasoning = append(reasoning, "MACD above signal line (bullish)")
	} else {
		signal = types.SignalSell
		confidence += 25
		reasoning = append(reasoning, "MACD below signal line (bearish)")
	}

	momentum := "Neutral"
	if haveHist && havePrevHist {
		switch {
		case currentHist > 0 && currentHist > prevHist:
			momentum = "Strengthening Bullish"
			confidence += 20
			reasoning = append(reasoning, "Histogram growing (bullish momentum strengthening)")
		case currentHist < 0 && currentHist < prevHist:
			momentum = "Strengthening Bearish"
			confidence += 20
			reasoning = append(reasoning, "Histogram shrinking (bearish momentum strengthening)")
		case currentHist > 0 && currentHist < prevHist:
			momentum = "Weakening Bullish"
			confidence -= 10
			reasoning = append(reasoning, "Histogram fading (bullish momentum weakening)")
		case currentHist < 0 && currentHist > prevHist:
			momentum = "Weakening Bearish"
			confidence -= 10
			reasoning = append(reasoning, "Histogram recovering (bearish momentum weakening)")
		}
	}

	position := "Below Zero"
	if currentLine > 0 {
		position = "Above Zero"
	}

	if havePrevLine {
		switch {
		case currentLine > 0 && prevLine <= 0:
			confidence += 30
			reasoning = append(reasoning, "MACD crossed above zero (bullish)")
			if signal == types.SignalHold || signal == types.SignalWait {
				signal = types.SignalBuy
			}
		case currentLine < 0 && prevLine >= 0:
			confidence += 30
			reasoning = append(reasoning, "MACD crossed below zero (bearish)")
			if signal == types.SignalHold || signal == types.SignalWait {
				signal = types.SignalSell
			}
		}
	}

	if havePrevLine && havePrevSignal {
		switch {
		case currentLine > currentSignal && prevLine <= prevSignal:
			confidence += 25
			reasoning = append(reasoning, "Fresh bullish signal-line crossover")
			if signal == types.SignalHold || signal == types.SignalWait {
				signal = types.SignalBuy
			}
		case currentLine < currentSignal && prevLine >= prevSignal:
			confidence += 25
			reasoning = append(reasoning, "Fresh bearish signal-line crossover")
			if signal == types.SignalHold || signal == types.SignalWait {
				signal = types.SignalSell
			}
		}
	}

	payload := types.MACDPayload{
		Line:       currentLine,
		Signal:     currentSignal,
		Histogram:  currentHist,
		Trend:      trend,
		Momentum:   momentum,
		Position:   position,
		Crossovers: findMACDCrossovers(line, signalLine, series.Timestamps()),
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

// findMACDCrossovers collects both signal-line and zero-line crossings,
// sorted by time, keeping the most recent five.
func findMACDCrossovers(line, signalLine indicator.Series, timestamps []time.Time) []types.Crossover {
	var crossovers []types.Crossover

	for i := 1; i < len(line) && i < len(timestamps); i++ {
		if line.IsMissing(i) || line.IsMissing(i-1) {
			continue
		}

		if i < len(signalLine) && !signalLine.IsMissing(i) && !signalLine.IsMissing(i-1) {
			switch {
			case line[i] > signalLine[i] && line[i-1] <= signalLine[i-1]:
				crossovers = append(crossovers, types.Crossover{Time: timestamps[i], Type: types.CrossoverBullishSignal})
			case line[i] < signalLine[i] && line[i-1] >= signalLine[i-1]:
				crossovers = append(crossovers, types.Crossover{Time: timestamps[i], Type: types.CrossoverBearishSignal})
			}
		}

		switch {
		case line[i] > 0 && line[i-1] <= 0:
			crossovers = append(crossovers, types.Crossover{Time: timestamps[i], Type: types.CrossoverBullishZero})
		case line[i] < 0 && line[i-1] >= 0:
			crossovers = append(crossovers, types.Crossover{Time: timestamps[i], Type: types.CrossoverBearishZero})
		}
	}

	sort.Slice(crossovers, func(i, j int) bool { return crossovers[i].Time.Before(crossovers[j].Time) })

	if len(crossovers) > 5 {
		crossovers = crossovers[len(crossovers)-5:]
	}

	return crossovers
}
