package model

import (
	"fmt"
	"math"
	"time"

	"github.com/marketlens/marketlens/internal/indicator"
	"github.com/marketlens/marketlens/internal/types"
)

// MACrossover trades the relationship between a fast and a slow simple
// moving average: fresh golden/death crosses, established trends, and the
// percentage separation between the two averages.
type MACrossover struct {
	fastPeriod int
	slowPeriod int
}

// NewMACrossover creates the model with the given SMA periods,
// conventionally 50/200.
func NewMACrossover(fastPeriod, slowPeriod int) *MACrossover {
	return &MACrossover{fastPeriod: fastPeriod, slowPeriod: slowPeriod}
}

func (m *MACrossover) Name() string {
	return fmt.Sprintf("MA Crossover (%d/%d)", m.fastPeriod, m.slowPeriod)
}

func (m *MACrossover) Timeframe() string {
	return "Long-term (3-12 months)"
}

func (m *MACrossover) MinBars() int {
	if m.fastPeriod > m.slowPeriod {
		return m.fastPeriod
	}

	return m.slowPeriod
}

func (m *MACrossover) Analyze(series *types.PriceSeries, set *indicator.Set) types.Recommendation {
	if series.Len() < m.MinBars() {
		return degraded(m.Name(), m.Timeframe(), fmt.Sprintf(
			"insufficient data points (%d available), need at least %d periods", series.Len(), m.MinBars()))
	}

	fastLookup := set.Lookup(types.SMAKey(m.fastPeriod))
	slowLookup := set.Lookup(types.SMAKey(m.slowPeriod))

	if fastLookup.State == indicator.LookupNotComputed || slowLookup.State == indicator.LookupNotComputed {
		return degraded(m.Name(), m.Timeframe(), fmt.Sprintf(
			"required indicator missing: SMA_%d or SMA_%d was not computed", m.fastPeriod, m.slowPeriod))
	}

	fastMA, slowMA := fastLookup.Series, slowLookup.Series
	if fastMA.ValidCount() < 2 || slowMA.ValidCount() < 2 {
		return degraded(m.Name(), m.Timeframe(), fmt.Sprintf(
			"insufficient recent calculated moving averages (%d/%d valid points), need at least 2 for crossover check",
			fastMA.ValidCount(), slowMA.ValidCount()))
	}

	currentFast, haveFast := value(fastMA.Latest())
	currentSlow, haveSlow := value(slowMA.Latest())
	prevFast, havePrevFast := value(fastMA.Previous())
	prevSlow, havePrevSlow := value(slowMA.Previous())
	currentPrice := series.LatestClose()
	havePrice := !math.IsNaN(currentPrice)

	signal := types.SignalHold
	confidence := 0
	trendDirection := "Sideways"
	var reasoning []string

	switch {
	case haveFast && haveSlow && havePrevFast && havePrevSlow:
		switch {
		case currentFast > currentSlow && prevFast <= prevSlow:
			signal = types.SignalBuy
			trendDirection = "Golden Cross - Strong Uptrend"
			confidence = 85
			reasoning = append(reasoning, "Golden Cross (Fast MA crossed above Slow MA)")
		case currentFast < currentSlow && prevFast >= prevSlow:
			signal = types.SignalSell
			trendDirection = "Death Cross - Strong Downtrend"
			confidence = 85
			reasoning = append(reasoning, "Death Cross (Fast MA crossed below Slow MA)")
		case currentFast > currentSlow:
			trendDirection = "Uptrend"
			signal = types.SignalWait
			if havePrice && currentPrice > currentFast {
				signal = types.SignalBuy
			}
			confidence = 60
			reasoning = append(reasoning, "Fast MA is above Slow MA (Uptrend)")
		case currentFast < currentSlow:
			trendDirection = "Downtrend"
			signal = types.SignalWait
			if havePrice && currentPrice < currentFast {
				signal = types.SignalSell
			}
			confidence = 60
			reasoning = append(reasoning, "Fast MA is below Slow MA (Downtrend)")
		default:
			trendDirection = "Sideways"
			signal = types.SignalHold
			confidence = 20
			reasoning = append(reasoning, "Fast MA and Slow MA are converging")
		}
	case haveFast && haveSlow && currentFast > currentSlow:
		trendDirection = "Uptrend"
		signal = types.SignalWait
		if havePrice && currentPrice > currentFast {
			signal = types.SignalBuy
		}
		confidence = 50 // lower confidence without previous-bar crossover data
		reasoning = append(reasoning, "Fast MA is above Slow MA (Uptrend) - No previous crossover data")
	case haveFast && haveSlow && currentFast < currentSlow:
		trendDirection = "Downtrend"
		signal = types.SignalWait
		if havePrice && currentPrice < currentFast {
			signal = types.SignalSell
		}
		confidence = 50
		reasoning = append(reasoning, "Fast MA is below Slow MA (Downtrend) - No previous crossover data")
	case haveFast && haveSlow:
		trendDirection = "Sideways"
		signal = types.SignalHold
		confidence = 20
		reasoning = append(reasoning, "Fast MA and Slow MA are converging - No previous crossover data")
	default:
		trendDirection = "Undetermined"
		signal = types.SignalHold
		confidence = 10
		reasoning = append(reasoning, "Insufficient recent MA data for analysis")
	}

	separationPct := 0.0
	if haveFast && haveSlow && currentSlow != 0 {
		separationPct = math.Abs(currentFast-currentSlow) / currentSlow * 100
	}

	trendStrength := "Weak"
	switch {
	case separationPct > 10:
		trendStrength = "Very Strong"
		confidence += 15
		reasoning = append(reasoning, fmt.Sprintf("MA separation is Very Strong (%.2f%%)", separationPct))
	case separationPct > 5:
		trendStrength = "Strong"
		confidence += 10
		reasoning = append(reasoning, fmt.Sprintf("MA separation is Strong (%.2f%%)", separationPct))
	case separationPct > 2:
		trendStrength = "Moderate"
		confidence += 5
		reasoning = append(reasoning, fmt.Sprintf("MA separation is Moderate (%.2f%%)", separationPct))
	default:
		reasoning = append(reasoning, fmt.Sprintf("MA separation is Weak (%.2f%%)", separationPct))
	}

	support, resistance := math.NaN(), math.NaN()
	if haveFast && haveSlow {
		support = math.Min(currentFast, currentSlow)
		// resistance nudged slightly above the higher MA
		resistance = math.Max(currentFast, currentSlow) * 1.02
	}

	payload := types.MAPayload{
		TrendDirection: trendDirection,
		TrendStrength:  trendStrength,
		FastMA:         currentFast,
		SlowMA:         currentSlow,
		SeparationPct:  separationPct,
		Support:        support,
		Resistance:     resistance,
		Crossovers:     findMACrossovers(fastMA, slowMA, series.Timestamps()),
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

// findMACrossovers walks the aligned MA pair and flags every sign change
// of (fast-slow) as a crossover event, keeping the most recent five in
// timestamp order.
func findMACrossovers(fast, slow indicator.Series, timestamps []time.Time) []types.Crossover {
	var crossovers []types.Crossover

	for i := 1; i < len(fast) && i < len(slow) && i < len(timestamps); i++ {
		if fast.IsMissing(i) || slow.IsMissing(i) || fast.IsMissing(i-1) || slow.IsMissing(i-1) {
			continue
		}

		switch {
		case fast[i] > slow[i] && fast[i-1] <= slow[i-1]:
			crossovers = append(crossovers, types.Crossover{Time: timestamps[i], Type: types.CrossoverGolden})
		case fast[i] < slow[i] && fast[i-1] >= slow[i-1]:
			crossovers = append(crossovers, types.Crossover{Time: timestamps[i], Type: types.CrossoverDeath})
		}
	}

	if len(crossovers) > 5 {
		crossovers = crossovers[len(crossovers)-5:]
	}

	return crossovers
}
