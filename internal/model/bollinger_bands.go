package model

import (
	"fmt"
	"math"

	"github.com/marketlens/marketlens/internal/indicator"
	"github.com/marketlens/marketlens/internal/types"
)

// BollingerBandsModel trades touches of the outer Bollinger bands with
// volume confirmation, squeeze detection, and band-walk awareness.
type BollingerBandsModel struct {
	period int
	stdDev float64
}

func NewBollingerBands(period int, stdDev float64) *BollingerBandsModel {
	return &BollingerBandsModel{period: period, stdDev: stdDev}
}

func (m *BollingerBandsModel) Name() string {
	return fmt.Sprintf("Bollinger Bands (%d, %.1f)", m.period, m.stdDev)
}

func (m *BollingerBandsModel) Timeframe() string {
	return "Short to Medium-term (2-6 weeks)"
}

func (m *BollingerBandsModel) MinBars() int {
	return m.period
}

func (m *BollingerBandsModel) Analyze(series *types.PriceSeries, set *indicator.Set) types.Recommendation {
	if series.Len() < m.MinBars() {
		return degraded(m.Name(), m.Timeframe(), fmt.Sprintf(
			"insufficient data points (%d available), need at least %d periods", series.Len(), m.MinBars()))
	}

	upperLookup := set.Lookup(types.KeyBBUpper)
	middleLookup := set.Lookup(types.KeyBBMiddle)
	lowerLookup := set.Lookup(types.KeyBBLower)

	if upperLookup.State == indicator.LookupNotComputed ||
		middleLookup.State == indicator.LookupNotComputed ||
		lowerLookup.State == indicator.LookupNotComputed {
		return degraded(m.Name(), m.Timeframe(), "required indicator missing: Bollinger band components were not computed")
	}

	upper, middle, lower := upperLookup.Series, middleLookup.Series, lowerLookup.Series
	if upper.ValidCount() < 1 || middle.ValidCount() < 1 || lower.ValidCount() < 1 {
		return degraded(m.Name(), m.Timeframe(), "insufficient calculated Bollinger band values, need at least 1 per band")
	}

	currentUpper, haveUpper := value(upper.Latest())
	currentMiddle, haveMiddle := value(middle.Latest())
	currentLower, haveLower := value(lower.Latest())
	if !haveUpper || !haveMiddle || !haveLower {
		return degraded(m.Name(), m.Timeframe(), "latest Bollinger band values are not available")
	}

	currentPrice := series.LatestClose()
	if math.IsNaN(currentPrice) {
		return degraded(m.Name(), m.Timeframe(), "latest close price is not available")
	}

	volumes := series.Volumes()
	volumeSMA := indicator.SMA(volumes, 20)

	signal := types.SignalHold
	confidence := 0
	var reasoning []string

	switch {
	case currentPrice <= currentLower*1.02:
		signal = types.SignalBuy
		confidence += 35
		reasoning = append(reasoning, fmt.Sprintf("Price at/near lower band (%.2f vs %.2f)", currentPrice, currentLower))
	case currentPrice >= currentUpper*0.98:
		signal = types.SignalSell
		confidence += 35
		reasoning = append(reasoning, fmt.Sprintf("Price at/near upper band (%.2f vs %.2f)", currentPrice, currentUpper))
	}

	if avgVolume, ok := value(volumeSMA.Latest()); ok && len(volumes) > 0 {
		currentVolume := volumes[len(volumes)-1]
		if !math.IsNaN(currentVolume) && avgVolume > 0 && currentVolume > avgVolume*1.2 {
			confidence += 15
			reasoning = append(reasoning, "Above-average volume confirms the move")
		}
	}

	bandWidthPct := 0.0
	if currentMiddle != 0 {
		bandWidthPct = (currentUpper - currentLower) / currentMiddle * 100
	}

	squeeze := false
	if avgWidth, ok := averageBandWidth(upper, middle, lower, m.period); ok && bandWidthPct < avgWidth*0.8 {
		squeeze = true
		confidence += 10
		reasoning = append(reasoning, fmt.Sprintf("Band squeeze detected (width %.2f%% vs %.2f%% average), breakout likely", bandWidthPct, avgWidth))
	}

	switch {
	case currentPrice > currentMiddle && signal == types.SignalBuy:
		confidence += 10
		reasoning = append(reasoning, "Price above middle band supports the buy")
	case currentPrice < currentMiddle && signal == types.SignalSell:
		confidence += 10
		reasoning = append(reasoning, "Price below middle band supports the sell")
	}

	walk := detectBandWalk(series.Closes(), upper, lower, m.period)
	if walk.Type != types.BandWalkNone {
		confidence += walk.Strength
		reasoning = append(reasoning, fmt.Sprintf("%s in progress (strong trend)", walk.Type))
	}

	position := "Lower Half"
	switch {
	case currentPrice >= currentUpper:
		position = "Above Upper Band"
	case currentPrice <= currentLower:
		position = "Below Lower Band"
	case currentPrice > currentMiddle:
		position = "Upper Half"
	}

	payload := types.BBPayload{
		Upper:         currentUpper,
		Middle:        currentMiddle,
		Lower:         currentLower,
		BandWidthPct:  bandWidthPct,
		PricePosition: position,
		Squeeze:       squeeze,
		BandWalk:      walk,
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

// averageBandWidth is the mean percentage band width over the last
// period bars where all three bands are valid.
func averageBandWidth(upper, middle, lower indicator.Series, period int) (float64, bool) {
	start := len(middle) - period
	if start < 0 {
		start = 0
	}

	sum, count := 0.0, 0
	for i := start; i < len(middle); i++ {
		if upper.IsMissing(i) || middle.IsMissing(i) || lower.IsMissing(i) || middle[i] == 0 {
			continue
		}
		sum += (upper[i] - lower[i]) / middle[i] * 100
		count++
	}

	if count == 0 {
		return 0, false
	}

	return sum / float64(count), true
}

// detectBandWalk counts closes near the outer bands over the last five
// bars. Three or more touches of one band reads as a walk, which means a
// strong trend rather than a reversal setup.
func detectBandWalk(closes []float64, upper, lower indicator.Series, period int) types.BandWalk {
	start := len(closes) - period
	if start < 0 {
		start = 0
	}

	var idx []int
	for i := start; i < len(closes) && i < len(upper) && i < len(lower); i++ {
		if !math.IsNaN(closes[i]) && !upper.IsMissing(i) && !lower.IsMissing(i) {
			idx = append(idx, i)
		}
	}
	if len(idx) < 5 {
		return types.BandWalk{Type: types.BandWalkNone}
	}

	recent := idx[len(idx)-5:]
	upperTouches, lowerTouches := 0, 0
	for _, i := range recent {
		if closes[i] >= upper[i]*0.98 {
			upperTouches++
		}
		if closes[i] <= lower[i]*1.02 {
			lowerTouches++
		}
	}

	switch {
	case upperTouches >= 3:
		return types.BandWalk{Type: types.BandWalkUpper, Strength: 15}
	case lowerTouches >= 3:
		return types.BandWalk{Type: types.BandWalkLower, Strength: 15}
	default:
		return types.BandWalk{Type: types.BandWalkNone}
	}
}
