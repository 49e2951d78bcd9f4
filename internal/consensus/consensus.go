// Package consensus blends the per-model recommendations for one symbol
// into a single signal with a confidence score and an agreement label.
package consensus

import (
	"fmt"
	"sort"
	"strings"

	"github.com/marketlens/marketlens/internal/types"
)

// Aggregate tallies the successful recommendations into a vote count and
// derives the blended signal. Degraded recommendations count as errors
// and do not vote; WAIT votes count toward the total but back neither
// side. With zero usable votes the result is N/A.
func Aggregate(recommendations []types.Recommendation) types.ConsensusResult {
	var votes types.VoteCounts
	timeframes := make(map[string]int)

	for _, rec := range recommendations {
		if rec.Failed() {
			votes.Errors++
			continue
		}

		switch rec.Signal {
		case types.SignalBuy:
			votes.Buy++
		case types.SignalSell:
			votes.Sell++
		case types.SignalWait:
			votes.Wait++
		default:
			votes.Hold++
		}

		if rec.Timeframe != "" {
			timeframes[rec.Timeframe]++
		}
	}

	total := votes.Total()
	result := types.ConsensusResult{
		Votes:      votes,
		ModelCount: total,
		Attempted:  len(recommendations),
	}

	if total == 0 {
		result.Signal = types.SignalNone
		result.Confidence = 0
		result.Agreement = "No Models Run"
		result.Timeframe = "N/A"
		result.Reasoning = []string{"No trading models ran successfully to form a consensus."}

		return result
	}

	switch {
	case votes.Buy > votes.Sell && votes.Buy >= votes.Hold:
		result.Signal = types.SignalBuy
		result.Confidence = int(float64(votes.Buy) / float64(total) * 100)
		result.Agreement = agreementLabel(result.Confidence, "Bullish")
	case votes.Sell > votes.Buy && votes.Sell >= votes.Hold:
		result.Signal = types.SignalSell
		result.Confidence = int(float64(votes.Sell) / float64(total) * 100)
		result.Agreement = agreementLabel(result.Confidence, "Bearish")
	default:
		result.Signal = types.SignalHold
		// HOLD confidence is the larger of the hold ratio and the
		// buy/sell margin ratio, so a strongly lopsided mix still
		// scores higher than a flat three-way split.
		holdRatio := int(float64(votes.Hold) / float64(total) * 100)
		margin := votes.Buy - votes.Sell
		if margin < 0 {
			margin = -margin
		}
		marginRatio := int(float64(margin) / float64(total) * 100)
		result.Confidence = holdRatio
		if marginRatio > holdRatio {
			result.Confidence = marginRatio
		}
		switch {
		case votes.Buy > votes.Sell:
			result.Agreement = "Slightly Bullish (Mixed)"
		case votes.Sell > votes.Buy:
			result.Agreement = "Slightly Bearish (Mixed)"
		default:
			result.Agreement = "Mixed"
		}
	}

	result.Reasoning = append(result.Reasoning, fmt.Sprintf(
		"%d/%d models bullish, %d/%d bearish, %d/%d hold",
		votes.Buy, total, votes.Sell, total, votes.Hold, total))

	result.Timeframe = consolidateTimeframe(timeframes, &result.Reasoning)

	return result
}

func agreementLabel(confidence int, direction string) string {
	switch {
	case confidence > 75:
		return "Strong " + direction
	case confidence > 50:
		return direction
	default:
		return "Slightly " + direction
	}
}

// consolidateTimeframe picks the most common model timeframe; when the
// models disagree it marks the winner as dominant rather than inventing
// a blended horizon.
func consolidateTimeframe(timeframes map[string]int, reasoning *[]string) string {
	if len(timeframes) == 0 {
		*reasoning = append(*reasoning, "No contributing timeframes from successful models.")

		return "Unknown Timeframe"
	}

	names := make([]string, 0, len(timeframes))
	for tf := range timeframes {
		names = append(names, tf)
	}
	sort.Strings(names)

	best, bestCount := "", 0
	for _, tf := range names {
		if timeframes[tf] > bestCount {
			best, bestCount = tf, timeframes[tf]
		}
	}

	*reasoning = append(*reasoning, "Contributing timeframes: "+strings.Join(names, ", "))

	if len(timeframes) > 1 {
		return best + " (dominant in mixed)"
	}

	return best
}
