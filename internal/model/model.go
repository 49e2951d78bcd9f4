// Package model implements the rule-based signal models. Each model is a
// pure function of an immutable price series and indicator set, producing
// a recommendation envelope with a model-specific payload. Models never
// panic on bad input: every precondition failure yields a degraded
// HOLD result carrying an explicit error string.
package model

import (
	"github.com/moznion/go-optional"

	"github.com/marketlens/marketlens/internal/indicator"
	"github.com/marketlens/marketlens/internal/types"
)

// Model is the common shape of all signal models.
type Model interface {
	// Name returns the display name of the model.
	Name() string
	// Timeframe returns the horizon the model's signals apply to.
	Timeframe() string
	// MinBars returns the minimum number of bars the model needs.
	MinBars() int
	// Analyze runs the model's rule cascade. It always returns a
	// well-formed recommendation; failures are reported through the
	// envelope's Err field, never as a panic.
	Analyze(series *types.PriceSeries, set *indicator.Set) types.Recommendation
}

// clampConfidence bounds a confidence score to [0,100].
func clampConfidence(confidence int) int {
	if confidence < 0 {
		return 0
	}

	if confidence > 100 {
		return 100
	}

	return confidence
}

// degraded builds the well-formed error result a model returns when its
// preconditions fail.
func degraded(name, timeframe, errMsg string) types.Recommendation {
	return types.Recommendation{
		Model:      name,
		Signal:     types.SignalHold,
		Confidence: 0,
		Reasoning:  []string{errMsg},
		Timeframe:  timeframe,
		Err:        errMsg,
	}
}

// value unwraps an optional float, reporting availability.
func value(opt optional.Option[float64]) (float64, bool) {
	if opt.IsNone() {
		return 0, false
	}

	v, err := opt.Take()
	if err != nil {
		return 0, false
	}

	return v, true
}
