package indicator

// WindowKey names one slot in a regime's period table.
type WindowKey string

const (
	WindowSMAShort   WindowKey = "sma_short"
	WindowSMAMedium  WindowKey = "sma_medium"
	WindowSMALong    WindowKey = "sma_long"
	WindowRSI        WindowKey = "rsi"
	WindowMACDFast   WindowKey = "macd_fast"
	WindowMACDSlow   WindowKey = "macd_slow"
	WindowMACDSignal WindowKey = "macd_signal"
	WindowBBPeriod   WindowKey = "bb_period"
	WindowATR        WindowKey = "atr"
)

// Regime identifies which canonical period set applies for a given amount
// of history.
type Regime string

const (
	RegimeShort  Regime = "short"  // fewer than 60 bars
	RegimeMedium Regime = "medium" // 60 to 149 bars
	RegimeLong   Regime = "long"   // 150 bars or more
)

// RegimeTable maps each regime to its canonical indicator periods. It is
// an explicit configuration value passed into the engine; there is no
// process-wide default state.
type RegimeTable map[Regime]map[WindowKey]int

// DefaultRegimes returns the canonical three-regime period table.
func DefaultRegimes() RegimeTable {
	return RegimeTable{
		RegimeShort: {
			WindowSMAShort:   5,
			WindowSMAMedium:  10,
			WindowSMALong:    20,
			WindowRSI:        14,
			WindowMACDFast:   8,
			WindowMACDSlow:   17,
			WindowMACDSignal: 9,
			WindowBBPeriod:   10,
			WindowATR:        14,
		},
		RegimeMedium: {
			WindowSMAShort:   10,
			WindowSMAMedium:  20,
			WindowSMALong:    50,
			WindowRSI:        14,
			WindowMACDFast:   12,
			WindowMACDSlow:   26,
			WindowMACDSignal: 9,
			WindowBBPeriod:   20,
			WindowATR:        14,
		},
		RegimeLong: {
			WindowSMAShort:   20,
			WindowSMAMedium:  50,
			WindowSMALong:    200,
			WindowRSI:        14,
			WindowMACDFast:   12,
			WindowMACDSlow:   26,
			WindowMACDSignal: 9,
			WindowBBPeriod:   20,
			WindowATR:        14,
		},
	}
}

// RegimeFor classifies the amount of available history.
func RegimeFor(barCount int) Regime {
	switch {
	case barCount < 60:
		return RegimeShort
	case barCount < 150:
		return RegimeMedium
	default:
		return RegimeLong
	}
}

// adaptiveWindow resolves the effective window for an indicator. A pinned
// request within 30% of the available bars is honored as-is; anything
// larger (or an unpinned request of 0) falls back to the regime default,
// clamped to max(2, barCount/4) when even the default exceeds the data.
// The second return reports whether a substitution happened.
func (t RegimeTable) adaptiveWindow(barCount, requested int, key WindowKey) (int, bool) {
	config := t[RegimeFor(barCount)]

	if requested > 0 && float64(requested) <= float64(barCount)*0.3 {
		return requested, false
	}

	fallback, ok := config[key]
	if !ok {
		fallback = barCount / 4
	}

	if fallback > barCount {
		fallback = barCount / 4
	}

	if fallback < 2 {
		fallback = 2
	}

	return fallback, fallback != requested
}
