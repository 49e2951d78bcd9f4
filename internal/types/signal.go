package types

import "time"

// SignalType is the direction a signal model recommends.
type SignalType string

const (
	// SignalBuy is a recommendation to open or add to a long position
	SignalBuy SignalType = "BUY"
	// SignalSell is a recommendation to reduce or exit a position
	SignalSell SignalType = "SELL"
	// SignalHold is a recommendation to keep the current stance
	SignalHold SignalType = "HOLD"
	// SignalWait is a recommendation to stay out until a clearer setup forms
	SignalWait SignalType = "WAIT"
	// SignalNone is emitted when no consensus could be formed
	SignalNone SignalType = "N/A"
)

// Directional reports whether the signal is an actionable BUY or SELL.
func (s SignalType) Directional() bool {
	return s == SignalBuy || s == SignalSell
}

// CrossoverType labels a detected crossover event.
type CrossoverType string

const (
	CrossoverGolden        CrossoverType = "Golden Cross"
	CrossoverDeath         CrossoverType = "Death Cross"
	CrossoverBullishSignal CrossoverType = "Bullish Signal Crossover"
	CrossoverBearishSignal CrossoverType = "Bearish Signal Crossover"
	CrossoverBullishZero   CrossoverType = "Bullish Zero Crossover"
	CrossoverBearishZero   CrossoverType = "Bearish Zero Crossover"
)

// Crossover is a single crossover event found while walking an aligned
// pair of indicator series.
type Crossover struct {
	Time time.Time
	Type CrossoverType
}

// DivergenceType labels a price/oscillator divergence finding.
type DivergenceType string

const (
	DivergenceNone    DivergenceType = "None"
	DivergenceBullish DivergenceType = "Potential Bullish"
	DivergenceBearish DivergenceType = "Potential Bearish"
)

// Divergence is the result of comparing successive price and oscillator
// extrema over a lookback window.
type Divergence struct {
	Type     DivergenceType
	Strength int
}

// BandWalkType labels sustained contact with one Bollinger band.
type BandWalkType string

const (
	BandWalkNone  BandWalkType = "None"
	BandWalkUpper BandWalkType = "Upper Band Walk"
	BandWalkLower BandWalkType = "Lower Band Walk"
)

// BandWalk is the result of counting band touches over a lookback window.
type BandWalk struct {
	Type     BandWalkType
	Strength int
}

// Payload carries the model-specific detail attached to a Recommendation.
// The consensus aggregator only reads the common envelope; reporting code
// type-switches on the concrete payload it recognizes.
type Payload interface {
	payload()
}

// MAPayload is the Moving-Average-Crossover model detail.
type MAPayload struct {
	TrendDirection string
	TrendStrength  string
	FastMA         float64
	SlowMA         float64
	SeparationPct  float64
	Support        float64
	Resistance     float64
	Crossovers     []Crossover
}

// RSIPayload is the RSI-Mean-Reversion model detail.
type RSIPayload struct {
	Current    float64
	Level      string
	Momentum   string
	Divergence Divergence
	Oversold   float64
	Overbought float64
}

// MACDPayload is the MACD-Momentum model detail.
type MACDPayload struct {
	Line       float64
	Signal     float64
	Histogram  float64
	Trend      string
	Momentum   string
	Position   string
	Crossovers []Crossover
}

// BBPayload is the Bollinger-Bands model detail.
type BBPayload struct {
	Upper         float64
	Middle        float64
	Lower         float64
	BandWidthPct  float64
	PricePosition string
	Squeeze       bool
	BandWalk      BandWalk
}

func (MAPayload) payload()   {}
func (RSIPayload) payload()  {}
func (MACDPayload) payload() {}
func (BBPayload) payload()   {}

// Recommendation is the common envelope every signal model produces.
// A degraded result carries a non-empty Err and a WAIT/HOLD signal with
// zero confidence instead of failing the run.
type Recommendation struct {
	Model      string
	Signal     SignalType
	Confidence int // clamped to [0,100]
	Reasoning  []string
	Timeframe  string
	Detail     Payload
	Err        string
}

// Failed reports whether the model produced a degraded result.
func (r Recommendation) Failed() bool {
	return r.Err != ""
}
