package types

// RunStatus is the overall outcome of one symbol's analysis run.
type RunStatus string

const (
	StatusSuccess        RunStatus = "success"
	StatusPartialSuccess RunStatus = "partial_success"
	StatusFailure        RunStatus = "failure"
)

// RunState tracks the per-symbol analysis state machine.
type RunState string

const (
	StateFetching           RunState = "fetching"
	StateIndicatorsComputed RunState = "indicators_computed"
	StateModelsRunning      RunState = "models_running"
	StateConsensusComputed  RunState = "consensus_computed"
	StateDone               RunState = "done"
	StateAborted            RunState = "aborted"
)

// VoteCounts is the per-signal tally the consensus aggregator derives from
// the successful model recommendations.
type VoteCounts struct {
	Buy    int
	Sell   int
	Hold   int
	Wait   int
	Errors int
}

// Total is the number of models that produced usable votes.
func (v VoteCounts) Total() int {
	return v.Buy + v.Sell + v.Hold + v.Wait
}

// ConsensusResult is the single blended recommendation across all models.
type ConsensusResult struct {
	Signal     SignalType
	Confidence int
	Agreement  string
	Votes      VoteCounts
	Reasoning  []string
	Timeframe  string
	ModelCount int
	Attempted  int
}

// RiskLevel grades volatility derived from ATR.
type RiskLevel string

const (
	RiskVeryLow  RiskLevel = "Very Low"
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskVeryHigh RiskLevel = "Very High"
	RiskUnknown  RiskLevel = "Unknown"
)

// RiskAssessment summarizes volatility for position sizing guidance.
type RiskAssessment struct {
	Level          RiskLevel
	ATR            float64
	ATRPercent     float64
	Recommendation string
}

// KeyLevels consolidates support/resistance candidates from the computed
// indicators and recent price action.
type KeyLevels struct {
	CurrentPrice  float64
	Support       float64
	Resistance    float64
	RecentHigh    float64
	RecentLow     float64
	ShortTermHigh float64
	ShortTermLow  float64
}

// AnalysisResult is the top-level aggregate handed to the reporting layer.
// It is assembled once per symbol per run and treated as read-only by
// consumers.
type AnalysisResult struct {
	RunID        string
	Symbol       string
	Status       RunStatus
	State        RunState
	CurrentPrice float64
	DataPoints   int
	Granularity  Granularity

	// Snapshot holds the latest non-missing value of each computed
	// indicator, keyed the same way as the indicator set.
	Snapshot map[IndicatorKey]float64

	Recommendations []Recommendation
	Consensus       ConsensusResult
	Risk            RiskAssessment
	Levels          KeyLevels

	// Errors lists run-level failures: fetch or mandatory-indicator
	// errors, and per-model degradations.
	Errors []string
}
