// Package analyzer orchestrates one analysis run per symbol: fetch bars,
// compute indicators, run the signal models, and blend the results into a
// consensus with risk and key-level context.
package analyzer

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/marketlens/marketlens/internal/consensus"
	"github.com/marketlens/marketlens/internal/indicator"
	"github.com/marketlens/marketlens/internal/logger"
	"github.com/marketlens/marketlens/internal/marketdata"
	"github.com/marketlens/marketlens/internal/model"
	"github.com/marketlens/marketlens/internal/types"
)

// Config tunes an Analyzer.
type Config struct {
	// BarLimit caps the number of bars fetched per symbol. Zero means
	// no cap.
	BarLimit int

	// Concurrency is the number of symbols analyzed in parallel by
	// AnalyzeBatch. Values below 1 are treated as 1.
	Concurrency int

	// Requests overrides the default indicator set when non-nil.
	Requests []indicator.Request
}

// Analyzer runs the full pipeline for one or more symbols. It is safe for
// concurrent use once constructed.
type Analyzer struct {
	source marketdata.Source
	engine *indicator.Engine
	models []model.Model
	config Config
	logger *logger.Logger
}

// New constructs an Analyzer. A nil model slice gets the default four
// models; a nil logger logs nowhere.
func New(source marketdata.Source, engine *indicator.Engine, models []model.Model, config Config, log *logger.Logger) *Analyzer {
	if log == nil {
		log = logger.NewNopLogger()
	}

	if models == nil {
		models = DefaultModels()
	}

	if config.Concurrency < 1 {
		config.Concurrency = 1
	}

	return &Analyzer{
		source: source,
		engine: engine,
		models: models,
		config: config,
		logger: log,
	}
}

// DefaultModels is the standard model lineup: trend, mean reversion,
// momentum, and volatility.
func DefaultModels() []model.Model {
	return []model.Model{
		model.NewMACrossover(50, 200),
		model.NewRSIMeanReversion(14, 30, 70),
		model.NewMACDMomentum(12, 26, 9),
		model.NewBollingerBands(20, 2.0),
	}
}

// AnalyzeSymbol runs the full pipeline for one symbol. It always returns
// a result; run-level failures are recorded on the result with a failure
// status rather than returned as an error, so batch callers can report
// every symbol uniformly.
func (a *Analyzer) AnalyzeSymbol(ctx context.Context, symbol string) *types.AnalysisResult {
	result := &types.AnalysisResult{
		RunID:  uuid.New().String(),
		Symbol: symbol,
		State:  types.StateFetching,
	}

	if err := ctx.Err(); err != nil {
		return a.abort(result, err)
	}

	series, err := marketdata.FetchWithFallback(ctx, a.source, symbol, a.config.BarLimit)
	if err != nil {
		a.logger.Error("fetch failed", zap.String("symbol", symbol), zap.Error(err))
		result.Status = types.StatusFailure
		result.State = types.StateAborted
		result.Errors = append(result.Errors, fmt.Sprintf("fetch: %v", err))

		return result
	}

	result.DataPoints = series.Len()
	result.CurrentPrice = series.LatestClose()
	result.Granularity = series.DetectGranularity()
	if series.Note != "" {
		result.Errors = append(result.Errors, series.Note)
	}

	requests := a.config.Requests
	if requests == nil {
		requests = indicator.DefaultRequests()
	}

	set, err := a.engine.Compute(series, requests)
	if err != nil {
		a.logger.Error("indicator computation failed", zap.String("symbol", symbol), zap.Error(err))
		result.Status = types.StatusFailure
		result.State = types.StateAborted
		result.Errors = append(result.Errors, fmt.Sprintf("indicators: %v", err))

		return result
	}

	result.State = types.StateIndicatorsComputed
	result.Snapshot = set.Snapshot()

	if err := ctx.Err(); err != nil {
		return a.abort(result, err)
	}

	result.State = types.StateModelsRunning
	for _, m := range a.models {
		rec := a.runModel(m, series, set)
		result.Recommendations = append(result.Recommendations, rec)
		if rec.Failed() {
			result.Errors = append(result.Errors, fmt.Sprintf("model %s: %s", rec.Model, rec.Err))
		}
	}

	result.Consensus = consensus.Aggregate(result.Recommendations)
	result.State = types.StateConsensusComputed

	result.Risk = assessRisk(set, result.CurrentPrice)
	result.Levels = deriveKeyLevels(series, set, result.CurrentPrice)

	result.Status = runStatus(result.Recommendations)
	result.State = types.StateDone

	a.logger.Info("analysis complete",
		zap.String("symbol", symbol),
		zap.String("run_id", result.RunID),
		zap.String("status", string(result.Status)),
		zap.String("signal", string(result.Consensus.Signal)),
		zap.Int("confidence", result.Consensus.Confidence))

	return result
}

// AnalyzeBatch analyzes symbols in parallel, bounded by the configured
// concurrency. Results come back in input order.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, symbols []string) []*types.AnalysisResult {
	results := make([]*types.AnalysisResult, len(symbols))

	var wg sync.WaitGroup
	sem := make(chan struct{}, a.config.Concurrency)

	for i, symbol := range symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[i] = a.AnalyzeSymbol(ctx, symbol)
		}(i, symbol)
	}

	wg.Wait()

	return results
}

// runModel executes one model and converts a panic into a degraded
// recommendation so a faulty model cannot take down the run.
func (a *Analyzer) runModel(m model.Model, series *types.PriceSeries, set *indicator.Set) (rec types.Recommendation) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("model panicked",
				zap.String("model", m.Name()),
				zap.String("symbol", series.Symbol),
				zap.Any("panic", r))
			rec = types.Recommendation{
				Model:      m.Name(),
				Signal:     types.SignalHold,
				Confidence: 0,
				Timeframe:  m.Timeframe(),
				Err:        fmt.Sprintf("unexpected error: %v", r),
			}
		}
	}()

	return m.Analyze(series, set)
}

func (a *Analyzer) abort(result *types.AnalysisResult, err error) *types.AnalysisResult {
	result.Status = types.StatusFailure
	result.State = types.StateAborted
	result.Errors = append(result.Errors, err.Error())

	return result
}

// runStatus grades the run by how many models produced usable results.
func runStatus(recommendations []types.Recommendation) types.RunStatus {
	failed := 0
	for _, rec := range recommendations {
		if rec.Failed() {
			failed++
		}
	}

	switch {
	case len(recommendations) == 0 || failed == len(recommendations):
		return types.StatusFailure
	case failed > 0:
		return types.StatusPartialSuccess
	default:
		return types.StatusSuccess
	}
}

// assessRisk grades volatility from the latest ATR as a percentage of
// the current price.
func assessRisk(set *indicator.Set, currentPrice float64) types.RiskAssessment {
	assessment := types.RiskAssessment{
		Level:          types.RiskUnknown,
		ATR:            math.NaN(),
		ATRPercent:     math.NaN(),
		Recommendation: "Could not assess volatility. Consider your risk profile carefully.",
	}

	atr, ok := latestValue(set, types.ATRKey(14))
	if !ok || math.IsNaN(currentPrice) || currentPrice == 0 {
		return assessment
	}

	atrPercent := atr / currentPrice * 100
	assessment.ATR = atr
	assessment.ATRPercent = atrPercent

	switch {
	case atrPercent < 0.5:
		assessment.Level = types.RiskVeryLow
	case atrPercent < 1.5:
		assessment.Level = types.RiskLow
	case atrPercent < 3:
		assessment.Level = types.RiskMedium
	case atrPercent < 5:
		assessment.Level = types.RiskHigh
	default:
		assessment.Level = types.RiskVeryHigh
	}

	assessment.Recommendation = fmt.Sprintf(
		"Manage position size according to your risk tolerance (%s volatility).", assessment.Level)

	return assessment
}

// deriveKeyLevels picks support and resistance from the indicator levels
// closest to the current price, falling back to recent extremes when no
// indicator level brackets the price.
func deriveKeyLevels(series *types.PriceSeries, set *indicator.Set, currentPrice float64) types.KeyLevels {
	levels := types.KeyLevels{
		CurrentPrice:  currentPrice,
		Support:       math.NaN(),
		Resistance:    math.NaN(),
		RecentHigh:    math.NaN(),
		RecentLow:     math.NaN(),
		ShortTermHigh: math.NaN(),
		ShortTermLow:  math.NaN(),
	}

	var supportCandidates, resistanceCandidates []float64
	if v, ok := latestValue(set, types.KeyBBLower); ok {
		supportCandidates = append(supportCandidates, v)
	}
	if v, ok := latestValue(set, types.KeyBBUpper); ok {
		resistanceCandidates = append(resistanceCandidates, v)
	}
	for _, key := range []types.IndicatorKey{types.SMAKey(50), types.SMAKey(200)} {
		if v, ok := latestValue(set, key); ok {
			supportCandidates = append(supportCandidates, v)
			resistanceCandidates = append(resistanceCandidates, v)
		}
	}

	if !math.IsNaN(currentPrice) {
		// Closest candidate from below is support, from above is
		// resistance.
		for _, v := range supportCandidates {
			if v <= currentPrice && (math.IsNaN(levels.Support) || v > levels.Support) {
				levels.Support = v
			}
		}
		for _, v := range resistanceCandidates {
			if v >= currentPrice && (math.IsNaN(levels.Resistance) || v < levels.Resistance) {
				levels.Resistance = v
			}
		}
	}

	highs, lows := series.Highs(), series.Lows()
	levels.RecentHigh = sliceMax(highs)
	levels.RecentLow = sliceMin(lows)

	lookback := series.Len()
	if lookback > 20 {
		lookback = 20
	}
	if lookback > 0 {
		levels.ShortTermHigh = sliceMax(highs[len(highs)-lookback:])
		levels.ShortTermLow = sliceMin(lows[len(lows)-lookback:])
	}

	if math.IsNaN(levels.Support) {
		levels.Support = levels.RecentLow
	}
	if math.IsNaN(levels.Resistance) {
		levels.Resistance = levels.RecentHigh
	}
	if math.IsNaN(levels.Support) {
		levels.Support = levels.ShortTermLow
	}
	if math.IsNaN(levels.Resistance) {
		levels.Resistance = levels.ShortTermHigh
	}

	return levels
}

func latestValue(set *indicator.Set, key types.IndicatorKey) (float64, bool) {
	lookup := set.Lookup(key)
	if !lookup.Found() {
		return 0, false
	}

	latest := lookup.Series.Latest()
	if latest.IsNone() {
		return 0, false
	}

	v, err := latest.Take()
	if err != nil {
		return 0, false
	}

	return v, true
}

func sliceMax(values []float64) float64 {
	out := math.NaN()
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(out) || v > out {
			out = v
		}
	}

	return out
}

func sliceMin(values []float64) float64 {
	out := math.NaN()
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(out) || v < out {
			out = v
		}
	}

	return out
}
