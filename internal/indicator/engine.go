package indicator

import (
	"go.uber.org/zap"

	"github.com/marketlens/marketlens/internal/logger"
	"github.com/marketlens/marketlens/internal/types"
	"github.com/marketlens/marketlens/pkg/errors"
)

// Request describes one indicator to compute. Period fields of zero mean
// "use the regime default". Adaptive requests substitute a regime window
// when the requested one needs more than 30% of the available bars;
// pinned (non-adaptive) requests are computed exactly as asked or not at
// all.
type Request struct {
	Kind   types.IndicatorKind
	Period int // SMA, EMA, RSI, ATR

	Fast, Slow, Signal int // MACD

	StdDev float64 // Bollinger Bands

	// Mandatory marks indicators a signal model cannot function without.
	// Insufficient bars for a mandatory indicator abort the whole run.
	Mandatory bool
	Adaptive  bool
}

// DefaultRequests returns the standard battery the analysis pipeline
// computes per symbol: trend SMAs, RSI, MACD, Bollinger Bands and ATR.
func DefaultRequests() []Request {
	return []Request{
		{Kind: types.IndicatorSMA, Period: 20, Adaptive: true},
		{Kind: types.IndicatorSMA, Period: 50, Adaptive: true},
		{Kind: types.IndicatorSMA, Period: 200, Mandatory: true, Adaptive: true},
		{Kind: types.IndicatorEMA, Period: 20, Adaptive: true},
		{Kind: types.IndicatorEMA, Period: 50, Adaptive: true},
		{Kind: types.IndicatorEMA, Period: 200, Adaptive: true},
		{Kind: types.IndicatorRSI, Period: 14, Mandatory: true},
		{Kind: types.IndicatorMACD, Fast: 12, Slow: 26, Signal: 9, Mandatory: true, Adaptive: true},
		{Kind: types.IndicatorBollingerBands, Period: 20, StdDev: 2, Mandatory: true, Adaptive: true},
		{Kind: types.IndicatorATR, Period: 14, Mandatory: true},
	}
}

// Config parameterizes the engine. The regime table is passed explicitly;
// the engine holds no global state.
type Config struct {
	Regimes RegimeTable
}

// Engine computes indicator sets from price series.
type Engine struct {
	config Config
	logger *logger.Logger
}

// NewEngine creates an indicator engine. A nil regime table falls back to
// the canonical defaults.
func NewEngine(config Config, log *logger.Logger) *Engine {
	if config.Regimes == nil {
		config.Regimes = DefaultRegimes()
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Engine{config: config, logger: log}
}

// Compute builds the indicator set for the given series and requests.
// Mandatory indicators that cannot be computed return a hard error naming
// the indicator and the bar counts; optional ones are filled with missing
// values and the run continues.
func (e *Engine) Compute(series *types.PriceSeries, requests []Request) (*Set, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}

	closes := series.Closes()
	if Series(closes).ValidCount() == 0 {
		return nil, errors.Newf(errors.ErrCodeIndicatorMissing,
			"close series absent for %s", series.Symbol)
	}

	set := NewSet()
	n := series.Len()

	for _, req := range requests {
		if err := e.computeOne(set, series, closes, n, req); err != nil {
			return nil, err
		}
	}

	return set, nil
}

func (e *Engine) computeOne(set *Set, series *types.PriceSeries, closes []float64, n int, req Request) error {
	switch req.Kind {
	case types.IndicatorSMA:
		period := e.resolve(n, req, req.Period, WindowSMALong)
		return e.addSingle(set, types.SMAKey(req.keyPeriod(period)), SMA(closes, period), n, period, req)

	case types.IndicatorEMA:
		period := e.resolve(n, req, req.Period, WindowSMALong)
		// the recursive EMA seeds from the first observation, one bar suffices
		return e.addSingle(set, types.EMAKey(req.keyPeriod(period)), EMA(closes, period), n, 1, req)

	case types.IndicatorRSI:
		period := e.resolve(n, req, req.Period, WindowRSI)
		return e.addSingle(set, types.RSIKey(req.keyPeriod(period)), RSI(closes, period), n, period+1, req)

	case types.IndicatorATR:
		period := e.resolve(n, req, req.Period, WindowATR)

		if Series(series.Highs()).ValidCount() == 0 || Series(series.Lows()).ValidCount() == 0 {
			return errors.Newf(errors.ErrCodeIndicatorMissing,
				"high/low series absent for %s, cannot compute ATR", series.Symbol)
		}

		atr := ATR(series.Highs(), series.Lows(), closes, period)

		return e.addSingle(set, types.ATRKey(req.keyPeriod(period)), atr, n, period, req)

	case types.IndicatorMACD:
		fast := e.resolve(n, req, req.Fast, WindowMACDFast)
		slow := e.resolve(n, req, req.Slow, WindowMACDSlow)
		signal := e.resolve(n, req, req.Signal, WindowMACDSignal)
		required := slow + signal - 1

		if n < required {
			if req.Mandatory {
				return e.insufficient("MACD", required, n, series.Symbol)
			}

			e.logSkip("MACD", required, n)
			set.Add(types.KeyMACDLine, Missing(n))
			set.Add(types.KeyMACDSignal, Missing(n))
			set.Add(types.KeyMACDHistogram, Missing(n))

			return nil
		}

		result := MACD(closes, fast, slow, signal)
		set.Add(types.KeyMACDLine, result.Line)
		set.Add(types.KeyMACDSignal, result.Signal)
		set.Add(types.KeyMACDHistogram, result.Histogram)

		return nil

	case types.IndicatorBollingerBands:
		period := e.resolve(n, req, req.Period, WindowBBPeriod)
		stdDev := req.StdDev
		if stdDev == 0 {
			stdDev = 2
		}

		if n < period {
			if req.Mandatory {
				return e.insufficient("BollingerBands", period, n, series.Symbol)
			}

			e.logSkip("BollingerBands", period, n)
			set.Add(types.KeyBBUpper, Missing(n))
			set.Add(types.KeyBBMiddle, Missing(n))
			set.Add(types.KeyBBLower, Missing(n))

			return nil
		}

		result := BollingerBands(closes, period, stdDev)
		set.Add(types.KeyBBUpper, result.Upper)
		set.Add(types.KeyBBMiddle, result.Middle)
		set.Add(types.KeyBBLower, result.Lower)

		return nil

	default:
		return errors.Newf(errors.ErrCodeInvalidParameter, "unknown indicator kind %q", req.Kind)
	}
}

// keyPeriod picks the period to embed in the published key: the requested
// one when pinned by the caller, otherwise the effective window. A
// substituted adaptive window keeps the requested key so consumers find
// the series under the name they asked for.
func (r Request) keyPeriod(effective int) int {
	if r.Period > 0 {
		return r.Period
	}

	return effective
}

func (e *Engine) resolve(n int, req Request, requested int, key WindowKey) int {
	if !req.Adaptive && requested > 0 {
		return requested
	}

	effective, substituted := e.config.Regimes.adaptiveWindow(n, requested, key)
	if substituted {
		e.logger.Warn("substituted adaptive indicator window",
			zap.String("window", string(key)),
			zap.Int("requested", requested),
			zap.Int("effective", effective),
			zap.Int("bars", n),
		)
	}

	return effective
}

func (e *Engine) addSingle(set *Set, key types.IndicatorKey, values Series, n, required int, req Request) error {
	if n < required {
		if req.Mandatory {
			return e.insufficient(string(key), required, n, "")
		}

		e.logSkip(string(key), required, n)
		set.Add(key, Missing(n))

		return nil
	}

	set.Add(key, values)

	return nil
}

func (e *Engine) insufficient(name string, required, actual int, symbol string) error {
	cause := errors.NewInsufficientDataErrorf(required, actual, symbol,
		"insufficient bars for mandatory indicator %s: %d available, %d required", name, actual, required)

	return errors.Wrapf(errors.ErrCodeIndicatorCalculation, cause,
		"mandatory indicator %s could not be computed", name)
}

func (e *Engine) logSkip(name string, required, actual int) {
	e.logger.Warn("skipping optional indicator",
		zap.String("indicator", name),
		zap.Int("required", required),
		zap.Int("available", actual),
	)
}
