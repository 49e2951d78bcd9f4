package types

import "fmt"

// IndicatorKind identifies a family of technical indicators.
type IndicatorKind string

const (
	IndicatorSMA            IndicatorKind = "sma"
	IndicatorEMA            IndicatorKind = "ema"
	IndicatorRSI            IndicatorKind = "rsi"
	IndicatorMACD           IndicatorKind = "macd"
	IndicatorBollingerBands IndicatorKind = "bollinger_bands"
	IndicatorATR            IndicatorKind = "atr"
)

// IndicatorKey names one computed indicator series inside an indicator set.
// Multi-component indicators publish one key per component.
type IndicatorKey string

// Key builders matching the column naming of the indicator engine.
func SMAKey(period int) IndicatorKey { return IndicatorKey(fmt.Sprintf("SMA_%d", period)) }
func EMAKey(period int) IndicatorKey { return IndicatorKey(fmt.Sprintf("EMA_%d", period)) }
func RSIKey(period int) IndicatorKey { return IndicatorKey(fmt.Sprintf("RSI_%d", period)) }
func ATRKey(period int) IndicatorKey { return IndicatorKey(fmt.Sprintf("ATR_%d", period)) }

const (
	KeyMACDLine      IndicatorKey = "MACD.line"
	KeyMACDSignal    IndicatorKey = "MACD.signal"
	KeyMACDHistogram IndicatorKey = "MACD.histogram"
	KeyBBUpper       IndicatorKey = "BB.upper"
	KeyBBMiddle      IndicatorKey = "BB.middle"
	KeyBBLower       IndicatorKey = "BB.lower"
)
