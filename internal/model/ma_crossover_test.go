package model

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/marketlens/marketlens/internal/indicator"
	"github.com/marketlens/marketlens/internal/types"
)

type MACrossoverTestSuite struct {
	suite.Suite
}

func TestMACrossoverSuite(t *testing.T) {
	suite.Run(t, new(MACrossoverTestSuite))
}

func (suite *MACrossoverTestSuite) TestSteadyUptrendSignalsBuy() {
	series := trendingSeries(300, 100, 1)
	set := computedSet(series)

	rec := NewMACrossover(50, 200).Analyze(series, set)

	suite.False(rec.Failed())
	suite.Equal(types.SignalBuy, rec.Signal)
	suite.GreaterOrEqual(rec.Confidence, 60)

	payload, ok := rec.Detail.(types.MAPayload)
	suite.Require().True(ok)
	suite.Equal("Uptrend", payload.TrendDirection)
	suite.Greater(payload.FastMA, payload.SlowMA)
}

func (suite *MACrossoverTestSuite) TestGoldenCross() {
	series := trendingSeries(10, 100, 1)
	set := indicator.NewSet()
	// fast was below slow on the previous bar and is above now
	set.Add(types.SMAKey(2), padded(10, 98, 103))
	set.Add(types.SMAKey(3), padded(10, 100, 101))

	rec := NewMACrossover(2, 3).Analyze(series, set)

	suite.Equal(types.SignalBuy, rec.Signal)
	suite.Equal(85, rec.Confidence)

	payload := rec.Detail.(types.MAPayload)
	suite.Equal("Golden Cross - Strong Uptrend", payload.TrendDirection)
}

func (suite *MACrossoverTestSuite) TestDeathCross() {
	series := trendingSeries(10, 100, -1)
	set := indicator.NewSet()
	set.Add(types.SMAKey(2), padded(10, 102, 98.5))
	set.Add(types.SMAKey(3), padded(10, 100, 99))

	rec := NewMACrossover(2, 3).Analyze(series, set)

	suite.Equal(types.SignalSell, rec.Signal)
	suite.Equal(85, rec.Confidence)

	payload := rec.Detail.(types.MAPayload)
	suite.Equal("Death Cross - Strong Downtrend", payload.TrendDirection)
}

func (suite *MACrossoverTestSuite) TestUptrendPriceBelowFastWaits() {
	series := dailySeries(100, 101, 102, 103, 104, 105, 106, 107, 108, 50)
	set := indicator.NewSet()
	set.Add(types.SMAKey(2), padded(10, 104, 104))
	set.Add(types.SMAKey(3), padded(10, 103, 103))

	rec := NewMACrossover(2, 3).Analyze(series, set)

	// fast above slow but price under the fast MA: no entry
	suite.Equal(types.SignalWait, rec.Signal)
}

func (suite *MACrossoverTestSuite) TestInsufficientBarsDegrades() {
	series := trendingSeries(50, 100, 1)
	set := indicator.NewSet()

	rec := NewMACrossover(50, 200).Analyze(series, set)

	suite.True(rec.Failed())
	suite.Equal(types.SignalHold, rec.Signal)
	suite.Equal(0, rec.Confidence)
	suite.Contains(rec.Err, "insufficient data points")
}

func (suite *MACrossoverTestSuite) TestMissingIndicatorDegrades() {
	series := trendingSeries(250, 100, 1)
	set := indicator.NewSet()

	rec := NewMACrossover(50, 200).Analyze(series, set)

	suite.True(rec.Failed())
	suite.Contains(rec.Err, "not computed")
}

func (suite *MACrossoverTestSuite) TestCrossoverWalkKeepsLastFive() {
	// alternate the fast MA around the slow one to force many crossovers
	n := 30
	fast := make(indicator.Series, n)
	slow := make(indicator.Series, n)
	for i := 0; i < n; i++ {
		slow[i] = 100
		if i%2 == 0 {
			fast[i] = 99
		} else {
			fast[i] = 101
		}
	}

	series := trendingSeries(n, 100, 0.1)
	set := indicator.NewSet()
	set.Add(types.SMAKey(2), fast)
	set.Add(types.SMAKey(3), slow)

	rec := NewMACrossover(2, 3).Analyze(series, set)

	payload := rec.Detail.(types.MAPayload)
	suite.Len(payload.Crossovers, 5)

	// events stay in chronological order
	for i := 1; i < len(payload.Crossovers); i++ {
		suite.True(payload.Crossovers[i-1].Time.Before(payload.Crossovers[i].Time))
	}
}

func (suite *MACrossoverTestSuite) TestCrossoverWalkStableOnSubWindow() {
	// rerunning the detector over a tail window that contains every
	// event must reproduce the same timestamps as the full series
	n := 30
	fast := make(indicator.Series, n)
	slow := make(indicator.Series, n)
	for i := 0; i < n; i++ {
		slow[i] = 100
		fast[i] = 99
		if i >= 20 && i%3 == 0 {
			fast[i] = 101
		}
	}

	timestamps := trendingSeries(n, 100, 0.1).Timestamps()

	full := findMACrossovers(fast, slow, timestamps)
	tail := findMACrossovers(fast[15:], slow[15:], timestamps[15:])

	suite.Require().Equal(len(full), len(tail))
	for i := range full {
		suite.Equal(full[i].Time, tail[i].Time)
		suite.Equal(full[i].Type, tail[i].Type)
	}
}

func (suite *MACrossoverTestSuite) TestSeparationStrengthBoostsConfidence() {
	series := trendingSeries(10, 100, 1)
	set := indicator.NewSet()
	// 20% separation, no fresh cross, price above fast
	set.Add(types.SMAKey(2), padded(10, 120, 120))
	set.Add(types.SMAKey(3), padded(10, 100, 100))

	rec := NewMACrossover(2, 3).Analyze(series, set)

	payload := rec.Detail.(types.MAPayload)
	suite.Equal("Very Strong", payload.TrendStrength)
	suite.InDelta(20.0, payload.SeparationPct, 1e-9)
	suite.Equal(75, rec.Confidence) // 60 trend + 15 very strong
}
