package indicator

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/marketlens/marketlens/internal/types"
	"github.com/marketlens/marketlens/pkg/errors"
)

type EngineTestSuite struct {
	suite.Suite
	engine *Engine
}

func (suite *EngineTestSuite) SetupTest() {
	suite.engine = NewEngine(Config{}, nil)
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

// syntheticSeries builds a daily random-walk series of n bars.
func syntheticSeries(n int, seed int64) *types.PriceSeries {
	r := rand.New(rand.NewSource(seed))
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]types.Bar, n)
	price := 100.0

	for i := range bars {
		price += r.Float64()*2 - 1
		bars[i] = types.Bar{
			Time:   start.AddDate(0, 0, i),
			Open:   price - 0.2,
			High:   price + 0.5,
			Low:    price - 0.5,
			Close:  price,
			Volume: 1000 + r.Float64()*500,
		}
	}

	return &types.PriceSeries{Symbol: "TEST", Granularity: types.GranularityDaily, Bars: bars}
}

func (suite *EngineTestSuite) TestComputeFullBattery() {
	series := syntheticSeries(300, 1)

	set, err := suite.engine.Compute(series, DefaultRequests())
	suite.Require().NoError(err)

	for _, key := range []types.IndicatorKey{
		types.SMAKey(20), types.SMAKey(50), types.SMAKey(200),
		types.EMAKey(20), types.EMAKey(50), types.EMAKey(200),
		types.RSIKey(14),
		types.KeyMACDLine, types.KeyMACDSignal, types.KeyMACDHistogram,
		types.KeyBBUpper, types.KeyBBMiddle, types.KeyBBLower,
		types.ATRKey(14),
	} {
		lookup := set.Lookup(key)
		suite.True(lookup.Found(), "expected %s to be computed", key)
		suite.Len(lookup.Series, 300, "expected %s aligned with input", key)
	}
}

func (suite *EngineTestSuite) TestAdaptiveSubstitutionKeepsRequestedKey() {
	series := syntheticSeries(100, 2)

	set, err := suite.engine.Compute(series, DefaultRequests())
	suite.Require().NoError(err)

	// the 200-bar SMA cannot fit 100 bars; the engine substitutes the
	// regime window but still publishes under the requested name
	lookup := set.Lookup(types.SMAKey(200))
	suite.True(lookup.Found())

	// the substituted window is the medium-regime long window of 50,
	// so the first valid value appears at index 49
	suite.True(lookup.Series.IsMissing(48))
	suite.False(lookup.Series.IsMissing(49))
}

func (suite *EngineTestSuite) TestPinnedMandatoryInsufficiencyFails() {
	series := syntheticSeries(10, 3)
	requests := []Request{
		{Kind: types.IndicatorSMA, Period: 50, Mandatory: true},
	}

	_, err := suite.engine.Compute(series, requests)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeIndicatorCalculation))
	suite.True(errors.IsInsufficientDataError(err))
}

func (suite *EngineTestSuite) TestPinnedOptionalInsufficiencyFillsMissing() {
	series := syntheticSeries(10, 4)
	requests := []Request{
		{Kind: types.IndicatorSMA, Period: 50},
	}

	set, err := suite.engine.Compute(series, requests)
	suite.Require().NoError(err)

	lookup := set.Lookup(types.SMAKey(50))
	suite.Equal(LookupEmpty, lookup.State)
	suite.Len(lookup.Series, 10)
}

func (suite *EngineTestSuite) TestLookupNotComputed() {
	series := syntheticSeries(50, 5)

	set, err := suite.engine.Compute(series, []Request{
		{Kind: types.IndicatorSMA, Period: 10},
	})
	suite.Require().NoError(err)

	suite.Equal(LookupNotComputed, set.Lookup(types.RSIKey(14)).State)
}

func (suite *EngineTestSuite) TestSnapshotHasLatestValues() {
	series := syntheticSeries(250, 6)

	set, err := suite.engine.Compute(series, DefaultRequests())
	suite.Require().NoError(err)

	snapshot := set.Snapshot()
	suite.Contains(snapshot, types.SMAKey(200))
	suite.Contains(snapshot, types.RSIKey(14))
	suite.Contains(snapshot, types.KeyBBMiddle)

	closes := series.Closes()
	manual := SMA(closes, 200)
	suite.InDelta(manual[len(manual)-1], snapshot[types.SMAKey(200)], 1e-9)
}

func (suite *EngineTestSuite) TestUnorderedSeriesRejected() {
	series := syntheticSeries(30, 7)
	series.Bars[5].Time = series.Bars[20].Time

	_, err := suite.engine.Compute(series, DefaultRequests())
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeSeriesOrdering))
}
