package types

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/marketlens/marketlens/pkg/errors"
)

func barsEvery(start time.Time, step time.Duration, closes ...float64) []Bar {
	out := make([]Bar, len(closes))
	for i, c := range closes {
		out[i] = Bar{
			Time:   start.Add(time.Duration(i) * step),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}

	return out
}

type BarTestSuite struct {
	suite.Suite
	start time.Time
}

func (suite *BarTestSuite) SetupTest() {
	suite.start = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
}

func TestBarSuite(t *testing.T) {
	suite.Run(t, new(BarTestSuite))
}

func (suite *BarTestSuite) TestValidateAcceptsOrderedSeries() {
	series := &PriceSeries{
		Symbol: "AAPL",
		Bars:   barsEvery(suite.start, 24*time.Hour, 100, 101, 102),
	}

	suite.NoError(series.Validate())
}

func (suite *BarTestSuite) TestValidateRejectsEmptySeries() {
	series := &PriceSeries{Symbol: "AAPL"}

	err := series.Validate()

	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeEmptySeries))
}

func (suite *BarTestSuite) TestValidateRejectsOutOfOrderBars() {
	bars := barsEvery(suite.start, 24*time.Hour, 100, 101, 102)
	bars[1].Time = bars[2].Time.Add(time.Hour)

	series := &PriceSeries{Symbol: "AAPL", Bars: bars}

	err := series.Validate()

	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeSeriesOrdering))
}

func (suite *BarTestSuite) TestValidateRejectsDuplicateTimestamps() {
	bars := barsEvery(suite.start, 24*time.Hour, 100, 101, 102)
	bars[2].Time = bars[1].Time

	series := &PriceSeries{Symbol: "AAPL", Bars: bars}

	err := series.Validate()

	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeSeriesOrdering))
}

func (suite *BarTestSuite) TestColumnsAlignWithBars() {
	series := &PriceSeries{
		Symbol: "AAPL",
		Bars:   barsEvery(suite.start, 24*time.Hour, 100, 102, 104),
	}

	suite.Equal([]float64{100, 102, 104}, series.Closes())
	suite.Equal([]float64{101, 103, 105}, series.Highs())
	suite.Equal([]float64{99, 101, 103}, series.Lows())
	suite.Equal([]float64{1000, 1000, 1000}, series.Volumes())
	suite.Equal(104.0, series.LatestClose())
	suite.Equal(suite.start, series.Timestamps()[0])
}

func (suite *BarTestSuite) TestVolumesMapNaNToZero() {
	bars := barsEvery(suite.start, 24*time.Hour, 100, 101)
	bars[0].Volume = math.NaN()

	series := &PriceSeries{Symbol: "AAPL", Bars: bars}

	suite.Equal([]float64{0, 1000}, series.Volumes())
}

func (suite *BarTestSuite) TestLatestCloseOfEmptySeriesIsNaN() {
	series := &PriceSeries{Symbol: "AAPL"}

	suite.True(math.IsNaN(series.LatestClose()))
}

func (suite *BarTestSuite) TestDetectGranularity() {
	daily := &PriceSeries{Bars: barsEvery(suite.start, 24*time.Hour, 100, 101, 102)}
	weekly := &PriceSeries{Bars: barsEvery(suite.start, 7*24*time.Hour, 100, 101, 102)}
	single := &PriceSeries{Bars: barsEvery(suite.start, 24*time.Hour, 100)}

	suite.Equal(GranularityDaily, daily.DetectGranularity())
	suite.Equal(GranularityWeekly, weekly.DetectGranularity())
	suite.Equal(GranularityDaily, single.DetectGranularity())
}

func (suite *BarTestSuite) TestDetectGranularityBoundary() {
	// exactly 24h average is still daily, anything above tips to weekly
	exact := &PriceSeries{Bars: barsEvery(suite.start, 24*time.Hour, 100, 101)}
	above := &PriceSeries{Bars: barsEvery(suite.start, 25*time.Hour, 100, 101)}

	suite.Equal(GranularityDaily, exact.DetectGranularity())
	suite.Equal(GranularityWeekly, above.DetectGranularity())
}
