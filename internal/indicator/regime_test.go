package indicator

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type RegimeUnitTestSuite struct {
	suite.Suite
	table RegimeTable
}

func (suite *RegimeUnitTestSuite) SetupTest() {
	suite.table = DefaultRegimes()
}

func TestRegimeUnitSuite(t *testing.T) {
	suite.Run(t, new(RegimeUnitTestSuite))
}

func (suite *RegimeUnitTestSuite) TestRegimeClassification() {
	suite.Equal(RegimeShort, RegimeFor(10))
	suite.Equal(RegimeShort, RegimeFor(59))
	suite.Equal(RegimeMedium, RegimeFor(60))
	suite.Equal(RegimeMedium, RegimeFor(149))
	suite.Equal(RegimeLong, RegimeFor(150))
	suite.Equal(RegimeLong, RegimeFor(1000))
}

func (suite *RegimeUnitTestSuite) TestRequestedWindowHonored() {
	// 50 bars: a 15-bar window is exactly 30% and passes
	effective, substituted := suite.table.adaptiveWindow(50, 15, WindowSMALong)
	suite.Equal(15, effective)
	suite.False(substituted)
}

func (suite *RegimeUnitTestSuite) TestOversizedWindowSubstituted() {
	// 100 bars: a 200-bar SMA exceeds 30% and falls back to the medium
	// regime default of 50
	effective, substituted := suite.table.adaptiveWindow(100, 200, WindowSMALong)
	suite.Equal(50, effective)
	suite.True(substituted)
}

func (suite *RegimeUnitTestSuite) TestFallbackClampedToQuarter() {
	// 10 bars: the short-regime default of 20 exceeds the data too, so
	// the window clamps to a quarter of the bars
	effective, substituted := suite.table.adaptiveWindow(10, 200, WindowSMALong)
	suite.True(substituted)
	suite.Equal(2, effective) // 10/4 = 2 (integer), floor of 2 enforced
}

func (suite *RegimeUnitTestSuite) TestClampFloorOfTwo() {
	effective, _ := suite.table.adaptiveWindow(3, 50, WindowSMALong)
	suite.Equal(2, effective)
}

func (suite *RegimeUnitTestSuite) TestLongRegimeTable() {
	config := suite.table[RegimeLong]
	suite.Equal(20, config[WindowSMAShort])
	suite.Equal(50, config[WindowSMAMedium])
	suite.Equal(200, config[WindowSMALong])
	suite.Equal(14, config[WindowRSI])
	suite.Equal(12, config[WindowMACDFast])
	suite.Equal(26, config[WindowMACDSlow])
	suite.Equal(9, config[WindowMACDSignal])
	suite.Equal(20, config[WindowBBPeriod])
	suite.Equal(14, config[WindowATR])
}
