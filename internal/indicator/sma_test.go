package indicator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/suite"
)

type SMAUnitTestSuite struct {
	suite.Suite
}

func TestSMAUnitSuite(t *testing.T) {
	suite.Run(t, new(SMAUnitTestSuite))
}

func (suite *SMAUnitTestSuite) TestWarmupCount() {
	data := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	out := SMA(data, 3)

	suite.Len(out, len(data))
	// exactly period-1 leading entries are missing
	suite.True(out.IsMissing(0))
	suite.True(out.IsMissing(1))
	suite.False(out.IsMissing(2))
	suite.Equal(len(data)-2, out.ValidCount())
}

func (suite *SMAUnitTestSuite) TestValues() {
	data := []float64{2, 4, 6, 8, 10}
	out := SMA(data, 2)

	suite.InDelta(3.0, out[1], 1e-9)
	suite.InDelta(5.0, out[2], 1e-9)
	suite.InDelta(7.0, out[3], 1e-9)
	suite.InDelta(9.0, out[4], 1e-9)
}

func (suite *SMAUnitTestSuite) TestMissingInputPropagates() {
	data := []float64{1, 2, math.NaN(), 4, 5, 6}
	out := SMA(data, 3)

	// every window touching the NaN stays missing
	suite.True(out.IsMissing(2))
	suite.True(out.IsMissing(3))
	suite.True(out.IsMissing(4))
	suite.False(out.IsMissing(5))
	suite.InDelta(5.0, out[5], 1e-9)
}

func (suite *SMAUnitTestSuite) TestShortSeries() {
	out := SMA([]float64{1, 2}, 5)

	suite.Len(out, 2)
	suite.Equal(0, out.ValidCount())
}

func (suite *SMAUnitTestSuite) TestRollingStdPopulation() {
	data := []float64{1, 2, 3, 4, 5}
	out := RollingStd(data, 3)

	// population std of {1,2,3} is sqrt(2/3)
	suite.True(out.IsMissing(0))
	suite.True(out.IsMissing(1))
	suite.InDelta(math.Sqrt(2.0/3.0), out[2], 1e-9)
	suite.InDelta(math.Sqrt(2.0/3.0), out[3], 1e-9)
}

func (suite *SMAUnitTestSuite) TestRollingStdConstantSeries() {
	data := []float64{7, 7, 7, 7, 7}
	out := RollingStd(data, 3)

	suite.InDelta(0.0, out[2], 1e-9)
	suite.InDelta(0.0, out[4], 1e-9)
}
