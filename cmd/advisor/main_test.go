package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/marketlens/marketlens/internal/config"
	"github.com/marketlens/marketlens/internal/indicator"
	"github.com/marketlens/marketlens/internal/model"
	"github.com/marketlens/marketlens/internal/types"
)

type MainTestSuite struct {
	suite.Suite
}

func TestMainSuite(t *testing.T) {
	suite.Run(t, new(MainTestSuite))
}

func customParams() config.ModelParams {
	return config.ModelParams{
		MAFastPeriod:   30,
		MASlowPeriod:   100,
		RSIPeriod:      21,
		RSIOversold:    30,
		RSIOverbought:  70,
		MACDFastPeriod: 8,
		MACDSlowPeriod: 17,
		MACDSignal:     9,
		BBPeriod:       10,
		BBStdDev:       2.5,
	}
}

func (suite *MainTestSuite) TestBuildRequestsCarriesConfiguredPeriods() {
	requests := buildRequests(customParams())

	smaPeriods := make(map[int]bool)
	var rsiPeriod int
	var macd, bb indicator.Request
	for _, req := range requests {
		switch req.Kind {
		case types.IndicatorSMA:
			smaPeriods[req.Period] = true
			if req.Period == 100 {
				suite.True(req.Mandatory, "slow SMA must be mandatory")
			}
		case types.IndicatorRSI:
			rsiPeriod = req.Period
			suite.True(req.Mandatory)
		case types.IndicatorMACD:
			macd = req
		case types.IndicatorBollingerBands:
			bb = req
		case types.IndicatorATR:
			suite.Equal(14, req.Period)
		}
	}

	suite.True(smaPeriods[30])
	suite.True(smaPeriods[100])
	suite.True(smaPeriods[20], "the RSI model's trend SMA is always included")
	suite.Equal(21, rsiPeriod)
	suite.Equal(8, macd.Fast)
	suite.Equal(17, macd.Slow)
	suite.Equal(9, macd.Signal)
	suite.Equal(10, bb.Period)
	suite.Equal(2.5, bb.StdDev)
}

func (suite *MainTestSuite) TestBuildRequestsDeduplicatesSMAPeriods() {
	params := customParams()
	params.MAFastPeriod = 10
	params.MASlowPeriod = 20

	requests := buildRequests(params)

	count := make(map[int]int)
	var slowMandatory bool
	for _, req := range requests {
		if req.Kind == types.IndicatorSMA {
			count[req.Period]++
			if req.Period == 20 {
				slowMandatory = req.Mandatory
			}
		}
	}

	suite.Equal(1, count[10])
	suite.Equal(1, count[20])
	suite.True(slowMandatory, "the slow period keeps its mandatory flag when it collides with the trend SMA")
}

// Non-default periods must produce the keys the models look up; with the
// stock battery they would all come back not-computed and degrade.
func (suite *MainTestSuite) TestConfiguredModelsFindTheirIndicators() {
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]types.Bar, 400)
	for i := range bars {
		price := 100 + float64(i)*0.5
		bars[i] = types.Bar{
			Time:   start.AddDate(0, 0, i),
			Open:   price,
			High:   price + 1,
			Low:    price - 1,
			Close:  price,
			Volume: 1000,
		}
	}
	series := &types.PriceSeries{Symbol: "TEST", Granularity: types.GranularityDaily, Bars: bars}

	params := customParams()
	engine := indicator.NewEngine(indicator.Config{}, nil)
	set, err := engine.Compute(series, buildRequests(params))
	suite.Require().NoError(err)

	suite.True(set.Lookup(types.SMAKey(30)).Found())
	suite.True(set.Lookup(types.SMAKey(100)).Found())
	suite.True(set.Lookup(types.RSIKey(21)).Found())

	models := []model.Model{
		model.NewMACrossover(params.MAFastPeriod, params.MASlowPeriod),
		model.NewRSIMeanReversion(params.RSIPeriod, params.RSIOversold, params.RSIOverbought),
		model.NewMACDMomentum(params.MACDFastPeriod, params.MACDSlowPeriod, params.MACDSignal),
		model.NewBollingerBands(params.BBPeriod, params.BBStdDev),
	}

	for _, m := range models {
		rec := m.Analyze(series, set)
		suite.False(rec.Failed(), "%s: %s", m.Name(), rec.Err)
	}
}
