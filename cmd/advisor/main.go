package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/marketlens/marketlens/internal/analyzer"
	"github.com/marketlens/marketlens/internal/config"
	"github.com/marketlens/marketlens/internal/indicator"
	"github.com/marketlens/marketlens/internal/logger"
	"github.com/marketlens/marketlens/internal/marketdata"
	"github.com/marketlens/marketlens/internal/model"
	"github.com/marketlens/marketlens/internal/types"
)

// analyzeAction is the core logic executed by the CLI command. It loads
// configuration, opens the data archive, runs the analysis for every
// requested symbol, and prints a compact summary per symbol.
func analyzeAction(ctx context.Context, cmd *cli.Command) error {
	cfg := config.Default()
	if path := cmd.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if data := cmd.String("data"); data != "" {
		cfg.DataPath = data
	}
	if cmd.IsSet("limit") {
		cfg.BarLimit = int(cmd.Int("limit"))
	}
	if cmd.IsSet("concurrency") {
		cfg.Concurrency = int(cmd.Int("concurrency"))
	}
	if symbols := cmd.StringSlice("symbol"); len(symbols) > 0 {
		cfg.Symbols = symbols
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	source, err := marketdata.NewDuckDBSource(cfg.DataPath, log)
	if err != nil {
		return err
	}
	defer source.Close()

	symbols := cfg.Symbols
	if len(symbols) == 0 {
		symbols, err = source.Symbols(ctx)
		if err != nil {
			return err
		}
	}
	if len(symbols) == 0 {
		return fmt.Errorf("no symbols to analyze")
	}

	models := []model.Model{
		model.NewMACrossover(cfg.Models.MAFastPeriod, cfg.Models.MASlowPeriod),
		model.NewRSIMeanReversion(cfg.Models.RSIPeriod, cfg.Models.RSIOversold, cfg.Models.RSIOverbought),
		model.NewMACDMomentum(cfg.Models.MACDFastPeriod, cfg.Models.MACDSlowPeriod, cfg.Models.MACDSignal),
		model.NewBollingerBands(cfg.Models.BBPeriod, cfg.Models.BBStdDev),
	}

	engine := indicator.NewEngine(indicator.Config{}, log)
	runner := analyzer.New(source, engine, models, analyzer.Config{
		BarLimit:    cfg.BarLimit,
		Concurrency: cfg.Concurrency,
		Requests:    buildRequests(cfg.Models),
	}, log)

	log.Info("starting analysis",
		zap.Int("symbols", len(symbols)),
		zap.Int("concurrency", cfg.Concurrency))

	bar := progressbar.Default(int64(len(symbols)))

	results := make([]*types.AnalysisResult, 0, len(symbols))
	for _, batch := range chunk(symbols, cfg.Concurrency) {
		results = append(results, runner.AnalyzeBatch(ctx, batch)...)
		if err := bar.Add(len(batch)); err != nil {
			log.Warn("progress bar update failed", zap.Error(err))
		}
	}

	fmt.Println()
	for _, result := range results {
		printSummary(result)
	}

	return nil
}

// buildRequests translates the configured model parameters into the
// indicator battery, so the models find their series under the periods
// they were constructed with.
func buildRequests(params config.ModelParams) []indicator.Request {
	var requests []indicator.Request
	seenSMA := make(map[int]bool)
	addSMA := func(period int, mandatory bool) {
		if seenSMA[period] {
			return
		}
		seenSMA[period] = true
		requests = append(requests, indicator.Request{
			Kind: types.IndicatorSMA, Period: period, Mandatory: mandatory, Adaptive: true,
		})
	}

	addSMA(params.MASlowPeriod, true)
	addSMA(params.MAFastPeriod, false)
	// the RSI model confirms against the 20-bar trend SMA
	addSMA(20, false)

	return append(requests,
		indicator.Request{Kind: types.IndicatorEMA, Period: params.MAFastPeriod, Adaptive: true},
		indicator.Request{Kind: types.IndicatorEMA, Period: params.MASlowPeriod, Adaptive: true},
		indicator.Request{Kind: types.IndicatorRSI, Period: params.RSIPeriod, Mandatory: true},
		indicator.Request{Kind: types.IndicatorMACD, Fast: params.MACDFastPeriod, Slow: params.MACDSlowPeriod, Signal: params.MACDSignal, Mandatory: true, Adaptive: true},
		indicator.Request{Kind: types.IndicatorBollingerBands, Period: params.BBPeriod, StdDev: params.BBStdDev, Mandatory: true, Adaptive: true},
		indicator.Request{Kind: types.IndicatorATR, Period: 14, Mandatory: true},
	)
}

// chunk splits symbols into batches of at most size elements.
func chunk(symbols []string, size int) [][]string {
	if size < 1 {
		size = 1
	}

	var out [][]string
	for len(symbols) > size {
		out = append(out, symbols[:size])
		symbols = symbols[size:]
	}

	return append(out, symbols)
}

func printSummary(result *types.AnalysisResult) {
	fmt.Printf("%s [%s]\n", result.Symbol, result.Status)

	if result.Status == types.StatusFailure && result.Consensus.ModelCount == 0 {
		for _, e := range result.Errors {
			fmt.Printf("  error: %s\n", e)
		}
		fmt.Println()

		return
	}

	fmt.Printf("  price: %.2f (%d %s bars)\n", result.CurrentPrice, result.DataPoints, result.Granularity)
	fmt.Printf("  consensus: %s (%d%%, %s) over %s\n",
		result.Consensus.Signal, result.Consensus.Confidence,
		result.Consensus.Agreement, result.Consensus.Timeframe)
	fmt.Printf("  votes: %d buy / %d sell / %d hold / %d wait / %d errors\n",
		result.Consensus.Votes.Buy, result.Consensus.Votes.Sell,
		result.Consensus.Votes.Hold, result.Consensus.Votes.Wait,
		result.Consensus.Votes.Errors)
	fmt.Printf("  risk: %s (ATR %.2f, %.2f%%)\n", result.Risk.Level, result.Risk.ATR, result.Risk.ATRPercent)
	fmt.Printf("  levels: support %.2f / resistance %.2f\n", result.Levels.Support, result.Levels.Resistance)

	for _, rec := range result.Recommendations {
		if rec.Failed() {
			fmt.Printf("  - %-28s degraded: %s\n", rec.Model, rec.Err)
			continue
		}
		fmt.Printf("  - %-28s %s (%d%%): %s\n", rec.Model, rec.Signal, rec.Confidence, strings.Join(rec.Reasoning, "; "))
	}
	fmt.Println()
}

func main() {
	cmd := &cli.Command{
		Name:  "advisor",
		Usage: "Run multi-model technical analysis over historical bars",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Path to CSV or Parquet bar archive (overrides config)",
			},
			&cli.StringSliceFlag{
				Name:    "symbol",
				Aliases: []string{"s"},
				Usage:   "Symbol to analyze (repeatable; defaults to every symbol in the archive)",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of bars per symbol (0 = all)",
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Usage: "Number of symbols analyzed in parallel",
			},
		},
		Action: analyzeAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
