// Package marketdata loads price history for analysis. The DuckDB-backed
// source reads local CSV or Parquet archives; the Source interface keeps
// the analyzer independent of where bars come from.
package marketdata

import (
	"context"

	"github.com/marketlens/marketlens/internal/types"
	"github.com/marketlens/marketlens/pkg/errors"
)

// Source provides historical bars for a symbol at a given granularity.
type Source interface {
	// Fetch returns up to limit bars for the symbol in ascending time
	// order. limit <= 0 means no cap.
	Fetch(ctx context.Context, symbol string, granularity types.Granularity, limit int) (*types.PriceSeries, error)

	// Symbols lists the symbols the source can serve.
	Symbols(ctx context.Context) ([]string, error)

	Close() error
}

// minDailyBars is the threshold below which a daily history is considered
// too short for the long-window indicators and the fetch retries at
// weekly granularity.
const minDailyBars = 200

// FetchWithFallback fetches daily bars and falls back to weekly bars when
// the daily history is too short for the long moving averages. The
// returned series carries a note when the fallback fired.
func FetchWithFallback(ctx context.Context, source Source, symbol string, limit int) (*types.PriceSeries, error) {
	daily, err := source.Fetch(ctx, symbol, types.GranularityDaily, limit)
	if err != nil {
		return nil, err
	}

	if daily.Len() >= minDailyBars {
		return daily, nil
	}

	weekly, err := source.Fetch(ctx, symbol, types.GranularityWeekly, limit)
	if err != nil || weekly.Len() <= daily.Len() {
		// A short daily history still beats nothing.
		return daily, nil
	}

	weekly.Note = "daily history too short, using weekly bars"

	return weekly, nil
}

// ValidateSymbol rejects symbols the sources cannot serve before any
// query runs.
func ValidateSymbol(symbol string) error {
	if symbol == "" {
		return errors.New(errors.ErrCodeInvalidSymbol, "symbol must not be empty")
	}

	for _, r := range symbol {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '.' || r == '-':
		default:
			return errors.Newf(errors.ErrCodeInvalidSymbol, "symbol %q contains invalid character %q", symbol, r)
		}
	}

	return nil
}
