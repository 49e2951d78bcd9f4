package marketdata

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"

	"github.com/marketlens/marketlens/internal/logger"
	"github.com/marketlens/marketlens/internal/types"
	"github.com/marketlens/marketlens/pkg/errors"
)

// DuckDBSource serves bars from a local CSV or Parquet archive through an
// in-memory DuckDB instance. Weekly bars are aggregated on the fly with
// time_bucket, so the archive only needs daily rows.
type DuckDBSource struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewDuckDBSource opens an in-memory DuckDB and exposes the archive at
// path as a market_data view. The archive must have time, symbol, open,
// high, low, close and volume columns.
func NewDuckDBSource(path string, log *logger.Logger) (*DuckDBSource, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to open duckdb", err)
	}

	reader := "read_csv_auto"
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".parquet" {
		reader = "read_parquet"
	}

	query := fmt.Sprintf(`
		CREATE VIEW market_data AS
		SELECT * FROM %s('%s');
	`, reader, path)

	if _, err := db.Exec(query); err != nil {
		db.Close()

		return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to create market_data view for %s", path)
	}

	log.Debug("opened market data archive", zap.String("path", path))

	return &DuckDBSource{db: db, logger: log}, nil
}

// Symbols implements Source.
func (s *DuckDBSource) Symbols(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT symbol FROM market_data ORDER BY symbol")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to list symbols", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan symbol", err)
		}
		symbols = append(symbols, symbol)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to iterate symbols", err)
	}

	return symbols, nil
}

// Fetch implements Source.
func (s *DuckDBSource) Fetch(ctx context.Context, symbol string, granularity types.Granularity, limit int) (*types.PriceSeries, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}

	var query string
	switch granularity {
	case types.GranularityDaily:
		query = `
			SELECT time, open, high, low, close, volume
			FROM market_data
			WHERE symbol = ?
			ORDER BY time ASC
		`
	case types.GranularityWeekly:
		// Aggregate daily rows into calendar weeks. LAST_VALUE needs the
		// unbounded frame to pick the week's final close.
		query = `
			WITH weekly AS MATERIALIZED (
				SELECT
					time_bucket(INTERVAL '7 days', time) AS bucket_time,
					FIRST_VALUE(open) OVER w_ord AS open,
					MAX(high) OVER w AS high,
					MIN(low) OVER w AS low,
					LAST_VALUE(close) OVER (PARTITION BY time_bucket(INTERVAL '7 days', time) ORDER BY time ROWS BETWEEN UNBOUNDED PRECEDING AND UNBOUNDED FOLLOWING) AS close,
					SUM(volume) OVER w AS volume
				FROM market_data
				WHERE symbol = ?
				WINDOW
					w AS (PARTITION BY time_bucket(INTERVAL '7 days', time)),
					w_ord AS (PARTITION BY time_bucket(INTERVAL '7 days', time) ORDER BY time)
			)
			SELECT DISTINCT bucket_time AS time, open, high, low, close, volume
			FROM weekly
			ORDER BY bucket_time ASC
		`
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidTimespan, "unsupported granularity: %s", granularity)
	}

	stmt, err := s.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to prepare query", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, symbol)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to query bars for %s", symbol)
	}
	defer rows.Close()

	bars := make([]types.Bar, 0, 256)
	for rows.Next() {
		var timestamp time.Time
		var open, high, low, closePrice, volume sql.NullFloat64

		if err := rows.Scan(&timestamp, &open, &high, &low, &closePrice, &volume); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan bar", err)
		}

		bars = append(bars, types.Bar{
			Time:   timestamp,
			Open:   nullable(open),
			High:   nullable(high),
			Low:    nullable(low),
			Close:  nullable(closePrice),
			Volume: nullable(volume),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to iterate bars for %s", symbol)
	}

	if len(bars) == 0 {
		return nil, errors.Newf(errors.ErrCodeNoData, "no data available for symbol %s", symbol)
	}

	if limit > 0 && len(bars) > limit {
		bars = bars[len(bars)-limit:]
	}

	series := &types.PriceSeries{
		Symbol:      symbol,
		Granularity: granularity,
		Bars:        bars,
	}

	if err := series.Validate(); err != nil {
		return nil, err
	}

	s.logger.Debug("fetched bars",
		zap.String("symbol", symbol),
		zap.String("granularity", string(granularity)),
		zap.Int("bars", len(bars)))

	return series, nil
}

// Close implements Source.
func (s *DuckDBSource) Close() error {
	if s.db == nil {
		return nil
	}

	return s.db.Close()
}

func nullable(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}

	return v.Float64
}
