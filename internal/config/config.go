// Package config loads and validates the analysis run configuration from
// YAML.
package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/marketlens/marketlens/pkg/errors"
)

// ModelParams tunes the four signal models.
type ModelParams struct {
	MAFastPeriod   int     `yaml:"ma_fast_period" validate:"gt=1"`
	MASlowPeriod   int     `yaml:"ma_slow_period" validate:"gt=1,gtfield=MAFastPeriod"`
	RSIPeriod      int     `yaml:"rsi_period" validate:"gt=1"`
	RSIOversold    float64 `yaml:"rsi_oversold" validate:"gt=0,lt=100"`
	RSIOverbought  float64 `yaml:"rsi_overbought" validate:"gt=0,lt=100,gtfield=RSIOversold"`
	MACDFastPeriod int     `yaml:"macd_fast_period" validate:"gt=1"`
	MACDSlowPeriod int     `yaml:"macd_slow_period" validate:"gt=1,gtfield=MACDFastPeriod"`
	MACDSignal     int     `yaml:"macd_signal_period" validate:"gt=1"`
	BBPeriod       int     `yaml:"bb_period" validate:"gt=1"`
	BBStdDev       float64 `yaml:"bb_std_dev" validate:"gt=0"`
}

// Config is the top-level run configuration.
type Config struct {
	// DataPath points at the CSV or Parquet bar archive.
	DataPath string `yaml:"data_path" validate:"required"`

	// Symbols to analyze. Empty means every symbol in the archive.
	Symbols []string `yaml:"symbols"`

	// BarLimit caps the bars fetched per symbol. Zero means no cap.
	BarLimit int `yaml:"bar_limit" validate:"gte=0"`

	// Concurrency bounds parallel symbol analysis.
	Concurrency int `yaml:"concurrency" validate:"gte=1"`

	Models ModelParams `yaml:"models"`
}

// Default returns the standard configuration: the classic 50/200, 14,
// 12/26/9 and 20/2 parameter set with four-way concurrency.
func Default() Config {
	return Config{
		Concurrency: 4,
		Models: ModelParams{
			MAFastPeriod:   50,
			MASlowPeriod:   200,
			RSIPeriod:      14,
			RSIOversold:    30,
			RSIOverbought:  70,
			MACDFastPeriod: 12,
			MACDSlowPeriod: 26,
			MACDSignal:     9,
			BBPeriod:       20,
			BBStdDev:       2.0,
		},
	}
}

// Load reads a YAML config file, layering it over the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config file %s", path)
	}

	return Parse(data)
}

// Parse unmarshals YAML config bytes over the defaults and validates the
// result.
func Parse(data []byte) (Config, error) {
	config := Default()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// Validate checks the configuration invariants.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid configuration", err)
	}

	return nil
}
