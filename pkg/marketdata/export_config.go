package marketdata

import (
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rxtech-lab/argo-tickerdata/pkg/errors"
	"github.com/rxtech-lab/argo-tickerdata/pkg/marketdata/provider"
	"github.com/rxtech-lab/argo-tickerdata/pkg/marketdata/writer"
)

// ExportConfig is the user facing configuration of an export run, loaded from a
// config file, the environment or command line flags.
type ExportConfig struct {
	Ticker        string   `mapstructure:"ticker" json:"ticker" yaml:"ticker" jsonschema:"title=Ticker,description=The symbol to export (e.g. AAPL or SPY),required" validate:"required,excludesall=/\\,excludes=.."`
	Provider      string   `mapstructure:"provider" json:"provider" yaml:"provider" jsonschema:"title=Provider,description=Market data provider,enum=yahoo,enum=polygon,default=yahoo" validate:"required,oneof=yahoo polygon"`
	Writer        string   `mapstructure:"writer" json:"writer" yaml:"writer" jsonschema:"title=Writer,description=Output file format,enum=csv,enum=parquet,default=csv" validate:"required,oneof=csv parquet"`
	DataPath      string   `mapstructure:"data_path" json:"dataPath" yaml:"data_path" jsonschema:"title=Data Path,description=Directory that receives one sub directory per ticker,default=data" validate:"required"`
	Period        string   `mapstructure:"period" json:"period" yaml:"period" jsonschema:"title=Period,description=Trailing window such as 7d or 3mo or 2y or max,default=max" validate:"required"`
	Interval      string   `mapstructure:"interval" json:"interval" yaml:"interval" jsonschema:"title=Interval,description=Price bar size,enum=1m,enum=2m,enum=5m,enum=15m,enum=30m,enum=60m,enum=90m,enum=1h,enum=1d,enum=5d,enum=1wk,enum=1mo,enum=3mo,default=1d" validate:"required,oneof=1m 2m 5m 15m 30m 60m 90m 1h 1d 5d 1wk 1mo 3mo"`
	Slices        []string `mapstructure:"slices" json:"slices,omitempty" yaml:"slices,omitempty" jsonschema:"title=Slices,description=Tables to export; empty exports all"`
	Concurrency   int      `mapstructure:"concurrency" json:"concurrency" yaml:"concurrency" jsonschema:"title=Concurrency,description=Maximum number of slices fetched at once,minimum=0,maximum=32,default=4" validate:"gte=0,lte=32"`
	PolygonApiKey string   `mapstructure:"polygon_api_key" json:"polygonApiKey,omitempty" yaml:"polygon_api_key,omitempty" jsonschema:"title=Polygon API Key,description=Polygon.io API key; required for the polygon provider" validate:"required_if=Provider polygon"`
	YahooBaseURL  string   `mapstructure:"yahoo_base_url" json:"yahooBaseUrl,omitempty" yaml:"yahoo_base_url,omitempty" jsonschema:"title=Yahoo Base URL,description=Override of the Yahoo Finance API host" validate:"omitempty,url"`
}

// Validate checks field constraints plus the period and slice grammars.
func (c *ExportConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}

	if _, err := ParsePeriod(c.Period); err != nil {
		return err
	}

	if _, err := ParseSlices(c.Slices); err != nil {
		return err
	}

	return nil
}

// ToClientConfig converts the config to a ClientConfig.
func (c *ExportConfig) ToClientConfig() ClientConfig {
	return ClientConfig{
		ProviderType:  provider.ProviderType(c.Provider),
		WriterType:    writer.WriterType(c.Writer),
		DataPath:      c.DataPath,
		PolygonApiKey: c.PolygonApiKey,
		YahooBaseURL:  c.YahooBaseURL,
		Concurrency:   c.Concurrency,
	}
}

// ToExportParams converts the config to ExportParams.
func (c *ExportConfig) ToExportParams() (ExportParams, error) {
	slices, err := ParseSlices(c.Slices)
	if err != nil {
		return ExportParams{}, err
	}

	interval, err := ParseInterval(c.Interval)
	if err != nil {
		return ExportParams{}, err
	}

	return ExportParams{
		Ticker:   strings.TrimSpace(c.Ticker),
		Period:   c.Period,
		Interval: interval,
		Slices:   slices,
	}, nil
}

// ParseExportConfig parses JSON into an ExportConfig and validates it.
func ParseExportConfig(jsonConfig string) (*ExportConfig, error) {
	var config ExportConfig
	if err := json.Unmarshal([]byte(jsonConfig), &config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse JSON config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}
