package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	apperrors "github.com/rxtech-lab/argo-tickerdata/pkg/errors"
	"github.com/rxtech-lab/argo-tickerdata/pkg/marketdata"
)

// EnvPrefix prefixes every environment override, e.g. MARKET_PERIOD.
const EnvPrefix = "MARKET"

// DefaultEnvFile is loaded when present and no env file is named explicitly.
const DefaultEnvFile = ".env"

var defaults = map[string]any{
	"ticker":          "",
	"provider":        "yahoo",
	"writer":          "csv",
	"data_path":       "data",
	"period":          marketdata.PeriodMax,
	"interval":        string(marketdata.IntervalOneDay),
	"slices":          []string{},
	"concurrency":     marketdata.DefaultConcurrency,
	"polygon_api_key": "",
	"yahoo_base_url":  "",
}

// Load builds an export configuration from defaults, an optional YAML config file
// and the environment, in increasing order of precedence. envFile is loaded into the
// process environment first; an empty envFile loads .env if it exists.
//
// The result is not validated so callers can apply flag overrides first.
func Load(configFile string, envFile string) (*marketdata.ExportConfig, error) {
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("polygon_api_key", "POLYGON_API_KEY", EnvPrefix+"_POLYGON_API_KEY"); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfiguration, "failed to bind POLYGON_API_KEY", err)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return nil, apperrors.Wrapf(apperrors.ErrCodeInvalidConfiguration, err, "failed to read config file %s", configFile)
		}
	}

	var config marketdata.ExportConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfiguration, "failed to decode config", err)
	}

	return &config, nil
}

func loadEnvFile(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return apperrors.Wrapf(apperrors.ErrCodeInvalidConfiguration, err, "failed to load env file %s", envFile)
		}

		return nil
	}

	if err := godotenv.Load(DefaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return apperrors.Wrap(apperrors.ErrCodeInvalidConfiguration, "failed to load .env", err)
	}

	return nil
}
