package provider

import (
	"context"
	"fmt"

	"github.com/moznion/go-optional"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-tickerdata/internal/types"
	"github.com/rxtech-lab/argo-tickerdata/pkg/errors"
)

// ProviderType defines the type of market data provider.
type ProviderType string

const (
	ProviderPolygon ProviderType = "polygon"
	ProviderYahoo   ProviderType = "yahoo"
)

type OnDownloadProgress = func(current float64, total float64, message string)

// Provider fetches the raw data slices for a ticker. Methods a provider cannot serve
// return an error with errors.ErrCodeUnsupportedSlice.
type Provider interface {
	// PriceHistory returns OHLCV bars in ascending time order. A none window requests the
	// full available history.
	// example:
	// PriceHistory(ctx, "AAPL", optional.None[types.DateRange](), 1, models.Day)
	PriceHistory(ctx context.Context, ticker string, window optional.Option[types.DateRange], multiplier int, timespan models.Timespan) ([]types.MarketData, error)
	// Dividends returns cash dividends per share keyed by ex-dividend date.
	Dividends(ctx context.Context, ticker string) (types.TimeSeries[float64], error)
	// Splits returns split ratios (new shares per old share) keyed by execution date.
	Splits(ctx context.Context, ticker string) (types.TimeSeries[float64], error)
	// CapitalGains returns capital gain distributions per share.
	CapitalGains(ctx context.Context, ticker string) (types.TimeSeries[float64], error)
	// Info returns descriptive fields about the ticker.
	Info(ctx context.Context, ticker string) (types.Profile, error)
	// Financials returns reported financial statements, one entry per statement and period.
	Financials(ctx context.Context, ticker string) ([]types.FinancialStatement, error)
}

// NewMarketDataProvider creates a new market data provider based on the provider type.
// Polygon expects the API key as config; Yahoo accepts an optional base URL.
func NewMarketDataProvider(providerType ProviderType, config any) (Provider, error) {
	switch providerType {
	case ProviderYahoo:
		baseURL, _ := config.(string)

		return NewYahooClient(baseURL)
	case ProviderPolygon:
		apiKey, ok := config.(string)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidConfiguration, "polygon provider requires API key string config")
		}

		return NewPolygonClient(apiKey)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported market data provider: %s", providerType)
	}
}

func unsupported(provider ProviderType, what string) error {
	return errors.New(errors.ErrCodeUnsupportedSlice, fmt.Sprintf("%s provider does not serve %s", provider, what))
}
