package marketdata

import (
	"encoding/json"
	"sort"

	"github.com/invopop/jsonschema"

	"github.com/rxtech-lab/argo-tickerdata/pkg/errors"
	"github.com/rxtech-lab/argo-tickerdata/pkg/marketdata/provider"
)

// ProviderInfo contains metadata about a market data provider.
type ProviderInfo struct {
	Name         string   `json:"name"`
	DisplayName  string   `json:"displayName"`
	Description  string   `json:"description"`
	RequiresAuth bool     `json:"requiresAuth"`
	Slices       []string `json:"slices"`
}

// providerRegistry holds metadata about all supported providers.
var providerRegistry = map[provider.ProviderType]ProviderInfo{
	provider.ProviderYahoo: {
		Name:         string(provider.ProviderYahoo),
		DisplayName:  "Yahoo Finance",
		Description:  "Public chart API with prices, dividends, splits, capital gains and quote metadata",
		RequiresAuth: false,
		Slices: sliceNames(SliceOHLC, SliceVolume, SliceDividends, SliceSplits,
			SliceCapitalGains, SliceActions, SliceInfo),
	},
	provider.ProviderPolygon: {
		Name:         string(provider.ProviderPolygon),
		DisplayName:  "Polygon.io",
		Description:  "US stock market data with aggregates, corporate actions, ticker details and financials",
		RequiresAuth: true,
		Slices:       sliceNames(AllSlices...),
	},
}

func sliceNames(slices ...Slice) []string {
	names := make([]string, len(slices))
	for i, s := range slices {
		names[i] = string(s)
	}

	return names
}

// GetSupportedProviders returns the names of all supported providers, sorted.
func GetSupportedProviders() []string {
	providers := make([]string, 0, len(providerRegistry))
	for providerType := range providerRegistry {
		providers = append(providers, string(providerType))
	}

	sort.Strings(providers)

	return providers
}

// GetProviderInfo returns metadata for a specific provider.
func GetProviderInfo(providerName string) (ProviderInfo, error) {
	info, exists := providerRegistry[provider.ProviderType(providerName)]
	if !exists {
		return ProviderInfo{}, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported provider: %s", providerName)
	}

	return info, nil
}

// GetExportConfigSchema returns the JSON schema of ExportConfig.
func GetExportConfigSchema() (string, error) {
	//nolint:exhaustruct // Empty struct is intentional for schema generation
	return toJSONSchema(ExportConfig{})
}

func toJSONSchema[T any](t T) (string, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = true
	schema := r.Reflect(t)

	jsonSchemaBytes, err := json.Marshal(schema)
	if err != nil {
		return "", err
	}

	return string(jsonSchemaBytes), nil
}
