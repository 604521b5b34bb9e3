package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/argo-tickerdata/internal/types"
)

// DataGenerator generates realistic ticker history for tests.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how daily bars are generated.
type GeneratorConfig struct {
	Symbol string
	// Start is the first session; bars are stamped at midnight in Location.
	Start    time.Time
	Location *time.Location
	// Sessions is the number of weekday bars to generate.
	Sessions     int
	InitialPrice float64
	// Volatility controls price movement (0.01 = 1% typical daily volatility)
	Volatility float64
	VolumeBase float64
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() GeneratorConfig {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.UTC
	}

	return GeneratorConfig{
		Symbol:       "TEST",
		Start:        time.Date(2023, 1, 3, 0, 0, 0, 0, loc),
		Location:     loc,
		Sessions:     252,
		InitialPrice: 100.0,
		Volatility:   0.015,
		VolumeBase:   1_000_000,
	}
}

// Bars creates daily OHLCV bars on weekdays following a geometric random walk.
func (g *DataGenerator) Bars(config GeneratorConfig) []types.MarketData {
	loc := config.Location
	if loc == nil {
		loc = time.UTC
	}

	bars := make([]types.MarketData, 0, config.Sessions)
	price := config.InitialPrice
	day := time.Date(config.Start.Year(), config.Start.Month(), config.Start.Day(), 0, 0, 0, 0, loc)

	for len(bars) < config.Sessions {
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			day = day.AddDate(0, 0, 1)

			continue
		}

		open := price
		closePrice := math.Max(open*(1+config.Volatility*g.rng.NormFloat64()), open*0.5)
		high := math.Max(open, closePrice) * (1 + math.Abs(g.rng.NormFloat64())*config.Volatility/2)
		low := math.Min(open, closePrice) * (1 - math.Abs(g.rng.NormFloat64())*config.Volatility/2)

		bars = append(bars, types.MarketData{
			Symbol: config.Symbol,
			Time:   day,
			Open:   roundToDecimals(open, 2),
			High:   roundToDecimals(high, 2),
			Low:    roundToDecimals(low, 2),
			Close:  roundToDecimals(closePrice, 2),
			Volume: math.Round(config.VolumeBase * (0.5 + g.rng.Float64())),
		})

		price = closePrice
		day = day.AddDate(0, 0, 1)
	}

	return bars
}

// QuarterlyDividends creates count dividends every three months starting at first.
// Amounts grow by growth each year.
func (g *DataGenerator) QuarterlyDividends(first time.Time, count int, amount float64, growth float64) types.TimeSeries[float64] {
	series := types.NewSeries[float64]("Dividends", first.Location())

	for i := 0; i < count; i++ {
		year := i / 4
		series.Append(first.AddDate(0, 3*i, 0), roundToDecimals(amount*math.Pow(1+growth, float64(year)), 4))
	}

	return series
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))

	return math.Round(val*pow) / pow
}
