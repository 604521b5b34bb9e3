package types

import "time"

// MarketData is a single OHLCV bar for a symbol.
type MarketData struct {
	Symbol string    `csv:"symbol"`
	Time   time.Time `csv:"time"`
	Open   float64   `csv:"open"`
	High   float64   `csv:"high"`
	Low    float64   `csv:"low"`
	Close  float64   `csv:"close"`
	Volume float64   `csv:"volume"`
}

// BarTime returns the bar's timestamp.
func BarTime(bar MarketData) time.Time {
	return bar.Time
}
