package marketdata

import (
	"strings"

	"github.com/rxtech-lab/argo-tickerdata/pkg/errors"
)

// Slice names one exported table for a ticker.
type Slice string

const (
	SliceOHLC            Slice = "ohlc"
	SliceVolume          Slice = "volume"
	SliceDividends       Slice = "dividends"
	SliceSplits          Slice = "splits"
	SliceCapitalGains    Slice = "capital_gains"
	SliceActions         Slice = "actions"
	SliceInfo            Slice = "info"
	SliceIncomeStatement Slice = "income_statement"
	SliceBalanceSheet    Slice = "balance_sheet"
	SliceCashFlow        Slice = "cash_flow"
)

// AllSlices lists every slice in export order.
var AllSlices = []Slice{
	SliceOHLC,
	SliceVolume,
	SliceDividends,
	SliceSplits,
	SliceCapitalGains,
	SliceActions,
	SliceInfo,
	SliceIncomeStatement,
	SliceBalanceSheet,
	SliceCashFlow,
}

// TableName returns the file stem of the slice for ticker, e.g. AAPL_dividends.
func (s Slice) TableName(ticker string) string {
	return ticker + "_" + string(s)
}

// IsValid reports whether s is a known slice.
func (s Slice) IsValid() bool {
	for _, known := range AllSlices {
		if s == known {
			return true
		}
	}

	return false
}

// ParseSlices validates slice names, dropping duplicates. No names selects AllSlices.
func ParseSlices(names []string) ([]Slice, error) {
	if len(names) == 0 {
		return append([]Slice(nil), AllSlices...), nil
	}

	seen := make(map[Slice]bool, len(names))
	slices := make([]Slice, 0, len(names))

	for _, name := range names {
		s := Slice(strings.ToLower(strings.TrimSpace(name)))
		if s == "" {
			continue
		}

		if !s.IsValid() {
			return nil, errors.Newf(errors.ErrCodeInvalidSlice, "unknown slice %q", name)
		}

		if seen[s] {
			continue
		}

		seen[s] = true
		slices = append(slices, s)
	}

	if len(slices) == 0 {
		return append([]Slice(nil), AllSlices...), nil
	}

	return slices, nil
}
