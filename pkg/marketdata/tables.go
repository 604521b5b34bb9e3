package marketdata

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rxtech-lab/argo-tickerdata/internal/types"
)

const (
	awareTimeLayout = "2006-01-02 15:04:05-07:00"
	naiveTimeLayout = "2006-01-02 15:04:05"
	periodEndLayout = "2006-01-02"
)

func formatTime(t time.Time, naive bool) string {
	if naive {
		return t.Format(naiveTimeLayout)
	}

	return t.Format(awareTimeLayout)
}

// formatValue renders v in its shortest exact decimal form.
func formatValue(v float64) string {
	return decimal.NewFromFloat(v).String()
}

// OHLCTable builds the Date,Open,High,Low,Close,Volume table.
func OHLCTable(name string, bars []types.MarketData) types.Table {
	table := types.Table{
		Name:   name,
		Header: []string{"Date", "Open", "High", "Low", "Close", "Volume"},
		Rows:   make([][]string, 0, len(bars)),
	}

	for _, bar := range bars {
		table.Rows = append(table.Rows, []string{
			formatTime(bar.Time, false),
			formatValue(bar.Open),
			formatValue(bar.High),
			formatValue(bar.Low),
			formatValue(bar.Close),
			formatValue(bar.Volume),
		})
	}

	return table
}

// VolumeTable builds the Date,Volume table.
func VolumeTable(name string, bars []types.MarketData) types.Table {
	table := types.Table{
		Name:   name,
		Header: []string{"Date", "Volume"},
		Rows:   make([][]string, 0, len(bars)),
	}

	for _, bar := range bars {
		table.Rows = append(table.Rows, []string{formatTime(bar.Time, false), formatValue(bar.Volume)})
	}

	return table
}

// SeriesTable builds a two column Date,<column> table from a series.
func SeriesTable(name string, column string, series types.TimeSeries[float64]) types.Table {
	table := types.Table{
		Name:   name,
		Header: []string{"Date", column},
		Rows:   make([][]string, 0, series.Len()),
	}

	for _, point := range series.Points {
		table.Rows = append(table.Rows, []string{formatTime(point.Time, series.IsNaive()), formatValue(point.Value)})
	}

	return table
}

// ActionsTable outer joins dividends and splits on timestamp. A side with no event at
// a timestamp contributes 0.
func ActionsTable(name string, dividends types.TimeSeries[float64], splits types.TimeSeries[float64]) types.Table {
	type action struct {
		at       time.Time
		naive    bool
		dividend float64
		split    float64
	}

	var actions []*action

	byInstant := map[int64]*action{}

	upsert := func(t time.Time, naive bool) *action {
		key := t.UnixNano()
		if a, ok := byInstant[key]; ok {
			return a
		}

		a := &action{at: t, naive: naive}
		byInstant[key] = a
		actions = append(actions, a)

		return a
	}

	for _, p := range dividends.Points {
		upsert(p.Time, dividends.IsNaive()).dividend += p.Value
	}

	for _, p := range splits.Points {
		upsert(p.Time, splits.IsNaive()).split = p.Value
	}

	sort.SliceStable(actions, func(i, j int) bool {
		return actions[i].at.Before(actions[j].at)
	})

	table := types.Table{
		Name:   name,
		Header: []string{"Date", "Dividends", "Stock Splits"},
		Rows:   make([][]string, 0, len(actions)),
	}

	for _, a := range actions {
		table.Rows = append(table.Rows, []string{formatTime(a.at, a.naive), formatValue(a.dividend), formatValue(a.split)})
	}

	return table
}

// InfoTable builds the Field,Info table from a profile.
func InfoTable(name string, profile types.Profile) types.Table {
	table := types.Table{
		Name:   name,
		Header: []string{"Field", "Info"},
		Rows:   make([][]string, 0, len(profile.Fields)),
	}

	for _, field := range profile.Fields {
		table.Rows = append(table.Rows, []string{field.Key, field.Value})
	}

	return table
}

// StatementTable pivots statements of one kind into line items by period end, newest
// period first. Annual filings are preferred when present; the first filing wins for a
// repeated period end. Missing values are left blank.
func StatementTable(name string, kind types.StatementKind, statements []types.FinancialStatement) types.Table {
	var selected []types.FinancialStatement

	hasAnnual := false

	for _, s := range statements {
		if s.Kind != kind {
			continue
		}

		selected = append(selected, s)

		if s.FiscalPeriod == "FY" {
			hasAnnual = true
		}
	}

	var columns []types.FinancialStatement

	seen := map[string]bool{}

	for _, s := range selected {
		if hasAnnual && s.FiscalPeriod != "FY" {
			continue
		}

		key := s.PeriodEnd.Format(periodEndLayout)
		if seen[key] {
			continue
		}

		seen[key] = true
		columns = append(columns, s)
	}

	sort.SliceStable(columns, func(i, j int) bool {
		return columns[i].PeriodEnd.After(columns[j].PeriodEnd)
	})

	header := []string{"Line Item"}
	labels := map[string]bool{}

	for _, s := range columns {
		header = append(header, s.PeriodEnd.Format(periodEndLayout))

		for label := range s.Items {
			labels[label] = true
		}
	}

	lineItems := make([]string, 0, len(labels))
	for label := range labels {
		lineItems = append(lineItems, label)
	}

	sort.Strings(lineItems)

	table := types.Table{
		Name:   name,
		Header: header,
		Rows:   make([][]string, 0, len(lineItems)),
	}

	for _, label := range lineItems {
		row := []string{label}

		for _, s := range columns {
			if v, ok := s.Items[label]; ok {
				row = append(row, formatValue(v))
			} else {
				row = append(row, "")
			}
		}

		table.Rows = append(table.Rows, row)
	}

	return table
}
