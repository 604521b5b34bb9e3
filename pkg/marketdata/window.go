package marketdata

import (
	"time"

	"github.com/rxtech-lab/argo-tickerdata/internal/types"
)

// FilterSeries keeps the points of series that fall inside the trailing window named by
// period, ending now. See FilterSeriesAt.
func FilterSeries[V any](series types.TimeSeries[V], period string) (types.TimeSeries[V], error) {
	return FilterSeriesAt(series, period, time.Now())
}

// FilterSeriesAt keeps the points t of series with now-period <= t <= now, in their
// original order.
//
// "max" and empty series are returned unchanged, the latter for any period string.
// now is expressed in the series location before any arithmetic; for a naive series the
// local wall clock is used. A malformed period returns ErrCodeInvalidPeriodFormat.
func FilterSeriesAt[V any](series types.TimeSeries[V], period string, now time.Time) (types.TimeSeries[V], error) {
	if period == PeriodMax || series.IsEmpty() {
		return series, nil
	}

	window, err := trailingWindow(period, anchor(now, series.Location))
	if err != nil {
		return types.TimeSeries[V]{}, err
	}

	points := keepWithin(series.Points, func(p types.Point[V]) time.Time { return p.Time }, window)

	return series.WithPoints(points), nil
}

// FilterBarsAt applies the same window to price bars. Bars always carry a location; the
// first bar's location anchors now.
func FilterBarsAt(bars []types.MarketData, period string, now time.Time) ([]types.MarketData, error) {
	if period == PeriodMax || len(bars) == 0 {
		return bars, nil
	}

	window, err := trailingWindow(period, now.In(bars[0].Time.Location()))
	if err != nil {
		return nil, err
	}

	return keepWithin(bars, types.BarTime, window), nil
}

func trailingWindow(period string, end time.Time) (types.DateRange, error) {
	p, err := ParsePeriod(period)
	if err != nil {
		return types.DateRange{}, err
	}

	return types.DateRange{Start: p.Start(end), End: end}, nil
}

func anchor(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		return types.StripZone(now.In(time.Local))
	}

	return now.In(loc)
}

func keepWithin[T any](items []T, at func(T) time.Time, window types.DateRange) []T {
	out := make([]T, 0, len(items))

	for _, item := range items {
		if window.Contains(at(item)) {
			out = append(out, item)
		}
	}

	return out
}
