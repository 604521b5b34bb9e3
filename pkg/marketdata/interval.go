package marketdata

import (
	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-tickerdata/pkg/errors"
)

// Interval is the bar size of a price history request.
type Interval string

const (
	IntervalOneMinute      Interval = "1m"
	IntervalTwoMinutes     Interval = "2m"
	IntervalFiveMinutes    Interval = "5m"
	IntervalFifteenMinutes Interval = "15m"
	IntervalThirtyMinutes  Interval = "30m"
	IntervalSixtyMinutes   Interval = "60m"
	IntervalNinetyMinutes  Interval = "90m"
	IntervalOneHour        Interval = "1h"
	IntervalOneDay         Interval = "1d"
	IntervalFiveDays       Interval = "5d"
	IntervalOneWeek        Interval = "1wk"
	IntervalOneMonth       Interval = "1mo"
	IntervalThreeMonths    Interval = "3mo"
)

var intervals = map[Interval]struct {
	multiplier int
	timespan   models.Timespan
}{
	IntervalOneMinute:      {1, models.Minute},
	IntervalTwoMinutes:     {2, models.Minute},
	IntervalFiveMinutes:    {5, models.Minute},
	IntervalFifteenMinutes: {15, models.Minute},
	IntervalThirtyMinutes:  {30, models.Minute},
	IntervalSixtyMinutes:   {60, models.Minute},
	IntervalNinetyMinutes:  {90, models.Minute},
	IntervalOneHour:        {1, models.Hour},
	IntervalOneDay:         {1, models.Day},
	IntervalFiveDays:       {5, models.Day},
	IntervalOneWeek:        {1, models.Week},
	IntervalOneMonth:       {1, models.Month},
	IntervalThreeMonths:    {3, models.Month},
}

// ParseInterval validates an interval string.
func ParseInterval(s string) (Interval, error) {
	i := Interval(s)
	if _, ok := intervals[i]; !ok {
		return "", errors.Newf(errors.ErrCodeInvalidTimespan, "unsupported interval %q", s)
	}

	return i, nil
}

// Multiplier returns how many timespans make up one bar. Unknown intervals return 1.
func (i Interval) Multiplier() int {
	if def, ok := intervals[i]; ok {
		return def.multiplier
	}

	return 1
}

// Timespan returns the bar unit. Unknown intervals return models.Day.
func (i Interval) Timespan() models.Timespan {
	if def, ok := intervals[i]; ok {
		return def.timespan
	}

	return models.Day
}
