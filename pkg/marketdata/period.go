package marketdata

import (
	"strconv"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-tickerdata/internal/types"
	"github.com/rxtech-lab/argo-tickerdata/pkg/errors"
)

// PeriodMax is the period expression that disables window filtering.
const PeriodMax = "max"

// maxPeriodYears bounds how far back a window reaches; larger magnitudes are clamped to it.
const maxPeriodYears = 1_000_000

// PeriodUnit is the unit suffix of a period expression.
type PeriodUnit string

const (
	PeriodUnitDay   PeriodUnit = "d"
	PeriodUnitMonth PeriodUnit = "mo"
	PeriodUnitYear  PeriodUnit = "y"
	PeriodUnitMax   PeriodUnit = PeriodMax
)

// Period is a parsed relative duration such as "7d", "3mo", "2y" or "max".
type Period struct {
	Magnitude int
	Unit      PeriodUnit
}

// ParsePeriod parses a period expression of the form <digits><unit> with unit one of
// d, mo, y, or the literal "max". Anything else fails with ErrCodeInvalidPeriodFormat.
func ParsePeriod(s string) (Period, error) {
	if s == PeriodMax {
		return Period{Magnitude: 0, Unit: PeriodUnitMax}, nil
	}

	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}

	if i == 0 {
		return Period{}, errors.Newf(errors.ErrCodeInvalidPeriodFormat, "invalid period %q: expected <integer><d|mo|y> or %q", s, PeriodMax)
	}

	magnitude, err := strconv.Atoi(s[:i])
	if err != nil {
		return Period{}, errors.Wrapf(errors.ErrCodeInvalidPeriodFormat, err, "invalid period %q: magnitude out of range", s)
	}

	unit := PeriodUnit(s[i:])
	switch unit {
	case PeriodUnitDay, PeriodUnitMonth, PeriodUnitYear:
	default:
		return Period{}, errors.Newf(errors.ErrCodeInvalidPeriodFormat, "invalid period %q: unknown unit %q", s, string(unit))
	}

	return Period{Magnitude: magnitude, Unit: unit}, nil
}

// IsMax reports whether the period disables filtering.
func (p Period) IsMax() bool {
	return p.Unit == PeriodUnitMax
}

// String returns the period expression.
func (p Period) String() string {
	if p.IsMax() {
		return PeriodMax
	}

	return strconv.Itoa(p.Magnitude) + string(p.Unit)
}

// Start returns end moved back by the period, using calendar arithmetic in end's location.
// Months and years keep the day of month, clamped to the last day of the target month.
// Magnitudes beyond a million years are treated as a million years.
func (p Period) Start(end time.Time) time.Time {
	switch p.Unit {
	case PeriodUnitDay:
		return end.AddDate(0, 0, -min(p.Magnitude, maxPeriodYears*366))
	case PeriodUnitMonth:
		return subtractMonths(end, min(p.Magnitude, maxPeriodYears*12))
	case PeriodUnitYear:
		return subtractMonths(end, 12*min(p.Magnitude, maxPeriodYears))
	default:
		return end
	}
}

// Range returns the inclusive window ending at end, or none for "max".
func (p Period) Range(end time.Time) optional.Option[types.DateRange] {
	if p.IsMax() {
		return optional.None[types.DateRange]()
	}

	return optional.Some(types.DateRange{Start: p.Start(end), End: end})
}

func subtractMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	hour, minute, sec := t.Clock()

	// months since year 0, zero-based
	total := year*12 + int(month) - 1 - months
	targetYear := floorDiv(total, 12)
	targetMonth := time.Month(total-targetYear*12) + 1

	if last := daysIn(targetYear, targetMonth); day > last {
		day = last
	}

	return time.Date(targetYear, targetMonth, day, hour, minute, sec, t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}

	return q
}
