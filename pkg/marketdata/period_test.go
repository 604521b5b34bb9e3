package marketdata

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-tickerdata/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type PeriodTestSuite struct {
	suite.Suite
}

func TestPeriodSuite(t *testing.T) {
	suite.Run(t, new(PeriodTestSuite))
}

func (suite *PeriodTestSuite) TestParseValid() {
	tests := []struct {
		input     string
		magnitude int
		unit      PeriodUnit
	}{
		{"0d", 0, PeriodUnitDay},
		{"7d", 7, PeriodUnitDay},
		{"3mo", 3, PeriodUnitMonth},
		{"12mo", 12, PeriodUnitMonth},
		{"2y", 2, PeriodUnitYear},
		{"007y", 7, PeriodUnitYear},
		{"max", 0, PeriodUnitMax},
	}

	for _, tc := range tests {
		suite.Run(tc.input, func() {
			p, err := ParsePeriod(tc.input)
			suite.NoError(err)
			suite.Equal(tc.magnitude, p.Magnitude)
			suite.Equal(tc.unit, p.Unit)
		})
	}
}

func (suite *PeriodTestSuite) TestParseInvalid() {
	inputs := []string{
		"", "abc", "5wk", "d", "mo", "-1d", "+1d", "1D", "1MO", " 7d", "7 d", "7d ",
		"max ", "MAX", "1.5y", "10", "ytd", "99999999999999999999d",
	}

	for _, input := range inputs {
		suite.Run(input, func() {
			_, err := ParsePeriod(input)
			suite.Error(err)
			suite.True(errors.HasCode(err, errors.ErrCodeInvalidPeriodFormat), "code for %q", input)
		})
	}
}

func (suite *PeriodTestSuite) TestString() {
	for _, input := range []string{"7d", "3mo", "2y", "max"} {
		p, err := ParsePeriod(input)
		suite.Require().NoError(err)
		suite.Equal(input, p.String())
	}
}

func (suite *PeriodTestSuite) TestStartDays() {
	end := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	p := Period{Magnitude: 1, Unit: PeriodUnitDay}
	suite.Equal(time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC), p.Start(end))
}

func (suite *PeriodTestSuite) TestStartDaysKeepsWallClockAcrossDST() {
	ny, err := time.LoadLocation("America/New_York")
	suite.Require().NoError(err)

	end := time.Date(2024, 3, 12, 9, 30, 0, 0, ny)
	p := Period{Magnitude: 7, Unit: PeriodUnitDay}
	suite.Equal(time.Date(2024, 3, 5, 9, 30, 0, 0, ny), p.Start(end))
}

func (suite *PeriodTestSuite) TestStartMonthsClampsToMonthEnd() {
	tests := []struct {
		name     string
		end      time.Time
		months   int
		expected time.Time
	}{
		{"mar31 non-leap", time.Date(2023, 3, 31, 8, 0, 0, 0, time.UTC), 1, time.Date(2023, 2, 28, 8, 0, 0, 0, time.UTC)},
		{"mar31 leap", time.Date(2024, 3, 31, 8, 0, 0, 0, time.UTC), 1, time.Date(2024, 2, 29, 8, 0, 0, 0, time.UTC)},
		{"may31", time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC), 1, time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)},
		{"mid month", time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), 3, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)},
		{"across year", time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), 2, time.Date(2023, 11, 30, 0, 0, 0, 0, time.UTC)},
		{"many years", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), 25, time.Date(2021, 12, 10, 0, 0, 0, 0, time.UTC)},
		{"zero", time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), 0, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			p := Period{Magnitude: tc.months, Unit: PeriodUnitMonth}
			suite.Equal(tc.expected, p.Start(tc.end))
		})
	}
}

func (suite *PeriodTestSuite) TestStartYearsFromLeapDay() {
	end := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	p := Period{Magnitude: 1, Unit: PeriodUnitYear}
	suite.Equal(time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC), p.Start(end))

	p = Period{Magnitude: 4, Unit: PeriodUnitYear}
	suite.Equal(time.Date(2020, 2, 29, 0, 0, 0, 0, time.UTC), p.Start(end))
}

func (suite *PeriodTestSuite) TestStartClampsHugeMagnitudes() {
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	floor := end.AddDate(-maxPeriodYears, 0, 0)

	for _, input := range []string{"800000000000000000y", "9000000000000000000mo", "1000000000000000000d"} {
		suite.Run(input, func() {
			p, err := ParsePeriod(input)
			suite.Require().NoError(err)

			start := p.Start(end)
			suite.False(start.After(floor), "start %s", start)
			suite.True(start.Before(end))
		})
	}
}

func (suite *PeriodTestSuite) TestRange() {
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	p, err := ParsePeriod("1mo")
	suite.Require().NoError(err)

	window := p.Range(end)
	suite.True(window.IsSome())
	suite.Equal(time.Date(2024, 5, 30, 0, 0, 0, 0, time.UTC), window.Unwrap().Start)
	suite.Equal(end, window.Unwrap().End)

	maxPeriod, err := ParsePeriod("max")
	suite.Require().NoError(err)
	suite.True(maxPeriod.Range(end).IsNone())
}
