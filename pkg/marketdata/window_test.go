package marketdata

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-tickerdata/internal/types"
	"github.com/rxtech-lab/argo-tickerdata/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type WindowTestSuite struct {
	suite.Suite
	now time.Time
}

func TestWindowSuite(t *testing.T) {
	suite.Run(t, new(WindowTestSuite))
}

func (suite *WindowTestSuite) SetupTest() {
	suite.now = time.Date(2024, 6, 14, 15, 30, 0, 0, time.UTC)
}

func (suite *WindowTestSuite) series(times ...time.Time) types.TimeSeries[float64] {
	s := types.NewSeries[float64]("Dividends", time.UTC)
	for i, t := range times {
		s.Append(t, float64(i+1))
	}

	return s
}

func (suite *WindowTestSuite) TestMaxIsIdentity() {
	s := suite.series(suite.now.AddDate(-30, 0, 0), suite.now.AddDate(0, 0, -1), suite.now)

	out, err := FilterSeriesAt(s, "max", suite.now)
	suite.NoError(err)
	suite.Equal(s, out)
}

func (suite *WindowTestSuite) TestEmptySeriesIsNoOpForAnyPeriod() {
	empty := types.NewSeries[float64]("Splits", nil)

	for _, period := range []string{"max", "7d", "3mo", "0y", "5wk", "abc", ""} {
		suite.Run(period, func() {
			out, err := FilterSeriesAt(empty, period, suite.now)
			suite.NoError(err)
			suite.Equal(empty, out)
		})
	}
}

func (suite *WindowTestSuite) TestZeroDaysIncludesEntryAtNow() {
	s := suite.series(suite.now.Add(-time.Second), suite.now)

	out, err := FilterSeriesAt(s, "0d", suite.now)
	suite.NoError(err)
	suite.Require().Equal(1, out.Len())
	suite.Equal(suite.now, out.Points[0].Time)
}

func (suite *WindowTestSuite) TestDayWindow() {
	s := suite.series(suite.now.AddDate(0, 0, -10), suite.now.AddDate(0, 0, -1), suite.now)

	out, err := FilterSeriesAt(s, "7d", suite.now)
	suite.NoError(err)
	suite.Require().Equal(2, out.Len())
	suite.Equal(suite.now.AddDate(0, 0, -1), out.Points[0].Time)
	suite.Equal(suite.now, out.Points[1].Time)
	suite.Equal("Dividends", out.Name)
}

func (suite *WindowTestSuite) TestLowerBoundIsInclusive() {
	start := suite.now.AddDate(0, 0, -7)
	s := suite.series(start.Add(-time.Nanosecond), start, suite.now)

	out, err := FilterSeriesAt(s, "7d", suite.now)
	suite.NoError(err)
	suite.Require().Equal(2, out.Len())
	suite.Equal(start, out.Points[0].Time)
}

func (suite *WindowTestSuite) TestEntriesAfterNowAreExcluded() {
	s := suite.series(suite.now, suite.now.Add(time.Hour))

	out, err := FilterSeriesAt(s, "1y", suite.now)
	suite.NoError(err)
	suite.Equal(1, out.Len())
}

func (suite *WindowTestSuite) TestMonthWindowAtEndOfMarch() {
	now := time.Date(2023, 3, 31, 12, 0, 0, 0, time.UTC)
	feb28 := time.Date(2023, 2, 28, 12, 0, 0, 0, time.UTC)
	s := suite.series(feb28.Add(-time.Minute), feb28, now.AddDate(0, 0, -1))

	out, err := FilterSeriesAt(s, "1mo", now)
	suite.NoError(err)
	suite.Require().Equal(2, out.Len())
	suite.Equal(feb28, out.Points[0].Time)
}

func (suite *WindowTestSuite) TestYearWindow() {
	s := suite.series(
		time.Date(2022, 6, 14, 15, 30, 0, 0, time.UTC),
		time.Date(2023, 6, 14, 15, 30, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	)

	out, err := FilterSeriesAt(s, "1y", suite.now)
	suite.NoError(err)
	suite.Equal(2, out.Len())
}

func (suite *WindowTestSuite) TestMalformedPeriodFailsAndLeavesInputUntouched() {
	s := suite.series(suite.now.AddDate(0, 0, -1), suite.now)
	reference := s.Clone()

	for _, period := range []string{"5wk", "abc", "", "-1d", "1D"} {
		suite.Run(period, func() {
			out, err := FilterSeriesAt(s, period, suite.now)
			suite.Error(err)
			suite.True(errors.HasCode(err, errors.ErrCodeInvalidPeriodFormat))
			suite.True(out.IsEmpty())
			suite.Equal(reference, s)
		})
	}
}

func (suite *WindowTestSuite) TestHugeMagnitudeKeepsWholeSeries() {
	s := suite.series(suite.now.AddDate(-1, 0, 0), suite.now.AddDate(0, 0, -1))

	for _, period := range []string{"800000000000000000y", "1000000000000000000d"} {
		suite.Run(period, func() {
			out, err := FilterSeriesAt(s, period, suite.now)
			suite.NoError(err)
			suite.Equal(s.Points, out.Points)
		})
	}
}

func (suite *WindowTestSuite) TestOrderIsPreserved() {
	s := suite.series(suite.now, suite.now.AddDate(0, 0, -2), suite.now.AddDate(0, 0, -30), suite.now.AddDate(0, 0, -1))

	out, err := FilterSeriesAt(s, "7d", suite.now)
	suite.NoError(err)
	suite.Require().Equal(3, out.Len())
	suite.Equal(1.0, out.Points[0].Value)
	suite.Equal(2.0, out.Points[1].Value)
	suite.Equal(4.0, out.Points[2].Value)
}

func (suite *WindowTestSuite) TestResultDoesNotAliasInput() {
	s := suite.series(suite.now.AddDate(0, 0, -1), suite.now)

	out, err := FilterSeriesAt(s, "7d", suite.now)
	suite.Require().NoError(err)
	out.Points[0].Value = 42

	suite.Equal(1.0, s.Points[0].Value)
}

func (suite *WindowTestSuite) TestAwareSeriesUsesItsOwnCalendar() {
	ny, err := time.LoadLocation("America/New_York")
	suite.Require().NoError(err)

	// 2024-03-31 10:00 EDT; one month back in New York is 2024-02-29 10:00 EST
	now := time.Date(2024, 3, 31, 10, 0, 0, 0, ny).UTC()

	s := types.NewSeries[float64]("Dividends", ny)
	s.Append(time.Date(2024, 2, 29, 9, 59, 0, 0, ny), 1)
	s.Append(time.Date(2024, 2, 29, 10, 0, 0, 0, ny), 2)

	out, err := FilterSeriesAt(s, "1mo", now)
	suite.NoError(err)
	suite.Require().Equal(1, out.Len())
	suite.Equal(2.0, out.Points[0].Value)
	suite.Equal(ny, out.Points[0].Time.Location())
}

func (suite *WindowTestSuite) TestNaiveSeriesUsesLocalWallClock() {
	now := time.Date(2024, 6, 14, 9, 0, 0, 0, time.Local)

	s := types.NewSeries[float64]("Splits", nil)
	s.Append(now.AddDate(0, 0, -3), 1)
	s.Append(now.Add(-time.Hour), 2)
	s.Append(now, 3)

	out, err := FilterSeriesAt(s, "1d", now)
	suite.NoError(err)
	suite.Require().Equal(2, out.Len())
	suite.Equal(types.StripZone(now), out.Points[1].Time)
	suite.Equal(time.UTC, out.Points[1].Time.Location())
}

func (suite *WindowTestSuite) TestFilterSeriesUsesCurrentTime() {
	s := suite.series(time.Now().AddDate(0, 0, -40), time.Now().Add(-time.Minute))

	out, err := FilterSeries(s, "1mo")
	suite.NoError(err)
	suite.Equal(1, out.Len())
}

func (suite *WindowTestSuite) TestFilterBars() {
	bars := []types.MarketData{
		{Symbol: "AAPL", Time: suite.now.AddDate(0, 0, -10), Close: 1},
		{Symbol: "AAPL", Time: suite.now.AddDate(0, 0, -3), Close: 2},
		{Symbol: "AAPL", Time: suite.now, Close: 3},
	}

	out, err := FilterBarsAt(bars, "5d", suite.now)
	suite.NoError(err)
	suite.Require().Len(out, 2)
	suite.Equal(2.0, out[0].Close)

	same, err := FilterBarsAt(bars, "max", suite.now)
	suite.NoError(err)
	suite.Equal(bars, same)

	none, err := FilterBarsAt(nil, "bogus", suite.now)
	suite.NoError(err)
	suite.Empty(none)

	_, err = FilterBarsAt(bars, "bogus", suite.now)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidPeriodFormat))
}
