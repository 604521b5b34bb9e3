package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/argo-tickerdata/internal/types"
	apperrors "github.com/rxtech-lab/argo-tickerdata/pkg/errors"
)

// mockIterator implements PolygonIterator over a fixed slice.
type mockIterator[T any] struct {
	items []T
	index int
	err   error
}

func (m *mockIterator[T]) Next() bool {
	if m.index < len(m.items) {
		m.index++

		return true
	}

	return false
}

func (m *mockIterator[T]) Item() T {
	if m.index > 0 && m.index <= len(m.items) {
		return m.items[m.index-1]
	}

	var zero T

	return zero
}

func (m *mockIterator[T]) Err() error {
	return m.err
}

// mockPolygonAPIClient implements PolygonAPIClient for testing.
type mockPolygonAPIClient struct {
	aggs       []models.Agg
	aggsErr    error
	dividends  []models.Dividend
	splits     []models.Split
	financials []models.StockFinancial
	details    *models.GetTickerDetailsResponse
	detailsErr error

	lastAggsParams *models.ListAggsParams
}

func (m *mockPolygonAPIClient) ListAggs(_ context.Context, params *models.ListAggsParams, _ ...models.RequestOption) PolygonAggsIterator {
	m.lastAggsParams = params

	return &mockIterator[models.Agg]{items: m.aggs, err: m.aggsErr}
}

func (m *mockPolygonAPIClient) ListDividends(_ context.Context, _ *models.ListDividendsParams, _ ...models.RequestOption) PolygonIterator[models.Dividend] {
	return &mockIterator[models.Dividend]{items: m.dividends}
}

func (m *mockPolygonAPIClient) ListSplits(_ context.Context, _ *models.ListSplitsParams, _ ...models.RequestOption) PolygonIterator[models.Split] {
	return &mockIterator[models.Split]{items: m.splits}
}

func (m *mockPolygonAPIClient) GetTickerDetails(_ context.Context, _ *models.GetTickerDetailsParams, _ ...models.RequestOption) (*models.GetTickerDetailsResponse, error) {
	return m.details, m.detailsErr
}

func (m *mockPolygonAPIClient) ListFinancials(_ context.Context, _ *models.ListStockFinancialsParams, _ ...models.RequestOption) PolygonIterator[models.StockFinancial] {
	return &mockIterator[models.StockFinancial]{items: m.financials}
}

type PolygonClientTestSuite struct {
	suite.Suite
}

func TestPolygonClientSuite(t *testing.T) {
	suite.Run(t, new(PolygonClientTestSuite))
}

func (suite *PolygonClientTestSuite) TestNewPolygonClient_ValidApiKey() {
	client, err := NewPolygonClient("test-api-key")
	suite.NoError(err)
	suite.NotNil(client)

	polygonClient, ok := client.(*PolygonClient)
	suite.True(ok)
	suite.NotNil(polygonClient.apiClient)
	suite.Equal(polygonExchangeTimezone, polygonClient.location.String())
}

func (suite *PolygonClientTestSuite) TestNewPolygonClient_EmptyApiKey() {
	client, err := NewPolygonClient("")
	suite.Error(err)
	suite.Nil(client)
	suite.True(apperrors.HasCode(err, apperrors.ErrCodeMissingParameter))
}

func (suite *PolygonClientTestSuite) TestPriceHistory() {
	ts := time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)
	api := &mockPolygonAPIClient{
		aggs: []models.Agg{
			{Open: 100, High: 110, Low: 95, Close: 105, Volume: 1000, Timestamp: models.Millis(ts)},
			{Open: 105, High: 115, Low: 100, Close: 112, Volume: 2000, Timestamp: models.Millis(ts.Add(24 * time.Hour))},
		},
	}
	client := NewPolygonClientWithAPI(api)

	window := types.DateRange{Start: ts.AddDate(0, -1, 0), End: ts.AddDate(0, 0, 2)}
	bars, err := client.PriceHistory(context.Background(), "AAPL", optional.Some(window), 1, models.Day)
	suite.NoError(err)
	suite.Len(bars, 2)

	suite.Equal("AAPL", bars[0].Symbol)
	suite.Equal(100.0, bars[0].Open)
	suite.Equal(112.0, bars[1].Close)
	suite.Equal(2000.0, bars[1].Volume)
	suite.True(bars[0].Time.Equal(ts))
	suite.Equal(polygonExchangeTimezone, bars[0].Time.Location().String())

	suite.Equal("AAPL", api.lastAggsParams.Ticker)
	suite.Equal(models.Day, api.lastAggsParams.Timespan)
	suite.True(time.Time(api.lastAggsParams.From).Equal(window.Start))
}

func (suite *PolygonClientTestSuite) TestPriceHistory_MaxStartsAtEpoch() {
	api := &mockPolygonAPIClient{}
	client := NewPolygonClientWithAPI(api)

	bars, err := client.PriceHistory(context.Background(), "AAPL", optional.None[types.DateRange](), 1, models.Day)
	suite.NoError(err)
	suite.Empty(bars)
	suite.True(time.Time(api.lastAggsParams.From).Equal(time.Unix(0, 0)))
}

func (suite *PolygonClientTestSuite) TestPriceHistory_IteratorError() {
	api := &mockPolygonAPIClient{aggsErr: errors.New("rate limited")}
	client := NewPolygonClientWithAPI(api)

	_, err := client.PriceHistory(context.Background(), "AAPL", optional.None[types.DateRange](), 1, models.Day)
	suite.Error(err)
	suite.True(apperrors.HasCode(err, apperrors.ErrCodeMarketDataFetchFailed))
	suite.Contains(err.Error(), "rate limited")
}

func (suite *PolygonClientTestSuite) TestDividendsAndCapitalGains() {
	api := &mockPolygonAPIClient{
		dividends: []models.Dividend{
			{CashAmount: 0.25, DividendType: "CD", ExDividendDate: "2024-02-09"},
			{CashAmount: 0.24, DividendType: "CD", ExDividendDate: "2023-11-10"},
			{CashAmount: 1.10, DividendType: "LT", ExDividendDate: "2023-12-15"},
			{CashAmount: 0.05, DividendType: "ST", ExDividendDate: "2023-12-15"},
		},
	}
	client := NewPolygonClientWithAPI(api)

	dividends, err := client.Dividends(context.Background(), "VFIAX")
	suite.NoError(err)
	suite.Equal("Dividends", dividends.Name)
	suite.Equal(2, dividends.Len())
	// ascending regardless of api order
	suite.Equal(0.24, dividends.Points[0].Value)
	suite.Equal(0.25, dividends.Points[1].Value)
	suite.Equal(2023, dividends.Points[0].Time.Year())
	suite.Equal(time.November, dividends.Points[0].Time.Month())
	suite.False(dividends.IsNaive())

	gains, err := client.CapitalGains(context.Background(), "VFIAX")
	suite.NoError(err)
	suite.Equal("Capital Gains", gains.Name)
	suite.Equal(2, gains.Len())
}

func (suite *PolygonClientTestSuite) TestDividends_InvalidDate() {
	api := &mockPolygonAPIClient{
		dividends: []models.Dividend{{CashAmount: 0.25, DividendType: "CD", ExDividendDate: "02/09/2024"}},
	}
	client := NewPolygonClientWithAPI(api)

	_, err := client.Dividends(context.Background(), "AAPL")
	suite.Error(err)
	suite.True(apperrors.HasCode(err, apperrors.ErrCodeMarketDataParseFailed))
}

func (suite *PolygonClientTestSuite) TestSplits() {
	api := &mockPolygonAPIClient{
		splits: []models.Split{
			{ExecutionDate: models.Date(time.Date(2020, 8, 31, 0, 0, 0, 0, time.UTC)), SplitFrom: 1, SplitTo: 4},
			{ExecutionDate: models.Date(time.Date(2014, 6, 9, 0, 0, 0, 0, time.UTC)), SplitFrom: 1, SplitTo: 7},
			{ExecutionDate: models.Date(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)), SplitFrom: 0, SplitTo: 2},
		},
	}
	client := NewPolygonClientWithAPI(api)

	splits, err := client.Splits(context.Background(), "AAPL")
	suite.NoError(err)
	suite.Equal("Stock Splits", splits.Name)
	suite.Equal(2, splits.Len())
	suite.Equal(7.0, splits.Points[0].Value)
	suite.Equal(4.0, splits.Points[1].Value)

	newYork, err := time.LoadLocation("America/New_York")
	suite.Require().NoError(err)
	suite.True(time.Date(2020, 8, 31, 0, 0, 0, 0, newYork).Equal(splits.Points[1].Time))
	suite.Equal("America/New_York", splits.Location.String())
}

func (suite *PolygonClientTestSuite) TestInfo() {
	api := &mockPolygonAPIClient{
		details: &models.GetTickerDetailsResponse{
			Results: models.Ticker{
				Ticker:          "AAPL",
				Name:            "Apple Inc.",
				PrimaryExchange: "XNAS",
				Description:     "Apple designs smartphones.",
				MarketCap:       3000000000000,
			},
		},
	}
	client := NewPolygonClientWithAPI(api)

	profile, err := client.Info(context.Background(), "AAPL")
	suite.NoError(err)
	suite.Equal("AAPL", profile.Symbol)

	values := map[string]string{}
	for _, field := range profile.Fields {
		values[field.Key] = field.Value
	}

	suite.Equal("Apple Inc.", values["longName"])
	suite.Equal("XNAS", values["exchange"])
	suite.Equal("3000000000000", values["marketCap"])
	suite.NotContains(values, "website")
}

func (suite *PolygonClientTestSuite) TestInfo_Error() {
	api := &mockPolygonAPIClient{detailsErr: errors.New("not found")}
	client := NewPolygonClientWithAPI(api)

	_, err := client.Info(context.Background(), "NOPE")
	suite.Error(err)
	suite.True(apperrors.HasCode(err, apperrors.ErrCodeMarketDataFetchFailed))
}

func (suite *PolygonClientTestSuite) TestFinancials() {
	api := &mockPolygonAPIClient{
		financials: []models.StockFinancial{
			{
				EndDate:      "2023-09-30",
				FiscalPeriod: "FY",
				FiscalYear:   "2023",
				Financials: map[string]models.Financial{
					"income_statement": {
						"revenues":   {Label: "Revenues", Value: 383285000000},
						"net_income": {Label: "", Value: 96995000000},
					},
					"cash_flow_statement": {
						"net_cash_flow": {Label: "Net Cash Flow", Value: -1000},
					},
					"comprehensive_income": {
						"comprehensive_income_loss": {Label: "Comprehensive Income", Value: 1},
					},
				},
			},
		},
	}
	client := NewPolygonClientWithAPI(api)

	statements, err := client.Financials(context.Background(), "AAPL")
	suite.NoError(err)
	suite.Len(statements, 2)

	byKind := map[types.StatementKind]types.FinancialStatement{}
	for _, s := range statements {
		byKind[s.Kind] = s
	}

	income := byKind[types.StatementIncome]
	suite.Equal(383285000000.0, income.Items["Revenues"])
	// missing label falls back to the field key
	suite.Equal(96995000000.0, income.Items["net_income"])
	suite.Equal("FY", income.FiscalPeriod)
	suite.Equal(2023, income.PeriodEnd.Year())

	suite.Equal(-1000.0, byKind[types.StatementCashFlow].Items["Net Cash Flow"])
}
