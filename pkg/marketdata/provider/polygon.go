package provider

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/moznion/go-optional"
	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/shopspring/decimal"

	"github.com/rxtech-lab/argo-tickerdata/internal/types"
	"github.com/rxtech-lab/argo-tickerdata/pkg/errors"
)

const polygonExchangeTimezone = "America/New_York"

// PolygonIterator is the subset of the polygon list iterator used by PolygonClient.
type PolygonIterator[T any] interface {
	Next() bool
	Item() T
	Err() error
}

type PolygonAggsIterator = PolygonIterator[models.Agg]

// PolygonAPIClient abstracts the polygon REST endpoints so they can be replaced in tests.
type PolygonAPIClient interface {
	ListAggs(ctx context.Context, params *models.ListAggsParams, opts ...models.RequestOption) PolygonAggsIterator
	ListDividends(ctx context.Context, params *models.ListDividendsParams, opts ...models.RequestOption) PolygonIterator[models.Dividend]
	ListSplits(ctx context.Context, params *models.ListSplitsParams, opts ...models.RequestOption) PolygonIterator[models.Split]
	GetTickerDetails(ctx context.Context, params *models.GetTickerDetailsParams, opts ...models.RequestOption) (*models.GetTickerDetailsResponse, error)
	ListFinancials(ctx context.Context, params *models.ListStockFinancialsParams, opts ...models.RequestOption) PolygonIterator[models.StockFinancial]
}

// polygonAPIClientWrapper adapts *polygon.Client to PolygonAPIClient.
type polygonAPIClientWrapper struct {
	client *polygon.Client
}

func (w *polygonAPIClientWrapper) ListAggs(ctx context.Context, params *models.ListAggsParams, opts ...models.RequestOption) PolygonAggsIterator {
	return w.client.ListAggs(ctx, params, opts...)
}

func (w *polygonAPIClientWrapper) ListDividends(ctx context.Context, params *models.ListDividendsParams, opts ...models.RequestOption) PolygonIterator[models.Dividend] {
	return w.client.ListDividends(ctx, params, opts...)
}

func (w *polygonAPIClientWrapper) ListSplits(ctx context.Context, params *models.ListSplitsParams, opts ...models.RequestOption) PolygonIterator[models.Split] {
	return w.client.ListSplits(ctx, params, opts...)
}

func (w *polygonAPIClientWrapper) GetTickerDetails(ctx context.Context, params *models.GetTickerDetailsParams, opts ...models.RequestOption) (*models.GetTickerDetailsResponse, error) {
	return w.client.GetTickerDetails(ctx, params, opts...)
}

func (w *polygonAPIClientWrapper) ListFinancials(ctx context.Context, params *models.ListStockFinancialsParams, opts ...models.RequestOption) PolygonIterator[models.StockFinancial] {
	return w.client.VX.ListStockFinancials(ctx, params, opts...)
}

type PolygonClient struct {
	apiClient PolygonAPIClient
	location  *time.Location
}

func NewPolygonClient(apiKey string) (Provider, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "polygon apiKey is required")
	}

	return NewPolygonClientWithAPI(&polygonAPIClientWrapper{client: polygon.New(apiKey)}), nil
}

// NewPolygonClientWithAPI creates a PolygonClient backed by the given API client.
func NewPolygonClientWithAPI(api PolygonAPIClient) *PolygonClient {
	loc, err := time.LoadLocation(polygonExchangeTimezone)
	if err != nil {
		loc = time.UTC
	}

	return &PolygonClient{
		apiClient: api,
		location:  loc,
	}
}

func (c *PolygonClient) PriceHistory(ctx context.Context, ticker string, window optional.Option[types.DateRange], multiplier int, timespan models.Timespan) ([]types.MarketData, error) {
	// polygon has no "max" range, so the full history starts at the epoch
	rng := types.DateRange{Start: time.Unix(0, 0), End: time.Now()}
	if window.IsSome() {
		rng = window.Unwrap()
	}

	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     ticker,
		Multiplier: multiplier,
		Timespan:   timespan,
		From:       models.Millis(rng.Start),
		To:         models.Millis(rng.End),
	}.WithLimit(50000)

	iter := c.apiClient.ListAggs(ctx, params)

	var bars []types.MarketData

	for iter.Next() {
		agg := iter.Item()
		bars = append(bars, types.MarketData{
			Symbol: ticker,
			Time:   time.Time(agg.Timestamp).In(c.location),
			Open:   agg.Open,
			High:   agg.High,
			Low:    agg.Low,
			Close:  agg.Close,
			Volume: agg.Volume,
		})
	}

	if err := iter.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "error iterating polygon aggregates for %s", ticker)
	}

	return bars, nil
}

// Dividends returns cash dividends. Long and short term capital gain
// distributions are reported by CapitalGains instead.
func (c *PolygonClient) Dividends(ctx context.Context, ticker string) (types.TimeSeries[float64], error) {
	return c.dividendSeries(ctx, ticker, "Dividends", func(kind string) bool {
		return !isCapitalGainDistribution(kind)
	})
}

func (c *PolygonClient) CapitalGains(ctx context.Context, ticker string) (types.TimeSeries[float64], error) {
	return c.dividendSeries(ctx, ticker, "Capital Gains", isCapitalGainDistribution)
}

func (c *PolygonClient) Splits(ctx context.Context, ticker string) (types.TimeSeries[float64], error) {
	iter := c.apiClient.ListSplits(ctx, models.ListSplitsParams{}.WithTicker(models.EQ, ticker))

	var points []types.Point[float64]

	for iter.Next() {
		split := iter.Item()
		if split.SplitFrom == 0 {
			continue
		}

		points = append(points, types.Point[float64]{Time: c.calendarDay(split.ExecutionDate), Value: float64(split.SplitTo) / float64(split.SplitFrom)})
	}

	if err := iter.Err(); err != nil {
		return types.TimeSeries[float64]{}, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "error iterating polygon splits for %s", ticker)
	}

	return c.series("Stock Splits", points), nil
}

func (c *PolygonClient) Info(ctx context.Context, ticker string) (types.Profile, error) {
	resp, err := c.apiClient.GetTickerDetails(ctx, &models.GetTickerDetailsParams{Ticker: ticker})
	if err != nil {
		return types.Profile{}, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to fetch polygon ticker details for %s", ticker)
	}

	if resp == nil {
		return types.Profile{}, errors.Newf(errors.ErrCodeDataNotFound, "no ticker details for %s", ticker)
	}

	details := resp.Results
	profile := types.Profile{Symbol: ticker}
	profile.Add("symbol", details.Ticker)
	profile.Add("longName", details.Name)
	profile.Add("market", fmt.Sprint(details.Market))
	profile.Add("locale", fmt.Sprint(details.Locale))
	profile.Add("exchange", details.PrimaryExchange)
	profile.Add("quoteType", details.Type)
	profile.Add("currency", details.CurrencyName)
	profile.Add("longBusinessSummary", details.Description)
	profile.Add("website", details.HomepageURL)
	profile.Add("sicDescription", details.SICDescription)

	if details.MarketCap != 0 {
		profile.Add("marketCap", decimal.NewFromFloat(float64(details.MarketCap)).String())
	}

	if details.TotalEmployees != 0 {
		profile.Add("fullTimeEmployees", strconv.FormatInt(int64(details.TotalEmployees), 10))
	}

	return profile, nil
}

func (c *PolygonClient) Financials(ctx context.Context, ticker string) ([]types.FinancialStatement, error) {
	iter := c.apiClient.ListFinancials(ctx, models.ListStockFinancialsParams{}.WithTicker(ticker))

	var statements []types.FinancialStatement

	for iter.Next() {
		filing := iter.Item()

		periodEnd, err := c.parseDate(filing.EndDate)
		if err != nil {
			return nil, err
		}

		for section, kind := range polygonStatementSections {
			items, ok := filing.Financials[section]
			if !ok || len(items) == 0 {
				continue
			}

			statement := types.FinancialStatement{
				Kind:         kind,
				PeriodEnd:    periodEnd,
				FiscalPeriod: filing.FiscalPeriod,
				FiscalYear:   filing.FiscalYear,
				Items:        make(map[string]float64, len(items)),
			}

			for key, point := range items {
				label := point.Label
				if label == "" {
					label = key
				}

				statement.Items[label] = point.Value
			}

			statements = append(statements, statement)
		}
	}

	if err := iter.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "error iterating polygon financials for %s", ticker)
	}

	return statements, nil
}

var polygonStatementSections = map[string]types.StatementKind{
	"income_statement":    types.StatementIncome,
	"balance_sheet":       types.StatementBalance,
	"cash_flow_statement": types.StatementCashFlow,
}

func (c *PolygonClient) dividendSeries(ctx context.Context, ticker string, name string, keep func(kind string) bool) (types.TimeSeries[float64], error) {
	iter := c.apiClient.ListDividends(ctx, models.ListDividendsParams{}.WithTicker(models.EQ, ticker))

	var points []types.Point[float64]

	for iter.Next() {
		dividend := iter.Item()
		if !keep(dividend.DividendType) {
			continue
		}

		day, err := c.parseDate(dividend.ExDividendDate)
		if err != nil {
			return types.TimeSeries[float64]{}, err
		}

		points = append(points, types.Point[float64]{Time: day, Value: dividend.CashAmount})
	}

	if err := iter.Err(); err != nil {
		return types.TimeSeries[float64]{}, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "error iterating polygon dividends for %s", ticker)
	}

	return c.series(name, points), nil
}

// series sorts points ascending and wraps them in a series aware of the exchange timezone.
func (c *PolygonClient) series(name string, points []types.Point[float64]) types.TimeSeries[float64] {
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Time.Before(points[j].Time)
	})

	out := types.NewSeries[float64](name, c.location)
	out.Points = points

	return out
}

// parseDate parses a YYYY-MM-DD date as midnight in the exchange timezone.
func (c *PolygonClient) parseDate(value string) (time.Time, error) {
	day, err := time.ParseInLocation(time.DateOnly, value, c.location)
	if err != nil {
		return time.Time{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "invalid polygon date %q", value)
	}

	return day, nil
}

// calendarDay places a polygon date, decoded as UTC midnight, at midnight in the exchange location.
func (c *PolygonClient) calendarDay(date models.Date) time.Time {
	year, month, day := time.Time(date).UTC().Date()

	return time.Date(year, month, day, 0, 0, 0, 0, c.location)
}

// isCapitalGainDistribution reports whether a polygon dividend type is a long (LT)
// or short (ST) term capital gain distribution.
func isCapitalGainDistribution(kind string) bool {
	return kind == "LT" || kind == "ST"
}
