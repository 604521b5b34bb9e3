package provider

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/moznion/go-optional"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"github.com/rxtech-lab/argo-tickerdata/internal/types"
	"github.com/rxtech-lab/argo-tickerdata/pkg/errors"
)

const (
	DefaultYahooBaseURL = "https://query2.finance.yahoo.com"
	yahooChartPath      = "/v8/finance/chart/{ticker}"
	yahooUserAgent      = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
	yahooEvents         = "div,splits,capitalGains"
)

// YahooClient reads the public Yahoo Finance chart endpoint. It serves prices,
// corporate action events and the quote metadata; financial statements are not available.
// Dividends, splits and capital gains of a ticker share one chart request per client.
type YahooClient struct {
	http *resty.Client

	mu          sync.Mutex
	eventCharts map[string]func() (gjson.Result, error)
}

func NewYahooClient(baseURL string) (Provider, error) {
	return NewYahooClientWithHTTP(baseURL, resty.New())
}

// NewYahooClientWithHTTP creates a YahooClient using the given resty client.
func NewYahooClientWithHTTP(baseURL string, client *resty.Client) (*YahooClient, error) {
	if baseURL == "" {
		baseURL = DefaultYahooBaseURL
	}

	if client == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "yahoo http client is required")
	}

	client.
		SetBaseURL(baseURL).
		SetHeader("User-Agent", yahooUserAgent).
		SetHeader("Accept", "application/json").
		SetTimeout(30 * time.Second)

	return &YahooClient{http: client, eventCharts: map[string]func() (gjson.Result, error){}}, nil
}

func (c *YahooClient) PriceHistory(ctx context.Context, ticker string, window optional.Option[types.DateRange], multiplier int, timespan models.Timespan) ([]types.MarketData, error) {
	interval, err := yahooInterval(multiplier, timespan)
	if err != nil {
		return nil, err
	}

	query := map[string]string{
		"interval":       interval,
		"includePrePost": "false",
		"events":         yahooEvents,
	}

	if window.IsSome() {
		rng := window.Unwrap()
		query["period1"] = strconv.FormatInt(rng.Start.Unix(), 10)
		query["period2"] = strconv.FormatInt(rng.End.Unix(), 10)
	} else {
		query["range"] = "max"
	}

	result, err := c.chart(ctx, ticker, query)
	if err != nil {
		return nil, err
	}

	loc := chartLocation(result)
	timestamps := result.Get("timestamp").Array()
	quote := result.Get("indicators.quote.0")
	opens := quote.Get("open").Array()
	highs := quote.Get("high").Array()
	lows := quote.Get("low").Array()
	closes := quote.Get("close").Array()
	volumes := quote.Get("volume").Array()

	bars := make([]types.MarketData, 0, len(timestamps))

	for i, ts := range timestamps {
		// yahoo pads halted sessions with null quotes
		if !present(opens, i) || !present(highs, i) || !present(lows, i) || !present(closes, i) {
			continue
		}

		volume := 0.0
		if present(volumes, i) {
			volume = volumes[i].Float()
		}

		bars = append(bars, types.MarketData{
			Symbol: ticker,
			Time:   time.Unix(ts.Int(), 0).In(loc),
			Open:   opens[i].Float(),
			High:   highs[i].Float(),
			Low:    lows[i].Float(),
			Close:  closes[i].Float(),
			Volume: volume,
		})
	}

	return bars, nil
}

func (c *YahooClient) Dividends(ctx context.Context, ticker string) (types.TimeSeries[float64], error) {
	return c.events(ctx, ticker, "Dividends", "dividends", func(event gjson.Result) (float64, bool) {
		return event.Get("amount").Float(), event.Get("amount").Exists()
	})
}

func (c *YahooClient) CapitalGains(ctx context.Context, ticker string) (types.TimeSeries[float64], error) {
	return c.events(ctx, ticker, "Capital Gains", "capitalGains", func(event gjson.Result) (float64, bool) {
		return event.Get("amount").Float(), event.Get("amount").Exists()
	})
}

func (c *YahooClient) Splits(ctx context.Context, ticker string) (types.TimeSeries[float64], error) {
	return c.events(ctx, ticker, "Stock Splits", "splits", func(event gjson.Result) (float64, bool) {
		denominator := event.Get("denominator").Float()
		if denominator == 0 {
			return 0, false
		}

		return event.Get("numerator").Float() / denominator, true
	})
}

// Info reports the quote metadata returned alongside the chart.
func (c *YahooClient) Info(ctx context.Context, ticker string) (types.Profile, error) {
	result, err := c.chart(ctx, ticker, map[string]string{"range": "1d", "interval": "1d"})
	if err != nil {
		return types.Profile{}, err
	}

	meta := result.Get("meta")
	profile := types.Profile{Symbol: ticker}

	for _, key := range yahooInfoFields {
		value := meta.Get(key)
		if !value.Exists() || value.Type == gjson.Null {
			continue
		}

		if value.Type == gjson.Number {
			profile.Add(key, decimal.NewFromFloat(value.Float()).String())

			continue
		}

		profile.Add(key, value.String())
	}

	return profile, nil
}

func (c *YahooClient) Financials(_ context.Context, _ string) ([]types.FinancialStatement, error) {
	return nil, unsupported(ProviderYahoo, "financial statements")
}

var yahooInfoFields = []string{
	"symbol",
	"longName",
	"shortName",
	"instrumentType",
	"currency",
	"exchangeName",
	"fullExchangeName",
	"exchangeTimezoneName",
	"regularMarketPrice",
	"regularMarketDayHigh",
	"regularMarketDayLow",
	"regularMarketVolume",
	"previousClose",
	"chartPreviousClose",
	"fiftyTwoWeekHigh",
	"fiftyTwoWeekLow",
	"firstTradeDate",
}

// eventChart returns the full history chart of ticker, fetched at most once per client.
func (c *YahooClient) eventChart(ctx context.Context, ticker string) (gjson.Result, error) {
	c.mu.Lock()
	fetch, ok := c.eventCharts[ticker]
	if !ok {
		fetch = sync.OnceValues(func() (gjson.Result, error) {
			return c.chart(ctx, ticker, map[string]string{
				"range":    "max",
				"interval": "1d",
				"events":   yahooEvents,
			})
		})
		c.eventCharts[ticker] = fetch
	}
	c.mu.Unlock()

	return fetch()
}

func (c *YahooClient) events(ctx context.Context, ticker string, name string, kind string, value func(gjson.Result) (float64, bool)) (types.TimeSeries[float64], error) {
	result, err := c.eventChart(ctx, ticker)
	if err != nil {
		return types.TimeSeries[float64]{}, err
	}

	loc := chartLocation(result)
	series := types.NewSeries[float64](name, loc)

	result.Get("events." + kind).ForEach(func(_, event gjson.Result) bool {
		v, ok := value(event)
		if !ok {
			return true
		}

		at := time.Unix(event.Get("date").Int(), 0).In(loc)
		series.Append(time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, loc), v)

		return true
	})

	sort.SliceStable(series.Points, func(i, j int) bool {
		return series.Points[i].Time.Before(series.Points[j].Time)
	})

	return series, nil
}

// chart fetches the chart endpoint and returns its first result.
func (c *YahooClient) chart(ctx context.Context, ticker string, query map[string]string) (gjson.Result, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("ticker", ticker).
		SetQueryParams(query).
		Get(yahooChartPath)
	if err != nil {
		return gjson.Result{}, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to fetch yahoo chart for %s", ticker)
	}

	body := resp.String()

	if description := gjson.Get(body, "chart.error.description"); description.Exists() && description.String() != "" {
		if resp.StatusCode() == http.StatusNotFound {
			return gjson.Result{}, errors.Newf(errors.ErrCodeDataNotFound, "yahoo chart for %s: %s", ticker, description.String())
		}

		return gjson.Result{}, errors.Newf(errors.ErrCodeMarketDataFetchFailed, "yahoo chart for %s: %s", ticker, description.String())
	}

	if resp.IsError() {
		return gjson.Result{}, errors.Newf(errors.ErrCodeMarketDataFetchFailed, "yahoo chart for %s returned status %d", ticker, resp.StatusCode())
	}

	if !gjson.Valid(body) {
		return gjson.Result{}, errors.Newf(errors.ErrCodeMarketDataParseFailed, "yahoo chart for %s returned invalid json", ticker)
	}

	result := gjson.Get(body, "chart.result.0")
	if !result.Exists() {
		return gjson.Result{}, errors.Newf(errors.ErrCodeDataNotFound, "yahoo chart for %s returned no result", ticker)
	}

	return result, nil
}

// chartLocation resolves the exchange timezone of a chart result.
func chartLocation(result gjson.Result) *time.Location {
	if name := result.Get("meta.exchangeTimezoneName").String(); name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}

	offset := result.Get("meta.gmtoffset")
	if !offset.Exists() {
		return time.UTC
	}

	return time.FixedZone(result.Get("meta.timezone").String(), int(offset.Int()))
}

func present(values []gjson.Result, i int) bool {
	return i < len(values) && values[i].Type == gjson.Number
}

func yahooInterval(multiplier int, timespan models.Timespan) (string, error) {
	if multiplier <= 0 {
		multiplier = 1
	}

	allowed := map[models.Timespan][]int{
		models.Minute: {1, 2, 5, 15, 30, 60, 90},
		models.Hour:   {1},
		models.Day:    {1, 5},
		models.Week:   {1},
		models.Month:  {1, 3},
	}

	suffix := map[models.Timespan]string{
		models.Minute: "m",
		models.Hour:   "h",
		models.Day:    "d",
		models.Week:   "wk",
		models.Month:  "mo",
	}

	for _, m := range allowed[timespan] {
		if m == multiplier {
			return fmt.Sprintf("%d%s", multiplier, suffix[timespan]), nil
		}
	}

	return "", errors.Newf(errors.ErrCodeInvalidTimespan, "yahoo does not support interval %d %s", multiplier, timespan)
}
