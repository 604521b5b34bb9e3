package marketdata

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rxtech-lab/argo-tickerdata/internal/logger"
	"github.com/rxtech-lab/argo-tickerdata/internal/types"
	"github.com/rxtech-lab/argo-tickerdata/internal/version"
	"github.com/rxtech-lab/argo-tickerdata/pkg/errors"
	"github.com/rxtech-lab/argo-tickerdata/pkg/marketdata/provider"
	"github.com/rxtech-lab/argo-tickerdata/pkg/marketdata/writer"
)

const DefaultConcurrency = 4

// ClientConfig holds the configuration for the market data client.
type ClientConfig struct {
	ProviderType  provider.ProviderType `validate:"required,oneof=polygon yahoo"`
	WriterType    writer.WriterType     `validate:"required,oneof=csv parquet"`
	DataPath      string                `validate:"required"`
	PolygonApiKey string                `validate:"required_if=ProviderType polygon"`
	YahooBaseURL  string                `validate:"omitempty,url"`
	Concurrency   int                   `validate:"gte=0,lte=32"`
}

// ExportParams holds the parameters of one export run.
type ExportParams struct {
	Ticker   string   `validate:"required,excludesall=/\\,excludes=.."`
	Period   string   `validate:"required"`
	Interval Interval `validate:"required"`
	// Slices selects the tables to export. Empty means all of them.
	Slices []Slice
	// Now anchors the trailing window. Zero means the current time.
	Now time.Time
}

// Client exports the data slices of a ticker from a provider into table files.
type Client struct {
	provider   provider.Provider
	config     ClientConfig
	validate   *validator.Validate
	logger     *logger.Logger
	onProgress provider.OnDownloadProgress
	newWriter  func(outputDir string) (writer.TableWriter, error)
	progressMu sync.Mutex
}

// NewClient creates a new market data client with the given configuration.
func NewClient(config ClientConfig, log *logger.Logger, onProgress provider.OnDownloadProgress) (*Client, error) {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid client configuration", err)
	}

	var providerConfig any

	switch config.ProviderType {
	case provider.ProviderPolygon:
		providerConfig = config.PolygonApiKey
	case provider.ProviderYahoo:
		providerConfig = config.YahooBaseURL
	}

	marketProvider, err := provider.NewMarketDataProvider(config.ProviderType, providerConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s provider: %w", config.ProviderType, err)
	}

	return NewClientWithProvider(config, marketProvider, log, onProgress), nil
}

// NewClientWithProvider creates a client around an existing provider.
func NewClientWithProvider(config ClientConfig, marketProvider provider.Provider, log *logger.Logger, onProgress provider.OnDownloadProgress) *Client {
	if log == nil {
		log = logger.NewNopLogger()
	}

	writerType := config.WriterType

	return &Client{
		provider:   marketProvider,
		config:     config,
		validate:   validator.New(),
		logger:     log,
		onProgress: onProgress,
		newWriter: func(outputDir string) (writer.TableWriter, error) {
			return writer.NewTableWriter(writerType, outputDir)
		},
	}
}

// fetchers shares one provider call per underlying dataset between the slices of a run.
type fetchers struct {
	prices       func() ([]types.MarketData, error)
	dividends    func() (types.TimeSeries[float64], error)
	splits       func() (types.TimeSeries[float64], error)
	capitalGains func() (types.TimeSeries[float64], error)
	info         func() (types.Profile, error)
	financials   func() ([]types.FinancialStatement, error)
}

// Export fetches the requested slices, restricts time based ones to the trailing
// period and writes every non-empty table plus a manifest to <DataPath>/<Ticker>/.
// Slices the provider cannot serve are reported as unsupported; any other failure
// aborts the run.
func (c *Client) Export(ctx context.Context, params ExportParams) (types.ExportReport, error) {
	params.Ticker = strings.TrimSpace(params.Ticker)

	if err := c.validate.Struct(params); err != nil {
		return types.ExportReport{}, errors.Wrap(errors.ErrCodeInvalidParameter, "invalid export parameters", err)
	}

	period, err := ParsePeriod(params.Period)
	if err != nil {
		return types.ExportReport{}, err
	}

	interval, err := ParseInterval(string(params.Interval))
	if err != nil {
		return types.ExportReport{}, err
	}

	slices := AllSlices
	if len(params.Slices) > 0 {
		slices = make([]Slice, 0, len(params.Slices))
		seen := make(map[Slice]bool, len(params.Slices))

		for _, s := range params.Slices {
			if !s.IsValid() {
				return types.ExportReport{}, errors.Newf(errors.ErrCodeInvalidSlice, "unknown slice %q", s)
			}

			if !seen[s] {
				seen[s] = true
				slices = append(slices, s)
			}
		}
	}

	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}

	outputDir := filepath.Join(c.config.DataPath, params.Ticker)

	if err := c.checkPreviousManifest(filepath.Join(outputDir, writer.ManifestFileName(params.Ticker))); err != nil {
		return types.ExportReport{}, err
	}

	tableWriter, err := c.newWriter(outputDir)
	if err != nil {
		return types.ExportReport{}, err
	}

	if err := tableWriter.Initialize(); err != nil {
		return types.ExportReport{}, fmt.Errorf("failed to initialize writer at %s: %w", outputDir, err)
	}

	defer func() {
		if cerr := tableWriter.Close(); cerr != nil {
			c.logger.Warn("Failed to close writer", zap.String("dir", outputDir), zap.Error(cerr))
		}
	}()

	report := types.ExportReport{
		RunID:       uuid.New().String(),
		ToolVersion: version.GetVersion(),
		Ticker:      params.Ticker,
		Provider:    string(c.config.ProviderType),
		Period:      period.String(),
		Interval:    string(interval),
		OutputDir:   outputDir,
		Slices:      make([]types.SliceResult, len(slices)),
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(c.concurrency())

	fetch := c.newFetchers(groupCtx, params.Ticker, period, interval, now)

	var done int

	for i, slice := range slices {
		group.Go(func() error {
			result, err := c.exportSlice(params.Ticker, slice, fetch, tableWriter)
			if err != nil {
				return fmt.Errorf("failed to export %s: %w", slice, err)
			}

			report.Slices[i] = result

			c.progressMu.Lock()
			done++
			c.reportProgress(done, len(slices), fmt.Sprintf("%s %s", params.Ticker, slice))
			c.progressMu.Unlock()

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return types.ExportReport{}, err
	}

	report.GeneratedAt = time.Now().UTC()

	manifestPath, err := writer.WriteManifest(outputDir, report)
	if err != nil {
		return types.ExportReport{}, err
	}

	c.logger.Info("Export finished",
		zap.String("run_id", report.RunID),
		zap.String("ticker", report.Ticker),
		zap.Int("written", len(report.Written())),
		zap.String("manifest", manifestPath),
	)

	return report, nil
}

// checkPreviousManifest refuses to overwrite an export written by an incompatible version.
// A missing or unreadable manifest does not block the run.
func (c *Client) checkPreviousManifest(path string) error {
	previous, err := writer.ReadManifest(path)

	switch {
	case err == nil:
		c.logger.Info("Replacing previous export",
			zap.String("run_id", previous.RunID),
			zap.String("tool_version", previous.ToolVersion),
		)

		return nil
	case errors.HasCode(err, errors.ErrCodeDataNotFound):
		return nil
	case errors.HasCode(err, errors.ErrCodeInvalidConfiguration):
		return err
	default:
		c.logger.Warn("Ignoring unreadable manifest", zap.String("path", path), zap.Error(err))

		return nil
	}
}

func (c *Client) exportSlice(ticker string, slice Slice, fetch fetchers, tableWriter writer.TableWriter) (types.SliceResult, error) {
	result := types.SliceResult{Slice: string(slice)}

	table, err := buildTable(slice.TableName(ticker), slice, fetch)
	if errors.IsUnsupported(err) {
		c.logger.Warn("Slice not supported by provider",
			zap.String("slice", string(slice)),
			zap.String("provider", string(c.config.ProviderType)),
		)

		result.Status = types.SliceStatusUnsupported

		return result, nil
	}

	if err != nil {
		return result, err
	}

	if table.IsEmpty() {
		c.logger.Info("Skipping empty slice", zap.String("slice", string(slice)))

		result.Status = types.SliceStatusSkippedEmpty

		return result, nil
	}

	path, err := tableWriter.Write(table)
	if err != nil {
		return result, err
	}

	c.logger.Info("Wrote slice",
		zap.String("slice", string(slice)),
		zap.Int("rows", len(table.Rows)),
		zap.String("path", path),
	)

	result.Status = types.SliceStatusWritten
	result.Path = path
	result.Rows = len(table.Rows)

	return result, nil
}

func buildTable(name string, slice Slice, fetch fetchers) (types.Table, error) {
	switch slice {
	case SliceOHLC, SliceVolume:
		bars, err := fetch.prices()
		if err != nil {
			return types.Table{}, err
		}

		if slice == SliceVolume {
			return VolumeTable(name, bars), nil
		}

		return OHLCTable(name, bars), nil
	case SliceDividends:
		return seriesTable(name, "Dividends", fetch.dividends)
	case SliceSplits:
		return seriesTable(name, "Splits", fetch.splits)
	case SliceCapitalGains:
		return seriesTable(name, "Capital Gains", fetch.capitalGains)
	case SliceActions:
		dividends, err := fetch.dividends()
		if err != nil {
			return types.Table{}, err
		}

		splits, err := fetch.splits()
		if err != nil {
			return types.Table{}, err
		}

		return ActionsTable(name, dividends, splits), nil
	case SliceInfo:
		profile, err := fetch.info()
		if err != nil {
			return types.Table{}, err
		}

		return InfoTable(name, profile), nil
	case SliceIncomeStatement, SliceBalanceSheet, SliceCashFlow:
		statements, err := fetch.financials()
		if err != nil {
			return types.Table{}, err
		}

		return StatementTable(name, types.StatementKind(slice), statements), nil
	default:
		return types.Table{}, errors.Newf(errors.ErrCodeInvalidSlice, "unknown slice %q", slice)
	}
}

func seriesTable(name string, column string, fetch func() (types.TimeSeries[float64], error)) (types.Table, error) {
	series, err := fetch()
	if err != nil {
		return types.Table{}, err
	}

	return SeriesTable(name, column, series), nil
}

func (c *Client) newFetchers(ctx context.Context, ticker string, period Period, interval Interval, now time.Time) fetchers {
	filtered := func(fetch func(context.Context, string) (types.TimeSeries[float64], error)) func() (types.TimeSeries[float64], error) {
		return sync.OnceValues(func() (types.TimeSeries[float64], error) {
			series, err := fetch(ctx, ticker)
			if err != nil {
				return types.TimeSeries[float64]{}, err
			}

			return FilterSeriesAt(series, period.String(), now)
		})
	}

	return fetchers{
		prices: sync.OnceValues(func() ([]types.MarketData, error) {
			bars, err := c.provider.PriceHistory(ctx, ticker, period.Range(now), interval.Multiplier(), interval.Timespan())
			if err != nil {
				return nil, err
			}

			return FilterBarsAt(bars, period.String(), now)
		}),
		dividends:    filtered(c.provider.Dividends),
		splits:       filtered(c.provider.Splits),
		capitalGains: filtered(c.provider.CapitalGains),
		info: sync.OnceValues(func() (types.Profile, error) {
			return c.provider.Info(ctx, ticker)
		}),
		financials: sync.OnceValues(func() ([]types.FinancialStatement, error) {
			return c.provider.Financials(ctx, ticker)
		}),
	}
}

func (c *Client) concurrency() int {
	if c.config.Concurrency <= 0 {
		return DefaultConcurrency
	}

	return c.config.Concurrency
}

func (c *Client) reportProgress(current int, total int, message string) {
	if c.onProgress != nil {
		c.onProgress(float64(current), float64(total), message)
	}
}
