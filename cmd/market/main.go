package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-tickerdata/internal/config"
	"github.com/rxtech-lab/argo-tickerdata/internal/logger"
	"github.com/rxtech-lab/argo-tickerdata/internal/version"
	"github.com/rxtech-lab/argo-tickerdata/pkg/marketdata"
)

// exportAction loads the configuration, applies flag overrides and runs one export.
func exportAction(out io.Writer, errOut io.Writer) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		exportConfig, err := config.Load(cmd.String("config"), cmd.String("env-file"))
		if err != nil {
			return err
		}

		applyFlagOverrides(cmd, exportConfig)

		if err := exportConfig.Validate(); err != nil {
			return err
		}

		params, err := exportConfig.ToExportParams()
		if err != nil {
			return err
		}

		appLogger, err := logger.NewLoggerWithLevel(cmd.String("log-level"))
		if err != nil {
			return err
		}
		defer appLogger.Sync() //nolint:errcheck

		bar := progressbar.NewOptions(len(params.Slices),
			progressbar.OptionSetWriter(errOut),
			progressbar.OptionSetDescription(fmt.Sprintf("Exporting %s", params.Ticker)),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)

		client, err := marketdata.NewClient(exportConfig.ToClientConfig(), appLogger, func(current float64, _ float64, _ string) {
			_ = bar.Set(int(current))
		})
		if err != nil {
			return fmt.Errorf("failed to create market data client: %w", err)
		}

		appLogger.Info("Starting export",
			zap.String("ticker", params.Ticker),
			zap.String("provider", exportConfig.Provider),
			zap.String("period", params.Period),
			zap.String("interval", string(params.Interval)),
		)

		report, err := client.Export(ctx, params)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		_ = bar.Finish()

		table := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(table, "SLICE\tSTATUS\tROWS\tPATH")

		for _, result := range report.Slices {
			fmt.Fprintf(table, "%s\t%s\t%d\t%s\n", result.Slice, result.Status, result.Rows, result.Path)
		}

		return table.Flush()
	}
}

// applyFlagOverrides copies explicitly set flags over the loaded configuration.
func applyFlagOverrides(cmd *cli.Command, exportConfig *marketdata.ExportConfig) {
	if cmd.IsSet("ticker") {
		exportConfig.Ticker = cmd.String("ticker")
	}

	if cmd.IsSet("provider") {
		exportConfig.Provider = cmd.String("provider")
	}

	if cmd.IsSet("writer") {
		exportConfig.Writer = cmd.String("writer")
	}

	if cmd.IsSet("data") {
		exportConfig.DataPath = cmd.String("data")
	}

	if cmd.IsSet("period") {
		exportConfig.Period = cmd.String("period")
	}

	if cmd.IsSet("interval") {
		exportConfig.Interval = cmd.String("interval")
	}

	if cmd.IsSet("slices") {
		exportConfig.Slices = cmd.StringSlice("slices")
	}

	if cmd.IsSet("concurrency") {
		exportConfig.Concurrency = int(cmd.Int("concurrency"))
	}

	if cmd.IsSet("yahoo-url") {
		exportConfig.YahooBaseURL = cmd.String("yahoo-url")
	}
}

func providersAction(out io.Writer) cli.ActionFunc {
	return func(_ context.Context, _ *cli.Command) error {
		table := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(table, "NAME\tDISPLAY NAME\tAUTH\tSLICES")

		for _, name := range marketdata.GetSupportedProviders() {
			info, err := marketdata.GetProviderInfo(name)
			if err != nil {
				return err
			}

			fmt.Fprintf(table, "%s\t%s\t%t\t%s\n", info.Name, info.DisplayName, info.RequiresAuth, strings.Join(info.Slices, ","))
		}

		return table.Flush()
	}
}

func schemaAction(out io.Writer) cli.ActionFunc {
	return func(_ context.Context, _ *cli.Command) error {
		schema, err := marketdata.GetExportConfigSchema()
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(out, schema)

		return err
	}
}

func newApp(out io.Writer, errOut io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "market",
		Usage:     "Export ticker history, corporate actions and fundamentals to files",
		Version:   version.GetVersion(),
		Writer:    out,
		ErrWriter: errOut,
		Commands: []*cli.Command{
			{
				Name:  "export",
				Usage: "Export the data slices of one ticker",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to a YAML config file",
					},
					&cli.StringFlag{
						Name:  "env-file",
						Usage: "Env file loaded before reading the environment (default .env when present)",
					},
					&cli.StringFlag{
						Name:    "ticker",
						Aliases: []string{"t"},
						Usage:   "Ticker symbol",
					},
					&cli.StringFlag{
						Name:    "provider",
						Aliases: []string{"p"},
						Usage:   fmt.Sprintf("Data provider (%s)", strings.Join(marketdata.GetSupportedProviders(), ", ")),
					},
					&cli.StringFlag{
						Name:    "writer",
						Aliases: []string{"w"},
						Usage:   "Output format (csv, parquet)",
					},
					&cli.StringFlag{
						Name:    "data",
						Aliases: []string{"d"},
						Usage:   "Path to the data output directory",
					},
					&cli.StringFlag{
						Name:  "period",
						Usage: "Trailing window such as 7d, 3mo, 2y or max",
					},
					&cli.StringFlag{
						Name:    "interval",
						Aliases: []string{"i"},
						Usage:   "Price bar size such as 1d, 1wk or 1h",
					},
					&cli.StringSliceFlag{
						Name:  "slices",
						Usage: "Comma separated slices to export (default all)",
					},
					&cli.IntFlag{
						Name:  "concurrency",
						Usage: "Maximum number of slices fetched at once",
					},
					&cli.StringFlag{
						Name:  "yahoo-url",
						Usage: "Override the Yahoo Finance API host",
					},
					&cli.StringFlag{
						Name:  "log-level",
						Usage: "Log level (debug, info, warn, error)",
						Value: "info",
					},
				},
				Action: exportAction(out, errOut),
			},
			{
				Name:   "providers",
				Usage:  "List supported market data providers",
				Action: providersAction(out),
			},
			{
				Name:   "schema",
				Usage:  "Print the JSON schema of the export configuration",
				Action: schemaAction(out),
			},
		},
	}
}

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
