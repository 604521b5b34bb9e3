package writer

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/rxtech-lab/argo-tickerdata/internal/types"
	"github.com/rxtech-lab/argo-tickerdata/internal/version"
	"github.com/rxtech-lab/argo-tickerdata/pkg/errors"
)

// ManifestFileName returns the manifest file name for a ticker.
func ManifestFileName(ticker string) string {
	return ticker + "_manifest.yaml"
}

// WriteManifest writes the export report as YAML into dir and returns its path.
func WriteManifest(dir string, report types.ExportReport) (string, error) {
	data, err := yaml.Marshal(report)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to marshal manifest", err)
	}

	outputPath := filepath.Join(dir, ManifestFileName(report.Ticker))
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return "", errors.Wrapf(errors.ErrCodeMarketDataWriteFailed, err, "failed to write manifest %s", outputPath)
	}

	return outputPath, nil
}

// ReadManifest loads a manifest written by WriteManifest. Manifests written by an
// incompatible version fail with ErrCodeInvalidConfiguration.
func ReadManifest(path string) (types.ExportReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.ExportReport{}, errors.Wrapf(errors.ErrCodeDataNotFound, err, "failed to read manifest %s", path)
	}

	var report types.ExportReport
	if err := yaml.Unmarshal(data, &report); err != nil {
		return types.ExportReport{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "failed to parse manifest %s", path)
	}

	if err := version.CheckManifestCompatibility(version.GetVersion(), report.ToolVersion); err != nil {
		return types.ExportReport{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "unsupported manifest %s", path)
	}

	return report, nil
}
