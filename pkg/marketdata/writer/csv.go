package writer

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"sync"

	"github.com/rxtech-lab/argo-tickerdata/internal/types"
	"github.com/rxtech-lab/argo-tickerdata/pkg/errors"
)

// CSVWriter writes each table to <outputDir>/<table>.csv.
type CSVWriter struct {
	mu          sync.Mutex
	outputDir   string
	initialized bool
}

// NewCSVWriter creates a new CSVWriter.
func NewCSVWriter(outputDir string) TableWriter {
	return &CSVWriter{
		outputDir: outputDir,
	}
}

// Initialize creates the output directory.
func (w *CSVWriter) Initialize() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return errors.Wrapf(errors.ErrCodeMarketDataWriteFailed, err, "failed to create output directory %s", w.outputDir)
	}

	w.initialized = true

	return nil
}

func (w *CSVWriter) Write(table types.Table) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.initialized {
		return "", errors.New(errors.ErrCodeMarketDataWriteFailed, "writer not initialized")
	}

	if table.Name == "" {
		return "", errors.New(errors.ErrCodeInvalidParameter, "table name is required")
	}

	outputPath := filepath.Join(w.outputDir, table.Name+".csv")

	file, err := os.Create(outputPath)
	if err != nil {
		return "", errors.Wrapf(errors.ErrCodeMarketDataWriteFailed, err, "failed to create %s", outputPath)
	}

	out := csv.NewWriter(file)

	if err := out.Write(table.Header); err != nil {
		file.Close()

		return "", errors.Wrapf(errors.ErrCodeMarketDataWriteFailed, err, "failed to write header to %s", outputPath)
	}

	if err := out.WriteAll(table.Rows); err != nil {
		file.Close()

		return "", errors.Wrapf(errors.ErrCodeMarketDataWriteFailed, err, "failed to write rows to %s", outputPath)
	}

	if err := file.Close(); err != nil {
		return "", errors.Wrapf(errors.ErrCodeMarketDataWriteFailed, err, "failed to close %s", outputPath)
	}

	return outputPath, nil
}

func (w *CSVWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.initialized = false

	return nil
}

func (w *CSVWriter) GetOutputDir() string {
	return w.outputDir
}
