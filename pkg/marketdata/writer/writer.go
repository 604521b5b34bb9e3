package writer

import (
	"github.com/rxtech-lab/argo-tickerdata/internal/types"
	"github.com/rxtech-lab/argo-tickerdata/pkg/errors"
)

// WriterType selects the file format of exported tables.
type WriterType string

const (
	WriterCSV     WriterType = "csv"
	WriterParquet WriterType = "parquet"
)

// TableWriter defines the interface for writing exported tables to a destination.
// Write may be called from several goroutines at once.
type TableWriter interface {
	// Initialize sets up the writer, creating the output directory or database.
	Initialize() error
	// Write persists one table and returns the path of the file it produced.
	Write(table types.Table) (outputPath string, err error)
	// Close releases any resources held by the writer.
	Close() error
	// GetOutputDir returns the directory tables are written to.
	GetOutputDir() string
}

// NewTableWriter creates a writer of the given type rooted at outputDir.
func NewTableWriter(writerType WriterType, outputDir string) (TableWriter, error) {
	switch writerType {
	case WriterCSV, "":
		return NewCSVWriter(outputDir), nil
	case WriterParquet:
		return NewDuckDBWriter(outputDir), nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "unsupported writer type: %s", writerType)
	}
}
