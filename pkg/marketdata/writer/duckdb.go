package writer

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/rxtech-lab/argo-tickerdata/internal/types"
	"github.com/rxtech-lab/argo-tickerdata/pkg/errors"
)

// DuckDBWriter loads each table into an in-memory DuckDB database and exports it
// to <outputDir>/<table>.parquet. Every column is stored as VARCHAR so cell text
// matches the CSV output exactly.
type DuckDBWriter struct {
	mu        sync.Mutex
	db        *sql.DB
	outputDir string
}

// NewDuckDBWriter creates a new DuckDBWriter.
func NewDuckDBWriter(outputDir string) TableWriter {
	return &DuckDBWriter{
		outputDir: outputDir,
	}
}

// Initialize creates the output directory and opens the in-memory database.
func (w *DuckDBWriter) Initialize() (err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err = os.MkdirAll(w.outputDir, 0o755); err != nil {
		return errors.Wrapf(errors.ErrCodeMarketDataWriteFailed, err, "failed to create output directory %s", w.outputDir)
	}

	w.db, err = sql.Open("duckdb", ":memory:")
	if err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to open DuckDB connection", err)
	}

	return nil
}

// Write stages the table, copies it to Parquet and drops the staging table.
func (w *DuckDBWriter) Write(table types.Table) (outputPath string, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.db == nil {
		return "", errors.New(errors.ErrCodeMarketDataWriteFailed, "writer not initialized")
	}

	if table.Name == "" || len(table.Header) == 0 {
		return "", errors.New(errors.ErrCodeInvalidParameter, "table name and header are required")
	}

	name := quoteIdent(table.Name)
	columns := make([]string, len(table.Header))
	placeholders := make([]string, len(table.Header))

	for i, column := range table.Header {
		columns[i] = quoteIdent(column) + " VARCHAR"
		placeholders[i] = "?"
	}

	if _, err = w.db.Exec(fmt.Sprintf("CREATE OR REPLACE TABLE %s (%s)", name, strings.Join(columns, ", "))); err != nil {
		return "", errors.Wrapf(errors.ErrCodeMarketDataWriteFailed, err, "failed to create table %s", table.Name)
	}

	defer func() {
		if _, dropErr := w.db.Exec("DROP TABLE IF EXISTS " + name); dropErr != nil && err == nil {
			err = errors.Wrapf(errors.ErrCodeMarketDataWriteFailed, dropErr, "failed to drop table %s", table.Name)
		}
	}()

	if err = w.insertRows(name, placeholders, table); err != nil {
		return "", err
	}

	outputPath = filepath.Join(w.outputDir, table.Name+".parquet")

	_, err = w.db.Exec(fmt.Sprintf("COPY %s TO '%s' (FORMAT PARQUET)", name, strings.ReplaceAll(outputPath, "'", "''")))
	if err != nil {
		return "", errors.Wrapf(errors.ErrCodeMarketDataWriteFailed, err, "failed to export %s to Parquet", table.Name)
	}

	return outputPath, nil
}

func (w *DuckDBWriter) insertRows(name string, placeholders []string, table types.Table) error {
	tx, err := w.db.Begin()
	if err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to begin transaction", err)
	}

	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO %s VALUES (%s)", name, strings.Join(placeholders, ", ")))
	if err != nil {
		tx.Rollback()

		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to prepare statement", err)
	}
	defer stmt.Close()

	args := make([]any, len(table.Header))

	for _, row := range table.Rows {
		for i := range args {
			args[i] = nil
			if i < len(row) {
				args[i] = row[i]
			}
		}

		if _, err := stmt.Exec(args...); err != nil {
			tx.Rollback()

			return errors.Wrapf(errors.ErrCodeMarketDataWriteFailed, err, "failed to insert row into %s", table.Name)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to commit transaction", err)
	}

	return nil
}

// Close closes the database connection.
func (w *DuckDBWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.db == nil {
		return nil
	}

	err := w.db.Close()
	w.db = nil

	if err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to close db connection", err)
	}

	return nil
}

func (w *DuckDBWriter) GetOutputDir() string {
	return w.outputDir
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
