package types

// Table is a rectangular block of text cells ready to be written to a file.
// Name is the file stem, e.g. "AAPL_dividends".
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// IsEmpty reports whether the table has no data rows.
func (t Table) IsEmpty() bool {
	return len(t.Rows) == 0
}
