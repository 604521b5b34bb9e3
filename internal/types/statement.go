package types

import "time"

// StatementKind identifies a financial statement.
type StatementKind string

const (
	StatementIncome   StatementKind = "income_statement"
	StatementBalance  StatementKind = "balance_sheet"
	StatementCashFlow StatementKind = "cash_flow"
)

// FinancialStatement holds the line items of one statement for one reporting period.
type FinancialStatement struct {
	Kind         StatementKind
	PeriodEnd    time.Time
	FiscalPeriod string
	FiscalYear   string
	// Items maps line item label to value.
	Items map[string]float64
}
