package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidPeriodFormat  ErrorCode = 102
	ErrCodeInvalidTimespan      ErrorCode = 103
	ErrCodeMissingParameter     ErrorCode = 104
	ErrCodeInvalidSlice         ErrorCode = 105

	// Data errors (200-299)
	ErrCodeDataNotFound ErrorCode = 200

	// Market data errors (700-799)
	ErrCodeMarketDataFetchFailed ErrorCode = 700
	ErrCodeMarketDataWriteFailed ErrorCode = 701
	ErrCodeMarketDataParseFailed ErrorCode = 702
	ErrCodeInvalidProvider       ErrorCode = 703
	ErrCodeUnsupportedSlice      ErrorCode = 704
)
