package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInsufficientData     ErrorCode = 102
	ErrCodeInvalidPeriod        ErrorCode = 103
	ErrCodeInvalidThreshold     ErrorCode = 104
	ErrCodeInvalidSeries        ErrorCode = 105

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound   ErrorCode = 200
	ErrCodeEmptySeries    ErrorCode = 201
	ErrCodeSeriesOrdering ErrorCode = 202
	ErrCodeQueryFailed    ErrorCode = 203

	// Indicator errors (300-399)
	ErrCodeIndicatorNotComputed ErrorCode = 300
	ErrCodeIndicatorCalculation ErrorCode = 301
	ErrCodeIndicatorMissing     ErrorCode = 302

	// Model errors (400-499)
	ErrCodeModelPrecondition ErrorCode = 400
	ErrCodeModelRuntime      ErrorCode = 401

	// Consensus errors (500-599)
	ErrCodeNoModelsRan ErrorCode = 500

	// Market data errors (700-799)
	ErrCodeInvalidSymbol    ErrorCode = 700
	ErrCodeFetchTimeout     ErrorCode = 701
	ErrCodeRemoteError      ErrorCode = 702
	ErrCodeNoData           ErrorCode = 703
	ErrCodeInvalidTimespan  ErrorCode = 704
	ErrCodeDataSourceClosed ErrorCode = 705
)
