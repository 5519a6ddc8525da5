package dividends

import "errors"

// Error taxonomy. Errors returned by this module wrap one of these, test them with errors.Is.
var (
	// ErrInvalidIdentifier is returned when a security identifier is not of the form MARKET:SYMBOL.
	ErrInvalidIdentifier = errors.New("invalid identifier")
	// ErrInvalidParameter is returned for out of range arguments or invalid series.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrNotImplemented is returned for any frequency other than daily.
	ErrNotImplemented = errors.New("not implemented")
	// ErrRemoteUnavailable is returned when the remote source could not serve a request.
	ErrRemoteUnavailable = errors.New("remote source unavailable")
	// ErrInsufficientData is returned when there is not enough data to compute a result.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrDivisionByZero is returned when a ratio has a zero base.
	ErrDivisionByZero = errors.New("division by zero")
)
