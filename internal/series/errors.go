package series

import "errors"

// Sentinel errors shared by the analysis packages. Callers match them with
// errors.Is; producers wrap them with fmt.Errorf("...: %w", ...) to attach
// context. The engine fails fast on bad input and never repairs it silently.
var (
	// ErrInvalidInput marks malformed market data: empty series,
	// non-positive or non-finite prices, out-of-order timestamps, or
	// return series that do not share one aligned index.
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInsufficientData marks input that is well formed but too short
	// for the requested computation, such as a price history shorter than
	// the largest rolling window.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrConfig marks invalid analysis parameters: non-positive windows,
	// a short window not below the long one, thresholds outside [0, 1].
	ErrConfig = errors.New("invalid configuration")
)
