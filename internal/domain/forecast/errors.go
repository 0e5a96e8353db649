package forecast

import (
	"errors"
	"fmt"
)

var (
	// ErrDataUnavailable means the payload was readable but held no usable
	// records. Callers may retry after a delay.
	ErrDataUnavailable = errors.New("forecast data unavailable")
	// ErrMalformedInput means the payload is missing expected fields entirely.
	ErrMalformedInput = errors.New("malformed forecast payload")
)

// ProviderError is an explicit failure reported by the upstream provider.
type ProviderError struct {
	Provider string
	Code     string
	Message  string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s error %s: %s", e.Provider, e.Code, e.Message)
}

// Malformed wraps ErrMalformedInput with context.
func Malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedInput, fmt.Sprintf(format, args...))
}
