package fetch

import (
	"errors"
	"fmt"
)

var (
	// ErrNoData means the upstream has nothing for the request. Callers record
	// an absent field and move on.
	ErrNoData = errors.New("no data")

	// ErrRateLimited wraps the last *APIError once 429 retries are exhausted.
	ErrRateLimited = errors.New("rate limited")

	// ErrMalformed marks a payload that could not be decoded or validated.
	ErrMalformed = errors.New("malformed payload")
)

// APIError is a non-2xx response that is not a NoData status.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream error %d: %s", e.StatusCode, e.Message)
}

// IsRateLimited reports whether the response was a 429.
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == 429
}

// IsSoft reports whether err is a NoData or malformed payload condition.
func IsSoft(err error) bool {
	return errors.Is(err, ErrNoData) || errors.Is(err, ErrMalformed)
}

// Malformed wraps err as a malformed payload error.
func Malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
}
