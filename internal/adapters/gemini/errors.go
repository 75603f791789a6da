package gemini

import "errors"

var (
	// ErrUnavailable indicates the quote service could not be reached or is
	// not configured.
	ErrUnavailable = errors.New("gemini service unavailable")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("gemini request timed out")

	// ErrInvalidOutput indicates the response could not be parsed into a quote.
	ErrInvalidOutput = errors.New("invalid gemini output format")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("gemini retry attempts exhausted")
)

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	default:
		return "UNKNOWN"
	}
}
