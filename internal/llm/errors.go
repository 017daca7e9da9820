package llm

import (
	"errors"
	"fmt"
	"net"
)

var (
	// ErrOllamaUnavailable means no connection to the server could be made.
	ErrOllamaUnavailable = errors.New("ollama server unavailable")

	// ErrTimeout means an attempt or the caller's context ran out of time.
	ErrTimeout = errors.New("llm request timed out")

	// ErrInvalidOutput means the reply did not decode into the expected shape.
	ErrInvalidOutput = errors.New("invalid llm output format")

	// ErrRetryExhausted wraps the last failure once every attempt failed.
	ErrRetryExhausted = errors.New("llm retry attempts exhausted")

	ErrDisabled = errors.New("llm is disabled")
)

// StatusError is a non-200 reply from the server. 5xx replies are retried;
// anything else fails the call immediately.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ollama returned status %d: %s", e.Code, e.Body)
}

func retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= 500
	}
	return true
}

func isConnectionError(err error) bool {
	var netErr *net.OpError
	return err != nil && errors.As(err, &netErr)
}

// errorCode is the short label reported to observers.
func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrOllamaUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	case errors.Is(err, ErrRetryExhausted):
		return "RETRY_EXHAUSTED"
	default:
		return "UNKNOWN"
	}
}
