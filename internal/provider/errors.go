package provider

import "fmt"

// ErrorKind categorizes a failed fetch.
type ErrorKind string

const (
	KindNetwork    ErrorKind = "network"
	KindRateLimit  ErrorKind = "rate_limit"
	KindServer     ErrorKind = "server"
	KindClient     ErrorKind = "client"
	KindValidation ErrorKind = "validation"
	KindTimeout    ErrorKind = "timeout"
	KindUnknown    ErrorKind = "unknown"
)

// FetchError is the structured error returned by providers. Retryable
// reports whether repeating the request could reasonably succeed.
type FetchError struct {
	Kind       ErrorKind
	Retryable  bool
	StatusCode int
	Message    string
	Cause      error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// NetworkError wraps a transport-level failure (DNS, refused connection).
func NetworkError(cause error) *FetchError {
	return &FetchError{Kind: KindNetwork, Retryable: true, Message: "network request failed", Cause: cause}
}

// TimeoutError wraps a deadline or cancellation failure.
func TimeoutError(cause error) *FetchError {
	return &FetchError{Kind: KindTimeout, Retryable: true, Message: "request timed out", Cause: cause}
}

// ValidationError reports a response that arrived but made no sense.
func ValidationError(message string) *FetchError {
	return &FetchError{Kind: KindValidation, Message: message}
}

// ClassifyStatus maps an HTTP status code to a FetchError.
func ClassifyStatus(statusCode int) *FetchError {
	switch {
	case statusCode == 429:
		return &FetchError{Kind: KindRateLimit, Retryable: true, StatusCode: statusCode, Message: "rate limit exceeded"}
	case statusCode >= 500:
		return &FetchError{Kind: KindServer, Retryable: true, StatusCode: statusCode, Message: "server returned an error"}
	case statusCode >= 400:
		return &FetchError{Kind: KindClient, StatusCode: statusCode, Message: fmt.Sprintf("client error: HTTP %d", statusCode)}
	default:
		return &FetchError{Kind: KindUnknown, StatusCode: statusCode, Message: fmt.Sprintf("unexpected status code: %d", statusCode)}
	}
}
