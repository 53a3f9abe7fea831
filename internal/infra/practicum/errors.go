package practicum

import "fmt"

// RequestError reports an outbound call that never produced an HTTP
// response: connection refused, DNS failure, timeout, cancellation.
type RequestError struct {
	URL      string
	FromDate int64
	Err      error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("homework statuses request to %s (from_date=%d) failed: %v", e.URL, e.FromDate, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// StatusError reports a response with a non-success HTTP status code.
type StatusError struct {
	URL        string
	FromDate   int64
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("endpoint %s (from_date=%d) answered HTTP %d: %s", e.URL, e.FromDate, e.StatusCode, e.Body)
}

// APIError reports a success-status response whose payload carries the
// API's own error markers instead of homework data.
type APIError struct {
	URL      string
	FromDate int64
	Field    string
	Payload  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API reported an error for %s (from_date=%d): %s=%s", e.URL, e.FromDate, e.Field, e.Payload)
}
