package homework

import "context"

// Client fetches homework review state from the remote API. It decouples
// the polling service from the concrete HTTP client.
type Client interface {
	// HomeworkStatuses returns the records whose status changed at or after
	// fromDate (Unix seconds), together with the cursor for the next window.
	HomeworkStatuses(ctx context.Context, fromDate int64) (*StatusPage, error)
}
