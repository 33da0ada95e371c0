package provider

import (
	"context"
	"fmt"
)

// Client is the interface implemented by each LLM backend.
type Client interface {
	// Query sends a single prompt and returns the generated text.
	// One network call per invocation; no retries.
	Query(ctx context.Context, req Request) (string, error)

	// Name returns the provider identifier (e.g. "openai").
	Name() string
}

// Request carries the shared inputs every provider accepts.
type Request struct {
	Prompt      string
	Model       string
	Temperature float64
}

// APIError is returned when a provider's HTTP layer responds with a
// non-success status. It carries the status code and the raw body so
// callers can report exactly what the remote said.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Body)
}
