// Package llm provides completion clients for the classification engine.
// All providers expose the same Complete call; the engine never depends on a
// concrete backend and degrades to rule-based classification when no client
// is configured.
package llm

import (
	"context"
	"net/http"
	"time"
)

// sharedHTTPClient is used by all HTTP providers; a 5-minute timeout covers
// slow batch completions.
var sharedHTTPClient = &http.Client{
	Timeout: 5 * time.Minute,
}

// defaultMaxTokens is the fallback when Request.MaxTokens is not set.
const defaultMaxTokens = 4096

// Request holds the parameters for one completion call.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float64
	MaxTokens    int
	// Model overrides the provider's configured model when non-empty.
	Model string
}

// Response holds the result of a completion call.
type Response struct {
	Content string
	Model   string // actual model used, echoed back for meta
}

// Client is the interface for completion backends.
type Client interface {
	Complete(ctx context.Context, req *Request) (*Response, error)
}

// truncate limits a string to maxLen runes, appending "..." if truncated.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
