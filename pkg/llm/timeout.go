package llm

import (
	"context"
	"time"
)

type timeoutClient struct {
	inner Client
	d     time.Duration
}

// NewWithTimeout bounds every completion call with its own deadline. The
// parent context still applies; the shorter of the two wins.
func NewWithTimeout(inner Client, d time.Duration) Client {
	return &timeoutClient{inner: inner, d: d}
}

func (c *timeoutClient) Complete(ctx context.Context, req *Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.d)
	defer cancel()
	return c.inner.Complete(ctx, req)
}
