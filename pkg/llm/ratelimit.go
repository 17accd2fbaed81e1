package llm

import (
	"context"

	"golang.org/x/time/rate"
)

// rateLimitedClient throttles calls to the wrapped client so concurrent
// jurisdiction workers stay inside the provider's request quota.
type rateLimitedClient struct {
	inner   Client
	limiter *rate.Limiter
}

// NewRateLimited wraps a client with a token-bucket limiter of r requests
// per second and the given burst.
func NewRateLimited(inner Client, r rate.Limit, burst int) Client {
	return &rateLimitedClient{
		inner:   inner,
		limiter: rate.NewLimiter(r, burst),
	}
}

func (c *rateLimitedClient) Complete(ctx context.Context, req *Request) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.inner.Complete(ctx, req)
}
