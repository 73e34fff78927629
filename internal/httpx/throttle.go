package httpx

import (
	"net/http"

	"golang.org/x/time/rate"
)

type throttleConfig struct {
	rps   float64
	burst int
}

// throttledTransport applies a token-bucket limit in front of the base
// round tripper. Waiting respects the request context.
type throttledTransport struct {
	limiter *rate.Limiter
	base    http.RoundTripper
}

func newThrottledTransport(rps float64, burst int, base http.RoundTripper) *throttledTransport {
	if burst < 1 {
		burst = 1
	}
	return &throttledTransport{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		base:    base,
	}
}

func (t *throttledTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}
