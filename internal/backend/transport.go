package backend

import (
	"context"
	"fmt"
	"net/http"
)

// RequestIDHeader correlates console requests with backend logs.
const RequestIDHeader = "X-Request-ID"

// IDSource yields request correlation IDs.
type IDSource interface {
	RequestID() string
}

// Limiter paces outgoing requests.
type Limiter interface {
	Wait(ctx context.Context, rawURL string) error
}

type transport struct {
	next    http.RoundTripper
	ids     IDSource
	limiter Limiter
}

// NewTransport wraps next so every request waits on limiter (when set) and
// carries an X-Request-ID from ids (when set and not already present).
func NewTransport(next http.RoundTripper, ids IDSource, limiter Limiter) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &transport{next: next, ids: ids, limiter: limiter}
}

func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(req.Context(), req.URL.String()); err != nil {
			if req.Body != nil {
				_ = req.Body.Close()
			}
			return nil, fmt.Errorf("wait for request slot: %w", err)
		}
	}
	if t.ids != nil && req.Header.Get(RequestIDHeader) == "" {
		req = req.Clone(req.Context())
		req.Header.Set(RequestIDHeader, t.ids.RequestID())
	}
	return t.next.RoundTrip(req)
}
