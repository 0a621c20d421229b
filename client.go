package s3comms

import (
	"net"
	"net/http"
	"time"
)

// defaultClientTimeout bounds both dial and response-header wait time for
// the HTTP client Open constructs when the caller supplies none.
const defaultClientTimeout = 30 * time.Second

// ClientWithTimeout returns an *http.Client configured for HTTP/1.1
// against S3, with the given timeout applied to both connection dialing
// and waiting for response headers. The core sets no other client-level
// options: redirect-following, TLS configuration, and retry/backoff are
// all left at the Go standard library's defaults, per this package's
// Non-goals.
func ClientWithTimeout(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{Timeout: timeout}
	return &http.Client{
		Transport: &http.Transport{
			DialContext:           dialer.DialContext,
			ResponseHeaderTimeout: timeout,
			ForceAttemptHTTP2:     false,
		},
	}
}
