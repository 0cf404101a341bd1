package adapters

import (
	"io"
	"net/http"
	"strconv"
	"time"

	amerrors "github.com/fedsearch/fedsearch/internal/errors"
)

const defaultHTTPTimeout = 10 * time.Second

// newHTTPClient builds a client with connection pooling, the way the
// teacher's embedding clients do, without a static Timeout so per-request
// context deadlines remain authoritative.
func newHTTPClient() *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        16,
		MaxIdleConnsPerHost: 16,
		IdleConnTimeout:     30 * time.Second,
	}
	return &http.Client{Transport: transport}
}

// classifyHTTPError maps a non-2xx HTTP response to the appropriate
// SearchError variant.
func classifyHTTPError(source string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	msg := source + ": " + string(body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return amerrors.AuthorizationError(msg)
	case resp.StatusCode == http.StatusTooManyRequests:
		return amerrors.RateLimitError(msg, retryAfterMs(resp))
	default:
		return amerrors.NetworkError(msg, nil)
	}
}

// retryAfterMs parses the Retry-After header (seconds, per RFC 9110) into
// milliseconds, defaulting to 60s when absent or unparsable.
func retryAfterMs(resp *http.Response) int64 {
	const defaultMs = 60_000
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return defaultMs
	}
	seconds, err := strconv.Atoi(v)
	if err != nil || seconds < 0 {
		return defaultMs
	}
	return int64(seconds) * 1000
}
