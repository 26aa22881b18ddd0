package whttp

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Query parameters that carry provider credentials; their values are masked
// before the URL is logged.
var sensitiveParams = []string{"key", "access_key", "apikey"}

type LoggingRoundTripper struct {
	Proxied http.RoundTripper
}

func (lrt LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	slog.Debug("outbound request", "method", req.Method, "url", maskURL(req.URL))

	res, err := lrt.Proxied.RoundTrip(req)
	if err != nil {
		slog.Error("outbound request failed", "method", req.Method, "url", maskURL(req.URL), "error", err)
		return res, err
	}

	b := bytes.NewBuffer(make([]byte, 0))
	reader := io.TeeReader(res.Body, b)

	body, _ := io.ReadAll(reader)
	slog.Debug("outbound response", "status", res.Status, "body", string(body))

	defer res.Body.Close()

	res.Body = io.NopCloser(b)

	return res, nil
}

// NewLoggingClient creates the HTTP client used for every provider call: one
// shared 10 second timeout and request/response logging with credentials
// masked. The timeout is the only cancellation mechanism for in-flight
// provider calls.
func NewLoggingClient() *http.Client {
	return &http.Client{
		Transport: LoggingRoundTripper{Proxied: http.DefaultTransport},
		Timeout:   10 * time.Second,
	}
}

func maskURL(u *url.URL) string {
	masked := *u
	q := masked.Query()
	for _, param := range sensitiveParams {
		if q.Has(param) {
			q.Set(param, "*****")
		}
	}
	masked.RawQuery = q.Encode()
	return masked.String()
}
