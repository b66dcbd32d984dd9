package slog

import (
	"log/slog"
	"net/http"
	"time"
)

// Ensure LoggingTransport implements http.RoundTripper.
var _ http.RoundTripper = (*LoggingTransport)(nil)

// LoggingTransport wraps an http.RoundTripper with request logging for
// calls made outside a Fetcher, such as API requests during discovery.
type LoggingTransport struct {
	next   http.RoundTripper
	logger *slog.Logger
}

// NewLoggingTransport creates a new LoggingTransport. A nil next uses
// http.DefaultTransport.
func NewLoggingTransport(next http.RoundTripper, logger *slog.Logger) *LoggingTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &LoggingTransport{next: next, logger: logger}
}

// NewLoggingClient returns a copy of client whose requests are logged.
func NewLoggingClient(client *http.Client, logger *slog.Logger) *http.Client {
	c := *client
	c.Transport = NewLoggingTransport(client.Transport, logger)
	return &c
}

// RoundTrip delegates to the wrapped transport and logs the outcome.
func (t *LoggingTransport) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	defer func(begin time.Time) {
		if err != nil {
			t.logger.Info("request failed",
				"method", req.Method,
				"url", req.URL.String(),
				"duration", time.Since(begin),
				"err", err,
			)
			return
		}
		t.logger.Debug("request",
			"method", req.Method,
			"url", req.URL.String(),
			"status", resp.StatusCode,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return t.next.RoundTrip(req)
}
