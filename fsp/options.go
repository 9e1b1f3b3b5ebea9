package fsp

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	logger     zerolog.Logger
	timeout    time.Duration
	timeoutSet bool
	httpClient *http.Client
	userAgent  string
	metrics    bool
}

func defaultOptions() clientOptions {
	return clientOptions{
		logger:    zerolog.Nop(),
		timeout:   30 * time.Second,
		userAgent: UserAgent(),
		metrics:   true,
	}
}

// WithLogger sets the logger used for diagnostics. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.timeout = timeout
			o.timeoutSet = true
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
// The timeout of the given client is kept unless WithTimeout is also passed.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		if userAgent != "" {
			o.userAgent = userAgent
		}
	}
}

// WithMetrics toggles the prometheus request counters.
func WithMetrics(enabled bool) Option {
	return func(o *clientOptions) {
		o.metrics = enabled
	}
}
