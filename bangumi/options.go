package bangumi

import (
	"time"

	"github.com/rs/zerolog"
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	baseURL    string
	userAgent  string
	token      string
	httpClient Doer
	timeout    time.Duration
	logger     zerolog.Logger
}

func defaultOptions() clientOptions {
	return clientOptions{
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
		timeout:   DefaultTimeout,
		logger:    zerolog.Nop(),
	}
}

// WithBaseURL sets the API root, e.g. for a mirror or a test server.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		o.baseURL = baseURL
	}
}

// WithUserAgent sets a custom user agent string. An empty string keeps the
// default.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		if userAgent != "" {
			o.userAgent = userAgent
		}
	}
}

// WithToken sets the access token sent as a bearer credential.
func WithToken(token string) Option {
	return func(o *clientOptions) {
		o.token = token
	}
}

// WithHTTPClient replaces the transport. WithTimeout has no effect on a
// transport supplied this way.
func WithHTTPClient(doer Doer) Option {
	return func(o *clientOptions) {
		o.httpClient = doer
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}
