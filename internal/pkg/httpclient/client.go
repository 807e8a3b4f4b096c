package httpclient

import (
	"crypto/tls"
	"net/http"
	"time"
)

// Option tunes the transport built by New.
type Option func(*http.Transport)

// WithInsecureSkipVerify disables TLS certificate verification.
func WithInsecureSkipVerify(skip bool) Option {
	return func(t *http.Transport) {
		if !skip {
			return
		}
		t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
}

// New creates a new HTTP client with the specified timeout
func New(timeout time.Duration, opts ...Option) *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	for _, opt := range opts {
		opt(transport)
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
