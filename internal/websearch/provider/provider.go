package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/lk2023060901/internet-data-toolkit/internal/pkg/httpclient"
	"github.com/lk2023060901/internet-data-toolkit/internal/websearch/types"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "InternetDataToolkit/1.0"

	// maxErrorBody bounds how much of a failed response body is kept in the error message
	maxErrorBody = 512
)

// Provider defines the interface for search providers
type Provider interface {
	// Search executes a search query
	Search(ctx context.Context, req *types.SearchRequest) (*types.SearchResponse, error)

	// GetID returns the provider ID
	GetID() types.ProviderID

	// GetName returns the provider name
	GetName() string

	// Validate validates the provider configuration
	Validate() error
}

// BaseProvider provides common functionality for all providers
type BaseProvider struct {
	config     *types.ProviderConfig
	httpClient *http.Client
}

// NewBaseProvider creates a new base provider
func NewBaseProvider(config *types.ProviderConfig) *BaseProvider {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &BaseProvider{
		config:     config,
		httpClient: httpclient.New(timeout),
	}
}

// GetID returns the provider ID
func (b *BaseProvider) GetID() types.ProviderID {
	return b.config.ID
}

// GetName returns the provider name
func (b *BaseProvider) GetName() string {
	return b.config.Name
}

// GetConfig returns the provider configuration
func (b *BaseProvider) GetConfig() *types.ProviderConfig {
	return b.config
}

// GetHTTPClient returns the HTTP client
func (b *BaseProvider) GetHTTPClient() *http.Client {
	return b.httpClient
}

// BuildDefaultHeaders builds default HTTP headers
func (b *BaseProvider) BuildDefaultHeaders() map[string]string {
	ua := b.config.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	return map[string]string{
		"Accept":     "application/json",
		"User-Agent": ua,
	}
}

// DoRequest executes an HTTP request once and returns a ProviderError for
// transport failures and non-2xx statuses. The caller closes the body.
func (b *BaseProvider) DoRequest(ctx context.Context, req *http.Request) (*http.Response, error) {
	resp, err := b.httpClient.Do(req.WithContext(ctx))
	if err != nil {
		if isTimeout(ctx, err) {
			err = fmt.Errorf("%w: %v", types.ErrProviderTimeout, err)
		}
		return nil, &types.ProviderError{
			Provider: b.GetID(),
			Code:     "REQUEST_FAILED",
			Message:  "Failed to execute request",
			Err:      err,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := fmt.Sprintf("%s for url: %s", resp.Status, req.URL.Redacted())
		if text := strings.TrimSpace(string(body)); text != "" {
			msg += ": " + text
		}
		return nil, &types.ProviderError{
			Provider: b.GetID(),
			Code:     fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message:  msg,
		}
	}

	return resp, nil
}

// invalidResponse reports a body that could not be decoded into the provider's schema.
func (b *BaseProvider) invalidResponse(err error) error {
	return &types.ProviderError{
		Provider: b.GetID(),
		Code:     "INVALID_RESPONSE",
		Message:  err.Error(),
		Err:      types.ErrInvalidResponse,
	}
}

// Validate validates the provider configuration
func (b *BaseProvider) Validate() error {
	return b.config.Validate()
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
