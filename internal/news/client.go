// Package news fetches headlines from the news aggregator's JSON listing.
package news

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/lk2023060901/internet-data-toolkit/internal/pkg/httpclient"
	"github.com/lk2023060901/internet-data-toolkit/internal/pkg/logger"
	"github.com/lk2023060901/internet-data-toolkit/internal/pkg/retry"
	"github.com/lk2023060901/internet-data-toolkit/internal/pkg/textclean"
)

const (
	DefaultBaseURL = "http://192.168.8.225:8888/"
	DefaultTag     = "news"
	DefaultTimeout = 20 * time.Second

	maxBodyBytes = 8 << 20
)

var (
	ErrMalformedBody = errors.New("malformed news response")
	ErrNegativeLimit = errors.New("limit must not be negative")
)

// requestHeaders mimic the aggregator's own XHR calls.
var requestHeaders = map[string]string{
	"Accept":           "application/json",
	"Accept-Language":  "en-GB,en-US;q=0.9,en;q=0.8,es;q=0.7,fr;q=0.6,de;q=0.5",
	"Cache-Control":    "no-cache",
	"Connection":       "keep-alive",
	"Pragma":           "no-cache",
	"X-Requested-With": "XMLHttpRequest",
}

// Headline is one aggregator entry.
type Headline struct {
	Title  string `json:"title"`
	Link   string `json:"link"`
	Source string `json:"source,omitempty"`
}

// StatusError is returned for a non-2xx aggregator response.
type StatusError struct {
	StatusCode int
	Status     string
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s for url: %s", e.Status, e.URL)
}

// Config describes the aggregator endpoint.
type Config struct {
	BaseURL            string
	Timeout            time.Duration
	Retry              retry.Policy
	InsecureSkipVerify bool
}

// DefaultConfig returns the aggregator defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:            DefaultBaseURL,
		Timeout:            DefaultTimeout,
		Retry:              retry.DefaultPolicy(),
		InsecureSkipVerify: true,
	}
}

// Client fetches headlines with retries on transient failures.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *logger.Logger
	retryOpts  []retry.Option
}

// Option configures a Client
type Option func(*Client)

// WithLogger sets the client logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithHTTPClient replaces the HTTP client built from Config.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRetryOptions passes options through to every retry.Do call.
func WithRetryOptions(opts ...retry.Option) Option {
	return func(c *Client) {
		c.retryOpts = append(c.retryOpts, opts...)
	}
}

// NewClient creates a news aggregator client
func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	c := &Client{
		cfg:    cfg,
		logger: logger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = httpclient.New(cfg.Timeout, httpclient.WithInsecureSkipVerify(cfg.InsecureSkipVerify))
	}
	return c
}

// Latest returns at most limit of the newest headlines for tag, with
// \uXXXX escapes in titles decoded. Transport failures and non-2xx statuses
// are retried per the configured policy; a malformed body is not.
func (c *Client) Latest(ctx context.Context, tag string, limit int) ([]Headline, error) {
	if limit < 0 {
		return nil, ErrNegativeLimit
	}
	if tag == "" {
		tag = DefaultTag
	}

	log := c.logger.WithContext(ctx)
	notify := retry.WithNotify(func(attempt int, err error, wait time.Duration) {
		log.Warn("news request failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err))
	})

	var headlines []Headline
	err := retry.Do(ctx, c.cfg.Retry, func(ctx context.Context) error {
		var err error
		headlines, err = c.fetch(ctx, tag, limit)
		return err
	}, append([]retry.Option{notify}, c.retryOpts...)...)
	if err != nil {
		return nil, err
	}

	return headlines, nil
}

func (c *Client) endpoint(tag string, limit int) (string, error) {
	u, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return "", retry.Permanent(fmt.Errorf("invalid news base url: %w", err))
	}

	q := u.Query()
	q.Set("type", "newest")
	q.Set("tag", tag)
	q.Set("extraIds[]", "")
	q.Set("sourcesNav", "false")
	q.Set("search", "")
	q.Set("itemsPerPage", strconv.Itoa(limit))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) fetch(ctx context.Context, tag string, limit int) ([]Headline, error) {
	endpoint, err := c.endpoint(tag, limit)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, retry.Permanent(err)
	}
	for k, v := range requestHeaders {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, URL: endpoint}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}

	return parseEntries(body, limit)
}

func parseEntries(body []byte, limit int) ([]Headline, error) {
	if !gjson.ValidBytes(body) {
		return nil, retry.Permanent(fmt.Errorf("%w: body is not valid JSON", ErrMalformedBody))
	}
	entries := gjson.GetBytes(body, "entries")
	if !entries.IsArray() {
		return nil, retry.Permanent(fmt.Errorf("%w: missing entries array", ErrMalformedBody))
	}

	var headlines []Headline
	entries.ForEach(func(_, entry gjson.Result) bool {
		if len(headlines) >= limit {
			return false
		}
		headlines = append(headlines, Headline{
			Title:  textclean.DecodeUnicodeEscapes(entry.Get("title").String()),
			Link:   entry.Get("link").String(),
			Source: entry.Get("sourcetitle").String(),
		})
		return true
	})

	return headlines, nil
}
