// Package ncbi provides the shared HTTP client for NCBI E-utilities.
// Every stage of a scrape goes through one BaseClient so rate limiting,
// common parameters and response size guards are applied uniformly.
package ncbi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the NCBI E-utilities base URL.
	DefaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"
	// DefaultTool identifies this application to NCBI.
	DefaultTool = "article-scraper"
	// DefaultEmail is the contact email sent to NCBI when none is configured.
	DefaultEmail = "article-scraper@users.noreply.github.com"

	// Rate limits per NCBI policy.
	RateWithoutKey = 3  // requests per second without API key
	RateWithKey    = 10 // requests per second with API key

	// DefaultMaxResponseBytes is the maximum response body size (50 MB).
	DefaultMaxResponseBytes int64 = 50 * 1024 * 1024

	// DefaultTimeout bounds a single HTTP exchange.
	DefaultTimeout = 30 * time.Second

	// DefaultPostThreshold is the ID count above which batched calls are
	// sent as a form POST instead of a GET query string.
	DefaultPostThreshold = 200

	// Retry policy for transient rate-limit responses.
	ncbiMaxRetries    = 2
	ncbiBaseRetryWait = 700 * time.Millisecond
	ncbiMaxRetryWait  = 4 * time.Second
)

// BaseClient is a shared HTTP client for NCBI E-utilities with proper
// rate limiting, common parameter injection, and response size guards.
type BaseClient struct {
	BaseURL       string
	APIKey        string
	Tool          string
	Email         string
	HTTPClient    *http.Client
	Limiter       *rate.Limiter
	MaxBytes      int64
	PostThreshold int
}

// Option configures a BaseClient.
type Option func(*BaseClient)

// WithBaseURL sets the base URL for requests.
func WithBaseURL(u string) Option {
	return func(c *BaseClient) { c.BaseURL = u }
}

// WithAPIKey sets the NCBI API key and adjusts the rate limit accordingly.
func WithAPIKey(key string) Option {
	return func(c *BaseClient) {
		c.APIKey = key
		if key != "" {
			c.Limiter = rate.NewLimiter(rate.Limit(RateWithKey), 1)
		}
	}
}

// WithTool sets the tool parameter for NCBI requests.
func WithTool(tool string) Option {
	return func(c *BaseClient) { c.Tool = tool }
}

// WithEmail sets the email parameter for NCBI requests.
func WithEmail(email string) Option {
	return func(c *BaseClient) { c.Email = email }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *BaseClient) { c.HTTPClient = hc }
}

// WithTimeout sets the per-request timeout on the underlying HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *BaseClient) {
		if d > 0 {
			c.HTTPClient = &http.Client{Timeout: d}
		}
	}
}

// WithMaxResponseBytes sets the maximum allowed response body size.
func WithMaxResponseBytes(n int64) Option {
	return func(c *BaseClient) { c.MaxBytes = n }
}

// WithPostThreshold sets the ID count above which batched requests use POST.
func WithPostThreshold(n int) Option {
	return func(c *BaseClient) { c.PostThreshold = n }
}

// NewBaseClient creates a new NCBI base client with the given options.
func NewBaseClient(opts ...Option) *BaseClient {
	c := &BaseClient{
		BaseURL:       DefaultBaseURL,
		Tool:          DefaultTool,
		Email:         DefaultEmail,
		MaxBytes:      DefaultMaxResponseBytes,
		PostThreshold: DefaultPostThreshold,
		Limiter:       rate.NewLimiter(rate.Limit(RateWithoutKey), 1),
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DoGet performs a rate-limited GET request with common NCBI parameters
// and response size limits. Returns the response body.
func (c *BaseClient) DoGet(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodGet, endpoint, params)
}

// DoPost performs the same exchange as DoGet but sends the parameters as a
// form-encoded body. NCBI asks for POST when a request carries many IDs.
func (c *BaseClient) DoPost(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodPost, endpoint, params)
}

// UsePost reports whether a batched request over n IDs should be sent as POST.
func (c *BaseClient) UsePost(n int) bool {
	return c.PostThreshold > 0 && n > c.PostThreshold
}

func (c *BaseClient) do(ctx context.Context, method, endpoint string, params url.Values) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}
	// Add common NCBI params once per request.
	if c.APIKey != "" {
		params.Set("api_key", c.APIKey)
	}
	if c.Tool != "" {
		params.Set("tool", c.Tool)
	}
	if c.Email != "" {
		params.Set("email", c.Email)
	}

	u, err := url.JoinPath(c.BaseURL, endpoint)
	if err != nil {
		return nil, fmt.Errorf("building URL: %w", err)
	}
	encoded := params.Encode()

	for attempt := 0; attempt <= ncbiMaxRetries; attempt++ {
		// Wait for rate limiter token (respects context cancellation).
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		req, err := newRequest(ctx, method, u, encoded)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("executing request: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			if attempt >= ncbiMaxRetries {
				resp.Body.Close()
				return nil, fmt.Errorf("NCBI rate limit exceeded (HTTP 429 after %d retries). Add an API key to the credentials file", ncbiMaxRetries)
			}

			retryAfter := retryAfterDuration(resp.Header.Get("Retry-After"))
			resp.Body.Close()
			if retryAfter <= 0 {
				// Exponential backoff with cap.
				retryAfter = ncbiBaseRetryWait * time.Duration(1<<attempt)
				if retryAfter > ncbiMaxRetryWait {
					retryAfter = ncbiMaxRetryWait
				}
			}
			if err := sleepWithContext(ctx, retryAfter); err != nil {
				return nil, fmt.Errorf("rate limit retry canceled: %w", err)
			}

			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("NCBI returned HTTP %d for %s", resp.StatusCode, endpoint)
		}

		// Guard against unbounded reads: read up to MaxBytes+1 to detect oversized responses.
		r := io.LimitReader(resp.Body, c.MaxBytes+1)
		body, err := io.ReadAll(r)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("reading response: %w", err)
		}
		if int64(len(body)) > c.MaxBytes {
			return nil, fmt.Errorf("response exceeds maximum size of %d bytes", c.MaxBytes)
		}

		return body, nil
	}

	return nil, fmt.Errorf("unreachable request loop")
}

func newRequest(ctx context.Context, method, u, encoded string) (*http.Request, error) {
	if method == http.MethodPost {
		req, err := http.NewRequestWithContext(ctx, method, u, strings.NewReader(encoded))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	}
	return http.NewRequestWithContext(ctx, method, u+"?"+encoded, nil)
}

func retryAfterDuration(v string) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}

	if secs, err := strconv.Atoi(v); err == nil {
		if secs > 0 {
			return time.Duration(secs) * time.Second
		}
		return 0
	}

	if t, err := http.ParseTime(v); err == nil {
		d := time.Until(t)
		if d > 0 {
			return d
		}
	}

	return 0
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
