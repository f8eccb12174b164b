package eutils

import (
	"context"
	"net/url"

	"github.com/henrybloomingdale/article-scraper/internal/ncbi"
)

const (
	// DefaultBaseURL is the NCBI E-utilities base URL.
	DefaultBaseURL = ncbi.DefaultBaseURL
	// DefaultTool identifies this application to NCBI.
	DefaultTool = ncbi.DefaultTool

	sourceDB = "pubmed"
)

// Client is an HTTP client for NCBI E-utilities.
// It embeds ncbi.BaseClient for shared rate limiting, common parameters,
// and response size guards.
type Client struct {
	*ncbi.BaseClient
	pageSize int
}

// Option configures a Client (alias for ncbi.Option).
type Option = ncbi.Option

// Re-export ncbi options so callers only import eutils.
var (
	WithBaseURL          = ncbi.WithBaseURL
	WithAPIKey           = ncbi.WithAPIKey
	WithTool             = ncbi.WithTool
	WithEmail            = ncbi.WithEmail
	WithHTTPClient       = ncbi.WithHTTPClient
	WithTimeout          = ncbi.WithTimeout
	WithMaxResponseBytes = ncbi.WithMaxResponseBytes
	WithPostThreshold    = ncbi.WithPostThreshold
)

// NewClient creates a new E-utilities client with the given options.
func NewClient(opts ...Option) *Client {
	return NewClientWithBase(ncbi.NewBaseClient(opts...))
}

// NewClientWithBase creates a new E-utilities client using an existing base client.
func NewClientWithBase(base *ncbi.BaseClient) *Client {
	return &Client{BaseClient: base, pageSize: MaxPageSize}
}

// WithPageSize sets how many IDs each ESearch page requests. Values outside
// 1..MaxPageSize are clamped.
func (c *Client) WithPageSize(n int) *Client {
	switch {
	case n <= 0:
		c.pageSize = MaxPageSize
	case n > MaxPageSize:
		c.pageSize = MaxPageSize
	default:
		c.pageSize = n
	}
	return c
}

// batched sends a request carrying ids, switching to POST for large batches.
func (c *Client) batched(ctx context.Context, endpoint string, params url.Values, ids int) ([]byte, error) {
	if c.UsePost(ids) {
		return c.DoPost(ctx, endpoint, params)
	}
	return c.DoGet(ctx, endpoint, params)
}
