package scraper

import (
	"github.com/henrybloomingdale/article-scraper/internal/config"
	"github.com/henrybloomingdale/article-scraper/internal/credentials"
	"github.com/henrybloomingdale/article-scraper/internal/eutils"
)

// NewClient builds the E-utilities client for one run from resolved
// settings and the caller's credentials.
func NewClient(cfg config.Settings, creds credentials.Credentials) *eutils.Client {
	opts := []eutils.Option{
		eutils.WithBaseURL(cfg.BaseURL),
		eutils.WithTool(cfg.Tool),
		eutils.WithEmail(creds.Email),
		eutils.WithTimeout(cfg.Timeout),
		eutils.WithMaxResponseBytes(cfg.MaxResponseBytes),
		eutils.WithPostThreshold(cfg.PostThreshold),
	}
	if creds.APIKey != "" {
		opts = append(opts, eutils.WithAPIKey(creds.APIKey))
	}
	return eutils.NewClient(opts...).WithPageSize(cfg.PageSize)
}
