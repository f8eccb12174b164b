// Package config resolves run settings from defaults, an optional YAML
// config file, ARTICLE_SCRAPER_* environment variables and bound CLI flags,
// in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/henrybloomingdale/article-scraper/internal/credentials"
	"github.com/henrybloomingdale/article-scraper/internal/eutils"
	"github.com/henrybloomingdale/article-scraper/internal/ncbi"
)

// Setting keys.
const (
	KeyBaseURL          = "base_url"
	KeyTool             = "tool"
	KeyCredentials      = "credentials"
	KeyTimeout          = "timeout"
	KeyMaxResponseBytes = "max_response_bytes"
	KeyPostThreshold    = "post_threshold"
	KeyPageSize         = "page_size"
	KeyLogLevel         = "log_level"
	KeyLogFormat        = "log_format"
)

// EnvPrefix namespaces environment overrides.
const EnvPrefix = "ARTICLE_SCRAPER"

const configName = "article-scraper"

// Settings are the resolved values for one run.
type Settings struct {
	BaseURL          string
	Tool             string
	Credentials      string
	Timeout          time.Duration
	MaxResponseBytes int64
	PostThreshold    int
	PageSize         int
	LogLevel         string
	LogFormat        string
}

// New returns a viper instance with defaults and environment binding set
// up. When cfgFile is empty the default locations are searched and a
// missing file is not an error; an explicit cfgFile must exist.
func New(cfgFile string) (*viper.Viper, error) {
	v := viper.New()

	v.SetDefault(KeyBaseURL, ncbi.DefaultBaseURL)
	v.SetDefault(KeyTool, ncbi.DefaultTool)
	v.SetDefault(KeyCredentials, credentials.DefaultPath)
	v.SetDefault(KeyTimeout, ncbi.DefaultTimeout)
	v.SetDefault(KeyMaxResponseBytes, ncbi.DefaultMaxResponseBytes)
	v.SetDefault(KeyPostThreshold, ncbi.DefaultPostThreshold)
	v.SetDefault(KeyPageSize, eutils.MaxPageSize)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", cfgFile, err)
		}
		return v, nil
	}

	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", configName))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return v, nil
}

// Load resolves and validates Settings from v.
func Load(v *viper.Viper) (Settings, error) {
	s := Settings{
		BaseURL:          strings.TrimSpace(v.GetString(KeyBaseURL)),
		Tool:             strings.TrimSpace(v.GetString(KeyTool)),
		Credentials:      strings.TrimSpace(v.GetString(KeyCredentials)),
		Timeout:          v.GetDuration(KeyTimeout),
		MaxResponseBytes: v.GetInt64(KeyMaxResponseBytes),
		PostThreshold:    v.GetInt(KeyPostThreshold),
		PageSize:         v.GetInt(KeyPageSize),
		LogLevel:         strings.ToLower(strings.TrimSpace(v.GetString(KeyLogLevel))),
		LogFormat:        strings.ToLower(strings.TrimSpace(v.GetString(KeyLogFormat))),
	}

	if s.BaseURL == "" {
		return Settings{}, fmt.Errorf("%s must not be empty", KeyBaseURL)
	}
	if s.Credentials == "" {
		return Settings{}, fmt.Errorf("%s must not be empty", KeyCredentials)
	}
	if s.Timeout <= 0 {
		return Settings{}, fmt.Errorf("%s must be positive", KeyTimeout)
	}
	if s.MaxResponseBytes <= 0 {
		return Settings{}, fmt.Errorf("%s must be positive", KeyMaxResponseBytes)
	}
	if s.PostThreshold < 0 {
		return Settings{}, fmt.Errorf("%s cannot be negative", KeyPostThreshold)
	}
	if s.PageSize <= 0 || s.PageSize > eutils.MaxPageSize {
		return Settings{}, fmt.Errorf("%s must be between 1 and %d", KeyPageSize, eutils.MaxPageSize)
	}
	switch s.LogFormat {
	case "text", "json":
	default:
		return Settings{}, fmt.Errorf("%s must be text or json, got %q", KeyLogFormat, s.LogFormat)
	}

	return s, nil
}
