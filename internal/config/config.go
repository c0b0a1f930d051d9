package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. COOKED_API_URL.
const EnvPrefix = "COOKED"

// Config holds the client configuration.
type Config struct {
	// APIURL is the recipe collection endpoint, e.g. https://api.example.com/api/recipes.
	// The API root for other resources is derived from it.
	APIURL string

	// BaseURL is the application base path used to resolve relative image URLs.
	BaseURL string

	// CredentialsDir holds credentials.json. Empty means ~/.cooked.
	CredentialsDir string

	// HTTPTimeout bounds every backend call.
	HTTPTimeout time.Duration

	// Enable debug logging
	Debug bool

	OIDC  OIDCConfig
	Cache CacheConfig
}

// OIDCConfig points at the identity provider.
type OIDCConfig struct {
	Issuer   string
	ClientID string
	// ClientSecret switches login to the client credentials grant (CI, seeding).
	ClientSecret string
}

// Enabled reports whether login is configured.
func (c OIDCConfig) Enabled() bool {
	return c.Issuer != "" && c.ClientID != ""
}

// CacheConfig tunes the catalog caches.
type CacheConfig struct {
	// ReviewCapacity bounds cached review stats; 0 is unbounded.
	ReviewCapacity int
	// DedupFavorites routes favorite reads through the deduplicating cache.
	DedupFavorites bool
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api_url", "http://localhost:8080/api/recipes")
	v.SetDefault("base_url", "/")
	v.SetDefault("credentials_dir", "")
	v.SetDefault("http_timeout", "10s")
	v.SetDefault("debug", false)
	v.SetDefault("oidc.issuer", "")
	v.SetDefault("oidc.client_id", "cooked-cli")
	v.SetDefault("oidc.client_secret", "")
	v.SetDefault("cache.review_capacity", 512)
	v.SetDefault("cache.dedup_favorites", false)
}

// Load reads configuration from v: defaults, then an optional config file
// already set on v, then COOKED_* environment variables. A nil v uses the
// global viper instance.
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = viper.GetViper()
	}
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	// Nested keys are read explicitly; AutomaticEnv alone does not reach them through Unmarshal.
	cfg := &Config{
		APIURL:         v.GetString("api_url"),
		BaseURL:        v.GetString("base_url"),
		CredentialsDir: v.GetString("credentials_dir"),
		HTTPTimeout:    v.GetDuration("http_timeout"),
		Debug:          v.GetBool("debug"),
		OIDC: OIDCConfig{
			Issuer:       v.GetString("oidc.issuer"),
			ClientID:     v.GetString("oidc.client_id"),
			ClientSecret: v.GetString("oidc.client_secret"),
		},
		Cache: CacheConfig{
			ReviewCapacity: v.GetInt("cache.review_capacity"),
			DedupFavorites: v.GetBool("cache.dedup_favorites"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("api_url is required")
	}
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api_url %q must be an absolute URL", c.APIURL)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout must be positive, got %s", c.HTTPTimeout)
	}
	if c.Cache.ReviewCapacity < 0 {
		return fmt.Errorf("cache.review_capacity must not be negative")
	}
	if c.OIDC.Issuer != "" {
		if u, err := url.Parse(c.OIDC.Issuer); err != nil || u.Scheme == "" {
			return fmt.Errorf("oidc.issuer %q must be an absolute URL", c.OIDC.Issuer)
		}
	}
	return nil
}
