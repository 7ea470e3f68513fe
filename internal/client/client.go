// Package client is the library entry point for the caseable catalog
// service. A Client holds its own configuration state; every operation
// other than Initialize fails with model.ErrNotInitialized until Initialize
// succeeds.
package client

import (
	"context"
	"encoding/json"
	"regexp"
	"slices"
	"sync"

	"caseable-catalog/internal/model"
	"caseable-catalog/internal/transport"

	"github.com/rs/zerolog"
)

// Caller performs one request against the catalog service.
type Caller interface {
	Do(ctx context.Context, ep transport.Endpoint, req transport.Request) (json.RawMessage, error)
}

// Options holds the policy lists a Client validates against.
type Options struct {
	AllowedRegions   []string
	AllowedLanguages []string
	DefaultLanguage  string
	// ScopeParams are accepted by GetProducts without being filters. A
	// catalog filter of the same name still applies its own rules.
	ScopeParams []string
}

// DefaultOptions returns the region and language lists the catalog service
// documents.
func DefaultOptions() Options {
	return Options{
		AllowedRegions:   []string{"ca", "ch", "eu", "gb", "jp", "oc", "pl", "us"},
		AllowedLanguages: []string{"de", "en", "es", "fr", "it", "pl"},
		DefaultLanguage:  "en",
		ScopeParams:      []string{"device", "limit", "page"},
	}
}

// Settings is the configuration stored by a successful Initialize.
type Settings struct {
	BaseURL string `json:"baseUrl"`
	Partner string `json:"partner"`
	Region  string `json:"region"`
	Lang    string `json:"lang"`
}

var baseURLPattern = regexp.MustCompile(`^https?://\S+$`)

// Client talks to the catalog service. It is safe for concurrent use;
// operations read a copy of the settings taken when they start.
type Client struct {
	caller Caller
	opts   Options
	logger zerolog.Logger

	mu          sync.RWMutex
	settings    Settings
	initialized bool
}

// New creates an uninitialized client that sends requests through caller.
func New(caller Caller, opts Options, logger zerolog.Logger) *Client {
	if opts.DefaultLanguage == "" {
		opts.DefaultLanguage = DefaultOptions().DefaultLanguage
	}
	return &Client{
		caller: caller,
		opts:   opts,
		logger: logger.With().Str("component", "catalog_client").Logger(),
	}
}

// Initialize validates and stores the configuration. A failure leaves the
// client uninitialized and returns a model.ErrConfig error. A language
// outside the allowed list is replaced by the default language with a
// warning.
func (c *Client) Initialize(baseURL, partner, region, lang string) error {
	if baseURL == "" {
		return model.NewConfigError("base URL is required")
	}
	if !baseURLPattern.MatchString(baseURL) {
		return model.NewConfigError("invalid base URL `%s`", baseURL)
	}
	if !slices.Contains(c.opts.AllowedRegions, region) {
		return model.NewConfigError("invalid region `%s`", region)
	}

	if !slices.Contains(c.opts.AllowedLanguages, lang) {
		if lang != "" {
			c.logger.Warn().
				Str("lang", lang).
				Str("default", c.opts.DefaultLanguage).
				Msg("Invalid language, a default value will be used")
		}
		lang = c.opts.DefaultLanguage
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.settings = Settings{
		BaseURL: baseURL,
		Partner: partner,
		Region:  region,
		Lang:    lang,
	}
	c.initialized = true

	c.logger.Info().
		Str("base_url", baseURL).
		Str("partner", partner).
		Str("region", region).
		Str("lang", lang).
		Msg("Catalog client initialized")

	return nil
}

// Reset clears the configuration and returns the client to the
// uninitialized state.
func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.settings = Settings{}
	c.initialized = false
}

// Initialized reports whether Initialize has succeeded since the last Reset.
func (c *Client) Initialized() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.initialized
}

// Settings returns a copy of the stored configuration.
func (c *Client) Settings() Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings
}

func (c *Client) current() (Settings, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.initialized {
		return Settings{}, model.ErrNotInitialized
	}
	return c.settings, nil
}

func (c *Client) call(ctx context.Context, s Settings, req transport.Request) (json.RawMessage, error) {
	return c.caller.Do(ctx, transport.Endpoint{
		BaseURL: s.BaseURL,
		Lang:    s.Lang,
		Region:  s.Region,
	}, req)
}

// collection extracts the array stored under key in a response object.
func collection(raw json.RawMessage, key string) ([]json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, model.NewUnexpectedResponseError(key)
	}

	value, ok := obj[key]
	if !ok || string(value) == "null" {
		return nil, model.NewUnexpectedResponseError(key)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(value, &items); err != nil {
		return nil, model.NewUnexpectedResponseError(key)
	}
	return items, nil
}
