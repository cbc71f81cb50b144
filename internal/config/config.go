// Package config resolves the todoist-mcp runtime settings.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// environment variables. Command-line flags are applied last by the cmd
// package, so the effective precedence is flag > env > file > default.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/teemow/todoist-mcp/internal/instrumentation"
	"github.com/teemow/todoist-mcp/internal/logging"
	"github.com/teemow/todoist-mcp/internal/todoist"
)

// Transport names accepted by the serve command.
const (
	TransportStdio          = "stdio"
	TransportSSE            = "sse"
	TransportStreamableHTTP = "streamable-http"
)

// Environment variables read by ApplyEnv.
const (
	EnvAPIURL         = "TODOIST_API_URL"
	EnvTokenEnv       = "TODOIST_MCP_TOKEN_ENV"
	EnvTransport      = "TODOIST_MCP_TRANSPORT"
	EnvHTTPAddr       = "TODOIST_MCP_HTTP_ADDR"
	EnvMetricsEnabled = "TODOIST_MCP_METRICS_ENABLED"
	EnvMetricsAddr    = "TODOIST_MCP_METRICS_ADDR"
	EnvReadOnly       = "TODOIST_MCP_READ_ONLY"
	EnvDebug          = "TODOIST_MCP_DEBUG"
	EnvLogFormat      = "TODOIST_MCP_LOG_FORMAT"
	EnvHTTPTimeout    = "TODOIST_MCP_HTTP_TIMEOUT"
	EnvPageSize       = "TODOIST_MCP_PAGE_SIZE"
)

// Config holds every setting the serve command needs.
type Config struct {
	// APIURL is the Todoist REST API root
	APIURL string `yaml:"api_url"`

	// TokenEnv names the environment variable holding the Todoist token.
	// The token itself is never read from the file.
	TokenEnv string `yaml:"token_env"`

	// Transport is one of stdio, sse or streamable-http
	Transport string `yaml:"transport"`

	// HTTPAddr is the listen address for the HTTP transports
	HTTPAddr string `yaml:"http_addr"`

	// MetricsEnabled starts the Prometheus listener on non-stdio transports
	MetricsEnabled bool `yaml:"metrics_enabled"`

	// MetricsAddr is the listen address of the Prometheus listener
	MetricsAddr string `yaml:"metrics_addr"`

	// ReadOnly registers only tools that do not modify Todoist data
	ReadOnly bool `yaml:"read_only"`

	Debug     bool   `yaml:"debug"`
	LogFormat string `yaml:"log_format"`

	// HTTPTimeout bounds a single Todoist request, e.g. "30s"
	HTTPTimeout time.Duration `yaml:"http_timeout"`

	// PageSize is the page size requested from list endpoints
	PageSize int `yaml:"page_size"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		APIURL:         todoist.DefaultBaseURL,
		TokenEnv:       todoist.TokenEnvVar,
		Transport:      TransportStdio,
		HTTPAddr:       ":8080",
		MetricsEnabled: true,
		MetricsAddr:    ":9090",
		LogFormat:      logging.FormatText,
		HTTPTimeout:    todoist.DefaultHTTPTimeout,
		PageSize:       todoist.DefaultPageSize,
	}
}

// Load returns the defaults overlaid with the YAML file at path (skipped
// when path is empty) and then with the environment seen through lookup.
// A nil lookup reads the process environment.
func Load(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	if lookup == nil {
		lookup = os.LookupEnv
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFile overlays the YAML file at path onto c. Keys missing from the
// file leave the current values untouched.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	return c.Parse(data)
}

// Parse overlays YAML data onto c.
func (c *Config) Parse(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		// An empty document decodes to io.EOF.
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}

// ApplyEnv overrides c with every variable that lookup reports as set and
// non-empty.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvAPIURL); ok {
		c.APIURL = v
	}
	if v, ok := get(EnvTokenEnv); ok {
		c.TokenEnv = v
	}
	if v, ok := get(EnvTransport); ok {
		c.Transport = v
	}
	if v, ok := get(EnvHTTPAddr); ok {
		c.HTTPAddr = v
	}
	if v, ok := get(EnvMetricsAddr); ok {
		c.MetricsAddr = v
	}
	if v, ok := get(EnvLogFormat); ok {
		c.LogFormat = v
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{EnvMetricsEnabled, &c.MetricsEnabled},
		{EnvReadOnly, &c.ReadOnly},
		{EnvDebug, &c.Debug},
	}
	for _, b := range bools {
		v, ok := get(b.key)
		if !ok {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", b.key, v, err)
		}
		*b.dst = parsed
	}

	if v, ok := get(EnvHTTPTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvHTTPTimeout, v, err)
		}
		c.HTTPTimeout = d
	}
	if v, ok := get(EnvPageSize); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPageSize, v, err)
		}
		c.PageSize = n
	}

	return nil
}

// Validate checks the resolved settings.
func (c *Config) Validate() error {
	switch c.Transport {
	case TransportStdio, TransportSSE, TransportStreamableHTTP:
	default:
		return fmt.Errorf("invalid transport %q, must be one of: %s, %s, %s",
			c.Transport, TransportStdio, TransportSSE, TransportStreamableHTTP)
	}

	if strings.TrimSpace(c.TokenEnv) == "" {
		return fmt.Errorf("token_env must not be empty")
	}
	if c.Transport != TransportStdio && c.HTTPAddr == "" {
		return fmt.Errorf("http_addr is required for the %s transport", c.Transport)
	}
	if c.MetricsEnabled && c.Transport != TransportStdio && c.MetricsAddr == "" {
		return fmt.Errorf("metrics_addr is required when metrics are enabled")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout must be positive, got %s", c.HTTPTimeout)
	}
	// Todoist caps list pages at 200.
	if c.PageSize < 1 || c.PageSize > todoist.DefaultPageSize {
		return fmt.Errorf("page_size must be between 1 and %d, got %d", todoist.DefaultPageSize, c.PageSize)
	}

	switch strings.ToLower(c.LogFormat) {
	case logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("invalid log format %q, must be one of: %s, %s", c.LogFormat, logging.FormatText, logging.FormatJSON)
	}

	return nil
}

// ClientConfig returns the Todoist client template derived from c. The
// token is filled in later by the client accessor.
func (c *Config) ClientConfig() todoist.Config {
	return todoist.Config{
		BaseURL:     c.APIURL,
		TokenEnv:    c.TokenEnv,
		PageSize:    c.PageSize,
		HTTPTimeout: c.HTTPTimeout,
	}
}

// Deployment returns the settings attached to telemetry as resource
// attributes.
func (c *Config) Deployment() instrumentation.Deployment {
	return instrumentation.Deployment{
		APIBaseURL: c.APIURL,
		TokenEnv:   c.TokenEnv,
		Transport:  c.Transport,
		ReadOnly:   c.ReadOnly,
	}
}
