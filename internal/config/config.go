// ABOUTME: Configuration loading and parsing for resonatr
// ABOUTME: Supports YAML or TOML files with environment variable expansion, defaults, and duration parsing

package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/resonatr/studio/internal/auth"
)

// Defaults applied to fields left empty in the file.
const (
	DefaultHTTPAddr         = "localhost:8080"
	DefaultCookieName       = "resonatr_session"
	DefaultSessionTTL       = 30 * 24 * time.Hour
	DefaultTokenTTL         = 24 * time.Hour
	DefaultRecentWindowDays = 2
	DefaultCacheTTL         = 5 * time.Minute
	DefaultCacheMaxEntries  = 1000
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
)

// Config represents the complete resonatr configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" toml:"server"`
	Tailscale TailscaleConfig `yaml:"tailscale" toml:"tailscale"`
	Database  DatabaseConfig  `yaml:"database" toml:"database"`
	Auth      AuthConfig      `yaml:"auth" toml:"auth"`
	Calendar  CalendarConfig  `yaml:"calendar" toml:"calendar"`
	Cache     CacheConfig     `yaml:"cache" toml:"cache"`
	Logging   LoggingConfig   `yaml:"logging" toml:"logging"`
}

// ServerConfig holds server address configuration
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr" toml:"http_addr"`
}

// TailscaleConfig holds Tailscale tsnet configuration
type TailscaleConfig struct {
	Enabled   bool   `yaml:"enabled" toml:"enabled"`
	Hostname  string `yaml:"hostname,omitempty" toml:"hostname,omitempty"`
	AuthKey   string `yaml:"auth_key,omitempty" toml:"auth_key,omitempty"`
	StateDir  string `yaml:"state_dir,omitempty" toml:"state_dir,omitempty"`
	Ephemeral bool   `yaml:"ephemeral,omitempty" toml:"ephemeral,omitempty"`
	HTTPS     bool   `yaml:"https,omitempty" toml:"https,omitempty"`   // serve :443 with tailnet certs
	Funnel    bool   `yaml:"funnel,omitempty" toml:"funnel,omitempty"` // expose publicly via Tailscale Funnel
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path string `yaml:"path" toml:"path"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTSecret    string        `yaml:"jwt_secret" toml:"jwt_secret"`
	CookieName   string        `yaml:"cookie_name,omitempty" toml:"cookie_name,omitempty"`
	CookieSecure bool          `yaml:"cookie_secure" toml:"cookie_secure"`
	SessionTTL   time.Duration `yaml:"-" toml:"-"`
	TokenTTL     time.Duration `yaml:"-" toml:"-"`

	// Raw string values for unmarshaling
	SessionTTLRaw string `yaml:"session_ttl,omitempty" toml:"session_ttl,omitempty"`
	TokenTTLRaw   string `yaml:"token_ttl,omitempty" toml:"token_ttl,omitempty"`
}

// CalendarConfig controls how calendar days are computed
type CalendarConfig struct {
	// Timezone is an IANA name such as "Europe/Berlin". Empty means the server's local zone.
	Timezone         string `yaml:"timezone,omitempty" toml:"timezone,omitempty"`
	RecentWindowDays int    `yaml:"recent_window_days,omitempty" toml:"recent_window_days,omitempty"`
}

// CacheConfig sizes the dashboard view cache. max_entries: 0 falls back to the default;
// set ttl to "0s" to disable caching.
type CacheConfig struct {
	TTL        time.Duration `yaml:"-" toml:"-"`
	MaxEntries int           `yaml:"max_entries,omitempty" toml:"max_entries,omitempty"`

	TTLRaw string `yaml:"ttl,omitempty" toml:"ttl,omitempty"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Files ending in .toml are decoded as TOML, everything else as YAML.
// Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw content
	expanded := expandEnvVars(string(data))

	var cfg Config
	if isTOML(path) {
		if _, err := toml.Decode(expanded, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	} else if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Write encodes cfg to path as TOML or YAML depending on the extension,
// creating parent directories. The file is readable only by its owner because it
// holds the JWT secret.
func Write(path string, cfg *Config) error {
	out := *cfg
	out.Auth.SessionTTLRaw = formatDuration(cfg.Auth.SessionTTL, cfg.Auth.SessionTTLRaw)
	out.Auth.TokenTTLRaw = formatDuration(cfg.Auth.TokenTTL, cfg.Auth.TokenTTLRaw)
	out.Cache.TTLRaw = formatDuration(cfg.Cache.TTL, cfg.Cache.TTLRaw)

	var buf bytes.Buffer
	buf.WriteString("# resonatr configuration\n\n")
	if isTOML(path) {
		if err := toml.NewEncoder(&buf).Encode(out); err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
	} else {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func formatDuration(d time.Duration, raw string) string {
	if d == 0 {
		return raw
	}
	return d.String()
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// applyDefaults fills in optional fields left empty in the file.
func (c *Config) applyDefaults() {
	if c.Server.HTTPAddr == "" && !c.Tailscale.Enabled {
		c.Server.HTTPAddr = DefaultHTTPAddr
	}
	if c.Auth.CookieName == "" {
		c.Auth.CookieName = DefaultCookieName
	}
	if c.Auth.SessionTTLRaw == "" {
		c.Auth.SessionTTL = DefaultSessionTTL
	}
	if c.Auth.TokenTTLRaw == "" {
		c.Auth.TokenTTL = DefaultTokenTTL
	}
	if c.Calendar.RecentWindowDays == 0 {
		c.Calendar.RecentWindowDays = DefaultRecentWindowDays
	}
	if c.Cache.TTLRaw == "" {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.Cache.MaxEntries == 0 {
		c.Cache.MaxEntries = DefaultCacheMaxEntries
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if !c.Tailscale.Enabled && c.Server.HTTPAddr == "" {
		return fmt.Errorf("server.http_addr is required (or enable tailscale)")
	}

	// Tailscale requires a hostname
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	if len(c.Auth.JWTSecret) < auth.MinSecretLength {
		return fmt.Errorf("auth.jwt_secret must be at least %d bytes", auth.MinSecretLength)
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("auth.session_ttl must be positive")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}

	if _, err := c.Calendar.Location(); err != nil {
		return fmt.Errorf("calendar.timezone: %w", err)
	}
	if c.Calendar.RecentWindowDays < 0 {
		return fmt.Errorf("calendar.recent_window_days must not be negative")
	}

	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}
	if c.Cache.MaxEntries < 0 {
		return fmt.Errorf("cache.max_entries must not be negative")
	}

	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.Logging.Level) {
		return fmt.Errorf("logging.level must be one of debug, info, warn, error")
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be text or json")
	}

	return nil
}

// Location resolves the configured timezone, defaulting to the server's local zone.
func (c CalendarConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	var err error

	if cfg.Auth.SessionTTLRaw != "" {
		cfg.Auth.SessionTTL, err = time.ParseDuration(cfg.Auth.SessionTTLRaw)
		if err != nil {
			return fmt.Errorf("parsing session_ttl %q: %w", cfg.Auth.SessionTTLRaw, err)
		}
	}

	if cfg.Auth.TokenTTLRaw != "" {
		cfg.Auth.TokenTTL, err = time.ParseDuration(cfg.Auth.TokenTTLRaw)
		if err != nil {
			return fmt.Errorf("parsing token_ttl %q: %w", cfg.Auth.TokenTTLRaw, err)
		}
	}

	if cfg.Cache.TTLRaw != "" {
		cfg.Cache.TTL, err = time.ParseDuration(cfg.Cache.TTLRaw)
		if err != nil {
			return fmt.Errorf("parsing cache ttl %q: %w", cfg.Cache.TTLRaw, err)
		}
	}

	return nil
}
