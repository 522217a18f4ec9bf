// Package config loads the service configuration from an optional
// orderform.yaml and ORDERFORM_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, so server.addr becomes
// ORDERFORM_SERVER_ADDR.
const EnvPrefix = "ORDERFORM"

// Config is the complete service configuration.
type Config struct {
	Server  ServerConfig  `json:"server" mapstructure:"server"`
	Order   OrderConfig   `json:"order" mapstructure:"order"`
	Session SessionConfig `json:"session" mapstructure:"session"`
	Log     LogConfig     `json:"log" mapstructure:"log"`
	Theme   ThemeConfig   `json:"theme" mapstructure:"theme"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string        `json:"addr" mapstructure:"addr"`
	ShutdownTimeout time.Duration `json:"shutdownTimeout" mapstructure:"shutdownTimeout"`
	// SecureCookies marks the session cookie Secure; enable behind TLS.
	SecureCookies   bool          `json:"secureCookies" mapstructure:"secureCookies"`
}

// OrderConfig points at the remote order endpoint.
type OrderConfig struct {
	Endpoint string        `json:"endpoint" mapstructure:"endpoint"`
	Timeout  time.Duration `json:"timeout" mapstructure:"timeout"`
}

// SessionConfig bounds how long an idle order page keeps its form state.
type SessionConfig struct {
	TTL           time.Duration `json:"ttl" mapstructure:"ttl"`
	SweepInterval time.Duration `json:"sweepInterval" mapstructure:"sweepInterval"`
}

// LogConfig selects the log level and handler format.
type LogConfig struct {
	Level  string `json:"level" mapstructure:"level"`
	Format string `json:"format" mapstructure:"format"`
}

// ThemeConfig selects the page theme and token overrides. Manifest names an
// optional go-theme manifest file registered next to the built-in theme.
type ThemeConfig struct {
	Name     string            `json:"name" mapstructure:"name"`
	Variant  string            `json:"variant" mapstructure:"variant"`
	Manifest string            `json:"manifest" mapstructure:"manifest"`
	Tokens   map[string]string `json:"tokens" mapstructure:"tokens"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 5 * time.Second,
		},
		Order: OrderConfig{
			Endpoint: "http://localhost:9009/api/order",
			Timeout:  10 * time.Second,
		},
		Session: SessionConfig{
			TTL:           30 * time.Minute,
			SweepInterval: time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Theme: ThemeConfig{
			Name: "bloom",
		},
	}
}

// DefaultSearchPaths lists the directories searched for orderform.yaml.
func DefaultSearchPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "orderform"))
	}
	return paths
}

// Load reads the configuration. An explicit configFile must exist; otherwise
// orderform.yaml is looked up in searchPaths (DefaultSearchPaths when empty)
// and a missing file leaves the defaults in place. Environment variables win
// over the file.
func Load(configFile string, searchPaths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("orderform")
		v.SetConfigType("yaml")
		if len(searchPaths) == 0 {
			searchPaths = DefaultSearchPaths()
		}
		for _, path := range searchPaths {
			v.AddConfigPath(path)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("server.shutdownTimeout", cfg.Server.ShutdownTimeout)
	v.SetDefault("server.secureCookies", cfg.Server.SecureCookies)
	v.SetDefault("order.endpoint", cfg.Order.Endpoint)
	v.SetDefault("order.timeout", cfg.Order.Timeout)
	v.SetDefault("session.ttl", cfg.Session.TTL)
	v.SetDefault("session.sweepInterval", cfg.Session.SweepInterval)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("theme.name", cfg.Theme.Name)
	v.SetDefault("theme.variant", cfg.Theme.Variant)
	v.SetDefault("theme.manifest", cfg.Theme.Manifest)
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return &ConfigError{Field: "server.addr", Message: "listen address is required"}
	}
	endpoint, err := url.Parse(c.Order.Endpoint)
	if err != nil || (endpoint.Scheme != "http" && endpoint.Scheme != "https") || endpoint.Host == "" {
		return &ConfigError{Field: "order.endpoint", Message: "must be an absolute http(s) URL"}
	}
	if c.Order.Timeout <= 0 {
		return &ConfigError{Field: "order.timeout", Message: "must be positive"}
	}
	if c.Session.TTL <= 0 {
		return &ConfigError{Field: "session.ttl", Message: "must be positive"}
	}
	if c.Session.SweepInterval <= 0 {
		return &ConfigError{Field: "session.sweepInterval", Message: "must be positive"}
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ConfigError{Field: "log.level", Message: "unknown level " + c.Log.Level}
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return &ConfigError{Field: "log.format", Message: "must be text or json"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
