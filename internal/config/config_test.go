package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	doc := []byte(`server:
  addr: ":9000"
  secureCookies: true
order:
  endpoint: https://orders.example.com/api/order
  timeout: 3s
log:
  level: debug
  format: json
theme:
  variant: dark
  manifest: themes/garden.yaml
  tokens:
    brand: "#000000"
`)
	if err := os.WriteFile(filepath.Join(dir, "orderform.yaml"), doc, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("ORDERFORM_SERVER_ADDR", ":9100")

	cfg, err := Load("", dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":9100" {
		t.Fatalf("env override ignored: %q", cfg.Server.Addr)
	}
	if cfg.Order.Endpoint != "https://orders.example.com/api/order" || cfg.Order.Timeout != 3*time.Second {
		t.Fatalf("order config not loaded: %+v", cfg.Order)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Fatalf("log config not loaded: %+v", cfg.Log)
	}
	if !cfg.Server.SecureCookies {
		t.Fatalf("secureCookies not loaded: %+v", cfg.Server)
	}
	if cfg.Theme.Name != "bloom" || cfg.Theme.Variant != "dark" || cfg.Theme.Tokens["brand"] != "#000000" {
		t.Fatalf("theme config not loaded: %+v", cfg.Theme)
	}
	if cfg.Theme.Manifest != "themes/garden.yaml" {
		t.Fatalf("theme manifest not loaded: %q", cfg.Theme.Manifest)
	}
	if cfg.Session.TTL != DefaultConfig().Session.TTL {
		t.Fatalf("missing keys must keep defaults: %+v", cfg.Session)
	}
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit config")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("order:\n  endpoint: not-a-url\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err := Load(path)
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if cfgErr.Field != "order.endpoint" {
		t.Fatalf("unexpected field %q", cfgErr.Field)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{name: "empty addr", mutate: func(c *Config) { c.Server.Addr = " " }, field: "server.addr"},
		{name: "relative endpoint", mutate: func(c *Config) { c.Order.Endpoint = "/api/order" }, field: "order.endpoint"},
		{name: "zero timeout", mutate: func(c *Config) { c.Order.Timeout = 0 }, field: "order.timeout"},
		{name: "zero ttl", mutate: func(c *Config) { c.Session.TTL = 0 }, field: "session.ttl"},
		{name: "zero sweep", mutate: func(c *Config) { c.Session.SweepInterval = 0 }, field: "session.sweepInterval"},
		{name: "bad level", mutate: func(c *Config) { c.Log.Level = "loud" }, field: "log.level"},
		{name: "bad format", mutate: func(c *Config) { c.Log.Format = "xml" }, field: "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) || cfgErr.Field != tt.field {
				t.Fatalf("expected ConfigError on %s, got %v", tt.field, err)
			}
		})
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}
