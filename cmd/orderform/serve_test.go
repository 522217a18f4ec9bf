package main

import (
	"os"
	"path/filepath"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-orderform/pkg/view"
)

func TestThemeRegistry_LoadsManifestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garden.yaml")
	doc := []byte(`name: garden
version: 0.1.0
tokens:
  brand: "#336699"
assets:
  prefix: /assets
  files:
    orderform.stylesheet: orderform.css
`)
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	registry, err := themeRegistry(path)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	views, err := view.New(
		view.WithThemeSelector(theme.Selector{Registry: registry}),
		view.WithTheme("garden", ""),
	)
	if err != nil {
		t.Fatalf("views: %v", err)
	}
	if got := views.Theme().CSSVars["--brand"]; got != "#336699" {
		t.Fatalf("expected garden brand, got %q", got)
	}
	if _, err := registry.Theme(view.DefaultThemeName); err != nil {
		t.Fatalf("built-in theme missing: %v", err)
	}
}

func TestThemeRegistry_MissingFile(t *testing.T) {
	if _, err := themeRegistry(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing manifest")
	}
}
