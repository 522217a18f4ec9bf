package view

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// ErrUnknownTheme is returned when no registered manifest matches a theme name.
var ErrUnknownTheme = errors.New("view: unknown theme")

// Asset keys resolved through the theme's AssetURL.
const (
	AssetStylesheet = "orderform.stylesheet"
	AssetScript     = "orderform.script"
	AssetHero       = "orderform.hero"
)

// DefaultAssetPrefix is where the server mounts Assets().
const DefaultAssetPrefix = "/assets"

// DefaultThemeName names the built-in manifest.
const DefaultThemeName = "bloom"

// DefaultManifest describes the built-in theme.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":       "#2f7d32",
			"brand-ink":   "#ffffff",
			"danger":      "#b3261e",
			"surface":     "#fffaf3",
			"ink":         "#1f1f1f",
			"radius":      "6px",
			"font-family": "system-ui, sans-serif",
		},
		Assets: theme.Assets{
			Prefix: DefaultAssetPrefix,
			Files: map[string]string{
				AssetStylesheet: "orderform.css",
				AssetScript:     "orderform.js",
				AssetHero:       "pizza.svg",
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"surface": "#1d1b18",
					"ink":     "#f4efe6",
				},
			},
		},
	}
}

// NewRegistry returns a registry holding DefaultManifest followed by extra.
// Register validates each manifest.
func NewRegistry(extra ...*theme.Manifest) (*theme.MemoryRegistry, error) {
	reg := theme.NewRegistry()
	for _, manifest := range append([]*theme.Manifest{DefaultManifest()}, extra...) {
		if manifest == nil {
			continue
		}
		if err := reg.Register(manifest); err != nil {
			return nil, fmt.Errorf("view: register theme %q: %w", manifest.Name, err)
		}
	}
	return reg, nil
}

// resolveTheme selects name and variant and layers overrides on the resolved
// tokens. A blank name selects DefaultThemeName; a variant the manifest does
// not define falls back to the base tokens.
func resolveTheme(selector theme.ThemeSelector, name, variant string, overrides map[string]string) (*theme.RendererConfig, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultThemeName
	}
	selection, err := selector.Select(name, strings.TrimSpace(variant))
	if err != nil {
		if errors.Is(err, theme.ErrThemeNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
		}
		return nil, err
	}
	if selection.Manifest == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	if _, ok := selection.Manifest.Variants[selection.Variant]; !ok {
		selection.Variant = ""
	}

	cfg := selection.RendererTheme(nil)
	for key, value := range overrides {
		if key = strings.TrimSpace(key); key != "" {
			cfg.Tokens[key] = value
			cfg.CSSVars["--"+key] = value
		}
	}
	return &cfg, nil
}

// cssVarsFilter renders a CSS variable map inside templates.
func cssVarsFilter(input any, _ any) (any, error) {
	switch vars := input.(type) {
	case map[string]string:
		return cssVarsStyle(vars), nil
	case map[string]any:
		out := make(map[string]string, len(vars))
		for key, value := range vars {
			out[key] = fmt.Sprint(value)
		}
		return cssVarsStyle(out), nil
	case nil:
		return "", nil
	default:
		return nil, fmt.Errorf("view: css vars: unexpected %T", input)
	}
}

// cssVarsStyle renders vars as a :root rule in key order.
func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString("  ")
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}
