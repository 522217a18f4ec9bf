// Package view renders the landing and order pages. Templates, assets and the
// landing copy are embedded; pages render through the go-template engine and
// read their colors and asset URLs from a go-theme renderer config.
package view

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	theme "github.com/goliatone/go-theme"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-orderform/pkg/catalog"
	"github.com/goliatone/go-orderform/pkg/render/template"
	"github.com/goliatone/go-orderform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-orderform/pkg/state"
)

// Routes the pages link to.
const (
	LandingPath = "/"
	OrderPath   = "/order"
	EventsPath  = "/order/events"
	SubmitPath  = "/order/submit"
)

const (
	landingTemplate = "landing"
	orderTemplate   = "order"

	siteName          = "Bloom Pizza"
	cssVarsFilterName = "orderform_css_vars"
)

// Option configures Views.
type Option func(*Views)

// WithCatalog overrides the catalog used for size and topping controls.
func WithCatalog(cat *catalog.Catalog) Option {
	return func(v *Views) {
		if cat != nil {
			v.catalog = cat
		}
	}
}

// WithTheme picks the theme and variant resolved at construction.
func WithTheme(name, variant string) Option {
	return func(v *Views) {
		v.themeName = name
		v.themeVariant = variant
	}
}

// WithThemeSelector resolves the theme through selector instead of a
// registry holding only DefaultManifest.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(v *Views) {
		if selector != nil {
			v.selector = selector
		}
	}
}

// WithTokens overrides theme tokens.
func WithTokens(tokens map[string]string) Option {
	return func(v *Views) {
		if len(tokens) == 0 {
			return
		}
		if v.tokens == nil {
			v.tokens = make(map[string]string, len(tokens))
		}
		for key, value := range tokens {
			v.tokens[key] = value
		}
	}
}

// WithLandingCopy replaces the markdown shown on the landing page.
func WithLandingCopy(md []byte) Option {
	return func(v *Views) {
		if len(bytes.TrimSpace(md)) > 0 {
			v.landingCopy = md
		}
	}
}

// Views renders the two pages.
type Views struct {
	renderer     template.TemplateRenderer
	catalog      *catalog.Catalog
	theme        *theme.RendererConfig
	selector     theme.ThemeSelector
	themeName    string
	themeVariant string
	tokens       map[string]string
	landingCopy  []byte

	chrome    pageChrome
	introHTML string
}

// New builds Views. The landing copy is rendered once here.
func New(opts ...Option) (*Views, error) {
	v := &Views{
		catalog:     catalog.Default(),
		landingCopy: landingCopy,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(v)
	}

	engine, err := gotemplate.New(
		gotemplate.WithFS(Templates()),
		gotemplate.WithExtension(gotemplate.DefaultExtension),
		gotemplate.WithGlobals(map[string]any{
			"site": map[string]any{"name": siteName},
		}),
		gotemplate.WithFilter(cssVarsFilterName, cssVarsFilter),
	)
	if err != nil {
		return nil, fmt.Errorf("view: template engine: %w", err)
	}
	v.renderer = engine

	if v.selector == nil {
		reg, err := NewRegistry()
		if err != nil {
			return nil, err
		}
		v.selector = theme.Selector{Registry: reg}
	}
	cfg, err := resolveTheme(v.selector, v.themeName, v.themeVariant, v.tokens)
	if err != nil {
		return nil, fmt.Errorf("view: select theme: %w", err)
	}
	v.theme = cfg

	v.chrome = buildChrome(v.theme)
	v.introHTML = renderMarkdown(v.landingCopy)
	return v, nil
}

// Theme returns the resolved theme config.
func (v *Views) Theme() *theme.RendererConfig {
	return v.theme
}

// Landing renders the landing page.
func (v *Views) Landing(ctx context.Context, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data := map[string]any{
		"title":     siteName,
		"introHTML": v.introHTML,
		"orderURL":  OrderPath,
		"nav":       navLinks(LandingPath),
		"theme":     v.chrome,
	}
	if _, err := v.renderer.RenderTemplate(landingTemplate, data, w); err != nil {
		return fmt.Errorf("view: render landing: %w", err)
	}
	return nil
}

// Order renders the order page for st.
func (v *Views) Order(ctx context.Context, w io.Writer, st state.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data := map[string]any{
		"title":     "Order Your Pizza",
		"heading":   "Order Your Pizza",
		"nav":       navLinks(OrderPath),
		"eventsURL": EventsPath,
		"submitURL": SubmitPath,
		"theme":     v.chrome,
		"form":      buildOrderPage(v.catalog, st),
	}
	if _, err := v.renderer.RenderTemplate(orderTemplate, data, w); err != nil {
		return fmt.Errorf("view: render order: %w", err)
	}
	return nil
}

type pageChrome struct {
	Name       string            `json:"name"`
	Variant    string            `json:"variant"`
	CSSVars    map[string]string `json:"cssVars"`
	Stylesheet string            `json:"stylesheet"`
	Script     string            `json:"script"`
	Hero       string            `json:"hero"`
}

func buildChrome(cfg *theme.RendererConfig) pageChrome {
	if cfg == nil {
		return pageChrome{}
	}
	chrome := pageChrome{
		Name:    cfg.Theme,
		Variant: cfg.Variant,
		CSSVars: cfg.CSSVars,
	}
	if cfg.AssetURL != nil {
		chrome.Stylesheet = cfg.AssetURL(AssetStylesheet)
		chrome.Script = cfg.AssetURL(AssetScript)
		chrome.Hero = cfg.AssetURL(AssetHero)
	}
	return chrome
}

type navLink struct {
	Label  string `json:"label"`
	URL    string `json:"url"`
	Active bool   `json:"active"`
}

func navLinks(current string) []navLink {
	return []navLink{
		{Label: "Home", URL: LandingPath, Active: current == LandingPath},
		{Label: "Order", URL: OrderPath, Active: current == OrderPath},
	}
}

var markdownPolicy = bluemonday.UGCPolicy()

func renderMarkdown(md []byte) string {
	if len(bytes.TrimSpace(md)) == 0 {
		return ""
	}
	p := parser.NewWithExtensions(parser.CommonExtensions)
	r := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	out := markdown.ToHTML(md, p, r)
	return strings.TrimSpace(markdownPolicy.Sanitize(string(out)))
}
