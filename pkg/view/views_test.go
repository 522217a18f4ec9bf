package view_test

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-orderform/pkg/model"
	"github.com/goliatone/go-orderform/pkg/state"
	"github.com/goliatone/go-orderform/pkg/view"
)

func newViews(t *testing.T, opts ...view.Option) *view.Views {
	t.Helper()
	v, err := view.New(opts...)
	if err != nil {
		t.Fatalf("new views: %v", err)
	}
	return v
}

func renderOrder(t *testing.T, v *view.Views, st state.State) string {
	t.Helper()
	var buf bytes.Buffer
	if err := v.Order(context.Background(), &buf, st); err != nil {
		t.Fatalf("render order: %v", err)
	}
	return buf.String()
}

func assertContains(t *testing.T, html string, parts ...string) {
	t.Helper()
	for _, part := range parts {
		if !strings.Contains(html, part) {
			t.Fatalf("expected output to contain %q\n%s", part, html)
		}
	}
}

func assertNotContains(t *testing.T, html string, parts ...string) {
	t.Helper()
	for _, part := range parts {
		if strings.Contains(html, part) {
			t.Fatalf("expected output to omit %q\n%s", part, html)
		}
	}
}

func assertOrdered(t *testing.T, html string, parts ...string) {
	t.Helper()
	last := -1
	for _, part := range parts {
		idx := strings.Index(html, part)
		if idx < 0 {
			t.Fatalf("missing %q", part)
		}
		if idx < last {
			t.Fatalf("%q rendered out of order", part)
		}
		last = idx
	}
}

func emptyState() state.State {
	return state.State{Form: model.Empty(), Errors: model.FieldErrors{}.Clone()}
}

func TestLanding(t *testing.T) {
	v := newViews(t)
	var buf bytes.Buffer
	if err := v.Landing(context.Background(), &buf); err != nil {
		t.Fatalf("render landing: %v", err)
	}
	html := buf.String()

	assertContains(t, html,
		"<h2>Welcome to Bloom Pizza!</h2>",
		`<a class="hero" href="/order"`,
		`<img alt="order-pizza" src="/assets/pizza.svg">`,
		`<link rel="stylesheet" href="/assets/orderform.css">`,
		"--brand: #2f7d32;",
		"<strong>size</strong>",
		`data-theme="bloom"`,
		"<title>Bloom Pizza</title>",
	)
	assertNotContains(t, html, "orderform.js")
}

func TestLanding_SanitizesCopy(t *testing.T) {
	v := newViews(t, view.WithLandingCopy([]byte("Hello <script>alert(1)</script> *friend*")))
	var buf bytes.Buffer
	if err := v.Landing(context.Background(), &buf); err != nil {
		t.Fatalf("render landing: %v", err)
	}
	html := buf.String()
	assertContains(t, html, "<em>friend</em>")
	assertNotContains(t, html, "alert(1)", "<script>alert")
}

func TestOrder_EmptyForm(t *testing.T) {
	v := newViews(t)
	html := renderOrder(t, v, emptyState())

	assertContains(t, html,
		"<h2>Order Your Pizza</h2>",
		`<input placeholder="Type full name" id="fullName" name="fullName" type="text" value=""`,
		`<option value="" selected>----Choose Size----</option>`,
		`<option value="S">Small</option>`,
		`<input type="submit" value="Submit">`,
		`data-valid="false"`,
		`data-banner="success" hidden></div>`,
		`data-banner="failure" hidden></div>`,
		`data-error="fullName" hidden></div>`,
		`<script src="/assets/orderform.js" defer></script>`,
		`data-events-url="/order/events"`,
		`action="/order/submit"`,
		"<title>Order Your Pizza | Bloom Pizza</title>",
	)
	assertOrdered(t, html, "Pepperoni", "Green Peppers", "Pineapple", "Mushrooms", "Ham")
	assertOrdered(t, html, `value="S"`, `value="M"`, `value="L"`)
	if got := strings.Count(html, `type="checkbox"`); got != 5 {
		t.Fatalf("expected 5 topping checkboxes, got %d", got)
	}
	assertNotContains(t, html, " checked")
}

func TestOrder_FieldErrorsAndValues(t *testing.T) {
	v := newViews(t)
	st := state.State{
		Form: model.OrderForm{FullName: "Al", Size: model.SizeMedium, Toppings: model.NewToppingSet("3")},
		Errors: model.FieldErrors{
			model.FieldFullName: "full name must be at least 3 characters",
			model.FieldSize:     "",
		},
	}
	html := renderOrder(t, v, st)

	assertContains(t, html,
		`value="Al" aria-invalid="true"`,
		`data-error="fullName">full name must be at least 3 characters</div>`,
		`data-error="size" hidden></div>`,
		`<option value="M" selected>Medium</option>`,
		`<input name="toppings" type="checkbox" value="3" checked>`,
		`data-valid="false"`,
	)
	assertNotContains(t, html, `<option value="" selected>`)
}

// The control stays enabled for plain form posts; the script disables it from
// data-valid on load.
func TestOrder_ValidFlagsSubmit(t *testing.T) {
	v := newViews(t)
	st := state.State{
		Form:   model.OrderForm{FullName: "Alice Smith", Size: model.SizeLarge, Toppings: model.NewToppingSet("1", "3")},
		Errors: model.FieldErrors{}.Clone(),
		Valid:  true,
	}
	html := renderOrder(t, v, st)
	assertContains(t, html, `<input type="submit" value="Submit">`, `data-valid="true"`)

	st.Submitting = true
	html = renderOrder(t, v, st)
	assertContains(t, html, `<input type="submit" value="Submit" disabled>`)
}

func TestOrder_Banners(t *testing.T) {
	v := newViews(t)

	success := emptyState()
	success.Outcome = state.Success("Thank you")
	html := renderOrder(t, v, success)
	assertContains(t, html, `data-banner="success">Thank you</div>`, `data-banner="failure" hidden></div>`)

	failure := state.State{
		Form:    model.OrderForm{FullName: "Alice Smith", Size: model.SizeLarge},
		Errors:  model.FieldErrors{}.Clone(),
		Outcome: state.Failure("Size <unavailable>"),
	}
	html = renderOrder(t, v, failure)
	assertContains(t, html,
		`data-banner="failure">Size &lt;unavailable&gt;</div>`,
		`data-banner="success" hidden></div>`,
		`value="Alice Smith"`,
	)
}

func TestOrder_HonoursContext(t *testing.T) {
	v := newViews(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	if err := v.Order(ctx, &buf, emptyState()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}

func TestTheme_VariantAndOverrides(t *testing.T) {
	v := newViews(t,
		view.WithTheme("bloom", "dark"),
		view.WithTokens(map[string]string{"brand": "#000000"}),
	)
	cfg := v.Theme()
	if cfg.Variant != "dark" {
		t.Fatalf("expected dark variant, got %q", cfg.Variant)
	}
	want := map[string]string{
		"--surface": "#1d1b18",
		"--ink":     "#f4efe6",
		"--brand":   "#000000",
	}
	got := map[string]string{}
	for key := range want {
		got[key] = cfg.CSSVars[key]
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("css vars mismatch (-want +got):\n%s", diff)
	}
	if cfg.Tokens["brand"] != "#000000" {
		t.Fatalf("expected brand override in tokens, got %q", cfg.Tokens["brand"])
	}
	if url := cfg.AssetURL(view.AssetScript); url != "/assets/orderform.js" {
		t.Fatalf("unexpected script url %q", url)
	}
	if url := cfg.AssetURL("missing"); url != "" {
		t.Fatalf("expected empty url for unknown asset, got %q", url)
	}

	html := renderOrder(t, v, emptyState())
	assertContains(t, html, `data-theme-variant="dark"`, "--brand: #000000;", "--ink: #f4efe6;")
}

func TestTheme_UnknownName(t *testing.T) {
	_, err := view.New(view.WithTheme("garden", ""))
	if !errors.Is(err, view.ErrUnknownTheme) {
		t.Fatalf("expected ErrUnknownTheme, got %v", err)
	}
}

func TestTheme_UnknownVariantFallsBack(t *testing.T) {
	v := newViews(t, view.WithTheme("", "neon"))
	cfg := v.Theme()
	if cfg.Theme != "bloom" || cfg.Variant != "" {
		t.Fatalf("unexpected theme %q variant %q", cfg.Theme, cfg.Variant)
	}
	if cfg.CSSVars["--surface"] != "#fffaf3" {
		t.Fatalf("expected base surface, got %q", cfg.CSSVars["--surface"])
	}
}

func TestTheme_RegistryWithExtraManifest(t *testing.T) {
	garden := &theme.Manifest{
		Name:    "garden",
		Version: "0.1.0",
		Tokens:  map[string]string{"brand": "#336699"},
		Assets: theme.Assets{
			Prefix: "/static",
			Files:  map[string]string{view.AssetStylesheet: "garden.css"},
		},
	}
	reg, err := view.NewRegistry(garden)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	v := newViews(t, view.WithThemeSelector(theme.Selector{Registry: reg}), view.WithTheme("garden", ""))
	html := renderOrder(t, v, emptyState())
	assertContains(t, html, `data-theme="garden"`, `href="/static/garden.css"`, "--brand: #336699;")
	assertNotContains(t, html, "orderform.js")

	if _, err := view.NewRegistry(&theme.Manifest{Name: "broken"}); err == nil {
		t.Fatalf("expected invalid manifest to be rejected")
	}
}

func TestAssets(t *testing.T) {
	for _, name := range []string{"orderform.css", "orderform.js", "pizza.svg"} {
		if _, err := fs.Stat(view.Assets(), name); err != nil {
			t.Fatalf("asset %s: %v", name, err)
		}
	}
}
