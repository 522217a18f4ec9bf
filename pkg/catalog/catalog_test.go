package catalog_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-orderform/pkg/catalog"
)

func TestDefault_ToppingsInCatalogOrder(t *testing.T) {
	got := catalog.Default().Toppings()
	want := []catalog.Topping{
		{ID: "1", Label: "Pepperoni"},
		{ID: "2", Label: "Green Peppers"},
		{ID: "3", Label: "Pineapple"},
		{ID: "4", Label: "Mushrooms"},
		{ID: "5", Label: "Ham"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("toppings mismatch (-want +got):\n%s", diff)
	}
}

func TestDefault_SizesAndMessages(t *testing.T) {
	c := catalog.Default()

	values := make([]string, 0, 4)
	for _, opt := range c.Sizes() {
		values = append(values, opt.Value)
	}
	if diff := cmp.Diff([]string{"", "S", "M", "L"}, values); diff != "" {
		t.Fatalf("size values mismatch (-want +got):\n%s", diff)
	}

	msgs := c.Messages()
	if msgs.FullNameTooShort != "full name must be at least 3 characters" {
		t.Fatalf("unexpected too-short message %q", msgs.FullNameTooShort)
	}
	if msgs.FullNameTooLong != "full name must be at most 20 characters" {
		t.Fatalf("unexpected too-long message %q", msgs.FullNameTooLong)
	}
	if msgs.SizeIncorrect != "size must be S or M or L" {
		t.Fatalf("unexpected size message %q", msgs.SizeIncorrect)
	}
}

func TestDefault_ReturnsCopies(t *testing.T) {
	c := catalog.Default()
	toppings := c.Toppings()
	toppings[0].Label = "mutated"

	if label, _ := c.Label("1"); label != "Pepperoni" {
		t.Fatalf("catalog mutated through copy: %q", label)
	}
}

func TestCatalog_HasAndOrder(t *testing.T) {
	c := catalog.Default()
	if !c.Has("3") {
		t.Fatalf("expected topping 3 to exist")
	}
	if c.Has("9") {
		t.Fatalf("unexpected topping 9")
	}

	got := c.Order([]string{"5", "1", "9", "1", "3"})
	if diff := cmp.Diff([]string{"1", "3", "5"}, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if got := c.Order(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestParse_Errors(t *testing.T) {
	messages := `
messages:
  fullNameRequired: a
  fullNameTooShort: b
  fullNameTooLong: c
  sizeRequired: d
  sizeIncorrect: e
  submitUnavailable: f
`
	cases := map[string]string{
		"empty":          "   ",
		"malformed":      "toppings: [",
		"no toppings":    "toppings: []\n" + messages,
		"empty id":       "toppings:\n  - id: \"\"\n    label: X\n" + messages,
		"empty label":    "toppings:\n  - id: \"1\"\n    label: \"\"\n" + messages,
		"duplicate id":   "toppings:\n  - id: \"1\"\n    label: A\n  - id: \"1\"\n    label: B\n" + messages,
		"missing string": "toppings:\n  - id: \"1\"\n    label: A\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := catalog.Parse([]byte(doc))
			if !errors.Is(err, catalog.ErrInvalidCatalog) {
				t.Fatalf("expected ErrInvalidCatalog, got %v", err)
			}
		})
	}
}
