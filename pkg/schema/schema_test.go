package schema_test

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-orderform/pkg/model"
	"github.com/goliatone/go-orderform/pkg/schema"
)

func TestValidateField_FullNameLengthBounds(t *testing.T) {
	s := schema.Default()

	for n := 0; n <= 25; n++ {
		for _, pad := range []string{"", "  ", "\t"} {
			value := pad + strings.Repeat("a", n) + pad
			res, err := s.ValidateField(model.FieldFullName, value)
			if err != nil {
				t.Fatalf("validate %q: %v", value, err)
			}
			trimmed := utf8.RuneCountInString(strings.TrimSpace(value))
			want := trimmed >= 3 && trimmed <= 20
			if res.Valid != want {
				t.Fatalf("fullName %q: valid=%v want %v (message %q)", value, res.Valid, want, res.Message)
			}
		}
	}
}

func TestValidateField_FullNameMessages(t *testing.T) {
	s := schema.Default()
	cases := map[string]string{
		"":                      "Full name is required",
		"   ":                   "Full name is required",
		"Al":                    "full name must be at least 3 characters",
		strings.Repeat("x", 21): "full name must be at most 20 characters",
		"Alice":                 "",
		strings.Repeat("é", 20): "",
		strings.Repeat("é", 2):  "full name must be at least 3 characters",
	}
	for value, want := range cases {
		res, err := s.ValidateField(model.FieldFullName, value)
		if err != nil {
			t.Fatalf("validate %q: %v", value, err)
		}
		if res.Message != want {
			t.Fatalf("fullName %q: message %q want %q", value, res.Message, want)
		}
		if res.Valid != (want == "") {
			t.Fatalf("fullName %q: valid flag %v inconsistent with message", value, res.Valid)
		}
	}
}

func TestValidateField_Size(t *testing.T) {
	s := schema.Default()
	cases := map[string]string{
		"":   "Size is required",
		"S":  "",
		"M":  "",
		"L":  "",
		"XL": "size must be S or M or L",
		"s":  "size must be S or M or L",
		" S": "size must be S or M or L",
	}
	for value, want := range cases {
		res, err := s.ValidateField(model.FieldSize, value)
		if err != nil {
			t.Fatalf("validate %q: %v", value, err)
		}
		if res.Message != want || res.Valid != (want == "") {
			t.Fatalf("size %q: got %+v want message %q", value, res, want)
		}
	}
}

func TestValidateField_ToppingsUnconstrained(t *testing.T) {
	res, err := schema.Default().ValidateField(model.FieldToppings, "anything")
	if err != nil {
		t.Fatalf("validate toppings: %v", err)
	}
	if !res.Valid {
		t.Fatalf("toppings should never fail field validation")
	}
}

func TestValidateField_UnknownField(t *testing.T) {
	_, err := schema.Default().ValidateField("email", "a@b.c")
	if !errors.Is(err, schema.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestValidateForm_IgnoresToppings(t *testing.T) {
	s := schema.Default()
	toppingSets := []model.ToppingSet{
		{},
		model.NewToppingSet("1"),
		model.NewToppingSet("1", "2", "3", "4", "5"),
	}
	for _, toppings := range toppingSets {
		valid := model.OrderForm{FullName: "Alice Smith", Size: model.SizeLarge, Toppings: toppings}
		if !s.ValidateForm(valid) {
			t.Fatalf("expected valid form with toppings %v", toppings.IDs())
		}
		invalid := model.OrderForm{FullName: "Al", Size: model.SizeMedium, Toppings: toppings}
		if s.ValidateForm(invalid) {
			t.Fatalf("expected invalid form with toppings %v", toppings.IDs())
		}
	}
}

func TestValidate_ReportsIssuesInRuleOrder(t *testing.T) {
	report := schema.Default().Validate(model.Empty())
	want := schema.Report{
		Valid: false,
		Issues: []schema.Issue{
			{Field: model.FieldFullName, Message: "Full name is required"},
			{Field: model.FieldSize, Message: "Size is required"},
		},
	}
	if diff := cmp.Diff(want, report); diff != "" {
		t.Fatalf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateForm_Scenarios(t *testing.T) {
	s := schema.Default()
	cases := []struct {
		name string
		form model.OrderForm
		want bool
	}{
		{"short name", model.OrderForm{FullName: "Al", Size: model.SizeMedium}, false},
		{"missing size", model.OrderForm{FullName: "Alice"}, false},
		{"valid", model.OrderForm{FullName: "Alice Smith", Size: model.SizeLarge, Toppings: model.NewToppingSet("1", "3")}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := s.ValidateForm(tc.form); got != tc.want {
				t.Fatalf("ValidateForm = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNew_FallbackMessages(t *testing.T) {
	min := 2
	s := schema.New(schema.FieldRule{Name: model.FieldFullName, Required: true, MinLength: &min})

	res, err := s.ValidateField(model.FieldFullName, "a")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if res.Valid || res.Message != "fullName must be at least 2 characters" {
		t.Fatalf("unexpected result %+v", res)
	}
}
