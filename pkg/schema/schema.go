// Package schema implements the order form validation rules as pure
// functions. Rules are declared per field (required, length bounds, enum
// membership) and evaluated in a fixed order so the first violated rule picks
// the message. Constraint values are sourced from the bundled OpenAPI document
// (see FromOpenAPI) while messages come from the static catalog.
package schema

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/goliatone/go-orderform/pkg/catalog"
	"github.com/goliatone/go-orderform/pkg/model"
)

// RuleMessages holds the message reported for each rule kind of a field.
type RuleMessages struct {
	Required  string `json:"required,omitempty"`
	MinLength string `json:"minLength,omitempty"`
	MaxLength string `json:"maxLength,omitempty"`
	Enum      string `json:"enum,omitempty"`
}

// FieldRule describes the constraints of one field. Lengths count runes.
type FieldRule struct {
	Name      model.FieldName `json:"name"`
	Required  bool            `json:"required"`
	Trim      bool            `json:"trim,omitempty"`
	MinLength *int            `json:"minLength,omitempty"`
	MaxLength *int            `json:"maxLength,omitempty"`
	Enum      []string        `json:"enum,omitempty"`
	// Unconstrained fields (toppings) are declared so lookups succeed but no
	// rule is evaluated.
	Unconstrained bool         `json:"unconstrained,omitempty"`
	Messages      RuleMessages `json:"messages"`
}

// Result is the outcome of validating a single field.
type Result struct {
	Valid   bool
	Message string
}

// Issue is a single field violation inside a whole-form report.
type Issue struct {
	Field   model.FieldName `json:"field"`
	Message string          `json:"message"`
}

// Report captures whole-form validation results.
type Report struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

// Schema is an immutable set of field rules.
type Schema struct {
	rules []FieldRule
	index map[model.FieldName]int
}

// New builds a schema from rules, keeping their order.
func New(rules ...FieldRule) *Schema {
	s := &Schema{
		rules: make([]FieldRule, 0, len(rules)),
		index: make(map[model.FieldName]int, len(rules)),
	}
	for _, rule := range rules {
		rule.Enum = append([]string(nil), rule.Enum...)
		if idx, exists := s.index[rule.Name]; exists {
			s.rules[idx] = rule
			continue
		}
		s.index[rule.Name] = len(s.rules)
		s.rules = append(s.rules, rule)
	}
	return s
}

var (
	defaultOnce   sync.Once
	defaultSchema *Schema
)

// Default returns the schema derived from the bundled OpenAPI document and the
// default catalog messages.
func Default() *Schema {
	defaultOnce.Do(func() {
		s, err := FromOpenAPI(context.Background(), Document(), OpenAPIOptions{
			Messages: catalog.Default().Messages(),
		})
		if err != nil {
			panic(err)
		}
		defaultSchema = s
	})
	return defaultSchema
}

// Rules returns a copy of the field rules in declaration order.
func (s *Schema) Rules() []FieldRule {
	if s == nil {
		return nil
	}
	out := make([]FieldRule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Rule returns the rule declared for name.
func (s *Schema) Rule(name model.FieldName) (FieldRule, bool) {
	if s == nil {
		return FieldRule{}, false
	}
	idx, ok := s.index[name]
	if !ok {
		return FieldRule{}, false
	}
	return s.rules[idx], true
}

// ValidateField checks a single field value in isolation.
func (s *Schema) ValidateField(name model.FieldName, value string) (Result, error) {
	rule, ok := s.Rule(name)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	if msg, ok := rule.check(value); !ok {
		return Result{Valid: false, Message: msg}, nil
	}
	return Result{Valid: true}, nil
}

// Validate evaluates every scalar rule against form and collects the issues
// in rule order.
func (s *Schema) Validate(form model.OrderForm) Report {
	report := Report{Valid: true}
	if s == nil {
		return report
	}
	for _, rule := range s.rules {
		value, ok := form.Value(rule.Name)
		if !ok {
			continue
		}
		if msg, valid := rule.check(value); !valid {
			report.Valid = false
			report.Issues = append(report.Issues, Issue{Field: rule.Name, Message: msg})
		}
	}
	return report
}

// ValidateForm reports whether form satisfies every rule. Toppings do not
// affect the result.
func (s *Schema) ValidateForm(form model.OrderForm) bool {
	return s.Validate(form).Valid
}

func (r FieldRule) check(value string) (string, bool) {
	if r.Unconstrained {
		return "", true
	}
	if r.Trim {
		value = strings.TrimSpace(value)
	}
	if value == "" {
		if r.Required {
			return messageOr(r.Messages.Required, fmt.Sprintf("%s is required", r.Name)), false
		}
		return "", true
	}
	length := utf8.RuneCountInString(value)
	if r.MinLength != nil && length < *r.MinLength {
		return messageOr(r.Messages.MinLength, fmt.Sprintf("%s must be at least %d characters", r.Name, *r.MinLength)), false
	}
	if r.MaxLength != nil && length > *r.MaxLength {
		return messageOr(r.Messages.MaxLength, fmt.Sprintf("%s must be at most %d characters", r.Name, *r.MaxLength)), false
	}
	if len(r.Enum) > 0 && !contains(r.Enum, value) {
		return messageOr(r.Messages.Enum, fmt.Sprintf("%s must be one of %s", r.Name, strings.Join(r.Enum, ", "))), false
	}
	return "", true
}

func messageOr(msg, fallback string) string {
	if strings.TrimSpace(msg) == "" {
		return fallback
	}
	return msg
}

func contains(values []string, candidate string) bool {
	for _, v := range values {
		if v == candidate {
			return true
		}
	}
	return false
}
