// Package catalog holds the static configuration of the order form: the
// ordered topping list, the size options and the fixed user-facing messages.
// The bundled catalog is decoded once and treated as read-only afterwards.
package catalog

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrInvalidCatalog wraps every structural problem reported by Parse.
var ErrInvalidCatalog = errors.New("catalog: invalid document")

// Topping is a selectable topping identified by a stable string id.
type Topping struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// SizeOption is a single entry of the size select. The blank value represents
// the "not chosen" default.
type SizeOption struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Messages are the fixed strings surfaced to the user.
type Messages struct {
	FullNameRequired  string `json:"fullNameRequired" yaml:"fullNameRequired"`
	FullNameTooShort  string `json:"fullNameTooShort" yaml:"fullNameTooShort"`
	FullNameTooLong   string `json:"fullNameTooLong" yaml:"fullNameTooLong"`
	SizeRequired      string `json:"sizeRequired" yaml:"sizeRequired"`
	SizeIncorrect     string `json:"sizeIncorrect" yaml:"sizeIncorrect"`
	SubmitUnavailable string `json:"submitUnavailable" yaml:"submitUnavailable"`
}

// Catalog is an immutable view over a decoded catalog document.
type Catalog struct {
	toppings []Topping
	index    map[string]int
	sizes    []SizeOption
	messages Messages
}

type documentFile struct {
	Toppings []Topping    `yaml:"toppings"`
	Sizes    []SizeOption `yaml:"sizes"`
	Messages Messages     `yaml:"messages"`
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the bundled catalog. The embedded document is validated by
// the package tests, so a decode failure here is a build defect and panics.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(embeddedDocument())
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("%w: document is empty", ErrInvalidCatalog)
	}

	var doc documentFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	if len(doc.Toppings) == 0 {
		return nil, fmt.Errorf("%w: no toppings declared", ErrInvalidCatalog)
	}

	c := &Catalog{
		toppings: make([]Topping, 0, len(doc.Toppings)),
		index:    make(map[string]int, len(doc.Toppings)),
		sizes:    append([]SizeOption(nil), doc.Sizes...),
		messages: doc.Messages,
	}
	for i, topping := range doc.Toppings {
		id := strings.TrimSpace(topping.ID)
		label := strings.TrimSpace(topping.Label)
		if id == "" {
			return nil, fmt.Errorf("%w: topping %d has an empty id", ErrInvalidCatalog, i)
		}
		if label == "" {
			return nil, fmt.Errorf("%w: topping %q has an empty label", ErrInvalidCatalog, id)
		}
		if _, exists := c.index[id]; exists {
			return nil, fmt.Errorf("%w: duplicate topping id %q", ErrInvalidCatalog, id)
		}
		c.index[id] = len(c.toppings)
		c.toppings = append(c.toppings, Topping{ID: id, Label: label})
	}

	if err := validateMessages(doc.Messages); err != nil {
		return nil, err
	}
	return c, nil
}

func validateMessages(m Messages) error {
	required := []struct {
		key   string
		value string
	}{
		{"fullNameRequired", m.FullNameRequired},
		{"fullNameTooShort", m.FullNameTooShort},
		{"fullNameTooLong", m.FullNameTooLong},
		{"sizeRequired", m.SizeRequired},
		{"sizeIncorrect", m.SizeIncorrect},
		{"submitUnavailable", m.SubmitUnavailable},
	}
	for _, entry := range required {
		if strings.TrimSpace(entry.value) == "" {
			return fmt.Errorf("%w: message %q is missing", ErrInvalidCatalog, entry.key)
		}
	}
	return nil
}

// Toppings returns a copy of the toppings in catalog order.
func (c *Catalog) Toppings() []Topping {
	if c == nil {
		return nil
	}
	return append([]Topping(nil), c.toppings...)
}

// Has reports whether id names a catalog topping.
func (c *Catalog) Has(id string) bool {
	if c == nil {
		return false
	}
	_, ok := c.index[id]
	return ok
}

// Label returns the display label for id.
func (c *Catalog) Label(id string) (string, bool) {
	if c == nil {
		return "", false
	}
	idx, ok := c.index[id]
	if !ok {
		return "", false
	}
	return c.toppings[idx].Label, true
}

// Order returns the known ids from ids sorted by catalog position. Unknown ids
// and duplicates are dropped.
func (c *Catalog) Order(ids []string) []string {
	if c == nil || len(ids) == 0 {
		return []string{}
	}
	selected := make([]bool, len(c.toppings))
	for _, id := range ids {
		if idx, ok := c.index[id]; ok {
			selected[idx] = true
		}
	}
	out := make([]string, 0, len(ids))
	for idx, on := range selected {
		if on {
			out = append(out, c.toppings[idx].ID)
		}
	}
	return out
}

// Sizes returns a copy of the size options in display order.
func (c *Catalog) Sizes() []SizeOption {
	if c == nil {
		return nil
	}
	return append([]SizeOption(nil), c.sizes...)
}

// Messages returns the fixed message set.
func (c *Catalog) Messages() Messages {
	if c == nil {
		return Messages{}
	}
	return c.messages
}
