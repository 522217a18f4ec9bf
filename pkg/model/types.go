package model

import (
	"sort"
	"strings"
)

// FieldName identifies an order form field by its control name.
type FieldName string

const (
	FieldFullName FieldName = "fullName"
	FieldSize     FieldName = "size"
	FieldToppings FieldName = "toppings"
)

// ValidatedFields lists the fields that carry field-level errors, in display
// order. Toppings are not validated individually.
var ValidatedFields = []FieldName{FieldFullName, FieldSize}

// Size is the pizza size. SizeNone represents the unselected state.
type Size string

const (
	SizeNone   Size = ""
	SizeSmall  Size = "S"
	SizeMedium Size = "M"
	SizeLarge  Size = "L"
)

// ToppingSet is a set of topping ids. The zero value is an empty set.
type ToppingSet map[string]struct{}

// NewToppingSet builds a set from ids, collapsing duplicates.
func NewToppingSet(ids ...string) ToppingSet {
	set := make(ToppingSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Has reports whether id is part of the set.
func (s ToppingSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of toppings in the set.
func (s ToppingSet) Len() int {
	return len(s)
}

// IDs returns the ids in lexical order.
func (s ToppingSet) IDs() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy of the set.
func (s ToppingSet) Clone() ToppingSet {
	out := make(ToppingSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Equal reports whether both sets hold the same ids.
func (s ToppingSet) Equal(other ToppingSet) bool {
	if len(s) != len(other) {
		return false
	}
	for id := range s {
		if !other.Has(id) {
			return false
		}
	}
	return true
}

// OrderForm is the in-memory state of one pizza order.
type OrderForm struct {
	FullName string
	Size     Size
	Toppings ToppingSet
}

// Empty returns a form with all fields unset.
func Empty() OrderForm {
	return OrderForm{Toppings: ToppingSet{}}
}

// Clone returns a deep copy of the form.
func (f OrderForm) Clone() OrderForm {
	return OrderForm{
		FullName: f.FullName,
		Size:     f.Size,
		Toppings: f.Toppings.Clone(),
	}
}

// Equal reports whether two forms carry the same values.
func (f OrderForm) Equal(other OrderForm) bool {
	return f.FullName == other.FullName &&
		f.Size == other.Size &&
		f.Toppings.Equal(other.Toppings)
}

// Value returns the raw string value of a scalar field. Toppings return an
// empty string; use Toppings directly.
func (f OrderForm) Value(name FieldName) (string, bool) {
	switch name {
	case FieldFullName:
		return f.FullName, true
	case FieldSize:
		return string(f.Size), true
	default:
		return "", false
	}
}

// Orderer sorts topping ids for the wire payload. *catalog.Catalog satisfies
// it with catalog order.
type Orderer interface {
	Order(ids []string) []string
}

// Payload converts the form into its wire representation. The topping list is
// sorted by orderer when provided, lexically otherwise.
func (f OrderForm) Payload(orderer Orderer) OrderPayload {
	ids := f.Toppings.IDs()
	if orderer != nil {
		ids = orderer.Order(ids)
	}
	if ids == nil {
		ids = []string{}
	}
	return OrderPayload{
		FullName: f.FullName,
		Size:     string(f.Size),
		Toppings: ids,
	}
}

// OrderPayload is the JSON body sent to the order endpoint.
type OrderPayload struct {
	FullName string   `json:"fullName"`
	Size     string   `json:"size"`
	Toppings []string `json:"toppings"`
}

// FieldErrors maps a validated field to its current message. An empty string
// or a missing key means the field has no error.
type FieldErrors map[FieldName]string

// Get returns the message attached to name.
func (e FieldErrors) Get(name FieldName) string {
	return e[name]
}

// Any reports whether at least one field has a message.
func (e FieldErrors) Any() bool {
	for _, msg := range e {
		if strings.TrimSpace(msg) != "" {
			return true
		}
	}
	return false
}

// Clone returns an independent copy keyed by every validated field.
func (e FieldErrors) Clone() FieldErrors {
	out := make(FieldErrors, len(ValidatedFields))
	for _, name := range ValidatedFields {
		out[name] = e[name]
	}
	return out
}

// Snapshot is an immutable copy of the form taken at a given revision. It is
// used to discard validation results computed against an older form.
type Snapshot struct {
	Revision uint64
	Form     OrderForm
}
