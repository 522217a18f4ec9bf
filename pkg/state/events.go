package state

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-orderform/pkg/model"
)

// ControlType mirrors the type of the input control that produced a change.
type ControlType string

const (
	ControlText     ControlType = "text"
	ControlSelect   ControlType = "select-one"
	ControlCheckbox ControlType = "checkbox"
)

// ChangeEvent is a raw change notification from an input control.
type ChangeEvent struct {
	Name    string      `json:"name"`
	Type    ControlType `json:"type,omitempty"`
	Value   string      `json:"value"`
	Checked bool        `json:"checked,omitempty"`
}

// Normalize maps the event onto a mutation. Checkbox controls named after the
// topping set toggle the topping carried in Value; other checkboxes map to a
// boolean field using the checked flag instead of the raw value.
func (e ChangeEvent) Normalize() Mutation {
	name := model.FieldName(strings.TrimSpace(e.Name))
	if ControlType(strings.ToLower(string(e.Type))) == ControlCheckbox {
		if name == model.FieldToppings {
			return ToggleTopping(strings.TrimSpace(e.Value), e.Checked)
		}
		return SetField(name, strconv.FormatBool(e.Checked))
	}
	return SetField(name, e.Value)
}

// Dispatch applies a raw change event.
func (c *Controller) Dispatch(e ChangeEvent) error {
	return c.Apply(e.Normalize())
}
