package view

import (
	"github.com/goliatone/go-orderform/pkg/catalog"
	"github.com/goliatone/go-orderform/pkg/model"
	"github.com/goliatone/go-orderform/pkg/state"
)

type sizeControl struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

type toppingControl struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Checked bool   `json:"checked"`
}

type orderPage struct {
	FullName       string            `json:"fullName"`
	Sizes          []sizeControl     `json:"sizes"`
	Toppings       []toppingControl  `json:"toppings"`
	Errors         map[string]string `json:"errors"`
	Valid          bool              `json:"valid"`
	Submitting     bool              `json:"submitting"`
	SuccessMessage string            `json:"successMessage"`
	FailureMessage string            `json:"failureMessage"`
	Revision       uint64            `json:"revision"`
}

func buildOrderPage(cat *catalog.Catalog, st state.State) orderPage {
	page := orderPage{
		FullName:       st.Form.FullName,
		Errors:         make(map[string]string, len(model.ValidatedFields)),
		Valid:          st.Valid,
		Submitting:     st.Submitting,
		Revision:       st.Revision,
	}

	for _, opt := range cat.Sizes() {
		page.Sizes = append(page.Sizes, sizeControl{
			Value:    opt.Value,
			Label:    opt.Label,
			Selected: string(st.Form.Size) == opt.Value,
		})
	}
	for _, topping := range cat.Toppings() {
		page.Toppings = append(page.Toppings, toppingControl{
			ID:      topping.ID,
			Label:   topping.Label,
			Checked: st.Form.Toppings.Has(topping.ID),
		})
	}
	for _, field := range model.ValidatedFields {
		page.Errors[string(field)] = st.Errors.Get(field)
	}

	switch st.Outcome.Kind {
	case state.OutcomeSuccess:
		page.SuccessMessage = st.Outcome.Message
	case state.OutcomeFailure:
		page.FailureMessage = st.Outcome.Message
	}
	return page
}
