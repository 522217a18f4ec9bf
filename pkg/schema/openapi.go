package schema

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-orderform/pkg/catalog"
	"github.com/goliatone/go-orderform/pkg/model"
)

const trimExtensionKey = "x-orderform-trim"

// OpenAPIOptions configures FromOpenAPI.
type OpenAPIOptions struct {
	// Path and Method locate the order operation. They default to OrderPath
	// and OrderMethod.
	Path   string
	Method string
	// Messages supplies the user-facing strings attached to each rule.
	Messages catalog.Messages
}

// FromOpenAPI derives the order schema from the JSON request body of an
// OpenAPI 3 operation. Only the order form fields are read; other properties
// are ignored.
func FromOpenAPI(ctx context.Context, raw []byte, opts OpenAPIOptions) (*Schema, error) {
	if ctx == nil {
		return nil, errors.New("schema: context is required")
	}
	if len(raw) == 0 {
		return nil, errors.New("schema: openapi document is empty")
	}

	path := strings.TrimSpace(opts.Path)
	if path == "" {
		path = OrderPath
	}
	method := strings.ToUpper(strings.TrimSpace(opts.Method))
	if method == "" {
		method = OrderMethod
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("schema: load openapi document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("schema: validate openapi document: %w", err)
	}

	body, err := requestBodySchema(doc, path, method)
	if err != nil {
		return nil, err
	}

	required := make(map[string]struct{}, len(body.Required))
	for _, name := range body.Required {
		required[name] = struct{}{}
	}

	fields := []struct {
		name     model.FieldName
		messages RuleMessages
	}{
		{
			name: model.FieldFullName,
			messages: RuleMessages{
				Required:  opts.Messages.FullNameRequired,
				MinLength: opts.Messages.FullNameTooShort,
				MaxLength: opts.Messages.FullNameTooLong,
			},
		},
		{
			name: model.FieldSize,
			messages: RuleMessages{
				Required: opts.Messages.SizeRequired,
				Enum:     opts.Messages.SizeIncorrect,
			},
		},
	}

	rules := make([]FieldRule, 0, len(fields)+1)
	for _, field := range fields {
		ref, ok := body.Properties[string(field.name)]
		if !ok || ref == nil || ref.Value == nil {
			return nil, fmt.Errorf("%w: property %q missing from request body", ErrOperationMissing, field.name)
		}
		_, isRequired := required[string(field.name)]
		rules = append(rules, ruleFromProperty(field.name, ref.Value, isRequired, field.messages))
	}

	rules = append(rules, FieldRule{Name: model.FieldToppings, Unconstrained: true})
	return New(rules...), nil
}

func requestBodySchema(doc *openapi3.T, path, method string) (*openapi3.Schema, error) {
	if doc.Paths == nil {
		return nil, fmt.Errorf("%w: document has no paths", ErrOperationMissing)
	}
	item := doc.Paths.Map()[path]
	if item == nil {
		return nil, fmt.Errorf("%w: path %s", ErrOperationMissing, path)
	}
	op := item.GetOperation(method)
	if op == nil {
		return nil, fmt.Errorf("%w: %s %s", ErrOperationMissing, method, path)
	}
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil, fmt.Errorf("%w: %s %s has no request body", ErrOperationMissing, method, path)
	}
	mt, ok := op.RequestBody.Value.Content["application/json"]
	if !ok || mt == nil || mt.Schema == nil || mt.Schema.Value == nil {
		return nil, fmt.Errorf("%w: %s %s has no JSON body schema", ErrOperationMissing, method, path)
	}
	return mt.Schema.Value, nil
}

func ruleFromProperty(name model.FieldName, prop *openapi3.Schema, required bool, messages RuleMessages) FieldRule {
	rule := FieldRule{
		Name:     name,
		Required: required,
		Messages: messages,
	}
	if prop.MinLength != 0 {
		value := int(prop.MinLength)
		rule.MinLength = &value
	}
	if prop.MaxLength != nil {
		value := int(*prop.MaxLength)
		rule.MaxLength = &value
	}
	for _, option := range prop.Enum {
		rule.Enum = append(rule.Enum, fmt.Sprint(option))
	}
	if trim, ok := prop.Extensions[trimExtensionKey].(bool); ok {
		rule.Trim = trim
	}
	return rule
}
