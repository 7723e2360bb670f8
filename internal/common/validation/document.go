package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// DocumentValidator checks arbitrary JSON documents against a full
// draft-07 JSON schema. Unlike ValidateInput it understands nested arrays of
// objects, which the team proposal input needs.
type DocumentValidator struct {
	schema *gojsonschema.Schema
}

// NewDocumentValidator compiles schema once so repeated jobs reuse it.
func NewDocumentValidator(schema map[string]interface{}) (*DocumentValidator, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &DocumentValidator{schema: compiled}, nil
}

// Validate returns a ValidationResult in the same shape as ValidateInput.
func (v *DocumentValidator) Validate(document interface{}) (*ValidationResult, error) {
	result, err := v.schema.Validate(gojsonschema.NewGoLoader(document))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    desc.Type(),
		})
	}
	return out, nil
}
