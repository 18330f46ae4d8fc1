package metadata

import (
	_ "embed"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON []byte

// Violation is a single schema violation.
type Violation struct {
	Field       string
	Description string
}

// String renders the violation as "field: description".
func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Description)
}

// Schema returns the embedded JSON schema document.
func Schema() []byte {
	return schemaJSON
}

// Validate checks data against the embedded schema. Invalid JSON is reported
// as an error wrapping ErrMalformed; schema violations are returned as a list.
func Validate(data []byte) ([]Violation, error) {
	schemaLoader := gojsonschema.NewBytesLoader(schemaJSON)
	docLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	if result.Valid() {
		return nil, nil
	}

	violations := make([]Violation, 0, len(result.Errors()))

	for _, verr := range result.Errors() {
		violations = append(violations, Violation{
			Field:       verr.Field(),
			Description: verr.Description(),
		})
	}

	return violations, nil
}
