// Package schemas provides JSON Schema validation for remote API payloads.
// Responses that drive the detail pane are shape-checked before decoding so
// that a malformed payload is reported as such instead of surfacing as a
// half-populated struct.
package schemas

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed match_analysis.schema.json
var matchAnalysisSchema string

//go:embed optimized_status.schema.json
var optimizedStatusSchema string

//go:embed application.schema.json
var applicationSchema string

// ValidationError represents a schema validation error with field paths.
type ValidationError struct {
	Schema string
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s payload failed validation:\n", ve.Schema))
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or parsing the schema itself.
type SchemaLoadError struct {
	Schema string
	Cause  error
}

func (e *SchemaLoadError) Error() string {
	return fmt.Sprintf("failed to load schema %s: %v", e.Schema, e.Cause)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// ValidateMatchAnalysis checks a match-analysis response body.
func ValidateMatchAnalysis(body []byte) error {
	return validate("match_analysis", matchAnalysisSchema, body)
}

// ValidateOptimizedStatus checks an optimized-status response body.
func ValidateOptimizedStatus(body []byte) error {
	return validate("optimized_status", optimizedStatusSchema, body)
}

// ValidateApplication checks an application detail response body.
func ValidateApplication(body []byte) error {
	return validate("application", applicationSchema, body)
}

// validate runs a document against an embedded schema and converts the result
// into a structured error.
func validate(name, schema string, body []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(schema)
	documentLoader := gojsonschema.NewBytesLoader(body)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{Schema: name, Cause: err}
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Schema: name,
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
