// Package schema validates JSON response bodies against JSON Schema documents.
package schema

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
)

// ErrSchemaMismatch is returned when a document does not satisfy its schema.
var ErrSchemaMismatch = errors.New("response does not match schema")

// Validate checks body against the schema stored at schemaPath.
func Validate(schemaPath string, body []byte) error {
	schemaData, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("reading schema: %w", err)
	}
	return ValidateBytes(schemaData, body)
}

// ValidateBytes checks body against schemaData. A body that is not JSON at
// all fails the check like any other mismatch; only a broken schema is
// reported as a plain error.
func ValidateBytes(schemaData, body []byte) error {
	if !gjson.ValidBytes(body) {
		return fmt.Errorf("%w: body is not valid JSON", ErrSchemaMismatch)
	}

	schemaLoader := gojsonschema.NewBytesLoader(schemaData)
	documentLoader := gojsonschema.NewBytesLoader(body)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if result.Valid() {
		return nil
	}

	var msgs []string
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return fmt.Errorf("%w: %s", ErrSchemaMismatch, strings.Join(msgs, "; "))
}
