// internal/common/validation/schema.go
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// statusChangeEventSchema is the contract for inbound status-change
// events. Status enum membership is checked again inside handlers so the
// dispatcher stays safe when invoked programmatically.
const statusChangeEventSchema = `{
	"type": "object",
	"required": ["organizationId", "userActionId", "userId", "status"],
	"properties": {
		"organizationId": {"type": "string", "minLength": 1},
		"userActionId":   {"type": "string", "minLength": 1},
		"userId":         {"type": "string", "minLength": 1},
		"status":         {"type": "string", "enum": ["Compliant", "Suspended", "Banned"]},
		"previousStatus": {"type": "string", "enum": ["Compliant", "Suspended", "Banned", ""]}
	},
	"additionalProperties": false
}`

var eventSchemaLoader = gojsonschema.NewStringLoader(statusChangeEventSchema)

// ValidateStatusChangeEvent checks a raw event payload against the event
// schema. A non-nil error means the payload violates the producer
// contract and must not be retried.
func ValidateStatusChangeEvent(raw []byte) error {
	documentLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(eventSchemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("invalid status-change event: %s", strings.Join(msgs, "; "))
	}

	return nil
}
