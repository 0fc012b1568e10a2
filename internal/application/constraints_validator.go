package application

import (
	"bytes"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// constraintsSchema validates the constraints matrix produced by the external
// document-extraction collaborator before it reaches the rule engine. The
// extraction output is untrusted input.
const constraintsSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "access": {
      "type": "object",
      "properties": {
        "maxHeightM": {"type": "number", "exclusiveMinimum": 0},
        "tailLiftRequired": {"type": "boolean"},
        "elevatorHeightCm": {"type": "number", "exclusiveMinimum": 0},
        "elevatorWidthCm": {"type": "number", "exclusiveMinimum": 0},
        "elevatorDepthCm": {"type": "number", "exclusiveMinimum": 0},
        "rationale": {"type": "string"}
      },
      "additionalProperties": false
    },
    "security": {
      "type": "object",
      "properties": {
        "armoredTruckRequired": {"type": "boolean"},
        "policeEscortRequired": {"type": "boolean"},
        "courierSupervision": {"type": "boolean"},
        "tarmacAccessRequired": {"type": "boolean"},
        "rationale": {"type": "string"}
      },
      "additionalProperties": false
    },
    "packing": {
      "type": "object",
      "properties": {
        "nimp15Required": {"type": "boolean"},
        "acclimatizationHours": {"type": "number", "minimum": 0},
        "forbiddenMaterials": {"type": "array", "items": {"type": "string"}},
        "rationale": {"type": "string"}
      },
      "additionalProperties": false
    },
    "schedule": {
      "type": "object",
      "properties": {
        "nightWorkRequired": {"type": "boolean"},
        "sundayWorkRequired": {"type": "boolean"},
        "hardDeadline": {"type": "string", "format": "date-time"},
        "rationale": {"type": "string"}
      },
      "additionalProperties": false
    }
  },
  "additionalProperties": false
}`

// ConstraintsValidator validates raw constraints matrices against the schema
type ConstraintsValidator struct {
	schema *jsonschema.Schema
}

// NewConstraintsValidator compiles the embedded constraints schema
func NewConstraintsValidator() (*ConstraintsValidator, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader([]byte(constraintsSchema)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse constraints schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("constraints.json", doc); err != nil {
		return nil, fmt.Errorf("failed to register constraints schema: %w", err)
	}

	schema, err := compiler.Compile("constraints.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile constraints schema: %w", err)
	}

	return &ConstraintsValidator{schema: schema}, nil
}

// Validate checks a raw constraints matrix document
func (v *ConstraintsValidator) Validate(raw []byte) error {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("constraints matrix is not valid JSON: %w", err)
	}
	if err := v.schema.Validate(doc); err != nil {
		return fmt.Errorf("constraints matrix failed schema validation: %w", err)
	}
	return nil
}
