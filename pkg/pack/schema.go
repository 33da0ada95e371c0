package pack

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// packageSchema is the JSON Schema every saved package must satisfy.
const packageSchema = `{
  "type": "object",
  "required": ["files", "file_summary"],
  "properties": {
    "id": {"type": "string"},
    "created_at": {"type": "string"},
    "files": {
      "type": "object",
      "additionalProperties": {"type": "string"}
    },
    "project_context": {"type": "string"},
    "additional_context": {"type": "string"},
    "file_summary": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["lines", "size", "language"],
        "properties": {
          "path": {"type": "string"},
          "lines": {"type": "integer", "minimum": 0},
          "size": {"type": "integer", "minimum": 0},
          "language": {"type": "string"}
        }
      }
    }
  }
}`

// Validate checks raw package JSON against the package schema.
func Validate(data []byte) error {
	var schemaDoc interface{}
	if err := json.Unmarshal([]byte(packageSchema), &schemaDoc); err != nil {
		return fmt.Errorf("invalid package schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("package.json", schemaDoc); err != nil {
		return fmt.Errorf("invalid package schema: %w", err)
	}
	sch, err := c.Compile("package.json")
	if err != nil {
		return fmt.Errorf("compiling package schema: %w", err)
	}

	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("package is not valid JSON: %w", err)
	}

	if err := sch.Validate(v); err != nil {
		return fmt.Errorf("package does not match schema: %w", err)
	}

	return nil
}
