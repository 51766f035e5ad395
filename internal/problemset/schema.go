package problemset

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "schema://problemset.json"

// SetSchema is the JSON schema every problem-set file must satisfy.
var SetSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"version": map[string]any{
			"type":        "string",
			"description": "File format version, e.g. v1.0.0",
		},
		"name": map[string]any{
			"type":      "string",
			"minLength": 1,
		},
		"problems": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":        map[string]any{"type": "string", "minLength": 1},
					"title":     map[string]any{"type": "string"},
					"statement": map[string]any{"type": "string"},
					"answers": map[string]any{
						"type":     "array",
						"minItems": 1,
						"items":    map[string]any{"type": "string"},
					},
					"requires_multiple_answers": map[string]any{"type": "boolean"},
					"points":                    map[string]any{"type": "integer", "minimum": 0},
				},
				"required":             []any{"id", "answers"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []any{"version", "name", "problems"},
	"additionalProperties": false,
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// compiledSchema compiles SetSchema on first use.
func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler wants a decoded JSON document, not Go literals.
		raw, err := json.Marshal(SetSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}
