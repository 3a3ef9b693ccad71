package trivia

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// responseSchema names a JSON Schema for one API endpoint.
type responseSchema struct {
	Name       string
	Definition map[string]any
}

var (
	categoriesSchema = &responseSchema{
		Name: "categories",
		Definition: map[string]any{
			"type":     "object",
			"required": []any{"trivia_categories"},
			"properties": map[string]any{
				"trivia_categories": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type":     "object",
						"required": []any{"id", "name"},
						"properties": map[string]any{
							"id":   map[string]any{"type": "integer"},
							"name": map[string]any{"type": "string"},
						},
					},
				},
			},
		},
	}

	tokenSchema = &responseSchema{
		Name: "token",
		Definition: map[string]any{
			"type":     "object",
			"required": []any{"response_code"},
			"properties": map[string]any{
				"response_code":    map[string]any{"type": "integer"},
				"response_message": map[string]any{"type": "string"},
				"token":            map[string]any{"type": "string"},
			},
		},
	}

	questionsSchema = &responseSchema{
		Name: "questions",
		Definition: map[string]any{
			"type":     "object",
			"required": []any{"response_code"},
			"properties": map[string]any{
				"response_code": map[string]any{"type": "integer"},
				"results": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type":     "object",
						"required": []any{"question", "correct_answer", "incorrect_answers"},
						"properties": map[string]any{
							"question":       map[string]any{"type": "string"},
							"correct_answer": map[string]any{"type": "string"},
							"incorrect_answers": map[string]any{
								"type":  "array",
								"items": map[string]any{"type": "string"},
							},
						},
					},
				},
			},
		},
	}
)

// schemaCache caches compiled schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// validateBody checks raw against schema. Returns *ErrInvalidResponse on failure.
func validateBody(schema *responseSchema, raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &ErrInvalidResponse{Body: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	compiled, err := compiledSchema(schema)
	if err != nil {
		return &ErrInvalidResponse{Body: raw, Err: fmt.Errorf("compile schema %q: %w", schema.Name, err)}
	}

	if err := compiled.Validate(parsed); err != nil {
		return &ErrInvalidResponse{Body: raw, Err: fmt.Errorf("schema %q: %w", schema.Name, err)}
	}
	return nil
}

func compiledSchema(schema *responseSchema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(schema.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler wants a plain decoded JSON value.
	defBytes, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var def any
	if err := json.Unmarshal(defBytes, &def); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	u := fmt.Sprintf("schema://trivia/%s.json", schema.Name)
	if err := c.AddResource(u, def); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(u)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(schema.Name, compiled)
	return compiled, nil
}
