package content

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/eslsoft/parcours/internal/entity"
)

// catalogSchema constrains the shape of the content file before any decoding.
// Semantic rules (cycles, dangling ids, threshold ranges) are checked
// separately against the parsed catalog.
var catalogSchema = map[string]any{
	"type":     "object",
	"required": []any{"modules"},
	"properties": map[string]any{
		"modules": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"id", "lessons"},
				"properties": map[string]any{
					"id":            map[string]any{"type": "string", "minLength": 1},
					"title":         map[string]any{"type": "string"},
					"prerequisites": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"lessons": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type":     "object",
							"required": []any{"id", "xp_reward"},
							"properties": map[string]any{
								"id":            map[string]any{"type": "string", "minLength": 1},
								"title":         map[string]any{"type": "string"},
								"prerequisites": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
								"xp_reward":     map[string]any{"type": "integer", "minimum": 0},
								"skills":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
								"assessment": map[string]any{
									"type":     "object",
									"required": []any{"id", "passing_score", "time_limit_secs", "max_retries", "questions"},
									"properties": map[string]any{
										"id":              map[string]any{"type": "string", "minLength": 1},
										"passing_score":   map[string]any{"type": "number", "exclusiveMinimum": 0, "maximum": 1},
										"time_limit_secs": map[string]any{"type": "integer", "minimum": 1},
										"max_retries":     map[string]any{"type": "integer", "minimum": 1},
										"questions": map[string]any{
											"type":     "array",
											"minItems": 1,
											"items": map[string]any{
												"type":     "object",
												"required": []any{"id", "answer"},
												"properties": map[string]any{
													"id":     map[string]any{"type": "string", "minLength": 1},
													"prompt": map[string]any{"type": "string"},
													"answer": map[string]any{"type": "string"},
												},
											},
										},
									},
								},
							},
						},
					},
				},
			},
		},
		"achievements": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"id", "metric", "threshold"},
				"properties": map[string]any{
					"id":        map[string]any{"type": "string", "minLength": 1},
					"title":     map[string]any{"type": "string"},
					"metric":    map[string]any{"enum": []any{"lessons_completed", "streak", "xp", "skill_level"}},
					"threshold": map[string]any{"type": "integer", "minimum": 1},
					"xp_reward": map[string]any{"type": "integer", "minimum": 0},
				},
			},
		},
	},
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func compiledCatalogSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		defBytes, err := json.Marshal(catalogSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal catalog schema: %w", err)
			return
		}
		var parsed any
		if err := json.Unmarshal(defBytes, &parsed); err != nil {
			compileErr = fmt.Errorf("parse catalog schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		const schemaURL = "schema://catalog.json"
		if err := c.AddResource(schemaURL, parsed); err != nil {
			compileErr = fmt.Errorf("add catalog schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(schemaURL)
	})
	return compiledSchema, compileErr
}

func validateSchema(raw []byte) error {
	var instance any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return &entity.ConfigError{Reason: fmt.Sprintf("catalog is not valid JSON: %v", err)}
	}
	schema, err := compiledCatalogSchema()
	if err != nil {
		return err
	}
	if err := schema.Validate(instance); err != nil {
		return &entity.ConfigError{Reason: fmt.Sprintf("catalog does not match schema: %v", err)}
	}
	return nil
}
