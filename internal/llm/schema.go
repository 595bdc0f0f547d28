package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildResumeJSONSchema returns a JSON-Schema (draft 2020-12 subset) for the
// resume document as a generic map. Section items are deliberately left open:
// their shape varies by section type and is generator-owned.
func BuildResumeJSONSchema() map[string]any {
	personalInfo := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"fullName":       map[string]any{"type": "string"},
			"jobTitle":       map[string]any{"type": "string"},
			"email":          map[string]any{"type": "string"},
			"phone":          map[string]any{"type": "string"},
			"location":       map[string]any{"type": "string"},
			"summary":        map[string]any{"type": "string"},
			"profilePicture": map[string]any{"type": []any{"string", "null"}},
		},
		"required": []string{"fullName", "jobTitle", "email", "phone", "location", "summary"},
	}

	section := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":     map[string]any{"type": "string"},
			"type":   map[string]any{"type": "string", "minLength": 1},
			"title":  map[string]any{"type": "string"},
			"order":  map[string]any{"type": "integer", "minimum": 0},
			"hidden": map[string]any{"type": "boolean"},
			"format": map[string]any{"type": "string"},
			"items":  map[string]any{"type": "array"},
			"groups": map[string]any{"type": "array"},
			"state":  map[string]any{"type": "object"},
		},
		"required": []string{"id", "type", "title", "order", "hidden", "items", "groups", "state"},
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":                   map[string]any{"type": []any{"string", "null"}},
			"targetJobTitle":       map[string]any{"type": "string"},
			"targetJobDescription": map[string]any{"type": "string"},
			"personalInfo":         personalInfo,
			"sections":             map[string]any{"type": "array", "items": section},
		},
		"required": []string{"targetJobTitle", "targetJobDescription", "personalInfo", "sections"},
	}
}

// compileResumeSchema compiles the document schema once; the Transformer
// holds the result for the process lifetime.
func compileResumeSchema() (*jsonschema.Schema, error) {
	b, err := json.Marshal(BuildResumeJSONSchema())
	if err != nil {
		return nil, fmt.Errorf("marshal resume schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("resume.schema.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("register resume schema: %w", err)
	}
	return compiler.Compile("resume.schema.json")
}

// validateDocument checks raw against the compiled document schema.
func validateDocument(schema *jsonschema.Schema, raw json.RawMessage) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("document shape: %w", err)
	}
	return nil
}
