package rules

import (
	"fmt"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
)

// packSchema describes the on-disk rule pack document shape in-process,
// rather than shipping a schema file: metadata plus an ordered rule list,
// each rule carrying exactly one variant payload.
var packSchema = &jsonschema.Schema{
	Type:     "object",
	Required: []string{"metadata", "rules"},
	Properties: map[string]*jsonschema.Schema{
		"metadata": {
			Type:     "object",
			Required: []string{"name", "version"},
			Properties: map[string]*jsonschema.Schema{
				"name":        {Type: "string"},
				"version":     {Type: "string"},
				"description": {Type: "string"},
			},
		},
		"rules": {
			Type: "array",
			Items: &jsonschema.Schema{
				Type:     "object",
				Required: []string{"id", "severity", "type"},
				Properties: map[string]*jsonschema.Schema{
					"id":       {Type: "string"},
					"severity": {Type: "string", Enum: []any{"critical", "high", "medium", "low"}},
					"enabled":  {Type: "boolean"},
					"type":     {Type: "string", Enum: []any{"filename", "regex", "structured"}},
					"description": {Type: "string"},
					"include":      {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
					"exclude":      {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
					"allow_paths":  {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
					"allow_regexes": {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
					"filename": {
						Type: "object",
						Properties: map[string]*jsonschema.Schema{
							"pattern":      {Type: "string"},
							"pattern_type": {Type: "string", Enum: []any{"glob", "regex"}},
						},
					},
					"regex": {
						Type: "object",
						Properties: map[string]*jsonschema.Schema{
							"pattern":     {Type: "string"},
							"multiline":   {Type: "boolean"},
							"scope":       {Type: "string", Enum: []any{"file", "line"}},
							"max_matches": {Type: "integer"},
						},
					},
					"structured": {
						Type: "object",
						Properties: map[string]*jsonschema.Schema{
							"format":                {Type: "string", Enum: []any{"json", "yaml", "toml", "env"}},
							"forbidden_keys":        {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
							"allowed_keys":          {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
							"case_insensitive_keys": {Type: "boolean"},
							"value_policy": {
								Type: "string",
								Enum: []any{"any", "non_empty", "must_reference_env", "must_reference_vault", "plaintext"},
							},
						},
					},
				},
			},
		},
	},
}

var (
	resolveOnce     sync.Once
	resolvedPack    *jsonschema.Resolved
	resolveErr      error
)

func resolvedPackSchema() (*jsonschema.Resolved, error) {
	resolveOnce.Do(func() {
		resolvedPack, resolveErr = packSchema.Resolve(nil)
	})
	return resolvedPack, resolveErr
}

// validateAgainstSchema validates a raw rule-pack document (as decoded
// from YAML into generic maps/slices) against the in-process schema.
func validateAgainstSchema(doc any, source string) error {
	resolved, err := resolvedPackSchema()
	if err != nil {
		return fmt.Errorf("rule pack schema could not be resolved: %w", err)
	}
	if err := resolved.Validate(doc); err != nil {
		return fmt.Errorf("rule pack schema validation failed (source: %s): %w", source, err)
	}
	return nil
}
