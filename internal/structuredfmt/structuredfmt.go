// Package structuredfmt parses JSON, YAML, TOML, and .env text into flat
// key/value maps for the structured policy evaluator. Nested values are
// not flattened; they are carried as-is and stringified when needed.
package structuredfmt

import (
	"bufio"
	"encoding/json"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	yaml "gopkg.in/yaml.v3"

	"github.com/secretscout/secretscout/internal/types"
)

// Parser turns file text into a top-level key/value mapping. A returned
// error means the file contributes no structured findings; parsers never
// panic on malformed input.
type Parser func(text string) (map[string]any, error)

// Registry maps a declared structured format to its parser.
type Registry map[types.StructuredFormat]Parser

// DefaultRegistry returns the standard JSON/YAML/TOML/.env parsers.
func DefaultRegistry() Registry {
	return Registry{
		types.FormatJSON: ParseJSON,
		types.FormatYAML: ParseYAML,
		types.FormatTOML: ParseTOML,
		types.FormatEnv:  ParseEnv,
	}
}

// ParseJSON decodes a JSON object's top-level keys.
func ParseJSON(text string) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(text), &m); err != nil {
		return nil, err
	}
	return m, nil
}

// ParseYAML decodes a YAML mapping document's top-level keys.
func ParseYAML(text string) (map[string]any, error) {
	var m map[string]any
	if err := yaml.Unmarshal([]byte(text), &m); err != nil {
		return nil, err
	}
	return m, nil
}

// ParseTOML decodes a TOML document's top-level keys.
func ParseTOML(text string) (map[string]any, error) {
	var m map[string]any
	if err := toml.Unmarshal([]byte(text), &m); err != nil {
		return nil, err
	}
	return m, nil
}

// ParseEnv parses KEY=VALUE lines as written by .env files: blank lines
// and lines starting with # are skipped, an optional "export " prefix is
// stripped, and surrounding single or double quotes are removed from the
// value.
func ParseEnv(text string) (map[string]any, error) {
	m := make(map[string]any)
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		idx := strings.Index(line, "=")
		if idx < 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		val := strings.TrimSpace(line[idx+1:])
		val = unquote(val)
		m[key] = val
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func unquote(v string) string {
	if len(v) >= 2 {
		if (v[0] == '"' && v[len(v)-1] == '"') || (v[0] == '\'' && v[len(v)-1] == '\'') {
			return v[1 : len(v)-1]
		}
	}
	return v
}
