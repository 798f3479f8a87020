// Package rules loads, validates, and merges rule packs into the
// evaluation-ready RuleSet consumed by the policy evaluator.
package rules

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/secretscout/secretscout/internal/scouterrors"
	"github.com/secretscout/secretscout/internal/types"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// packDocument mirrors the on-disk rule pack YAML shape, including its
// metadata block.
type packDocument struct {
	Metadata struct {
		Name        string `yaml:"name"`
		Version     string `yaml:"version"`
		Description string `yaml:"description"`
	} `yaml:"metadata"`
	Rules []types.Rule `yaml:"rules"`
}

func decodeAndValidate(raw []byte, source string) (types.RulePack, error) {
	var generic any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return types.RulePack{}, scouterrors.RulesError("rule pack is not valid YAML", fmt.Sprintf("%s: %v", source, err))
	}
	if generic == nil {
		generic = map[string]any{}
	}
	if m, ok := generic.(map[string]any); ok && m["rules"] == nil {
		m["rules"] = []any{}
	}

	if err := validateAgainstSchema(generic, source); err != nil {
		return types.RulePack{}, scouterrors.RulesError("rule pack failed schema validation", err.Error())
	}

	var doc packDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return types.RulePack{}, scouterrors.RulesError("rule pack could not be decoded", fmt.Sprintf("%s: %v", source, err))
	}
	if doc.Rules == nil {
		doc.Rules = []types.Rule{}
	}

	pack := types.RulePack{
		Name:        doc.Metadata.Name,
		Version:     doc.Metadata.Version,
		Description: doc.Metadata.Description,
		Source:      source,
		Rules:       doc.Rules,
	}
	if err := ValidatePack(pack); err != nil {
		return types.RulePack{}, err
	}
	return pack, nil
}

// LoadFromPath reads and validates a rule pack YAML file.
func LoadFromPath(path string) (types.RulePack, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return types.RulePack{}, scouterrors.RulesError("could not read rule pack", fmt.Sprintf("%s: %v", path, err))
	}
	return decodeAndValidate(raw, path)
}

// LoadBuiltin loads the named built-in rule pack embedded in the binary.
func LoadBuiltin(name string) (types.RulePack, error) {
	raw, err := builtinFS.ReadFile(filepath.Join("builtin", name+".yaml"))
	if err != nil {
		return types.RulePack{}, scouterrors.RulesError("unknown builtin rule pack", name)
	}
	return decodeAndValidate(raw, "builtin:"+name)
}
