// Package scoutconfig loads the layered scan configuration: built-in
// defaults, then a global config file, then a repo-local config file
// found by walking up from the scan root, then CLI overrides.
package scoutconfig

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/secretscout/secretscout/internal/scouterrors"
	"github.com/secretscout/secretscout/internal/types"
)

var repoConfigFiles = []string{
	".secret-scout/config.yaml",
	".secret-scout/config.yml",
}

var globalConfigFiles = []string{
	"~/.config/secret-scout/config.yaml",
	"~/.config/secret-scout/config.yml",
	"~/.secret-scout/config.yaml",
	"~/.secret-scout/config.yml",
}

// fileLayer is the on-disk YAML shape; every field is optional so an
// absent key leaves the prior layer's value untouched.
type fileLayer struct {
	Scan struct {
		MaxFileBytes   *int64    `yaml:"max_file_bytes"`
		SkipDirs       *[]string `yaml:"skip_dirs"`
		IncludeIgnored *bool     `yaml:"include_ignored"`
		Deterministic  *bool     `yaml:"deterministic"`
		Redact         *bool     `yaml:"redact"`
	} `yaml:"scan"`
}

// Overrides carries CLI-supplied values; nil fields leave the merged
// config layer untouched.
type Overrides struct {
	MaxFileBytes   *int64
	SkipDirs       *[]string
	IncludeIgnored *bool
	Deterministic  *bool
	Redact         *bool
}

// Load resolves the full layered config for a scan rooted at startDir.
func Load(startDir string, overrides Overrides) (types.ScanConfig, error) {
	cfg := types.DefaultScanConfig()

	if p := findGlobalConfig(); p != "" {
		layer, err := readLayer(p)
		if err != nil {
			return cfg, err
		}
		applyLayer(&cfg, layer)
	}

	if p := findRepoConfig(startDir); p != "" {
		layer, err := readLayer(p)
		if err != nil {
			return cfg, err
		}
		applyLayer(&cfg, layer)
	}

	applyOverrides(&cfg, overrides)
	return cfg, nil
}

func readLayer(path string) (fileLayer, error) {
	var layer fileLayer
	raw, err := os.ReadFile(path)
	if err != nil {
		return layer, scouterrors.ConfigError("could not read config file", path+": "+err.Error())
	}
	if err := yaml.Unmarshal(raw, &layer); err != nil {
		return layer, scouterrors.ConfigError("config file is not valid YAML", path+": "+err.Error())
	}
	return layer, nil
}

func applyLayer(cfg *types.ScanConfig, layer fileLayer) {
	if layer.Scan.MaxFileBytes != nil {
		cfg.MaxFileBytes = *layer.Scan.MaxFileBytes
	}
	if layer.Scan.SkipDirs != nil {
		cfg.SkipDirs = *layer.Scan.SkipDirs
	}
	if layer.Scan.IncludeIgnored != nil {
		cfg.IncludeIgnored = *layer.Scan.IncludeIgnored
	}
	if layer.Scan.Deterministic != nil {
		cfg.Deterministic = *layer.Scan.Deterministic
	}
	if layer.Scan.Redact != nil {
		cfg.Redact = *layer.Scan.Redact
	}
}

func applyOverrides(cfg *types.ScanConfig, o Overrides) {
	if o.MaxFileBytes != nil {
		cfg.MaxFileBytes = *o.MaxFileBytes
	}
	if o.SkipDirs != nil {
		cfg.SkipDirs = *o.SkipDirs
	}
	if o.IncludeIgnored != nil {
		cfg.IncludeIgnored = *o.IncludeIgnored
	}
	if o.Deterministic != nil {
		cfg.Deterministic = *o.Deterministic
	}
	if o.Redact != nil {
		cfg.Redact = *o.Redact
	}
}

func findRepoConfig(startDir string) string {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return ""
	}
	for {
		for _, rel := range repoConfigFiles {
			p := filepath.Join(dir, rel)
			if isFile(p) {
				return p
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func findGlobalConfig() string {
	for _, s := range globalConfigFiles {
		p := expandHome(s)
		if isFile(p) {
			return p
		}
	}
	return ""
}

func isFile(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && !fi.IsDir()
}

func expandHome(p string) string {
	if len(p) >= 2 && p[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			return p
		}
		return filepath.Join(home, p[2:])
	}
	return p
}
