package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of an astracheck.yaml project config,
// following the teacher's convention of a thin YAML-tagged struct fed
// straight into yaml.Unmarshal (see builtins_yaml.go's use of yaml.v3
// elsewhere in the stack) rather than a hand-rolled parser.
type FileConfig struct {
	Root           string            `yaml:"root"`
	PythonVersion  string            `yaml:"pythonVersion"`
	PythonPlatform string            `yaml:"pythonPlatform"`
	ExtraPaths     []string          `yaml:"extraPaths"`
	TypeshedPath   string            `yaml:"typeshedPath"`
	TypingsPath    string            `yaml:"typingsPath"`
	Venv           string            `yaml:"venv"`
	VenvPath       string            `yaml:"venvPath"`
	Strict         []string          `yaml:"strict"`
	Ignore         []string          `yaml:"ignore"`
	Rules          map[string]string `yaml:"rules"` // "reportX" -> "error"|"warning"|"none"
}

// LoadFile reads an astracheck.yaml project config and layers it onto a
// fresh default Configuration rooted at root.
func LoadFile(path, root string) (*Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	cfg := NewDefault(root)
	if fc.Root != "" {
		cfg.Env.Root = fc.Root
	}
	if fc.PythonVersion != "" {
		major, minor, err := parseVersion(fc.PythonVersion)
		if err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		cfg.Env.PythonVersion = major<<8 | minor
	}
	if fc.PythonPlatform != "" {
		cfg.Env.PythonPlatform = Platform(fc.PythonPlatform)
	}
	cfg.Env.ExtraPaths = fc.ExtraPaths
	cfg.Env.TypeshedPath = fc.TypeshedPath
	cfg.Env.TypingsPath = fc.TypingsPath
	cfg.Env.Venv = fc.Venv
	cfg.Env.VenvPath = fc.VenvPath
	cfg.Strict = fc.Strict
	cfg.Ignore = fc.Ignore

	for name, value := range fc.Rules {
		rule := DiagnosticRule(name)
		level, ok := ParseDiagnosticLevel(value)
		if !ok {
			return nil, fmt.Errorf("config file %s: rule %q has unrecognized level %q", path, name, value)
		}
		cfg.SetRuleLevel(rule, level)
	}
	return cfg, nil
}

// parseVersion parses a "major.minor" string, e.g. "3.11".
func parseVersion(s string) (major, minor int, err error) {
	if _, err := fmt.Sscanf(s, "%d.%d", &major, &minor); err != nil {
		return 0, 0, fmt.Errorf("invalid pythonVersion %q: %w", s, err)
	}
	return major, minor, nil
}
