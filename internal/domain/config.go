package domain

import (
	"fmt"
	"regexp"
)

// Fallbacks used when no .stratify.yaml is present.
const (
	DefaultNamespace = "com.phdsystems"
	DefaultProject   = "platform"
)

// ValidBackupStrategies enumerates registered backup strategy names.
var ValidBackupStrategies = []string{"copy", "memory"}

// ProjectConfig holds project-level configuration loaded from .stratify.yaml.
type ProjectConfig struct {
	Namespace      string            `yaml:"namespace"       json:"namespace,omitempty"`
	Project        string            `yaml:"project"         json:"project,omitempty"`
	TypeMappings   map[string]string `yaml:"type_mappings"   json:"type_mappings,omitempty"` // core FQN -> api FQN
	ExcludePaths   []string          `yaml:"exclude_paths"   json:"exclude_paths,omitempty"`
	MaxFailures    int               `yaml:"max_failures"    json:"max_failures,omitempty"`
	BackupStrategy string            `yaml:"backup_strategy" json:"backup_strategy,omitempty"`
}

// DefaultConfig returns the fallback configuration.
func DefaultConfig() ProjectConfig {
	return ProjectConfig{
		Namespace:      DefaultNamespace,
		Project:        DefaultProject,
		BackupStrategy: "copy",
	}
}

// Mappings converts the configured table into TypeMapping values.
func (c ProjectConfig) Mappings() []TypeMapping {
	if len(c.TypeMappings) == 0 {
		return nil
	}
	out := make([]TypeMapping, 0, len(c.TypeMappings))
	for core, api := range c.TypeMappings {
		out = append(out, TypeMapping{CoreType: core, APIType: api})
	}
	return out
}

var namespaceRe = regexp.MustCompile(`^[a-z][a-z0-9]*(\.[a-z][a-z0-9]*)+$`)

// Validate checks the config for invalid values and returns a descriptive error.
func (c ProjectConfig) Validate() error {
	if c.Namespace != "" && !namespaceRe.MatchString(c.Namespace) {
		return fmt.Errorf("invalid namespace %q (expected dotted lowercase, e.g. com.phdsystems)", c.Namespace)
	}

	if c.MaxFailures < 0 {
		return fmt.Errorf("max_failures must be >= 0 (got %d)", c.MaxFailures)
	}

	if c.BackupStrategy != "" {
		valid := false
		for _, s := range ValidBackupStrategies {
			if c.BackupStrategy == s {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("unknown backup_strategy %q (valid: copy, memory)", c.BackupStrategy)
		}
	}

	for core, api := range c.TypeMappings {
		if core == "" || api == "" {
			return fmt.Errorf("type_mappings entries must map a core type to an api type")
		}
	}

	return nil
}
