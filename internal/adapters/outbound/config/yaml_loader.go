package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/phdsystems/stratify/internal/domain"
)

const fileName = ".stratify.yaml"

// YAMLLoader implements domain.ConfigLoader by reading .stratify.yaml.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads .stratify.yaml from projectPath. Returns the default config if
// the file does not exist; the project name falls back to the directory name.
func (l *YAMLLoader) Load(projectPath string) (domain.ProjectConfig, error) {
	data, err := os.ReadFile(filepath.Join(projectPath, fileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return withDefaults(domain.ProjectConfig{}, projectPath), nil
		}
		return domain.ProjectConfig{}, err
	}

	var cfg domain.ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("parsing %s: %w", fileName, err)
	}

	if err := cfg.Validate(); err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("invalid %s: %w", fileName, err)
	}

	return withDefaults(cfg, projectPath), nil
}

// withDefaults fills unset fields from the fallback configuration.
func withDefaults(cfg domain.ProjectConfig, projectPath string) domain.ProjectConfig {
	def := domain.DefaultConfig()

	if cfg.Namespace == "" {
		cfg.Namespace = def.Namespace
	}
	if cfg.Project == "" {
		if base := filepath.Base(projectPath); base != "." && base != string(filepath.Separator) {
			cfg.Project = base
		} else {
			cfg.Project = def.Project
		}
	}
	if cfg.BackupStrategy == "" {
		cfg.BackupStrategy = def.BackupStrategy
	}

	return cfg
}
