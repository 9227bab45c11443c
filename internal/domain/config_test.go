package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phdsystems/stratify/internal/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := domain.DefaultConfig()

	assert.Equal(t, domain.DefaultNamespace, cfg.Namespace)
	assert.Equal(t, domain.DefaultProject, cfg.Project)
	assert.Equal(t, "copy", cfg.BackupStrategy)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate_Namespace(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.Namespace = "com.acme.platform"
	assert.NoError(t, cfg.Validate())

	cfg.Namespace = "Com.Acme"
	assert.Error(t, cfg.Validate())

	cfg.Namespace = "singleword"
	assert.Error(t, cfg.Validate())

	cfg.Namespace = ""
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate_MaxFailures(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.MaxFailures = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_failures")
}

func TestConfig_Validate_BackupStrategy(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.BackupStrategy = "memory"
	assert.NoError(t, cfg.Validate())

	cfg.BackupStrategy = "tape"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backup_strategy")
}

func TestConfig_Validate_TypeMappings(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.TypeMappings = map[string]string{"com.acme.core.DefaultFoo": ""}

	assert.Error(t, cfg.Validate())
}

func TestConfig_Mappings(t *testing.T) {
	cfg := domain.ProjectConfig{TypeMappings: map[string]string{
		"com.acme.core.DefaultFoo": "com.acme.api.Foo",
	}}

	mappings := cfg.Mappings()
	require.Len(t, mappings, 1)
	assert.Equal(t, "com.acme.core.DefaultFoo", mappings[0].CoreType)
	assert.Equal(t, "com.acme.api.Foo", mappings[0].APIType)
	assert.False(t, mappings[0].Inferred)
}

func TestConfig_Mappings_Empty(t *testing.T) {
	assert.Nil(t, domain.ProjectConfig{}.Mappings())
}
