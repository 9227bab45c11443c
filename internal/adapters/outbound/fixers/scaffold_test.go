package fixers_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phdsystems/stratify/internal/adapters/outbound/fixers"
	"github.com/phdsystems/stratify/internal/adapters/outbound/pom"
	"github.com/phdsystems/stratify/internal/domain"
)

const parentPomContent = `<?xml version="1.0" encoding="UTF-8"?>
<project>
    <groupId>com.acme.platform</groupId>
    <artifactId>payments</artifactId>
    <version>2.0.0</version>
    <packaging>pom</packaging>
    <modules>
        <module>payments-core</module>
    </modules>
</project>
`

func scaffoldContext() *domain.FixerContext {
	return &domain.FixerContext{Namespace: "com.acme", Project: "payments"}
}

func missingAPIViolation(moduleRoot string) domain.StructureViolation {
	return domain.StructureViolation{
		RuleID:   domain.RuleMissingAPIModule,
		Severity: domain.SeverityError,
		Message:  "module payments has submodules but no payments-api submodule",
		Location: moduleRoot,
	}
}

func newAggregator(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "payments")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "payments-core"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pom.xml"), []byte(parentPomContent), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "payments-core", "pom.xml"), []byte("<project/>"), 0o644))
	return dir
}

func TestScaffold_GeneratesAPISubmodule(t *testing.T) {
	dir := newAggregator(t)

	result := fixers.NewScaffold().Fix(missingAPIViolation(dir), scaffoldContext())

	require.Equal(t, domain.StatusFixed, result.Status)
	require.Len(t, result.ModifiedFiles, 3)

	newPom, err := pom.Read(filepath.Join(dir, "payments-api", "pom.xml"))
	require.NoError(t, err)
	assert.Equal(t, "payments-api", newPom.ArtifactID)
	assert.Equal(t, pom.PackagingJar, newPom.Packaging)
	assert.Equal(t, "payments", newPom.ParentArtifactID)
	assert.Equal(t, "2.0.0", newPom.Version)

	marker := filepath.Join(dir, "payments-api", "src", "main", "java",
		"com", "acme", "payments", "api", "package-info.java")
	data, err := os.ReadFile(marker)
	require.NoError(t, err)
	assert.Contains(t, string(data), "package com.acme.payments.api;")

	parent, err := pom.Read(filepath.Join(dir, "pom.xml"))
	require.NoError(t, err)
	assert.True(t, parent.HasModule("payments-api"))
	assert.True(t, parent.HasModule("payments-core"))
}

func TestScaffold_CoreSubmoduleDependsOnAPI(t *testing.T) {
	dir := newAggregator(t)
	v := domain.StructureViolation{
		RuleID:   domain.RuleMissingCoreModule,
		Message:  "module payments has submodules but no payments-core submodule",
		Location: dir,
	}
	require.NoError(t, os.RemoveAll(filepath.Join(dir, "payments-core")))

	result := fixers.NewScaffold().Fix(v, scaffoldContext())

	require.Equal(t, domain.StatusFixed, result.Status)
	data, err := os.ReadFile(filepath.Join(dir, "payments-core", "pom.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "<artifactId>payments-api</artifactId>")
}

func TestScaffold_ExistingSubmoduleSkips(t *testing.T) {
	dir := newAggregator(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "payments-api"), 0o755))

	result := fixers.NewScaffold().Fix(missingAPIViolation(dir), scaffoldContext())

	assert.Equal(t, domain.StatusSkipped, result.Status)
	assert.Equal(t, "payments-api already exists", result.Description)
	assert.False(t, result.Retryable)
}

func TestScaffold_NonAggregatorSkipsWithoutWriting(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tools")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pom.xml"),
		[]byte("<project><artifactId>tools</artifactId><packaging>jar</packaging></project>"), 0o644))

	v := missingAPIViolation(dir)
	result := fixers.NewScaffold().Fix(v, scaffoldContext())

	assert.Equal(t, domain.StatusSkipped, result.Status)
	assert.Contains(t, result.Description, "not a parent")
	assert.False(t, result.Retryable)

	_, err := os.Stat(filepath.Join(dir, "tools-api"))
	assert.True(t, os.IsNotExist(err))
}

func TestScaffold_DryRunWritesNothing(t *testing.T) {
	dir := newAggregator(t)
	ctx := scaffoldContext()
	ctx.DryRun = true

	result := fixers.NewScaffold().Fix(missingAPIViolation(dir), ctx)

	assert.Equal(t, domain.StatusDryRun, result.Status)
	assert.Empty(t, result.ModifiedFiles)
	assert.Len(t, result.Diffs, 3)

	_, err := os.Stat(filepath.Join(dir, "payments-api"))
	assert.True(t, os.IsNotExist(err))

	parent, err := pom.Read(filepath.Join(dir, "pom.xml"))
	require.NoError(t, err)
	assert.False(t, parent.HasModule("payments-api"))
}

func TestScaffold_MissingParentPomSkipsRetryable(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "ghost")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	result := fixers.NewScaffold().Fix(missingAPIViolation(dir), scaffoldContext())

	assert.Equal(t, domain.StatusSkipped, result.Status)
	assert.True(t, result.Retryable)
}

func TestScaffold_TargetFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "payments")
	targets := fixers.NewScaffold().TargetFiles(missingAPIViolation(dir), scaffoldContext())

	require.Len(t, targets, 3)
	assert.Equal(t, filepath.Join(dir, "pom.xml"), targets[0])
	assert.Equal(t, filepath.Join(dir, "payments-api", "pom.xml"), targets[1])
	assert.Contains(t, targets[2], "package-info.java")
}
