package application_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phdsystems/stratify/internal/adapters/outbound/config"
	"github.com/phdsystems/stratify/internal/adapters/outbound/detector"
	"github.com/phdsystems/stratify/internal/adapters/outbound/parser"
	"github.com/phdsystems/stratify/internal/adapters/outbound/scanner"
	"github.com/phdsystems/stratify/internal/application"
	"github.com/phdsystems/stratify/internal/domain"
	"github.com/phdsystems/stratify/internal/logging"
)

// stubGit satisfies domain.GitInfo with fixed responses.
type stubGit struct {
	isRepo bool
	hash   string
	clean  bool
}

func (g stubGit) IsGitRepo(string) bool          { return g.isRepo }
func (g stubGit) CommitHash(string) (string, error) { return g.hash, nil }
func (g stubGit) IsClean(string) (bool, error)   { return g.clean, nil }

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func allDetectors(rootPath string, mappings []domain.TypeMapping) []domain.RuleDetector {
	par := parser.New()
	return []domain.RuleDetector{
		detector.NewMissingAPI(),
		detector.NewMissingCore(),
		detector.NewFacadeReturn(par, mappings),
		detector.NewNullReturn(par),
		detector.NewWrapper(rootPath),
	}
}

func newCheckService() *application.CheckService {
	return application.NewCheckService(
		scanner.New(), config.New(), stubGit{isRepo: true, hash: "abc1234def", clean: true},
		allDetectors, logging.Nop(),
	)
}

func TestCheck_CleanProject(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"payments/pom.xml":               "<project><artifactId>payments</artifactId><packaging>pom</packaging></project>",
		"payments/payments-api/pom.xml":  "<project/>",
		"payments/payments-core/pom.xml": "<project/>",
	})

	report, err := newCheckService().Check(root)
	require.NoError(t, err)

	assert.Empty(t, report.Violations)
	assert.False(t, report.HasErrors())
	assert.Equal(t, "abc1234def", report.CommitHash)
	assert.Len(t, report.Modules, 1)
}

func TestCheck_FindsLayeringAndWrapperViolations(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"pom.xml":                        "<project><artifactId>platform</artifactId><packaging>pom</packaging></project>",
		"payments/pom.xml":               "<project><artifactId>payments</artifactId><packaging>pom</packaging></project>",
		"payments/payments-core/pom.xml": "<project/>",
	})

	report, err := newCheckService().Check(root)
	require.NoError(t, err)

	rules := map[string]int{}
	for _, v := range report.Violations {
		rules[v.RuleID]++
	}
	// The root aggregator carries neither layer submodule; payments lacks api.
	assert.Equal(t, 2, rules[domain.RuleMissingAPIModule])
	assert.Equal(t, 1, rules[domain.RuleMissingCoreModule])
	assert.Equal(t, 1, rules[domain.RuleMissingMavenWrapper], "wrapper missing at the root")
	assert.True(t, report.HasErrors())
	assert.Equal(t, 1, report.Counts[domain.SeverityWarning])
	assert.Equal(t, 3, report.Counts[domain.SeverityError])
}

func TestCheck_NullReturnInContractMethod(t *testing.T) {
	root := t.TempDir()
	source := `package com.acme.payments.core;

public class LayerFixer implements StructureFixer {
    public FixResult fix(Violation violation, FixContext context) {
        return null;
    }
}
`
	writeTree(t, root, map[string]string{
		"payments/pom.xml":               "<project><artifactId>payments</artifactId><packaging>pom</packaging></project>",
		"payments/payments-api/pom.xml":  "<project/>",
		"payments/payments-core/pom.xml": "<project/>",
		"payments/payments-core/src/main/java/LayerFixer.java": source,
	})

	report, err := newCheckService().Check(root)
	require.NoError(t, err)

	require.Len(t, report.Violations, 1)
	assert.Equal(t, domain.RuleNullContractReturn, report.Violations[0].RuleID)
	assert.Equal(t, 5, report.Violations[0].Line)
}

func TestCheck_HonorsExcludePaths(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".stratify.yaml":               "exclude_paths: [legacy]\n",
		"pom.xml":                      "<project><artifactId>platform</artifactId><packaging>pom</packaging></project>",
		"mvnw":                         "#!/bin/sh",
		"mvnw.cmd":                     "@echo off",
		".mvn/wrapper/maven-wrapper.properties": "distributionUrl=...",
		"legacy/pom.xml":               "<project><artifactId>legacy</artifactId><packaging>pom</packaging></project>",
		"legacy/sub/pom.xml":           "<project/>",
	})

	report, err := newCheckService().Check(root)
	require.NoError(t, err)

	assert.Len(t, report.Modules, 1)
	assert.Empty(t, report.Violations)
}
