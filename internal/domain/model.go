package domain

import (
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// FixStatus is the outcome of a single fixer invocation.
type FixStatus string

const (
	StatusFixed   FixStatus = "FIXED"
	StatusSkipped FixStatus = "SKIPPED"
	StatusFailed  FixStatus = "FAILED"
	StatusDryRun  FixStatus = "DRY_RUN"
)

const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Rule identifiers. Each rule is detected independently; a rule may or may
// not have a fixer registered for it.
const (
	RuleNullContractReturn    = "null-contract-return"
	RuleMissingAPIModule      = "missing-api-module"
	RuleMissingCoreModule     = "missing-core-module"
	RuleFacadeReturnsCoreType = "facade-returns-core-type"
	RuleMissingMavenWrapper   = "missing-maven-wrapper"
)

// Rule categories group related rules for reporting.
const (
	CategoryContract  = "contract"
	CategoryLayering  = "layering"
	CategoryTooling   = "tooling"
)

// Layer roles recognized as submodule suffixes.
const (
	RoleAPI    = "api"
	RoleCore   = "core"
	RoleSPI    = "spi"
	RoleFacade = "facade"
)

// ModuleInfo describes one Maven module and which layer submodules it
// carries. Built once per scan from directory inspection; never mutated.
type ModuleInfo struct {
	Path          string `json:"path"`
	BaseName      string `json:"base_name"`
	HasAPI        bool   `json:"has_api"`
	HasCore       bool   `json:"has_core"`
	HasSPI        bool   `json:"has_spi"`
	HasFacade     bool   `json:"has_facade"`
	HasSubmodules bool   `json:"has_submodules"`
}

// SubmodulePath returns the directory of the role submodule, whether or not
// it exists on disk.
func (m ModuleInfo) SubmodulePath(role string) string {
	return filepath.Join(m.Path, m.BaseName+"-"+role)
}

// HasRole reports whether the submodule for the given layer role is present.
func (m ModuleInfo) HasRole(role string) bool {
	switch role {
	case RoleAPI:
		return m.HasAPI
	case RoleCore:
		return m.HasCore
	case RoleSPI:
		return m.HasSPI
	case RoleFacade:
		return m.HasFacade
	}
	return false
}

// SourceRoots resolves the module's Java source roots: the main module's
// source directory plus each present layer submodule's source directory.
func (m ModuleInfo) SourceRoots() []string {
	roots := []string{filepath.Join(m.Path, "src", "main", "java")}
	for _, role := range []string{RoleAPI, RoleCore, RoleSPI, RoleFacade} {
		if m.HasRole(role) {
			roots = append(roots, filepath.Join(m.SubmodulePath(role), "src", "main", "java"))
		}
	}
	return roots
}

// StructureViolation is a detected deviation from a layering rule.
// Created by detectors, consumed by fixers, never mutated.
type StructureViolation struct {
	RuleID       string `json:"rule_id"`
	Category     string `json:"category"`
	Severity     string `json:"severity"`
	Message      string `json:"message"`
	Location     string `json:"location"` // file or directory
	Line         int    `json:"line,omitempty"`
	Found        string `json:"found,omitempty"`
	Expected     string `json:"expected,omitempty"`
	SuggestedFix string `json:"suggested_fix,omitempty"`
	DocRef       string `json:"doc_ref,omitempty"`
}

// DiffPair is one removed/added line pair produced by a fix.
type DiffPair struct {
	Removed string `json:"removed,omitempty"`
	Added   string `json:"added,omitempty"`
}

// FixResult is the outcome of applying one fixer to one violation.
// ModifiedFiles is empty unless Status is FIXED, and a file appears there
// only if its post-fix content differs from its pre-fix content.
type FixResult struct {
	Violation     StructureViolation `json:"violation"`
	Status        FixStatus          `json:"status"`
	Description   string             `json:"description"`
	ModifiedFiles []string           `json:"modified_files,omitempty"`
	Diffs         []DiffPair         `json:"diffs,omitempty"`

	// Retryable marks a SKIPPED result caused by a resolution failure
	// rather than an already-satisfied state; the orchestrator may try a
	// reserve fixer for the same rule.
	Retryable bool `json:"retryable,omitempty"`
}

// FixerContext carries the shared, read-only inputs of one orchestrator run.
// Fixers must never mutate it.
type FixerContext struct {
	ProjectRoot string
	ModuleRoot  string
	DryRun      bool
	Log         *zap.SugaredLogger
	Namespace   string
	Project     string
	Mappings    []TypeMapping
}

// TypeMapping relates an implementation type in a core module to its public
// contract type in the sibling api module. Names are fully qualified.
type TypeMapping struct {
	CoreType string `json:"core_type"`
	APIType  string `json:"api_type"`

	// Inferred marks a mapping derived from naming convention rather than
	// the configured table; it has not been verified against real sources.
	Inferred bool `json:"inferred,omitempty"`
}

// CoreSimpleName returns the core type name without its package prefix.
func (t TypeMapping) CoreSimpleName() string { return simpleName(t.CoreType) }

// APISimpleName returns the api type name without its package prefix.
func (t TypeMapping) APISimpleName() string { return simpleName(t.APIType) }

func simpleName(qualified string) string {
	if i := strings.LastIndex(qualified, "."); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}

// RestoreResult reports the outcome of rolling back a single file.
type RestoreResult struct {
	TargetPath string `json:"target_path"`
	BackupPath string `json:"backup_path,omitempty"`
	Success    bool   `json:"success"`
	Message    string `json:"message,omitempty"`
}

// ScanResult holds the module index produced by scanning a project tree.
type ScanResult struct {
	RootPath string       `json:"root_path"`
	Modules  []ModuleInfo `json:"modules"`
}

// CheckReport is the aggregated output of a detection run.
type CheckReport struct {
	ProjectPath string               `json:"project_path"`
	CommitHash  string               `json:"commit_hash,omitempty"`
	Modules     []ModuleInfo         `json:"modules"`
	Violations  []StructureViolation `json:"violations"`
	Counts      map[string]int       `json:"counts"` // by severity
}

// HasErrors reports whether any error-severity violation was found.
func (r CheckReport) HasErrors() bool { return r.Counts[SeverityError] > 0 }

// FixReport aggregates one orchestrator run.
type FixReport struct {
	ProjectPath string            `json:"project_path"`
	DryRun      bool              `json:"dry_run"`
	Results     []FixResult       `json:"results"`
	Counts      map[FixStatus]int `json:"counts"`
	Abandoned   int               `json:"abandoned,omitempty"`
}

// HasFailures reports whether any fix ended in FAILED.
func (r FixReport) HasFailures() bool { return r.Counts[StatusFailed] > 0 }
