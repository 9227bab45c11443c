package domain

// RuleDetector scans a module and reports violations of one rule.
// Detect never fails: a file that cannot be read or parsed is skipped and
// the scan continues.
type RuleDetector interface {
	RuleID() string
	Detect(module ModuleInfo) []StructureViolation
}

// Fixer resolves violations for one or more rule ids.
// Fix must be idempotent: applying it twice with no intervening change
// yields FIXED (or DRY_RUN) then SKIPPED. A fixer either replaces a target
// file in full or leaves it untouched.
type Fixer interface {
	Name() string
	Description() string
	// Priority orders fixers when several support the same rule; higher
	// runs first.
	Priority() int
	SupportedRules() []string
	CanFix(v StructureViolation) bool
	// TargetFiles lists every file the fixer might touch for this
	// violation, so the orchestrator can snapshot them before mutation.
	TargetFiles(v StructureViolation, ctx *FixerContext) []string
	Fix(v StructureViolation, ctx *FixerContext) FixResult
}

// BackupHandle identifies one snapshot held by a backup strategy.
type BackupHandle string

// BackupStrategy snapshots and restores file content around a mutation.
// Files that do not exist at backup time are recorded as absent and deleted
// on rollback.
type BackupStrategy interface {
	Name() string
	Backup(files []string, projectRoot string) (BackupHandle, error)
	Rollback(handle BackupHandle, files []string, projectRoot string) []RestoreResult
	Cleanup(handle BackupHandle, files []string, projectRoot string) error
}

// FixerRegistry resolves the fixers able to handle a violation, highest
// priority first.
type FixerRegistry interface {
	For(v StructureViolation) []Fixer
}

// GitInfo reports repository state for commit stamping and the dirty-tree
// guard.
type GitInfo interface {
	IsGitRepo(projectPath string) bool
	CommitHash(projectPath string) (string, error)
	IsClean(projectPath string) (bool, error)
}

// ConfigLoader resolves the project configuration.
type ConfigLoader interface {
	Load(projectPath string) (ProjectConfig, error)
}

// ProjectScanner builds the module index for a project tree.
type ProjectScanner interface {
	Scan(projectPath string, excludePaths ...string) (*ScanResult, error)
}
