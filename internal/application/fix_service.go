package application

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/phdsystems/stratify/internal/domain"
)

// FixOptions controls one remediation run.
type FixOptions struct {
	DryRun bool
	// Rules restricts fixing to the listed rule ids; empty means all.
	Rules []string
	// MaxFailures abandons remaining violations once this many fixes have
	// FAILED; zero means never abandon.
	MaxFailures int
	// AllowDirty skips the clean-worktree guard.
	AllowDirty bool
}

const fixParallelism = 4

// FixService is the remediation orchestrator. It groups violations by rule,
// dispatches the highest-priority applicable fixer, and brackets every
// mutating invocation with a backup so a failed fix never leaves the tree
// half-changed.
type FixService struct {
	registry domain.FixerRegistry
	backup   domain.BackupStrategy
	git      domain.GitInfo
	log      *zap.SugaredLogger
}

func NewFixService(
	registry domain.FixerRegistry,
	backup domain.BackupStrategy,
	git domain.GitInfo,
	log *zap.SugaredLogger,
) *FixService {
	return &FixService{registry: registry, backup: backup, git: git, log: log}
}

// unit is one violation scheduled for fixing together with its dispatch
// order position and the union of every applicable fixer's target files.
type unit struct {
	index     int
	violation domain.StructureViolation
	fixers    []domain.Fixer
	targets   []string
	global    bool // unknown target set: serialize against everything
}

// Apply fixes the given violations against projectPath. Every violation
// terminates in exactly one well-formed FixResult; no fixer fault crosses
// this boundary.
func (s *FixService) Apply(
	projectPath string,
	cfg domain.ProjectConfig,
	violations []domain.StructureViolation,
	opts FixOptions,
) (*domain.FixReport, error) {
	if !opts.DryRun && !opts.AllowDirty && s.git != nil && s.git.IsGitRepo(projectPath) {
		clean, err := s.git.IsClean(projectPath)
		if err == nil && !clean {
			return nil, fmt.Errorf("worktree has uncommitted changes; commit them or pass --allow-dirty")
		}
	}

	selected := filterByRules(violations, opts.Rules)

	report := &domain.FixReport{
		ProjectPath: projectPath,
		DryRun:      opts.DryRun,
		Counts:      map[domain.FixStatus]int{},
	}

	units := s.plan(projectPath, cfg, selected)
	results := make([]domain.FixResult, len(units))

	var (
		mu       sync.Mutex
		failures int
	)
	abandoned := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return opts.MaxFailures > 0 && failures >= opts.MaxFailures
	}

	g := errgroup.Group{}
	g.SetLimit(fixParallelism)
	for _, batch := range schedule(units) {
		g.Go(func() error {
			for _, u := range batch {
				if abandoned() {
					mu.Lock()
					report.Abandoned++
					mu.Unlock()
					continue
				}

				ctx := s.contextFor(projectPath, cfg, u.violation, opts.DryRun)
				res := s.fixOne(u, ctx)
				results[u.index] = res

				mu.Lock()
				if res.Status == domain.StatusFailed {
					failures++
				}
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, res := range results {
		if res.Status == "" {
			continue // abandoned before dispatch
		}
		report.Results = append(report.Results, res)
		report.Counts[res.Status]++
	}
	return report, nil
}

// plan resolves each violation's applicable fixers and target file union.
func (s *FixService) plan(projectPath string, cfg domain.ProjectConfig, violations []domain.StructureViolation) []unit {
	units := make([]unit, 0, len(violations))
	for i, v := range violations {
		u := unit{index: i, violation: v, fixers: s.registry.For(v)}

		ctx := s.contextFor(projectPath, cfg, v, true)
		seen := map[string]bool{}
		for _, f := range u.fixers {
			targets := f.TargetFiles(v, ctx)
			if len(targets) == 0 {
				u.global = true
				continue
			}
			for _, t := range targets {
				if !seen[t] {
					seen[t] = true
					u.targets = append(u.targets, t)
				}
			}
		}
		if len(u.fixers) > 0 && len(u.targets) == 0 {
			u.global = true
		}
		units = append(units, u)
	}
	return units
}

// schedule partitions units into batches that may run concurrently: two
// units whose target sets intersect land in the same batch and run in
// order; a unit with an unknown target set forces a single serial batch.
func schedule(units []unit) [][]unit {
	for _, u := range units {
		if u.global {
			return [][]unit{units}
		}
	}

	// Union-find over target files.
	parent := map[int]int{}
	var find func(int) int
	find = func(x int) int {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}
	union := func(a, b int) { parent[find(a)] = find(b) }

	fileOwner := map[string]int{}
	for i := range units {
		parent[i] = i
		for _, t := range units[i].targets {
			if owner, ok := fileOwner[t]; ok {
				union(i, owner)
			} else {
				fileOwner[t] = i
			}
		}
	}

	grouped := map[int][]unit{}
	var roots []int
	for i, u := range units {
		root := find(i)
		if _, ok := grouped[root]; !ok {
			roots = append(roots, root)
		}
		grouped[root] = append(grouped[root], u)
	}

	batches := make([][]unit, 0, len(roots))
	for _, root := range roots {
		batches = append(batches, grouped[root])
	}
	return batches
}

// fixOne applies the first applicable fixer inside a backup bracket,
// falling through to reserve fixers only on a retryable skip.
func (s *FixService) fixOne(u unit, ctx *domain.FixerContext) domain.FixResult {
	v := u.violation
	if len(u.fixers) == 0 {
		return domain.FixResult{
			Violation:   v,
			Status:      domain.StatusSkipped,
			Description: fmt.Sprintf("no fixer registered for rule %s", v.RuleID),
		}
	}

	for i, fixer := range u.fixers {
		targets := fixer.TargetFiles(v, ctx)

		var handle domain.BackupHandle
		if !ctx.DryRun && len(targets) > 0 {
			h, err := s.backup.Backup(targets, ctx.ProjectRoot)
			if err != nil {
				return domain.FixResult{
					Violation:   v,
					Status:      domain.StatusFailed,
					Description: fmt.Sprintf("backup before %s: %v", fixer.Name(), err),
				}
			}
			handle = h
		}

		res := s.invoke(fixer, v, ctx)

		if res.Status == domain.StatusFailed {
			if handle != "" {
				restored := s.backup.Rollback(handle, targets, ctx.ProjectRoot)
				for _, r := range restored {
					if !r.Success && s.log != nil {
						s.log.Warnw("rollback incomplete", "file", r.TargetPath, "reason", r.Message)
					}
				}
			}
			return res
		}

		if handle != "" {
			_ = s.backup.Cleanup(handle, targets, ctx.ProjectRoot)
		}

		if res.Status == domain.StatusSkipped && res.Retryable && i < len(u.fixers)-1 {
			if s.log != nil {
				s.log.Debugw("trying reserve fixer", "rule", v.RuleID, "skipped", fixer.Name())
			}
			continue
		}
		return res
	}

	// Unreachable: the last iteration always returns.
	return domain.FixResult{Violation: v, Status: domain.StatusSkipped}
}

// invoke calls the fixer, converting a panic into a FAILED result so no
// fault crosses the orchestrator boundary.
func (s *FixService) invoke(fixer domain.Fixer, v domain.StructureViolation, ctx *domain.FixerContext) (res domain.FixResult) {
	defer func() {
		if r := recover(); r != nil {
			res = domain.FixResult{
				Violation:   v,
				Status:      domain.StatusFailed,
				Description: fmt.Sprintf("%s panicked: %v", fixer.Name(), r),
			}
		}
	}()
	return fixer.Fix(v, ctx)
}

// contextFor builds the per-invocation context. Each invocation gets its
// own copy so fixers can rely on it never changing underneath them.
func (s *FixService) contextFor(projectPath string, cfg domain.ProjectConfig, v domain.StructureViolation, dryRun bool) *domain.FixerContext {
	return &domain.FixerContext{
		ProjectRoot: projectPath,
		ModuleRoot:  moduleRootFor(v.Location, projectPath),
		DryRun:      dryRun,
		Log:         s.log,
		Namespace:   cfg.Namespace,
		Project:     cfg.Project,
		Mappings:    cfg.Mappings(),
	}
}

// moduleRootFor walks up from a violation location to the nearest directory
// carrying a module descriptor, stopping at the project root.
func moduleRootFor(location, projectRoot string) string {
	dir := location
	if info, err := os.Stat(location); err != nil || !info.IsDir() {
		dir = filepath.Dir(location)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "pom.xml")); err == nil {
			return dir
		}
		if dir == projectRoot || dir == filepath.Dir(dir) {
			return projectRoot
		}
		dir = filepath.Dir(dir)
	}
}

func filterByRules(violations []domain.StructureViolation, rules []string) []domain.StructureViolation {
	if len(rules) == 0 {
		return violations
	}
	want := make(map[string]bool, len(rules))
	for _, r := range rules {
		want[r] = true
	}
	var out []domain.StructureViolation
	for _, v := range violations {
		if want[v.RuleID] {
			out = append(out, v)
		}
	}
	return out
}
