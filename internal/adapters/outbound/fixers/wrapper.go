package fixers

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/phdsystems/stratify/internal/adapters/outbound/detector"
	"github.com/phdsystems/stratify/internal/domain"
)

//go:embed templates
var wrapperTemplates embed.FS

var templateNames = map[string]string{
	"mvnw":     "templates/mvnw",
	"mvnw.cmd": "templates/mvnw.cmd",
	filepath.Join(".mvn", "wrapper", "maven-wrapper.properties"): "templates/maven-wrapper.properties",
}

// executableAssets lists checklist entries that get the executable bit on
// platforms that support one.
var executableAssets = map[string]bool{"mvnw": true}

// WrapperFixer copies the bundled build-wrapper assets to the project root,
// touching only destinations that do not already exist.
type WrapperFixer struct{}

func NewWrapper() *WrapperFixer { return &WrapperFixer{} }

func (f *WrapperFixer) Name() string { return "wrapper-install" }

func (f *WrapperFixer) Description() string {
	return "Installs the bundled Maven wrapper assets"
}

func (f *WrapperFixer) Priority() int { return 30 }

func (f *WrapperFixer) SupportedRules() []string {
	return []string{domain.RuleMissingMavenWrapper}
}

func (f *WrapperFixer) CanFix(v domain.StructureViolation) bool {
	return supportsRule(f, v.RuleID)
}

func (f *WrapperFixer) TargetFiles(v domain.StructureViolation, ctx *domain.FixerContext) []string {
	targets := make([]string, 0, len(detector.WrapperChecklist))
	for _, rel := range detector.WrapperChecklist {
		targets = append(targets, filepath.Join(v.Location, rel))
	}
	return targets
}

func (f *WrapperFixer) Fix(v domain.StructureViolation, ctx *domain.FixerContext) domain.FixResult {
	root := v.Location

	var missing []string
	for _, rel := range detector.WrapperChecklist {
		if _, err := os.Stat(filepath.Join(root, rel)); os.IsNotExist(err) {
			missing = append(missing, rel)
		}
	}
	if len(missing) == 0 {
		return domain.FixResult{
			Violation:   v,
			Status:      domain.StatusSkipped,
			Description: "wrapper assets already exist",
		}
	}

	diffs := make([]domain.DiffPair, 0, len(missing))
	for _, rel := range missing {
		diffs = append(diffs, domain.DiffPair{Added: "create " + filepath.Join(root, rel)})
	}
	desc := fmt.Sprintf("installed %d wrapper asset(s)", len(missing))

	if ctx.DryRun {
		return domain.FixResult{
			Violation:   v,
			Status:      domain.StatusDryRun,
			Description: desc,
			Diffs:       diffs,
		}
	}

	var created []string
	for _, rel := range missing {
		dst := filepath.Join(root, rel)
		data, err := wrapperTemplates.ReadFile(templateNames[rel])
		if err != nil {
			return wrapperFailure(v, err)
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return wrapperFailure(v, err)
		}
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return wrapperFailure(v, err)
		}
		if executableAssets[rel] && runtime.GOOS != "windows" {
			_ = os.Chmod(dst, 0o755) // best effort, unsupported platforms skip
		}
		created = append(created, dst)
	}
	if ctx.Log != nil {
		ctx.Log.Debugw("installed wrapper assets", "files", created)
	}

	return domain.FixResult{
		Violation:     v,
		Status:        domain.StatusFixed,
		Description:   desc,
		ModifiedFiles: created,
		Diffs:         diffs,
	}
}

func wrapperFailure(v domain.StructureViolation, err error) domain.FixResult {
	return domain.FixResult{
		Violation:   v,
		Status:      domain.StatusFailed,
		Description: fmt.Sprintf("installing wrapper assets: %v", err),
	}
}
