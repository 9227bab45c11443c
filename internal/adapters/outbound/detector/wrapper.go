package detector

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/phdsystems/stratify/internal/domain"
)

// WrapperChecklist is the fixed set of build-wrapper assets expected at the
// project root.
var WrapperChecklist = []string{
	"mvnw",
	"mvnw.cmd",
	filepath.Join(".mvn", "wrapper", "maven-wrapper.properties"),
}

// WrapperDetector flags a project root missing any of the wrapper assets.
type WrapperDetector struct {
	rootPath string
}

func NewWrapper(rootPath string) *WrapperDetector {
	return &WrapperDetector{rootPath: rootPath}
}

func (d *WrapperDetector) RuleID() string { return domain.RuleMissingMavenWrapper }

func (d *WrapperDetector) Detect(module domain.ModuleInfo) []domain.StructureViolation {
	if module.Path != d.rootPath {
		return nil
	}

	var missing []string
	for _, rel := range WrapperChecklist {
		if _, err := os.Stat(filepath.Join(d.rootPath, rel)); os.IsNotExist(err) {
			missing = append(missing, rel)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	return []domain.StructureViolation{{
		RuleID:       domain.RuleMissingMavenWrapper,
		Category:     domain.CategoryTooling,
		Severity:     domain.SeverityWarning,
		Message:      "build wrapper assets missing: " + strings.Join(missing, ", "),
		Location:     d.rootPath,
		Found:        "no wrapper for " + strings.Join(missing, ", "),
		Expected:     strings.Join(WrapperChecklist, ", "),
		SuggestedFix: "install the bundled wrapper assets",
		DocRef:       "docs/rules/missing-maven-wrapper.md",
	}}
}
