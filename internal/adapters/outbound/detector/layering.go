package detector

import (
	"fmt"
	"path/filepath"

	"github.com/phdsystems/stratify/internal/adapters/outbound/pom"
	"github.com/phdsystems/stratify/internal/domain"
)

// LayeringDetector flags aggregator modules missing their api or core
// submodule. Leaf modules are left alone: only aggregators may gain
// submodules.
type LayeringDetector struct {
	ruleID string
	role   string
}

func NewMissingAPI() *LayeringDetector {
	return &LayeringDetector{ruleID: domain.RuleMissingAPIModule, role: domain.RoleAPI}
}

func NewMissingCore() *LayeringDetector {
	return &LayeringDetector{ruleID: domain.RuleMissingCoreModule, role: domain.RoleCore}
}

func (d *LayeringDetector) RuleID() string { return d.ruleID }

func (d *LayeringDetector) Detect(module domain.ModuleInfo) []domain.StructureViolation {
	if !module.HasSubmodules || module.HasRole(d.role) {
		return nil
	}

	desc, err := pom.Read(filepath.Join(module.Path, "pom.xml"))
	if err != nil || desc.Packaging != pom.PackagingAggregator {
		return nil
	}

	expected := module.BaseName + "-" + d.role
	return []domain.StructureViolation{{
		RuleID:   d.ruleID,
		Category: domain.CategoryLayering,
		Severity: domain.SeverityError,
		Message:  fmt.Sprintf("module %s has submodules but no %s submodule", module.BaseName, expected),
		Location: module.Path,
		Found:    "no " + expected + " directory",
		Expected: expected + "/ with its own descriptor",
		SuggestedFix: fmt.Sprintf("generate %s with parent %s and %s packaging",
			expected, module.BaseName, pom.PackagingJar),
		DocRef: "docs/rules/" + d.ruleID + ".md",
	}}
}
