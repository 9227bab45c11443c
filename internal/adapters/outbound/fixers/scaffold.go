package fixers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/phdsystems/stratify/internal/adapters/outbound/pom"
	"github.com/phdsystems/stratify/internal/domain"
)

// ScaffoldFixer generates a missing api or core submodule under an
// aggregator module: descriptor, package directory and namespace marker,
// plus the parent's module-list entry.
type ScaffoldFixer struct{}

func NewScaffold() *ScaffoldFixer { return &ScaffoldFixer{} }

func (f *ScaffoldFixer) Name() string { return "scaffold" }

func (f *ScaffoldFixer) Description() string {
	return "Generates missing api/core submodule skeletons"
}

func (f *ScaffoldFixer) Priority() int { return 40 }

func (f *ScaffoldFixer) SupportedRules() []string {
	return []string{domain.RuleMissingAPIModule, domain.RuleMissingCoreModule}
}

func (f *ScaffoldFixer) CanFix(v domain.StructureViolation) bool {
	return supportsRule(f, v.RuleID)
}

func roleForRule(ruleID string) string {
	if ruleID == domain.RuleMissingCoreModule {
		return domain.RoleCore
	}
	return domain.RoleAPI
}

func (f *ScaffoldFixer) TargetFiles(v domain.StructureViolation, ctx *domain.FixerContext) []string {
	moduleRoot := v.Location
	role := roleForRule(v.RuleID)
	base := filepath.Base(moduleRoot)
	newDir := filepath.Join(moduleRoot, base+"-"+role)
	return []string{
		filepath.Join(moduleRoot, "pom.xml"),
		filepath.Join(newDir, "pom.xml"),
		markerPath(newDir, ctx, role),
	}
}

func (f *ScaffoldFixer) Fix(v domain.StructureViolation, ctx *domain.FixerContext) domain.FixResult {
	moduleRoot := v.Location
	role := roleForRule(v.RuleID)
	base := filepath.Base(moduleRoot)
	newName := base + "-" + role
	newDir := filepath.Join(moduleRoot, newName)
	parentPom := filepath.Join(moduleRoot, "pom.xml")

	parent, err := pom.Read(parentPom)
	if err != nil {
		return skipRetryable(v, fmt.Sprintf("cannot read parent descriptor: %v", err))
	}
	if parent.Packaging != pom.PackagingAggregator {
		return domain.FixResult{
			Violation: v,
			Status:    domain.StatusSkipped,
			Description: fmt.Sprintf("not a parent: %s packaging is %q, only %q modules may gain submodules",
				base, parent.Packaging, pom.PackagingAggregator),
		}
	}
	if _, err := os.Stat(newDir); err == nil {
		return domain.FixResult{
			Violation:   v,
			Status:      domain.StatusSkipped,
			Description: newName + " already exists",
		}
	}

	newPom := filepath.Join(newDir, "pom.xml")
	marker := markerPath(newDir, ctx, role)
	pomContent := renderModulePom(parent, base, newName, role)
	markerContent := renderMarker(packageName(ctx, role), role)

	diffs := []domain.DiffPair{
		{Added: "create " + newPom},
		{Added: "create " + marker},
		{Added: fmt.Sprintf("append <module>%s</module> to %s", newName, parentPom)},
	}
	desc := fmt.Sprintf("generated %s submodule under %s", newName, base)

	if ctx.DryRun {
		return domain.FixResult{
			Violation:   v,
			Status:      domain.StatusDryRun,
			Description: desc,
			Diffs:       diffs,
		}
	}

	if err := os.MkdirAll(filepath.Dir(marker), 0o755); err != nil {
		return scaffoldFailure(v, err)
	}
	if err := os.WriteFile(newPom, []byte(pomContent), 0o644); err != nil {
		return scaffoldFailure(v, err)
	}
	if err := os.WriteFile(marker, []byte(markerContent), 0o644); err != nil {
		return scaffoldFailure(v, err)
	}
	if err := pom.AppendModule(parentPom, newName); err != nil {
		return scaffoldFailure(v, err)
	}
	if ctx.Log != nil {
		ctx.Log.Debugw("scaffolded submodule", "module", newName, "role", role)
	}

	return domain.FixResult{
		Violation:     v,
		Status:        domain.StatusFixed,
		Description:   desc,
		ModifiedFiles: []string{newPom, marker, parentPom},
		Diffs:         diffs,
	}
}

func scaffoldFailure(v domain.StructureViolation, err error) domain.FixResult {
	return domain.FixResult{
		Violation:   v,
		Status:      domain.StatusFailed,
		Description: fmt.Sprintf("scaffolding failed: %v", err),
	}
}

// packageName derives the layer's base package from namespace + project + role.
func packageName(ctx *domain.FixerContext, role string) string {
	project := strings.ToLower(strings.ReplaceAll(ctx.Project, "-", ""))
	if project == "" {
		project = domain.DefaultProject
	}
	ns := ctx.Namespace
	if ns == "" {
		ns = domain.DefaultNamespace
	}
	return ns + "." + project + "." + role
}

func markerPath(moduleDir string, ctx *domain.FixerContext, role string) string {
	pkgPath := strings.ReplaceAll(packageName(ctx, role), ".", string(filepath.Separator))
	return filepath.Join(moduleDir, "src", "main", "java", pkgPath, "package-info.java")
}

var layerDocs = map[string]string{
	domain.RoleAPI:    "Public contracts of this module. Depend on this layer from anywhere.",
	domain.RoleCore:   "Implementations of the api contracts. Never depend on this layer directly.",
	domain.RoleSPI:    "Provider extension points. Implement these to plug in alternative behavior.",
	domain.RoleFacade: "Unified entry points combining api and spi into a single surface.",
}

func renderMarker(pkg, role string) string {
	doc, ok := layerDocs[role]
	if !ok {
		doc = "Module layer package."
	}
	return fmt.Sprintf("/**\n * %s\n */\npackage %s;\n", doc, pkg)
}

func renderModulePom(parent pom.Descriptor, base, newName, role string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<project xmlns="http://maven.apache.org/POM/4.0.0"` + "\n")
	b.WriteString(`         xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"` + "\n")
	b.WriteString(`         xsi:schemaLocation="http://maven.apache.org/POM/4.0.0 http://maven.apache.org/xsd/maven-4.0.0.xsd">` + "\n")
	b.WriteString("    <modelVersion>4.0.0</modelVersion>\n\n")

	b.WriteString("    <parent>\n")
	fmt.Fprintf(&b, "        <groupId>%s</groupId>\n", parent.GroupID)
	fmt.Fprintf(&b, "        <artifactId>%s</artifactId>\n", parent.ArtifactID)
	fmt.Fprintf(&b, "        <version>%s</version>\n", parent.Version)
	b.WriteString("    </parent>\n\n")

	fmt.Fprintf(&b, "    <artifactId>%s</artifactId>\n", newName)
	fmt.Fprintf(&b, "    <packaging>%s</packaging>\n\n", pom.PackagingJar)
	fmt.Fprintf(&b, "    <name>%s</name>\n", newName)
	fmt.Fprintf(&b, "    <description>Generated %s layer for %s</description>\n", role, base)

	if role == domain.RoleCore {
		b.WriteString("\n    <dependencies>\n")
		b.WriteString("        <dependency>\n")
		fmt.Fprintf(&b, "            <groupId>%s</groupId>\n", parent.GroupID)
		fmt.Fprintf(&b, "            <artifactId>%s-%s</artifactId>\n", base, domain.RoleAPI)
		fmt.Fprintf(&b, "            <version>%s</version>\n", parent.Version)
		b.WriteString("        </dependency>\n")
		b.WriteString("    </dependencies>\n")
	}

	b.WriteString("</project>\n")
	return b.String()
}
