// Package fixers holds the concrete remediation strategies and their
// registry. Fixers mutate nothing outside their declared target files and
// either replace a file in full or leave it untouched; the orchestrator
// brackets every invocation with a backup.
package fixers

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/phdsystems/stratify/internal/adapters/outbound/scanner"
	"github.com/phdsystems/stratify/internal/domain"
)

// SourcePatchFixer rewrites method signatures whose return type is a core
// implementation type to use the mapped api contract type, then reconciles
// the file's imports. The transform is textual and approximate; it sits
// behind the Fixer port so a parse-tree strategy can replace it without
// touching the orchestrator.
type SourcePatchFixer struct{}

func NewSourcePatch() *SourcePatchFixer { return &SourcePatchFixer{} }

func (f *SourcePatchFixer) Name() string { return "source-patch" }

func (f *SourcePatchFixer) Description() string {
	return "Rewrites facade method signatures to return api contract types"
}

func (f *SourcePatchFixer) Priority() int { return 50 }

func (f *SourcePatchFixer) SupportedRules() []string {
	return []string{domain.RuleFacadeReturnsCoreType}
}

func (f *SourcePatchFixer) CanFix(v domain.StructureViolation) bool {
	return supportsRule(f, v.RuleID)
}

func (f *SourcePatchFixer) TargetFiles(v domain.StructureViolation, ctx *domain.FixerContext) []string {
	if file, ok := resolveSourceFile(v.Location); ok {
		return []string{file}
	}
	return nil
}

var (
	// Captures: indent, modifier tokens, return-type token, remainder.
	signatureRe = regexp.MustCompile(
		`(?m)^([ \t]*)((?:(?:public|protected|private|static|final|synchronized)\s+)+)` +
			`([\w.$]+(?:<[^>\n]*>)?)(\s+\w+\s*\([^)\n]*\).*)$`)

	coreTypeMessageRe = regexp.MustCompile(`core type '([\w.]+)'`)
	packageLineRe     = regexp.MustCompile(`(?m)^package\s+[\w.]+\s*;`)
	importLineRe      = regexp.MustCompile(`(?m)^import\s+[\w.*]+\s*;[^\n]*`)
)

func (f *SourcePatchFixer) Fix(v domain.StructureViolation, ctx *domain.FixerContext) domain.FixResult {
	file, ok := resolveSourceFile(v.Location)
	if !ok {
		return skipRetryable(v, fmt.Sprintf("cannot locate a source file at %s", v.Location))
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return skipRetryable(v, fmt.Sprintf("cannot read %s: %v", file, err))
	}
	source := string(data)

	identifier := extractIdentifier(v.Message, ctx.Mappings)
	if identifier == "" {
		return skipRetryable(v, "cannot extract a target type from the violation message")
	}

	mapping, ok := resolveMapping(identifier, source, ctx.Mappings)
	if !ok {
		return skipRetryable(v, fmt.Sprintf("no type mapping resolvable for %s", identifier))
	}

	patched, diffs := patchSignatures(source, mapping.CoreSimpleName(), mapping.APISimpleName())
	if len(diffs) == 0 {
		return domain.FixResult{
			Violation:   v,
			Status:      domain.StatusSkipped,
			Description: "no changes needed",
		}
	}

	patched, importDiffs := reconcileImports(patched, mapping)
	diffs = append(diffs, importDiffs...)

	desc := fmt.Sprintf("replaced return type %s with %s in %s",
		mapping.CoreSimpleName(), mapping.APISimpleName(), file)
	if mapping.Inferred {
		desc += " (inferred mapping, review recommended)"
	}

	if ctx.DryRun {
		return domain.FixResult{
			Violation:   v,
			Status:      domain.StatusDryRun,
			Description: desc,
			Diffs:       diffs,
		}
	}

	if err := os.WriteFile(file, []byte(patched), 0o644); err != nil {
		return domain.FixResult{
			Violation:   v,
			Status:      domain.StatusFailed,
			Description: fmt.Sprintf("writing %s: %v", file, err),
		}
	}
	if ctx.Log != nil {
		ctx.Log.Debugw("patched source file", "file", file, "replacements", len(diffs))
	}

	return domain.FixResult{
		Violation:     v,
		Status:        domain.StatusFixed,
		Description:   desc,
		ModifiedFiles: []string{file},
		Diffs:         diffs,
	}
}

// resolveSourceFile maps a violation location to a concrete source file: a
// regular file is used directly, a directory is searched for its first
// non-marker source file.
func resolveSourceFile(location string) (string, bool) {
	info, err := os.Stat(location)
	if err != nil {
		return "", false
	}
	if !info.IsDir() {
		return location, true
	}
	files := scanner.SourceFiles(location)
	if len(files) == 0 {
		return "", false
	}
	return files[0], true
}

// extractIdentifier pulls the offending type name from the violation
// message, first via the designated pattern, then by scanning for any
// identifier present in the mapping table.
func extractIdentifier(message string, mappings []domain.TypeMapping) string {
	if m := coreTypeMessageRe.FindStringSubmatch(message); m != nil {
		return m[1]
	}
	for _, mp := range mappings {
		simple := mp.CoreSimpleName()
		if regexp.MustCompile(`\b` + regexp.QuoteMeta(simple) + `\b`).MatchString(message) {
			return simple
		}
	}
	return ""
}

// resolveMapping finds the table entry for identifier, or infers one from
// naming convention. The source text supplies the fully qualified name via
// the file's imports when the identifier is unqualified.
func resolveMapping(identifier, source string, table []domain.TypeMapping) (domain.TypeMapping, bool) {
	if m, ok := domain.ResolveMapping(identifier, table); ok {
		return m, true
	}

	qualified := identifier
	if !strings.Contains(identifier, ".") {
		for _, imp := range importLineRe.FindAllString(source, -1) {
			path := importPath(imp)
			if strings.HasSuffix(path, "."+identifier) {
				qualified = path
				break
			}
		}
	}
	return domain.InferMapping(qualified)
}

// patchSignatures rewrites every method signature whose return-type token
// equals coreSimple, splicing unmatched spans verbatim.
func patchSignatures(source, coreSimple, apiSimple string) (string, []domain.DiffPair) {
	var (
		b     strings.Builder
		diffs []domain.DiffPair
		last  int
	)

	for _, idx := range signatureRe.FindAllStringSubmatchIndex(source, -1) {
		start, end := idx[0], idx[1]
		returnType := source[idx[6]:idx[7]]
		if returnType != coreSimple {
			continue
		}

		b.WriteString(source[last:start])
		oldLine := source[start:end]
		newLine := source[idx[2]:idx[3]] + source[idx[4]:idx[5]] + apiSimple + source[idx[8]:idx[9]]
		b.WriteString(newLine)
		last = end

		diffs = append(diffs, domain.DiffPair{Removed: oldLine, Added: newLine})
	}
	b.WriteString(source[last:])
	return b.String(), diffs
}

// reconcileImports inserts the api type's import when needed and drops the
// core type's import once the identifier no longer appears in the file.
func reconcileImports(source string, mapping domain.TypeMapping) (string, []domain.DiffPair) {
	var diffs []domain.DiffPair

	apiFQN := mapping.APIType
	if strings.Contains(apiFQN, ".") && !hasImport(source, apiFQN) && !inPackage(source, apiFQN) {
		line := "import " + apiFQN + ";"
		source = insertImport(source, line)
		diffs = append(diffs, domain.DiffPair{Added: line})
	}

	coreFQN := mapping.CoreType
	if strings.Contains(coreFQN, ".") && hasImport(source, coreFQN) {
		if !identifierUsed(source, mapping.CoreSimpleName()) {
			line := "import " + coreFQN + ";"
			source = removeImport(source, coreFQN)
			diffs = append(diffs, domain.DiffPair{Removed: line})
		}
	}

	return source, diffs
}

func hasImport(source, fqn string) bool {
	for _, imp := range importLineRe.FindAllString(source, -1) {
		if importPath(imp) == fqn {
			return true
		}
	}
	return false
}

// inPackage reports whether the file's own package already contains the
// fully qualified type, making an import redundant.
func inPackage(source, fqn string) bool {
	m := regexp.MustCompile(`(?m)^package\s+([\w.]+)\s*;`).FindStringSubmatch(source)
	if m == nil {
		return false
	}
	i := strings.LastIndex(fqn, ".")
	return i >= 0 && fqn[:i] == m[1]
}

// insertImport places the line immediately after the last existing import,
// or after the package declaration when there are none.
func insertImport(source, line string) string {
	if locs := importLineRe.FindAllStringIndex(source, -1); len(locs) > 0 {
		pos := locs[len(locs)-1][1]
		return source[:pos] + "\n" + line + source[pos:]
	}
	if loc := packageLineRe.FindStringIndex(source); loc != nil {
		return source[:loc[1]] + "\n\n" + line + source[loc[1]:]
	}
	return line + "\n" + source
}

func removeImport(source, fqn string) string {
	re := regexp.MustCompile(`(?m)^import\s+` + regexp.QuoteMeta(fqn) + `\s*;[^\n]*\n?`)
	return re.ReplaceAllString(source, "")
}

// identifierUsed reports whether the simple name still appears outside
// import lines.
func identifierUsed(source, simple string) bool {
	body := importLineRe.ReplaceAllString(source, "")
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(simple) + `\b`).MatchString(body)
}

var importPathRe = regexp.MustCompile(`import\s+(?:static\s+)?([\w.*]+)`)

func importPath(importLine string) string {
	if m := importPathRe.FindStringSubmatch(importLine); m != nil {
		return m[1]
	}
	return ""
}

func skipRetryable(v domain.StructureViolation, reason string) domain.FixResult {
	return domain.FixResult{
		Violation:   v,
		Status:      domain.StatusSkipped,
		Description: reason,
		Retryable:   true,
	}
}

func supportsRule(f domain.Fixer, ruleID string) bool {
	for _, r := range f.SupportedRules() {
		if r == ruleID {
			return true
		}
	}
	return false
}
