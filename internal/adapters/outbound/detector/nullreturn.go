// Package detector holds the pluggable rule detectors. Detection is
// read-only and fail-open: a file that cannot be parsed is skipped.
package detector

import (
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/phdsystems/stratify/internal/adapters/outbound/parser"
	"github.com/phdsystems/stratify/internal/adapters/outbound/scanner"
	"github.com/phdsystems/stratify/internal/domain"
)

// Capability markers for the fixer contract rule.
const (
	capabilityInterface = "StructureFixer"
	capabilityBase      = "AbstractStructureFixer"
	contractMethodName  = "fix"
	contractMethodArity = 2
)

const scanParallelism = 8

// NullReturnDetector flags contract-method implementations that return the
// null literal. Applies only to multi-module layouts.
type NullReturnDetector struct {
	parser *parser.JavaParser
}

func NewNullReturn(p *parser.JavaParser) *NullReturnDetector {
	return &NullReturnDetector{parser: p}
}

func (d *NullReturnDetector) RuleID() string { return domain.RuleNullContractReturn }

func (d *NullReturnDetector) Detect(module domain.ModuleInfo) []domain.StructureViolation {
	if !module.HasSubmodules {
		return nil
	}

	var files []string
	for _, root := range module.SourceRoots() {
		files = append(files, scanner.SourceFiles(root)...)
	}

	var (
		mu         sync.Mutex
		violations []domain.StructureViolation
	)

	g := errgroup.Group{}
	g.SetLimit(scanParallelism)
	for _, file := range files {
		g.Go(func() error {
			sf, err := d.parser.ParseFile(file)
			if err != nil {
				return nil // unreadable file: skip, keep scanning
			}
			found := d.inspect(sf)
			if len(found) == 0 {
				return nil
			}
			mu.Lock()
			violations = append(violations, found...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return violations
}

// inspect emits one violation per contract method that returns null.
func (d *NullReturnDetector) inspect(sf *parser.SourceFile) []domain.StructureViolation {
	var out []domain.StructureViolation
	for _, t := range sf.Types {
		if !t.IsConcreteClass() {
			continue
		}
		if !t.ImplementsAny(capabilityInterface) && !t.ExtendsAny(capabilityBase) {
			continue
		}
		for _, m := range t.Methods {
			if m.Name != contractMethodName || m.Arity != contractMethodArity {
				continue
			}
			for _, ret := range m.Returns {
				if !ret.IsNull() {
					continue
				}
				out = append(out, domain.StructureViolation{
					RuleID:   domain.RuleNullContractReturn,
					Category: domain.CategoryContract,
					Severity: domain.SeverityError,
					Message:  fmt.Sprintf("%s.%s returns null instead of a result object", t.Name, m.Name),
					Location: sf.Path,
					Line:     ret.Line,
					Found:    "return null;",
					Expected: "a non-null result for every return path",
					SuggestedFix: fmt.Sprintf(
						"return a SKIPPED or FAILED result from %s.%s instead of null", t.Name, m.Name),
					DocRef: "docs/rules/null-contract-return.md",
				})
				break // one violation per offending method
			}
		}
	}
	return out
}
