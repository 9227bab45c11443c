package detector

import (
	"fmt"
	"strings"

	"github.com/phdsystems/stratify/internal/adapters/outbound/parser"
	"github.com/phdsystems/stratify/internal/adapters/outbound/scanner"
	"github.com/phdsystems/stratify/internal/domain"
)

// FacadeReturnDetector flags facade methods whose return type is a core
// implementation type. A type counts as core when the mapping table lists
// it, or when its name carries a recognized implementation affix and the
// file imports it from a .core package.
type FacadeReturnDetector struct {
	parser   *parser.JavaParser
	mappings []domain.TypeMapping
}

func NewFacadeReturn(p *parser.JavaParser, mappings []domain.TypeMapping) *FacadeReturnDetector {
	return &FacadeReturnDetector{parser: p, mappings: mappings}
}

func (d *FacadeReturnDetector) RuleID() string { return domain.RuleFacadeReturnsCoreType }

func (d *FacadeReturnDetector) Detect(module domain.ModuleInfo) []domain.StructureViolation {
	if !module.HasFacade {
		return nil
	}

	root := module.SubmodulePath(domain.RoleFacade)
	var out []domain.StructureViolation
	for _, file := range scanner.SourceFiles(root) {
		sf, err := d.parser.ParseFile(file)
		if err != nil {
			continue
		}
		out = append(out, d.inspect(sf)...)
	}
	return out
}

func (d *FacadeReturnDetector) inspect(sf *parser.SourceFile) []domain.StructureViolation {
	var out []domain.StructureViolation
	for _, t := range sf.Types {
		if t.Kind != "class" {
			continue
		}
		for _, m := range t.Methods {
			if !d.isCoreType(m.ReturnType, sf.Imports) {
				continue
			}
			out = append(out, domain.StructureViolation{
				RuleID:   domain.RuleFacadeReturnsCoreType,
				Category: domain.CategoryLayering,
				Severity: domain.SeverityError,
				Message:  fmt.Sprintf("facade method '%s' returns core type '%s'", m.Name, m.ReturnType),
				Location: sf.Path,
				Line:     m.Line,
				Found:    m.ReturnType,
				Expected: "the api contract type",
				SuggestedFix: fmt.Sprintf(
					"declare '%s' to return the api type mapped from %s", m.Name, m.ReturnType),
				DocRef: "docs/rules/facade-returns-core-type.md",
			})
		}
	}
	return out
}

func (d *FacadeReturnDetector) isCoreType(name string, imports []string) bool {
	if name == "" {
		return false
	}
	if _, ok := domain.ResolveMapping(name, d.mappings); ok {
		return true
	}

	// Convention: an implementation-named type imported from a .core package.
	if _, ok := domain.InferMapping(name); !ok {
		return false
	}
	for _, imp := range imports {
		if strings.HasSuffix(imp, "."+name) && strings.Contains(imp, ".core.") {
			return true
		}
	}
	return false
}
