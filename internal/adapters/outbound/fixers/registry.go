package fixers

import (
	"sort"

	"github.com/phdsystems/stratify/internal/domain"
)

// Registry is the priority-ordered, rule-id-keyed fixer dispatch table.
type Registry struct {
	fixers []domain.Fixer
}

// NewRegistry builds a registry; fixers are kept in descending priority
// order so the first applicable one is always the preferred strategy.
func NewRegistry(fixers ...domain.Fixer) *Registry {
	sorted := make([]domain.Fixer, len(fixers))
	copy(sorted, fixers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority() > sorted[j].Priority()
	})
	return &Registry{fixers: sorted}
}

// Default wires the built-in fixers.
func Default() *Registry {
	return NewRegistry(
		NewSourcePatch(),
		NewScaffold(),
		NewWrapper(),
	)
}

// For returns the fixers able to fix the violation, highest priority first.
// Entries past the first are reserve strategies.
func (r *Registry) For(v domain.StructureViolation) []domain.Fixer {
	var out []domain.Fixer
	for _, f := range r.fixers {
		if f.CanFix(v) {
			out = append(out, f)
		}
	}
	return out
}

// All returns every registered fixer in priority order.
func (r *Registry) All() []domain.Fixer {
	return r.fixers
}
