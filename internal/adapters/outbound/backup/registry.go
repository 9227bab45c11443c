package backup

import (
	"fmt"

	"github.com/phdsystems/stratify/internal/domain"
)

// DefaultStrategy is used when the project config names none.
const DefaultStrategy = "copy"

// New returns the named strategy, or the default for an empty name.
func New(name string) (domain.BackupStrategy, error) {
	switch name {
	case "", DefaultStrategy:
		return NewCopy(), nil
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown backup strategy %q (available: %v)", name, Available())
	}
}

// Available lists the registered strategy names.
func Available() []string {
	return []string{"copy", "memory"}
}
