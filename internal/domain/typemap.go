package domain

import (
	"strings"

	"github.com/fatih/camelcase"
)

// inferredPrefixes and inferredSuffixes are the naming conventions from
// which a core→api mapping can be derived when no table entry exists.
var (
	inferredPrefixes = []string{"Default", "Abstract", "Base"}
	inferredSuffixes = []string{"Impl"}
)

// ResolveMapping finds the table entry whose core type matches the given
// identifier. The identifier may be fully qualified or a simple name.
func ResolveMapping(identifier string, table []TypeMapping) (TypeMapping, bool) {
	for _, m := range table {
		if m.CoreType == identifier || m.CoreSimpleName() == identifier {
			return m, true
		}
	}
	return TypeMapping{}, false
}

// InferMapping derives an unverified mapping from naming convention by
// stripping a recognized prefix or suffix from the core type's simple name.
// The package of the api type is derived by swapping a ".core" path segment
// for ".api" when one is present. Returns false when the name carries no
// recognized affix or stripping it would leave nothing.
func InferMapping(coreType string) (TypeMapping, bool) {
	simple := simpleName(coreType)
	words := camelcase.Split(simple)
	if len(words) < 2 {
		return TypeMapping{}, false
	}

	var apiSimple string
	for _, p := range inferredPrefixes {
		if words[0] == p {
			apiSimple = strings.Join(words[1:], "")
			break
		}
	}
	if apiSimple == "" {
		for _, s := range inferredSuffixes {
			if words[len(words)-1] == s {
				apiSimple = strings.Join(words[:len(words)-1], "")
				break
			}
		}
	}
	if apiSimple == "" {
		return TypeMapping{}, false
	}

	apiType := apiSimple
	if i := strings.LastIndex(coreType, "."); i >= 0 {
		pkg := coreType[:i]
		pkg = swapCorePackage(pkg)
		apiType = pkg + "." + apiSimple
	}

	return TypeMapping{CoreType: coreType, APIType: apiType, Inferred: true}, true
}

// swapCorePackage rewrites a ".core" package segment to ".api".
func swapCorePackage(pkg string) string {
	parts := strings.Split(pkg, ".")
	for i, p := range parts {
		if p == "core" {
			parts[i] = "api"
		}
	}
	return strings.Join(parts, ".")
}
