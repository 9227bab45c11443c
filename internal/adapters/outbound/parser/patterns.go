package parser

import (
	"regexp"
	"strings"
)

var (
	packageRe = regexp.MustCompile(`^package\s+([\w.]+)\s*;`)
	importRe  = regexp.MustCompile(`^import\s+(?:static\s+)?([\w.*]+)\s*;`)
	returnRe  = regexp.MustCompile(`^return\b\s*(.*?)\s*;`)

	typeRe = regexp.MustCompile(
		`^((?:(?:public|protected|private|final|abstract|static|strictfp|sealed|non-sealed)\s+)*)` +
			`(class|interface|enum|record)\s+(\w+)(?:<[^>{]*>)?` +
			`(?:\s+extends\s+([\w.]+)(?:<[^>{]*>)?)?` +
			`(?:\s+implements\s+([\w.,\s<>]+?))?` +
			`\s*(?:permits\s+[\w.,\s]+)?\s*\{`)

	methodRe = regexp.MustCompile(
		`^((?:(?:public|protected|private|static|final|abstract|synchronized|native|default)\s+)*)` +
			`(?:<[^>]+>\s+)?` +
			`([\w.$]+(?:<[^()]*>)?(?:\[\])*)\s+(\w+)\s*` +
			`\(([^)]*)\)` +
			`\s*(?:throws\s+[\w.,\s]+?)?\s*(\{|;)`)
)

// Tokens that look like a return type to methodRe but never are.
var notAReturnType = map[string]bool{
	"return": true,
	"new":    true,
	"throw":  true,
	"else":   true,
	"case":   true,
	"package": true,
	"import":  true,
}

// parseTypeLine recognizes a type declaration opening on this line.
func parseTypeLine(line string) (*TypeDecl, bool) {
	m := typeRe.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}

	decl := &TypeDecl{
		Name:     m[3],
		Kind:     m[2],
		Abstract: strings.Contains(m[1], "abstract"),
		Extends:  m[4],
	}
	if m[5] != "" {
		for _, impl := range strings.Split(m[5], ",") {
			impl = strings.TrimSpace(impl)
			if i := strings.Index(impl, "<"); i >= 0 {
				impl = impl[:i]
			}
			if impl != "" {
				decl.Implements = append(decl.Implements, impl)
			}
		}
	}
	return decl, true
}

// parseMethodLine recognizes a method declaration on this line. opensBody
// reports whether the declaration opens a brace-delimited body (as opposed
// to an abstract or interface method ending in a semicolon).
func parseMethodLine(line string, lineNo int) (Method, bool, bool) {
	m := methodRe.FindStringSubmatch(line)
	if m == nil {
		return Method{}, false, false
	}
	if notAReturnType[m[2]] {
		return Method{}, false, false
	}

	method := Method{
		Name:       m[3],
		ReturnType: m[2],
		Arity:      countArity(m[4]),
		Line:       lineNo,
	}
	return method, m[5] == "{", true
}
