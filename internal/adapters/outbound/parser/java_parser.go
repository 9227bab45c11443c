// Package parser extracts structural facts from Java sources: package,
// imports, type declarations and method bodies. It is a lightweight textual
// analysis, not a compiler front end; declarations it cannot recognize are
// ignored rather than reported.
package parser

import (
	"fmt"
	"os"
	"strings"
)

// SourceFile holds the facts extracted from one Java source file.
type SourceFile struct {
	Path    string
	Package string
	Imports []string
	Types   []TypeDecl
}

// TypeDecl describes one class, interface, enum or record declaration.
type TypeDecl struct {
	Name       string
	Kind       string // class, interface, enum, record
	Abstract   bool
	Extends    string
	Implements []string
	Methods    []Method
}

// IsConcreteClass reports whether the declaration is a non-abstract class.
func (t TypeDecl) IsConcreteClass() bool {
	return t.Kind == "class" && !t.Abstract
}

// ImplementsAny reports whether the type implements one of the named
// interfaces (simple-name comparison).
func (t TypeDecl) ImplementsAny(names ...string) bool {
	for _, impl := range t.Implements {
		for _, n := range names {
			if impl == n || strings.HasSuffix(impl, "."+n) {
				return true
			}
		}
	}
	return false
}

// ExtendsAny reports whether the type extends one of the named bases.
func (t TypeDecl) ExtendsAny(names ...string) bool {
	for _, n := range names {
		if t.Extends == n || strings.HasSuffix(t.Extends, "."+n) {
			return true
		}
	}
	return false
}

// Method describes one method declaration and its return statements.
type Method struct {
	Name       string
	ReturnType string
	Arity      int
	Line       int
	Returns    []ReturnStmt
}

// ReturnStmt is one return statement inside a method body.
type ReturnStmt struct {
	Expr string
	Line int
}

// IsNull reports whether the return expression is the null literal.
func (r ReturnStmt) IsNull() bool { return r.Expr == "null" }

// JavaParser parses Java sources line by line with brace tracking. Nested
// braces inside string literals can confuse it; callers treat parse output
// as approximate and fail open.
type JavaParser struct{}

func New() *JavaParser {
	return &JavaParser{}
}

// ParseFile reads and parses a single source file.
func (p *JavaParser) ParseFile(path string) (*SourceFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	sf := p.Parse(string(data))
	sf.Path = path
	return sf, nil
}

type typeFrame struct {
	decl  *TypeDecl
	depth int
}

// Parse extracts facts from source text.
func (p *JavaParser) Parse(source string) *SourceFile {
	sf := &SourceFile{}

	var (
		depth     int
		stack     []typeFrame
		curMethod *Method
		bodyDepth int // depth at the line that opened the current method body
		inBlock   bool
	)

	for i, raw := range strings.Split(source, "\n") {
		lineNo := i + 1
		code, nowInBlock := stripComments(raw, inBlock)
		inBlock = nowInBlock
		trimmed := strings.TrimSpace(code)

		if depth == 0 && curMethod == nil {
			if m := packageRe.FindStringSubmatch(trimmed); m != nil {
				sf.Package = m[1]
			} else if m := importRe.FindStringSubmatch(trimmed); m != nil {
				sf.Imports = append(sf.Imports, m[1])
			}
		}

		switch {
		case curMethod != nil:
			if m := returnRe.FindStringSubmatch(trimmed); m != nil {
				curMethod.Returns = append(curMethod.Returns, ReturnStmt{
					Expr: strings.TrimSpace(m[1]),
					Line: lineNo,
				})
			}

		case len(stack) > 0 && depth == stack[len(stack)-1].depth+1:
			if method, opensBody, ok := parseMethodLine(trimmed, lineNo); ok {
				if opensBody {
					curMethod = &method
					bodyDepth = depth
				} else {
					top := stack[len(stack)-1].decl
					top.Methods = append(top.Methods, method)
				}
				break
			}
			fallthrough

		default:
			if decl, ok := parseTypeLine(trimmed); ok {
				stack = append(stack, typeFrame{decl: decl, depth: depth})
			}
		}

		depth += strings.Count(code, "{") - strings.Count(code, "}")

		if curMethod != nil && depth <= bodyDepth {
			top := stack[len(stack)-1].decl
			top.Methods = append(top.Methods, *curMethod)
			curMethod = nil
		}

		for len(stack) > 0 && curMethod == nil && depth <= stack[len(stack)-1].depth {
			closed := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			sf.Types = append(sf.Types, *closed.decl)
		}
	}

	return sf
}

// stripComments removes block and line comments from one line. String
// literals are not honored; this is an accepted approximation.
func stripComments(line string, inBlock bool) (string, bool) {
	var b strings.Builder
	i := 0
	for i < len(line) {
		if inBlock {
			if idx := strings.Index(line[i:], "*/"); idx >= 0 {
				i += idx + 2
				inBlock = false
				continue
			}
			return b.String(), true
		}
		if strings.HasPrefix(line[i:], "/*") {
			inBlock = true
			i += 2
			continue
		}
		if strings.HasPrefix(line[i:], "//") {
			return b.String(), false
		}
		b.WriteByte(line[i])
		i++
	}
	return b.String(), inBlock
}

// countArity counts parameters in a parameter list, honoring generic
// brackets so Map<String, String> counts as one.
func countArity(params string) int {
	params = strings.TrimSpace(params)
	if params == "" {
		return 0
	}
	count := 1
	angle := 0
	for _, r := range params {
		switch r {
		case '<':
			angle++
		case '>':
			angle--
		case ',':
			if angle == 0 {
				count++
			}
		}
	}
	return count
}
