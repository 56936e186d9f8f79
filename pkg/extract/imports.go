package extract

import (
	"regexp"
	"sort"
	"strings"
)

// ImportKind classifies an import occurrence
type ImportKind string

const (
	ImportDefault    ImportKind = "default"     // import x from 'y'
	ImportNamed      ImportKind = "named"       // import { x } from 'y'
	ImportNamespace  ImportKind = "namespace"   // import * as x from 'y'
	ImportSideEffect ImportKind = "side_effect" // import 'y'
	ImportDynamic    ImportKind = "dynamic"     // import('y')
	ImportRequire    ImportKind = "require"     // require('y')
	ImportTypeOnly   ImportKind = "type_only"   // import type { x } from 'y'
	ImportReExport   ImportKind = "re_export"   // export * from 'y', export { x } from 'y'
)

// Import is one import occurrence with the names it binds
type Import struct {
	Specifier string     `json:"specifier"`
	Kind      ImportKind `json:"kind"`
	Names     []string   `json:"names,omitempty"`
	Line      int        `json:"line"`
}

var (
	reImportFrom   = regexp.MustCompile(`\bimport\b\s*(type\b\s*)?([^'"();=]*?)\s*\bfrom\s*['"]([^'"\n]+)['"]`)
	reImportBare   = regexp.MustCompile(`\bimport\s*['"]([^'"\n]+)['"]`)
	reImportCall   = regexp.MustCompile(`\bimport\s*\(\s*['"]([^'"\n]+)['"]\s*\)`)
	reRequire      = regexp.MustCompile(`(?:\b(?:const|let|var|import)\s+(\{[^}]*\}|[\w$]+)\s*=\s*)?\brequire\s*\(\s*['"]([^'"\n]+)['"]\s*\)`)
	reReExportFrom = regexp.MustCompile(`\bexport\s*(?:type\b\s*)?(\*(?:\s*as\s+[\w$]+)?|\{[^}]*\})\s*from\s*['"]([^'"\n]+)['"]`)
)

type positioned struct {
	pos int
	imp Import
}

// ExtractImports runs the import pattern families over reassembled statements
func ExtractImports(stmts []Statement) []Import {
	var out []Import
	for _, stmt := range stmts {
		out = append(out, importsInStatement(stmt)...)
	}
	return out
}

func importsInStatement(stmt Statement) []Import {
	text := stmt.Text
	var found []positioned

	for _, m := range reImportFrom.FindAllStringSubmatchIndex(text, -1) {
		clause := text[m[4]:m[5]]
		imp := parseImportClause(clause, m[2] != -1)
		imp.Specifier = text[m[6]:m[7]]
		imp.Line = stmt.Line
		found = append(found, positioned{m[0], imp})
	}

	for _, m := range reImportBare.FindAllStringSubmatchIndex(text, -1) {
		found = append(found, positioned{m[0], Import{
			Specifier: text[m[2]:m[3]],
			Kind:      ImportSideEffect,
			Line:      stmt.Line,
		}})
	}

	for _, m := range reImportCall.FindAllStringSubmatchIndex(text, -1) {
		found = append(found, positioned{m[0], Import{
			Specifier: text[m[2]:m[3]],
			Kind:      ImportDynamic,
			Line:      stmt.Line,
		}})
	}

	for _, m := range reRequire.FindAllStringSubmatchIndex(text, -1) {
		imp := Import{
			Specifier: text[m[4]:m[5]],
			Kind:      ImportRequire,
			Line:      stmt.Line,
		}
		if m[2] != -1 {
			binding := text[m[2]:m[3]]
			if strings.HasPrefix(binding, "{") {
				imp.Names = splitNamedList(binding[1 : len(binding)-1])
			} else {
				imp.Names = []string{binding}
			}
		}
		found = append(found, positioned{m[0], imp})
	}

	for _, m := range reReExportFrom.FindAllStringSubmatchIndex(text, -1) {
		found = append(found, positioned{m[0], Import{
			Specifier: text[m[4]:m[5]],
			Kind:      ImportReExport,
			Line:      stmt.Line,
		}})
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].pos < found[j].pos })

	out := make([]Import, 0, len(found))
	for _, f := range found {
		out = append(out, f.imp)
	}
	return out
}

// parseImportClause reads the binding clause between `import` and `from`:
// a default name, `* as ns`, and/or a `{ ... }` list.
func parseImportClause(clause string, typeOnly bool) Import {
	clause = strings.TrimSpace(clause)

	var (
		names        []string
		hasDefault   bool
		hasNamespace bool
		hasNamed     bool
	)

	if open := strings.Index(clause, "{"); open >= 0 {
		end := strings.LastIndex(clause, "}")
		if end < open {
			end = len(clause)
		}
		names = append(names, splitNamedList(clause[open+1:end])...)
		hasNamed = true
		rest := clause[:open]
		if end < len(clause) {
			rest += clause[end+1:]
		}
		clause = rest
	}

	var head []string
	for _, part := range strings.Split(clause, ",") {
		part = strings.TrimSpace(part)
		switch {
		case part == "":
		case strings.HasPrefix(part, "*"):
			fields := strings.Fields(strings.TrimPrefix(part, "*"))
			if len(fields) == 2 && fields[0] == "as" {
				head = append(head, fields[1])
				hasNamespace = true
			}
		case isIdentifier(part):
			head = append(head, part)
			hasDefault = true
		}
	}
	names = append(head, names...)

	imp := Import{Names: names}
	switch {
	case typeOnly:
		imp.Kind = ImportTypeOnly
	case hasNamespace:
		imp.Kind = ImportNamespace
	case hasDefault:
		imp.Kind = ImportDefault
	case hasNamed:
		imp.Kind = ImportNamed
	default:
		imp.Kind = ImportSideEffect
	}
	return imp
}

// splitNamedList returns the imported (pre-alias) names of a `{ a, b as c }` list
func splitNamedList(list string) []string {
	var names []string
	for _, part := range strings.Split(list, ",") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		name := fields[0]
		if name == "type" && len(fields) > 1 && fields[1] != "as" {
			name = fields[1]
		}
		if strings.Contains(name, ":") {
			// object destructuring with rename: { a: b }
			name = strings.TrimSpace(strings.SplitN(name, ":", 2)[0])
		}
		if isIdentifier(name) {
			names = append(names, name)
		}
	}
	return names
}

func isIdentifier(s string) bool {
	if s == "" || (s[0] >= '0' && s[0] <= '9') {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isIdentByte(s[i]) {
			return false
		}
	}
	return true
}
