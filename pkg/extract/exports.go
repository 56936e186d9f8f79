package extract

import (
	"regexp"
	"sort"
	"strings"
)

// Export is a symbol name the file exposes to importers
type Export struct {
	Name string `json:"name"`
	Line int    `json:"line"`
}

var (
	reExportDecl     = regexp.MustCompile(`\bexport\s+(?:declare\s+)?(?:default\s+)?(?:async\s+)?(?:function\s*\*?|abstract\s+class|class|interface|const\s+enum|enum|type|namespace|const|let|var)\s+([\w$]+)`)
	reExportDefault  = regexp.MustCompile(`\bexport\s+default\s+([\w$]+)`)
	reExportList     = regexp.MustCompile(`\bexport\s*(?:type\b\s*)?\{([^}]*)\}`)
	reCommonJSNamed  = regexp.MustCompile(`(?:^|[^\w$.])(?:module\.)?exports\.([\w$]+)\s*=[^=]`)
	reCommonJSModule = regexp.MustCompile(`\bmodule\.exports\s*=\s*([\w$]+)\s*;?\s*(?:\n|$)`)
)

// words that can follow `export default` without naming a symbol
var defaultExportKeywords = map[string]bool{
	"class": true, "function": true, "async": true, "abstract": true,
	"interface": true, "enum": true, "new": true, "await": true,
	"typeof": true, "void": true,
}

// ExtractExports finds exported names. Names exported through an
// `a as b` list are recorded under the exported name b.
func ExtractExports(src *Source) []Export {
	text := src.Bare
	var found []struct {
		pos  int
		name string
	}
	add := func(pos int, name string) {
		found = append(found, struct {
			pos  int
			name string
		}{pos, name})
	}

	for _, m := range reExportDecl.FindAllStringSubmatchIndex(text, -1) {
		add(m[0], text[m[2]:m[3]])
	}

	for _, m := range reExportDefault.FindAllStringSubmatchIndex(text, -1) {
		name := text[m[2]:m[3]]
		if defaultExportKeywords[name] {
			continue
		}
		add(m[0], name)
	}

	for _, m := range reExportList.FindAllStringSubmatchIndex(text, -1) {
		for _, name := range exportedNames(text[m[2]:m[3]]) {
			add(m[0], name)
		}
	}

	for _, m := range reCommonJSNamed.FindAllStringSubmatchIndex(text, -1) {
		add(m[2], text[m[2]:m[3]])
	}

	for _, m := range reCommonJSModule.FindAllStringSubmatchIndex(text, -1) {
		name := text[m[2]:m[3]]
		if name == "function" || name == "class" || name == "require" {
			continue
		}
		add(m[0], name)
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].pos < found[j].pos })

	out := make([]Export, 0, len(found))
	for _, f := range found {
		out = append(out, Export{Name: f.name, Line: lineAt(text, f.pos)})
	}
	return out
}

// exportedNames parses `a, b as c, type D` into [a c D]
func exportedNames(list string) []string {
	var names []string
	for _, part := range strings.Split(list, ",") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "type" && len(fields) > 1 {
			fields = fields[1:]
		}
		name := fields[0]
		if len(fields) >= 3 && fields[1] == "as" {
			name = fields[2]
		}
		if isIdentifier(name) {
			names = append(names, name)
		}
	}
	return names
}

func lineAt(text string, pos int) int {
	return strings.Count(text[:pos], "\n") + 1
}
