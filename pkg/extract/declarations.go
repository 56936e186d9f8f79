package extract

import (
	"regexp"
	"strings"
)

// DeclarationKind distinguishes the brace-bodied type declarations
type DeclarationKind string

const (
	DeclClass     DeclarationKind = "class"
	DeclInterface DeclarationKind = "interface"
	DeclType      DeclarationKind = "type"
)

// Class is a class, interface or object-shaped type alias with its members
type Class struct {
	Name                string          `json:"name"`
	Kind                DeclarationKind `json:"kind"`
	Extends             string          `json:"extends,omitempty"`
	IsComponentSubclass bool            `json:"isComponentSubclass"`
	Exported            bool            `json:"exported"`
	Methods             []Function      `json:"methods,omitempty"`
	Line                int             `json:"line"`
}

// LifecycleMethods are the React class component lifecycle hooks
var LifecycleMethods = map[string]bool{
	"componentDidMount":        true,
	"componentDidUpdate":       true,
	"componentWillUnmount":     true,
	"shouldComponentUpdate":    true,
	"getSnapshotBeforeUpdate":  true,
	"componentDidCatch":        true,
	"getDerivedStateFromProps": true,
	"getDerivedStateFromError": true,
	"render":                   true,
}

var (
	reClassHeader     = regexp.MustCompile(`\b(export\s+(?:default\s+)?)?(?:declare\s+)?(?:abstract\s+)?class\s+([\w$]+)`)
	reInterfaceHeader = regexp.MustCompile(`\b(export\s+)?(?:declare\s+)?interface\s+([\w$]+)`)
	reTypeHeader      = regexp.MustCompile(`\b(export\s+)?(?:declare\s+)?type\s+([\w$]+)\s*(?:<[^=]*?>)?\s*=\s*\{`)
	reComponentBase   = regexp.MustCompile(`^(?:React\.)?(?:Pure)?Component\b`)

	reMethodHeader = regexp.MustCompile(`(?m)(?:^|[;{},])[ \t]*((?:(?:public|private|protected|static|async|readonly|override|abstract|declare|get|set)\s+)*)\*?\s*([A-Za-z_$][\w$]*)\s*\??\s*(?:<[^>()]*>)?\s*\(`)
	reArrowMember  = regexp.MustCompile(`(?m)(?:^|[;{},])[ \t]*((?:(?:public|private|protected|static|readonly|override)\s+)*)([A-Za-z_$][\w$]*)\s*(?::[^=;\n]+)?=\s*(async\s+)?(\(|[\w$]+\s*=>)`)
	reReturnType   = regexp.MustCompile(`^\s*:\s*([^{;\n]+)`)
	reArrowTail    = regexp.MustCompile(`^\s*(?::\s*([^={;\n]+?))?\s*=>`)
)

// names that look like method headers but are control flow or calls
var memberKeywords = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "catch": true,
	"return": true, "function": true, "new": true, "super": true,
	"typeof": true, "with": true, "await": true, "throw": true,
}

// ExtractDeclarations finds classes, interfaces and object-shaped type
// aliases. Each body is the balanced brace span after the header.
func ExtractDeclarations(src *Source) []Class {
	text := src.Bare
	var out []Class

	families := []struct {
		re   *regexp.Regexp
		kind DeclarationKind
	}{
		{reClassHeader, DeclClass},
		{reInterfaceHeader, DeclInterface},
		{reTypeHeader, DeclType},
	}

	for _, fam := range families {
		for _, m := range fam.re.FindAllStringSubmatchIndex(text, -1) {
			name := text[m[4]:m[5]]
			if name == "extends" || name == "implements" {
				continue
			}

			// the type alias pattern ends on its '{'; class and interface
			// headers are followed to their body
			open := m[1] - 1
			if fam.kind != DeclType {
				open = headerEnd(text, m[1])
				if open < 0 || !isHeritage(text[m[1]:open]) {
					continue
				}
			}
			closeIdx := matchingClose(text, open)
			if closeIdx < 0 {
				closeIdx = len(text)
			}

			cls := Class{
				Name:     name,
				Kind:     fam.kind,
				Exported: m[2] != -1,
				Line:     lineAt(text, m[0]),
			}
			if fam.kind == DeclClass {
				cls.Extends = extendsClause(text[m[1]:open])
				cls.IsComponentSubclass = reComponentBase.MatchString(cls.Extends)
			}

			cls.Methods = extractMembers(text[open+1:closeIdx], src.Code[open+1:closeIdx], cls.Name)
			out = append(out, cls)
		}
	}

	return out
}

// headerEnd finds the '{' that opens a declaration body, starting after the
// declared name. Type parameter and argument lists are skipped together with
// any object types inside them. It returns -1 when the header ends without a
// body.
func headerEnd(text string, from int) int {
	angle := 0
	for i := from; i < len(text); i++ {
		switch c := text[i]; c {
		case '<':
			angle++
		case '>':
			if text[i-1] != '=' && angle > 0 {
				angle--
			}
		case '{', '(', '[':
			if c == '{' && angle == 0 {
				return i
			}
			end := matchingClose(text, i)
			if end < 0 {
				return -1
			}
			i = end
		case ';', ')', ']', '}':
			if angle == 0 {
				return -1
			}
		}
	}
	return -1
}

// isHeritage reports whether the text between a declared name and its body
// is a type parameter list and/or an extends or implements clause
func isHeritage(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || s[0] == '<' ||
		topLevelKeyword(s, "extends") == 0 || topLevelKeyword(s, "implements") == 0
}

// extendsClause returns the base named in a class heritage such as
// `<T> extends Base<T> implements I`
func extendsClause(heritage string) string {
	k := topLevelKeyword(heritage, "extends")
	if k < 0 {
		return ""
	}
	rest := heritage[k+len("extends"):]
	if e := topLevelKeyword(rest, "implements"); e >= 0 {
		rest = rest[:e]
	}
	return strings.TrimSpace(rest)
}

// topLevelKeyword returns the offset of word in s outside any bracket or
// angle nesting, or -1
func topLevelKeyword(s, word string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<', '(', '[', '{':
			depth++
			continue
		case '>':
			if i > 0 && s[i-1] == '=' {
				continue
			}
			fallthrough
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
			continue
		}
		if depth > 0 || !strings.HasPrefix(s[i:], word) {
			continue
		}
		before := i == 0 || !isIdentByte(s[i-1])
		after := i+len(word) == len(s) || !isIdentByte(s[i+len(word)])
		if before && after {
			return i
		}
	}
	return -1
}

// extractMembers scans the top level of a declaration body for method
// signatures and arrow-function properties
func extractMembers(body, code, className string) []Function {
	shallow := blankNested(body)
	seen := make(map[string]bool)
	var methods []Function

	for _, m := range reMethodHeader.FindAllStringSubmatchIndex(shallow, -1) {
		name := shallow[m[4]:m[5]]
		if memberKeywords[name] || seen[name] {
			continue
		}
		open := m[1] - 1
		closeIdx := matchingClose(body, open)
		if closeIdx < 0 {
			continue
		}

		rest := body[closeIdx+1:]
		if !isMemberBodyStart(rest) {
			continue
		}

		fn := Function{
			Name:        name,
			Class:       className,
			Form:        FormMethod,
			Parameters:  ParseParameters(code[open+1 : closeIdx]),
			Modifiers:   strings.Fields(shallow[m[2]:m[3]]),
			IsMethod:    true,
			IsLifecycle: LifecycleMethods[name],
		}
		if rt := reReturnType.FindStringSubmatch(rest); rt != nil {
			fn.ReturnType = strings.TrimSpace(rt[1])
		}
		seen[name] = true
		methods = append(methods, fn)
	}

	for _, m := range reArrowMember.FindAllStringSubmatchIndex(shallow, -1) {
		name := shallow[m[4]:m[5]]
		if memberKeywords[name] || seen[name] {
			continue
		}

		fn := Function{
			Name:        name,
			Class:       className,
			Form:        FormMethod,
			Modifiers:   strings.Fields(shallow[m[2]:m[3]]),
			IsMethod:    true,
			IsLifecycle: LifecycleMethods[name],
		}
		if m[6] != -1 {
			fn.Modifiers = append(fn.Modifiers, "async")
		}

		head := shallow[m[8]:m[9]]
		if head == "(" {
			open := m[8]
			closeIdx := matchingClose(body, open)
			if closeIdx < 0 {
				continue
			}
			tail := reArrowTail.FindStringSubmatch(body[closeIdx+1:])
			if tail == nil {
				continue
			}
			fn.Parameters = ParseParameters(code[open+1 : closeIdx])
			fn.ReturnType = strings.TrimSpace(tail[1])
		} else {
			fn.Parameters = ParseParameters(strings.TrimSpace(strings.TrimSuffix(head, "=>")))
		}

		seen[name] = true
		methods = append(methods, fn)
	}

	return methods
}

// isMemberBodyStart reports whether the text after a parameter list starts a
// method body or ends a signature (interfaces, abstract and overloads)
func isMemberBodyStart(rest string) bool {
	trimmed := strings.TrimLeft(rest, " \t\r")
	if trimmed == "" || trimmed[0] == '\n' {
		return true
	}
	switch trimmed[0] {
	case '{', ':', ';', ',', '}':
		return true
	}
	return false
}

// blankNested blanks everything enclosed by nested braces, keeping the
// braces themselves so that statement boundaries stay visible
func blankNested(body string) string {
	buf := []byte(body)
	depth := 0
	for i := 0; i < len(buf); i++ {
		switch buf[i] {
		case '{':
			depth++
			if depth > 1 {
				buf[i] = ' '
			}
			continue
		case '}':
			depth--
			if depth > 0 {
				buf[i] = ' '
			}
			continue
		}
		if depth > 0 && buf[i] != '\n' {
			buf[i] = ' '
		}
	}
	return string(buf)
}
