package extract

import (
	"regexp"
	"strings"
)

// Parameter describes one entry of a parameter list. The classifications are
// independent: a destructured parameter may carry a type and a default.
type Parameter struct {
	Name         string `json:"name"`
	Type         string `json:"type,omitempty"`
	Default      string `json:"default,omitempty"`
	Destructured bool   `json:"destructured,omitempty"`
	Optional     bool   `json:"optional,omitempty"`
	Rest         bool   `json:"rest,omitempty"`
}

var reParamModifiers = regexp.MustCompile(`^(?:(?:readonly|public|private|protected|override)\s+)+`)

// ParseParameters parses a parameter-list string such as
// `a: number, b = {x:1,y:2}, {c,d}: Props`. An enclosing pair of parentheses
// is accepted and stripped.
func ParseParameters(list string) []Parameter {
	list = strings.TrimSpace(list)
	if strings.HasPrefix(list, "(") && matchingClose(list, 0) == len(list)-1 {
		list = list[1 : len(list)-1]
	}

	var params []Parameter
	for _, fragment := range SplitParameters(list) {
		params = append(params, parseParameter(fragment))
	}
	return params
}

// SplitParameters splits on commas that are not nested inside (), {}, [],
// generic angle brackets or string literals. A '<' opens a generic list only
// directly after an identifier, so `a = x < y, b` still splits.
func SplitParameters(list string) []string {
	var (
		parts   []string
		depth   int
		angle   int
		current strings.Builder
	)

	emit := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			parts = append(parts, s)
		}
		current.Reset()
	}

	for i := 0; i < len(list); i++ {
		c := list[i]
		switch c {
		case '\'', '"', '`':
			end := quotedEnd(list, i)
			current.WriteString(list[i : end+1])
			i = end
			continue
		case '(', '{', '[':
			depth++
		case ')', '}', ']':
			depth--
		case '<':
			if opensGeneric(list, i) {
				angle++
			}
		case '>':
			// the arrow in `=> T` is not a closing bracket
			if i > 0 && list[i-1] == '=' {
				break
			}
			if angle > 0 {
				angle--
			}
		case ',':
			if depth == 0 && angle == 0 {
				emit()
				continue
			}
		}
		current.WriteByte(c)
	}
	emit()

	return parts
}

func parseParameter(fragment string) Parameter {
	p := Parameter{Name: fragment}
	text := reParamModifiers.ReplaceAllString(fragment, "")

	if strings.HasPrefix(text, "...") {
		p.Rest = true
		text = strings.TrimSpace(text[3:])
	}

	// default value: everything after the first top-level '='
	if eq := topLevelAssign(text); eq >= 0 {
		p.Default = strings.TrimSpace(text[eq+1:])
		text = strings.TrimSpace(text[:eq])
	}

	var name string
	if strings.HasPrefix(text, "{") || strings.HasPrefix(text, "[") {
		p.Destructured = true
		end := matchingClose(text, 0)
		if end < 0 {
			end = len(text) - 1
		}
		name = text[:end+1]
		text = strings.TrimSpace(text[end+1:])
	} else {
		i := 0
		for i < len(text) && isIdentByte(text[i]) {
			i++
		}
		name = text[:i]
		text = strings.TrimSpace(text[i:])
	}

	if strings.HasPrefix(text, "?") {
		p.Optional = true
		text = strings.TrimSpace(text[1:])
	} else if strings.HasPrefix(text, "!") {
		text = strings.TrimSpace(text[1:])
	}

	if strings.HasPrefix(text, ":") {
		p.Type = strings.TrimSpace(text[1:])
	}

	if name != "" {
		p.Name = name
	}
	return p
}

// topLevelAssign returns the index of the first '=' at nesting depth zero
// that is not part of `=>`, `==`, `<=`, `>=` or `!=`
func topLevelAssign(s string) int {
	depth, angle := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\'', '"', '`':
			i = quotedEnd(s, i)
		case '(', '{', '[':
			depth++
		case ')', '}', ']':
			depth--
		case '<':
			if opensGeneric(s, i) {
				angle++
			}
		case '>':
			if i > 0 && s[i-1] == '=' {
				continue
			}
			if angle > 0 {
				angle--
			}
		case '=':
			if depth != 0 || angle != 0 {
				continue
			}
			if i+1 < len(s) && (s[i+1] == '>' || s[i+1] == '=') {
				i++
				continue
			}
			if i > 0 && strings.ContainsRune("<>!=", rune(s[i-1])) {
				continue
			}
			return i
		}
	}
	return -1
}

// quotedEnd returns the offset of the quote closing the literal that opens
// at i, or the last offset of s when it is unterminated
func quotedEnd(s string, i int) int {
	quote := s[i]
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case quote:
			return j
		}
	}
	return len(s) - 1
}

func opensGeneric(s string, i int) bool {
	return i > 0 && isIdentByte(s[i-1])
}

// matchingClose returns the offset of the bracket closing the one at open,
// or -1 when it is unbalanced
func matchingClose(s string, open int) int {
	if open >= len(s) {
		return -1
	}
	var closer byte
	switch s[open] {
	case '(':
		closer = ')'
	case '{':
		closer = '}'
	case '[':
		closer = ']'
	default:
		return -1
	}
	opener := s[open]
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case opener:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
