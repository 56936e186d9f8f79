package extract

import "regexp"

// Usage is a referenced component or hook name with its first occurrence
type Usage struct {
	Name string `json:"name"`
	Line int    `json:"line"`
}

var reHookCall = regexp.MustCompile(`\b(use[A-Z0-9][\w$]*)\s*\(`)

// ExtractComponents finds capitalized JSX tags such as <Widget /> or
// <Layout.Header>. A '<' directly after an identifier is a generic argument
// list and is ignored, as is a type parameter list such as <T>(x: T) => x.
func ExtractComponents(src *Source) []Usage {
	text := src.Bare
	seen := make(map[string]bool)
	var out []Usage

	for i := 0; i < len(text); i++ {
		if text[i] != '<' {
			continue
		}
		if i > 0 && isIdentByte(text[i-1]) {
			continue
		}

		j := i + 1
		if j >= len(text) || text[j] < 'A' || text[j] > 'Z' {
			continue
		}
		for j < len(text) && (isIdentByte(text[j]) || text[j] == '.') {
			j++
		}
		name := text[i+1 : j]
		if name[len(name)-1] == '.' {
			continue
		}
		if looksGeneric(text[j:]) {
			continue
		}
		if j < len(text) {
			switch text[j] {
			case ' ', '\t', '\n', '\r', '/', '>':
			default:
				continue
			}
		}

		if !seen[name] {
			seen[name] = true
			out = append(out, Usage{Name: name, Line: lineAt(text, i)})
		}
	}

	return out
}

// ExtractHooks finds hook invocations, including those of hooks the file
// declares itself
func ExtractHooks(src *Source) []Usage {
	text := src.Bare
	seen := make(map[string]bool)
	var out []Usage

	for _, m := range reHookCall.FindAllStringSubmatchIndex(text, -1) {
		name := text[m[2]:m[3]]
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, Usage{Name: name, Line: lineAt(text, m[0])})
	}

	return out
}
