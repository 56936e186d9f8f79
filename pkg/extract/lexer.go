package extract

import (
	"path"
	"strings"
)

// Source holds byte-aligned views of a file's text. Offsets and line numbers
// are identical across all three views.
//
//	Raw:  the file as read
//	Code: comments blanked
//	Bare: comments and the contents of string, template and regex literals blanked
//
// Pattern families run on Bare so that text inside comments and literals
// never produces facts. Import specifiers are read from Code.
type Source struct {
	Raw  string
	Code string
	Bare string
}

// NewSource lexes text once and builds its views. JSX elements are
// recognized; use NewSourceFor when the file name is known.
func NewSource(text string) *Source {
	return lex(text, true)
}

// NewSourceFor lexes text as the file at filePath. Plain .ts files (and
// .mts, .cts, .d.ts) cannot contain JSX, so '<' is never taken as a tag there.
func NewSourceFor(filePath, text string) *Source {
	switch path.Ext(filePath) {
	case ".ts", ".mts", ".cts":
		return lex(text, false)
	}
	return lex(text, true)
}

func lex(text string, jsx bool) *Source {
	l := &lexer{
		src:  text,
		code: []byte(text),
		bare: []byte(text),
		jsx:  jsx,
	}
	l.scanCode(0, false)
	return &Source{
		Raw:  text,
		Code: string(l.code),
		Bare: string(l.bare),
	}
}

type lexer struct {
	src  string
	code []byte
	bare []byte
	jsx  bool

	// last significant token, used to tell a regex literal from division
	lastSig  byte
	lastWord string
}

// keywords after which a slash starts a regex literal
var regexKeywords = map[string]bool{
	"return": true, "typeof": true, "case": true, "do": true, "else": true,
	"in": true, "of": true, "new": true, "delete": true, "void": true,
	"throw": true, "yield": true, "await": true,
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c >= 0x80
}

func blank(buf []byte, from, to int) {
	for i := from; i < to && i < len(buf); i++ {
		if buf[i] != '\n' {
			buf[i] = ' '
		}
	}
}

// scanCode scans ordinary code starting at i. Inside a template or JSX
// expression it stops at the '}' that closes it and returns its offset.
func (l *lexer) scanCode(i int, inTemplate bool) int {
	depth := 0
	for i < len(l.src) {
		c := l.src[i]
		switch {
		case c == '/' && i+1 < len(l.src) && l.src[i+1] == '/':
			end := i
			for end < len(l.src) && l.src[end] != '\n' {
				end++
			}
			blank(l.code, i, end)
			blank(l.bare, i, end)
			i = end
			continue

		case c == '/' && i+1 < len(l.src) && l.src[i+1] == '*':
			end := i + 2
			for end < len(l.src) && !(l.src[end] == '*' && end+1 < len(l.src) && l.src[end+1] == '/') {
				end++
			}
			end += 2
			if end > len(l.src) {
				end = len(l.src)
			}
			blank(l.code, i, end)
			blank(l.bare, i, end)
			i = end
			continue

		case c == '\'' || c == '"':
			i = l.scanString(i)
			l.lastSig, l.lastWord = c, ""
			continue

		case c == '`':
			i = l.scanTemplate(i)
			l.lastSig, l.lastWord = c, ""
			continue

		case c == '/' && l.regexAllowed():
			if end, ok := l.regexEnd(i); ok {
				blank(l.bare, i+1, end)
				i = end + 1
				l.lastSig, l.lastWord = '/', ""
				continue
			}

		case c == '<' && l.jsxAt(i):
			i = l.scanElement(i)
			l.lastSig, l.lastWord = ')', ""
			continue

		case c == '{':
			depth++

		case c == '}':
			if inTemplate && depth == 0 {
				return i
			}
			depth--

		case isIdentByte(c):
			start := i
			for i < len(l.src) && isIdentByte(l.src[i]) {
				i++
			}
			l.lastSig, l.lastWord = l.src[i-1], l.src[start:i]
			continue
		}

		if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			l.lastSig, l.lastWord = c, ""
		}
		i++
	}
	return i
}

// scanString skips a quoted literal. Unterminated strings end at the line break.
func (l *lexer) scanString(i int) int {
	quote := l.src[i]
	j := i + 1
	for j < len(l.src) {
		switch l.src[j] {
		case '\\':
			j += 2
			continue
		case '\n':
			blank(l.bare, i+1, j)
			return j
		case quote:
			blank(l.bare, i+1, j)
			return j + 1
		}
		j++
	}
	blank(l.bare, i+1, len(l.src))
	return len(l.src)
}

// scanTemplate skips a template literal including nested ${...} expressions.
// The whole literal body is blanked in the bare view.
func (l *lexer) scanTemplate(i int) int {
	j := i + 1
	for j < len(l.src) {
		switch {
		case l.src[j] == '\\':
			j += 2
			continue
		case l.src[j] == '`':
			blank(l.bare, i+1, j)
			return j + 1
		case l.src[j] == '$' && j+1 < len(l.src) && l.src[j+1] == '{':
			j = l.scanCode(j+2, true) + 1
			continue
		}
		j++
	}
	blank(l.bare, i+1, len(l.src))
	return len(l.src)
}

func (l *lexer) regexAllowed() bool {
	if l.lastWord != "" {
		return regexKeywords[l.lastWord]
	}
	switch l.lastSig {
	case 0, '(', ',', '=', ':', '[', '!', '&', '|', '?', '{', ';', '+', '-', '*', '%', '~', '^':
		return true
	}
	return false
}

// regexEnd finds the closing slash of a regex literal on the same line
func (l *lexer) regexEnd(i int) (int, bool) {
	inClass := false
	for j := i + 1; j < len(l.src); j++ {
		switch l.src[j] {
		case '\\':
			j++
		case '\n':
			return 0, false
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '/':
			if !inClass {
				return j, true
			}
		}
	}
	return 0, false
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isTagNameByte(c byte) bool {
	return isIdentByte(c) || c == '.' || c == ':' || c == '-'
}

// looksGeneric reports whether the text following `<Name` continues a type
// parameter list (`<T,`, `<T extends`, `<T = X>`, `<T>(`) rather than a tag
func looksGeneric(rest string) bool {
	if strings.HasPrefix(rest, ">(") {
		return true
	}
	t := strings.TrimLeft(rest, " \t")
	switch {
	case strings.HasPrefix(t, ","):
		return true
	case strings.HasPrefix(t, "=") && !strings.HasPrefix(t, "=>"):
		return true
	case strings.HasPrefix(t, "extends") && len(t) > len("extends") && !isIdentByte(t[len("extends")]):
		return true
	}
	return false
}

// jsxAt reports whether the '<' at i opens a JSX element: it stands where
// an expression may start and is followed by a tag name or '>' (fragment)
func (l *lexer) jsxAt(i int) bool {
	if !l.jsx || i+1 >= len(l.src) {
		return false
	}
	if !l.regexAllowed() && !l.afterArrow(i) {
		return false
	}
	next := l.src[i+1]
	if next == '>' {
		return true
	}
	if !isLetter(next) {
		return false
	}
	j := i + 1
	for j < len(l.src) && isTagNameByte(l.src[j]) {
		j++
	}
	return !looksGeneric(l.src[j:])
}

// afterArrow reports whether the last code before i is `=>`. The code view
// is used so that a comment in between is already blank.
func (l *lexer) afterArrow(i int) bool {
	j := i - 1
	for j >= 0 && (l.code[j] == ' ' || l.code[j] == '\t' || l.code[j] == '\n' || l.code[j] == '\r') {
		j--
	}
	return j >= 1 && l.code[j] == '>' && l.code[j-1] == '='
}

// scanElement skips a JSX element starting at its '<' and returns the offset
// after it. Attribute strings and {expressions} are lexed; everything else
// in the tag is left as is.
func (l *lexer) scanElement(i int) int {
	j := i + 1
	for j < len(l.src) {
		switch c := l.src[j]; {
		case c == '{':
			j = l.scanCode(j+1, true) + 1
			continue
		case c == '"' || c == '\'':
			j = l.scanString(j)
			continue
		case c == '/' && j+1 < len(l.src) && l.src[j+1] == '>':
			return j + 2
		case c == '>':
			return l.scanChildren(j + 1)
		}
		j++
	}
	return len(l.src)
}

// scanChildren skips JSX children up to and including the closing tag.
// Child text is not code: quotes, slashes and comment openers in it mean
// nothing and nothing in it is blanked.
func (l *lexer) scanChildren(j int) int {
	for j < len(l.src) {
		c := l.src[j]
		switch {
		case c == '{':
			j = l.scanCode(j+1, true) + 1
			continue
		case c == '<' && j+1 < len(l.src) && l.src[j+1] == '/':
			for j < len(l.src) && l.src[j] != '>' {
				j++
			}
			return min(j+1, len(l.src))
		case c == '<' && j+1 < len(l.src) && (isLetter(l.src[j+1]) || l.src[j+1] == '>'):
			j = l.scanElement(j)
			continue
		}
		j++
	}
	return len(l.src)
}
