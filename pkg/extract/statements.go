package extract

import (
	"regexp"
	"strings"
)

// Statement is an import/export statement reassembled from one or more lines
type Statement struct {
	Text string // joined code-view text (specifier strings intact)
	Line int    // 1-based line of the first fragment
}

// maxStatementLines bounds how many lines one statement may absorb when a
// trigger line never balances (e.g. a require() inside a large expression)
const maxStatementLines = 64

type joinState int

const (
	stateScanning joinState = iota
	stateAccumulating
)

var (
	reStatementTrigger = regexp.MustCompile(`^(?:import\b|export\s*(?:type\b\s*)?[*{]|(?:const|let|var)\s+\{[^}]*$)|\bimport\s*\(|\brequire\s*\(|\bexport\b.*\bfrom\b`)
	reClosedSpecifier  = regexp.MustCompile(`\b(?:from|import)\s*['"][^'"]*['"]\s*$`)
)

// JoinStatements walks the file line by line and joins import/export
// statements that span several lines. A statement is complete once its
// braces and parentheses balance and a terminator has been seen.
func JoinStatements(src *Source) []Statement {
	codeLines := strings.Split(src.Code, "\n")
	bareLines := strings.Split(src.Bare, "\n")

	var (
		out      []Statement
		state    = stateScanning
		code     strings.Builder
		bare     strings.Builder
		start    int
		absorbed int
	)

	flush := func() {
		out = append(out, Statement{Text: code.String(), Line: start})
		code.Reset()
		bare.Reset()
		absorbed = 0
		state = stateScanning
	}

	for i, bareLine := range bareLines {
		bareLine = strings.TrimSpace(bareLine)
		if bareLine == "" {
			continue
		}
		codeLine := strings.TrimSpace(codeLines[i])

		switch state {
		case stateScanning:
			if !reStatementTrigger.MatchString(bareLine) {
				continue
			}
			start = i + 1
			code.WriteString(codeLine)
			bare.WriteString(bareLine)
			absorbed = 1

		case stateAccumulating:
			code.WriteByte(' ')
			code.WriteString(codeLine)
			bare.WriteByte(' ')
			bare.WriteString(bareLine)
			absorbed++
		}

		if statementComplete(bare.String(), code.String()) || absorbed >= maxStatementLines {
			flush()
			continue
		}
		state = stateAccumulating
	}

	if state == stateAccumulating {
		flush()
	}

	return out
}

func statementComplete(bare, code string) bool {
	if strings.Count(bare, "{") != strings.Count(bare, "}") ||
		strings.Count(bare, "(") != strings.Count(bare, ")") {
		return false
	}
	if strings.Contains(bare, ";") ||
		strings.HasSuffix(bare, ")") ||
		strings.HasSuffix(bare, "}") {
		return true
	}
	return reClosedSpecifier.MatchString(code)
}
