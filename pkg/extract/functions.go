package extract

import (
	"regexp"
	"sort"
	"strings"
)

// FunctionForm records which declaration shape produced a function
type FunctionForm string

const (
	FormDeclared   FunctionForm = "declared"
	FormTypedFC    FunctionForm = "typed_fc"
	FormArrow      FunctionForm = "arrow"
	FormMemo       FunctionForm = "memo"
	FormForwardRef FunctionForm = "forward_ref"
	FormHook       FunctionForm = "hook"
	FormHOC        FunctionForm = "hoc"
	FormMethod     FunctionForm = "method"
)

// Function is a file-level function or a class member
type Function struct {
	Name        string       `json:"name"`
	Class       string       `json:"class,omitempty"`
	Form        FunctionForm `json:"form"`
	Parameters  []Parameter  `json:"parameters"`
	ReturnType  string       `json:"returnType,omitempty"`
	Modifiers   []string     `json:"modifiers,omitempty"`
	Exported    bool         `json:"exported"`
	IsHook      bool         `json:"isHook"`
	IsComponent bool         `json:"isComponent"`
	IsMethod    bool         `json:"isMethod"`
	IsLifecycle bool         `json:"isLifecycle"`
	Line        int          `json:"line"`
}

var (
	reFuncDeclared = regexp.MustCompile(`\b(export\s+(?:default\s+)?)?(?:declare\s+)?(async\s+)?function\s*\*?\s*([\w$]+)\s*(?:<[^>(]*>)?\s*\(`)
	reFuncTypedFC  = regexp.MustCompile(`\b(export\s+)?(?:const|let|var)\s+([\w$]+)\s*:\s*(?:React\.)?(?:FC|VFC|FunctionComponent|ComponentType)\b[^=]*=\s*(async\s*)?\(`)
	reFuncArrow    = regexp.MustCompile(`\b(export\s+)?(?:const|let|var)\s+([\w$]+)\s*(?::[^=]+)?=\s*(async\s*)?(?:<[^>(=]*>\s*)?\(`)
	reFuncArrowOne = regexp.MustCompile(`\b(export\s+)?(?:const|let|var)\s+([\w$]+)\s*=\s*(async\s+)?([\w$]+)\s*=>`)
	reFuncWrapped  = regexp.MustCompile(`\b(export\s+)?(?:const|let|var)\s+([\w$]+)\s*(?::[^=]+)?=\s*(?:React\.)?(memo|forwardRef)\s*(?:<[^>(]*>)?\s*\(`)
	reFuncHook     = regexp.MustCompile(`\b(export\s+)?(?:function|const|let|var)\s+(use[A-Z0-9][\w$]*)\b`)
	reFuncHOC      = regexp.MustCompile(`\b(export\s+)?(?:const|let|var)\s+([\w$]+)\s*(?::[^=]+)?=\s*(with[A-Z][\w$]*)\s*\(`)
	reWrappedInner = regexp.MustCompile(`^\s*(?:async\s+)?(?:function\s*\*?\s*[\w$]*\s*)?\(`)

	reHookName = regexp.MustCompile(`^use[A-Z0-9]`)
)

var componentNameParts = []string{"Page", "Component", "View", "Layout"}

// IsHookName reports whether name follows the hook naming convention
func IsHookName(name string) bool {
	return reHookName.MatchString(name)
}

// IsComponentName reports whether name carries one of the component suffixes
func IsComponentName(name string) bool {
	for _, part := range componentNameParts {
		if strings.Contains(name, part) {
			return true
		}
	}
	return false
}

type functionCollector struct {
	src   *Source
	seen  map[string]bool
	calls map[string]bool
	out   []Function
}

// ExtractFunctions applies the function pattern families in order. The first
// family to produce a name wins; names that also appear as a method-call
// target (`.name(`) are discarded.
func ExtractFunctions(src *Source) []Function {
	c := &functionCollector{
		src:   src,
		seen:  make(map[string]bool),
		calls: methodCallTargets(src.Bare),
	}

	c.declared()
	c.typedFC()
	c.arrows()
	c.wrapped()
	c.hooks()
	c.hocs()

	sort.SliceStable(c.out, func(i, j int) bool { return c.out[i].Line < c.out[j].Line })
	return c.out
}

func (c *functionCollector) add(fn Function, pos int) {
	if c.seen[fn.Name] || c.calls[fn.Name] {
		return
	}
	c.seen[fn.Name] = true

	fn.Line = lineAt(c.src.Bare, pos)
	fn.IsHook = IsHookName(fn.Name)
	if IsComponentName(fn.Name) {
		fn.IsComponent = true
	}
	if fn.Parameters == nil {
		fn.Parameters = []Parameter{}
	}
	c.out = append(c.out, fn)
}

// params reads the parameter list whose '(' is at open and the return type
// annotation that follows it
func (c *functionCollector) params(open int) ([]Parameter, string, bool) {
	text := c.src.Bare
	closeIdx := matchingClose(text, open)
	if closeIdx < 0 {
		return nil, "", false
	}
	list := c.src.Code[open+1 : closeIdx]
	rest := text[closeIdx+1:]
	var ret string
	if tail := reArrowTail.FindStringSubmatch(rest); tail != nil {
		ret = strings.TrimSpace(tail[1])
	} else if rt := reReturnType.FindStringSubmatch(rest); rt != nil {
		ret = strings.TrimSpace(rt[1])
	}
	return ParseParameters(list), ret, true
}

func (c *functionCollector) declared() {
	text := c.src.Bare
	for _, m := range reFuncDeclared.FindAllStringSubmatchIndex(text, -1) {
		params, ret, ok := c.params(m[1] - 1)
		if !ok {
			continue
		}
		fn := Function{
			Name:       text[m[6]:m[7]],
			Form:       FormDeclared,
			Parameters: params,
			ReturnType: ret,
			Exported:   m[2] != -1,
		}
		if m[4] != -1 {
			fn.Modifiers = []string{"async"}
		}
		c.add(fn, m[0])
	}
}

func (c *functionCollector) typedFC() {
	text := c.src.Bare
	for _, m := range reFuncTypedFC.FindAllStringSubmatchIndex(text, -1) {
		params, ret, ok := c.params(m[1] - 1)
		if !ok {
			continue
		}
		fn := Function{
			Name:        text[m[4]:m[5]],
			Form:        FormTypedFC,
			Parameters:  params,
			ReturnType:  ret,
			Exported:    m[2] != -1,
			IsComponent: true,
		}
		if m[6] != -1 {
			fn.Modifiers = []string{"async"}
		}
		c.add(fn, m[0])
	}
}

func (c *functionCollector) arrows() {
	text := c.src.Bare
	for _, m := range reFuncArrow.FindAllStringSubmatchIndex(text, -1) {
		open := m[1] - 1
		closeIdx := matchingClose(text, open)
		if closeIdx < 0 {
			continue
		}
		tail := reArrowTail.FindStringSubmatch(text[closeIdx+1:])
		if tail == nil {
			// a parenthesised expression or call, not an arrow function
			continue
		}
		fn := Function{
			Name:       text[m[4]:m[5]],
			Form:       FormArrow,
			Parameters: ParseParameters(c.src.Code[open+1 : closeIdx]),
			ReturnType: strings.TrimSpace(tail[1]),
			Exported:   m[2] != -1,
		}
		if m[6] != -1 {
			fn.Modifiers = []string{"async"}
		}
		c.add(fn, m[0])
	}

	for _, m := range reFuncArrowOne.FindAllStringSubmatchIndex(text, -1) {
		fn := Function{
			Name:       text[m[4]:m[5]],
			Form:       FormArrow,
			Parameters: []Parameter{{Name: text[m[8]:m[9]]}},
			Exported:   m[2] != -1,
		}
		if m[6] != -1 {
			fn.Modifiers = []string{"async"}
		}
		c.add(fn, m[0])
	}
}

func (c *functionCollector) wrapped() {
	text := c.src.Bare
	for _, m := range reFuncWrapped.FindAllStringSubmatchIndex(text, -1) {
		fn := Function{
			Name:        text[m[4]:m[5]],
			Form:        FormMemo,
			Exported:    m[2] != -1,
			IsComponent: true,
		}
		if text[m[6]:m[7]] == "forwardRef" {
			fn.Form = FormForwardRef
		}

		// memo((props) => ...) and forwardRef(function X(props, ref) {...})
		rest := text[m[1]:]
		if inner := reWrappedInner.FindStringIndex(rest); inner != nil {
			if params, ret, ok := c.params(m[1] + inner[1] - 1); ok {
				fn.Parameters = params
				fn.ReturnType = ret
			}
		}
		c.add(fn, m[0])
	}
}

func (c *functionCollector) hooks() {
	text := c.src.Bare
	for _, m := range reFuncHook.FindAllStringSubmatchIndex(text, -1) {
		c.add(Function{
			Name:     text[m[4]:m[5]],
			Form:     FormHook,
			Exported: m[2] != -1,
		}, m[0])
	}
}

func (c *functionCollector) hocs() {
	text := c.src.Bare
	for _, m := range reFuncHOC.FindAllStringSubmatchIndex(text, -1) {
		c.add(Function{
			Name:      text[m[4]:m[5]],
			Form:      FormHOC,
			Exported:  m[2] != -1,
			Modifiers: []string{text[m[6]:m[7]]},
		}, m[0])
	}
}

var reMethodCall = regexp.MustCompile(`\.\s*([A-Za-z_$][\w$]*)\s*\(`)

// methodCallTargets collects every name used as `.name(` in the file
func methodCallTargets(text string) map[string]bool {
	out := make(map[string]bool)
	for _, m := range reMethodCall.FindAllStringSubmatch(text, -1) {
		out[m[1]] = true
	}
	return out
}
