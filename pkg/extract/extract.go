// Package extract pulls syntactic facts out of JavaScript and TypeScript
// source text: exports, imports, classes and their members, functions, JSX
// component usage and hook usage.
package extract

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrNotUTF8 is returned for files that are not valid UTF-8 text
var ErrNotUTF8 = errors.New("file is not valid UTF-8")

// Step names one extraction stage. Steps run in the order of Steps.
type Step string

const (
	StepLex          Step = "lex"
	StepExports      Step = "exports"
	StepImports      Step = "imports"
	StepDeclarations Step = "declarations"
	StepFunctions    Step = "functions"
	StepComponents   Step = "components"
	StepHooks        Step = "hooks"
)

// Steps is the fixed extraction order
var Steps = []Step{StepExports, StepImports, StepDeclarations, StepFunctions, StepComponents, StepHooks}

// StepError reports the step at which extraction of a file stopped
type StepError struct {
	Path string
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %s step failed: %v", e.Path, e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// FileFacts is everything extracted from one source file
type FileFacts struct {
	Path       string     `json:"path"`
	Exports    []Export   `json:"exports,omitempty"`
	Imports    []Import   `json:"imports,omitempty"`
	Classes    []Class    `json:"classes,omitempty"`
	Functions  []Function `json:"functions,omitempty"`
	Components []Usage    `json:"components,omitempty"`
	Hooks      []Usage    `json:"hooks,omitempty"`

	// Completed lists the steps that finished
	Completed []Step `json:"completed"`
}

// ExportNames returns the export set in declaration order without repeats
func (f *FileFacts) ExportNames() []string {
	seen := make(map[string]bool, len(f.Exports))
	var names []string
	for _, e := range f.Exports {
		if !seen[e.Name] {
			seen[e.Name] = true
			names = append(names, e.Name)
		}
	}
	return names
}

// Extract runs every step over content. When a step fails the remaining steps
// are skipped and the returned facts hold what completed, together with a
// *StepError.
func Extract(path string, content []byte) (*FileFacts, error) {
	facts := &FileFacts{Path: path}

	if !utf8.Valid(content) {
		return facts, &StepError{Path: path, Step: StepLex, Err: ErrNotUTF8}
	}

	var src *Source
	if err := runStep(path, StepLex, func() error {
		src = NewSourceFor(path, string(content))
		return nil
	}); err != nil {
		return facts, err
	}

	steps := map[Step]func() error{
		StepExports: func() error {
			facts.Exports = ExtractExports(src)
			return nil
		},
		StepImports: func() error {
			facts.Imports = ExtractImports(JoinStatements(src))
			return nil
		},
		StepDeclarations: func() error {
			facts.Classes = ExtractDeclarations(src)
			return nil
		},
		StepFunctions: func() error {
			facts.Functions = ExtractFunctions(src)
			return nil
		},
		StepComponents: func() error {
			facts.Components = ExtractComponents(src)
			return nil
		},
		StepHooks: func() error {
			facts.Hooks = ExtractHooks(src)
			return nil
		},
	}

	for _, step := range Steps {
		if err := runStep(path, step, steps[step]); err != nil {
			return facts, err
		}
		facts.Completed = append(facts.Completed, step)
	}

	return facts, nil
}

func runStep(path string, step Step, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &StepError{Path: path, Step: step, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if err := fn(); err != nil {
		return &StepError{Path: path, Step: step, Err: err}
	}
	return nil
}
