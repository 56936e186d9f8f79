package analysis

import (
	"errors"
	"time"

	"github.com/ritzau/jsgraph/pkg/cycles"
	"github.com/ritzau/jsgraph/pkg/extract"
	"github.com/ritzau/jsgraph/pkg/graph"
)

// Stats are the aggregate counters of one run
type Stats struct {
	TotalFiles        int `json:"total_files"`
	FilesProcessed    int `json:"files_processed"`
	Directories       int `json:"directories"`
	TotalClasses      int `json:"total_classes"`
	TotalFunctions    int `json:"total_functions"`
	TotalExports      int `json:"total_exports"`
	TotalComponents   int `json:"total_components"`
	TotalHooks        int `json:"total_hooks"`
	TotalDependencies int `json:"total_dependencies"`
	TotalImports      int `json:"total_imports"`
	UnresolvedImports int `json:"unresolved_imports"`
	FailedFiles       int `json:"failed_files"`
}

func (s *Stats) add(c graph.Contribution) {
	s.TotalClasses += c.Classes
	s.TotalFunctions += c.Functions
	s.TotalExports += c.Exports
	s.TotalComponents += c.Components
	s.TotalHooks += c.Hooks
	s.TotalImports += c.Imports
	s.UnresolvedImports += c.Unresolved
}

// Status of a single file
type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

// FileOutcome records how one file fared. Step is set when extraction
// stopped at a failing step.
type FileOutcome struct {
	Path   string `json:"path"`
	Status Status `json:"status"`
	Step   string `json:"step,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Report is everything a run produced besides the graph
type Report struct {
	Stats    Stats                `json:"stats"`
	Outcomes []FileOutcome        `json:"outcomes"`
	Cycles   []cycles.ImportCycle `json:"import_cycles"`
	Duration time.Duration        `json:"duration"`
}

// Failures returns the failed outcomes in walk order
func (r *Report) Failures() []FileOutcome {
	failures := []FileOutcome{}
	for _, o := range r.Outcomes {
		if o.Status == StatusFailed {
			failures = append(failures, o)
		}
	}
	return failures
}

func outcomeOf(s *slot) FileOutcome {
	o := FileOutcome{Path: s.entry.RelPath, Status: StatusOK}
	if s.err == nil {
		return o
	}
	o.Status = StatusFailed
	o.Error = s.err.Error()

	var stepErr *extract.StepError
	if errors.As(s.err, &stepErr) {
		o.Step = string(stepErr.Step)
	}
	return o
}
