package watcher

import "fmt"

// ChangeSummary describes a debounced batch for logs and status messages.
// Every batch triggers a full re-run; there is no incremental analysis.
type ChangeSummary struct {
	Sources   int
	Manifests int
	Files     []string
}

// Add folds an event into the summary
func (s *ChangeSummary) Add(event ChangeEvent) {
	switch event.Type {
	case ChangeTypeSource:
		s.Sources += len(event.Paths)
	case ChangeTypeManifest:
		s.Manifests += len(event.Paths)
	}
	s.Files = append(s.Files, event.Paths...)
}

// Reason returns a short human readable description
func (s *ChangeSummary) Reason() string {
	switch {
	case s.Manifests > 0 && s.Sources > 0:
		return fmt.Sprintf("%d source file(s) and %d manifest(s) changed", s.Sources, s.Manifests)
	case s.Manifests > 0:
		return fmt.Sprintf("%d manifest(s) changed", s.Manifests)
	case s.Sources > 0:
		return fmt.Sprintf("%d source file(s) changed", s.Sources)
	}
	return "no changes"
}
