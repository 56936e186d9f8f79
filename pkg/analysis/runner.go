// Package analysis runs the scan pipeline: enumerate the tree, extract and
// resolve files concurrently, then merge them into one knowledge graph.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ritzau/jsgraph/pkg/cycles"
	"github.com/ritzau/jsgraph/pkg/deps"
	"github.com/ritzau/jsgraph/pkg/extract"
	"github.com/ritzau/jsgraph/pkg/finder"
	"github.com/ritzau/jsgraph/pkg/graph"
	"github.com/ritzau/jsgraph/pkg/logging"
	"github.com/ritzau/jsgraph/pkg/pubsub"
	"github.com/ritzau/jsgraph/pkg/resolve"
)

var logger = logging.New("analysis")

// ErrInvalidRoot is returned when the root is missing or not a directory
var ErrInvalidRoot = errors.New("invalid root directory")

// ProgressFunc is called once per merged source file
type ProgressFunc func(done, total int, path string)

// Options configures a run
type Options struct {
	Root     string
	Workers  int
	Progress ProgressFunc

	// Publisher receives scan_status events when set
	Publisher pubsub.Publisher
}

// Runner executes scans. Concurrent calls to Run are serialized.
type Runner struct {
	opts Options
	mu   sync.Mutex
}

// NewRunner creates a runner for the given options
func NewRunner(opts Options) *Runner {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	return &Runner{opts: opts}
}

// Root returns the configured scan root
func (r *Runner) Root() string {
	return r.opts.Root
}

// Result is the outcome of one run
type Result struct {
	Graph  *graph.KnowledgeGraph
	Report *Report
}

// slot holds the phase one output of one entry, merged in walk order
type slot struct {
	entry    finder.Entry
	facts    *extract.FileFacts
	resolved []resolve.Result
	manifest *deps.Manifest
	err      error
}

// Run scans the root. A per-file failure is recorded in the report; a
// run-level failure or cancellation aborts the run with an error.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	root := r.opts.Root

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRoot, root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidRoot, root)
	}

	resolver, err := resolve.New(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRoot, err)
	}

	logger.Info("Starting scan", "root", resolver.Root(), "workers", r.opts.Workers)
	r.publish(pubsub.ScanStateCounting, "Counting files...", 0, 0)

	total := 0
	if r.opts.Progress != nil || r.opts.Publisher != nil {
		if total, err = finder.Count(root); err != nil {
			return nil, fmt.Errorf("counting files: %w", err)
		}
	}

	r.publish(pubsub.ScanStateExtracting, "Extracting files...", 0, total)
	slots, err := r.collect(ctx, root, resolver)
	if err != nil {
		r.publish(pubsub.ScanStateError, err.Error(), 0, total)
		return nil, err
	}

	if total == 0 {
		for _, s := range slots {
			if s.entry.Kind == finder.KindSource {
				total++
			}
		}
	}

	r.publish(pubsub.ScanStateMerging, "Merging files...", 0, total)
	kg := graph.New()
	report, err := r.merge(ctx, kg, slots, total)
	if err != nil {
		r.publish(pubsub.ScanStateError, err.Error(), report.Stats.FilesProcessed, total)
		return nil, err
	}

	entries := make([]finder.Entry, len(slots))
	for i, s := range slots {
		entries[i] = s.entry
	}
	report.Stats.Directories = finder.CountDirectories(entries)
	report.Cycles = cycles.FindImportCycles(kg.Imports())
	report.Duration = time.Since(start)

	logger.Info("Scan complete",
		"files", report.Stats.FilesProcessed,
		"nodes", kg.NodeCount(),
		"edges", kg.EdgeCount(),
		"failed", report.Stats.FailedFiles,
		"cycles", len(report.Cycles),
		"duration", report.Duration.Round(time.Millisecond))
	r.publish(pubsub.ScanStateReady, "Scan complete", total, total)

	return &Result{Graph: kg, Report: report}, nil
}

// collect streams the walk into a bounded worker group. Every entry gets a
// slot at its walk index so the merge order does not depend on scheduling.
func (r *Runner) collect(ctx context.Context, root string, resolver *resolve.Resolver) ([]*slot, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)

	var slots []*slot
	walkErr := finder.Walk(root, func(e finder.Entry) error {
		if err := gctx.Err(); err != nil {
			return err
		}
		s := &slot{entry: e}
		slots = append(slots, s)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s.process(resolver)
			return nil
		})
		return nil
	})

	waitErr := g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if walkErr != nil {
		return nil, fmt.Errorf("enumerating %s: %w", root, walkErr)
	}
	if waitErr != nil {
		return nil, waitErr
	}
	return slots, nil
}

func (s *slot) process(resolver *resolve.Resolver) {
	if s.entry.Kind == finder.KindManifest {
		s.manifest, s.err = deps.ParseFile(s.entry.Path, s.entry.RelPath)
		return
	}

	content, err := os.ReadFile(s.entry.Path)
	if err != nil {
		s.err = fmt.Errorf("reading %s: %w", s.entry.RelPath, err)
		return
	}

	s.facts, s.err = extract.Extract(s.entry.RelPath, content)
	if s.facts == nil {
		return
	}
	s.resolved = make([]resolve.Result, len(s.facts.Imports))
	for i, imp := range s.facts.Imports {
		s.resolved[i] = resolver.Resolve(s.entry.RelPath, imp.Specifier)
	}
}

// merge folds the slots into the graph one at a time in walk order
func (r *Runner) merge(ctx context.Context, kg *graph.KnowledgeGraph, slots []*slot, total int) (*Report, error) {
	report := &Report{}
	dependencies := make(map[string]struct{})
	done := 0

	for _, s := range slots {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		var c graph.Contribution
		switch s.entry.Kind {
		case finder.KindManifest:
			if s.err != nil {
				logger.Warn("Failed to parse manifest", "file", s.entry.RelPath, "error", s.err)
			}
			c = kg.MergeManifest(s.entry.RelPath, s.manifest)
			report.Outcomes = append(report.Outcomes, outcomeOf(s))

		case finder.KindSource:
			report.Stats.TotalFiles++
			if s.err != nil {
				logger.Warn("Failed to process file", "file", s.entry.RelPath, "error", s.err)
				report.Stats.FailedFiles++
			}
			c = kg.MergeFile(graph.FileInput{Path: s.entry.RelPath, Facts: s.facts, Resolved: s.resolved})
			report.Stats.FilesProcessed++
			report.Outcomes = append(report.Outcomes, outcomeOf(s))

			done++
			if r.opts.Progress != nil {
				r.opts.Progress(done, total, s.entry.RelPath)
			}
			if r.opts.Publisher != nil && (done == total || done%50 == 0) {
				r.publish(pubsub.ScanStateMerging, s.entry.RelPath, done, total)
			}
		}

		report.Stats.add(c)
		for _, name := range c.Dependencies {
			dependencies[name] = struct{}{}
		}
	}

	report.Stats.TotalDependencies = len(dependencies)
	return report, nil
}

func (r *Runner) publish(state, message string, done, total int) {
	if r.opts.Publisher == nil {
		return
	}
	status := pubsub.ScanStatus{State: state, Message: message, Done: done, Total: total}
	if err := r.opts.Publisher.Publish(pubsub.TopicScanStatus, state, status); err != nil {
		logger.Debug("Failed to publish scan status", "error", err)
	}
}
