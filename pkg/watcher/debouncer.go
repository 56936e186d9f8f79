package watcher

import (
	"context"
	"slices"
	"time"
)

// flushOrder puts manifests first since they change the dependency picture
var flushOrder = []ChangeType{ChangeTypeManifest, ChangeTypeSource}

// Debouncer coalesces a burst of saves into one batch per change type
type Debouncer struct {
	input       <-chan ChangeEvent
	output      chan ChangeEvent
	quietPeriod time.Duration
	maxWait     time.Duration
}

// NewDebouncer creates a debouncer. A batch is flushed after quietPeriod
// without events, or maxWait after its first event.
func NewDebouncer(input <-chan ChangeEvent, quietPeriod, maxWait time.Duration) *Debouncer {
	return &Debouncer{
		input:       input,
		output:      make(chan ChangeEvent, 10),
		quietPeriod: quietPeriod,
		maxWait:     maxWait,
	}
}

// Start runs the debouncer until ctx is done or the input closes. The
// output channel is closed when it stops.
func (d *Debouncer) Start(ctx context.Context) {
	go d.run(ctx)
}

// Output returns the channel of debounced batches
func (d *Debouncer) Output() <-chan ChangeEvent {
	return d.output
}

// batch collects changed paths per type
type batch struct {
	paths  map[ChangeType]map[string]struct{}
	events int
}

func (b *batch) add(e ChangeEvent) {
	if b.paths == nil {
		b.paths = make(map[ChangeType]map[string]struct{})
	}
	set, ok := b.paths[e.Type]
	if !ok {
		set = make(map[string]struct{})
		b.paths[e.Type] = set
	}
	for _, p := range e.Paths {
		set[p] = struct{}{}
	}
	b.events++
}

// drain empties the batch into one sorted event per change type
func (b *batch) drain(now time.Time) []ChangeEvent {
	var out []ChangeEvent
	for _, t := range flushOrder {
		set := b.paths[t]
		if len(set) == 0 {
			continue
		}
		paths := make([]string, 0, len(set))
		for p := range set {
			paths = append(paths, p)
		}
		slices.Sort(paths)
		out = append(out, ChangeEvent{Type: t, Paths: paths, Timestamp: now})
	}
	*b = batch{}
	return out
}

func (d *Debouncer) run(ctx context.Context) {
	defer close(d.output)

	var (
		pending  batch
		quiet    <-chan time.Time
		deadline <-chan time.Time
	)

	flush := func() {
		quiet, deadline = nil, nil
		if pending.events == 0 {
			return
		}
		logger.Debug("Flushing change batch", "events", pending.events)
		for _, e := range pending.drain(time.Now()) {
			select {
			case d.output <- e:
			case <-ctx.Done():
				return
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-d.input:
			if !ok {
				flush()
				return
			}
			pending.add(e)
			quiet = time.After(d.quietPeriod)
			if deadline == nil {
				deadline = time.After(d.maxWait)
			}
		case <-quiet:
			flush()
		case <-deadline:
			flush()
		}
	}
}
