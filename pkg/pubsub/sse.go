package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/ritzau/jsgraph/pkg/logging"
)

var logger = logging.New("pubsub")

// ErrClosed is returned by a publisher after Close
var ErrClosed = errors.New("publisher is closed")

// subscriptionBuffer is the channel capacity of each subscription
const subscriptionBuffer = 100

// TopicConfig controls what a late subscriber receives on a topic
type TopicConfig struct {
	BufferSize int  // events kept for late subscribers, 0 keeps none
	ReplayAll  bool // replay every kept event rather than only the newest
}

// topicState is everything the publisher tracks for one topic
type topicState struct {
	config  TopicConfig
	version int
	history []Event
	subs    map[*sseSubscription]struct{}
}

func (t *topicState) remember(e Event) {
	if t.config.BufferSize <= 0 {
		return
	}
	t.history = append(t.history, e)
	if over := len(t.history) - t.config.BufferSize; over > 0 {
		t.history = append(t.history[:0], t.history[over:]...)
	}
}

func (t *topicState) replay() []Event {
	if t.config.ReplayAll || len(t.history) <= 1 {
		return t.history
	}
	return t.history[len(t.history)-1:]
}

// SSEPublisher is the in-process Publisher behind the viewer's event
// stream. Delivery never blocks the publishing scan.
type SSEPublisher struct {
	mu     sync.RWMutex
	topics map[string]*topicState
	closed bool
}

// NewSSEPublisher creates a publisher. The scan status topic keeps its
// latest event so that a late subscriber learns the current state.
func NewSSEPublisher() *SSEPublisher {
	p := &SSEPublisher{topics: make(map[string]*topicState)}
	p.ConfigureTopic(TopicScanStatus, TopicConfig{BufferSize: 1})
	return p
}

// topic returns the state for name, creating it. Callers hold mu.
func (p *SSEPublisher) topic(name string) *topicState {
	t, ok := p.topics[name]
	if !ok {
		t = &topicState{subs: make(map[*sseSubscription]struct{})}
		p.topics[name] = t
	}
	return t
}

// ConfigureTopic sets the replay behavior of a topic
func (p *SSEPublisher) ConfigureTopic(name string, config TopicConfig) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topic(name).config = config
}

// Subscribe registers a subscription and replays kept events into it. The
// subscription is detached when ctx is done.
func (p *SSEPublisher) Subscribe(ctx context.Context, name string) (Subscription, error) {
	sub := &sseSubscription{
		topic:     name,
		events:    make(chan Event, subscriptionBuffer),
		publisher: p,
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrClosed
	}
	t := p.topic(name)
	t.subs[sub] = struct{}{}
	// replayed under the lock so that a concurrent Publish cannot overtake
	replayed := sub.offer(t.replay())
	p.mu.Unlock()

	if replayed > 0 {
		logger.Debug("Replayed events", "topic", name, "count", replayed)
	}

	go func() {
		<-ctx.Done()
		sub.Close()
	}()
	return sub, nil
}

// Publish sends an event to every subscriber of a topic. A subscriber whose
// channel is full misses the event.
func (p *SSEPublisher) Publish(name string, eventType string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", name, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}

	t := p.topic(name)
	t.version++
	event := Event{Topic: name, Type: eventType, Data: payload, Version: t.version}
	t.remember(event)

	for sub := range t.subs {
		if sub.offer([]Event{event}) == 0 {
			logger.Warn("Subscriber is lagging, event dropped", "topic", name, "version", event.Version)
		}
	}
	return nil
}

// Close ends every subscription by closing its channel. Later calls are
// no-ops.
func (p *SSEPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true

	for _, t := range p.topics {
		for sub := range t.subs {
			close(sub.events)
		}
		t.subs = nil
	}
	return nil
}

// SubscriberCount returns the number of open subscriptions to a topic
func (p *SSEPublisher) SubscriberCount(name string) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if t, ok := p.topics[name]; ok {
		return len(t.subs)
	}
	return 0
}

func (p *SSEPublisher) unsubscribe(sub *sseSubscription) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if t, ok := p.topics[sub.topic]; ok {
		delete(t.subs, sub)
	}
}

type sseSubscription struct {
	topic     string
	events    chan Event
	publisher *SSEPublisher
	once      sync.Once
}

// offer queues events without blocking and returns how many were queued
func (s *sseSubscription) offer(events []Event) int {
	n := 0
	for _, e := range events {
		select {
		case s.events <- e:
			n++
		default:
		}
	}
	return n
}

func (s *sseSubscription) Topic() string {
	return s.topic
}

func (s *sseSubscription) Events() <-chan Event {
	return s.events
}

// Close detaches the subscription. Its channel stays open until the
// publisher closes.
func (s *sseSubscription) Close() error {
	s.once.Do(func() { s.publisher.unsubscribe(s) })
	return nil
}

// WriteSSE writes an event as one SSE frame
func WriteSSE(w io.Writer, event Event) error {
	frame, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", frame)
	return err
}
