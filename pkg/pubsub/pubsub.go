// Package pubsub fans scan progress out to live subscribers.
package pubsub

import (
	"context"
	"encoding/json"
)

// TopicScanStatus carries ScanStatus payloads for the running scan
const TopicScanStatus = "scan_status"

// Scan states published on TopicScanStatus
const (
	ScanStateIdle       = "idle"
	ScanStateCounting   = "counting"
	ScanStateExtracting = "extracting"
	ScanStateMerging    = "merging"
	ScanStateReady      = "ready"
	ScanStateError      = "error"
)

// Event is one published message
type Event struct {
	Topic   string          `json:"topic"`
	Type    string          `json:"type"`
	Data    json.RawMessage `json:"data"`
	Version int             `json:"version"` // per topic, increasing
}

// Subscription is a client's view of one topic
type Subscription interface {
	Topic() string
	Events() <-chan Event
	Close() error
}

// Publisher manages subscriptions and event publishing
type Publisher interface {
	// Subscribe creates a subscription that is closed when ctx is done
	Subscribe(ctx context.Context, topic string) (Subscription, error)

	// Publish sends data to all subscribers of topic
	Publish(topic string, eventType string, data interface{}) error

	Close() error
}

// ScanStatus reports where a scan is. Done and Total count source files.
type ScanStatus struct {
	State   string `json:"state"`
	Message string `json:"message"`
	Done    int    `json:"done"`
	Total   int    `json:"total"`
}
