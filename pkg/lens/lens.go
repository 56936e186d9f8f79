// Package lens cuts focused views out of the knowledge graph: the nodes
// within some distance of a selection, optionally restricted by relation
// and node kind.
package lens

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ritzau/jsgraph/pkg/model"
)

// DefaultDepth is used when a lens does not set one
const DefaultDepth = 1

// MaxDepth bounds the traversal
const MaxDepth = 10

// Config defines which part of the graph a view shows
type Config struct {
	Selected  []string         `json:"selected"`
	Depth     int              `json:"depth"`
	Relations []model.Relation `json:"relations,omitempty"` // traversed relations, empty = all
	Kinds     []model.NodeKind `json:"kinds,omitempty"`     // visible kinds besides the selection, empty = all
}

// ParseQuery builds a config from query parameters: repeated focus, depth,
// comma separated relation and kind lists
func ParseQuery(focus []string, depth, relations, kinds string) (*Config, error) {
	cfg := &Config{Selected: focus, Depth: DefaultDepth}
	if depth != "" {
		d, err := strconv.Atoi(depth)
		if err != nil || d < 0 {
			return nil, fmt.Errorf("invalid depth %q", depth)
		}
		cfg.Depth = d
	}
	if cfg.Depth > MaxDepth {
		cfg.Depth = MaxDepth
	}
	for _, r := range splitList(relations) {
		cfg.Relations = append(cfg.Relations, model.Relation(strings.ToUpper(r)))
	}
	for _, k := range splitList(kinds) {
		cfg.Kinds = append(cfg.Kinds, model.NodeKind(strings.ToLower(k)))
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) followsRelation(r model.Relation) bool {
	if len(c.Relations) == 0 {
		return true
	}
	for _, want := range c.Relations {
		if want == r {
			return true
		}
	}
	return false
}

func (c *Config) showsKind(k model.NodeKind) bool {
	if len(c.Kinds) == 0 {
		return true
	}
	for _, want := range c.Kinds {
		if want == k {
			return true
		}
	}
	return false
}
