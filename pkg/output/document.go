// Package output writes the knowledge graph document and prints run summaries.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ritzau/jsgraph/pkg/analysis"
	"github.com/ritzau/jsgraph/pkg/cycles"
	"github.com/ritzau/jsgraph/pkg/extract"
	"github.com/ritzau/jsgraph/pkg/graph"
	"github.com/ritzau/jsgraph/pkg/model"
)

// DefaultFilename is where the CLI saves the document
const DefaultFilename = "code_knowledge_graph.json"

// Metadata sits next to the graph in the document
type Metadata struct {
	Stats           analysis.Stats                 `json:"stats"`
	FunctionParams  map[string][]extract.Parameter `json:"function_params"`
	FunctionReturns map[string]string              `json:"function_returns"`
	ClassMethods    map[string][]string            `json:"class_methods"`
	Exports         map[string][]string            `json:"exports"`
	ImportCycles    []cycles.ImportCycle           `json:"import_cycles"`
	Failures        []analysis.FileOutcome         `json:"failures"`
}

// Document is the persisted form of one run
type Document struct {
	Graph    *model.NodeLinkGraph `json:"graph"`
	Metadata Metadata             `json:"metadata"`
}

// NewDocument assembles the document for a graph and its run report
func NewDocument(kg *graph.KnowledgeGraph, report *analysis.Report) *Document {
	doc := &Document{
		Graph: kg.NodeLink(),
		Metadata: Metadata{
			FunctionParams:  kg.FunctionParams(),
			FunctionReturns: kg.FunctionReturns(),
			ClassMethods:    kg.ClassMethods(),
			Exports:         kg.Exports(),
			ImportCycles:    []cycles.ImportCycle{},
			Failures:        []analysis.FileOutcome{},
		},
	}
	if report != nil {
		doc.Metadata.Stats = report.Stats
		if report.Cycles != nil {
			doc.Metadata.ImportCycles = report.Cycles
		}
		doc.Metadata.Failures = report.Failures()
	}
	return doc
}

// Write encodes the document as indented JSON
func (d *Document) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	return nil
}

// documentMode is the permission of a saved document; temporary files start
// out owner-only
const documentMode os.FileMode = 0o644

// Save writes the document to path through a temporary file so that a
// failed write leaves any previous document in place
func (d *Document) Save(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".jsgraph-*.json")
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := d.Write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(documentMode); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}
