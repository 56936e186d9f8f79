package analysis

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritzau/jsgraph/pkg/extract"
	"github.com/ritzau/jsgraph/pkg/model"
	"github.com/ritzau/jsgraph/pkg/pubsub"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return root
}

var sampleTree = map[string]string{
	"package.json": `{"dependencies": {"react": "^18.2.0"}, "devDependencies": {"vitest": "^1.0.0"}}`,
	"src/App.tsx": `import React, { useState } from 'react';
import { Button } from '@/components/Button';
import { format } from './utils/format';
import './styles.css';

export default function App() {
  const [n, setN] = useState(0);
  return <Button label={format(n)} />;
}
`,
	"src/components/Button.tsx": `import React from 'react';

export interface ButtonProps {
  label: string;
}

export const Button: React.FC<ButtonProps> = ({ label }) => <button>{label}</button>;
`,
	"src/utils/format.ts": `import { helper } from './helper';
export function format(n: number): string {
  return helper(n);
}
`,
	"src/utils/helper.ts": `import { format } from './format';
export const helper = (n: number) => String(n);
`,
	"src/styles.css":              "body {}\n",
	"node_modules/react/index.js": "module.exports = {};\n",
	"dist/bundle.js":              "console.log('built');\n",
}

func run(t *testing.T, root string, opts Options) *Result {
	t.Helper()
	opts.Root = root
	result, err := NewRunner(opts).Run(context.Background())
	require.NoError(t, err)
	return result
}

func TestRunBuildsGraph(t *testing.T) {
	root := writeTree(t, sampleTree)
	result := run(t, root, Options{Workers: 2})
	kg := result.Graph
	stats := result.Report.Stats

	assert.Equal(t, 4, stats.TotalFiles)
	assert.Equal(t, 4, stats.FilesProcessed)
	assert.Equal(t, 0, stats.FailedFiles)
	assert.Equal(t, 4, stats.Directories) // ".", "src", "src/components", "src/utils"
	assert.Equal(t, 1, stats.TotalClasses)
	assert.Equal(t, 2, stats.TotalDependencies) // react, vitest

	app := model.FileID("src/App.tsx")
	assert.True(t, kg.HasEdge(app, model.FileID("src/components/Button.tsx"), model.RelImports))
	assert.True(t, kg.HasEdge(app, model.FileID("src/utils/format.ts"), model.RelImports))
	assert.True(t, kg.HasEdge(app, model.FileID("src/styles.css"), model.RelImports))
	assert.True(t, kg.HasEdge(app, model.ExternalID("react"), model.RelImports))
	assert.True(t, kg.HasEdge(app, model.ComponentID("Button"), model.RelUsesComponent))
	assert.True(t, kg.HasEdge(app, model.HookID("useState"), model.RelUsesHook))
	assert.True(t, kg.HasEdge(model.EntityID("Button"), model.FileID("src/components/Button.tsx"), model.RelDefinedIn))
	assert.True(t, kg.HasEdge(model.DependencyFileID("package.json"), model.DependencyID("react"), model.RelHasDependency))

	_, ok := kg.Node(model.FileID("node_modules/react/index.js"))
	assert.False(t, ok)
	_, ok = kg.Node(model.FileID("dist/bundle.js"))
	assert.False(t, ok)

	require.Len(t, result.Report.Cycles, 1)
	assert.Equal(t, []string{"src/utils/format.ts", "src/utils/helper.ts"}, result.Report.Cycles[0].Files)
}

func TestRunIsDeterministic(t *testing.T) {
	root := writeTree(t, sampleTree)

	first := run(t, root, Options{Workers: 1})
	second := run(t, root, Options{Workers: 8})

	assert.Equal(t, first.Graph.Edges(), second.Graph.Edges())
	assert.Equal(t, first.Graph.NodeCount(), second.Graph.NodeCount())
	assert.Equal(t, first.Report.Stats, second.Report.Stats)
}

func TestRunIsolatesFailedFiles(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.ts":   "export const a = 1;\n",
		"bad.ts": "export const b = '\xff\xfe';\n",
	})

	result := run(t, root, Options{})
	report := result.Report

	assert.Equal(t, 2, report.Stats.TotalFiles)
	assert.Equal(t, 1, report.Stats.FailedFiles)

	failures := report.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "bad.ts", failures[0].Path)
	assert.Equal(t, string(extract.StepLex), failures[0].Step)

	_, ok := result.Graph.Node(model.FileID("bad.ts"))
	assert.True(t, ok, "a failed file keeps its File node")
	assert.Equal(t, []string{"a"}, result.Graph.ExportSet(model.FileID("a.ts")))
}

func TestRunMalformedManifest(t *testing.T) {
	root := writeTree(t, map[string]string{
		"package.json": `{"dependencies": {`,
		"index.js":     "const fs = require('fs');\n",
	})

	result := run(t, root, Options{})

	_, ok := result.Graph.Node(model.DependencyFileID("package.json"))
	assert.True(t, ok)
	assert.Empty(t, result.Graph.NodeIDs(model.KindDependency))
	assert.Equal(t, 1, result.Report.Stats.TotalDependencies) // fs
	assert.Len(t, result.Report.Failures(), 1)
}

func TestRunImportIntoIgnoredDirectoryIsUnresolved(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/index.ts":      "import { x } from '../build/generated';\n",
		"build/generated.ts": "export const x = 1;\n",
	})

	result := run(t, root, Options{})

	assert.Equal(t, 1, result.Report.Stats.UnresolvedImports)
	assert.Equal(t, 0, result.Report.Stats.TotalImports)
	_, ok := result.Graph.Node(model.FileID("build/generated.ts"))
	assert.False(t, ok)
}

func TestRunReportsProgress(t *testing.T) {
	root := writeTree(t, sampleTree)

	var paths []string
	lastTotal := 0
	run(t, root, Options{Progress: func(done, total int, path string) {
		assert.Equal(t, len(paths)+1, done)
		paths = append(paths, path)
		lastTotal = total
	}})

	assert.Len(t, paths, 4)
	assert.Equal(t, 4, lastTotal)
}

func TestRunPublishesScanStatus(t *testing.T) {
	root := writeTree(t, sampleTree)
	pub := pubsub.NewSSEPublisher()
	defer pub.Close()

	run(t, root, Options{Publisher: pub})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub, err := pub.Subscribe(ctx, pubsub.TopicScanStatus)
	require.NoError(t, err)

	event := <-sub.Events()
	assert.Equal(t, pubsub.ScanStateReady, event.Type)
}

func TestRunInvalidRoot(t *testing.T) {
	_, err := NewRunner(Options{Root: filepath.Join(t.TempDir(), "missing")}).Run(context.Background())
	assert.True(t, errors.Is(err, ErrInvalidRoot))

	file := filepath.Join(t.TempDir(), "file.ts")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = NewRunner(Options{Root: file}).Run(context.Background())
	assert.True(t, errors.Is(err, ErrInvalidRoot))
}

func TestRunCancelled(t *testing.T) {
	root := writeTree(t, sampleTree)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(Options{Root: root}).Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}
