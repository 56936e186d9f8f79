package graph

import (
	"path"

	"github.com/ritzau/jsgraph/pkg/deps"
	"github.com/ritzau/jsgraph/pkg/extract"
	"github.com/ritzau/jsgraph/pkg/model"
	"github.com/ritzau/jsgraph/pkg/resolve"
)

// FileInput is one extracted file together with the resolution of each of
// its imports (parallel to Facts.Imports)
type FileInput struct {
	Path     string
	Facts    *extract.FileFacts
	Resolved []resolve.Result
}

// Contribution counts what one merge added. Repeated merges of the same file
// contribute nothing.
type Contribution struct {
	Classes    int
	Functions  int
	Components int
	Hooks      int
	Exports    int
	Imports    int
	Unresolved int

	// External specifiers and manifest dependency names seen by this merge
	Dependencies []string
}

// MergeFile merges one file's facts. A nil Facts still records the File node.
func (g *KnowledgeGraph) MergeFile(in FileInput) Contribution {
	var c Contribution

	fileID := model.FileID(in.Path)
	if g.merged[fileID] {
		return c
	}
	g.merged[fileID] = true

	g.AddNode(fileID, model.KindFile, map[string]interface{}{
		model.AttrPath: in.Path,
		model.AttrName: path.Base(in.Path),
	})
	g.imports.AddFile(in.Path)

	facts := in.Facts
	if facts == nil {
		return c
	}

	g.mergeExports(fileID, facts, &c)
	g.mergeImports(in, fileID, &c)
	g.mergeClasses(fileID, facts, &c)
	g.mergeFunctions(fileID, facts, &c)

	for _, u := range facts.Components {
		id := model.ComponentID(u.Name)
		g.AddNode(id, model.KindComponent, map[string]interface{}{model.AttrName: u.Name})
		_ = g.AddEdge(fileID, id, model.RelUsesComponent)
	}

	for _, u := range facts.Hooks {
		id := model.HookID(u.Name)
		g.AddNode(id, model.KindHook, map[string]interface{}{model.AttrName: u.Name})
		_ = g.AddEdge(fileID, id, model.RelUsesHook)
	}

	return c
}

func (g *KnowledgeGraph) mergeExports(fileID string, facts *extract.FileFacts, c *Contribution) {
	for _, name := range facts.ExportNames() {
		id := model.ExportID(name)
		g.AddNode(id, model.KindExport, map[string]interface{}{model.AttrName: name})
		_ = g.AddEdge(fileID, id, model.RelExports)
		if g.RecordExport(fileID, name) {
			c.Exports++
		}
	}
}

func (g *KnowledgeGraph) mergeImports(in FileInput, fileID string, c *Contribution) {
	for i, imp := range in.Facts.Imports {
		if i >= len(in.Resolved) {
			break
		}
		res := in.Resolved[i]

		var targetID string
		switch res.Kind {
		case resolve.Local:
			targetID = model.FileID(res.Path)
			g.AddNode(targetID, model.KindFile, map[string]interface{}{
				model.AttrPath: res.Path,
				model.AttrName: path.Base(res.Path),
			})
			g.imports.AddImport(in.Path, res.Path)
		case resolve.External:
			targetID = model.ExternalID(res.Path)
			g.AddNode(targetID, model.KindExternal, map[string]interface{}{
				model.AttrSpecifier: res.Path,
				model.AttrName:      res.Path,
			})
			c.Dependencies = append(c.Dependencies, res.Path)
		default:
			c.Unresolved++
			continue
		}

		_ = g.AddEdge(fileID, targetID, model.RelImports)
		if imp.Kind == extract.ImportReExport {
			_ = g.AddEdge(fileID, targetID, model.RelReExports)
		}
		c.Imports++

		for _, name := range imp.Names {
			entityID := model.EntityID(name)
			g.AddNode(entityID, model.KindEntity, map[string]interface{}{model.AttrName: name})
			_ = g.AddEdge(fileID, entityID, model.RelUsesEntity)
			if res.Kind == resolve.Local {
				g.linkEntity(entityID, name, targetID)
			}
		}
	}
}

func (g *KnowledgeGraph) mergeClasses(fileID string, facts *extract.FileFacts, c *Contribution) {
	for _, cls := range facts.Classes {
		classID := model.ClassID(cls.Name, fileID)
		_, existed := g.Node(classID)
		g.AddNode(classID, model.KindClass, map[string]interface{}{
			model.AttrName:             cls.Name,
			model.AttrDeclarationKind:  string(cls.Kind),
			model.AttrIsReactComponent: cls.IsComponentSubclass,
		})
		_ = g.AddEdge(fileID, classID, model.RelDefines)
		if !existed {
			c.Classes++
		}

		if cls.Exported && g.RecordExport(fileID, cls.Name) {
			c.Exports++
		}

		methods, ok := g.classMethods[classID]
		if !ok {
			methods = make(map[string]struct{})
			g.classMethods[classID] = methods
		}

		for _, m := range cls.Methods {
			fnID := model.FunctionID(m.Name, classID)
			_, existed := g.Node(fnID)
			g.AddNode(fnID, model.KindFunction, functionAttrs(m))
			_ = g.AddEdge(classID, fnID, model.RelHasFunction)
			methods[m.Name] = struct{}{}
			g.indexFunction(fnID, m)
			if !existed {
				c.Functions++
			}
		}
	}
}

func (g *KnowledgeGraph) mergeFunctions(fileID string, facts *extract.FileFacts, c *Contribution) {
	for _, fn := range facts.Functions {
		fnID := model.FunctionID(fn.Name, fileID)
		_, existed := g.Node(fnID)
		g.AddNode(fnID, model.KindFunction, functionAttrs(fn))
		_ = g.AddEdge(fileID, fnID, model.RelDefines)
		g.indexFunction(fnID, fn)

		if fn.Exported && g.RecordExport(fileID, fn.Name) {
			c.Exports++
		}

		if existed {
			continue
		}
		switch {
		case fn.IsComponent:
			c.Components++
		case fn.IsHook:
			c.Hooks++
		default:
			c.Functions++
		}
	}
}

// indexFunction records parameters and return type; the first record wins
func (g *KnowledgeGraph) indexFunction(fnID string, fn extract.Function) {
	if _, ok := g.functionParams[fnID]; !ok {
		params := fn.Parameters
		if params == nil {
			params = []extract.Parameter{}
		}
		g.functionParams[fnID] = params
	}
	if _, ok := g.functionReturns[fnID]; !ok && fn.ReturnType != "" {
		g.functionReturns[fnID] = fn.ReturnType
	}
}

func functionAttrs(fn extract.Function) map[string]interface{} {
	params := fn.Parameters
	if params == nil {
		params = []extract.Parameter{}
	}
	attrs := map[string]interface{}{
		model.AttrName:       fn.Name,
		model.AttrParameters: params,
	}
	if fn.ReturnType != "" {
		attrs[model.AttrReturnType] = fn.ReturnType
	}
	if len(fn.Modifiers) > 0 {
		attrs[model.AttrModifiers] = fn.Modifiers
	}
	if fn.IsMethod {
		attrs[model.AttrIsLifecycleMethod] = fn.IsLifecycle
	} else {
		attrs[model.AttrIsHook] = fn.IsHook
		attrs[model.AttrIsComponent] = fn.IsComponent
	}
	return attrs
}

// MergeManifest records a dependency file and the dependencies it lists. A
// nil or undecomposed manifest still yields its DependencyFile node.
func (g *KnowledgeGraph) MergeManifest(relPath string, m *deps.Manifest) Contribution {
	var c Contribution

	fileID := model.DependencyFileID(relPath)
	if g.merged[fileID] {
		return c
	}
	g.merged[fileID] = true

	attrs := map[string]interface{}{model.AttrPath: relPath}
	if m != nil {
		attrs["format"] = string(m.Format)
		attrs["decomposed"] = m.Decomposed
	}
	g.AddNode(fileID, model.KindDependencyFile, attrs)
	if m == nil {
		return c
	}

	link := func(names []string, rel model.Relation) {
		for _, name := range names {
			id := model.DependencyID(name)
			g.AddNode(id, model.KindDependency, map[string]interface{}{model.AttrName: name})
			_ = g.AddEdge(fileID, id, rel)
			c.Dependencies = append(c.Dependencies, name)
		}
	}
	link(m.Declared, model.RelHasDependency)
	link(m.Locked, model.RelHasLockedDependency)

	return c
}

// Merged reports whether a file or manifest node has already been merged
func (g *KnowledgeGraph) Merged(nodeID string) bool {
	return g.merged[nodeID]
}
