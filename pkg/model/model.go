package model

import "fmt"

// NodeKind represents the type of a knowledge graph node
type NodeKind string

const (
	KindFile           NodeKind = "file"
	KindEntity         NodeKind = "entity"
	KindClass          NodeKind = "class"
	KindFunction       NodeKind = "function"
	KindComponent      NodeKind = "component"
	KindHook           NodeKind = "hook"
	KindExport         NodeKind = "export"
	KindDependencyFile NodeKind = "dependency_file"
	KindDependency     NodeKind = "dependency"
	KindExternal       NodeKind = "external"
)

// Relation labels a directed edge between two nodes
type Relation string

const (
	RelImports             Relation = "IMPORTS"
	RelUsesEntity          Relation = "USES_ENTITY"
	RelDefinedIn           Relation = "DEFINED_IN"
	RelDefines             Relation = "DEFINES"
	RelHasFunction         Relation = "HAS_FUNCTION"
	RelUsesComponent       Relation = "USES_COMPONENT"
	RelUsesHook            Relation = "USES_HOOK"
	RelExports             Relation = "EXPORTS"
	RelReExports           Relation = "RE_EXPORTS"
	RelHasDependency       Relation = "HAS_DEPENDENCY"
	RelHasLockedDependency Relation = "HAS_LOCKED_DEPENDENCY"
)

// Attribute keys used on nodes. They follow the snake_case naming of the
// output document.
const (
	AttrPath              = "path"
	AttrName              = "name"
	AttrSpecifier         = "specifier"
	AttrDeclarationKind   = "declaration_kind"
	AttrIsReactComponent  = "is_react_component"
	AttrParameters        = "parameters"
	AttrReturnType        = "return_type"
	AttrIsHook            = "is_hook"
	AttrIsComponent       = "is_component"
	AttrIsLifecycleMethod = "is_lifecycle_method"
	AttrModifiers         = "modifiers"
)

// Node identity keys. Every key is derived from kind, name and the enclosing
// scope so that re-extracting the same fact lands on the same node.

// FileID returns the identity key of a source file node
func FileID(relPath string) string {
	return "File: " + relPath
}

// EntityID returns the identity key of an imported symbol
func EntityID(name string) string {
	return "Entity: " + name
}

// ClassID returns the identity key of a class declared in a file
func ClassID(name, fileID string) string {
	return fmt.Sprintf("Class: %s (%s)", name, fileID)
}

// FunctionID returns the identity key of a function within its scope (a file
// or a class node ID)
func FunctionID(name, scopeID string) string {
	return fmt.Sprintf("Function: %s (%s)", name, scopeID)
}

// ComponentID returns the identity key of a JSX component reference
func ComponentID(name string) string {
	return "Component: " + name
}

// HookID returns the identity key of a hook reference
func HookID(name string) string {
	return "Hook: " + name
}

// ExportID returns the identity key of an exported symbol
func ExportID(name string) string {
	return "Export: " + name
}

// DependencyFileID returns the identity key of a package manifest
func DependencyFileID(relPath string) string {
	return "Dependency File: " + relPath
}

// DependencyID returns the identity key of a package dependency
func DependencyID(name string) string {
	return "Dependency: " + name
}

// ExternalID returns the identity key of a bare import specifier
func ExternalID(specifier string) string {
	return "External: " + specifier
}
