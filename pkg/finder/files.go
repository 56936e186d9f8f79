package finder

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// EntryKind distinguishes source files from package manifests
type EntryKind int

const (
	KindSource EntryKind = iota
	KindManifest
)

func (k EntryKind) String() string {
	switch k {
	case KindSource:
		return "source"
	case KindManifest:
		return "manifest"
	default:
		return "unknown"
	}
}

// Entry is an eligible file found under the root
type Entry struct {
	Path    string    // absolute or root-joined path, usable with os.ReadFile
	RelPath string    // root-relative, slash separated (e.g., "src/App.tsx")
	Kind    EntryKind // source or manifest
}

// IgnoredDirectories are directory names that are never descended into.
// Build output, vendored packages and tooling state live here.
var IgnoredDirectories = map[string]bool{
	"node_modules": true, "build": true, "dist": true, "public": true,
	"static": true, "types": true, ".env": true, ".cache": true,
	"cache": true, ".next": true, "coverage": true, ".results": true,
	"results": true, "screenshots": true, "videos": true, "tmp": true,
	"temp": true, "logs": true, "out": true, "aot": true, ".nuxt": true,
	"migrations": true, "wwwroot": true, ".meteor": true, "local": true,
	"reports": true, "docs": true, "config": true, ".config": true,
	".vscode": true, ".idea": true, ".git": true,
}

// IgnoredFiles are file names skipped wherever they appear
var IgnoredFiles = map[string]bool{
	".gitignore": true,
	".env":       true,
}

// SourceExtensions lists the JS/TS family suffixes (".d.ts" ends in ".ts")
var SourceExtensions = []string{".js", ".ts", ".jsx", ".tsx"}

// ManifestNames lists package manifests recognized by exact name
var ManifestNames = map[string]bool{
	"package.json":      true,
	"package-lock.json": true,
	"yarn.lock":         true,
	"pnpm-lock.yaml":    true,
}

// IsSourceFile reports whether the file name has a JS/TS family extension
func IsSourceFile(name string) bool {
	for _, ext := range SourceExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// IsManifest reports whether the file name is a recognized manifest
func IsManifest(name string) bool {
	return ManifestNames[name]
}

// IsIgnoredPath reports whether any directory component of a root-relative
// path is an ignored directory name
func IsIgnoredPath(relPath string) bool {
	parts := strings.Split(filepath.ToSlash(relPath), "/")
	for _, part := range parts[:len(parts)-1] {
		if IgnoredDirectories[part] {
			return true
		}
	}
	return false
}

// Walk streams every eligible file under root to fn in lexical walk order.
// Ignored directories are pruned; only components below root are checked.
func Walk(root string, fn func(Entry) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && IgnoredDirectories[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		name := d.Name()
		if IgnoredFiles[name] || !d.Type().IsRegular() {
			return nil
		}

		var kind EntryKind
		switch {
		case IsSourceFile(name):
			kind = KindSource
		case IsManifest(name):
			kind = KindManifest
		default:
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		return fn(Entry{Path: path, RelPath: filepath.ToSlash(rel), Kind: kind})
	})
}

// FindFiles collects all eligible files under root
func FindFiles(root string) ([]Entry, error) {
	var entries []Entry
	err := Walk(root, func(e Entry) error {
		entries = append(entries, e)
		return nil
	})
	return entries, err
}

// Count returns the number of eligible source files under root.
// It only exists to give progress reporting a total.
func Count(root string) (int, error) {
	count := 0
	err := Walk(root, func(e Entry) error {
		if e.Kind == KindSource {
			count++
		}
		return nil
	})
	return count, err
}

// CountDirectories returns the number of distinct directories holding entries
func CountDirectories(entries []Entry) int {
	dirs := make(map[string]bool)
	for _, e := range entries {
		dirs[filepath.Dir(e.RelPath)] = true
	}
	return len(dirs)
}
