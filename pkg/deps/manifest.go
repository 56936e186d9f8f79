// Package deps reads package manifests and lockfiles into dependency names.
package deps

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnsupportedManifest is returned for file names that are not a known manifest
var ErrUnsupportedManifest = errors.New("unsupported manifest")

// Format identifies a manifest by its file name
type Format string

const (
	FormatPackageJSON Format = "package.json"
	FormatPackageLock Format = "package-lock.json"
	FormatYarnLock    Format = "yarn.lock"
	FormatPnpmLock    Format = "pnpm-lock.yaml"
)

// Manifest is the decomposition of one dependency file. Declared names come
// from package.json, Locked names from lockfiles.
type Manifest struct {
	Path       string
	Format     Format
	Declared   []string
	Locked     []string
	Decomposed bool
}

// Names returns declared and locked names together, sorted and unique
func (m *Manifest) Names() []string {
	return uniqueSorted(append(append([]string{}, m.Declared...), m.Locked...))
}

// FormatOf maps a file name onto its manifest format
func FormatOf(name string) (Format, error) {
	switch f := Format(path.Base(name)); f {
	case FormatPackageJSON, FormatPackageLock, FormatYarnLock, FormatPnpmLock:
		return f, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedManifest, name)
}

// ParseFile reads and parses the manifest at path. relPath is recorded as
// the manifest's identity.
func ParseFile(filePath, relPath string) (*Manifest, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", relPath, err)
	}
	return Parse(relPath, content)
}

// Parse decomposes manifest content. A malformed manifest yields a Manifest
// without dependency names together with the parse error.
func Parse(relPath string, content []byte) (*Manifest, error) {
	format, err := FormatOf(relPath)
	if err != nil {
		return nil, err
	}

	m := &Manifest{Path: relPath, Format: format}

	switch format {
	case FormatPackageJSON:
		m.Declared, err = parsePackageJSON(content)
	case FormatPackageLock:
		m.Locked, err = parsePackageLock(content)
	case FormatPnpmLock:
		m.Locked, err = parsePnpmLock(content)
	case FormatYarnLock:
		// yarn.lock has no structured parse; it is recorded but not decomposed
		return m, nil
	}

	if err != nil {
		m.Declared, m.Locked = nil, nil
		return m, fmt.Errorf("parsing %s: %w", relPath, err)
	}
	m.Decomposed = true
	return m, nil
}

type packageJSON struct {
	Dependencies         map[string]json.RawMessage `json:"dependencies"`
	DevDependencies      map[string]json.RawMessage `json:"devDependencies"`
	PeerDependencies     map[string]json.RawMessage `json:"peerDependencies"`
	OptionalDependencies map[string]json.RawMessage `json:"optionalDependencies"`
}

func parsePackageJSON(content []byte) ([]string, error) {
	var pkg packageJSON
	if err := json.Unmarshal(content, &pkg); err != nil {
		return nil, err
	}

	var names []string
	for _, section := range []map[string]json.RawMessage{
		pkg.Dependencies, pkg.DevDependencies, pkg.PeerDependencies, pkg.OptionalDependencies,
	} {
		for name := range section {
			names = append(names, name)
		}
	}
	return uniqueSorted(names), nil
}

type packageLock struct {
	Packages     map[string]json.RawMessage `json:"packages"`
	Dependencies map[string]json.RawMessage `json:"dependencies"`
}

func parsePackageLock(content []byte) ([]string, error) {
	var lock packageLock
	if err := json.Unmarshal(content, &lock); err != nil {
		return nil, err
	}

	var names []string
	// lockfile v2/v3: "node_modules/a/node_modules/@scope/b" -> "@scope/b"
	for key := range lock.Packages {
		idx := strings.LastIndex(key, "node_modules/")
		if idx < 0 {
			continue
		}
		if name := key[idx+len("node_modules/"):]; name != "" {
			names = append(names, name)
		}
	}
	// lockfile v1
	for name := range lock.Dependencies {
		names = append(names, name)
	}
	return uniqueSorted(names), nil
}

type pnpmImporter struct {
	Dependencies         map[string]any `yaml:"dependencies"`
	DevDependencies      map[string]any `yaml:"devDependencies"`
	OptionalDependencies map[string]any `yaml:"optionalDependencies"`
}

type pnpmLock struct {
	Importers            map[string]pnpmImporter `yaml:"importers"`
	Dependencies         map[string]any          `yaml:"dependencies"`
	DevDependencies      map[string]any          `yaml:"devDependencies"`
	OptionalDependencies map[string]any          `yaml:"optionalDependencies"`
	Packages             map[string]any          `yaml:"packages"`
}

func parsePnpmLock(content []byte) ([]string, error) {
	var lock pnpmLock
	if err := yaml.Unmarshal(content, &lock); err != nil {
		return nil, err
	}

	var names []string
	sections := []map[string]any{lock.Dependencies, lock.DevDependencies, lock.OptionalDependencies}
	for _, imp := range lock.Importers {
		sections = append(sections, imp.Dependencies, imp.DevDependencies, imp.OptionalDependencies)
	}
	for _, section := range sections {
		for name := range section {
			names = append(names, name)
		}
	}
	for key := range lock.Packages {
		if name := pnpmPackageName(key); name != "" {
			names = append(names, name)
		}
	}
	return uniqueSorted(names), nil
}

// pnpmPackageName extracts the package name from a packages key. Keys look
// like "/react/18.2.0" (v5), "/@babel/core@7.0.0(peer)" (v6) or
// "react@18.2.0" (v9).
func pnpmPackageName(key string) string {
	key = strings.TrimPrefix(key, "/")
	if idx := strings.Index(key, "("); idx >= 0 {
		key = key[:idx]
	}
	if idx := strings.LastIndex(key, "@"); idx > 0 {
		return key[:idx]
	}

	parts := strings.Split(key, "/")
	if strings.HasPrefix(key, "@") {
		if len(parts) < 2 {
			return ""
		}
		return parts[0] + "/" + parts[1]
	}
	return parts[0]
}

func uniqueSorted(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	sort.Strings(names)
	out := names[:1]
	for _, n := range names[1:] {
		if n != out[len(out)-1] {
			out = append(out, n)
		}
	}
	return out
}
