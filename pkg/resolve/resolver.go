// Package resolve maps import specifiers onto files below the scan root.
package resolve

import (
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ritzau/jsgraph/pkg/finder"
	"github.com/ritzau/jsgraph/pkg/logging"
)

var logger = logging.New("resolve")

// Kind is the outcome class of a resolution
type Kind int

const (
	Unresolved Kind = iota
	Local
	External
)

func (k Kind) String() string {
	switch k {
	case Local:
		return "local"
	case External:
		return "external"
	default:
		return "unresolved"
	}
}

// Result of resolving one specifier. For Local results Path is the
// root-relative slash path of the target; for External it is the specifier.
type Result struct {
	Kind      Kind
	Path      string
	Specifier string
}

// Alias substitutes a specifier prefix with a root-relative directory
type Alias struct {
	Prefix string
	Target string
}

// Aliases are consulted in order; the first matching prefix wins
var Aliases = []Alias{
	{"@/", "src/"},
	{"@components/", "components/"},
	{"@lib/", "lib/"},
	{"@utils/", "utils/"},
	{"@hooks/", "hooks/"},
	{"@contexts/", "contexts/"},
	{"@types/", "types/"},
	{"@app/", "app/"},
}

// Extensions are probed in this order, first as suffixes and then as index files
var Extensions = []string{".js", ".ts", ".jsx", ".tsx", ".mjs", ".mts", ".d.ts"}

// DefaultCacheSize bounds the memoized existence probes
const DefaultCacheSize = 8192

// Resolver resolves specifiers relative to a fixed root. It is safe for
// concurrent use.
type Resolver struct {
	root  string
	cache *lru.Cache[string, bool]
}

// New creates a resolver for root
func New(root string) (*Resolver, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	cache, err := lru.New[string, bool](DefaultCacheSize)
	if err != nil {
		return nil, err
	}
	return &Resolver{root: abs, cache: cache}, nil
}

// Root returns the absolute scan root
func (r *Resolver) Root() string {
	return r.root
}

// Resolve resolves specifier as imported from the root-relative file fromRel
func (r *Resolver) Resolve(fromRel, specifier string) Result {
	res := Result{Specifier: specifier}

	var base string
	if target, ok := applyAlias(specifier); ok {
		base = filepath.Join(r.root, filepath.FromSlash(target))
	} else if strings.HasPrefix(specifier, ".") || strings.HasPrefix(specifier, "/") {
		dir := filepath.Dir(filepath.Join(r.root, filepath.FromSlash(fromRel)))
		base = filepath.Join(dir, filepath.FromSlash(specifier))
	} else {
		res.Kind = External
		res.Path = specifier
		return res
	}

	for _, candidate := range Candidates(base) {
		if !r.isFile(candidate) {
			continue
		}

		rel, err := filepath.Rel(r.root, candidate)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			logger.Debug("Import escapes root", "from", fromRel, "specifier", specifier)
			return res
		}
		rel = filepath.ToSlash(rel)
		if finder.IsIgnoredPath(rel) {
			logger.Debug("Import resolves into ignored directory", "from", fromRel, "specifier", specifier, "target", rel)
			return res
		}

		res.Kind = Local
		res.Path = rel
		return res
	}

	return res
}

// Candidates lists the probe order for an extension-less base path
func Candidates(base string) []string {
	out := make([]string, 0, 1+2*len(Extensions))
	out = append(out, base)
	for _, ext := range Extensions {
		out = append(out, base+ext)
	}
	for _, ext := range Extensions {
		out = append(out, filepath.Join(base, "index"+ext))
	}
	return out
}

func applyAlias(specifier string) (string, bool) {
	for _, a := range Aliases {
		if strings.HasPrefix(specifier, a.Prefix) {
			return a.Target + strings.TrimPrefix(specifier, a.Prefix), true
		}
	}
	return "", false
}

func (r *Resolver) isFile(path string) bool {
	if ok, hit := r.cache.Get(path); hit {
		return ok
	}
	info, err := os.Stat(path)
	ok := err == nil && info.Mode().IsRegular()
	r.cache.Add(path, ok)
	return ok
}
