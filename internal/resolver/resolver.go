// Package resolver builds a module dependency graph from parsed ASTs,
// doing pure path arithmetic over specifiers — it never touches the
// filesystem itself (spec §2 item 4 / SPEC_FULL.md §C.1); the host
// supplies file contents through the `read` callback.
package resolver

import (
	"fmt"
	"path"
	"strings"

	"github.com/mvendel/go-tsx/internal/ast"
	cerrors "github.com/mvendel/go-tsx/internal/errors"
	"github.com/mvendel/go-tsx/internal/parser"
)

// ResolvedModule is one node of the resolved dependency graph: its
// normalized path, parsed program, and the normalized specifiers of the
// modules it imports/re-exports from.
type ResolvedModule struct {
	Path       string
	Program    *ast.Program
	Source     string
	Deps       []string
	ParseErrors []*parser.ParseError
}

// Reader supplies source text for a normalized module path; ok is false
// when the path doesn't exist.
type Reader func(path string) (string, bool)

// Resolve walks the import graph starting at entry, parsing every
// reachable module, detecting cycles, and returning modules ordered
// dependencies-before-dependents via a stable topological sort.
func Resolve(entry string, read Reader) ([]*ResolvedModule, error) {
	entry = normalize("", entry)
	r := &resolution{
		read:    read,
		modules: make(map[string]*ResolvedModule),
	}
	if err := r.load(entry, nil); err != nil {
		return nil, err
	}
	order, err := r.topoSort(entry)
	if err != nil {
		return nil, err
	}
	return order, nil
}

type resolution struct {
	read    Reader
	modules map[string]*ResolvedModule
	order   []string // insertion order, for a stable sort among independents
}

func (r *resolution) load(modPath string, chain []string) error {
	for _, c := range chain {
		if c == modPath {
			return &cerrors.ModuleResolutionError{
				Message: "import cycle detected: " + strings.Join(append(chain, modPath), " -> "),
				Path:    modPath,
			}
		}
	}
	if _, ok := r.modules[modPath]; ok {
		return nil
	}

	src, ok := r.read(modPath)
	if !ok {
		return &cerrors.ModuleResolutionError{Message: "module not found", Path: modPath}
	}

	prog, errs := parser.Parse(src, parser.Config{})
	mod := &ResolvedModule{Path: modPath, Program: prog, Source: src, ParseErrors: errs}

	deps := specifiers(prog)
	normDeps := make([]string, 0, len(deps))
	for _, spec := range deps {
		if !isRelative(spec) {
			continue // bare specifiers (host/ambient modules) aren't part of the graph
		}
		dep := normalize(modPath, spec)
		normDeps = append(normDeps, dep)
	}
	mod.Deps = normDeps
	r.modules[modPath] = mod
	r.order = append(r.order, modPath)

	nextChain := append(append([]string{}, chain...), modPath)
	for _, dep := range normDeps {
		if err := r.load(dep, nextChain); err != nil {
			return err
		}
	}
	return nil
}

// specifiers extracts every import/export specifier string from a
// parsed module's top-level statements.
func specifiers(prog *ast.Program) []string {
	var out []string
	for _, stmt := range prog.Statements {
		switch s := stmt.(type) {
		case *ast.ImportStmt:
			if s.Specifier != "" {
				out = append(out, s.Specifier)
			}
		case *ast.ExportStmt:
			if s.FromSpec != "" {
				out = append(out, s.FromSpec)
			}
		}
	}
	return out
}

func isRelative(spec string) bool {
	return strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../") || strings.HasPrefix(spec, "/")
}

// normalize resolves a specifier relative to the importing module's
// directory (or the module-resolution root when from == ""), appending
// a ".ts" extension when the specifier carries none, matching Node-style
// extensionless imports.
func normalize(from, spec string) string {
	var resolved string
	if strings.HasPrefix(spec, "/") {
		resolved = path.Clean(spec)
	} else {
		dir := path.Dir(from)
		if from == "" {
			dir = "."
		}
		resolved = path.Clean(path.Join(dir, spec))
	}
	if path.Ext(resolved) == "" {
		resolved += ".ts"
	}
	return resolved
}

// topoSort returns modules reachable from entry in dependency order
// (each module after all of its Deps) via a stable depth-first
// post-order traversal, which is the standard formulation of topological
// sort for a DAG already known to be cycle-free (load() would have
// already reported a ModuleResolutionError for any cycle).
func (r *resolution) topoSort(entry string) ([]*ResolvedModule, error) {
	visited := make(map[string]bool)
	var out []*ResolvedModule
	var visit func(p string) error
	visit = func(p string) error {
		if visited[p] {
			return nil
		}
		visited[p] = true
		mod, ok := r.modules[p]
		if !ok {
			return fmt.Errorf("internal error: module %q not loaded", p)
		}
		for _, dep := range mod.Deps {
			if err := visit(dep); err != nil {
				return err
			}
		}
		out = append(out, mod)
		return nil
	}
	if err := visit(entry); err != nil {
		return nil, err
	}
	return out, nil
}
