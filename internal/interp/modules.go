package interp

import (
	"path"
	"strings"

	"github.com/mvendel/go-tsx/internal/ast"
	"github.com/mvendel/go-tsx/internal/resolver"
	"github.com/mvendel/go-tsx/internal/runtime"
)

// RunModuleGraph runs a resolver.Resolve result in dependency order
// (spec §2 item 4: "modules run after their dependencies"), returning
// the entry module's last top-level value.
func (it *Interpreter) RunModuleGraph(mods []*resolver.ResolvedModule, entry string) (runtime.Value, error) {
	if it.moduleNamespaces == nil {
		it.moduleNamespaces = map[string]*runtime.Object{}
	}
	if it.moduleEnvs == nil {
		it.moduleEnvs = map[string]*runtime.Environment{}
	}
	var last runtime.Value = runtime.Undefined
	for _, mod := range mods {
		v, err := it.runModule(mod)
		if err != nil {
			return nil, err
		}
		if mod.Path == entry {
			last = v
		}
	}
	return last, nil
}

// moduleNamespace looks up an already-run module's export object by its
// normalized path, used by `import(...)` dynamic import (expr.go).
func (it *Interpreter) moduleNamespace(path string) (*runtime.Object, bool) {
	ns, ok := it.moduleNamespaces[path]
	return ns, ok
}

func (it *Interpreter) runModule(mod *resolver.ResolvedModule) (runtime.Value, error) {
	modEnv := it.Globals.NewChild()
	it.moduleEnvs[mod.Path] = modEnv
	mc := ctx{it: it, env: modEnv}
	hoistModuleFunctionDecls(mc, mod.Program.Statements)

	for _, stmt := range mod.Program.Statements {
		imp, ok := stmt.(*ast.ImportStmt)
		if !ok {
			continue
		}
		it.bindImport(mod.Path, modEnv, imp)
	}

	var last runtime.Value = runtime.Undefined
	for _, stmt := range mod.Program.Statements {
		if _, ok := stmt.(*ast.ImportStmt); ok {
			continue
		}
		comp, err := mc.execStmt(stmt)
		if err != nil {
			return nil, err
		}
		if comp.Kind == Normal && comp.Value != nil {
			last = comp.Value
		}
	}
	it.Sched.DrainMicrotasks()

	it.moduleNamespaces[mod.Path] = it.buildNamespace(mod, modEnv)
	return last, nil
}

func (it *Interpreter) bindImport(modPath string, modEnv *runtime.Environment, imp *ast.ImportStmt) {
	depPath := modulePath(modPath, imp.Specifier)
	ns, ok := it.moduleNamespaces[depPath]
	if !ok {
		// A bare/host specifier, or one outside the resolved graph: left
		// unbound rather than failing the whole module run.
		return
	}
	if imp.Default != "" {
		if v, ok := ns.Get("default", nil); ok {
			modEnv.Declare(imp.Default, v, runtime.DeclConst)
		}
	}
	if imp.Namespace != "" {
		modEnv.Declare(imp.Namespace, ns, runtime.DeclConst)
	}
	for _, spec := range imp.Named {
		if v, ok := ns.Get(spec.Name, nil); ok {
			local := spec.Alias
			if local == "" {
				local = spec.Name
			}
			modEnv.Declare(local, v, runtime.DeclConst)
		}
	}
}

func (it *Interpreter) buildNamespace(mod *resolver.ResolvedModule, modEnv *runtime.Environment) *runtime.Object {
	ns := runtime.NewObject()
	for _, stmt := range mod.Program.Statements {
		exp, ok := stmt.(*ast.ExportStmt)
		if !ok {
			continue
		}
		switch {
		case exp.Default:
			if v, ok := modEnv.Get("default"); ok {
				ns.Set("default", v, nil)
			}
			if exp.Decl != nil {
				if name := topLevelDeclName(exp.Decl); name != "" {
					if v, ok := modEnv.Get(name); ok {
						ns.Set(name, v, nil)
					}
				}
			}
		case exp.Decl != nil:
			if name := topLevelDeclName(exp.Decl); name != "" {
				if v, ok := modEnv.Get(name); ok {
					ns.Set(name, v, nil)
				}
			}
		case exp.FromSpec != "":
			depPath := modulePath(mod.Path, exp.FromSpec)
			depNs, ok := it.moduleNamespaces[depPath]
			if !ok {
				continue
			}
			for _, spec := range exp.Named {
				if v, ok := depNs.Get(spec.Name, nil); ok {
					local := spec.Alias
					if local == "" {
						local = spec.Name
					}
					ns.Set(local, v, nil)
				}
			}
		default:
			for _, spec := range exp.Named {
				if v, ok := modEnv.Get(spec.Name); ok {
					local := spec.Alias
					if local == "" {
						local = spec.Name
					}
					ns.Set(local, v, nil)
				}
			}
		}
	}
	return ns
}

// hoistModuleFunctionDecls hoists top-level function declarations the
// same way hoistFunctionDecls does for a script body, additionally
// seeing through an `export function foo(){}` wrapper so an exported
// function is forward-referenceable like any other.
func hoistModuleFunctionDecls(c ctx, stmts []ast.Stmt) {
	hoistFunctionDecls(c, stmts)
	for _, s := range stmts {
		if exp, ok := s.(*ast.ExportStmt); ok {
			if fs, ok := exp.Decl.(*ast.FunctionStmt); ok {
				fn := makeFunction(c, fs.Name, fs.Params, fs.Body, nil, fs.Flags)
				c.env.Declare(fs.Name, fn, runtime.DeclFunction)
			}
		}
	}
}

// modulePath resolves an import/export specifier relative to the
// importing module's own normalized path, mirroring the join-and-default-
// extension rule internal/resolver applies while building the graph (its
// normalize helper is unexported, so the two must agree independently on
// this small piece of path arithmetic).
func modulePath(from, spec string) string {
	var resolved string
	if strings.HasPrefix(spec, "/") {
		resolved = path.Clean(spec)
	} else {
		resolved = path.Clean(path.Join(path.Dir(from), spec))
	}
	if path.Ext(resolved) == "" {
		resolved += ".ts"
	}
	return resolved
}
