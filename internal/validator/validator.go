// Package validator performs the structural walk over a program graph:
// name checks on every binding site and a recursive descent through
// imported files with cycle detection. It never evaluates anything.
package validator

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/funvibe/pgraph/internal/ast"
	"github.com/funvibe/pgraph/internal/logging"
	"github.com/funvibe/pgraph/internal/modules"
)

// Validator checks program graphs. A Validator may be reused; each call
// to Validate starts with an empty import stack.
type Validator struct {
	loader    *modules.Loader
	logger    *slog.Logger
	importing []string // Files currently being validated, outermost first
	errors    []string
}

// New creates a validator that resolves top-level imports against baseDir.
func New(baseDir string) *Validator {
	return &Validator{
		loader: modules.NewLoader(baseDir),
		logger: logging.Discard(),
	}
}

// SetLogger sets the logger used for import tracing.
func (v *Validator) SetLogger(l *slog.Logger) {
	v.logger = logging.OrDiscard(l)
}

// Validate returns every structural problem in root; the result is empty
// iff the graph is valid.
func Validate(root ast.Node) []string {
	return New(".").Validate(root)
}

// Validate walks root and returns the collected diagnostics.
func (v *Validator) Validate(root ast.Node) []string {
	v.errors = []string{}
	v.importing = v.importing[:0]
	v.walk(root, "")
	return v.errors
}

// ValidateFile loads path and validates it as the root of an import chain.
func (v *Validator) ValidateFile(path string) []string {
	v.errors = []string{}
	v.importing = v.importing[:0]
	abs, err := v.loader.Resolve(path, "")
	if err != nil {
		v.addError("cannot resolve %s: %v", path, err)
		return v.errors
	}
	v.visitFile(abs, path)
	return v.errors
}

func (v *Validator) addError(format string, args ...interface{}) {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
}

// walk checks n and all of its descendants. dir is the directory of the
// file n was loaded from, or empty for the root graph.
func (v *Validator) walk(n ast.Node, dir string) {
	if n == nil {
		return
	}

	switch n := n.(type) {
	case *ast.Identifier:
		if n.Name == "" {
			v.addError("empty identifier name")
		}
	case *ast.Assign:
		if n.Name == "" {
			v.addError("empty assignment target name")
		}
	case *ast.FnDef:
		v.checkFunction(n)
	case *ast.Call:
		if n.Name == "" {
			v.addError("empty call target name")
		}
	case *ast.ArraySet:
		if n.Name == "" {
			v.addError("empty array name in ArraySet")
		}
	case *ast.ArrayPush:
		if n.Name == "" {
			v.addError("empty array name in ArrayPush")
		}
	case *ast.ExternCall:
		if n.Module == "" {
			v.addError("empty module name in extern call")
		}
		if n.Function == "" {
			v.addError("empty function name in extern call to '%s'", n.Module)
		}
	case *ast.NativeCall:
		if n.Function == "" {
			v.addError("empty function name in native call")
		}
	case *ast.Native:
		if !knownCapability(n.Capability) {
			v.addError("unknown native capability '%s'", n.Capability)
		}
		if n.Op == "" {
			v.addError("empty op name in native %s node", n.Capability)
		}
	case *ast.Import:
		v.checkImport(n, dir)
		return
	}

	for _, child := range ast.Children(n) {
		v.walk(child, dir)
	}
}

func (v *Validator) checkFunction(fn *ast.FnDef) {
	if fn.Name == "" {
		v.addError("empty function name")
	}
	seen := make(map[string]bool, len(fn.Params))
	for _, p := range fn.Params {
		if p == "" {
			v.addError("empty parameter name in function '%s'", fn.Name)
			continue
		}
		if seen[p] {
			v.addError("duplicate parameter '%s' in function '%s'", p, fn.Name)
		}
		seen[p] = true
	}
}

func (v *Validator) checkImport(imp *ast.Import, dir string) {
	if imp.Path == "" {
		v.addError("empty import path")
		return
	}
	abs, err := v.loader.Resolve(imp.Path, dir)
	if err != nil {
		v.addError("cannot resolve import %s: %v", imp.Path, err)
		return
	}
	v.visitFile(abs, imp.Path)
}

// visitFile pushes abs on the import stack, validates its graph and pops
// it again. Only ancestors count as cycles; siblings may import the same file.
func (v *Validator) visitFile(abs, shown string) {
	for _, p := range v.importing {
		if p == abs {
			v.addError("circular dependency detected: %s", shown)
			return
		}
	}

	if _, err := os.Stat(abs); err != nil {
		v.addError("import file not found: %s", shown)
		return
	}

	mod, err := v.loader.Load(abs)
	if err != nil {
		v.addError("failed to load import %s: %v", shown, err)
		return
	}

	v.logger.Debug("validating import", "path", abs, "depth", len(v.importing)+1)
	v.importing = append(v.importing, abs)
	v.walk(mod.Root, mod.Dir)
	v.importing = v.importing[:len(v.importing)-1]
}

func knownCapability(c ast.Capability) bool {
	for _, known := range ast.Capabilities {
		if c == known {
			return true
		}
	}
	return false
}
