package evaluator

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/funvibe/pgraph/internal/ast"
	"github.com/funvibe/pgraph/internal/codec"
)

// resolvePath makes a relative path relative to the importing file's
// directory, or to BaseDir at top level.
func (e *Evaluator) resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	dir := e.currentDir
	if dir == "" {
		dir = e.BaseDir
	}
	return filepath.Join(dir, path)
}

func (e *Evaluator) evalPath(node ast.Node, env *Environment) (string, Object) {
	val := e.Eval(node, env)
	if isAbrupt(val) {
		return "", val
	}
	s, ok := val.(*String)
	if !ok {
		return "", newError("File path must be String, got %s", KindName(val))
	}
	return e.resolvePath(s.Value), nil
}

func (e *Evaluator) evalReadFile(node *ast.ReadFile, env *Environment) Object {
	path, abrupt := e.evalPath(node.Path, env)
	if abrupt != nil {
		return abrupt
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return newError("%s", err.Error())
	}
	return NewByteArray(data)
}

func (e *Evaluator) evalWriteFile(node *ast.WriteFile, env *Environment) Object {
	path, abrupt := e.evalPath(node.Path, env)
	if abrupt != nil {
		return abrupt
	}
	val := e.Eval(node.Data, env)
	if isAbrupt(val) {
		return val
	}

	var data []byte
	switch v := val.(type) {
	case *String:
		data = []byte(v.Value)
	case *Array:
		b, err := ToBytes(v)
		if err != nil {
			return newError("WriteFile data: %s", err.Error())
		}
		data = b
	default:
		return newError("WriteFile data must be String or Array, got %s", KindName(val))
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return newError("%s", err.Error())
	}
	// A later Import of this file must see the new contents.
	if abs, err := filepath.Abs(path); err == nil && e.Loader != nil {
		e.Loader.Forget(abs)
	}
	return VOID
}

// evalBytes decodes a binary graph from a byte array and runs it in a
// fresh evaluator. The sub-program's outcome, fault or not, comes back
// as its formatted string.
func (e *Evaluator) evalBytes(node *ast.EvalBytes, env *Environment) Object {
	val := e.Eval(node.Bytes, env)
	if isAbrupt(val) {
		return val
	}
	arr, ok := val.(*Array)
	if !ok {
		return newError("Failed to decode program: expected byte Array, got %s", KindName(val))
	}
	data, err := ToBytes(arr)
	if err != nil {
		return newError("Failed to decode program: %s", err.Error())
	}
	program, err := codec.DecodeBinary(data)
	if err != nil {
		return newError("Failed to decode program: %s", err.Error())
	}

	child := e.Spawn()
	e.Logger.Debug("meta-circular evaluation", "bytes", len(data), "depth", e.evalDepth)
	result, childEnv := child.Run(program)
	return &String{Value: FormatResult(result, childEnv)}
}

func (e *Evaluator) evalImport(node *ast.Import, env *Environment) Object {
	path := e.resolvePath(node.Path)
	abs, err := filepath.Abs(path)
	if err != nil {
		return newError("Import failed: %s", err.Error())
	}
	if err := e.Loader.Enter(abs); err != nil {
		return newError("%s", err.Error())
	}
	defer e.Loader.Leave(abs)

	mod, err := e.Loader.Load(abs)
	if err != nil {
		return newError("Import failed: %s", err.Error())
	}

	prevDir := e.currentDir
	e.currentDir = mod.Dir
	defer func() { e.currentDir = prevDir }()

	e.Logger.Debug("importing", "path", abs, "format", mod.Format)
	result := e.Eval(mod.Root, env)
	if isError(result) {
		return result
	}
	return unwrapReturnValue(result)
}

func (e *Evaluator) evalPrint(node *ast.Print, env *Environment) Object {
	val := e.Eval(node.Value, env)
	if isAbrupt(val) {
		return val
	}
	if e.Out != nil {
		fmt.Fprintln(e.Out, val.Inspect())
	}
	return VOID
}
