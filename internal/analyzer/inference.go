package analyzer

import (
	"github.com/funvibe/pgraph/internal/ast"
	"github.com/funvibe/pgraph/internal/symbols"
	"github.com/funvibe/pgraph/internal/typesystem"
)

func (a *Analyzer) infer(node ast.Node) typesystem.Type {
	if node == nil {
		return typesystem.Void
	}
	t := a.inferCore(node)
	a.TypeMap[node] = t
	return t
}

func (a *Analyzer) inferCore(node ast.Node) typesystem.Type {
	switch n := node.(type) {
	case *ast.IntLit:
		return typesystem.Int
	case *ast.FloatLit:
		return typesystem.Float
	case *ast.BoolLit:
		return typesystem.Bool
	case *ast.StringLit:
		return typesystem.String

	case *ast.Identifier:
		if sym, ok := a.symbolTable.Find(n.Name); ok {
			return sym.Type
		}
		return typesystem.Any

	case *ast.Assign:
		t := a.infer(n.Value)
		a.bind(n.Name, t, n)
		return t

	case *ast.Binary:
		return a.inferBinary(n)

	case *ast.If:
		a.infer(n.Cond)
		leave := a.pushScope(symbols.ScopeBranch)
		thenType := a.infer(n.Then)
		leave()
		if n.Else == nil {
			return typesystem.Any
		}
		leave = a.pushScope(symbols.ScopeBranch)
		elseType := a.infer(n.Else)
		leave()
		return typesystem.Join(thenType, elseType)

	case *ast.While:
		a.infer(n.Cond)
		leave := a.pushScope(symbols.ScopeLoop)
		a.infer(n.Body)
		leave()
		return typesystem.Void

	case *ast.Block:
		t := typesystem.Void
		for _, stmt := range n.Nodes {
			t = a.infer(stmt)
		}
		return t

	case *ast.Return:
		return a.infer(n.Value)

	case *ast.FnDef:
		return a.inferFunction(n)

	case *ast.Call:
		a.inferAll(n.Args)
		return typesystem.Any

	case *ast.ArrayLit:
		a.inferAll(n.Elements)
		return typesystem.Array

	case *ast.Index:
		target := a.infer(n.Target)
		idx := a.infer(n.Index)
		if !typesystem.Compatible(idx, typesystem.Int) {
			a.addError("index must be Int, got %s", idx)
		}
		if target == typesystem.String {
			return typesystem.String
		}
		return typesystem.Any

	case *ast.Len:
		a.infer(n.Value)
		return typesystem.Int

	case *ast.ArraySet:
		a.checkArrayBinding("ArraySet", n.Name)
		a.infer(n.Index)
		a.infer(n.Value)
		return typesystem.Array

	case *ast.ArrayPush:
		a.checkArrayBinding("ArrayPush", n.Name)
		a.infer(n.Value)
		return typesystem.Array

	case *ast.Concat:
		return a.inferConcat(n)

	case *ast.ReadFile:
		a.infer(n.Path)
		return typesystem.Array

	case *ast.WriteFile:
		a.infer(n.Path)
		a.infer(n.Data)
		return typesystem.Void

	case *ast.Print:
		a.infer(n.Value)
		return typesystem.Void

	case *ast.ToString:
		a.infer(n.Value)
		return typesystem.String

	case *ast.EvalBytes:
		a.infer(n.Bytes)
		return typesystem.String

	case *ast.ExternCall:
		a.inferAll(n.Args)
		return a.nativeResult(n.Function)

	case *ast.NativeCall:
		a.inferAll(n.Args)
		return a.nativeResult(n.Function)
	}

	// Extension nodes and imports are opaque to the checker.
	return typesystem.Any
}

func (a *Analyzer) inferAll(nodes []ast.Node) {
	for _, n := range nodes {
		a.infer(n)
	}
}

// bind records name in the innermost scope, or compares against the
// existing binding when some enclosing scope already has one.
func (a *Analyzer) bind(name string, t typesystem.Type, node ast.Node) {
	if sym, ok := a.symbolTable.Find(name); ok {
		if !typesystem.Compatible(sym.Type, t) {
			a.addError("type mismatch for '%s': %s vs %s", name, sym.Type, t)
		}
		return
	}
	a.symbolTable.Define(name, t, node)
}

func (a *Analyzer) inferBinary(n *ast.Binary) typesystem.Type {
	left := a.infer(n.Left)
	right := a.infer(n.Right)

	if n.Op.IsComparison() {
		return typesystem.Bool
	}

	if left == typesystem.Handle || right == typesystem.Handle {
		a.addError("cannot apply %s to a Handle operand", n.Op)
		return typesystem.Any
	}
	if !typesystem.Compatible(left, right) {
		a.addError("type mismatch in %s: %s vs %s", n.Op, left, right)
	}
	return left
}

func (a *Analyzer) inferFunction(fn *ast.FnDef) typesystem.Type {
	a.bind(fn.Name, typesystem.Any, fn)

	leave := a.pushScope(symbols.ScopeFunction)
	defer leave()
	for _, p := range fn.Params {
		a.symbolTable.Define(p, typesystem.Any, fn)
	}
	a.infer(fn.Body)
	return typesystem.Any
}

func (a *Analyzer) inferConcat(n *ast.Concat) typesystem.Type {
	left := a.infer(n.Left)
	right := a.infer(n.Right)

	if !typesystem.Compatible(left, right) {
		a.addError("type mismatch in Concat: %s vs %s", left, right)
		return typesystem.Any
	}
	t := left
	if t == typesystem.Any {
		t = right
	}
	if t != typesystem.Any && !t.IsSequence() {
		a.addError("cannot concatenate %s values", t)
		return typesystem.Any
	}
	return t
}

func (a *Analyzer) checkArrayBinding(op, name string) {
	sym, ok := a.symbolTable.Find(name)
	if !ok {
		return
	}
	if !typesystem.Compatible(sym.Type, typesystem.Array) {
		a.addError("%s on non-array '%s': %s", op, name, sym.Type)
	}
}

func (a *Analyzer) nativeResult(function string) typesystem.Type {
	if a.handleFunctions[function] {
		return typesystem.Handle
	}
	return typesystem.Any
}
