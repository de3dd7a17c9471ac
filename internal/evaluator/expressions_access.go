package evaluator

import (
	"github.com/funvibe/pgraph/internal/ast"
)

func (e *Evaluator) evalIndex(node *ast.Index, env *Environment) Object {
	target := e.Eval(node.Target, env)
	if isAbrupt(target) {
		return target
	}
	index := e.Eval(node.Index, env)
	if isAbrupt(index) {
		return index
	}
	idx, ok := index.(*Integer)
	if !ok {
		return newError("Index must be Int, got %s", KindName(index))
	}

	switch t := target.(type) {
	case *Array:
		if idx.Value < 0 || idx.Value >= int64(len(t.Elements)) {
			return newError("Index out of bounds: %d (length %d)", idx.Value, len(t.Elements))
		}
		return t.Elements[idx.Value]
	case *String:
		runes := []rune(t.Value)
		if idx.Value < 0 || idx.Value >= int64(len(runes)) {
			return newError("Index out of bounds: %d (length %d)", idx.Value, len(runes))
		}
		return &String{Value: string(runes[idx.Value])}
	}
	return newError("Cannot index %s", KindName(target))
}

func (e *Evaluator) evalLen(node *ast.Len, env *Environment) Object {
	val := e.Eval(node.Value, env)
	if isAbrupt(val) {
		return val
	}
	switch v := val.(type) {
	case *Array:
		return &Integer{Value: int64(len(v.Elements))}
	case *String:
		return &Integer{Value: int64(len([]rune(v.Value)))}
	}
	return newError("Len requires Array or String, got %s", KindName(val))
}

// lookupArray fetches the array bound to name for an in-place style update.
func (e *Evaluator) lookupArray(op, name string, env *Environment) (*Array, Object) {
	obj, ok := env.Get(name)
	if !ok {
		return nil, newError("Undefined variable: %s", name)
	}
	arr, ok := obj.(*Array)
	if !ok {
		return nil, newError("%s on non-array '%s': %s", op, name, KindName(obj))
	}
	return arr, nil
}

func (e *Evaluator) evalArraySet(node *ast.ArraySet, env *Environment) Object {
	arr, fault := e.lookupArray("ArraySet", node.Name, env)
	if fault != nil {
		return fault
	}
	index := e.Eval(node.Index, env)
	if isAbrupt(index) {
		return index
	}
	val := e.Eval(node.Value, env)
	if isAbrupt(val) {
		return val
	}
	idx, ok := index.(*Integer)
	if !ok {
		return newError("Index must be Int, got %s", KindName(index))
	}
	if idx.Value < 0 || idx.Value >= int64(len(arr.Elements)) {
		return newError("Index out of bounds: %d (length %d)", idx.Value, len(arr.Elements))
	}

	elems := make([]Object, len(arr.Elements))
	copy(elems, arr.Elements)
	elems[idx.Value] = val
	return env.Set(node.Name, &Array{Elements: elems})
}

func (e *Evaluator) evalArrayPush(node *ast.ArrayPush, env *Environment) Object {
	arr, fault := e.lookupArray("ArrayPush", node.Name, env)
	if fault != nil {
		return fault
	}
	val := e.Eval(node.Value, env)
	if isAbrupt(val) {
		return val
	}

	elems := make([]Object, len(arr.Elements), len(arr.Elements)+1)
	copy(elems, arr.Elements)
	elems = append(elems, val)
	return env.Set(node.Name, &Array{Elements: elems})
}

func (e *Evaluator) evalConcat(node *ast.Concat, env *Environment) Object {
	left := e.Eval(node.Left, env)
	if isAbrupt(left) {
		return left
	}
	right := e.Eval(node.Right, env)
	if isAbrupt(right) {
		return right
	}

	switch l := left.(type) {
	case *String:
		if r, ok := right.(*String); ok {
			return &String{Value: l.Value + r.Value}
		}
	case *Array:
		if r, ok := right.(*Array); ok {
			elems := make([]Object, 0, len(l.Elements)+len(r.Elements))
			elems = append(elems, l.Elements...)
			elems = append(elems, r.Elements...)
			return &Array{Elements: elems}
		}
	}
	return typeMismatch("Concat", left, right)
}
