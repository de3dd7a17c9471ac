package evaluator

import (
	"github.com/funvibe/pgraph/internal/ast"
)

func (e *Evaluator) evalCall(node *ast.Call, env *Environment) Object {
	obj, ok := env.Get(node.Name)
	if !ok {
		return newError("Undefined function: %s", node.Name)
	}
	fn, ok := obj.(*Function)
	if !ok {
		return newError("Not a function: %s", node.Name)
	}
	if len(fn.Parameters) != len(node.Args) {
		return newError("Arity mismatch calling %s: expected %d arguments, got %d",
			node.Name, len(fn.Parameters), len(node.Args))
	}

	args, abrupt := e.evalExpressions(node.Args, env)
	if abrupt != nil {
		return abrupt
	}
	return e.ApplyFunction(fn, args, env)
}

// ApplyFunction runs fn in a new frame on top of caller. The callee reads
// every binding visible to the caller; everything it writes is dropped
// with the frame.
func (e *Evaluator) ApplyFunction(fn *Function, args []Object, caller *Environment) Object {
	frame := NewEnclosedEnvironment(caller)
	for i, param := range fn.Parameters {
		frame.Set(param, args[i])
	}
	result := e.Eval(fn.Body, frame)
	if isError(result) {
		return result
	}
	return unwrapReturnValue(result)
}
