package evaluator

import (
	"github.com/funvibe/pgraph/internal/ast"
)

func (e *Evaluator) evalCondition(node ast.Node, env *Environment) (bool, Object) {
	cond := e.Eval(node, env)
	if isAbrupt(cond) {
		return false, cond
	}
	b, ok := cond.(*Boolean)
	if !ok {
		return false, newError("Condition must be Bool, got %s", KindName(cond))
	}
	return b.Value, nil
}

func (e *Evaluator) evalIf(node *ast.If, env *Environment) Object {
	cond, abrupt := e.evalCondition(node.Cond, env)
	if abrupt != nil {
		return abrupt
	}
	if cond {
		return e.Eval(node.Then, env)
	}
	if node.Else != nil {
		return e.Eval(node.Else, env)
	}
	return VOID
}

func (e *Evaluator) evalWhile(node *ast.While, env *Environment) Object {
	for {
		cond, abrupt := e.evalCondition(node.Cond, env)
		if abrupt != nil {
			return abrupt
		}
		if !cond {
			return VOID
		}
		result := e.Eval(node.Body, env)
		if isAbrupt(result) {
			return result
		}
	}
}

func (e *Evaluator) evalBlock(block *ast.Block, env *Environment) Object {
	var result Object = VOID
	for _, stmt := range block.Nodes {
		result = e.Eval(stmt, env)
		if isAbrupt(result) {
			return result
		}
	}
	return result
}
