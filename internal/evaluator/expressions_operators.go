package evaluator

import (
	"github.com/funvibe/pgraph/internal/ast"
)

func (e *Evaluator) evalBinary(node *ast.Binary, env *Environment) Object {
	left := e.Eval(node.Left, env)
	if isAbrupt(left) {
		return left
	}
	right := e.Eval(node.Right, env)
	if isAbrupt(right) {
		return right
	}

	if node.Op == ast.OpEq {
		return nativeBoolToBooleanObject(objectsEqual(left, right))
	}

	switch l := left.(type) {
	case *Integer:
		if r, ok := right.(*Integer); ok {
			return evalIntegerInfix(node.Op, l.Value, r.Value)
		}
	case *Float:
		if r, ok := right.(*Float); ok {
			return evalFloatInfix(node.Op, l.Value, r.Value)
		}
	}
	return typeMismatch(string(node.Op), left, right)
}

func evalIntegerInfix(op ast.Op, a, b int64) Object {
	switch op {
	case ast.OpAdd:
		return &Integer{Value: a + b}
	case ast.OpSub:
		return &Integer{Value: a - b}
	case ast.OpMul:
		return &Integer{Value: a * b}
	case ast.OpDiv:
		if b == 0 {
			return newError("Division by zero")
		}
		return &Integer{Value: a / b}
	case ast.OpLt:
		return nativeBoolToBooleanObject(a < b)
	case ast.OpGt:
		return nativeBoolToBooleanObject(a > b)
	case ast.OpBitAnd:
		return &Integer{Value: a & b}
	case ast.OpShl:
		if b < 0 || b > 63 {
			return newError("Shift amount out of range: %d", b)
		}
		return &Integer{Value: a << uint(b)}
	case ast.OpShr:
		if b < 0 || b > 63 {
			return newError("Shift amount out of range: %d", b)
		}
		return &Integer{Value: a >> uint(b)}
	}
	return newError("unknown operator: %s", op)
}

func evalFloatInfix(op ast.Op, a, b float64) Object {
	switch op {
	case ast.OpAdd:
		return &Float{Value: a + b}
	case ast.OpSub:
		return &Float{Value: a - b}
	case ast.OpMul:
		return &Float{Value: a * b}
	case ast.OpDiv:
		if b == 0 {
			return newError("Division by zero")
		}
		return &Float{Value: a / b}
	case ast.OpLt:
		return nativeBoolToBooleanObject(a < b)
	case ast.OpGt:
		return nativeBoolToBooleanObject(a > b)
	case ast.OpBitAnd, ast.OpShl, ast.OpShr:
		return newError("Type mismatch: %s on %s and %s", op, RUNTIME_TYPE_FLOAT, RUNTIME_TYPE_FLOAT)
	}
	return newError("unknown operator: %s", op)
}
