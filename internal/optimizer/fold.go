package optimizer

import (
	"github.com/funvibe/pgraph/internal/ast"
)

// maxShift is the largest shift amount that is folded; larger or negative
// amounts are left for the evaluator to reject.
const maxShift = 63

// foldBinary computes op over two already-optimized operands when both are
// literals of a kind the operator folds for.
func foldBinary(op ast.Op, left, right ast.Node) (ast.Node, bool) {
	if !ast.IsLiteral(left) || !ast.IsLiteral(right) {
		return nil, false
	}
	switch l := left.(type) {
	case *ast.IntLit:
		r, ok := right.(*ast.IntLit)
		if !ok {
			return nil, false
		}
		return foldInt(op, l.Value, r.Value)
	case *ast.FloatLit:
		r, ok := right.(*ast.FloatLit)
		if !ok {
			return nil, false
		}
		return foldFloat(op, l.Value, r.Value)
	case *ast.BoolLit:
		r, ok := right.(*ast.BoolLit)
		if !ok || op != ast.OpEq {
			return nil, false
		}
		return ast.Bool(l.Value == r.Value), true
	case *ast.StringLit:
		r, ok := right.(*ast.StringLit)
		if !ok || op != ast.OpEq {
			return nil, false
		}
		return ast.Bool(l.Value == r.Value), true
	}
	return nil, false
}

func foldInt(op ast.Op, a, b int64) (ast.Node, bool) {
	switch op {
	case ast.OpAdd:
		return ast.Int(a + b), true
	case ast.OpSub:
		return ast.Int(a - b), true
	case ast.OpMul:
		return ast.Int(a * b), true
	case ast.OpDiv:
		if b == 0 {
			return nil, false
		}
		return ast.Int(a / b), true
	case ast.OpEq:
		return ast.Bool(a == b), true
	case ast.OpLt:
		return ast.Bool(a < b), true
	case ast.OpGt:
		return ast.Bool(a > b), true
	case ast.OpBitAnd:
		return ast.Int(a & b), true
	case ast.OpShl:
		if b < 0 || b > maxShift {
			return nil, false
		}
		return ast.Int(a << uint(b)), true
	case ast.OpShr:
		if b < 0 || b > maxShift {
			return nil, false
		}
		return ast.Int(a >> uint(b)), true
	}
	return nil, false
}

func foldFloat(op ast.Op, a, b float64) (ast.Node, bool) {
	switch op {
	case ast.OpAdd:
		return ast.Float(a + b), true
	case ast.OpSub:
		return ast.Float(a - b), true
	case ast.OpMul:
		return ast.Float(a * b), true
	case ast.OpDiv:
		// Covers -0.0 as well.
		if b == 0 {
			return nil, false
		}
		return ast.Float(a / b), true
	case ast.OpEq:
		return ast.Bool(a == b), true
	case ast.OpLt:
		return ast.Bool(a < b), true
	case ast.OpGt:
		return ast.Bool(a > b), true
	}
	// Bitwise operators are integer-only.
	return nil, false
}
