// Package optimizer rewrites program graphs with constant folding and
// dead-code elimination. The rewrite is a single bottom-up pass; the input
// graph is never modified and every node of the result is newly allocated.
package optimizer

import (
	"github.com/funvibe/pgraph/internal/ast"
)

// Optimize returns an optimized copy of node.
func Optimize(node ast.Node) ast.Node {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *ast.Binary:
		left := Optimize(n.Left)
		right := Optimize(n.Right)
		if folded, ok := foldBinary(n.Op, left, right); ok {
			return folded
		}
		return &ast.Binary{Op: n.Op, Left: left, Right: right}

	case *ast.If:
		cond := Optimize(n.Cond)
		if b, ok := cond.(*ast.BoolLit); ok {
			if b.Value {
				return Optimize(n.Then)
			}
			if n.Else == nil {
				return ast.NewBlock()
			}
			return Optimize(n.Else)
		}
		return &ast.If{Cond: cond, Then: Optimize(n.Then), Else: Optimize(n.Else)}

	case *ast.While:
		cond := Optimize(n.Cond)
		if b, ok := cond.(*ast.BoolLit); ok && !b.Value {
			return ast.NewBlock()
		}
		return &ast.While{Cond: cond, Body: Optimize(n.Body)}

	case *ast.Assign:
		return &ast.Assign{Name: n.Name, Value: Optimize(n.Value)}
	case *ast.Block:
		return &ast.Block{Nodes: optimizeList(n.Nodes)}
	case *ast.Return:
		return &ast.Return{Value: Optimize(n.Value)}
	case *ast.FnDef:
		return &ast.FnDef{Name: n.Name, Params: append([]string{}, n.Params...), Body: Optimize(n.Body)}
	case *ast.Call:
		return &ast.Call{Name: n.Name, Args: optimizeList(n.Args)}
	case *ast.ArrayLit:
		return &ast.ArrayLit{Elements: optimizeList(n.Elements)}
	case *ast.Index:
		return &ast.Index{Target: Optimize(n.Target), Index: Optimize(n.Index)}
	case *ast.Len:
		return &ast.Len{Value: Optimize(n.Value)}
	case *ast.ArraySet:
		return &ast.ArraySet{Name: n.Name, Index: Optimize(n.Index), Value: Optimize(n.Value)}
	case *ast.ArrayPush:
		return &ast.ArrayPush{Name: n.Name, Value: Optimize(n.Value)}
	case *ast.Concat:
		return &ast.Concat{Left: Optimize(n.Left), Right: Optimize(n.Right)}
	case *ast.ReadFile:
		return &ast.ReadFile{Path: Optimize(n.Path)}
	case *ast.WriteFile:
		return &ast.WriteFile{Path: Optimize(n.Path), Data: Optimize(n.Data)}
	case *ast.ToString:
		return &ast.ToString{Value: Optimize(n.Value)}
	case *ast.EvalBytes:
		return &ast.EvalBytes{Bytes: Optimize(n.Bytes)}
	case *ast.Print:
		return &ast.Print{Value: Optimize(n.Value)}
	case *ast.ExternCall:
		return &ast.ExternCall{Module: n.Module, Function: n.Function, Args: optimizeList(n.Args)}
	case *ast.NativeCall:
		return &ast.NativeCall{Function: n.Function, Args: optimizeList(n.Args)}
	case *ast.Native:
		return &ast.Native{Capability: n.Capability, Op: n.Op, Args: optimizeList(n.Args)}
	}

	// Literals, identifiers and imports have nothing to rewrite.
	return ast.Clone(node)
}

func optimizeList(nodes []ast.Node) []ast.Node {
	out := make([]ast.Node, len(nodes))
	for i, n := range nodes {
		out[i] = Optimize(n)
	}
	return out
}

// CountNodes returns the number of nodes in the graph rooted at node.
func CountNodes(node ast.Node) int {
	count := 0
	ast.Walk(node, func(ast.Node) bool {
		count++
		return true
	})
	return count
}

// Stats describes the effect of one optimization pass.
type Stats struct {
	Before int
	After  int
}

// Removed returns how many nodes the pass eliminated.
func (s Stats) Removed() int { return s.Before - s.After }

// Run optimizes node and reports the node counts around the pass.
func Run(node ast.Node) (ast.Node, Stats) {
	out := Optimize(node)
	return out, Stats{Before: CountNodes(node), After: CountNodes(out)}
}
