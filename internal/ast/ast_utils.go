package ast

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Clone returns a deep copy of n. The copy shares no nodes with n.
func Clone(n Node) Node {
	switch n := n.(type) {
	case nil:
		return nil
	case *IntLit:
		return &IntLit{Value: n.Value}
	case *FloatLit:
		return &FloatLit{Value: n.Value}
	case *BoolLit:
		return &BoolLit{Value: n.Value}
	case *StringLit:
		return &StringLit{Value: n.Value}
	case *Identifier:
		return &Identifier{Name: n.Name}
	case *Assign:
		return &Assign{Name: n.Name, Value: Clone(n.Value)}
	case *Binary:
		return &Binary{Op: n.Op, Left: Clone(n.Left), Right: Clone(n.Right)}
	case *If:
		return &If{Cond: Clone(n.Cond), Then: Clone(n.Then), Else: Clone(n.Else)}
	case *While:
		return &While{Cond: Clone(n.Cond), Body: Clone(n.Body)}
	case *Block:
		return &Block{Nodes: CloneList(n.Nodes)}
	case *Return:
		return &Return{Value: Clone(n.Value)}
	case *FnDef:
		return &FnDef{Name: n.Name, Params: append([]string{}, n.Params...), Body: Clone(n.Body)}
	case *Call:
		return &Call{Name: n.Name, Args: CloneList(n.Args)}
	case *ArrayLit:
		return &ArrayLit{Elements: CloneList(n.Elements)}
	case *Index:
		return &Index{Target: Clone(n.Target), Index: Clone(n.Index)}
	case *Len:
		return &Len{Value: Clone(n.Value)}
	case *ArraySet:
		return &ArraySet{Name: n.Name, Index: Clone(n.Index), Value: Clone(n.Value)}
	case *ArrayPush:
		return &ArrayPush{Name: n.Name, Value: Clone(n.Value)}
	case *Concat:
		return &Concat{Left: Clone(n.Left), Right: Clone(n.Right)}
	case *ReadFile:
		return &ReadFile{Path: Clone(n.Path)}
	case *WriteFile:
		return &WriteFile{Path: Clone(n.Path), Data: Clone(n.Data)}
	case *ToString:
		return &ToString{Value: Clone(n.Value)}
	case *EvalBytes:
		return &EvalBytes{Bytes: Clone(n.Bytes)}
	case *Import:
		return &Import{Path: n.Path}
	case *Print:
		return &Print{Value: Clone(n.Value)}
	case *ExternCall:
		return &ExternCall{Module: n.Module, Function: n.Function, Args: CloneList(n.Args)}
	case *NativeCall:
		return &NativeCall{Function: n.Function, Args: CloneList(n.Args)}
	case *Native:
		return &Native{Capability: n.Capability, Op: n.Op, Args: CloneList(n.Args)}
	default:
		panic(fmt.Sprintf("ast.Clone: unhandled node %T", n))
	}
}

// CloneList deep-copies a node list. A nil list clones to an empty one.
func CloneList(nodes []Node) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = Clone(n)
	}
	return out
}

// Equal reports whether a and b are structurally identical.
// Nil and empty lists are equal; floats compare by bit pattern.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch a := a.(type) {
	case *IntLit:
		return a.Value == b.(*IntLit).Value
	case *FloatLit:
		return math.Float64bits(a.Value) == math.Float64bits(b.(*FloatLit).Value)
	case *BoolLit:
		return a.Value == b.(*BoolLit).Value
	case *StringLit:
		return a.Value == b.(*StringLit).Value
	case *Identifier:
		return a.Name == b.(*Identifier).Name
	case *Assign:
		bb := b.(*Assign)
		return a.Name == bb.Name && Equal(a.Value, bb.Value)
	case *Binary:
		bb := b.(*Binary)
		return a.Op == bb.Op && Equal(a.Left, bb.Left) && Equal(a.Right, bb.Right)
	case *If:
		bb := b.(*If)
		return Equal(a.Cond, bb.Cond) && Equal(a.Then, bb.Then) && Equal(a.Else, bb.Else)
	case *While:
		bb := b.(*While)
		return Equal(a.Cond, bb.Cond) && Equal(a.Body, bb.Body)
	case *Block:
		return EqualList(a.Nodes, b.(*Block).Nodes)
	case *Return:
		return Equal(a.Value, b.(*Return).Value)
	case *FnDef:
		bb := b.(*FnDef)
		if a.Name != bb.Name || len(a.Params) != len(bb.Params) {
			return false
		}
		for i := range a.Params {
			if a.Params[i] != bb.Params[i] {
				return false
			}
		}
		return Equal(a.Body, bb.Body)
	case *Call:
		bb := b.(*Call)
		return a.Name == bb.Name && EqualList(a.Args, bb.Args)
	case *ArrayLit:
		return EqualList(a.Elements, b.(*ArrayLit).Elements)
	case *Index:
		bb := b.(*Index)
		return Equal(a.Target, bb.Target) && Equal(a.Index, bb.Index)
	case *Len:
		return Equal(a.Value, b.(*Len).Value)
	case *ArraySet:
		bb := b.(*ArraySet)
		return a.Name == bb.Name && Equal(a.Index, bb.Index) && Equal(a.Value, bb.Value)
	case *ArrayPush:
		bb := b.(*ArrayPush)
		return a.Name == bb.Name && Equal(a.Value, bb.Value)
	case *Concat:
		bb := b.(*Concat)
		return Equal(a.Left, bb.Left) && Equal(a.Right, bb.Right)
	case *ReadFile:
		return Equal(a.Path, b.(*ReadFile).Path)
	case *WriteFile:
		bb := b.(*WriteFile)
		return Equal(a.Path, bb.Path) && Equal(a.Data, bb.Data)
	case *ToString:
		return Equal(a.Value, b.(*ToString).Value)
	case *EvalBytes:
		return Equal(a.Bytes, b.(*EvalBytes).Bytes)
	case *Import:
		return a.Path == b.(*Import).Path
	case *Print:
		return Equal(a.Value, b.(*Print).Value)
	case *ExternCall:
		bb := b.(*ExternCall)
		return a.Module == bb.Module && a.Function == bb.Function && EqualList(a.Args, bb.Args)
	case *NativeCall:
		bb := b.(*NativeCall)
		return a.Function == bb.Function && EqualList(a.Args, bb.Args)
	case *Native:
		bb := b.(*Native)
		return a.Capability == bb.Capability && a.Op == bb.Op && EqualList(a.Args, bb.Args)
	default:
		panic(fmt.Sprintf("ast.Equal: unhandled node %T", a))
	}
}

// EqualList compares two node lists element-wise.
func EqualList(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Children returns the direct sub-nodes of n in evaluation order.
// Absent optional children (an If without Else) are omitted.
func Children(n Node) []Node {
	var out []Node
	add := func(nodes ...Node) {
		for _, c := range nodes {
			if c != nil {
				out = append(out, c)
			}
		}
	}
	switch n := n.(type) {
	case *Assign:
		add(n.Value)
	case *Binary:
		add(n.Left, n.Right)
	case *If:
		add(n.Cond, n.Then, n.Else)
	case *While:
		add(n.Cond, n.Body)
	case *Block:
		add(n.Nodes...)
	case *Return:
		add(n.Value)
	case *FnDef:
		add(n.Body)
	case *Call:
		add(n.Args...)
	case *ArrayLit:
		add(n.Elements...)
	case *Index:
		add(n.Target, n.Index)
	case *Len:
		add(n.Value)
	case *ArraySet:
		add(n.Index, n.Value)
	case *ArrayPush:
		add(n.Value)
	case *Concat:
		add(n.Left, n.Right)
	case *ReadFile:
		add(n.Path)
	case *WriteFile:
		add(n.Path, n.Data)
	case *ToString:
		add(n.Value)
	case *EvalBytes:
		add(n.Bytes)
	case *Print:
		add(n.Value)
	case *ExternCall:
		add(n.Args...)
	case *NativeCall:
		add(n.Args...)
	case *Native:
		add(n.Args...)
	}
	return out
}

// Walk calls fn for n and every node below it, parents first.
// Returning false from fn skips that node's children.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Walk(c, fn)
	}
}

// GobEncode stores the raw bit pattern; gob would otherwise drop -0.0 as a zero value.
func (n *FloatLit) GobEncode() ([]byte, error) {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, math.Float64bits(n.Value))
	return buf, nil
}

func (n *FloatLit) GobDecode(data []byte) error {
	if len(data) != 8 {
		return fmt.Errorf("float literal: expected 8 bytes, got %d", len(data))
	}
	n.Value = math.Float64frombits(binary.LittleEndian.Uint64(data))
	return nil
}
