package ast

// Kind identifies a node variant. The string form doubles as the JSON tag.
type Kind string

const (
	KindIntLit     Kind = "Int"
	KindFloatLit   Kind = "Float"
	KindBoolLit    Kind = "Bool"
	KindStringLit  Kind = "String"
	KindIdentifier Kind = "Identifier"
	KindAssign     Kind = "Assign"
	KindBinary     Kind = "Binary"
	KindIf         Kind = "If"
	KindWhile      Kind = "While"
	KindBlock      Kind = "Block"
	KindReturn     Kind = "Return"
	KindFnDef      Kind = "FnDef"
	KindCall       Kind = "Call"
	KindArrayLit   Kind = "Array"
	KindIndex      Kind = "Index"
	KindLen        Kind = "Len"
	KindArraySet   Kind = "ArraySet"
	KindArrayPush  Kind = "ArrayPush"
	KindConcat     Kind = "Concat"
	KindReadFile   Kind = "ReadFile"
	KindWriteFile  Kind = "WriteFile"
	KindToString   Kind = "ToString"
	KindEvalBytes  Kind = "EvalBytes"
	KindImport     Kind = "Import"
	KindPrint      Kind = "Print"
	KindExternCall Kind = "ExternCall"
	KindNativeCall Kind = "NativeCall"
	KindNative     Kind = "Native"
)

// Node is the base interface for all program graph nodes.
// The set of implementations is closed: only this package can add variants.
type Node interface {
	Kind() Kind
	node()
}

// IntLit is a 64-bit integer literal.
type IntLit struct {
	Value int64
}

func (n *IntLit) Kind() Kind { return KindIntLit }
func (n *IntLit) node()      {}

// FloatLit is a 64-bit floating-point literal.
type FloatLit struct {
	Value float64
}

func (n *FloatLit) Kind() Kind { return KindFloatLit }
func (n *FloatLit) node()      {}

// BoolLit is a boolean literal.
type BoolLit struct {
	Value bool
}

func (n *BoolLit) Kind() Kind { return KindBoolLit }
func (n *BoolLit) node()      {}

// StringLit is a string literal.
type StringLit struct {
	Value string
}

func (n *StringLit) Kind() Kind { return KindStringLit }
func (n *StringLit) node()      {}

// Identifier reads a binding from the environment.
type Identifier struct {
	Name string
}

func (n *Identifier) Kind() Kind { return KindIdentifier }
func (n *Identifier) node()      {}

// Assign binds the value of Value to Name, overwriting any prior binding.
type Assign struct {
	Name  string
	Value Node
}

func (n *Assign) Kind() Kind { return KindAssign }
func (n *Assign) node()      {}

// IsLiteral reports whether n is one of the four literal kinds.
func IsLiteral(n Node) bool {
	switch n.(type) {
	case *IntLit, *FloatLit, *BoolLit, *StringLit:
		return true
	}
	return false
}

// Constructors used by tooling and tests.

func Int(v int64) *IntLit           { return &IntLit{Value: v} }
func Float(v float64) *FloatLit     { return &FloatLit{Value: v} }
func Bool(v bool) *BoolLit          { return &BoolLit{Value: v} }
func Str(v string) *StringLit       { return &StringLit{Value: v} }
func Ident(name string) *Identifier { return &Identifier{Name: name} }

func Set(name string, value Node) *Assign { return &Assign{Name: name, Value: value} }

func Add(l, r Node) *Binary { return &Binary{Op: OpAdd, Left: l, Right: r} }
func Sub(l, r Node) *Binary { return &Binary{Op: OpSub, Left: l, Right: r} }
func Mul(l, r Node) *Binary { return &Binary{Op: OpMul, Left: l, Right: r} }
func Div(l, r Node) *Binary { return &Binary{Op: OpDiv, Left: l, Right: r} }
func Eq(l, r Node) *Binary  { return &Binary{Op: OpEq, Left: l, Right: r} }
func Lt(l, r Node) *Binary  { return &Binary{Op: OpLt, Left: l, Right: r} }
func Gt(l, r Node) *Binary  { return &Binary{Op: OpGt, Left: l, Right: r} }

func NewBlock(nodes ...Node) *Block {
	if nodes == nil {
		nodes = []Node{}
	}
	return &Block{Nodes: nodes}
}
