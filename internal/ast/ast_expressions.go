package ast

// Op is a binary operator. Its string form is the JSON kind of the node.
type Op string

const (
	OpAdd    Op = "Add"
	OpSub    Op = "Sub"
	OpMul    Op = "Mul"
	OpDiv    Op = "Div"
	OpEq     Op = "Eq"
	OpLt     Op = "Lt"
	OpGt     Op = "Gt"
	OpBitAnd Op = "BitAnd"
	OpShl    Op = "Shl"
	OpShr    Op = "Shr"
)

// Ops lists every binary operator.
var Ops = []Op{OpAdd, OpSub, OpMul, OpDiv, OpEq, OpLt, OpGt, OpBitAnd, OpShl, OpShr}

// LookupOp returns the operator with the given name.
func LookupOp(name string) (Op, bool) {
	for _, op := range Ops {
		if string(op) == name {
			return op, true
		}
	}
	return "", false
}

// IsArithmetic reports whether op is one of + - * /.
func (op Op) IsArithmetic() bool {
	return op == OpAdd || op == OpSub || op == OpMul || op == OpDiv
}

// IsComparison reports whether op yields a boolean.
func (op Op) IsComparison() bool {
	return op == OpEq || op == OpLt || op == OpGt
}

// IsBitwise reports whether op is an integer-only bit operation.
func (op Op) IsBitwise() bool {
	return op == OpBitAnd || op == OpShl || op == OpShr
}

// Binary applies Op to Left and Right.
type Binary struct {
	Op    Op
	Left  Node
	Right Node
}

func (n *Binary) Kind() Kind { return KindBinary }
func (n *Binary) node()      {}

// If evaluates Then when Cond is true, otherwise Else (which may be nil).
type If struct {
	Cond Node
	Then Node
	Else Node
}

func (n *If) Kind() Kind { return KindIf }
func (n *If) node()      {}

// While repeats Body while Cond is true.
type While struct {
	Cond Node
	Body Node
}

func (n *While) Kind() Kind { return KindWhile }
func (n *While) node()      {}

// Block evaluates Nodes in order.
type Block struct {
	Nodes []Node
}

func (n *Block) Kind() Kind { return KindBlock }
func (n *Block) node()      {}

// Return leaves the enclosing function (or the program) with Value.
type Return struct {
	Value Node
}

func (n *Return) Kind() Kind { return KindReturn }
func (n *Return) node()      {}

// FnDef binds a function value under Name.
type FnDef struct {
	Name   string
	Params []string
	Body   Node
}

func (n *FnDef) Kind() Kind { return KindFnDef }
func (n *FnDef) node()      {}

// Call invokes the function bound to Name.
type Call struct {
	Name string
	Args []Node
}

func (n *Call) Kind() Kind { return KindCall }
func (n *Call) node()      {}

// ArrayLit constructs an array from Elements.
type ArrayLit struct {
	Elements []Node
}

func (n *ArrayLit) Kind() Kind { return KindArrayLit }
func (n *ArrayLit) node()      {}

// Index reads element Index of an array or string.
type Index struct {
	Target Node
	Index  Node
}

func (n *Index) Kind() Kind { return KindIndex }
func (n *Index) node()      {}

// Len yields the length of an array or string.
type Len struct {
	Value Node
}

func (n *Len) Kind() Kind { return KindLen }
func (n *Len) node()      {}

// ArraySet replaces element Index of the array bound to Name.
type ArraySet struct {
	Name  string
	Index Node
	Value Node
}

func (n *ArraySet) Kind() Kind { return KindArraySet }
func (n *ArraySet) node()      {}

// ArrayPush appends Value to the array bound to Name.
type ArrayPush struct {
	Name  string
	Value Node
}

func (n *ArrayPush) Kind() Kind { return KindArrayPush }
func (n *ArrayPush) node()      {}

// Concat joins two strings or two arrays.
type Concat struct {
	Left  Node
	Right Node
}

func (n *Concat) Kind() Kind { return KindConcat }
func (n *Concat) node()      {}

// ReadFile reads a file as an array of byte integers.
type ReadFile struct {
	Path Node
}

func (n *ReadFile) Kind() Kind { return KindReadFile }
func (n *ReadFile) node()      {}

// WriteFile writes a string or byte array to a file.
type WriteFile struct {
	Path Node
	Data Node
}

func (n *WriteFile) Kind() Kind { return KindWriteFile }
func (n *WriteFile) node()      {}

// ToString renders a value in its top-level textual form.
type ToString struct {
	Value Node
}

func (n *ToString) Kind() Kind { return KindToString }
func (n *ToString) node()      {}

// EvalBytes decodes a binary-encoded program graph and runs it in a fresh evaluator.
type EvalBytes struct {
	Bytes Node
}

func (n *EvalBytes) Kind() Kind { return KindEvalBytes }
func (n *EvalBytes) node()      {}

// Import loads another program graph file.
type Import struct {
	Path string
}

func (n *Import) Kind() Kind { return KindImport }
func (n *Import) node()      {}

// Print writes a value to the evaluator's output.
type Print struct {
	Value Node
}

func (n *Print) Kind() Kind { return KindPrint }
func (n *Print) node()      {}

// ExternCall dispatches Module.Function to the native providers.
type ExternCall struct {
	Module   string
	Function string
	Args     []Node
}

func (n *ExternCall) Kind() Kind { return KindExternCall }
func (n *ExternCall) node()      {}

// NativeCall dispatches Function with no module to the native providers.
type NativeCall struct {
	Function string
	Args     []Node
}

func (n *NativeCall) Kind() Kind { return KindNativeCall }
func (n *NativeCall) node()      {}

// Capability names an extension area served only by native providers.
type Capability string

const (
	CapWindow   Capability = "window"
	CapGraphics Capability = "graphics"
	CapAudio    Capability = "audio"
	CapUI       Capability = "ui"
	CapVoxel    Capability = "voxel"
	CapCamera   Capability = "camera"
)

// Capabilities lists every extension capability.
var Capabilities = []Capability{CapWindow, CapGraphics, CapAudio, CapUI, CapVoxel, CapCamera}

// Native is an extension primitive (window creation, shader compilation,
// mesh loading, widgets, voxels, camera). The core never interprets it.
type Native struct {
	Capability Capability
	Op         string
	Args       []Node
}

func (n *Native) Kind() Kind { return KindNative }
func (n *Native) node()      {}
