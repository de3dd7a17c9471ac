package evaluator

import (
	"fmt"
	"strings"

	"github.com/funvibe/pgraph/internal/ast"
)

type ObjectType string

const (
	INTEGER_OBJ      = "INTEGER"
	FLOAT_OBJ        = "FLOAT"
	BOOLEAN_OBJ      = "BOOLEAN"
	STRING_OBJ       = "STRING"
	ARRAY_OBJ        = "ARRAY"
	FUNCTION_OBJ     = "FUNCTION"
	VOID_OBJ         = "VOID"
	RETURN_VALUE_OBJ = "RETURN_VALUE"
	ERROR_OBJ        = "ERROR"

	// Kind names used in fault messages
	RUNTIME_TYPE_INT      = "Int"
	RUNTIME_TYPE_FLOAT    = "Float"
	RUNTIME_TYPE_BOOL     = "Bool"
	RUNTIME_TYPE_STRING   = "String"
	RUNTIME_TYPE_ARRAY    = "Array"
	RUNTIME_TYPE_FUNCTION = "Function"
	RUNTIME_TYPE_VOID     = "Void"
)

// Object is a runtime value or one of the two internal signals
// (*ReturnValue, *Error). Signals never escape Execute.
type Object interface {
	Type() ObjectType
	// Inspect renders the value the way the memory listing shows it.
	Inspect() string
}

type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return fmt.Sprintf("%d", i.Value) }

type Float struct {
	Value float64
}

func (f *Float) Type() ObjectType { return FLOAT_OBJ }
func (f *Float) Inspect() string  { return formatFloat(f.Value) }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return fmt.Sprintf("%t", b.Value) }

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return `"` + s.Value + `"` }

// Array elements may be of mixed kinds. Arrays are never mutated in
// place; ArraySet and ArrayPush build a new Array.
type Array struct {
	Elements []Object
}

func (a *Array) Type() ObjectType { return ARRAY_OBJ }
func (a *Array) Inspect() string  { return "[...]" }

// Function is a named parameter list plus a body. It captures nothing:
// the body sees the caller's bindings at call time.
type Function struct {
	Name       string
	Parameters []string
	Body       ast.Node
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string  { return "<fn>" }

type Void struct{}

func (v *Void) Type() ObjectType { return VOID_OBJ }
func (v *Void) Inspect() string  { return "void" }

// ReturnValue carries a Return out through enclosing blocks and loops
// until a call boundary or Execute absorbs it.
type ReturnValue struct {
	Value Object
}

func (rv *ReturnValue) Type() ObjectType { return RETURN_VALUE_OBJ }
func (rv *ReturnValue) Inspect() string  { return rv.Value.Inspect() }

// Error is a fault. Once produced it propagates through every enclosing
// node up to Execute.
type Error struct {
	Message string
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string  { return "Fault: " + e.Message }

var (
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
	VOID  = &Void{}
)

func nativeBoolToBooleanObject(b bool) *Boolean {
	if b {
		return TRUE
	}
	return FALSE
}

// KindName names an object's kind the way fault messages spell it.
func KindName(obj Object) string {
	switch obj.(type) {
	case *Integer:
		return RUNTIME_TYPE_INT
	case *Float:
		return RUNTIME_TYPE_FLOAT
	case *Boolean:
		return RUNTIME_TYPE_BOOL
	case *String:
		return RUNTIME_TYPE_STRING
	case *Array:
		return RUNTIME_TYPE_ARRAY
	case *Function:
		return RUNTIME_TYPE_FUNCTION
	case *Void:
		return RUNTIME_TYPE_VOID
	case nil:
		return "nil"
	}
	return strings.ToLower(string(obj.Type()))
}

// NewByteArray converts raw bytes to an Array of Integers.
func NewByteArray(data []byte) *Array {
	elems := make([]Object, len(data))
	for i, b := range data {
		elems[i] = &Integer{Value: int64(b)}
	}
	return &Array{Elements: elems}
}

// ToBytes converts an Array of Integers in 0..255 back to raw bytes.
func ToBytes(arr *Array) ([]byte, error) {
	out := make([]byte, len(arr.Elements))
	for i, el := range arr.Elements {
		n, ok := el.(*Integer)
		if !ok {
			return nil, fmt.Errorf("element %d is %s, not a byte", i, KindName(el))
		}
		if n.Value < 0 || n.Value > 255 {
			return nil, fmt.Errorf("element %d out of byte range: %d", i, n.Value)
		}
		out[i] = byte(n.Value)
	}
	return out, nil
}
