package typesystem

// Type is a coarse inferred type tag. The checker never unifies; two tags
// either agree, or one of them is Any.
type Type string

const (
	Int    Type = "Int"
	Float  Type = "Float"
	Bool   Type = "Bool"
	String Type = "String"
	Array  Type = "Array"
	Object Type = "Object"
	Any    Type = "Any"
	Void   Type = "Void"
	Handle Type = "Handle"
)

// All lists every tag.
var All = []Type{Int, Float, Bool, String, Array, Object, Any, Void, Handle}

func (t Type) String() string { return string(t) }

// Compatible reports whether a value of type a may stand where b was seen.
func Compatible(a, b Type) bool {
	return a == Any || b == Any || a == b
}

// IsNumeric reports whether t is Int or Float.
func (t Type) IsNumeric() bool {
	return t == Int || t == Float
}

// IsSequence reports whether t supports Concat, Index and Len.
func (t Type) IsSequence() bool {
	return t == String || t == Array
}

// Join returns the common type of two branches: the shared tag when they
// agree, otherwise Any.
func Join(a, b Type) Type {
	if a == b {
		return a
	}
	return Any
}
