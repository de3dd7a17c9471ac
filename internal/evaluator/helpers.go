package evaluator

import (
	"fmt"
)

func newError(format string, a ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, a...)}
}

func isError(obj Object) bool {
	if obj != nil {
		return obj.Type() == ERROR_OBJ
	}
	return false
}

// isAbrupt reports whether obj is a fault or a return signal; either one
// stops evaluation of the enclosing node.
func isAbrupt(obj Object) bool {
	if obj == nil {
		return false
	}
	t := obj.Type()
	return t == ERROR_OBJ || t == RETURN_VALUE_OBJ
}

func unwrapReturnValue(obj Object) Object {
	if returnValue, ok := obj.(*ReturnValue); ok {
		return returnValue.Value
	}
	return obj
}

func typeMismatch(op string, left, right Object) *Error {
	return newError("Type mismatch: %s on %s and %s", op, KindName(left), KindName(right))
}
