package evaluator

// objectsEqual is structural equality. Values of different kinds are
// never equal; functions compare by identity.
func objectsEqual(a, b Object) bool {
	switch a := a.(type) {
	case *Integer:
		b, ok := b.(*Integer)
		return ok && a.Value == b.Value
	case *Float:
		b, ok := b.(*Float)
		return ok && a.Value == b.Value
	case *Boolean:
		b, ok := b.(*Boolean)
		return ok && a.Value == b.Value
	case *String:
		b, ok := b.(*String)
		return ok && a.Value == b.Value
	case *Array:
		b, ok := b.(*Array)
		if !ok || len(a.Elements) != len(b.Elements) {
			return false
		}
		for i := range a.Elements {
			if !objectsEqual(a.Elements[i], b.Elements[i]) {
				return false
			}
		}
		return true
	case *Function:
		b, ok := b.(*Function)
		return ok && a == b
	case *Void:
		_, ok := b.(*Void)
		return ok
	}
	return false
}
