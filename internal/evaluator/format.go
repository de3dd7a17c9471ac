package evaluator

import (
	"math"
	"strconv"
	"strings"

	"github.com/funvibe/pgraph/internal/config"
)

// FormatResult renders the outcome of a top-level evaluation. A fault
// renders alone; a value is followed by the global bindings, sorted by
// name, when there are any.
func FormatResult(result Object, env *Environment) string {
	result = unwrapReturnValue(result)
	if err, ok := result.(*Error); ok {
		return config.FaultPrefix + err.Message
	}

	var out strings.Builder
	out.WriteString(config.ReturnPrefix)
	out.WriteString(Repr(result))

	if env != nil && env.Len() > 0 {
		out.WriteString(config.MemoryPrefix)
		store := env.GetStore()
		for i, name := range env.Names() {
			if i > 0 {
				out.WriteString(", ")
			}
			out.WriteString(name)
			out.WriteString(" = ")
			out.WriteString(store[name].Inspect())
		}
	}
	return out.String()
}

// Repr renders a value with its type suffix, as the top-level result and
// ToString show it.
func Repr(obj Object) string {
	switch v := obj.(type) {
	case *Integer:
		return strconv.FormatInt(v.Value, 10) + " (" + config.IntSuffix + ")"
	case *Float:
		return formatFloat(v.Value) + " (" + config.FloatSuffix + ")"
	case *Boolean:
		return strconv.FormatBool(v.Value) + " (" + config.BoolSuffix + ")"
	case *String:
		return `"` + v.Value + `" (` + config.StringSuffix + ")"
	case *Array:
		parts := make([]string, len(v.Elements))
		for i, el := range v.Elements {
			parts[i] = Repr(el)
		}
		return "[" + strings.Join(parts, ", ") + "] (" + config.ArraySuffix + ")"
	case *Function:
		return "<Function>"
	case *Void, nil:
		return "void"
	case *ReturnValue:
		return Repr(v.Value)
	}
	return obj.Inspect()
}

// formatFloat renders f in debug form: integral values keep a trailing
// ".0", very large and very small magnitudes use an exponent.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		n, _ := strconv.Atoi(exp)
		return mantissa + "e" + strconv.Itoa(n)
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
