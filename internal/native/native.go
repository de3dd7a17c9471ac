// Package native holds the built-in native providers: io helpers backed by
// a shared resource table, math and noise helpers, and a small test bridge.
// Each provider registers itself with the evaluator's provider registry.
package native

import (
	"github.com/funvibe/pgraph/internal/config"
	"github.com/funvibe/pgraph/internal/evaluator"
)

type BuiltinFunction func(args ...evaluator.Object) evaluator.Object

type Builtin struct {
	Name  string
	Arity int // -1 accepts any number of arguments
	Fn    BuiltinFunction
}

// Module serves one named table of builtins. A request with an empty
// module matches any module that has the function.
type Module struct {
	Name     string
	Builtins map[string]*Builtin
}

func (m *Module) Call(req evaluator.Request) (evaluator.Object, bool) {
	if req.Module != "" && req.Module != m.Name {
		return nil, false
	}
	b, ok := m.Builtins[req.Function]
	if !ok {
		return nil, false
	}
	if b.Arity >= 0 && len(req.Args) != b.Arity {
		return evaluator.NewError("%s.%s expects %d arguments, got %d", m.Name, b.Name, b.Arity, len(req.Args)), true
	}
	return b.Fn(req.Args...), true
}

func init() {
	evaluator.RegisterProvider(config.IOModule, IOModule(DefaultResources))
	evaluator.RegisterProvider(config.MathModule, MathModule())
	evaluator.RegisterProvider(config.BridgeModule, BridgeModule())
}

// Defaults returns the built-in providers in their standard dispatch order.
func Defaults() []evaluator.Provider {
	return []evaluator.Provider{
		IOModule(DefaultResources),
		MathModule(),
		BridgeModule(),
	}
}

func argString(fn string, args []evaluator.Object, i int) (string, *evaluator.Error) {
	s, ok := args[i].(*evaluator.String)
	if !ok {
		return "", evaluator.NewError("%s: argument %d must be String, got %s", fn, i+1, evaluator.KindName(args[i]))
	}
	return s.Value, nil
}

func argInt(fn string, args []evaluator.Object, i int) (int64, *evaluator.Error) {
	n, ok := args[i].(*evaluator.Integer)
	if !ok {
		return 0, evaluator.NewError("%s: argument %d must be Int, got %s", fn, i+1, evaluator.KindName(args[i]))
	}
	return n.Value, nil
}

// argNumber accepts Int or Float and widens to float64.
func argNumber(fn string, args []evaluator.Object, i int) (float64, *evaluator.Error) {
	switch n := args[i].(type) {
	case *evaluator.Integer:
		return float64(n.Value), nil
	case *evaluator.Float:
		return n.Value, nil
	}
	return 0, evaluator.NewError("%s: argument %d must be a number, got %s", fn, i+1, evaluator.KindName(args[i]))
}
