package evaluator

import (
	"github.com/funvibe/pgraph/internal/ast"
)

// Request is one call across the native boundary. Module is empty for
// NativeCall; for Native nodes it is the capability name.
type Request struct {
	Module   string
	Function string
	Args     []Object
}

// Name renders the request target as module.function, or just the
// function when there is no module.
func (r Request) Name() string {
	if r.Module == "" {
		return r.Function
	}
	return r.Module + "." + r.Function
}

// Provider serves native calls. It returns handled=false to let the next
// provider try. A handled *Error result is a fault.
type Provider interface {
	Call(req Request) (result Object, handled bool)
}

// ProviderFunc adapts a plain function to Provider.
type ProviderFunc func(req Request) (Object, bool)

func (f ProviderFunc) Call(req Request) (Object, bool) { return f(req) }

// Dispatch queries providers in order and returns the first handled result.
func Dispatch(providers []Provider, req Request) Object {
	for _, p := range providers {
		result, handled := p.Call(req)
		if !handled {
			continue
		}
		if result == nil {
			return VOID
		}
		return result
	}
	return newError("No native provider for %s", req.Name())
}

func (e *Evaluator) evalNative(module, function string, argNodes []ast.Node, env *Environment) Object {
	args, abrupt := e.evalExpressions(argNodes, env)
	if abrupt != nil {
		return abrupt
	}
	req := Request{Module: module, Function: function, Args: args}
	e.Logger.Debug("native call", "target", req.Name(), "args", len(args))
	return Dispatch(e.Providers, req)
}

// NewError creates a fault for use by native providers.
func NewError(format string, a ...interface{}) *Error {
	return newError(format, a...)
}
