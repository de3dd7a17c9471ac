package pgraph

import (
	"fmt"
	"reflect"

	"github.com/funvibe/pgraph/internal/config"
	"github.com/funvibe/pgraph/internal/evaluator"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// hostCall serves NativeCall nodes and ExternCall nodes addressed to the
// host module from the bound Go functions.
func (e *Engine) hostCall(req evaluator.Request) (evaluator.Object, bool) {
	if req.Module != "" && req.Module != config.HostModule {
		return nil, false
	}
	e.mu.RLock()
	fn, ok := e.bindings[req.Function]
	e.mu.RUnlock()
	if !ok {
		return nil, false
	}

	result, err := e.callGo(fn, req.Args)
	if err != nil {
		return evaluator.NewError("%s: %s", req.Name(), err.Error()), true
	}
	return result, true
}

// callGo converts args, calls fn and converts the results back. A trailing
// error result becomes a fault when non-nil; several remaining results
// come back as an Array. A panic in fn is reported as an error.
func (e *Engine) callGo(fn reflect.Value, args []evaluator.Object) (result evaluator.Object, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()

	fnType := fn.Type()
	numIn := fnType.NumIn()
	isVariadic := fnType.IsVariadic()

	// Check arg count
	if isVariadic {
		if len(args) < numIn-1 {
			return nil, fmt.Errorf("expected at least %d arguments, got %d", numIn-1, len(args))
		}
	} else if len(args) != numIn {
		return nil, fmt.Errorf("expected %d arguments, got %d", numIn, len(args))
	}

	goArgs := make([]reflect.Value, len(args))
	for i, arg := range args {
		var targetType reflect.Type
		if isVariadic && i >= numIn-1 {
			targetType = fnType.In(numIn - 1).Elem()
		} else {
			targetType = fnType.In(i)
		}

		val, err := e.marshaller.FromValue(arg, targetType)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		rv, err := assignable(val, targetType)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		goArgs[i] = rv
	}

	results := fn.Call(goArgs)

	if n := len(results); n > 0 && fnType.Out(n-1) == errorType {
		if errVal := results[n-1]; !errVal.IsNil() {
			return nil, errVal.Interface().(error)
		}
		results = results[:n-1]
	}

	switch len(results) {
	case 0:
		return evaluator.VOID, nil
	case 1:
		return e.marshaller.ToValue(results[0].Interface())
	}
	elements := make([]evaluator.Object, len(results))
	for i, res := range results {
		val, err := e.marshaller.ToValue(res.Interface())
		if err != nil {
			return nil, err
		}
		elements[i] = val
	}
	return &evaluator.Array{Elements: elements}, nil
}
