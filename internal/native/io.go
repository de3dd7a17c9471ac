package native

import (
	"io"
	"os"
	"sort"

	"github.com/funvibe/pgraph/internal/config"
	"github.com/funvibe/pgraph/internal/evaluator"
)

// IOModule returns the io provider backed by table.
func IOModule(table *ResourceTable) *Module {
	return &Module{
		Name: config.IOModule,
		Builtins: map[string]*Builtin{
			"exists":  {Name: "exists", Arity: 1, Fn: ioExists},
			"size":    {Name: "size", Arity: 1, Fn: ioSize},
			"listDir": {Name: "listDir", Arity: 1, Fn: ioListDir},
			"open":    {Name: "open", Arity: 1, Fn: ioOpen(table)},
			"readAll": {Name: "readAll", Arity: 1, Fn: ioReadAll(table)},
			"close":   {Name: "close", Arity: 1, Fn: ioClose(table)},
		},
	}
}

func ioExists(args ...evaluator.Object) evaluator.Object {
	path, err := argString("exists", args, 0)
	if err != nil {
		return err
	}
	_, statErr := os.Stat(path)
	return &evaluator.Boolean{Value: statErr == nil}
}

func ioSize(args ...evaluator.Object) evaluator.Object {
	path, err := argString("size", args, 0)
	if err != nil {
		return err
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		return evaluator.NewError("%s", statErr.Error())
	}
	return &evaluator.Integer{Value: info.Size()}
}

func ioListDir(args ...evaluator.Object) evaluator.Object {
	path, err := argString("listDir", args, 0)
	if err != nil {
		return err
	}
	entries, readErr := os.ReadDir(path)
	if readErr != nil {
		return evaluator.NewError("%s", readErr.Error())
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	sort.Strings(names)
	elems := make([]evaluator.Object, len(names))
	for i, n := range names {
		elems[i] = &evaluator.String{Value: n}
	}
	return &evaluator.Array{Elements: elems}
}

func ioOpen(table *ResourceTable) BuiltinFunction {
	return func(args ...evaluator.Object) evaluator.Object {
		path, err := argString("open", args, 0)
		if err != nil {
			return err
		}
		h, openErr := table.Open(path)
		if openErr != nil {
			return evaluator.NewError("%s", openErr.Error())
		}
		return &evaluator.Integer{Value: h}
	}
}

func ioReadAll(table *ResourceTable) BuiltinFunction {
	return func(args ...evaluator.Object) evaluator.Object {
		h, err := argInt("readAll", args, 0)
		if err != nil {
			return err
		}
		f, getErr := table.Get(h)
		if getErr != nil {
			return evaluator.NewError("%s", getErr.Error())
		}
		data, readErr := io.ReadAll(f)
		if readErr != nil {
			return evaluator.NewError("%s", readErr.Error())
		}
		return evaluator.NewByteArray(data)
	}
}

func ioClose(table *ResourceTable) BuiltinFunction {
	return func(args ...evaluator.Object) evaluator.Object {
		h, err := argInt("close", args, 0)
		if err != nil {
			return err
		}
		if closeErr := table.Close(h); closeErr != nil {
			return evaluator.NewError("%s", closeErr.Error())
		}
		return evaluator.VOID
	}
}
