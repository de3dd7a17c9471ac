package evaluator

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/funvibe/pgraph/internal/ast"
	"github.com/funvibe/pgraph/internal/config"
	"github.com/funvibe/pgraph/internal/logging"
	"github.com/funvibe/pgraph/internal/modules"
)

// Evaluator walks a program graph. One Evaluator runs one program at a
// time; it is not safe for concurrent use.
type Evaluator struct {
	// Context for cancellation
	Context context.Context

	// Out receives Print output.
	Out io.Writer
	// Providers serve ExternCall, NativeCall and Native nodes, queried in order.
	Providers []Provider
	// BaseDir resolves relative file and import paths.
	BaseDir string
	// MaxDepth bounds nested Eval calls; zero means config.DefaultMaxDepth.
	MaxDepth int
	Logger   *slog.Logger

	// Loader reads imported graphs. Each Run starts a new one.
	Loader *modules.Loader

	// GlobalEnv is the program's top-level frame, recreated by Execute.
	GlobalEnv *Environment

	// currentDir is the directory of the file being imported, if any.
	currentDir string

	// evalDepth tracks the current nesting depth of Eval calls to prevent stack overflow
	evalDepth int
}

func New() *Evaluator {
	return &Evaluator{
		Context:  context.Background(),
		Out:      os.Stdout,
		BaseDir:  ".",
		MaxDepth: config.DefaultMaxDepth,
		Logger:   logging.Discard(),
	}
}

// NewFromConfig creates an evaluator using cfg's depth limit and base directory.
func NewFromConfig(cfg *config.Config, providers []Provider) *Evaluator {
	e := New()
	e.MaxDepth = cfg.MaxDepth
	e.BaseDir = cfg.BaseDir
	e.Providers = providers
	return e
}

// Spawn creates an independent evaluator for a sub-program. It shares the
// providers and settings but no program state. The nesting depth carries
// over so that runaway meta-circular recursion still hits the limit.
func (e *Evaluator) Spawn() *Evaluator {
	return &Evaluator{
		Context:   e.Context,
		Out:       e.Out,
		Providers: e.Providers,
		BaseDir:   e.BaseDir,
		MaxDepth:  e.MaxDepth,
		Logger:    e.Logger,
		evalDepth: e.evalDepth,
	}
}

func (e *Evaluator) maxDepth() int {
	if e.MaxDepth <= 0 {
		return config.DefaultMaxDepth
	}
	return e.MaxDepth
}

// Run evaluates node in a fresh global frame and returns the raw outcome
// (a value, or an *Error) together with that frame.
func (e *Evaluator) Run(node ast.Node) (Object, *Environment) {
	e.Loader = modules.NewLoader(e.BaseDir)
	if e.Logger == nil {
		e.Logger = logging.Discard()
	}
	e.GlobalEnv = NewEnvironment()
	e.currentDir = ""

	result := unwrapReturnValue(e.Eval(node, e.GlobalEnv))
	if result == nil {
		result = VOID
	}
	if err, ok := result.(*Error); ok {
		e.Logger.Debug("evaluation faulted", "message", err.Message)
	} else {
		e.Logger.Debug("evaluation completed", "result", KindName(result), "bindings", e.GlobalEnv.Len())
	}
	return result, e.GlobalEnv
}

// Execute evaluates node from a clean state and returns the formatted
// outcome: "Return: ..." or "Fault: ...".
func (e *Evaluator) Execute(node ast.Node) string {
	result, env := e.Run(node)
	return FormatResult(result, env)
}

func (e *Evaluator) Eval(node ast.Node, env *Environment) Object {
	// Check recursion depth to prevent Go stack overflow
	e.evalDepth++
	defer func() { e.evalDepth-- }()
	if e.evalDepth > e.maxDepth() {
		return newError("maximum recursion depth exceeded")
	}

	// Check for cancellation
	if e.Context != nil {
		select {
		case <-e.Context.Done():
			return newError("execution cancelled: %v", e.Context.Err())
		default:
		}
	}

	return e.evalCore(node, env)
}

func (e *Evaluator) evalCore(node ast.Node, env *Environment) Object {
	switch node := node.(type) {
	// Literals
	case *ast.IntLit:
		return &Integer{Value: node.Value}
	case *ast.FloatLit:
		return &Float{Value: node.Value}
	case *ast.BoolLit:
		return nativeBoolToBooleanObject(node.Value)
	case *ast.StringLit:
		return &String{Value: node.Value}

	// Memory
	case *ast.Identifier:
		return e.evalIdentifier(node, env)
	case *ast.Assign:
		val := e.Eval(node.Value, env)
		if isAbrupt(val) {
			return val
		}
		return env.Set(node.Name, val)

	case *ast.Binary:
		return e.evalBinary(node, env)

	// Control flow
	case *ast.If:
		return e.evalIf(node, env)
	case *ast.While:
		return e.evalWhile(node, env)
	case *ast.Block:
		return e.evalBlock(node, env)
	case *ast.Return:
		val := e.Eval(node.Value, env)
		if isAbrupt(val) {
			return val
		}
		return &ReturnValue{Value: val}

	// Functions
	case *ast.FnDef:
		fn := &Function{
			Name:       node.Name,
			Parameters: node.Params,
			Body:       node.Body,
		}
		return env.Set(node.Name, fn)
	case *ast.Call:
		return e.evalCall(node, env)

	// Arrays and strings
	case *ast.ArrayLit:
		elems, abrupt := e.evalExpressions(node.Elements, env)
		if abrupt != nil {
			return abrupt
		}
		return &Array{Elements: elems}
	case *ast.Index:
		return e.evalIndex(node, env)
	case *ast.Len:
		return e.evalLen(node, env)
	case *ast.ArraySet:
		return e.evalArraySet(node, env)
	case *ast.ArrayPush:
		return e.evalArrayPush(node, env)
	case *ast.Concat:
		return e.evalConcat(node, env)

	// Reflection and IO
	case *ast.ReadFile:
		return e.evalReadFile(node, env)
	case *ast.WriteFile:
		return e.evalWriteFile(node, env)
	case *ast.ToString:
		val := e.Eval(node.Value, env)
		if isAbrupt(val) {
			return val
		}
		return &String{Value: Repr(val)}
	case *ast.EvalBytes:
		return e.evalBytes(node, env)
	case *ast.Import:
		return e.evalImport(node, env)
	case *ast.Print:
		return e.evalPrint(node, env)

	// Native boundary
	case *ast.ExternCall:
		return e.evalNative(node.Module, node.Function, node.Args, env)
	case *ast.NativeCall:
		return e.evalNative("", node.Function, node.Args, env)
	case *ast.Native:
		return e.evalNative(string(node.Capability), node.Op, node.Args, env)

	case nil:
		return newError("missing node")
	}

	return newError("unknown node kind: %s", node.Kind())
}

// evalExpressions evaluates nodes left to right, stopping at the first
// fault or return signal.
func (e *Evaluator) evalExpressions(nodes []ast.Node, env *Environment) ([]Object, Object) {
	result := make([]Object, 0, len(nodes))
	for _, n := range nodes {
		val := e.Eval(n, env)
		if isAbrupt(val) {
			return nil, val
		}
		result = append(result, val)
	}
	return result, nil
}

func (e *Evaluator) evalIdentifier(node *ast.Identifier, env *Environment) Object {
	if val, ok := env.Get(node.Name); ok {
		return val
	}
	return newError("Undefined variable: %s", node.Name)
}
