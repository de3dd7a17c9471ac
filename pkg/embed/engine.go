package pgraph

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"
	"sort"
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/funvibe/pgraph/internal/analyzer"
	"github.com/funvibe/pgraph/internal/ast"
	"github.com/funvibe/pgraph/internal/config"
	"github.com/funvibe/pgraph/internal/diagnostics"
	"github.com/funvibe/pgraph/internal/evaluator"
	"github.com/funvibe/pgraph/internal/logging"
	"github.com/funvibe/pgraph/internal/modules"
	_ "github.com/funvibe/pgraph/internal/native"
	"github.com/funvibe/pgraph/internal/optimizer"
	"github.com/funvibe/pgraph/internal/pipeline"
	"github.com/funvibe/pgraph/internal/typesystem"
	"github.com/funvibe/pgraph/internal/validator"
)

// Engine runs program graphs through the full toolchain: load, validate,
// type check, optimize, evaluate. Go functions bound with Bind are served
// to NativeCall and host.* ExternCall nodes.
type Engine struct {
	config     *config.Config
	logger     *slog.Logger
	out        io.Writer
	extra      []evaluator.Provider
	marshaller *Marshaller

	mu       sync.RWMutex
	bindings map[string]reflect.Value
}

// Option configures an Engine.
type Option func(*Engine)

// WithConfig replaces the default configuration.
func WithConfig(cfg *config.Config) Option {
	return func(e *Engine) { e.config = cfg }
}

// WithLogger sets the logger every stage writes to.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithOutput redirects Print output.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) { e.out = w }
}

// WithProviders adds native providers, queried after bound functions and
// before the configured built-in providers.
func WithProviders(p ...evaluator.Provider) Option {
	return func(e *Engine) { e.extra = append(e.extra, p...) }
}

// New creates an Engine. Without WithConfig it uses the built-in defaults.
func New(opts ...Option) *Engine {
	e := &Engine{
		config:     config.Default(),
		out:        os.Stdout,
		marshaller: NewMarshaller(),
		bindings:   make(map[string]reflect.Value),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logging.New(os.Stderr, e.config.LogLevel)
	}
	return e
}

// Discover loads the pgraph.yaml nearest to dir, falling back to the
// defaults when there is none.
func Discover(dir string) (*config.Config, error) {
	path, err := config.FindConfig(dir)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadConfig(path)
}

// Bind exposes a Go function to graphs as the native function name.
func (e *Engine) Bind(name string, fn interface{}) error {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return fmt.Errorf("bind %s: expected a function, got %T", name, fn)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bindings[name] = v
	return nil
}

// Bindings returns the bound function names, sorted.
func (e *Engine) Bindings() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.bindings))
	for name := range e.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Result is the outcome of one run.
type Result struct {
	RunID string
	// Output is the formatted outcome, "Return: ..." or "Fault: ...".
	// Empty when evaluation did not run.
	Output      string
	Faulted     bool
	Diagnostics diagnostics.List
	Type        typesystem.Type
	NodesBefore int
	NodesAfter  int
}

// Run evaluates node. The error is non-nil only when the graph could not
// be evaluated at all; a Fault is a successful run with Faulted set.
func (e *Engine) Run(ctx context.Context, node ast.Node) (*Result, error) {
	pctx := pipeline.NewContext(ctx, e.config, e.logger)
	pctx.AstRoot = ast.Clone(node)
	return e.run(pctx)
}

// RunFile loads and evaluates the graph stored at path.
func (e *Engine) RunFile(ctx context.Context, path string) (*Result, error) {
	pctx := pipeline.NewContext(ctx, e.config, e.logger)
	pctx.FilePath = path
	return e.run(pctx)
}

func (e *Engine) run(pctx *pipeline.PipelineContext) (*Result, error) {
	providers, err := e.providers()
	if err != nil {
		return nil, err
	}

	p := pipeline.New(
		&modules.LoaderProcessor{},
		&validator.ValidatorProcessor{},
		&analyzer.SemanticAnalyzerProcessor{},
		&optimizer.OptimizerProcessor{},
		&evaluator.EvaluatorProcessor{Providers: providers, Out: e.out},
	)
	pctx = p.Run(pctx)

	res := &Result{
		RunID:       pctx.RunID,
		Output:      pctx.Result,
		Faulted:     pctx.Faulted,
		Diagnostics: pctx.Diagnostics,
		Type:        pctx.InferredType,
		NodesBefore: pctx.NodesBefore,
		NodesAfter:  pctx.NodesAfter,
	}
	if len(pctx.Errors) > 0 {
		var errs *multierror.Error
		errs = multierror.Append(errs, pctx.Errors...)
		return res, errs.ErrorOrNil()
	}
	return res, nil
}

// providers lists the bound functions first, then WithProviders, then
// the configured built-ins.
func (e *Engine) providers() ([]evaluator.Provider, error) {
	builtins, err := evaluator.ResolveProviders(e.config.Providers)
	if err != nil {
		return nil, err
	}
	out := make([]evaluator.Provider, 0, len(builtins)+len(e.extra)+1)
	out = append(out, evaluator.ProviderFunc(e.hostCall))
	out = append(out, e.extra...)
	return append(out, builtins...), nil
}

// Report writes the diagnostics and the outcome of res to w.
func Report(w io.Writer, res *Result) {
	res.Diagnostics.Report(w)
	if res.Output != "" {
		fmt.Fprintln(w, res.Output)
	}
}
