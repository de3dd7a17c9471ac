package pgraph_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/funvibe/pgraph/internal/ast"
	"github.com/funvibe/pgraph/internal/codec"
	"github.com/funvibe/pgraph/internal/config"
	"github.com/funvibe/pgraph/internal/diagnostics"
	"github.com/funvibe/pgraph/internal/evaluator"
	"github.com/funvibe/pgraph/internal/logging"
	pgraph "github.com/funvibe/pgraph/pkg/embed"
)

func newEngine(opts ...pgraph.Option) *pgraph.Engine {
	opts = append([]pgraph.Option{pgraph.WithLogger(logging.Discard()), pgraph.WithOutput(&bytes.Buffer{})}, opts...)
	return pgraph.New(opts...)
}

func TestEngineRun(t *testing.T) {
	e := newEngine()
	node := ast.NewBlock(
		&ast.FnDef{Name: "double", Params: []string{"x"}, Body: &ast.Return{Value: ast.Add(ast.Ident("x"), ast.Ident("x"))}},
		&ast.Call{Name: "double", Args: []ast.Node{ast.Add(ast.Int(20), ast.Int(1))}},
	)
	res, err := e.Run(context.Background(), node)
	require.NoError(t, err)
	require.Equal(t, "Return: 42 (i64), Memory: double = <fn>", res.Output)
	require.False(t, res.Faulted)
	require.Empty(t, res.Diagnostics)
	require.Less(t, res.NodesAfter, res.NodesBefore)
	require.NotEmpty(t, res.RunID)
}

func TestEngineRunFault(t *testing.T) {
	res, err := newEngine().Run(context.Background(), ast.Div(ast.Int(10), ast.Int(0)))
	require.NoError(t, err)
	require.True(t, res.Faulted)
	require.Equal(t, "Fault: Division by zero", res.Output)
}

func TestEngineBind(t *testing.T) {
	e := newEngine()
	require.NoError(t, e.Bind("scale", func(xs []int, k float64) []float64 {
		out := make([]float64, len(xs))
		for i, x := range xs {
			out[i] = float64(x) * k
		}
		return out
	}))
	require.NoError(t, e.Bind("check", func(s string) (string, error) {
		if s == "" {
			return "", errors.New("empty input")
		}
		return strings.ToUpper(s), nil
	}))
	require.NoError(t, e.Bind("pair", func() (int, bool) { return 7, true }))
	require.NoError(t, e.Bind("explode", func() int { panic("boom") }))
	require.NoError(t, e.Bind("sum", func(xs ...int64) int64 {
		var total int64
		for _, x := range xs {
			total += x
		}
		return total
	}))
	require.Error(t, e.Bind("notfunc", 42))
	require.Equal(t, []string{"check", "explode", "pair", "scale", "sum"}, e.Bindings())

	tests := []struct {
		node ast.Node
		want string
	}{
		{
			&ast.NativeCall{Function: "scale", Args: []ast.Node{&ast.ArrayLit{Elements: []ast.Node{ast.Int(1), ast.Int(2)}}, ast.Float(1.5)}},
			"Return: [1.5 (f64), 3.0 (f64)] (Array)",
		},
		{&ast.ExternCall{Module: "host", Function: "check", Args: []ast.Node{ast.Str("hi")}}, `Return: "HI" (String)`},
		{&ast.NativeCall{Function: "check", Args: []ast.Node{ast.Str("")}}, "Fault: check: empty input"},
		{&ast.NativeCall{Function: "check", Args: []ast.Node{ast.Int(1)}}, "Fault: check: argument 0: cannot convert int64 to string"},
		{&ast.NativeCall{Function: "check"}, "Fault: check: expected 1 arguments, got 0"},
		{&ast.NativeCall{Function: "pair"}, "Return: [7 (i64), true (bool)] (Array)"},
		{&ast.NativeCall{Function: "explode"}, "Fault: explode: panic: boom"},
		{&ast.NativeCall{Function: "sum", Args: []ast.Node{ast.Int(1), ast.Int(2), ast.Int(3)}}, "Return: 6 (i64)"},
		{&ast.NativeCall{Function: "sum"}, "Return: 0 (i64)"},
		// Bound functions do not shadow other modules.
		{&ast.ExternCall{Module: "gpu", Function: "check", Args: []ast.Node{ast.Str("x")}}, "Fault: No native provider for gpu.check"},
		// Built-in providers stay reachable.
		{&ast.NativeCall{Function: "greet", Args: []ast.Node{ast.Str("Ada")}}, `Return: "Hello, Ada!" (String)`},
	}
	for _, tt := range tests {
		res, err := e.Run(context.Background(), tt.node)
		require.NoError(t, err)
		require.Equal(t, tt.want, res.Output)
	}
}

func TestEngineWithProviders(t *testing.T) {
	var calls []string
	window := evaluator.ProviderFunc(func(req evaluator.Request) (evaluator.Object, bool) {
		if req.Module != string(ast.CapWindow) {
			return nil, false
		}
		calls = append(calls, req.Function)
		return &evaluator.Integer{Value: 1}, true
	})
	cfg := config.Default()
	cfg.Providers = []string{config.MathModule}
	e := newEngine(pgraph.WithConfig(cfg), pgraph.WithProviders(window))

	res, err := e.Run(context.Background(), ast.NewBlock(
		ast.Set("w", &ast.Native{Capability: ast.CapWindow, Op: "create", Args: []ast.Node{ast.Int(640), ast.Int(480)}}),
		&ast.ExternCall{Module: "math", Function: "sqrt", Args: []ast.Node{ast.Float(16)}},
	))
	require.NoError(t, err)
	require.Equal(t, "Return: 4.0 (f64), Memory: w = 1", res.Output)
	require.Equal(t, []string{"create"}, calls)

	// io is not configured.
	res, err = e.Run(context.Background(), &ast.ExternCall{Module: "io", Function: "exists", Args: []ast.Node{ast.Str(".")}})
	require.NoError(t, err)
	require.Equal(t, "Fault: No native provider for io.exists", res.Output)
}

func TestEngineDiagnostics(t *testing.T) {
	graph := ast.NewBlock(ast.Set("x", ast.Int(1)), ast.Set("x", ast.Str("s")), &ast.Identifier{Name: ""})

	res, err := newEngine().Run(context.Background(), graph)
	require.NoError(t, err)
	require.Equal(t, []string{"empty identifier name"}, res.Diagnostics.Messages("validate"))
	require.NotEmpty(t, res.Diagnostics.Messages("typecheck"))
	require.True(t, strings.HasPrefix(res.Output, "Fault: "), res.Output)

	cfg := config.Default()
	cfg.Stages.Strict = true
	res, err = newEngine(pgraph.WithConfig(cfg)).Run(context.Background(), graph)
	require.Error(t, err)
	require.Contains(t, err.Error(), "strict mode")
	require.Empty(t, res.Output)

	var buf bytes.Buffer
	pgraph.Report(&buf, res)
	require.Contains(t, buf.String(), "- validate: empty identifier name\n")
}

func TestEngineRunFile(t *testing.T) {
	dir := t.TempDir()
	lib, err := codec.EncodeBinary(ast.NewBlock(ast.Set("base", ast.Int(40))))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib.pgb"), lib, 0644))

	main, err := codec.EncodeJSON(ast.NewBlock(
		&ast.Import{Path: "lib.pgb"},
		ast.Add(ast.Ident("base"), ast.Int(2)),
	))
	require.NoError(t, err)
	path := filepath.Join(dir, "main.pg.json")
	require.NoError(t, os.WriteFile(path, main, 0644))

	res, err := newEngine().RunFile(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, "Return: 42 (i64), Memory: base = 40", res.Output)

	res, err = newEngine().RunFile(context.Background(), filepath.Join(dir, "missing.pg.json"))
	require.Error(t, err)
	require.Len(t, res.Diagnostics.Messages(diagnostics.StageLoad), 1)
	require.Contains(t, res.Diagnostics.Messages(diagnostics.StageLoad)[0], "missing.pg.json")
}

func TestEngineOutput(t *testing.T) {
	var out bytes.Buffer
	e := newEngine(pgraph.WithOutput(&out))
	_, err := e.Run(context.Background(), &ast.Print{Value: ast.Str("hello")})
	require.NoError(t, err)
	require.Equal(t, "\"hello\"\n", out.String())
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	cfg, err := pgraph.Discover(dir)
	require.NoError(t, err)
	require.Equal(t, config.DefaultMaxDepth, cfg.MaxDepth)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "pgraph.yaml"), []byte("max_depth: 64\nproviders: [bridge]\n"), 0644))
	cfg, err = pgraph.Discover(dir)
	require.NoError(t, err)
	require.Equal(t, 64, cfg.MaxDepth)
	require.Equal(t, []string{"bridge"}, cfg.Providers)
}
