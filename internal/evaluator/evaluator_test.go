package evaluator

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/funvibe/pgraph/internal/ast"
	"github.com/funvibe/pgraph/internal/codec"
)

func execute(t *testing.T, node ast.Node) string {
	t.Helper()
	e := New()
	e.Out = &bytes.Buffer{}
	return e.Execute(node)
}

func double() *ast.FnDef {
	return &ast.FnDef{
		Name:   "double",
		Params: []string{"x"},
		Body:   &ast.Return{Value: ast.Add(ast.Ident("x"), ast.Ident("x"))},
	}
}

func TestLiteralScenarios(t *testing.T) {
	tests := []struct {
		name string
		node ast.Node
		want string
	}{
		{"add", ast.Add(ast.Int(10), ast.Int(20)), "Return: 30 (i64)"},
		{"assign", ast.Set("x", ast.Int(10)), "Return: 10 (i64), Memory: x = 10"},
		{"div by zero", ast.Div(ast.Int(10), ast.Int(0)), "Fault: Division by zero"},
		{"if without else", &ast.If{Cond: ast.Bool(false), Then: ast.Int(1)}, "Return: void"},
		{"call", ast.NewBlock(double(), &ast.Call{Name: "double", Args: []ast.Node{ast.Int(21)}}), "Return: 42 (i64), Memory: double = <fn>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := execute(t, tt.node); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		node ast.Node
		want string
	}{
		{ast.Sub(ast.Int(3), ast.Int(5)), "Return: -2 (i64)"},
		{ast.Mul(ast.Float(1.5), ast.Float(2)), "Return: 3.0 (f64)"},
		{ast.Div(ast.Int(7), ast.Int(2)), "Return: 3 (i64)"},
		{ast.Div(ast.Int(-7), ast.Int(2)), "Return: -3 (i64)"},
		{ast.Div(ast.Float(1), ast.Float(0)), "Fault: Division by zero"},
		{ast.Lt(ast.Int(1), ast.Int(2)), "Return: true (bool)"},
		{ast.Gt(ast.Float(1), ast.Float(2)), "Return: false (bool)"},
		{ast.Eq(ast.Int(1), ast.Float(1)), "Return: false (bool)"},
		{ast.Eq(ast.Str("a"), ast.Str("a")), "Return: true (bool)"},
		{&ast.Binary{Op: ast.OpBitAnd, Left: ast.Int(6), Right: ast.Int(3)}, "Return: 2 (i64)"},
		{&ast.Binary{Op: ast.OpShl, Left: ast.Int(1), Right: ast.Int(4)}, "Return: 16 (i64)"},
		{&ast.Binary{Op: ast.OpShr, Left: ast.Int(-16), Right: ast.Int(2)}, "Return: -4 (i64)"},
		{&ast.Binary{Op: ast.OpShl, Left: ast.Int(1), Right: ast.Int(64)}, "Fault: Shift amount out of range: 64"},
		{&ast.Binary{Op: ast.OpBitAnd, Left: ast.Float(1), Right: ast.Float(1)}, "Fault: Type mismatch: BitAnd on Float and Float"},
		{ast.Add(ast.Int(1), ast.Float(1)), "Fault: Type mismatch: Add on Int and Float"},
		{ast.Add(ast.Int(9223372036854775807), ast.Int(1)), "Return: -9223372036854775808 (i64)"},
	}
	for _, tt := range tests {
		if got := execute(t, tt.node); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}

func TestFaultPropagation(t *testing.T) {
	tests := []struct {
		name string
		node ast.Node
		want string
	}{
		{
			"block discards later statements",
			ast.NewBlock(ast.Set("x", ast.Int(1)), ast.Div(ast.Int(1), ast.Int(0)), ast.Set("y", ast.Int(2))),
			"Fault: Division by zero",
		},
		{
			"undefined variable",
			ast.Add(ast.Ident("missing"), ast.Int(1)),
			"Fault: Undefined variable: missing",
		},
		{
			"through call arguments",
			ast.NewBlock(double(), &ast.Call{Name: "double", Args: []ast.Node{ast.Div(ast.Int(1), ast.Int(0))}}),
			"Fault: Division by zero",
		},
		{
			"through while body",
			&ast.While{Cond: ast.Bool(true), Body: ast.Ident("nope")},
			"Fault: Undefined variable: nope",
		},
		{
			"non-bool condition",
			&ast.If{Cond: ast.Int(1), Then: ast.Int(2)},
			"Fault: Condition must be Bool, got Int",
		},
		{
			"undefined function",
			&ast.Call{Name: "ghost", Args: []ast.Node{}},
			"Fault: Undefined function: ghost",
		},
		{
			"not a function",
			ast.NewBlock(ast.Set("f", ast.Int(1)), &ast.Call{Name: "f"}),
			"Fault: Not a function: f",
		},
		{
			"arity",
			ast.NewBlock(double(), &ast.Call{Name: "double"}),
			"Fault: Arity mismatch calling double: expected 1 arguments, got 0",
		},
		{
			"missing child",
			&ast.Return{},
			"Fault: missing node",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := execute(t, tt.node); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFunctionScoping(t *testing.T) {
	// The callee sees x but its writes do not survive the call.
	node := ast.NewBlock(
		ast.Set("x", ast.Int(1)),
		&ast.FnDef{Name: "bump", Params: []string{}, Body: ast.NewBlock(
			ast.Set("x", ast.Add(ast.Ident("x"), ast.Int(1))),
			ast.Set("tmp", ast.Int(99)),
			&ast.Return{Value: ast.Ident("x")},
		)},
		ast.Set("y", &ast.Call{Name: "bump", Args: []ast.Node{}}),
	)
	want := "Return: 2 (i64), Memory: bump = <fn>, x = 1, y = 2"
	if got := execute(t, node); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParameterShadowing(t *testing.T) {
	node := ast.NewBlock(
		ast.Set("x", ast.Int(5)),
		double(),
		&ast.Call{Name: "double", Args: []ast.Node{ast.Int(7)}},
	)
	want := "Return: 14 (i64), Memory: double = <fn>, x = 5"
	if got := execute(t, node); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRecursion(t *testing.T) {
	n := ast.Ident("n")
	fact := &ast.FnDef{Name: "fact", Params: []string{"n"}, Body: &ast.If{
		Cond: ast.Lt(n, ast.Int(2)),
		Then: &ast.Return{Value: ast.Int(1)},
		Else: &ast.Return{Value: ast.Mul(n, &ast.Call{Name: "fact", Args: []ast.Node{ast.Sub(n, ast.Int(1))}})},
	}}
	node := ast.NewBlock(fact, &ast.Call{Name: "fact", Args: []ast.Node{ast.Int(10)}})
	want := "Return: 3628800 (i64), Memory: fact = <fn>"
	if got := execute(t, node); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTopLevelReturnStopsBlock(t *testing.T) {
	node := ast.NewBlock(&ast.Return{Value: ast.Int(1)}, ast.Set("x", ast.Int(2)))
	if got := execute(t, node); got != "Return: 1 (i64)" {
		t.Errorf("got %q", got)
	}
}

func TestWhileLoop(t *testing.T) {
	i, s := ast.Ident("i"), ast.Ident("s")
	node := ast.NewBlock(
		ast.Set("i", ast.Int(0)),
		ast.Set("s", ast.Int(0)),
		&ast.While{Cond: ast.Lt(i, ast.Int(5)), Body: ast.NewBlock(
			ast.Set("s", ast.Add(s, i)),
			ast.Set("i", ast.Add(i, ast.Int(1))),
		)},
		s,
	)
	want := "Return: 10 (i64), Memory: i = 5, s = 10"
	if got := execute(t, node); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestArraysAndStrings(t *testing.T) {
	arr := &ast.ArrayLit{Elements: []ast.Node{ast.Int(1), ast.Int(2)}}
	tests := []struct {
		name string
		node ast.Node
		want string
	}{
		{
			"push and set",
			ast.NewBlock(
				ast.Set("a", arr),
				&ast.ArrayPush{Name: "a", Value: ast.Int(3)},
				&ast.ArraySet{Name: "a", Index: ast.Int(0), Value: ast.Int(9)},
				ast.Ident("a"),
			),
			"Return: [9 (i64), 2 (i64), 3 (i64)] (Array), Memory: a = [...]",
		},
		{
			"copy on write",
			ast.NewBlock(
				ast.Set("a", arr),
				ast.Set("b", ast.Ident("a")),
				&ast.ArrayPush{Name: "b", Value: ast.Int(3)},
				&ast.Len{Value: ast.Ident("a")},
			),
			"Return: 2 (i64), Memory: a = [...], b = [...]",
		},
		{"index", &ast.Index{Target: arr, Index: ast.Int(1)}, "Return: 2 (i64)"},
		{"index out of bounds", &ast.Index{Target: arr, Index: ast.Int(2)}, "Fault: Index out of bounds: 2 (length 2)"},
		{"negative index", &ast.Index{Target: arr, Index: ast.Int(-1)}, "Fault: Index out of bounds: -1 (length 2)"},
		{"index type", &ast.Index{Target: arr, Index: ast.Bool(true)}, "Fault: Index must be Int, got Bool"},
		{"index int", &ast.Index{Target: ast.Int(1), Index: ast.Int(0)}, "Fault: Cannot index Int"},
		{"string index", &ast.Index{Target: ast.Str("héllo"), Index: ast.Int(1)}, `Return: "é" (String)`},
		{"string len", &ast.Len{Value: ast.Str("héllo")}, "Return: 5 (i64)"},
		{"len bool", &ast.Len{Value: ast.Bool(true)}, "Fault: Len requires Array or String, got Bool"},
		{"concat strings", &ast.Concat{Left: ast.Str("ab"), Right: ast.Str("cd")}, `Return: "abcd" (String)`},
		{"concat arrays", &ast.Concat{Left: arr, Right: &ast.ArrayLit{Elements: []ast.Node{ast.Str("x")}}}, `Return: [1 (i64), 2 (i64), "x" (String)] (Array)`},
		{"concat mismatch", &ast.Concat{Left: ast.Str("a"), Right: arr}, "Fault: Type mismatch: Concat on String and Array"},
		{"push non-array", ast.NewBlock(ast.Set("n", ast.Int(1)), &ast.ArrayPush{Name: "n", Value: ast.Int(2)}), "Fault: ArrayPush on non-array 'n': Int"},
		{"set undefined", &ast.ArraySet{Name: "q", Index: ast.Int(0), Value: ast.Int(1)}, "Fault: Undefined variable: q"},
		{"to string", &ast.ToString{Value: arr}, `Return: "[1 (i64), 2 (i64)] (Array)" (String)`},
		{"array equality", ast.Eq(arr, &ast.ArrayLit{Elements: []ast.Node{ast.Int(1), ast.Int(2)}}), "Return: true (bool)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := execute(t, tt.node); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

// byteLiteral encodes node as a binary graph inside an array literal.
func byteLiteral(t *testing.T, node ast.Node) *ast.ArrayLit {
	t.Helper()
	data, err := codec.EncodeBinary(node)
	if err != nil {
		t.Fatalf("EncodeBinary failed: %v", err)
	}
	elems := make([]ast.Node, len(data))
	for i, b := range data {
		elems[i] = ast.Int(int64(b))
	}
	return &ast.ArrayLit{Elements: elems}
}

func TestEvalBytes(t *testing.T) {
	tests := []struct {
		name string
		node ast.Node
		want string
	}{
		{
			"success",
			&ast.EvalBytes{Bytes: byteLiteral(t, ast.Add(ast.Int(10), ast.Int(20)))},
			`Return: "Return: 30 (i64)" (String)`,
		},
		{
			"fault is captured",
			ast.NewBlock(
				ast.Set("r", &ast.EvalBytes{Bytes: byteLiteral(t, ast.Div(ast.Int(1), ast.Int(0)))}),
				ast.Int(7),
			),
			`Return: 7 (i64), Memory: r = "Fault: Division by zero"`,
		},
		{
			"sub-program has its own memory",
			ast.NewBlock(
				ast.Set("x", ast.Int(1)),
				&ast.EvalBytes{Bytes: byteLiteral(t, ast.Add(ast.Ident("x"), ast.Int(1)))},
			),
			`Return: "Fault: Undefined variable: x" (String), Memory: x = 1`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := execute(t, tt.node); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEvalBytes_DecodeFailure(t *testing.T) {
	tests := []ast.Node{
		&ast.EvalBytes{Bytes: &ast.ArrayLit{Elements: []ast.Node{ast.Int(1), ast.Int(2), ast.Int(3)}}},
		&ast.EvalBytes{Bytes: &ast.ArrayLit{Elements: []ast.Node{ast.Int(300)}}},
		&ast.EvalBytes{Bytes: ast.Str("not bytes")},
	}
	for _, node := range tests {
		got := execute(t, node)
		if !strings.HasPrefix(got, "Fault: Failed to decode program: ") {
			t.Errorf("got %q, want decode fault", got)
		}
	}
}

func writeGraph(t *testing.T, path string, node ast.Node) {
	t.Helper()
	data, err := codec.EncodeJSON(node)
	if err != nil {
		t.Fatalf("EncodeJSON failed: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
}

func TestImport(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "lib"), 0755); err != nil {
		t.Fatal(err)
	}
	writeGraph(t, filepath.Join(dir, "lib", "double.pg.json"), ast.NewBlock(double()))
	// Relative imports inside lib/ resolve against lib/.
	writeGraph(t, filepath.Join(dir, "lib", "all.pg.json"), ast.NewBlock(&ast.Import{Path: "double.pg.json"}))

	e := New()
	e.BaseDir = dir
	node := ast.NewBlock(
		&ast.Import{Path: "lib/all.pg.json"},
		&ast.Call{Name: "double", Args: []ast.Node{ast.Int(21)}},
	)
	want := "Return: 42 (i64), Memory: double = <fn>"
	if got := e.Execute(node); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestImport_Cycle(t *testing.T) {
	dir := t.TempDir()
	writeGraph(t, filepath.Join(dir, "a.pg.json"), &ast.Import{Path: "b.pg.json"})
	writeGraph(t, filepath.Join(dir, "b.pg.json"), &ast.Import{Path: "a.pg.json"})

	e := New()
	e.BaseDir = dir
	got := e.Execute(&ast.Import{Path: "a.pg.json"})
	if !strings.HasPrefix(got, "Fault: circular dependency detected loading module: ") {
		t.Errorf("got %q, want cycle fault", got)
	}
}

func TestImport_SeesRewrittenFile(t *testing.T) {
	e := New()
	e.BaseDir = t.TempDir()
	node := ast.NewBlock(
		&ast.WriteFile{Path: ast.Str("m.json"), Data: ast.Str(`{"kind": "Int", "value": 1}`)},
		ast.Set("a", &ast.Import{Path: "m.json"}),
		&ast.WriteFile{Path: ast.Str("m.json"), Data: ast.Str(`{"kind": "Int", "value": 2}`)},
		ast.Set("b", &ast.Import{Path: "m.json"}),
	)
	want := "Return: 2 (i64), Memory: a = 1, b = 2"
	if got := e.Execute(node); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestImport_FreshAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "v.pg.json")
	e := New()
	e.BaseDir = dir

	writeGraph(t, path, ast.Int(1))
	if got := e.Execute(&ast.Import{Path: "v.pg.json"}); got != "Return: 1 (i64)" {
		t.Fatalf("first run: got %q", got)
	}
	writeGraph(t, path, ast.Int(2))
	if got := e.Execute(&ast.Import{Path: "v.pg.json"}); got != "Return: 2 (i64)" {
		t.Errorf("second run: got %q", got)
	}
}

func TestImport_Missing(t *testing.T) {
	e := New()
	e.BaseDir = t.TempDir()
	got := e.Execute(&ast.Import{Path: "nope.pg.json"})
	if !strings.HasPrefix(got, "Fault: Import failed: ") {
		t.Errorf("got %q", got)
	}
}

func TestFileIO(t *testing.T) {
	dir := t.TempDir()
	e := New()
	e.BaseDir = dir

	node := ast.NewBlock(
		&ast.WriteFile{Path: ast.Str("out.bin"), Data: &ast.ArrayLit{Elements: []ast.Node{ast.Int(104), ast.Int(105)}}},
		&ast.WriteFile{Path: ast.Str("out.txt"), Data: ast.Str("hello")},
		ast.Set("b", &ast.ReadFile{Path: ast.Str("out.bin")}),
		&ast.Len{Value: &ast.ReadFile{Path: ast.Str("out.txt")}},
	)
	want := "Return: 5 (i64), Memory: b = [...]"
	if got := e.Execute(node); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	data, err := os.ReadFile(filepath.Join(dir, "out.bin"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hi" {
		t.Errorf("out.bin = %q, want %q", data, "hi")
	}

	if got := e.Execute(&ast.ReadFile{Path: ast.Str("absent")}); !strings.HasPrefix(got, "Fault: ") {
		t.Errorf("reading a missing file: got %q", got)
	}
	if got := e.Execute(&ast.WriteFile{Path: ast.Str("x"), Data: ast.Int(1)}); got != "Fault: WriteFile data must be String or Array, got Int" {
		t.Errorf("got %q", got)
	}
	if got := e.Execute(&ast.ReadFile{Path: ast.Int(1)}); got != "Fault: File path must be String, got Int" {
		t.Errorf("got %q", got)
	}
}

func TestPrint(t *testing.T) {
	var out bytes.Buffer
	e := New()
	e.Out = &out
	got := e.Execute(ast.NewBlock(
		&ast.Print{Value: ast.Str("hi")},
		&ast.Print{Value: ast.Float(2)},
	))
	if got != "Return: void" {
		t.Errorf("got %q", got)
	}
	if out.String() != "\"hi\"\n2.0\n" {
		t.Errorf("printed %q", out.String())
	}
}

func TestNativeDispatch(t *testing.T) {
	var seen []Request
	e := New()
	e.Providers = []Provider{
		ProviderFunc(func(req Request) (Object, bool) {
			seen = append(seen, req)
			if req.Module == "window" {
				return nil, true
			}
			return nil, false
		}),
		ProviderFunc(func(req Request) (Object, bool) {
			if req.Name() != "math.twice" {
				return nil, false
			}
			n, ok := req.Args[0].(*Integer)
			if !ok {
				return NewError("twice: expected Int"), true
			}
			return &Integer{Value: n.Value * 2}, true
		}),
	}

	tests := []struct {
		node ast.Node
		want string
	}{
		{&ast.ExternCall{Module: "math", Function: "twice", Args: []ast.Node{ast.Int(4)}}, "Return: 8 (i64)"},
		{&ast.ExternCall{Module: "math", Function: "twice", Args: []ast.Node{ast.Str("x")}}, "Fault: twice: expected Int"},
		{&ast.Native{Capability: ast.CapWindow, Op: "create", Args: []ast.Node{ast.Int(640)}}, "Return: void"},
		{&ast.NativeCall{Function: "greet"}, "Fault: No native provider for greet"},
		{&ast.ExternCall{Module: "gpu", Function: "draw", Args: []ast.Node{ast.Ident("x")}}, "Fault: Undefined variable: x"},
	}
	for _, tt := range tests {
		if got := e.Execute(tt.node); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
	// The faulting argument never reaches a provider.
	if len(seen) != 4 {
		t.Errorf("providers saw %d requests, want 4", len(seen))
	}
}

func TestDepthLimit(t *testing.T) {
	e := New()
	e.MaxDepth = 200
	node := ast.NewBlock(
		&ast.FnDef{Name: "loop", Params: []string{}, Body: &ast.Call{Name: "loop", Args: []ast.Node{}}},
		&ast.Call{Name: "loop", Args: []ast.Node{}},
	)
	if got := e.Execute(node); got != "Fault: maximum recursion depth exceeded" {
		t.Errorf("got %q", got)
	}
	// The counter unwinds fully after a fault.
	if got := e.Execute(ast.Add(ast.Int(1), ast.Int(1))); got != "Return: 2 (i64)" {
		t.Errorf("after fault: got %q", got)
	}
}

func TestCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := New()
	e.Context = ctx
	got := e.Execute(&ast.While{Cond: ast.Bool(true), Body: ast.NewBlock()})
	if got != "Fault: execution cancelled: context canceled" {
		t.Errorf("got %q", got)
	}
}

func TestExecuteResetsState(t *testing.T) {
	e := New()
	if got := e.Execute(ast.Set("x", ast.Int(1))); got != "Return: 1 (i64), Memory: x = 1" {
		t.Fatalf("got %q", got)
	}
	if got := e.Execute(ast.Ident("x")); got != "Fault: Undefined variable: x" {
		t.Errorf("state leaked between runs: %q", got)
	}
}
