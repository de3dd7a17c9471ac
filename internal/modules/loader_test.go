package modules

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/funvibe/pgraph/internal/ast"
)

func writeGraph(t *testing.T, path string, root ast.Node) {
	t.Helper()
	if err := Save(path, root); err != nil {
		t.Fatalf("Save(%s) failed: %v", path, err)
	}
}

func TestLoader_LoadSniffsFormat(t *testing.T) {
	dir := t.TempDir()
	graph := ast.Add(ast.Int(1), ast.Int(2))
	writeGraph(t, filepath.Join(dir, "a.pg.json"), graph)
	writeGraph(t, filepath.Join(dir, "b.pgb"), graph)

	l := NewLoader(dir)
	tests := []struct {
		file string
		want Format
	}{
		{"a.pg.json", FormatJSON},
		{"b.pgb", FormatBinary},
	}
	for _, tt := range tests {
		mod, err := l.Load(tt.file)
		if err != nil {
			t.Fatalf("Load(%s) failed: %v", tt.file, err)
		}
		if mod.Format != tt.want {
			t.Errorf("%s: format = %s, want %s", tt.file, mod.Format, tt.want)
		}
		if !ast.Equal(mod.Root, graph) {
			t.Errorf("%s: decoded graph differs", tt.file)
		}
		if mod.Dir != dir {
			t.Errorf("%s: dir = %s, want %s", tt.file, mod.Dir, dir)
		}
	}
}

func TestLoader_Caches(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lib.json")
	writeGraph(t, path, ast.Int(1))

	l := NewLoader(dir)
	first, err := l.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	second, err := l.Load("lib.json")
	if err != nil {
		t.Fatalf("cached Load failed: %v", err)
	}
	if first != second {
		t.Error("expected the cached module to be returned")
	}
}

func TestLoader_Forget(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lib.json")
	writeGraph(t, path, ast.Int(1))

	l := NewLoader(dir)
	if _, err := l.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	writeGraph(t, path, ast.Int(2))
	l.Forget("lib.json")
	mod, err := l.Load(path)
	if err != nil {
		t.Fatalf("Load after Forget failed: %v", err)
	}
	if !ast.Equal(mod.Root, ast.Int(2)) {
		t.Errorf("Load after Forget returned the stale graph")
	}
}

func TestLoader_Errors(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{"kind": "Nope"}`), 0644); err != nil {
		t.Fatal(err)
	}
	l := NewLoader(dir)

	if _, err := l.Load("missing.json"); err == nil || !os.IsNotExist(err) {
		t.Errorf("missing file: got %v, want not-exist error", err)
	}
	_, err := l.Load("bad.json")
	if err == nil || !strings.Contains(err.Error(), "unknown node kind") {
		t.Errorf("bad file: got %v", err)
	}
}

func TestLoader_EnterLeave(t *testing.T) {
	l := NewLoader("")
	if err := l.Enter("/x/a.json"); err != nil {
		t.Fatalf("first Enter failed: %v", err)
	}
	err := l.Enter("/x/a.json")
	if err == nil || !strings.Contains(err.Error(), "circular dependency detected") {
		t.Fatalf("second Enter: got %v, want circular dependency error", err)
	}
	l.Leave("/x/a.json")
	if err := l.Enter("/x/a.json"); err != nil {
		t.Errorf("Enter after Leave failed: %v", err)
	}
}

func TestListGraphs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pgb", "a.pg.json", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	files, err := ListGraphs(dir)
	if err != nil {
		t.Fatalf("ListGraphs failed: %v", err)
	}
	if len(files) != 2 || filepath.Base(files[0]) != "a.pg.json" || filepath.Base(files[1]) != "b.pgb" {
		t.Errorf("ListGraphs = %v", files)
	}
}
