// Package symbols provides the nested scopes used by the type checker.
package symbols

import (
	"sort"

	"github.com/funvibe/pgraph/internal/ast"
	"github.com/funvibe/pgraph/internal/typesystem"
)

type ScopeType int

const (
	ScopeGlobal ScopeType = iota // Program top-level
	ScopeFunction
	ScopeBranch // One arm of an If
	ScopeLoop   // Body of a While
)

func (s ScopeType) String() string {
	switch s {
	case ScopeGlobal:
		return "global"
	case ScopeFunction:
		return "function"
	case ScopeBranch:
		return "branch"
	case ScopeLoop:
		return "loop"
	}
	return "unknown"
}

type Symbol struct {
	Name           string
	Type           typesystem.Type
	DefinitionNode ast.Node // The node that first bound this name
}

// SymbolTable is one scope. Lookups fall through to the outer scope;
// definitions always land in this one.
type SymbolTable struct {
	store     map[string]Symbol
	outer     *SymbolTable
	scopeType ScopeType
}

func NewEmptySymbolTable() *SymbolTable {
	return &SymbolTable{store: make(map[string]Symbol), scopeType: ScopeGlobal}
}

func NewEnclosedSymbolTable(outer *SymbolTable, scopeType ScopeType) *SymbolTable {
	return &SymbolTable{store: make(map[string]Symbol), outer: outer, scopeType: scopeType}
}

func (s *SymbolTable) ScopeType() ScopeType {
	return s.scopeType
}

// Depth is the number of enclosing scopes; the global scope has depth 0.
func (s *SymbolTable) Depth() int {
	d := 0
	for t := s.outer; t != nil; t = t.outer {
		d++
	}
	return d
}

func (s *SymbolTable) Define(name string, t typesystem.Type, node ast.Node) {
	s.store[name] = Symbol{Name: name, Type: t, DefinitionNode: node}
}

// FindWithScope returns the symbol and the scope that defines it.
func (s *SymbolTable) FindWithScope(name string) (Symbol, *SymbolTable, bool) {
	for t := s; t != nil; t = t.outer {
		if sym, ok := t.store[name]; ok {
			return sym, t, true
		}
	}
	return Symbol{}, nil, false
}

func (s *SymbolTable) Find(name string) (Symbol, bool) {
	sym, _, ok := s.FindWithScope(name)
	return sym, ok
}

func (s *SymbolTable) IsDefined(name string) bool {
	_, ok := s.Find(name)
	return ok
}

func (s *SymbolTable) IsDefinedLocally(name string) bool {
	_, ok := s.store[name]
	return ok
}

// GetAllNames returns every visible name, sorted.
func (s *SymbolTable) GetAllNames() []string {
	seen := make(map[string]bool)
	for t := s; t != nil; t = t.outer {
		for name := range t.store {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
