// Package analyzer implements the advisory type checker. It infers a coarse
// type tag for every node and records conflicts as diagnostics; it never
// stops at the first problem and never blocks evaluation.
package analyzer

import (
	"fmt"
	"log/slog"

	"github.com/funvibe/pgraph/internal/ast"
	"github.com/funvibe/pgraph/internal/config"
	"github.com/funvibe/pgraph/internal/logging"
	"github.com/funvibe/pgraph/internal/symbols"
	"github.com/funvibe/pgraph/internal/typesystem"
)

// Analyzer performs type inference over a program graph.
type Analyzer struct {
	symbolTable     *symbols.SymbolTable
	handleFunctions map[string]bool
	logger          *slog.Logger
	errors          []string
	// TypeMap stores the inferred type of every visited node.
	TypeMap map[ast.Node]typesystem.Type
}

// New creates an Analyzer. Native functions listed in handleFunctions are
// typed as Handle; nil selects the defaults.
func New(handleFunctions []string) *Analyzer {
	if handleFunctions == nil {
		handleFunctions = config.DefaultHandleFunctions
	}
	hf := make(map[string]bool, len(handleFunctions))
	for _, name := range handleFunctions {
		hf[name] = true
	}
	return &Analyzer{
		handleFunctions: hf,
		logger:          logging.Discard(),
	}
}

func (a *Analyzer) SetLogger(l *slog.Logger) {
	a.logger = logging.OrDiscard(l)
}

// Check infers the type of root with the default handle functions.
func Check(root ast.Node) (typesystem.Type, []string) {
	return New(nil).Check(root)
}

// Check infers the type of root and returns it together with every
// diagnostic found along the way. Each call starts from an empty scope.
func (a *Analyzer) Check(root ast.Node) (typesystem.Type, []string) {
	a.symbolTable = symbols.NewEmptySymbolTable()
	a.errors = []string{}
	a.TypeMap = make(map[ast.Node]typesystem.Type)

	t := a.infer(root)
	a.logger.Debug("type check completed", "type", t, "errors", len(a.errors))
	return t, a.errors
}

func (a *Analyzer) addError(format string, args ...interface{}) {
	a.errors = append(a.errors, fmt.Sprintf(format, args...))
}

// pushScope enters a nested scope and returns a func that leaves it.
func (a *Analyzer) pushScope(kind symbols.ScopeType) func() {
	outer := a.symbolTable
	a.symbolTable = symbols.NewEnclosedSymbolTable(outer, kind)
	return func() {
		a.logger.Debug("leaving scope", "kind", a.symbolTable.ScopeType(), "depth", a.symbolTable.Depth())
		a.symbolTable = outer
	}
}
