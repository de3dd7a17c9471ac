package modules

import (
	"github.com/funvibe/pgraph/internal/ast"
)

// Format identifies how a graph file was encoded on disk.
type Format string

const (
	FormatJSON   Format = "json"
	FormatBinary Format = "binary"
)

// Module is one program graph loaded from a file.
type Module struct {
	Path   string // Absolute path of the source file
	Dir    string // Directory used to resolve the module's own imports
	Format Format
	Root   ast.Node
	Size   int // Encoded size in bytes
}
