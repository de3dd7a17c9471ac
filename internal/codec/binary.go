package codec

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/funvibe/pgraph/internal/ast"
)

func init() {
	// Stable wire names keep encoded graphs independent of the Go import path.
	gob.RegisterName("pg.Int", &ast.IntLit{})
	gob.RegisterName("pg.Float", &ast.FloatLit{})
	gob.RegisterName("pg.Bool", &ast.BoolLit{})
	gob.RegisterName("pg.String", &ast.StringLit{})
	gob.RegisterName("pg.Identifier", &ast.Identifier{})
	gob.RegisterName("pg.Assign", &ast.Assign{})
	gob.RegisterName("pg.Binary", &ast.Binary{})
	gob.RegisterName("pg.If", &ast.If{})
	gob.RegisterName("pg.While", &ast.While{})
	gob.RegisterName("pg.Block", &ast.Block{})
	gob.RegisterName("pg.Return", &ast.Return{})
	gob.RegisterName("pg.FnDef", &ast.FnDef{})
	gob.RegisterName("pg.Call", &ast.Call{})
	gob.RegisterName("pg.Array", &ast.ArrayLit{})
	gob.RegisterName("pg.Index", &ast.Index{})
	gob.RegisterName("pg.Len", &ast.Len{})
	gob.RegisterName("pg.ArraySet", &ast.ArraySet{})
	gob.RegisterName("pg.ArrayPush", &ast.ArrayPush{})
	gob.RegisterName("pg.Concat", &ast.Concat{})
	gob.RegisterName("pg.ReadFile", &ast.ReadFile{})
	gob.RegisterName("pg.WriteFile", &ast.WriteFile{})
	gob.RegisterName("pg.ToString", &ast.ToString{})
	gob.RegisterName("pg.EvalBytes", &ast.EvalBytes{})
	gob.RegisterName("pg.Import", &ast.Import{})
	gob.RegisterName("pg.Print", &ast.Print{})
	gob.RegisterName("pg.ExternCall", &ast.ExternCall{})
	gob.RegisterName("pg.NativeCall", &ast.NativeCall{})
	gob.RegisterName("pg.Native", &ast.Native{})
}

// graphVersion constants
const (
	graphVersionV1 byte = 0x01
)

// graphMagic prefixes every binary-encoded graph: "PGB1".
var graphMagic = [4]byte{'P', 'G', 'B', '1'}

// envelope carries the root so gob transmits its concrete type.
type envelope struct {
	Root ast.Node
}

// EncodeBinary converts a program graph to the compact binary format.
// Format:
// - Magic number (4 bytes): "PGB1"
// - Version (1 byte): 0x01
// - Gob-encoded root node
func EncodeBinary(n ast.Node) ([]byte, error) {
	if n == nil {
		return nil, fmt.Errorf("cannot encode empty program")
	}
	buf := new(bytes.Buffer)
	buf.Write(graphMagic[:])
	buf.WriteByte(graphVersionV1)

	enc := gob.NewEncoder(buf)
	if err := enc.Encode(&envelope{Root: n}); err != nil {
		return nil, fmt.Errorf("graph gob encoding failed: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeBinary reads a program graph produced by EncodeBinary.
func DecodeBinary(data []byte) (ast.Node, error) {
	if len(data) < 5 {
		return nil, fmt.Errorf("graph data too short")
	}
	if !IsBinary(data) {
		return nil, fmt.Errorf("invalid magic number, expected PGB1")
	}

	version := data[4]
	switch version {
	case graphVersionV1:
		dec := gob.NewDecoder(bytes.NewReader(data[5:]))
		var env envelope
		if err := dec.Decode(&env); err != nil {
			return nil, fmt.Errorf("v1 gob decoding failed: %w", err)
		}
		if env.Root == nil {
			return nil, fmt.Errorf("graph has no root node")
		}
		if err := normalize(env.Root); err != nil {
			return nil, err
		}
		return env.Root, nil
	default:
		return nil, fmt.Errorf("unsupported graph version: %d (supported: %d)", version, graphVersionV1)
	}
}

// IsBinary reports whether data starts with the binary graph magic.
func IsBinary(data []byte) bool {
	return len(data) >= len(graphMagic) && bytes.Equal(data[:len(graphMagic)], graphMagic[:])
}

// Decode accepts either encoding, sniffing the binary magic first.
func Decode(data []byte) (ast.Node, error) {
	if IsBinary(data) {
		return DecodeBinary(data)
	}
	return DecodeJSON(data)
}

// normalize restores the invariants gob cannot express: required children
// must be present and lists are never nil.
func normalize(root ast.Node) error {
	var err error
	ast.Walk(root, func(n ast.Node) bool {
		if err != nil {
			return false
		}
		switch n := n.(type) {
		case *ast.Assign:
			err = require(n, n.Value)
		case *ast.Binary:
			if _, ok := ast.LookupOp(string(n.Op)); !ok {
				err = fmt.Errorf("unknown operator %q", n.Op)
				return false
			}
			err = require(n, n.Left, n.Right)
		case *ast.If:
			err = require(n, n.Cond, n.Then)
		case *ast.While:
			err = require(n, n.Cond, n.Body)
		case *ast.Block:
			if n.Nodes == nil {
				n.Nodes = []ast.Node{}
			}
			err = require(n, n.Nodes...)
		case *ast.Return:
			err = require(n, n.Value)
		case *ast.FnDef:
			if n.Params == nil {
				n.Params = []string{}
			}
			err = require(n, n.Body)
		case *ast.Call:
			if n.Args == nil {
				n.Args = []ast.Node{}
			}
			err = require(n, n.Args...)
		case *ast.ArrayLit:
			if n.Elements == nil {
				n.Elements = []ast.Node{}
			}
			err = require(n, n.Elements...)
		case *ast.Index:
			err = require(n, n.Target, n.Index)
		case *ast.Len:
			err = require(n, n.Value)
		case *ast.ArraySet:
			err = require(n, n.Index, n.Value)
		case *ast.ArrayPush:
			err = require(n, n.Value)
		case *ast.Concat:
			err = require(n, n.Left, n.Right)
		case *ast.ReadFile:
			err = require(n, n.Path)
		case *ast.WriteFile:
			err = require(n, n.Path, n.Data)
		case *ast.ToString:
			err = require(n, n.Value)
		case *ast.EvalBytes:
			err = require(n, n.Bytes)
		case *ast.Print:
			err = require(n, n.Value)
		case *ast.ExternCall:
			if n.Args == nil {
				n.Args = []ast.Node{}
			}
			err = require(n, n.Args...)
		case *ast.NativeCall:
			if n.Args == nil {
				n.Args = []ast.Node{}
			}
			err = require(n, n.Args...)
		case *ast.Native:
			if n.Args == nil {
				n.Args = []ast.Node{}
			}
			err = require(n, n.Args...)
		}
		return err == nil
	})
	return err
}

func require(parent ast.Node, children ...ast.Node) error {
	for _, c := range children {
		if c == nil {
			return fmt.Errorf("%s: missing child node", parent.Kind())
		}
	}
	return nil
}
