// Package codec persists program graphs.
//
// Two encodings are provided and both are exact inverses over the whole node domain:
//   - JSON: self-describing, used for hand- or tool-authored scripts
//   - binary: magic + version + gob payload, used for embedded and bootstrapped graphs
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/funvibe/pgraph/internal/ast"
)

// wireNode is the JSON shape of every node kind. Unused fields are omitted.
type wireNode struct {
	Kind       string          `json:"kind"`
	Value      json.RawMessage `json:"value,omitempty"`
	Name       string          `json:"name,omitempty"`
	Params     []string        `json:"params,omitempty"`
	Module     string          `json:"module,omitempty"`
	Function   string          `json:"function,omitempty"`
	Capability string          `json:"capability,omitempty"`
	Op         string          `json:"op,omitempty"`
	Path       string          `json:"path,omitempty"`

	Expr   *wireNode   `json:"expr,omitempty"`
	Left   *wireNode   `json:"left,omitempty"`
	Right  *wireNode   `json:"right,omitempty"`
	Cond   *wireNode   `json:"cond,omitempty"`
	Then   *wireNode   `json:"then,omitempty"`
	Else   *wireNode   `json:"else,omitempty"`
	Body   *wireNode   `json:"body,omitempty"`
	Target *wireNode   `json:"target,omitempty"`
	Index  *wireNode   `json:"index,omitempty"`
	File   *wireNode   `json:"file,omitempty"`
	Data   *wireNode   `json:"data,omitempty"`
	Nodes  []*wireNode `json:"nodes,omitempty"`
}

// EncodeJSON renders a program graph as indented JSON.
func EncodeJSON(n ast.Node) ([]byte, error) {
	w, err := toWire(n)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(w, "", "  ")
}

// DecodeJSON parses a program graph from JSON.
func DecodeJSON(data []byte) (ast.Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var w wireNode
	if err := dec.Decode(&w); err != nil {
		return nil, fmt.Errorf("json decoding failed: %w", err)
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); err != io.EOF {
		return nil, fmt.Errorf("json decoding failed: trailing data after graph")
	}
	return fromWire(&w)
}

func toWire(n ast.Node) (*wireNode, error) {
	if n == nil {
		return nil, nil
	}
	w := &wireNode{Kind: string(n.Kind())}
	var err error
	sub := func(c ast.Node) *wireNode {
		if err != nil {
			return nil
		}
		var cw *wireNode
		cw, err = toWire(c)
		return cw
	}
	list := func(nodes []ast.Node) []*wireNode {
		out := make([]*wireNode, 0, len(nodes))
		for _, c := range nodes {
			out = append(out, sub(c))
		}
		return out
	}

	switch n := n.(type) {
	case *ast.IntLit:
		w.Value = json.RawMessage(strconv.FormatInt(n.Value, 10))
	case *ast.FloatLit:
		w.Value = encodeFloat(n.Value)
	case *ast.BoolLit:
		w.Value = json.RawMessage(strconv.FormatBool(n.Value))
	case *ast.StringLit:
		w.Value, err = json.Marshal(n.Value)
	case *ast.Identifier:
		w.Name = n.Name
	case *ast.Assign:
		w.Name = n.Name
		w.Expr = sub(n.Value)
	case *ast.Binary:
		w.Kind = string(n.Op)
		w.Left = sub(n.Left)
		w.Right = sub(n.Right)
	case *ast.If:
		w.Cond = sub(n.Cond)
		w.Then = sub(n.Then)
		w.Else = sub(n.Else)
	case *ast.While:
		w.Cond = sub(n.Cond)
		w.Body = sub(n.Body)
	case *ast.Block:
		w.Nodes = list(n.Nodes)
	case *ast.Return:
		w.Expr = sub(n.Value)
	case *ast.FnDef:
		w.Name = n.Name
		w.Params = n.Params
		w.Body = sub(n.Body)
	case *ast.Call:
		w.Name = n.Name
		w.Nodes = list(n.Args)
	case *ast.ArrayLit:
		w.Nodes = list(n.Elements)
	case *ast.Index:
		w.Target = sub(n.Target)
		w.Index = sub(n.Index)
	case *ast.Len:
		w.Expr = sub(n.Value)
	case *ast.ArraySet:
		w.Name = n.Name
		w.Index = sub(n.Index)
		w.Expr = sub(n.Value)
	case *ast.ArrayPush:
		w.Name = n.Name
		w.Expr = sub(n.Value)
	case *ast.Concat:
		w.Left = sub(n.Left)
		w.Right = sub(n.Right)
	case *ast.ReadFile:
		w.File = sub(n.Path)
	case *ast.WriteFile:
		w.File = sub(n.Path)
		w.Data = sub(n.Data)
	case *ast.ToString:
		w.Expr = sub(n.Value)
	case *ast.EvalBytes:
		w.Data = sub(n.Bytes)
	case *ast.Import:
		w.Path = n.Path
	case *ast.Print:
		w.Expr = sub(n.Value)
	case *ast.ExternCall:
		w.Module = n.Module
		w.Function = n.Function
		w.Nodes = list(n.Args)
	case *ast.NativeCall:
		w.Function = n.Function
		w.Nodes = list(n.Args)
	case *ast.Native:
		w.Capability = string(n.Capability)
		w.Op = n.Op
		w.Nodes = list(n.Args)
	default:
		return nil, fmt.Errorf("cannot encode node of type %T", n)
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

func fromWire(w *wireNode) (ast.Node, error) {
	if w == nil {
		return nil, fmt.Errorf("missing node")
	}
	var err error
	// req decodes a mandatory child.
	req := func(field string, c *wireNode) ast.Node {
		if err != nil {
			return nil
		}
		if c == nil {
			err = fmt.Errorf("%s: missing %q", w.Kind, field)
			return nil
		}
		var n ast.Node
		n, err = fromWire(c)
		return n
	}
	list := func(ws []*wireNode) []ast.Node {
		out := make([]ast.Node, 0, len(ws))
		for i, c := range ws {
			out = append(out, req("nodes["+strconv.Itoa(i)+"]", c))
		}
		return out
	}

	if op, ok := ast.LookupOp(w.Kind); ok {
		n := &ast.Binary{Op: op, Left: req("left", w.Left), Right: req("right", w.Right)}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", w.Kind, err)
		}
		return n, nil
	}

	var n ast.Node
	switch ast.Kind(w.Kind) {
	case ast.KindIntLit:
		var v int64
		v, err = strconv.ParseInt(string(w.Value), 10, 64)
		n = &ast.IntLit{Value: v}
	case ast.KindFloatLit:
		var v float64
		v, err = decodeFloat(w.Value)
		n = &ast.FloatLit{Value: v}
	case ast.KindBoolLit:
		var v bool
		err = json.Unmarshal(w.Value, &v)
		n = &ast.BoolLit{Value: v}
	case ast.KindStringLit:
		var v string
		err = json.Unmarshal(w.Value, &v)
		n = &ast.StringLit{Value: v}
	case ast.KindIdentifier:
		n = &ast.Identifier{Name: w.Name}
	case ast.KindAssign:
		n = &ast.Assign{Name: w.Name, Value: req("expr", w.Expr)}
	case ast.KindIf:
		node := &ast.If{Cond: req("cond", w.Cond), Then: req("then", w.Then)}
		if w.Else != nil {
			node.Else = req("else", w.Else)
		}
		n = node
	case ast.KindWhile:
		n = &ast.While{Cond: req("cond", w.Cond), Body: req("body", w.Body)}
	case ast.KindBlock:
		n = &ast.Block{Nodes: list(w.Nodes)}
	case ast.KindReturn:
		n = &ast.Return{Value: req("expr", w.Expr)}
	case ast.KindFnDef:
		params := w.Params
		if params == nil {
			params = []string{}
		}
		n = &ast.FnDef{Name: w.Name, Params: params, Body: req("body", w.Body)}
	case ast.KindCall:
		n = &ast.Call{Name: w.Name, Args: list(w.Nodes)}
	case ast.KindArrayLit:
		n = &ast.ArrayLit{Elements: list(w.Nodes)}
	case ast.KindIndex:
		n = &ast.Index{Target: req("target", w.Target), Index: req("index", w.Index)}
	case ast.KindLen:
		n = &ast.Len{Value: req("expr", w.Expr)}
	case ast.KindArraySet:
		n = &ast.ArraySet{Name: w.Name, Index: req("index", w.Index), Value: req("expr", w.Expr)}
	case ast.KindArrayPush:
		n = &ast.ArrayPush{Name: w.Name, Value: req("expr", w.Expr)}
	case ast.KindConcat:
		n = &ast.Concat{Left: req("left", w.Left), Right: req("right", w.Right)}
	case ast.KindReadFile:
		n = &ast.ReadFile{Path: req("file", w.File)}
	case ast.KindWriteFile:
		n = &ast.WriteFile{Path: req("file", w.File), Data: req("data", w.Data)}
	case ast.KindToString:
		n = &ast.ToString{Value: req("expr", w.Expr)}
	case ast.KindEvalBytes:
		n = &ast.EvalBytes{Bytes: req("data", w.Data)}
	case ast.KindImport:
		n = &ast.Import{Path: w.Path}
	case ast.KindPrint:
		n = &ast.Print{Value: req("expr", w.Expr)}
	case ast.KindExternCall:
		n = &ast.ExternCall{Module: w.Module, Function: w.Function, Args: list(w.Nodes)}
	case ast.KindNativeCall:
		n = &ast.NativeCall{Function: w.Function, Args: list(w.Nodes)}
	case ast.KindNative:
		n = &ast.Native{Capability: ast.Capability(w.Capability), Op: w.Op, Args: list(w.Nodes)}
	default:
		return nil, fmt.Errorf("unknown node kind %q", w.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", w.Kind, err)
	}
	return n, nil
}

// canonicalNaN is the NaN written as plain "NaN". Any other NaN carries
// its bit pattern as "NaN:0x...".
var canonicalNaN = math.Float64bits(math.NaN())

// encodeFloat keeps non-finite values representable: JSON numbers cannot carry them.
func encodeFloat(f float64) json.RawMessage {
	switch {
	case math.IsNaN(f):
		if bits := math.Float64bits(f); bits != canonicalNaN {
			return json.RawMessage(fmt.Sprintf(`"NaN:0x%016x"`, bits))
		}
		return json.RawMessage(`"NaN"`)
	case math.IsInf(f, 1):
		return json.RawMessage(`"+Inf"`)
	case math.IsInf(f, -1):
		return json.RawMessage(`"-Inf"`)
	}
	return json.RawMessage(strconv.FormatFloat(f, 'g', -1, 64))
}

func decodeFloat(raw json.RawMessage) (float64, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		switch s {
		case "NaN":
			return math.NaN(), nil
		case "+Inf":
			return math.Inf(1), nil
		case "-Inf":
			return math.Inf(-1), nil
		}
		if hex, ok := strings.CutPrefix(s, "NaN:"); ok {
			bits, err := strconv.ParseUint(hex, 0, 64)
			if err == nil && math.IsNaN(math.Float64frombits(bits)) {
				return math.Float64frombits(bits), nil
			}
		}
		return 0, fmt.Errorf("invalid float %q", s)
	}
	return strconv.ParseFloat(string(raw), 64)
}
