package parser

import (
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/token"
	"github.com/nodix/pipeconf/pkg/pipeline"
)

// Locate returns the 1-based line and column of the node at p. When p does
// not exist in the file (a missing required key, say) the position of the
// deepest existing ancestor is returned. exact reports whether the full
// path was found.
func (s *Source) Locate(p pipeline.Path) (line, column int, exact bool) {
	if s.file == nil || len(s.file.Docs) == 0 {
		return 0, 0, false
	}
	node := unwrap(s.file.Docs[0].Body)
	if node == nil {
		return 0, 0, false
	}
	line, column = position(firstToken(node))
	for i, elem := range p {
		var next ast.Node
		var tk *token.Token
		switch e := elem.(type) {
		case string:
			if mv := lookupKey(node, e); mv != nil {
				next, tk = mv.Value, mv.Key.GetToken()
			}
		case int:
			if seq, ok := node.(*ast.SequenceNode); ok && e >= 0 && e < len(seq.Values) {
				next = seq.Values[e]
				tk = firstToken(unwrap(next))
			}
		}
		if tk == nil {
			return line, column, false
		}
		line, column = position(tk)
		if i == len(p)-1 {
			return line, column, true
		}
		node = unwrap(next)
		if node == nil {
			return line, column, false
		}
	}
	return line, column, true
}

// Annotate fills in Line and Column of every diagnostic it can place and
// returns the updated slice.
func (s *Source) Annotate(diags []pipeline.Diagnostic) []pipeline.Diagnostic {
	out := make([]pipeline.Diagnostic, len(diags))
	for i, d := range diags {
		if line, col, _ := s.Locate(d.Path); line > 0 {
			d.Line, d.Column = line, col
		}
		out[i] = d
	}
	return out
}

// unwrap skips tags and anchors to the node carrying the value.
func unwrap(node ast.Node) ast.Node {
	for {
		switch n := node.(type) {
		case *ast.TagNode:
			node = n.Value
		case *ast.AnchorNode:
			node = n.Value
		default:
			return node
		}
	}
}

func lookupKey(node ast.Node, key string) *ast.MappingValueNode {
	var values []*ast.MappingValueNode
	switch n := node.(type) {
	case *ast.MappingNode:
		values = n.Values
	case *ast.MappingValueNode:
		values = []*ast.MappingValueNode{n}
	default:
		return nil
	}
	for _, mv := range values {
		if mv.Key != nil && mv.Key.GetToken() != nil && mv.Key.GetToken().Value == key {
			return mv
		}
	}
	return nil
}

// firstToken returns the token a node starts at. Block mappings start at
// their first key rather than at an implicit start token.
func firstToken(node ast.Node) *token.Token {
	switch n := node.(type) {
	case nil:
		return nil
	case *ast.MappingNode:
		if len(n.Values) > 0 && n.Values[0].Key != nil {
			return n.Values[0].Key.GetToken()
		}
	case *ast.MappingValueNode:
		if n.Key != nil {
			return n.Key.GetToken()
		}
	}
	return node.GetToken()
}

func position(tk *token.Token) (int, int) {
	if tk == nil || tk.Position == nil {
		return 0, 0
	}
	return tk.Position.Line, tk.Position.Column
}
