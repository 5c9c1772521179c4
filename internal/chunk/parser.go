// Package chunk splits Go source files into per-declaration documents for
// ingestion by cmd/hybridcore, using tree-sitter to find top-level function,
// type, and var/const declarations. It is a one-shot demonstration ingestion
// surface over the hybrid retrieval core, not a file-watching pipeline.
package chunk

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
)

// topLevelDeclTypes are the tree-sitter node types this chunker splits a Go
// file on; anything else at the top level (package/import decls) is skipped
// and does not appear in any chunk.
var topLevelDeclTypes = map[string]bool{
	"function_declaration": true,
	"method_declaration":   true,
	"type_declaration":     true,
	"var_declaration":      true,
	"const_declaration":    true,
}

// Parser wraps tree-sitter for Go AST parsing.
type Parser struct {
	parser *sitter.Parser
}

// NewParser creates a parser configured for the Go grammar.
func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(golang.GetLanguage())
	return &Parser{parser: p}
}

// Parse parses Go source and returns its AST.
func (p *Parser) Parse(ctx context.Context, source []byte) (*Tree, error) {
	tsTree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse source: %w", err)
	}
	if tsTree == nil {
		return nil, fmt.Errorf("parse source: nil tree")
	}
	return &Tree{
		Root:     convertNode(tsTree.RootNode(), source),
		Source:   source,
		Language: "go",
	}, nil
}

// Close releases parser resources.
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// ChunkFile parses a Go source file and splits it into one Document per
// top-level declaration. If the file has no splittable declarations (parse
// failure, or a file of only package/import statements), the whole file is
// returned as a single Document.
func ChunkFile(ctx context.Context, path string, source []byte) ([]Document, error) {
	p := NewParser()
	defer p.Close()

	tree, err := p.Parse(ctx, source)
	if err != nil {
		return []Document{{Path: path, Text: string(source), StartLine: 1, EndLine: countLines(source)}}, nil
	}

	var docs []Document
	for _, child := range tree.Root.Children {
		if !topLevelDeclTypes[child.Type] {
			continue
		}
		name := declName(child, source)
		p := path
		if name != "" {
			p = fmt.Sprintf("%s#%s", path, name)
		}
		docs = append(docs, Document{
			Path:      p,
			Text:      child.GetContent(source),
			StartLine: int(child.StartPoint.Row) + 1,
			EndLine:   int(child.EndPoint.Row) + 1,
		})
	}

	if len(docs) == 0 {
		docs = append(docs, Document{Path: path, Text: string(source), StartLine: 1, EndLine: countLines(source)})
	}
	return docs, nil
}

// declName extracts the identifier name of a top-level declaration node,
// when one is directly reachable, for a readable sub-path suffix.
func declName(n *Node, source []byte) string {
	for _, c := range n.Children {
		if c.Type == "identifier" || c.Type == "field_identifier" || c.Type == "type_identifier" {
			return c.GetContent(source)
		}
		if c.Type == "type_spec" || c.Type == "var_spec" || c.Type == "const_spec" {
			if nested := declName(c, source); nested != "" {
				return nested
			}
		}
	}
	return ""
}

func countLines(source []byte) int {
	n := 1
	for _, b := range source {
		if b == '\n' {
			n++
		}
	}
	return n
}

// convertNode converts a tree-sitter node to our Node type.
func convertNode(tsNode *sitter.Node, source []byte) *Node {
	if tsNode == nil {
		return nil
	}

	node := &Node{
		Type:      tsNode.Type(),
		StartByte: tsNode.StartByte(),
		EndByte:   tsNode.EndByte(),
		StartPoint: Point{
			Row:    tsNode.StartPoint().Row,
			Column: tsNode.StartPoint().Column,
		},
		EndPoint: Point{
			Row:    tsNode.EndPoint().Row,
			Column: tsNode.EndPoint().Column,
		},
		HasError: tsNode.HasError(),
		Children: make([]*Node, 0, int(tsNode.ChildCount())),
	}

	for i := uint32(0); i < tsNode.ChildCount(); i++ {
		if child := tsNode.Child(int(i)); child != nil {
			node.Children = append(node.Children, convertNode(child, source))
		}
	}

	return node
}

// GetContent returns the source content for a node.
func (n *Node) GetContent(source []byte) string {
	if n.StartByte >= n.EndByte || int(n.EndByte) > len(source) {
		return ""
	}
	return string(source[n.StartByte:n.EndByte])
}
