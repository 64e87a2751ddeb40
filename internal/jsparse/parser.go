// Package jsparse wraps the tree-sitter JavaScript and TypeScript grammars
// behind a single parser that picks the grammar from the file extension.
package jsparse

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// ErrParse marks input that could not be parsed as valid source.
var ErrParse = errors.New("syntax error")

// Language selects which tree-sitter grammar parses a file.
type Language int

const (
	LangJavaScript Language = iota
	LangTypeScript
	LangTSX
)

func (l Language) String() string {
	switch l {
	case LangTypeScript:
		return "typescript"
	case LangTSX:
		return "tsx"
	default:
		return "javascript"
	}
}

// DetectLanguage maps a file path to the grammar used to parse it.
// JSX is part of the JavaScript grammar, so .jsx needs no special case.
func DetectLanguage(path string) Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts", ".cts":
		return LangTypeScript
	case ".tsx":
		return LangTSX
	default:
		return LangJavaScript
	}
}

// Parser holds one tree-sitter parser per supported grammar.
// A Parser is not safe for concurrent use; create one per goroutine.
type Parser struct {
	jsParser  *sitter.Parser
	tsParser  *sitter.Parser
	tsxParser *sitter.Parser
}

// NewParser creates a parser for all supported grammars.
func NewParser() *Parser {
	p := &Parser{
		jsParser:  sitter.NewParser(),
		tsParser:  sitter.NewParser(),
		tsxParser: sitter.NewParser(),
	}
	p.jsParser.SetLanguage(javascript.GetLanguage())
	p.tsParser.SetLanguage(typescript.GetLanguage())
	p.tsxParser.SetLanguage(tsx.GetLanguage())
	return p
}

// Close releases resources held by the underlying parsers.
func (p *Parser) Close() {
	p.jsParser.Close()
	p.tsParser.Close()
	p.tsxParser.Close()
}

// Tree is a parsed source file. Close it when done.
type Tree struct {
	tree   *sitter.Tree
	Source []byte
	Lang   Language
}

// Parse parses content with the grammar detected from path. A tree containing
// syntax errors is rejected with an error wrapping ErrParse.
func (p *Parser) Parse(ctx context.Context, path string, content []byte) (*Tree, error) {
	var parser *sitter.Parser
	lang := DetectLanguage(path)
	switch lang {
	case LangTypeScript:
		parser = p.tsParser
	case LangTSX:
		parser = p.tsxParser
	default:
		parser = p.jsParser
	}

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if tree.RootNode().HasError() {
		tree.Close()
		return nil, fmt.Errorf("parse %s: %w", path, ErrParse)
	}
	return &Tree{tree: tree, Source: content, Lang: lang}, nil
}

// Close releases the underlying syntax tree.
func (t *Tree) Close() {
	t.tree.Close()
}

// Root returns the root node of the tree.
func (t *Tree) Root() *sitter.Node {
	return t.tree.RootNode()
}

// Text returns the source text covered by a node.
func (t *Tree) Text(n *sitter.Node) string {
	return n.Content(t.Source)
}
