// Package ts extracts import specifiers from TypeScript and JavaScript
// source files using tree-sitter.
package ts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	lparser "github.com/c360studio/layerlint/parser"
)

func init() {
	lparser.DefaultRegistry.Register("typescript",
		[]string{".ts", ".tsx", ".mts", ".cts"},
		func(repoRoot string) lparser.FileParser {
			return NewParser(repoRoot)
		})
	lparser.DefaultRegistry.Register("javascript",
		[]string{".js", ".jsx", ".mjs", ".cjs"},
		func(repoRoot string) lparser.FileParser {
			return NewParser(repoRoot)
		})
}

// Parser extracts imports from TypeScript/JavaScript source files.
type Parser struct {
	repoRoot string
}

// NewParser creates a new TypeScript/JavaScript parser rooted at repoRoot.
func NewParser(repoRoot string) *Parser {
	return &Parser{repoRoot: repoRoot}
}

// languageFor returns the tree-sitter grammar for the file extension.
func languageFor(filePath string) *sitter.Language {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".tsx":
		return tsx.GetLanguage()
	case ".ts", ".mts", ".cts":
		return typescript.GetLanguage()
	default:
		return javascript.GetLanguage()
	}
}

// ParseFile parses a single TypeScript/JavaScript file and returns its
// import specifiers. Both ES module imports and CommonJS require() calls
// are collected.
func (p *Parser) ParseFile(ctx context.Context, filePath string) (*lparser.Result, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	relPath, err := filepath.Rel(p.repoRoot, filePath)
	if err != nil {
		relPath = filePath
	}
	relPath = filepath.ToSlash(relPath)

	parser := sitter.NewParser()
	parser.SetLanguage(languageFor(filePath))

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse file: %w", err)
	}
	defer tree.Close()

	result := &lparser.Result{Path: relPath, Imports: make([]string, 0)}
	seen := make(map[string]bool)

	cursor := sitter.NewTreeCursor(tree.RootNode())
	defer cursor.Close()
	walkImports(cursor, content, &result.Imports, seen)

	return result, nil
}

// walkImports walks the tree collecting import and require specifiers.
func walkImports(cursor *sitter.TreeCursor, source []byte, imports *[]string, seen map[string]bool) {
	node := cursor.CurrentNode()

	if node.Type() == "import_statement" || node.Type() == "export_statement" {
		if sourceNode := node.ChildByFieldName("source"); sourceNode != nil {
			add(nodeText(sourceNode, source), imports, seen)
		}
	}

	// CommonJS require() calls.
	if node.Type() == "call_expression" {
		functionNode := node.ChildByFieldName("function")
		if functionNode != nil && nodeText(functionNode, source) == "require" {
			if argsNode := node.ChildByFieldName("arguments"); argsNode != nil {
				for i := 0; i < int(argsNode.ChildCount()); i++ {
					child := argsNode.Child(i)
					if child.Type() == "string" {
						add(nodeText(child, source), imports, seen)
					}
				}
			}
		}
	}

	if cursor.GoToFirstChild() {
		for {
			walkImports(cursor, source, imports, seen)
			if !cursor.GoToNextSibling() {
				break
			}
		}
		cursor.GoToParent()
	}
}

func add(raw string, imports *[]string, seen map[string]bool) {
	spec := strings.Trim(raw, `'"`)
	if spec == "" || seen[spec] {
		return
	}
	seen[spec] = true
	*imports = append(*imports, spec)
}

func nodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}
