// Package java extracts import declarations from Java source files using
// tree-sitter.
package java

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	lparser "github.com/c360studio/layerlint/parser"
)

func init() {
	lparser.DefaultRegistry.Register("java", []string{".java"},
		func(repoRoot string) lparser.FileParser {
			return NewParser(repoRoot)
		})
}

// Parser extracts imports from Java source files using tree-sitter.
type Parser struct {
	repoRoot string
	parser   *sitter.Parser
}

// NewParser creates a new Java parser rooted at repoRoot.
func NewParser(repoRoot string) *Parser {
	p := sitter.NewParser()
	p.SetLanguage(java.GetLanguage())
	return &Parser{repoRoot: repoRoot, parser: p}
}

// ParseFile parses a single Java file and returns its fully-qualified
// import names. Asterisk imports are reduced to their package path.
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

	tree, err := p.parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse file: %w", err)
	}
	defer tree.Close()

	result := &lparser.Result{Path: relPath, Imports: make([]string, 0)}
	seen := make(map[string]bool)

	root := tree.RootNode()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() != "import_declaration" {
			continue
		}
		for _, imp := range extractImport(child, content) {
			if !seen[imp] {
				seen[imp] = true
				result.Imports = append(result.Imports, imp)
			}
		}
	}

	return result, nil
}

// extractImport extracts the qualified name from one import declaration.
func extractImport(node *sitter.Node, content []byte) []string {
	var imports []string
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "scoped_identifier" || child.Type() == "identifier" {
			importPath := string(content[child.StartByte():child.EndByte()])
			importPath = strings.TrimSuffix(importPath, ".*")
			imports = append(imports, importPath)
		}
	}
	return imports
}
