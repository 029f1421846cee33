// Package python extracts import statements from Python source files using
// tree-sitter.
package python

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	lparser "github.com/c360studio/layerlint/parser"
)

func init() {
	lparser.DefaultRegistry.Register("python", []string{".py"},
		func(repoRoot string) lparser.FileParser {
			return NewParser(repoRoot)
		})
}

// Parser extracts imports from Python source files using tree-sitter.
type Parser struct {
	repoRoot string
	parser   *sitter.Parser
}

// NewParser creates a new Python parser rooted at repoRoot.
func NewParser(repoRoot string) *Parser {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return &Parser{repoRoot: repoRoot, parser: p}
}

// ParseFile parses a single Python file and returns its dotted import paths.
// Both `import a.b` and `from a.b import c` forms contribute the module path
// `a.b`; aliases are stripped.
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
		for _, imp := range extractImports(root.NamedChild(i), content) {
			if !seen[imp] {
				seen[imp] = true
				result.Imports = append(result.Imports, imp)
			}
		}
	}

	return result, nil
}

// extractImports extracts module paths from a single top-level statement.
func extractImports(node *sitter.Node, content []byte) []string {
	var imports []string

	switch node.Type() {
	case "import_statement":
		// import foo.bar, baz as b
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			if child.Type() == "dotted_name" || child.Type() == "aliased_import" {
				importName := string(content[child.StartByte():child.EndByte()])
				if idx := strings.Index(importName, " as "); idx != -1 {
					importName = importName[:idx]
				}
				imports = append(imports, strings.TrimSpace(importName))
			}
		}

	case "import_from_statement":
		// from foo.bar import baz
		moduleNode := node.ChildByFieldName("module_name")
		if moduleNode != nil {
			imports = append(imports, string(content[moduleNode.StartByte():moduleNode.EndByte()]))
		}
	}

	return imports
}
