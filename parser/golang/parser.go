// Package golang extracts import paths from Go source files using the
// standard library parser.
package golang

import (
	"context"
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	lparser "github.com/c360studio/layerlint/parser"
)

func init() {
	lparser.DefaultRegistry.Register("go", []string{".go"},
		func(repoRoot string) lparser.FileParser {
			return NewParser(repoRoot)
		})
}

// Parser extracts imports from Go source files.
type Parser struct {
	repoRoot string
}

// NewParser creates a new Go parser rooted at repoRoot.
func NewParser(repoRoot string) *Parser {
	return &Parser{repoRoot: repoRoot}
}

// ParseFile parses a single Go file and returns its import paths.
func (p *Parser) ParseFile(ctx context.Context, filePath string) (*lparser.Result, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	relPath, err := filepath.Rel(p.repoRoot, filePath)
	if err != nil {
		relPath = filePath
	}
	relPath = filepath.ToSlash(relPath)

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filePath, content, parser.ImportsOnly)
	if err != nil {
		return nil, fmt.Errorf("parse file: %w", err)
	}

	result := &lparser.Result{
		Path:    relPath,
		Imports: make([]string, 0, len(file.Imports)),
	}

	seen := make(map[string]bool)
	for _, imp := range file.Imports {
		importPath := strings.Trim(imp.Path.Value, `"`)
		if !seen[importPath] {
			seen[importPath] = true
			result.Imports = append(result.Imports, importPath)
		}
	}

	return result, nil
}
