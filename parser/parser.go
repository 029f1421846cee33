// Package parser defines the language parser contract and the extension
// registry used by the scanner and graph builder.
//
// Parsers extract the import specifiers of a single source file exactly as
// written; resolving those specifiers to scanned units is the graph
// builder's job. Language parsers register themselves via init().
package parser

import "context"

// Result holds what was extracted from one source file.
type Result struct {
	// Path is the file path relative to the scan root.
	Path string

	// Imports are the raw import specifiers in source order, deduplicated.
	Imports []string
}

// FileParser extracts imports from a single file.
type FileParser interface {
	ParseFile(ctx context.Context, filePath string) (*Result, error)
}

// Factory creates a FileParser rooted at repoRoot. Paths in results are
// reported relative to that root.
type Factory func(repoRoot string) FileParser
