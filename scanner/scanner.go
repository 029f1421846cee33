// Package scanner walks a project tree and classifies source files into
// module and layer buckets.
//
// Classification policy: a unit's module is its top-level directory name
// (reserved names such as config or exceptions are skipped), and its layer
// is its immediate parent directory name mapped through the fixed layer name
// table. Units whose parent directory is unknown are kept with the
// unclassified layer and surfaced in reports rather than treated as fatal.
package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/c360studio/layerlint/rules"
)

// Unit is a single classified source file.
type Unit struct {
	// Module is the owning top-level domain directory.
	Module string

	// Layer is the responsibility band derived from the parent directory.
	Layer rules.Layer

	// Name is the file name without extension.
	Name string

	// Path is the slash-separated path relative to the scan root.
	Path string
}

// Result is the outcome of a single scan pass. A new Result is built on
// every run; nothing is persisted between runs.
type Result struct {
	// Root is the absolute scan root.
	Root string

	// Units holds all classified units sorted by path.
	Units []Unit

	// SkippedModules lists top-level names excluded as reserved.
	SkippedModules []string

	// Warnings collects non-fatal per-file problems (unreadable entries
	// below the root).
	Warnings []string
}

// Unclassified returns the units whose layer could not be mapped.
func (r *Result) Unclassified() []Unit {
	var out []Unit
	for _, u := range r.Units {
		if u.Layer == rules.LayerUnclassified {
			out = append(out, u)
		}
	}
	return out
}

// ScanError indicates the scan root itself is missing or unreadable.
// Per-file errors below the root are collected as warnings instead.
type ScanError struct {
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan %s: %v", e.Path, e.Err)
}

func (e *ScanError) Unwrap() error { return e.Err }

// Options configures a Scanner.
type Options struct {
	// Extensions restricts scanning to files with these extensions
	// (leading dot). Empty means every file is a candidate unit.
	Extensions []string

	// IgnoreGlobs are doublestar patterns matched against the
	// root-relative slash path. Matching files and directories are
	// skipped entirely.
	IgnoreGlobs []string

	// LayerAliases extends the built-in layer name table with
	// project-specific directory names.
	LayerAliases map[string]rules.Layer

	// ExtraReserved adds top-level names to skip beyond the built-in
	// reserved set.
	ExtraReserved []string

	// Parallelism bounds the number of top-level module directories
	// walked concurrently. Zero means GOMAXPROCS. Module subtrees are
	// disjoint, so workers share no mutable state; results are merged
	// deterministically by sorting on path.
	Parallelism int
}

// Scanner performs filesystem scans rooted at a single directory.
type Scanner struct {
	root     string
	opts     Options
	exts     map[string]bool
	reserved map[string]bool
}

// defaultSkipDirs are directory base names never worth descending into.
var defaultSkipDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	"target":       true,
	"coverage":     true,
	"__pycache__":  true,
}

// New creates a Scanner for root.
func New(root string, opts Options) *Scanner {
	exts := make(map[string]bool, len(opts.Extensions))
	for _, e := range opts.Extensions {
		exts[strings.ToLower(e)] = true
	}
	reserved := make(map[string]bool, len(opts.ExtraReserved))
	for _, name := range opts.ExtraReserved {
		reserved[strings.ToLower(name)] = true
	}
	return &Scanner{root: root, opts: opts, exts: exts, reserved: reserved}
}

// Scan walks the tree and returns the classified units. It fails with
// *ScanError when the root is missing or unreadable.
func (s *Scanner) Scan(ctx context.Context) (*Result, error) {
	absRoot, err := filepath.Abs(s.root)
	if err != nil {
		return nil, &ScanError{Path: s.root, Err: err}
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, &ScanError{Path: absRoot, Err: err}
	}
	if !info.IsDir() {
		return nil, &ScanError{Path: absRoot, Err: fmt.Errorf("not a directory")}
	}

	entries, err := os.ReadDir(absRoot)
	if err != nil {
		return nil, &ScanError{Path: absRoot, Err: err}
	}

	result := &Result{Root: absRoot}

	// Partition top-level entries into module directories and noise.
	var modules []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() {
			continue // entry-point and config files at root are not units
		}
		if strings.HasPrefix(name, ".") || defaultSkipDirs[name] {
			continue
		}
		if s.ignored(name) {
			continue
		}
		if rules.IsReserved(name) || s.reserved[strings.ToLower(name)] {
			result.SkippedModules = append(result.SkippedModules, name)
			continue
		}
		modules = append(modules, name)
	}
	sort.Strings(result.SkippedModules)

	workers := s.opts.Parallelism
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// Each module subtree is disjoint; walk them concurrently and merge.
	type moduleScan struct {
		units    []Unit
		warnings []string
	}

	sem := make(chan struct{}, workers)
	scans := make([]moduleScan, len(modules))
	var wg sync.WaitGroup

	for i, module := range modules {
		wg.Add(1)
		go func(i int, module string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			units, warnings := s.walkModule(ctx, absRoot, module)
			scans[i] = moduleScan{units: units, warnings: warnings}
		}(i, module)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, &ScanError{Path: absRoot, Err: err}
	}

	for _, ms := range scans {
		result.Units = append(result.Units, ms.units...)
		result.Warnings = append(result.Warnings, ms.warnings...)
	}

	// Deterministic output regardless of traversal order.
	sort.Slice(result.Units, func(i, j int) bool {
		return result.Units[i].Path < result.Units[j].Path
	})
	sort.Strings(result.Warnings)

	return result, nil
}

// walkModule collects units under a single top-level module directory.
func (s *Scanner) walkModule(ctx context.Context, absRoot, module string) ([]Unit, []string) {
	var units []Unit
	var warnings []string

	moduleRoot := filepath.Join(absRoot, module)
	err := filepath.WalkDir(moduleRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", path, err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		rel, relErr := filepath.Rel(absRoot, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			base := d.Name()
			if strings.HasPrefix(base, ".") || defaultSkipDirs[base] {
				return filepath.SkipDir
			}
			if s.ignored(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if s.ignored(rel) {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if len(s.exts) > 0 && !s.exts[ext] {
			return nil
		}

		units = append(units, s.classify(module, rel))
		return nil
	})
	if err != nil && ctx.Err() == nil {
		warnings = append(warnings, fmt.Sprintf("%s: %v", moduleRoot, err))
	}

	return units, warnings
}

// classify derives the layer of a unit from its immediate parent directory.
func (s *Scanner) classify(module, relPath string) Unit {
	name := filepath.Base(relPath)
	if ext := filepath.Ext(name); ext != "" {
		name = strings.TrimSuffix(name, ext)
	}

	layer := rules.LayerUnclassified
	parent := filepath.Base(filepath.Dir(relPath))
	if parent != module {
		if aliased, ok := s.opts.LayerAliases[strings.ToLower(parent)]; ok {
			layer = aliased
		} else {
			layer = rules.LayerFromDir(parent)
		}
	}

	return Unit{
		Module: module,
		Layer:  layer,
		Name:   name,
		Path:   relPath,
	}
}

// ignored reports whether the root-relative path matches any ignore glob.
func (s *Scanner) ignored(rel string) bool {
	for _, pattern := range s.opts.IgnoreGlobs {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}
