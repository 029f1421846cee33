// Package scaffold creates the canonical layer directories for a new
// module.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/c360studio/layerlint/rules"
)

// ScaffoldError indicates the scaffold operation could not proceed: the
// target root is not a writable directory, or the module name is reserved
// or malformed.
type ScaffoldError struct {
	Module string
	Err    error
}

func (e *ScaffoldError) Error() string {
	return fmt.Sprintf("scaffold %s: %v", e.Module, e.Err)
}

func (e *ScaffoldError) Unwrap() error { return e.Err }

// Result reports what a scaffold run did. Re-running on an existing module
// is a no-op that reports every directory as already existing.
type Result struct {
	// Module is the scaffolded module name.
	Module string `json:"module"`

	// Created lists layer directories created by this run, in canonical
	// order.
	Created []string `json:"created"`

	// Existed lists layer directories that were already present.
	Existed []string `json:"existed"`
}

// moduleNamePattern restricts module names to directory-safe slugs.
var moduleNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// Generate creates the seven canonical layer directories for module under
// root, each seeded with a .gitkeep so empty layers survive version
// control. Idempotent: directories that already exist are left untouched
// and reported in Result.Existed.
func Generate(root, module string) (*Result, error) {
	if rules.IsReserved(module) {
		return nil, &ScaffoldError{Module: module, Err: fmt.Errorf("name is reserved")}
	}
	if !moduleNamePattern.MatchString(module) {
		return nil, &ScaffoldError{Module: module, Err: fmt.Errorf("name must match %s", moduleNamePattern)}
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, &ScaffoldError{Module: module, Err: err}
	}
	if !info.IsDir() {
		return nil, &ScaffoldError{Module: module, Err: fmt.Errorf("target root is not a directory: %s", root)}
	}

	moduleRoot := filepath.Join(root, module)
	result := &Result{Module: module}

	for _, dir := range rules.CanonicalDirs() {
		layerDir := filepath.Join(moduleRoot, dir)

		if info, err := os.Stat(layerDir); err == nil {
			if !info.IsDir() {
				return nil, &ScaffoldError{Module: module,
					Err: fmt.Errorf("%s exists and is not a directory", layerDir)}
			}
			result.Existed = append(result.Existed, dir)
			continue
		}

		if err := os.MkdirAll(layerDir, 0755); err != nil {
			return nil, &ScaffoldError{Module: module, Err: err}
		}

		keep := filepath.Join(layerDir, ".gitkeep")
		if err := os.WriteFile(keep, nil, 0644); err != nil {
			return nil, &ScaffoldError{Module: module, Err: err}
		}

		result.Created = append(result.Created, dir)
	}

	return result, nil
}
