package parser

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maintains language parsers keyed by name and file extension.
// Thread-safe for concurrent access.
type Registry struct {
	mu      sync.RWMutex
	parsers map[string]Factory // name → factory
	extMap  map[string]string  // extension → parser name
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{
		parsers: make(map[string]Factory),
		extMap:  make(map[string]string),
	}
}

// Register adds a parser factory for the given extensions.
// The first registration wins if there's an extension conflict.
// Extensions include the leading dot (e.g. ".py", ".ts").
func (r *Registry) Register(name string, extensions []string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.parsers[name] = factory

	for _, ext := range extensions {
		if _, exists := r.extMap[ext]; !exists {
			r.extMap[ext] = name
		}
	}
}

// ParserNameFor returns the parser name registered for a file extension.
func (r *Registry) ParserNameFor(ext string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name, ok := r.extMap[ext]
	return name, ok
}

// Create instantiates a parser by name rooted at repoRoot.
func (r *Registry) Create(name, repoRoot string) (FileParser, error) {
	r.mu.RLock()
	factory, ok := r.parsers[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("parser not registered: %s", name)
	}
	return factory(repoRoot), nil
}

// CreateForExtension instantiates a parser for a file extension.
func (r *Registry) CreateForExtension(ext, repoRoot string) (FileParser, error) {
	name, ok := r.ParserNameFor(ext)
	if !ok {
		return nil, fmt.Errorf("no parser registered for extension: %s", ext)
	}
	return r.Create(name, repoRoot)
}

// ListParsers returns all registered parser names, sorted.
func (r *Registry) ListParsers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListExtensions returns all registered file extensions, sorted.
func (r *Registry) ListExtensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	extensions := make([]string, 0, len(r.extMap))
	for ext := range r.extMap {
		extensions = append(extensions, ext)
	}
	sort.Strings(extensions)
	return extensions
}

// ExtensionsFor returns all extensions mapped to a parser name, sorted.
func (r *Registry) ExtensionsFor(name string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var extensions []string
	for ext, parserName := range r.extMap {
		if parserName == name {
			extensions = append(extensions, ext)
		}
	}
	sort.Strings(extensions)
	return extensions
}

// HasParser returns true if a parser with the given name is registered.
func (r *Registry) HasParser(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.parsers[name]
	return ok
}

// DefaultRegistry is the global parser registry.
// Language parsers register themselves via init() functions.
var DefaultRegistry = NewRegistry()
