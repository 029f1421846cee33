package graph

import (
	"path"
	"sort"
	"strings"

	"github.com/c360studio/layerlint/scanner"
)

// resolver maps import specifiers to scanned units.
//
// A reference is a compile-time import statement that resolves to a unit
// inside the scanned tree. Specifiers that resolve nowhere (standard
// library, third-party packages) are silently ignored.
//
// Resolution strategies, in order:
//   - slash-relative specifiers ("./x", "../y") resolve against the
//     importing unit's directory (TypeScript/JavaScript)
//   - dot-relative specifiers (".repositories.x") resolve against the
//     importing unit's package directory (Python)
//   - everything else is normalised to a slash path and looked up directly,
//     then with leading segments stripped one at a time so that package
//     prefixes ("com.app.", a Go module path) do not defeat the match
//     (Java, Go, absolute Python imports)
//
// A specifier that names a directory resolves to every unit directly in
// that directory.
type resolver struct {
	units map[string]scanner.Unit   // extension-stripped path → unit
	dirs  map[string][]scanner.Unit // directory path → units directly inside
}

func newResolver(units []scanner.Unit) *resolver {
	r := &resolver{
		units: make(map[string]scanner.Unit, len(units)),
		dirs:  make(map[string][]scanner.Unit),
	}

	for _, u := range units {
		normalized := stripExt(u.Path)
		if _, exists := r.units[normalized]; !exists {
			r.units[normalized] = u
		}
		dir := path.Dir(u.Path)
		r.dirs[dir] = append(r.dirs[dir], u)
	}

	for dir := range r.dirs {
		sort.Slice(r.dirs[dir], func(i, j int) bool {
			return r.dirs[dir][i].Path < r.dirs[dir][j].Path
		})
	}

	return r
}

// resolve returns the units the specifier refers to, or nil.
func (r *resolver) resolve(source *scanner.Unit, spec string) []scanner.Unit {
	if spec == "" {
		return nil
	}

	switch {
	case strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../"):
		target := path.Clean(path.Join(path.Dir(source.Path), spec))
		return r.lookup(target)

	case strings.HasPrefix(spec, "."):
		return r.lookup(r.dotRelative(source, spec))

	default:
		p := normalize(spec)
		if found := r.lookup(p); found != nil {
			return found
		}
		// Strip leading package-prefix segments until something matches.
		segments := strings.Split(p, "/")
		for i := 1; i < len(segments); i++ {
			if found := r.lookup(strings.Join(segments[i:], "/")); found != nil {
				return found
			}
		}
		return nil
	}
}

// dotRelative resolves a Python relative import against the source unit.
// One leading dot means the unit's own package; each additional dot goes
// one directory up.
func (r *resolver) dotRelative(source *scanner.Unit, spec string) string {
	dots := 0
	for dots < len(spec) && spec[dots] == '.' {
		dots++
	}
	rest := spec[dots:]

	base := path.Dir(source.Path)
	for i := 1; i < dots; i++ {
		base = path.Dir(base)
	}

	if rest == "" {
		return base
	}
	return path.Join(base, strings.ReplaceAll(rest, ".", "/"))
}

// lookup finds units for a normalised path: an exact unit, a package index
// file, or every unit directly inside a directory of that name.
func (r *resolver) lookup(p string) []scanner.Unit {
	if p == "" || p == "." {
		return nil
	}

	if u, ok := r.units[p]; ok {
		return []scanner.Unit{u}
	}
	// Index-file conventions.
	if u, ok := r.units[p+"/index"]; ok {
		return []scanner.Unit{u}
	}
	if u, ok := r.units[p+"/__init__"]; ok {
		return []scanner.Unit{u}
	}
	if us, ok := r.dirs[p]; ok {
		out := make([]scanner.Unit, len(us))
		copy(out, us)
		return out
	}
	return nil
}

// normalize converts a dotted or slashed specifier to a slash path.
func normalize(spec string) string {
	if strings.Contains(spec, "/") {
		return path.Clean(spec)
	}
	return strings.ReplaceAll(spec, ".", "/")
}

// stripExt removes the file extension from a slash path.
func stripExt(p string) string {
	ext := path.Ext(p)
	if ext == "" {
		return p
	}
	return strings.TrimSuffix(p, ext)
}
