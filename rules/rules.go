// Package rules encodes the layering rules of the modular backend
// architecture as a fixed, data-driven table.
//
// A module is a domain-bounded vertical slice (orders, users). A layer is a
// horizontal responsibility band inside a module. References inside a module
// are allowed except into the repository layer, which only the module's own
// service layer may touch; references between modules are allowed only
// between service layers. Everything else is a violation.
package rules

import "strings"

// Layer classifies a source unit by its responsibility band.
type Layer string

const (
	LayerController Layer = "controller"
	LayerService    Layer = "service"
	LayerRepository Layer = "repository"
	LayerEntity     Layer = "entity"
	LayerDTO        Layer = "dto"
	LayerMapper     Layer = "mapper"
	LayerUtil       Layer = "util"

	// LayerUnclassified marks units whose parent directory is not in the
	// layer name table. They are reported but never judged.
	LayerUnclassified Layer = "unclassified"
)

// Layers lists all classified layers in canonical order.
func Layers() []Layer {
	return []Layer{
		LayerController,
		LayerService,
		LayerRepository,
		LayerEntity,
		LayerDTO,
		LayerMapper,
		LayerUtil,
	}
}

// DirNames maps canonical layer directory names to layers. Aliases such as
// "models" for entities are included because both conventions are common in
// the codebases this tool is pointed at.
var DirNames = map[string]Layer{
	"controllers":  LayerController,
	"services":     LayerService,
	"repositories": LayerRepository,
	"entities":     LayerEntity,
	"models":       LayerEntity,
	"dtos":         LayerDTO,
	"mappers":      LayerMapper,
	"utils":        LayerUtil,
	"helpers":      LayerUtil,
}

// CanonicalDirs returns the seven directory names a scaffolded module gets,
// in creation order.
func CanonicalDirs() []string {
	return []string{
		"controllers",
		"services",
		"repositories",
		"entities",
		"dtos",
		"mappers",
		"utils",
	}
}

// reservedNames are top-level directory names that never denote a domain
// module, plus the usual entry-point names.
var reservedNames = map[string]bool{
	"config":     true,
	"exceptions": true,
	"utils":      true,
	"main":       true,
	"app":        true,
	"index":      true,
}

// IsReserved reports whether name may not be used as a module name.
// Matching is case-insensitive.
func IsReserved(name string) bool {
	return reservedNames[strings.ToLower(name)]
}

// LayerFromDir maps a directory name to a layer, falling back to
// LayerUnclassified for unknown names.
func LayerFromDir(dir string) Layer {
	if l, ok := DirNames[strings.ToLower(dir)]; ok {
		return l
	}
	return LayerUnclassified
}

// Reason codes carried by violations. Stable across runs; consumers key
// automation off these strings.
const (
	ReasonRepositoryAccess      = "non-service-repository-access"
	ReasonCrossModuleRepository = "cross-module-repository-access"
	ReasonCrossModuleEntity     = "cross-module-entity-access"
	ReasonCrossModuleAccess     = "cross-module-access"
)

// AllowedEdge reports whether a reference from sourceLayer to targetLayer is
// permitted. sameModule indicates both endpoints belong to the same module.
//
// The rule table:
//   - repository as target: only the same module's service layer (sibling
//     repository files referencing each other are exempt)
//   - any other layer → any other layer within the same module: allowed
//   - service → service across modules: allowed (the only sanctioned
//     cross-module channel)
//   - anything else across modules: forbidden
//
// Unclassified endpoints are never judged and always pass.
func AllowedEdge(sourceLayer, targetLayer Layer, sameModule bool) bool {
	if sourceLayer == LayerUnclassified || targetLayer == LayerUnclassified {
		return true
	}
	if sameModule && sourceLayer == targetLayer {
		return true
	}
	if targetLayer == LayerRepository {
		return sameModule && sourceLayer == LayerService
	}
	if sameModule {
		return true
	}
	return sourceLayer == LayerService && targetLayer == LayerService
}

// Reason returns the reason code for a denied edge. It must only be called
// for edges where AllowedEdge returned false; for allowed edges it returns
// the empty string.
func Reason(sourceLayer, targetLayer Layer, sameModule bool) string {
	if AllowedEdge(sourceLayer, targetLayer, sameModule) {
		return ""
	}
	switch {
	case targetLayer == LayerRepository && sameModule:
		return ReasonRepositoryAccess
	case targetLayer == LayerRepository:
		return ReasonCrossModuleRepository
	case targetLayer == LayerEntity:
		return ReasonCrossModuleEntity
	default:
		return ReasonCrossModuleAccess
	}
}
