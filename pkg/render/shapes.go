package render

import "github.com/ritzau/cmake-graph/pkg/model"

// shapeFor maps a target type to its node shape. Unknown types fall through
// to a generic shape instead of being silently bucketed with a known one.
func shapeFor(t model.TargetType) string {
	switch t {
	case model.TypeExecutable:
		return "box"
	case model.TypeStaticLibrary:
		return "oval"
	case model.TypeSharedLibrary:
		return "octagon"
	case model.TypeModuleLibrary:
		return "doubleoctagon"
	case model.TypeObjectLibrary:
		return "component"
	case model.TypeInterfaceLibrary:
		return "note"
	case model.TypeUtility:
		return "diamond"
	default:
		return "ellipse"
	}
}
