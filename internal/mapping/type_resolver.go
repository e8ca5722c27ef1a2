package mapping

import (
	"mapper-generator/internal/analyze"
)

// ResolveTypeID resolves a type reference like:
// - "store.Order" (short)
// - "mapper-generator/store.Order" (full)
// - "Order" (name only)
// - "*store.Order", "int?" (pointer and nullable forms).
func ResolveTypeID(ref string, graph *analyze.TypeGraph) *analyze.TypeInfo {
	if graph == nil || ref == "" {
		return nil
	}

	return graph.ResolveType(ref)
}

// ResolveFactory resolves a factory function reference in the same forms.
func ResolveFactory(ref string, graph *analyze.TypeGraph) *analyze.FuncInfo {
	if graph == nil || ref == "" {
		return nil
	}

	return graph.ResolveFunc(ref)
}
