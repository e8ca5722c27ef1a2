package descriptor

import (
	"fmt"

	"mapper-generator/internal/analyze"
	"mapper-generator/internal/common"
	"mapper-generator/internal/syntax"
)

// MethodName derives the function name of a source to target mapping,
// e.g. "StoreOrderToWarehouseOrder" or "StoreCustomerPtrToWarehouseCustomerPtr".
func MethodName(source, target *analyze.TypeInfo) string {
	return fmt.Sprintf("%sTo%s", typeNamePart(source), typeNamePart(target))
}

func typeNamePart(t *analyze.TypeInfo) string {
	t = t.NonNullable()

	name := common.Capitalize(common.PkgAlias(t.ID.PkgPath)) + common.Capitalize(t.ID.Name)
	if t.Kind == analyze.TypeKindPointer {
		name += "Ptr"
	}

	return name
}

// uniqueName reserves base, or base1, base2, ... when base is taken.
func uniqueName(taken map[string]struct{}, base string) string {
	stem := syntax.NewStem(base, taken)
	if stem.Reserve(base) {
		return base
	}

	return stem.Next()
}
