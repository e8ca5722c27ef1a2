package analyze

import (
	"go/types"
	"slices"
)

// TypeParam describes a generic type parameter of a factory function.
type TypeParam struct {
	Name  string // Declared name, e.g. "TSource"
	Index int    // Position in the type parameter list
	// NotNull rejects nullable type arguments unless the declaration site
	// of the parameter is itself nullable.
	NotNull bool
	// Kinds restricts the kinds of the non-nullable type argument (nil = any).
	Kinds []TypeKind
	// Constraint is the go/types constraint interface, if known.
	Constraint *types.Interface
}

// FuncInfo describes a generic function with one runtime parameter and one
// result, usable as an object factory.
type FuncInfo struct {
	ID         TypeID       // Function identity (package path + name)
	TypeParams []*TypeParam // Declared type parameters, in order
	// ParamNullability is the declared nullability of the runtime parameter.
	ParamNullability Nullability
	// ResultNullability is the declared nullability of the result.
	ResultNullability Nullability
}

// Name returns the short call name of the function, e.g. "factory.Create".
func (f *FuncInfo) Name() string {
	return f.ID.Short()
}

// TypeParam returns the type parameter at index i or nil.
func (f *FuncInfo) TypeParam(i int) *TypeParam {
	if i < 0 || i >= len(f.TypeParams) {
		return nil
	}

	return f.TypeParams[i]
}

// satisfies checks candidate against p in the given nullability context.
func (p *TypeParam) satisfies(candidate *TypeInfo, context Nullability) bool {
	if p == nil || candidate == nil {
		return false
	}

	if p.NotNull && candidate.IsNullable() && context == NonNullable {
		return false
	}

	base := candidate.NonNullable()
	if len(p.Kinds) > 0 && !slices.Contains(p.Kinds, base.Kind) {
		return false
	}

	if p.Constraint != nil && base.GoType != nil {
		return types.Satisfies(base.GoType, p.Constraint)
	}

	return true
}
