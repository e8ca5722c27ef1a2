package analyze

import (
	"go/types"

	"mapper-generator/internal/common"
)

// Provider is the type schema provider consumed by the mapping graph.
// Implementations must be safe for concurrent reads.
type Provider interface {
	// Members returns the ordered members of t.
	Members(t *TypeInfo) []MemberInfo
	// Nullability returns the nullability of t.
	Nullability(t *TypeInfo) Nullability
	// SatisfiesConstraints reports whether candidate can be bound to param
	// when the declaration using param has the given nullability.
	SatisfiesConstraints(param *TypeParam, candidate *TypeInfo, context Nullability) bool
	// Compatibility classifies a direct conversion from source to target.
	Compatibility(source, target *TypeInfo) Compatibility
}

// Compatibility represents the level of compatibility between two types.
type Compatibility int

const (
	// Incompatible means no direct assignment or conversion exists.
	Incompatible Compatibility = iota
	// Convertible means an explicit conversion is required.
	Convertible
	// Assignable means the source can be assigned without conversion.
	Assignable
	// Identical means the types are exactly the same.
	Identical
)

// String returns a human-readable name for the compatibility level.
func (c Compatibility) String() string {
	switch c {
	case Incompatible:
		return "incompatible"
	case Convertible:
		return "convertible"
	case Assignable:
		return "assignable"
	case Identical:
		return "identical"
	default:
		return common.UnknownStr
	}
}

// Members implements Provider.
func (g *TypeGraph) Members(t *TypeInfo) []MemberInfo {
	return t.Members()
}

// Nullability implements Provider.
func (g *TypeGraph) Nullability(t *TypeInfo) Nullability {
	return t.Nullability
}

// SatisfiesConstraints implements Provider.
func (g *TypeGraph) SatisfiesConstraints(param *TypeParam, candidate *TypeInfo, context Nullability) bool {
	return param.satisfies(candidate, context)
}

// Compatibility implements Provider. go/types is used when both descriptors
// carry a Go type; otherwise the verdict is derived from identity and kind.
func (g *TypeGraph) Compatibility(source, target *TypeInfo) Compatibility {
	if source.Key() == target.Key() {
		return Identical
	}

	if source.GoType != nil && target.GoType != nil {
		return goTypesCompatibility(source.GoType, target.GoType)
	}

	if source.Kind == TypeKindBasic && target.Kind == TypeKindBasic &&
		isNumericName(source.ID.Name) && isNumericName(target.ID.Name) {
		return Convertible
	}

	return Incompatible
}

func goTypesCompatibility(source, target types.Type) Compatibility {
	switch {
	case types.Identical(source, target):
		return Identical
	case types.AssignableTo(source, target):
		return Assignable
	case isIntegerToString(source, target):
		// string(int) yields a rune, not a decimal representation
		return Incompatible
	case types.ConvertibleTo(source, target):
		return Convertible
	default:
		return Incompatible
	}
}

func isIntegerToString(source, target types.Type) bool {
	sb, ok := source.Underlying().(*types.Basic)
	if !ok || sb.Info()&types.IsInteger == 0 {
		return false
	}

	tb, ok := target.Underlying().(*types.Basic)

	return ok && tb.Info()&types.IsString != 0
}

func isNumericName(name string) bool {
	switch name {
	case "int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
		"float32", "float64", "byte", "rune":
		return true
	default:
		return false
	}
}
