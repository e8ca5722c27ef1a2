package mapping

import (
	"fmt"

	"dario.cat/mergo"

	"mapper-generator/internal/common"
)

// MappingFile represents the root of a YAML mapping definition file.
type MappingFile struct {
	// Version of the mapping schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Mapper holds the mapper-wide options, the least specific layer.
	Mapper Options `yaml:"mapper,omitempty"`

	// Factories lists the object factory candidates in priority order.
	Factories []FactoryDef `yaml:"factories,omitempty"`

	// TypeMappings is a list of user-declared mapping contracts.
	TypeMappings []TypeMapping `yaml:"mappings"`
}

// FactoryDef names a generic function func[A, B any](x) used to create
// target instances.
type FactoryDef struct {
	// Func is the function reference, e.g. "factory.Create".
	Func string `yaml:"func"`
	// SourceIndex is the type parameter slot (0 or 1) bound to the source
	// type; the other slot is bound to the target type.
	SourceIndex int `yaml:"source_index"`
}

// TypeMapping declares one mapping contract from Source to Target.
type TypeMapping struct {
	// Name of the generated (or user-implemented) function. Derived from the
	// type names when empty.
	Name string `yaml:"name,omitempty"`

	// Source type identifier (e.g., "store.Order" or full path).
	Source string `yaml:"source"`

	// Target type identifier (e.g., "warehouse.Order" or full path).
	Target string `yaml:"target"`

	// ReferenceHandler declares an explicit reference handler parameter.
	ReferenceHandler bool `yaml:"reference_handler,omitempty"`

	// Implemented marks a contract whose body the user writes by hand.
	// Other mappings call it but the planner does not assemble it.
	Implemented bool `yaml:"implemented,omitempty"`

	// Ignore lists target members that must not be assigned.
	Ignore []string `yaml:"ignore,omitempty"`

	// IgnoreSource lists source members that must not be read.
	IgnoreSource []string `yaml:"ignore_source,omitempty"`

	// OneToOne renames members: keys are source members, values are target
	// members. Example: { "FullName": "Name" }
	OneToOne map[string]string `yaml:"121,omitempty"`

	// Fields holds per target member option overrides.
	Fields []FieldOptions `yaml:"fields,omitempty"`

	// Options overrides mapper options for this contract.
	Options Options `yaml:"options,omitempty"`
}

// FieldOptions overrides options for a single target member.
type FieldOptions struct {
	Target  string `yaml:"target"`
	Options `yaml:",inline"`
}

// NullFallback selects what a nil source produces for a non-nullable target.
type NullFallback string

const (
	// FallbackUnset leaves the choice to a less specific layer.
	FallbackUnset NullFallback = ""
	// FallbackDefault produces the target's zero value (members: skip).
	FallbackDefault NullFallback = "default"
	// FallbackThrow raises an argument-null failure naming the source.
	FallbackThrow NullFallback = "throw"
	// FallbackSubstitute produces the configured substitute expression.
	FallbackSubstitute NullFallback = "substitute"
)

// IsValid returns true if the fallback is a recognized value.
func (f NullFallback) IsValid() bool {
	switch f {
	case FallbackUnset, FallbackDefault, FallbackThrow, FallbackSubstitute:
		return true
	default:
		return false
	}
}

// String returns the fallback name.
func (f NullFallback) String() string {
	if f == FallbackUnset {
		return common.UnknownStr
	}

	return string(f)
}

// Options is one layer of mapper options. Nil and empty values are unset.
type Options struct {
	ReferenceHandling *bool        `yaml:"reference_handling,omitempty"`
	NullFallback      NullFallback `yaml:"null_fallback,omitempty"`
	Substitute        *string      `yaml:"substitute,omitempty"`
	// ThrowOnPropertyMappingNullMismatch forces FallbackThrow for members.
	ThrowOnPropertyMappingNullMismatch *bool `yaml:"throw_on_property_mapping_null_mismatch,omitempty"`
	DeepCloning                        *bool `yaml:"deep_cloning,omitempty"`
}

// Layer returns o with every unset value taken from the less specific
// layers, in order.
func (o Options) Layer(less ...Options) (Options, error) {
	merged := Options{}
	if err := mergo.Merge(&merged, o, mergo.WithoutDereference); err != nil {
		return Options{}, fmt.Errorf("failed to merge options: %w", err)
	}

	for _, l := range less {
		if err := mergo.Merge(&merged, l, mergo.WithoutDereference); err != nil {
			return Options{}, fmt.Errorf("failed to merge options: %w", err)
		}
	}

	return merged, nil
}

// ReferenceHandlingEnabled reports the effective reference handling flag.
func (o Options) ReferenceHandlingEnabled() bool {
	return o.ReferenceHandling != nil && *o.ReferenceHandling
}

// DeepCloningEnabled reports the effective deep cloning flag.
func (o Options) DeepCloningEnabled() bool {
	return o.DeepCloning != nil && *o.DeepCloning
}

// NullPolicy is the resolved Null Fallback Policy of one mapping or member.
type NullPolicy struct {
	Fallback   NullFallback
	Substitute string
}

// DefaultNullPolicy produces zero values and skips member assignment.
func DefaultNullPolicy() NullPolicy {
	return NullPolicy{Fallback: FallbackDefault}
}

// NullPolicy resolves the effective policy of a single layer.
func (o Options) NullPolicy() (policy NullPolicy, conflict bool) {
	return ResolveNullPolicy(o)
}

// ResolveNullPolicy resolves the policy of layers ordered most specific
// first. The fallback comes from the most specific layer setting
// null_fallback or a substitute. The throw flag applies only when set on
// that layer or a more specific one. conflict is true when one layer both
// forces a throw and selects a substitute; the throw wins.
func ResolveNullPolicy(layers ...Options) (policy NullPolicy, conflict bool) {
	fallback, fallbackAt := FallbackUnset, len(layers)
	flag, flagAt := false, len(layers)

	var substitute *string

	for i, o := range layers {
		if fallbackAt == len(layers) && (o.NullFallback != FallbackUnset || o.Substitute != nil) {
			fallback, fallbackAt = o.NullFallback, i
			if fallback == FallbackUnset {
				fallback = FallbackSubstitute
			}
		}

		if flagAt == len(layers) && o.ThrowOnPropertyMappingNullMismatch != nil {
			flag, flagAt = *o.ThrowOnPropertyMappingNullMismatch, i
		}

		if substitute == nil {
			substitute = o.Substitute
		}
	}

	throw := fallback == FallbackThrow || (flag && flagAt <= fallbackAt)

	switch {
	case throw:
		return NullPolicy{Fallback: FallbackThrow}, fallback == FallbackSubstitute && flagAt == fallbackAt
	case fallback == FallbackSubstitute:
		p := NullPolicy{Fallback: FallbackSubstitute}
		if substitute != nil {
			p.Substitute = *substitute
		}

		return p, false
	default:
		return DefaultNullPolicy(), false
	}
}

// Bool returns a pointer to b, for building option layers in code.
func Bool(b bool) *bool {
	return &b
}

// String returns a pointer to s, for building option layers in code.
func String(s string) *string {
	return &s
}
