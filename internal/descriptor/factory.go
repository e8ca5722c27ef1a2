package descriptor

import (
	"errors"
	"fmt"

	"mapper-generator/internal/analyze"
	"mapper-generator/internal/syntax"
)

// GenericSourceTargetFactory is an object factory candidate: a generic
// function with a source slot and a target slot.
type GenericSourceTargetFactory struct {
	provider    analyze.Provider
	fn          *analyze.FuncInfo
	sourceIndex int
}

// NewGenericSourceTargetFactory binds fn's type parameter at sourceIndex to
// the source type and the other one to the target type.
func NewGenericSourceTargetFactory(
	provider analyze.Provider,
	fn *analyze.FuncInfo,
	sourceIndex int,
) (*GenericSourceTargetFactory, error) {
	if fn == nil || len(fn.TypeParams) != 2 {
		return nil, errors.New("factory must declare exactly two type parameters")
	}

	if sourceIndex != 0 && sourceIndex != 1 {
		return nil, fmt.Errorf("factory %s: source index %d out of range", fn.Name(), sourceIndex)
	}

	return &GenericSourceTargetFactory{provider: provider, fn: fn, sourceIndex: sourceIndex}, nil
}

// Func returns the factory function.
func (f *GenericSourceTargetFactory) Func() *analyze.FuncInfo {
	return f.fn
}

func (f *GenericSourceTargetFactory) targetIndex() int {
	return (f.sourceIndex + 1) % 2
}

// CanCreate checks the source slot in the parameter nullability context and
// the target slot in the result nullability context. Both must hold.
func (f *GenericSourceTargetFactory) CanCreate(source, targetToCreate *analyze.TypeInfo) bool {
	return f.provider.SatisfiesConstraints(f.fn.TypeParam(f.sourceIndex), source, f.fn.ParamNullability) &&
		f.provider.SatisfiesConstraints(f.fn.TypeParam(f.targetIndex()), targetToCreate, f.fn.ResultNullability)
}

// BuildCreateType calls the factory with the type arguments at their slots
// and src as the only argument.
func (f *GenericSourceTargetFactory) BuildCreateType(source, targetToCreate *analyze.TypeInfo, src syntax.Expr) syntax.Call {
	typeArgs := make([]string, 2)
	typeArgs[f.sourceIndex] = source.String()
	typeArgs[f.targetIndex()] = targetToCreate.String()

	return syntax.Call{Func: f.fn.Name(), TypeArgs: typeArgs, Args: []syntax.Expr{src}}
}

// ObjectFactoryCreate converts a value by calling a factory.
type ObjectFactoryCreate struct {
	source  *analyze.TypeInfo
	target  *analyze.TypeInfo
	factory *GenericSourceTargetFactory
}

// NewObjectFactoryCreate creates the factory backed mapping.
func NewObjectFactoryCreate(source, target *analyze.TypeInfo, factory *GenericSourceTargetFactory) *ObjectFactoryCreate {
	return &ObjectFactoryCreate{source: source, target: target, factory: factory}
}

func (m *ObjectFactoryCreate) Kind() Kind                    { return KindObjectFactoryCreate }
func (m *ObjectFactoryCreate) SourceType() *analyze.TypeInfo { return m.source }
func (m *ObjectFactoryCreate) TargetType() *analyze.TypeInfo { return m.target }
func (m *ObjectFactoryCreate) IsSynthetic() bool             { return false }
func (m *ObjectFactoryCreate) CallableByOthers() bool        { return true }

// Factory returns the selected factory.
func (m *ObjectFactoryCreate) Factory() *GenericSourceTargetFactory {
	return m.factory
}

// Build implements Mapping.
func (m *ObjectFactoryCreate) Build(ctx *BuildContext) syntax.Expr {
	return m.factory.BuildCreateType(m.source, m.target, ctx.Source)
}
