package descriptor

import (
	"errors"

	"mapper-generator/internal/analyze"
	"mapper-generator/internal/common"
	"mapper-generator/internal/syntax"
)

var (
	// ErrDelegateAlreadySet is returned when a contract is bound twice.
	ErrDelegateAlreadySet = errors.New("delegate mapping already set")
	// ErrUserImplemented is returned when binding a user implemented contract.
	ErrUserImplemented = errors.New("contract is implemented by the user")
	// ErrFrozen is returned when the graph is modified after Freeze.
	ErrFrozen = errors.New("mapping graph is frozen")
)

// Kind enumerates the closed set of mapping node variants.
type Kind int

const (
	KindSimpleAssignment Kind = iota
	KindNullDelegate
	KindUserDeclaredMethod
	KindObjectFactoryCreate
	KindCompositeMethod
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindSimpleAssignment:
		return "simple_assignment"
	case KindNullDelegate:
		return "null_delegate"
	case KindUserDeclaredMethod:
		return "user_declared_method"
	case KindObjectFactoryCreate:
		return "object_factory_create"
	case KindCompositeMethod:
		return "composite_method"
	default:
		return common.UnknownStr
	}
}

// NodeID addresses a node in the graph arena.
type NodeID int

// NoNode is the zero edge.
const NoNode NodeID = -1

// Mapping is the capability contract shared by every node variant.
type Mapping interface {
	Kind() Kind
	SourceType() *analyze.TypeInfo
	TargetType() *analyze.TypeInfo
	// IsSynthetic is true iff the node emits no code (identity pass-through).
	IsSynthetic() bool
	// CallableByOthers is true iff other mappings may invoke the node.
	CallableByOthers() bool
	// Build returns the expression converting ctx.Source.
	Build(ctx *BuildContext) syntax.Expr
}

// MethodMapping is a method shaped mapping with its own statement scope.
type MethodMapping interface {
	Mapping
	// Name is the generated or user supplied function name.
	Name() string
	// HasHandlerParam reports whether the method signature carries a
	// reference handler parameter.
	HasHandlerParam() bool
	// EnableReferenceHandling switches the method to reference handling.
	EnableReferenceHandling()
	// BuildBody returns the statements of the method body.
	BuildBody(ctx *BuildContext) []syntax.Stmt
}

// State tracks a user declared method through assembly.
type State int

const (
	StateUnresolved State = iota
	StateDelegateFound
	StateAssembled
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUnresolved:
		return "unresolved"
	case StateDelegateFound:
		return "delegate_found"
	case StateAssembled:
		return "assembled"
	default:
		return common.UnknownStr
	}
}

// Runtime helpers referenced by generated code.
const (
	runtimePkg      = "maprt"
	handlerParam    = "refHandler"
	handlerType     = "*" + runtimePkg + ".ReferenceHandler"
	newHandlerFunc  = runtimePkg + ".NewReferenceHandler"
	tryGetReference = runtimePkg + ".TryGetReference"
	setReference    = runtimePkg + ".SetReference"
	sourceParam     = "source"
	targetLocal     = "target"
	existingLocal   = "existing"
	okLocal         = "ok"
	tempStem        = "tmp"
)

// reservedNames are never handed out as temporaries.
func reservedNames() map[string]struct{} {
	return map[string]struct{}{
		sourceParam:   {},
		handlerParam:  {},
		targetLocal:   {},
		existingLocal: {},
		okLocal:       {},
	}
}

func pairKey(source, target *analyze.TypeInfo) string {
	return source.Key() + "->" + target.Key()
}
