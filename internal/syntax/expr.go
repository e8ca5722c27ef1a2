package syntax

import "mapper-generator/internal/common"

// Expr is an expression node.
type Expr interface {
	exprNode()
}

// Ident is a reference to a local name.
type Ident struct {
	Name string
}

// Member selects a named member of X.
type Member struct {
	X    Expr
	Name string
}

// Index is an element access X[Index].
type Index struct {
	X     Expr
	Index Expr
}

// Call invokes Func with optional explicit type arguments.
type Call struct {
	Func     string
	TypeArgs []string
	Args     []Expr
}

// Conditional evaluates Then when Cond holds, Else otherwise.
type Conditional struct {
	Cond Expr
	Then Expr
	Else Expr
}

// IsNull tests X against nil.
type IsNull struct {
	X Expr
}

// NotNull tests X for a non-nil value.
type NotNull struct {
	X Expr
}

// Unwrap extracts the underlying value of a nullable value type.
type Unwrap struct {
	X Expr
}

// Cast converts X to Type.
type Cast struct {
	Type string
	X    Expr
}

// Default is the zero value of Type.
type Default struct {
	Type string
}

// ThrowKind identifies the runtime failure raised by Throw.
type ThrowKind int

const (
	// ThrowArgumentNull reports a nil value flowing into a non-nullable target.
	ThrowArgumentNull ThrowKind = iota
	// ThrowNotImplemented marks a mapping that could not be resolved.
	ThrowNotImplemented
)

// String returns the runtime helper name used for the kind.
func (k ThrowKind) String() string {
	switch k {
	case ThrowArgumentNull:
		return "ArgumentNull"
	case ThrowNotImplemented:
		return "NotImplemented"
	default:
		return common.UnknownStr
	}
}

// Throw raises a runtime failure. Subject names the offending value or
// mapping.
type Throw struct {
	Kind    ThrowKind
	Subject string
}

// New creates a fresh instance of Type (a pointer to it when Pointer is set).
type New struct {
	Type    string
	Pointer bool
}

// Let binds Value to Name once and evaluates Body, which refers to Name.
type Let struct {
	Name  string
	Value Expr
	Body  Expr
}

// Raw is a caller supplied expression kept verbatim.
type Raw struct {
	Text string
}

// SuppressNull marks X as known non-nil for static analysis. It carries no
// runtime semantics.
type SuppressNull struct {
	X Expr
}

func (Ident) exprNode()        {}
func (Member) exprNode()       {}
func (Index) exprNode()        {}
func (Call) exprNode()         {}
func (Conditional) exprNode()  {}
func (IsNull) exprNode()       {}
func (NotNull) exprNode()      {}
func (Unwrap) exprNode()       {}
func (Cast) exprNode()         {}
func (Default) exprNode()      {}
func (Throw) exprNode()        {}
func (New) exprNode()          {}
func (Let) exprNode()          {}
func (Raw) exprNode()          {}
func (SuppressNull) exprNode() {}

// Sel builds the selector chain x.a.b.c.
func Sel(x Expr, names ...string) Expr {
	for _, n := range names {
		x = Member{X: x, Name: n}
	}

	return x
}

// Invoke builds a call without type arguments.
func Invoke(fn string, args ...Expr) Call {
	return Call{Func: fn, Args: args}
}

// IsPure reports whether evaluating e twice is indistinguishable from
// evaluating it once. Only identifiers qualify.
func IsPure(e Expr) bool {
	_, ok := e.(Ident)
	return ok
}
