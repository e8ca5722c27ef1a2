package syntax

// Stmt is a statement node.
type Stmt interface {
	stmtNode()
}

// ExprStmt evaluates X for its effect.
type ExprStmt struct {
	X Expr
}

// Assign stores Rhs into Lhs.
type Assign struct {
	Lhs Expr
	Rhs Expr
}

// Define declares and initializes new locals.
type Define struct {
	Names []string
	Value Expr
}

// If runs Then when Cond holds and Else otherwise. Init runs first and its
// names are scoped to the statement.
type If struct {
	Init Stmt
	Cond Expr
	Then []Stmt
	Else []Stmt
}

// Return leaves the function with Results.
type Return struct {
	Results []Expr
}

func (ExprStmt) stmtNode() {}
func (Assign) stmtNode()   {}
func (Define) stmtNode()   {}
func (If) stmtNode()       {}
func (Return) stmtNode()   {}

// Param is a function parameter.
type Param struct {
	Name string
	Type string
}

// FuncDecl is one generated mapping function.
type FuncDecl struct {
	Name   string
	Params []Param
	Result string
	Body   []Stmt
}

// Names returns the parameter names of the function, used to seed a Stem
// so locals never shadow parameters.
func (f FuncDecl) Names() map[string]struct{} {
	names := make(map[string]struct{}, len(f.Params))
	for _, p := range f.Params {
		names[p.Name] = struct{}{}
	}

	return names
}
