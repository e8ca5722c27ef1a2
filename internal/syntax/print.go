package syntax

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Fprint writes the debug notation of node (an Expr, a Stmt, a []Stmt or a
// FuncDecl) to w.
func Fprint(w io.Writer, node any) error {
	p := &printer{}

	switch n := node.(type) {
	case Expr:
		p.expr(n)
	case Stmt:
		p.stmt(n)
	case []Stmt:
		p.block(n)
	case FuncDecl:
		p.decl(n)
	case *FuncDecl:
		p.decl(*n)
	default:
		return fmt.Errorf("unsupported node %T", node)
	}

	_, err := io.WriteString(w, p.String())

	return err
}

// Sprint returns the debug notation of node, or an empty string if the node
// is not printable.
func Sprint(node any) string {
	var sb strings.Builder
	if err := Fprint(&sb, node); err != nil {
		return ""
	}

	return sb.String()
}

type printer struct {
	strings.Builder
	indent int
}

func (p *printer) line(format string, args ...any) {
	p.WriteString(strings.Repeat("\t", p.indent))
	fmt.Fprintf(p, format, args...)
	p.WriteByte('\n')
}

func (p *printer) decl(f FuncDecl) {
	params := make([]string, 0, len(f.Params))
	for _, param := range f.Params {
		params = append(params, param.Name+" "+param.Type)
	}

	p.line("func %s(%s) %s {", f.Name, strings.Join(params, ", "), f.Result)
	p.indent++
	p.block(f.Body)
	p.indent--
	p.line("}")
}

func (p *printer) block(stmts []Stmt) {
	for _, s := range stmts {
		p.stmt(s)
	}
}

func (p *printer) stmt(s Stmt) {
	switch s := s.(type) {
	case ExprStmt:
		p.line("%s", exprString(s.X))
	case Assign:
		p.line("%s = %s", exprString(s.Lhs), exprString(s.Rhs))
	case Define:
		p.line("%s := %s", strings.Join(s.Names, ", "), exprString(s.Value))
	case Return:
		results := make([]string, 0, len(s.Results))
		for _, r := range s.Results {
			results = append(results, exprString(r))
		}

		if len(results) == 0 {
			p.line("return")
		} else {
			p.line("return %s", strings.Join(results, ", "))
		}
	case If:
		head := exprString(s.Cond)
		if s.Init != nil {
			head = strings.TrimSpace(Sprint(s.Init)) + "; " + head
		}

		p.line("if %s {", head)
		p.indent++
		p.block(s.Then)
		p.indent--

		if len(s.Else) > 0 {
			p.line("} else {")
			p.indent++
			p.block(s.Else)
			p.indent--
		}

		p.line("}")
	default:
		p.line("<unknown %T>", s)
	}
}

func (p *printer) expr(e Expr) {
	p.WriteString(exprString(e))
}

func exprString(e Expr) string {
	switch e := e.(type) {
	case Ident:
		return e.Name
	case Member:
		return exprString(e.X) + "." + e.Name
	case Index:
		return exprString(e.X) + "[" + exprString(e.Index) + "]"
	case Call:
		args := make([]string, 0, len(e.Args))
		for _, a := range e.Args {
			args = append(args, exprString(a))
		}

		fn := e.Func
		if len(e.TypeArgs) > 0 {
			fn += "[" + strings.Join(e.TypeArgs, ", ") + "]"
		}

		return fn + "(" + strings.Join(args, ", ") + ")"
	case Conditional:
		return "(" + exprString(e.Cond) + " ? " + exprString(e.Then) + " : " + exprString(e.Else) + ")"
	case IsNull:
		return exprString(e.X) + " == nil"
	case NotNull:
		return exprString(e.X) + " != nil"
	case Unwrap:
		return "*" + exprString(e.X)
	case Cast:
		return e.Type + "(" + exprString(e.X) + ")"
	case Default:
		return "zero[" + e.Type + "]"
	case Throw:
		return "panic(maprt." + e.Kind.String() + "(" + strconv.Quote(e.Subject) + "))"
	case New:
		if e.Pointer {
			return "&" + e.Type + "{}"
		}

		return e.Type + "{}"
	case Let:
		return "(" + e.Name + " := " + exprString(e.Value) + "; " + exprString(e.Body) + ")"
	case Raw:
		return e.Text
	case SuppressNull:
		return exprString(e.X) + "!"
	case nil:
		return "<nil>"
	default:
		return fmt.Sprintf("<unknown %T>", e)
	}
}
