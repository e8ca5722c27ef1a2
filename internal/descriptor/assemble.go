package descriptor

import (
	"log/slog"

	"mapper-generator/internal/syntax"
)

// Assemble freezes g and emits one function per method to generate: the
// user contracts without a user supplied body in declaration order, then
// every generated method called by emitted code in first call order.
func Assemble(g *Graph) []syntax.FuncDecl {
	g.Freeze()

	var queue []MethodMapping

	for _, id := range g.Contracts() {
		if m, ok := g.Node(id).(*UserDeclaredMethod); ok && !m.Implemented() {
			queue = append(queue, m)
		}
	}

	emitted := make(map[MethodMapping]struct{}, len(queue))

	var decls []syntax.FuncDecl

	for i := 0; i < len(queue); i++ {
		m := queue[i]
		if _, ok := emitted[m]; ok {
			continue
		}

		emitted[m] = struct{}{}

		decl, calls := assembleMethod(m)
		decls = append(decls, decl)

		for _, callee := range calls {
			if u, ok := callee.(*UserDeclaredMethod); ok && u.Implemented() {
				continue
			}

			if _, ok := emitted[callee]; !ok {
				queue = append(queue, callee)
			}
		}
	}

	g.logger.Debug("mappings assembled", slog.Int("funcs", len(decls)))

	return decls
}

// assembleMethod builds the declaration of m and reports the methods its
// body calls.
func assembleMethod(m MethodMapping) (syntax.FuncDecl, []MethodMapping) {
	params := []syntax.Param{{Name: sourceParam, Type: m.SourceType().String()}}
	ctx := NewBuildContext(syntax.Ident{Name: sourceParam}, reservedNames())

	if m.HasHandlerParam() {
		params = append(params, syntax.Param{Name: handlerParam, Type: handlerType})
		ctx = ctx.WithReferenceHandler(syntax.Ident{Name: handlerParam})
	}

	decl := syntax.FuncDecl{
		Name:   m.Name(),
		Params: params,
		Result: m.TargetType().String(),
		Body:   m.BuildBody(ctx),
	}

	return decl, ctx.Calls()
}
