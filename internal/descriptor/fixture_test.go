package descriptor

import (
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"

	"mapper-generator/internal/analyze"
	"mapper-generator/internal/diagnostic"
	"mapper-generator/internal/syntax"
)

const (
	pkgA       = "example.com/a"
	pkgB       = "example.com/b"
	pkgFactory = "example.com/factory"
)

// fixture is a hand-built type graph:
//
//	a.Src{Value int?, Count string, FullName string}   b.Tgt{Value int, Count int, Name string}
//	a.Node{Name string, Next *a.Node?}                  b.Node{Name string, Next *b.Node?}
//	a.Outer{Inner a.Src}                                b.Outer{Inner b.Tgt}
type fixture struct {
	tg *analyze.TypeGraph

	intT    *analyze.TypeInfo
	stringT *analyze.TypeInfo

	src, tgt     *analyze.TypeInfo
	nodeA, nodeB *analyze.TypeInfo
	outerA       *analyze.TypeInfo
	outerB       *analyze.TypeInfo
}

func newFixture() *fixture {
	tg := analyze.NewTypeGraph()
	f := &fixture{tg: tg, intT: tg.Basic("int"), stringT: tg.Basic("string")}

	f.src = tg.Add(analyze.NewStruct(analyze.TypeID{PkgPath: pkgA, Name: "Src"},
		analyze.Member("Value", f.intT.Nullable()),
		analyze.Member("Count", f.stringT),
		analyze.Member("FullName", f.stringT),
	))
	f.tgt = tg.Add(analyze.NewStruct(analyze.TypeID{PkgPath: pkgB, Name: "Tgt"},
		analyze.Member("Value", f.intT),
		analyze.Member("Count", f.intT),
		analyze.Member("Name", f.stringT),
	))

	f.nodeA = f.node(pkgA)
	f.nodeB = f.node(pkgB)

	f.outerA = tg.Add(analyze.NewStruct(analyze.TypeID{PkgPath: pkgA, Name: "Outer"}, analyze.Member("Inner", f.src)))
	f.outerB = tg.Add(analyze.NewStruct(analyze.TypeID{PkgPath: pkgB, Name: "Outer"}, analyze.Member("Inner", f.tgt)))

	return f
}

// node creates a self referencing struct.
func (f *fixture) node(pkg string) *analyze.TypeInfo {
	n := f.tg.Add(analyze.NewStruct(analyze.TypeID{PkgPath: pkg, Name: "Node"}, analyze.Member("Name", f.stringT)))
	n.AddMember(analyze.Member("Next", f.tg.PointerTo(n).Nullable()))

	return n
}

// createFunc is factory.Create[TSource, TTarget any](source TSource) TTarget.
func createFunc() *analyze.FuncInfo {
	return &analyze.FuncInfo{
		ID: analyze.TypeID{PkgPath: pkgFactory, Name: "Create"},
		TypeParams: []*analyze.TypeParam{
			{Name: "TSource", Index: 0},
			{Name: "TTarget", Index: 1},
		},
	}
}

func newTestGraph(t *testing.T, f *fixture, cfg Config) (*Graph, *diagnostic.Collector) {
	t.Helper()

	collector := diagnostic.NewCollector(nil)

	return NewGraph(f.tg, cfg, collector), collector
}

func declare(t *testing.T, g *Graph, c Contract) NodeID {
	t.Helper()

	id, err := g.Declare(c)
	require.NoError(t, err)

	return id
}

// assemble resolves the contracts of g and prints every generated function.
func assemble(t *testing.T, g *Graph) string {
	t.Helper()

	require.NoError(t, g.ResolveContracts(t.Context()))

	decls := Assemble(g)

	var sb strings.Builder
	for _, d := range decls {
		sb.WriteString(syntax.Sprint(d))
	}

	require.NotEmpty(t, sb.String(), spew.Sdump(decls))

	return sb.String()
}
