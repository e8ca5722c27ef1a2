package mapping

import (
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapper-generator/internal/analyze"
)

// buildTestTypeGraph creates a simple type graph for testing validation.
func buildTestTypeGraph() *analyze.TypeGraph {
	graph := analyze.NewTypeGraph()

	graph.Add(analyze.NewStruct(analyze.TypeID{PkgPath: "mapper-generator/store", Name: "Order"},
		analyze.Member("ID", graph.Basic("int64")),
	))
	graph.Add(analyze.NewStruct(analyze.TypeID{PkgPath: "mapper-generator/warehouse", Name: "Order"},
		analyze.Member("ID", graph.Basic("int64")),
	))

	graph.AddFunc(&analyze.FuncInfo{
		ID:         analyze.TypeID{PkgPath: "mapper-generator/factory", Name: "Create"},
		TypeParams: []*analyze.TypeParam{{Name: "TSource"}, {Name: "TTarget", Index: 1}},
	})

	return graph
}

func validate(t *testing.T, data string) []string {
	t.Helper()

	mf, err := Parse([]byte(data))
	require.NoError(t, err)

	res := Validate(mf, buildTestTypeGraph())

	var codes []string
	for _, d := range res.Errors {
		codes = append(codes, d.Code)
	}

	for _, d := range res.Warnings {
		codes = append(codes, "warn:"+d.Code)
	}

	return codes
}

func TestValidate_ValidMapping(t *testing.T) {
	codes := validate(t, heredoc.Doc(`
		mapper:
		  null_fallback: substitute
		  substitute: "0"
		factories:
		  - func: factory.Create
		mappings:
		  - name: MapOrder
		    source: store.Order
		    target: warehouse.Order
		    fields:
		      - target: ID
		        null_fallback: substitute
	`))

	assert.Empty(t, codes, "substitute text is inherited from the mapper")
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want []string
	}{
		{
			"unknown types",
			heredoc.Doc(`
				mappings:
				  - source: store.Missing
				    target: warehouse.Missing
			`),
			[]string{"source_type_not_found", "target_type_not_found"},
		},
		{
			"names",
			heredoc.Doc(`
				mappings:
				  - {name: Map Order, source: store.Order, target: warehouse.Order}
				  - {name: Dup, source: store.Order, target: warehouse.Order}
				  - {name: Dup, source: store.Order, target: warehouse.Order}
			`),
			[]string{"invalid_name", "duplicate_name"},
		},
		{
			"factories",
			heredoc.Doc(`
				factories:
				  - func: factory.Missing
				  - func: factory.Create
				    source_index: 2
				mappings: []
			`),
			[]string{"factory_not_found", "invalid_source_index"},
		},
		{
			"options",
			heredoc.Doc(`
				mapper:
				  null_fallback: explode
				mappings:
				  - source: store.Order
				    target: warehouse.Order
				    options:
				      null_fallback: substitute
				    fields:
				      - null_fallback: throw
				      - target: ID
				        deep_cloning: true
				      - target: ID
			`),
			[]string{"invalid_null_fallback", "missing_substitute", "missing_target", "warn:ignored_option", "warn:duplicate_field"},
		},
		{
			"mapper wide options",
			heredoc.Doc(`
				mappings:
				  - source: store.Order
				    target: warehouse.Order
				    options:
				      reference_handling: true
			`),
			[]string{"warn:ignored_option"},
		},
		{
			"version",
			"version: \"2\"\nmappings: []\n",
			[]string{"unsupported_version"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validate(t, tt.yaml))
		})
	}
}

func TestValidate_Nil(t *testing.T) {
	res := Validate(nil, buildTestTypeGraph())
	assert.True(t, res.HasErrors())

	res = Validate(&MappingFile{}, nil)
	assert.True(t, res.HasErrors())
}
