package mapping

import (
	"fmt"
	"go/token"

	"mapper-generator/internal/analyze"
	"mapper-generator/internal/diagnostic"
)

const mapperWideMsg = "reference_handling and deep_cloning are mapper wide options"

// Validate validates a mapping definition against the given type graph.
// This is a structural validation step only: type references, names and
// option values. Member directives are checked by the mapping graph, which
// reports absent members and drops the directive.
func Validate(mf *MappingFile, graph *analyze.TypeGraph) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if mf == nil {
		res.AddError("mapping_is_nil", "mapping file is nil", "", "")
		return res
	}

	if graph == nil {
		res.AddError("graph_is_nil", "type graph is nil", "", "")
		return res
	}

	if mf.Version != "1" {
		res.AddError("unsupported_version", fmt.Sprintf("unsupported mapping version %q", mf.Version), "", "")
	}

	validateOptions(res, "", "", mf.Mapper, Options{})

	for i, f := range mf.Factories {
		where := fmt.Sprintf("factories[%d]", i)

		fn := ResolveFactory(f.Func, graph)
		if fn == nil {
			res.AddError("factory_not_found", fmt.Sprintf("factory %q not found", f.Func), "", where)
			continue
		}

		if len(fn.TypeParams) != 2 {
			res.AddError("factory_arity", fmt.Sprintf("factory %q must declare two type parameters", f.Func), "", where)
		}

		if f.SourceIndex != 0 && f.SourceIndex != 1 {
			res.AddError("invalid_source_index",
				fmt.Sprintf("source_index must be 0 or 1, got %d", f.SourceIndex), "", where)
		}
	}

	names := map[string]struct{}{}

	for i := range mf.TypeMappings {
		tm := &mf.TypeMappings[i]
		tpStr := fmt.Sprintf("%s->%s", tm.Source, tm.Target)

		if tm.Name != "" {
			if !token.IsIdentifier(tm.Name) {
				res.AddError("invalid_name", fmt.Sprintf("mapping name %q is not an identifier", tm.Name), tpStr, "")
			}

			if _, ok := names[tm.Name]; ok {
				res.AddError("duplicate_name", fmt.Sprintf("duplicate mapping name %q", tm.Name), tpStr, "")
			}

			names[tm.Name] = struct{}{}
		}

		if ResolveTypeID(tm.Source, graph) == nil {
			res.AddError("source_type_not_found", fmt.Sprintf("source type %q not found", tm.Source), tpStr, "")
		}

		if ResolveTypeID(tm.Target, graph) == nil {
			res.AddError("target_type_not_found", fmt.Sprintf("target type %q not found", tm.Target), tpStr, "")
		}

		validateOptions(res, tpStr, "", tm.Options, mf.Mapper)

		if tm.Options.ReferenceHandling != nil || tm.Options.DeepCloning != nil {
			res.AddWarning("ignored_option", mapperWideMsg, tpStr, "")
		}

		seen := map[string]struct{}{}

		for _, f := range tm.Fields {
			if f.Target == "" {
				res.AddError("missing_target", "field options must name a target member", tpStr, "")
				continue
			}

			if _, ok := seen[f.Target]; ok {
				res.AddWarning("duplicate_field", "field options repeated, the first entry wins", tpStr, f.Target)
			}

			seen[f.Target] = struct{}{}

			validateOptions(res, tpStr, f.Target, f.Options, tm.Options, mf.Mapper)

			if f.ReferenceHandling != nil || f.DeepCloning != nil {
				res.AddWarning("ignored_option", mapperWideMsg, tpStr, f.Target)
			}
		}
	}

	return res
}

// validateOptions checks one layer and the effective options it produces
// on top of the less specific layers.
func validateOptions(res *diagnostic.Diagnostics, typePair, member string, o Options, less ...Options) {
	if !o.NullFallback.IsValid() {
		res.AddError("invalid_null_fallback",
			fmt.Sprintf("null_fallback must be default, throw or substitute, got %q", string(o.NullFallback)),
			typePair, member)

		return
	}

	effective, err := o.Layer(less...)
	if err != nil {
		res.AddError("invalid_options", err.Error(), typePair, member)
		return
	}

	if o.NullFallback == FallbackSubstitute && (effective.Substitute == nil || *effective.Substitute == "") {
		res.AddError("missing_substitute", "null_fallback substitute requires a substitute expression", typePair, member)
	}
}
