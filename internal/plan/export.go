package plan

import (
	"slices"

	"mapper-generator/internal/analyze"
	"mapper-generator/internal/common"
	"mapper-generator/internal/descriptor"
	"mapper-generator/internal/mapping"
	"mapper-generator/internal/match"
)

// ExportSuggestions generates a suggested YAML mapping file from a plan.
// Every contract is named and fully qualified, and writable target members
// that no rule assigns are listed under ignore so the user can review them.
func ExportSuggestions(plan *Plan, mf *mapping.MappingFile) *mapping.MappingFile {
	out := &mapping.MappingFile{
		Version:   "1",
		Mapper:    mf.Mapper,
		Factories: mf.Factories,
	}

	for _, c := range plan.Contracts {
		tm := *c.Mapping

		m := plan.Method(c)
		if m == nil {
			continue
		}

		tm.Name = m.Name()
		tm.Source = m.SourceType().Key()
		tm.Target = m.TargetType().Key()
		tm.Ignore = append(slices.Clone(tm.Ignore), unassignedMembers(plan.Graph, m)...)

		out.TypeMappings = append(out.TypeMappings, tm)
	}

	return out
}

// ExportSuggestionsYAML generates suggested YAML as a byte slice.
func ExportSuggestionsYAML(plan *Plan, mf *mapping.MappingFile) ([]byte, error) {
	return mapping.Marshal(ExportSuggestions(plan, mf))
}

// unassignedMembers lists the writable target members of the contract's
// composite delegate that are neither assigned nor already ignored.
func unassignedMembers(g *descriptor.Graph, m *descriptor.UserDeclaredMethod) []string {
	composite := compositeOf(g, m.Delegate())
	if composite == nil {
		return nil
	}

	members := composite.TargetType().Members()
	assigned := common.Set(composite.MemberNames())
	ignored := resolvedNames(members, m.Contract().Directives.Ignore)

	var out []string

	for _, member := range members {
		_, isAssigned := assigned[member.Name]
		_, isIgnored := ignored[member.Name]

		if !member.Writable || isAssigned || isIgnored {
			continue
		}

		out = append(out, member.Name)
	}

	return out
}

// resolvedNames maps directive spellings to the member names they match.
func resolvedNames(members []analyze.MemberInfo, directives []string) map[string]struct{} {
	names := make([]string, 0, len(members))
	for _, member := range members {
		names = append(names, member.Name)
	}

	lookup := match.NewNames(names...)
	out := make(map[string]struct{}, len(directives))

	for _, d := range directives {
		if name, ok := lookup.Find(d); ok {
			out[name] = struct{}{}
		}
	}

	return out
}

// compositeOf follows null delegates down to a composite method.
func compositeOf(g *descriptor.Graph, id descriptor.NodeID) *descriptor.CompositeMethod {
	switch n := g.Node(id).(type) {
	case *descriptor.CompositeMethod:
		return n
	case *descriptor.NullDelegate:
		return compositeOf(g, n.Inner())
	default:
		return nil
	}
}
