package match

import (
	"cmp"
	"slices"
)

// SuggestThreshold is the minimum Similarity for a name to be suggested.
const SuggestThreshold = 0.5

// Names is an ordered set of member names with normalized lookup.
type Names struct {
	names      []string
	exact      map[string]struct{}
	normalized map[string]string // first declared name per normalized key
}

// NewNames indexes names in declaration order.
func NewNames(names ...string) *Names {
	n := &Names{
		names:      names,
		exact:      make(map[string]struct{}, len(names)),
		normalized: make(map[string]string, len(names)),
	}

	for _, name := range names {
		n.exact[name] = struct{}{}

		key := NormalizeIdent(name)
		if _, ok := n.normalized[key]; !ok {
			n.normalized[key] = name
		}
	}

	return n
}

// Has reports whether name is present verbatim.
func (n *Names) Has(name string) bool {
	_, ok := n.exact[name]
	return ok
}

// Find returns the declared name matching name exactly, or failing that the
// first declared name with the same normalized form.
func (n *Names) Find(name string) (string, bool) {
	if n.Has(name) {
		return name, true
	}

	found, ok := n.normalized[NormalizeIdent(name)]

	return found, ok
}

// Suggest returns up to limit declared names similar to name, best first.
func (n *Names) Suggest(name string, limit int) []string {
	return Suggest(name, n.names, limit)
}

// Suggest ranks candidates by Similarity to name and returns up to limit of
// those above SuggestThreshold. Ties keep candidate order.
func Suggest(name string, candidates []string, limit int) []string {
	type scored struct {
		name  string
		score float64
	}

	var ranked []scored

	for _, c := range candidates {
		if c == name {
			continue
		}

		if s := Similarity(name, c); s >= SuggestThreshold {
			ranked = append(ranked, scored{name: c, score: s})
		}
	}

	slices.SortStableFunc(ranked, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]string, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.name)
	}

	return out
}
