package common

// Set builds a membership set from the given values.
func Set[S ~[]E, E comparable](s S) map[E]struct{} {
	out := make(map[E]struct{}, len(s))
	for _, v := range s {
		out[v] = struct{}{}
	}

	return out
}
