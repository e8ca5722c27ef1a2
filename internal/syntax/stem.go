package syntax

import "strconv"

// NewStem creates a new Stem instance with the provided stem and namespace.
// The nil namespace is treated as a free namespace, meaning all names are available.
// The namespace map is shared, so several stems can allocate from it.
func NewStem(stem string, namespace map[string]struct{}) *Stem {
	return &Stem{
		taken: namespace,
		stem:  stem,
	}
}

// Stem hands out names stem1, stem2, ... skipping taken ones.
type Stem struct {
	taken map[string]struct{}
	stem  string
	last  int
}

// Next returns the next free name and marks it taken.
func (s *Stem) Next() string {
	if s.taken == nil {
		s.taken = make(map[string]struct{})
	}

	for {
		s.last++
		name := s.stem + strconv.Itoa(s.last)

		if _, ok := s.taken[name]; !ok {
			s.taken[name] = struct{}{}
			return name
		}
	}
}

// Reserve marks name as taken and reports whether it was free.
func (s *Stem) Reserve(name string) bool {
	if s.taken == nil {
		s.taken = make(map[string]struct{})
	}

	if _, ok := s.taken[name]; ok {
		return false
	}

	s.taken[name] = struct{}{}

	return true
}
