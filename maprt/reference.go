package maprt

// ReferenceHandler maps source instances to the targets created for them.
// It is not safe for concurrent use.
type ReferenceHandler struct {
	refs map[refKey]any
}

// refKey keys a target by the source identity and the target type: the same
// source may be mapped into several target types.
type refKey struct {
	source any
	target any // typed nil *T identifying the target type
}

// NewReferenceHandler creates an empty handler.
func NewReferenceHandler() *ReferenceHandler {
	return &ReferenceHandler{refs: make(map[refKey]any)}
}

func keyOf[T any, S comparable](source S) refKey {
	return refKey{source: source, target: (*T)(nil)}
}

// TryGetReference returns the T recorded for source. A nil handler records
// nothing.
func TryGetReference[T any, S comparable](h *ReferenceHandler, source S) (T, bool) {
	var zero T
	if h == nil {
		return zero, false
	}

	v, ok := h.refs[keyOf[T](source)]
	if !ok {
		return zero, false
	}

	target, ok := v.(T)

	return target, ok
}

// SetReference records target as the T created for source.
func SetReference[T any, S comparable](h *ReferenceHandler, source S, target T) {
	if h == nil {
		return
	}

	h.refs[keyOf[T](source)] = target
}

// Len returns the number of recorded references.
func (h *ReferenceHandler) Len() int {
	if h == nil {
		return 0
	}

	return len(h.refs)
}
