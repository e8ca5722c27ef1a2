// Package maprt is the runtime support imported by generated mappers.
//
// A ReferenceHandler records which target instance was produced for which
// source instance during one top level mapping call. Generated methods look
// the source up before creating a target, so shared sources map to shared
// targets and cyclic object graphs terminate.
//
//	if existing, ok := maprt.TryGetReference[*warehouse.Customer](refHandler, source); ok {
//		return existing
//	}
//	target := &warehouse.Customer{}
//	maprt.SetReference(refHandler, source, target)
//
// A handler is created per top level call, or passed in by the caller, and
// is never shared between goroutines.
package maprt
