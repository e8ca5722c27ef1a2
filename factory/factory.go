// Package factory provides generic constructors picked up as object
// factories by the planner.
package factory

// Create builds a target from a source value. The source slot is index 0.
func Create[TSource, TTarget any](source TSource) TTarget {
	var target TTarget
	_ = source

	return target
}

// Allocate builds a target pointer from a source pointer. The target slot is
// index 0.
func Allocate[TTarget, TSource any](source *TSource) *TTarget {
	if source == nil {
		return nil
	}

	return new(TTarget)
}

// Number converts between numeric kinds.
func Number[TSource ~int | ~int32 | ~int64, TTarget ~int | ~int32 | ~int64](source TSource) TTarget {
	return TTarget(source)
}
