// Package syntax defines the abstract expression/statement tree produced by
// the mapping descriptor graph and consumed by a code text emitter.
//
// The tree is a closed set of node types. Constructors in this package are
// pure functions without shared state; the only stateful helper is Stem,
// which hands out unique local names within one function body.
//
// Fprint renders a tree in a Go-like debug notation. It is meant for tests
// and the CLI dump, not for producing compilable source.
package syntax
