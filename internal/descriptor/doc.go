// Package descriptor implements the mapping descriptor graph: the memoized
// registry of mapping nodes between type pairs, the null delegate decorator,
// the generic object factory resolver and the method mapping assembler.
//
// Nodes live in an arena owned by Graph and refer to each other by NodeID,
// so cyclic type graphs never produce cyclic ownership. Resolution happens
// in two phases: Declare registers user contracts, ResolveContracts binds
// each contract to a delegate built by the strategy pass. A node is
// published before its own edges are resolved, which lets recursion over
// cyclic type graphs terminate.
//
// After Freeze the graph is read only and Assemble turns every method
// shaped node that is reachable from a contract into a syntax.FuncDecl.
package descriptor
