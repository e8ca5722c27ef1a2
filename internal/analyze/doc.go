// Package analyze provides the type descriptors consumed by the mapping
// descriptor graph, and a schema provider that builds them from Go packages.
//
// It uses golang.org/x/tools/go/packages with go/types to build a canonical
// in-memory model of types, their members and their nullability.
//
// Key types:
//   - TypeID: package import path + type name
//   - TypeInfo: immutable descriptor (kind, nullability, members); every
//     non-nullable descriptor is created together with its nullable twin
//   - MemberInfo: member name, type, readable and writable flags
//   - FuncInfo / TypeParam: generic factory functions and their constraints
//   - Provider: the schema provider contract (members, nullability,
//     constraint satisfaction, conversion compatibility)
//
// Go types are mapped onto nullability as follows:
//   - *T with T a struct: reference descriptor *T, nullable twin *T?
//   - *T with T anything else: nullable value twin of T
//   - slices, maps, interfaces, funcs, channels: nullable reference twin
//   - struct and basic values: non-nullable
package analyze
