package analyze

import (
	"go/types"
	"strings"
	"sync"
)

// TypeGraph holds all analyzed types from loaded packages.
// It is the in-memory Provider implementation.
type TypeGraph struct {
	// Types maps TypeID to the non-nullable descriptor of every named type.
	Types map[TypeID]*TypeInfo
	// Funcs maps TypeID to generic factory candidates.
	Funcs map[TypeID]*FuncInfo
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo

	mu       sync.Mutex
	basics   map[string]*TypeInfo
	pointers map[TypeID]*TypeInfo
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path  string   // Import path
	Name  string   // Package name
	Types []TypeID // Named types defined in this package
	Funcs []TypeID // Factory candidates defined in this package
}

// NewTypeGraph creates a new empty TypeGraph.
func NewTypeGraph() *TypeGraph {
	return &TypeGraph{
		Types:    make(map[TypeID]*TypeInfo),
		Funcs:    make(map[TypeID]*FuncInfo),
		Packages: make(map[string]*PackageInfo),
		basics:   make(map[string]*TypeInfo),
		pointers: make(map[TypeID]*TypeInfo),
	}
}

// Add registers a named descriptor.
func (g *TypeGraph) Add(t *TypeInfo) *TypeInfo {
	t = t.NonNullable()
	g.Types[t.ID] = t

	return t
}

// AddFunc registers a factory candidate.
func (g *TypeGraph) AddFunc(f *FuncInfo) *FuncInfo {
	g.Funcs[f.ID] = f

	return f
}

// GetType returns the TypeInfo for a given TypeID, or nil if not found.
func (g *TypeGraph) GetType(id TypeID) *TypeInfo {
	return g.Types[id]
}

// Basic returns the canonical descriptor of a basic type.
func (g *TypeGraph) Basic(name string) *TypeInfo {
	g.mu.Lock()
	defer g.mu.Unlock()

	if t, ok := g.basics[name]; ok {
		return t
	}

	t := NewBasic(name)
	if b := universeBasic(name); b != nil {
		t.setGoType(b, types.NewPointer(b))
	}

	g.basics[name] = t

	return t
}

func universeBasic(name string) types.Type {
	obj, ok := types.Universe.Lookup(name).(*types.TypeName)
	if !ok {
		return nil
	}

	if _, ok := obj.Type().(*types.Basic); !ok {
		return nil
	}

	return obj.Type()
}

// PointerTo returns the canonical *elem reference descriptor.
func (g *TypeGraph) PointerTo(elem *TypeInfo) *TypeInfo {
	elem = elem.NonNullable()

	g.mu.Lock()
	defer g.mu.Unlock()

	if t, ok := g.pointers[elem.ID]; ok {
		return t
	}

	t := NewPointer(elem)
	if elem.GoType != nil {
		ptr := types.NewPointer(elem.GoType)
		t.setGoType(ptr, ptr)
	}

	g.pointers[elem.ID] = t

	return t
}

// ResolveType resolves a type reference string like:
//   - "store.Order" (short)
//   - "mapper-generator/store.Order" (full)
//   - "Order" (name only) or "int" (basic)
//   - "*store.Order" (pointer to struct)
//   - any of the above with a trailing "?" (nullable twin)
func (g *TypeGraph) ResolveType(ref string) *TypeInfo {
	ref = strings.TrimSpace(ref)

	nullable := strings.HasSuffix(ref, "?")
	ref = strings.TrimSuffix(ref, "?")

	pointer := strings.HasPrefix(ref, "*")
	ref = strings.TrimPrefix(ref, "*")

	t := g.resolveNamed(ref)
	if t == nil {
		return nil
	}

	if pointer {
		if t.Kind != TypeKindStruct {
			// pointers to non-structs are nullable values
			return t.Nullable()
		}

		t = g.PointerTo(t)
	}

	if nullable {
		return t.Nullable()
	}

	return t
}

// ResolveFunc resolves a function reference in the same forms as ResolveType.
func (g *TypeGraph) ResolveFunc(ref string) *FuncInfo {
	pkg, name := splitRef(ref)
	if name == "" {
		return nil
	}

	for id, f := range g.Funcs {
		if id.Name == name && matchesPkg(id.PkgPath, pkg) {
			return f
		}
	}

	return nil
}

func (g *TypeGraph) resolveNamed(ref string) *TypeInfo {
	pkg, name := splitRef(ref)
	if name == "" {
		return nil
	}

	if pkg == "" {
		for id, t := range g.Types {
			if id.Name == name {
				return t
			}
		}

		if universeBasic(name) == nil {
			return nil
		}

		return g.Basic(name)
	}

	// exact match (for fully qualified import path)
	if t := g.GetType(TypeID{PkgPath: pkg, Name: name}); t != nil {
		return t
	}

	// suffix match (for short forms like "store.Order")
	for id, t := range g.Types {
		if id.Name == name && matchesPkg(id.PkgPath, pkg) {
			return t
		}
	}

	return nil
}

func splitRef(ref string) (pkg, name string) {
	lastDot := strings.LastIndex(ref, ".")
	if lastDot < 0 {
		return "", ref
	}

	return ref[:lastDot], ref[lastDot+1:]
}

func matchesPkg(pkgPath, want string) bool {
	return want == "" || pkgPath == want || strings.HasSuffix(pkgPath, "/"+want)
}
