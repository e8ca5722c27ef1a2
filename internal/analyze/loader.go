package analyze

import (
	"fmt"
	"go/types"
	"reflect"

	"golang.org/x/tools/go/packages"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// memberTag is the struct tag that narrows member access:
// `mapper:"readonly"`, `mapper:"writeonly"` or `mapper:"-"`.
const memberTag = "mapper"

// Analyzer loads Go packages and builds a type graph.
type Analyzer struct {
	// Dir is the working directory used to resolve patterns ("" = process cwd).
	Dir string

	graph     *TypeGraph
	typeCache map[types.Type]*TypeInfo // Cache to handle recursive types
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		graph:     NewTypeGraph(),
		typeCache: make(map[types.Type]*TypeInfo),
	}
}

// LoadPackages loads the specified packages and builds the type graph.
// Patterns are standard Go package patterns (e.g., "./store").
func (a *Analyzer) LoadPackages(patterns ...string) (*TypeGraph, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  a.Dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs)
	}

	// Register every package first so cross-package references are not
	// mistaken for external types.
	for _, pkg := range pkgs {
		a.graph.Packages[pkg.PkgPath] = &PackageInfo{Path: pkg.PkgPath, Name: pkg.Name}
	}

	for _, pkg := range pkgs {
		a.processPackage(pkg)
	}

	return a.graph, nil
}

// Graph returns the current type graph.
func (a *Analyzer) Graph() *TypeGraph {
	return a.graph
}

// processPackage extracts types and factory candidates from a loaded package.
func (a *Analyzer) processPackage(pkg *packages.Package) {
	pkgInfo := a.graph.Packages[pkg.PkgPath]

	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		obj := scope.Lookup(name)
		if !obj.Exported() {
			continue
		}

		switch o := obj.(type) {
		case *types.TypeName:
			info := a.analyzeType(o.Type()).NonNullable()
			if info.Kind == TypeKindPointer {
				continue
			}

			a.graph.Types[info.ID] = info
			pkgInfo.Types = append(pkgInfo.Types, info.ID)

		case *types.Func:
			if fn := a.analyzeFunc(pkg.PkgPath, o); fn != nil {
				a.graph.AddFunc(fn)
				pkgInfo.Funcs = append(pkgInfo.Funcs, fn.ID)
			}
		}
	}
}

// analyzeType returns the descriptor for a use of t (a field or parameter),
// which is the nullable twin for nil-able Go types.
func (a *Analyzer) analyzeType(t types.Type) *TypeInfo {
	t = types.Unalias(t)

	switch tt := t.(type) {
	case *types.Basic:
		return a.graph.Basic(tt.Name())

	case *types.Pointer:
		elem := a.analyzeType(tt.Elem()).NonNullable()
		if elem.Kind == TypeKindStruct {
			return a.graph.PointerTo(elem).Nullable()
		}

		return elem.Nullable()
	}

	if cached, ok := a.typeCache[t]; ok {
		return useSite(cached)
	}

	info := a.newDescriptor(t)

	// Pre-cache to handle recursive types (members are filled afterwards)
	a.typeCache[t] = info
	a.fill(t, info)

	return useSite(info)
}

// useSite returns the view of info seen by fields of that type.
func useSite(info *TypeInfo) *TypeInfo {
	if info.Nullable().Nullability == NullableReference {
		return info.Nullable()
	}

	return info
}

func (a *Analyzer) newDescriptor(t types.Type) *TypeInfo {
	var info *TypeInfo

	switch tt := t.(type) {
	case *types.Named:
		obj := tt.Obj()
		id := TypeID{Name: obj.Name()}

		if obj.Pkg() != nil {
			id.PkgPath = obj.Pkg().Path()
		}

		switch tt.Underlying().(type) {
		case *types.Struct:
			if a.isExternalPackage(id.PkgPath) {
				info = NewValueType(id, TypeKindExternal)
			} else {
				info = NewValueType(id, TypeKindStruct)
			}
		case *types.Basic:
			info = NewValueType(id, TypeKindAlias)
		case *types.Array:
			info = NewValueType(id, TypeKindArray)
		case *types.Slice:
			info = NewReferenceType(id, TypeKindSlice)
		case *types.Map:
			info = NewReferenceType(id, TypeKindMap)
		case *types.Interface:
			info = NewReferenceType(id, TypeKindInterface)
		default:
			info = NewReferenceType(id, TypeKindUnknown)
		}

	case *types.Struct:
		info = NewValueType(TypeID{Name: "struct{...}"}, TypeKindStruct)
	case *types.Array:
		info = NewValueType(TypeID{Name: typeName(t)}, TypeKindArray)
	case *types.Slice:
		info = NewReferenceType(TypeID{Name: typeName(t)}, TypeKindSlice)
	case *types.Map:
		info = NewReferenceType(TypeID{Name: typeName(t)}, TypeKindMap)
	case *types.Interface:
		info = NewReferenceType(TypeID{Name: typeName(t)}, TypeKindInterface)
	default:
		// Channels, funcs and type parameters are opaque references.
		info = NewReferenceType(TypeID{Name: typeName(t)}, TypeKindUnknown)
	}

	if info.Nullable().Nullability == NullableReference {
		info.setGoType(t, t)
	} else {
		info.setGoType(t, types.NewPointer(t))
	}

	return info
}

// fill analyzes members and element types of a freshly cached descriptor.
func (a *Analyzer) fill(t types.Type, info *TypeInfo) {
	switch ut := t.Underlying().(type) {
	case *types.Struct:
		if info.Kind == TypeKindStruct {
			a.analyzeStructFields(ut, info)
		}
	case *types.Basic:
		info.setElem(a.graph.Basic(ut.Name()))
	case *types.Slice:
		info.setElem(a.analyzeType(ut.Elem()))
	case *types.Array:
		info.setElem(a.analyzeType(ut.Elem()))
	case *types.Map:
		info.setElem(a.analyzeType(ut.Elem()))
	}
}

// isExternalPackage returns true if the package is not in our analyzed set.
func (a *Analyzer) isExternalPackage(pkgPath string) bool {
	_, ok := a.graph.Packages[pkgPath]
	return !ok
}

// analyzeStructFields extracts exported fields as members.
func (a *Analyzer) analyzeStructFields(st *types.Struct, info *TypeInfo) {
	for i := range st.NumFields() {
		field := st.Field(i)
		if !field.Exported() {
			continue
		}

		member := MemberInfo{
			Name:     field.Name(),
			Type:     a.analyzeType(field.Type()),
			Readable: true,
			Writable: true,
		}

		switch reflect.StructTag(st.Tag(i)).Get(memberTag) {
		case "-":
			continue
		case "readonly":
			member.Writable = false
		case "writeonly":
			member.Readable = false
		}

		info.AddMember(member)
	}
}

// analyzeFunc returns a factory candidate for generic functions shaped
// func[A, B any](x X) Y, or nil.
func (a *Analyzer) analyzeFunc(pkgPath string, fn *types.Func) *FuncInfo {
	sig, ok := fn.Type().(*types.Signature)
	if !ok || sig.TypeParams().Len() != 2 || sig.Params().Len() != 1 || sig.Results().Len() != 1 {
		return nil
	}

	info := &FuncInfo{
		ID:                TypeID{PkgPath: pkgPath, Name: fn.Name()},
		ParamNullability:  declaredNullability(sig.Params().At(0).Type()),
		ResultNullability: declaredNullability(sig.Results().At(0).Type()),
	}

	for i := range sig.TypeParams().Len() {
		tp := sig.TypeParams().At(i)
		iface, _ := tp.Constraint().Underlying().(*types.Interface)

		info.TypeParams = append(info.TypeParams, &TypeParam{
			Name:       tp.Obj().Name(),
			Index:      i,
			NotNull:    isNotNullConstraint(iface),
			Constraint: iface,
		})
	}

	return info
}

// declaredNullability classifies the declared type of a parameter or result.
func declaredNullability(t types.Type) Nullability {
	switch tt := types.Unalias(t).(type) {
	case *types.Pointer:
		if _, ok := tt.Elem().Underlying().(*types.Basic); ok {
			return NullableValue
		}

		return NullableReference
	case *types.Slice, *types.Map, *types.Interface, *types.Signature, *types.Chan:
		return NullableReference
	default:
		return NonNullable
	}
}

// isNotNullConstraint reports whether the constraint restricts its type set
// to union terms none of which is nil-able. Method sets and comparable
// admit pointers.
func isNotNullConstraint(iface *types.Interface) bool {
	restricted, nullable := unionTerms(iface)
	return restricted && !nullable
}

// unionTerms reports whether iface embeds a union, directly or through an
// embedded constraint, and whether any term admits nil.
func unionTerms(iface *types.Interface) (restricted, nullable bool) {
	if iface == nil || iface.IsMethodSet() {
		return false, false
	}

	for i := range iface.NumEmbeddeds() {
		switch e := iface.EmbeddedType(i).Underlying().(type) {
		case *types.Union:
			restricted = true

			for j := range e.Len() {
				if declaredNullability(e.Term(j).Type().Underlying()) != NonNullable {
					nullable = true
				}
			}
		case *types.Interface:
			r, n := unionTerms(e)
			restricted = restricted || r
			nullable = nullable || n
		}
	}

	return restricted, nullable
}

func typeName(t types.Type) string {
	return types.TypeString(t, func(p *types.Package) string {
		return p.Name()
	})
}
