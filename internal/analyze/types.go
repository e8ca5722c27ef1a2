package analyze

import (
	"go/types"
	"strings"

	"mapper-generator/internal/common"
)

// TypeID uniquely identifies a type by its package path and name.
// Pointer descriptors carry a leading "*" in Name.
type TypeID struct {
	PkgPath string // e.g., "mapper-generator/store"
	Name    string // e.g., "Order" or "*Order"
}

// String returns the fully qualified representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	if name, ok := strings.CutPrefix(t.Name, "*"); ok {
		return "*" + t.PkgPath + "." + name
	}

	return t.PkgPath + "." + t.Name
}

// Short returns the representation using the package alias instead of the path.
func (t TypeID) Short() string {
	if t.PkgPath == "" {
		return t.Name
	}

	alias := common.PkgAlias(t.PkgPath)
	if name, ok := strings.CutPrefix(t.Name, "*"); ok {
		return "*" + alias + "." + name
	}

	return alias + "." + t.Name
}

// TypeKind represents the kind of a type.
type TypeKind int

const (
	TypeKindUnknown   TypeKind = iota
	TypeKindBasic              // int, string, bool, etc.
	TypeKindStruct             // struct type
	TypeKindPointer            // pointer to a struct
	TypeKindSlice              // slice of another type
	TypeKindArray              // array of another type
	TypeKindMap                // map type
	TypeKindInterface          // interface type
	TypeKindAlias              // named type wrapping a basic type
	TypeKindExternal           // external/opaque type (e.g., time.Time)
)

// String returns a human-readable representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case TypeKindBasic:
		return "basic"
	case TypeKindStruct:
		return "struct"
	case TypeKindPointer:
		return "pointer"
	case TypeKindSlice:
		return "slice"
	case TypeKindArray:
		return "array"
	case TypeKindMap:
		return "map"
	case TypeKindInterface:
		return "interface"
	case TypeKindAlias:
		return "alias"
	case TypeKindExternal:
		return "external"
	default:
		return common.UnknownStr
	}
}

// Nullability describes whether a descriptor admits a null (nil) value.
type Nullability int

const (
	NonNullable Nullability = iota
	NullableReference
	NullableValue
)

// String returns a human-readable nullability name.
func (n Nullability) String() string {
	switch n {
	case NonNullable:
		return "non_nullable"
	case NullableReference:
		return "nullable_reference"
	case NullableValue:
		return "nullable_value"
	default:
		return common.UnknownStr
	}
}

// MemberInfo describes a member of an object-shaped type.
type MemberInfo struct {
	Name     string    // Member name
	Type     *TypeInfo // Declared member type (nullable twin when optional)
	Readable bool      // Member can be read from a source instance
	Writable bool      // Member can be assigned on a target instance
	Index    int       // Declaration index in the owning type
}

// TypeInfo is an immutable type descriptor.
//
// Descriptors are created in twins: the non-nullable form and its nullable
// form share identity, kind and members and differ in Nullability only.
// For nullable value types the non-nullable form is the underlying value.
type TypeInfo struct {
	ID          TypeID      // Type identity (shared by both twins)
	Kind        TypeKind    // Kind of type
	Nullability Nullability // Nullability of this view
	Elem        *TypeInfo   // Element type for pointers, slices, arrays and maps
	GoType      types.Type  // The original go/types.Type of this view, if known

	twins *twins
}

type twins struct {
	nonNull  *TypeInfo
	nullable *TypeInfo
	members  []MemberInfo
}

// NewValueType creates a non-nullable value descriptor whose nullable twin is
// a nullable value type (unwrapping extracts the underlying value).
func NewValueType(id TypeID, kind TypeKind) *TypeInfo {
	return newTwins(id, kind, NullableValue)
}

// NewReferenceType creates a non-nullable reference descriptor whose nullable
// twin is a nullable reference (unwrapping passes the reference through).
func NewReferenceType(id TypeID, kind TypeKind) *TypeInfo {
	return newTwins(id, kind, NullableReference)
}

// NewBasic creates a basic value type such as int or string.
func NewBasic(name string) *TypeInfo {
	return NewValueType(TypeID{Name: name}, TypeKindBasic)
}

// NewStruct creates a struct value type with the given members.
func NewStruct(id TypeID, members ...MemberInfo) *TypeInfo {
	t := NewValueType(id, TypeKindStruct)
	for _, m := range members {
		t.AddMember(m)
	}

	return t
}

// NewPointer creates the reference descriptor *elem for a struct elem.
// Its members are the members of elem.
func NewPointer(elem *TypeInfo) *TypeInfo {
	elem = elem.NonNullable()
	t := NewReferenceType(TypeID{PkgPath: elem.ID.PkgPath, Name: "*" + elem.ID.Name}, TypeKindPointer)
	t.setElem(elem)

	return t
}

func newTwins(id TypeID, kind TypeKind, nullable Nullability) *TypeInfo {
	tw := &twins{}
	tw.nonNull = &TypeInfo{ID: id, Kind: kind, Nullability: NonNullable, twins: tw}
	tw.nullable = &TypeInfo{ID: id, Kind: kind, Nullability: nullable, twins: tw}

	return tw.nonNull
}

func (t *TypeInfo) setElem(elem *TypeInfo) {
	t.twins.nonNull.Elem = elem
	t.twins.nullable.Elem = elem
}

func (t *TypeInfo) setGoType(nonNull, nullable types.Type) {
	t.twins.nonNull.GoType = nonNull
	t.twins.nullable.GoType = nullable
}

// AddMember appends a member to the shape shared by both twins.
// It must only be called while the descriptor is being constructed.
func (t *TypeInfo) AddMember(m MemberInfo) {
	m.Index = len(t.twins.members)
	t.twins.members = append(t.twins.members, m)
}

// Member is a convenience constructor for a readable and writable member.
func Member(name string, typ *TypeInfo) MemberInfo {
	return MemberInfo{Name: name, Type: typ, Readable: true, Writable: true}
}

// Members returns the ordered member list. Pointer descriptors expose the
// members of the pointed-to struct.
func (t *TypeInfo) Members() []MemberInfo {
	if t == nil {
		return nil
	}

	if t.Kind == TypeKindPointer && t.Elem != nil {
		return t.Elem.Members()
	}

	return t.twins.members
}

// FindMember returns the member with the given name.
func (t *TypeInfo) FindMember(name string) (MemberInfo, bool) {
	for _, m := range t.Members() {
		if m.Name == name {
			return m, true
		}
	}

	return MemberInfo{}, false
}

// Nullable returns the nullable twin of t.
func (t *TypeInfo) Nullable() *TypeInfo {
	return t.twins.nullable
}

// NonNullable returns the non-nullable twin of t.
func (t *TypeInfo) NonNullable() *TypeInfo {
	return t.twins.nonNull
}

// IsNullable reports whether the descriptor admits null.
func (t *TypeInfo) IsNullable() bool {
	return t.Nullability != NonNullable
}

// IsNullableValue reports whether the descriptor is a nullable value type.
func (t *TypeInfo) IsNullableValue() bool {
	return t.Nullability == NullableValue
}

// IsObject reports whether the descriptor is a struct or a pointer to a struct.
func (t *TypeInfo) IsObject() bool {
	switch t.Kind {
	case TypeKindStruct:
		return true
	case TypeKindPointer:
		return t.Elem != nil && t.Elem.Kind == TypeKindStruct
	default:
		return false
	}
}

// IsNamed returns true if this type has a name (TypeID is set).
func (t *TypeInfo) IsNamed() bool {
	return t.ID.Name != ""
}

// Key returns a string identifying the descriptor including its nullability.
func (t *TypeInfo) Key() string {
	if t.IsNullable() {
		return t.ID.String() + "?"
	}

	return t.ID.String()
}

// String returns the short display form, e.g. "store.Order" or "int?".
func (t *TypeInfo) String() string {
	if t == nil {
		return "<nil>"
	}

	if t.IsNullable() {
		return t.ID.Short() + "?"
	}

	return t.ID.Short()
}
