// Package schema holds the record, enum and bitfield definitions that drive
// the tag codec.
//
// Definitions are declared in YAML files. A Registry is built from them once
// and is immutable afterwards; every record's size is computed and checked
// against its declared size when the registry is built.
package schema

import (
	"sort"

	"github.com/32bitkid/blam/errs"
	"github.com/32bitkid/blam/primitive"
)

// Kind is the storage class of a field.
type Kind uint8

const (
	KindScalar Kind = iota
	KindEnum
	KindBitfield
	KindString32
	KindReference
	KindData
	KindReflexive
	KindStruct
	KindPad
)

var kindNames = [...]string{"scalar", "enum", "bitfield", "string32", "tag_reference", "data", "reflexive", "struct", "pad"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Scalar is the encoding of a single numeric component.
type Scalar uint8

const (
	Int8 Scalar = iota
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Float32
)

func (s Scalar) Size() int {
	switch s {
	case Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	default:
		return 4
	}
}

func (s Scalar) Signed() bool { return s == Int8 || s == Int16 || s == Int32 }

type scalarType struct {
	scalar     Scalar
	components int
}

// Composite types are the concatenation of their components in the order
// the primitive package declares them.
var scalarTypes = map[string]scalarType{
	"int8":           {Int8, 1},
	"uint8":          {Uint8, 1},
	"int16":          {Int16, 1},
	"uint16":         {Uint16, 1},
	"int32":          {Int32, 1},
	"uint32":         {Uint32, 1},
	"index":          {Uint16, 1},
	"float":          {Float32, 1},
	"angle":          {Float32, 1},
	"fraction":       {Float32, 1},
	"fourcc":         {Uint32, 1},
	"tag_id":         {Uint32, 1},
	"pointer":        {Uint32, 1},
	"point2d":        {Float32, 2},
	"point3d":        {Float32, 3},
	"vector2d":       {Float32, 2},
	"vector3d":       {Float32, 3},
	"euler2d":        {Float32, 2},
	"euler3d":        {Float32, 3},
	"quaternion":     {Float32, 4},
	"plane2d":        {Float32, 3},
	"plane3d":        {Float32, 4},
	"matrix":         {Float32, 9},
	"color_rgb":      {Float32, 3},
	"color_argb":     {Float32, 4},
	"color_hsv":      {Float32, 3},
	"color_ahsv":     {Float32, 4},
	"color_rgb_int":  {Uint32, 1},
	"color_argb_int": {Uint32, 1},
	"point2d_int":    {Int16, 2},
	"rectangle":      {Int16, 4},
}

// FieldDef is one field of a record at a fixed offset.
type FieldDef struct {
	Name string
	Type string
	Kind Kind

	// Scalar and Components describe one array element of a KindScalar
	// field. Bounds fields carry twice the components of their type.
	Scalar     Scalar
	Components int

	// Count is the number of inline array elements, at least 1.
	Count  int
	Offset int

	CacheOnly    bool
	LittleEndian bool
	Bounds       bool

	// Groups restricts the targets of a tag reference. Empty means any.
	Groups []primitive.TagGroup

	Enum     *EnumDef
	Bitfield *BitfieldDef
	// Struct is the element record of a reflexive or the inline record of
	// a struct field.
	Struct *StructDef

	padSize int
}

// ElementSize is the size of one array element.
func (f *FieldDef) ElementSize() int {
	switch f.Kind {
	case KindScalar:
		return f.Scalar.Size() * f.Components
	case KindEnum:
		return 2
	case KindBitfield:
		return f.Bitfield.Width / 8
	case KindString32:
		return 32
	case KindReference:
		return 16
	case KindData:
		return 20
	case KindReflexive:
		return 12
	case KindStruct:
		return f.Struct.Size()
	case KindPad:
		return f.padSize
	}
	errs.Bug("unhandled kind %v", f.Kind)
	return 0
}

func (f *FieldDef) Size() int { return f.ElementSize() * f.Count }

// ConsumesExtra reports whether the field appends to the extra region.
func (f *FieldDef) ConsumesExtra() bool {
	return f.Kind == KindReference || f.Kind == KindData || f.Kind == KindReflexive
}

// Allows reports whether a reference field may point at g.
func (f *FieldDef) Allows(g primitive.TagGroup) bool {
	if len(f.Groups) == 0 || g == primitive.GroupNone {
		return true
	}
	for _, allowed := range f.Groups {
		if allowed == g {
			return true
		}
	}
	return false
}

// BaseFieldName is the name given to the prepended field of a record that
// inherits from another.
const BaseFieldName = "base_struct"

// StructDef is a record layout.
type StructDef struct {
	Name string
	// Group is the tag group this record is the root of, or GroupNone.
	Group  primitive.TagGroup
	Fields []*FieldDef

	size   int
	byName map[string]*FieldDef
}

// Size is the constant on-disk size of the record.
func (s *StructDef) Size() int { return s.size }

// Field returns a field declared directly on s.
func (s *StructDef) Field(name string) *FieldDef { return s.byName[name] }

// Base returns the inherited record, or nil.
func (s *StructDef) Base() *StructDef {
	if len(s.Fields) > 0 && s.Fields[0].Name == BaseFieldName {
		return s.Fields[0].Struct
	}
	return nil
}

// Lookup finds a field on s or any record it inherits from, returning the
// number of base_struct hops taken, or -1 when there is no such field.
func (s *StructDef) Lookup(name string) (*FieldDef, int) {
	depth := 0
	for def := s; def != nil; def = def.Base() {
		if f := def.byName[name]; f != nil {
			return f, depth
		}
		depth++
	}
	return nil, -1
}

type EnumDef struct {
	Name    string
	Options []string
}

// FromU16 validates a stored enum value.
func (e *EnumDef) FromU16(v uint16) (int, error) {
	if int(v) >= len(e.Options) {
		return 0, errs.Malformedf("%s: enum value %d out of range (%d options)", e.Name, v, len(e.Options))
	}
	return int(v), nil
}

// Index finds an option by name.
func (e *EnumDef) Index(option string) (int, bool) {
	for i, o := range e.Options {
		if o == option {
			return i, true
		}
	}
	return 0, false
}

func (e *EnumDef) Option(i int) string {
	if i < 0 || i >= len(e.Options) {
		return ""
	}
	return e.Options[i]
}

type Bit struct {
	Name      string
	CacheOnly bool
}

type BitfieldDef struct {
	Name  string
	Width int
	Bits  []Bit
}

// TagMask is the set of bits kept in tag files: declared bits that are not
// cache only.
func (b *BitfieldDef) TagMask() uint32 {
	var mask uint32
	for i, bit := range b.Bits {
		if !bit.CacheOnly {
			mask |= 1 << i
		}
	}
	return mask
}

// Mask returns the bit for a named flag.
func (b *BitfieldDef) Mask(name string) (uint32, bool) {
	for i, bit := range b.Bits {
		if bit.Name == name {
			return 1 << i, true
		}
	}
	return 0, false
}

// Registry is an immutable set of definitions.
type Registry struct {
	structs   map[string]*StructDef
	enums     map[string]*EnumDef
	bitfields map[string]*BitfieldDef
	roots     map[primitive.TagGroup]*StructDef
}

func (r *Registry) Struct(name string) *StructDef     { return r.structs[name] }
func (r *Registry) Enum(name string) *EnumDef         { return r.enums[name] }
func (r *Registry) Bitfield(name string) *BitfieldDef { return r.bitfields[name] }

// Root returns the root record of a tag group.
func (r *Registry) Root(g primitive.TagGroup) (*StructDef, error) {
	if def, ok := r.roots[g]; ok {
		return def, nil
	}
	return nil, errs.Unsupportedf("no definition for tag group %s", g)
}

// Groups lists the groups with a root record, in table order.
func (r *Registry) Groups() []primitive.TagGroup {
	out := make([]primitive.TagGroup, 0, len(r.roots))
	for g := range r.roots {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Structs lists every record sorted by name.
func (r *Registry) Structs() []*StructDef {
	out := make([]*StructDef, 0, len(r.structs))
	for _, s := range r.structs {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Enums lists every enum sorted by name.
func (r *Registry) Enums() []*EnumDef {
	out := make([]*EnumDef, 0, len(r.enums))
	for _, e := range r.enums {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Bitfields lists every bitfield sorted by name.
func (r *Registry) Bitfields() []*BitfieldDef {
	out := make([]*BitfieldDef, 0, len(r.bitfields))
	for _, b := range r.bitfields {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
