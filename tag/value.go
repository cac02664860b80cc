// Package tag reads and writes tag files.
//
// A tag is decoded into a tree of Struct values laid out by the record
// definitions of a schema.Registry. Every Struct carries one Value per field
// of its definition, in declaration order.
package tag

import (
	"math"

	"github.com/32bitkid/blam/errs"
	"github.com/32bitkid/blam/primitive"
	"github.com/32bitkid/blam/tag/schema"
)

// Struct is one record.
type Struct struct {
	Def    *schema.StructDef
	Values []Value
}

// Value holds the contents of one field. Only the member matching the
// field's kind is used.
type Value struct {
	// Scalars holds scalar, enum and bitfield elements. Floats are stored
	// as their IEEE bits and signed integers sign-extended.
	Scalars   []uint32
	Strings   []primitive.String32
	Reference primitive.TagReference
	Data      []byte
	// Elems holds reflexive elements or the elements of an inline record.
	Elems []*Struct
}

// NewStruct default-constructs a record.
func NewStruct(def *schema.StructDef) *Struct {
	s := &Struct{Def: def, Values: make([]Value, len(def.Fields))}
	for i, f := range def.Fields {
		s.Values[i] = newValue(f)
	}
	return s
}

func newValue(f *schema.FieldDef) Value {
	var v Value
	switch f.Kind {
	case schema.KindScalar:
		v.Scalars = make([]uint32, f.Count*f.Components)
	case schema.KindEnum, schema.KindBitfield:
		v.Scalars = make([]uint32, f.Count)
	case schema.KindString32:
		v.Strings = make([]primitive.String32, f.Count)
	case schema.KindReference:
		v.Reference = primitive.NullReference
		if len(f.Groups) == 1 {
			v.Reference.Group = f.Groups[0]
		}
	case schema.KindStruct:
		v.Elems = make([]*Struct, f.Count)
		for i := range v.Elems {
			v.Elems[i] = NewStruct(f.Struct)
		}
	}
	return v
}

// Get finds a field on s or its inherited records.
func (s *Struct) Get(name string) (*schema.FieldDef, *Value) {
	for cur := s; cur != nil; {
		for i, f := range cur.Def.Fields {
			if f.Name == name && f.Kind != schema.KindPad {
				return f, &cur.Values[i]
			}
		}
		if cur.Def.Base() == nil {
			break
		}
		cur = cur.Values[0].Elems[0]
	}
	return nil, nil
}

func (s *Struct) must(name string, kinds ...schema.Kind) (*schema.FieldDef, *Value) {
	f, v := s.Get(name)
	if f == nil {
		errs.Bug("%s has no field %s", s.Def.Name, name)
	}
	for _, k := range kinds {
		if f.Kind == k {
			return f, v
		}
	}
	errs.Bug("%s.%s is a %s field", s.Def.Name, name, f.Kind)
	return nil, nil
}

// Has reports whether s or an inherited record declares name.
func (s *Struct) Has(name string) bool {
	f, _ := s.Get(name)
	return f != nil
}

func decodeInt(sc schema.Scalar, raw uint32) int64 {
	switch sc {
	case schema.Int8, schema.Int16, schema.Int32:
		return int64(int32(raw))
	case schema.Float32:
		return int64(math.Float32frombits(raw))
	}
	return int64(raw)
}

func encodeInt(sc schema.Scalar, v int64) (uint32, error) {
	var lo, hi int64
	switch sc {
	case schema.Int8:
		lo, hi = math.MinInt8, math.MaxInt8
	case schema.Uint8:
		lo, hi = 0, math.MaxUint8
	case schema.Int16:
		lo, hi = math.MinInt16, math.MaxInt16
	case schema.Uint16:
		lo, hi = 0, math.MaxUint16
	case schema.Int32:
		lo, hi = math.MinInt32, math.MaxInt32
	case schema.Uint32:
		lo, hi = 0, math.MaxUint32
	case schema.Float32:
		return math.Float32bits(float32(v)), nil
	}
	if v < lo || v > hi {
		return 0, errs.Invalidf("%d does not fit in %d bytes", v, sc.Size())
	}
	return uint32(v), nil
}

// Int returns the first component of an integer or float field.
func (s *Struct) Int(name string) int64 {
	f, v := s.must(name, schema.KindScalar)
	return decodeInt(f.Scalar, v.Scalars[0])
}

func (s *Struct) SetInt(name string, n int64) error {
	f, v := s.must(name, schema.KindScalar)
	raw, err := encodeInt(f.Scalar, n)
	if err != nil {
		return errs.Wrapf(err, "%s.%s", s.Def.Name, name)
	}
	v.Scalars[0] = raw
	return nil
}

// Ints returns every component of an integer field.
func (s *Struct) Ints(name string) []int64 {
	f, v := s.must(name, schema.KindScalar)
	out := make([]int64, len(v.Scalars))
	for i, raw := range v.Scalars {
		out[i] = decodeInt(f.Scalar, raw)
	}
	return out
}

func (s *Struct) SetInts(name string, ns ...int64) error {
	f, v := s.must(name, schema.KindScalar)
	if len(ns) != len(v.Scalars) {
		return errs.Invalidf("%s.%s has %d components, got %d", s.Def.Name, name, len(v.Scalars), len(ns))
	}
	for i, n := range ns {
		raw, err := encodeInt(f.Scalar, n)
		if err != nil {
			return errs.Wrapf(err, "%s.%s", s.Def.Name, name)
		}
		v.Scalars[i] = raw
	}
	return nil
}

// Float returns the first component of a float field.
func (s *Struct) Float(name string) float32 {
	f, v := s.must(name, schema.KindScalar)
	if f.Scalar != schema.Float32 {
		return float32(decodeInt(f.Scalar, v.Scalars[0]))
	}
	return math.Float32frombits(v.Scalars[0])
}

func (s *Struct) SetFloat(name string, x float32) {
	f, v := s.must(name, schema.KindScalar)
	if f.Scalar != schema.Float32 {
		errs.Bug("%s.%s is not a float field", s.Def.Name, name)
	}
	v.Scalars[0] = math.Float32bits(x)
}

// Floats returns every component of a float field, such as a point or a
// color.
func (s *Struct) Floats(name string) []float32 {
	f, v := s.must(name, schema.KindScalar)
	if f.Scalar != schema.Float32 {
		errs.Bug("%s.%s is not a float field", s.Def.Name, name)
	}
	out := make([]float32, len(v.Scalars))
	for i, raw := range v.Scalars {
		out[i] = math.Float32frombits(raw)
	}
	return out
}

func (s *Struct) SetFloats(name string, xs ...float32) error {
	f, v := s.must(name, schema.KindScalar)
	if f.Scalar != schema.Float32 {
		errs.Bug("%s.%s is not a float field", s.Def.Name, name)
	}
	if len(xs) != len(v.Scalars) {
		return errs.Invalidf("%s.%s has %d components, got %d", s.Def.Name, name, len(v.Scalars), len(xs))
	}
	for i, x := range xs {
		v.Scalars[i] = math.Float32bits(x)
	}
	return nil
}

// Enum returns the option index of an enum field.
func (s *Struct) Enum(name string) int {
	_, v := s.must(name, schema.KindEnum)
	return int(v.Scalars[0])
}

// EnumName returns the option name of an enum field.
func (s *Struct) EnumName(name string) string {
	f, v := s.must(name, schema.KindEnum)
	return f.Enum.Option(int(v.Scalars[0]))
}

// SetEnum sets an enum field by option name.
func (s *Struct) SetEnum(name, option string) error {
	f, v := s.must(name, schema.KindEnum)
	i, ok := f.Enum.Index(option)
	if !ok {
		return errs.Invalidf("%s.%s: %q is not a %s option", s.Def.Name, name, option, f.Enum.Name)
	}
	v.Scalars[0] = uint32(i)
	return nil
}

// SetEnumIndex sets an enum field by option index.
func (s *Struct) SetEnumIndex(name string, i int) error {
	f, v := s.must(name, schema.KindEnum)
	if i < 0 || i >= len(f.Enum.Options) {
		return errs.Invalidf("%s.%s: option %d out of range", s.Def.Name, name, i)
	}
	v.Scalars[0] = uint32(i)
	return nil
}

// Bits returns the raw value of a bitfield.
func (s *Struct) Bits(name string) uint32 {
	_, v := s.must(name, schema.KindBitfield)
	return v.Scalars[0]
}

func (s *Struct) SetBits(name string, bits uint32) {
	f, v := s.must(name, schema.KindBitfield)
	v.Scalars[0] = bits & widthMask(f.Bitfield.Width)
}

// Flag reports whether a named bit is set.
func (s *Struct) Flag(name, bit string) bool {
	f, v := s.must(name, schema.KindBitfield)
	mask, ok := f.Bitfield.Mask(bit)
	if !ok {
		errs.Bug("%s has no bit %s", f.Bitfield.Name, bit)
	}
	return v.Scalars[0]&mask != 0
}

func (s *Struct) SetFlag(name, bit string, on bool) {
	f, v := s.must(name, schema.KindBitfield)
	mask, ok := f.Bitfield.Mask(bit)
	if !ok {
		errs.Bug("%s has no bit %s", f.Bitfield.Name, bit)
	}
	if on {
		v.Scalars[0] |= mask
	} else {
		v.Scalars[0] &^= mask
	}
}

func widthMask(width int) uint32 {
	if width >= 32 {
		return math.MaxUint32
	}
	return 1<<width - 1
}

func (s *Struct) String32(name string) string {
	_, v := s.must(name, schema.KindString32)
	return v.Strings[0].String()
}

func (s *Struct) SetString32(name, str string) error {
	_, v := s.must(name, schema.KindString32)
	s32, err := primitive.NewString32(str)
	if err != nil {
		return errs.Wrapf(err, "%s.%s", s.Def.Name, name)
	}
	v.Strings[0] = s32
	return nil
}

func (s *Struct) Data(name string) []byte {
	_, v := s.must(name, schema.KindData)
	return v.Data
}

func (s *Struct) SetData(name string, b []byte) error {
	_, v := s.must(name, schema.KindData)
	if len(b) > math.MaxInt32 {
		return errs.Limitf("%s.%s: %d bytes of data", s.Def.Name, name, len(b))
	}
	v.Data = b
	return nil
}

func (s *Struct) Reference(name string) primitive.TagReference {
	_, v := s.must(name, schema.KindReference)
	return v.Reference
}

// SetReference checks ref against the field's allowed groups.
func (s *Struct) SetReference(name string, ref primitive.TagReference) error {
	f, v := s.must(name, schema.KindReference)
	if !f.Allows(ref.Group) {
		return errs.Invalidf("%s.%s cannot reference a %s", s.Def.Name, name, ref.Group)
	}
	if !ref.Path.IsEmpty() && ref.Group == primitive.GroupNone {
		return errs.Invalidf("%s.%s: reference %q has no group", s.Def.Name, name, ref.Path)
	}
	v.Reference = ref
	return nil
}

// Reflexive returns the elements of a reflexive field.
func (s *Struct) Reflexive(name string) []*Struct {
	_, v := s.must(name, schema.KindReflexive)
	return v.Elems
}

// Append adds a default element to a reflexive and returns it.
func (s *Struct) Append(name string) *Struct {
	f, v := s.must(name, schema.KindReflexive)
	e := NewStruct(f.Struct)
	v.Elems = append(v.Elems, e)
	return e
}

// SetReflexive replaces the elements of a reflexive. Every element must use
// the field's record.
func (s *Struct) SetReflexive(name string, elems []*Struct) error {
	f, v := s.must(name, schema.KindReflexive)
	for i, e := range elems {
		if e == nil || e.Def != f.Struct {
			return errs.Invalidf("%s.%s[%d] is not a %s", s.Def.Name, name, i, f.Struct.Name)
		}
	}
	if len(elems) > math.MaxInt32 {
		return errs.Limitf("%s.%s: %d elements", s.Def.Name, name, len(elems))
	}
	v.Elems = elems
	return nil
}

// Struct returns the first element of an inline record field.
func (s *Struct) Struct(name string) *Struct {
	_, v := s.must(name, schema.KindStruct)
	return v.Elems[0]
}

// Clone deep-copies s.
func (s *Struct) Clone() *Struct {
	out := &Struct{Def: s.Def, Values: make([]Value, len(s.Values))}
	for i, v := range s.Values {
		c := Value{Reference: v.Reference}
		if v.Scalars != nil {
			c.Scalars = append([]uint32(nil), v.Scalars...)
		}
		if v.Strings != nil {
			c.Strings = append([]primitive.String32(nil), v.Strings...)
		}
		if v.Data != nil {
			c.Data = append([]byte(nil), v.Data...)
		}
		if v.Elems != nil {
			c.Elems = make([]*Struct, len(v.Elems))
			for j, e := range v.Elems {
				c.Elems[j] = e.Clone()
			}
		}
		out.Values[i] = c
	}
	return out
}
