package tag

import (
	"errors"
	"math"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/32bitkid/blam/errs"
	"github.com/32bitkid/blam/primitive"
	"github.com/32bitkid/blam/tag/schema"
)

// FieldRef is one named field of a record together with its value.
type FieldRef struct {
	Name  string
	Def   *schema.FieldDef
	Value *Value
}

// Fields lists the named fields of s, inherited fields first. Padding and
// the base_struct link are not included.
func (s *Struct) Fields() []FieldRef {
	var out []FieldRef
	for i, f := range s.Def.Fields {
		switch {
		case f.Kind == schema.KindPad:
		case i == 0 && f.Name == schema.BaseFieldName && s.Def.Base() != nil:
			out = append(out, s.Values[0].Elems[0].Fields()...)
		default:
			out = append(out, FieldRef{Name: f.Name, Def: f, Value: &s.Values[i]})
		}
	}
	return out
}

// SkipChildren can be returned by a WalkFunc to skip the records below a
// reflexive or inline record field.
var SkipChildren = errors.New("skip children")

type WalkFunc func(path string, f FieldRef) error

// Walk visits every field of s and its child records in pre-order. Paths
// look like "bitmap_data[2].width".
func Walk(s *Struct, fn WalkFunc) error {
	return walk(s, "", fn)
}

func walk(s *Struct, prefix string, fn WalkFunc) error {
	for _, f := range s.Fields() {
		path := prefix + f.Name
		err := fn(path, f)
		if errors.Is(err, SkipChildren) {
			continue
		}
		if err != nil {
			return err
		}
		switch f.Def.Kind {
		case schema.KindReflexive:
			for i, e := range f.Value.Elems {
				if err := walk(e, path+"["+strconv.Itoa(i)+"].", fn); err != nil {
					return err
				}
			}
		case schema.KindStruct:
			for i, e := range f.Value.Elems {
				p := path + "."
				if f.Def.Count > 1 {
					p = path + "[" + strconv.Itoa(i) + "]."
				}
				if err := walk(e, p, fn); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Member is one key of an Object.
type Member struct {
	Key   string
	Value any
}

// Object is an ordered JSON object.
type Object []Member

func (o Object) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, m := range o {
		if i > 0 {
			buf = append(buf, ',')
		}
		k, err := json.Marshal(m.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(m.Value)
		if err != nil {
			return nil, errs.Wrapf(err, "marshal %s", m.Key)
		}
		buf = append(buf, k...)
		buf = append(buf, ':')
		buf = append(buf, v...)
	}
	return append(buf, '}'), nil
}

// Tree converts s to plain values suitable for encoding: records become
// Objects in field order, enums their option names and bitfields the names
// of their set bits.
func Tree(s *Struct) Object {
	fields := s.Fields()
	out := make(Object, 0, len(fields))
	for _, f := range fields {
		out = append(out, Member{Key: f.Name, Value: f.Interface()})
	}
	return out
}

// Interface returns the plain form of the field's value.
func (f FieldRef) Interface() any {
	v := f.Value
	switch f.Def.Kind {
	case schema.KindScalar:
		if f.Def.Scalar == schema.Float32 {
			xs := make([]float32, len(v.Scalars))
			for i, raw := range v.Scalars {
				xs[i] = math.Float32frombits(raw)
			}
			return one(xs)
		}
		ns := make([]int64, len(v.Scalars))
		for i, raw := range v.Scalars {
			ns[i] = decodeInt(f.Def.Scalar, raw)
		}
		return one(ns)
	case schema.KindEnum:
		names := make([]string, len(v.Scalars))
		for i, n := range v.Scalars {
			names[i] = f.Def.Enum.Option(int(n))
		}
		return one(names)
	case schema.KindBitfield:
		sets := make([][]string, len(v.Scalars))
		for i, bits := range v.Scalars {
			sets[i] = []string{}
			for b, bit := range f.Def.Bitfield.Bits {
				if bits&(1<<b) != 0 {
					sets[i] = append(sets[i], bit.Name)
				}
			}
		}
		return one(sets)
	case schema.KindString32:
		strs := make([]string, len(v.Strings))
		for i, s := range v.Strings {
			strs[i] = s.String()
		}
		return one(strs)
	case schema.KindReference:
		if v.Reference.IsNull() {
			return nil
		}
		return v.Reference.String()
	case schema.KindData:
		if v.Data == nil {
			return []byte{}
		}
		return v.Data
	case schema.KindReflexive:
		elems := make([]Object, len(v.Elems))
		for i, e := range v.Elems {
			elems[i] = Tree(e)
		}
		return elems
	case schema.KindStruct:
		elems := make([]Object, len(v.Elems))
		for i, e := range v.Elems {
			elems[i] = Tree(e)
		}
		return one(elems)
	}
	return nil
}

func one[T any](xs []T) any {
	if len(xs) == 1 {
		return xs[0]
	}
	return xs
}

// Set assigns a plain value to the field. Accepted forms mirror Interface:
// numbers or slices of numbers, option names, bit names, strings, tag
// reference strings and byte slices.
func (f FieldRef) Set(x any) error {
	err := f.set(x)
	if err != nil {
		return errs.Wrapf(err, "set %s", f.Name)
	}
	return nil
}

func (f FieldRef) set(x any) error {
	v := f.Value
	switch f.Def.Kind {
	case schema.KindScalar:
		return f.setScalars(x)

	case schema.KindEnum:
		switch opt := x.(type) {
		case string:
			i, ok := f.Def.Enum.Index(opt)
			if !ok {
				return errs.Invalidf("%q is not a %s option", opt, f.Def.Enum.Name)
			}
			v.Scalars[0] = uint32(i)
		case int:
			if opt < 0 || opt >= len(f.Def.Enum.Options) {
				return errs.Invalidf("option %d out of range", opt)
			}
			v.Scalars[0] = uint32(opt)
		default:
			return errs.Invalidf("cannot set an enum from %T", x)
		}

	case schema.KindBitfield:
		switch bits := x.(type) {
		case uint32:
			v.Scalars[0] = bits & widthMask(f.Def.Bitfield.Width)
		case []string:
			var raw uint32
			for _, name := range bits {
				m, ok := f.Def.Bitfield.Mask(name)
				if !ok {
					return errs.Invalidf("%s has no bit %q", f.Def.Bitfield.Name, name)
				}
				raw |= m
			}
			v.Scalars[0] = raw
		default:
			return errs.Invalidf("cannot set a bitfield from %T", x)
		}

	case schema.KindString32:
		str, ok := x.(string)
		if !ok {
			return errs.Invalidf("cannot set a string from %T", x)
		}
		s32, err := primitive.NewString32(str)
		if err != nil {
			return err
		}
		v.Strings[0] = s32

	case schema.KindReference:
		var ref primitive.TagReference
		switch r := x.(type) {
		case primitive.TagReference:
			ref = r
		case string:
			if r == "" {
				ref = primitive.NullReference
				break
			}
			var err error
			if ref, err = primitive.ParseTagReference(r); err != nil {
				return err
			}
		default:
			return errs.Invalidf("cannot set a reference from %T", x)
		}
		if !f.Def.Allows(ref.Group) {
			return errs.Invalidf("cannot reference a %s", ref.Group)
		}
		v.Reference = ref

	case schema.KindData:
		b, ok := x.([]byte)
		if !ok {
			return errs.Invalidf("cannot set data from %T", x)
		}
		v.Data = b

	default:
		return errs.Unsupportedf("%s fields cannot be set directly", f.Def.Kind)
	}
	return nil
}

func (f FieldRef) setScalars(x any) error {
	v := f.Value
	var raws []uint32
	put := func(n int64, fl float64, isFloat bool) error {
		if f.Def.Scalar == schema.Float32 {
			if !isFloat {
				fl = float64(n)
			}
			raws = append(raws, math.Float32bits(float32(fl)))
			return nil
		}
		if isFloat {
			if fl != math.Trunc(fl) {
				return errs.Invalidf("%v is not an integer", fl)
			}
			n = int64(fl)
		}
		raw, err := encodeInt(f.Def.Scalar, n)
		raws = append(raws, raw)
		return err
	}

	var err error
	switch n := x.(type) {
	case int:
		err = put(int64(n), 0, false)
	case int64:
		err = put(n, 0, false)
	case float32:
		err = put(0, float64(n), true)
	case float64:
		err = put(0, n, true)
	case []int64:
		for _, e := range n {
			if err = put(e, 0, false); err != nil {
				break
			}
		}
	case []float32:
		for _, e := range n {
			if err = put(0, float64(e), true); err != nil {
				break
			}
		}
	default:
		return errs.Invalidf("cannot set a number from %T", x)
	}
	if err != nil {
		return err
	}
	if len(raws) != len(v.Scalars) {
		return errs.Invalidf("%d components, expected %d", len(raws), len(v.Scalars))
	}
	copy(v.Scalars, raws)
	return nil
}
