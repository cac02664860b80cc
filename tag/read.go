package tag

import (
	"math"

	"github.com/32bitkid/blam/errs"
	"github.com/32bitkid/blam/primitive"
	"github.com/32bitkid/blam/tag/schema"
)

const maxCount = math.MaxInt32

type reader struct {
	b      []byte
	cursor int
}

// ReadStruct reads a record whose fixed fields live in b[at:structEnd] and
// whose extra data starts at *cursor. The cursor is advanced past all extra
// data consumed by the record and its children.
func ReadStruct(def *schema.StructDef, b []byte, at, structEnd int, cursor *int) (*Struct, error) {
	if structEnd-at != def.Size() {
		errs.Bug("%s: struct region is %d bytes, record is %d", def.Name, structEnd-at, def.Size())
	}
	if structEnd > len(b) {
		return nil, errs.Malformedf("%s: record ends at 0x%X past the end of the buffer (0x%X)", def.Name, structEnd, len(b))
	}
	r := reader{b: b, cursor: *cursor}
	s, err := r.readStruct(def, at, structEnd)
	*cursor = r.cursor
	return s, err
}

// take claims n bytes of extra data.
func (r *reader) take(n uint64, what string) (int, error) {
	if n > uint64(len(r.b)-r.cursor) {
		return 0, errs.Malformedf("%s: 0x%X bytes at 0x%X overflows the tag (0x%X bytes)", what, n, r.cursor, len(r.b))
	}
	at := r.cursor
	r.cursor += int(n)
	return at, nil
}

func (r *reader) readStruct(def *schema.StructDef, at, structEnd int) (*Struct, error) {
	s := &Struct{Def: def, Values: make([]Value, len(def.Fields))}
	for i, f := range def.Fields {
		off := at + f.Offset
		if off+f.Size() > structEnd {
			errs.Bug("%s.%s at 0x%X overruns its struct (ends 0x%X)", def.Name, f.Name, off, structEnd)
		}
		if f.ConsumesExtra() && r.cursor < structEnd {
			errs.Bug("%s.%s: cursor 0x%X is inside its struct (ends 0x%X)", def.Name, f.Name, r.cursor, structEnd)
		}
		v, err := r.readField(f, off)
		if err != nil {
			return nil, errs.Wrapf(err, "%s.%s", def.Name, f.Name)
		}
		if f.CacheOnly {
			v = newValue(f)
		}
		s.Values[i] = v
	}
	return s, nil
}

func (r *reader) readField(f *schema.FieldDef, off int) (Value, error) {
	var v Value
	engine := primitive.EngineFor(f.LittleEndian)

	switch f.Kind {
	case schema.KindPad:

	case schema.KindScalar:
		v.Scalars = make([]uint32, f.Count*f.Components)
		size := f.Scalar.Size()
		for i := range v.Scalars {
			v.Scalars[i] = readScalar(engine, f.Scalar, r.b[off+i*size:])
		}

	case schema.KindEnum:
		v.Scalars = make([]uint32, f.Count)
		for i := range v.Scalars {
			n, err := f.Enum.FromU16(engine.Uint16(r.b[off+i*2:]))
			if err != nil && !f.CacheOnly {
				return v, err
			}
			v.Scalars[i] = uint32(n)
		}

	case schema.KindBitfield:
		v.Scalars = make([]uint32, f.Count)
		width := f.Bitfield.Width / 8
		mask := f.Bitfield.TagMask()
		for i := range v.Scalars {
			p := r.b[off+i*width:]
			var raw uint32
			switch width {
			case 1:
				raw = uint32(p[0])
			case 2:
				raw = uint32(engine.Uint16(p))
			default:
				raw = engine.Uint32(p)
			}
			v.Scalars[i] = raw & mask
		}

	case schema.KindString32:
		v.Strings = make([]primitive.String32, f.Count)
		for i := range v.Strings {
			s, err := primitive.ParseString32(r.b[off+i*32:])
			if err != nil && !f.CacheOnly {
				return v, err
			}
			v.Strings[i] = s
		}

	case schema.KindReference:
		ref, err := r.readReference(off)
		if err != nil {
			return v, err
		}
		v.Reference = ref

	case schema.KindData:
		size := uint64(primitive.BigEndian.Uint32(r.b[off:]))
		if size > maxCount {
			return v, errs.Malformedf("data size 0x%X is too large", size)
		}
		at, err := r.take(size, "data")
		if err != nil {
			return v, err
		}
		if size > 0 {
			v.Data = append([]byte(nil), r.b[at:at+int(size)]...)
		}

	case schema.KindReflexive:
		count := uint64(primitive.BigEndian.Uint32(r.b[off:]))
		if count > maxCount {
			return v, errs.Malformedf("reflexive count 0x%X is too large", count)
		}
		elemSize := f.Struct.Size()
		start, err := r.take(count*uint64(elemSize), "reflexive")
		if err != nil {
			return v, err
		}
		if count > 0 {
			v.Elems = make([]*Struct, count)
		}
		for i := range v.Elems {
			at := start + i*elemSize
			e, err := r.readStruct(f.Struct, at, at+elemSize)
			if err != nil {
				return v, errs.Wrapf(err, "element %d", i)
			}
			v.Elems[i] = e
		}

	case schema.KindStruct:
		v.Elems = make([]*Struct, f.Count)
		elemSize := f.Struct.Size()
		for i := range v.Elems {
			at := off + i*elemSize
			e, err := r.readStruct(f.Struct, at, at+elemSize)
			if err != nil {
				return v, err
			}
			v.Elems[i] = e
		}
	}
	return v, nil
}

func readScalar(engine primitive.Engine, sc schema.Scalar, p []byte) uint32 {
	switch sc {
	case schema.Int8:
		return uint32(int32(int8(p[0])))
	case schema.Uint8:
		return uint32(p[0])
	case schema.Int16:
		return uint32(int32(int16(engine.Uint16(p))))
	case schema.Uint16:
		return uint32(engine.Uint16(p))
	}
	return engine.Uint32(p)
}

func (r *reader) readReference(off int) (primitive.TagReference, error) {
	be := primitive.BigEndian
	group, err := primitive.GroupFromFourCC(primitive.FourCC(be.Uint32(r.b[off:])))
	if err != nil {
		return primitive.TagReference{}, err
	}
	length := uint64(be.Uint32(r.b[off+8:]))
	if length == 0 {
		return primitive.TagReference{Group: group}, nil
	}
	if length > maxCount {
		return primitive.TagReference{}, errs.Malformedf("tag path length 0x%X is too large", length)
	}
	at, err := r.take(length+1, "tag path")
	if err != nil {
		return primitive.TagReference{}, err
	}
	raw := r.b[at : at+int(length)]
	if r.b[at+int(length)] != 0 {
		return primitive.TagReference{}, errs.Malformed("tag path is not null-terminated")
	}
	path, err := primitive.RawTagPath(string(raw))
	if err != nil {
		return primitive.TagReference{}, err
	}
	return primitive.TagReference{Group: group, Path: path}, nil
}
