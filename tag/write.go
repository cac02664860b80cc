package tag

import (
	"github.com/32bitkid/blam/errs"
	"github.com/32bitkid/blam/primitive"
	"github.com/32bitkid/blam/tag/schema"
)

type writer struct {
	out []byte
}

// WriteStruct writes s into out[at:structEnd], which must already be zero,
// and appends its extra data to out. The grown buffer is returned.
func WriteStruct(s *Struct, out []byte, at, structEnd int) ([]byte, error) {
	if structEnd-at != s.Def.Size() {
		errs.Bug("%s: struct region is %d bytes, record is %d", s.Def.Name, structEnd-at, s.Def.Size())
	}
	if structEnd > len(out) {
		errs.Bug("%s: struct region ends past the output buffer", s.Def.Name)
	}
	w := writer{out: out}
	err := w.writeStruct(s, at, structEnd)
	return w.out, err
}

func (w *writer) writeStruct(s *Struct, at, structEnd int) error {
	if len(s.Values) != len(s.Def.Fields) {
		return errs.Invalidf("%s has %d values for %d fields", s.Def.Name, len(s.Values), len(s.Def.Fields))
	}
	for i, f := range s.Def.Fields {
		off := at + f.Offset
		if off+f.Size() > structEnd {
			errs.Bug("%s.%s at 0x%X overruns its struct (ends 0x%X)", s.Def.Name, f.Name, off, structEnd)
		}
		if f.CacheOnly || f.Kind == schema.KindPad {
			continue
		}
		if f.ConsumesExtra() {
			for _, c := range w.out[off : off+f.Size()] {
				if c != 0 {
					errs.Bug("%s.%s: slot at 0x%X is not zero", s.Def.Name, f.Name, off)
				}
			}
		}
		if err := w.writeField(f, &s.Values[i], off); err != nil {
			return errs.Wrapf(err, "%s.%s", s.Def.Name, f.Name)
		}
	}
	return nil
}

func (w *writer) writeField(f *schema.FieldDef, v *Value, off int) error {
	engine := primitive.EngineFor(f.LittleEndian)

	switch f.Kind {
	case schema.KindScalar:
		if len(v.Scalars) != f.Count*f.Components {
			return errs.Invalidf("%d components, expected %d", len(v.Scalars), f.Count*f.Components)
		}
		size := f.Scalar.Size()
		for i, raw := range v.Scalars {
			writeScalar(engine, f.Scalar, w.out[off+i*size:], raw)
		}

	case schema.KindEnum:
		if len(v.Scalars) != f.Count {
			return errs.Invalidf("%d elements, expected %d", len(v.Scalars), f.Count)
		}
		for i, n := range v.Scalars {
			if int(n) >= len(f.Enum.Options) {
				return errs.Invalidf("enum value %d out of range for %s", n, f.Enum.Name)
			}
			engine.PutUint16(w.out[off+i*2:], uint16(n))
		}

	case schema.KindBitfield:
		if len(v.Scalars) != f.Count {
			return errs.Invalidf("%d elements, expected %d", len(v.Scalars), f.Count)
		}
		width := f.Bitfield.Width / 8
		mask := f.Bitfield.TagMask()
		for i, raw := range v.Scalars {
			p := w.out[off+i*width:]
			switch width {
			case 1:
				p[0] = uint8(raw & mask)
			case 2:
				engine.PutUint16(p, uint16(raw&mask))
			default:
				engine.PutUint32(p, raw&mask)
			}
		}

	case schema.KindString32:
		if len(v.Strings) != f.Count {
			return errs.Invalidf("%d strings, expected %d", len(v.Strings), f.Count)
		}
		for i, s := range v.Strings {
			copy(w.out[off+i*32:], s[:])
		}

	case schema.KindReference:
		return w.writeReference(v.Reference, off)

	case schema.KindData:
		if len(v.Data) > maxCount {
			return errs.Limitf("%d bytes of data", len(v.Data))
		}
		primitive.BigEndian.PutUint32(w.out[off:], uint32(len(v.Data)))
		w.out = append(w.out, v.Data...)

	case schema.KindReflexive:
		if len(v.Elems) > maxCount {
			return errs.Limitf("%d reflexive elements", len(v.Elems))
		}
		primitive.BigEndian.PutUint32(w.out[off:], uint32(len(v.Elems)))
		elemSize := f.Struct.Size()
		start := len(w.out)
		w.out = append(w.out, make([]byte, len(v.Elems)*elemSize)...)
		for i, e := range v.Elems {
			if e == nil || e.Def != f.Struct {
				return errs.Invalidf("element %d is not a %s", i, f.Struct.Name)
			}
			at := start + i*elemSize
			if err := w.writeStruct(e, at, at+elemSize); err != nil {
				return errs.Wrapf(err, "element %d", i)
			}
		}

	case schema.KindStruct:
		if len(v.Elems) != f.Count {
			return errs.Invalidf("%d records, expected %d", len(v.Elems), f.Count)
		}
		elemSize := f.Struct.Size()
		for i, e := range v.Elems {
			at := off + i*elemSize
			if err := w.writeStruct(e, at, at+elemSize); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeScalar(engine primitive.Engine, sc schema.Scalar, p []byte, raw uint32) {
	switch sc {
	case schema.Int8, schema.Uint8:
		p[0] = uint8(raw)
	case schema.Int16, schema.Uint16:
		engine.PutUint16(p, uint16(raw))
	default:
		engine.PutUint32(p, raw)
	}
}

func (w *writer) writeReference(ref primitive.TagReference, off int) error {
	be := primitive.BigEndian
	path := ref.Path.String()
	if path != "" && ref.Group == primitive.GroupNone {
		return errs.Invalidf("reference %q has no group", path)
	}
	if len(path) > maxCount {
		return errs.Limitf("tag path of %d bytes", len(path))
	}
	be.PutUint32(w.out[off:], uint32(ref.Group.FourCC()))
	be.PutUint32(w.out[off+8:], uint32(len(path)))
	if path == "" {
		return nil
	}
	be.PutUint32(w.out[off+12:], 0xFFFFFFFF)
	w.out = append(w.out, path...)
	w.out = append(w.out, 0)
	return nil
}
