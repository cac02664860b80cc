package tag

import (
	"encoding/binary"
	"hash/crc32"
	"testing"
	"testing/fstest"
	"unicode/utf16"

	"github.com/stretchr/testify/require"

	"github.com/32bitkid/blam/errs"
	"github.com/32bitkid/blam/primitive"
	"github.com/32bitkid/blam/tag/schema"
)

func utf16z(s string) []byte {
	var b []byte
	for _, u := range utf16.Encode([]rune(s)) {
		b = binary.LittleEndian.AppendUint16(b, u)
	}
	return append(b, 0, 0)
}

func header(group primitive.TagGroup, body []byte) []byte {
	h := Header{Group: group, Version: group.Version(), CRC32: crc32.ChecksumIEEE(body)}
	return append(h.Bytes(), body...)
}

func unicodeStringList(strs ...string) []byte {
	var body []byte
	body = binary.BigEndian.AppendUint32(body, uint32(len(strs)))
	body = append(body, make([]byte, 8)...)
	var payload []byte
	for _, s := range strs {
		encoded := utf16z(s)
		body = binary.BigEndian.AppendUint32(body, uint32(len(encoded)))
		body = append(body, make([]byte, 16)...)
		payload = append(payload, encoded...)
	}
	return header(primitive.GroupUnicodeStringList, append(body, payload...))
}

func TestUnicodeStringListRoundTrip(t *testing.T) {
	strs := []string{"Hello world!", "This is a test!", "Parsing an actual tag works~"}
	raw := unicodeStringList(strs...)

	f, err := Read(raw)
	require.NoError(t, err)
	require.Equal(t, primitive.GroupUnicodeStringList, f.Group)
	require.False(t, f.CRCMismatch)

	blocks := f.Root.Reflexive("strings")
	require.Len(t, blocks, 3)
	for i, s := range strs {
		require.Equal(t, utf16z(s), blocks[i].Data("string"))
	}

	out, err := Write(f)
	require.NoError(t, err)
	require.Equal(t, raw, out)
}

func TestCRCMismatchIsReported(t *testing.T) {
	raw := unicodeStringList("a")
	raw[0x28] ^= 0xFF

	f, err := Read(raw)
	require.NoError(t, err)
	require.True(t, f.CRCMismatch)

	out, err := Write(f)
	require.NoError(t, err)
	raw[0x28] ^= 0xFF
	require.Equal(t, raw, out)
}

const testSchema = `
enums:
  - {name: level, options: [low, medium, high]}
bitfields:
  - name: widget_flags
    width: 16
    fields: [a, b, {name: c, cache_only: true}]
structs:
  - name: holder
    size: 16
    fields:
      - {name: reference, type: tag_reference}
  - name: widget_part
    size: 24
    fields:
      - {name: model, type: tag_reference}
      - {name: id, type: int16, little_endian: true}
      - {name: level, type: enum, enum: level}
      - {name: weight, type: float}
  - name: widget
    group: wind
    size: 68
    fields:
      - {name: level, type: enum, enum: level}
      - {name: flags, type: bitfield, bitfield: widget_flags}
      - {name: offset, type: int16, little_endian: true}
      - {type: pad, size: 2}
      - {name: blob, type: data}
      - {name: parts, type: reflexive, struct: widget_part}
      - {name: cached, type: data, cache_only: true}
      - {name: range, type: float, bounds: true}
`

func testRegistry(t *testing.T) *schema.Registry {
	t.Helper()
	reg, err := schema.Load(fstest.MapFS{"test.yaml": {Data: []byte(testSchema)}})
	require.NoError(t, err)
	return reg
}

func TestReadTagReference(t *testing.T) {
	reg := testRegistry(t)
	raw := []byte{0x77, 0x65, 0x61, 0x70, 0, 0, 0, 0, 0, 0, 0, 0x15, 0xFF, 0xFF, 0xFF, 0xFF}
	raw = append(raw, "weapons\\pistol\\pistol\x00"...)

	cursor := 16
	s, err := ReadStruct(reg.Struct("holder"), raw, 0, 16, &cursor)
	require.NoError(t, err)
	require.Equal(t, 0x26, cursor)

	ref := s.Reference("reference")
	require.Equal(t, primitive.GroupWeapon, ref.Group)
	require.Equal(t, `weapons\pistol\pistol`, ref.Path.String())

	out, err := WriteStruct(s, make([]byte, 16), 0, 16)
	require.NoError(t, err)
	require.Equal(t, raw, out)
}

func TestReadTagReferenceErrors(t *testing.T) {
	reg := testRegistry(t)
	def := reg.Struct("holder")
	base := []byte{0x77, 0x65, 0x61, 0x70, 0, 0, 0, 0, 0, 0, 0, 0x03, 0xFF, 0xFF, 0xFF, 0xFF}

	cases := map[string][]byte{
		"unknown group":  append([]byte("gun!"), append(append([]byte{}, base[4:]...), "abc\x00"...)...),
		"truncated path": append(append([]byte{}, base...), "ab"...),
		"no terminator":  append(append([]byte{}, base...), "abcd"...),
		"invalid utf8":   append(append([]byte{}, base...), 0xFF, 0xFE, 0xFD, 0),
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			cursor := 16
			_, err := ReadStruct(def, raw, 0, 16, &cursor)
			require.ErrorIs(t, err, errs.ErrMalformedData)
		})
	}
}

func newWidget(t *testing.T, reg *schema.Registry) *File {
	t.Helper()
	f, err := New(reg, primitive.GroupWind)
	require.NoError(t, err)
	w := f.Root
	require.NoError(t, w.SetEnum("level", "high"))
	w.SetFlag("flags", "a", true)
	require.NoError(t, w.SetInt("offset", -2))
	require.NoError(t, w.SetData("blob", []byte{1, 2, 3}))
	require.NoError(t, w.SetFloats("range", 0.5, 2))

	p0 := w.Append("parts")
	require.NoError(t, p0.SetReference("model", primitive.TagReference{Group: primitive.GroupGBXModel, Path: primitive.MustTagPath(`a\b`)}))
	require.NoError(t, p0.SetInt("id", 0x0102))
	p0.SetFloat("weight", 1.5)

	p1 := w.Append("parts")
	require.NoError(t, p1.SetReference("model", primitive.TagReference{Group: primitive.GroupGBXModel, Path: primitive.MustTagPath(`cde`)}))
	return f
}

func TestWriteLayout(t *testing.T) {
	reg := testRegistry(t)
	out, err := Write(newWidget(t, reg))
	require.NoError(t, err)

	root := HeaderSize
	be := binary.BigEndian
	require.Equal(t, uint16(2), be.Uint16(out[root:]))
	require.Equal(t, uint16(1), be.Uint16(out[root+2:]))
	require.Equal(t, []byte{0xFE, 0xFF}, out[root+4:root+6])
	require.Equal(t, uint32(3), be.Uint32(out[root+8:]))
	require.Equal(t, uint32(2), be.Uint32(out[root+28:]))
	require.Zero(t, be.Uint32(out[root+40:]))

	extra := root + 68
	require.Equal(t, []byte{1, 2, 3}, out[extra:extra+3])
	part0 := extra + 3
	require.Equal(t, []byte{0x02, 0x01}, out[part0+16:part0+18])
	paths := part0 + 48
	require.Equal(t, "a\\b\x00cde\x00", string(out[paths:]))
	require.Len(t, out, HeaderSize+68+3+48+4+4)

	h, err := ParseHeader(out)
	require.NoError(t, err)
	require.Equal(t, crc32.ChecksumIEEE(out[HeaderSize:]), h.CRC32)
}

func TestWidgetRoundTrip(t *testing.T) {
	reg := testRegistry(t)
	first, err := Write(newWidget(t, reg))
	require.NoError(t, err)

	f, err := ReadWith(reg, first)
	require.NoError(t, err)
	require.Equal(t, "high", f.Root.EnumName("level"))
	require.Equal(t, int64(-2), f.Root.Int("offset"))
	require.Equal(t, []float32{0.5, 2}, f.Root.Floats("range"))
	parts := f.Root.Reflexive("parts")
	require.Len(t, parts, 2)
	require.Equal(t, int64(0x0102), parts[0].Int("id"))
	require.Equal(t, float32(1.5), parts[0].Float("weight"))
	require.Equal(t, `cde`, parts[1].Reference("model").Path.String())

	second, err := Write(f)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestReadRejects(t *testing.T) {
	reg := testRegistry(t)
	good, err := Write(newWidget(t, reg))
	require.NoError(t, err)

	patch := func(fn func(b []byte) []byte) []byte {
		b := append([]byte(nil), good...)
		return fn(b)
	}

	cases := map[string][]byte{
		"leftover data": patch(func(b []byte) []byte { return append(b, 0) }),
		"truncated":     patch(func(b []byte) []byte { return b[:len(b)-1] }),
		"enum range": patch(func(b []byte) []byte {
			b[HeaderSize+1] = 3
			return b
		}),
		"version": patch(func(b []byte) []byte {
			b[0x39] = 9
			return b
		}),
		"signature": patch(func(b []byte) []byte {
			b[0x3C] = 'x'
			return b
		}),
		"data overflow": patch(func(b []byte) []byte {
			binary.BigEndian.PutUint32(b[HeaderSize+8:], 0x7FFFFFF0)
			return b
		}),
		"reflexive count": patch(func(b []byte) []byte {
			binary.BigEndian.PutUint32(b[HeaderSize+28:], 0x80000000)
			return b
		}),
		"short header": good[:10],
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadWith(reg, raw)
			require.ErrorIs(t, err, errs.ErrMalformedData)
		})
	}
}

func TestUnsupportedGroup(t *testing.T) {
	raw := header(primitive.GroupWeapon, nil)
	_, err := Read(raw)
	require.ErrorIs(t, err, errs.ErrUnsupported)
}

func TestBitfieldTagMask(t *testing.T) {
	reg := testRegistry(t)
	raw, err := Write(newWidget(t, reg))
	require.NoError(t, err)
	binary.BigEndian.PutUint16(raw[HeaderSize+2:], 0xFFFF)

	f, err := ReadWith(reg, raw)
	require.NoError(t, err)
	require.Equal(t, uint32(0x3), f.Root.Bits("flags"))

	f.Root.SetBits("flags", 0xFFFF)
	out, err := Write(f)
	require.NoError(t, err)
	require.Equal(t, uint16(0x3), binary.BigEndian.Uint16(out[HeaderSize+2:]))

	mask := reg.Bitfield("widget_flags").TagMask()
	for x := uint32(0); x < 1<<16; x += 7 {
		f.Root.SetBits("flags", x&mask)
		a, err := Write(f)
		require.NoError(t, err)
		f.Root.SetBits("flags", x)
		b, err := Write(f)
		require.NoError(t, err)
		require.Equal(t, a, b)
	}
}

func TestCacheOnlyDataIsSkipped(t *testing.T) {
	reg := testRegistry(t)
	clean, err := Write(newWidget(t, reg))
	require.NoError(t, err)

	// Cache-only data follows the parts in visit order.
	raw := append([]byte(nil), clean...)
	binary.BigEndian.PutUint32(raw[HeaderSize+40:], 3)
	raw = append(raw, 9, 9, 9)
	binary.BigEndian.PutUint32(raw[0x28:], crc32.ChecksumIEEE(raw[HeaderSize:]))

	f, err := ReadWith(reg, raw)
	require.NoError(t, err)
	require.Nil(t, f.Root.Data("cached"))

	out, err := Write(f)
	require.NoError(t, err)
	require.Equal(t, clean, out)
}

func TestDefaultRecordsRoundTrip(t *testing.T) {
	reg := schema.Default()
	for _, g := range reg.Groups() {
		t.Run(g.String(), func(t *testing.T) {
			f, err := New(reg, g)
			require.NoError(t, err)
			first, err := Write(f)
			require.NoError(t, err)
			require.Len(t, first, HeaderSize+f.Root.Def.Size())

			back, err := ReadWith(reg, first)
			require.NoError(t, err)
			second, err := Write(back)
			require.NoError(t, err)
			require.Equal(t, first, second)
		})
	}
}

func TestScenarioNestedRoundTrip(t *testing.T) {
	f, err := New(schema.Default(), primitive.GroupScenario)
	require.NoError(t, err)
	enc := f.Root.Append("encounters")
	require.NoError(t, enc.SetString32("name", "hunters"))
	require.NoError(t, enc.Append("squads").SetString32("name", "left"))
	require.NoError(t, enc.Append("platoons").SetString32("name", "rear"))
	src := f.Root.Append("source_files")
	require.NoError(t, src.SetString32("name", "a10"))
	require.NoError(t, src.SetData("source", []byte("(script startup a (sleep 1))")))
	ref := f.Root.Append("references")
	require.NoError(t, ref.SetReference("reference", primitive.TagReference{Group: primitive.GroupSound, Path: primitive.MustTagPath(`sound\x`)}))
	require.NoError(t, f.Root.Append("biped_palette").SetReference("name", primitive.TagReference{Group: primitive.GroupBiped, Path: primitive.MustTagPath(`characters\cyborg\cyborg`)}))
	require.NoError(t, f.Root.Append("bipeds").SetInt("type", 0))
	line := f.Root.Append("ai_conversations").Append("lines")
	require.NoError(t, line.SetReference("variant_2", primitive.TagReference{Group: primitive.GroupSound, Path: primitive.MustTagPath(`sound\dialog\hey`)}))
	require.NoError(t, f.Root.Append("structure_bsps").SetReference("structure_bsp", primitive.TagReference{Group: primitive.GroupScenarioStructureBSP, Path: primitive.MustTagPath(`levels\a10\a10`)}))

	raw, err := Write(f)
	require.NoError(t, err)
	back, err := Read(raw)
	require.NoError(t, err)

	encs := back.Root.Reflexive("encounters")
	require.Len(t, encs, 1)
	require.Equal(t, "left", encs[0].Reflexive("squads")[0].String32("name"))
	require.Equal(t, "rear", encs[0].Reflexive("platoons")[0].String32("name"))
	require.Equal(t, "sound\\x.sound", back.Root.Reflexive("references")[0].Reference("reference").String())
	require.Equal(t, `characters\cyborg\cyborg.biped`, back.Root.Reflexive("biped_palette")[0].Reference("name").String())
	require.Len(t, back.Root.Reflexive("bipeds"), 1)
	lines := back.Root.Reflexive("ai_conversations")[0].Reflexive("lines")
	require.Equal(t, `sound\dialog\hey.sound`, lines[0].Reference("variant_2").String())
	require.Equal(t, `levels\a10\a10.scenario_structure_bsp`, back.Root.Reflexive("structure_bsps")[0].Reference("structure_bsp").String())

	again, err := Write(back)
	require.NoError(t, err)
	require.Equal(t, raw, again)
}

func TestHUDGlobalsRoundTrip(t *testing.T) {
	f, err := New(schema.Default(), primitive.GroupHUDGlobals)
	require.NoError(t, err)
	f.Root.Struct("objective_colors").SetFloat("flash_period", 1.5)
	require.NoError(t, f.Root.Struct("time_out_colors").SetInt("number_of_flashes", 3))
	require.NoError(t, f.Root.SetReference("hud_messages", primitive.TagReference{Group: primitive.GroupHUDMessageText, Path: primitive.MustTagPath(`ui\hud\hud messages`)}))
	require.NoError(t, f.Root.Append("waypoint_arrows").SetString32("name", "objective"))

	raw, err := Write(f)
	require.NoError(t, err)
	require.Greater(t, len(raw), HeaderSize+1104)
	require.Equal(t, uint32(1), binary.BigEndian.Uint32(raw[HeaderSize+0x160:]))
	back, err := Read(raw)
	require.NoError(t, err)
	require.Equal(t, float32(1.5), back.Root.Struct("objective_colors").Float("flash_period"))
	require.Equal(t, int64(3), back.Root.Struct("time_out_colors").Int("number_of_flashes"))
	require.Equal(t, `ui\hud\hud messages.hud_message_text`, back.Root.Reference("hud_messages").String())
	require.Equal(t, "objective", back.Root.Reflexive("waypoint_arrows")[0].String32("name"))

	again, err := Write(back)
	require.NoError(t, err)
	require.Equal(t, raw, again)
}

func TestWeaponRoundTrip(t *testing.T) {
	f, err := New(schema.Default(), primitive.GroupWeapon)
	require.NoError(t, err)
	require.NoError(t, f.Root.SetReference("model", primitive.TagReference{Group: primitive.GroupGBXModel, Path: primitive.MustTagPath(`weapons\pistol\pistol`)}))
	require.NoError(t, f.Root.SetString32("label", "pistol"))
	trigger := f.Root.Append("triggers")
	require.NoError(t, trigger.SetReference("projectile", primitive.TagReference{Group: primitive.GroupProjectile, Path: primitive.MustTagPath(`weapons\pistol\bullet`)}))
	require.NoError(t, trigger.Append("firing_effects").SetReference("firing_effect", primitive.TagReference{Group: primitive.GroupEffect, Path: primitive.MustTagPath(`weapons\pistol\effects\fire`)}))
	require.NoError(t, f.Root.Append("magazines").Append("magazine_objects").SetInt("rounds", 12))

	raw, err := Write(f)
	require.NoError(t, err)
	back, err := Read(raw)
	require.NoError(t, err)
	require.Equal(t, `weapons\pistol\pistol.gbxmodel`, back.Root.Reference("model").String())
	require.Equal(t, "pistol", back.Root.String32("label"))
	triggers := back.Root.Reflexive("triggers")
	require.Len(t, triggers, 1)
	require.Equal(t, `weapons\pistol\bullet.projectile`, triggers[0].Reference("projectile").String())
	require.Equal(t, `weapons\pistol\effects\fire.effect`, triggers[0].Reflexive("firing_effects")[0].Reference("firing_effect").String())
	require.Equal(t, int64(12), back.Root.Reflexive("magazines")[0].Reflexive("magazine_objects")[0].Int("rounds"))

	again, err := Write(back)
	require.NoError(t, err)
	require.Equal(t, raw, again)
}
