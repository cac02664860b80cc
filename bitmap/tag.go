package bitmap

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/klauspost/compress/zlib"

	"github.com/32bitkid/blam/errs"
	"github.com/32bitkid/blam/pixelfmt"
	"github.com/32bitkid/blam/primitive"
	"github.com/32bitkid/blam/tag"
)

var formatNames = map[pixelfmt.Encoding]string{
	pixelfmt.A8:       "a8",
	pixelfmt.Y8:       "y8",
	pixelfmt.AY8:      "ay8",
	pixelfmt.A8Y8:     "a8y8",
	pixelfmt.R5G6B5:   "r5g6b5",
	pixelfmt.A1R5G5B5: "a1r5g5b5",
	pixelfmt.A4R4G4B4: "a4r4g4b4",
	pixelfmt.X8R8G8B8: "x8r8g8b8",
	pixelfmt.A8R8G8B8: "a8r8g8b8",
	pixelfmt.BC1:      "dxt1",
	pixelfmt.BC2:      "dxt3",
	pixelfmt.BC3:      "dxt5",
	pixelfmt.P8HCE:    "p8_bumpmap",
	pixelfmt.BC7:      "bc7",
}

func encodingForFormat(name string) (pixelfmt.Encoding, error) {
	for e, n := range formatNames {
		if n == name {
			return e, nil
		}
	}
	return 0, errs.Unsupportedf("bitmap data format %q has no pixel encoding", name)
}

// encodingFormat is the bitmap tag's user-facing format for an encoding.
func encodingFormat(e pixelfmt.Encoding) string {
	switch e {
	case pixelfmt.BC1:
		return "compressed_with_color_key_transparency"
	case pixelfmt.BC2:
		return "compressed_with_explicit_alpha"
	case pixelfmt.BC3:
		return "compressed_with_interpolated_alpha"
	case pixelfmt.BC7:
		return "high_quality_compression"
	case pixelfmt.A8, pixelfmt.Y8, pixelfmt.AY8, pixelfmt.A8Y8:
		return "monochrome"
	case pixelfmt.R5G6B5, pixelfmt.A1R5G5B5, pixelfmt.A4R4G4B4:
		return "16_bit_color"
	}
	return "32_bit_color"
}

var dataTypeNames = [...]string{
	Texture2D: "2d_texture",
	Texture3D: "3d_texture",
	Cubemap:   "cube_map",
}

type ApplyOptions struct {
	Dither bool
	// ColorPlate, when set, is stored compressed in the tag.
	ColorPlate *Image
}

// ApplyToTag encodes processed bitmaps into a bitmap tag, replacing its
// sequences, bitmap data and pixel data.
func ApplyToTag(t *tag.Struct, pb *ProcessedBitmaps, enc pixelfmt.Encoding, opts ApplyOptions) error {
	format, ok := formatNames[enc]
	if !ok {
		return errs.Unsupportedf("bitmap tags cannot store %s pixels", enc)
	}
	if err := t.SetEnum("type", pb.Type.String()); err != nil {
		return err
	}
	if err := t.SetEnum("encoding_format", encodingFormat(enc)); err != nil {
		return err
	}
	t.SetFlag("flags", "enable_diffusion_dithering", opts.Dither)

	if err := t.SetReflexive("bitmap_group_sequence", nil); err != nil {
		return err
	}
	for i, seq := range pb.Sequences {
		if err := fillSequence(t.Append("bitmap_group_sequence"), seq); err != nil {
			return errs.Wrapf(err, "sequence %d", i)
		}
	}

	if err := t.SetReflexive("bitmap_data", nil); err != nil {
		return err
	}
	var pixels []byte
	for i, b := range pb.Bitmaps {
		shape := pixelfmt.Shape{Width: b.Width, Height: b.Height, Depth: b.Depth, Faces: b.Faces, Mipmaps: b.Mipmaps}
		data, err := pixelfmt.Encode(enc, b.Pixels, shape, opts.Dither)
		if err != nil {
			return errs.Wrapf(err, "encoding bitmap %d", i)
		}
		if err := fillData(t.Append("bitmap_data"), b, enc, format, len(pixels), len(data)); err != nil {
			return errs.Wrapf(err, "bitmap %d", i)
		}
		pixels = append(pixels, data...)
	}
	if err := t.SetData("processed_pixel_data", pixels); err != nil {
		return err
	}

	if opts.ColorPlate != nil {
		plate, err := CompressColorPlate(*opts.ColorPlate)
		if err != nil {
			return err
		}
		if err := t.SetInt("color_plate_width", int64(opts.ColorPlate.Width)); err != nil {
			return err
		}
		if err := t.SetInt("color_plate_height", int64(opts.ColorPlate.Height)); err != nil {
			return err
		}
		if err := t.SetData("compressed_color_plate_data", plate); err != nil {
			return err
		}
	}
	return nil
}

func fillSequence(s *tag.Struct, seq Sequence) error {
	if err := s.SetString32("name", seq.Name); err != nil {
		return err
	}
	first := int64(seq.FirstBitmap)
	if seq.BitmapCount == 0 {
		first = int64(primitive.IndexNone)
	}
	if err := s.SetInt("first_bitmap_index", first); err != nil {
		return err
	}
	if err := s.SetInt("bitmap_count", int64(seq.BitmapCount)); err != nil {
		return err
	}
	for _, sp := range seq.Sprites {
		e := s.Append("sprites")
		if err := e.SetInt("bitmap_index", int64(sp.BitmapIndex)); err != nil {
			return err
		}
		e.SetFloat("left", sp.Left)
		e.SetFloat("right", sp.Right)
		e.SetFloat("top", sp.Top)
		e.SetFloat("bottom", sp.Bottom)
		if err := e.SetFloats("registration_point", sp.RegistrationPoint.X, sp.RegistrationPoint.Y); err != nil {
			return err
		}
	}
	return nil
}

func fillData(d *tag.Struct, b ProcessedBitmap, enc pixelfmt.Encoding, format string, offset, size int) error {
	ints := []struct {
		name string
		v    int64
	}{
		{"class", int64(primitive.NewFourCC("bitm"))},
		{"width", int64(b.Width)},
		{"height", int64(b.Height)},
		{"depth", int64(b.Depth)},
		{"mipmap_count", int64(b.Mipmaps)},
		{"pixel_data_offset", int64(offset)},
		{"pixel_data_size", int64(size)},
	}
	for _, f := range ints {
		if err := d.SetInt(f.name, f.v); err != nil {
			return err
		}
	}
	if err := d.SetEnum("type", dataTypeNames[b.Type]); err != nil {
		return err
	}
	if err := d.SetEnum("format", format); err != nil {
		return err
	}
	d.SetFlag("flags", "power_of_two_dimensions", isPowerOfTwo(b.Width) && isPowerOfTwo(b.Height) && isPowerOfTwo(b.Depth))
	d.SetFlag("flags", "compressed", enc.Compressed())
	d.SetFlag("flags", "palettized", enc.Palettized())

	rx := math.Round(float64(b.RegistrationPoint.X) * float64(b.Width))
	ry := math.Round(float64(b.RegistrationPoint.Y) * float64(b.Height))
	if err := d.SetInts("registration_point", int64(rx), int64(ry)); err != nil {
		return err
	}
	return nil
}

// ExtractFromTag decodes the base map of every bitmap in a bitmap tag.
// Cubemap faces and 3-D texture slices become separate bitmaps, and
// sequences are renumbered to match.
func ExtractFromTag(t *tag.Struct) ([]Sequence, []Bitmap, error) {
	pixels := t.Data("processed_pixel_data")
	var bitmaps []Bitmap
	firstOf := make([]int, 0, len(t.Reflexive("bitmap_data")))
	countOf := make([]int, 0, len(t.Reflexive("bitmap_data")))

	for i, d := range t.Reflexive("bitmap_data") {
		enc, err := encodingForFormat(d.EnumName("format"))
		if err != nil {
			return nil, nil, errs.Wrapf(err, "bitmap %d", i)
		}
		shape := pixelfmt.Shape{
			Width:   int(d.Int("width")),
			Height:  int(d.Int("height")),
			Depth:   max(int(d.Int("depth")), 1),
			Faces:   1,
			Mipmaps: int(d.Int("mipmap_count")),
		}
		switch d.EnumName("type") {
		case "cube_map":
			shape.Faces = 6
		case "3d_texture":
		default:
			shape.Depth = 1
		}

		off, size := int(d.Int("pixel_data_offset")), int(d.Int("pixel_data_size"))
		if off < 0 || size < 0 || off+size > len(pixels) {
			return nil, nil, errs.Malformedf("bitmap %d pixel data 0x%X+0x%X is outside 0x%X bytes", i, off, size, len(pixels))
		}
		if want := pixelfmt.TextureSize(enc, shape); size < want {
			return nil, nil, errs.Malformedf("bitmap %d has 0x%X bytes of pixel data, expected 0x%X", i, size, want)
		}
		px, err := pixelfmt.Decode(enc, pixels[off:off+pixelfmt.TextureSize(enc, shape)], shape)
		if err != nil {
			return nil, nil, errs.Wrapf(err, "bitmap %d", i)
		}

		rp := d.Ints("registration_point")
		reg := primitive.Point2D{
			X: float32(rp[0]) / float32(shape.Width),
			Y: float32(rp[1]) / float32(shape.Height),
		}
		firstOf = append(firstOf, len(bitmaps))
		surfaces := shape.Faces * shape.Depth
		n := shape.Width * shape.Height
		for s := 0; s < surfaces; s++ {
			img := Image{Width: shape.Width, Height: shape.Height, Pixels: px[s*n : (s+1)*n]}
			bitmaps = append(bitmaps, Bitmap{Image: img, RegistrationPoint: reg})
		}
		countOf = append(countOf, surfaces)
	}

	var seqs []Sequence
	for i, s := range t.Reflexive("bitmap_group_sequence") {
		seq := Sequence{Name: s.String32("name")}
		first, count := int(s.Int("first_bitmap_index")), int(s.Int("bitmap_count"))
		if first != int(primitive.IndexNone) && count > 0 {
			if first+count > len(firstOf) {
				return nil, nil, errs.Malformedf("sequence %d refers to bitmaps %d..%d of %d", i, first, first+count-1, len(firstOf))
			}
			seq.FirstBitmap = firstOf[first]
			for j := first; j < first+count; j++ {
				seq.BitmapCount += countOf[j]
			}
		}
		for j, sp := range s.Reflexive("sprites") {
			idx := int(sp.Int("bitmap_index"))
			if idx >= len(firstOf) {
				return nil, nil, errs.Malformedf("sprite %d of sequence %d refers to bitmap %d of %d", j, i, idx, len(firstOf))
			}
			rp := sp.Floats("registration_point")
			seq.Sprites = append(seq.Sprites, Sprite{
				BitmapIndex:       firstOf[idx],
				Left:              sp.Float("left"),
				Right:             sp.Float("right"),
				Top:               sp.Float("top"),
				Bottom:            sp.Float("bottom"),
				RegistrationPoint: primitive.Point2D{X: rp[0], Y: rp[1]},
			})
		}
		seqs = append(seqs, seq)
	}
	return seqs, bitmaps, nil
}

// InputTypeOf reads a bitmap tag's type.
func InputTypeOf(t *tag.Struct) InputType {
	return InputType(t.Enum("type"))
}

// CompressColorPlate stores pixels as A8R8G8B8 behind a big-endian length,
// deflated with zlib.
func CompressColorPlate(img Image) ([]byte, error) {
	raw := make([]byte, 0, len(img.Pixels)*4)
	for _, c := range img.Pixels {
		raw = append(raw, c.B, c.G, c.R, c.A)
	}
	var buf bytes.Buffer
	buf.Write(binary.BigEndian.AppendUint32(nil, uint32(len(raw))))
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecompressColorPlate reverses CompressColorPlate for a plate of the
// given size.
func DecompressColorPlate(b []byte, width, height int) (Image, error) {
	if len(b) < 4 {
		return Image{}, errs.Malformed("compressed color plate is missing its length")
	}
	size := int(binary.BigEndian.Uint32(b))
	if size != width*height*4 {
		return Image{}, errs.Malformedf("color plate holds 0x%X bytes, a %dx%d plate needs 0x%X", size, width, height, width*height*4)
	}
	zr, err := zlib.NewReader(bytes.NewReader(b[4:]))
	if err != nil {
		return Image{}, errs.Wrap(err, "color plate")
	}
	defer zr.Close()
	raw := make([]byte, size)
	if _, err := io.ReadFull(zr, raw); err != nil {
		return Image{}, errs.Wrap(err, "color plate")
	}

	img := NewImage(width, height)
	for i := range img.Pixels {
		p := raw[i*4:]
		img.Pixels[i] = primitive.ColorARGBInt{A: p[3], R: p[2], G: p[1], B: p[0]}
	}
	return img, nil
}
