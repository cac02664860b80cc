package pixelfmt

import (
	"bytes"
	"encoding/binary"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/32bitkid/blam/errs"
	"github.com/32bitkid/blam/primitive"
)

func allEncodings() []Encoding {
	var out []Encoding
	for e := Encoding(0); e < encodingCount; e++ {
		out = append(out, e)
	}
	return out
}

func noise(seed uint64, n int) []primitive.ColorARGBInt {
	r := rand.New(rand.NewPCG(seed, 7))
	px := make([]primitive.ColorARGBInt, n)
	for i := range px {
		v := r.Uint32()
		px[i] = primitive.ColorARGBInt{A: uint8(v >> 24), R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
	}
	return px
}

func solid(c primitive.ColorARGBInt, n int) []primitive.ColorARGBInt {
	px := make([]primitive.ColorARGBInt, n)
	for i := range px {
		px[i] = c
	}
	return px
}

func TestParseEncoding(t *testing.T) {
	for _, e := range allEncodings() {
		got, err := ParseEncoding(e.String())
		require.NoError(t, err)
		require.Equal(t, e, got)
	}
	_, err := ParseEncoding("dxt9")
	require.ErrorIs(t, err, errs.ErrInvalidInput)
}

func TestMipmapDimensions(t *testing.T) {
	w, h, d := MipmapDimensions(256, 64, 1, 3)
	require.Equal(t, []int{32, 8, 1}, []int{w, h, d})
	w, h, d = MipmapDimensions(8, 2, 4, 5)
	require.Equal(t, []int{1, 1, 1}, []int{w, h, d})
}

func TestTextureSize(t *testing.T) {
	s := Shape{Width: 16, Height: 8, Depth: 1, Faces: 1, Mipmaps: 4}
	// 16x8, 8x4, 4x2, 2x1, 1x1
	require.Equal(t, (128+32+8+2+1)*4, TextureSize(A8R8G8B8, s))
	require.Equal(t, (8+2+1+1+1)*8, TextureSize(BC1, s))
	require.Equal(t, (8+2+1+1+1)*16, TextureSize(BC3, s))
	require.Equal(t, (8+2+1+1+1)*16, EffectivePixelCount(BC3, s))

	cube := Shape{Width: 4, Height: 4, Depth: 1, Faces: 6, Mipmaps: 2}
	require.Equal(t, 6*(16+4+1), TextureSize(P8HCE, cube))
}

func TestEncodeSizeMatches(t *testing.T) {
	shapes := []Shape{
		{Width: 16, Height: 16, Depth: 1, Faces: 1, Mipmaps: 4},
		{Width: 8, Height: 2, Depth: 1, Faces: 6, Mipmaps: 3},
		{Width: 4, Height: 4, Depth: 4, Faces: 1, Mipmaps: 2},
		{Width: 5, Height: 3, Depth: 1, Faces: 1},
	}
	for _, e := range allEncodings() {
		for _, s := range shapes {
			px := noise(uint64(e), s.PixelCount())
			for _, dither := range []bool{false, true} {
				data, err := Encode(e, px, s, dither)
				require.NoError(t, err, e.String())
				require.Len(t, data, TextureSize(e, s), e.String())

				back, err := Decode(e, data, s)
				require.NoError(t, err, e.String())
				require.Len(t, back, s.PixelCount())
			}
		}
	}
}

func TestR5G6B5Red(t *testing.T) {
	s := Shape{Width: 4, Height: 4, Depth: 1, Faces: 1}
	red := primitive.ColorARGBInt{A: 0xFF, R: 0xFF}
	data, err := Encode(R5G6B5, solid(red, 16), s, false)
	require.NoError(t, err)
	require.Equal(t, bytes.Repeat([]byte{0x00, 0xF8}, 16), data)

	back, err := Decode(R5G6B5, data, s)
	require.NoError(t, err)
	require.Equal(t, solid(red, 16), back)
}

func TestByteOrder(t *testing.T) {
	s := Shape{Width: 1, Height: 1, Depth: 1, Faces: 1}
	c := []primitive.ColorARGBInt{{A: 0x11, R: 0x22, G: 0x33, B: 0x44}}
	cases := map[Encoding][]byte{
		A8R8G8B8: {0x44, 0x33, 0x22, 0x11},
		A8B8G8R8: {0x22, 0x33, 0x44, 0x11},
		X8R8G8B8: {0x44, 0x33, 0x22, 0xFF},
		A8:       {0x11},
		Y8:       {0x22},
		A8Y8:     {0x22, 0x11},
	}
	for e, want := range cases {
		got, err := Encode(e, c, s, false)
		require.NoError(t, err)
		require.Equal(t, want, got, e.String())
	}
}

func TestMonochromeDecode(t *testing.T) {
	s := Shape{Width: 1, Height: 1, Depth: 1, Faces: 1}
	cases := map[Encoding]primitive.ColorARGBInt{
		A8:  {A: 0x40, R: 0xFF, G: 0xFF, B: 0xFF},
		Y8:  {A: 0xFF, R: 0x40, G: 0x40, B: 0x40},
		AY8: {A: 0x40, R: 0x40, G: 0x40, B: 0x40},
	}
	for e, want := range cases {
		got, err := Decode(e, []byte{0x40}, s)
		require.NoError(t, err)
		require.Equal(t, want, got[0], e.String())
	}
	got, err := Decode(A8Y8, []byte{0x40, 0x80}, s)
	require.NoError(t, err)
	require.Equal(t, primitive.ColorARGBInt{A: 0x80, R: 0x40, G: 0x40, B: 0x40}, got[0])
}

func TestLossless32(t *testing.T) {
	s := Shape{Width: 8, Height: 8, Depth: 1, Faces: 1, Mipmaps: 3}
	px := noise(1, s.PixelCount())
	for _, e := range []Encoding{A8R8G8B8, A8B8G8R8} {
		data, err := Encode(e, px, s, true)
		require.NoError(t, err)
		back, err := Decode(e, data, s)
		require.NoError(t, err)
		require.Equal(t, px, back)
	}
}

func TestLinearReencodeIsStable(t *testing.T) {
	s := Shape{Width: 8, Height: 4, Depth: 1, Faces: 1, Mipmaps: 1}
	px := noise(2, s.PixelCount())
	for _, e := range allEncodings() {
		if e.Compressed() {
			continue
		}
		first, err := Encode(e, px, s, false)
		require.NoError(t, err)
		back, err := Decode(e, first, s)
		require.NoError(t, err)
		second, err := Encode(e, back, s, false)
		require.NoError(t, err)
		require.Equal(t, first, second, e.String())
	}
}

func TestSixteenBitExpansion(t *testing.T) {
	require.Equal(t, uint8(255), expand(31, 5))
	require.Equal(t, uint8(255), expand(63, 6))
	require.Equal(t, uint8(0), expand(0, 4))
	for v := 0; v < 32; v++ {
		require.Equal(t, uint16(v), quantize(expand(uint8(v), 5), 5))
	}
	require.Equal(t, uint16(0x8000), pack16(A1R5G5B5, primitive.ColorARGBInt{A: 0x80}))
	require.Equal(t, uint16(0), pack16(A1R5G5B5, primitive.ColorARGBInt{A: 0x7F}))
}

func TestPaletteTransparency(t *testing.T) {
	s := Shape{Width: 2, Height: 1, Depth: 1, Faces: 1}
	px := []primitive.ColorARGBInt{{A: 0, R: 127, G: 127, B: 255}, {A: 0xFF, R: 127, G: 127, B: 255}}
	data, err := Encode(P8HCE, px, s, false)
	require.NoError(t, err)
	require.Equal(t, []byte{0xFF, 0x00}, data)

	back, err := Decode(P8HCE, data, s)
	require.NoError(t, err)
	require.Zero(t, back[0].A)
	require.Equal(t, uint8(0xFF), back[1].A)
}

func TestDitherPreservesFlatColor(t *testing.T) {
	s := Shape{Width: 8, Height: 8, Depth: 1, Faces: 1}
	c := primitive.ColorARGBInt{A: 0xFF, R: 0xFF, G: 0x00, B: 0xFF}
	plain, err := Encode(R5G6B5, solid(c, 64), s, false)
	require.NoError(t, err)
	dithered, err := Encode(R5G6B5, solid(c, 64), s, true)
	require.NoError(t, err)
	require.Equal(t, plain, dithered)
}

func TestDitherAveragesGradient(t *testing.T) {
	const w, h = 64, 64
	c := primitive.ColorARGBInt{A: 0xFF, R: 0x84, G: 0x84, B: 0x84}
	out := dither(A4R4G4B4, solid(c, w*h), w, h)
	sum := 0
	for _, p := range out {
		sum += int(p.R)
	}
	require.InDelta(t, float64(c.R), float64(sum)/float64(len(out)), 3)
	seen := map[primitive.ColorARGBInt]bool{}
	for _, p := range out {
		seen[p] = true
	}
	require.Greater(t, len(seen), 1)
}

func within(t *testing.T, want, got primitive.ColorARGBInt, tol int) {
	t.Helper()
	d := func(a, b uint8) int {
		if a > b {
			return int(a - b)
		}
		return int(b - a)
	}
	require.LessOrEqual(t, max(d(want.A, got.A), d(want.R, got.R), d(want.G, got.G), d(want.B, got.B)), tol, "want %v got %v", want, got)
}

func TestBlockSolidColors(t *testing.T) {
	s := Shape{Width: 8, Height: 8, Depth: 1, Faces: 1}
	colors := []primitive.ColorARGBInt{
		{A: 0xFF, R: 0xFF},
		{A: 0xFF, R: 0x10, G: 0x80, B: 0xF0},
		{A: 0xFF},
		{A: 0xFF, R: 0xFF, G: 0xFF, B: 0xFF},
	}
	for _, e := range []Encoding{BC1, BC2, BC3, BC7} {
		for _, c := range colors {
			data, err := Encode(e, solid(c, 64), s, false)
			require.NoError(t, err)
			back, err := Decode(e, data, s)
			require.NoError(t, err)
			for _, p := range back {
				within(t, c, p, 8)
			}
		}
	}
}

func TestBlockGradient(t *testing.T) {
	s := Shape{Width: 4, Height: 4, Depth: 1, Faces: 1}
	px := make([]primitive.ColorARGBInt, 16)
	for i := range px {
		v := uint8(i * 17)
		px[i] = primitive.ColorARGBInt{A: 0xFF - v/2, R: v, G: v / 2, B: 0xFF - v}
	}
	for _, e := range []Encoding{BC1, BC3, BC7} {
		data, err := Encode(e, px, s, false)
		require.NoError(t, err)
		back, err := Decode(e, data, s)
		require.NoError(t, err)
		for i := range px {
			want := px[i]
			if e == BC1 {
				want.A = 0xFF
			}
			within(t, want, back[i], 48)
		}
	}
}

func TestBC1Transparency(t *testing.T) {
	s := Shape{Width: 4, Height: 4, Depth: 1, Faces: 1}
	px := solid(primitive.ColorARGBInt{A: 0xFF, G: 0xFF}, 16)
	px[5] = primitive.ColorARGBInt{}
	px[6] = primitive.ColorARGBInt{A: 0x20, G: 0xFF}
	data, err := Encode(BC1, px, s, false)
	require.NoError(t, err)
	require.LessOrEqual(t, binary.LittleEndian.Uint16(data), binary.LittleEndian.Uint16(data[2:]))

	back, err := Decode(BC1, data, s)
	require.NoError(t, err)
	require.Zero(t, back[5].A)
	require.Equal(t, uint8(0xFF), back[6].A)
	require.Equal(t, uint8(0xFF), back[0].G)

	none := solid(primitive.ColorARGBInt{}, 16)
	data, err = Encode(BC1, none, s, false)
	require.NoError(t, err)
	back, err = Decode(BC1, data, s)
	require.NoError(t, err)
	require.Equal(t, none, back)
}

func TestBC2Alpha(t *testing.T) {
	s := Shape{Width: 4, Height: 4, Depth: 1, Faces: 1}
	px := make([]primitive.ColorARGBInt, 16)
	for i := range px {
		px[i] = primitive.ColorARGBInt{A: uint8(i * 17), R: 0x80}
	}
	data, err := Encode(BC2, px, s, false)
	require.NoError(t, err)
	back, err := Decode(BC2, data, s)
	require.NoError(t, err)
	for i := range px {
		require.Equal(t, px[i].A, back[i].A)
	}
}

func TestBC7Mode6Layout(t *testing.T) {
	s := Shape{Width: 4, Height: 4, Depth: 1, Faces: 1}
	data, err := Encode(BC7, noise(3, 16), s, false)
	require.NoError(t, err)
	require.Equal(t, byte(1<<6), data[0]&0x7F)

	b := bits128{lo: binary.LittleEndian.Uint64(data), hi: binary.LittleEndian.Uint64(data[8:])}
	b.pos = 65
	require.Less(t, b.read(3), 8)
}

func TestBC7OtherModes(t *testing.T) {
	s := Shape{Width: 4, Height: 4, Depth: 1, Faces: 1}

	back, err := Decode(BC7, make([]byte, 16), s)
	require.NoError(t, err)
	require.Equal(t, solid(primitive.ColorARGBInt{}, 16), back)

	// Mode 0 with zeroed endpoints has no alpha channel: opaque black.
	mode0 := make([]byte, 16)
	mode0[0] = 1
	back, err = Decode(BC7, mode0, s)
	require.NoError(t, err)
	require.Equal(t, solid(primitive.ColorARGBInt{A: 0xFF}, 16), back)

	// Mode 5 with every endpoint bit set decodes to opaque white.
	var b bits128
	b.write(6, 1<<5)
	b.write(2, 0)
	for range 6 {
		b.write(7, 0x7F)
	}
	b.write(8, 0xFF)
	b.write(8, 0xFF)
	mode5 := binary.LittleEndian.AppendUint64(nil, b.lo)
	mode5 = binary.LittleEndian.AppendUint64(mode5, b.hi)
	back, err = Decode(BC7, mode5, s)
	require.NoError(t, err)
	require.Equal(t, solid(primitive.ColorARGBInt{A: 0xFF, R: 0xFF, G: 0xFF, B: 0xFF}, 16), back)
}

func bc7Block(b bits128) []byte {
	out := binary.LittleEndian.AppendUint64(nil, b.lo)
	return binary.LittleEndian.AppendUint64(out, b.hi)
}

func TestBC7TwoSubsets(t *testing.T) {
	s := Shape{Width: 4, Height: 4, Depth: 1, Faces: 1}

	// Mode 1, partition 0: the two right columns are subset 1. Subset 0
	// is solid red; subset 1 runs from blue to green.
	var b bits128
	b.write(2, 1<<1)
	b.write(6, 0)
	for _, v := range [][4]int{{63, 63, 0, 0}, {0, 0, 0, 63}, {0, 0, 63, 0}} {
		for _, x := range v {
			b.write(6, x)
		}
	}
	b.write(1, 0)
	b.write(1, 0)
	for i := range 16 {
		switch {
		case i == 0:
			b.write(2, 0)
		case i == 15:
			b.write(2, 3)
		case i%4 >= 2:
			b.write(3, 7)
		default:
			b.write(3, 0)
		}
	}
	require.Equal(t, uint(128), b.pos)

	back, err := Decode(BC7, bc7Block(b), s)
	require.NoError(t, err)
	red := primitive.ColorARGBInt{A: 0xFF, R: 253}
	green := primitive.ColorARGBInt{A: 0xFF, G: 253}
	for i, c := range back[:15] {
		if i%4 >= 2 {
			require.Equal(t, green, c, "pixel %d", i)
		} else {
			require.Equal(t, red, c, "pixel %d", i)
		}
	}
	require.Equal(t, primitive.ColorARGBInt{A: 0xFF, G: 107, B: 146}, back[15])
}

func TestBC7ThreeSubsets(t *testing.T) {
	s := Shape{Width: 4, Height: 4, Depth: 1, Faces: 1}

	// Mode 2, partition 0: subset 0 is the top-left, subset 1 the right
	// columns and subset 2 the bottom rows. Each subset is solid.
	var b bits128
	b.write(3, 1<<2)
	b.write(6, 0)
	for _, v := range [][6]int{{31, 31, 0, 0, 0, 0}, {0, 0, 31, 31, 0, 0}, {0, 0, 0, 0, 31, 31}} {
		for _, x := range v {
			b.write(5, x)
		}
	}
	for i := range 16 {
		if i == 0 || i == 3 || i == 15 {
			b.write(1, 0)
		} else {
			b.write(2, 0)
		}
	}
	require.Equal(t, uint(128), b.pos)

	back, err := Decode(BC7, bc7Block(b), s)
	require.NoError(t, err)
	colors := []primitive.ColorARGBInt{
		{A: 0xFF, R: 0xFF},
		{A: 0xFF, G: 0xFF},
		{A: 0xFF, B: 0xFF},
	}
	want := []int{0, 0, 1, 1, 0, 0, 1, 1, 0, 2, 2, 1, 2, 2, 2, 2}
	for i, sub := range want {
		require.Equal(t, colors[sub], back[i], "pixel %d", i)
	}
}

func TestBC7Mode7Alpha(t *testing.T) {
	s := Shape{Width: 4, Height: 4, Depth: 1, Faces: 1}

	var b bits128
	b.write(8, 1<<7)
	b.write(6, 13)
	for range 3 {
		for range 4 {
			b.write(5, 31)
		}
	}
	for _, a := range []int{0, 0, 31, 31} {
		b.write(5, a)
	}
	b.write(4, 0b1100)
	for i := range 16 {
		if i == 0 || i == 15 {
			b.write(1, 0)
		} else {
			b.write(2, 0)
		}
	}
	require.Equal(t, uint(128), b.pos)

	back, err := Decode(BC7, bc7Block(b), s)
	require.NoError(t, err)
	mask := bc7Partitions2[13]
	for i, c := range back {
		want := primitive.ColorARGBInt{A: 0, R: 0xFB, G: 0xFB, B: 0xFB}
		if mask>>i&1 == 1 {
			want = primitive.ColorARGBInt{A: 0xFF, R: 0xFF, G: 0xFF, B: 0xFF}
		}
		require.Equal(t, want, c, "pixel %d", i)
	}
}

func TestWorkerCountDoesNotChangeOutput(t *testing.T) {
	s := Shape{Width: 64, Height: 32, Depth: 1, Faces: 1, Mipmaps: 6}
	px := noise(4, s.PixelCount())
	for _, e := range []Encoding{BC3, R5G6B5, P8HCE} {
		one, err := encodeWith(e, px, s, true, 1)
		require.NoError(t, err)
		many, err := encodeWith(e, px, s, true, 8)
		require.NoError(t, err)
		require.Equal(t, one, many, e.String())
	}
}

func TestEncodeRejects(t *testing.T) {
	s := Shape{Width: 4, Height: 4, Depth: 1, Faces: 1}
	_, err := Encode(A8, make([]primitive.ColorARGBInt, 15), s, false)
	require.ErrorIs(t, err, errs.ErrInvalidInput)

	_, err = Encode(A8, nil, Shape{Width: 4, Height: 4, Depth: 2, Faces: 6}, false)
	require.ErrorIs(t, err, errs.ErrInvalidInput)

	_, err = Decode(BC1, make([]byte, 7), s)
	require.ErrorIs(t, err, errs.ErrMalformedData)
}
