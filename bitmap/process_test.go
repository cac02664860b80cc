package bitmap

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/32bitkid/blam/pixelfmt"
	"github.com/32bitkid/blam/primitive"
)

func ptr[T any](v T) *T { return &v }

func single(img Image) *ColorPlate {
	return &ColorPlate{
		Type:    TwoDimensionalTextures,
		Bitmaps: []Bitmap{{Image: img, RegistrationPoint: primitive.Point2D{X: 0.5, Y: 0.5}}},
	}
}

func shapeOf(b ProcessedBitmap) pixelfmt.Shape {
	return pixelfmt.Shape{Width: b.Width, Height: b.Height, Depth: b.Depth, Faces: b.Faces, Mipmaps: b.Mipmaps}
}

func TestMipmapCount(t *testing.T) {
	require.Equal(t, 4, MipmapCount(16, 4))
	require.Equal(t, 0, MipmapCount(1, 1))
	require.Equal(t, 7, MipmapCount(2, 128))
}

func TestProcessMipmapChain(t *testing.T) {
	out, err := Process(single(pattern(16, 4, 1)), ProcessingOptions{})
	require.NoError(t, err)
	require.Len(t, out.Bitmaps, 1)
	require.Empty(t, out.Sequences)

	b := out.Bitmaps[0]
	require.Equal(t, Texture2D, b.Type)
	require.Equal(t, 4, b.Mipmaps)
	require.Len(t, b.Pixels, 64+16+4+2+1)
	require.Len(t, b.Pixels, shapeOf(b).PixelCount())

	t.Run("limit", func(t *testing.T) {
		out, err := Process(single(pattern(16, 4, 1)), ProcessingOptions{MaxMipmaps: ptr(2)})
		require.NoError(t, err)
		require.Equal(t, 2, out.Bitmaps[0].Mipmaps)
		require.Len(t, out.Bitmaps[0].Pixels, 64+16+4)
	})

	t.Run("negative limit", func(t *testing.T) {
		out, err := Process(single(pattern(16, 4, 1)), ProcessingOptions{MaxMipmaps: ptr(-3)})
		require.NoError(t, err)
		require.Zero(t, out.Bitmaps[0].Mipmaps)
	})
}

func TestHalve(t *testing.T) {
	m := NewImage(2, 2)
	m.Set(0, 0, primitive.ColorARGBInt{A: 0, R: 0})
	m.Set(1, 0, primitive.ColorARGBInt{A: 0xFF, R: 1})
	m.Set(0, 1, primitive.ColorARGBInt{A: 0xFF, R: 2})
	m.Set(1, 1, primitive.ColorARGBInt{A: 0xFF, R: 4})

	h := halve(m, false)
	require.Equal(t, 1, h.Width)
	require.Equal(t, primitive.ColorARGBInt{A: 191, R: 2}, h.At(0, 0))

	h = halve(m, true)
	require.Equal(t, uint8(0), h.At(0, 0).A)
	require.Equal(t, uint8(2), h.At(0, 0).R)

	tall := halve(filled(1, 4, red), false)
	require.Equal(t, 1, tall.Width)
	require.Equal(t, 2, tall.Height)
	require.Equal(t, red, tall.At(0, 1))
}

func TestSequencesFollowProcessedBitmaps(t *testing.T) {
	plate := &ColorPlate{
		Type: TwoDimensionalTextures,
		Bitmaps: []Bitmap{
			{Image: filled(4, 4, red)},
			{Image: filled(2, 2, green)},
			{Image: filled(8, 8, yellow)},
		},
		Sequences: []Sequence{
			{Name: "a", FirstBitmap: 0, BitmapCount: 2},
			{Name: "b", FirstBitmap: 2, BitmapCount: 1},
		},
	}
	out, err := Process(plate, ProcessingOptions{})
	require.NoError(t, err)
	require.Len(t, out.Bitmaps, 3)
	require.Equal(t, []Sequence{
		{Name: "a", FirstBitmap: 0, BitmapCount: 2},
		{Name: "b", FirstBitmap: 2, BitmapCount: 1},
	}, out.Sequences)
	require.Equal(t, 3, out.Bitmaps[2].Mipmaps)
}

func TestDetailFade(t *testing.T) {
	base := filled(4, 4, primitive.ColorARGBInt{A: 0x40, R: 0xFF})

	out, err := Process(single(base), ProcessingOptions{DetailFadeFactor: ptr[float32](1)})
	require.NoError(t, err)
	px := out.Bitmaps[0].Pixels
	for i, c := range px {
		if i < 16 {
			require.Equal(t, uint8(0xFF), c.R, "base map is left alone")
			continue
		}
		require.Equal(t, primitive.ColorARGBInt{A: 0x40, R: 128, G: 128, B: 128}, c)
	}

	out, err = Process(single(base), ProcessingOptions{DetailFadeFactor: ptr[float32](0)})
	require.NoError(t, err)
	px = out.Bitmaps[0].Pixels
	level1, level2 := px[16], px[20]
	require.Greater(t, level1.R, level2.R)
	require.Greater(t, level2.R, uint8(128))
	require.Equal(t, level1.G, level1.B)
}

func TestAlphaBiasAndTruncate(t *testing.T) {
	img := filled(2, 2, primitive.ColorARGBInt{R: 9})

	out, err := Process(single(img), ProcessingOptions{AlphaBias: ptr[float32](0.5)})
	require.NoError(t, err)
	require.Equal(t, uint8(128), out.Bitmaps[0].Pixels[0].A)

	out, err = Process(single(img), ProcessingOptions{TruncateZeroAlpha: true})
	require.NoError(t, err)
	for _, c := range out.Bitmaps[0].Pixels {
		require.Equal(t, primitive.ColorARGBInt{}, c)
	}
}

func TestVectorize(t *testing.T) {
	img := filled(1, 1, primitive.ColorARGBInt{A: 0x80, R: 0xFF, G: 0x80, B: 0x80})
	out, err := Process(single(img), ProcessingOptions{Vectorize: true})
	require.NoError(t, err)
	c := out.Bitmaps[0].Pixels[0]
	require.Equal(t, uint8(0xFF), c.R)
	require.InDelta(t, 128, int(c.G), 1)
	require.InDelta(t, 128, int(c.B), 1)
	require.Equal(t, uint8(0x80), c.A)
}

func TestProcessCubemap(t *testing.T) {
	plate := &ColorPlate{Type: Cubemaps, Sequences: []Sequence{{BitmapCount: 6}}}
	for i := 0; i < 6; i++ {
		plate.Bitmaps = append(plate.Bitmaps, Bitmap{Image: pattern(4, 4, uint8(i))})
	}
	out, err := Process(plate, ProcessingOptions{})
	require.NoError(t, err)
	require.Len(t, out.Bitmaps, 1)
	require.Equal(t, []Sequence{{BitmapCount: 1}}, out.Sequences)

	b := out.Bitmaps[0]
	require.Equal(t, Cubemap, b.Type)
	require.Equal(t, 6, b.Faces)
	require.Equal(t, 2, b.Mipmaps)
	require.Len(t, b.Pixels, shapeOf(b).PixelCount())
	// The second face follows the first at the base level.
	require.Equal(t, pattern(4, 4, 1).Pixels, b.Pixels[16:32])
}

func TestProcessThreeDimensional(t *testing.T) {
	plate := &ColorPlate{Type: ThreeDimensionalTextures, Sequences: []Sequence{{BitmapCount: 4}}}
	for k := 0; k < 4; k++ {
		plate.Bitmaps = append(plate.Bitmaps, Bitmap{Image: filled(4, 4, primitive.ColorARGBInt{A: 0xFF, R: uint8(k * 10)})})
	}
	out, err := Process(plate, ProcessingOptions{})
	require.NoError(t, err)
	require.Len(t, out.Bitmaps, 1)

	b := out.Bitmaps[0]
	require.Equal(t, Texture3D, b.Type)
	require.Equal(t, 4, b.Depth)
	require.Equal(t, 2, b.Mipmaps)
	require.Len(t, b.Pixels, 73)
	require.Len(t, b.Pixels, shapeOf(b).PixelCount())

	require.Equal(t, uint8(5), b.Pixels[64].R)
	require.Equal(t, uint8(25), b.Pixels[68].R)
	require.Equal(t, uint8(15), b.Pixels[72].R)
}

type invert struct{ calls int }

func (f *invert) Apply(img Image, _ float32) Image {
	f.calls++
	out := NewImage(img.Width, img.Height)
	for i, c := range img.Pixels {
		out.Pixels[i] = primitive.ColorARGBInt{A: c.A, R: 0xFF - c.R, G: 0xFF - c.G, B: 0xFF - c.B}
	}
	return out
}

func TestFilters(t *testing.T) {
	out, err := Process(single(filled(4, 4, red)), ProcessingOptions{SharpenFactor: ptr[float32](0.5)})
	require.NoError(t, err)
	require.Equal(t, []string{"no sharpen filter is configured"}, out.Warnings)
	require.Equal(t, red, out.Bitmaps[0].Pixels[0])

	blur := &invert{}
	out, err = Process(single(filled(4, 4, red)), ProcessingOptions{BlurFactor: ptr[float32](1), Blur: blur})
	require.NoError(t, err)
	require.Empty(t, out.Warnings)
	require.Equal(t, 3, blur.calls)
	for _, c := range out.Bitmaps[0].Pixels {
		require.Equal(t, primitive.ColorARGBInt{A: 0xFF, G: 0xFF, B: 0xFF}, c)
	}
}

type flatBump struct{ height float32 }

func (f *flatBump) ConvertHeightmap(img Image, height float32) (Image, error) {
	f.height = height
	return filled(img.Width, img.Height, primitive.ColorARGBInt{A: 0xFF, R: 0x80, G: 0x80, B: 0xFF}), nil
}

func TestHeightmapConversion(t *testing.T) {
	gray := primitive.ColorARGBInt{A: 0xFF, R: 0x40, G: 0x40, B: 0x40}
	plate := &ColorPlate{
		Type: TwoDimensionalTextures,
		Bitmaps: []Bitmap{
			{Image: filled(2, 2, gray)},
			{Image: filled(2, 2, red)},
		},
	}
	conv := &flatBump{}
	out, err := Process(plate, ProcessingOptions{BumpmapHeight: ptr[float32](0.25), Heightmap: conv})
	require.NoError(t, err)
	require.Equal(t, float32(0.25), conv.height)
	require.Equal(t, primitive.ColorARGBInt{A: 0xFF, R: 0x80, G: 0x80, B: 0xFF}, out.Bitmaps[0].Pixels[0])
	require.Equal(t, red, out.Bitmaps[1].Pixels[0])

	out, err = Process(plate, ProcessingOptions{Heightmap: conv})
	require.NoError(t, err)
	require.Equal(t, gray, out.Bitmaps[0].Pixels[0])
	require.Empty(t, out.Warnings)

	out, err = Process(plate, ProcessingOptions{BumpmapHeight: ptr[float32](0.25)})
	require.NoError(t, err)
	require.Equal(t, gray, out.Bitmaps[0].Pixels[0])
	require.Equal(t, []string{"no heightmap converter is configured"}, out.Warnings)
}

func TestProcessSharedSpriteSheet(t *testing.T) {
	img := dividedPlate(16, 19, nil)
	divider(img, 1)
	paint(img, 2, 2, 8, 8, red)
	divider(img, 10)
	paint(img, 3, 12, 4, 4, green)

	plate, err := ScanColorPlate(img, ColorPlateOptions{
		InputType:              Sprites,
		BakeSpriteSheets:       true,
		SpriteBudgetLength:     32,
		SpriteBudgetCount:      1,
		PreferredSpriteSpacing: 4,
	})
	require.NoError(t, err)
	require.True(t, plate.SpriteSheets)
	require.Len(t, plate.Bitmaps, 1)

	out, err := Process(plate, ProcessingOptions{MaxMipmaps: ptr(1)})
	require.NoError(t, err)
	require.Len(t, out.Bitmaps, 1)
	require.Equal(t, 32, out.Bitmaps[0].Width)
	require.Equal(t, 1, out.Bitmaps[0].Mipmaps)

	require.Equal(t, [][2]int{{0, 1}, {0, 1}}, counts(out.Sequences))
	for i, seq := range out.Sequences {
		require.Equal(t, plate.Sequences[i].Sprites, seq.Sprites)
		for _, sp := range seq.Sprites {
			require.Less(t, sp.BitmapIndex, len(out.Bitmaps))
		}
	}

	f := newBitmapTag(t)
	require.NoError(t, ApplyToTag(f.Root, out, pixelfmt.A8R8G8B8, ApplyOptions{}))
	g := rewrite(t, f)
	require.Len(t, g.Root.Reflexive("bitmap_data"), 1)
	seqs, bitmaps, err := ExtractFromTag(g.Root)
	require.NoError(t, err)
	require.Len(t, bitmaps, 1)
	require.Equal(t, [][2]int{{0, 1}, {0, 1}}, counts(seqs))
	require.Equal(t, red, bitmaps[0].At(4, 4))
	require.Equal(t, green, bitmaps[0].At(20, 4))
}
