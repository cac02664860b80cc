// Package pixelfmt encodes and decodes texture pixel data in the formats
// the engine samples from.
//
// Pixel data for a texture is laid out level by level: the base map first,
// then each mipmap. Within a level, every cubemap face (or every slice of a
// 3-D texture) is stored in turn.
package pixelfmt

import (
	"github.com/32bitkid/blam/errs"
)

type Encoding uint8

const (
	A8R8G8B8 Encoding = iota
	A8B8G8R8
	X8R8G8B8
	R5G6B5
	A1R5G5B5
	A4R4G4B4
	A8
	Y8
	AY8
	A8Y8
	P8HCE
	BC1
	BC2
	BC3
	BC7
	encodingCount
)

type encodingInfo struct {
	name       string
	bits       int
	block      int
	palettized bool
	dither     bool
	blockBytes int
}

var encodings = [encodingCount]encodingInfo{
	A8R8G8B8: {name: "a8r8g8b8", bits: 32, block: 1},
	A8B8G8R8: {name: "a8b8g8r8", bits: 32, block: 1},
	X8R8G8B8: {name: "x8r8g8b8", bits: 32, block: 1},
	R5G6B5:   {name: "r5g6b5", bits: 16, block: 1, dither: true},
	A1R5G5B5: {name: "a1r5g5b5", bits: 16, block: 1, dither: true},
	A4R4G4B4: {name: "a4r4g4b4", bits: 16, block: 1, dither: true},
	A8:       {name: "a8", bits: 8, block: 1},
	Y8:       {name: "y8", bits: 8, block: 1},
	AY8:      {name: "ay8", bits: 8, block: 1},
	A8Y8:     {name: "a8y8", bits: 16, block: 1},
	P8HCE:    {name: "p8hce", bits: 8, block: 1, palettized: true, dither: true},
	BC1:      {name: "bc1", bits: 4, block: 4, blockBytes: 8},
	BC2:      {name: "bc2", bits: 8, block: 4, blockBytes: 16},
	BC3:      {name: "bc3", bits: 8, block: 4, blockBytes: 16},
	BC7:      {name: "bc7", bits: 8, block: 4, blockBytes: 16},
}

func (e Encoding) valid() bool { return e < encodingCount }

func (e Encoding) String() string {
	if !e.valid() {
		return "unknown"
	}
	return encodings[e].name
}

// ParseEncoding finds an encoding by its lowercase name.
func ParseEncoding(name string) (Encoding, error) {
	for i, info := range encodings {
		if info.name == name {
			return Encoding(i), nil
		}
	}
	return 0, errs.Invalidf("unknown pixel encoding %q", name)
}

func (e Encoding) BitsPerPixel() int { return encodings[e].bits }

// BlockSize is the width and height of a compression block; 1 for linear
// formats.
func (e Encoding) BlockSize() int { return encodings[e].block }

func (e Encoding) Compressed() bool { return encodings[e].block > 1 }

func (e Encoding) Palettized() bool { return encodings[e].palettized }

// Ditherable reports whether error diffusion applies to the encoding.
func (e Encoding) Ditherable() bool { return encodings[e].dither }

// Monochrome reports whether the encoding stores a single intensity with
// or without alpha.
func (e Encoding) Monochrome() bool {
	switch e {
	case A8, Y8, AY8, A8Y8:
		return true
	}
	return false
}

// MipmapDimensions returns the size of a level. Each dimension halves per
// level and never drops below one.
func MipmapDimensions(width, height, depth, level int) (int, int, int) {
	return max(width>>level, 1), max(height>>level, 1), max(depth>>level, 1)
}

// Shape describes the extent of a texture.
type Shape struct {
	Width, Height, Depth int
	Faces                int
	// Mipmaps counts the levels after the base map.
	Mipmaps int
}

func (s Shape) validate() error {
	if s.Width <= 0 || s.Height <= 0 || s.Depth <= 0 || s.Faces <= 0 || s.Mipmaps < 0 {
		return errs.Invalidf("invalid texture shape %dx%dx%d, %d faces, %d mipmaps", s.Width, s.Height, s.Depth, s.Faces, s.Mipmaps)
	}
	if s.Depth > 1 && s.Faces > 1 {
		return errs.Invalid("a texture cannot have both depth and faces")
	}
	return nil
}

// surface is one 2-D image of a texture.
type surface struct {
	level         int
	width, height int
}

// surfaces lists every surface of a texture in storage order.
func (s Shape) surfaces() []surface {
	var out []surface
	for l := 0; l <= s.Mipmaps; l++ {
		w, h, d := MipmapDimensions(s.Width, s.Height, s.Depth, l)
		for i := 0; i < d*s.Faces; i++ {
			out = append(out, surface{level: l, width: w, height: h})
		}
	}
	return out
}

// PixelCount is the number of pixels the encoder consumes for s.
func (s Shape) PixelCount() int {
	n := 0
	for _, sf := range s.surfaces() {
		n += sf.width * sf.height
	}
	return n
}

func ceilDiv(a, b int) int { return (a + b - 1) / b }

func (e Encoding) surfaceSize(w, h int) int {
	info := encodings[e]
	if info.block > 1 {
		return ceilDiv(w, info.block) * ceilDiv(h, info.block) * info.blockBytes
	}
	return w * h * info.bits / 8
}

// TextureSize is the exact byte length of encoded data for s.
func TextureSize(e Encoding, s Shape) int {
	n := 0
	for _, sf := range s.surfaces() {
		n += e.surfaceSize(sf.width, sf.height)
	}
	return n
}

// EffectivePixelCount counts pixels after block rounding; compressed
// formats store whole blocks at the edges of a surface.
func EffectivePixelCount(e Encoding, s Shape) int {
	b := e.BlockSize()
	n := 0
	for _, sf := range s.surfaces() {
		n += ceilDiv(sf.width, b) * b * ceilDiv(sf.height, b) * b
	}
	return n
}
