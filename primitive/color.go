package primitive

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ColorRGB and ColorARGB hold channels in [0, 1].
type ColorRGB struct{ R, G, B float32 }

type ColorARGB struct{ A, R, G, B float32 }

// ColorRGBInt is stored on disk as four bytes: an unused byte then R, G, B.
type ColorRGBInt struct{ R, G, B uint8 }

// ColorARGBInt is the pixel type of the bitmap pipeline.
type ColorARGBInt struct{ A, R, G, B uint8 }

// ColorHSV and ColorAHSV hold hue, saturation and value in [0, 1].
type ColorHSV struct{ H, S, V float32 }

type ColorAHSV struct{ A, H, S, V float32 }

func clampUnit(f float32) float32 {
	switch {
	case f != f:
		return 0
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

func toByte(f float32) uint8 {
	return uint8(math.Round(float64(clampUnit(f)) * 255))
}

func (c ColorARGBInt) Float() ColorARGB {
	return ColorARGB{
		A: float32(c.A) / 255,
		R: float32(c.R) / 255,
		G: float32(c.G) / 255,
		B: float32(c.B) / 255,
	}
}

func (c ColorARGB) Int() ColorARGBInt {
	return ColorARGBInt{A: toByte(c.A), R: toByte(c.R), G: toByte(c.G), B: toByte(c.B)}
}

func (c ColorARGB) RGB() ColorRGB { return ColorRGB{c.R, c.G, c.B} }

func (c ColorARGB) Clamped() ColorARGB {
	return ColorARGB{clampUnit(c.A), clampUnit(c.R), clampUnit(c.G), clampUnit(c.B)}
}

// Uint32 packs c as 0xAARRGGBB.
func (c ColorARGBInt) Uint32() uint32 {
	return uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

func ColorARGBIntFromUint32(v uint32) ColorARGBInt {
	return ColorARGBInt{A: uint8(v >> 24), R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}

// RGB24 returns the color without alpha as 0xRRGGBB.
func (c ColorARGBInt) RGB24() uint32 { return c.Uint32() & 0xFFFFFF }

// Luminance uses Rec. 601 weights.
func (c ColorARGBInt) Luminance() uint8 {
	return uint8((299*uint32(c.R) + 587*uint32(c.G) + 114*uint32(c.B) + 500) / 1000)
}

// AlphaBlend composites source over base. A fully transparent source
// leaves base untouched, even when base is transparent too.
func AlphaBlend(base, source ColorARGB) ColorARGB {
	if source.A <= 0 {
		return base
	}
	inv := 1 - source.A
	a := source.A + base.A*inv
	if a <= 0 {
		return ColorARGB{}
	}
	return ColorARGB{
		A: a,
		R: (source.R*source.A + base.R*base.A*inv) / a,
		G: (source.G*source.A + base.G*base.A*inv) / a,
		B: (source.B*source.A + base.B*base.A*inv) / a,
	}
}

func (c ColorARGB) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B)}
}

// GammaDecompress converts sRGB channels to linear light. Alpha is kept.
func GammaDecompress(c ColorARGB) ColorARGB {
	r, g, b := c.colorful().LinearRgb()
	return ColorARGB{A: c.A, R: float32(r), G: float32(g), B: float32(b)}
}

// GammaCompress converts linear channels back to sRGB. Alpha is kept.
func GammaCompress(c ColorARGB) ColorARGB {
	out := colorful.LinearRgb(float64(c.R), float64(c.G), float64(c.B))
	return ColorARGB{A: c.A, R: float32(out.R), G: float32(out.G), B: float32(out.B)}
}

func (c ColorARGB) ToHSV() ColorAHSV {
	h, s, v := c.colorful().Hsv()
	return ColorAHSV{A: c.A, H: float32(h / 360), S: float32(s), V: float32(v)}
}

func (c ColorAHSV) ToRGB() ColorARGB {
	out := colorful.Hsv(float64(c.H)*360, float64(c.S), float64(c.V))
	return ColorARGB{A: c.A, R: float32(out.R), G: float32(out.G), B: float32(out.B)}
}

// Mix interpolates between a and b in RGB space, t in [0, 1].
func Mix(a, b ColorARGB, t float32) ColorARGB {
	m := a.colorful().BlendRgb(b.colorful(), float64(t))
	return ColorARGB{
		A: a.A + (b.A-a.A)*t,
		R: float32(m.R),
		G: float32(m.G),
		B: float32(m.B),
	}
}
