package primitive

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAlphaBlend(t *testing.T) {
	a := ColorARGB{A: 1, R: 0.25, G: 0.5, B: 0.75}
	require.Equal(t, a, AlphaBlend(a, a))

	b := ColorARGB{A: 0, R: 1, G: 1, B: 1}
	require.Equal(t, a, AlphaBlend(a, b))

	transparent := ColorARGB{A: 0, R: 0.25, G: 0.5, B: 0.75}
	require.Equal(t, transparent, AlphaBlend(transparent, b))
	require.Equal(t, transparent, AlphaBlend(transparent, ColorARGB{}))

	half := AlphaBlend(ColorARGB{A: 1}, ColorARGB{A: 0.5, R: 1, G: 1, B: 1})
	require.InDelta(t, 1.0, half.A, 1e-6)
	require.InDelta(t, 0.5, half.R, 1e-6)
}

func TestGammaRoundTrip(t *testing.T) {
	for _, v := range []float32{0, 0.01, 0.2, 0.5, 0.8, 1} {
		c := ColorARGB{A: 0.5, R: v, G: 1 - v, B: v / 2}
		out := GammaCompress(GammaDecompress(c))
		require.InDelta(t, c.R, out.R, 1e-4)
		require.InDelta(t, c.G, out.G, 1e-4)
		require.InDelta(t, c.B, out.B, 1e-4)
		require.Equal(t, c.A, out.A)
	}
}

func TestHSVRoundTrip(t *testing.T) {
	c := ColorARGB{A: 1, R: 0.2, G: 0.6, B: 0.4}
	out := c.ToHSV().ToRGB()
	require.InDelta(t, c.R, out.R, 1e-5)
	require.InDelta(t, c.G, out.G, 1e-5)
	require.InDelta(t, c.B, out.B, 1e-5)
}

func TestVectorNormalizeIdempotent(t *testing.T) {
	v := VectorNormalize(Vector3D{3, 4, 12})
	again := VectorNormalize(v)
	require.InDelta(t, 1.0, v.Length(), 1e-6)
	require.InDelta(t, v.I, again.I, 1e-6)
	require.InDelta(t, v.J, again.J, 1e-6)
	require.InDelta(t, v.K, again.K, 1e-6)
}

func TestIntConversions(t *testing.T) {
	c := ColorARGBInt{A: 255, R: 128, G: 0, B: 64}
	require.Equal(t, c, c.Float().Int())
	require.Equal(t, uint32(0xFF800040), c.Uint32())
	require.Equal(t, c, ColorARGBIntFromUint32(0xFF800040))
}

func TestBounds(t *testing.T) {
	b := Bounds[float32]{Lower: 2, Upper: 1}
	require.False(t, b.IsNormalized())
	require.Equal(t, Bounds[float32]{1, 2}, b.Normalized())
	require.Equal(t, Bounds[float32]{2, 2}, b.ClampUpper())
	require.Equal(t, Bounds[float32]{1, 1}, b.ClampLower())
	require.True(t, Bounds[int16]{-1, 1}.Contains(0))
}
