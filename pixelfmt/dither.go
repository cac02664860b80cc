package pixelfmt

import (
	"math"

	"github.com/32bitkid/blam/primitive"
)

type channels [4]float32

func toChannels(c primitive.ColorARGBInt) channels {
	return channels{float32(c.A), float32(c.R), float32(c.G), float32(c.B)}
}

func (ch channels) color() primitive.ColorARGBInt {
	b := func(v float32) uint8 {
		return uint8(math.Round(float64(min(max(v, 0), 255))))
	}
	return primitive.ColorARGBInt{A: b(ch[0]), R: b(ch[1]), G: b(ch[2]), B: b(ch[3])}
}

// dither applies Floyd-Steinberg error diffusion to one surface, rounding
// each pixel to what e can store. Error is not carried out of pixels on the
// left, right or bottom edge.
func dither(e Encoding, px []primitive.ColorARGBInt, w, h int) []primitive.ColorARGBInt {
	out := make([]primitive.ColorARGBInt, len(px))
	cur := make([]channels, w)
	next := make([]channels, w)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			want := toChannels(px[y*w+x])
			for c := range want {
				want[c] += cur[x][c]
			}
			got := reduce(e, want.color())
			out[y*w+x] = got

			if x == 0 || x == w-1 || y == h-1 {
				continue
			}
			have := toChannels(got)
			for c := range want {
				d := want[c] - have[c]
				cur[x+1][c] += d * 7 / 16
				next[x-1][c] += d * 3 / 16
				next[x][c] += d * 5 / 16
				next[x+1][c] += d * 1 / 16
			}
		}
		cur, next = next, cur
		clear(next)
	}
	return out
}
