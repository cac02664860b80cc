package pixelfmt

import (
	"encoding/binary"

	"github.com/32bitkid/blam/errs"
	"github.com/32bitkid/blam/primitive"
)

type block [16]primitive.ColorARGBInt

// encodeBlocks compresses one surface. Blocks that hang over the right or
// bottom edge repeat the last column or row.
func encodeBlocks(e Encoding, px []primitive.ColorARGBInt, w, h int, out []byte) []byte {
	for by := 0; by < h; by += 4 {
		for bx := 0; bx < w; bx += 4 {
			var blk block
			for y := 0; y < 4; y++ {
				for x := 0; x < 4; x++ {
					sx, sy := min(bx+x, w-1), min(by+y, h-1)
					blk[y*4+x] = px[sy*w+sx]
				}
			}
			switch e {
			case BC1:
				out = encodeBC1(out, &blk)
			case BC2:
				out = encodeBC2Alpha(out, &blk)
				out = encodeColorBlock(out, &blk)
			case BC3:
				out = encodeBC3Alpha(out, &blk)
				out = encodeColorBlock(out, &blk)
			case BC7:
				out = encodeBC7(out, &blk)
			default:
				errs.Bug("%s is not a block encoding", e)
			}
		}
	}
	return out
}

func decodeBlocks(e Encoding, data []byte, px []primitive.ColorARGBInt, w, h int) {
	size := encodings[e].blockBytes
	at := 0
	for by := 0; by < h; by += 4 {
		for bx := 0; bx < w; bx += 4 {
			var blk block
			b := data[at : at+size]
			at += size
			switch e {
			case BC1:
				decodeColorBlock(b, &blk, true)
			case BC2:
				decodeColorBlock(b[8:], &blk, false)
				decodeBC2Alpha(b, &blk)
			case BC3:
				decodeColorBlock(b[8:], &blk, false)
				decodeBC3Alpha(b, &blk)
			case BC7:
				decodeBC7(b, &blk)
			default:
				errs.Bug("%s is not a block encoding", e)
			}
			for y := 0; y < 4 && by+y < h; y++ {
				for x := 0; x < 4 && bx+x < w; x++ {
					px[(by+y)*w+bx+x] = blk[y*4+x]
				}
			}
		}
	}
}

func to565(c primitive.ColorARGBInt) uint16 {
	return quantize(c.R, 5)<<11 | quantize(c.G, 6)<<5 | quantize(c.B, 5)
}

func from565(v uint16) primitive.ColorARGBInt {
	return primitive.ColorARGBInt{
		A: 0xFF,
		R: expand(uint8(v>>11), 5),
		G: expand(uint8(v>>5&0x3F), 6),
		B: expand(uint8(v&0x1F), 5),
	}
}

func mix(a, b primitive.ColorARGBInt, wa, wb, div int) primitive.ColorARGBInt {
	f := func(x, y uint8) uint8 { return uint8((int(x)*wa + int(y)*wb) / div) }
	return primitive.ColorARGBInt{A: 0xFF, R: f(a.R, b.R), G: f(a.G, b.G), B: f(a.B, b.B)}
}

// colorPalette expands two endpoints. Three-color mode applies when c0 is
// not greater than c1 and punchThrough is set; its fourth entry is
// transparent black.
func colorPalette(c0, c1 uint16, punchThrough bool) [4]primitive.ColorARGBInt {
	a, b := from565(c0), from565(c1)
	if c0 > c1 || !punchThrough {
		return [4]primitive.ColorARGBInt{a, b, mix(a, b, 2, 1, 3), mix(a, b, 1, 2, 3)}
	}
	return [4]primitive.ColorARGBInt{a, b, mix(a, b, 1, 1, 2), {}}
}

func decodeColorBlock(b []byte, blk *block, punchThrough bool) {
	c0 := binary.LittleEndian.Uint16(b[0:])
	c1 := binary.LittleEndian.Uint16(b[2:])
	idx := binary.LittleEndian.Uint32(b[4:])
	pal := colorPalette(c0, c1, punchThrough)
	for i := range blk {
		blk[i] = pal[idx>>(2*i)&3]
	}
}

func rgbDistance(a, b primitive.ColorARGBInt) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return dr*dr + dg*dg + db*db
}

// fitEndpoints picks a line through the bounding box of the opaque pixels,
// inset by a sixteenth of its extent. The box diagonal follows the sign of
// each channel's covariance with the widest channel.
func fitEndpoints(blk *block, use func(primitive.ColorARGBInt) bool) (hi, lo primitive.ColorARGBInt) {
	var mn, mx, sum [3]int
	mn = [3]int{255, 255, 255}
	n := 0
	for _, c := range blk {
		if !use(c) {
			continue
		}
		v := [3]int{int(c.R), int(c.G), int(c.B)}
		for k := range v {
			mn[k], mx[k] = min(mn[k], v[k]), max(mx[k], v[k])
			sum[k] += v[k]
		}
		n++
	}
	if n == 0 {
		return primitive.ColorARGBInt{A: 0xFF}, primitive.ColorARGBInt{A: 0xFF}
	}

	wide := 0
	for k := 1; k < 3; k++ {
		if mx[k]-mn[k] > mx[wide]-mn[wide] {
			wide = k
		}
	}
	var cov [3]int
	for _, c := range blk {
		if !use(c) {
			continue
		}
		v := [3]int{int(c.R), int(c.G), int(c.B)}
		dw := v[wide]*n - sum[wide]
		for k := range v {
			cov[k] += dw * (v[k]*n - sum[k])
		}
	}

	var a, b [3]int
	for k := range a {
		inset := (mx[k] - mn[k]) / 16
		a[k], b[k] = mx[k]-inset, mn[k]+inset
		if cov[k] < 0 {
			a[k], b[k] = b[k], a[k]
		}
	}
	hi = primitive.ColorARGBInt{A: 0xFF, R: uint8(a[0]), G: uint8(a[1]), B: uint8(a[2])}
	lo = primitive.ColorARGBInt{A: 0xFF, R: uint8(b[0]), G: uint8(b[1]), B: uint8(b[2])}
	return hi, lo
}

func opaque(c primitive.ColorARGBInt) bool { return c.A != 0 }

func anyColor(primitive.ColorARGBInt) bool { return true }

// encodeColorBlock writes a four-color block with c0 > c1.
func encodeColorBlock(out []byte, blk *block) []byte {
	hi, lo := fitEndpoints(blk, anyColor)
	c0, c1 := to565(hi), to565(lo)
	if c0 < c1 {
		c0, c1 = c1, c0
	}
	var idx uint32
	if c0 != c1 {
		pal := colorPalette(c0, c1, false)
		for i, c := range blk {
			idx |= uint32(nearest(pal[:], c)) << (2 * i)
		}
	}
	out = binary.LittleEndian.AppendUint16(out, c0)
	out = binary.LittleEndian.AppendUint16(out, c1)
	return binary.LittleEndian.AppendUint32(out, idx)
}

func nearest(pal []primitive.ColorARGBInt, c primitive.ColorARGBInt) int {
	best, bestDist := 0, rgbDistance(pal[0], c)
	for i := 1; i < len(pal); i++ {
		if d := rgbDistance(pal[i], c); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// encodeBC1 uses three-color mode for blocks with transparent pixels.
// Any other alpha is treated as opaque.
func encodeBC1(out []byte, blk *block) []byte {
	transparent := false
	for _, c := range blk {
		if c.A == 0 {
			transparent = true
			break
		}
	}
	if !transparent {
		return encodeColorBlock(out, blk)
	}

	hi, lo := fitEndpoints(blk, opaque)
	c0, c1 := to565(hi), to565(lo)
	if c0 > c1 {
		c0, c1 = c1, c0
	}
	pal := colorPalette(c0, c1, true)
	var idx uint32
	for i, c := range blk {
		k := 3
		if c.A != 0 {
			k = nearest(pal[:3], c)
		}
		idx |= uint32(k) << (2 * i)
	}
	out = binary.LittleEndian.AppendUint16(out, c0)
	out = binary.LittleEndian.AppendUint16(out, c1)
	return binary.LittleEndian.AppendUint32(out, idx)
}

func encodeBC2Alpha(out []byte, blk *block) []byte {
	var bits uint64
	for i, c := range blk {
		bits |= uint64(quantize(c.A, 4)) << (4 * i)
	}
	return binary.LittleEndian.AppendUint64(out, bits)
}

func decodeBC2Alpha(b []byte, blk *block) {
	bits := binary.LittleEndian.Uint64(b)
	for i := range blk {
		blk[i].A = expand(uint8(bits>>(4*i)&0xF), 4)
	}
}

func alphaPalette(a0, a1 uint8) [8]uint8 {
	p := [8]uint8{a0, a1}
	x, y := int(a0), int(a1)
	if a0 > a1 {
		for i := 1; i < 7; i++ {
			p[i+1] = uint8(((7-i)*x + i*y) / 7)
		}
		return p
	}
	for i := 1; i < 5; i++ {
		p[i+1] = uint8(((5-i)*x + i*y) / 5)
	}
	p[6], p[7] = 0, 255
	return p
}

// encodeBC3Alpha always uses the eight-level ramp from the block maximum
// down to its minimum.
func encodeBC3Alpha(out []byte, blk *block) []byte {
	a0, a1 := uint8(0), uint8(255)
	for _, c := range blk {
		a0, a1 = max(a0, c.A), min(a1, c.A)
	}
	pal := alphaPalette(a0, a1)
	var bits uint64
	if a0 != a1 {
		for i, c := range blk {
			best, bestDist := 0, 256
			for k, a := range pal {
				d := int(a) - int(c.A)
				if d < 0 {
					d = -d
				}
				if d < bestDist {
					best, bestDist = k, d
				}
			}
			bits |= uint64(best) << (3 * i)
		}
	}
	out = append(out, a0, a1)
	for i := 0; i < 6; i++ {
		out = append(out, byte(bits>>(8*i)))
	}
	return out
}

func decodeBC3Alpha(b []byte, blk *block) {
	pal := alphaPalette(b[0], b[1])
	var bits uint64
	for i := 0; i < 6; i++ {
		bits |= uint64(b[2+i]) << (8 * i)
	}
	for i := range blk {
		blk[i].A = pal[bits>>(3*i)&7]
	}
}
