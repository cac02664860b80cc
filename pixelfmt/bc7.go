package pixelfmt

import (
	"encoding/binary"
	"math/bits"

	"github.com/32bitkid/blam/primitive"
)

var (
	bc7Weights2 = [4]int{0, 21, 43, 64}
	bc7Weights3 = [8]int{0, 9, 18, 27, 37, 46, 55, 64}
	bc7Weights4 = [16]int{0, 4, 9, 13, 17, 21, 26, 30, 34, 38, 43, 47, 51, 55, 60, 64}
)

func bc7Interpolate(e0, e1, w int) uint8 {
	return uint8(((64-w)*e0 + w*e1 + 32) >> 6)
}

// bits128 is a BC7 block read and written least significant bit first.
type bits128 struct {
	lo, hi uint64
	pos    uint
}

func (b *bits128) read(n uint) int {
	var v uint64
	for i := uint(0); i < n; i++ {
		p := b.pos + i
		var bit uint64
		if p < 64 {
			bit = b.lo >> p & 1
		} else {
			bit = b.hi >> (p - 64) & 1
		}
		v |= bit << i
	}
	b.pos += n
	return int(v)
}

func (b *bits128) write(n uint, v int) {
	for i := uint(0); i < n; i++ {
		bit := uint64(v) >> i & 1
		p := b.pos + i
		if p < 64 {
			b.lo |= bit << p
		} else {
			b.hi |= bit << (p - 64)
		}
	}
	b.pos += n
}

// encodeBC7 writes every block in mode 6: one subset, RGBA endpoints with
// a shared bit each, and 4-bit indices.
func encodeBC7(out []byte, blk *block) []byte {
	ep := bc7Endpoints(blk)

	var q [2][4]int
	var p [2]int
	var full [2][4]int
	for e := range ep {
		q[e], p[e] = bc7QuantizeEndpoint(ep[e])
		for c := range 4 {
			full[e][c] = q[e][c]<<1 | p[e]
		}
	}

	var idx [16]int
	for i, px := range blk {
		v := [4]int{int(px.R), int(px.G), int(px.B), int(px.A)}
		best, bestDist := 0, -1
		for k, w := range bc7Weights4 {
			d := 0
			for c := range 4 {
				x := int(bc7Interpolate(full[0][c], full[1][c], w)) - v[c]
				d += x * x
			}
			if bestDist < 0 || d < bestDist {
				best, bestDist = k, d
			}
		}
		idx[i] = best
	}
	if idx[0] >= 8 {
		q[0], q[1] = q[1], q[0]
		p[0], p[1] = p[1], p[0]
		for i := range idx {
			idx[i] = 15 - idx[i]
		}
	}

	var b bits128
	b.write(7, 1<<6)
	for c := range 4 {
		b.write(7, q[0][c])
		b.write(7, q[1][c])
	}
	b.write(1, p[0])
	b.write(1, p[1])
	for i, k := range idx {
		if i == 0 {
			b.write(3, k)
		} else {
			b.write(4, k)
		}
	}
	out = binary.LittleEndian.AppendUint64(out, b.lo)
	return binary.LittleEndian.AppendUint64(out, b.hi)
}

// bc7Endpoints fits an RGBA line through the block the same way the BC1
// encoder does, extended to alpha.
func bc7Endpoints(blk *block) [2][4]int {
	var mn, mx, sum [4]int
	mn = [4]int{255, 255, 255, 255}
	for _, c := range blk {
		v := [4]int{int(c.R), int(c.G), int(c.B), int(c.A)}
		for k := range v {
			mn[k], mx[k] = min(mn[k], v[k]), max(mx[k], v[k])
			sum[k] += v[k]
		}
	}
	wide := 0
	for k := 1; k < 4; k++ {
		if mx[k]-mn[k] > mx[wide]-mn[wide] {
			wide = k
		}
	}
	var cov [4]int
	for _, c := range blk {
		v := [4]int{int(c.R), int(c.G), int(c.B), int(c.A)}
		dw := v[wide]*16 - sum[wide]
		for k := range v {
			cov[k] += dw * (v[k]*16 - sum[k])
		}
	}
	var ep [2][4]int
	for k := range 4 {
		inset := (mx[k] - mn[k]) / 32
		ep[0][k], ep[1][k] = mn[k]+inset, mx[k]-inset
		if cov[k] < 0 {
			ep[0][k], ep[1][k] = ep[1][k], ep[0][k]
		}
	}
	return ep
}

// bc7QuantizeEndpoint reduces an 8-bit endpoint to 7 bits per channel and
// a shared low bit, choosing the bit with the smaller error.
func bc7QuantizeEndpoint(v [4]int) ([4]int, int) {
	var best [4]int
	bestP, bestErr := 0, -1
	for p := range 2 {
		var q [4]int
		e := 0
		for c := range 4 {
			q[c] = min(max((v[c]-p+1)/2, 0), 127)
			d := (q[c]<<1 | p) - v[c]
			e += d * d
		}
		if bestErr < 0 || e < bestErr {
			best, bestP, bestErr = q, p, e
		}
	}
	return best, bestP
}

func bc7Expand(v int, n uint) int {
	v <<= 8 - n
	return v | v>>n
}

type bc7Mode struct {
	subsets       int
	partitionBits uint
	colorBits     uint
	alphaBits     uint
	indexBits     uint
	// pbits is 0 without shared low bits, 1 for one per subset and 2 for
	// one per endpoint.
	pbits int
}

// Modes 4 and 5 carry separate color and alpha indices and are decoded
// on their own.
var bc7Modes = [8]bc7Mode{
	0: {subsets: 3, partitionBits: 4, colorBits: 4, indexBits: 3, pbits: 2},
	1: {subsets: 2, partitionBits: 6, colorBits: 6, indexBits: 3, pbits: 1},
	2: {subsets: 3, partitionBits: 6, colorBits: 5, indexBits: 2},
	3: {subsets: 2, partitionBits: 6, colorBits: 7, indexBits: 2, pbits: 2},
	6: {subsets: 1, colorBits: 7, alphaBits: 7, indexBits: 4, pbits: 2},
	7: {subsets: 2, partitionBits: 6, colorBits: 5, alphaBits: 5, indexBits: 2, pbits: 2},
}

// bc7Partitions2 holds one bit per pixel: the subset of pixel i is bit i.
var bc7Partitions2 = [64]uint16{
	0xCCCC, 0x8888, 0xEEEE, 0xECC8, 0xC880, 0xFEEC, 0xFEC8, 0xEC80,
	0xC800, 0xFFEC, 0xFE80, 0xE800, 0xFFE8, 0xFF00, 0xFFF0, 0xF000,
	0xF710, 0x008E, 0x7100, 0x08CE, 0x008C, 0x7310, 0x3100, 0x8CCE,
	0x088C, 0x3110, 0x6666, 0x366C, 0x17E8, 0x0FF0, 0x718E, 0x399C,
	0xAAAA, 0xF0F0, 0x5A5A, 0x33CC, 0x3C3C, 0x55AA, 0x9696, 0xA55A,
	0x73CE, 0x13C8, 0x324C, 0x3BDC, 0x6996, 0xC33C, 0x9966, 0x0660,
	0x0272, 0x04E4, 0x4E40, 0x2720, 0xC936, 0x936C, 0x39C6, 0x639C,
	0x9336, 0x9CC6, 0x817E, 0xE718, 0xCCF0, 0x0FCC, 0x7744, 0xEE22,
}

// bc7Partitions3 holds two bits per pixel, pixel 0 in the low bits.
var bc7Partitions3 = [64]uint32{
	0xAA685050, 0x6A5A5040, 0x5A5A4200, 0x5450A0A8, 0xA5A50000, 0xA0A05050, 0x5555A0A0, 0x5A5A5050,
	0xAA550000, 0xAA555500, 0xAAAA5500, 0x90909090, 0x94949494, 0xA4A4A4A4, 0xA9A59450, 0x2A0A4250,
	0xA5945040, 0x0A425054, 0xA5A5A500, 0x55A0A0A0, 0xA8A85454, 0x6A6A4040, 0xA4A45000, 0x1A1A0500,
	0x0050A4A4, 0xAAA59090, 0x14696914, 0x69691400, 0xA08585A0, 0xAA821414, 0x50A4A450, 0x6A5A0200,
	0xA9A58000, 0x5090A0A8, 0xA8A09050, 0x24242424, 0x00AA5500, 0x24924924, 0x24499224, 0x50A50A50,
	0x500AA550, 0xAAAA4444, 0x66660000, 0xA5A0A5A0, 0x50A050A0, 0x69286928, 0x44AAAA44, 0x66666600,
	0xAA444444, 0x54A854A8, 0x95809580, 0x96969600, 0xA85454A8, 0x80959580, 0xAA141414, 0x96960000,
	0xAAAA1414, 0xA05050A0, 0xA0A5A5A0, 0x96000000, 0x40804080, 0xA9A8A9A8, 0xAAAAAA44, 0x2A4A5254,
}

// Anchor pixels store their index one bit short. Subset 0 always anchors
// at pixel 0.
var (
	bc7Anchors2 = [64]uint8{
		15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15,
		15, 2, 8, 2, 2, 8, 8, 15, 2, 8, 2, 2, 8, 8, 2, 2,
		15, 15, 6, 8, 2, 8, 15, 15, 2, 8, 2, 2, 2, 15, 15, 6,
		6, 2, 6, 8, 15, 15, 2, 2, 15, 15, 15, 15, 15, 2, 2, 15,
	}
	bc7Anchors3Second = [64]uint8{
		3, 3, 15, 15, 8, 3, 15, 15, 8, 8, 6, 6, 6, 5, 3, 3,
		3, 3, 8, 15, 3, 3, 6, 10, 5, 8, 8, 6, 8, 5, 15, 15,
		8, 15, 3, 5, 6, 10, 8, 15, 15, 3, 15, 5, 15, 15, 15, 15,
		3, 15, 5, 5, 5, 8, 5, 10, 5, 10, 8, 13, 15, 12, 3, 3,
	}
	bc7Anchors3Third = [64]uint8{
		15, 8, 8, 3, 15, 15, 3, 8, 15, 15, 15, 15, 15, 15, 15, 8,
		15, 8, 15, 3, 15, 8, 15, 8, 3, 15, 6, 10, 15, 15, 10, 8,
		15, 3, 15, 10, 10, 8, 9, 10, 6, 15, 8, 15, 3, 6, 6, 8,
		15, 3, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 3, 15, 15, 8,
	}
)

// bc7Subset returns the subset of pixel i and whether i is its anchor.
func bc7Subset(subsets, partition, i int) (int, bool) {
	switch subsets {
	case 2:
		s := int(bc7Partitions2[partition] >> i & 1)
		if s == 0 {
			return 0, i == 0
		}
		return 1, i == int(bc7Anchors2[partition])
	case 3:
		s := int(bc7Partitions3[partition] >> (2 * i) & 3)
		switch s {
		case 0:
			return 0, i == 0
		case 1:
			return 1, i == int(bc7Anchors3Second[partition])
		}
		return 2, i == int(bc7Anchors3Third[partition])
	}
	return 0, i == 0
}

func bc7Weights(n uint) []int {
	switch n {
	case 2:
		return bc7Weights2[:]
	case 3:
		return bc7Weights3[:]
	}
	return bc7Weights4[:]
}

// decodeBC7 expands one block in any mode. A block with no mode bit set
// decodes to transparent black.
func decodeBC7(data []byte, blk *block) {
	b := bits128{lo: binary.LittleEndian.Uint64(data), hi: binary.LittleEndian.Uint64(data[8:])}
	if b.lo&0xFF == 0 {
		*blk = block{}
		return
	}
	mode := bits.TrailingZeros8(uint8(b.lo))
	b.pos = uint(mode) + 1
	if mode == 4 || mode == 5 {
		decodeBC7Separate(&b, mode, blk)
		return
	}

	m := bc7Modes[mode]
	partition := b.read(m.partitionBits)

	// Endpoints are stored channel by channel, then subset, then endpoint.
	var ep [3][2][4]int
	for c := range 4 {
		n := m.colorBits
		if c == 3 {
			n = m.alphaBits
		}
		if n == 0 {
			continue
		}
		for s := range m.subsets {
			ep[s][0][c] = b.read(n)
			ep[s][1][c] = b.read(n)
		}
	}

	colorBits, alphaBits := m.colorBits, m.alphaBits
	if m.pbits > 0 {
		for s := range m.subsets {
			p0 := b.read(1)
			p1 := p0
			if m.pbits == 2 {
				p1 = b.read(1)
			}
			for c := range 4 {
				ep[s][0][c] = ep[s][0][c]<<1 | p0
				ep[s][1][c] = ep[s][1][c]<<1 | p1
			}
		}
		colorBits++
		if alphaBits > 0 {
			alphaBits++
		}
	}
	for s := range m.subsets {
		for e := range 2 {
			for c := range 3 {
				ep[s][e][c] = bc7Expand(ep[s][e][c], colorBits)
			}
			if alphaBits == 0 {
				ep[s][e][3] = 0xFF
			} else {
				ep[s][e][3] = bc7Expand(ep[s][e][3], alphaBits)
			}
		}
	}

	weights := bc7Weights(m.indexBits)
	for i := range blk {
		s, anchor := bc7Subset(m.subsets, partition, i)
		n := m.indexBits
		if anchor {
			n--
		}
		w := weights[b.read(n)]
		e := &ep[s]
		blk[i] = primitive.ColorARGBInt{
			R: bc7Interpolate(e[0][0], e[1][0], w),
			G: bc7Interpolate(e[0][1], e[1][1], w),
			B: bc7Interpolate(e[0][2], e[1][2], w),
			A: bc7Interpolate(e[0][3], e[1][3], w),
		}
	}
}

// decodeBC7Separate handles modes 4 and 5, which carry a rotation and
// separate color and alpha index sets.
func decodeBC7Separate(b *bits128, mode int, blk *block) {
	var ep [2][4]int
	rotation := b.read(2)
	indexMode := 0
	if mode == 4 {
		indexMode = b.read(1)
	}
	colorBits, alphaBits := uint(5), uint(6)
	if mode == 5 {
		colorBits, alphaBits = 7, 8
	}
	for c := range 3 {
		ep[0][c] = bc7Expand(b.read(colorBits), colorBits)
		ep[1][c] = bc7Expand(b.read(colorBits), colorBits)
	}
	ep[0][3] = bc7Expand(b.read(alphaBits), alphaBits)
	ep[1][3] = bc7Expand(b.read(alphaBits), alphaBits)

	first := bc7ReadIndices(b, 2)
	var second [16]int
	secondWeights := bc7Weights2[:]
	if mode == 4 {
		second = bc7ReadIndices(b, 3)
		secondWeights = bc7Weights3[:]
	} else {
		second = bc7ReadIndices(b, 2)
	}

	colorIdx, colorW := first, bc7Weights2[:]
	alphaIdx, alphaW := second, secondWeights
	if indexMode == 1 {
		colorIdx, colorW, alphaIdx, alphaW = second, secondWeights, first, bc7Weights2[:]
	}
	for i := range blk {
		var v [4]uint8
		for c := range 3 {
			v[c] = bc7Interpolate(ep[0][c], ep[1][c], colorW[colorIdx[i]])
		}
		v[3] = bc7Interpolate(ep[0][3], ep[1][3], alphaW[alphaIdx[i]])
		if rotation > 0 {
			v[rotation-1], v[3] = v[3], v[rotation-1]
		}
		blk[i] = primitive.ColorARGBInt{A: v[3], R: v[0], G: v[1], B: v[2]}
	}
}

// bc7ReadIndices reads a single-subset index set; the first index drops
// its high bit.
func bc7ReadIndices(b *bits128, n uint) [16]int {
	var idx [16]int
	idx[0] = b.read(n - 1)
	for i := 1; i < 16; i++ {
		idx[i] = b.read(n)
	}
	return idx
}
