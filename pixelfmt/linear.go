package pixelfmt

import (
	"bytes"
	"encoding/binary"

	"github.com/32bitkid/bitreader"

	"github.com/32bitkid/blam/errs"
	"github.com/32bitkid/blam/primitive"
)

// quantize scales an 8-bit channel to bits with rounding.
func quantize(v uint8, bits uint) uint16 {
	m := uint32(1)<<bits - 1
	return uint16((uint32(v)*m + 127) / 255)
}

// expand scales a bits-wide channel back to 8 bits.
func expand(v uint8, bits uint) uint8 {
	m := uint32(1)<<bits - 1
	return uint8((uint32(v)*255 + m/2) / m)
}

func pack16(e Encoding, c primitive.ColorARGBInt) uint16 {
	switch e {
	case R5G6B5:
		return quantize(c.R, 5)<<11 | quantize(c.G, 6)<<5 | quantize(c.B, 5)
	case A1R5G5B5:
		var a uint16
		if c.A >= 0x80 {
			a = 1
		}
		return a<<15 | quantize(c.R, 5)<<10 | quantize(c.G, 5)<<5 | quantize(c.B, 5)
	case A4R4G4B4:
		return quantize(c.A, 4)<<12 | quantize(c.R, 4)<<8 | quantize(c.G, 4)<<4 | quantize(c.B, 4)
	}
	errs.Bug("%s is not a 16-bit color encoding", e)
	return 0
}

// reduce rounds c to the precision e can store.
func reduce(e Encoding, c primitive.ColorARGBInt) primitive.ColorARGBInt {
	switch e {
	case R5G6B5:
		return primitive.ColorARGBInt{
			A: 0xFF,
			R: expand(uint8(quantize(c.R, 5)), 5),
			G: expand(uint8(quantize(c.G, 6)), 6),
			B: expand(uint8(quantize(c.B, 5)), 5),
		}
	case A1R5G5B5:
		a := uint8(0)
		if c.A >= 0x80 {
			a = 0xFF
		}
		return primitive.ColorARGBInt{
			A: a,
			R: expand(uint8(quantize(c.R, 5)), 5),
			G: expand(uint8(quantize(c.G, 5)), 5),
			B: expand(uint8(quantize(c.B, 5)), 5),
		}
	case A4R4G4B4:
		return primitive.ColorARGBInt{
			A: expand(uint8(quantize(c.A, 4)), 4),
			R: expand(uint8(quantize(c.R, 4)), 4),
			G: expand(uint8(quantize(c.G, 4)), 4),
			B: expand(uint8(quantize(c.B, 4)), 4),
		}
	case P8HCE:
		return paletteColor(nearestPaletteIndex(c))
	}
	return c
}

func encodeLinear(e Encoding, px []primitive.ColorARGBInt, out []byte) []byte {
	le := binary.LittleEndian
	for _, c := range px {
		switch e {
		case A8R8G8B8:
			out = append(out, c.B, c.G, c.R, c.A)
		case A8B8G8R8:
			out = append(out, c.R, c.G, c.B, c.A)
		case X8R8G8B8:
			out = append(out, c.B, c.G, c.R, 0xFF)
		case R5G6B5, A1R5G5B5, A4R4G4B4:
			out = le.AppendUint16(out, pack16(e, c))
		case A8:
			out = append(out, c.A)
		case Y8, AY8:
			out = append(out, c.R)
		case A8Y8:
			out = append(out, c.R, c.A)
		case P8HCE:
			out = append(out, nearestPaletteIndex(c))
		default:
			errs.Bug("%s is not a linear encoding", e)
		}
	}
	return out
}

func decodeLinear(e Encoding, data []byte, px []primitive.ColorARGBInt) error {
	switch e {
	case R5G6B5, A1R5G5B5, A4R4G4B4:
		return decode16(e, data, px)
	}
	step := e.BitsPerPixel() / 8
	for i := range px {
		p := data[i*step:]
		var c primitive.ColorARGBInt
		switch e {
		case A8R8G8B8:
			c = primitive.ColorARGBInt{A: p[3], R: p[2], G: p[1], B: p[0]}
		case A8B8G8R8:
			c = primitive.ColorARGBInt{A: p[3], R: p[0], G: p[1], B: p[2]}
		case X8R8G8B8:
			c = primitive.ColorARGBInt{A: 0xFF, R: p[2], G: p[1], B: p[0]}
		case A8:
			c = primitive.ColorARGBInt{A: p[0], R: 0xFF, G: 0xFF, B: 0xFF}
		case Y8:
			c = primitive.ColorARGBInt{A: 0xFF, R: p[0], G: p[0], B: p[0]}
		case AY8:
			c = primitive.ColorARGBInt{A: p[0], R: p[0], G: p[0], B: p[0]}
		case A8Y8:
			c = primitive.ColorARGBInt{A: p[1], R: p[0], G: p[0], B: p[0]}
		case P8HCE:
			c = paletteColor(p[0])
		default:
			errs.Bug("%s is not a linear encoding", e)
		}
		px[i] = c
	}
	return nil
}

// decode16 unpacks 16-bit pixels. The little-endian words are turned into a
// big-endian stream so fields can be read most significant first.
func decode16(e Encoding, data []byte, px []primitive.ColorARGBInt) error {
	swapped := make([]byte, len(px)*2)
	for i := range px {
		swapped[i*2], swapped[i*2+1] = data[i*2+1], data[i*2]
	}
	br := bitreader.NewReader(bytes.NewReader(swapped))

	for i := range px {
		var a, r, g, b uint8
		var err error
		switch e {
		case R5G6B5:
			a = 0xFF
			if r, err = br.Read8(5); err != nil {
				return err
			}
			if g, err = br.Read8(6); err != nil {
				return err
			}
			if b, err = br.Read8(5); err != nil {
				return err
			}
			r, g, b = expand(r, 5), expand(g, 6), expand(b, 5)
		case A1R5G5B5:
			if a, err = br.Read8(1); err != nil {
				return err
			}
			if r, err = br.Read8(5); err != nil {
				return err
			}
			if g, err = br.Read8(5); err != nil {
				return err
			}
			if b, err = br.Read8(5); err != nil {
				return err
			}
			a, r, g, b = a*0xFF, expand(r, 5), expand(g, 5), expand(b, 5)
		case A4R4G4B4:
			if a, err = br.Read8(4); err != nil {
				return err
			}
			if r, err = br.Read8(4); err != nil {
				return err
			}
			if g, err = br.Read8(4); err != nil {
				return err
			}
			if b, err = br.Read8(4); err != nil {
				return err
			}
			a, r, g, b = expand(a, 4), expand(r, 4), expand(g, 4), expand(b, 4)
		}
		px[i] = primitive.ColorARGBInt{A: a, R: r, G: g, B: b}
	}
	return nil
}

func paletteColor(i uint8) primitive.ColorARGBInt {
	p := p8Palette[int(i)*4:]
	return primitive.ColorARGBInt{A: p[3], R: p[2], G: p[1], B: p[0]}
}

// nearestPaletteIndex picks the closest palette entry by squared RGB
// distance. Transparent inputs only consider transparent entries.
func nearestPaletteIndex(c primitive.ColorARGBInt) uint8 {
	best, bestDist := 0, -1
	for i := 0; i < 256; i++ {
		p := paletteColor(uint8(i))
		if c.A == 0 && p.A != 0 {
			continue
		}
		dr := int(c.R) - int(p.R)
		dg := int(c.G) - int(p.G)
		db := int(c.B) - int(p.B)
		d := dr*dr + dg*dg + db*db
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return uint8(best)
}
