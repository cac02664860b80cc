package bitmap

import "github.com/32bitkid/blam/errs"

// cubeFace is where a face sits in an unrolled cross, in face-sized
// cells, and how many quarter turns clockwise it is stored rotated by.
type cubeFace struct {
	col, row int
	turns    int
}

// Faces are listed in cubemap storage order.
var crossLayout = [6]cubeFace{
	{col: 2, row: 1, turns: 0}, // right
	{col: 1, row: 1, turns: 0}, // front
	{col: 0, row: 1, turns: 0}, // left
	{col: 3, row: 1, turns: 0}, // back
	{col: 0, row: 0, turns: 3}, // top
	{col: 0, row: 2, turns: 1}, // bottom
}

// rotate turns a square image clockwise by quarter turns.
func rotate(m Image, turns int) Image {
	turns = ((turns % 4) + 4) % 4
	out := m
	for range turns {
		r := NewImage(out.Height, out.Width)
		for y := 0; y < out.Height; y++ {
			for x := 0; x < out.Width; x++ {
				r.Set(out.Height-1-y, x, out.At(x, y))
			}
		}
		out = r
	}
	return out
}

// unrollCubemap reads the six faces of a 4x3 cross.
func unrollCubemap(img Image) ([]Image, error) {
	if !isPowerOfTwo(img.Width) || img.Width < 4 {
		return nil, errs.Invalidf("unrolled cubemap width %d is not a power of two", img.Width)
	}
	if img.Height < img.Width*3/4 {
		return nil, errs.Invalidf("unrolled cubemap is %dx%d, expected a height of at least %d", img.Width, img.Height, img.Width*3/4)
	}
	size := img.Width / 4
	faces := make([]Image, len(crossLayout))
	for i, f := range crossLayout {
		faces[i] = rotate(img.SubImage(f.col*size, f.row*size, size, size), -f.turns)
	}
	return faces, nil
}

// rollCubemap is the inverse of unrollCubemap.
func rollCubemap(faces []Image) Image {
	size := faces[0].Width
	out := NewImage(size*4, size*3)
	for i, f := range crossLayout {
		out.Blit(rotate(faces[i], f.turns), f.col*size, f.row*size)
	}
	return out
}
