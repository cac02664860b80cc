package bitmap

import (
	"math"

	"github.com/32bitkid/blam/errs"
	"github.com/32bitkid/blam/primitive"
)

var magenta = primitive.ColorARGBInt{A: 0xFF, R: 0xFF, B: 0xFF}

// RebuildColorPlate lays bitmaps back out as an image that ScanColorPlate
// reads into the same sequences. A lone 2-D bitmap that would not be
// mistaken for a plate, or a single cubemap, is emitted unrolled.
func RebuildColorPlate(seqs []Sequence, bitmaps []Bitmap, typ InputType) Image {
	if len(seqs) == 1 && seqs[0].BitmapCount == 1 && len(seqs[0].Sprites) == 0 && typ != Cubemaps && typ != ThreeDimensionalTextures {
		img := bitmaps[seqs[0].FirstBitmap].Image
		if _, plate := detectPlate(img); !plate {
			return cloneImage(img)
		}
	}
	if typ == Cubemaps && len(seqs) == 1 && seqs[0].BitmapCount == 6 {
		faces := make([]Image, 6)
		square := true
		for i := range faces {
			faces[i] = bitmaps[seqs[0].FirstBitmap+i].Image
			square = square && faces[i].Width == faces[i].Height && faces[i].Width == faces[0].Width
		}
		if square {
			return rollCubemap(faces)
		}
	}

	used := map[uint32]bool{}
	for _, b := range bitmaps {
		for _, c := range b.Pixels {
			used[c.RGB24()] = true
		}
	}
	background := pickUnused(used, blue)
	used[background.RGB24()] = true
	divider := pickUnused(used, magenta)

	members := make([][]Image, len(seqs))
	width, height := 4, 1
	for i, seq := range seqs {
		if len(seq.Sprites) > 0 {
			for _, sp := range seq.Sprites {
				members[i] = append(members[i], cutSprite(bitmaps[sp.BitmapIndex].Image, sp))
			}
		} else {
			for j := 0; j < seq.BitmapCount; j++ {
				members[i] = append(members[i], bitmaps[seq.FirstBitmap+j].Image)
			}
		}
		rowWidth, rowHeight := 0, 0
		for j, m := range members[i] {
			if j > 0 {
				rowWidth++
			}
			rowWidth += m.Width
			rowHeight = max(rowHeight, m.Height)
		}
		width = max(width, rowWidth)
		height += 1 + 2 + rowHeight + 1
	}

	out := NewImage(width, height)
	out.Fill(background)
	out.Set(1, 0, divider)
	y := 1
	for i := range seqs {
		for x := 0; x < width; x++ {
			out.Set(x, y, divider)
		}
		y += 3
		x, rowHeight := 0, 0
		for _, m := range members[i] {
			out.Blit(m, x, y)
			x += m.Width + 1
			rowHeight = max(rowHeight, m.Height)
		}
		y += rowHeight + 1
	}
	return out
}

// cutSprite copies a sprite's rectangle out of its sheet.
func cutSprite(sheet Image, sp Sprite) Image {
	px := func(v float32, n int) int {
		return min(max(int(math.Round(float64(v)*float64(n))), 0), n)
	}
	l, r := px(sp.Left, sheet.Width), px(sp.Right, sheet.Width)
	t, b := px(sp.Top, sheet.Height), px(sp.Bottom, sheet.Height)
	return sheet.SubImage(l, t, max(r-l, 0), max(b-t, 0))
}

func cloneImage(m Image) Image {
	out := NewImage(m.Width, m.Height)
	copy(out.Pixels, m.Pixels)
	return out
}

// pickUnused returns preferred if it is free, otherwise the lowest opaque
// 24-bit color that is.
func pickUnused(used map[uint32]bool, preferred primitive.ColorARGBInt) primitive.ColorARGBInt {
	if !used[preferred.RGB24()] {
		return preferred
	}
	for v := uint32(0); v <= 0xFFFFFF; v++ {
		if !used[v] {
			return primitive.ColorARGBIntFromUint32(0xFF000000 | v)
		}
	}
	errs.Bug("every 24-bit color is in use")
	return preferred
}
