package bitmap

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/32bitkid/blam/errs"
	"github.com/32bitkid/blam/primitive"
)

// SpriteSize is the extent of one sprite to pack.
type SpriteSize struct{ Width, Height int }

type PackOptions struct {
	// BudgetLength and BudgetCount limit sheets to BudgetCount squares of
	// BudgetLength pixels. A zero count means unbudgeted.
	BudgetLength int
	BudgetCount  int
	Spacing      int
	ForceSquare  bool
}

// PackedSprite places sprite Index of sequence Sequence. X and Y are the
// top-left of the sprite's pixels; the claimed area extends Spacing
// pixels further on every side.
type PackedSprite struct {
	Sequence, Index int
	X, Y            int
	Width, Height   int
}

type Sheet struct {
	Width, Height int
	Spacing       int
	Sprites       []PackedSprite

	// level is the top of the current row and bottom is the lowest
	// claimed edge of the sprites on it. Both only grow.
	locked        bool
	level, bottom int
}

type Packing struct {
	Sheets   []Sheet
	Warnings []string
}

func (s *Sheet) fits(x, y, w, h int) bool {
	sp := s.Spacing
	if x+w+2*sp > s.Width || y+h+2*sp > s.Height {
		return false
	}
	for _, p := range s.Sprites {
		px, py := p.X-s.Spacing, p.Y-s.Spacing
		pw, ph := p.Width+2*s.Spacing, p.Height+2*s.Spacing
		if x < px+pw && px < x+w+2*sp && y < py+ph && py < y+h+2*sp {
			return false
		}
	}
	return true
}

// place runs a first-fit scan along the current row. When the row is
// full the next one starts below the lowest sprite on it.
func (s *Sheet) place(seq, idx int, sz SpriteSize) bool {
	if s.locked {
		return false
	}
	step := 4
	if s.Spacing < 4 {
		step = 1
	}
	for y := s.level; y+sz.Height+2*s.Spacing <= s.Height; y = s.level {
		for x := 0; x+sz.Width+2*s.Spacing <= s.Width; x += step {
			if s.fits(x, y, sz.Width, sz.Height) {
				s.Sprites = append(s.Sprites, PackedSprite{
					Sequence: seq, Index: idx,
					X: x + s.Spacing, Y: y + s.Spacing,
					Width: sz.Width, Height: sz.Height,
				})
				s.bottom = max(s.bottom, y+sz.Height+2*s.Spacing)
				return true
			}
		}
		if s.bottom <= s.level {
			break
		}
		s.level = s.bottom
	}

	// A sprite too big to fit with spacing may take an empty sheet alone.
	if len(s.Sprites) == 0 && s.Spacing > 0 && sz.Width <= s.Width && sz.Height <= s.Height {
		s.Spacing = 0
		s.locked = true
		s.Sprites = append(s.Sprites, PackedSprite{Sequence: seq, Index: idx, Width: sz.Width, Height: sz.Height})
		return true
	}
	return false
}

type pendingSprite struct {
	seq, idx int
	size     SpriteSize
}

func (s *Sheet) clone() Sheet {
	c := *s
	c.Sprites = slices.Clone(s.Sprites)
	return c
}

// placeAll places every sprite or leaves the sheet untouched.
func (s *Sheet) placeAll(sprites []pendingSprite) bool {
	try := s.clone()
	for _, p := range sprites {
		if !try.place(p.seq, p.idx, p.size) {
			return false
		}
	}
	*s = try
	return true
}

// PackSprites arranges the sprites of each sequence onto as few sheets as
// the budget allows.
func PackSprites(sequences [][]SpriteSize, opts PackOptions) (*Packing, error) {
	length, count := opts.BudgetLength, opts.BudgetCount
	if count <= 0 {
		longest := 0
		for _, seq := range sequences {
			for _, s := range seq {
				longest = max(longest, s.Width, s.Height)
			}
		}
		length, count = max(1024, longest), 32767
	}
	if length <= 0 {
		return nil, errs.Invalid("sprite budget length must be positive")
	}

	order := make([][]pendingSprite, len(sequences))
	for i, seq := range sequences {
		for j, s := range seq {
			order[i] = append(order[i], pendingSprite{seq: i, idx: j, size: s})
		}
		slices.SortStableFunc(order[i], func(a, b pendingSprite) int {
			return cmp.Compare(b.size.Height, a.size.Height)
		})
	}
	tallest := func(s []pendingSprite) int {
		if len(s) == 0 {
			return 0
		}
		return s[0].size.Height
	}
	slices.SortStableFunc(order, func(a, b []pendingSprite) int {
		return cmp.Compare(tallest(b), tallest(a))
	})

	out := &Packing{}
	newSheet := func() (*Sheet, error) {
		if len(out.Sheets) >= count {
			return nil, errs.Limitf("sprites need more than %d sheets", count)
		}
		out.Sheets = append(out.Sheets, Sheet{Width: length, Height: length, Spacing: opts.Spacing})
		return &out.Sheets[len(out.Sheets)-1], nil
	}

	for _, seq := range order {
		if len(seq) == 0 {
			continue
		}
		placed := false
		for i := range out.Sheets {
			if out.Sheets[i].placeAll(seq) {
				placed = true
				break
			}
		}
		if placed {
			continue
		}

		if len(out.Sheets) < count {
			sheet, _ := newSheet()
			if sheet.placeAll(seq) {
				continue
			}
			out.Sheets = out.Sheets[:len(out.Sheets)-1]
		}

		first := len(out.Sheets)
		sheet, err := newSheet()
		if err != nil {
			return nil, err
		}
		for _, p := range seq {
			if sheet.place(p.seq, p.idx, p.size) {
				continue
			}
			if sheet, err = newSheet(); err != nil {
				return nil, err
			}
			if !sheet.place(p.seq, p.idx, p.size) {
				return nil, errs.Limitf("sprite %d of sequence %d is %dx%d, larger than a %d sheet", p.idx, p.seq, p.size.Width, p.size.Height, length)
			}
		}
		if n := len(out.Sheets) - first; n > 1 {
			out.Warnings = append(out.Warnings, fmt.Sprintf("sequence %d was split across %d sheets", seq[0].seq, n))
		}
	}

	used := 0
	for i := range out.Sheets {
		optimizeSheet(&out.Sheets[i], opts.ForceSquare)
		used += out.Sheets[i].Width * out.Sheets[i].Height
	}
	if budget := count * length * length; used > budget {
		return nil, errs.Limitf("sprite sheets use %d pixels, more than the budget of %d", used, budget)
	}
	return out, nil
}

func (s *Sheet) extent() (int, int) {
	w, h := 1, 1
	for _, p := range s.Sprites {
		w = max(w, p.X+p.Width+s.Spacing)
		h = max(h, p.Y+p.Height+s.Spacing)
	}
	return w, h
}

// optimizeSheet shrinks a sheet to the smallest power of two that still
// holds its sprites, repacking at each halving.
func optimizeSheet(s *Sheet, square bool) {
	w, h := s.extent()
	length := min(nextPowerOfTwo(max(w, h)), s.Width)
	if length < s.Width {
		if t, ok := repack(s, length); ok {
			*s = t
		}
	}
	for s.Width > 1 {
		t, ok := repack(s, s.Width/2)
		if !ok {
			break
		}
		*s = t
	}
	if !square {
		_, h = s.extent()
		s.Height = min(nextPowerOfTwo(h), s.Width)
	}
}

func repack(s *Sheet, length int) (Sheet, bool) {
	t := Sheet{Width: length, Height: length, Spacing: s.Spacing}
	if s.locked {
		p := s.Sprites[0]
		if p.Width > length || p.Height > length {
			return Sheet{}, false
		}
		t.Sprites = []PackedSprite{p}
		t.locked = true
		return t, true
	}
	for _, p := range s.Sprites {
		if !t.place(p.Sequence, p.Index, SpriteSize{p.Width, p.Height}) || t.locked {
			return Sheet{}, false
		}
	}
	return t, true
}

// bakeSprites replaces the plate's bitmaps with packed sprite sheets.
func bakeSprites(plate *ColorPlate, opts ColorPlateOptions, w *warnings) error {
	sizes := make([][]SpriteSize, len(plate.Sequences))
	for i, seq := range plate.Sequences {
		for _, b := range plate.Bitmaps[seq.FirstBitmap : seq.FirstBitmap+seq.BitmapCount] {
			sizes[i] = append(sizes[i], SpriteSize{b.Width, b.Height})
		}
	}
	packing, err := PackSprites(sizes, PackOptions{
		BudgetLength: opts.SpriteBudgetLength,
		BudgetCount:  opts.SpriteBudgetCount,
		Spacing:      opts.PreferredSpriteSpacing,
		ForceSquare:  opts.ForceSquareSheets,
	})
	if err != nil {
		return err
	}
	for _, msg := range packing.Warnings {
		w.add(msg)
	}

	bg := opts.SpriteSheetUsage.background()
	composite := opts.SpriteSheetUsage == MultiplyMin
	sheets := make([]Bitmap, len(packing.Sheets))
	sprites := make([][]Sprite, len(plate.Sequences))
	for i, seq := range plate.Sequences {
		sprites[i] = make([]Sprite, seq.BitmapCount)
	}
	for si, sheet := range packing.Sheets {
		img := NewImage(sheet.Width, sheet.Height)
		img.Fill(bg)
		for _, p := range sheet.Sprites {
			src := plate.Bitmaps[plate.Sequences[p.Sequence].FirstBitmap+p.Index]
			if composite {
				blend(img, src.Image, p.X, p.Y)
			} else {
				img.Blit(src.Image, p.X, p.Y)
			}
			sw, sh := float32(sheet.Width), float32(sheet.Height)
			sprites[p.Sequence][p.Index] = Sprite{
				BitmapIndex: si,
				Left:        float32(p.X) / sw,
				Right:       float32(p.X+p.Width) / sw,
				Top:         float32(p.Y) / sh,
				Bottom:      float32(p.Y+p.Height) / sh,
				RegistrationPoint: primitive.Point2D{
					X: (src.RegistrationPoint.X*float32(p.Width) + float32(sheet.Spacing)) / sw,
					Y: (src.RegistrationPoint.Y*float32(p.Height) + float32(sheet.Spacing)) / sh,
				},
			}
		}
		sheets[si] = Bitmap{Image: img, RegistrationPoint: primitive.Point2D{X: 0.5, Y: 0.5}}
	}

	for i := range plate.Sequences {
		seq := &plate.Sequences[i]
		seq.Sprites = sprites[i]
		seq.FirstBitmap, seq.BitmapCount = 0, 0
		if len(seq.Sprites) == 0 {
			continue
		}
		lo, hi := seq.Sprites[0].BitmapIndex, seq.Sprites[0].BitmapIndex
		for _, s := range seq.Sprites {
			lo, hi = min(lo, s.BitmapIndex), max(hi, s.BitmapIndex)
		}
		seq.FirstBitmap, seq.BitmapCount = lo, hi-lo+1
	}
	plate.Bitmaps = sheets
	plate.SpriteSheets = true
	return nil
}

func blend(dst, src Image, x, y int) {
	for row := 0; row < src.Height; row++ {
		for col := 0; col < src.Width; col++ {
			base := dst.At(x+col, y+row).Float()
			c := primitive.AlphaBlend(base, src.At(col, row).Float())
			dst.Set(x+col, y+row, c.Int())
		}
	}
}
