package bitmap

import (
	"fmt"

	"github.com/32bitkid/blam/errs"
	"github.com/32bitkid/blam/internal/logger"
	"github.com/32bitkid/blam/primitive"
)

// MaxDimension is the largest width or height a bitmap may have.
const MaxDimension = 32768

var (
	blue = primitive.ColorARGBInt{A: 0xFF, B: 0xFF}
	cyan = primitive.ColorARGBInt{A: 0xFF, G: 0xFF, B: 0xFF}
)

// plateKey holds the sentinel colors of a color plate's first row.
type plateKey struct {
	background primitive.ColorARGBInt
	divider    primitive.ColorARGBInt
	hasDivider bool
	dummy      primitive.ColorARGBInt
	hasDummy   bool
}

// detectPlate reads the key row. It fails when the image is not a color
// plate at all.
func detectPlate(img Image) (plateKey, bool) {
	if img.Width <= 3 || img.Height <= 1 {
		return plateKey{}, false
	}
	k := plateKey{background: img.At(0, 0)}
	for x := 3; x < img.Width; x++ {
		if img.At(x, 0) != k.background {
			return plateKey{}, false
		}
	}

	if d := img.At(1, 0); d != k.background {
		k.divider, k.hasDivider = d, true
	}
	if d := img.At(2, 0); d != k.background {
		if k.hasDivider && d == k.divider {
			return plateKey{}, false
		}
		k.dummy, k.hasDummy = d, true
	}

	if !k.hasDivider {
		if k.hasDummy || k.background != blue {
			return plateKey{}, false
		}
		k.dummy, k.hasDummy = cyan, true
	}
	return k, true
}

func (k plateKey) isBackground(c primitive.ColorARGBInt) bool {
	return c == k.background || (k.hasDivider && c == k.divider)
}

func (k plateKey) isDummy(c primitive.ColorARGBInt) bool {
	return k.hasDummy && c == k.dummy
}

// ScanColorPlate splits img into sequences of bitmaps.
func ScanColorPlate(img Image, opts ColorPlateOptions) (*ColorPlate, error) {
	if img.Width <= 0 || img.Height <= 0 || len(img.Pixels) != img.Width*img.Height {
		return nil, errs.Invalidf("invalid %dx%d image with %d pixels", img.Width, img.Height, len(img.Pixels))
	}
	log := logger.OrDiscard(opts.Logger).WithGroup("color_plate")
	w := &warnings{log: log}
	plate := &ColorPlate{Type: opts.InputType}

	key, ok := detectPlate(img)
	if !ok {
		log.Debug("no color plate key, using the whole image")
		if err := scanWholeImage(img, opts, plate); err != nil {
			return nil, err
		}
	} else {
		seqs, err := sequenceRows(img, key)
		if err != nil {
			return nil, err
		}
		for _, rows := range seqs {
			if err := extractSequence(img, key, rows, opts, plate, w); err != nil {
				return nil, err
			}
		}
		log.Debug("scanned color plate", "sequences", len(plate.Sequences), "bitmaps", len(plate.Bitmaps))
	}

	if opts.BakeSpriteSheets {
		if err := bakeSprites(plate, opts, w); err != nil {
			return nil, err
		}
	}
	if err := checkConstraints(plate, opts); err != nil {
		return nil, err
	}
	plate.Warnings = w.list
	return plate, nil
}

func scanWholeImage(img Image, opts ColorPlateOptions, plate *ColorPlate) error {
	if opts.BakeSpriteSheets {
		return errs.Invalid("sprite sheets need a color plate")
	}
	bitmaps := []Bitmap{{Image: img, RegistrationPoint: primitive.Point2D{X: 0.5, Y: 0.5}}}
	switch opts.InputType {
	case ThreeDimensionalTextures:
		return errs.Invalid("3-D textures need a color plate")
	case Cubemaps:
		faces, err := unrollCubemap(img)
		if err != nil {
			return err
		}
		bitmaps = bitmaps[:0]
		for _, f := range faces {
			bitmaps = append(bitmaps, Bitmap{Image: f, RegistrationPoint: primitive.Point2D{X: 0.5, Y: 0.5}})
		}
	}
	plate.Bitmaps = bitmaps
	plate.Sequences = []Sequence{{FirstBitmap: 0, BitmapCount: len(bitmaps), YStart: 0, YEnd: img.Height}}
	return nil
}

type rowRange struct{ start, end int }

// sequenceRows finds the row range of every sequence. A plate with a
// divider splits at divider rows; a blue plate splits at empty rows.
func sequenceRows(img Image, key plateKey) ([]rowRange, error) {
	var out []rowRange
	if key.hasDivider {
		start := -1
		for y := 1; y < img.Height; y++ {
			if img.At(0, y) != key.divider {
				continue
			}
			for x := 1; x < img.Width; x++ {
				if img.At(x, y) != key.divider {
					return nil, errs.Invalidf("broken sequence divider on row %d at column %d", y, x)
				}
			}
			if start >= 0 {
				out = append(out, rowRange{start, y})
			}
			start = y + 1
		}
		if start >= 0 {
			out = append(out, rowRange{start, img.Height})
		}
		return out, nil
	}

	start := -1
	for y := 1; y < img.Height; y++ {
		empty := true
		for x := 0; x < img.Width; x++ {
			if img.At(x, y) != key.background {
				empty = false
				break
			}
		}
		switch {
		case !empty && start < 0:
			start = y
		case empty && start >= 0:
			out = append(out, rowRange{start, y})
			start = -1
		}
	}
	if start >= 0 {
		out = append(out, rowRange{start, img.Height})
	}
	return out, nil
}

type rect struct{ left, top, right, bottom int }

func (r rect) width() int  { return r.right - r.left }
func (r rect) height() int { return r.bottom - r.top }
func (r rect) empty() bool { return r.right <= r.left || r.bottom <= r.top }

// bounds shrinks r to the pixels accepted by keep.
func bounds(img Image, r rect, keep func(primitive.ColorARGBInt) bool) rect {
	out := rect{left: r.right, top: r.bottom, right: r.left, bottom: r.top}
	for y := r.top; y < r.bottom; y++ {
		for x := r.left; x < r.right; x++ {
			if keep(img.At(x, y)) {
				out.left, out.right = min(out.left, x), max(out.right, x+1)
				out.top, out.bottom = min(out.top, y), max(out.bottom, y+1)
			}
		}
	}
	return out
}

// runs splits [from, to) into maximal runs where occupied holds.
func runs(from, to int, occupied func(int) bool) []rowRange {
	var out []rowRange
	start := -1
	for i := from; i < to; i++ {
		switch {
		case occupied(i) && start < 0:
			start = i
		case !occupied(i) && start >= 0:
			out = append(out, rowRange{start, i})
			start = -1
		}
	}
	if start >= 0 {
		out = append(out, rowRange{start, to})
	}
	return out
}

func extractSequence(img Image, key plateKey, rows rowRange, opts ColorPlateOptions, plate *ColorPlate, w *warnings) error {
	virtual := func(c primitive.ColorARGBInt) bool { return !key.isBackground(c) }
	solid := func(c primitive.ColorARGBInt) bool { return !key.isBackground(c) && !key.isDummy(c) }

	seq := Sequence{FirstBitmap: len(plate.Bitmaps), YStart: rows.start, YEnd: rows.end}
	columns := runs(0, img.Width, func(x int) bool {
		for y := rows.start; y < rows.end; y++ {
			if virtual(img.At(x, y)) {
				return true
			}
		}
		return false
	})

	for _, col := range columns {
		stacked := runs(rows.start, rows.end, func(y int) bool {
			for x := col.start; x < col.end; x++ {
				if virtual(img.At(x, y)) {
					return true
				}
			}
			return false
		})
		for _, row := range stacked {
			v := bounds(img, rect{col.start, row.start, col.end, row.end}, virtual)
			r := bounds(img, v, solid)
			if r.empty() {
				return errs.Invalidf("zero-sized bitmap at (%d, %d) in sequence %d", v.left, v.top, len(plate.Sequences))
			}
			if opts.TrimZeroAlphaPixels {
				r = bounds(img, r, func(c primitive.ColorARGBInt) bool { return solid(c) && c.A != 0 })
				if r.empty() {
					w.add(fmt.Sprintf("bitmap at (%d, %d) is fully transparent and was dropped", v.left, v.top))
					continue
				}
			}

			midX := float32(v.left+v.right) / 2
			midY := float32(v.top+v.bottom) / 2
			if opts.UseSequenceDividersForRegistrationPoint {
				midY = float32(rows.start+rows.end) / 2
			}
			plate.Bitmaps = append(plate.Bitmaps, Bitmap{
				Image: img.SubImage(r.left, r.top, r.width(), r.height()),
				RegistrationPoint: primitive.Point2D{
					X: (midX - float32(r.left)) / float32(r.width()),
					Y: (midY - float32(r.top)) / float32(r.height()),
				},
			})
		}
	}
	seq.BitmapCount = len(plate.Bitmaps) - seq.FirstBitmap
	plate.Sequences = append(plate.Sequences, seq)
	return nil
}

func checkConstraints(plate *ColorPlate, opts ColorPlateOptions) error {
	pot := opts.InputType != NonPowerOfTwoTextures
	for i, b := range plate.Bitmaps {
		if b.Width > MaxDimension || b.Height > MaxDimension {
			return errs.Limitf("bitmap %d is %dx%d, larger than %d", i, b.Width, b.Height, MaxDimension)
		}
		if pot && (!isPowerOfTwo(b.Width) || !isPowerOfTwo(b.Height)) {
			return errs.Invalidf("bitmap %d is %dx%d, which is not a power of two", i, b.Width, b.Height)
		}
	}

	for i, seq := range plate.Sequences {
		bitmaps := plate.Bitmaps[seq.FirstBitmap : seq.FirstBitmap+seq.BitmapCount]
		switch opts.InputType {
		case Cubemaps:
			if len(bitmaps) != 0 && len(bitmaps) != 6 {
				return errs.Invalidf("cubemap sequence %d has %d bitmaps, expected 6", i, len(bitmaps))
			}
		case ThreeDimensionalTextures:
			if len(bitmaps) != 0 && !isPowerOfTwo(len(bitmaps)) {
				return errs.Invalidf("3-D texture sequence %d has %d bitmaps, which is not a power of two", i, len(bitmaps))
			}
		default:
			continue
		}
		for _, b := range bitmaps {
			if b.Width != bitmaps[0].Width || b.Height != bitmaps[0].Height {
				return errs.Invalidf("bitmaps of sequence %d differ in size", i)
			}
		}
	}
	return nil
}
