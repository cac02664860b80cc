package bitmap

import (
	"fmt"
	"math/bits"

	"github.com/32bitkid/blam/errs"
	"github.com/32bitkid/blam/internal/logger"
	"github.com/32bitkid/blam/primitive"
)

// HeightmapConverter turns a monochrome height map into a bump map.
type HeightmapConverter interface {
	ConvertHeightmap(img Image, height float32) (Image, error)
}

// Filter applies a sharpen or blur kernel of the given strength.
type Filter interface {
	Apply(img Image, amount float32) Image
}

// ProcessingOptions controls postprocessing. Nil pointers disable the
// corresponding step.
type ProcessingOptions struct {
	BumpmapHeight    *float32
	DetailFadeFactor *float32
	SharpenFactor    *float32
	BlurFactor       *float32
	AlphaBias        *float32
	MaxMipmaps       *int

	TruncateZeroAlpha          bool
	Vectorize                  bool
	NearestNeighborAlphaMipmap bool

	Heightmap HeightmapConverter
	Sharpen   Filter
	Blur      Filter

	Logger logger.Logger
}

// DataType is the shape of a processed bitmap.
type DataType int

const (
	Texture2D DataType = iota
	Texture3D
	Cubemap
)

// ProcessedBitmap is a texture ready for encoding. Pixels holds every
// surface in storage order: level by level, and within a level each face
// or depth slice in turn.
type ProcessedBitmap struct {
	Type          DataType
	Width, Height int
	Depth         int
	Faces         int
	Mipmaps       int
	Pixels        []primitive.ColorARGBInt

	RegistrationPoint primitive.Point2D
}

type ProcessedBitmaps struct {
	Type      InputType
	Bitmaps   []ProcessedBitmap
	Sequences []Sequence
	Warnings  []string
}

// mipChain is the base map followed by its mipmaps.
type mipChain []Image

// Process generates mipmaps and applies postprocessing to every bitmap of
// a scanned plate.
func Process(plate *ColorPlate, opts ProcessingOptions) (*ProcessedBitmaps, error) {
	log := logger.OrDiscard(opts.Logger).WithGroup("process")
	w := &warnings{log: log, list: append([]string(nil), plate.Warnings...)}

	if opts.BumpmapHeight != nil && opts.Heightmap == nil {
		w.add("no heightmap converter is configured")
	}
	bases := make([]Image, len(plate.Bitmaps))
	for i, b := range plate.Bitmaps {
		bases[i] = cloneImage(b.Image)
		if opts.BumpmapHeight != nil && opts.Heightmap != nil && monochrome(b.Image) {
			var err error
			if bases[i], err = opts.Heightmap.ConvertHeightmap(b.Image, *opts.BumpmapHeight); err != nil {
				return nil, errs.Wrapf(err, "converting bitmap %d", i)
			}
		}
	}

	sequences := plate.Sequences
	if len(sequences) == 0 && len(bases) > 0 {
		sequences = []Sequence{{BitmapCount: len(bases)}}
	}

	out := &ProcessedBitmaps{Type: plate.Type}
	if plate.SpriteSheets {
		processSheets(out, bases, plate, opts, w)
		sequences = nil
	}
	for _, seq := range sequences {
		group := bases[seq.FirstBitmap : seq.FirstBitmap+seq.BitmapCount]
		regs := plate.Bitmaps[seq.FirstBitmap : seq.FirstBitmap+seq.BitmapCount]
		next := seq
		next.FirstBitmap = len(out.Bitmaps)

		switch {
		case plate.Type == Cubemaps && len(group) == 6:
			chains := make([]mipChain, len(group))
			for j, base := range group {
				chains[j] = buildMipmaps(base, opts)
			}
			postprocess(chains, opts, w)
			out.Bitmaps = append(out.Bitmaps, consolidate(chains, Cubemap, regs[0].RegistrationPoint))
			next.BitmapCount = 1
		case plate.Type == ThreeDimensionalTextures && len(group) > 0:
			chains := depthChains(group, opts)
			postprocess(chains, opts, w)
			out.Bitmaps = append(out.Bitmaps, consolidate(chains, Texture3D, regs[0].RegistrationPoint))
			next.BitmapCount = 1
		default:
			for j, base := range group {
				chains := []mipChain{buildMipmaps(base, opts)}
				postprocess(chains, opts, w)
				out.Bitmaps = append(out.Bitmaps, consolidate(chains, Texture2D, regs[j].RegistrationPoint))
			}
		}
		if len(plate.Sequences) > 0 {
			out.Sequences = append(out.Sequences, next)
		}
	}

	if opts.Vectorize {
		for i := range out.Bitmaps {
			vectorize(out.Bitmaps[i].Pixels)
		}
	}
	log.Debug("processed bitmaps", "bitmaps", len(out.Bitmaps))
	out.Warnings = w.list
	return out, nil
}

// processSheets handles each sheet of a baked plate once. Sequences and
// their sprites keep pointing at the same sheet indices.
func processSheets(out *ProcessedBitmaps, bases []Image, plate *ColorPlate, opts ProcessingOptions, w *warnings) {
	for i, base := range bases {
		chains := []mipChain{buildMipmaps(base, opts)}
		postprocess(chains, opts, w)
		out.Bitmaps = append(out.Bitmaps, consolidate(chains, Texture2D, plate.Bitmaps[i].RegistrationPoint))
	}
	for _, seq := range plate.Sequences {
		seq.Sprites = append([]Sprite(nil), seq.Sprites...)
		out.Sequences = append(out.Sequences, seq)
	}
}

// postprocess runs the per-level steps on chains that share a mipmap
// count.
func postprocess(chains []mipChain, opts ProcessingOptions, w *warnings) {
	mipmaps := 0
	for _, chain := range chains {
		mipmaps = max(mipmaps, len(chain)-1)
	}
	for _, chain := range chains {
		applyFilter(chain, opts.Sharpen, opts.SharpenFactor, "sharpen", w)
		applyFilter(chain, opts.Blur, opts.BlurFactor, "blur", w)
		if opts.AlphaBias != nil {
			biasAlpha(chain, *opts.AlphaBias)
		}
		if opts.DetailFadeFactor != nil {
			fadeToGray(chain, mipmaps, *opts.DetailFadeFactor)
		}
		if opts.TruncateZeroAlpha {
			for _, level := range chain {
				truncateZeroAlpha(level)
			}
		}
	}
}

func monochrome(m Image) bool {
	for _, c := range m.Pixels {
		if c.R != c.G || c.G != c.B {
			return false
		}
	}
	return true
}

// MipmapCount is the natural number of mipmaps below a base map.
func MipmapCount(width, height int) int {
	return bits.Len(uint(max(width, height))) - 1
}

func mipmapLimit(base Image, opts ProcessingOptions) int {
	count := MipmapCount(base.Width, base.Height)
	if opts.MaxMipmaps != nil {
		count = min(count, max(*opts.MaxMipmaps, 0))
	}
	return count
}

func buildMipmaps(base Image, opts ProcessingOptions) mipChain {
	count := mipmapLimit(base, opts)
	chain := mipChain{base}
	for i := 0; i < count; i++ {
		chain = append(chain, halve(chain[i], opts.NearestNeighborAlphaMipmap))
	}
	return chain
}

// halve averages 2x2 blocks. A dimension of one stays one.
func halve(m Image, nearestAlpha bool) Image {
	out := NewImage(max(m.Width/2, 1), max(m.Height/2, 1))
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			var sum [4]int
			n := 0
			for dy := 0; dy < 2; dy++ {
				for dx := 0; dx < 2; dx++ {
					sx, sy := min(2*x+dx, m.Width-1), min(2*y+dy, m.Height-1)
					c := m.At(sx, sy)
					sum[0] += int(c.A)
					sum[1] += int(c.R)
					sum[2] += int(c.G)
					sum[3] += int(c.B)
					n++
				}
			}
			c := primitive.ColorARGBInt{
				A: uint8((sum[0] + n/2) / n),
				R: uint8((sum[1] + n/2) / n),
				G: uint8((sum[2] + n/2) / n),
				B: uint8((sum[3] + n/2) / n),
			}
			if nearestAlpha {
				c.A = m.At(min(2*x, m.Width-1), min(2*y, m.Height-1)).A
			}
			out.Set(x, y, c)
		}
	}
	return out
}

// average mixes two images of the same size.
func average(a, b Image) Image {
	out := NewImage(a.Width, a.Height)
	for i := range out.Pixels {
		p, q := a.Pixels[i], b.Pixels[i]
		out.Pixels[i] = primitive.ColorARGBInt{
			A: uint8((int(p.A) + int(q.A) + 1) / 2),
			R: uint8((int(p.R) + int(q.R) + 1) / 2),
			G: uint8((int(p.G) + int(q.G) + 1) / 2),
			B: uint8((int(p.B) + int(q.B) + 1) / 2),
		}
	}
	return out
}

// depthChains builds the mipmaps of 3-D texture slices so that each level
// also halves in depth. The result holds one chain per slice of the base
// level; chain k has an entry at level l only while k is below that
// level's depth.
func depthChains(slices []Image, opts ProcessingOptions) []mipChain {
	levels := mipmapLimit(slices[0], opts) + 1
	out := make([]mipChain, len(slices))
	for k := range slices {
		out[k] = mipChain{slices[k]}
	}
	prev := slices
	for l := 1; l < levels; l++ {
		depth := max(len(prev)/2, 1)
		cur := make([]Image, depth)
		for k := range cur {
			a := halve(prev[min(2*k, len(prev)-1)], opts.NearestNeighborAlphaMipmap)
			if len(prev) > 1 {
				a = average(a, halve(prev[min(2*k+1, len(prev)-1)], opts.NearestNeighborAlphaMipmap))
			}
			cur[k] = a
			out[k] = append(out[k], a)
		}
		prev = cur
	}
	return out
}

func applyFilter(chain mipChain, f Filter, amount *float32, name string, w *warnings) {
	if amount == nil {
		return
	}
	if f == nil {
		w.add(fmt.Sprintf("no %s filter is configured", name))
		return
	}
	for i := range chain {
		chain[i] = f.Apply(chain[i], *amount)
	}
}

func biasAlpha(chain mipChain, bias float32) {
	for _, level := range chain {
		for i, c := range level.Pixels {
			f := c.Float()
			f.A = min(max(f.A+bias, 0), 1)
			level.Pixels[i] = f.Int()
		}
	}
}

// fadeToGray blends each mipmap toward middle gray, more strongly at
// smaller levels. Alpha is kept.
func fadeToGray(chain mipChain, mipmaps int, factor float32) {
	f := min(max(factor, 0), 1)
	m := float32(mipmaps)
	for i, level := range chain[1:] {
		alpha := float32(1)
		if f < 1 {
			alpha = min(1, float32(i+1)/(m+1-f*(m+(1-f))))
		}
		gray := primitive.ColorARGB{A: alpha, R: 0.5, G: 0.5, B: 0.5}
		for p, c := range level.Pixels {
			src := c.Float()
			mixed := primitive.AlphaBlend(primitive.ColorARGB{A: 1, R: src.R, G: src.G, B: src.B}, gray)
			mixed.A = src.A
			level.Pixels[p] = mixed.Int()
		}
	}
}

func truncateZeroAlpha(m Image) {
	for i, c := range m.Pixels {
		if c.A == 0 {
			m.Pixels[i] = primitive.ColorARGBInt{}
		}
	}
}

// vectorize renormalizes pixels as unit vectors packed into [0, 1].
func vectorize(px []primitive.ColorARGBInt) {
	for i, c := range px {
		f := c.Float()
		v := primitive.VectorNormalize(primitive.Vector3D{I: f.R - 0.5, J: f.G - 0.5, K: f.B - 0.5})
		px[i] = primitive.ColorARGB{A: f.A, R: v.I/2 + 0.5, G: v.J/2 + 0.5, B: v.K/2 + 0.5}.Int()
	}
}

// consolidate merges the chains of a cubemap's faces or a 3-D texture's
// slices into one bitmap laid out level by level.
func consolidate(chains []mipChain, typ DataType, reg primitive.Point2D) ProcessedBitmap {
	base := chains[0][0]
	pb := ProcessedBitmap{
		Type:              typ,
		Width:             base.Width,
		Height:            base.Height,
		Depth:             1,
		Faces:             1,
		Mipmaps:           len(chains[0]) - 1,
		RegistrationPoint: reg,
	}
	switch typ {
	case Cubemap:
		pb.Faces = len(chains)
	case Texture3D:
		pb.Depth = len(chains)
	}
	for l := 0; l <= pb.Mipmaps; l++ {
		for _, chain := range chains {
			if l < len(chain) {
				pb.Pixels = append(pb.Pixels, chain[l].Pixels...)
			}
		}
	}
	return pb
}
