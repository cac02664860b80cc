package pixelfmt

import (
	"runtime"
	"sync"

	"github.com/32bitkid/blam/errs"
	"github.com/32bitkid/blam/primitive"
)

// Workers caps how many goroutines Encode uses. Zero means one per CPU.
var Workers = 0

// Encode converts pixels laid out in storage order into e. Levels are
// compressed concurrently; the result does not depend on the worker count.
func Encode(e Encoding, px []primitive.ColorARGBInt, s Shape, dither bool) ([]byte, error) {
	return encodeWith(e, px, s, dither, Workers)
}

func encodeWith(e Encoding, px []primitive.ColorARGBInt, s Shape, dither bool, workers int) ([]byte, error) {
	if !e.valid() {
		return nil, errs.Invalidf("unknown pixel encoding %d", e)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	if want := s.PixelCount(); len(px) != want {
		return nil, errs.Invalidf("expected %d pixels, got %d", want, len(px))
	}
	dither = dither && e.Ditherable()

	levels := splitLevels(s.surfaces(), px)
	encoded := make([][]byte, len(levels))
	work := func(i int) {
		var out []byte
		for _, sf := range levels[i] {
			out = encodeSurface(e, sf, dither, out)
		}
		encoded[i] = out
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	runLevels(len(levels), workers, work)

	var out []byte
	for _, b := range encoded {
		out = append(out, b...)
	}
	if len(out) != TextureSize(e, s) {
		errs.Bug("%s encoder produced %d bytes, expected %d", e, len(out), TextureSize(e, s))
	}
	return out, nil
}

type surfacePixels struct {
	surface
	px []primitive.ColorARGBInt
}

// splitLevels slices px into surfaces grouped by mipmap level.
func splitLevels(sfs []surface, px []primitive.ColorARGBInt) [][]surfacePixels {
	var levels [][]surfacePixels
	at := 0
	for _, sf := range sfs {
		n := sf.width * sf.height
		if sf.level == len(levels) {
			levels = append(levels, nil)
		}
		levels[sf.level] = append(levels[sf.level], surfacePixels{surface: sf, px: px[at : at+n]})
		at += n
	}
	return levels
}

// runLevels hands out levels to workers; each idle worker claims the
// lowest level nobody has started.
func runLevels(n, workers int, work func(int)) {
	var mu sync.Mutex
	next := 0
	claim := func() (int, bool) {
		mu.Lock()
		defer mu.Unlock()
		if next >= n {
			return 0, false
		}
		next++
		return next - 1, true
	}

	var wg sync.WaitGroup
	for range min(workers, n) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i, ok := claim()
				if !ok {
					return
				}
				work(i)
			}
		}()
	}
	wg.Wait()
}

func encodeSurface(e Encoding, sf surfacePixels, dithered bool, out []byte) []byte {
	px := sf.px
	if dithered {
		px = dither(e, px, sf.width, sf.height)
	}
	if e.Compressed() {
		return encodeBlocks(e, px, sf.width, sf.height, out)
	}
	return encodeLinear(e, px, out)
}

// Decode expands encoded data into pixels in storage order.
func Decode(e Encoding, data []byte, s Shape) ([]primitive.ColorARGBInt, error) {
	if !e.valid() {
		return nil, errs.Invalidf("unknown pixel encoding %d", e)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	if want := TextureSize(e, s); len(data) != want {
		return nil, errs.Malformedf("%s data is %d bytes, expected %d", e, len(data), want)
	}

	px := make([]primitive.ColorARGBInt, s.PixelCount())
	at, pat := 0, 0
	for _, sf := range s.surfaces() {
		n := e.surfaceSize(sf.width, sf.height)
		dst := px[pat : pat+sf.width*sf.height]
		if e.Compressed() {
			decodeBlocks(e, data[at:at+n], dst, sf.width, sf.height)
		} else if err := decodeLinear(e, data[at:at+n], dst); err != nil {
			return nil, errs.Wrapf(err, "level %d", sf.level)
		}
		at += n
		pat += sf.width * sf.height
	}
	return px, nil
}
