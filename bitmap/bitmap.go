// Package bitmap turns color plates into the bitmaps a bitmap tag stores:
// scanning a plate into sequences, packing sprite sheets, generating and
// post-processing mipmaps, and rebuilding a plate from processed data.
package bitmap

import (
	"github.com/32bitkid/blam/internal/logger"
	"github.com/32bitkid/blam/primitive"
)

// InputType says how a color plate should be interpreted. The values follow
// the bitmap tag's type field.
type InputType int

const (
	TwoDimensionalTextures InputType = iota
	ThreeDimensionalTextures
	Cubemaps
	Sprites
	NonPowerOfTwoTextures
)

var inputTypeNames = [...]string{
	TwoDimensionalTextures:   "2d_textures",
	ThreeDimensionalTextures: "3d_textures",
	Cubemaps:                 "cube_maps",
	Sprites:                  "sprites",
	NonPowerOfTwoTextures:    "interface_bitmaps",
}

func (t InputType) String() string {
	if t < 0 || int(t) >= len(inputTypeNames) {
		return "unknown"
	}
	return inputTypeNames[t]
}

// SpriteUsage picks the sheet background a sprite is composited onto.
type SpriteUsage int

const (
	BlendAddSubtractMax SpriteUsage = iota
	MultiplyMin
	DoubleMultiply
)

func (u SpriteUsage) background() primitive.ColorARGBInt {
	switch u {
	case MultiplyMin:
		return primitive.ColorARGBInt{A: 255, R: 255, G: 255, B: 255}
	case DoubleMultiply:
		return primitive.ColorARGBInt{A: 127, R: 127, G: 127, B: 127}
	}
	return primitive.ColorARGBInt{}
}

// Bitmap is one extracted image.
type Bitmap struct {
	Image
	// RegistrationPoint is normalized to the bitmap's dimensions.
	RegistrationPoint primitive.Point2D
}

// Sprite is a placement of a bitmap on a sprite sheet, in normalized sheet
// coordinates.
type Sprite struct {
	BitmapIndex              int
	Left, Right, Top, Bottom float32
	RegistrationPoint        primitive.Point2D
}

// Sequence groups consecutive bitmaps, or the sprites of a sprite
// sequence.
type Sequence struct {
	Name        string
	FirstBitmap int
	BitmapCount int
	Sprites     []Sprite

	// Rows of the color plate the sequence came from.
	YStart, YEnd int
}

type ColorPlateOptions struct {
	InputType InputType

	UseSequenceDividersForRegistrationPoint bool
	TrimZeroAlphaPixels                     bool

	BakeSpriteSheets       bool
	SpriteBudgetLength     int
	SpriteBudgetCount      int
	PreferredSpriteSpacing int
	ForceSquareSheets      bool
	SpriteSheetUsage       SpriteUsage

	Logger logger.Logger
}

// DefaultColorPlateOptions returns options for plain 2-D textures.
func DefaultColorPlateOptions() ColorPlateOptions {
	return ColorPlateOptions{
		InputType:              TwoDimensionalTextures,
		PreferredSpriteSpacing: 4,
	}
}

// ColorPlate is the result of scanning a color plate.
type ColorPlate struct {
	Type      InputType
	Bitmaps   []Bitmap
	Sequences []Sequence
	Warnings  []string

	// SpriteSheets is set once sprites are baked. Bitmaps are then sheets
	// that several sequences may share.
	SpriteSheets bool
}

// warnings collects messages for a result and mirrors them to a logger.
type warnings struct {
	log  logger.Logger
	list []string
}

func (w *warnings) add(msg string, args ...any) {
	w.list = append(w.list, msg)
	w.log.Warn(msg, args...)
}

func isPowerOfTwo(n int) bool { return n > 0 && n&(n-1) == 0 }

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
