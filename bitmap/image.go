package bitmap

import (
	"image"
	"image/color"

	"github.com/32bitkid/blam/primitive"
)

// Image is a row-major grid of pixels.
type Image struct {
	Width, Height int
	Pixels        []primitive.ColorARGBInt
}

func NewImage(width, height int) Image {
	return Image{Width: width, Height: height, Pixels: make([]primitive.ColorARGBInt, width*height)}
}

func (m Image) At(x, y int) primitive.ColorARGBInt { return m.Pixels[y*m.Width+x] }

func (m Image) Set(x, y int, c primitive.ColorARGBInt) { m.Pixels[y*m.Width+x] = c }

func (m Image) Fill(c primitive.ColorARGBInt) {
	for i := range m.Pixels {
		m.Pixels[i] = c
	}
}

// SubImage copies the rectangle at (x, y).
func (m Image) SubImage(x, y, w, h int) Image {
	out := NewImage(w, h)
	for row := 0; row < h; row++ {
		copy(out.Pixels[row*w:(row+1)*w], m.Pixels[(y+row)*m.Width+x:])
	}
	return out
}

// Blit copies src onto m with its top-left corner at (x, y).
func (m Image) Blit(src Image, x, y int) {
	for row := 0; row < src.Height; row++ {
		copy(m.Pixels[(y+row)*m.Width+x:], src.Pixels[row*src.Width:(row+1)*src.Width])
	}
}

// FromImage converts any image.Image, un-premultiplying alpha.
func FromImage(src image.Image) Image {
	b := src.Bounds()
	out := NewImage(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			out.Set(x, y, primitive.ColorARGBInt{A: c.A, R: c.R, G: c.G, B: c.B})
		}
	}
	return out
}

// ToImage converts to non-premultiplied RGBA. Its pixel memory is laid
// out as A8B8G8R8.
func (m Image) ToImage() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, m.Width, m.Height))
	for i, c := range m.Pixels {
		copy(out.Pix[i*4:], []uint8{c.R, c.G, c.B, c.A})
	}
	return out
}
