package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-orbit-raytracer/pkg/core"
)

// Frame is a rendered image: width*height RGB triples in row-major order,
// top row first, each channel gamma corrected and quantized to 0-255.
type Frame struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewFrame allocates a black frame
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*3),
	}
}

// SetRGB stores the pixel at column x of output row y (0 = top)
func (f *Frame) SetRGB(x, y int, r, g, b uint8) {
	i := (y*f.Width + x) * 3
	f.Pix[i] = r
	f.Pix[i+1] = g
	f.Pix[i+2] = b
}

// RGB returns the pixel at column x of output row y (0 = top)
func (f *Frame) RGB(x, y int) (r, g, b uint8) {
	i := (y*f.Width + x) * 3
	return f.Pix[i], f.Pix[i+1], f.Pix[i+2]
}

// ToImage converts the frame into an opaque RGBA image
func (f *Frame) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			r, g, b := f.RGB(x, y)
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return img
}

// QuantizeColor applies gamma 2 correction to an averaged linear color
// and maps each channel to 0-255
func QuantizeColor(color core.Vec3) (r, g, b uint8) {
	c := color.Sqrt()
	return quantizeChannel(c.X), quantizeChannel(c.Y), quantizeChannel(c.Z)
}

func quantizeChannel(c float64) uint8 {
	if math.IsNaN(c) {
		return 0
	}
	return uint8(256 * max(0.0, min(0.999, c)))
}
