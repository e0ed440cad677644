package mediancut

import (
	"image"
)

// Image is a named grid of colors, stored row-major. Name identifies the
// source of the image and is carried over to the quantized result.
type Image struct {
	Name   string
	Width  int
	Height int
	Pix    []Color
}

// NewImage returns a blank image of the given size.
func NewImage(name string, width, height int) Image {
	return Image{
		Name:   name,
		Width:  width,
		Height: height,
		Pix:    make([]Color, width*height),
	}
}

// FromImage copies an image.Image into an Image, in R, G, B order.
func FromImage(name string, src image.Image) Image {
	b := src.Bounds()
	img := NewImage(name, b.Dx(), b.Dy())

	// Fast path for the types imaging returns
	if n, ok := src.(*image.NRGBA); ok {
		for y := 0; y < img.Height; y++ {
			row := n.Pix[y*n.Stride : y*n.Stride+img.Width*4]
			for x := 0; x < img.Width; x++ {
				img.Pix[y*img.Width+x] = RGB(row[x*4], row[x*4+1], row[x*4+2])
			}
		}
		return img
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.Pix[(y-b.Min.Y)*img.Width+(x-b.Min.X)] = ColorFrom(src.At(x, y))
		}
	}
	return img
}

// At returns the color at x, y.
func (img Image) At(x, y int) Color {
	return img.Pix[y*img.Width+x]
}

// Set sets the color at x, y.
func (img Image) Set(x, y int, c Color) {
	img.Pix[y*img.Width+x] = c
}

// NRGBA converts the image to an opaque *image.NRGBA for encoding.
func (img Image) NRGBA() *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
	for i, c := range img.Pix {
		n := c.NRGBA()
		dst.Pix[i*4] = n.R
		dst.Pix[i*4+1] = n.G
		dst.Pix[i*4+2] = n.B
		dst.Pix[i*4+3] = 255
	}
	return dst
}
