package mediancut

import "fmt"

// Render draws the palette as a swatch: one band of rowHeight rows per
// color, stacked top to bottom in palette order, each width pixels wide.
// An empty palette gives an image with no rows.
func Render(p Palette, rowHeight, width int) (Image, error) {
	if rowHeight <= 0 || width <= 0 {
		return Image{}, fmt.Errorf("%w: swatch size %dx%d", ErrInvalidArgument, width, rowHeight)
	}

	img := NewImage("palette", width, rowHeight*len(p))
	for i, c := range p {
		band := img.Pix[i*rowHeight*width : (i+1)*rowHeight*width]
		for j := range band {
			band[j] = c
		}
	}
	return img, nil
}
