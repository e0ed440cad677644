package mediancut

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"
)

// Nearest returns the index of the palette color closest to c by
// Euclidean distance. The earliest entry wins ties. p must not be empty.
func (p Palette) Nearest(c Color) int {
	best := 0
	bestDist := math.Inf(1)
	for i, pc := range p {
		if d := c.Distance(pc); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// Quantize returns a copy of img with every pixel replaced by its
// nearest palette color. img is not modified.
func Quantize(img Image, p Palette) (Image, error) {
	if len(p) == 0 {
		return Image{}, ErrEmptyPalette
	}

	out := NewImage(img.Name, img.Width, img.Height)
	// Photos repeat colors a lot, so remember what each one mapped to
	seen := make(map[Color]int)
	for i, c := range img.Pix {
		idx, ok := seen[c]
		if !ok {
			idx = p.Nearest(c)
			seen[c] = idx
		}
		out.Pix[i] = p[idx]
	}
	return out, nil
}

// Result is the outcome of quantizing one image with QuantizeAll.
type Result struct {
	Image Image
	Err   error
}

// QuantizeAll quantizes each image against p, running up to workers
// images at once. workers <= 0 means no limit.
//
// Results are returned in input order. A failed image only sets its own
// Err; the other images still run. ctx is checked before each image.
func QuantizeAll(ctx context.Context, images []Image, p Palette, workers int) []Result {
	results := make([]Result, len(images))

	var g errgroup.Group
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i := range images {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{Image: Image{Name: images[i].Name}, Err: err}
				return nil
			}
			out, err := Quantize(images[i], p)
			if err != nil {
				out.Name = images[i].Name
			}
			results[i] = Result{Image: out, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
