package mediancut

import "context"

// Quantizer runs the whole median cut pipeline over a set of images and
// reports progress to an Observer.
type Quantizer struct {
	// Depth sets the palette size to at most 2^Depth colors.
	Depth int
	// Workers limits how many images are quantized at once. Zero or less
	// means no limit.
	Workers int
	// Observer receives progress events. It may be nil.
	Observer Observer
}

// Palette collects the pixels of all images and derives a palette.
func (q *Quantizer) Palette(ctx context.Context, images []Image) (Palette, error) {
	obs := observerOrNop(q.Observer)

	pop := Collect(images...)
	obs.PopulationCollected(len(pop))

	p, err := DerivePalette(ctx, pop, q.Depth)
	if err != nil {
		return nil, err
	}
	obs.PaletteDerived(q.Depth, p)
	return p, nil
}

// Apply quantizes every image against p. See QuantizeAll.
func (q *Quantizer) Apply(ctx context.Context, images []Image, p Palette) []Result {
	obs := observerOrNop(q.Observer)

	results := QuantizeAll(ctx, images, p, q.Workers)
	for _, r := range results {
		obs.ImageQuantized(r.Image.Name, r.Err)
	}
	return results
}

// Run derives a palette from images and quantizes each of them with it.
// The error is only set when no palette could be derived; per-image
// failures are in the results.
func (q *Quantizer) Run(ctx context.Context, images []Image) (Palette, []Result, error) {
	p, err := q.Palette(ctx, images)
	if err != nil {
		return nil, nil, err
	}
	return p, q.Apply(ctx, images, p), nil
}
