package mediancut

// Population is the flat set of pixels a palette is derived from.
// Order does not matter to the algorithm.
type Population []Color

// Collect gathers the pixels of all images into one Population, in
// image order. The buffer is sized once up front.
func Collect(images ...Image) Population {
	n := 0
	for _, img := range images {
		n += len(img.Pix)
	}
	pop := make(Population, 0, n)
	for _, img := range images {
		pop = append(pop, img.Pix...)
	}
	return pop
}

// Pool builds a Population incrementally. It is not safe for concurrent
// use; collect per worker and Add the results from one goroutine.
type Pool struct {
	pixels Population
}

// Add appends the pixels of each image to the pool.
func (p *Pool) Add(images ...Image) {
	n := len(p.pixels)
	for _, img := range images {
		n += len(img.Pix)
	}
	if n > cap(p.pixels) {
		grown := make(Population, len(p.pixels), n)
		copy(grown, p.pixels)
		p.pixels = grown
	}
	for _, img := range images {
		p.pixels = append(p.pixels, img.Pix...)
	}
}

// Len returns the number of pixels collected so far.
func (p *Pool) Len() int {
	return len(p.pixels)
}

// Population returns a copy of the collected pixels.
func (p *Pool) Population() Population {
	pop := make(Population, len(p.pixels))
	copy(pop, p.pixels)
	return pop
}
