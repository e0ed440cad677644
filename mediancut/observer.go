package mediancut

// Observer receives progress events from a quantization run. Methods
// may be called from multiple goroutines by QuantizeAll, so
// implementations must be safe for concurrent use.
type Observer interface {
	// PopulationCollected is called once the pixel pool is built.
	PopulationCollected(pixels int)
	// PaletteDerived is called once per DerivePalette call.
	PaletteDerived(depth int, p Palette)
	// ImageQuantized is called after each image is mapped, with the error
	// that image failed with, if any.
	ImageQuantized(name string, err error)
}

// nopObserver is used when no Observer is set.
type nopObserver struct{}

func (nopObserver) PopulationCollected(int)      {}
func (nopObserver) PaletteDerived(int, Palette)  {}
func (nopObserver) ImageQuantized(string, error) {}

func observerOrNop(o Observer) Observer {
	if o == nil {
		return nopObserver{}
	}
	return o
}
