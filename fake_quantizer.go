package main

import (
	"image"
	"image/color"

	"github.com/makeworld-the-better-one/mcquant/mediancut"
)

// fakeQuantizer implements draw.Quantizer. It ignores the provided image
// and just returns the derived palette each time. The image/gif encoder
// only takes a palette through a draw.Quantizer, and every pixel written
// is already a palette color, so nothing needs to be computed here.
type fakeQuantizer struct {
	p mediancut.Palette
}

func (fq *fakeQuantizer) Quantize(p color.Palette, m image.Image) color.Palette {
	return append(p[:0], fq.p.Colors()...)
}
