// Package mediancut reduces a collection of images to one shared palette
// of at most 2^depth colors using the median cut method, and remaps each
// image to its nearest palette colors.
//
// The pipeline is Collect -> DerivePalette -> Quantize. Quantizer wraps
// the three steps and reports progress through an Observer. Nothing in
// this package reads or writes files or logs.
package mediancut
