package mediancut

import (
	"context"
	"fmt"
	"image/color"
	"sort"
)

// Palette is the ordered list of colors derived by DerivePalette.
type Palette []Color

// Colors returns the palette as opaque color.NRGBA values, for use with
// image/color and image/draw.
func (p Palette) Colors() []color.Color {
	colors := make([]color.Color, len(p))
	for i, c := range p {
		colors[i] = c.NRGBA()
	}
	return colors
}

// bucket is a contiguous part of the population being partitioned.
type bucket []Color

// widestChannel returns the channel with the largest range (max - min).
// The lowest channel wins ties.
func (b bucket) widestChannel() Channel {
	lo := b[0]
	hi := b[0]
	for _, c := range b[1:] {
		for ch := Red; ch <= Blue; ch++ {
			if c[ch] < lo[ch] {
				lo[ch] = c[ch]
			}
			if c[ch] > hi[ch] {
				hi[ch] = c[ch]
			}
		}
	}

	widest := Red
	for ch := Green; ch <= Blue; ch++ {
		if hi[ch]-lo[ch] > hi[widest]-lo[widest] {
			widest = ch
		}
	}
	return widest
}

// mean returns the per-channel average of the bucket.
func (b bucket) mean() Color {
	var sum Color
	for _, c := range b {
		sum[Red] += c[Red]
		sum[Green] += c[Green]
		sum[Blue] += c[Blue]
	}
	n := float64(len(b))
	return Color{sum[Red] / n, sum[Green] / n, sum[Blue] / n}
}

// split sorts the bucket in place along its widest channel and cuts it
// at the median index.
func (b bucket) split() (bucket, bucket) {
	ch := b.widestChannel()
	sort.SliceStable(b, func(i, j int) bool {
		return b[i][ch] < b[j][ch]
	})
	median := len(b) / 2
	return b[:median], b[median:]
}

// DerivePalette runs median cut on pop and returns up to 2^depth colors,
// one per non-empty leaf bucket, in depth-first left to right order.
//
// The population is copied before sorting, so the caller's slice is
// never reordered. An empty population gives an empty palette and no
// error. ctx is checked once per leaf.
func DerivePalette(ctx context.Context, pop Population, depth int) (Palette, error) {
	if depth < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeDepth, depth)
	}
	if len(pop) == 0 {
		return Palette{}, nil
	}

	work := make(bucket, len(pop))
	copy(work, pop)

	leaves := len(pop)
	if depth < 31 && 1<<depth < leaves {
		leaves = 1 << depth
	}
	p := make(Palette, 0, leaves)

	var cut func(b bucket, depth int) error
	cut = func(b bucket, depth int) error {
		if len(b) == 0 {
			return nil
		}
		// A single pixel lands in the right half of every later split
		if depth == 0 || len(b) == 1 {
			if err := ctx.Err(); err != nil {
				return err
			}
			p = append(p, b.mean())
			return nil
		}
		left, right := b.split()
		if err := cut(left, depth-1); err != nil {
			return err
		}
		return cut(right, depth-1)
	}

	if err := cut(work, depth); err != nil {
		return nil, err
	}
	return p, nil
}
