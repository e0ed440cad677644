package mediancut

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomPopulation(seed int64, n int) Population {
	r := rand.New(rand.NewSource(seed))
	pop := make(Population, n)
	for i := range pop {
		pop[i] = RGB(uint8(r.Intn(256)), uint8(r.Intn(256)), uint8(r.Intn(256)))
	}
	return pop
}

func TestDerivePalette(t *testing.T) {
	tests := []struct {
		name     string
		pop      Population
		depth    int
		expected Palette
	}{
		{
			name: "BlackAndWhite",
			pop: Population{
				RGB(0, 0, 0), RGB(0, 0, 0), RGB(255, 255, 255), RGB(255, 255, 255),
			},
			depth:    1,
			expected: Palette{RGB(0, 0, 0), RGB(255, 255, 255)},
		},
		{
			name:     "Empty",
			pop:      Population{},
			depth:    3,
			expected: Palette{},
		},
		{
			name:     "SinglePixel",
			pop:      Population{RGB(5, 5, 5)},
			depth:    2,
			expected: Palette{RGB(5, 5, 5)},
		},
		{
			name:     "UnsortedInput",
			pop:      Population{RGB(200, 0, 0), RGB(10, 0, 0), RGB(210, 0, 0), RGB(0, 0, 0)},
			depth:    1,
			expected: Palette{RGB(5, 0, 0), RGB(205, 0, 0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := DerivePalette(context.Background(), tt.pop, tt.depth)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p)
		})
	}
}

func TestDerivePaletteDepthZeroIsMean(t *testing.T) {
	pop := Population{
		{0, 10, 20},
		{10, 20, 30},
		{20, 30, 41},
	}
	p, err := DerivePalette(context.Background(), pop, 0)
	require.NoError(t, err)
	require.Len(t, p, 1)
	assert.InDelta(t, 10, p[0][Red], 1e-9)
	assert.InDelta(t, 20, p[0][Green], 1e-9)
	assert.InDelta(t, 30.333333333, p[0][Blue], 1e-6)
}

func TestDerivePaletteSize(t *testing.T) {
	pop := randomPopulation(1, 500)
	for depth := 0; depth <= 8; depth++ {
		p, err := DerivePalette(context.Background(), pop, depth)
		require.NoError(t, err)
		assert.Len(t, p, 1<<depth, "depth %d", depth)
	}
}

func TestDerivePaletteSmallPopulation(t *testing.T) {
	pop := randomPopulation(2, 3)

	p, err := DerivePalette(context.Background(), pop, 2)
	require.NoError(t, err)
	assert.Len(t, p, 3)

	// Depth far past the population size still gives one color per pixel
	p, err = DerivePalette(context.Background(), pop, 40)
	require.NoError(t, err)
	assert.Len(t, p, 3)
}

func TestDerivePaletteDoesNotReorderInput(t *testing.T) {
	pop := randomPopulation(3, 64)
	before := make(Population, len(pop))
	copy(before, pop)

	_, err := DerivePalette(context.Background(), pop, 4)
	require.NoError(t, err)
	assert.Equal(t, before, pop)
}

func TestDerivePaletteDeterministic(t *testing.T) {
	pop := randomPopulation(4, 300)
	first, err := DerivePalette(context.Background(), pop, 5)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		p, err := DerivePalette(context.Background(), pop, 5)
		require.NoError(t, err)
		assert.Equal(t, first, p)
	}
}

func TestDerivePaletteChannelTie(t *testing.T) {
	// Red and blue both span 10. Red must be chosen, which puts the
	// low-red half first.
	pop := Population{
		{0, 0, 10},
		{10, 0, 0},
		{1, 0, 9},
		{9, 0, 1},
	}
	expected := Palette{{0.5, 0, 9.5}, {9.5, 0, 0.5}}

	for i := 0; i < 10; i++ {
		p, err := DerivePalette(context.Background(), pop, 1)
		require.NoError(t, err)
		assert.Equal(t, expected, p)
	}
}

func TestWidestChannel(t *testing.T) {
	tests := []struct {
		name     string
		b        bucket
		expected Channel
	}{
		{"Red", bucket{{0, 0, 0}, {9, 1, 1}}, Red},
		{"Green", bucket{{0, 0, 0}, {1, 9, 1}}, Green},
		{"Blue", bucket{{0, 0, 0}, {1, 1, 9}}, Blue},
		{"AllEqual", bucket{{3, 3, 3}, {3, 3, 3}}, Red},
		{"GreenBlueTie", bucket{{0, 0, 0}, {1, 7, 7}}, Green},
		{"Single", bucket{{1, 2, 3}}, Red},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.b.widestChannel())
		})
	}
}

func TestDerivePaletteNegativeDepth(t *testing.T) {
	_, err := DerivePalette(context.Background(), randomPopulation(5, 4), -1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNegativeDepth)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDerivePaletteCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := DerivePalette(ctx, randomPopulation(6, 16), 2)
	assert.ErrorIs(t, err, context.Canceled)
}
