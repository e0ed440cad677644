package mediancut

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	p := Palette{RGB(255, 0, 0), RGB(0, 0, 255)}

	img, err := Render(p, 3, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Width)
	assert.Equal(t, 6, img.Height)

	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			assert.Equal(t, p[y/3], img.At(x, y), "pixel %d,%d", x, y)
		}
	}
}

func TestRenderEmptyPalette(t *testing.T) {
	img, err := Render(Palette{}, 100, 300)
	require.NoError(t, err)
	assert.Equal(t, 0, img.Height)
	assert.Empty(t, img.Pix)
}

func TestRenderInvalidSize(t *testing.T) {
	_, err := Render(Palette{RGB(1, 1, 1)}, 0, 10)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = Render(Palette{RGB(1, 1, 1)}, 10, -1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
