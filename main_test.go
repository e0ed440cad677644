package main

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	black = color.NRGBA{0, 0, 0, 255}
	white = color.NRGBA{255, 255, 255, 255}
)

// writeTestImages writes two small black and white PNGs into a new
// directory and returns it.
func writeTestImages(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	a := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	a.SetNRGBA(0, 0, black)
	a.SetNRGBA(1, 0, white)
	a.SetNRGBA(0, 1, color.NRGBA{10, 10, 10, 255})
	a.SetNRGBA(1, 1, color.NRGBA{250, 250, 250, 255})
	require.NoError(t, imaging.Save(a, filepath.Join(dir, "a.png")))

	b := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	b.SetNRGBA(0, 0, black)
	b.SetNRGBA(1, 0, white)
	require.NoError(t, imaging.Save(b, filepath.Join(dir, "b.png")))

	return dir
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"mcquant"}, args...))
	return out.String(), err
}

func TestQuantizeCommand(t *testing.T) {
	in := writeTestImages(t)
	out := filepath.Join(t.TempDir(), "out")

	_, err := runApp(t, "-c", "1", "-i", in, "-o", out, "--palette-format", "png", "quantize")
	require.NoError(t, err)

	a, err := imaging.Open(filepath.Join(out, "qt_a.png"))
	require.NoError(t, err)
	n := imaging.Clone(a)
	// Means of {0, 0, 10} and {255, 255, 250}, truncated
	dark := color.NRGBA{3, 3, 3, 255}
	light := color.NRGBA{253, 253, 253, 255}
	assert.Equal(t, dark, n.NRGBAAt(0, 0))
	assert.Equal(t, light, n.NRGBAAt(1, 0))
	assert.Equal(t, dark, n.NRGBAAt(0, 1))
	assert.Equal(t, light, n.NRGBAAt(1, 1))

	_, err = os.Stat(filepath.Join(out, "qt_b.png"))
	assert.NoError(t, err)

	swatch, err := imaging.Open(filepath.Join(out, "qt_palette1.png"))
	require.NoError(t, err)
	assert.Equal(t, 300+2*800, swatch.Bounds().Dx())
	assert.Equal(t, 2*100+2*200, swatch.Bounds().Dy())
	sn := imaging.Clone(swatch)
	assert.Equal(t, white, sn.NRGBAAt(0, 0))
	assert.Equal(t, dark, sn.NRGBAAt(800, 200))
	assert.Equal(t, light, sn.NRGBAAt(800, 300))
}

func TestQuantizeCommandFormats(t *testing.T) {
	in := writeTestImages(t)
	out := t.TempDir()

	_, err := runApp(t, "-c", "2", "-i", in, "-o", out, "-f", "gif", "--prefix", "x_", "quantize", "--dither", "floydsteinberg")
	require.NoError(t, err)

	for _, name := range []string{"x_a.gif", "x_b.gif", "x_palette2.jpg"} {
		_, err = os.Stat(filepath.Join(out, name))
		assert.NoError(t, err, name)
	}
}

func TestQuantizeCommandNoOverwrite(t *testing.T) {
	in := writeTestImages(t)
	out := t.TempDir()

	args := []string{"-c", "1", "-i", in, "-o", out, "--no-overwrite", "quantize"}
	_, err := runApp(t, args...)
	require.NoError(t, err)

	_, err = runApp(t, args...)
	assert.Error(t, err)
}

func TestQuantizeCommandBadInput(t *testing.T) {
	in := writeTestImages(t)
	require.NoError(t, os.WriteFile(filepath.Join(in, "broken.png"), []byte("not a png"), 0644))
	out := t.TempDir()

	_, err := runApp(t, "-c", "1", "-i", in, "-o", out, "quantize")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 3 images failed")

	// The other images are still written
	for _, name := range []string{"qt_a.png", "qt_b.png"} {
		_, err = os.Stat(filepath.Join(out, name))
		assert.NoError(t, err, name)
	}
}

func TestPaletteCommand(t *testing.T) {
	in := writeTestImages(t)
	out := t.TempDir()

	stdout, err := runApp(t, "-c", "1", "-i", in, "-o", out, "--label", "palette", "--json")
	require.NoError(t, err)

	var got struct {
		Depth  int      `json:"depth"`
		Colors []string `json:"colors"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, 1, got.Depth)
	assert.Equal(t, []string{"#030303", "#fdfdfd"}, got.Colors)

	_, err = os.Stat(filepath.Join(out, "qt_palette1.jpg"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(out, "qt_a.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestInvalidFlags(t *testing.T) {
	in := writeTestImages(t)
	out := t.TempDir()

	tests := [][]string{
		{"-c", "9", "-f", "gif"},
		{"-c", "25"},
		{"-c", "1", "-f", "webp"},
		{"-c", "1", "--compression", "max"},
		{"-c", "1", "--padding", "10"},
		{"-c", "1", "--border", "nope"},
	}
	for _, tt := range tests {
		args := append(tt, "-i", in, "-o", out, "quantize")
		_, err := runApp(t, args...)
		assert.Error(t, err, "%v", tt)
	}
}
