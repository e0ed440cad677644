package main

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/golang/freetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/makeworld-the-better-one/mcquant/mediancut"
)

// minLabelHeight is the smallest band that still gets a label.
const minLabelHeight = 12

// swatchImage renders the palette bands, labels them if requested, and
// pads the result with the border.
func swatchImage(pal mediancut.Palette) (*image.NRGBA, error) {
	bands, err := mediancut.Render(pal, rowHeight, swatchWidth)
	if err != nil {
		return nil, err
	}
	img := bands.NRGBA()

	if labelSwatch && rowHeight >= minLabelHeight {
		if err := drawLabels(img, pal); err != nil {
			return nil, fmt.Errorf("error labeling palette: %w", err)
		}
	}

	bordered := imaging.New(img.Bounds().Dx()+2*padX, img.Bounds().Dy()+2*padY, borderColor)
	return imaging.Paste(bordered, img, image.Pt(padX, padY)), nil
}

// drawLabels writes the hex code of each palette color onto its band, in
// black or white depending on which reads better.
func drawLabels(img *image.NRGBA, pal mediancut.Palette) error {
	ttf, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return err
	}
	size := math.Min(float64(rowHeight)/2, 32)

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(ttf)
	ctx.SetFontSize(size)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)
	ctx.SetHinting(font.HintingFull)

	for i, c := range pal {
		ctx.SetSrc(image.NewUniform(labelColor(c)))
		baseline := i*rowHeight + (rowHeight+int(size*0.7))/2
		if _, err := ctx.DrawString(c.Hex(), freetype.Pt(int(size/2), baseline)); err != nil {
			return err
		}
	}
	return nil
}

// labelColor picks black text for light colors and white for dark ones.
func labelColor(c mediancut.Color) color.Color {
	luma := 0.299*c[mediancut.Red] + 0.587*c[mediancut.Green] + 0.114*c[mediancut.Blue]
	if luma > 128 {
		return color.Black
	}
	return color.White
}

// writeSwatch writes the bordered palette swatch next to the outputs.
func writeSwatch(pal mediancut.Palette) error {
	img, err := swatchImage(pal)
	if err != nil {
		return err
	}
	format, err := imaging.FormatFromExtension(swatchExt)
	if err != nil {
		return fmt.Errorf(unsupportedFormat, swatchExt)
	}

	path := swatchPath()
	if err := writeImage(path, img, format, swatchPalette(pal)); err != nil {
		return err
	}
	logger.Info("saved palette image", "path", path)
	return nil
}

// swatchPalette is the palette a swatch is encoded with: the palette
// colors plus the border, and the label colors when labels are drawn.
// It's capped at 256 colors for GIF. Pixels outside it, like the
// anti-aliased label edges, are drawn as their nearest entry.
func swatchPalette(pal mediancut.Palette) mediancut.Palette {
	sp := append(mediancut.Palette{}, pal...)
	sp = append(sp, mediancut.ColorFrom(borderColor))
	if labelSwatch {
		sp = append(sp, mediancut.RGB(0, 0, 0), mediancut.RGB(255, 255, 255))
	}
	if len(sp) > 256 {
		sp = sp[:256]
	}
	return sp
}
