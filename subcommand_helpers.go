package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/makeworld-the-better-one/dither/v2"
	"github.com/urfave/cli/v2"
	"golang.org/x/image/colornames"
	"golang.org/x/sync/errgroup"

	// Decoders not registered by imaging
	_ "golang.org/x/image/webp"

	"github.com/makeworld-the-better-one/mcquant/mediancut"
)

// inputExts are the file extensions picked up when an input is a directory.
var inputExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// parsePercentArg takes a string like "0.5" or "50%" and will return a float
// like 50 or 0.5, depending on the second argument. An empty string returns 0.
//
// If `maxOne` is true, then "50%" will return 0.5. Otherwise it will return 50.
func parsePercentArg(arg string, maxOne bool) (float64, error) {
	if arg == "" {
		return 0, nil
	}
	if strings.HasSuffix(arg, "%") {
		arg = arg[:len(arg)-1]
		f64, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return 0, err
		}
		if maxOne {
			f64 /= 100.0
		}
		return f64, nil
	}
	f64, err := strconv.ParseFloat(arg, 64)
	if !maxOne {
		f64 *= 100.0
	}
	return f64, err
}

// parseArgs takes arguments and splits them using the provided split characters.
func parseArgs(args []string, splitRunes string) []string {
	finalArgs := make([]string, 0)
	for _, arg := range args {
		finalArgs = append(finalArgs, strings.FieldsFunc(arg, func(c rune) bool {
			for _, c2 := range splitRunes {
				if c == c2 {
					return true
				}
			}
			return false
		})...)
	}
	return finalArgs
}

func hexToColor(hex string) (color.NRGBA, error) {
	// Modified from https://github.com/lucasb-eyer/go-colorful/blob/v1.2.0/colors.go#L333

	hex = strings.TrimPrefix(hex, "#")

	format := "%02x%02x%02x"
	var r, g, b uint8
	n, err := fmt.Sscanf(strings.ToLower(hex), format, &r, &g, &b)
	if err != nil {
		return color.NRGBA{}, err
	}
	if n != 3 {
		return color.NRGBA{}, fmt.Errorf("%s is not a hex color", hex)
	}
	return color.NRGBA{r, g, b, 255}, nil
}

func rgbToColor(s string) (color.NRGBA, error) {
	format := "%d,%d,%d"
	var r, g, b uint8
	n, err := fmt.Sscanf(s, format, &r, &g, &b)
	if err != nil {
		return color.NRGBA{}, err
	}
	if n != 3 {
		return color.NRGBA{}, fmt.Errorf("%s is not an RGB tuple", s)
	}
	return color.NRGBA{r, g, b, 255}, nil
}

// parseColor turns an RGB tuple, hex code, gray value 0-255, or SVG color
// name into an opaque color.
func parseColor(arg string) (color.NRGBA, error) {
	if strings.Count(arg, ",") == 2 {
		rgbColor, err := rgbToColor(arg)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("%s is not a valid RGB tuple. Example: 25,200,150", arg)
		}
		return rgbColor, nil
	}

	hexColor, err := hexToColor(arg)
	if err == nil {
		return hexColor, nil
	}

	n, err := strconv.Atoi(arg)
	if err == nil {
		if n > 255 || n < 0 {
			return color.NRGBA{}, fmt.Errorf("single numbers like %d must be in the range 0-255", n)
		}
		return color.NRGBA{uint8(n), uint8(n), uint8(n), 255}, nil
	}

	htmlColor, ok := colornames.Map[strings.ToLower(arg)]
	if ok {
		return color.NRGBAModel.Convert(htmlColor).(color.NRGBA), nil
	}

	return color.NRGBA{}, fmt.Errorf("%s not recognized as an RGB tuple, hex code, number 0-255, or SVG color name", arg)
}

// findInputs expands the --in arguments into image paths. Globs are
// expanded, directories are listed one level deep, anything else is
// taken as a file.
func findInputs(args []string) ([]string, error) {
	paths := make([]string, 0)
	for _, arg := range args {
		if strings.Contains(arg, "*") {
			// Parse as glob
			matches, err := filepath.Glob(arg)
			if err != nil {
				return nil, fmt.Errorf("bad glob pattern '%s': %w", arg, err)
			}
			paths = append(paths, matches...)
			continue
		}

		fi, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("'%s': %w", arg, err)
		}
		if !fi.IsDir() {
			paths = append(paths, arg)
			continue
		}

		// Sorted by filename
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("'%s': %w", arg, err)
		}
		for _, e := range entries {
			if e.IsDir() || !inputExts[strings.ToLower(filepath.Ext(e.Name()))] {
				continue
			}
			paths = append(paths, filepath.Join(arg, e.Name()))
		}
	}
	return paths, nil
}

// getInputImage loads an input image and applies the resize and color
// adjustment options. The image is named after its file.
func getInputImage(path string) (mediancut.Image, error) {
	img, err := imaging.Open(path, autoOrientation)
	if err != nil {
		return mediancut.Image{}, err
	}

	if width != 0 || height != 0 {
		// Box sampling is quick and fast, and better then others at downscaling
		// https://pkg.go.dev/github.com/disintegration/imaging#ResampleFilter
		img = imaging.Resize(img, width, height, imaging.Box)
	}

	if grayscale {
		img = imaging.Grayscale(img)
	}
	if saturation != 0 {
		img = imaging.AdjustSaturation(img, saturation)
	}
	if contrast != 0 {
		img = imaging.AdjustContrast(img, contrast)
	}
	if brightness != 0 {
		img = imaging.AdjustBrightness(img, brightness)
	}

	return mediancut.FromImage(filepath.Base(path), img), nil
}

// loadImages decodes all paths concurrently. Images that fail to load
// are logged and left out, and counted in failed.
func loadImages(ctx context.Context, paths []string) (images []mediancut.Image, failed int) {
	loaded := make([]mediancut.Image, len(paths))
	errs := make([]error, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	if threads > 0 {
		g.SetLimit(threads)
	}
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			loaded[i], errs[i] = getInputImage(path)
			return nil
		})
	}
	_ = g.Wait()

	images = make([]mediancut.Image, 0, len(paths))
	for i, path := range paths {
		if errs[i] != nil {
			logger.Error("error loading image", "path", path, "err", errs[i])
			failed++
			continue
		}
		logger.Debug("loaded image", "path", path, "width", loaded[i].Width, "height", loaded[i].Height)
		images = append(images, loaded[i])
	}
	return images, failed
}

// outputName returns the file name and format a quantized image is
// written with: the prefix plus the input name, with the extension
// swapped if the output format differs from the input's.
func outputName(name string) (string, imaging.Format, error) {
	ext := outFormat
	if ext == "" {
		ext = strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
		if ext == "webp" {
			// No encoder
			ext = "png"
		}
	}
	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return "", 0, fmt.Errorf(unsupportedFormat, ext)
	}

	if inFormat, err := imaging.FormatFromExtension(filepath.Ext(name)); err == nil && inFormat == format {
		return prefix + name, format, nil
	}
	return prefix + strings.TrimSuffix(name, filepath.Ext(name)) + "." + ext, format, nil
}

// encodeOptions returns the imaging options for writing an image whose
// colors all come from pal.
func encodeOptions(pal mediancut.Palette) []imaging.EncodeOption {
	return []imaging.EncodeOption{
		imaging.JPEGQuality(jpegQuality),
		imaging.PNGCompressionLevel(compLevel),
		imaging.GIFNumColors(len(pal)),
		imaging.GIFQuantizer(&fakeQuantizer{pal}),
		imaging.GIFDrawer(draw.Src),
	}
}

// writeImage encodes img to path.
func writeImage(path string, img image.Image, format imaging.Format, pal mediancut.Palette) error {
	if format == imaging.GIF && len(pal) > 256 {
		return fmt.Errorf("'%s': the GIF format only supports 256 colors or less in the palette", path)
	}

	file, err := os.OpenFile(path, outFileFlags, 0644)
	if err != nil {
		return fmt.Errorf("'%s': %w", path, err)
	}

	err = imaging.Encode(file, img, format, encodeOptions(pal)...)
	if err != nil {
		file.Close()
		return fmt.Errorf("error writing %s to '%s': %w", format, path, err)
	}
	return file.Close()
}

// mapped is one output image, ready to be written.
type mapped struct {
	name string
	img  image.Image
	err  error
}

// mapImages maps every image to pal, either to the nearest color or by
// dithering with d when it's set.
func mapImages(ctx context.Context, q *mediancut.Quantizer, d *dither.Ditherer, images []mediancut.Image, pal mediancut.Palette) []mapped {
	out := make([]mapped, len(images))

	if d == nil {
		for i, r := range q.Apply(ctx, images, pal) {
			out[i] = mapped{name: images[i].Name, err: r.Err}
			if r.Err == nil {
				out[i].img = r.Image.NRGBA()
			}
		}
		return out
	}

	var g errgroup.Group
	if q.Workers > 0 {
		g.SetLimit(q.Workers)
	}
	for i := range images {
		i := i
		g.Go(func() error {
			out[i] = mapped{name: images[i].Name}
			if err := ctx.Err(); err != nil {
				out[i].err = err
				return nil
			}
			out[i].img = d.Dither(images[i].NRGBA())
			return nil
		})
	}
	_ = g.Wait()

	if q.Observer != nil {
		for _, m := range out {
			q.Observer.ImageQuantized(m.name, m.err)
		}
	}
	return out
}

// processImages maps all the images and writes them to the output
// directory. It returns how many images failed. One failed image
// doesn't stop the rest.
func processImages(c *cli.Context, q *mediancut.Quantizer, d *dither.Ditherer, images []mediancut.Image, pal mediancut.Palette) int {
	failed := 0
	for _, m := range mapImages(c.Context, q, d, images, pal) {
		if m.err != nil {
			// Already logged by the observer
			failed++
			continue
		}

		name, format, err := outputName(m.name)
		if err == nil {
			path := filepath.Join(outDir, name)
			err = writeImage(path, m.img, format, pal)
			if err == nil {
				logger.Info("saved quantized image", "path", path)
				continue
			}
		}
		logger.Error("error saving image", "image", m.name, "err", err)
		failed++
	}
	return failed
}
