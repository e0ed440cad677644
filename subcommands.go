package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"image/png"
	"io/ioutil"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/makeworld-the-better-one/dither/v2"
	"github.com/urfave/cli/v2"

	"github.com/makeworld-the-better-one/mcquant/mediancut"
)

const (
	unsupportedFormat string = "'%s' is an unsupported format, only png, jpg, gif, bmp or tiff are accepted"

	// maxDepth keeps the palette within the number of distinct 8-bit colors.
	maxDepth = 24
)

// ErrNoColors is returned when the inputs hold no pixels, so no palette
// can be derived.
var ErrNoColors = errors.New("no pixels in the input images, no colors derivable")

var (
	// depth is the palette exponent, the palette has up to 2^depth colors.
	depth int

	inputImages []string
	outDir      string
	outFormat   string // Empty means same as input
	swatchExt   string
	prefix      string

	grayscale bool

	// Range -100,100

	saturation float64
	brightness float64
	contrast   float64

	autoOrientation imaging.DecodeOption

	compLevel   png.CompressionLevel
	jpegQuality int

	outFileFlags int // For os.OpenFile

	width  int
	height int

	threads int

	rowHeight   int
	swatchWidth int
	padX, padY  int
	borderColor color.NRGBA
	labelSwatch bool

	logger *slog.Logger
)

// preProcess is automatically called by the app before anything else.
// It's run in the global context.
func preProcess(c *cli.Context) error {
	threads = runtime.GOMAXPROCS(int(c.Uint("threads")))
	if c.Uint("threads") != 0 {
		threads = int(c.Uint("threads"))
	}

	logger = newLogger(os.Stderr, c.Bool("verbose"), c.Bool("log-json"))

	var err error

	depth = int(c.Uint("colors"))
	if depth > maxDepth {
		return fmt.Errorf("colors: 2^%d is more colors than 8-bit images can hold, the maximum is %d", depth, maxDepth)
	}

	grayscale = c.Bool("grayscale")
	saturation, err = parsePercentArg(c.String("saturation"), false)
	if err != nil {
		return fmt.Errorf("saturation: %w", err)
	}
	if saturation <= -100 {
		grayscale = true
		saturation = 0
	}
	brightness, err = parsePercentArg(c.String("brightness"), false)
	if err != nil {
		return fmt.Errorf("brightness: %w", err)
	}
	contrast, err = parsePercentArg(c.String("contrast"), false)
	if err != nil {
		return fmt.Errorf("contrast: %w", err)
	}

	autoOrientation = imaging.AutoOrientation(!c.Bool("no-exif-rotation"))

	inputImages, err = findInputs(c.StringSlice("in"))
	if err != nil {
		return err
	}
	if len(inputImages) == 0 {
		return errors.New("no input images found")
	}

	outDir = c.String("out")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("'%s': %w", outDir, err)
	}

	outFormat = strings.ToLower(strings.TrimPrefix(c.String("format"), "."))
	if outFormat != "" {
		if _, err := imaging.FormatFromExtension(outFormat); err != nil {
			return fmt.Errorf(unsupportedFormat, outFormat)
		}
		if outFormat == "gif" && depth > 8 {
			return errors.New("the GIF format only supports 256 colors or less in the palette")
		}
	}
	swatchExt = strings.ToLower(strings.TrimPrefix(c.String("palette-format"), "."))
	if _, err := imaging.FormatFromExtension(swatchExt); err != nil {
		return fmt.Errorf(unsupportedFormat, swatchExt)
	}
	prefix = c.String("prefix")

	// Set PNG compression type

	switch c.String("compression") {
	case "default":
		compLevel = png.DefaultCompression
	case "no":
		compLevel = png.NoCompression
	case "speed":
		compLevel = png.BestSpeed
	case "size":
		compLevel = png.BestCompression
	default:
		return fmt.Errorf("invalid compression type '%s'", c.String("compression"))
	}

	jpegQuality = c.Int("quality")
	if jpegQuality < 1 || jpegQuality > 100 {
		return errors.New("quality must be in the range 1-100")
	}

	if c.Bool("no-overwrite") {
		outFileFlags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	} else {
		outFileFlags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}

	// Set here for convenience
	width = int(c.Uint("width"))
	height = int(c.Uint("height"))

	rowHeight = int(c.Uint("row-height"))
	swatchWidth = int(c.Uint("swatch-width"))
	if rowHeight == 0 || swatchWidth == 0 {
		return errors.New("row-height and swatch-width cannot be 0")
	}
	padX, padY, err = parsePadding(c.String("padding"))
	if err != nil {
		return fmt.Errorf("padding: %w", err)
	}
	borderColor, err = parseColor(c.String("border"))
	if err != nil {
		return fmt.Errorf("border: %w", err)
	}
	labelSwatch = c.Bool("label")

	return nil
}

func quantize(c *cli.Context) error {
	var d *dither.Ditherer
	var matrix dither.ErrorDiffusionMatrix

	if name := c.String("dither"); name != "" {
		var err error
		matrix, err = parseEDM(name)
		if err != nil {
			return err
		}
		tmp, err := parsePercentArg(c.String("strength"), true)
		if err != nil {
			return fmt.Errorf("strength: %w", err)
		}
		strength := float32(tmp)
		if strength == 0 {
			// Ignore
			strength = 1
		}
		matrix = dither.ErrorDiffusionStrength(matrix, strength)
	}

	images, failed := loadImages(c.Context, inputImages)

	q := &mediancut.Quantizer{
		Depth:    depth,
		Workers:  threads,
		Observer: logObserver{logger},
	}
	pal, err := q.Palette(c.Context, images)
	if err != nil {
		return err
	}
	if len(pal) == 0 {
		return ErrNoColors
	}

	if err := writeSwatch(pal); err != nil {
		return err
	}

	if matrix != nil {
		if len(pal) < 2 {
			return errors.New("dithering needs at least two palette colors")
		}
		d = dither.NewDitherer(pal.Colors())
		if d == nil {
			return errors.New("couldn't create a ditherer from the palette")
		}
		d.Matrix = matrix
		d.Serpentine = c.Bool("serpentine")
	}

	failed += processImages(c, q, d, images, pal)
	if failed > 0 {
		return fmt.Errorf("%d of %d images failed", failed, len(inputImages))
	}
	return nil
}

func paletteOnly(c *cli.Context) error {
	images, failed := loadImages(c.Context, inputImages)
	if failed > 0 {
		logger.Warn("deriving palette without failed images", "failed", failed)
	}

	q := &mediancut.Quantizer{
		Depth:    depth,
		Observer: logObserver{logger},
	}
	pal, err := q.Palette(c.Context, images)
	if err != nil {
		return err
	}
	if len(pal) == 0 {
		return ErrNoColors
	}

	if err := writeSwatch(pal); err != nil {
		return err
	}

	hex := make([]string, len(pal))
	for i, pc := range pal {
		hex[i] = pc.Hex()
	}

	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Depth  int      `json:"depth"`
			Colors []string `json:"colors"`
		}{depth, hex})
	}
	for _, h := range hex {
		fmt.Fprintln(c.App.Writer, h)
	}
	return nil
}

var edmName = map[string]dither.ErrorDiffusionMatrix{
	"simple2d":            dither.Simple2D,
	"floydsteinberg":      dither.FloydSteinberg,
	"falsefloydsteinberg": dither.FalseFloydSteinberg,
	"jarvisjudiceninke":   dither.JarvisJudiceNinke,
	"atkinson":            dither.Atkinson,
	"stucki":              dither.Stucki,
	"burkes":              dither.Burkes,
	"sierra":              dither.Sierra,
	"sierra3":             dither.Sierra3,
	"tworowsierra":        dither.TwoRowSierra,
	"sierralite":          dither.SierraLite,
	"sierra2_4a":          dither.Sierra2_4A,
	"stevenpigeon":        dither.StevenPigeon,
}

// parseEDM returns the named error diffusion matrix, or parses arg as
// inline JSON or a path to a JSON file.
func parseEDM(arg string) (dither.ErrorDiffusionMatrix, error) {
	matrix, ok := edmName[strings.ReplaceAll(strings.ToLower(arg), "-", "_")]
	if ok {
		return matrix, nil
	}

	// Either inline JSON, path to file, or an error
	err := json.Unmarshal([]byte(arg), &matrix)
	if err != nil {
		bytes, err := ioutil.ReadFile(arg)
		if err != nil {
			return nil, errors.New("couldn't process dither argument as matrix name, inline JSON, or path to accessible JSON file")
		}
		err = json.Unmarshal(bytes, &matrix)
		if err != nil {
			return nil, errors.New("couldn't process dither argument as matrix name, inline JSON, or path to accessible JSON file")
		}
	}

	// Validate matrix

	if len(matrix) == 0 {
		return nil, errors.New("matrix is empty")
	}
	// Is it rectangular?
	width := len(matrix[0])
	if width == 0 {
		return nil, errors.New("matrix has empty row")
	}
	for _, row := range matrix {
		if len(row) != width {
			return nil, errors.New("matrix is not rectangular, all rows must be the same length")
		}
	}
	return matrix, nil
}

// parsePadding parses a swatch border like "800x200" into its horizontal
// and vertical size.
func parsePadding(arg string) (int, int, error) {
	args := parseArgs([]string{arg}, " ,x")
	if len(args) != 2 {
		return 0, 0, errors.New("needs 2 numbers exactly. Example: 800x200")
	}

	var pad [2]int
	for i, a := range args {
		u64, err := strconv.ParseUint(a, 10, 0)
		if err != nil {
			return 0, 0, err
		}
		pad[i] = int(u64)
	}
	return pad[0], pad[1], nil
}

// swatchPath returns where the palette swatch is written. The name
// encodes the depth, like qt_palette4.jpg.
func swatchPath() string {
	return filepath.Join(outDir, prefix+"palette"+strconv.Itoa(depth)+"."+swatchExt)
}
