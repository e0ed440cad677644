package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/urfave/cli/v2"
)

// Set with -ldflags at build time
var (
	version = "v0.1.0"
	commit  = "unknown"
	builtBy = "unknown"
)

func newApp() *cli.App {
	return &cli.App{
		Name:                   "mcquant",
		Usage:                  "reduce a set of images to one shared median cut palette.",
		Description:            "mcquant finds a palette of 2^N colors for all input images together,\nthen maps every pixel of every image to its nearest palette color.",
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:     "colors",
				Aliases:  []string{"c"},
				Usage:    "palette size as a power of two, e.g. 4 for 16 colors",
				Required: true,
				EnvVars:  []string{"MCQUANT_COLORS"},
			},
			&cli.StringSliceFlag{
				Name:     "in",
				Aliases:  []string{"i"},
				Usage:    "input directory, image file, or glob",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "out",
				Aliases:  []string{"o"},
				Usage:    "output directory",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "output image format, keeps the input format if empty",
			},
			&cli.StringFlag{
				Name:  "palette-format",
				Value: "jpg",
			},
			&cli.StringFlag{
				Name:  "prefix",
				Value: "qt_",
			},
			&cli.UintFlag{
				Name:    "threads",
				Aliases: []string{"j"},
				EnvVars: []string{"MCQUANT_THREADS"},
			},
			&cli.UintFlag{
				Name:    "width",
				Aliases: []string{"x"},
			},
			&cli.UintFlag{
				Name:    "height",
				Aliases: []string{"y"},
			},
			&cli.BoolFlag{
				Name:    "grayscale",
				Aliases: []string{"g"},
			},
			&cli.StringFlag{
				Name: "saturation",
			},
			&cli.StringFlag{
				Name: "brightness",
			},
			&cli.StringFlag{
				Name: "contrast",
			},
			&cli.BoolFlag{
				Name: "no-exif-rotation",
			},
			&cli.BoolFlag{
				Name: "no-overwrite",
			},
			&cli.StringFlag{
				Name:  "compression",
				Value: "default",
			},
			&cli.IntFlag{
				Name:  "quality",
				Value: 95,
			},
			&cli.UintFlag{
				Name:  "row-height",
				Value: 100,
			},
			&cli.UintFlag{
				Name:  "swatch-width",
				Value: 300,
			},
			&cli.StringFlag{
				Name:  "padding",
				Usage: "swatch border as XxY",
				Value: "800x200",
			},
			&cli.StringFlag{
				Name:  "border",
				Usage: "swatch border color",
				Value: "white",
			},
			&cli.BoolFlag{
				Name:  "label",
				Usage: "print hex codes on the palette swatch",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"V"},
			},
			&cli.BoolFlag{
				Name:    "log-json",
				EnvVars: []string{"MCQUANT_LOG_JSON"},
			},
			&cli.BoolFlag{
				Name:    "version",
				Aliases: []string{"v"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "quantize",
				Usage: "derive the palette and write every input mapped to it",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "dither",
						Usage: "error diffusion matrix to dither with instead of plain nearest color",
					},
					&cli.StringFlag{
						Name:    "strength",
						Aliases: []string{"s"},
					},
					&cli.BoolFlag{
						Name: "serpentine",
					},
				},
				UseShortOptionHandling: true,
				Action:                 quantize,
			},
			{
				Name:  "palette",
				Usage: "derive the palette only, write the swatch and print the colors",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name: "json",
					},
				},
				Action: paletteOnly,
			},
		},
		Before: preProcess,
		Action: func(c *cli.Context) error {
			return errors.New("no command specified")
		},
	}
}

func main() {
	app := newApp()

	// Handle version flag
	if len(os.Args) == 2 && (os.Args[1] == "-v" || os.Args[1] == "--version") {
		fmt.Println("mcquant", version)
		fmt.Println("Commit:", commit)
		fmt.Println("Built by:", builtBy)
		return
	}

	// Hack around issue where required flags are still required even for help
	// https://github.com/urfave/cli/issues/1247
	if len(os.Args) == 3 {
		if os.Args[1] == "h" || os.Args[1] == "help" {
			// Like: mcquant help quantize
			for _, c := range app.Commands {
				if c.Name == os.Args[2] {
					cli.HelpPrinter(os.Stdout, cli.CommandHelpTemplate, c)
					return
				}
			}
			fmt.Println("no command with that name")
			os.Exit(1)
		} else if os.Args[len(os.Args)-1] == "-h" || os.Args[len(os.Args)-1] == "--help" {
			// Like: mcquant quantize --help
			for _, c := range app.Commands {
				if c.Name == os.Args[1] {
					cli.HelpPrinter(os.Stdout, cli.CommandHelpTemplate, c)
					return
				}
			}
			fmt.Println("no command with that name")
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := app.RunContext(ctx, os.Args)
	if err != nil {
		if len(os.Args) == 1 {
			// Just ran the command with no flags
			return
		}
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
