package main

import (
	"io"
	"log/slog"

	"github.com/makeworld-the-better-one/mcquant/mediancut"
)

// newLogger returns a text or JSON logger writing to w.
func newLogger(w io.Writer, verbose, json bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// logObserver reports quantization progress through slog.
type logObserver struct {
	log *slog.Logger
}

func (o logObserver) PopulationCollected(pixels int) {
	o.log.Info("collected pixels", "pixels", pixels)
}

func (o logObserver) PaletteDerived(depth int, p mediancut.Palette) {
	o.log.Info("generated color palette", "depth", depth, "colors", len(p))
	for i, c := range p {
		o.log.Debug("palette color", "index", i, "color", c.Hex())
	}
}

func (o logObserver) ImageQuantized(name string, err error) {
	if err != nil {
		o.log.Error("error quantizing image", "image", name, "err", err)
		return
	}
	o.log.Debug("quantized image", "image", name)
}
