package mediancut

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is the root of every argument error returned by
	// this package. Use errors.Is to check for it.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNegativeDepth is returned by DerivePalette when depth < 0.
	ErrNegativeDepth = fmt.Errorf("%w: depth must not be negative", ErrInvalidArgument)

	// ErrEmptyPalette is returned when mapping against a palette with no
	// colors, since there is no nearest color to pick.
	ErrEmptyPalette = fmt.Errorf("%w: palette is empty", ErrInvalidArgument)
)
