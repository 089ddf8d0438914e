// Package resize computes aspect-preserving target sizes and applies them to
// single images or whole directory trees.
package resize

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPercent    = errors.New("percent must be in (0, 1]")
	ErrInvalidDimension  = errors.New("dimension must be positive")
	ErrPercentWithMaxDim = errors.New("percent cannot be combined with max dimension")
)

// Geometry is an image size in pixels.
type Geometry struct {
	Width  int
	Height int
}

func (g Geometry) String() string {
	return fmt.Sprintf("%dx%d", g.Width, g.Height)
}

func (g Geometry) validate() error {
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("%w: image is %s", ErrInvalidDimension, g)
	}
	return nil
}

// ByPercent scales both sides by p, truncating.
func ByPercent(src Geometry, p float64) (Geometry, error) {
	if err := src.validate(); err != nil {
		return Geometry{}, err
	}
	if p <= 0 || p > 1 {
		return Geometry{}, fmt.Errorf("%w: got %g", ErrInvalidPercent, p)
	}
	return clamp(Geometry{
		Width:  int(float64(src.Width) * p),
		Height: int(float64(src.Height) * p),
	}), nil
}

// ByMinDimension makes the shorter side exactly d.
func ByMinDimension(src Geometry, d int) (Geometry, error) {
	if err := src.validate(); err != nil {
		return Geometry{}, err
	}
	if d <= 0 {
		return Geometry{}, fmt.Errorf("%w: min dimension %d", ErrInvalidDimension, d)
	}
	if src.Width < src.Height {
		return clamp(Geometry{Width: d, Height: scaleSide(src.Height, d, src.Width)}), nil
	}
	return clamp(Geometry{Width: scaleSide(src.Width, d, src.Height), Height: d}), nil
}

// ByMaxDimension makes the longer side exactly d.
func ByMaxDimension(src Geometry, d int) (Geometry, error) {
	if err := src.validate(); err != nil {
		return Geometry{}, err
	}
	if d <= 0 {
		return Geometry{}, fmt.Errorf("%w: max dimension %d", ErrInvalidDimension, d)
	}
	if src.Width > src.Height {
		return clamp(Geometry{Width: d, Height: scaleSide(src.Height, d, src.Width)}), nil
	}
	return clamp(Geometry{Width: scaleSide(src.Width, d, src.Height), Height: d}), nil
}

// ByPercentWithFloor scales by p unless that would push a side of an image
// that is larger than floor on both sides below floor; such images are
// scaled by min dimension instead.
func ByPercentWithFloor(src Geometry, p float64, floor int) (Geometry, error) {
	target, err := ByPercent(src, p)
	if err != nil {
		return Geometry{}, err
	}
	if floor <= 0 {
		return Geometry{}, fmt.Errorf("%w: min dimension %d", ErrInvalidDimension, floor)
	}
	if src.Width > floor && src.Height > floor && (target.Width < floor || target.Height < floor) {
		return ByMinDimension(src, floor)
	}
	return target, nil
}

// scaleSide returns int(side * d / ref) with the ratio taken first.
func scaleSide(side, d, ref int) int {
	return int(float64(side) * (float64(d) / float64(ref)))
}

func clamp(g Geometry) Geometry {
	if g.Width < 1 {
		g.Width = 1
	}
	if g.Height < 1 {
		g.Height = 1
	}
	return g
}
