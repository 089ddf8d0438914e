package resize

import "fmt"

// DefaultPercent applies when no sizing flag is given.
const DefaultPercent = 0.5

// Mode is the sizing rule applied to every image of a run.
type Mode int

const (
	ModePercent Mode = iota
	ModePercentWithFloor
	ModeMinDimension
	ModeMaxDimension
)

func (m Mode) String() string {
	switch m {
	case ModePercentWithFloor:
		return "percent-with-floor"
	case ModeMinDimension:
		return "min-dimension"
	case ModeMaxDimension:
		return "max-dimension"
	default:
		return "percent"
	}
}

// Options holds the sizing flags. Zero means unset.
type Options struct {
	Percent float64
	MinDim  int
	MaxDim  int
	// Default is the percent used when nothing is set; 0 means DefaultPercent.
	Default float64
}

// Validate rejects flag combinations and values that cannot be applied.
func (o Options) Validate() error {
	if o.Percent != 0 && o.MaxDim != 0 {
		return fmt.Errorf("%w: --percent (%g) with --max-dim (%d)", ErrPercentWithMaxDim, o.Percent, o.MaxDim)
	}
	if o.Percent < 0 || o.Percent > 1 {
		return fmt.Errorf("%w: got %g", ErrInvalidPercent, o.Percent)
	}
	if o.Default < 0 || o.Default > 1 {
		return fmt.Errorf("%w: default %g", ErrInvalidPercent, o.Default)
	}
	if o.MinDim < 0 {
		return fmt.Errorf("%w: min dimension %d", ErrInvalidDimension, o.MinDim)
	}
	if o.MaxDim < 0 {
		return fmt.Errorf("%w: max dimension %d", ErrInvalidDimension, o.MaxDim)
	}
	return nil
}

// Mode picks the rule: max dimension wins, then percent with a min floor,
// then percent, then min dimension, then the default percent.
func (o Options) Mode() Mode {
	switch {
	case o.MaxDim > 0:
		return ModeMaxDimension
	case o.Percent > 0 && o.MinDim > 0:
		return ModePercentWithFloor
	case o.Percent > 0:
		return ModePercent
	case o.MinDim > 0:
		return ModeMinDimension
	default:
		return ModePercent
	}
}

// Target computes the output size for src.
func (o Options) Target(src Geometry) (Geometry, error) {
	switch o.Mode() {
	case ModeMaxDimension:
		return ByMaxDimension(src, o.MaxDim)
	case ModePercentWithFloor:
		return ByPercentWithFloor(src, o.Percent, o.MinDim)
	case ModeMinDimension:
		return ByMinDimension(src, o.MinDim)
	default:
		return ByPercent(src, o.percent())
	}
}

func (o Options) percent() float64 {
	if o.Percent > 0 {
		return o.Percent
	}
	if o.Default > 0 {
		return o.Default
	}
	return DefaultPercent
}
