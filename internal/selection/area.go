package selection

import (
	"fmt"
	"image"
	"regexp"
	"strconv"
)

// MinSide is the smallest accepted drag extent in pixels; anything at or
// below it on either axis counts as a stray click.
const MinSide = 10

// Area is a screen rectangle in physical pixels.
type Area struct {
	X      int
	Y      int
	Width  int
	Height int
}

func (a Area) String() string {
	return fmt.Sprintf("%d,%d %dx%d", a.X, a.Y, a.Width, a.Height)
}

// Rect converts the area to an image.Rectangle.
func (a Area) Rect() image.Rectangle {
	return image.Rect(a.X, a.Y, a.X+a.Width, a.Y+a.Height)
}

// Even rounds width and height down to even values, which yuv420p encoders
// require.
func (a Area) Even() Area {
	a.Width -= a.Width % 2
	a.Height -= a.Height % 2
	return a
}

// FromRect converts r to an Area.
func FromRect(r image.Rectangle) Area {
	r = r.Canon()
	return Area{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// FromDrag builds an area from the press and release points of a drag in
// any direction. ok is false when either side is not larger than MinSide.
func FromDrag(x0, y0, x1, y1 int) (Area, bool) {
	a := FromRect(image.Rect(x0, y0, x1, y1))
	if a.Width <= MinSide || a.Height <= MinSide {
		return Area{}, false
	}
	return a, true
}

var areaPattern = regexp.MustCompile(`^\s*(-?\d+)\s*,\s*(-?\d+)\s+(\d+)x(\d+)\s*$`)

// ParseArea parses "X,Y WxH", the format slurp prints and slop is asked to
// print.
func ParseArea(s string) (Area, error) {
	m := areaPattern.FindStringSubmatch(s)
	if m == nil {
		return Area{}, fmt.Errorf("invalid area %q: want \"X,Y WxH\"", s)
	}
	vals := make([]int, 4)
	for i := range vals {
		v, err := strconv.Atoi(m[i+1])
		if err != nil {
			return Area{}, fmt.Errorf("invalid area %q: %w", s, err)
		}
		vals[i] = v
	}
	a := Area{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}
	if a.Width <= 0 || a.Height <= 0 {
		return Area{}, fmt.Errorf("invalid area %q: size must be positive", s)
	}
	return a, nil
}
