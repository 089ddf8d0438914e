package selection

import (
	"errors"
	"fmt"

	"github.com/kbinani/screenshot"
)

// ScreenBounds returns the bounds of the display with the given index.
func ScreenBounds(display int) (Area, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return Area{}, errors.New("no active displays found")
	}
	if display < 0 || display >= n {
		return Area{}, fmt.Errorf("display %d out of range (%d active)", display, n)
	}
	return FromRect(screenshot.GetDisplayBounds(display)), nil
}
