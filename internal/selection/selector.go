package selection

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/ivlev/mediatools/internal/deps"
)

// Selector picks a screen area. cancelled is true when the user backed out;
// the area is then undefined and err is nil.
type Selector interface {
	Select(ctx context.Context) (area Area, cancelled bool, err error)
}

// ErrNoDragTool is returned when no region picker binary is installed.
var ErrNoDragTool = errors.New("no region picker found (install slurp or slop)")

// Static always returns the same area. It backs the --area flag.
type Static struct {
	Area Area
}

func (s Static) Select(context.Context) (Area, bool, error) {
	return s.Area, false, nil
}

// ToolSelector delegates the drag to an external region picker: slurp on
// Wayland, slop on X11. Both exit non-zero when the user presses Escape.
type ToolSelector struct {
	Command string
	Args    []string
}

// NewToolSelector resolves the picker to use. An empty tool picks slurp under
// Wayland and slop otherwise, falling back to whichever is installed.
func NewToolSelector(tool string) (*ToolSelector, error) {
	tool = strings.TrimSpace(tool)
	if tool == "" {
		candidates := []string{"slop", "slurp"}
		if os.Getenv("WAYLAND_DISPLAY") != "" {
			candidates = []string{"slurp", "slop"}
		}
		found, ok := deps.FirstAvailable(candidates...)
		if !ok {
			return nil, ErrNoDragTool
		}
		tool = found
	}
	return &ToolSelector{Command: tool, Args: pickerArgs(tool)}, nil
}

func pickerArgs(tool string) []string {
	base := tool
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	if strings.HasPrefix(base, "slop") {
		return []string{"-f", "%x,%y %wx%h"}
	}
	return nil
}

func (s *ToolSelector) Select(ctx context.Context) (Area, bool, error) {
	cmd := exec.CommandContext(ctx, s.Command, s.Args...)
	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return Area{}, false, ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Area{}, true, nil
		}
		return Area{}, false, fmt.Errorf("run %s: %w", s.Command, err)
	}

	area, err := ParseArea(strings.TrimSpace(string(out)))
	if err != nil {
		return Area{}, false, fmt.Errorf("%s output: %w", s.Command, err)
	}
	area, ok := FromDrag(area.X, area.Y, area.X+area.Width, area.Y+area.Height)
	if !ok {
		return Area{}, true, nil
	}
	return area, false, nil
}
