package selection

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

type action int

const (
	actionNone action = iota
	actionFullScreen
	actionDrag
	actionCancel
)

var instructions = []string{
	"Press S or SPACE, then click and drag to select an area",
	"Press ENTER for full screen",
	"Press ESC to cancel",
}

// PromptSelector asks on the terminal how to pick the area: ENTER records
// the whole screen, ESC cancels, S or SPACE hands over to Drag.
type PromptSelector struct {
	In         *os.File
	Out        io.Writer
	Drag       Selector
	FullScreen func() (Area, error)
}

func (p *PromptSelector) Select(ctx context.Context) (Area, bool, error) {
	out := p.Out
	if out == nil {
		out = io.Discard
	}
	in := p.In
	if in == nil {
		in = os.Stdin
	}
	fmt.Fprintln(out, strings.Join(instructions, "\n"))

	if err := ctx.Err(); err != nil {
		return Area{}, false, err
	}

	act, err := readAction(ctx, in)
	if err != nil {
		return Area{}, false, err
	}

	switch act {
	case actionFullScreen:
		if p.FullScreen == nil {
			return Area{}, false, errors.New("full screen bounds are unavailable")
		}
		area, err := p.FullScreen()
		if err != nil {
			return Area{}, false, fmt.Errorf("full screen bounds: %w", err)
		}
		return area, false, nil
	case actionDrag:
		if p.Drag == nil {
			return Area{}, false, ErrNoDragTool
		}
		fmt.Fprintln(out, "Click and drag to select recording area...")
		return p.Drag.Select(ctx)
	default:
		return Area{}, true, nil
	}
}

type readResult struct {
	act action
	err error
}

// readAction waits for one decision from in. The read runs on its own
// goroutine so cancellation returns at once; a terminal put in raw mode is
// restored on every path.
func readAction(ctx context.Context, in *os.File) (action, error) {
	read := readLineAction
	if fd := in.Fd(); isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		state, err := term.MakeRaw(int(fd))
		if err != nil {
			return actionNone, fmt.Errorf("terminal raw mode: %w", err)
		}
		defer term.Restore(int(fd), state) //nolint:errcheck
		read = readKeyAction
	}

	done := make(chan readResult, 1)
	go func() {
		act, err := read(in)
		done <- readResult{act: act, err: err}
	}()

	select {
	case res := <-done:
		return res.act, res.err
	case <-ctx.Done():
		return actionNone, ctx.Err()
	}
}

func readKeyAction(in io.Reader) (action, error) {
	buf := make([]byte, 1)
	for {
		n, err := in.Read(buf)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return actionCancel, nil
			}
			return actionNone, err
		}
		if n == 0 {
			continue
		}
		if act := keyAction(buf[0]); act != actionNone {
			return act, nil
		}
	}
}

func keyAction(b byte) action {
	switch b {
	case '\r', '\n':
		return actionFullScreen
	case 0x1b, 'q', 'Q', 0x03: // ESC, q, Ctrl+C
		return actionCancel
	case 's', 'S', ' ':
		return actionDrag
	default:
		return actionNone
	}
}

func readLineAction(in io.Reader) (action, error) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if act := lineAction(scanner.Text()); act != actionNone {
			return act, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return actionNone, err
	}
	return actionCancel, nil
}

func lineAction(line string) action {
	if strings.ContainsRune(line, 0x1b) {
		return actionCancel
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "":
		return actionFullScreen
	case "esc", "escape", "q", "quit", "cancel":
		return actionCancel
	case "s", "select", "drag":
		return actionDrag
	default:
		return actionNone
	}
}
