//go:build unix

package recorder

import (
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// configureProcess moves ffmpeg into its own process group so a terminal
// Ctrl+C reaches only the recorder, which then stops ffmpeg itself.
func configureProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func terminate(p *os.Process) error {
	return p.Signal(unix.SIGTERM)
}
