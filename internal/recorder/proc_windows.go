//go:build windows

package recorder

import (
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

func configureProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: windows.CREATE_NEW_PROCESS_GROUP}
}

// terminate kills outright; Windows has no SIGTERM equivalent for console
// children outside our process group.
func terminate(p *os.Process) error {
	return p.Kill()
}
