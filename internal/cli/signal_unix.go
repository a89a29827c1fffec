//go:build unix

package cli

import (
	"os/exec"
	"syscall"
)

// signalStatus follows the shell convention of 128+signal.
func signalStatus(exitErr *exec.ExitError) int {
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return 1
}
