//go:build windows

package cli

import "os/exec"

func signalStatus(*exec.ExitError) int {
	return 1
}
