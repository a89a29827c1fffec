//go:build windows

package daemon

import (
	"syscall"

	"golang.org/x/sys/windows"
)

// getSysProcAttr returns the attributes for a re-executed stage.
// Windows has no sessions to leave; a detached process without a console in
// its own process group is the equivalent outcome.
func getSysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		CreationFlags: windows.CREATE_NEW_PROCESS_GROUP | windows.DETACHED_PROCESS,
		HideWindow:    true,
	}
}

func setsid() error {
	return nil
}
