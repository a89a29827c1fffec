//go:build unix

package daemon

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// getSysProcAttr returns the attributes for a re-executed stage.
// The new session is created by the child itself (StateForkedOnce) so a
// setsid failure surfaces as ErrSessionCreationFailed with its errno.
func getSysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{}
}

func setsid() error {
	_, err := unix.Setsid()
	return err
}
