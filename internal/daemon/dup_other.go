//go:build unix && !linux

package daemon

import "golang.org/x/sys/unix"

// dup2 makes newfd a copy of oldfd, closing newfd first if it was open.
func dup2(oldfd, newfd int) error {
	return unix.Dup2(oldfd, newfd)
}
