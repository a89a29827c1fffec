//go:build linux

package daemon

import "golang.org/x/sys/unix"

// dup2 makes newfd a copy of oldfd, closing newfd first if it was open.
// Linux on arm64 and riscv64 has no dup2 syscall, dup3 is available everywhere.
func dup2(oldfd, newfd int) error {
	if oldfd == newfd {
		return nil
	}
	return unix.Dup3(oldfd, newfd, 0)
}
