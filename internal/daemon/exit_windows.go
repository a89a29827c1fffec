//go:build windows

package daemon

import "golang.org/x/sys/windows"

// ImmediateExit terminates the process with code right away. Deferred
// functions do not run and buffered writers are not flushed.
func ImmediateExit(code int) {
	windows.Exit(code)
}
