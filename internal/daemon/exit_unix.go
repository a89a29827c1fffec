//go:build unix

package daemon

import "golang.org/x/sys/unix"

// ImmediateExit terminates the process with code right away. Deferred
// functions do not run, buffered writers are not flushed and no signal
// handler is dispatched. Only call it once all cleanup that matters (child
// processes, log sync) is done.
func ImmediateExit(code int) {
	unix.Exit(code)
}
