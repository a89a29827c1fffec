//go:build unix

package daemon

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// replace makes slot refer to the file behind f. The caller keeps ownership
// of f and closes it afterwards; the slot holds its own duplicate.
func (s Streams) replace(slot int, f *os.File) error {
	if err := dup2(int(f.Fd()), slot); err != nil {
		return fmt.Errorf("dup2 onto descriptor %d: %w", slot, err)
	}
	return nil
}

// lift moves f to a descriptor above every slot of s. A freshly opened file
// takes the lowest free descriptor, which is a closed slot when the process
// was started with one of its streams closed; closing f after the swap would
// then close the slot again. f is consumed either way.
func (s Streams) lift(f *os.File) (*os.File, error) {
	top := max(s.In, s.Out, s.Err)
	if int(f.Fd()) > top {
		return f, nil
	}
	defer f.Close()

	fd, err := unix.FcntlInt(f.Fd(), unix.F_DUPFD_CLOEXEC, top+1)
	if err != nil {
		return nil, fmt.Errorf("move descriptor above %d: %w", top, err)
	}
	return os.NewFile(uintptr(fd), f.Name()), nil
}
