//go:build windows

package daemon

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/windows"
)

// replace makes slot refer to a duplicate of f's handle and swaps the
// matching os.Std* file. Windows only knows the process's own three slots.
func (s Streams) replace(slot int, f *os.File) error {
	if s != Std {
		return errors.New("only the standard streams can be rebound on windows")
	}

	var (
		stdHandle uint32
		target    **os.File
		name      string
	)
	switch slot {
	case Std.In:
		stdHandle, target, name = windows.STD_INPUT_HANDLE, &os.Stdin, "/dev/stdin"
	case Std.Out:
		stdHandle, target, name = windows.STD_OUTPUT_HANDLE, &os.Stdout, "/dev/stdout"
	case Std.Err:
		stdHandle, target, name = windows.STD_ERROR_HANDLE, &os.Stderr, "/dev/stderr"
	default:
		return fmt.Errorf("unknown stream slot %d", slot)
	}

	self := windows.CurrentProcess()
	var dup windows.Handle
	if err := windows.DuplicateHandle(self, windows.Handle(f.Fd()), self, &dup, 0, true, windows.DUPLICATE_SAME_ACCESS); err != nil {
		return fmt.Errorf("duplicate handle for slot %d: %w", slot, err)
	}
	if err := windows.SetStdHandle(stdHandle, dup); err != nil {
		windows.CloseHandle(dup)
		return fmt.Errorf("set std handle for slot %d: %w", slot, err)
	}

	old := *target
	*target = os.NewFile(uintptr(dup), name)
	if old != nil {
		old.Close()
	}
	return nil
}

// lift is a no-op: handles are not allocated from the slots of Streams.
func (s Streams) lift(f *os.File) (*os.File, error) {
	return f, nil
}
