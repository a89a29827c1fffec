package daemon

import (
	"fmt"
	"os"
)

// Streams is the record of the three standard stream slots of a process.
// Redirections replace the descriptor in a slot in one step (dup2), so a slot
// never points at a closed descriptor in between.
type Streams struct {
	In  int
	Out int
	Err int
}

// Std holds the process's real standard streams.
var Std = Streams{In: 0, Out: 1, Err: 2}

// RebindStreams points the process's stdout and stderr at path.
// See Streams.Rebind.
func RebindStreams(path string) error {
	return Std.Rebind(path)
}

// Rebind opens path for appending (creating it with mode 0644 if absent) and
// binds it to both Out and Err. In is released and re-attached to the null
// device so its slot cannot be handed out to a later open.
//
// The file is opened before any slot is touched: if the open fails, Rebind
// returns an error wrapping ErrRebindOpenFailed and every stream is left as
// it was. Slots that were already closed are bound like open ones.
// Rebinding again releases the previous file completely.
func (s Streams) Rebind(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err == nil {
		f, err = s.lift(f)
	}
	if err != nil {
		return newError(ErrRebindOpenFailed, fmt.Sprintf("open(%s)", path), err)
	}
	defer f.Close()

	in, err := os.Open(os.DevNull)
	if err == nil {
		in, err = s.lift(in)
	}
	if err != nil {
		return newError(ErrRebindOpenFailed, fmt.Sprintf("open(%s)", os.DevNull), err)
	}
	defer in.Close()

	if err := s.replace(s.In, in); err != nil {
		return err
	}
	return s.replaceOutput(f)
}

// discard binds Out and Err to the null sink at nullDevice. In is left alone.
func (s Streams) discard(nullDevice string) error {
	f, err := os.OpenFile(nullDevice, os.O_RDWR, 0)
	if err == nil {
		f, err = s.lift(f)
	}
	if err != nil {
		return newError(ErrSinkOpenFailed, fmt.Sprintf("open(%s)", nullDevice), err)
	}
	defer f.Close()

	return s.replaceOutput(f)
}

func (s Streams) replaceOutput(f *os.File) error {
	if err := s.replace(s.Out, f); err != nil {
		return err
	}
	return s.replace(s.Err, f)
}
