package daemon

import (
	"io"
	"os"
)

const (
	// DefaultStageEnv is the environment variable carrying the stage marker
	// between re-executed processes.
	DefaultStageEnv = "DETACH_INTERNAL_STAGE"

	// DefaultFailureCode is the exit status of a stage that fails after the
	// original process has exited.
	DefaultFailureCode = 1
)

// Config controls a Detacher. The zero value is usable.
//
// Example:
//
//	d := daemon.New(daemon.Config{
//	    OnTerminate: func(os.Signal) { srv.Shutdown() },
//	})
//	if err := d.Detach(); err != nil {
//	    return err
//	}
type Config struct {
	// NullDevice is the discard destination bound to stdout and stderr.
	// Defaults to os.DevNull.
	NullDevice string

	// StageEnv names the environment variable holding the stage marker.
	// Defaults to DefaultStageEnv.
	StageEnv string

	// Executable and Args describe how to re-execute the program.
	// Default to os.Executable() and os.Args[1:].
	Executable string
	Args       []string

	// Streams are the descriptor slots rebound to the null device.
	// Defaults to Std.
	Streams Streams

	// Stderr receives failures that happen after the original process has
	// exited. It must still point somewhere visible, which in practice means
	// the inherited stderr. Defaults to os.Stderr.
	Stderr io.Writer

	// FailureCode is the exit status used with Stderr. Defaults to
	// DefaultFailureCode.
	FailureCode int

	// OnTerminate, if set, is called from a goroutine in the surviving process
	// for every SIGTERM it receives.
	OnTerminate func(os.Signal)
}

func (c Config) withDefaults() Config {
	if c.NullDevice == "" {
		c.NullDevice = os.DevNull
	}
	if c.StageEnv == "" {
		c.StageEnv = DefaultStageEnv
	}
	if c.Streams == (Streams{}) {
		c.Streams = Std
	}
	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}
	if c.FailureCode == 0 {
		c.FailureCode = DefaultFailureCode
	}
	return c
}
