package daemon

import (
	"os"
	"os/exec"
)

// system is the set of OS primitives the state machine drives.
type system interface {
	// spawn starts exe with args and env, inheriting stdio, and lets it run
	// independently of the caller.
	spawn(exe string, args, env []string) error
	setsid() error
	discard(s Streams, nullDevice string) error
	exit(code int)

	executable() (string, error)
	environ() []string
	lookupEnv(key string) (string, bool)
	unsetenv(key string)
}

type osSystem struct{}

func (osSystem) spawn(exe string, args, env []string) error {
	cmd := exec.Command(exe, args...)
	cmd.Env = env
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = getSysProcAttr()

	if err := cmd.Start(); err != nil {
		return err
	}
	// Not waited on: this process exits right after and the child is
	// re-parented.
	return cmd.Process.Release()
}

func (osSystem) setsid() error {
	return setsid()
}

func (osSystem) discard(s Streams, nullDevice string) error {
	return s.discard(nullDevice)
}

func (osSystem) exit(code int) {
	ImmediateExit(code)
}

func (osSystem) executable() (string, error) {
	return os.Executable()
}

func (osSystem) environ() []string {
	return os.Environ()
}

func (osSystem) lookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

func (osSystem) unsetenv(key string) {
	_ = os.Unsetenv(key)
}
