// Package daemon provides the primitives a program needs to turn itself into
// a background process.
//
// # Core Components
//
// 1. Detacher (Detach)
//   - Double fork + setsid: the surviving process has no controlling terminal
//     and is re-parented away from the invoking shell
//   - Rebinds stdout and stderr to the null device
//   - Go cannot fork a running runtime, so each "fork" re-executes the current
//     binary with a stage marker in the environment; the new process resumes
//     the state machine at that stage when it reaches the same Detach call
//
// 2. StreamRebinder (RebindStreams, Streams.Rebind)
//   - Points stdout and stderr at a log file opened in append mode
//   - The file is opened before any stream is touched, so a failed rebind
//     leaves the process with its streams intact
//
// 3. ImmediateExit
//   - Terminates without running deferred functions or flushing buffers
//
// # Usage Pattern
//
// Detach must run before the program has started goroutines or opened
// resources it cares about: intermediate stages run the program from the top
// and exit inside Detach.
//
//	func main() {
//	    if err := daemon.Detach(); err != nil {
//	        // Only the original process gets here; its parent shell sees the error.
//	        log.Fatalf("detach: %v", err)
//	    }
//
//	    if err := daemon.RebindStreams("/var/log/app.log"); err != nil {
//	        daemon.ImmediateExit(1)
//	    }
//
//	    serve()
//	}
//
// # Failure Reporting
//
// Failures of the first fork are returned to the caller. Failures after that
// happen in a process whose caller has already exited, so they are written to
// the inherited stderr (still the terminal at that point) and the process
// exits with Config.FailureCode.
package daemon

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// Detacher runs the detachment state machine for the current process.
type Detacher struct {
	cfg    Config
	sys    system
	origin State
	state  State
}

// New creates a Detacher. Zero fields of cfg are filled with defaults.
func New(cfg Config) *Detacher {
	return newDetacher(cfg, osSystem{})
}

func newDetacher(cfg Config, sys system) *Detacher {
	d := &Detacher{
		cfg: cfg.withDefaults(),
		sys: sys,
	}
	d.origin = d.resume()
	d.state = d.origin
	return d
}

// Detach detaches the current process using the default Config.
func Detach() error {
	return New(Config{}).Detach()
}

// Resuming reports whether the current process is an intermediate or final
// stage of a detachment started by an ancestor, using the default stage
// marker. Callers use it to skip work that should only happen once, before
// the first fork.
func Resuming() bool {
	_, ok := parseState(os.Getenv(DefaultStageEnv))
	return ok
}

// Resuming reports whether this Detacher picks up a sequence started by an
// ancestor process.
func (d *Detacher) Resuming() bool {
	return d.origin != StateStart
}

// State returns the last state the Detacher reached.
func (d *Detacher) State() State {
	return d.state
}

// Detach runs the sequence Start -> ForkedOnce -> SessionLeader ->
// ForkedTwice -> Done. The original process and the intermediate session
// leader exit with status 0 inside this call; only the surviving process
// returns nil.
func (d *Detacher) Detach() error {
	state := d.origin
	for {
		d.state = state

		var err error
		switch state {
		case StateStart:
			state, err = d.forkOnce()
		case StateForkedOnce:
			state, err = d.createSession()
		case StateSessionLeader:
			state, err = d.forkTwice()
		case StateForkedTwice:
			state, err = d.discardOutput()
		case StateDone:
			d.sys.unsetenv(d.cfg.StageEnv)
			d.installTermHandler()
			return nil
		case StateExited:
			return nil
		default:
			return fmt.Errorf("detach: unexpected state %s", state)
		}

		if err != nil {
			return d.fail(err)
		}
	}
}

func (d *Detacher) forkOnce() (State, error) {
	if err := d.spawn(StateForkedOnce); err != nil {
		return StateFailed, err
	}
	d.sys.exit(0)
	return StateExited, nil
}

func (d *Detacher) createSession() (State, error) {
	if err := d.sys.setsid(); err != nil {
		return StateFailed, newError(ErrSessionCreationFailed, "setsid()", err)
	}
	return StateSessionLeader, nil
}

func (d *Detacher) forkTwice() (State, error) {
	if err := d.spawn(StateForkedTwice); err != nil {
		return StateFailed, err
	}
	d.sys.exit(0)
	return StateExited, nil
}

func (d *Detacher) discardOutput() (State, error) {
	if err := d.sys.discard(d.cfg.Streams, d.cfg.NullDevice); err != nil {
		return StateFailed, err
	}
	return StateDone, nil
}

// spawn starts a copy of the program that resumes at next.
func (d *Detacher) spawn(next State) error {
	exe := d.cfg.Executable
	if exe == "" {
		var err error
		if exe, err = d.sys.executable(); err != nil {
			return newError(ErrForkFailed, "fork()", err)
		}
	}

	args := d.cfg.Args
	if args == nil && len(os.Args) > 1 {
		args = os.Args[1:]
	}

	env := withStage(d.sys.environ(), d.cfg.StageEnv, next)
	if err := d.sys.spawn(exe, args, env); err != nil {
		return newError(ErrForkFailed, "fork()", err)
	}
	return nil
}

// fail reports err. Once the original process has exited nobody is left to
// receive a return value, so the error goes to the inherited stderr and the
// process exits.
func (d *Detacher) fail(err error) error {
	d.state = StateFailed
	if d.Resuming() {
		fmt.Fprintf(d.cfg.Stderr, "detach: %v\n", err)
		d.sys.exit(d.cfg.FailureCode)
	}
	return err
}

func (d *Detacher) installTermHandler() {
	if d.cfg.OnTerminate == nil {
		return
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM)
	go func() {
		for sig := range sigCh {
			d.cfg.OnTerminate(sig)
		}
	}()
}

func (d *Detacher) resume() State {
	v, _ := d.sys.lookupEnv(d.cfg.StageEnv)
	if state, ok := parseState(v); ok {
		return state
	}
	return StateStart
}
