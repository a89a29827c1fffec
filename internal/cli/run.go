package cli

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mvp-joe/detach/internal/config"
	"github.com/mvp-joe/detach/internal/daemon"
)

// runIDEnv carries the run id from the original process to every stage and
// to the workload.
const runIDEnv = "DETACH_RUN_ID"

const (
	// exitNotStarted follows the shell convention for a command that could
	// not be executed.
	exitNotStarted = 127

	// exitTerminated is 128+SIGTERM, used when SIGTERM arrives before the
	// workload is running.
	exitTerminated = 143
)

var (
	runLogFile    string
	runNullDevice string
)

var runCmd = &cobra.Command{
	Use:   "run [flags] -- command [args...]",
	Short: "Run a command as a detached background process",
	Long: `Run a command as a detached background process.

The launcher detaches from the terminal (fork, setsid, fork), points its
stdout and stderr at the log file (--log, default ~/.detach/detach.log) and
runs the command with the same streams. The shell gets control back as soon
as the first fork is done.

SIGTERM sent to the launcher is forwarded to the command. The launcher exits
with the command's exit status.`,
	Example: `  detach run -- python3 -m http.server 8000
  detach run --log /tmp/worker.log -- ./worker --queue jobs`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runLogFile, "log", "", "file receiving stdout and stderr after detaching")
	runCmd.Flags().StringVar(&runNullDevice, "null-device", "", "discard destination used while detaching")
}

func runRun(cmd *cobra.Command, args []string) error {
	if err := applyRunFlags(cmd); err != nil {
		return err
	}

	runID := ensureRunID()
	log := logger.With(zap.String("run_id", runID))

	if !daemon.Resuming() {
		log.Info("Detaching",
			zap.Strings("command", args),
			zap.String("log_file", cfg.Log.File),
		)
	}

	var w workload
	d := daemon.New(daemon.Config{
		NullDevice:  cfg.Daemon.NullDevice,
		FailureCode: cfg.Daemon.FailureCode,
		OnTerminate: func(sig os.Signal) {
			w.signal(sig, func() { daemon.ImmediateExit(exitTerminated) })
		},
	})
	if err := d.Detach(); err != nil {
		return fmt.Errorf("failed to detach: %w", err)
	}

	// From here on stderr is the null device until the rebind succeeds, so
	// a failure can only be signalled through the exit status.
	if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0755); err != nil {
		daemon.ImmediateExit(cfg.Daemon.FailureCode)
	}
	if err := daemon.RebindStreams(cfg.Log.File); err != nil {
		daemon.ImmediateExit(cfg.Daemon.FailureCode)
	}

	log.Info("Detached",
		zap.Int("pid", os.Getpid()),
		zap.Int("ppid", os.Getppid()),
	)

	status := runWorkload(args, &w, log)

	log.Info("Workload finished", zap.Int("status", status))
	_ = logger.Sync()

	// Nothing is left to clean up; skip cobra's return path and deferred work.
	daemon.ImmediateExit(status)
	return nil
}

// applyRunFlags lets explicit flags override the loaded configuration and
// validates the result.
func applyRunFlags(cmd *cobra.Command) error {
	if cmd.Flags().Changed("log") {
		path, err := config.ExpandHome(runLogFile)
		if err != nil {
			return fmt.Errorf("failed to expand log file path: %w", err)
		}
		cfg.Log.File = path
	}
	if cmd.Flags().Changed("null-device") {
		cfg.Daemon.NullDevice = runNullDevice
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}

// ensureRunID returns the run id shared by all stages, generating it in the
// original process.
func ensureRunID() string {
	if id := os.Getenv(runIDEnv); id != "" {
		return id
	}
	id := uuid.NewString()
	_ = os.Setenv(runIDEnv, id)
	return id
}

// workload is the command run by the survivor, shared with the SIGTERM
// handler.
type workload struct {
	mu      sync.Mutex
	proc    *os.Process
	stopped bool
}

// start starts c unless a termination signal already arrived.
func (w *workload) start(c *exec.Cmd) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return errTerminated
	}
	if err := c.Start(); err != nil {
		return err
	}
	w.proc = c.Process
	return nil
}

// signal forwards sig to the running process. Without one it marks the
// workload stopped and calls otherwise; start cannot run concurrently.
func (w *workload) signal(sig os.Signal, otherwise func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.proc != nil {
		_ = w.proc.Signal(sig)
		return
	}
	w.stopped = true
	otherwise()
}

func (w *workload) process() *os.Process {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.proc
}

var errTerminated = errors.New("terminated before start")

// runWorkload starts argv with the process's current streams through w and
// waits for it.
func runWorkload(argv []string, w *workload, log *zap.Logger) int {
	c := exec.Command(argv[0], argv[1:]...)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr

	if err := w.start(c); err != nil {
		if errors.Is(err, errTerminated) {
			return exitTerminated
		}
		log.Error("Failed to start workload", zap.Strings("command", argv), zap.Error(err))
		return exitNotStarted
	}
	log.Info("Workload started", zap.Int("pid", c.Process.Pid), zap.Strings("command", argv))

	err := c.Wait()
	if err != nil {
		log.Warn("Workload exited abnormally", zap.Error(err))
	}
	return exitStatus(err)
}

// exitStatus maps the result of exec.Cmd.Wait to a process exit status.
func exitStatus(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code >= 0 {
			return code
		}
		// Killed by a signal.
		return signalStatus(exitErr)
	}
	return 1
}
